// Package rules valida itens com expressões CEL antes de serem gravados.
//
// Cada regra recebe o item na variável `item`:
//
//	rules:
//	  - name: email-obrigatorio
//	    expression: has(item.email) && item.email.contains('@')
//	    message: email inválido
package rules

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/raywall/dynadapter/pkg/config"
)

// Violation descreve uma regra que rejeitou o item.
type Violation struct {
	Rule    string
	Message string
}

// ValidationError agrupa todas as regras violadas por um item.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, fmt.Sprintf("%s: %s", v.Rule, v.Message))
	}
	return "rules: item rejected: " + strings.Join(msgs, "; ")
}

type compiledRule struct {
	name    string
	message string
	prg     cel.Program
}

// Validator mantém as regras já compiladas.
type Validator struct {
	rules []compiledRule
}

// NewValidator compila as regras. Expressões inválidas ou que não resultam
// em bool falham aqui, na inicialização.
func NewValidator(confs []config.RuleConf) (*Validator, error) {
	env, err := cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.CrossTypeNumericComparisons(true),
	)
	if err != nil {
		return nil, fmt.Errorf("rules: init cel: %w", err)
	}

	v := &Validator{rules: make([]compiledRule, 0, len(confs))}
	for _, rc := range confs {
		ast, issues := env.Compile(rc.Expression)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("rules: compile %q: %w", rc.Name, issues.Err())
		}
		switch out := ast.OutputType().String(); out {
		case "bool", "dyn":
		default:
			return nil, fmt.Errorf("rules: %q must evaluate to bool, got %s", rc.Name, out)
		}

		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("rules: program %q: %w", rc.Name, err)
		}

		msg := rc.Message
		if msg == "" {
			msg = "expression " + rc.Expression + " is false"
		}
		v.rules = append(v.rules, compiledRule{name: rc.Name, message: msg, prg: prg})
	}
	return v, nil
}

// Len devolve quantas regras estão ativas.
func (v *Validator) Len() int { return len(v.rules) }

// Validate avalia todas as regras; devolve *ValidationError listando as
// violadas. Uma regra que falha na avaliação conta como violada.
func (v *Validator) Validate(item map[string]any) error {
	var violations []Violation
	for _, r := range v.rules {
		out, _, err := r.prg.Eval(map[string]any{"item": item})
		if err != nil {
			violations = append(violations, Violation{Rule: r.name, Message: err.Error()})
			continue
		}
		if ok, isBool := out.Value().(bool); !isBool || !ok {
			violations = append(violations, Violation{Rule: r.name, Message: r.message})
		}
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
