package condition

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// ProjectionKey é a chave do Spec que define os atributos retornados.
	ProjectionKey = "ProjectionExpression"
	// PathSeparatorToken substitui o ponto de caminhos aninhados nas chaves.
	PathSeparatorToken = "_dot_"
	// OperatorSeparator separa o caminho do operador na chave.
	OperatorSeparator = "__"
)

// Spec mapeia chaves `<caminho>__<operador>` para operandos.
//
//	condition.Spec{
//		"email__eq":            "nome@dom.com",
//		"address_dot_city__eq": "Recife",
//		"age__between":         []any{18, 30},
//		"deleted__not_exists":  nil,
//	}
type Spec map[string]any

// Filter é o resultado de Build.
type Filter struct {
	// Where combina todas as condições com OR.
	Where Predicate
	// Projection lista os atributos pedidos em ProjectionKey.
	Projection []string
}

// HasProjection reporta se o Spec trazia a chave de projeção.
func (f Filter) HasProjection() bool {
	return len(f.Projection) > 0
}

// Build traduz o Spec em uma árvore de predicados.
//
// As comparações são ordenadas por caminho e operador (a chave original
// desempata), então a mesma entrada sempre gera a mesma árvore.
func Build(spec Spec) (Filter, error) {
	var f Filter

	keys := make([]string, 0, len(spec))
	for k := range spec {
		if k == ProjectionKey {
			proj, err := parseProjection(spec[k])
			if err != nil {
				return Filter{}, err
			}
			f.Projection = proj
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	type keyed struct {
		key string
		cmp *Comparison
	}
	parsed := make([]keyed, 0, len(keys))
	for _, k := range keys {
		c, err := parseComparison(k, spec[k])
		if err != nil {
			return Filter{}, err
		}
		parsed = append(parsed, keyed{key: k, cmp: c})
	}
	if len(parsed) == 0 {
		return Filter{}, ErrEmptyFilter
	}

	sort.Slice(parsed, func(i, j int) bool {
		a, b := parsed[i], parsed[j]
		if a.cmp.Path != b.cmp.Path {
			return a.cmp.Path < b.cmp.Path
		}
		if a.cmp.Operator != b.cmp.Operator {
			return a.cmp.Operator.String() < b.cmp.Operator.String()
		}
		return a.key < b.key
	})

	preds := make([]Predicate, len(parsed))
	for i, p := range parsed {
		preds[i] = p.cmp
	}
	f.Where = Fold(preds...)
	return f, nil
}

// FieldPath converte o caminho da chave para o caminho real do atributo.
func FieldPath(raw string) string {
	return strings.ReplaceAll(raw, PathSeparatorToken, ".")
}

func parseComparison(key string, value any) (*Comparison, error) {
	field, name, _ := strings.Cut(key, OperatorSeparator)

	op, err := ParseOperator(name)
	if err != nil {
		return nil, err
	}

	args, err := argsFromValue(key, op, value)
	if err != nil {
		return nil, err
	}

	return &Comparison{Path: FieldPath(field), Operator: op, Args: args}, nil
}

func argsFromValue(key string, op Operator, value any) ([]any, error) {
	switch op.Arity() {
	case 0:
		return nil, nil
	case 1:
		return []any{value}, nil
	}

	pair, ok := asSequence(value)
	if !ok || len(pair) != 2 {
		return nil, &InvalidOperandError{Key: key, Operator: op, Reason: "expected a 2-element sequence"}
	}
	return pair, nil
}

// asSequence aceita as formas de lista mais comuns sem recorrer a reflection.
func asSequence(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case [2]any:
		return t[:], true
	case []string:
		return toAny(t), true
	case []int:
		return toAny(t), true
	case []int64:
		return toAny(t), true
	case []float64:
		return toAny(t), true
	default:
		return nil, false
	}
}

func toAny[E any](in []E) []any {
	out := make([]any, len(in))
	for i, e := range in {
		out[i] = e
	}
	return out
}

func parseProjection(v any) ([]string, error) {
	var raw []string
	switch t := v.(type) {
	case string:
		raw = strings.Split(t, ",")
	case []string:
		raw = t
	case []any:
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%w: entries must be strings, got %T", ErrInvalidProjection, e)
			}
			raw = append(raw, s)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidProjection, v)
	}

	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, FieldPath(p))
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptyProjection
	}
	return out, nil
}
