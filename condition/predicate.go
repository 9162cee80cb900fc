package condition

import (
	"fmt"
	"strings"
)

// Predicate é um nó da árvore de condições: *Comparison ou *Or.
type Predicate interface {
	fmt.Stringer
	predicate()
}

// Comparison compara um único atributo.
type Comparison struct {
	// Path é o caminho do atributo com pontos para níveis aninhados (ex: "a.b").
	Path     string
	Operator Operator
	// Args tem exatamente Operator.Arity() elementos.
	Args []any
}

// Or combina dois predicados com OU lógico.
type Or struct {
	Left, Right Predicate
}

func (*Comparison) predicate() {}
func (*Or) predicate()         {}

func (c *Comparison) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Path)
	for _, a := range c.Args {
		parts = append(parts, fmt.Sprintf("%v", a))
	}
	return fmt.Sprintf("%s(%s)", c.Operator, strings.Join(parts, ", "))
}

func (o *Or) String() string {
	return fmt.Sprintf("(%s OR %s)", o.Left, o.Right)
}

// Fold combina os predicados com OR da esquerda para a direita.
// Devolve nil quando não há predicados.
func Fold(preds ...Predicate) Predicate {
	var acc Predicate
	for _, p := range preds {
		if p == nil {
			continue
		}
		if acc == nil {
			acc = p
			continue
		}
		acc = &Or{Left: acc, Right: p}
	}
	return acc
}

// Leaves devolve as comparações da árvore na ordem em que foram combinadas.
func Leaves(p Predicate) []*Comparison {
	switch n := p.(type) {
	case *Comparison:
		return []*Comparison{n}
	case *Or:
		return append(Leaves(n.Left), Leaves(n.Right)...)
	default:
		return nil
	}
}
