package condition

import "fmt"

// Operator é um dos comparadores aceitos nas chaves de filtro.
type Operator int

const (
	BeginsWith Operator = iota
	Between
	Contains
	Eq
	Exists
	Gt
	Gte
	IsIn
	Lt
	Lte
	Ne
	NotExists
	Size

	operatorCount
)

type operatorInfo struct {
	name  string
	arity int
}

var operators = [operatorCount]operatorInfo{
	BeginsWith: {"begins_with", 1},
	Between:    {"between", 2},
	Contains:   {"contains", 1},
	Eq:         {"eq", 1},
	Exists:     {"exists", 0},
	Gt:         {"gt", 1},
	Gte:        {"gte", 1},
	IsIn:       {"is_in", 1},
	Lt:         {"lt", 1},
	Lte:        {"lte", 1},
	Ne:         {"ne", 1},
	NotExists:  {"not_exists", 0},
	Size:       {"size", 0},
}

var operatorsByName = make(map[string]Operator, operatorCount)

func init() {
	for op := Operator(0); op < operatorCount; op++ {
		info := operators[op]
		if info.name == "" {
			panic(fmt.Sprintf("condition: operator %d has no name", op))
		}
		if info.arity < 0 || info.arity > 2 {
			panic(fmt.Sprintf("condition: operator %s has invalid arity %d", info.name, info.arity))
		}
		if _, dup := operatorsByName[info.name]; dup {
			panic(fmt.Sprintf("condition: operator %s declared twice", info.name))
		}
		operatorsByName[info.name] = op
	}
}

// ParseOperator resolve o nome usado na chave de filtro (ex: "gte").
func ParseOperator(name string) (Operator, error) {
	op, ok := operatorsByName[name]
	if !ok {
		return 0, &InvalidOperatorError{Operator: name}
	}
	return op, nil
}

// Operators devolve todos os operadores na ordem da tabela.
func Operators() []Operator {
	out := make([]Operator, 0, operatorCount)
	for op := Operator(0); op < operatorCount; op++ {
		out = append(out, op)
	}
	return out
}

// Arity é a quantidade de argumentos que o operador consome.
func (op Operator) Arity() int {
	if !op.valid() {
		return 0
	}
	return operators[op].arity
}

func (op Operator) String() string {
	if !op.valid() {
		return fmt.Sprintf("Operator(%d)", int(op))
	}
	return operators[op].name
}

func (op Operator) valid() bool {
	return op >= 0 && op < operatorCount
}
