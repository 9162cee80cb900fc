package condition

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
)

// Expression converte a árvore para o ConditionBuilder do SDK do DynamoDB.
func Expression(p Predicate) (expression.ConditionBuilder, error) {
	switch n := p.(type) {
	case *Comparison:
		return comparisonExpression(n)
	case *Or:
		left, err := Expression(n.Left)
		if err != nil {
			return expression.ConditionBuilder{}, err
		}
		right, err := Expression(n.Right)
		if err != nil {
			return expression.ConditionBuilder{}, err
		}
		return left.Or(right), nil
	default:
		return expression.ConditionBuilder{}, fmt.Errorf("condition: unsupported predicate %T", p)
	}
}

// Projection converte a lista de caminhos para o ProjectionBuilder do SDK.
func Projection(paths []string) (expression.ProjectionBuilder, error) {
	if len(paths) == 0 {
		return expression.ProjectionBuilder{}, ErrEmptyProjection
	}
	names := make([]expression.NameBuilder, 0, len(paths))
	for _, p := range paths {
		names = append(names, expression.Name(p))
	}
	return expression.NamesList(names[0], names[1:]...), nil
}

func comparisonExpression(c *Comparison) (expression.ConditionBuilder, error) {
	if len(c.Args) != c.Operator.Arity() {
		return expression.ConditionBuilder{}, &InvalidOperandError{
			Key:      c.Path,
			Operator: c.Operator,
			Reason:   fmt.Sprintf("expected %d arguments, got %d", c.Operator.Arity(), len(c.Args)),
		}
	}

	name := expression.Name(c.Path)

	switch c.Operator {
	case Eq:
		return name.Equal(expression.Value(c.Args[0])), nil
	case Ne:
		return name.NotEqual(expression.Value(c.Args[0])), nil
	case Lt:
		return name.LessThan(expression.Value(c.Args[0])), nil
	case Lte:
		return name.LessThanEqual(expression.Value(c.Args[0])), nil
	case Gt:
		return name.GreaterThan(expression.Value(c.Args[0])), nil
	case Gte:
		return name.GreaterThanEqual(expression.Value(c.Args[0])), nil
	case Between:
		return name.Between(expression.Value(c.Args[0]), expression.Value(c.Args[1])), nil
	case BeginsWith:
		prefix, ok := c.Args[0].(string)
		if !ok {
			return expression.ConditionBuilder{}, &InvalidOperandError{Key: c.Path, Operator: c.Operator, Reason: "expected a string prefix"}
		}
		return name.BeginsWith(prefix), nil
	case Contains:
		// substring em strings, elemento em listas e conjuntos
		return name.Contains(c.Args[0]), nil
	case IsIn:
		values, ok := asSequence(c.Args[0])
		if !ok || len(values) == 0 {
			return expression.ConditionBuilder{}, &InvalidOperandError{Key: c.Path, Operator: c.Operator, Reason: "expected a non-empty sequence"}
		}
		others := make([]expression.OperandBuilder, 0, len(values)-1)
		for _, v := range values[1:] {
			others = append(others, expression.Value(v))
		}
		return name.In(expression.Value(values[0]), others...), nil
	case Exists:
		return expression.AttributeExists(name), nil
	case NotExists:
		return expression.AttributeNotExists(name), nil
	case Size:
		return expression.GreaterThan(name.Size(), expression.Value(0)), nil
	default:
		return expression.ConditionBuilder{}, &InvalidOperatorError{Operator: c.Operator.String()}
	}
}
