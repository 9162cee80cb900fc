// Package graphql expõe as operações do adapter em um schema GraphQL fixo.
// Itens trafegam no escalar JSON, já que os atributos são livres.
//
//	query  { item(id: "42") items filter(where: {age__gt: 18, ProjectionExpression: "name"}) }
//	mutation { save(item: {name: "Ana"}) delete(id: "42") }
package graphql

import (
	"context"
	"errors"
	"strconv"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/raywall/dynadapter/adapter"
	"github.com/raywall/dynadapter/condition"
)

// Items é o subconjunto do adapter usado pelos resolvers.
type Items interface {
	Save(ctx context.Context, data map[string]any) (string, error)
	GetByID(ctx context.Context, id string) (map[string]any, error)
	ListAll(ctx context.Context) ([]map[string]any, error)
	Delete(ctx context.Context, id string) (string, error)
	Filter(ctx context.Context, spec condition.Spec) (adapter.Result[map[string]any], error)
}

// JSON aceita e devolve qualquer valor JSON.
var JSON = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "JSON",
	Description: "Valor JSON arbitrário (objeto, lista, número, texto ou booleano).",
	Serialize:   func(value interface{}) interface{} { return value },
	ParseValue:  func(value interface{}) interface{} { return value },
	ParseLiteral: func(valueAST ast.Value) interface{} {
		return literal(valueAST)
	},
})

// literal converte um valor inline da query. Inteiros viram int64.
func literal(v ast.Value) interface{} {
	switch t := v.(type) {
	case *ast.StringValue:
		return t.Value
	case *ast.BooleanValue:
		return t.Value
	case *ast.IntValue:
		if i, err := strconv.ParseInt(t.Value, 10, 64); err == nil {
			return i
		}
		return nil
	case *ast.FloatValue:
		if f, err := strconv.ParseFloat(t.Value, 64); err == nil {
			return f
		}
		return nil
	case *ast.ListValue:
		out := make([]interface{}, 0, len(t.Values))
		for _, e := range t.Values {
			out = append(out, literal(e))
		}
		return out
	case *ast.ObjectValue:
		out := make(map[string]interface{}, len(t.Fields))
		for _, f := range t.Fields {
			out[f.Name.Value] = literal(f.Value)
		}
		return out
	}
	return nil
}

// NewSchema monta o schema com resolvers ligados a items.
func NewSchema(items Items) (graphql.Schema, error) {
	idArg := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"item": &graphql.Field{
				Type: JSON,
				Args: idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					item, err := items.GetByID(p.Context, p.Args["id"].(string))
					if errors.Is(err, adapter.ErrNotFound) {
						return nil, nil
					}
					return item, err
				},
			},
			"items": &graphql.Field{
				Type: graphql.NewList(JSON),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return items.ListAll(p.Context)
				},
			},
			"filter": &graphql.Field{
				Type: graphql.NewList(JSON),
				Args: graphql.FieldConfigArgument{
					"where": &graphql.ArgumentConfig{Type: graphql.NewNonNull(JSON)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					where, ok := p.Args["where"].(map[string]interface{})
					if !ok {
						return nil, errors.New("where must be an object")
					}
					res, err := items.Filter(p.Context, condition.Spec(where))
					if err != nil {
						return nil, err
					}
					if res.Projected {
						return res.Items, nil
					}
					return res.Entities, nil
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"save": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"item": &graphql.ArgumentConfig{Type: graphql.NewNonNull(JSON)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					data, ok := p.Args["item"].(map[string]interface{})
					if !ok {
						return nil, errors.New("item must be an object")
					}
					return items.Save(p.Context, data)
				},
			},
			"delete": &graphql.Field{
				Type: graphql.String,
				Args: idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return items.Delete(p.Context, p.Args["id"].(string))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}
