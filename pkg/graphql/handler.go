package graphql

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/raywall/dynadapter/json/decode"
)

// Engine executa queries contra o schema do adapter.
type Engine struct {
	Schema graphql.Schema
}

func NewEngine(items Items) (*Engine, error) {
	schema, err := NewSchema(items)
	if err != nil {
		return nil, err
	}
	return &Engine{Schema: schema}, nil
}

func (e *Engine) Execute(ctx context.Context, query, operation string, variables map[string]interface{}) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         e.Schema,
		RequestString:  query,
		OperationName:  operation,
		VariableValues: variables,
		Context:        ctx,
	})
}

// ServeHTTP aceita POST com {"query", "operationName", "variables"}.
// Erros de execução voltam em `errors` com status 200.
func (e *Engine) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, `{"error":"could not read body"}`, http.StatusBadRequest)
		return
	}
	body, err := decode.Object(raw)
	if err != nil {
		http.Error(w, `{"error":"invalid json body"}`, http.StatusBadRequest)
		return
	}

	query, _ := body["query"].(string)
	operation, _ := body["operationName"].(string)
	variables, _ := body["variables"].(map[string]interface{})

	result := e.Execute(r.Context(), query, operation, variables)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}
