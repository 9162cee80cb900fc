package graphql

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/raywall/dynadapter/adapter"
	"github.com/raywall/dynadapter/localdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

func newTestEngine(t *testing.T) (*Engine, *adapter.Adapter[map[string]any]) {
	t.Helper()

	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	items, err := adapter.New[map[string]any](context.Background(), localdb.New(db, "gql", ""), adapter.MapCodec{})
	require.NoError(t, err)

	e, err := NewEngine(items)
	require.NoError(t, err)
	return e, items
}

func TestEngine_SaveAndQuery(t *testing.T) {
	t.Parallel()
	e, _ := newTestEngine(t)
	ctx := context.Background()

	res := e.Execute(ctx, `mutation { save(item: {entity_id: "u1", name: "Ana", tags: ["a", "b"]}) }`, "", nil)
	require.Empty(t, res.Errors)
	assert.Equal(t, "u1", res.Data.(map[string]interface{})["save"])

	res = e.Execute(ctx, `query Get($id: String!) { item(id: $id) }`, "", map[string]interface{}{"id": "u1"})
	require.Empty(t, res.Errors)
	item := res.Data.(map[string]interface{})["item"].(map[string]any)
	assert.Equal(t, "Ana", item["name"])
	assert.Equal(t, []any{"a", "b"}, item["tags"])

	res = e.Execute(ctx, `{ item(id: "nope") }`, "", nil)
	require.Empty(t, res.Errors)
	assert.Nil(t, res.Data.(map[string]interface{})["item"])

	res = e.Execute(ctx, `{ items }`, "", nil)
	require.Empty(t, res.Errors)
	assert.Len(t, res.Data.(map[string]interface{})["items"], 1)
}

func TestEngine_Filter(t *testing.T) {
	t.Parallel()
	e, items := newTestEngine(t)
	ctx := context.Background()

	for _, name := range []string{"Ana", "Bia", "Caio"} {
		_, err := items.Save(ctx, map[string]any{"name": name, "city": "Recife"})
		require.NoError(t, err)
	}

	res := e.Execute(ctx, `{ filter(where: {name__begins_with: "B"}) }`, "", nil)
	require.Empty(t, res.Errors)
	got := res.Data.(map[string]interface{})["filter"].([]interface{})
	require.Len(t, got, 1)
	assert.Equal(t, "Bia", got[0].(map[string]any)["name"])

	res = e.Execute(ctx, `query F($w: JSON!) { filter(where: $w) }`, "",
		map[string]interface{}{"w": map[string]interface{}{"name__eq": "Caio", "ProjectionExpression": "city"}})
	require.Empty(t, res.Errors)
	projected := res.Data.(map[string]interface{})["filter"].([]interface{})
	require.Len(t, projected, 1)
	assert.Equal(t, map[string]any{"city": "Recife"}, projected[0])

	res = e.Execute(ctx, `{ filter(where: {name__oops: 1}) }`, "", nil)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0].Message, "invalid operator")
}

func TestEngine_Delete(t *testing.T) {
	t.Parallel()
	e, items := newTestEngine(t)
	ctx := context.Background()

	id, err := items.Save(ctx, map[string]any{"name": "Ana"})
	require.NoError(t, err)

	res := e.Execute(ctx, `mutation D($id: String!) { delete(id: $id) }`, "", map[string]interface{}{"id": id})
	require.Empty(t, res.Errors)
	assert.Equal(t, id, res.Data.(map[string]interface{})["delete"])

	_, err = items.GetByID(ctx, id)
	assert.ErrorIs(t, err, adapter.ErrNotFound)
}

func TestLiteral(t *testing.T) {
	t.Parallel()

	v := literal(&ast.ObjectValue{Fields: []*ast.ObjectField{
		{Name: &ast.Name{Value: "n"}, Value: &ast.IntValue{Value: "7"}},
		{Name: &ast.Name{Value: "f"}, Value: &ast.FloatValue{Value: "1.5"}},
		{Name: &ast.Name{Value: "ok"}, Value: &ast.BooleanValue{Value: true}},
		{Name: &ast.Name{Value: "l"}, Value: &ast.ListValue{Values: []ast.Value{&ast.StringValue{Value: "x"}}}},
	}})

	assert.Equal(t, map[string]interface{}{
		"n":  int64(7),
		"f":  1.5,
		"ok": true,
		"l":  []interface{}{"x"},
	}, v)
	assert.Nil(t, literal(&ast.IntValue{Value: "99999999999999999999"}))
}

func TestEngine_ServeHTTP(t *testing.T) {
	t.Parallel()
	e, _ := newTestEngine(t)

	body := `{"query":"mutation($i: JSON!) { save(item: $i) }","variables":{"i":{"entity_id":"h1","n":3}}}`
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, map[string]any{"save": "h1"}, out["data"])

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader("[1]")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
