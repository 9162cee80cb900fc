package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/raywall/dynadapter/adapter"
	"github.com/raywall/dynadapter/condition"
	"github.com/raywall/dynadapter/localdb"
	"github.com/raywall/dynadapter/pkg/rules"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()

	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	items, err := adapter.New[map[string]any](context.Background(), localdb.New(db, "api", ""), adapter.MapCodec{})
	require.NoError(t, err)
	return NewAPI(items, zerolog.Nop(), time.Second).Router()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestAPI_CRUD(t *testing.T) {
	t.Parallel()
	h := newTestAPI(t)

	rec := do(t, h, http.MethodPost, "/items", `{"name":"Ana","score":9.5,"age":30}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decodeBody[map[string]string](t, rec)["id"]
	require.NotEmpty(t, id)

	rec = do(t, h, http.MethodPost, "/items", `{"entity_id":"bia","name":"Bia","age":19}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "bia", decodeBody[map[string]string](t, rec)["id"])

	rec = do(t, h, http.MethodGet, "/items/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	item := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "Ana", item["name"])
	assert.Equal(t, 9.5, item["score"])

	rec = do(t, h, http.MethodGet, "/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 2)

	rec = do(t, h, http.MethodDelete, "/items/bia", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bia", decodeBody[map[string]string](t, rec)["id"])

	rec = do(t, h, http.MethodGet, "/items/bia", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeBody[map[string]string](t, rec)["error"], "not found")
}

func TestAPI_Filter(t *testing.T) {
	t.Parallel()
	h := newTestAPI(t)

	for _, body := range []string{
		`{"entity_id":"1","name":"Ana","age":30,"address":{"city":"Recife"}}`,
		`{"entity_id":"2","name":"Bia","age":19,"address":{"city":"Olinda"}}`,
	} {
		require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/items", body).Code)
	}

	rec := do(t, h, http.MethodPost, "/items/filter", `{"age__gt": 20}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	entities := decodeBody[[]map[string]any](t, rec)
	require.Len(t, entities, 1)
	assert.Equal(t, "Ana", entities[0]["name"])

	rec = do(t, h, http.MethodPost, "/items/filter", `{"address_dot_city__eq":"Olinda","ProjectionExpression":"name"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []map[string]any{{"name": "Bia"}}, decodeBody[[]map[string]any](t, rec))
}

func TestAPI_BadRequests(t *testing.T) {
	t.Parallel()
	h := newTestAPI(t)

	tests := []struct {
		name, method, path, body string
		want                     int
	}{
		{"invalid json", http.MethodPost, "/items", `{nome`, http.StatusBadRequest},
		{"not an object", http.MethodPost, "/items", `[1]`, http.StatusBadRequest},
		{"invalid operator", http.MethodPost, "/items/filter", `{"age__oops":1}`, http.StatusBadRequest},
		{"invalid operand", http.MethodPost, "/items/filter", `{"age__between":1}`, http.StatusBadRequest},
		{"empty filter", http.MethodPost, "/items/filter", `{}`, http.StatusBadRequest},
		{"invalid projection", http.MethodPost, "/items/filter", `{"age__gt":1,"ProjectionExpression":7}`, http.StatusBadRequest},
		{"method not allowed", http.MethodPut, "/items", `{}`, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		rec := do(t, h, tt.method, tt.path, tt.body)
		assert.Equal(t, tt.want, rec.Code, tt.name)
	}
}

func TestAPI_Health(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestAPI(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAPI_GraphQL(t *testing.T) {
	t.Parallel()
	h := newTestAPI(t)

	rec := do(t, h, http.MethodPost, "/items", `{"entity_id":"g1","name":"Ana"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/graphql", `{"query":"{ item(id: \"g1\") }"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"data":{"item":{"entity_id":"g1","name":"Ana"}}}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/graphql", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestObservabilityMiddleware_CorrelationID(t *testing.T) {
	t.Parallel()
	h := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderCorrelationID, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(HeaderCorrelationID))
	assert.NotEmpty(t, rec.Header().Get(HeaderLatency))

	rec = do(t, h, http.MethodGet, "/health", "")
	assert.NotEmpty(t, rec.Header().Get(HeaderCorrelationID))
}

// stubItems devolve respostas fixas para exercitar o mapeamento de erros.
type stubItems struct {
	err  error
	wait bool
}

func (s stubItems) Save(context.Context, map[string]any) (string, error) { return "", s.err }

func (s stubItems) GetByID(context.Context, string) (map[string]any, error) { return nil, s.err }

func (s stubItems) ListAll(ctx context.Context) ([]map[string]any, error) {
	if s.wait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return nil, s.err
}

func (s stubItems) Delete(context.Context, string) (string, error) { return "", s.err }

func (s stubItems) Filter(context.Context, condition.Spec) (adapter.Result[map[string]any], error) {
	return adapter.Result[map[string]any]{}, s.err
}

func TestAPI_InternalErrorsAreHidden(t *testing.T) {
	t.Parallel()

	h := NewAPI(stubItems{err: errors.New("dial tcp: secret host")}, zerolog.Nop(), 0).Router()
	rec := do(t, h, http.MethodGet, "/items/x", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestAPI_Timeout(t *testing.T) {
	t.Parallel()

	h := NewAPI(stubItems{wait: true}, zerolog.Nop(), 10*time.Millisecond).Router()
	rec := do(t, h, http.MethodGet, "/items", "")

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusNotFound, statusFor(adapter.ErrNotFound))
	assert.Equal(t, http.StatusBadRequest, statusFor(condition.ErrEmptyFilter))
	assert.Equal(t, http.StatusBadRequest, statusFor(condition.ErrEmptyProjection))
	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("wrap: %w", condition.ErrInvalidProjection)))
	assert.Equal(t, http.StatusBadRequest, statusFor(&condition.InvalidOperatorError{Operator: "x"}))
	assert.Equal(t, http.StatusBadRequest, statusFor(&condition.InvalidOperandError{Key: "a"}))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(&rules.ValidationError{}))
	assert.Equal(t, http.StatusGatewayTimeout, statusFor(context.DeadlineExceeded))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}

func TestServe_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", http.NotFoundHandler(), zerolog.Nop()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
