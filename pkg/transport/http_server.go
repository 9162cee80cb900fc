// Package transport expõe o adapter como uma API REST, servida por HTTP ou
// por eventos do API Gateway no Lambda.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/raywall/dynadapter/adapter"
	"github.com/raywall/dynadapter/condition"
	"github.com/raywall/dynadapter/json/decode"
	"github.com/raywall/dynadapter/pkg/graphql"
	"github.com/raywall/dynadapter/pkg/rules"
	"github.com/rs/zerolog"
)

// Items é o subconjunto do adapter usado pela API.
type Items interface {
	Save(ctx context.Context, data map[string]any) (string, error)
	GetByID(ctx context.Context, id string) (map[string]any, error)
	ListAll(ctx context.Context) ([]map[string]any, error)
	Delete(ctx context.Context, id string) (string, error)
	Filter(ctx context.Context, spec condition.Spec) (adapter.Result[map[string]any], error)
}

// API traduz requisições HTTP em operações do adapter.
//
//	GET    /health
//	POST   /items            corpo: objeto JSON          -> 201 {"id": "..."}
//	GET    /items                                        -> 200 [...]
//	POST   /items/filter     corpo: {"campo__op": valor} -> 200 [...]
//	GET    /items/{id}                                   -> 200 {...} | 404
//	DELETE /items/{id}                                   -> 200 {"id": "..."} | 404
//	POST   /graphql          corpo: {"query": "..."}     -> 200 {"data": ...}
type API struct {
	items   Items
	log     zerolog.Logger
	timeout time.Duration
}

// NewAPI cria a API. Um timeout zero não limita as requisições.
func NewAPI(items Items, log zerolog.Logger, timeout time.Duration) *API {
	return &API{items: items, log: log, timeout: timeout}
}

// Router registra as rotas e os middlewares.
func (a *API) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(ObservabilityMiddleware(a.log), a.timeoutMiddleware)

	r.HandleFunc("/health", a.health).Methods(http.MethodGet)
	r.HandleFunc("/items", a.list).Methods(http.MethodGet)
	r.HandleFunc("/items", a.save).Methods(http.MethodPost)
	r.HandleFunc("/items/filter", a.filter).Methods(http.MethodPost)
	r.HandleFunc("/items/{id}", a.get).Methods(http.MethodGet)
	r.HandleFunc("/items/{id}", a.delete).Methods(http.MethodDelete)

	gql, err := graphql.NewEngine(a.items)
	if err != nil {
		a.log.Error().Err(err).Msg("graphql schema disabled")
		return r
	}
	r.Handle("/graphql", gql).Methods(http.MethodPost)
	return r
}

// Serve atende em addr até ctx ser cancelado e então encerra o servidor
// aguardando as requisições em andamento.
func Serve(ctx context.Context, addr string, handler http.Handler, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("http server stopped")
	return nil
}

func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) save(w http.ResponseWriter, r *http.Request) {
	body, ok := a.readObject(w, r)
	if !ok {
		return
	}

	id, err := a.items.Save(r.Context(), body)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (a *API) list(w http.ResponseWriter, r *http.Request) {
	items, err := a.items.ListAll(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (a *API) get(w http.ResponseWriter, r *http.Request) {
	item, err := a.items.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (a *API) delete(w http.ResponseWriter, r *http.Request) {
	id, err := a.items.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (a *API) filter(w http.ResponseWriter, r *http.Request) {
	body, ok := a.readObject(w, r)
	if !ok {
		return
	}

	res, err := a.items.Filter(r.Context(), condition.Spec(body))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if res.Projected {
		writeJSON(w, http.StatusOK, res.Items)
		return
	}
	writeJSON(w, http.StatusOK, res.Entities)
}

func (a *API) readObject(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	defer r.Body.Close()

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read body")
		return nil, false
	}
	body, err := decode.Object(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return body, true
}

// fail traduz o erro do adapter em status HTTP. Falhas internas não expõem
// a mensagem original.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status != http.StatusInternalServerError {
		writeError(w, status, err.Error())
		return
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	writeError(w, status, "internal server error")
}

func statusFor(err error) int {
	var (
		opErr      *condition.InvalidOperatorError
		operandErr *condition.InvalidOperandError
		ruleErr    *rules.ValidationError
	)
	switch {
	case errors.Is(err, adapter.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &ruleErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, condition.ErrEmptyFilter),
		errors.Is(err, condition.ErrEmptyProjection),
		errors.Is(err, condition.ErrInvalidProjection),
		errors.As(err, &opErr),
		errors.As(err, &operandErr):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (a *API) timeoutMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.timeout <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), a.timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
