package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/raywall/dynadapter/condition"
	"github.com/raywall/dynadapter/pkg/metrics"
	"github.com/raywall/dynadapter/storage"
	"github.com/raywall/dynadapter/valuetree"
	"github.com/rs/zerolog"
)

// ErrNotFound – erro padrão quando o item não existe
var ErrNotFound = errors.New("adapter: item not found")

// Result é o retorno de Filter. Com projeção apenas Items é preenchido, com
// os itens exatamente como o backend devolveu; sem projeção apenas Entities.
type Result[T any] struct {
	Entities  []T
	Items     []storage.Item
	Projected bool
}

// Adapter persiste entidades T em uma tabela.
type Adapter[T any] struct {
	store   storage.Store
	codec   Codec[T]
	log     zerolog.Logger
	metrics metrics.Provider
	checker Validator
}

// Validator inspeciona o item (já com id, antes da normalização) e rejeita
// a gravação devolvendo um erro.
type Validator interface {
	Validate(item map[string]any) error
}

var _ Persister = (*Adapter[map[string]any])(nil)

// Option configura o Adapter na construção.
type Option func(*options)

type options struct {
	log     zerolog.Logger
	metrics metrics.Provider
	checker Validator
}

// WithLogger define o logger usado pelo adapter. O padrão descarta tudo.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics define o provider que recebe contagem e latência de cada
// operação. O padrão é metrics.NoopProvider.
func WithMetrics(p metrics.Provider) Option {
	return func(o *options) {
		if p != nil {
			o.metrics = p
		}
	}
}

// WithValidator rejeita gravações que o validador recusar.
func WithValidator(v Validator) Option {
	return func(o *options) { o.checker = v }
}

// New cria o adapter e garante que a tabela existe, criando-a (e esperando
// ficar pronta) quando necessário.
func New[T any](ctx context.Context, store storage.Store, codec Codec[T], opts ...Option) (*Adapter[T], error) {
	o := options{log: zerolog.Nop(), metrics: metrics.NoopProvider{}}
	for _, opt := range opts {
		opt(&o)
	}

	a := &Adapter[T]{store: store, codec: codec, log: o.log, metrics: o.metrics, checker: o.checker}

	exists, err := store.TableExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("adapter: check table: %w", err)
	}
	if !exists {
		a.log.Info().Str("key", store.KeyAttribute()).Msg("creating missing table")
		if err := store.CreateTable(ctx); err != nil {
			return nil, fmt.Errorf("adapter: create table: %w", err)
		}
	}
	return a, nil
}

// Save grava o mapa e devolve o id. O mapa recebido não é alterado; um id é
// gerado quando a chave está ausente ou vazia.
func (a *Adapter[T]) Save(ctx context.Context, data map[string]any) (_ string, err error) {
	defer a.observe("save", time.Now(), &err)

	key := a.store.KeyAttribute()

	item := make(map[string]any, len(data)+1)
	for k, v := range data {
		item[k] = v
	}
	id, _ := item[key].(string)
	if id == "" {
		id = uuid.NewString()
		item[key] = id
	}

	if a.checker != nil {
		if err := a.checker.Validate(item); err != nil {
			return "", fmt.Errorf("adapter: validate %s: %w", id, err)
		}
	}

	normalized, _ := valuetree.Normalize(item).(map[string]any)
	if err := a.store.PutItem(ctx, normalized); err != nil {
		return "", fmt.Errorf("adapter: save %s: %w", id, err)
	}

	a.log.Debug().Str("id", id).Int("attributes", len(normalized)).Msg("item saved")
	return id, nil
}

// SaveEntity codifica a entidade e a grava. O id gerado é devolvido à
// entidade quando ela implementa Identifiable.
func (a *Adapter[T]) SaveEntity(ctx context.Context, entity T) (string, error) {
	data, err := a.codec.Encode(entity)
	if err != nil {
		return "", fmt.Errorf("adapter: encode entity: %w", err)
	}

	id, err := a.Save(ctx, data)
	if err != nil {
		return "", err
	}

	if e, ok := any(entity).(Identifiable); ok {
		e.SetID(id)
	}
	a.bind(entity)
	return id, nil
}

// GetByID lê a entidade; ErrNotFound quando o item não existe.
func (a *Adapter[T]) GetByID(ctx context.Context, id string) (_ T, err error) {
	defer a.observe("get", time.Now(), &err)

	var zero T

	item, err := a.store.GetItem(ctx, id)
	if err != nil {
		return zero, fmt.Errorf("adapter: get %s: %w", id, err)
	}
	if item == nil {
		return zero, ErrNotFound
	}
	return a.instantiate(item)
}

// ListAll devolve todas as entidades da tabela.
func (a *Adapter[T]) ListAll(ctx context.Context) (_ []T, err error) {
	defer a.observe("list", time.Now(), &err)

	items, err := a.store.Scan(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("adapter: list: %w", err)
	}
	metrics.RecordScan(a.metrics, "list", len(items))
	return a.instantiateAll(items)
}

// Delete remove o item e devolve o id. Uma falha reportada pelo backend é
// logada e devolvida como ErrNotFound.
func (a *Adapter[T]) Delete(ctx context.Context, id string) (_ string, err error) {
	defer a.observe("delete", time.Now(), &err)

	err = a.store.DeleteItem(ctx, id)
	if err == nil {
		return id, nil
	}

	var storeErr *storage.Error
	if errors.As(err, &storeErr) {
		a.log.Error().Err(err).Str("id", id).Str("code", storeErr.Code).Msg("delete failed")
		return "", ErrNotFound
	}
	return "", fmt.Errorf("adapter: delete %s: %w", id, err)
}

// Filter monta o predicado a partir do spec e executa o Scan.
func (a *Adapter[T]) Filter(ctx context.Context, spec condition.Spec) (_ Result[T], err error) {
	defer a.observe("filter", time.Now(), &err)

	f, err := condition.Build(spec)
	if err != nil {
		return Result[T]{}, err
	}

	items, err := a.store.Scan(ctx, f.Where, f.Projection)
	if err != nil {
		return Result[T]{}, fmt.Errorf("adapter: filter: %w", err)
	}
	metrics.RecordScan(a.metrics, "filter", len(items))

	if f.HasProjection() {
		return Result[T]{Items: items, Projected: true}, nil
	}

	entities, err := a.instantiateAll(items)
	if err != nil {
		return Result[T]{}, err
	}
	return Result[T]{Entities: entities}, nil
}

func (a *Adapter[T]) observe(op string, start time.Time, err *error) {
	status := metrics.StatusOK
	switch {
	case errors.Is(*err, ErrNotFound):
		status = metrics.StatusNotFound
	case *err != nil:
		status = metrics.StatusError
	}
	metrics.RecordOperation(a.metrics, op, status, time.Since(start))
}

func (a *Adapter[T]) instantiateAll(items []storage.Item) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		e, err := a.instantiate(item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (a *Adapter[T]) instantiate(item storage.Item) (T, error) {
	var zero T

	restored, err := valuetree.DenormalizeMap(item)
	if err != nil {
		return zero, fmt.Errorf("adapter: denormalize: %w", err)
	}

	entity, err := a.codec.Decode(restored)
	if err != nil {
		return zero, fmt.Errorf("adapter: decode entity: %w", err)
	}
	a.bind(entity)
	return entity, nil
}

func (a *Adapter[T]) bind(entity T) {
	if b, ok := any(entity).(Binder); ok {
		b.SetAdapter(a)
	}
}
