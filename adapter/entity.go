package adapter

import (
	"context"
	"errors"
	"maps"
)

// ErrUnbound é retornado por BaseEntity quando nenhum adapter foi vinculado.
var ErrUnbound = errors.New("adapter: entity is not bound to an adapter")

// Codec converte a entidade de e para a representação em mapa.
type Codec[T any] interface {
	Encode(entity T) (map[string]any, error)
	Decode(item map[string]any) (T, error)
}

// Persister é a parte do adapter visível para uma entidade vinculada.
type Persister interface {
	Save(ctx context.Context, data map[string]any) (string, error)
	Delete(ctx context.Context, id string) (string, error)
}

// Binder é implementado por entidades que guardam o adapter que as carregou.
type Binder interface {
	SetAdapter(p Persister)
}

// Identifiable é implementado por entidades que recebem o id gerado no save.
type Identifiable interface {
	SetID(id string)
}

// MapCodec é o codec identidade para quem trabalha direto com mapas.
type MapCodec struct{}

func (MapCodec) Encode(entity map[string]any) (map[string]any, error) {
	return maps.Clone(entity), nil
}

func (MapCodec) Decode(item map[string]any) (map[string]any, error) {
	return item, nil
}

// BaseEntity pode ser embutida nas entidades de domínio. Fornece o id na
// chave padrão entity_id e o vínculo com o adapter.
type BaseEntity struct {
	ID string `dynamodbav:"entity_id" json:"entity_id,omitempty"`

	adapter Persister
}

func (b *BaseEntity) GetID() string         { return b.ID }
func (b *BaseEntity) SetID(id string)       { b.ID = id }
func (b *BaseEntity) SetAdapter(p Persister) { b.adapter = p }

// Adapter devolve o adapter vinculado, ou nil.
func (b *BaseEntity) Adapter() Persister { return b.adapter }

// Delete remove a entidade pelo adapter vinculado.
func (b *BaseEntity) Delete(ctx context.Context) error {
	if b.adapter == nil {
		return ErrUnbound
	}
	_, err := b.adapter.Delete(ctx, b.ID)
	return err
}
