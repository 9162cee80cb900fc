package storage

import (
	"context"

	"github.com/raywall/dynadapter/condition"
)

// MockStore é um Store de testes.
//
// Ele expõe campos de função (`GetItemFn`, `PutItemFn`, etc.) que podem ser
// definidos para simular o comportamento desejado do backend. Campos não
// definidos se comportam como uma tabela vazia que aceita tudo.
type MockStore struct {
	Key           string
	TableExistsFn func(ctx context.Context) (bool, error)
	CreateTableFn func(ctx context.Context) error
	GetItemFn     func(ctx context.Context, id string) (Item, error)
	PutItemFn     func(ctx context.Context, item Item) error
	DeleteItemFn  func(ctx context.Context, id string) error
	ScanFn        func(ctx context.Context, where condition.Predicate, projection []string) ([]Item, error)
}

func (m *MockStore) KeyAttribute() string {
	if m.Key == "" {
		return "entity_id"
	}
	return m.Key
}

func (m *MockStore) TableExists(ctx context.Context) (bool, error) {
	if m.TableExistsFn != nil {
		return m.TableExistsFn(ctx)
	}
	return true, nil
}

func (m *MockStore) CreateTable(ctx context.Context) error {
	if m.CreateTableFn != nil {
		return m.CreateTableFn(ctx)
	}
	return nil
}

func (m *MockStore) GetItem(ctx context.Context, id string) (Item, error) {
	if m.GetItemFn != nil {
		return m.GetItemFn(ctx, id)
	}
	return nil, nil
}

func (m *MockStore) PutItem(ctx context.Context, item Item) error {
	if m.PutItemFn != nil {
		return m.PutItemFn(ctx, item)
	}
	return nil
}

func (m *MockStore) DeleteItem(ctx context.Context, id string) error {
	if m.DeleteItemFn != nil {
		return m.DeleteItemFn(ctx, id)
	}
	return nil
}

func (m *MockStore) Scan(ctx context.Context, where condition.Predicate, projection []string) ([]Item, error) {
	if m.ScanFn != nil {
		return m.ScanFn(ctx, where, projection)
	}
	return nil, nil
}
