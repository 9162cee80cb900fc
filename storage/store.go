// Package storage define o contrato entre o adapter e o backend que guarda os
// itens (DynamoDB ou LevelDB embarcado).
package storage

import (
	"context"
	"fmt"

	"github.com/raywall/dynadapter/condition"
)

// Item é um item já normalizado, no formato que vai para o backend.
type Item = map[string]any

// Store é o colaborador de persistência usado pelo adapter.
type Store interface {
	// KeyAttribute devolve o nome do atributo de chave (hash key).
	KeyAttribute() string
	TableExists(ctx context.Context) (bool, error)
	// CreateTable é idempotente e só retorna quando a tabela está pronta.
	CreateTable(ctx context.Context) error
	// GetItem devolve nil, nil quando o item não existe.
	GetItem(ctx context.Context, id string) (Item, error)
	PutItem(ctx context.Context, item Item) error
	DeleteItem(ctx context.Context, id string) error
	// Scan percorre a tabela inteira. Com where nil todos os itens são
	// devolvidos; com projection vazia todos os atributos são devolvidos.
	Scan(ctx context.Context, where condition.Predicate, projection []string) ([]Item, error)
}

// Error é a falha reportada pelo backend, com mensagem legível.
type Error struct {
	Op      string
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("storage: %s failed: %s: %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("storage: %s failed: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }
