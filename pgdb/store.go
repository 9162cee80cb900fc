// pgdb/store.go

// Package pgdb implementa storage.Store sobre PostgreSQL usando lib/pq. Cada
// tabela do adapter vira uma tabela `(id TEXT PRIMARY KEY, item BYTEA)` com o
// item serializado; filtros são avaliados em memória.
package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/raywall/dynadapter/condition"
	"github.com/raywall/dynadapter/storage"
)

// Store guarda os itens de uma tabela em uma tabela do Postgres.
type Store struct {
	db    *sql.DB
	table string
	key   string
	stmt  statements
}

var _ storage.Store = (*Store)(nil)

// Open conecta com o DSN informado (ex.: "postgres://u:p@host/db?sslmode=disable").
func Open(ctx context.Context, dsn, table, keyAttribute string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("pgdb: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, storeError("connect", err)
	}
	return New(db, table, keyAttribute), nil
}

// New usa uma conexão já aberta.
func New(db *sql.DB, table, keyAttribute string) *Store {
	if keyAttribute == "" {
		keyAttribute = "entity_id"
	}
	return &Store{db: db, table: table, key: keyAttribute, stmt: newStatements(table)}
}

// Close fecha o pool de conexões.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) KeyAttribute() string { return s.key }

func (s *Store) TableExists(ctx context.Context) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, s.stmt.exists, s.stmt.regclass).Scan(&exists); err != nil {
		return false, storeError("describe table", err)
	}
	return exists, nil
}

func (s *Store) CreateTable(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.stmt.create); err != nil {
		return storeError("create table", err)
	}
	return nil
}

func (s *Store) GetItem(ctx context.Context, id string) (storage.Item, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, s.stmt.get, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("get", err)
	}
	return storage.DecodeItem(raw)
}

func (s *Store) PutItem(ctx context.Context, item storage.Item) error {
	id, err := storage.ItemID(item, s.key)
	if err != nil {
		return err
	}

	raw, err := storage.EncodeItem(item)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.stmt.put, id, raw); err != nil {
		return storeError("put", err)
	}
	return nil
}

// DeleteItem remove o item; remover um id inexistente não é erro.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, s.stmt.delete, id); err != nil {
		return storeError("delete", err)
	}
	return nil
}

func (s *Store) Scan(ctx context.Context, where condition.Predicate, projection []string) ([]storage.Item, error) {
	rows, err := s.db.QueryContext(ctx, s.stmt.scan)
	if err != nil {
		return nil, storeError("scan", err)
	}
	defer rows.Close()

	items := make([]storage.Item, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, storeError("scan", err)
		}
		item, err := storage.DecodeItem(raw)
		if err != nil {
			return nil, err
		}
		if selected, ok := storage.Select(item, where, projection); ok {
			items = append(items, selected)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("scan", err)
	}
	return items, nil
}

// statements guarda o SQL já com o nome da tabela citado.
type statements struct {
	regclass string
	exists   string
	create   string
	get      string
	put      string
	delete   string
	scan     string
}

func newStatements(table string) statements {
	name := pq.QuoteIdentifier(table)
	return statements{
		regclass: name,
		exists:   `SELECT to_regclass($1) IS NOT NULL`,
		create:   fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (id TEXT PRIMARY KEY, item BYTEA NOT NULL)`, name),
		get:      fmt.Sprintf(`SELECT item FROM %s WHERE id = $1`, name),
		put:      fmt.Sprintf(`INSERT INTO %s (id, item) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET item = EXCLUDED.item`, name),
		delete:   fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, name),
		scan:     fmt.Sprintf(`SELECT item FROM %s ORDER BY id`, name),
	}
}

// storeError preserva o SQLSTATE quando o erro vem do servidor.
func storeError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &storage.Error{Op: op, Code: string(pqErr.Code), Message: pqErr.Message, Err: err}
	}
	return &storage.Error{Op: op, Message: err.Error(), Err: err}
}
