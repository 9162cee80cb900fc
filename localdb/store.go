// localdb/store.go

// Package localdb implementa storage.Store sobre um LevelDB embarcado, para
// uso local e testes sem uma conta AWS.
//
// Cada tabela ocupa um prefixo de chaves; o Scan percorre o prefixo e avalia
// o filtro em memória com condition.Match.
package localdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/raywall/dynadapter/condition"
	"github.com/raywall/dynadapter/storage"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Store guarda os itens de uma tabela em um *leveldb.DB.
type Store struct {
	db    *leveldb.DB
	table string
	key   string
}

var _ storage.Store = (*Store)(nil)

// Open abre (ou cria) o banco no diretório path.
func Open(path, table, keyAttribute string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("localdb: open %s: %w", path, err)
	}
	return New(db, table, keyAttribute), nil
}

// New usa um banco já aberto. Várias tabelas podem dividir o mesmo banco.
func New(db *leveldb.DB, table, keyAttribute string) *Store {
	if keyAttribute == "" {
		keyAttribute = "entity_id"
	}
	return &Store{db: db, table: table, key: keyAttribute}
}

// Close fecha o banco subjacente.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) KeyAttribute() string { return s.key }

func (s *Store) TableExists(_ context.Context) (bool, error) {
	ok, err := s.db.Has(s.metaKey(), nil)
	if err != nil {
		return false, storeError("describe table", err)
	}
	return ok, nil
}

func (s *Store) CreateTable(_ context.Context) error {
	if err := s.db.Put(s.metaKey(), []byte(s.key), nil); err != nil {
		return storeError("create table", err)
	}
	return nil
}

func (s *Store) GetItem(_ context.Context, id string) (storage.Item, error) {
	raw, err := s.db.Get(s.itemKey(id), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("get", err)
	}
	return storage.DecodeItem(raw)
}

func (s *Store) PutItem(_ context.Context, item storage.Item) error {
	id, err := storage.ItemID(item, s.key)
	if err != nil {
		return err
	}

	raw, err := storage.EncodeItem(item)
	if err != nil {
		return err
	}
	if err := s.db.Put(s.itemKey(id), raw, nil); err != nil {
		return storeError("put", err)
	}
	return nil
}

// DeleteItem remove o item; remover um id inexistente não é erro.
func (s *Store) DeleteItem(_ context.Context, id string) error {
	if err := s.db.Delete(s.itemKey(id), nil); err != nil {
		return storeError("delete", err)
	}
	return nil
}

func (s *Store) Scan(ctx context.Context, where condition.Predicate, projection []string) ([]storage.Item, error) {
	iter := s.db.NewIterator(util.BytesPrefix(s.itemPrefix()), nil)
	defer iter.Release()

	items := make([]storage.Item, 0)
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item, err := storage.DecodeItem(iter.Value())
		if err != nil {
			return nil, err
		}
		if selected, ok := storage.Select(item, where, projection); ok {
			items = append(items, selected)
		}
	}
	if err := iter.Error(); err != nil {
		return nil, storeError("scan", err)
	}
	return items, nil
}

func (s *Store) metaKey() []byte {
	return []byte("t/" + s.table + "/meta")
}

func (s *Store) itemPrefix() []byte {
	return []byte("t/" + s.table + "/i/")
}

func (s *Store) itemKey(id string) []byte {
	return append(s.itemPrefix(), id...)
}

func storeError(op string, err error) error {
	return &storage.Error{Op: op, Message: err.Error(), Err: err}
}
