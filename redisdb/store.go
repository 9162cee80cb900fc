// redisdb/store.go

// Package redisdb implementa storage.Store sobre Redis. Cada tabela é um
// hash (`<prefixo>:<tabela>:items`) cujos campos são os ids e os valores o
// item serializado; a existência da tabela é marcada por
// `<prefixo>:<tabela>:meta`.
package redisdb

import (
	"context"
	"errors"

	"github.com/raywall/dynadapter/condition"
	"github.com/raywall/dynadapter/storage"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultPrefix = "dynadapter"
	scanBatch     = 100
)

// Store guarda os itens de uma tabela em um hash do Redis.
type Store struct {
	client redis.Cmdable
	table  string
	key    string
	prefix string
}

var _ storage.Store = (*Store)(nil)

// NewClient cria um cliente para um único nó.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// New usa um cliente já configurado. Prefixo vazio usa DefaultPrefix.
func New(client redis.Cmdable, prefix, table, keyAttribute string) *Store {
	if keyAttribute == "" {
		keyAttribute = "entity_id"
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, table: table, key: keyAttribute, prefix: prefix}
}

func (s *Store) KeyAttribute() string { return s.key }

func (s *Store) TableExists(ctx context.Context) (bool, error) {
	n, err := s.client.Exists(ctx, s.metaKey()).Result()
	if err != nil {
		return false, storeError("describe table", err)
	}
	return n > 0, nil
}

func (s *Store) CreateTable(ctx context.Context) error {
	if err := s.client.SetNX(ctx, s.metaKey(), s.key, 0).Err(); err != nil {
		return storeError("create table", err)
	}
	return nil
}

func (s *Store) GetItem(ctx context.Context, id string) (storage.Item, error) {
	raw, err := s.client.HGet(ctx, s.itemsKey(), id).Bytes()
	if errors.Is(err, redis.Nil) {
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
	if err := s.client.HSet(ctx, s.itemsKey(), id, raw).Err(); err != nil {
		return storeError("put", err)
	}
	return nil
}

// DeleteItem remove o item; remover um id inexistente não é erro.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	if err := s.client.HDel(ctx, s.itemsKey(), id).Err(); err != nil {
		return storeError("delete", err)
	}
	return nil
}

// Scan percorre o hash com HSCAN em lotes e filtra em memória.
func (s *Store) Scan(ctx context.Context, where condition.Predicate, projection []string) ([]storage.Item, error) {
	items := make([]storage.Item, 0)
	// HSCAN pode repetir campos durante um rehash
	seen := make(map[string]struct{})

	var cursor uint64
	for {
		kvs, next, err := s.client.HScan(ctx, s.itemsKey(), cursor, "", scanBatch).Result()
		if err != nil {
			return nil, storeError("scan", err)
		}
		// kvs alterna campo e valor
		for i := 1; i < len(kvs); i += 2 {
			if _, dup := seen[kvs[i-1]]; dup {
				continue
			}
			seen[kvs[i-1]] = struct{}{}

			item, err := storage.DecodeItem([]byte(kvs[i]))
			if err != nil {
				return nil, err
			}
			if selected, ok := storage.Select(item, where, projection); ok {
				items = append(items, selected)
			}
		}
		if next == 0 {
			return items, nil
		}
		cursor = next
	}
}

func (s *Store) metaKey() string {
	return s.prefix + ":" + s.table + ":meta"
}

func (s *Store) itemsKey() string {
	return s.prefix + ":" + s.table + ":items"
}

func storeError(op string, err error) error {
	return &storage.Error{Op: op, Message: err.Error(), Err: err}
}
