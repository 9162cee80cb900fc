package localdb_test

import (
	"context"
	"testing"

	"github.com/raywall/dynadapter/condition"
	"github.com/raywall/dynadapter/localdb"
	"github.com/raywall/dynadapter/storage"
	"github.com/raywall/dynadapter/valuetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
	lvstorage "github.com/syndtr/goleveldb/leveldb/storage"
)

func newMemDB(t *testing.T) *leveldb.DB {
	t.Helper()

	db, err := leveldb.Open(lvstorage.NewMemStorage(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestStore_TableLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := localdb.New(newMemDB(t), "users", "")

	assert.Equal(t, "entity_id", s.KeyAttribute())

	exists, err := s.TableExists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.CreateTable(ctx))
	require.NoError(t, s.CreateTable(ctx))

	exists, err = s.TableExists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_CRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := localdb.New(newMemDB(t), "users", "id")

	item := storage.Item{
		"id":    "u1",
		"name":  "Ana",
		"age":   int64(30),
		"score": "Float(1.5)",
		"roles": valuetree.Set{"admin"},
		"tags":  []any{"a", map[string]any{"k": true}},
		"blob":  []byte{1, 2},
		"none":  nil,
	}
	require.NoError(t, s.PutItem(ctx, item))

	got, err := s.GetItem(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, item, got)

	missing, err := s.GetItem(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, s.DeleteItem(ctx, "u1"))
	require.NoError(t, s.DeleteItem(ctx, "u1"))

	got, err = s.GetItem(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_PutRequiresKey(t *testing.T) {
	t.Parallel()

	s := localdb.New(newMemDB(t), "users", "")
	err := s.PutItem(context.Background(), storage.Item{"name": "sem id"})
	assert.ErrorContains(t, err, "entity_id")
}

func TestStore_ScanFiltersAndProjects(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newMemDB(t)
	users := localdb.New(db, "users", "")
	other := localdb.New(db, "orders", "")

	for _, it := range []storage.Item{
		{"entity_id": "1", "age": int64(20), "profile": map[string]any{"city": "Recife"}},
		{"entity_id": "2", "age": int64(40), "profile": map[string]any{"city": "Natal"}},
		{"entity_id": "3", "age": int64(60)},
	} {
		require.NoError(t, users.PutItem(ctx, it))
	}
	require.NoError(t, other.PutItem(ctx, storage.Item{"entity_id": "9", "age": int64(99)}))

	all, err := users.Scan(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	f, err := condition.Build(condition.Spec{
		"age__gte":              60,
		"profile_dot_city__eq":  "Recife",
		condition.ProjectionKey: "entity_id, profile.city",
	})
	require.NoError(t, err)

	items, err := users.Scan(ctx, f.Where, f.Projection)
	require.NoError(t, err)
	assert.ElementsMatch(t, []storage.Item{
		{"entity_id": "1", "profile": map[string]any{"city": "Recife"}},
		{"entity_id": "3"},
	}, items)
}

func TestStore_ClosedDatabaseReportsStorageError(t *testing.T) {
	t.Parallel()

	db, err := leveldb.Open(lvstorage.NewMemStorage(), nil)
	require.NoError(t, err)
	s := localdb.New(db, "users", "")
	require.NoError(t, s.Close())

	var storeErr *storage.Error
	require.ErrorAs(t, s.DeleteItem(context.Background(), "1"), &storeErr)
	assert.Equal(t, "delete", storeErr.Op)

	_, err = s.GetItem(context.Background(), "1")
	assert.ErrorAs(t, err, &storeErr)
}
