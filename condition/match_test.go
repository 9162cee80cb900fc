package condition_test

import (
	"testing"

	"github.com/raywall/dynadapter/condition"
	"github.com/raywall/dynadapter/valuetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItem() map[string]any {
	return map[string]any{
		"entity_id": "u1",
		"name":      "Maria Silva",
		"age":       int64(34),
		"score":     "Float(7.5)",
		"tags":      []any{"admin", "dev"},
		"roles":     valuetree.Set{"owner", "reader"},
		"address": map[string]any{
			"city":  "Recife",
			"lines": []any{"Rua A", map[string]any{"number": int64(10)}},
		},
	}
}

func TestMatch_Operators(t *testing.T) {
	t.Parallel()

	item := sampleItem()
	tests := []struct {
		name string
		spec condition.Spec
		want bool
	}{
		{"eq string", condition.Spec{"name__eq": "Maria Silva"}, true},
		{"eq int vs int", condition.Spec{"age__eq": 34}, true},
		{"eq float vs int", condition.Spec{"age__eq": 34.0}, true},
		{"eq missing", condition.Spec{"missing__eq": 1}, false},
		{"ne", condition.Spec{"age__ne": 35}, true},
		{"ne same", condition.Spec{"age__ne": 34}, false},
		{"ne missing", condition.Spec{"missing__ne": 1}, true},
		{"gt", condition.Spec{"age__gt": 30}, true},
		{"gte", condition.Spec{"age__gte": 34}, true},
		{"lt", condition.Spec{"age__lt": 34}, false},
		{"lte", condition.Spec{"age__lte": 34}, true},
		{"lt string", condition.Spec{"name__lt": "N"}, true},
		{"gt type mismatch", condition.Spec{"name__gt": 1}, false},
		{"between", condition.Spec{"age__between": []any{30, 40}}, true},
		{"between outside", condition.Spec{"age__between": []int{35, 40}}, false},
		{"begins_with", condition.Spec{"name__begins_with": "Maria"}, true},
		{"begins_with no", condition.Spec{"name__begins_with": "Silva"}, false},
		{"contains substring", condition.Spec{"name__contains": "Sil"}, true},
		{"contains list", condition.Spec{"tags__contains": "dev"}, true},
		{"contains set", condition.Spec{"roles__contains": "reader"}, true},
		{"contains set no", condition.Spec{"roles__contains": "writer"}, false},
		{"is_in", condition.Spec{"name__is_in": []string{"Ana", "Maria Silva"}}, true},
		{"is_in no", condition.Spec{"name__is_in": []any{"Ana"}}, false},
		{"exists", condition.Spec{"tags__exists": nil}, true},
		{"exists missing", condition.Spec{"nope__exists": nil}, false},
		{"not_exists", condition.Spec{"nope__not_exists": nil}, true},
		{"size", condition.Spec{"tags__size": nil}, true},
		{"size scalar", condition.Spec{"age__size": nil}, false},
		{"nested", condition.Spec{"address_dot_city__eq": "Recife"}, true},
		{"nested mismatch", condition.Spec{"address_dot_city__eq": "Olinda"}, false},
		{"or", condition.Spec{"age__gt": 100, "name__eq": "Maria Silva"}, true},
		{"or none", condition.Spec{"age__gt": 100, "name__eq": "Ana"}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, err := condition.Build(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, condition.Match(f.Where, item))
		})
	}
}

func TestMatch_OrderIndependent(t *testing.T) {
	t.Parallel()

	items := []map[string]any{
		{"field": int64(1)},
		{"field": int64(4)},
		{"field": int64(5)},
		{"other": "x"},
	}

	a, err := condition.Build(condition.Spec{"field__eq": 1})
	require.NoError(t, err)
	b, err := condition.Build(condition.Spec{"field__eq": 4})
	require.NoError(t, err)

	combined := condition.Fold(a.Where, b.Where)
	reversed := condition.Fold(b.Where, a.Where)

	for _, item := range items {
		expected := condition.Match(a.Where, item) || condition.Match(b.Where, item)
		assert.Equal(t, expected, condition.Match(combined, item))
		assert.Equal(t, expected, condition.Match(reversed, item))
	}
}

func TestMatch_NilPredicateAcceptsAll(t *testing.T) {
	t.Parallel()

	assert.True(t, condition.Match(nil, sampleItem()))
}

func TestLookup(t *testing.T) {
	t.Parallel()

	item := sampleItem()

	v, ok := condition.Lookup(item, "address.lines[1].number")
	require.True(t, ok)
	assert.Equal(t, int64(10), v)

	_, ok = condition.Lookup(item, "address.lines[5]")
	assert.False(t, ok)
	_, ok = condition.Lookup(item, "name.first")
	assert.False(t, ok)
	_, ok = condition.Lookup(item, "address.lines[x]")
	assert.False(t, ok)
}

func TestProject(t *testing.T) {
	t.Parallel()

	out := condition.Project(sampleItem(), []string{"name", "address.city", "tags[1]", "missing"})

	assert.Equal(t, map[string]any{
		"name":    "Maria Silva",
		"address": map[string]any{"city": "Recife"},
		"tags":    []any{"dev"},
	}, out)
}
