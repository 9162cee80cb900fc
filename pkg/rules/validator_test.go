package rules

import (
	"testing"

	"github.com/raywall/dynadapter/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	v, err := NewValidator([]config.RuleConf{
		{Name: "email", Expression: "has(item.email) && item.email.contains('@')", Message: "email inválido"},
		{Name: "adult", Expression: "!has(item.age) || item.age >= 18"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, v.Len())

	assert.NoError(t, v.Validate(map[string]any{"email": "a@b.com", "age": int64(30)}))
	assert.NoError(t, v.Validate(map[string]any{"email": "a@b.com"}))

	err = v.Validate(map[string]any{"email": "invalido", "age": int64(10)})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []Violation{
		{Rule: "email", Message: "email inválido"},
		{Rule: "adult", Message: "expression !has(item.age) || item.age >= 18 is false"},
	}, vErr.Violations)
	assert.Contains(t, err.Error(), "email: email inválido")
}

func TestValidator_NestedAndLists(t *testing.T) {
	t.Parallel()

	v, err := NewValidator([]config.RuleConf{
		{Name: "city", Expression: "item.address.city in ['Recife', 'Olinda']"},
		{Name: "tags", Expression: "size(item.tags) > 0"},
	})
	require.NoError(t, err)

	assert.NoError(t, v.Validate(map[string]any{
		"address": map[string]any{"city": "Recife"},
		"tags":    []any{"a"},
	}))

	err = v.Validate(map[string]any{"tags": []any{}})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Violations, 2)
	assert.Equal(t, "city", vErr.Violations[0].Rule, "missing attribute counts as violation")
}

func TestNewValidator_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewValidator([]config.RuleConf{{Name: "syntax", Expression: "item.age >>> 1"}})
	assert.ErrorContains(t, err, `compile "syntax"`)

	_, err = NewValidator([]config.RuleConf{{Name: "string", Expression: "'abc'"}})
	assert.ErrorContains(t, err, "must evaluate to bool")
}

func TestValidator_Empty(t *testing.T) {
	t.Parallel()

	v, err := NewValidator(nil)
	require.NoError(t, err)
	assert.Zero(t, v.Len())
	assert.NoError(t, v.Validate(map[string]any{}))
}

func TestSet_Swap(t *testing.T) {
	t.Parallel()

	set := NewSet(nil)
	assert.NoError(t, set.Validate(map[string]any{}))
	assert.Equal(t, 0, set.Len())

	v, err := NewValidator([]config.RuleConf{{Name: "name", Expression: "has(item.name)"}})
	require.NoError(t, err)

	assert.Nil(t, set.Swap(v))
	assert.Equal(t, 1, set.Len())

	var verr *ValidationError
	assert.ErrorAs(t, set.Validate(map[string]any{}), &verr)
	assert.NoError(t, set.Validate(map[string]any{"name": "Ana"}))

	assert.Same(t, v, set.Swap(nil))
	assert.NoError(t, set.Validate(map[string]any{}))
}
