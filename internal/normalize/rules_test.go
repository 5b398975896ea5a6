package normalize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyRenamesFields(t *testing.T) {
	source := map[string]any{"id": "123", "name": "Doc"}
	rules := RuleSet{
		{"itemId", Path("id")},
		{"title", Path("name")},
	}

	got := Apply(source, rules)
	assert.Equal(t, map[string]any{"itemId": "123", "title": "Doc"}, got)
}

func TestApplyNestedPath(t *testing.T) {
	rules := RuleSet{{"count", Path("folder.childCount")}}

	got := Apply(map[string]any{"folder": map[string]any{"childCount": 3}}, rules)
	assert.Equal(t, map[string]any{"count": 3}, got)

	// Explicit null folder resolves to nothing, not to a null field.
	got = Apply(map[string]any{"folder": nil}, rules)
	assert.Equal(t, map[string]any{}, got)
}

func TestApplyOmitsNils(t *testing.T) {
	source := map[string]any{"a": 1, "b": nil}
	rules := RuleSet{
		{"a", Path("a")},
		{"b", Path("b")},
		{"c", Path("c")},
		{"d", Mapper(func(any) (any, error) { return nil, nil })},
	}

	got := Apply(source, rules)
	require.Equal(t, map[string]any{"a": 1}, got)
	for k, v := range got {
		assert.NotNil(t, v, "field %q must not be nil", k)
	}
}

func TestApplyIdempotent(t *testing.T) {
	source := map[string]any{"id": "x", "meta": map[string]any{"k": "v"}}
	rules := RuleSet{
		{"id", Path("id")},
		{"k", Path("meta.k")},
	}

	first := Apply(source, rules)
	second := Apply(source, rules)
	assert.Equal(t, first, second)

	// Source must not be mutated by Apply.
	assert.Equal(t, map[string]any{"id": "x", "meta": map[string]any{"k": "v"}}, source)
}

func TestApplyMapperFailureIsolated(t *testing.T) {
	source := map[string]any{"b": 2}
	rules := RuleSet{
		{"a", Mapper(func(any) (any, error) {
			var zero int
			return 1 / zero, nil // deliberate panic
		})},
		{"b", Path("b")},
		{"c", Mapper(func(any) (any, error) { return nil, errors.New("boom") })},
	}

	got := Apply(source, rules)
	assert.Equal(t, map[string]any{"b": 2}, got)
}

func TestApplyDuplicateNameLastWins(t *testing.T) {
	source := map[string]any{"display": "Ada", "email": "ada@example.com"}
	rules := RuleSet{
		{"createdBy", Path("display")},
		{"createdBy", Path("email")},
	}

	got := Apply(source, rules)
	assert.Equal(t, map[string]any{"createdBy": "ada@example.com"}, got)

	// The last entry wins even when it resolves to nothing: the earlier
	// rule is replaced, not used as a fallback.
	rules = RuleSet{
		{"createdBy", Path("display")},
		{"createdBy", Path("missing")},
	}
	assert.Equal(t, map[string]any{}, Apply(source, rules))
}

func TestFirstFallbackChain(t *testing.T) {
	rules := RuleSet{{"createdBy", First("createdBy.user.displayName", "createdBy.user.email")}}

	withName := map[string]any{"createdBy": map[string]any{"user": map[string]any{
		"displayName": "Ada", "email": "ada@example.com",
	}}}
	assert.Equal(t, map[string]any{"createdBy": "Ada"}, Apply(withName, rules))

	emailOnly := map[string]any{"createdBy": map[string]any{"user": map[string]any{
		"email": "ada@example.com",
	}}}
	assert.Equal(t, map[string]any{"createdBy": "ada@example.com"}, Apply(emailOnly, rules))

	assert.Equal(t, map[string]any{}, Apply(map[string]any{}, rules))
}

func TestConst(t *testing.T) {
	got := Apply(nil, RuleSet{{"kind", Const("page")}})
	assert.Equal(t, map[string]any{"kind": "page"}, got)
}

func TestApplyList(t *testing.T) {
	items := []any{
		map[string]any{"id": "1"},
		map[string]any{"id": "2", "name": "two"},
	}
	rules := RuleSet{
		{"itemId", Path("id")},
		{"title", Path("name")},
	}

	got := ApplyList(items, rules)
	require.Len(t, got, 2)
	assert.Equal(t, map[string]any{"itemId": "1"}, got[0])
	assert.Equal(t, map[string]any{"itemId": "2", "title": "two"}, got[1])
}

func TestStripNulls(t *testing.T) {
	got := StripNulls(map[string]any{"a": 1, "b": nil, "c": ""})
	assert.Equal(t, map[string]any{"a": 1, "c": ""}, got)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(RuleSet{{"a", Path("a")}, {"b", Path("b")}}))
	assert.Error(t, Validate(RuleSet{{"a", Path("a")}, {"a", Path("b")}}))
}
