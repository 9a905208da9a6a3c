package ctxval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDottedPath(t *testing.T) {
	root := FromTable(Table{
		"user": FromTable(Table{
			"name": Text("ana"),
		}),
	})

	v, ok := Get(root, "user.name")
	require.True(t, ok)
	assert.Equal(t, "ana", v.Stringify())

	_, ok = Get(root, "user.missing")
	assert.False(t, ok)
}

func TestGetListIndex(t *testing.T) {
	root := FromTable(Table{
		"items": List(Text("a"), Text("b")),
	})
	v, ok := Get(root, "items.1")
	require.True(t, ok)
	assert.Equal(t, "b", v.Stringify())
}

func TestTruthiness(t *testing.T) {
	cases := []struct {
		v       Value
		truthy  bool
	}{
		{Text(""), false},
		{Text("false"), false},
		{Text("0"), false},
		{Text("no"), true},
		{List(), false},
		{List(Text("x")), true},
		{FromTable(Table{}), false},
		{FromTable(Table{"a": Text("b")}), true},
	}
	for _, c := range cases {
		assert.Equal(t, c.truthy, c.v.Truthy())
	}
}

func TestStringifyListJoinsWithComma(t *testing.T) {
	v := List(Text("a"), Text("b"), Text("c"))
	assert.Equal(t, "a, b, c", v.Stringify())
}

func TestStringifyTableIsEmpty(t *testing.T) {
	v := FromTable(Table{"a": Text("b")})
	assert.Equal(t, "", v.Stringify())
}

func TestMergeDeepMergesTables(t *testing.T) {
	base := FromTable(Table{
		"site": FromTable(Table{
			"title": Text("default"),
			"nav":   List(Text("home")),
		}),
	})
	override := FromTable(Table{
		"site": FromTable(Table{
			"title": Text("publish"),
		}),
	})

	merged := Merge(base, override)
	title, _ := Get(merged, "site.title")
	nav, _ := Get(merged, "site.nav")

	assert.Equal(t, "publish", title.Stringify())
	assert.Equal(t, "home", nav.Stringify())
}

func TestCloneIsIndependent(t *testing.T) {
	base := FromTable(Table{"a": Text("1")})
	clone := base.Clone()

	mutated, _ := Set(clone, "a", Text("2"))
	v, _ := Get(base, "a")
	assert.Equal(t, "1", v.Stringify())

	v2, _ := Get(mutated, "a")
	assert.Equal(t, "2", v2.Stringify())
}

func TestSetCreatesIntermediateTables(t *testing.T) {
	root := NewTable()
	next, err := Set(root, "content.pattern", Text("page"))
	require.NoError(t, err)

	v, ok := Get(next, "content.pattern")
	require.True(t, ok)
	assert.Equal(t, "page", v.Stringify())
}

func TestSortedKeysIsDeterministic(t *testing.T) {
	v := FromTable(Table{"z": Text("1"), "a": Text("2"), "m": Text("3")})
	assert.Equal(t, []string{"a", "m", "z"}, v.SortedKeys())
}

func TestFromAnyConvertsNestedStructures(t *testing.T) {
	raw := map[string]interface{}{
		"title": "hi",
		"tags":  []interface{}{"a", "b"},
		"nested": map[string]interface{}{
			"flag": true,
		},
	}
	v := FromAny(raw)
	require.True(t, v.IsTable())

	title, _ := Get(v, "title")
	assert.Equal(t, "hi", title.Stringify())

	tags, _ := Get(v, "tags")
	assert.Equal(t, "a, b", tags.Stringify())

	flag, _ := Get(v, "nested.flag")
	assert.Equal(t, "true", flag.Stringify())
}

func TestContextCloneIsolatesMutations(t *testing.T) {
	ctx := New()
	ctx = ctx.Set("page.title", Text("base"))
	clone := ctx.Clone()
	clone = clone.Set("page.title", Text("overridden"))

	assert.Equal(t, "base", ctx.GetText("page.title"))
	assert.Equal(t, "overridden", clone.GetText("page.title"))
}

func TestContextMergeOverridesWins(t *testing.T) {
	base := New().Set("site.root", Text("http://localhost/"))
	override := New().Set("site.root", Text("https://ex.com/"))

	merged := base.Merge(override)
	assert.Equal(t, "https://ex.com/", merged.GetText("site.root"))
}

func TestContextGetTextMissingIsEmpty(t *testing.T) {
	ctx := New()
	assert.Equal(t, "", ctx.GetText("nope.nope"))
}
