package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerstatic/aer/internal/asset"
	"github.com/aerstatic/aer/internal/ctxval"
)

func render(t *testing.T, src string, ctx *ctxval.Context, parts *asset.PartCache) string {
	t.Helper()
	nodes, err := Parse(src)
	require.NoError(t, err)
	out, err := NewInterpreter(parts).Render(nodes, ctx)
	require.NoError(t, err)
	return out
}

func TestRenderNoExpressionsReturnsInputUnchanged(t *testing.T) {
	src := "plain text with no expressions\nsecond line"
	assert.Equal(t, src, render(t, src, ctxval.New(), nil))
}

func TestGetEmitsValueAtKey(t *testing.T) {
	ctx := ctxval.New().Set("page.title", ctxval.Text("Hello"))
	assert.Equal(t, "Hello", render(t, `{~ get page.title}`, ctx, nil))
}

func TestGetMissingKeyIsEmpty(t *testing.T) {
	assert.Equal(t, "", render(t, `{~ get missing.key}`, ctxval.New(), nil))
}

func TestGetOrChainPicksFirstNonEmpty(t *testing.T) {
	ctx := ctxval.New().Set("site.subtitle", ctxval.Text(""))
	out := render(t, `{~ get site.subtitle or site.title or "Untitled"}`, ctx, nil)
	assert.Equal(t, "Untitled", out)
}

func TestIfTruthyRendersBody(t *testing.T) {
	ctx := ctxval.New().Set("draft", ctxval.Text("true"))
	assert.Equal(t, "DRAFT", render(t, `{~ if draft}DRAFT{~ end}`, ctx, nil))
}

func TestIfFalsyValuesAreFalse(t *testing.T) {
	for _, v := range []string{"", "false", "0"} {
		ctx := ctxval.New().Set("flag", ctxval.Text(v))
		assert.Equal(t, "", render(t, `{~ if flag}X{~ end}`, ctx, nil), "value %q should be falsy", v)
	}
}

func TestIfNotInvertsTruthiness(t *testing.T) {
	ctx := ctxval.New().Set("flag", ctxval.Text("false"))
	assert.Equal(t, "X", render(t, `{~ if not flag}X{~ end}`, ctx, nil))
}

func TestIfIsComparesEquality(t *testing.T) {
	ctx := ctxval.New().Set("kind", ctxval.Text("post"))
	assert.Equal(t, "POST", render(t, `{~ if kind is "post"}POST{~ end}`, ctx, nil))
	assert.Equal(t, "", render(t, `{~ if kind is "page"}POST{~ end}`, ctx, nil))
}

func TestIfIsNotComparesInequality(t *testing.T) {
	ctx := ctxval.New().Set("kind", ctxval.Text("post"))
	assert.Equal(t, "OTHER", render(t, `{~ if kind is not "page"}OTHER{~ end}`, ctx, nil))
}

func TestForListIteratesInOrder(t *testing.T) {
	ctx := ctxval.New().Set("tags", ctxval.List(ctxval.Text("a"), ctxval.Text("b"), ctxval.Text("c")))
	assert.Equal(t, "a,b,c,", render(t, `{~ for x in tags}{~ get x},{~ end}`, ctx, nil))
}

func TestForTableIteratesInKeyOrder(t *testing.T) {
	ctx := ctxval.New().Set("counts", ctxval.FromTable(ctxval.Table{
		"z": ctxval.Text("26"),
		"a": ctxval.Text("1"),
	}))
	assert.Equal(t, "a=1;z=26;", render(t, `{~ for k, v in counts}{~ get k}={~ get v};{~ end}`, ctx, nil))
}

func TestForAssetsDefersWhenMetadataMissing(t *testing.T) {
	nodes, err := Parse(`{~ for x in assets "blog"}{~ get x.title}{~ end}`)
	require.NoError(t, err)
	_, err = NewInterpreter(nil).Render(nodes, ctxval.New())
	require.Error(t, err)
	var deferred *DeferredError
	assert.ErrorAs(t, err, &deferred)
}

func TestForAssetsIteratesPublishedMetadata(t *testing.T) {
	ctx := ctxval.New().Set("_assets:blog", ctxval.List(
		ctxval.FromTable(ctxval.Table{"title": ctxval.Text("First")}),
		ctxval.FromTable(ctxval.Table{"title": ctxval.Text("Second")}),
	))
	out := render(t, `{~ for x in assets "blog"}{~ get x.title};{~ end}`, ctx, nil)
	assert.Equal(t, "First;Second;", out)
}

func TestUseIncludesPartBody(t *testing.T) {
	parts := asset.NewPartCache()
	parts.Store(&asset.Part{SourcePath: "_header.html", Frontmatter: ctxval.NewTable(), Body: []byte("HDR")})

	out := render(t, `{~ use "_header.html"}/X`, ctxval.New(), parts)
	assert.Equal(t, "HDR/X", out)
}

func TestUseWithBindingsInjectsValuesIntoPartContext(t *testing.T) {
	parts := asset.NewPartCache()
	parts.Store(&asset.Part{
		SourcePath:  "_card.html",
		Frontmatter: ctxval.NewTable(),
		Body:        []byte(`{~ get title}`),
	})

	ctx := ctxval.New().Set("page.title", ctxval.Text("From Caller"))
	out := render(t, `{~ use "_card.html", with page.title as title}`, ctx, parts)
	assert.Equal(t, "From Caller", out)

	out2 := render(t, `{~ use "_card.html", with "Literal" as title}`, ctx, parts)
	assert.Equal(t, "Literal", out2)
}

func TestUseRecursionDepthCapIsRecoverable(t *testing.T) {
	parts := asset.NewPartCache()
	parts.Store(&asset.Part{SourcePath: "_loop.html", Frontmatter: ctxval.NewTable(), Body: []byte(`{~ use "_loop.html"}`)})

	nodes, err := Parse(`{~ use "_loop.html"}`)
	require.NoError(t, err)
	_, err = NewInterpreter(parts).Render(nodes, ctxval.New())
	assert.Error(t, err)
}

func TestUnclosedDelimiterIsAnError(t *testing.T) {
	_, err := Parse(`{~ get page.title`)
	assert.Error(t, err)
}

func TestUnknownDirectiveIsAnError(t *testing.T) {
	_, err := Parse(`{~ frobnicate x}`)
	assert.Error(t, err)
}

func TestExtractFrontmatterParsesTomlPrelude(t *testing.T) {
	src := "title = \"Hi\"\n***\nbody text"
	fm, body := ExtractFrontmatter(src)
	assert.Equal(t, "Hi", fm.AsTable()["title"].AsText())
	assert.Equal(t, "body text", body)
}

func TestExtractFrontmatterNoDelimiterIsWholeBody(t *testing.T) {
	src := "no frontmatter here"
	fm, body := ExtractFrontmatter(src)
	assert.Empty(t, fm.AsTable())
	assert.Equal(t, src, body)
}

func TestExtractFrontmatterRoundTrips(t *testing.T) {
	src := "title = \"Hi\"\nslug = \"hi\"\n***\nbody text\nmore body"
	_, body := ExtractFrontmatter(src)

	start, end, found := findDelimiterLine(src)
	require.True(t, found)
	reconstructed := src[:start] + src[start:end] + body
	assert.Equal(t, src, reconstructed)
	assert.Equal(t, "body text\nmore body", body)
}

func TestExtractFrontmatterInvalidTomlPreludeIsNotFrontmatter(t *testing.T) {
	src := "not valid = = toml\n***\nbody"
	fm, body := ExtractFrontmatter(src)
	assert.Empty(t, fm.AsTable())
	assert.Equal(t, src, body)
}
