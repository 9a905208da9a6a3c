package assetreg

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aerstatic/aer/internal/ctxval"
)

func TestRegistryGroupsByDirectory(t *testing.T) {
	r := New()
	r.Register("blog/one.md", ctxval.Text("one"))
	r.Register("blog/two.md", ctxval.Text("two"))
	r.Register("notes/three.md", ctxval.Text("three"))

	ctx := r.Publish(ctxval.New())

	blog, ok := ctx.Get("_assets:blog")
	assert.True(t, ok)
	assert.Equal(t, 2, len(blog.AsList()))

	notes, ok := ctx.Get("_assets:notes")
	assert.True(t, ok)
	assert.Equal(t, 1, len(notes.AsList()))
}

func TestRegistryRootDirectoryUsesDot(t *testing.T) {
	r := New()
	r.Register("index.md", ctxval.Text("home"))

	ctx := r.Publish(ctxval.New())
	root, ok := ctx.Get("_assets:.")
	assert.True(t, ok)
	assert.Equal(t, 1, len(root.AsList()))
}

func TestRegistryPublishPreservesExistingContext(t *testing.T) {
	r := New()
	r.Register("blog/one.md", ctxval.Text("one"))

	base := ctxval.New().Set("site_name", ctxval.Text("Example"))
	ctx := r.Publish(base)

	assert.Equal(t, "Example", ctx.GetText("site_name"))
	_, ok := ctx.Get("_assets:blog")
	assert.True(t, ok)
}
