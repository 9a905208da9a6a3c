package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectorAddAndQuery(t *testing.T) {
	c := NewCollector()
	assert.False(t, c.HasErrors())

	c.Add(Recoverable("post.md", "markdown", "bad frontmatter", nil))
	c.Add(errors.New("plain error"))

	assert.True(t, c.HasErrors())
	assert.Equal(t, 2, c.Count())
	assert.Len(t, c.ByAsset("post.md"), 1)
	assert.Len(t, c.All(), 2)
}

func TestCollectorAddNilIsNoop(t *testing.T) {
	c := NewCollector()
	c.Add(nil)
	assert.False(t, c.HasErrors())
}

func TestAerErrorIsMatchesKindAndCode(t *testing.T) {
	a := &AerError{Kind: KindRecoverable, Code: "BAD_INPUT"}
	b := &AerError{Kind: KindRecoverable, Code: "BAD_INPUT"}
	c := &AerError{Kind: KindFatal, Code: "BAD_INPUT"}

	assert.True(t, a.Is(b))
	assert.False(t, a.Is(c))
}

func TestIsDeferredAndIsFatal(t *testing.T) {
	d := Deferred("index.html", "template", "waiting on assets metadata")
	f := Fatal("CONFIG", "missing source root", nil)

	assert.True(t, IsDeferred(d))
	assert.False(t, IsFatal(d))
	assert.True(t, IsFatal(f))
	assert.False(t, IsDeferred(f))
}
