package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aerstatic/aer/internal/ctxval"
)

func TestDeriveMediaTypeKnownExtensions(t *testing.T) {
	assert.Equal(t, Markdown, DeriveMediaType("posts/hi.md"))
	assert.Equal(t, HTML, DeriveMediaType("index.html"))
	assert.Equal(t, SCSS, DeriveMediaType("styles/site.scss"))
	assert.Equal(t, JPEG, DeriveMediaType("img/a.JPG"))
}

func TestDeriveMediaTypeUnknownExtensionDefaultsToOctetStream(t *testing.T) {
	assert.Equal(t, OctetStream, DeriveMediaType("data/backup.bin"))
}

func TestIsPartPathDetectsUnderscorePrefixedComponents(t *testing.T) {
	assert.True(t, IsPartPath("_header.html"))
	assert.True(t, IsPartPath("layouts/_base/footer.html"))
	assert.False(t, IsPartPath("layouts/base/footer.html"))
}

func TestContentTextAndBytesRoundTrip(t *testing.T) {
	text := TextContent("hello")
	assert.True(t, text.IsText())
	assert.Equal(t, "hello", text.Text())
	assert.Equal(t, []byte("hello"), text.Bytes())

	raw := BytesContent([]byte{0x89, 0x50, 0x4e, 0x47})
	assert.False(t, raw.IsText())
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, raw.Bytes())
}

func TestNewAssetDerivesTargetPathAndMediaType(t *testing.T) {
	a := New("blog/post.md", "dist", TextContent("# Hi"), ctxval.New())
	assert.Equal(t, "dist/blog/post.md", a.TargetPath)
	assert.Equal(t, Markdown, a.MediaType)
	assert.False(t, a.IsPart)
}

func TestNewAssetFlagsPart(t *testing.T) {
	a := New("layouts/_base.html", "dist", TextContent("<html></html>"), ctxval.New())
	assert.True(t, a.IsPart)
}

func TestPartCacheStoreAndGet(t *testing.T) {
	pc := NewPartCache()
	pc.Store(&Part{SourcePath: "_header.html", Body: []byte("HDR")})

	p, ok := pc.Get("_header.html")
	assert.True(t, ok)
	assert.Equal(t, "HDR", string(p.Body))
	assert.Equal(t, 1, pc.Len())

	_, ok = pc.Get("missing.html")
	assert.False(t, ok)
}
