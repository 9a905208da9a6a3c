// Package asset defines the in-memory record the orchestrator, processors
// and template engine pass around: one source file's path, target path,
// media type and content, plus a per-asset clone of the shared context
// (spec §3).
package asset

import (
	"path/filepath"
	"strings"

	"github.com/aerstatic/aer/internal/ctxval"
)

// Media types recognized by the extension table in DeriveMediaType and by
// the processors' declared affinities (spec §4.2).
const (
	Markdown    = "text/markdown"
	HTML        = "text/html"
	CSS         = "text/css"
	SCSS        = "text/scss"
	JS          = "application/javascript"
	JPEG        = "image/jpeg"
	PNG         = "image/png"
	GIF         = "image/gif"
	ICO         = "image/x-icon"
	OctetStream = "application/octet-stream"
)

var extToMediaType = map[string]string{
	".md":       Markdown,
	".markdown": Markdown,
	".html":     HTML,
	".htm":      HTML,
	".css":      CSS,
	".scss":     SCSS,
	".js":       JS,
	".mjs":      JS,
	".jpg":      JPEG,
	".jpeg":     JPEG,
	".png":      PNG,
	".gif":      GIF,
	".ico":      ICO,
}

// textualMediaTypes are the types Discover loads as Text content when the
// file is valid UTF-8 (otherwise as Bytes) — the set the template processor
// and pattern re-render step (spec §4.3, "honor it for any textual media
// type") apply to.
var textualMediaTypes = map[string]bool{
	Markdown: true,
	HTML:     true,
	CSS:      true,
	SCSS:     true,
	JS:       true,
}

// DeriveMediaType derives a media type from a path's extension, falling
// back to application/octet-stream for anything unrecognized (spec §4.1).
func DeriveMediaType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mt, ok := extToMediaType[ext]; ok {
		return mt
	}
	return OctetStream
}

// IsTextual reports whether mt is one of the always-text media types.
func IsTextual(mt string) bool { return textualMediaTypes[mt] }

// IsPartPath reports whether any component of path begins with "_" (spec
// §3: "is_part | true iff any path component begins with _").
func IsPartPath(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.HasPrefix(part, "_") {
			return true
		}
	}
	return false
}

// Content holds an asset's current body as either text or raw bytes,
// mirroring the Text | Bytes variant of spec §3 — text content is always
// valid UTF-8, binary media types always carry Bytes content.
type Content struct {
	isText bool
	text   string
	raw    []byte
}

// TextContent wraps s as text content.
func TextContent(s string) Content { return Content{isText: true, text: s} }

// BytesContent wraps b as binary content, copying it so callers can reuse
// their buffer.
func BytesContent(b []byte) Content {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Content{raw: cp}
}

// IsText reports whether c holds text content.
func (c Content) IsText() bool { return c.isText }

// Text returns c's body as a string, decoding raw bytes as UTF-8 if
// necessary.
func (c Content) Text() string {
	if c.isText {
		return c.text
	}
	return string(c.raw)
}

// Bytes returns c's body as a byte slice.
func (c Content) Bytes() []byte {
	if c.isText {
		return []byte(c.text)
	}
	return c.raw
}

// Len reports the content's byte length without an intermediate
// allocation when possible.
func (c Content) Len() int {
	if c.isText {
		return len(c.text)
	}
	return len(c.raw)
}

// Asset is one file moving through the pipeline (spec §3).
type Asset struct {
	SourcePath string
	TargetPath string
	MediaType  string
	Content    Content
	Context    *ctxval.Context
	IsPart     bool

	// Errors accumulates recoverable errors recorded against this asset
	// during processing, for the build report (spec §7).
	Errors []error
}

// New constructs an Asset for sourcePath, deriving its initial target path,
// media type and is_part flag the way discover() does (spec §4.1).
func New(sourcePath, targetRoot string, content Content, ctx *ctxval.Context) *Asset {
	return &Asset{
		SourcePath: sourcePath,
		TargetPath: filepath.ToSlash(filepath.Join(targetRoot, sourcePath)),
		MediaType:  DeriveMediaType(sourcePath),
		Content:    content,
		Context:    ctx,
		IsPart:     IsPartPath(sourcePath),
	}
}

// ReplaceExt swaps p's extension for newExt (which should include the
// leading dot), the way the markdown and scss processors retarget an
// asset's target_path after changing its media type.
func ReplaceExt(p, newExt string) string {
	ext := filepath.Ext(p)
	return strings.TrimSuffix(p, ext) + newExt
}

// RecordError appends err to the asset's recorded errors; it does not alter
// Content, matching spec §7's "last successful content is what is
// eventually written" rule.
func (a *Asset) RecordError(err error) {
	if err == nil {
		return
	}
	a.Errors = append(a.Errors, err)
}
