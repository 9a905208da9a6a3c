package processor

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghtml "github.com/yuin/goldmark/renderer/html"

	"github.com/aerstatic/aer/internal/asset"
	"github.com/aerstatic/aer/internal/ctxval"
)

// markdownProcessor implements the `markdown` processor: text/markdown to
// text/html, CommonMark (plus the common GFM extensions), body-fragment
// output (spec §4.2).
type markdownProcessor struct {
	md goldmark.Markdown
}

// NewMarkdown constructs the markdown processor. It takes no options.
func NewMarkdown(_ map[string]interface{}, _ Deps) (Processor, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(ghtml.WithUnsafe()),
	)
	return &markdownProcessor{md: md}, nil
}

func (p *markdownProcessor) Name() string { return "markdown" }

func (p *markdownProcessor) MediaTypes() []string { return []string{asset.Markdown} }

func (p *markdownProcessor) Process(a *asset.Asset, _ *ctxval.Context) Result {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(a.Content.Text()), &buf); err != nil {
		return RecoverableError("markdown: " + err.Error())
	}

	next := *a
	next.Content = asset.TextContent(buf.String())
	next.MediaType = asset.HTML
	next.TargetPath = asset.ReplaceExt(a.TargetPath, ".html")
	return Success(&next)
}
