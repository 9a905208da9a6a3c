package processor

import (
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"

	"github.com/aerstatic/aer/internal/asset"
	"github.com/aerstatic/aer/internal/ctxval"
)

// minifyHTMLProcessor implements the `minify_html` processor: comment and
// whitespace stripping (spec §4.2). A minifier failure leaves the asset's
// content unchanged and is reported as a recoverable error against the
// asset; there is no separate warning-level outcome.
type minifyHTMLProcessor struct {
	m *minify.M
}

// NewMinifyHTML constructs the minify_html processor. It takes no options.
func NewMinifyHTML(_ map[string]interface{}, _ Deps) (Processor, error) {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	return &minifyHTMLProcessor{m: m}, nil
}

func (p *minifyHTMLProcessor) Name() string { return "minify_html" }

func (p *minifyHTMLProcessor) MediaTypes() []string { return []string{asset.HTML} }

func (p *minifyHTMLProcessor) Process(a *asset.Asset, _ *ctxval.Context) Result {
	minified, err := p.m.String("text/html", a.Content.Text())
	if err != nil {
		return RecoverableError("minify_html: " + a.SourcePath + ": " + err.Error())
	}

	next := *a
	next.Content = asset.TextContent(minified)
	return Success(&next)
}
