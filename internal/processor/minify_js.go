package processor

import (
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/js"

	"github.com/aerstatic/aer/internal/asset"
	"github.com/aerstatic/aer/internal/ctxval"
)

// minifyJSProcessor implements the `minify_js` processor (spec §4.2).
type minifyJSProcessor struct {
	m *minify.M
}

// NewMinifyJS constructs the minify_js processor. It takes no options.
func NewMinifyJS(_ map[string]interface{}, _ Deps) (Processor, error) {
	m := minify.New()
	m.AddFunc("application/javascript", js.Minify)
	return &minifyJSProcessor{m: m}, nil
}

func (p *minifyJSProcessor) Name() string { return "minify_js" }

func (p *minifyJSProcessor) MediaTypes() []string { return []string{asset.JS} }

func (p *minifyJSProcessor) Process(a *asset.Asset, _ *ctxval.Context) Result {
	if strings.HasSuffix(a.TargetPath, ".min.js") {
		return Skipped()
	}

	minified, err := p.m.String("application/javascript", a.Content.Text())
	if err != nil {
		return RecoverableError("minify_js: " + a.SourcePath + ": " + err.Error())
	}

	next := *a
	next.Content = asset.TextContent(minified)
	return Success(&next)
}
