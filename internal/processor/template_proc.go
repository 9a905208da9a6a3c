package processor

import (
	"github.com/aerstatic/aer/internal/asset"
	"github.com/aerstatic/aer/internal/ctxval"
	"github.com/aerstatic/aer/internal/template"
)

// templateProcessor implements the `template` processor: frontmatter
// extraction, `{~ … }` expansion, and pattern (outer-wrapper) rendering,
// against every textual media type (spec §4.3).
type templateProcessor struct {
	interp *template.Interpreter
}

// NewTemplate constructs the template processor. It shares the build's
// part cache with the interpreter so `use` directives can resolve.
func NewTemplate(_ map[string]interface{}, deps Deps) (Processor, error) {
	return &templateProcessor{interp: template.NewInterpreter(deps.Parts)}, nil
}

func (p *templateProcessor) Name() string { return "template" }

func (p *templateProcessor) MediaTypes() []string {
	return []string{asset.Markdown, asset.HTML, asset.CSS, asset.SCSS, asset.JS}
}

func (p *templateProcessor) Process(a *asset.Asset, ctx *ctxval.Context) Result {
	fm, body := template.ExtractFrontmatter(a.Content.Text())
	// ctx carries the orchestrator's published "_assets:<directory>" tables
	// (spec §4.1), which a's own per-asset clone predates; merge it in
	// underneath the asset's own context and frontmatter so `{~ for x in
	// assets "P"}` can resolve without either shadowing the other (the
	// "_assets:" namespace never collides with a real frontmatter key).
	assetCtx := ctx.Merge(a.Context).Merge(ctxval.FromValue(fm))

	rendered, res, ok := p.render(body, assetCtx)
	if !ok {
		return res
	}

	pattern := fm.AsTable()["pattern"]
	if pattern.IsText() && pattern.AsText() != "" {
		part, found := p.interp.Parts.Get(pattern.AsText())
		if !found {
			return RecoverableError("template: pattern part " + pattern.AsText() + " not found")
		}
		patternCtx := assetCtx.Set("content", ctxval.Text(rendered))
		rendered, res, ok = p.render(string(part.Body), patternCtx)
		if !ok {
			return res
		}
	}

	next := *a
	next.Content = asset.TextContent(rendered)
	next.Context = assetCtx
	return Success(&next)
}

// render parses and interprets src against ctx, translating a deferred
// render into a Deferred Result and any other failure into a
// RecoverableError Result; ok is false in either case.
func (p *templateProcessor) render(src string, ctx *ctxval.Context) (string, Result, bool) {
	nodes, err := template.Parse(src)
	if err != nil {
		return "", RecoverableError("template: " + err.Error()), false
	}

	out, err := p.interp.Render(nodes, ctx)
	if err != nil {
		if deferred, ok := err.(*template.DeferredError); ok {
			return "", Deferred(deferred.Reason), false
		}
		return "", RecoverableError("template: " + err.Error()), false
	}
	return out, Result{}, true
}
