package processor

import (
	"github.com/aerstatic/aer/internal/asset"
	"github.com/aerstatic/aer/internal/canonicalize"
	"github.com/aerstatic/aer/internal/ctxval"
)

// canonicalizeProcessor implements the `canonicalize` processor: rewrites
// URL-bearing attributes and url() references against the configured root
// (spec §4.4).
type canonicalizeProcessor struct {
	root string
}

// NewCanonicalize constructs the canonicalize processor from its `root`
// option (typically overridden per profile — dev vs publish).
func NewCanonicalize(opts map[string]interface{}, _ Deps) (Processor, error) {
	return &canonicalizeProcessor{root: optString(opts, "root", "")}, nil
}

func (p *canonicalizeProcessor) Name() string { return "canonicalize" }

func (p *canonicalizeProcessor) MediaTypes() []string {
	return []string{asset.HTML, asset.CSS}
}

func (p *canonicalizeProcessor) Process(a *asset.Asset, _ *ctxval.Context) Result {
	rewritten, err := canonicalize.Apply(a.MediaType, a.Content.Text(), p.root, a.TargetPath)
	if err != nil {
		return RecoverableError("canonicalize: " + err.Error())
	}

	next := *a
	next.Content = asset.TextContent(rewritten)
	return Success(&next)
}
