package processor

import (
	"sync"

	"github.com/bep/godartsass/v2"

	"github.com/aerstatic/aer/internal/asset"
	"github.com/aerstatic/aer/internal/ctxval"
)

// scssProcessor implements the `scss` processor: text/scss to text/css,
// via the embedded dart-sass protocol (spec §4.2). The transpiler process
// is started lazily and reused across assets in a build, since spinning
// one up per file is the expensive part of this adapter.
type scssProcessor struct {
	mu         sync.Mutex
	transpiler *godartsass.Transpiler
}

// NewSCSS constructs the scss processor. It takes no options.
func NewSCSS(_ map[string]interface{}, _ Deps) (Processor, error) {
	return &scssProcessor{}, nil
}

func (p *scssProcessor) Name() string { return "scss" }

func (p *scssProcessor) MediaTypes() []string { return []string{asset.SCSS} }

func (p *scssProcessor) ensureStarted() (*godartsass.Transpiler, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.transpiler != nil {
		return p.transpiler, nil
	}
	t, err := godartsass.Start(godartsass.Options{})
	if err != nil {
		return nil, err
	}
	p.transpiler = t
	return t, nil
}

func (p *scssProcessor) Process(a *asset.Asset, _ *ctxval.Context) Result {
	transpiler, err := p.ensureStarted()
	if err != nil {
		return RecoverableError("scss: starting compiler: " + err.Error())
	}

	result, err := transpiler.Execute(godartsass.Args{
		Source: a.Content.Text(),
		URL:    a.SourcePath,
	})
	if err != nil {
		return RecoverableError("scss: " + err.Error())
	}

	next := *a
	next.Content = asset.TextContent(result.CSS)
	next.MediaType = asset.CSS
	next.TargetPath = asset.ReplaceExt(a.TargetPath, ".css")
	return Success(&next)
}
