package processor

import (
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/aerstatic/aer/internal/asset"
	"github.com/aerstatic/aer/internal/ctxval"
)

// jsBundleProcessor implements the `js_bundle` processor: ES module
// resolution starting at the asset's source path, bundled into a single
// file, optionally minified (spec §4.2).
type jsBundleProcessor struct {
	minify bool
}

// NewJSBundle constructs the js_bundle processor from its `minify` option.
func NewJSBundle(opts map[string]interface{}, _ Deps) (Processor, error) {
	return &jsBundleProcessor{minify: optBool(opts, "minify", false)}, nil
}

func (p *jsBundleProcessor) Name() string { return "js_bundle" }

func (p *jsBundleProcessor) MediaTypes() []string { return []string{asset.JS} }

func (p *jsBundleProcessor) Process(a *asset.Asset, _ *ctxval.Context) Result {
	result := api.Build(api.BuildOptions{
		EntryPoints:       []string{a.SourcePath},
		Bundle:            true,
		Write:             false,
		Format:            api.FormatESModule,
		Platform:          api.PlatformBrowser,
		MinifyWhitespace:  p.minify,
		MinifyIdentifiers: p.minify,
		MinifySyntax:      p.minify,
	})

	if len(result.Errors) > 0 {
		messages := make([]string, len(result.Errors))
		for i, e := range result.Errors {
			messages[i] = e.Text
		}
		return RecoverableError("js_bundle: " + strings.Join(messages, "; "))
	}
	if len(result.OutputFiles) == 0 {
		return RecoverableError("js_bundle: produced no output for " + a.SourcePath)
	}

	next := *a
	next.Content = asset.BytesContent(result.OutputFiles[0].Contents)
	return Success(&next)
}
