package processor

import (
	"fmt"

	"github.com/aerstatic/aer/internal/config"
	"github.com/aerstatic/aer/internal/procname"
)

// factories maps each known processor name to its constructor. Defined as
// a function rather than a package-level var literal so every Build call
// gets its own fresh closures over Deps.
func factories() map[string]Factory {
	return map[string]Factory{
		procname.Markdown:     func(opts map[string]interface{}, deps Deps) (Processor, error) { return NewMarkdown(opts, deps) },
		procname.Template:     func(opts map[string]interface{}, deps Deps) (Processor, error) { return NewTemplate(opts, deps) },
		procname.SCSS:         func(opts map[string]interface{}, deps Deps) (Processor, error) { return NewSCSS(opts, deps) },
		procname.Canonicalize: func(opts map[string]interface{}, deps Deps) (Processor, error) { return NewCanonicalize(opts, deps) },
		procname.Image:        func(opts map[string]interface{}, deps Deps) (Processor, error) { return NewImage(opts, deps) },
		procname.JSBundle:     func(opts map[string]interface{}, deps Deps) (Processor, error) { return NewJSBundle(opts, deps) },
		procname.MinifyHTML:   func(opts map[string]interface{}, deps Deps) (Processor, error) { return NewMinifyHTML(opts, deps) },
		procname.MinifyJS:     func(opts map[string]interface{}, deps Deps) (Processor, error) { return NewMinifyJS(opts, deps) },
		procname.Favicon:      func(opts map[string]interface{}, deps Deps) (Processor, error) { return NewFavicon(opts, deps) },
	}
}

// Build constructs the ordered processor pipeline a profile's
// [<profile>.procs] table names, in the configured order (spec §4.2).
// config.Load already rejects unknown names, so any mismatch here would
// indicate the two packages' allow-lists have drifted apart.
func Build(entries []config.ProcEntry, deps Deps) ([]Processor, error) {
	fs := factories()
	procs := make([]Processor, 0, len(entries))
	for _, entry := range entries {
		factory, ok := fs[entry.Name]
		if !ok {
			return nil, fmt.Errorf("processor: no factory registered for %q", entry.Name)
		}
		p, err := factory(entry.Options, deps)
		if err != nil {
			return nil, fmt.Errorf("processor: constructing %q: %w", entry.Name, err)
		}
		procs = append(procs, p)
	}
	return procs, nil
}
