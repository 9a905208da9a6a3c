// Package processor defines the pluggable transformation contract the
// orchestrator drives (spec §4.2) and the concrete adapters — thin
// wrappers over third-party codecs — that implement it.
package processor

import (
	"github.com/aerstatic/aer/internal/asset"
	"github.com/aerstatic/aer/internal/ctxval"
)

// Outcome tags which alternative a Result holds.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeSkipped
	OutcomeRecoverableError
	OutcomeDeferred
)

// Result is a processor invocation's outcome (spec §4.2).
type Result struct {
	Outcome Outcome
	Asset   *asset.Asset // set on OutcomeSuccess
	Message string       // set on OutcomeRecoverableError or OutcomeDeferred
}

// Success wraps a' as a successful result.
func Success(a *asset.Asset) Result { return Result{Outcome: OutcomeSuccess, Asset: a} }

// Skipped reports that the processor declined to act on this asset (not
// an error — e.g. minify_js skipping a path already ending in .min.js).
func Skipped() Result { return Result{Outcome: OutcomeSkipped} }

// RecoverableError wraps a per-asset failure that doesn't abort the build.
func RecoverableError(message string) Result {
	return Result{Outcome: OutcomeRecoverableError, Message: message}
}

// Deferred signals the processor needs data from another asset's
// completion before it can proceed.
func Deferred(reason string) Result {
	return Result{Outcome: OutcomeDeferred, Message: reason}
}

// Processor is a named, typed transformation applied to assets whose
// current media type is in MediaTypes. Process MUST NOT mutate ctx; it
// may mutate a.Context (the asset's own per-asset clone).
type Processor interface {
	Name() string
	MediaTypes() []string
	Process(a *asset.Asset, ctx *ctxval.Context) Result
}

// Deps are the dependencies a processor factory may need beyond its own
// options table — currently just the shared part cache, needed by the
// template processor to resolve `use` directives.
type Deps struct {
	Parts *asset.PartCache
}

// Factory constructs a Processor from its configured options table plus
// the build's shared Deps.
type Factory func(opts map[string]interface{}, deps Deps) (Processor, error)

// Supports reports whether p declares mt among its accepted media types.
func Supports(p Processor, mt string) bool {
	for _, t := range p.MediaTypes() {
		if t == mt {
			return true
		}
	}
	return false
}
