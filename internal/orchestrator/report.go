package orchestrator

import (
	aererrors "github.com/aerstatic/aer/internal/errors"
)

// Report summarizes one build's outcome (spec §6): assets written or
// skipped, and the recoverable errors surfaced along the way.
type Report struct {
	// completed holds every non-deferred asset state once its pending
	// queue has drained, cycle-terminated assets included; write()
	// consumes it and the field is not exported since its element type
	// (assetState) is build-internal.
	completed []*assetState

	Written          int
	SkippedIdentical int
	PartsSkipped     int
	Errors           []*aererrors.AerError
}

func newReport() *Report {
	return &Report{}
}

// HasErrors reports whether any recoverable error was recorded during the
// build (spec §7: "a build that finished with recoverable errors exits
// non-zero").
func (r *Report) HasErrors() bool { return len(r.Errors) > 0 }

// WrittenAssets returns the source paths of every asset the build
// attempted to write (including write-skipped-identical ones), useful for
// the CLI's summary line.
func (r *Report) WrittenAssets() []string {
	out := make([]string, 0, len(r.completed))
	for _, st := range r.completed {
		if !st.asset.IsPart {
			out = append(out, st.asset.SourcePath)
		}
	}
	return out
}

func newRecoverableError(sourcePath, processorName, message string) *aererrors.AerError {
	return aererrors.Recoverable(sourcePath, processorName, message, nil)
}
