// Package assetreg publishes completed-asset metadata into the shared
// build context between batches, backing the `{~ for x in assets "P"}`
// template form (spec §4.1, §4.3).
//
// It is adapted from the teacher's internal/registry.ComponentRegistry:
// the same register-then-broadcast shape, trimmed to the orchestrator's
// actual need — a per-directory list published once per batch boundary
// rather than an event channel fanned out to live subscribers.
package assetreg

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/aerstatic/aer/internal/ctxval"
)

// Registry accumulates per-directory published-asset metadata across a
// build's batches and merges it into the shared context at each batch
// boundary.
type Registry struct {
	// mu protects entries against concurrent Register calls from a batch's
	// worker pool.
	mu sync.Mutex
	// entries maps a source directory (relative to paths.source, "." for
	// the root) to the metadata table of every asset published under it
	// so far.
	entries map[string][]ctxval.Value
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string][]ctxval.Value)}
}

// Register records one completed asset's published metadata under its
// source directory. Safe for concurrent use by a batch's worker pool.
func (r *Registry) Register(sourcePath string, meta ctxval.Value) {
	dir := filepath.ToSlash(filepath.Dir(sourcePath))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[dir] = append(r.entries[dir], meta)
}

// Publish writes every directory's accumulated metadata into ctx under the
// well-known `_assets:<directory>` keys (spec §4.1), replacing any list
// already stored under each key, and returns the resulting context. Called once per batch boundary; the orchestrator
// owns serializing this against the next batch's reads.
func (r *Registry) Publish(ctx *ctxval.Context) *ctxval.Context {
	r.mu.Lock()
	dirs := make([]string, 0, len(r.entries))
	for dir := range r.entries {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	out := ctx
	for _, dir := range dirs {
		out = out.Set("_assets:"+dir, ctxval.List(r.entries[dir]...))
	}
	r.mu.Unlock()
	return out
}
