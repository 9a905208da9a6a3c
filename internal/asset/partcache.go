package asset

import (
	"sync"

	"github.com/aerstatic/aer/internal/ctxval"
)

// Part is a cached template include: a part's frontmatter, extracted once,
// plus the body bytes that follow the `***` delimiter (or the whole file,
// if it has no frontmatter). Parts are loaded once per build and are
// read-only for the rest of it (spec §5).
type Part struct {
	SourcePath  string
	Frontmatter ctxval.Value
	Body        []byte
	MediaType   string
}

// PartCache maps a part's source path (relative to paths.source) to its
// preloaded Part, grounded on the teacher's thread-safe ComponentRegistry
// (internal/registry/component.go in conneroisu-templar) but trimmed to a
// plain read-mostly map: parts are populated once before the first batch
// and never change afterward, so there's no event-broadcast machinery to
// carry over.
type PartCache struct {
	mu    sync.RWMutex
	parts map[string]*Part
}

// NewPartCache returns an empty cache.
func NewPartCache() *PartCache {
	return &PartCache{parts: make(map[string]*Part)}
}

// Store registers a loaded part under its source path.
func (pc *PartCache) Store(p *Part) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.parts[p.SourcePath] = p
}

// Get looks up a part by source path.
func (pc *PartCache) Get(path string) (*Part, bool) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	p, ok := pc.parts[path]
	return p, ok
}

// Len reports how many parts are cached.
func (pc *PartCache) Len() int {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return len(pc.parts)
}
