package orchestrator

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aerstatic/aer/internal/asset"
)

// write computes final on-disk bytes for every non-part asset in the
// report (cycle-errored assets included, with their last content), applies the clean_urls rewrite, skips identical
// writes, and persists the rest (spec §4.1's write phase). Each asset owns
// a disjoint target path, so the phase runs in parallel like a batch.
func (o *Orchestrator) write(report *Report) error {
	var mu sync.Mutex
	var firstErr error
	var wg sync.WaitGroup

	sem := make(chan struct{}, maxInt(o.Workers, 1))
	for _, st := range report.completed {
		a := st.asset
		if a.IsPart {
			report.PartsSkipped++
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(a *asset.Asset) {
			defer wg.Done()
			defer func() { <-sem }()

			written, skipped, err := o.writeOne(a)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			if skipped {
				report.SkippedIdentical++
			} else if written {
				report.Written++
			}
		}(a)
	}
	wg.Wait()
	return firstErr
}

// writeOne writes a single asset, applying the clean_urls rewrite to its
// target path first. skipped is true when the existing file already
// matches byte-for-byte.
func (o *Orchestrator) writeOne(a *asset.Asset) (written, skipped bool, err error) {
	target := a.TargetPath
	if o.Paths.CleanURLs && a.MediaType == asset.HTML && filepath.Base(target) != "index.html" {
		target = cleanURLTarget(target)
	}

	data := a.Content.Bytes()

	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return false, true, nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return false, false, fmt.Errorf("orchestrator: creating %s: %w", filepath.Dir(target), err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return false, false, fmt.Errorf("orchestrator: writing %s: %w", target, err)
	}
	return true, false, nil
}

// cleanURLTarget rewrites <dir>/<stem>.html to <dir>/<stem>/index.html
// (spec §4.1).
func cleanURLTarget(target string) string {
	dir := filepath.Dir(target)
	base := filepath.Base(target)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem, "index.html")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
