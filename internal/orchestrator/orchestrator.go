// Package orchestrator implements the asset pipeline's scheduling core
// (spec §4.1): source-tree discovery, the per-asset pending-processor
// queue with media-type rebuild, parallel batches bounded by CPU count,
// the deferral fixed-point retry with cycle detection, and the final
// write phase.
//
// It is grounded on the teacher's internal/build.BuildPipeline (worker
// pool, queue/result channel split, metrics) but the scheduling logic
// itself has no teacher analogue — templ components build independently,
// with no notion of media-type re-evaluation or cross-asset deferral —
// so that part is built directly from spec §4.1/§4.3/§8.
package orchestrator

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/aerstatic/aer/internal/asset"
	"github.com/aerstatic/aer/internal/assetreg"
	"github.com/aerstatic/aer/internal/config"
	"github.com/aerstatic/aer/internal/ctxval"
	aererrors "github.com/aerstatic/aer/internal/errors"
	"github.com/aerstatic/aer/internal/logging"
	"github.com/aerstatic/aer/internal/processor"
	"github.com/aerstatic/aer/internal/template"
)

// Orchestrator turns (source tree, merged context, ordered processor list)
// into written target files.
type Orchestrator struct {
	// Paths is the active profile's resolved [paths] table.
	Paths config.Paths
	// Processors is the configured pipeline, in profile order.
	Processors []processor.Processor
	// Parts is the shared part cache, populated by Discover and read-only
	// thereafter.
	Parts *asset.PartCache
	// Registry accumulates published per-directory asset metadata between
	// batches (spec §4.1's "_assets:<directory>" subtree).
	Registry *assetreg.Registry
	// Collector gathers every asset's recoverable errors for the build
	// report (spec §6/§7).
	Collector *aererrors.Collector
	// Log is the component-scoped logger the build report is emitted
	// through.
	Log logging.Logger
	// Workers bounds batch parallelism; New sets it to runtime.NumCPU(),
	// and a value of zero or less runs a single worker.
	Workers int
}

// New constructs an Orchestrator from a resolved config, built processor
// pipeline and shared part cache.
func New(cfg *config.Config, procs []processor.Processor, parts *asset.PartCache, log logging.Logger) *Orchestrator {
	return &Orchestrator{
		Paths:      cfg.Paths,
		Processors: procs,
		Parts:      parts,
		Registry:   assetreg.New(),
		Collector:  aererrors.NewCollector(),
		Log:        log.WithComponent("orchestrator"),
		Workers:    runtime.NumCPU(),
	}
}

// Discover walks paths.Source, loading parts directly into o.Parts and
// returning an Asset for every regular (non-part) file, its context a
// fresh clone of baseCtx (spec §3, §4.1).
func (o *Orchestrator) Discover(baseCtx *ctxval.Context) ([]*asset.Asset, error) {
	var assets []*asset.Asset

	err := filepath.WalkDir(o.Paths.Source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("orchestrator: walking %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(o.Paths.Source, path)
		if err != nil {
			return fmt.Errorf("orchestrator: relativizing %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("orchestrator: reading %s: %w", path, err)
		}

		mt := asset.DeriveMediaType(rel)

		if asset.IsPartPath(rel) {
			o.loadPart(rel, mt, data)
			return nil
		}

		var content asset.Content
		if asset.IsTextual(mt) && utf8.Valid(data) {
			content = asset.TextContent(string(data))
		} else {
			content = asset.BytesContent(data)
		}

		assets = append(assets, asset.New(rel, o.Paths.Target, content, baseCtx.Clone()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(assets, func(i, j int) bool { return assets[i].SourcePath < assets[j].SourcePath })
	return assets, nil
}

// loadPart extracts a part's frontmatter (for textual media types) and
// stores it in the shared cache. Parts are never executed as top-level
// assets (spec §3).
func (o *Orchestrator) loadPart(rel, mt string, data []byte) {
	if asset.IsTextual(mt) {
		fm, body := template.ExtractFrontmatter(string(data))
		o.Parts.Store(&asset.Part{SourcePath: rel, Frontmatter: fm, Body: []byte(body), MediaType: mt})
		return
	}
	o.Parts.Store(&asset.Part{SourcePath: rel, Frontmatter: ctxval.NewTable(), Body: data, MediaType: mt})
}

// Run executes the full processing schedule against assets (already
// discovered by Discover) and writes surviving assets to disk, returning
// the build report (spec §6).
func (o *Orchestrator) Run(ctx context.Context, assets []*asset.Asset, sharedCtx *ctxval.Context) (*Report, error) {
	report := newReport()

	states := make([]*assetState, len(assets))
	for i, a := range assets {
		states[i] = &assetState{asset: a}
		states[i].pending = o.buildPending(a.MediaType, nil)
	}

	batch := states
	for len(batch) > 0 {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		o.runBatch(batch, sharedCtx)

		var completed, deferred []*assetState
		for _, st := range batch {
			if st.deferredThisRound {
				st.deferredThisRound = false
				st.deferralCount++
				deferred = append(deferred, st)
				continue
			}
			completed = append(completed, st)
		}

		for _, st := range completed {
			o.publish(st.asset)
		}
		sharedCtx = o.Registry.Publish(sharedCtx)

		cycle := o.detectCycle(deferred)
		if len(cycle) > 0 {
			names := make([]string, len(cycle))
			for i, st := range cycle {
				names[i] = st.asset.SourcePath
			}
			for _, st := range cycle {
				err := aererrors.Recoverable(st.asset.SourcePath, "", "deferral cycle detected", nil).
					WithContext("cycle", names)
				st.asset.RecordError(err)
				o.Collector.Add(err)
				completed = append(completed, st)
			}
			deferred = removeAll(deferred, cycle)
		}

		report.completed = append(report.completed, completed...)
		batch = deferred
	}

	if err := o.write(report); err != nil {
		return report, err
	}
	report.PartsSkipped += o.Parts.Len()

	report.Errors = o.Collector.All()
	o.Log.Info(ctx, "build complete",
		"assets_written", report.Written,
		"assets_skipped_identical", report.SkippedIdentical,
		"parts", o.Parts.Len(),
		"errors", len(report.Errors),
	)
	return report, nil
}

// publish records a completed, non-part asset's metadata into the
// registry so `{~ for x in assets "P"}` can observe it starting next
// batch (spec §4.1).
func (o *Orchestrator) publish(a *asset.Asset) {
	if a.IsPart {
		return
	}
	meta := ctxval.FromTable(ctxval.Table{
		"source_path": ctxval.Text(a.SourcePath),
		"target_path": ctxval.Text(a.TargetPath),
		"media_type":  ctxval.Text(a.MediaType),
		"slug":        ctxval.Text(slugFor(a.TargetPath)),
	})
	o.Registry.Register(a.SourcePath, meta)
}

// detectCycle applies the deferral-cycle heuristic of spec §4.1: an asset
// whose deferral count exceeds the number of deferred assets in the
// current batch is declared part of a cycle.
func (o *Orchestrator) detectCycle(deferred []*assetState) []*assetState {
	var cycle []*assetState
	for _, st := range deferred {
		if st.deferralCount > len(deferred) {
			cycle = append(cycle, st)
		}
	}
	return cycle
}

func removeAll(all, remove []*assetState) []*assetState {
	if len(remove) == 0 {
		return all
	}
	skip := make(map[*assetState]bool, len(remove))
	for _, st := range remove {
		skip[st] = true
	}
	out := all[:0:0]
	for _, st := range all {
		if !skip[st] {
			out = append(out, st)
		}
	}
	return out
}

// slugFor derives a path's basename without extension, NFC-normalized the
// way the teacher normalizes locale-sensitive titles, so a slug built from
// a decomposed Unicode filename compares equal to its composed form
// wherever a template compares it against frontmatter text.
func slugFor(targetPath string) string {
	base := filepath.Base(targetPath)
	ext := filepath.Ext(base)
	return norm.NFC.String(base[:len(base)-len(ext)])
}
