package orchestrator

import (
	"sync"

	"github.com/aerstatic/aer/internal/asset"
	"github.com/aerstatic/aer/internal/ctxval"
	"github.com/aerstatic/aer/internal/processor"
)

// assetState tracks one asset's progress through the pending-processor
// queue across the life of a build, surviving from one batch to the next
// when it defers.
type assetState struct {
	asset *asset.Asset
	// pending holds the processors still owed a run against the asset's
	// current media type, in configured order (spec §4.1).
	pending []processor.Processor
	// ranUnderType records, for each media type the asset has carried,
	// which processor names have already succeeded against it — consulted
	// when a media-type change forces a pending-queue rebuild, and the
	// enforcement point for the "never runs twice against the same
	// (content, media_type)" invariant (spec §8).
	ranUnderType map[string]map[string]bool
	// deferredThisRound is set by runOne when the asset's head processor
	// returned Deferred; Run reads it once per batch then clears it.
	deferredThisRound bool
	// deferralCount is the number of batches in which this asset has
	// deferred, used by the cycle heuristic (spec §4.1).
	deferralCount int
}

// buildPending constructs the pending queue for mt: every configured
// processor that declares mt among its MediaTypes, excluding any whose
// name is recorded in exclude (already run successfully against mt).
func (o *Orchestrator) buildPending(mt string, exclude map[string]bool) []processor.Processor {
	pending := make([]processor.Processor, 0, len(o.Processors))
	for _, p := range o.Processors {
		if !processor.Supports(p, mt) {
			continue
		}
		if exclude != nil && exclude[p.Name()] {
			continue
		}
		pending = append(pending, p)
	}
	return pending
}

// runBatch processes every asset in batch to either completion or
// deferral, in parallel across o.Workers goroutines. No asset is ever
// touched concurrently with itself (spec §5).
func (o *Orchestrator) runBatch(batch []*assetState, sharedCtx *ctxval.Context) {
	workers := o.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(batch) {
		workers = len(batch)
	}
	if workers == 0 {
		return
	}

	jobs := make(chan *assetState)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for st := range jobs {
				o.runOne(st, sharedCtx)
			}
		}()
	}
	for _, st := range batch {
		jobs <- st
	}
	close(jobs)
	wg.Wait()
}

// runOne drives one asset's pending queue: pop the head processor, apply
// its result, and either continue to the next pending processor, rebuild
// the queue on a media-type change, or stop and mark the asset deferred
// (spec §4.1).
func (o *Orchestrator) runOne(st *assetState, sharedCtx *ctxval.Context) {
	if st.ranUnderType == nil {
		st.ranUnderType = make(map[string]map[string]bool)
	}

	for len(st.pending) > 0 {
		p := st.pending[0]
		result := p.Process(st.asset, sharedCtx)

		switch result.Outcome {
		case processor.OutcomeSuccess:
			oldType := st.asset.MediaType
			st.asset = result.Asset
			newType := st.asset.MediaType

			o.markRan(st, oldType, p.Name())
			if newType != oldType {
				o.markRan(st, newType, p.Name())
				st.pending = o.buildPending(newType, st.ranUnderType[newType])
			} else {
				st.pending = st.pending[1:]
			}

		case processor.OutcomeSkipped:
			st.pending = st.pending[1:]

		case processor.OutcomeRecoverableError:
			err := newRecoverableError(st.asset.SourcePath, p.Name(), result.Message)
			st.asset.RecordError(err)
			o.Collector.Add(err)
			st.pending = st.pending[1:]

		case processor.OutcomeDeferred:
			st.deferredThisRound = true
			return
		}
	}
}

// markRan records that processor name has succeeded against mt for st,
// so a later pending-queue rebuild for the same media type excludes it
// (spec §8: a processor never runs twice against the same (content,
// media_type) pair).
func (o *Orchestrator) markRan(st *assetState, mt, name string) {
	if st.ranUnderType[mt] == nil {
		st.ranUnderType[mt] = make(map[string]bool)
	}
	st.ranUnderType[mt][name] = true
}
