package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/flatsky/tod/accum"
	"github.com/flatsky/tod/buffer"
)

// Job is one independent to_map/from_map call, bundled so RunConcurrent
// can dispatch it to its own goroutine. Map is the per-job destination
// or source map buffer; Boresight, Offsets, and Signal are as in
// ToMap/FromMap. Reverse selects from_map over to_map.
type Job[K any, PK accum.KernelPtr[K]] struct {
	Engine    *Engine[K, PK]
	Map       buffer.View
	Boresight buffer.View
	Offsets   buffer.View
	Signal    buffer.View
	Reverse   bool
}

// RunConcurrent runs a batch of jobs across goroutines, one per job, and
// returns the first error encountered (if any). The other jobs are not
// cancelled: every job runs to completion before RunConcurrent returns.
// Each job must own a disjoint Engine instance and a disjoint map buffer
// — a single Engine value, or a shared map, called from two jobs at once
// is a data race the caller must avoid. This does not change any single
// call's kernel semantics; it only runs independent to_map/from_map
// calls on separate goroutines instead of one after another.
func RunConcurrent[K any, PK accum.KernelPtr[K]](ctx context.Context, jobs []Job[K, PK]) error {
	g, _ := errgroup.WithContext(ctx)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			if job.Reverse {
				return job.Engine.FromMap(job.Map, job.Boresight, job.Offsets, job.Signal)
			}
			return job.Engine.ToMap(job.Map, job.Boresight, job.Offsets, job.Signal)
		})
	}
	return g.Wait()
}
