package filter

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/flatsky/tod/accel"
)

// ApplyAuto picks the fastest available path for a batch of nChan
// channels: it consults accel.Recommend for a GPU go/no-go, tries the
// GPU dispatch hook on a yes, and falls back to ApplyParallel whenever
// the hook is unavailable (no gpu build tag, no adapter, or
// accel.Recommend said no). The result is always computed — this
// never changes the bank's numeric contract, only which code path ran.
func (b *Bank) ApplyAuto(ctx context.Context, in, out []int32, nChan, nSamp int) error {
	if accel.Recommend(nChan) {
		if res, err := gpu.DispatchBank(b.stages, b.delay, in, nChan, nSamp); err == nil {
			copy(out, res)
			return nil
		} else if !errors.Is(err, ErrNoGPU) {
			return err
		}
	}
	return b.ApplyParallel(ctx, in, out, nChan, nSamp)
}

// ApplyParallel runs Apply's per-channel cascade across goroutines,
// chunking channels over runtime.NumCPU() workers. Channels are
// independent by construction (separate delay state), so this changes
// nothing about the per-sample numeric contract — only who runs which
// channel's loop. Falls back to a single chunk (no goroutines) when
// nChan is small.
func (b *Bank) ApplyParallel(ctx context.Context, in, out []int32, nChan, nSamp int) error {
	if err := b.checkChan(nChan); err != nil {
		return err
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > nChan {
		numWorkers = nChan
	}
	if numWorkers <= 1 {
		return b.Apply(in, out, nChan, nSamp)
	}

	chunkSize := (nChan + numWorkers - 1) / numWorkers
	g, _ := errgroup.WithContext(ctx)
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > nChan {
			end = nChan
		}
		if start >= end {
			break
		}
		g.Go(func() error {
			return b.applyChannelRange(in, out, start, end, nSamp)
		})
	}
	return g.Wait()
}

// applyChannelRange runs the sequential cascade over channels [start,end),
// each owning its own delay-state slot, so concurrent calls over disjoint
// ranges never touch the same w[2].
func (b *Bank) applyChannelRange(in, out []int32, start, end, nSamp int) error {
	for c := start; c < end; c++ {
		base := c * nSamp
		for t := 0; t < nSamp; t++ {
			x := int64(in[base+t])
			for s, p := range b.stages {
				w := &b.delay[s][c]
				x = stageStep(p, w, x)
			}
			out[base+t] = int32(x)
		}
	}
	return nil
}
