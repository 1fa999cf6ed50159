// Package filter implements the Butterworth filter bank (C7): a
// fixed-point IIR cascade applied independently, per channel, across an
// ordered sequence of first-order stages. Unlike the Projection Engine,
// channels here are embarrassingly parallel, so the bank also exposes a
// goroutine-fanned-out ApplyParallel alongside the sequential Apply.
package filter

import (
	"go.uber.org/zap"

	"github.com/flatsky/tod/buffer"
	"github.com/flatsky/tod/internal/telemetry"
)

// Params holds one stage's fixed-point coefficients.
type Params struct {
	B0     int32
	B1     int32
	BBits  int
	PBits  int
	Shift  int
}

// Bank is an ordered cascade of stages applied to every channel in turn,
// carrying per-stage, per-channel delay state across calls.
type Bank struct {
	stages []Params
	delay  [][][2]int64 // (n_stage, n_chan, 2)
	nChan  int
}

// Add appends a stage. If the bank has already been Init-ed, the delay
// array is reseated (zero-filled) to match the new stage count, per the
// documented "adding a stage after init reseats the delay array"
// contract.
func (b *Bank) Add(p Params) *Bank {
	b.stages = append(b.stages, p)
	if b.nChan > 0 {
		b.reseat(b.nChan)
	}
	return b
}

// Init (re)allocates the per-stage, per-channel delay array for n_chan
// channels, zero-filled. Apart from Add on an Init-ed bank, which reseats
// the delay array the same way, this is the only way to reset bank state.
func (b *Bank) Init(nChan int) *Bank {
	b.reseat(nChan)
	return b
}

func (b *Bank) reseat(nChan int) {
	b.nChan = nChan
	b.delay = make([][][2]int64, len(b.stages))
	for s := range b.delay {
		b.delay[s] = make([][2]int64, nChan)
	}
}

func (b *Bank) checkChan(nChan int) error {
	if b.nChan != nChan {
		return &buffer.BadShape{Arg: "in", Expected: "n_chan matching the bank's Init call"}
	}
	return nil
}

// Apply filters in (shape n_chan*n_samp, channel-major, i32) into out,
// running every stage in sequence on every channel and carrying delay
// state forward for the next call.
func (b *Bank) Apply(in, out []int32, nChan, nSamp int) error {
	if err := b.checkChan(nChan); err != nil {
		telemetry.L().Warn("filter apply rejected", zap.Error(err))
		return err
	}
	for c := 0; c < nChan; c++ {
		base := c * nSamp
		for t := 0; t < nSamp; t++ {
			x := int64(in[base+t])
			for s, p := range b.stages {
				w := &b.delay[s][c]
				x = stageStep(p, w, x)
			}
			// No saturation: a result outside the int32 range wraps
			// silently in this conversion.
			out[base+t] = int32(x)
		}
	}
	return nil
}

// stageStep runs one stage's fixed-point update for a single sample,
// mutating the stage's delay state and returning the filtered sample.
func stageStep(p Params, w *[2]int64, x int64) int64 {
	acc := int64(p.B0)*x + int64(p.B1)*w[0]
	round := int64(1) << uint(p.Shift-1)
	if p.Shift == 0 {
		round = 0
	}
	y := (acc + round) >> uint(p.Shift)
	w[1] = w[0]
	w[0] = x
	return y
}

// ApplyToFloat scales in by unit, rounds to i32, runs Apply, then scales
// the output back down by unit.
func (b *Bank) ApplyToFloat(in, out []float32, unit float32, nChan, nSamp int) error {
	ii := make([]int32, len(in))
	oo := make([]int32, len(out))
	for i, v := range in {
		ii[i] = int32(v*unit + sign(v)*0.5)
	}
	if err := b.Apply(ii, oo, nChan, nSamp); err != nil {
		return err
	}
	for i, v := range oo {
		out[i] = float32(v) / unit
	}
	return nil
}

func sign(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}
