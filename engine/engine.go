// Package engine implements the Projection Engine (C6): a static
// composition of one Pointing, one Pixelizor, and one Accumulator
// Kernel, exposing the four host-callable operations (to_map, from_map,
// coords, pixels). Composition is resolved at compile time via a generic
// type parameter rather than an interface field, mirroring the original
// engine's "construct a fresh accumulator per call" template
// instantiation (auto accumulator = A();).
package engine

import (
	"go.uber.org/zap"

	"github.com/flatsky/tod/accum"
	"github.com/flatsky/tod/buffer"
	"github.com/flatsky/tod/internal/telemetry"
	"github.com/flatsky/tod/pixelizor"
	"github.com/flatsky/tod/pointing"
)

// Engine composes a flat-sky Pointing and Pixelizor with an accumulator
// kernel K (via its pointer type PK). One Engine value is not safe for
// concurrent calls; disjoint Engine instances over disjoint maps may run
// on separate goroutines (see RunConcurrent).
type Engine[K any, PK accum.KernelPtr[K]] struct {
	pix *pixelizor.Flat
}

// New constructs an Engine bound to a pixel grid. The Engine keeps its
// own copy of the grid, so engines built from the same pix never share
// the strides captured by Bind. The accumulator kernel is instantiated
// fresh, as a zero value, on every call.
func New[K any, PK accum.KernelPtr[K]](pix *pixelizor.Flat) *Engine[K, PK] {
	z := *pix
	return &Engine[K, PK]{pix: &z}
}

func (e *Engine[K, PK]) warnShape(op string, err error) {
	telemetry.L().Warn("rejected call", zap.String("op", op), zap.Error(err))
}

// ToMap runs the forward projection: for every (detector, sample),
// compute combined-frame coordinates and accumulate signal into mapView
// at the covered pixel. mapView is never zeroed by this call; repeated
// calls accumulate (I3).
func (e *Engine[K, PK]) ToMap(mapView, boresight, offsets, signalView buffer.View) error {
	var kv K
	k := PK(&kv)
	var p pointing.Flat

	if err := e.pix.Bind(mapView); err != nil {
		e.warnShape("to_map", err)
		return err
	}
	if err := k.ValidateMap(mapView, nil); err != nil {
		e.warnShape("to_map", err)
		return err
	}
	if err := p.Bind(boresight, offsets); err != nil {
		e.warnShape("to_map", err)
		return err
	}
	if err := buffer.RequireNdim(signalView, "signal", 3, "(1,n_det,n_time)"); err != nil {
		e.warnShape("to_map", err)
		return err
	}
	if err := buffer.RequireFirstAxis(signalView, "signal", 1, "(1,n_det,n_time)"); err != nil {
		e.warnShape("to_map", err)
		return err
	}
	k.Bind(mapView, signalView)

	nDet, nTime := p.NDet(), p.NTime()
	telemetry.L().Debug("to_map", zap.Int("n_det", nDet), zap.Int("n_time", nTime))

	var coords [4]float64
	for iDet := 0; iDet < nDet; iDet++ {
		p.BeginDetector(iDet)
		for iT := 0; iT < nTime; iT++ {
			p.Sample(iDet, iT, &coords)
			off := e.pix.PixelOffset(coords[0], coords[1])
			if off < 0 {
				continue
			}
			k.Forward(iDet, iT, off, &coords)
		}
	}
	return nil
}

// FromMap runs the reverse projection: for every (detector, sample),
// sample mapView at the covered pixel and accumulate into signalView.
// signalView is never zeroed by this call.
func (e *Engine[K, PK]) FromMap(mapView, boresight, offsets, signalView buffer.View) error {
	var kv K
	k := PK(&kv)
	var p pointing.Flat

	if err := e.pix.Bind(mapView); err != nil {
		e.warnShape("from_map", err)
		return err
	}
	if err := k.ValidateMap(mapView, nil); err != nil {
		e.warnShape("from_map", err)
		return err
	}
	if err := p.Bind(boresight, offsets); err != nil {
		e.warnShape("from_map", err)
		return err
	}
	if err := buffer.RequireNdim(signalView, "signal", 3, "(1,n_det,n_time)"); err != nil {
		e.warnShape("from_map", err)
		return err
	}
	if err := buffer.RequireFirstAxis(signalView, "signal", 1, "(1,n_det,n_time)"); err != nil {
		e.warnShape("from_map", err)
		return err
	}
	k.Bind(mapView, signalView)

	nDet, nTime := p.NDet(), p.NTime()
	telemetry.L().Debug("from_map", zap.Int("n_det", nDet), zap.Int("n_time", nTime))

	var coords [4]float64
	for iDet := 0; iDet < nDet; iDet++ {
		p.BeginDetector(iDet)
		for iT := 0; iT < nTime; iT++ {
			p.Sample(iDet, iT, &coords)
			off := e.pix.PixelOffset(coords[0], coords[1])
			if off < 0 {
				continue
			}
			k.Reverse(iDet, iT, off, &coords)
		}
	}
	return nil
}

// Coords fills out with shape (n_det, n_time, 4): the combined-frame
// (x, y, c, s) tuple for every sample, with no pixelization applied.
// The component axis is last, matching the original's coordbuf layout
// (strides[0]*idet + strides[1]*it + strides[2]*ic).
func (e *Engine[K, PK]) Coords(boresight, offsets, out buffer.View) error {
	var p pointing.Flat
	if err := p.Bind(boresight, offsets); err != nil {
		e.warnShape("coords", err)
		return err
	}
	if err := buffer.RequireNdim(out, "out", 3, "(n_det,n_time,4)"); err != nil {
		e.warnShape("coords", err)
		return err
	}
	if err := buffer.RequireMinAxis(out, "out", 2, 4, "(n_det,n_time,4)"); err != nil {
		e.warnShape("coords", err)
		return err
	}

	nDet, nTime := p.NDet(), p.NTime()
	var coords [4]float64
	compStride := out.Stride(2)
	for iDet := 0; iDet < nDet; iDet++ {
		p.BeginDetector(iDet)
		for iT := 0; iT < nTime; iT++ {
			p.Sample(iDet, iT, &coords)
			base := out.ByteOffset(iDet, iT, 0)
			for m := 0; m < 4; m++ {
				out.SetFloat64AtByteOffset(base+compStride*m, coords[m])
			}
		}
	}
	return nil
}

// Pixels fills out with shape (n_det, n_time): the byte offset covered
// by each sample within the bound map — the same meaning as
// PixelOffset/to_map's internal addressing — or -1 where the sample
// falls outside the grid. out must be an Int32 view.
func (e *Engine[K, PK]) Pixels(mapView, boresight, offsets, out buffer.View) error {
	if err := e.pix.Bind(mapView); err != nil {
		e.warnShape("pixels", err)
		return err
	}
	var p pointing.Flat
	if err := p.Bind(boresight, offsets); err != nil {
		e.warnShape("pixels", err)
		return err
	}
	if err := buffer.RequireNdim(out, "out", 2, "(n_det,n_time)"); err != nil {
		e.warnShape("pixels", err)
		return err
	}

	nDet, nTime := p.NDet(), p.NTime()
	var coords [4]float64
	for iDet := 0; iDet < nDet; iDet++ {
		p.BeginDetector(iDet)
		for iT := 0; iT < nTime; iT++ {
			p.Sample(iDet, iT, &coords)
			off := e.pix.PixelOffset(coords[0], coords[1])
			out.SetInt32AtByteOffset(out.ByteOffset(iDet, iT), int32(off))
		}
	}
	return nil
}
