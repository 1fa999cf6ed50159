// Package pointing implements the flat-sky pointing model (C2): it turns
// a boresight trajectory plus a per-detector offset into a per-sample
// 4-tuple (x, y, c, s) that downstream pixelizors and accumulators
// consume.
package pointing

import (
	"math"

	"github.com/flatsky/tod/buffer"
)

// Flat is the flat-sky pointing model. It holds borrowed boresight and
// offset views for the duration of one Bind/BeginDetector/Sample cycle;
// it carries no state beyond that cycle, matching the engine's
// per-call-fresh-pointer lifecycle.
type Flat struct {
	bore buffer.View
	ofs  buffer.View

	dx, dy         float64
	cosPhi, sinPhi float64
}

// Bind validates and captures the boresight ((n_time, >=4): x,y,c,s) and
// offset ((n_det, >=3): dx,dy,phi) views.
func (p *Flat) Bind(bore, ofs buffer.View) error {
	if !bore.Valid() {
		return &buffer.BadBuffer{Arg: "boresight"}
	}
	if !ofs.Valid() {
		return &buffer.BadBuffer{Arg: "offsets"}
	}
	if err := buffer.RequireNdim(bore, "boresight", 2, "(n_time,n_coord>=4)"); err != nil {
		return err
	}
	if err := buffer.RequireMinAxis(bore, "boresight", 1, 4, "(n_time,n_coord>=4)"); err != nil {
		return err
	}
	if err := buffer.RequireNdim(ofs, "offsets", 2, "(n_det,n_coord>=3)"); err != nil {
		return err
	}
	if err := buffer.RequireMinAxis(ofs, "offsets", 1, 3, "(n_det,n_coord>=3)"); err != nil {
		return err
	}
	p.bore = bore
	p.ofs = ofs
	return nil
}

// NTime returns the number of boresight samples.
func (p *Flat) NTime() int { return p.bore.Dim(0) }

// NDet returns the number of detectors.
func (p *Flat) NDet() int { return p.ofs.Dim(0) }

// BeginDetector reads detector iDet's offset row and precomputes
// cos(phi), sin(phi) for the angle-sum composition in Sample.
func (p *Flat) BeginDetector(iDet int) {
	p.dx = p.ofs.Float64At(iDet, 0)
	p.dy = p.ofs.Float64At(iDet, 1)
	phi := p.ofs.Float64At(iDet, 2)
	p.cosPhi = math.Cos(phi)
	p.sinPhi = math.Sin(phi)
}

// Sample writes the combined-frame 4-tuple for detector iDet at time
// iT into out: (dx+x, dy+y, cosφ·c−sinφ·s, cosφ·s+sinφ·c).
func (p *Flat) Sample(iDet, iT int, out *[4]float64) {
	x := p.bore.Float64At(iT, 0)
	y := p.bore.Float64At(iT, 1)
	c := p.bore.Float64At(iT, 2)
	s := p.bore.Float64At(iT, 3)

	out[0] = p.dx + x
	out[1] = p.dy + y
	out[2] = p.cosPhi*c - p.sinPhi*s
	out[3] = p.cosPhi*s + p.sinPhi*c
}
