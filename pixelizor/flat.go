// Package pixelizor implements the flat-sky pixel grid (C3): the affine
// map from a sky coordinate to a pixel byte offset within a map buffer,
// plus the zero-filled map buffer constructor.
package pixelizor

import (
	"github.com/flatsky/tod/buffer"
)

// Flat is a rectangular, evenly-spaced pixel grid over a flat (tangent
// plane) patch. Axes are stored y-first internally to match map storage
// order (n_map, n_y, n_x), independent of the (x, y) order the
// constructor and PixelOffset take.
type Flat struct {
	naxis [2]int     // [y, x]
	cdelt [2]float64 // [y, x]
	crval [2]float64 // [y, x]
	crpix [2]float64 // [y, x]

	strideY, strideX int // byte strides of the bound map, captured by Bind
}

// NewFlat constructs a pixel grid of nx by ny pixels, with per-pixel step
// (dx, dy), sky value (x0, y0) at reference pixel (ix0, iy0).
func NewFlat(nx, ny int, dx, dy, x0, y0, ix0, iy0 float64) *Flat {
	return &Flat{
		naxis: [2]int{ny, nx},
		cdelt: [2]float64{dy, dx},
		crval: [2]float64{y0, x0},
		crpix: [2]float64{iy0, ix0},
	}
}

// NAxisX returns the pixel-grid width.
func (z *Flat) NAxisX() int { return z.naxis[1] }

// NAxisY returns the pixel-grid height.
func (z *Flat) NAxisY() int { return z.naxis[0] }

// Zeros returns a freshly zeroed map buffer. nPrefix >= 0 yields shape
// (nPrefix, n_y, n_x); nPrefix < 0 yields shape (n_y, n_x).
func (z *Flat) Zeros(nPrefix int) buffer.View {
	ny, nx := z.naxis[0], z.naxis[1]
	var shape []int
	if nPrefix >= 0 {
		shape = []int{nPrefix, ny, nx}
	} else {
		shape = []int{ny, nx}
	}
	n := 1
	for _, s := range shape {
		n *= s
	}
	data := make([]float64, n)
	return buffer.NewFloat64View(data, shape, nil)
}

// Bind captures the y- and x-strides of the map buffer's two innermost
// axes, following the (n_map, n_y, n_x) convention. The map's y- and
// x-axis sizes must match the grid's (NAxisY, NAxisX) exactly; a map
// sized for a different grid would make every PixelOffset silently
// address the wrong pixel, or run past the buffer, instead of failing.
func (z *Flat) Bind(mapView buffer.View) error {
	if !mapView.Valid() {
		return &buffer.BadBuffer{Arg: "map"}
	}
	if err := buffer.RequireNdim(mapView, "map", 3, "(n_map,n_y,n_x)"); err != nil {
		return err
	}
	if mapView.Dim(1) != z.NAxisY() || mapView.Dim(2) != z.NAxisX() {
		return &buffer.BadShape{Arg: "map", Expected: "(n_map,n_y,n_x) matching the bound grid"}
	}
	z.strideY = mapView.Stride(1)
	z.strideX = mapView.Stride(2)
	return nil
}

// PixelOffset computes the byte offset, from the start of the map's
// first component, of the pixel containing sky coordinate (x, y); or -1
// if the coordinate falls outside the grid on either axis.
//
// ix = (x - crval_x)/cdelt_x + crpix_x + 0.5; iy analogous. The +0.5
// centers the pixel at crpix when ix == crpix exactly; truncation toward
// zero happens only after the bounds check, per the external contract.
func (z *Flat) PixelOffset(x, y float64) int {
	ix := (x-z.crval[1])/z.cdelt[1] + z.crpix[1] + 0.5
	if ix < 0 || ix >= float64(z.naxis[1]) {
		return -1
	}
	iy := (y-z.crval[0])/z.cdelt[0] + z.crpix[0] + 0.5
	if iy < 0 || iy >= float64(z.naxis[0]) {
		return -1
	}
	return z.strideY*int(iy) + z.strideX*int(ix)
}
