// Package accum implements the accumulator kernels (C4, C5): the
// forward (signal -> map) and reverse (map -> signal) per-sample
// updates, for the unpolarized spin-0 and polarized spin-2 models.
package accum

import "github.com/flatsky/tod/buffer"

// Kernel is the accumulator contract the Projection Engine composes
// with one Pointing and one Pixelizor. Implementations are
// zero-value-constructible and stateless beyond the views captured by
// Bind, mirroring the original's "construct a fresh accumulator per
// call" lifecycle.
type Kernel interface {
	// NumComponents returns the required n_map (1 for spin-0, 3 for
	// spin-2).
	NumComponents() int

	// ValidateMap reports BadShape if mapView's first axis does not
	// equal NumComponents(), or if weight is non-nil (every current
	// kernel requires weight to be absent).
	ValidateMap(mapView buffer.View, weight *buffer.View) error

	// Bind captures the map and signal views for the duration of one
	// call.
	Bind(mapView, signalView buffer.View)

	// Forward accumulates signal into the map at pixOff:
	// map[pixOff, ...] += signal[0, iDet, iT] * weight(coords).
	Forward(iDet, iT, pixOff int, coords *[4]float64)

	// Reverse accumulates the map back into the signal:
	// signal[0, iDet, iT] += Σ map[pixOff, ...] * weight(coords).
	Reverse(iDet, iT, pixOff int, coords *[4]float64)
}

// KernelPtr constrains *K to implement Kernel. The engine takes both K
// (the concrete, zero-value-constructible struct) and PK as type
// parameters so it can do `var kv K; k := PK(&kv)` once per call — the
// generic equivalent of the original's per-call `auto accumulator =
// A();` — without ever holding a nil Kernel.
type KernelPtr[K any] interface {
	*K
	Kernel
}
