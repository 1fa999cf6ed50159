package accum

import "github.com/flatsky/tod/buffer"

// Spin2 is the polarized T/Q/U accumulator. Weights at each sample are
// derived from coords[2]=c, coords[3]=s as (1, c²−s², 2cs), the 2φ
// rotation of the instrumental polarization axis. Component order is
// fixed to (T, Q, U).
type Spin2 struct {
	mapView    buffer.View
	signalView buffer.View
}

func (Spin2) NumComponents() int { return 3 }

func (Spin2) ValidateMap(mapView buffer.View, weight *buffer.View) error {
	if err := buffer.RequireNdim(mapView, "map", 3, "(3,n_y,n_x)"); err != nil {
		return err
	}
	if err := buffer.RequireFirstAxis(mapView, "map", 3, "(3,n_y,n_x)"); err != nil {
		return err
	}
	if weight != nil {
		return &buffer.BadShape{Arg: "weight", Expected: "absent"}
	}
	return nil
}

func (k *Spin2) Bind(mapView, signalView buffer.View) {
	k.mapView = mapView
	k.signalView = signalView
}

func spin2Weights(coords *[4]float64) [3]float64 {
	c, s := coords[2], coords[3]
	return [3]float64{1, c*c - s*s, 2 * c * s}
}

func (k *Spin2) Forward(iDet, iT, pixOff int, coords *[4]float64) {
	sig := k.signalView.Float64At(0, iDet, iT)
	wt := spin2Weights(coords)
	compStride := k.mapView.Stride(0)
	for m := 0; m < 3; m++ {
		k.mapView.AddFloat64AtByteOffset(pixOff+compStride*m, sig*wt[m])
	}
}

func (k *Spin2) Reverse(iDet, iT, pixOff int, coords *[4]float64) {
	wt := spin2Weights(coords)
	compStride := k.mapView.Stride(0)
	var acc float64
	for m := 0; m < 3; m++ {
		acc += k.mapView.Float64AtByteOffset(pixOff+compStride*m) * wt[m]
	}
	k.signalView.AddFloat64At(acc, 0, iDet, iT)
}
