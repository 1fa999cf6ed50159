package accum

import "github.com/flatsky/tod/buffer"

// Spin0 is the unpolarized (intensity-only) accumulator. Every pixel is
// implicitly weighted by 1.
type Spin0 struct {
	mapView    buffer.View
	signalView buffer.View
}

func (Spin0) NumComponents() int { return 1 }

func (Spin0) ValidateMap(mapView buffer.View, weight *buffer.View) error {
	if err := buffer.RequireNdim(mapView, "map", 3, "(1,n_y,n_x)"); err != nil {
		return err
	}
	if err := buffer.RequireFirstAxis(mapView, "map", 1, "(1,n_y,n_x)"); err != nil {
		return err
	}
	if weight != nil {
		return &buffer.BadShape{Arg: "weight", Expected: "absent"}
	}
	return nil
}

func (k *Spin0) Bind(mapView, signalView buffer.View) {
	k.mapView = mapView
	k.signalView = signalView
}

func (k *Spin0) Forward(iDet, iT, pixOff int, coords *[4]float64) {
	sig := k.signalView.Float64At(0, iDet, iT)
	k.mapView.AddFloat64AtByteOffset(pixOff, sig)
}

func (k *Spin0) Reverse(iDet, iT, pixOff int, coords *[4]float64) {
	m := k.mapView.Float64AtByteOffset(pixOff)
	k.signalView.AddFloat64At(m, 0, iDet, iT)
}
