package accum

import (
	"math"
	"testing"

	"github.com/flatsky/tod/buffer"
)

func mkMap(nComp, ny, nx int) buffer.View {
	data := make([]float64, nComp*ny*nx)
	return buffer.NewFloat64View(data, []int{nComp, ny, nx}, nil)
}

func mkSignal(nDet, nT int) buffer.View {
	data := make([]float64, nDet*nT)
	return buffer.NewFloat64View(data, []int{1, nDet, nT}, nil)
}

func TestSpin0ValidateMapRejectsWeight(t *testing.T) {
	var k Spin0
	m := mkMap(1, 2, 2)
	w := mkMap(1, 2, 2)
	if err := k.ValidateMap(m, &w); err == nil {
		t.Fatal("expected error when weight is present")
	}
}

func TestSpin0ValidateMapRejectsWrongComponents(t *testing.T) {
	var k Spin0
	m := mkMap(3, 2, 2)
	if err := k.ValidateMap(m, nil); err == nil {
		t.Fatal("expected BadShape for n_map != 1")
	}
}

func TestSpin0ForwardReverse(t *testing.T) {
	var k Spin0
	m := mkMap(1, 4, 4)
	sig := mkSignal(1, 1)
	k.Bind(m, sig)

	sig.SetFloat64At(7.0, 0, 0, 0)
	pixOff := m.Stride(1)*1 + m.Stride(2)*1 // pixel (iy=1, ix=1)
	k.Forward(0, 0, pixOff, &[4]float64{})

	if got := m.Float64AtByteOffset(pixOff); got != 7.0 {
		t.Errorf("map[1,1] = %v, want 7.0", got)
	}

	sig2 := mkSignal(1, 1)
	k.Bind(m, sig2)
	k.Reverse(0, 0, pixOff, &[4]float64{})
	if got := sig2.Float64At(0, 0, 0); got != 7.0 {
		t.Errorf("reversed signal = %v, want 7.0", got)
	}
}

func TestSpin2ValidateMapRequiresThreeComponents(t *testing.T) {
	var k Spin2
	m := mkMap(1, 2, 2)
	if err := k.ValidateMap(m, nil); err == nil {
		t.Fatal("expected BadShape for n_map != 3")
	}
	m3 := mkMap(3, 2, 2)
	if err := k.ValidateMap(m3, nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestSpin2FortyFiveDegrees exercises a 45-degree rotation (c=s=√2/2), where
// the Q weight (c²−s²) vanishes and the U weight (2cs) is 1.
func TestSpin2FortyFiveDegrees(t *testing.T) {
	var k Spin2
	m := mkMap(3, 4, 4)
	sig := mkSignal(1, 1)
	k.Bind(m, sig)

	sig.SetFloat64At(2.0, 0, 0, 0)
	c := math.Sqrt2 / 2
	s := math.Sqrt2 / 2
	coords := &[4]float64{0.5, 0.5, c, s}
	pixOff := m.Stride(1)*1 + m.Stride(2)*1

	k.Forward(0, 0, pixOff, coords)

	compStride := m.Stride(0)
	gotT := m.Float64AtByteOffset(pixOff)
	gotQ := m.Float64AtByteOffset(pixOff + compStride)
	gotU := m.Float64AtByteOffset(pixOff + 2*compStride)

	if gotT != 2.0 {
		t.Errorf("T = %v, want 2.0", gotT)
	}
	if math.Abs(gotQ) > 1e-12 {
		t.Errorf("Q = %v, want ~0", gotQ)
	}
	if math.Abs(gotU-2.0) > 1e-12 {
		t.Errorf("U = %v, want 2.0", gotU)
	}
}

func TestSpin2Reverse(t *testing.T) {
	var k Spin2
	m := mkMap(3, 4, 4)
	sig := mkSignal(1, 1)
	k.Bind(m, sig)

	pixOff := m.Stride(1)*2 + m.Stride(2)*1
	compStride := m.Stride(0)
	m.SetFloat64AtByteOffset(pixOff, 1.0)
	m.SetFloat64AtByteOffset(pixOff+compStride, 0.5)
	m.SetFloat64AtByteOffset(pixOff+2*compStride, -0.25)

	coords := &[4]float64{0, 0, 1, 0} // c=1, s=0 -> weights (1,1,0)
	k.Reverse(0, 0, pixOff, coords)

	want := 1.0*1 + 0.5*1 + -0.25*0
	if got := sig.Float64At(0, 0, 0); got != want {
		t.Errorf("reversed signal = %v, want %v", got, want)
	}
}
