package filter

import (
	"context"
	"testing"
)

// TestIdentityStagePassesSamplesUnchanged checks that a single identity
// stage (b0 = 1<<shift, b1 = 0) passes every sample through unchanged.
func TestIdentityStagePassesSamplesUnchanged(t *testing.T) {
	const shift = 8
	var b Bank
	b.Add(Params{B0: 1 << shift, B1: 0, BBits: 16, PBits: 16, Shift: shift})
	b.Init(1)

	in := []int32{0, 1, -1, 1000, -1000, 32767, -32768}
	out := make([]int32, len(in))
	if err := b.Apply(in, out, 1, len(in)); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("out[%d] = %v, want %v (identity stage)", i, out[i], in[i])
		}
	}
}

// TestChunkedApplyMatchesWholeApply checks that streaming a signal in
// two chunks through the same bank instance yields the same samples as
// one call over the concatenation.
func TestChunkedApplyMatchesWholeApply(t *testing.T) {
	mkBank := func() *Bank {
		var b Bank
		b.Add(Params{B0: 100, B1: 27, BBits: 16, PBits: 16, Shift: 7})
		b.Init(1)
		return &b
	}

	in := make([]int32, 100)
	for i := range in {
		in[i] = int32((i*37)%211 - 105)
	}

	whole := mkBank()
	wantOut := make([]int32, 100)
	if err := whole.Apply(in, wantOut, 1, 100); err != nil {
		t.Fatalf("Apply (whole): %v", err)
	}

	chunked := mkBank()
	gotA := make([]int32, 50)
	gotB := make([]int32, 50)
	if err := chunked.Apply(in[:50], gotA, 1, 50); err != nil {
		t.Fatalf("Apply (A): %v", err)
	}
	if err := chunked.Apply(in[50:], gotB, 1, 50); err != nil {
		t.Fatalf("Apply (B): %v", err)
	}

	for i := 0; i < 50; i++ {
		if gotA[i] != wantOut[i] {
			t.Errorf("sample %d: chunked=%v, whole=%v", i, gotA[i], wantOut[i])
		}
	}
	for i := 0; i < 50; i++ {
		if gotB[i] != wantOut[50+i] {
			t.Errorf("sample %d: chunked=%v, whole=%v", 50+i, gotB[i], wantOut[50+i])
		}
	}
}

// TestInvariantLinearity checks that for inputs kept well within shift
// headroom (no intermediate overflow), the bank is linear. Shift=0
// removes the rounding step entirely (round is defined as 0 in that
// case), so the cascade reduces to exact integer multiply-add with no
// truncation to break superposition.
func TestInvariantLinearity(t *testing.T) {
	mkBank := func() *Bank {
		var b Bank
		b.Add(Params{B0: 50, B1: 10, BBits: 16, PBits: 16, Shift: 0})
		b.Init(1)
		return &b
	}

	x := []int32{1, 2, 3, 4, 5}
	y := []int32{5, 4, 3, 2, 1}
	alpha, beta := int32(2), int32(3)

	combined := make([]int32, len(x))
	for i := range x {
		combined[i] = alpha*x[i] + beta*y[i]
	}

	outX := make([]int32, len(x))
	outY := make([]int32, len(y))
	outCombined := make([]int32, len(x))

	if err := mkBank().Apply(x, outX, 1, len(x)); err != nil {
		t.Fatalf("Apply(x): %v", err)
	}
	if err := mkBank().Apply(y, outY, 1, len(y)); err != nil {
		t.Fatalf("Apply(y): %v", err)
	}
	if err := mkBank().Apply(combined, outCombined, 1, len(combined)); err != nil {
		t.Fatalf("Apply(combined): %v", err)
	}

	for i := range outCombined {
		want := alpha*outX[i] + beta*outY[i]
		if outCombined[i] != want {
			t.Errorf("sample %d: apply(combined)=%v, want %v", i, outCombined[i], want)
		}
	}
}

func TestApplyRejectsMismatchedChanCount(t *testing.T) {
	var b Bank
	b.Add(Params{B0: 1, B1: 0, BBits: 16, PBits: 16, Shift: 0})
	b.Init(2)

	in := []int32{1, 2, 3}
	out := make([]int32, 3)
	if err := b.Apply(in, out, 3, 1); err == nil {
		t.Fatal("expected BadShape for mismatched channel count")
	}
}

func TestApplyParallelMatchesApply(t *testing.T) {
	const nChan, nSamp = 6, 20

	mkBank := func() *Bank {
		var b Bank
		b.Add(Params{B0: 80, B1: 15, BBits: 16, PBits: 16, Shift: 7})
		b.Init(nChan)
		return &b
	}

	in := make([]int32, nChan*nSamp)
	for i := range in {
		in[i] = int32((i*13)%97 - 48)
	}

	seq := mkBank()
	wantOut := make([]int32, len(in))
	if err := seq.Apply(in, wantOut, nChan, nSamp); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	par := mkBank()
	gotOut := make([]int32, len(in))
	if err := par.ApplyParallel(context.Background(), in, gotOut, nChan, nSamp); err != nil {
		t.Fatalf("ApplyParallel: %v", err)
	}

	for i := range wantOut {
		if gotOut[i] != wantOut[i] {
			t.Errorf("sample %d: parallel=%v, sequential=%v", i, gotOut[i], wantOut[i])
		}
	}
}

// TestApplyAutoFallsBackWithoutGPU exercises the no-gpu-tag path: the
// default gpuHooks always returns ErrNoGPU, so ApplyAuto must still
// produce the correct output via ApplyParallel.
func TestApplyAutoFallsBackWithoutGPU(t *testing.T) {
	const nChan, nSamp = 64, 10

	mkBank := func() *Bank {
		var b Bank
		b.Add(Params{B0: 80, B1: 15, BBits: 16, PBits: 16, Shift: 7})
		b.Init(nChan)
		return &b
	}

	in := make([]int32, nChan*nSamp)
	for i := range in {
		in[i] = int32((i*13)%97 - 48)
	}

	seq := mkBank()
	wantOut := make([]int32, len(in))
	if err := seq.Apply(in, wantOut, nChan, nSamp); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	auto := mkBank()
	gotOut := make([]int32, len(in))
	if err := auto.ApplyAuto(context.Background(), in, gotOut, nChan, nSamp); err != nil {
		t.Fatalf("ApplyAuto: %v", err)
	}

	for i := range wantOut {
		if gotOut[i] != wantOut[i] {
			t.Errorf("sample %d: auto=%v, sequential=%v", i, gotOut[i], wantOut[i])
		}
	}
}

func TestApplyToFloatRoundTrip(t *testing.T) {
	const shift = 8
	var b Bank
	b.Add(Params{B0: 1 << shift, B1: 0, BBits: 16, PBits: 16, Shift: shift})
	b.Init(1)

	in := []float32{0, 1.5, -1.5, 10}
	out := make([]float32, len(in))
	unit := float32(1000.0)
	if err := b.ApplyToFloat(in, out, unit, 1, len(in)); err != nil {
		t.Fatalf("ApplyToFloat: %v", err)
	}
	for i := range in {
		diff := out[i] - in[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > 1.0/unit {
			t.Errorf("out[%d] = %v, want ~%v", i, out[i], in[i])
		}
	}
}
