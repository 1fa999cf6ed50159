package filter

import "errors"

// ErrNoGPU is the single canonical error returned by the GPU batch path.
// The default build returns it always, and so does the gpu-tag build,
// whose dispatch shell has no compute kernel.
var ErrNoGPU = errors.New("gpu unavailable (build with -tags=gpu to enable)")

// gpuHooks describes the optional GPU batch-dispatch backend for the
// filter bank's per-channel-independent cascade.
type gpuHooks interface {
	DispatchBank(stages []Params, delay [][][2]int64, in []int32, nChan, nSamp int) ([]int32, error)
}

// gpu defaults to a no-op backend so the module builds and runs without
// the gpu tag; ApplyAuto falls back to ApplyParallel's goroutine fan-out
// path whenever this returns ErrNoGPU.
var gpu gpuHooks = noopGPU{}

type noopGPU struct{}

func (noopGPU) DispatchBank([]Params, [][][2]int64, []int32, int, int) ([]int32, error) {
	return nil, ErrNoGPU
}
