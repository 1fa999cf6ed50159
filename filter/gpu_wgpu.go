//go:build gpu

package filter

import (
	"github.com/openfluke/webgpu/wgpu"
)

// wgpuBank is the WGSL-backed batch dispatch shell for the filter
// bank's per-channel cascade. The bank's numeric contract is defined
// bit-exactly over CPU integer arithmetic (see stageStep); no WGSL
// kernel is authored here, matching the pack's own "build with -tags=gpu
// but no kernel yet" shells for paths whose fixed-point semantics
// aren't pinned down in a compute shader.
type wgpuBank struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue
}

func (g *wgpuBank) DispatchBank(stages []Params, delay [][][2]int64, in []int32, nChan, nSamp int) ([]int32, error) {
	// TODO: record+submit a compute pass once a WGSL kernel matching
	// stageStep's rounding and shift semantics is written.
	return nil, ErrNoGPU
}

func init() {
	gpu = &wgpuBank{}
}
