// Package accel probes for a usable WebGPU adapter and reports whether
// offloading the filter bank's per-channel cascade to it is likely
// worth the dispatch overhead. The per-sample projection loop in engine
// never consults it: that loop's branchy, pixel-indexed inner body has
// no batched structure worth moving to a compute shader, unlike the
// filter bank's fixed-stride per-channel cascade.
package accel

import (
	"fmt"
	"strings"

	"github.com/openfluke/webgpu/wgpu"
)

// Report is a portable summary of the default adapter's capabilities.
type Report struct {
	Backend     string
	AdapterType string
	VendorID    string
	DeviceID    string
	Name        string
	Driver      string
	Limits      Limits
	Features    []string
}

// Limits carries the subset of adapter limits relevant to deciding
// whether a batch dispatch is worthwhile.
type Limits struct {
	MaxComputeInvocationsPerWorkgroup uint32
	MaxStorageBufferBindingSize       uint64
	MaxBufferSize                     uint64
}

// Detect probes the default adapter and synthesizes a Report. Callers
// that only need a go/no-go answer should prefer Recommend, which
// probes internally and degrades to false on any error.
func Detect() (*Report, error) {
	inst := wgpu.CreateInstance(nil)
	if inst == nil {
		return nil, fmt.Errorf("wgpu.CreateInstance returned nil")
	}
	defer inst.Release()

	adapter, err := inst.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	if adapter == nil {
		return nil, fmt.Errorf("no adapter")
	}
	defer adapter.Release()

	info := adapter.GetInfo()
	limits := adapter.GetLimits()

	var feats []string
	for _, f := range adapter.EnumerateFeatures() {
		feats = append(feats, f.String())
	}

	return &Report{
		Backend:     info.BackendType.String(),
		AdapterType: info.AdapterType.String(),
		VendorID:    fmt.Sprintf("0x%04x", info.VendorId),
		DeviceID:    fmt.Sprintf("0x%04x", info.DeviceId),
		Name:        strings.TrimSpace(info.Name),
		Driver:      strings.TrimSpace(info.DriverDescription),
		Limits: Limits{
			MaxComputeInvocationsPerWorkgroup: limits.Limits.MaxComputeInvocationsPerWorkgroup,
			MaxStorageBufferBindingSize:       limits.Limits.MaxStorageBufferBindingSize,
			MaxBufferSize:                     limits.Limits.MaxBufferSize,
		},
		Features: feats,
	}, nil
}

// minWorthwhileChannels is a conservative floor below which dispatch and
// readback overhead is assumed to dominate any per-channel parallelism
// gain, regardless of adapter capability.
const minWorthwhileChannels = 64

// Recommend reports whether a GPU batch dispatch is worth attempting
// for a bank applied over nChan channels. It probes the default adapter
// once; any probe failure (no adapter, no driver) yields false rather
// than an error, since this is
// advisory — callers always have the CPU fan-out path available.
func Recommend(nChan int) bool {
	if nChan < minWorthwhileChannels {
		return false
	}
	rep, err := Detect()
	if err != nil || rep == nil {
		return false
	}
	return rep.Limits.MaxComputeInvocationsPerWorkgroup > 0
}
