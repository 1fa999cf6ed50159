// Package buffer implements the strided-buffer-view primitive (C1): an
// abstract handle to a contiguous-or-not memory block with per-axis shape
// and per-axis byte stride. It never assumes C-contiguous layout, and it
// never copies — every access walks the caller's own memory via byte
// offsets, matching the borrowed-view contract the projection kernels
// depend on (no hidden heap allocation inside an inner loop, no stride
// assumption baked into the kernel code).
package buffer

import (
	"unsafe"
)

// Kind identifies the element type a View's byte offsets are interpreted
// against. The caller is responsible for knowing which kind a given
// argument holds — the view itself only does offset arithmetic.
type Kind int

const (
	Float64 Kind = iota
	Int32
)

// Size returns the element size in bytes for the kind.
func (k Kind) Size() int {
	switch k {
	case Float64:
		return 8
	case Int32:
		return 4
	default:
		return 0
	}
}

// View is a strided handle into a block of memory. Shape and Strides are
// parallel slices of length Ndim(); Strides are signed byte offsets, and
// may be negative or overlapping — the caller guarantees validity.
type View struct {
	base    unsafe.Pointer
	kind    Kind
	shape   []int
	strides []int
}

// RowMajorStrides computes C-contiguous byte strides for shape, given the
// element size. This is a convenience for constructing Views over plain
// Go slices in tests and simple call sites; the engine itself never
// assumes this layout on a caller-supplied argument.
func RowMajorStrides(shape []int, elemSize int) []int {
	strides := make([]int, len(shape))
	s := elemSize
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = s
		s *= shape[i]
	}
	return strides
}

// NewFloat64View wraps data as a Float64 view with the given shape. If
// strides is nil, row-major strides are computed from shape.
func NewFloat64View(data []float64, shape, strides []int) View {
	if strides == nil {
		strides = RowMajorStrides(shape, Float64.Size())
	}
	var base unsafe.Pointer
	if len(data) > 0 {
		base = unsafe.Pointer(&data[0])
	}
	return View{base: base, kind: Float64, shape: shape, strides: strides}
}

// NewInt32View wraps data as an Int32 view with the given shape. If
// strides is nil, row-major strides are computed from shape.
func NewInt32View(data []int32, shape, strides []int) View {
	if strides == nil {
		strides = RowMajorStrides(shape, Int32.Size())
	}
	var base unsafe.Pointer
	if len(data) > 0 {
		base = unsafe.Pointer(&data[0])
	}
	return View{base: base, kind: Int32, shape: shape, strides: strides}
}

// Valid reports whether the view has a usable base pointer. A caller that
// cannot resolve an argument to a view at all should report BadBuffer
// rather than constructing one of these.
func (v View) Valid() bool { return v.base != nil || totalElems(v.shape) == 0 }

func totalElems(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

// Kind returns the view's element kind.
func (v View) Kind() Kind { return v.kind }

// Ndim returns the number of axes.
func (v View) Ndim() int { return len(v.shape) }

// Shape returns the per-axis size.
func (v View) Shape() []int { return v.shape }

// Dim returns the size of axis i.
func (v View) Dim(i int) int { return v.shape[i] }

// Stride returns the byte stride of axis i.
func (v View) Stride(i int) int { return v.strides[i] }

// ByteOffset computes the byte offset of the element at the given
// per-axis logical index, i.e. Σ idx[k]·strides[k]. It does not bounds
// check; callers validate shape up front.
func (v View) ByteOffset(idx ...int) int {
	off := 0
	for k, i := range idx {
		off += i * v.strides[k]
	}
	return off
}

func (v View) ptrAt(off int) unsafe.Pointer {
	return unsafe.Add(v.base, off)
}

// Float64At reads the float64 at the given logical index.
func (v View) Float64At(idx ...int) float64 {
	return *(*float64)(v.ptrAt(v.ByteOffset(idx...)))
}

// SetFloat64At writes the float64 at the given logical index.
func (v View) SetFloat64At(val float64, idx ...int) {
	*(*float64)(v.ptrAt(v.ByteOffset(idx...))) = val
}

// AddFloat64At accumulates into the float64 at the given logical index:
// *ptr += delta. This is the primitive the accumulators use for the
// "*map += ..." / "*signal += ..." contract (I3 — the engine never zeros
// its destination).
func (v View) AddFloat64At(delta float64, idx ...int) {
	p := (*float64)(v.ptrAt(v.ByteOffset(idx...)))
	*p += delta
}

// Int32At reads the int32 at the given logical index.
func (v View) Int32At(idx ...int) int32 {
	return *(*int32)(v.ptrAt(v.ByteOffset(idx...)))
}

// Float64AtByteOffset reads a float64 at a raw byte offset from the
// view's base. The Pixelizor and Accumulators exchange pixel addresses
// as raw byte offsets, not logical indices, so this is the primitive
// they actually call in the inner loop.
func (v View) Float64AtByteOffset(off int) float64 {
	return *(*float64)(v.ptrAt(off))
}

// SetFloat64AtByteOffset writes a float64 at a raw byte offset.
func (v View) SetFloat64AtByteOffset(off int, val float64) {
	*(*float64)(v.ptrAt(off)) = val
}

// AddFloat64AtByteOffset accumulates a float64 at a raw byte offset.
func (v View) AddFloat64AtByteOffset(off int, delta float64) {
	p := (*float64)(v.ptrAt(off))
	*p += delta
}

// SetInt32AtByteOffset writes an int32 at a raw byte offset. Used by
// Engine.Pixels to write each sample's pixel offset, or -1 for
// out-of-range samples.
func (v View) SetInt32AtByteOffset(off int, val int32) {
	*(*int32)(v.ptrAt(off)) = val
}
