package tensor

import (
	"fmt"
	"unsafe"
)

// View is a size-tagged byte view over the host-reachable side of a tensor:
// persistently mapped device memory for host-visible tensors, or a plain
// shadow allocation for tensors that have no mapped region.
//
// A View does not own device memory. Dropping the underlying mapping must be
// followed by Reset so that stale pointers are never handed out.
type View struct {
	data     []byte
	count    uint32
	elemSize uint32
	dtype    DataType
}

// NewView wraps region as a view of count elements of the given type.
// The region must be exactly count*elemSize bytes.
func NewView(region []byte, count, elemSize uint32, dtype DataType) *View {
	if len(region) != int(count)*int(elemSize) {
		panic(fmt.Sprintf("tensor: view region is %d bytes, want %d", len(region), int(count)*int(elemSize)))
	}
	return &View{
		data:     region,
		count:    count,
		elemSize: elemSize,
		dtype:    dtype,
	}
}

// Count returns the number of elements in the view.
func (v *View) Count() uint32 {
	return v.count
}

// ByteSize returns the total size of the viewed region in bytes.
func (v *View) ByteSize() int {
	return int(v.count) * int(v.elemSize)
}

// DType returns the element type of the view.
func (v *View) DType() DataType {
	return v.dtype
}

// Valid reports whether the view still references a live region.
func (v *View) Valid() bool {
	return v != nil && v.data != nil
}

// Bytes returns the raw byte slice.
// Returns nil after Reset (tensor destroyed or remapped).
// WARNING: Direct access to underlying memory. Use with caution.
func (v *View) Bytes() []byte {
	if v == nil {
		return nil
	}
	return v.data
}

// SetRaw copies src into the viewed region. The source must hold exactly
// the view's byte size; on mismatch a SizeMismatchError is returned and the
// region is left unchanged.
func (v *View) SetRaw(src []byte) error {
	if !v.Valid() {
		return &SizeMismatchError{Want: 0, Got: len(src)}
	}
	if len(src) != len(v.data) {
		return &SizeMismatchError{Want: len(v.data), Got: len(src)}
	}
	copy(v.data, src)
	return nil
}

// Reset drops the reference to the underlying region. Accessors return nil
// afterwards instead of a dangling pointer.
func (v *View) Reset() {
	if v != nil {
		v.data = nil
	}
}

// Slice reinterprets the view as a []T without copying.
// Panics if T does not match the view's element type; returns nil for a
// view that has been Reset.
func Slice[T Element](v *View) []T {
	if v == nil || v.data == nil {
		return nil
	}
	if dt := TypeOf[T](); dt != v.dtype {
		panic(fmt.Sprintf("tensor: view dtype is %s, not %s", v.dtype, dt))
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds fixed by count
	return unsafe.Slice((*T)(unsafe.Pointer(&v.data[0])), v.count)
}

// AsBool interprets the view as []bool.
// Panics if the element type is not Bool.
func (v *View) AsBool() []bool { return Slice[bool](v) }

// AsInt32 interprets the view as []int32.
// Panics if the element type is not Int32.
func (v *View) AsInt32() []int32 { return Slice[int32](v) }

// AsUInt32 interprets the view as []uint32.
// Panics if the element type is not UInt32.
func (v *View) AsUInt32() []uint32 { return Slice[uint32](v) }

// AsFloat32 interprets the view as []float32.
// Panics if the element type is not Float32.
func (v *View) AsFloat32() []float32 { return Slice[float32](v) }

// AsFloat64 interprets the view as []float64.
// Panics if the element type is not Float64.
func (v *View) AsFloat64() []float64 { return Slice[float64](v) }

// ToBytes copies a typed slice into a freshly allocated byte slice laid out
// the way the GPU sees it.
func ToBytes[T Element](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(data[0]))
	out := make([]byte, len(data)*size)
	//nolint:gosec // reinterpretation of the caller's slice, length fixed above
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(out)))
	return out
}
