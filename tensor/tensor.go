// Copyright 2026 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for GPU-resident tensors.
//
// A Tensor owns (or borrows) the Vulkan buffer/memory pair behind a block
// of typed data and records staging transfers and memory barriers into
// caller-supplied command buffers. Device selection, pipeline construction,
// and command-buffer submission stay with the caller; tensors only consume
// the resulting handles.
//
// Example:
//
//	data := []float32{1.0, 2.0, 3.0, 4.0}
//	t, err := tensor.FromSlice(physicalDevice, device, data, tensor.Device)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer t.Destroy()
//
//	// Recorded into the caller's command buffer, executed by the
//	// caller's submission:
//	t.RecordCopyFromStagingToDevice(cmd)
//	t.RecordPrimaryBufferMemoryBarrier(cmd,
//	    vk.AccessTransferWriteBit, vk.AccessShaderReadBit,
//	    vk.PipelineStageTransferBit, vk.PipelineStageComputeShaderBit)
package tensor

import (
	vk "github.com/vulkan-go/vulkan"

	itensor "github.com/born-ml/vkten/internal/tensor"
	"github.com/born-ml/vkten/internal/vulkan"
)

// Type aliases for public API

// Element is a constraint for supported tensor element types.
// Supported types: bool, int32, uint32, float32, float64.
type Element = itensor.Element

// DataType represents the element type of a tensor.
type DataType = itensor.DataType

// Element type constants.
const (
	Bool    DataType = itensor.Bool
	Int32   DataType = itensor.Int32
	UInt32  DataType = itensor.UInt32
	Float32 DataType = itensor.Float32
	Float64 DataType = itensor.Float64
)

// TensorType classifies the memory backing a tensor.
type TensorType = itensor.TensorType

// Tensor type constants.
const (
	// Device pairs a device-local primary buffer with a host-visible
	// staging buffer for host/device transfer.
	Device TensorType = itensor.Device
	// Host uses a single host-visible, directly mapped buffer.
	Host TensorType = itensor.Host
	// Storage is device-local compute scratch, excluded from transfer.
	Storage TensorType = itensor.Storage
)

// Tensor is typed data resident on a GPU.
type Tensor = vulkan.Tensor

// View is the size-tagged raw-data view of a tensor.
type View = itensor.View

// BorrowedResources carries externally created buffer/memory handles which
// a tensor uses without taking ownership.
type BorrowedResources = vulkan.BorrowedResources

// Error types surfaced by tensor operations.
type (
	// SizeMismatchError reports a write or copy whose size does not
	// match the target tensor.
	SizeMismatchError = itensor.SizeMismatchError
	// ResourceCreationError reports a buffer the device rejected.
	ResourceCreationError = vulkan.ResourceCreationError
	// NoSuitableMemoryTypeError reports that no device memory type
	// satisfies the flags a tensor type requires.
	NoSuitableMemoryTypeError = vulkan.NoSuitableMemoryTypeError
	// OutOfDeviceMemoryError reports a rejected device allocation.
	OutOfDeviceMemoryError = vulkan.OutOfDeviceMemoryError
	// InvalidCategoryOperationError reports a staging-transfer operation
	// on a tensor type without a staging resource.
	InvalidCategoryOperationError = vulkan.InvalidCategoryOperationError
)

// ErrZeroElementCount is returned when a tensor is built or rebuilt with no
// elements.
var ErrZeroElementCount = vulkan.ErrZeroElementCount

// New creates a tensor from raw bytes. data may be nil for zero-initialized
// contents; otherwise it must hold exactly count*elemSize bytes. The
// physical device and device handles are borrowed, never released.
func New(physicalDevice vk.PhysicalDevice, device vk.Device, data []byte, count, elemSize uint32, dtype DataType, tt TensorType) (*Tensor, error) {
	return vulkan.New(vulkan.NewDevice(physicalDevice, device), data, count, elemSize, dtype, tt)
}

// NewWithResources is New with pre-existing buffer/memory handles, each
// marked borrowed: Destroy leaves them for their external owner.
func NewWithResources(physicalDevice vk.PhysicalDevice, device vk.Device, data []byte, count, elemSize uint32, dtype DataType, tt TensorType, res BorrowedResources) (*Tensor, error) {
	return vulkan.NewWithResources(vulkan.NewDevice(physicalDevice, device), data, count, elemSize, dtype, tt, res)
}

// FromSlice creates a tensor holding a copy of data, inferring the element
// type and size from T.
func FromSlice[T Element](physicalDevice vk.PhysicalDevice, device vk.Device, data []T, tt TensorType) (*Tensor, error) {
	dt := itensor.TypeOf[T]()
	return New(physicalDevice, device, itensor.ToBytes(data),
		uint32(len(data)), uint32(dt.Size()), dt, tt) //nolint:gosec // element sizes are 1..8
}

// Data returns the tensor's host-reachable elements as a zero-copy slice.
// Panics if T does not match the tensor's element type; returns nil after
// Destroy.
func Data[T Element](t *Tensor) []T {
	return itensor.Slice[T](t.View())
}

// Vector returns a freshly allocated copy of the tensor's host-reachable
// elements. Panics if T does not match the tensor's element type.
func Vector[T Element](t *Tensor) []T {
	src := itensor.Slice[T](t.View())
	if src == nil {
		return nil
	}
	out := make([]T, len(src))
	copy(out, src)
	return out
}

// SetData copies data into the tensor's host-reachable region. Panics if T
// does not match the tensor's element type; returns a SizeMismatchError if
// the element count differs from the tensor's.
func SetData[T Element](t *Tensor, data []T) error {
	if dt := itensor.TypeOf[T](); dt != t.DataType() {
		panic("tensor: cannot set " + dt.String() + " data on a " + t.DataType().String() + " tensor")
	}
	return t.SetRawData(itensor.ToBytes(data))
}

// ToBytes lays a typed slice out as raw bytes the way the GPU sees it.
func ToBytes[T Element](data []T) []byte {
	return itensor.ToBytes(data)
}
