package vulkan

import (
	"errors"

	vk "github.com/vulkan-go/vulkan"

	"github.com/born-ml/vkten/internal/tensor"
)

// ErrZeroElementCount is returned when a tensor is built or rebuilt with no
// elements.
var ErrZeroElementCount = errors.New("vulkan: tensor element count must be greater than zero")

// Tensor is typed data resident on a GPU.
//
// Each tensor owns (or borrows) a Vulkan buffer/memory pair per resource
// and exposes the recording of staging transfers and barriers against a
// caller-supplied command buffer. A tensor is not safe for concurrent
// mutation; read-only accessors may be called concurrently once allocated.
type Tensor struct {
	dev *Device

	tensorType tensor.TensorType
	dtype      tensor.DataType
	count      uint32
	elemSize   uint32

	primary *Resource
	staging *Resource // present iff tensorType == Device

	view   *tensor.View
	shadow []byte // Storage tensors only: host-side shadow, never mapped
}

// BorrowedResources carries externally created handles for a tensor to use
// without taking ownership. Zero-valued handles are created (and owned)
// internally instead; buffer and memory ownership are independent.
type BorrowedResources struct {
	PrimaryBuffer vk.Buffer
	PrimaryMemory vk.DeviceMemory
	StagingBuffer vk.Buffer
	StagingMemory vk.DeviceMemory
}

// New creates a tensor of count elements of the given type, allocates its
// buffers and memory per the tensor type, and copies data in. data may be
// nil for a zero-initialized host region; otherwise it must hold exactly
// count*elemSize bytes.
func New(dev *Device, data []byte, count, elemSize uint32, dtype tensor.DataType, tt tensor.TensorType) (*Tensor, error) {
	return newTensor(dev, data, count, elemSize, dtype, tt, nil)
}

// NewWithResources is New with pre-existing buffer/memory handles. Supplied
// handles are marked borrowed and survive Destroy for their external owner.
func NewWithResources(dev *Device, data []byte, count, elemSize uint32, dtype tensor.DataType, tt tensor.TensorType, res BorrowedResources) (*Tensor, error) {
	return newTensor(dev, data, count, elemSize, dtype, tt, &res)
}

func newTensor(dev *Device, data []byte, count, elemSize uint32, dtype tensor.DataType, tt tensor.TensorType, borrowed *BorrowedResources) (*Tensor, error) {
	t := &Tensor{dev: dev, tensorType: tt, dtype: dtype}
	if err := t.rebuild(data, count, elemSize, borrowed); err != nil {
		return nil, err
	}
	Logger().Debug("created tensor",
		"type", tt.String(), "dtype", dtype.String(), "elements", count)
	return t, nil
}

// Rebuild reinitializes the tensor with new data and size. New resources
// are allocated before the old ones are released, so a failed rebuild
// leaves the previous allocation intact. Resources borrowed at construction
// are not carried over; rebuilt resources are always owned.
func (t *Tensor) Rebuild(data []byte, count, elemSize uint32) error {
	return t.rebuild(data, count, elemSize, nil)
}

func (t *Tensor) rebuild(data []byte, count, elemSize uint32, borrowed *BorrowedResources) error {
	if count == 0 {
		return ErrZeroElementCount
	}
	byteSize := int(count) * int(elemSize)
	if data != nil && len(data) != byteSize {
		return &tensor.SizeMismatchError{Want: byteSize, Got: len(data)}
	}

	alloc, err := t.allocate(count, elemSize, borrowed)
	if err != nil {
		return err
	}

	t.release()

	t.primary = alloc.primary
	t.staging = alloc.staging
	t.view = alloc.view
	t.shadow = alloc.shadow
	t.count = count
	t.elemSize = elemSize

	if data == nil {
		// Freshly mapped memory has unspecified contents.
		clear(t.view.Bytes())
		return nil
	}
	return t.view.SetRaw(data)
}

// allocation bundles the resources of one rebuild so that they replace the
// tensor's state only after every step has succeeded.
type allocation struct {
	primary *Resource
	staging *Resource
	view    *tensor.View
	shadow  []byte
}

func (t *Tensor) allocate(count, elemSize uint32, borrowed *BorrowedResources) (*allocation, error) {
	size := vk.DeviceSize(uint64(count) * uint64(elemSize))

	var extPrimary, extStaging externalPair
	if borrowed != nil {
		extPrimary = externalPair{buffer: borrowed.PrimaryBuffer, memory: borrowed.PrimaryMemory}
		extStaging = externalPair{buffer: borrowed.StagingBuffer, memory: borrowed.StagingMemory}
	}

	primary, err := t.dev.buildResource(size,
		primaryBufferUsageFlags(t.tensorType),
		primaryMemoryPropertyFlags(t.tensorType),
		extPrimary)
	if err != nil {
		return nil, err
	}

	var staging *Resource
	if t.tensorType == tensor.Device {
		staging, err = t.dev.buildResource(size,
			stagingBufferUsageFlags(),
			stagingMemoryPropertyFlags(),
			extStaging)
		if err != nil {
			primary.Destroy(t.dev)
			return nil, err
		}
	}

	a := &allocation{primary: primary, staging: staging}

	switch t.tensorType {
	case tensor.Host:
		region, err := primary.Map(t.dev, size)
		if err != nil {
			primary.Destroy(t.dev)
			return nil, err
		}
		a.view = tensor.NewView(region, count, elemSize, t.dtype)
	case tensor.Device:
		region, err := staging.Map(t.dev, size)
		if err != nil {
			staging.Destroy(t.dev)
			primary.Destroy(t.dev)
			return nil, err
		}
		a.view = tensor.NewView(region, count, elemSize, t.dtype)
	case tensor.Storage:
		// No host-visible memory exists; keep a plain shadow of the
		// initial data instead of a mapped pointer.
		a.shadow = make([]byte, size)
		a.view = tensor.NewView(a.shadow, count, elemSize, t.dtype)
	}
	return a, nil
}

// externalPair names the handles a caller may have supplied for one
// resource.
type externalPair struct {
	buffer vk.Buffer
	memory vk.DeviceMemory
}

// buildResource assembles a buffer/memory pair, creating whatever was not
// supplied externally. Created handles are owned, supplied ones borrowed.
func (d *Device) buildResource(size vk.DeviceSize, usage vk.BufferUsageFlags, memFlags vk.MemoryPropertyFlags, ext externalPair) (*Resource, error) {
	r := &Resource{}

	if ext.buffer != vk.NullBuffer {
		r.Buffer = ext.buffer
	} else {
		buf, err := d.createBuffer(size, usage)
		if err != nil {
			return nil, err
		}
		r.Buffer = buf
		r.OwnBuffer = true
	}

	switch {
	case ext.memory != vk.NullDeviceMemory && ext.buffer != vk.NullBuffer:
		// Externally supplied pair, assumed already bound.
		r.Memory = ext.memory
	case ext.memory != vk.NullDeviceMemory:
		// Borrowed memory bound to the buffer created above.
		if res := vk.BindBufferMemory(d.handle, r.Buffer, ext.memory, 0); res != vk.Success {
			r.Destroy(d)
			return nil, &ResourceCreationError{Op: "memory bind", Size: size, Usage: usage, Result: res}
		}
		r.Memory = ext.memory
	default:
		mem, err := d.allocateBindMemory(r.Buffer, memFlags)
		if err != nil {
			r.Destroy(d)
			return nil, err
		}
		r.Memory = mem
		r.OwnMemory = true
	}
	return r, nil
}

// Destroy unmaps the raw-data view and releases owned resources. Destroy is
// idempotent; calling it on an already-destroyed or never-allocated tensor
// is a no-op. Borrowed handles are never released.
func (t *Tensor) Destroy() {
	if !t.IsInit() {
		return
	}
	Logger().Debug("destroying tensor",
		"type", t.tensorType.String(), "bytes", t.MemorySize())
	t.release()
}

func (t *Tensor) release() {
	if t.view != nil {
		t.view.Reset()
		t.view = nil
	}
	t.shadow = nil
	if t.staging != nil {
		t.staging.Unmap(t.dev)
		t.staging.Destroy(t.dev)
		t.staging = nil
	}
	if t.primary != nil {
		t.primary.Unmap(t.dev)
		t.primary.Destroy(t.dev)
		t.primary = nil
	}
}

// IsInit reports whether the tensor currently holds allocated GPU
// resources.
func (t *Tensor) IsInit() bool {
	return t != nil && t.primary != nil
}

// TensorType returns the tensor's storage classification.
func (t *Tensor) TensorType() tensor.TensorType { return t.tensorType }

// DataType returns the tensor's element type.
func (t *Tensor) DataType() tensor.DataType { return t.dtype }

// Size returns the total number of elements.
func (t *Tensor) Size() uint32 { return t.count }

// DataTypeMemorySize returns the byte size of a single element.
func (t *Tensor) DataTypeMemorySize() uint32 { return t.elemSize }

// MemorySize returns the total byte size of the tensor's data, which
// equals Size() * DataTypeMemorySize().
func (t *Tensor) MemorySize() uint32 { return t.count * t.elemSize }

// View returns the raw-data view. Nil once the tensor is destroyed.
func (t *Tensor) View() *tensor.View { return t.view }

// RawData returns the host-reachable bytes of the tensor: the mapped region
// for Host and Device tensors, the shadow for Storage tensors. Returns nil
// after Destroy.
func (t *Tensor) RawData() []byte { return t.view.Bytes() }

// SetRawData copies data into the host-reachable region. The source must
// hold exactly MemorySize() bytes; on mismatch a SizeMismatchError is
// returned and the existing contents are unchanged.
func (t *Tensor) SetRawData(data []byte) error { return t.view.SetRaw(data) }

// RecordCopyFrom records a primary-to-primary buffer copy from src into
// this tensor. Both tensors must have the same byte size.
func (t *Tensor) RecordCopyFrom(cmd vk.CommandBuffer, src *Tensor) error {
	if t.MemorySize() != src.MemorySize() {
		return &tensor.SizeMismatchError{Want: int(t.MemorySize()), Got: int(src.MemorySize())}
	}
	recordCopyBuffer(cmd, src.primary.Buffer, t.primary.Buffer, vk.DeviceSize(t.MemorySize()))
	Logger().Debug("recorded tensor copy", "bytes", t.MemorySize())
	return nil
}

// RecordCopyFromStagingToDevice records a copy from the staging buffer into
// the device-local primary buffer. Only valid for Device tensors; for any
// other type an InvalidCategoryOperationError is returned and nothing is
// recorded.
func (t *Tensor) RecordCopyFromStagingToDevice(cmd vk.CommandBuffer) error {
	if t.tensorType != tensor.Device {
		return &InvalidCategoryOperationError{Op: "staging-to-device copy", Type: t.tensorType}
	}
	recordCopyBuffer(cmd, t.staging.Buffer, t.primary.Buffer, vk.DeviceSize(t.MemorySize()))
	return nil
}

// RecordCopyFromDeviceToStaging records a copy from the device-local
// primary buffer into the staging buffer. Only valid for Device tensors.
func (t *Tensor) RecordCopyFromDeviceToStaging(cmd vk.CommandBuffer) error {
	if t.tensorType != tensor.Device {
		return &InvalidCategoryOperationError{Op: "device-to-staging copy", Type: t.tensorType}
	}
	recordCopyBuffer(cmd, t.primary.Buffer, t.staging.Buffer, vk.DeviceSize(t.MemorySize()))
	return nil
}

// RecordPrimaryBufferMemoryBarrier records a memory barrier on the primary
// buffer between the given access masks and pipeline stages.
func (t *Tensor) RecordPrimaryBufferMemoryBarrier(cmd vk.CommandBuffer, srcAccessMask, dstAccessMask vk.AccessFlagBits, srcStageMask, dstStageMask vk.PipelineStageFlagBits) {
	recordBufferMemoryBarrier(cmd, t.primary.Buffer, srcAccessMask, dstAccessMask, srcStageMask, dstStageMask)
}

// RecordStagingBufferMemoryBarrier records a memory barrier on the staging
// buffer. Only valid for Device tensors.
func (t *Tensor) RecordStagingBufferMemoryBarrier(cmd vk.CommandBuffer, srcAccessMask, dstAccessMask vk.AccessFlagBits, srcStageMask, dstStageMask vk.PipelineStageFlagBits) error {
	if t.tensorType != tensor.Device {
		return &InvalidCategoryOperationError{Op: "staging buffer barrier", Type: t.tensorType}
	}
	recordBufferMemoryBarrier(cmd, t.staging.Buffer, srcAccessMask, dstAccessMask, srcStageMask, dstStageMask)
	return nil
}

// DescriptorInfo returns a descriptor buffer info referencing the primary
// buffer over its full range, for binding into descriptor sets without
// exposing the buffer handle's lifetime.
func (t *Tensor) DescriptorInfo() vk.DescriptorBufferInfo {
	return vk.DescriptorBufferInfo{
		Buffer: t.primary.Buffer,
		Offset: 0,
		Range:  vk.DeviceSize(t.MemorySize()),
	}
}
