package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// Resource is a buffer/memory pair backing one side of a tensor.
//
// Ownership is tracked independently for the buffer and the memory: handles
// created by this package are owned and released on Destroy, handles
// supplied externally are borrowed and never released here. A tensor may
// own its buffer but borrow its memory, or vice versa.
type Resource struct {
	Buffer vk.Buffer
	Memory vk.DeviceMemory

	OwnBuffer bool
	OwnMemory bool

	mapped unsafe.Pointer
}

// Map establishes a persistent mapping of the resource's memory and returns
// a byte view of the first size bytes. Mapping an already-mapped resource is
// a no-op returning the existing mapping.
func (r *Resource) Map(d *Device, size vk.DeviceSize) ([]byte, error) {
	if r.mapped == nil {
		var ptr unsafe.Pointer
		if res := vk.MapMemory(d.handle, r.Memory, 0, size, 0, &ptr); res != vk.Success {
			return nil, fmt.Errorf("vulkan: map memory: %w", vk.Error(res))
		}
		r.mapped = ptr
	}
	//nolint:gosec // device memory mapped for exactly size bytes above
	return unsafe.Slice((*byte)(r.mapped), int(size)), nil
}

// Unmap releases the persistent mapping. Safe to call on an unmapped
// resource.
func (r *Resource) Unmap(d *Device) {
	if r.mapped == nil {
		return
	}
	vk.UnmapMemory(d.handle, r.Memory)
	r.mapped = nil
}

// Destroy releases the owned parts of the resource and clears the handles.
// Borrowed handles are left untouched for their external owner. The
// resource must be unmapped first.
func (r *Resource) Destroy(d *Device) {
	if r == nil {
		return
	}
	if r.OwnBuffer && r.Buffer != vk.NullBuffer {
		vk.DestroyBuffer(d.handle, r.Buffer, nil)
	}
	r.Buffer = vk.NullBuffer
	if r.OwnMemory && r.Memory != vk.NullDeviceMemory {
		vk.FreeMemory(d.handle, r.Memory, nil)
	}
	r.Memory = vk.NullDeviceMemory
}
