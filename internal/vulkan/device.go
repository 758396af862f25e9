// Package vulkan implements GPU-resident tensors on top of the Vulkan API:
// buffer and memory allocation per tensor type, persistent mapping of
// host-visible memory, and recording of staging transfers and memory
// barriers into caller-supplied command buffers.
//
// The package works with opaque Vulkan handles supplied by the caller. It
// never creates or destroys instances, devices, or command buffers, and it
// never submits work; execution and host/device synchronization belong to
// the orchestration layer above.
package vulkan

import (
	vk "github.com/vulkan-go/vulkan"
)

// Device bundles the Vulkan handles tensors allocate from.
// Both handles are externally owned and never released by this package.
type Device struct {
	physical vk.PhysicalDevice
	handle   vk.Device
}

// NewDevice wraps an externally created physical device and logical device.
func NewDevice(physical vk.PhysicalDevice, device vk.Device) *Device {
	return &Device{physical: physical, handle: device}
}

// Handle returns the logical device handle.
func (d *Device) Handle() vk.Device { return d.handle }

// memoryTypes returns the physical device's memory types with their
// property flags resolved.
func (d *Device) memoryTypes() []vk.MemoryType {
	var props vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(d.physical, &props)
	props.Deref()

	types := make([]vk.MemoryType, props.MemoryTypeCount)
	for i := range types {
		props.MemoryTypes[i].Deref()
		types[i] = props.MemoryTypes[i]
	}
	return types
}
