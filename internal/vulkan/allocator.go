package vulkan

import (
	vk "github.com/vulkan-go/vulkan"
)

// createBuffer creates a buffer of the given size and usage on the device.
// Returns a ResourceCreationError if the device rejects the description.
func (d *Device) createBuffer(size vk.DeviceSize, usage vk.BufferUsageFlags) (vk.Buffer, error) {
	info := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}

	var buf vk.Buffer
	if res := vk.CreateBuffer(d.handle, &info, nil, &buf); res != vk.Success {
		return vk.NullBuffer, &ResourceCreationError{Size: size, Usage: usage, Result: res}
	}

	Logger().Debug("created buffer", "bytes", uint64(size), "usage", uint32(usage))
	return buf, nil
}

// findMemoryTypeIndex picks the first memory type that is allowed by the
// buffer's memory requirement bits and carries all required property flags.
func findMemoryTypeIndex(typeBits uint32, required vk.MemoryPropertyFlags, types []vk.MemoryType) (uint32, bool) {
	for i, mt := range types {
		if typeBits&(1<<uint(i)) == 0 {
			continue
		}
		if mt.PropertyFlags&required == required {
			return uint32(i), true //nolint:gosec // i < 32 by VK_MAX_MEMORY_TYPES
		}
	}
	return 0, false
}

// allocateBindMemory allocates device memory compatible with the buffer's
// requirements and the requested property flags, and binds it to the buffer.
// Returns a NoSuitableMemoryTypeError when no memory type matches, or an
// OutOfDeviceMemoryError when the allocation itself is rejected.
func (d *Device) allocateBindMemory(buf vk.Buffer, flags vk.MemoryPropertyFlags) (vk.DeviceMemory, error) {
	var req vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(d.handle, buf, &req)
	req.Deref()

	idx, ok := findMemoryTypeIndex(req.MemoryTypeBits, flags, d.memoryTypes())
	if !ok {
		return vk.NullDeviceMemory, &NoSuitableMemoryTypeError{TypeBits: req.MemoryTypeBits, Flags: flags}
	}

	info := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  req.Size,
		MemoryTypeIndex: idx,
	}

	var mem vk.DeviceMemory
	if res := vk.AllocateMemory(d.handle, &info, nil, &mem); res != vk.Success {
		return vk.NullDeviceMemory, &OutOfDeviceMemoryError{Size: req.Size, Result: res}
	}

	if res := vk.BindBufferMemory(d.handle, buf, mem, 0); res != vk.Success {
		vk.FreeMemory(d.handle, mem, nil)
		return vk.NullDeviceMemory, &ResourceCreationError{Op: "memory bind", Size: req.Size, Result: res}
	}

	Logger().Debug("allocated device memory", "bytes", uint64(req.Size), "memoryType", idx)
	return mem, nil
}
