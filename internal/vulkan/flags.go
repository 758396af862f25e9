package vulkan

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"github.com/born-ml/vkten/internal/tensor"
)

// Flag classification per tensor type. These are pure functions of the
// tensor type; an unrecognized type is a programming-contract violation.

// primaryBufferUsageFlags returns the usage flags for the primary buffer.
// Storage tensors deliberately exclude the transfer bits so that they can
// never be a copy source or destination.
func primaryBufferUsageFlags(tt tensor.TensorType) vk.BufferUsageFlags {
	switch tt {
	case tensor.Device, tensor.Host:
		return vk.BufferUsageFlags(vk.BufferUsageStorageBufferBit |
			vk.BufferUsageTransferSrcBit |
			vk.BufferUsageTransferDstBit)
	case tensor.Storage:
		return vk.BufferUsageFlags(vk.BufferUsageStorageBufferBit)
	default:
		panic(fmt.Sprintf("vulkan: unknown tensor type %d", tt))
	}
}

// primaryMemoryPropertyFlags returns the memory property flags for the
// primary buffer's allocation.
func primaryMemoryPropertyFlags(tt tensor.TensorType) vk.MemoryPropertyFlags {
	switch tt {
	case tensor.Device, tensor.Storage:
		return vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	case tensor.Host:
		return vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit |
			vk.MemoryPropertyHostCoherentBit)
	default:
		panic(fmt.Sprintf("vulkan: unknown tensor type %d", tt))
	}
}

// stagingBufferUsageFlags returns the usage flags for the staging buffer of
// a Device tensor. Staging buffers only ferry data, they are never bound as
// shader storage.
func stagingBufferUsageFlags() vk.BufferUsageFlags {
	return vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit |
		vk.BufferUsageTransferDstBit)
}

// stagingMemoryPropertyFlags returns the memory property flags for the
// staging buffer's allocation.
func stagingMemoryPropertyFlags() vk.MemoryPropertyFlags {
	return vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit |
		vk.MemoryPropertyHostCoherentBit)
}
