package vulkan

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"github.com/born-ml/vkten/internal/tensor"
)

// ResourceCreationError reports that the device rejected a buffer
// description (unsupported usage combination, zero size, device limit
// exceeded) or refused to bind memory to it. Op distinguishes the failed
// step; empty means buffer creation.
type ResourceCreationError struct {
	Op     string
	Size   vk.DeviceSize
	Usage  vk.BufferUsageFlags
	Result vk.Result
}

func (e *ResourceCreationError) Error() string {
	op := e.Op
	if op == "" {
		op = "buffer creation"
	}
	if e.Usage == 0 {
		return fmt.Sprintf("vulkan: %s failed (size=%d): %v", op, e.Size, vk.Error(e.Result))
	}
	return fmt.Sprintf("vulkan: %s failed (size=%d usage=0x%x): %v",
		op, e.Size, e.Usage, vk.Error(e.Result))
}

func (e *ResourceCreationError) Unwrap() error { return vk.Error(e.Result) }

// NoSuitableMemoryTypeError reports that no device memory type satisfies
// the requested property flags for a buffer's memory requirements.
type NoSuitableMemoryTypeError struct {
	TypeBits uint32
	Flags    vk.MemoryPropertyFlags
}

func (e *NoSuitableMemoryTypeError) Error() string {
	return fmt.Sprintf("vulkan: no suitable memory type (typeBits=0x%x flags=0x%x)",
		e.TypeBits, e.Flags)
}

// OutOfDeviceMemoryError reports that the device rejected a memory
// allocation request.
type OutOfDeviceMemoryError struct {
	Size   vk.DeviceSize
	Result vk.Result
}

func (e *OutOfDeviceMemoryError) Error() string {
	return fmt.Sprintf("vulkan: device memory allocation of %d bytes failed: %v",
		e.Size, vk.Error(e.Result))
}

func (e *OutOfDeviceMemoryError) Unwrap() error { return vk.Error(e.Result) }

// InvalidCategoryOperationError reports a staging-transfer operation invoked
// on a tensor whose type does not carry a staging resource. Nothing is
// recorded into the command buffer.
type InvalidCategoryOperationError struct {
	Op   string
	Type tensor.TensorType
}

func (e *InvalidCategoryOperationError) Error() string {
	return fmt.Sprintf("vulkan: %s is not valid for a %s tensor", e.Op, e.Type)
}
