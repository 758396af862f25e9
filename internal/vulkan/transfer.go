package vulkan

import (
	vk "github.com/vulkan-go/vulkan"
)

// Copy and barrier recording. These mutate the caller's command buffer only;
// nothing executes until the caller submits the command buffer.

// recordCopyBuffer records a full-range buffer-to-buffer copy.
func recordCopyBuffer(cmd vk.CommandBuffer, src, dst vk.Buffer, size vk.DeviceSize) {
	region := vk.BufferCopy{
		SrcOffset: 0,
		DstOffset: 0,
		Size:      size,
	}
	vk.CmdCopyBuffer(cmd, src, dst, 1, []vk.BufferCopy{region})
}

// recordBufferMemoryBarrier records a barrier scoping availability and
// visibility between the given access masks and pipeline stages on buf.
// The masks are recorded faithfully; choosing a pairing that expresses the
// intended producer/consumer dependency is the caller's responsibility.
func recordBufferMemoryBarrier(
	cmd vk.CommandBuffer,
	buf vk.Buffer,
	srcAccessMask, dstAccessMask vk.AccessFlagBits,
	srcStageMask, dstStageMask vk.PipelineStageFlagBits,
) {
	barrier := vk.BufferMemoryBarrier{
		SType:               vk.StructureTypeBufferMemoryBarrier,
		SrcAccessMask:       vk.AccessFlags(srcAccessMask),
		DstAccessMask:       vk.AccessFlags(dstAccessMask),
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Buffer:              buf,
		Offset:              0,
		Size:                vk.DeviceSize(vk.WholeSize),
	}

	vk.CmdPipelineBarrier(cmd,
		vk.PipelineStageFlags(srcStageMask),
		vk.PipelineStageFlags(dstStageMask),
		0,
		0, nil,
		1, []vk.BufferMemoryBarrier{barrier},
		0, nil)
}
