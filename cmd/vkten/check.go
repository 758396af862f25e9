package main

import (
	"fmt"
	"slices"

	vk "github.com/vulkan-go/vulkan"

	"github.com/born-ml/vkten/tensor"
)

// checkDevice creates a logical device on the given physical device,
// allocates a small host-visible tensor, and verifies a data round trip.
// It exercises the same allocation path real workloads use.
func checkDevice(physical vk.PhysicalDevice) error {
	family, ok := computeQueueFamily(physical)
	if !ok {
		return fmt.Errorf("no compute-capable queue family")
	}

	var device vk.Device
	res := vk.CreateDevice(physical, &vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos: []vk.DeviceQueueCreateInfo{{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}},
	}, nil, &device)
	if res != vk.Success {
		return fmt.Errorf("create device: %w", vk.Error(res))
	}
	defer vk.DestroyDevice(device, nil)

	want := []float32{1, 2, 3, 4}
	t, err := tensor.FromSlice(physical, device, want, tensor.Host)
	if err != nil {
		return fmt.Errorf("allocate tensor: %w", err)
	}
	defer t.Destroy()

	if got := tensor.Vector[float32](t); !slices.Equal(got, want) {
		return fmt.Errorf("data round trip: got %v, want %v", got, want)
	}
	return nil
}

func computeQueueFamily(physical vk.PhysicalDevice) (uint32, bool) {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(physical, &count, nil)
	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(physical, &count, families)

	for i := range families {
		families[i].Deref()
		if families[i].QueueFlags&vk.QueueFlags(vk.QueueComputeBit) != 0 {
			return uint32(i), true //nolint:gosec // queue family counts are small
		}
	}
	return 0, false
}
