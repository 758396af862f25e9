package vulkan

import (
	"fmt"
	"math"
	"sync"
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

// testGPU owns the minimal Vulkan setup the tests need: one instance, one
// compute-capable device, one queue, and a command pool. Tests skip when no
// Vulkan implementation is present on the machine.
type testGPU struct {
	instance    vk.Instance
	physical    vk.PhysicalDevice
	device      vk.Device
	queue       vk.Queue
	pool        vk.CommandPool
	queueFamily uint32
}

var (
	loaderOnce sync.Once
	loaderErr  error
)

func initLoader() error {
	loaderOnce.Do(func() {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			loaderErr = fmt.Errorf("vulkan loader: %w", err)
			return
		}
		loaderErr = vk.Init()
	})
	return loaderErr
}

func newTestGPU(t *testing.T) *testGPU {
	t.Helper()

	if err := initLoader(); err != nil {
		t.Skipf("Vulkan not available on this system: %v", err)
	}

	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   "vkten-test\x00",
		ApplicationVersion: vk.MakeVersion(0, 1, 0),
		PEngineName:        "vkten\x00",
		EngineVersion:      vk.MakeVersion(0, 1, 0),
		ApiVersion:         vk.ApiVersion11,
	}

	var instance vk.Instance
	if res := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &appInfo,
	}, nil, &instance); res != vk.Success {
		t.Skipf("Vulkan instance creation failed: %v", vk.Error(res))
	}
	vk.InitInstance(instance)

	var count uint32
	vk.EnumeratePhysicalDevices(instance, &count, nil)
	if count == 0 {
		vk.DestroyInstance(instance, nil)
		t.Skip("no Vulkan physical devices found")
	}
	physicals := make([]vk.PhysicalDevice, count)
	vk.EnumeratePhysicalDevices(instance, &count, physicals)

	physical := physicals[0]
	family, ok := findComputeQueueFamily(physical)
	if !ok {
		vk.DestroyInstance(instance, nil)
		t.Skip("no compute-capable queue family found")
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
		vk.DestroyInstance(instance, nil)
		t.Skipf("Vulkan device creation failed: %v", vk.Error(res))
	}

	var queue vk.Queue
	vk.GetDeviceQueue(device, family, 0, &queue)

	var pool vk.CommandPool
	if res := vk.CreateCommandPool(device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: family,
	}, nil, &pool); res != vk.Success {
		vk.DestroyDevice(device, nil)
		vk.DestroyInstance(instance, nil)
		t.Fatalf("command pool creation failed: %v", vk.Error(res))
	}

	g := &testGPU{
		instance:    instance,
		physical:    physical,
		device:      device,
		queue:       queue,
		pool:        pool,
		queueFamily: family,
	}
	t.Cleanup(g.close)
	return g
}

func findComputeQueueFamily(physical vk.PhysicalDevice) (uint32, bool) {
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

func (g *testGPU) close() {
	vk.DeviceWaitIdle(g.device)
	vk.DestroyCommandPool(g.device, g.pool, nil)
	vk.DestroyDevice(g.device, nil)
	vk.DestroyInstance(g.instance, nil)
}

func (g *testGPU) dev() *Device {
	return NewDevice(g.physical, g.device)
}

// run records commands through record into a one-shot command buffer,
// submits it, and blocks until the GPU has executed it.
func (g *testGPU) run(t *testing.T, record func(cmd vk.CommandBuffer)) {
	t.Helper()

	cmds := make([]vk.CommandBuffer, 1)
	res := vk.AllocateCommandBuffers(g.device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        g.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}, cmds)
	if res != vk.Success {
		t.Fatalf("command buffer allocation failed: %v", vk.Error(res))
	}
	cmd := cmds[0]
	defer vk.FreeCommandBuffers(g.device, g.pool, 1, cmds)

	if res := vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}); res != vk.Success {
		t.Fatalf("begin command buffer failed: %v", vk.Error(res))
	}

	record(cmd)

	if res := vk.EndCommandBuffer(cmd); res != vk.Success {
		t.Fatalf("end command buffer failed: %v", vk.Error(res))
	}

	var fence vk.Fence
	if res := vk.CreateFence(g.device, &vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}, nil, &fence); res != vk.Success {
		t.Fatalf("fence creation failed: %v", vk.Error(res))
	}
	defer vk.DestroyFence(g.device, fence, nil)

	if res := vk.QueueSubmit(g.queue, 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cmd},
	}}, fence); res != vk.Success {
		t.Fatalf("queue submit failed: %v", vk.Error(res))
	}

	if res := vk.WaitForFences(g.device, 1, []vk.Fence{fence}, vk.True, math.MaxUint64); res != vk.Success {
		t.Fatalf("fence wait failed: %v", vk.Error(res))
	}
}
