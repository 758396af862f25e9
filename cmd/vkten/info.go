package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	vk "github.com/vulkan-go/vulkan"

	"github.com/born-ml/vkten/tensor"
)

type memoryTypeInfo struct {
	Index     uint32   `json:"index"`
	HeapIndex uint32   `json:"heap_index"`
	Flags     []string `json:"flags"`
}

type memoryHeapInfo struct {
	Index       uint32 `json:"index"`
	SizeBytes   uint64 `json:"size_bytes"`
	DeviceLocal bool   `json:"device_local"`
}

type queueFamilyInfo struct {
	Index  uint32   `json:"index"`
	Queues uint32   `json:"queues"`
	Flags  []string `json:"flags"`
}

type deviceInfo struct {
	Name          string            `json:"name"`
	Type          string            `json:"type"`
	APIVersion    string            `json:"api_version"`
	VendorID      uint32            `json:"vendor_id"`
	DeviceID      uint32            `json:"device_id"`
	MemoryHeaps   []memoryHeapInfo  `json:"memory_heaps"`
	MemoryTypes   []memoryTypeInfo  `json:"memory_types"`
	QueueFamilies []queueFamilyInfo `json:"queue_families"`
	CheckError    string            `json:"check_error,omitempty"`
	Checked       bool              `json:"checked,omitempty"`
}

func infoCmd() *cli.Command {
	var (
		asJSON  bool
		verbose bool
		check   bool
	)

	return &cli.Command{
		Name:  "info",
		Usage: "List Vulkan devices, memory types, and queue families",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "emit machine-readable JSON", Destination: &asJSON},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable debug logging", Destination: &verbose},
			&cli.BoolFlag{Name: "check", Usage: "allocate a probe tensor on each device", Destination: &check},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if verbose {
				tensor.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}

			instance, err := newInstance()
			if err != nil {
				return fmt.Errorf("vulkan unavailable: %w", err)
			}
			defer vk.DestroyInstance(instance, nil)

			devices, physicals, err := collectDeviceInfo(instance)
			if err != nil {
				return err
			}

			if check {
				for i := range devices {
					devices[i].Checked = true
					if err := checkDevice(physicals[i]); err != nil {
						devices[i].CheckError = err.Error()
					}
				}
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(devices)
			}

			printDeviceInfo(devices)
			return nil
		},
	}
}

func newInstance() (vk.Instance, error) {
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return nil, fmt.Errorf("vulkan loader: %w", err)
	}
	if err := vk.Init(); err != nil {
		return nil, fmt.Errorf("vulkan init: %w", err)
	}

	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   "vkten\x00",
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
		return nil, fmt.Errorf("create instance: %w", vk.Error(res))
	}
	vk.InitInstance(instance)
	return instance, nil
}

func collectDeviceInfo(instance vk.Instance) ([]deviceInfo, []vk.PhysicalDevice, error) {
	var count uint32
	if res := vk.EnumeratePhysicalDevices(instance, &count, nil); res != vk.Success {
		return nil, nil, fmt.Errorf("enumerate devices: %w", vk.Error(res))
	}
	if count == 0 {
		return nil, nil, fmt.Errorf("no Vulkan physical devices found")
	}
	physicals := make([]vk.PhysicalDevice, count)
	vk.EnumeratePhysicalDevices(instance, &count, physicals)

	infos := make([]deviceInfo, 0, count)
	for _, physical := range physicals {
		infos = append(infos, describeDevice(physical))
	}
	return infos, physicals, nil
}

func describeDevice(physical vk.PhysicalDevice) deviceInfo {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(physical, &props)
	props.Deref()

	apiVersion := vk.Version(props.ApiVersion)
	info := deviceInfo{
		Name:     vk.ToString(props.DeviceName[:]),
		Type:     deviceTypeName(props.DeviceType),
		VendorID: props.VendorID,
		DeviceID: props.DeviceID,
		APIVersion: fmt.Sprintf("%d.%d.%d",
			apiVersion.Major(), apiVersion.Minor(), apiVersion.Patch()),
	}

	var memProps vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(physical, &memProps)
	memProps.Deref()

	for i := uint32(0); i < memProps.MemoryHeapCount; i++ {
		memProps.MemoryHeaps[i].Deref()
		heap := memProps.MemoryHeaps[i]
		info.MemoryHeaps = append(info.MemoryHeaps, memoryHeapInfo{
			Index:       i,
			SizeBytes:   uint64(heap.Size),
			DeviceLocal: heap.Flags&vk.MemoryHeapFlags(vk.MemoryHeapDeviceLocalBit) != 0,
		})
	}

	for i := uint32(0); i < memProps.MemoryTypeCount; i++ {
		memProps.MemoryTypes[i].Deref()
		mt := memProps.MemoryTypes[i]
		info.MemoryTypes = append(info.MemoryTypes, memoryTypeInfo{
			Index:     i,
			HeapIndex: mt.HeapIndex,
			Flags:     memoryFlagNames(mt.PropertyFlags),
		})
	}

	var familyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(physical, &familyCount, nil)
	families := make([]vk.QueueFamilyProperties, familyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(physical, &familyCount, families)

	for i := range families {
		families[i].Deref()
		info.QueueFamilies = append(info.QueueFamilies, queueFamilyInfo{
			Index:  uint32(i), //nolint:gosec // queue family counts are small
			Queues: families[i].QueueCount,
			Flags:  queueFlagNames(families[i].QueueFlags),
		})
	}

	return info
}

func deviceTypeName(t vk.PhysicalDeviceType) string {
	switch t {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return "integrated"
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return "discrete"
	case vk.PhysicalDeviceTypeVirtualGpu:
		return "virtual"
	case vk.PhysicalDeviceTypeCpu:
		return "cpu"
	default:
		return "other"
	}
}

func memoryFlagNames(flags vk.MemoryPropertyFlags) []string {
	var names []string
	if flags&vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit) != 0 {
		names = append(names, "device-local")
	}
	if flags&vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit) != 0 {
		names = append(names, "host-visible")
	}
	if flags&vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit) != 0 {
		names = append(names, "host-coherent")
	}
	if flags&vk.MemoryPropertyFlags(vk.MemoryPropertyHostCachedBit) != 0 {
		names = append(names, "host-cached")
	}
	if flags&vk.MemoryPropertyFlags(vk.MemoryPropertyLazilyAllocatedBit) != 0 {
		names = append(names, "lazily-allocated")
	}
	return names
}

func queueFlagNames(flags vk.QueueFlags) []string {
	var names []string
	if flags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
		names = append(names, "graphics")
	}
	if flags&vk.QueueFlags(vk.QueueComputeBit) != 0 {
		names = append(names, "compute")
	}
	if flags&vk.QueueFlags(vk.QueueTransferBit) != 0 {
		names = append(names, "transfer")
	}
	if flags&vk.QueueFlags(vk.QueueSparseBindingBit) != 0 {
		names = append(names, "sparse-binding")
	}
	return names
}

func printDeviceInfo(devices []deviceInfo) {
	for i, d := range devices {
		fmt.Printf("Device %d: %s (%s, Vulkan %s)\n", i, d.Name, d.Type, d.APIVersion)
		fmt.Println("  Memory heaps:")
		for _, h := range d.MemoryHeaps {
			local := ""
			if h.DeviceLocal {
				local = " device-local"
			}
			fmt.Printf("    heap %d: %d MiB%s\n", h.Index, h.SizeBytes/(1024*1024), local)
		}
		fmt.Println("  Memory types:")
		for _, m := range d.MemoryTypes {
			fmt.Printf("    type %d (heap %d): %v\n", m.Index, m.HeapIndex, m.Flags)
		}
		fmt.Println("  Queue families:")
		for _, q := range d.QueueFamilies {
			fmt.Printf("    family %d: %d queue(s) %v\n", q.Index, q.Queues, q.Flags)
		}
		if d.Checked {
			if d.CheckError == "" {
				fmt.Println("  Probe allocation: ok")
			} else {
				fmt.Printf("  Probe allocation: FAILED (%s)\n", d.CheckError)
			}
		}
	}
}
