package tensor

// TensorType classifies the memory that backs a tensor.
//
// The type decides which buffers exist, which memory they live in, and
// whether the tensor can take part in host/device staging transfers.
type TensorType int

// Supported tensor types.
const (
	// Device tensors pair a device-local primary buffer with a
	// host-visible staging buffer. Data crosses the host/device boundary
	// through recorded staging copies.
	Device TensorType = iota
	// Host tensors use a single host-visible buffer that is mapped
	// directly; no staging pair exists.
	Host
	// Storage tensors are device-local scratch for compute shaders.
	// They are never host-visible and never a copy source or destination.
	Storage
)

// String returns a human-readable tensor type name.
func (tt TensorType) String() string {
	switch tt {
	case Device:
		return "Device"
	case Host:
		return "Host"
	case Storage:
		return "Storage"
	default:
		return "Unknown"
	}
}
