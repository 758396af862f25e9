// Package tensor provides the element type registry and the raw byte view
// backing GPU tensors.
package tensor

// Element is a constraint for supported tensor element types.
// It uses Go generics to ensure compile-time type safety.
type Element interface {
	~bool | ~int32 | ~uint32 | ~float32 | ~float64
}

// DataType represents runtime type information for tensor elements.
type DataType int

// Supported element types for tensors.
const (
	Bool DataType = iota
	Int32
	UInt32
	Float32
	Float64
)

// Size returns the byte size of a single element of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Bool:
		return 1
	case Int32, UInt32, Float32:
		return 4
	case Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Bool:
		return "bool"
	case Int32:
		return "int32"
	case UInt32:
		return "uint32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// TypeOf returns the DataType corresponding to a generic element type T.
func TypeOf[T Element]() DataType {
	var zero T
	switch any(zero).(type) {
	case bool:
		return Bool
	case int32:
		return Int32
	case uint32:
		return UInt32
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		panic("unsupported element type")
	}
}
