package tensor

import (
	"testing"
)

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		want  int
	}{
		{Bool, 1},
		{Int32, 4},
		{UInt32, 4},
		{Float32, 4},
		{Float64, 8},
	}

	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.want {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.want)
		}
	}
}

func TestDataTypeString(t *testing.T) {
	tests := []struct {
		dtype DataType
		want  string
	}{
		{Bool, "bool"},
		{Int32, "int32"},
		{UInt32, "uint32"},
		{Float32, "float32"},
		{Float64, "float64"},
		{DataType(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.dtype.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestDataTypeSizeUnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Size() on unknown data type should panic")
		}
	}()
	_ = DataType(99).Size()
}

func TestTypeOf(t *testing.T) {
	if got := TypeOf[bool](); got != Bool {
		t.Errorf("TypeOf[bool]() = %v, want Bool", got)
	}
	if got := TypeOf[int32](); got != Int32 {
		t.Errorf("TypeOf[int32]() = %v, want Int32", got)
	}
	if got := TypeOf[uint32](); got != UInt32 {
		t.Errorf("TypeOf[uint32]() = %v, want UInt32", got)
	}
	if got := TypeOf[float32](); got != Float32 {
		t.Errorf("TypeOf[float32]() = %v, want Float32", got)
	}
	if got := TypeOf[float64](); got != Float64 {
		t.Errorf("TypeOf[float64]() = %v, want Float64", got)
	}
}

func TestTensorTypeString(t *testing.T) {
	tests := []struct {
		tt   TensorType
		want string
	}{
		{Device, "Device"},
		{Host, "Host"},
		{Storage, "Storage"},
		{TensorType(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.tt.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
