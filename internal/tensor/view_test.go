package tensor

import (
	"errors"
	"testing"
)

func TestViewAsFloat32(t *testing.T) {
	region := make([]byte, 4*4)
	v := NewView(region, 4, 4, Float32)

	data := v.AsFloat32()
	if len(data) != 4 {
		t.Fatalf("AsFloat32 length = %d, want 4", len(data))
	}

	// Modify and verify zero-copy
	data[0] = 42.5
	if v.AsFloat32()[0] != 42.5 {
		t.Error("AsFloat32 should return zero-copy slice")
	}
}

func TestViewAsBool(t *testing.T) {
	region := make([]byte, 3)
	v := NewView(region, 3, 1, Bool)

	data := v.AsBool()
	if len(data) != 3 {
		t.Fatalf("AsBool length = %d, want 3", len(data))
	}

	data[2] = true
	if v.AsBool()[2] != true {
		t.Error("AsBool should return zero-copy slice")
	}
}

func TestViewAsUInt32(t *testing.T) {
	region := make([]byte, 2*4)
	v := NewView(region, 2, 4, UInt32)

	data := v.AsUInt32()
	data[1] = 0xDEADBEEF
	if v.AsUInt32()[1] != 0xDEADBEEF {
		t.Error("AsUInt32 should return zero-copy slice")
	}
}

func TestViewDTypeMismatchPanics(t *testing.T) {
	region := make([]byte, 4*4)
	v := NewView(region, 4, 4, Float32)

	defer func() {
		if recover() == nil {
			t.Error("AsInt32 on a Float32 view should panic")
		}
	}()
	_ = v.AsInt32()
}

func TestViewSetRaw(t *testing.T) {
	region := make([]byte, 8)
	v := NewView(region, 2, 4, Float32)

	src := ToBytes([]float32{1.5, -2.5})
	if err := v.SetRaw(src); err != nil {
		t.Fatalf("SetRaw failed: %v", err)
	}

	got := v.AsFloat32()
	if got[0] != 1.5 || got[1] != -2.5 {
		t.Errorf("SetRaw round-trip = %v, want [1.5 -2.5]", got)
	}
}

func TestViewSetRawSizeMismatch(t *testing.T) {
	region := make([]byte, 8)
	v := NewView(region, 2, 4, Float32)
	if err := v.SetRaw(ToBytes([]float32{1, 2})); err != nil {
		t.Fatalf("SetRaw failed: %v", err)
	}

	err := v.SetRaw(ToBytes([]float32{1, 2, 3}))
	var sizeErr *SizeMismatchError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("SetRaw with wrong size = %v, want SizeMismatchError", err)
	}
	if sizeErr.Want != 8 || sizeErr.Got != 12 {
		t.Errorf("SizeMismatchError = {Want:%d Got:%d}, want {Want:8 Got:12}", sizeErr.Want, sizeErr.Got)
	}

	// Existing data must be unchanged after a failed write.
	got := v.AsFloat32()
	if got[0] != 1 || got[1] != 2 {
		t.Errorf("data changed after failed SetRaw: %v", got)
	}
}

func TestViewReset(t *testing.T) {
	region := make([]byte, 4)
	v := NewView(region, 1, 4, Float32)

	v.Reset()
	if v.Valid() {
		t.Error("view should be invalid after Reset")
	}
	if v.Bytes() != nil {
		t.Error("Bytes should return nil after Reset")
	}
	if v.AsFloat32() != nil {
		t.Error("AsFloat32 should return nil after Reset")
	}
	if err := v.SetRaw(make([]byte, 4)); err == nil {
		t.Error("SetRaw on a reset view should fail")
	}
}

func TestViewBadRegionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewView with short region should panic")
		}
	}()
	_ = NewView(make([]byte, 7), 2, 4, Float32)
}

func TestToBytesRoundTrip(t *testing.T) {
	b := ToBytes([]float64{3.14})
	if len(b) != 8 {
		t.Fatalf("ToBytes length = %d, want 8", len(b))
	}
	v := NewView(b, 1, 8, Float64)
	if v.AsFloat64()[0] != 3.14 {
		t.Error("ToBytes should preserve element bytes")
	}
}
