package core

import (
	"math"
	"testing"
)

func TestVec3Basics(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)

	if got := a.Add(b); got != NewVec3(5, 7, 9) {
		t.Errorf("Add: got %v", got)
	}
	if got := b.Subtract(a); got != NewVec3(3, 3, 3) {
		t.Errorf("Subtract: got %v", got)
	}
	if got := a.MultiplyVec(b); got != NewVec3(4, 10, 18) {
		t.Errorf("MultiplyVec: got %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot: got %f", got)
	}
	if got := NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)); got != NewVec3(0, 0, 1) {
		t.Errorf("Cross: got %v", got)
	}
	if got := a.MaxComponent(); got != 3 {
		t.Errorf("MaxComponent: got %f", got)
	}
	for i, want := range []float64{a.X, a.Y, a.Z} {
		if got := a.Axis(i); got != want {
			t.Errorf("Axis(%d): got %f, want %f", i, got, want)
		}
	}
}

func TestVec3IsZero(t *testing.T) {
	tests := []struct {
		v        Vec3
		expected bool
	}{
		{Vec3{}, true},
		{NewVec3(0, 0, 1e-300), false},
		{NewVec3(-0.0, 0, 0), true},
		{NewColor(1), false},
	}
	for _, tt := range tests {
		if got := tt.v.IsZero(); got != tt.expected {
			t.Errorf("IsZero(%v): got %v, expected %v", tt.v, got, tt.expected)
		}
	}
}

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3, 4, 0).Normalize()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", v.Length())
	}
	if zero := (Vec3{}).Normalize(); zero != (Vec3{}) {
		t.Errorf("Expected zero vector to stay zero, got %v", zero)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(0, 1, 0),
		NewVec3(1, 0, 0),
		NewVec3(0, -1, 0),
		NewVec3(1, 1, 1).Normalize(),
		NewVec3(-0.3, 0.2, -0.9).Normalize(),
	}
	v := NewVec3(0.2, -0.7, 0.4)

	for _, n := range normals {
		f := NewFrame(n)
		if math.Abs(f.S.Dot(f.N)) > 1e-12 || math.Abs(f.T.Dot(f.N)) > 1e-12 || math.Abs(f.S.Dot(f.T)) > 1e-12 {
			t.Errorf("Frame for %v is not orthogonal: %+v", n, f)
		}
		local := f.ToLocal(n)
		if math.Abs(CosTheta(local)-1) > 1e-12 {
			t.Errorf("Normal should map to +z, got %v", local)
		}
		back := f.ToWorld(f.ToLocal(v))
		if back.Subtract(v).Length() > 1e-12 {
			t.Errorf("Round trip mismatch for normal %v: %v vs %v", n, back, v)
		}
	}
}

func TestRayAt(t *testing.T) {
	r := NewRay(NewVec3(1, 0, 0), NewVec3(0, 2, 0))
	if got := r.At(1.5); got != NewVec3(1, 3, 0) {
		t.Errorf("At: got %v", got)
	}
	if r.TMin != Epsilon || !math.IsInf(r.TMax, 1) {
		t.Errorf("Unexpected default interval [%f, %f]", r.TMin, r.TMax)
	}
}
