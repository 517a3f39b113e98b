package core

import (
	"math"
	"testing"
)

func TestAABB_Hit(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name      string
		ray       Ray
		tMin      float64
		tMax      float64
		expectHit bool
	}{
		{"straight through", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)), 0, math.Inf(1), true},
		{"diagonal", NewRay(NewVec3(-5, -5, -5), NewVec3(1, 1, 1)), 0, math.Inf(1), true},
		{"pointing away", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, -1)), 0, math.Inf(1), false},
		{"passes beside", NewRay(NewVec3(2, 0, -5), NewVec3(0, 0, 1)), 0, math.Inf(1), false},
		{"parallel inside slab", NewRay(NewVec3(0.5, 0.5, -5), NewVec3(0, 0, 1)), 0, math.Inf(1), true},
		{"parallel outside slab", NewRay(NewVec3(0.5, 1.5, -5), NewVec3(0, 0, 1)), 0, math.Inf(1), false},
		{"interval ends before box", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)), 0, 3.9, false},
		{"interval starts after box", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)), 6.1, math.Inf(1), false},
		{"origin inside", NewRay(NewVec3(0, 0, 0), NewVec3(1, 0, 0)), 0, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Hit(tt.ray, tt.tMin, tt.tMax); got != tt.expectHit {
				t.Errorf("Expected hit=%v, got %v", tt.expectHit, got)
			}
		})
	}
}

func TestAABB_FromPointsAndUnion(t *testing.T) {
	box := NewAABBFromPoints(NewVec3(1, -2, 3), NewVec3(-1, 4, 0), NewVec3(0, 0, 5))
	if box.Min != NewVec3(-1, -2, 0) || box.Max != NewVec3(1, 4, 5) {
		t.Errorf("Expected (-1,-2,0)..(1,4,5), got %v..%v", box.Min, box.Max)
	}
	if (NewAABBFromPoints() != AABB{}) {
		t.Error("Expected zero box without points")
	}

	union := box.Union(NewAABB(NewVec3(-3, 0, 0), NewVec3(0, 0, 7)))
	if union.Min != NewVec3(-3, -2, 0) || union.Max != NewVec3(1, 4, 7) {
		t.Errorf("Expected (-3,-2,0)..(1,4,7), got %v..%v", union.Min, union.Max)
	}

	if c := box.Center(); c != NewVec3(0, 1, 2.5) {
		t.Errorf("Expected center (0,1,2.5), got %v", c)
	}
	if s := box.Size(); s != NewVec3(2, 6, 5) {
		t.Errorf("Expected size (2,6,5), got %v", s)
	}
}

func TestAABB_LongestAxis(t *testing.T) {
	tests := []struct {
		size     Vec3
		expected int
	}{
		{NewVec3(3, 1, 1), 0},
		{NewVec3(1, 3, 1), 1},
		{NewVec3(1, 1, 3), 2},
		{NewVec3(2, 2, 1), 1}, // ties go to the later axis
		{NewVec3(1, 1, 1), 2},
	}

	for _, tt := range tests {
		box := NewAABB(Vec3{}, tt.size)
		if got := box.LongestAxis(); got != tt.expected {
			t.Errorf("LongestAxis(%v): expected %d, got %d", tt.size, tt.expected, got)
		}
	}
}

func TestAABB_ExpandGivesPlanarBoxesThickness(t *testing.T) {
	flat := NewAABBFromPoints(NewVec3(0, 2, 0), NewVec3(1, 2, 1))
	if !flat.Hit(NewRay(NewVec3(0.5, 2, -1), NewVec3(0, 0, 1)), 0, math.Inf(1)) {
		t.Error("Expected ray inside the zero-thickness slab to hit")
	}

	padded := flat.Expand(0.01)
	if math.Abs(padded.Size().Y-0.02) > 1e-12 {
		t.Errorf("Expected Y thickness 0.02, got %v", padded.Size().Y)
	}
	if padded.Min.Subtract(NewVec3(-0.01, 1.99, -0.01)).Length() > 1e-12 {
		t.Errorf("Expected min (-0.01,1.99,-0.01), got %v", padded.Min)
	}
}
