package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestBVH_Empty(t *testing.T) {
	bvh := NewBVH(nil)
	if _, isHit := bvh.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 0.001, math.Inf(1)); isHit {
		t.Error("Expected miss on empty BVH")
	}
}

func TestBVH_ClosestHitMatchesLinearScan(t *testing.T) {
	var shapes []Shape
	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			center := core.NewVec3(float64(i)-4.5, float64(j)-4.5, -5-float64((i*7+j*3)%5))
			shapes = append(shapes, NewSphere(center, 0.4))
		}
	}
	bvh := NewBVH(shapes)

	sampler := core.NewSeededSampler(21)
	for k := 0; k < 500; k++ {
		s := sampler.Get2D()
		dir := core.NewVec3(s.X*1.6-0.8, s.Y*1.6-0.8, -1).Normalize()
		ray := core.NewRay(core.Vec3{}, dir)

		var want *HitRecord
		closest := math.Inf(1)
		for _, shape := range shapes {
			if hit, ok := shape.Hit(ray, 0.001, closest); ok {
				want = hit
				closest = hit.T
			}
		}

		got, ok := bvh.Hit(ray, 0.001, math.Inf(1))
		if (want != nil) != ok {
			t.Fatalf("Ray %v: linear hit=%v, bvh hit=%v", dir, want != nil, ok)
		}
		if ok {
			if math.Abs(got.T-want.T) > 1e-9 {
				t.Fatalf("Ray %v: linear t=%f, bvh t=%f", dir, want.T, got.T)
			}
			if got.Shape != want.Shape {
				t.Fatalf("Ray %v: different shapes reported", dir)
			}
		}
	}
}

func TestBVH_Bounds(t *testing.T) {
	shapes := []Shape{
		NewSphere(core.NewVec3(-1, 0, 0), 1),
		NewSphere(core.NewVec3(1, 0, 0), 1),
	}
	bvh := NewBVH(shapes)
	if bvh.Center.Length() > 1e-12 {
		t.Errorf("Expected center at origin, got %v", bvh.Center)
	}
	box := bvh.BoundingBox()
	if box.Min != core.NewVec3(-2, -1, -1) || box.Max != core.NewVec3(2, 1, 1) {
		t.Errorf("Unexpected bounds %v", box)
	}
}
