package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestTriangle_Hit(t *testing.T) {
	tri := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))

	tests := []struct {
		name   string
		origin core.Vec3
		dir    core.Vec3
		hit    bool
		t      float64
	}{
		{"inside", core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, -1), true, 1},
		{"outside hypotenuse", core.NewVec3(0.8, 0.8, 1), core.NewVec3(0, 0, -1), false, 0},
		{"parallel", core.NewVec3(0.25, 0.25, 1), core.NewVec3(1, 0, 0), false, 0},
		{"behind origin", core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, 1), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := tri.Hit(core.NewRay(tt.origin, tt.dir), 0.001, math.Inf(1))
			if isHit != tt.hit {
				t.Fatalf("Expected hit=%v, got %v", tt.hit, isHit)
			}
			if isHit && math.Abs(hit.T-tt.t) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.t, hit.T)
			}
		})
	}
}

func TestTriangle_AreaAndNormal(t *testing.T) {
	tri := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0))
	if math.Abs(tri.Area()-2) > 1e-12 {
		t.Errorf("Expected area 2, got %f", tri.Area())
	}
	if tri.Normal() != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected +z normal, got %v", tri.Normal())
	}
	if math.Abs(tri.PDF()-0.5) > 1e-12 {
		t.Errorf("Expected pdf 0.5, got %f", tri.PDF())
	}
}

func TestTriangle_SamplePositionInside(t *testing.T) {
	tri := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))
	sampler := core.NewSeededSampler(2)
	sumX, sumY := 0.0, 0.0
	n := 20000
	for i := 0; i < n; i++ {
		p, _ := tri.SamplePosition(sampler.Get2D())
		if p.X < -1e-12 || p.Y < -1e-12 || p.X+p.Y > 1+1e-12 || p.Z != 0 {
			t.Fatalf("Sample %v outside triangle", p)
		}
		sumX += p.X
		sumY += p.Y
	}
	// Uniform sampling puts the mean at the centroid (1/3, 1/3)
	if math.Abs(sumX/float64(n)-1.0/3.0) > 0.01 || math.Abs(sumY/float64(n)-1.0/3.0) > 0.01 {
		t.Errorf("Sample mean (%f, %f) far from centroid", sumX/float64(n), sumY/float64(n))
	}
}
