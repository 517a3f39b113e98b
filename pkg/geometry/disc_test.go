package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestDisc_Hit(t *testing.T) {
	disc := NewDisc(core.NewVec3(0, 2, 0), core.NewVec3(0, -1, 0), 0.5)

	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
		wantHit   bool
		wantFront bool
	}{
		{"center from below", core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), true, true},
		{"near rim from below", core.NewVec3(0.49, 0, 0), core.NewVec3(0, 1, 0), true, true},
		{"outside radius", core.NewVec3(0.51, 0, 0), core.NewVec3(0, 1, 0), false, false},
		{"from above", core.NewVec3(0.1, 4, 0.1), core.NewVec3(0, -1, 0), true, false},
		{"parallel", core.NewVec3(-2, 2, 0), core.NewVec3(1, 0, 0), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := disc.Hit(core.NewRay(tt.origin, tt.direction), 1e-4, math.Inf(1))
			if ok != tt.wantHit {
				t.Fatalf("Expected hit=%v, got %v", tt.wantHit, ok)
			}
			if !ok {
				return
			}
			if hit.FrontFace != tt.wantFront {
				t.Errorf("Expected front face %v, got %v", tt.wantFront, hit.FrontFace)
			}
			if hit.Normal != core.NewVec3(0, -1, 0) {
				t.Errorf("Expected unflipped normal (0,-1,0), got %v", hit.Normal)
			}
			if math.Abs(hit.Point.Y-2) > 1e-9 {
				t.Errorf("Expected hit on the disc plane, got %v", hit.Point)
			}
		})
	}
}

func TestDisc_SamplePosition(t *testing.T) {
	disc := NewDisc(core.NewVec3(1, 2, 3), core.NewVec3(1, 1, 0), 2)

	if math.Abs(disc.Area()-4*math.Pi) > 1e-9 {
		t.Errorf("Expected area 4π, got %v", disc.Area())
	}
	if math.Abs(disc.PDF()*disc.Area()-1) > 1e-12 {
		t.Errorf("Expected pdf 1/area, got %v", disc.PDF())
	}

	sampler := core.NewSeededSampler(9)
	inner := 0
	const n = 20000
	for i := 0; i < n; i++ {
		p, normal := disc.SamplePosition(sampler.Get2D())
		local := p.Subtract(disc.Center)
		if math.Abs(local.Dot(disc.Normal)) > 1e-9 {
			t.Fatalf("Sample %v is off the disc plane", p)
		}
		if local.Length() > disc.Radius+1e-9 {
			t.Fatalf("Sample %v is outside the disc", p)
		}
		if normal != disc.Normal {
			t.Fatalf("Expected normal %v, got %v", disc.Normal, normal)
		}
		if local.Length() < disc.Radius/2 {
			inner++
		}
	}

	// Uniform by area: the inner half radius holds a quarter of the samples
	if got := float64(inner) / n; math.Abs(got-0.25) > 0.01 {
		t.Errorf("Expected 0.25 of samples in the inner half radius, got %.3f", got)
	}
}
