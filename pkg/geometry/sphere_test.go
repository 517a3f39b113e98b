package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestSphere_Hit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -2), 0.5)

	hit, isHit := sphere.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit")
	}
	if math.Abs(hit.T-1.5) > 1e-9 {
		t.Errorf("Expected t=1.5, got %f", hit.T)
	}
	if hit.Normal.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 || !hit.FrontFace {
		t.Errorf("Expected front-face normal (0,0,1), got %v", hit.Normal)
	}

	// From inside the sphere the far root is used and the normal stays outward
	inside, isHit := sphere.Hit(core.NewRay(core.NewVec3(0, 0, -2), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit from inside")
	}
	if inside.FrontFace || inside.Normal.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-9 {
		t.Errorf("Expected back-face hit with outward normal, got %v front=%v", inside.Normal, inside.FrontFace)
	}

	if _, isHit := sphere.Hit(core.NewRay(core.NewVec3(0, 2, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1)); isHit {
		t.Error("Expected miss")
	}
}

func TestSphere_SamplePosition(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, 2, 3), 2)
	sampler := core.NewSeededSampler(4)
	for i := 0; i < 100; i++ {
		p, n := sphere.SamplePosition(sampler.Get2D())
		if math.Abs(p.Subtract(sphere.Center).Length()-2) > 1e-9 {
			t.Fatalf("Sample %v not on sphere", p)
		}
		if p.Subtract(sphere.Center).Normalize().Subtract(n).Length() > 1e-9 {
			t.Fatalf("Normal %v not radial at %v", n, p)
		}
	}
	if math.Abs(sphere.PDF()*sphere.Area()-1) > 1e-12 {
		t.Error("PDF must be 1/Area")
	}
}
