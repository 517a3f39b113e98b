package integrator

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/lights"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func TestSampleLights_NoEmitters(t *testing.T) {
	sc := scene.NewScene("dark")
	sc.AddObject(&scene.Object{Name: "plane", Shape: scene.NewGroundQuad(core.Vec3{}, 4)})
	if err := sc.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	rec := lights.NewLightQueryRecord(core.Vec3{})
	_, err := SampleLights(sc, &rec, core.NewVec2(0.5, 0.5))
	if !errors.Is(err, ErrNoEmitters) {
		t.Fatalf("Expected ErrNoEmitters, got %v", err)
	}
	if err.Error() != "no light sources defined" {
		t.Errorf("Expected message %q, got %q", "no light sources defined", err.Error())
	}
}

func TestSampleLights_UnsupportedEmitter(t *testing.T) {
	sc := scene.NewScene("broken")
	sc.AddObject(&scene.Object{
		Name:    "detached",
		Shape:   geometry.NewSphere(core.NewVec3(0, 5, 0), 1),
		Emitter: lights.NewAreaLight(nil, core.NewColor(1)),
	})
	if err := sc.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	rec := lights.NewLightQueryRecord(core.Vec3{})
	_, err := SampleLights(sc, &rec, core.NewVec2(0.5, 0.5))
	if !errors.Is(err, lights.ErrUnsupportedEmitter) {
		t.Fatalf("Expected ErrUnsupportedEmitter, got %v", err)
	}
}

func TestSampleLights_DirectlyBelowCenter(t *testing.T) {
	tests := []struct {
		name string
		h    float64
		le   float64
	}{
		{"unit height", 1, 5},
		{"double height", 2, 5},
		{"dim light", 1, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newLitPlane(t, tt.h, tt.le)
			rec := lights.NewLightQueryRecord(core.Vec3{})

			// (0.5, 0.5) maps to the center of the light, straight above
			got, err := SampleLights(sc, &rec, core.NewVec2(0.5, 0.5))
			if err != nil {
				t.Fatalf("SampleLights failed: %v", err)
			}

			// Le * cos / d² / (1/A) with cos = 1, d = h, A = 1
			want := core.NewColor(tt.le / (tt.h * tt.h))
			assertVecNear(t, "radiance", got, want, 1e-9)

			if math.Abs(rec.Dist-tt.h) > 1e-9 {
				t.Errorf("Expected distance %v, got %v", tt.h, rec.Dist)
			}
			assertVecNear(t, "direction", rec.D, core.NewVec3(0, 1, 0), 1e-9)
			assertVecNear(t, "normal", rec.N, core.NewVec3(0, -1, 0), 1e-9)
			// Solid-angle pdf = (1/A) * d² / cos
			if math.Abs(rec.PDF-tt.h*tt.h) > 1e-9 {
				t.Errorf("Expected pdf %v, got %v", tt.h*tt.h, rec.PDF)
			}
			if rec.Emitter != sc.Emitters()[0] {
				t.Error("Expected record to reference the light")
			}
		})
	}
}

func TestSampleLights_OffAxisGeometryTerm(t *testing.T) {
	sc := newLitPlane(t, 1, 5)
	ref := core.NewVec3(1, 0, 0)
	rec := lights.NewLightQueryRecord(ref)

	sample := core.NewVec2(0.25, 0.75)
	got, err := SampleLights(sc, &rec, sample)
	if err != nil {
		t.Fatalf("SampleLights failed: %v", err)
	}

	// Light corner is (-0.5, 1, -0.5) with edges along +X and +Z
	p := core.NewVec3(-0.5+0.25, 1, -0.5+0.75)
	d := p.Subtract(ref)
	dist2 := d.LengthSquared()
	cos := d.Y / math.Sqrt(dist2)
	want := core.NewColor(5 * cos / dist2)

	assertVecNear(t, "radiance", got, want, 1e-9)
	assertVecNear(t, "point", rec.P, p, 1e-9)
}

func TestSampleLights_WrongSideIsZero(t *testing.T) {
	sc := newLitPlane(t, 1, 5)
	sampler := core.NewSeededSampler(7)

	// Above the light, every sampled point faces away
	rec := lights.NewLightQueryRecord(core.NewVec3(0.1, 3, -0.2))
	for i := 0; i < 1000; i++ {
		got, err := SampleLights(sc, &rec, sampler.Get2D())
		if err != nil {
			t.Fatalf("SampleLights failed: %v", err)
		}
		if !got.IsZero() {
			t.Fatalf("Sample %d: expected zero from the back of the light, got %v", i, got)
		}
		if rec.PDF != 0 {
			t.Fatalf("Sample %d: expected zero pdf, got %v", i, rec.PDF)
		}
	}
}

func TestSampleLights_SampleAtReferenceIsZero(t *testing.T) {
	sc := newLitPlane(t, 1, 5)

	// (0.5, 0.5) maps to the light's center, which is the reference point
	rec := lights.NewLightQueryRecord(core.NewVec3(0, 1, 0))
	got, err := SampleLights(sc, &rec, core.NewVec2(0.5, 0.5))
	if err != nil {
		t.Fatalf("SampleLights failed: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("Expected zero radiance, got %v", got)
	}
	if rec.PDF != 0 || rec.Dist != 0 {
		t.Errorf("Expected zero pdf and distance, got %v and %v", rec.PDF, rec.Dist)
	}
	for _, c := range []float64{rec.D.X, rec.D.Y, rec.D.Z} {
		if math.IsNaN(c) {
			t.Fatalf("Expected a finite direction, got %v", rec.D)
		}
	}
}

func TestSampleLights_OccludedIsZero(t *testing.T) {
	sc := scene.NewLitPlaneScene(1, 5)
	// Blocker between the plane and the light, larger than the light
	sc.AddObject(&scene.Object{Name: "blocker", Shape: scene.NewGroundQuad(core.NewVec3(0, 0.5, 0), 2)})
	if err := sc.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	sampler := core.NewSeededSampler(11)
	rec := lights.NewLightQueryRecord(core.Vec3{})
	for i := 0; i < 1000; i++ {
		got, err := SampleLights(sc, &rec, sampler.Get2D())
		if err != nil {
			t.Fatalf("SampleLights failed: %v", err)
		}
		if !got.IsZero() {
			t.Fatalf("Sample %d: expected zero behind the blocker, got %v", i, got)
		}
	}
}

func TestSampleLights_ShadowRayStopsBeforeLight(t *testing.T) {
	// Light sitting right on top of a second surface must not shadow itself
	sc := scene.NewLitPlaneScene(1, 5)
	sc.AddObject(&scene.Object{
		Name:     "ceiling",
		Shape:    scene.NewGroundQuad(core.NewVec3(0, 1+1e-3, 0), 4),
		Material: material.NewDiffuse(core.NewColor(0.5)),
	})
	if err := sc.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	rec := lights.NewLightQueryRecord(core.Vec3{})
	got, err := SampleLights(sc, &rec, core.NewVec2(0.5, 0.5))
	if err != nil {
		t.Fatalf("SampleLights failed: %v", err)
	}
	assertVecNear(t, "radiance", got, core.NewColor(5), 1e-9)
}

func TestSampleLights_PicksEmitterUniformly(t *testing.T) {
	sc := scene.NewScene("two lights")
	sc.AddObject(&scene.Object{Name: "plane", Shape: scene.NewGroundQuad(core.Vec3{}, 10)})
	left := sc.AddAreaLight("left", newDownQuad(core.NewVec3(-2, 1, 0), 1), core.NewColor(1), nil)
	right := sc.AddAreaLight("right", newDownQuad(core.NewVec3(2, 1, 0), 1), core.NewColor(3), nil)
	if err := sc.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	tests := []struct {
		name      string
		x         float64
		emitter   lights.Emitter
		rescaledX float64
	}{
		{"start of first", 0.0, left.Emitter, 0.0},
		{"middle of first", 0.25, left.Emitter, 0.5},
		{"start of second", 0.5, right.Emitter, 0.0},
		{"middle of second", 0.75, right.Emitter, 0.5},
		{"end of range", math.Nextafter(1, 0), right.Emitter, 1 - 2*(1-math.Nextafter(1, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := lights.NewLightQueryRecord(core.Vec3{})
			if _, err := SampleLights(sc, &rec, core.NewVec2(tt.x, 0.5)); err != nil {
				t.Fatalf("SampleLights failed: %v", err)
			}
			if rec.Emitter != tt.emitter {
				t.Fatalf("Expected emitter %v, got %v", tt.emitter, rec.Emitter)
			}
			surface, _ := tt.emitter.Surface()
			q := surface.(*geometry.Quad)
			wantX := q.Corner.X + q.U.X*tt.rescaledX
			if math.Abs(rec.P.X-wantX) > 1e-9 {
				t.Errorf("Expected rescaled sample to land at x=%v, got %v", wantX, rec.P.X)
			}
		})
	}
}

func TestSampleLights_EmitterCountWeighting(t *testing.T) {
	// Two identical lights at the same spot: each sample carries weight N
	sc := scene.NewScene("twins")
	sc.AddObject(&scene.Object{Name: "plane", Shape: scene.NewGroundQuad(core.Vec3{}, 4)})
	sc.AddAreaLight("a", newDownQuad(core.NewVec3(0, 1, 0), 1), core.NewColor(5), nil)
	sc.AddAreaLight("b", newDownQuad(core.NewVec3(0, 1, 0), 1), core.NewColor(5), nil)
	if err := sc.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	rec := lights.NewLightQueryRecord(core.Vec3{})
	// x = 0.25 picks the first light and rescales to 0.5, the center
	got, err := SampleLights(sc, &rec, core.NewVec2(0.25, 0.5))
	if err != nil {
		t.Fatalf("SampleLights failed: %v", err)
	}
	assertVecNear(t, "radiance", got, core.NewColor(10), 1e-9)
}

func TestSampleLights_ConvergesToFormFactor(t *testing.T) {
	sc := newLitPlane(t, 1, 5)
	sampler := core.NewSeededSampler(42)

	// E[L * cos_ref] over the light = Le * pi * F
	const n = 20000
	var sum float64
	for i := 0; i < n; i++ {
		rec := lights.NewLightQueryRecord(core.Vec3{})
		got, err := SampleLights(sc, &rec, sampler.Get2D())
		if err != nil {
			t.Fatalf("SampleLights failed: %v", err)
		}
		sum += got.X * rec.D.Y
	}
	mean := sum / n
	want := 5 * math.Pi * pointToSquareFactor(1, 1)
	if math.Abs(mean-want)/want > 0.02 {
		t.Errorf("Expected mean %v, got %v", want, mean)
	}
}

// newDownQuad creates a square centered at center with normal -Y
func newDownQuad(center core.Vec3, size float64) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	return geometry.NewQuad(corner, core.NewVec3(size, 0, 0), core.NewVec3(0, 0, size))
}
