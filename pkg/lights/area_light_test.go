package lights

import (
	"errors"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

func TestAreaLight_EvalFrontFaceOnly(t *testing.T) {
	// Quad at y=1 facing down: U × V = (1,0,0) × (0,0,1) = (0,-1,0)
	quad := geometry.NewQuad(core.NewVec3(-0.5, 1, -0.5), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1))
	if quad.Normal != core.NewVec3(0, -1, 0) {
		t.Fatalf("Test setup expects a downward normal, got %v", quad.Normal)
	}
	light := NewAreaLight(quad, core.NewVec3(4, 3, 2))

	below := NewLightQueryRecordForHit(light, core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), quad.Normal)
	if got := light.Eval(&below); got != light.Radiance {
		t.Errorf("Expected radiance from below, got %v", got)
	}

	above := NewLightQueryRecordForHit(light, core.NewVec3(0, 2, 0), core.NewVec3(0, 1, 0), quad.Normal)
	if got := light.Eval(&above); !got.IsZero() {
		t.Errorf("Expected no emission from the back side, got %v", got)
	}
}

func TestAreaLight_Surface(t *testing.T) {
	sphere := geometry.NewSphere(core.Vec3{}, 1)
	light := NewAreaLight(sphere, core.NewColor(1))

	surface, err := light.Surface()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if surface != geometry.Surface(sphere) {
		t.Error("Expected the sphere back")
	}
	if light.Color() != core.NewColor(1) {
		t.Errorf("Unexpected color %v", light.Color())
	}

	detached := NewAreaLight(nil, core.NewColor(1))
	if _, err := detached.Surface(); !errors.Is(err, ErrUnsupportedEmitter) {
		t.Errorf("Expected ErrUnsupportedEmitter, got %v", err)
	}
}

func TestLightQueryRecordForHit(t *testing.T) {
	rec := NewLightQueryRecordForHit(nil, core.NewVec3(0, 0, 0), core.NewVec3(0, 3, 4), core.NewVec3(0, -1, 0))
	if rec.Dist != 5 {
		t.Errorf("Expected distance 5, got %f", rec.Dist)
	}
	if rec.D.Subtract(core.NewVec3(0, 0.6, 0.8)).Length() > 1e-12 {
		t.Errorf("Unexpected direction %v", rec.D)
	}
}
