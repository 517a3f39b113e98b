package integrator

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/lights"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// ErrNoEmitters is returned when direct lighting is requested in a scene
// without surface emitters
var ErrNoEmitters = errors.New("no light sources defined")

// shadowShrink shortens shadow rays so they stop just before the light
const shadowShrink = 1e-4

// SampleLights draws one point on one emitter, chosen uniformly, and returns
// its radiance toward rec.Ref weighted by the light-side geometry term and
// the inverse sampling density. The result is zero when the sampled point
// faces away from rec.Ref, coincides with it, or is occluded. rec is filled in with the sampled
// emitter, point, normal, direction, distance and solid-angle pdf.
func SampleLights(sc *scene.Scene, rec *lights.LightQueryRecord, sample core.Vec2) (core.Vec3, error) {
	emitters := sc.Emitters()
	n := len(emitters)
	if n == 0 {
		return core.Vec3{}, ErrNoEmitters
	}

	// Pick an emitter and stretch the used-up part of x back to [0,1)
	index := int(float64(n) * sample.X)
	if index > n-1 {
		index = n - 1
	}
	sample.X = float64(n)*sample.X - float64(index)

	rec.Emitter = emitters[index]
	surface, err := rec.Emitter.Surface()
	if err != nil {
		return core.Vec3{}, fmt.Errorf("emitter %d: %w", index, err)
	}

	rec.P, rec.N = surface.SamplePosition(sample)
	d := rec.P.Subtract(rec.Ref)
	dist2 := d.LengthSquared()
	if dist2 == 0 {
		// Sampled the reference point itself; no direction to shade
		rec.Dist, rec.D, rec.PDF = 0, core.Vec3{}, 0
		return core.Vec3{}, nil
	}
	rec.Dist = math.Sqrt(dist2)
	rec.D = d.Multiply(1.0 / rec.Dist)

	dp := -rec.N.Dot(rec.D)
	if dp <= 0 {
		rec.PDF = 0
		return core.Vec3{}, nil
	}
	rec.PDF = surface.PDF() * dist2 / dp

	shadow := core.NewRaySegment(rec.Ref, rec.D, core.Epsilon, rec.Dist*(1-shadowShrink))
	if sc.Occluded(shadow) {
		return core.Vec3{}, nil
	}

	g := dp / dist2
	return rec.Emitter.Color().Multiply(g * float64(n) / surface.PDF()), nil
}
