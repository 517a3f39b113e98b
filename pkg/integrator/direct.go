package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/lights"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// DirectLightingIntegrator adds the radiance emitted at the first hit and a
// single light sample there, without following any bounce
type DirectLightingIntegrator struct{}

// NewDirectLightingIntegrator creates a direct lighting integrator. It has no
// settings of its own; config is accepted to match Factory.
func NewDirectLightingIntegrator(config Config) *DirectLightingIntegrator {
	return &DirectLightingIntegrator{}
}

// Li implements Integrator
func (dl *DirectLightingIntegrator) Li(sc *scene.Scene, sampler core.Sampler, ray core.Ray) (core.Vec3, error) {
	it := sc.Intersect(ray)
	if !it.IsHit() {
		if sc.HasBackground() {
			rec := lights.NewLightQueryRecordForRay(ray)
			return sc.Background().Eval(&rec), nil
		}
		return core.Vec3{}, nil
	}

	var result core.Vec3
	if it.Object.IsEmitter() {
		rec := lights.NewLightQueryRecordForHit(it.Object.Emitter, ray.Origin, it.Point, it.Normal)
		result = it.Object.Emitter.Eval(&rec)
	}

	direct, err := estimateDirect(sc, sampler, ray, it)
	if err != nil {
		return core.Vec3{}, err
	}
	return result.Add(direct), nil
}
