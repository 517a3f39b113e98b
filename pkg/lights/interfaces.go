package lights

import (
	"errors"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// ErrUnsupportedEmitter is returned when an emitter has no backing surface
// that can be sampled by area
var ErrUnsupportedEmitter = errors.New("unsupported emitter: no backing surface")

// Emitter is a light source attached to scene geometry
type Emitter interface {
	// Eval returns the radiance leaving rec.P toward rec.Ref
	Eval(rec *LightQueryRecord) core.Vec3

	// Color returns the constant emitted radiance
	Color() core.Vec3

	// Surface resolves the geometry the emitter is attached to, or returns an
	// error wrapping ErrUnsupportedEmitter
	Surface() (geometry.Surface, error)
}

// Background is an emitter at infinity, seen by rays that leave the scene
type Background interface {
	// Eval returns the radiance arriving along -rec.D
	Eval(rec *LightQueryRecord) core.Vec3
}

// LightQueryRecord describes one emitter query: a sample drawn toward a
// reference point, or a ray that hit (or escaped toward) an emitter
type LightQueryRecord struct {
	Emitter Emitter   // Emitter being queried; nil for backgrounds
	Ref     core.Vec3 // Reference (shading) point
	P       core.Vec3 // Point on the emitter
	N       core.Vec3 // Emitter normal at P
	D       core.Vec3 // Unit direction from Ref to P
	Dist    float64   // Distance from Ref to P
	PDF     float64   // Solid-angle density of the sample; 0 if it failed
}

// NewLightQueryRecord creates a record for sampling an emitter from ref
func NewLightQueryRecord(ref core.Vec3) LightQueryRecord {
	return LightQueryRecord{Ref: ref}
}

// NewLightQueryRecordForHit creates a record for a ray from ref that hit the
// emitter's surface at p with normal n
func NewLightQueryRecordForHit(emitter Emitter, ref, p, n core.Vec3) LightQueryRecord {
	d := p.Subtract(ref)
	dist := d.Length()
	return LightQueryRecord{
		Emitter: emitter,
		Ref:     ref,
		P:       p,
		N:       n,
		D:       d.Multiply(1.0 / dist),
		Dist:    dist,
	}
}

// NewLightQueryRecordForRay creates a record for a ray escaping toward a
// background emitter
func NewLightQueryRecordForRay(ray core.Ray) LightQueryRecord {
	return LightQueryRecord{
		Ref:  ray.Origin,
		D:    ray.Direction.Normalize(),
		Dist: ray.TMax,
	}
}
