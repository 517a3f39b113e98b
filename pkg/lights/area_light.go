package lights

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// AreaLight emits constant radiance from the front side of a surface
type AreaLight struct {
	Radiance core.Vec3
	surface  geometry.Surface
}

// NewAreaLight creates an area light backed by surface
func NewAreaLight(surface geometry.Surface, radiance core.Vec3) *AreaLight {
	return &AreaLight{Radiance: radiance, surface: surface}
}

// Eval returns Radiance when Ref sits on the side the normal points to
func (al *AreaLight) Eval(rec *LightQueryRecord) core.Vec3 {
	if rec.N.Dot(rec.D) >= 0 {
		return core.Vec3{}
	}
	return al.Radiance
}

// Color returns the constant emitted radiance
func (al *AreaLight) Color() core.Vec3 {
	return al.Radiance
}

// Surface returns the backing surface
func (al *AreaLight) Surface() (geometry.Surface, error) {
	if al.surface == nil {
		return nil, fmt.Errorf("area light is not attached to a surface: %w", ErrUnsupportedEmitter)
	}
	return al.surface, nil
}
