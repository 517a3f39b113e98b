package scene

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Intersection is the result of tracing a ray against the scene
type Intersection struct {
	T         float64    // Hit distance; +Inf when nothing was hit
	Point     core.Vec3  // Hit point
	Normal    core.Vec3  // Outward surface normal
	Frame     core.Frame // Shading frame with N = Normal
	FrontFace bool       // Whether the ray arrived on the outward side
	Object    *Object    // Object that was hit; nil on a miss
}

func missed() Intersection {
	return Intersection{T: math.Inf(1)}
}

// IsHit reports whether the ray hit anything
func (it Intersection) IsHit() bool {
	return !math.IsInf(it.T, 1)
}

// ToLocal converts a world-space direction into the shading frame
func (it Intersection) ToLocal(v core.Vec3) core.Vec3 {
	return it.Frame.ToLocal(v)
}

// ToWorld converts a shading-frame direction back into world space
func (it Intersection) ToWorld(v core.Vec3) core.Vec3 {
	return it.Frame.ToWorld(v)
}
