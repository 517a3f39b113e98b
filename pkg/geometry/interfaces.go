package geometry

import "github.com/df07/go-pathtracer/pkg/core"

// Surface is a shape that can be sampled uniformly by area.
// Emitters need one of these as their backing geometry.
type Surface interface {
	Shape

	// Area returns the total surface area
	Area() float64

	// SamplePosition maps a uniform 2D sample to a point and outward normal,
	// distributed uniformly over the surface area
	SamplePosition(sample core.Vec2) (point, normal core.Vec3)

	// PDF returns the density of SamplePosition per unit area (1/Area)
	PDF() float64
}

// planarPadding keeps bounding boxes of flat shapes from collapsing to zero thickness
const planarPadding = 1e-4
