package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Disc represents a one-sided circular disc in 3D space
type Disc struct {
	Center core.Vec3 // Center of the disc
	Normal core.Vec3 // Outward normal
	Radius float64   // Radius of the disc
	Right  core.Vec3 // Right vector (perpendicular to normal)
	Up     core.Vec3 // Up vector (perpendicular to normal and right)
}

// NewDisc creates a new disc
func NewDisc(center, normal core.Vec3, radius float64) *Disc {
	normalNormalized := normal.Normalize()

	// Create orthogonal vectors
	var right core.Vec3
	if math.Abs(normalNormalized.X) > 0.1 {
		right = core.NewVec3(0, 1, 0)
	} else {
		right = core.NewVec3(1, 0, 0)
	}

	right = right.Cross(normalNormalized).Normalize()
	up := normalNormalized.Cross(right).Normalize()

	return &Disc{
		Center: center,
		Normal: normalNormalized,
		Radius: radius,
		Right:  right,
		Up:     up,
	}
}

// Hit implements the Shape interface
func (d *Disc) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	denom := d.Normal.Dot(ray.Direction)
	if math.Abs(denom) < 1e-8 {
		return nil, false // Ray is parallel to disc
	}

	t := d.Normal.Dot(d.Center.Subtract(ray.Origin)) / denom
	if t < tMin || t > tMax {
		return nil, false
	}

	hitPoint := ray.At(t)
	if hitPoint.Subtract(d.Center).LengthSquared() > d.Radius*d.Radius {
		return nil, false // Outside disc
	}

	hitRecord := &HitRecord{
		Point: hitPoint,
		T:     t,
		Shape: d,
	}
	hitRecord.setOutwardNormal(ray, d.Normal)
	return hitRecord, true
}

// BoundingBox implements the Shape interface
func (d *Disc) BoundingBox() core.AABB {
	// The disc extends radius in all directions perpendicular to the normal
	rightExtent := d.Right.Multiply(d.Radius)
	upExtent := d.Up.Multiply(d.Radius)

	return core.NewAABBFromPoints(
		d.Center.Add(rightExtent).Add(upExtent),
		d.Center.Add(rightExtent).Subtract(upExtent),
		d.Center.Subtract(rightExtent).Add(upExtent),
		d.Center.Subtract(rightExtent).Subtract(upExtent),
	).Expand(planarPadding)
}

// Area returns πr²
func (d *Disc) Area() float64 {
	return math.Pi * d.Radius * d.Radius
}

// SamplePosition samples a point uniformly on the disc surface
func (d *Disc) SamplePosition(sample core.Vec2) (core.Vec3, core.Vec3) {
	// Polar mapping, sqrt keeps the density uniform in area
	r := math.Sqrt(sample.X) * d.Radius
	theta := 2.0 * math.Pi * sample.Y

	x := r * math.Cos(theta)
	y := r * math.Sin(theta)

	point := d.Center.Add(d.Right.Multiply(x)).Add(d.Up.Multiply(y))
	return point, d.Normal
}

// PDF returns the per-area density of SamplePosition
func (d *Disc) PDF() float64 {
	return 1.0 / d.Area()
}
