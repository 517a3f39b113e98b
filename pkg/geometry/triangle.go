package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3 // The three vertices
	normal     core.Vec3 // Cached normal vector
	area       float64
	bbox       core.AABB
}

// NewTriangle creates a new triangle from three vertices.
// The outward normal follows the counter-clockwise winding (V1-V0) × (V2-V0).
func NewTriangle(v0, v1, v2 core.Vec3) *Triangle {
	cross := v1.Subtract(v0).Cross(v2.Subtract(v0))
	return &Triangle{
		V0:     v0,
		V1:     v1,
		V2:     v2,
		normal: cross.Normalize(),
		area:   0.5 * cross.Length(),
		bbox:   core.NewAABBFromPoints(v0, v1, v2).Expand(planarPadding),
	}
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	const epsilon = 1e-12

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Ray lies in the triangle's plane
	if a > -epsilon && a < epsilon {
		return nil, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return nil, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return nil, false
	}

	tParam := f * edge2.Dot(q)
	if tParam < tMin || tParam > tMax {
		return nil, false
	}

	hitRecord := &HitRecord{
		T:     tParam,
		Point: ray.At(tParam),
		Shape: t,
	}
	hitRecord.setOutwardNormal(ray, t.normal)
	return hitRecord, true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// Normal returns the triangle's normal vector
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// Area returns the triangle's area
func (t *Triangle) Area() float64 {
	return t.area
}

// SamplePosition samples a point uniformly on the triangle
func (t *Triangle) SamplePosition(sample core.Vec2) (core.Vec3, core.Vec3) {
	b1, b2 := core.SampleUniformTriangle(sample)
	p := t.V0.Multiply(1 - b1 - b2).Add(t.V1.Multiply(b1)).Add(t.V2.Multiply(b2))
	return p, t.normal
}

// PDF returns the per-area density of SamplePosition
func (t *Triangle) PDF() float64 {
	return 1.0 / t.area
}
