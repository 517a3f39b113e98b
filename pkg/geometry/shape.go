package geometry

import "github.com/df07/go-pathtracer/pkg/core"

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Outward surface normal, never flipped toward the ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	Shape     Shape     // Top-level shape that produced the hit
}

// setOutwardNormal stores the outward normal and records which side was hit
func (h *HitRecord) setOutwardNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	h.Normal = outwardNormal
}

// Shape interface for objects that can be hit by rays
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool)
	BoundingBox() core.AABB
}
