package geometry

import (
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Box represents a rectangular box made up of 6 outward-facing quads with
// optional rotation
type Box struct {
	Center   core.Vec3 // Center point of the box
	Size     core.Vec3 // Half-extents along each local axis
	Rotation core.Vec3 // Rotation angles in radians (X, Y, Z)
	faces    [6]*Quad  // The 6 quad faces
	faceCDF  [6]float64
	area     float64
	bbox     core.AABB // Cached bounding box
}

// NewBox creates a new box with the given center, half-extents and rotation.
// Rotation is in radians around X, Y, Z axes (applied in that order).
func NewBox(center, size, rotation core.Vec3) *Box {
	box := &Box{
		Center:   center,
		Size:     size,
		Rotation: rotation,
	}
	box.generateFaces()
	return box
}

// NewAxisAlignedBox creates a new axis-aligned box (no rotation)
func NewAxisAlignedBox(center, size core.Vec3) *Box {
	return NewBox(center, size, core.Vec3{})
}

// generateFaces creates the 6 quad faces of the box
func (b *Box) generateFaces() {
	// Define the 8 corners of a unit box centered at origin
	corners := [8]core.Vec3{
		core.NewVec3(-1, -1, -1), // 0: left-bottom-back
		core.NewVec3(1, -1, -1),  // 1: right-bottom-back
		core.NewVec3(1, 1, -1),   // 2: right-top-back
		core.NewVec3(-1, 1, -1),  // 3: left-top-back
		core.NewVec3(-1, -1, 1),  // 4: left-bottom-front
		core.NewVec3(1, -1, 1),   // 5: right-bottom-front
		core.NewVec3(1, 1, 1),    // 6: right-top-front
		core.NewVec3(-1, 1, 1),   // 7: left-top-front
	}

	for i := range corners {
		corners[i] = core.NewVec3(
			corners[i].X*b.Size.X,
			corners[i].Y*b.Size.Y,
			corners[i].Z*b.Size.Z,
		)
		corners[i] = rotateVertex(corners[i], b.Rotation)
		corners[i] = corners[i].Add(b.Center)
	}

	// Each face is a corner and two edges whose cross product points outward
	faceCorners := [6][3]int{
		{4, 5, 7}, // Front (Z+)
		{1, 0, 2}, // Back (Z-)
		{5, 1, 6}, // Right (X+)
		{0, 4, 3}, // Left (X-)
		{3, 7, 2}, // Top (Y+)
		{4, 0, 5}, // Bottom (Y-)
	}
	for i, fc := range faceCorners {
		origin := corners[fc[0]]
		b.faces[i] = NewQuad(origin, corners[fc[1]].Subtract(origin), corners[fc[2]].Subtract(origin))
	}

	// Area-weighted face selection for sampling
	for i, face := range b.faces {
		b.area += face.Area()
		b.faceCDF[i] = b.area
	}
	for i := range b.faceCDF {
		b.faceCDF[i] /= b.area
	}

	b.bbox = core.NewAABBFromPoints(corners[:]...)
}

// Hit tests if a ray intersects with any face of the box
func (b *Box) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	var closestHit *HitRecord
	closestT := tMax

	for _, face := range b.faces {
		if hit, isHit := face.Hit(ray, tMin, closestT); isHit {
			closestT = hit.T
			closestHit = hit
		}
	}

	if closestHit != nil {
		closestHit.Shape = b
	}
	return closestHit, closestHit != nil
}

// BoundingBox returns the axis-aligned bounding box for this box
func (b *Box) BoundingBox() core.AABB {
	return b.bbox
}

// Faces returns the six faces of the box
func (b *Box) Faces() [6]*Quad {
	return b.faces
}

// Area returns the total area of all faces
func (b *Box) Area() float64 {
	return b.area
}

// SamplePosition picks a face proportionally to its area, then a uniform
// point on that face. sample.X is reused after the face choice.
func (b *Box) SamplePosition(sample core.Vec2) (core.Vec3, core.Vec3) {
	i := sort.SearchFloat64s(b.faceCDF[:], sample.X)
	i = min(i, len(b.faces)-1)

	lo := 0.0
	if i > 0 {
		lo = b.faceCDF[i-1]
	}
	x := 0.0
	if width := b.faceCDF[i] - lo; width > 0 {
		x = min((sample.X-lo)/width, 1)
	}
	return b.faces[i].SamplePosition(core.NewVec2(x, sample.Y))
}

// PDF returns the per-area density of SamplePosition
func (b *Box) PDF() float64 {
	return 1.0 / b.area
}
