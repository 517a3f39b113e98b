package geometry

import (
	"fmt"
	"math"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
)

// TriangleMesh represents a collection of triangles with efficient ray intersection
// It uses an internal BVH (Bounding Volume Hierarchy) for fast intersection tests
// and keeps an area CDF so it can be sampled uniformly by area.
type TriangleMesh struct {
	triangles []*Triangle
	bvh       *BVH
	bbox      core.AABB
	cdf       []float64 // running triangle areas, cdf[i] = sum of areas [0..i]
	area      float64
}

// TriangleMeshOptions contains optional transform parameters for mesh creation.
// They are applied in the order scale, rotation (around Center), offset.
type TriangleMeshOptions struct {
	Scale    float64    // Uniform scale, 0 means 1
	Rotation *core.Vec3 // Optional rotation in radians around X, Y, Z (in that order)
	Center   *core.Vec3 // Optional center point for rotation
	Offset   core.Vec3  // Translation applied last
}

// NewTriangleMesh creates a new triangle mesh from vertices and face indices
// vertices: array of 3D points
// faces: array of triangle indices (each group of 3 indices forms a triangle)
// options: optional parameters (can be nil for basic mesh)
func NewTriangleMesh(vertices []core.Vec3, faces []int, options *TriangleMeshOptions) (*TriangleMesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("face indices must be a multiple of 3, got %d", len(faces))
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("mesh has no faces")
	}

	workingVertices := vertices
	if options != nil {
		workingVertices = make([]core.Vec3, len(vertices))
		for i, vertex := range vertices {
			workingVertices[i] = options.apply(vertex)
		}
	}

	numTriangles := len(faces) / 3
	triangles := make([]*Triangle, 0, numTriangles)
	shapes := make([]Shape, 0, numTriangles)
	cdf := make([]float64, 0, numTriangles)
	total := 0.0

	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]
		if i0 >= len(workingVertices) || i1 >= len(workingVertices) || i2 >= len(workingVertices) ||
			i0 < 0 || i1 < 0 || i2 < 0 {
			return nil, fmt.Errorf("face %d references vertex out of range [0, %d)", i, len(workingVertices))
		}

		triangle := NewTriangle(workingVertices[i0], workingVertices[i1], workingVertices[i2])
		// Degenerate triangles can never be hit or sampled
		if triangle.Area() == 0 {
			continue
		}
		total += triangle.Area()
		triangles = append(triangles, triangle)
		shapes = append(shapes, triangle)
		cdf = append(cdf, total)
	}

	if len(triangles) == 0 {
		return nil, fmt.Errorf("mesh has zero surface area")
	}

	bbox := triangles[0].BoundingBox()
	for _, triangle := range triangles[1:] {
		bbox = bbox.Union(triangle.BoundingBox())
	}

	return &TriangleMesh{
		triangles: triangles,
		bvh:       NewBVH(shapes),
		bbox:      bbox,
		cdf:       cdf,
		area:      total,
	}, nil
}

// Hit tests if a ray intersects with any triangle in the mesh
func (tm *TriangleMesh) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	hit, isHit := tm.bvh.Hit(ray, tMin, tMax)
	if !isHit {
		return nil, false
	}
	hit.Shape = tm
	return hit, true
}

// BoundingBox returns the axis-aligned bounding box for the entire mesh
func (tm *TriangleMesh) BoundingBox() core.AABB {
	return tm.bbox
}

// Area returns the summed area of all triangles
func (tm *TriangleMesh) Area() float64 {
	return tm.area
}

// PDF returns the per-area density of SamplePosition
func (tm *TriangleMesh) PDF() float64 {
	return 1.0 / tm.area
}

// SamplePosition picks a triangle proportionally to its area, then a point
// uniformly inside it. The first sample coordinate is reused after the
// triangle choice by rescaling it back into [0, 1).
func (tm *TriangleMesh) SamplePosition(sample core.Vec2) (core.Vec3, core.Vec3) {
	target := sample.X * tm.area
	index := sort.SearchFloat64s(tm.cdf, target)
	if index >= len(tm.cdf) {
		index = len(tm.cdf) - 1
	}
	// SearchFloat64s returns the first cdf >= target; a sample landing exactly on
	// a boundary belongs to the next triangle
	for index < len(tm.cdf)-1 && tm.cdf[index] == target {
		index++
	}

	lower := 0.0
	if index > 0 {
		lower = tm.cdf[index-1]
	}
	triangleArea := tm.cdf[index] - lower
	reused := math.Min((target-lower)/triangleArea, math.Nextafter(1, 0))

	return tm.triangles[index].SamplePosition(core.NewVec2(reused, sample.Y))
}

// GetTriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) GetTriangleCount() int {
	return len(tm.triangles)
}

// GetTriangles returns the individual triangles
func (tm *TriangleMesh) GetTriangles() []*Triangle {
	return tm.triangles
}

func (o *TriangleMeshOptions) apply(vertex core.Vec3) core.Vec3 {
	if o.Scale != 0 {
		vertex = vertex.Multiply(o.Scale)
	}
	if o.Rotation != nil {
		if o.Center != nil {
			vertex = vertex.Subtract(*o.Center)
		}
		vertex = rotateVertex(vertex, *o.Rotation)
		if o.Center != nil {
			vertex = vertex.Add(*o.Center)
		}
	}
	return vertex.Add(o.Offset)
}

// rotateVertex applies rotation around X, Y, Z axes (in that order)
func rotateVertex(vertex, rotation core.Vec3) core.Vec3 {
	if rotation.X != 0 {
		cos := math.Cos(rotation.X)
		sin := math.Sin(rotation.X)
		y := vertex.Y*cos - vertex.Z*sin
		z := vertex.Y*sin + vertex.Z*cos
		vertex = core.NewVec3(vertex.X, y, z)
	}

	if rotation.Y != 0 {
		cos := math.Cos(rotation.Y)
		sin := math.Sin(rotation.Y)
		x := vertex.X*cos + vertex.Z*sin
		z := -vertex.X*sin + vertex.Z*cos
		vertex = core.NewVec3(x, vertex.Y, z)
	}

	if rotation.Z != 0 {
		cos := math.Cos(rotation.Z)
		sin := math.Sin(rotation.Z)
		x := vertex.X*cos - vertex.Y*sin
		y := vertex.X*sin + vertex.Y*cos
		vertex = core.NewVec3(x, y, vertex.Z)
	}

	return vertex
}
