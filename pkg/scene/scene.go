package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/lights"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ErrNotPreprocessed is returned by queries made before Preprocess
var ErrNotPreprocessed = errors.New("scene has not been preprocessed")

// Object binds a piece of geometry to its material and, optionally, an emitter
type Object struct {
	Name     string
	Shape    geometry.Surface
	Material material.Material
	Emitter  lights.Emitter // nil unless the surface emits light
}

// IsEmitter reports whether the object emits light
func (o *Object) IsEmitter() bool {
	return o.Emitter != nil
}

// Scene contains all the elements needed for rendering. It is built
// single-threaded, then Preprocess freezes it for concurrent read-only queries.
type Scene struct {
	Name           string
	CameraConfig   CameraConfig
	SamplingConfig SamplingConfig

	objects    []*Object
	emitters   []lights.Emitter
	background lights.Background
	bvh        *geometry.BVH
	byShape    map[geometry.Shape]*Object
}

// CameraConfig describes a pinhole camera placement
type CameraConfig struct {
	Center      core.Vec3 // Camera position
	LookAt      core.Vec3 // Point the camera looks at
	Up          core.Vec3 // Up direction
	VFov        float64   // Vertical field of view in degrees
	AspectRatio float64   // Width / height
}

// SamplingConfig contains the scene's preferred rendering settings
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Number of camera rays per pixel
}

// NewScene creates an empty scene
func NewScene(name string) *Scene {
	return &Scene{
		Name:    name,
		byShape: make(map[geometry.Shape]*Object),
		CameraConfig: CameraConfig{
			Center:      core.NewVec3(0, 0, 1),
			LookAt:      core.NewVec3(0, 0, 0),
			Up:          core.NewVec3(0, 1, 0),
			VFov:        40,
			AspectRatio: 1,
		},
		SamplingConfig: SamplingConfig{Width: 256, Height: 256, SamplesPerPixel: 16},
	}
}

// AddObject adds an object to the scene. Objects without a material get a
// neutral grey diffuse one. An object carrying an emitter is also registered
// as a light source.
func (s *Scene) AddObject(obj *Object) {
	if obj.Material == nil {
		obj.Material = material.NewDiffuse(core.NewColor(0.5))
	}
	s.objects = append(s.objects, obj)
	if obj.Emitter != nil {
		s.emitters = append(s.emitters, obj.Emitter)
	}
	s.bvh = nil
}

// AddAreaLight adds a surface emitting constant radiance from its front face
func (s *Scene) AddAreaLight(name string, shape geometry.Surface, radiance core.Vec3, mat material.Material) *Object {
	obj := &Object{
		Name:     name,
		Shape:    shape,
		Material: mat,
		Emitter:  lights.NewAreaLight(shape, radiance),
	}
	s.AddObject(obj)
	return obj
}

// SetBackground sets the emitter seen by rays leaving the scene
func (s *Scene) SetBackground(bg lights.Background) {
	s.background = bg
}

// Preprocess builds the acceleration structure. It must be called after the
// last AddObject and before any query.
func (s *Scene) Preprocess() error {
	shapes := make([]geometry.Shape, 0, len(s.objects))
	byShape := make(map[geometry.Shape]*Object, len(s.objects))
	for i, obj := range s.objects {
		if obj.Shape == nil {
			return fmt.Errorf("object %d (%q) has no shape", i, obj.Name)
		}
		if _, dup := byShape[obj.Shape]; dup {
			return fmt.Errorf("object %d (%q) shares its shape with another object", i, obj.Name)
		}
		byShape[obj.Shape] = obj
		shapes = append(shapes, obj.Shape)
	}
	s.byShape = byShape
	s.bvh = geometry.NewBVH(shapes)
	return nil
}

// Intersect finds the closest hit along the ray within its [TMin, TMax]
// interval. A miss is reported with T = +Inf.
func (s *Scene) Intersect(ray core.Ray) Intersection {
	if s.bvh == nil {
		panic(ErrNotPreprocessed)
	}
	hit, ok := s.bvh.Hit(ray, ray.TMin, ray.TMax)
	if !ok {
		return missed()
	}
	obj := s.byShape[hit.Shape]
	return Intersection{
		T:         hit.T,
		Point:     hit.Point,
		Normal:    hit.Normal,
		Frame:     core.NewFrame(hit.Normal),
		FrontFace: hit.FrontFace,
		Object:    obj,
	}
}

// Occluded reports whether anything blocks the ray within its interval
func (s *Scene) Occluded(ray core.Ray) bool {
	if s.bvh == nil {
		panic(ErrNotPreprocessed)
	}
	_, ok := s.bvh.Hit(ray, ray.TMin, ray.TMax)
	return ok
}

// Transmittance returns the fraction of radiance surviving along the ray
// segment. The scene holds no participating media so this is always white.
func (s *Scene) Transmittance(ray core.Ray, sampler core.Sampler) core.Vec3 {
	return core.NewColor(1)
}

// EmitterCount returns the number of surface emitters
func (s *Scene) EmitterCount() int {
	return len(s.emitters)
}

// Emitters returns the surface emitters in insertion order
func (s *Scene) Emitters() []lights.Emitter {
	return s.emitters
}

// HasBackground reports whether rays leaving the scene pick up radiance
func (s *Scene) HasBackground() bool {
	return s.background != nil
}

// Background returns the environment emitter, or nil
func (s *Scene) Background() lights.Background {
	return s.background
}

// Objects returns the scene objects in insertion order
func (s *Scene) Objects() []*Object {
	return s.objects
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, obj := range s.objects {
		switch shape := obj.Shape.(type) {
		case *geometry.TriangleMesh:
			count += shape.GetTriangleCount()
		default:
			count++
		}
	}
	return count
}

// BoundingRadius returns the radius of the sphere enclosing the scene
func (s *Scene) BoundingRadius() float64 {
	if s.bvh == nil {
		return 0
	}
	return s.bvh.Radius
}

// NewGroundQuad creates a horizontal quad centered at the given point with normal +Y
func NewGroundQuad(center core.Vec3, size float64) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u × v = (0,0,size) × (size,0,0) = (0,size²,0)
	u := core.NewVec3(0, 0, size)
	v := core.NewVec3(size, 0, 0)
	return geometry.NewQuad(corner, u, v)
}
