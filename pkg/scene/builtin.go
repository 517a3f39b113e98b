package scene

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/lights"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ErrUnknownScene is returned by Create for names with no registered builder
var ErrUnknownScene = errors.New("unknown scene")

// Options tune built-in scene construction
type Options struct {
	MeshPath string // OBJ or PLY file for the "mesh" scene; a built-in mesh is used when empty
}

type builder struct {
	description string
	build       func(Options) (*Scene, error)
}

var builtins = map[string]builder{
	"cornell":   {"Cornell box with a mirror and a glass sphere", func(Options) (*Scene, error) { return NewCornellScene(), nil }},
	"lit-plane": {"Diffuse plane under a single square area light", func(Options) (*Scene, error) { return NewLitPlaneScene(1, 5), nil }},
	"mirror":    {"Mirror sphere reflecting an area light", func(Options) (*Scene, error) { return NewMirrorScene(), nil }},
	"glass":     {"Glass sphere casting a caustic onto the floor", func(Options) (*Scene, error) { return NewGlassScene(), nil }},
	"sky":       {"Spheres under a gradient sky and a small sun", func(Options) (*Scene, error) { return NewSkyScene(), nil }},
	"mesh":      {"Triangle mesh lit by an area light", newMeshSceneFromOptions},
}

// Names returns the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns a one-line description of a built-in scene
func Describe(name string) string {
	return builtins[name].description
}

// Create builds and preprocesses a built-in scene
func Create(name string, opts Options) (*Scene, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
	}
	s, err := b.build(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build scene %q: %w", name, err)
	}
	s.Name = name
	if err := s.Preprocess(); err != nil {
		return nil, fmt.Errorf("failed to preprocess scene %q: %w", name, err)
	}
	return s, nil
}

// NewCornellScene creates a classic Cornell box scene with quad walls and area lighting.
// Every wall's normal faces into the box.
func NewCornellScene() *Scene {
	s := NewScene("cornell")
	s.CameraConfig = CameraConfig{
		Center:      core.NewVec3(278, 278, -800),
		LookAt:      core.NewVec3(278, 278, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 1,
	}
	s.SamplingConfig = SamplingConfig{Width: 400, Height: 400, SamplesPerPixel: 64}

	white := material.NewDiffuse(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewDiffuse(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewDiffuse(core.NewVec3(0.12, 0.45, 0.15))

	boxSize := 555.0
	x := core.NewVec3(boxSize, 0, 0)
	y := core.NewVec3(0, boxSize, 0)
	z := core.NewVec3(0, 0, boxSize)

	s.AddObject(&Object{Name: "floor", Shape: geometry.NewQuad(core.Vec3{}, z, x), Material: white})
	s.AddObject(&Object{Name: "ceiling", Shape: geometry.NewQuad(y, x, z), Material: white})
	s.AddObject(&Object{Name: "back", Shape: geometry.NewQuad(z, y, x), Material: white})
	// Seen from the camera, +X is on the left
	s.AddObject(&Object{Name: "green-wall", Shape: geometry.NewQuad(core.Vec3{}, y, z), Material: green})
	s.AddObject(&Object{Name: "red-wall", Shape: geometry.NewQuad(x, z, y), Material: red})

	// Ceiling light, slightly below the ceiling and facing down
	lightSize := 130.0
	lightOffset := (boxSize - lightSize) / 2.0
	s.AddAreaLight("light",
		geometry.NewQuad(
			core.NewVec3(lightOffset, boxSize-1, lightOffset),
			core.NewVec3(lightSize, 0, 0),
			core.NewVec3(0, 0, lightSize),
		),
		core.NewVec3(15, 15, 15),
		nil,
	)

	// Tall box at the back, turned towards the camera
	s.AddObject(&Object{
		Name:     "tall-box",
		Shape:    geometry.NewBox(core.NewVec3(368, 165, 351), core.NewVec3(82.5, 165, 82.5), core.NewVec3(0, 15*math.Pi/180, 0)),
		Material: white,
	})
	s.AddObject(&Object{
		Name:     "mirror-sphere",
		Shape:    geometry.NewSphere(core.NewVec3(185, 82.5, 169), 82.5),
		Material: material.NewMirror(core.NewVec3(0.9, 0.9, 0.9)),
	})
	s.AddObject(&Object{
		Name:     "glass-sphere",
		Shape:    geometry.NewSphere(core.NewVec3(370, 90, 150), 90),
		Material: material.NewDielectric(1.5, 1.0),
	})

	return s
}

// NewLitPlaneScene creates a 4x4 diffuse plane at y=0 under a unit square
// light at the given height, centered above the origin and facing down.
// Its direct illumination has a closed form, which makes it a reference scene.
func NewLitPlaneScene(height, radiance float64) *Scene {
	s := NewScene("lit-plane")
	s.CameraConfig = CameraConfig{
		Center:      core.NewVec3(0, 2.5, 3),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        45,
		AspectRatio: 1,
	}
	s.SamplingConfig = SamplingConfig{Width: 256, Height: 256, SamplesPerPixel: 32}

	s.AddObject(&Object{
		Name:     "plane",
		Shape:    NewGroundQuad(core.Vec3{}, 4),
		Material: material.NewDiffuse(core.NewColor(0.5)),
	})
	s.AddAreaLight("light", newCeilingQuad(core.NewVec3(0, height, 0), 1),
		core.NewColor(radiance), material.NewDiffuse(core.Vec3{}))

	return s
}

// NewMirrorScene creates a mirror sphere on a diffuse floor,
// showing the light only through discrete bounces
func NewMirrorScene() *Scene {
	s := NewScene("mirror")
	s.CameraConfig = CameraConfig{
		Center:      core.NewVec3(0, 1.2, 4),
		LookAt:      core.NewVec3(0, 0.8, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 16.0 / 9.0,
	}
	s.SamplingConfig = SamplingConfig{Width: 400, Height: 225, SamplesPerPixel: 32}

	s.AddObject(&Object{
		Name:     "floor",
		Shape:    NewGroundQuad(core.Vec3{}, 20),
		Material: material.NewDiffuse(core.NewVec3(0.6, 0.6, 0.6)),
	})
	s.AddObject(&Object{
		Name:     "mirror-sphere",
		Shape:    geometry.NewSphere(core.NewVec3(0, 0.8, 0), 0.8),
		Material: material.NewMirror(core.NewVec3(0.95, 0.95, 0.95)),
	})
	s.AddObject(&Object{
		Name:     "red-sphere",
		Shape:    geometry.NewSphere(core.NewVec3(-1.6, 0.4, 0.6), 0.4),
		Material: material.NewDiffuse(core.NewVec3(0.7, 0.15, 0.1)),
	})
	s.AddAreaLight("light", newCeilingQuad(core.NewVec3(0.5, 3, 1), 1.5), core.NewColor(8), nil)

	return s
}

// NewGlassScene creates a glass sphere above a floor so refracted light
// focuses into a caustic
func NewGlassScene() *Scene {
	s := NewScene("glass")
	s.CameraConfig = CameraConfig{
		Center:      core.NewVec3(0, 1.5, 4),
		LookAt:      core.NewVec3(0, 0.6, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 16.0 / 9.0,
	}
	s.SamplingConfig = SamplingConfig{Width: 400, Height: 225, SamplesPerPixel: 64}

	s.AddObject(&Object{
		Name:     "floor",
		Shape:    NewGroundQuad(core.Vec3{}, 20),
		Material: material.NewDiffuse(core.NewVec3(0.75, 0.75, 0.75)),
	})
	s.AddObject(&Object{
		Name:     "glass-sphere",
		Shape:    geometry.NewSphere(core.NewVec3(0, 0.8, 0), 0.6),
		Material: material.NewDielectric(1.5, 1.0),
	})
	s.AddAreaLight("light", newCeilingQuad(core.NewVec3(0, 4, 0), 1), core.NewColor(20), nil)

	return s
}

// NewSkyScene creates diffuse spheres on a ground plane under a gradient sky,
// with a small overhead light for next-event estimation
func NewSkyScene() *Scene {
	s := NewScene("sky")
	s.CameraConfig = CameraConfig{
		Center:      core.NewVec3(0, 0.75, 3),
		LookAt:      core.NewVec3(0, 0.5, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 16.0 / 9.0,
	}
	s.SamplingConfig = SamplingConfig{Width: 400, Height: 225, SamplesPerPixel: 32}
	s.SetBackground(lights.NewGradientBackground(core.NewVec3(0.5, 0.7, 1.0), core.NewVec3(1, 1, 1)))

	s.AddObject(&Object{
		Name:     "ground",
		Shape:    NewGroundQuad(core.Vec3{}, 40),
		Material: material.NewDiffuse(core.NewVec3(0.8, 0.8, 0.0).Multiply(0.6)),
	})
	s.AddObject(&Object{
		Name:     "center",
		Shape:    geometry.NewSphere(core.NewVec3(0, 0.5, 0), 0.5),
		Material: material.NewDiffuse(core.NewVec3(0.1, 0.2, 0.5)),
	})
	s.AddObject(&Object{
		Name:     "left",
		Shape:    geometry.NewSphere(core.NewVec3(-1.1, 0.5, 0), 0.5),
		Material: material.NewDielectric(1.5, 1.0),
	})
	s.AddObject(&Object{
		Name:     "right",
		Shape:    geometry.NewSphere(core.NewVec3(1.1, 0.5, 0), 0.5),
		Material: material.NewMirror(core.NewVec3(0.8, 0.6, 0.2)),
	})
	s.AddAreaLight("sun", geometry.NewDisc(core.NewVec3(2, 6, 2), core.NewVec3(-2, -6, -2), 0.3), core.NewVec3(40, 38, 32), nil)

	return s
}

// tetrahedronOBJ is the mesh used by the "mesh" scene when no file is given
const tetrahedronOBJ = `# regular tetrahedron, counter-clockwise faces seen from outside
v 1 1 1
v -1 -1 1
v -1 1 -1
v 1 -1 -1
f 1 2 4
f 1 3 2
f 1 4 3
f 2 3 4
`

func newMeshSceneFromOptions(opts Options) (*Scene, error) {
	var data *loaders.MeshData
	var err error
	if opts.MeshPath != "" {
		data, err = loaders.LoadMesh(opts.MeshPath)
	} else {
		data, err = loaders.ParseOBJ(strings.NewReader(tetrahedronOBJ))
	}
	if err != nil {
		return nil, err
	}
	return NewMeshScene(data)
}

// NewMeshScene places a mesh, scaled to fit a unit sphere, on a ground plane
func NewMeshScene(data *loaders.MeshData) (*Scene, error) {
	bounds := core.NewAABBFromPoints(data.Vertices...)
	extent := bounds.Size()
	scale := 1.0
	if m := extent.MaxComponent(); m > 0 {
		scale = 2.0 / m
	}
	center := core.NewVec3(0, 1, 0)

	mesh, err := geometry.NewTriangleMesh(data.Vertices, data.Faces, &geometry.TriangleMeshOptions{
		Scale:  scale,
		Offset: center.Subtract(bounds.Center().Multiply(scale)),
	})
	if err != nil {
		return nil, err
	}

	s := NewScene("mesh")
	s.CameraConfig = CameraConfig{
		Center:      core.NewVec3(0, 2, 5),
		LookAt:      center,
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 16.0 / 9.0,
	}
	s.SamplingConfig = SamplingConfig{Width: 400, Height: 225, SamplesPerPixel: 32}

	s.AddObject(&Object{
		Name:     "ground",
		Shape:    NewGroundQuad(core.Vec3{}, 20),
		Material: material.NewDiffuse(core.NewColor(0.7)),
	})
	s.AddObject(&Object{
		Name:     "mesh",
		Shape:    mesh,
		Material: material.NewDiffuse(core.NewVec3(0.8, 0.3, 0.2)),
	})
	s.AddAreaLight("light", newCeilingQuad(core.NewVec3(0, 5, 1), 2), core.NewColor(10), nil)

	return s, nil
}

// newCeilingQuad creates a square of the given size centered at center with normal -Y
func newCeilingQuad(center core.Vec3, size float64) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u × v = (size,0,0) × (0,0,size) = (0,-size²,0)
	return geometry.NewQuad(corner, core.NewVec3(size, 0, 0), core.NewVec3(0, 0, size))
}
