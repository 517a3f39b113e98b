package loaders

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ErrUnsupportedFormat is returned for mesh files whose extension has no reader
var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// MeshData contains the triangle data read from a mesh file
type MeshData struct {
	Vertices []core.Vec3 // Vertex positions
	Faces    []int       // Triangle indices (3 per triangle), 0-based
}

// TriangleCount returns the number of triangles
func (d *MeshData) TriangleCount() int {
	return len(d.Faces) / 3
}

// addPolygon fan-triangulates a polygon around its first vertex
func (d *MeshData) addPolygon(indices []int) {
	for i := 1; i+1 < len(indices); i++ {
		d.Faces = append(d.Faces, indices[0], indices[i], indices[i+1])
	}
}

// LoadMesh reads a mesh file, choosing the reader by extension (.obj or .ply)
func LoadMesh(filename string) (*MeshData, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".obj":
		return LoadOBJ(filename)
	case ".ply":
		return LoadPLY(filename)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
