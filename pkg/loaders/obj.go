package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

// LoadOBJ loads an OBJ file and returns its vertex and face data
func LoadOBJ(filename string) (*MeshData, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	data, err := ParseOBJ(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OBJ file %s: %w", filename, err)
	}

	fmt.Printf("Loaded OBJ data: %d vertices, %d triangles in %v\n",
		len(data.Vertices), data.TriangleCount(), time.Since(startTime))

	return data, nil
}

// ParseOBJ reads vertex positions and faces from OBJ text. Polygons are
// fan-triangulated; texture and normal references are accepted and ignored,
// as are all other record types.
func ParseOBJ(r io.Reader) (*MeshData, error) {
	data := &MeshData{}
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := parseVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			data.Vertices = append(data.Vertices, v)
		case "f":
			indices, err := parseFace(fields[1:], len(data.Vertices))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			data.addPolygon(indices)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read OBJ data: %w", err)
	}

	return data, nil
}

func parseVertex(fields []string) (core.Vec3, error) {
	if len(fields) < 3 {
		return core.Vec3{}, fmt.Errorf("vertex needs 3 coordinates, got %d", len(fields))
	}
	var coords [3]float64
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid vertex coordinate %q: %w", fields[i], err)
		}
		coords[i] = f
	}
	return core.NewVec3(coords[0], coords[1], coords[2]), nil
}

// parseFace resolves the position index of each "v", "v/vt", "v//vn" or
// "v/vt/vn" reference. Negative indices count back from the latest vertex.
func parseFace(fields []string, vertexCount int) ([]int, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("face needs at least 3 vertices, got %d", len(fields))
	}
	indices := make([]int, len(fields))
	for i, field := range fields {
		ref := field
		if slash := strings.IndexByte(field, '/'); slash >= 0 {
			ref = field[:slash]
		}
		idx, err := strconv.Atoi(ref)
		if err != nil {
			return nil, fmt.Errorf("invalid face index %q: %w", field, err)
		}
		switch {
		case idx > 0:
			idx--
		case idx < 0:
			idx += vertexCount
		default:
			return nil, fmt.Errorf("face index 0 is not valid")
		}
		if idx < 0 || idx >= vertexCount {
			return nil, fmt.Errorf("face index %q out of range (%d vertices)", field, vertexCount)
		}
		indices[i] = idx
	}
	return indices, nil
}
