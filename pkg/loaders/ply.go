package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

// PLYHeader represents the parsed header of a PLY file
type PLYHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version  string // Usually "1.0"
	Elements []PLYElement
}

// PLYElement is one element block declared in the header, in file order
type PLYElement struct {
	Name  string
	Count int
	Props []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// LoadPLY loads a PLY file and returns its vertex positions and triangles
func LoadPLY(filename string) (*MeshData, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ParsePLY(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY file %s: %w", filename, err)
	}

	fmt.Printf("Loaded PLY data: %d vertices, %d triangles in %v\n",
		len(data.Vertices), data.TriangleCount(), time.Since(startTime))

	return data, nil
}

// ParsePLY reads an ascii or binary PLY stream. Only vertex positions and
// the face vertex index lists are kept; polygons are fan-triangulated and
// every other property or element is skipped.
func ParsePLY(r io.Reader) (*MeshData, error) {
	br := bufio.NewReader(r)

	header, err := parsePLYHeader(br)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		scanner := bufio.NewScanner(br)
		scanner.Split(bufio.ScanWords)
		values = &asciiValueReader{scanner: scanner}
	case "binary_little_endian":
		values = &binaryValueReader{r: br, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValueReader{r: br, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("unsupported PLY format: %q", header.Format)
	}

	data := &MeshData{}
	for _, element := range header.Elements {
		for i := 0; i < element.Count; i++ {
			var err error
			switch element.Name {
			case "vertex":
				err = readPLYVertex(values, element.Props, data)
			case "face":
				err = readPLYFace(values, element.Props, data)
			default:
				err = skipPLYProperties(values, element.Props)
			}
			if err != nil {
				return nil, fmt.Errorf("%s %d: %w", element.Name, i, err)
			}
		}
	}

	for i, idx := range data.Faces {
		if idx < 0 || idx >= len(data.Vertices) {
			return nil, fmt.Errorf("face %d: index %d out of range (%d vertices)", i/3, idx, len(data.Vertices))
		}
	}

	return data, nil
}

// parsePLYHeader reads header lines up to and including end_header, leaving
// the reader at the first byte of element data
func parsePLYHeader(r *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	first := true

	for {
		raw, err := r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("header ended before end_header: %w", err)
		}
		line := strings.TrimSpace(raw)

		if first {
			if line != "ply" {
				return nil, fmt.Errorf("missing ply magic, got %q", line)
			}
			first = false
			continue
		}
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid format line %q", line)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line %q", line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("property before any element: %q", line)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			current := &header.Elements[len(header.Elements)-1]
			current.Props = append(current.Props, prop)
		default:
			return nil, fmt.Errorf("unknown header line %q", line)
		}
	}

	for _, element := range header.Elements {
		if element.Name != "vertex" {
			continue
		}
		found := 0
		for _, prop := range element.Props {
			if !prop.IsList && (prop.Name == "x" || prop.Name == "y" || prop.Name == "z") {
				found++
			}
		}
		if found != 3 {
			return nil, fmt.Errorf("vertex element needs x, y and z properties")
		}
	}

	return header, nil
}

// parsePLYProperty parses the words after "property" in a header line
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition %q", strings.Join(parts, " "))
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition %q", strings.Join(parts, " "))
		}
		prop := PLYProperty{IsList: true, ListType: parts[1], DataType: parts[2], Name: parts[3]}
		if plyTypeSize(prop.ListType) == 0 || plyTypeSize(prop.DataType) == 0 {
			return PLYProperty{}, fmt.Errorf("unsupported list types %s %s", prop.ListType, prop.DataType)
		}
		return prop, nil
	}

	if plyTypeSize(parts[0]) == 0 {
		return PLYProperty{}, fmt.Errorf("unsupported data type: %s", parts[0])
	}
	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

// plyTypeSize returns the size in bytes of a PLY scalar type, or 0 if unknown
func plyTypeSize(dataType string) int {
	switch dataType {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}

func readPLYVertex(values plyValueReader, props []PLYProperty, data *MeshData) error {
	var x, y, z float64
	for _, prop := range props {
		if prop.IsList {
			if _, err := readPLYList(values, prop); err != nil {
				return err
			}
			continue
		}
		v, err := values.readScalar(prop.Type)
		if err != nil {
			return fmt.Errorf("property %s: %w", prop.Name, err)
		}
		switch prop.Name {
		case "x":
			x = v
		case "y":
			y = v
		case "z":
			z = v
		}
	}
	data.Vertices = append(data.Vertices, core.NewVec3(x, y, z))
	return nil
}

func readPLYFace(values plyValueReader, props []PLYProperty, data *MeshData) error {
	for _, prop := range props {
		if !prop.IsList {
			if _, err := values.readScalar(prop.Type); err != nil {
				return fmt.Errorf("property %s: %w", prop.Name, err)
			}
			continue
		}
		list, err := readPLYList(values, prop)
		if err != nil {
			return fmt.Errorf("property %s: %w", prop.Name, err)
		}
		if prop.Name != "vertex_indices" && prop.Name != "vertex_index" {
			continue
		}
		if len(list) < 3 {
			return fmt.Errorf("face needs at least 3 vertices, got %d", len(list))
		}
		indices := make([]int, len(list))
		for i, v := range list {
			indices[i] = int(v)
		}
		data.addPolygon(indices)
	}
	return nil
}

func skipPLYProperties(values plyValueReader, props []PLYProperty) error {
	for _, prop := range props {
		var err error
		if prop.IsList {
			_, err = readPLYList(values, prop)
		} else {
			_, err = values.readScalar(prop.Type)
		}
		if err != nil {
			return fmt.Errorf("property %s: %w", prop.Name, err)
		}
	}
	return nil
}

func readPLYList(values plyValueReader, prop PLYProperty) ([]float64, error) {
	count, err := values.readScalar(prop.ListType)
	if err != nil {
		return nil, err
	}
	if count < 0 || count != math.Trunc(count) {
		return nil, fmt.Errorf("invalid list length %v", count)
	}
	list := make([]float64, int(count))
	for i := range list {
		if list[i], err = values.readScalar(prop.DataType); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// plyValueReader decodes one scalar of the named PLY type
type plyValueReader interface {
	readScalar(dataType string) (float64, error)
}

type asciiValueReader struct {
	scanner *bufio.Scanner
}

func (a *asciiValueReader) readScalar(dataType string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	word := a.scanner.Text()
	v, err := strconv.ParseFloat(word, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", dataType, word)
	}
	return v, nil
}

type binaryValueReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *binaryValueReader) readScalar(dataType string) (float64, error) {
	size := plyTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
	raw := b.buf[:size]
	if _, err := io.ReadFull(b.r, raw); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(raw[0])), nil
	case "uchar", "uint8":
		return float64(raw[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(raw))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(raw)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(raw))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(raw)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(raw))), nil
	default:
		return math.Float64frombits(b.order.Uint64(raw)), nil
	}
}
