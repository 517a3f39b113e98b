package server

import (
	"fmt"
	"net/http"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	Object       string                 `json:"object,omitempty"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Emitter      bool                   `json:"emitter"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// handleInspect reports what the camera sees through the center of a pixel
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sceneName := query.Get("scene")
	if sceneName == "" {
		sceneName = "cornell"
	}

	sceneObj, err := s.createScene(sceneName)
	if err != nil {
		writeError(w, err)
		return
	}

	width, err := parseIntParam(query, "width", sceneObj.SamplingConfig.Width, 1, 2000)
	if err != nil {
		writeError(w, err)
		return
	}
	height, err := parseIntParam(query, "height", sceneObj.SamplingConfig.Height, 1, 2000)
	if err != nil {
		writeError(w, err)
		return
	}
	if query.Get("x") == "" || query.Get("y") == "" {
		writeError(w, &requestError{fmt.Errorf("x and y are required")})
		return
	}
	x, err := parseIntParam(query, "x", 0, 0, width-1)
	if err != nil {
		writeError(w, err)
		return
	}
	y, err := parseIntParam(query, "y", 0, 0, height-1)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(sceneObj, width, height, x, y))
}

// inspectPixel casts a ray through the center of pixel (x, y) and describes
// the first object hit
func inspectPixel(sceneObj *scene.Scene, width, height, x, y int) InspectResponse {
	camera := renderer.NewCamera(sceneObj.CameraConfig, width, height)
	ray := camera.GetRayAt((float64(x)+0.5)/float64(width), 1-(float64(y)+0.5)/float64(height))

	it := sceneObj.Intersect(ray)
	if !it.IsHit() {
		return InspectResponse{Hit: false}
	}

	materialType, properties := extractMaterialInfo(it.Object.Material)
	if it.Object.IsEmitter() {
		radiance := it.Object.Emitter.Color()
		properties["radiance"] = vecToArray(radiance)
	}

	return InspectResponse{
		Hit:          true,
		Object:       it.Object.Name,
		MaterialType: materialType,
		GeometryType: geometryType(it.Object.Shape),
		Emitter:      it.Object.IsEmitter(),
		Point:        vecToArray(it.Point),
		Normal:       vecToArray(it.Normal),
		Distance:     it.T,
		FrontFace:    it.FrontFace,
		Properties:   properties,
	}
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Diffuse:
		properties["albedo"] = vecToArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		return "diffuse", properties

	case *material.Mirror:
		properties["albedo"] = vecToArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		return "mirror", properties

	case *material.Dielectric:
		properties["intIOR"] = m.IntIOR
		properties["extIOR"] = m.ExtIOR
		properties["color"] = "#ffffff" // Clear glass
		return "dielectric", properties

	default:
		return "unknown", properties
	}
}

func geometryType(shape geometry.Shape) string {
	switch shape.(type) {
	case *geometry.Quad:
		return "quad"
	case *geometry.Sphere:
		return "sphere"
	case *geometry.Triangle:
		return "triangle"
	case *geometry.TriangleMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

func vecToArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}
