package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/lights"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// SceneFactory builds a preprocessed scene by name
type SceneFactory func(name string) (*scene.Scene, error)

// Server handles web requests for the path tracer
type Server struct {
	port        int
	createScene SceneFactory
	integrators *integrator.Registry
}

// NewServer creates a new web server serving the built-in scenes
func NewServer(port int) *Server {
	return NewServerWithScenes(port, func(name string) (*scene.Scene, error) {
		return scene.Create(name, scene.Options{})
	})
}

// NewServerWithScenes creates a web server that builds scenes with factory
func NewServerWithScenes(port int, factory SceneFactory) *Server {
	return &Server{
		port:        port,
		createScene: factory,
		integrators: integrator.DefaultRegistry(),
	}
}

// SceneInfo describes a built-in scene
type SceneInfo struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	SamplesPerPixel int    `json:"samplesPerPixel"`
}

// Handler returns the HTTP handler with every endpoint registered
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/integrators", s.handleIntegrators)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes with their recommended settings
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	var scenes []SceneInfo
	for _, name := range scene.Names() {
		info := SceneInfo{Name: name, Description: scene.Describe(name)}
		if sc, err := s.createScene(name); err == nil {
			info.Width = sc.SamplingConfig.Width
			info.Height = sc.SamplingConfig.Height
			info.SamplesPerPixel = sc.SamplingConfig.SamplesPerPixel
		}
		scenes = append(scenes, info)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"scenes": scenes})
}

// handleIntegrators lists the registered integrators and their defaults
func (s *Server) handleIntegrators(w http.ResponseWriter, r *http.Request) {
	defaults := integrator.DefaultConfig()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"integrators": s.integrators.Names(),
		"defaults": map[string]interface{}{
			"russianRouletteSurvival": defaults.RussianRouletteSurvival,
			"russianRouletteMinDepth": defaults.RussianRouletteMinDepth,
			"maxDepth":                defaults.MaxDepth,
			"etaMin":                  defaults.EtaMin,
			"etaMax":                  defaults.EtaMax,
		},
	})
}

// requestError marks a malformed request parameter
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

// statusForError maps render errors onto HTTP status codes
func statusForError(err error) int {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr),
		errors.Is(err, scene.ErrUnknownScene),
		errors.Is(err, integrator.ErrUnknownIntegrator):
		return http.StatusBadRequest
	case errors.Is(err, integrator.ErrNoEmitters),
		errors.Is(err, lights.ErrUnsupportedEmitter):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as a JSON error body with the matching status
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, &requestError{fmt.Errorf("invalid %s: %s", key, value)}
		}
		if parsed < min || parsed > max {
			return 0, &requestError{fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)}
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, &requestError{fmt.Errorf("invalid %s: %s", key, value)}
		}
		if parsed < min || parsed > max {
			return 0, &requestError{fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)}
		}
		return parsed, nil
	}
	return defaultValue, nil
}
