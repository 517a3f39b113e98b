package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// DefaultTileSize is the tile size used for web renders
const DefaultTileSize = 32

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene           string  // Scene name (e.g., "cornell")
	Integrator      string  // Integrator name (e.g., "path")
	Width           int     // Image width, 0 for the scene default
	Height          int     // Image height, 0 for the scene default
	SamplesPerPixel int     // Samples per pixel, 0 for the scene default
	Passes          int     // Number of progressive passes
	Seed            int64   // Base random seed
	Survival        float64 // Russian roulette survival probability
	MaxDepth        int     // Maximum surface hits per path, 0 for none
}

// ProgressUpdate represents a single progressive update sent via SSE
type ProgressUpdate struct {
	PassNumber  int    `json:"passNumber"`
	TotalPasses int    `json:"totalPasses"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG
	Stats       Stats  `json:"stats"`
	IsComplete  bool   `json:"isComplete"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int64   `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	MaxSamples     int     `json:"maxSamples"`
	MinSamples     int     `json:"minSamples"`
	MaxSamplesUsed int     `json:"maxSamplesUsed"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string // "console", "progress", "error", "complete"
	Data string // JSON-encoded data or plain text
}

// RenderingPipeline contains the configured scene, integrator and renderer
type RenderingPipeline struct {
	Scene      *scene.Scene
	Integrator integrator.Integrator
	Renderer   *renderer.Renderer
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	defaults := integrator.DefaultConfig()

	req := &RenderRequest{Scene: "cornell", Integrator: "path"}
	if name := query.Get("scene"); name != "" {
		req.Scene = name
	}
	if name := query.Get("integrator"); name != "" {
		req.Integrator = name
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 1, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, 1, 2000); err != nil {
		return nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(query, "spp", 0, 1, 10000); err != nil {
		return nil, err
	}
	if req.Passes, err = parseIntParam(query, "passes", 1, 1, 100); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", defaults.MaxDepth, 0, 1000); err != nil {
		return nil, err
	}
	if req.Survival, err = parseFloatParam(query, "rr", defaults.RussianRouletteSurvival, 0.01, 1); err != nil {
		return nil, err
	}
	req.Seed = 42
	if value := query.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, &requestError{fmt.Errorf("invalid seed: %s", value)}
		}
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.SamplesPerPixel > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// setupRenderingPipeline creates the scene, integrator and renderer for a
// request. onPass may be nil.
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger, onPass func(int, *image.RGBA, renderer.RenderStats)) (*RenderingPipeline, error) {
	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		return nil, err
	}

	integratorConfig := integrator.DefaultConfig()
	integratorConfig.RussianRouletteSurvival = req.Survival
	integratorConfig.MaxDepth = req.MaxDepth
	integratorConfig.Logger = logger
	integ, err := s.integrators.New(req.Integrator, integratorConfig)
	if err != nil {
		return nil, err
	}

	config := renderer.ConfigForScene(sceneObj)
	if req.Width > 0 {
		config.Width = req.Width
	}
	if req.Height > 0 {
		config.Height = req.Height
	}
	if req.SamplesPerPixel > 0 {
		config.SamplesPerPixel = req.SamplesPerPixel
	}
	config.TileSize = DefaultTileSize
	config.Passes = req.Passes
	config.Seed = req.Seed
	config.OnPass = onPass

	r, err := renderer.NewRenderer(sceneObj, integ, config, logger)
	if err != nil {
		return nil, &requestError{err}
	}
	return &RenderingPipeline{Scene: sceneObj, Integrator: integ, Renderer: r}, nil
}

// handleRender renders the requested scene and responds with a PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	logger := NewWebLogger(fmt.Sprintf("render-%d", time.Now().UnixNano()), nil)
	pipeline, err := s.setupRenderingPipeline(req, logger, nil)
	if err != nil {
		writeError(w, err)
		return
	}

	img, stats, err := pipeline.Renderer.Render(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			log.Printf("Render cancelled by client: %v", err)
			return
		}
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		writeError(w, fmt.Errorf("failed to encode image: %w", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	w.Header().Set("X-Render-Duration-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("Failed to write image: %v", err)
	}
}

// handleRenderStream renders progressively, streaming each pass and the
// render log via Server-Sent Events
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx := r.Context()
	consoleChan := make(chan ConsoleMessage, 50)
	webLogger := NewWebLogger(fmt.Sprintf("render-%d", time.Now().UnixNano()), consoleChan)

	// Single writer goroutine keeps writes to w serialized
	sseEventChan := make(chan SSEEvent, 100)
	startTime := time.Now()

	var pipeline *RenderingPipeline
	onPass := func(pass int, img *image.RGBA, stats renderer.RenderStats) {
		s.handlePassComplete(ctx, sseEventChan, pass, pipeline.Renderer.Passes(), img, stats, startTime)
	}
	pipeline, err = s.setupRenderingPipeline(req, webLogger, onPass)
	if err != nil {
		writeError(w, err)
		return
	}

	s.setSSEHeaders(w)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, sseEventChan)
	}()

	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	_, _, renderErr := pipeline.Renderer.Render(ctx)

	// Workers have stopped, so nothing logs after this point
	close(consoleChan)
	<-consoleDone

	if renderErr != nil {
		s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "error", Data: fmt.Sprintf("Rendering failed: %v", renderErr)})
	} else {
		s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "complete", Data: "Rendering completed"})
	}
	close(sseEventChan)
	<-writerDone
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents writes every event until the channel is closed. After a
// failed write the remaining events are drained and dropped.
func (s *Server) writeSSEEvents(w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	failed := false
	for event := range sseEventChan {
		if failed {
			continue
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			failed = true
			continue
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}
}

// streamConsoleMessages forwards console messages until consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}
		s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "console", Data: string(data)})
	}
}

// handlePassComplete encodes the pass image and sends a progress event
func (s *Server) handlePassComplete(ctx context.Context, sseEventChan chan<- SSEEvent, pass, totalPasses int, img *image.RGBA, stats renderer.RenderStats, startTime time.Time) {
	imageData, err := imageToBase64PNG(img)
	if err != nil {
		log.Printf("Failed to encode pass %d: %v", pass, err)
		return
	}

	update := ProgressUpdate{
		PassNumber:  pass,
		TotalPasses: totalPasses,
		ImageData:   imageData,
		Stats: Stats{
			TotalPixels:    stats.TotalPixels,
			TotalSamples:   int64(stats.TotalSamples),
			AverageSamples: stats.AverageSamples,
			MaxSamples:     stats.MaxSamples,
			MinSamples:     stats.MinSamples,
			MaxSamplesUsed: stats.MaxSamplesUsed,
		},
		IsComplete: pass >= totalPasses,
		ElapsedMs:  time.Since(startTime).Milliseconds(),
	}

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Failed to marshal pass %d: %v", pass, err)
		return
	}
	s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "progress", Data: string(data)})
}

// sendEvent queues an event unless the client has gone away
func (s *Server) sendEvent(ctx context.Context, sseEventChan chan<- SSEEvent, event SSEEvent) {
	if ctx.Err() != nil {
		return
	}
	select {
	case sseEventChan <- event:
	case <-ctx.Done():
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
