package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Config controls image size, sampling and parallelism of a render
type Config struct {
	Width           int   // Image width in pixels
	Height          int   // Image height in pixels
	SamplesPerPixel int   // Total samples per pixel
	TileSize        int   // Size of each square tile (64 recommended)
	NumWorkers      int   // Number of parallel workers (0 = use CPU count)
	Seed            int64 // Base seed for the per-tile sample streams
	Passes          int   // Number of progressive passes (0 or 1 = single pass)

	// OnPass is called after each pass with the image so far, if set
	OnPass func(pass int, img *image.RGBA, stats RenderStats)
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:           256,
		Height:          256,
		SamplesPerPixel: 16,
		TileSize:        64,
		NumWorkers:      0,
		Seed:            42,
		Passes:          1,
	}
}

// ConfigForScene returns the default config with the scene's recommended
// image size and sample count
func ConfigForScene(sc *scene.Scene) Config {
	cfg := DefaultConfig()
	if sc.SamplingConfig.Width > 0 {
		cfg.Width = sc.SamplingConfig.Width
	}
	if sc.SamplingConfig.Height > 0 {
		cfg.Height = sc.SamplingConfig.Height
	}
	if sc.SamplingConfig.SamplesPerPixel > 0 {
		cfg.SamplesPerPixel = sc.SamplingConfig.SamplesPerPixel
	}
	return cfg
}

// Validate checks that the config describes a renderable image
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", c.Width, c.Height)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("tile size must be positive, got %d", c.TileSize)
	}
	if c.Passes < 0 {
		return fmt.Errorf("passes must not be negative, got %d", c.Passes)
	}
	return nil
}

// Renderer renders a scene with an integrator into an image
type Renderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	config     Config
	camera     *Camera
	logger     core.Logger
}

// NewRenderer creates a renderer. A nil logger discards output.
func NewRenderer(sc *scene.Scene, integ integrator.Integrator, config Config, logger core.Logger) (*Renderer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Renderer{
		scene:      sc,
		integrator: integ,
		config:     config,
		camera:     NewCamera(sc.CameraConfig, config.Width, config.Height),
		logger:     logger,
	}, nil
}

// Camera returns the camera generating primary rays
func (r *Renderer) Camera() *Camera {
	return r.camera
}

// Passes returns the number of progressive passes, capped at the sample count
func (r *Renderer) Passes() int {
	return max(1, min(r.config.Passes, r.config.SamplesPerPixel))
}

// getSamplesForPass calculates the target total samples for a given pass
func (r *Renderer) getSamplesForPass(passNumber int) int {
	passes := r.Passes()
	if passes == 1 || passNumber >= passes {
		return r.config.SamplesPerPixel
	}

	// First pass is a one-sample preview, the rest is divided evenly
	if passNumber == 1 {
		return 1
	}
	samplesPerPass := (r.config.SamplesPerPixel - 1) / (passes - 1)
	return 1 + (passNumber-1)*samplesPerPass
}

// Render renders the image. The first integrator error stops the remaining
// tiles and is returned. Cancelling ctx stops the render between tiles.
func (r *Renderer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	start := time.Now()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tiles := NewTileGrid(r.config.Width, r.config.Height, r.config.TileSize, r.config.Seed)
	pixelStats := make([][]PixelStats, r.config.Height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, r.config.Width)
	}

	pool := NewWorkerPool(NewTileRenderer(r.scene, r.integrator, r.camera), len(tiles), r.config.NumWorkers)
	pool.Start(ctx)
	defer pool.Stop()

	passes := r.Passes()
	r.logger.Printf("Rendering %dx%d at %d samples per pixel (%d tiles, %d workers, %d passes)...\n",
		r.config.Width, r.config.Height, r.config.SamplesPerPixel, len(tiles), pool.GetNumWorkers(), passes)

	var img *image.RGBA
	var stats RenderStats
	for pass := 1; pass <= passes; pass++ {
		passStart := time.Now()
		targetSamples := r.getSamplesForPass(pass)

		if err := r.renderPass(cancel, pool, tiles, pixelStats, pass, targetSamples); err != nil {
			return nil, RenderStats{}, err
		}

		img = r.assembleImage(pixelStats)
		stats = collectStats(pixelStats, targetSamples)
		stats.Passes = pass
		stats.Duration = time.Since(start)

		r.logger.Printf("Pass %d completed in %v (%d samples/pixel)\n", pass, time.Since(passStart), targetSamples)
		if r.config.OnPass != nil {
			r.config.OnPass(pass, img, stats)
		}
	}

	return img, stats, nil
}

// renderPass submits every tile and waits for all results. On the first
// error the render context is cancelled and the remaining results drained.
func (r *Renderer) renderPass(cancel context.CancelFunc, pool *WorkerPool, tiles []*Tile, pixelStats [][]PixelStats, pass, targetSamples int) error {
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{
			Tile:          tile,
			PassNumber:    pass,
			TargetSamples: targetSamples,
			TaskID:        i,
			PixelStats:    pixelStats,
		})
	}

	var firstErr error
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			return errors.New("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
				cancel()
			}
			continue
		}
		tiles[result.TaskID].PassesCompleted++
	}

	if firstErr != nil {
		if errors.Is(firstErr, context.Canceled) || errors.Is(firstErr, context.DeadlineExceeded) {
			return fmt.Errorf("render cancelled in pass %d: %w", pass, firstErr)
		}
		return fmt.Errorf("render failed in pass %d: %w", pass, firstErr)
	}
	return nil
}

// assembleImage converts the accumulated pixel statistics into an image
func (r *Renderer) assembleImage(pixelStats [][]PixelStats) *image.RGBA {
	return extractTileImage(image.Rect(0, 0, r.config.Width, r.config.Height), pixelStats)
}

// vec3ToColor converts a linear color to 8-bit output with gamma 2
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	// Apply gamma correction (gamma = 2.0)
	colorVec = colorVec.GammaCorrect(2.0)

	// Clamp to valid color range
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
