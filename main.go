package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	sceneType      string
	integratorType string
	samples        int
	width          int
	height         int
	workers        int
	passes         int
	seed           int64
	survival       float64
	maxDepth       int
	meshPath       string
	outputDir      string
}

func main() {
	opts := options{}
	flag.StringVar(&opts.sceneType, "scene", "cornell", "Scene: "+strings.Join(scene.Names(), ", "))
	flag.StringVar(&opts.integratorType, "integrator", "path", "Integrator: "+strings.Join(integrator.DefaultRegistry().Names(), ", "))
	flag.IntVar(&opts.samples, "spp", 0, "Samples per pixel (0 = scene default)")
	flag.IntVar(&opts.width, "width", 0, "Image width (0 = scene default)")
	flag.IntVar(&opts.height, "height", 0, "Image height (0 = scene default)")
	flag.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	flag.IntVar(&opts.passes, "passes", 1, "Number of progressive passes")
	flag.Int64Var(&opts.seed, "seed", 42, "Base random seed")
	flag.Float64Var(&opts.survival, "rr", integrator.DefaultConfig().RussianRouletteSurvival, "Russian roulette survival probability")
	flag.IntVar(&opts.maxDepth, "max-depth", 0, "Maximum surface hits per path (0 = unlimited)")
	flag.StringVar(&opts.meshPath, "mesh", "", "OBJ or PLY file for the mesh scene (default: built-in tetrahedron)")
	flag.StringVar(&opts.outputDir, "output", "output", "Output directory")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	if err := run(opts); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println("Path Tracer")
	fmt.Println("Usage: pathtracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, name := range scene.Names() {
		fmt.Printf("  %-10s - %s\n", name, scene.Describe(name))
	}
	fmt.Println()
	fmt.Println("Output will be saved to <output>/<scene>/render_<timestamp>.png")
}

func run(opts options) error {
	fmt.Println("Starting Path Tracer...")

	sc, err := createScene(opts.sceneType, opts.meshPath)
	if err != nil {
		return err
	}
	fmt.Printf("Using %s scene (%d primitives, %d emitters, radius %.1f)\n",
		sc.Name, sc.GetPrimitiveCount(), sc.EmitterCount(), sc.BoundingRadius())

	integ, err := createIntegrator(opts.integratorType, opts.survival, opts.maxDepth)
	if err != nil {
		return err
	}

	config := renderConfig(sc, opts)
	r, err := renderer.NewRenderer(sc, integ, config, core.NewDefaultLogger())
	if err != nil {
		return err
	}

	startTime := time.Now()
	img, stats, err := r.Render(context.Background())
	if err != nil {
		return err
	}
	renderTime := time.Since(startTime)

	fmt.Printf("Render completed in %v\n", renderTime)
	fmt.Printf("Samples per pixel: %.1f (range %d - %d)\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)
	fmt.Printf("Average luminance: %.4f\n", renderer.CalculateAverageLuminance(img))
	if counter, ok := integ.(interface{ EtaAnomalies() int64 }); ok {
		if n := counter.EtaAnomalies(); n > 0 {
			fmt.Printf("Paths terminated by relative index anomalies: %d\n", n)
		}
	}

	filename, err := saveImage(img, opts.outputDir, sc.Name, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Render saved as %s\n", filename)
	return nil
}

// createScene builds and preprocesses the named built-in scene
func createScene(sceneType, meshPath string) (*scene.Scene, error) {
	return scene.Create(sceneType, scene.Options{MeshPath: meshPath})
}

// createIntegrator creates the named integrator with the given roulette
// survival probability and depth limit
func createIntegrator(integratorType string, survival float64, maxDepth int) (integrator.Integrator, error) {
	cfg := integrator.DefaultConfig()
	cfg.RussianRouletteSurvival = survival
	cfg.MaxDepth = maxDepth
	return integrator.DefaultRegistry().New(integratorType, cfg)
}

// renderConfig starts from the scene's recommendations and applies overrides
func renderConfig(sc *scene.Scene, opts options) renderer.Config {
	config := renderer.ConfigForScene(sc)
	if opts.width > 0 {
		config.Width = opts.width
	}
	if opts.height > 0 {
		config.Height = opts.height
	}
	if opts.samples > 0 {
		config.SamplesPerPixel = opts.samples
	}
	config.NumWorkers = opts.workers
	config.Passes = opts.passes
	config.Seed = opts.seed
	return config
}

// saveImage writes img to <outputDir>/<sceneName>/render_<timestamp>.png
func saveImage(img image.Image, outputDir, sceneName string, now time.Time) (string, error) {
	dir := filepath.Join(outputDir, sceneName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("error saving PNG: %w", err)
	}
	return filename, nil
}
