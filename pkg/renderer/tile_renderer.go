package renderer

import (
	"fmt"
	"image"

	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	camera     *Camera
}

// NewTileRenderer creates a new tile renderer with the given scene, integrator and camera
func NewTileRenderer(sc *scene.Scene, integ integrator.Integrator, camera *Camera) *TileRenderer {
	return &TileRenderer{
		scene:      sc,
		integrator: integ,
		camera:     camera,
	}
}

// RenderTile brings every pixel of the tile up to targetSamples, writing into
// the shared pixelStats array. Tiles never overlap, so concurrent calls for
// different tiles are safe.
func (tr *TileRenderer) RenderTile(tile *Tile, pixelStats [][]PixelStats, targetSamples int) (RenderStats, error) {
	bounds := tile.Bounds
	stats := RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples,
	}

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			samplesUsed, err := tr.samplePixel(tile, i, j, &pixelStats[j][i], targetSamples)
			if err != nil {
				return stats, fmt.Errorf("pixel (%d, %d): %w", i, j, err)
			}
			stats.TotalSamples += samplesUsed
			stats.MinSamples = min(stats.MinSamples, samplesUsed)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, samplesUsed)
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return stats, nil
}

// samplePixel takes samples until the pixel holds targetSamples
func (tr *TileRenderer) samplePixel(tile *Tile, i, j int, ps *PixelStats, targetSamples int) (int, error) {
	initialSampleCount := ps.SampleCount

	for ps.SampleCount < targetSamples {
		ray := tr.camera.GetRay(i, j, tile.Sampler)
		color, err := tr.integrator.Li(tr.scene, tile.Sampler, ray)
		if err != nil {
			return ps.SampleCount - initialSampleCount, err
		}
		ps.AddSample(color)
	}

	return ps.SampleCount - initialSampleCount, nil
}

// extractTileImage converts the pixels of a region into an image
func extractTileImage(bounds image.Rectangle, pixelStats [][]PixelStats) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, vec3ToColor(pixelStats[y][x].GetColor()))
		}
	}
	return img
}
