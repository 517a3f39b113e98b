package lights

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// UniformBackground emits the same radiance in every direction
type UniformBackground struct {
	Emission core.Vec3
}

// NewUniformBackground creates a constant environment emitter
func NewUniformBackground(emission core.Vec3) *UniformBackground {
	return &UniformBackground{Emission: emission}
}

// Eval implements Background
func (ub *UniformBackground) Eval(rec *LightQueryRecord) core.Vec3 {
	return ub.Emission
}

// GradientBackground blends between two colors based on the direction's height
type GradientBackground struct {
	TopColor    core.Vec3
	BottomColor core.Vec3
}

// NewGradientBackground creates a sky-style gradient environment emitter
func NewGradientBackground(topColor, bottomColor core.Vec3) *GradientBackground {
	return &GradientBackground{TopColor: topColor, BottomColor: bottomColor}
}

// Eval implements Background
func (gb *GradientBackground) Eval(rec *LightQueryRecord) core.Vec3 {
	// Map Y from [-1,1] to [0,1]
	t := 0.5 * (rec.D.Normalize().Y + 1.0)
	return gb.BottomColor.Multiply(1.0 - t).Add(gb.TopColor.Multiply(t))
}
