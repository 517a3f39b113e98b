package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Diffuse represents a perfectly diffuse (Lambertian) material
type Diffuse struct {
	Albedo core.Vec3 // Reflectance, each channel in [0, 1]
}

// NewDiffuse creates a new diffuse material
func NewDiffuse(albedo core.Vec3) *Diffuse {
	return &Diffuse{Albedo: albedo}
}

// Sample draws a cosine-weighted direction. The cosine and 1/π of the BRDF
// cancel against the density, so the weight is the albedo itself.
func (d *Diffuse) Sample(rec *BSDFQueryRecord, sample core.Vec2) core.Vec3 {
	if core.CosTheta(rec.Wi) <= 0 {
		return core.Vec3{}
	}

	rec.Measure = SolidAngle
	rec.Wo = core.SampleCosineHemisphere(sample)
	rec.Eta = 1.0

	return d.Albedo
}

// Eval returns albedo/π when both directions are above the surface
func (d *Diffuse) Eval(rec *BSDFQueryRecord) core.Vec3 {
	if rec.Measure != SolidAngle || core.CosTheta(rec.Wi) <= 0 || core.CosTheta(rec.Wo) <= 0 {
		return core.Vec3{}
	}
	return d.Albedo.Multiply(1.0 / math.Pi)
}

// PDF returns cos(θo)/π
func (d *Diffuse) PDF(rec *BSDFQueryRecord) float64 {
	if rec.Measure != SolidAngle || core.CosTheta(rec.Wi) <= 0 {
		return 0
	}
	return core.CosineHemispherePDF(rec.Wo)
}
