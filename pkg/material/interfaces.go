package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Measure tells which kind of distribution a direction was drawn from
type Measure int

const (
	// UnknownMeasure is the zero value, used before a material sets it
	UnknownMeasure Measure = iota
	// SolidAngle marks directions drawn from a continuous density (e.g. diffuse)
	SolidAngle
	// Discrete marks directions drawn from a point mass (mirror, ideal refraction)
	Discrete
)

func (m Measure) String() string {
	switch m {
	case SolidAngle:
		return "solid-angle"
	case Discrete:
		return "discrete"
	default:
		return "unknown"
	}
}

// BSDFQueryRecord describes one material interaction in local shading
// coordinates (z = shading normal). Wi points away from the surface toward
// where the light is going (back along the incoming ray).
type BSDFQueryRecord struct {
	Wi      core.Vec3 // Incident direction, local frame
	Wo      core.Vec3 // Outgoing direction, local frame
	Eta     float64   // Relative refractive index introduced by the sampled interaction
	Measure Measure   // Measure of the sampled or evaluated direction
}

// NewBSDFQueryRecord creates a record for sampling; Wo, Eta and Measure are
// filled in by Material.Sample
func NewBSDFQueryRecord(wi core.Vec3) BSDFQueryRecord {
	return BSDFQueryRecord{Wi: wi, Eta: 1.0, Measure: UnknownMeasure}
}

// NewBSDFEvalRecord creates a record for evaluating a known pair of directions
func NewBSDFEvalRecord(wi, wo core.Vec3, measure Measure) BSDFQueryRecord {
	return BSDFQueryRecord{Wi: wi, Wo: wo, Eta: 1.0, Measure: measure}
}

// Material is a reflectance model (BSDF). Implementations are immutable and
// safe for concurrent use.
type Material interface {
	// Sample draws Wo given Wi and returns eval(Wi, Wo) * |cos θo| / pdf(Wo),
	// or zero when sampling fails. It sets Wo, Eta and Measure on rec.
	Sample(rec *BSDFQueryRecord, sample core.Vec2) core.Vec3

	// Eval returns the BSDF value for the pair in rec. Discrete components
	// always evaluate to zero.
	Eval(rec *BSDFQueryRecord) core.Vec3

	// PDF returns the solid-angle density Sample would use for rec.Wo
	PDF(rec *BSDFQueryRecord) float64
}

// reflect mirrors a local direction about the shading normal
func reflect(wi core.Vec3) core.Vec3 {
	return core.NewVec3(-wi.X, -wi.Y, wi.Z)
}
