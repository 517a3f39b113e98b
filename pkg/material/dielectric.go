package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Dielectric represents a smooth boundary between two transparent media such as air and glass
type Dielectric struct {
	IntIOR float64 // Interior index of refraction (e.g., 1.5 for glass)
	ExtIOR float64 // Exterior index of refraction (1.000277 for air)
}

// NewDielectric creates a dielectric with glass-in-air style indices
func NewDielectric(intIOR, extIOR float64) *Dielectric {
	return &Dielectric{IntIOR: intIOR, ExtIOR: extIOR}
}

// Sample chooses between specular reflection and refraction with probability
// equal to the Fresnel reflectance. Refraction sets rec.Eta to etaT/etaI and
// scales radiance by (etaI/etaT)².
func (d *Dielectric) Sample(rec *BSDFQueryRecord, sample core.Vec2) core.Vec3 {
	cosThetaI := core.CosTheta(rec.Wi)
	reflectance := FresnelDielectric(cosThetaI, d.ExtIOR, d.IntIOR)

	rec.Measure = Discrete

	if sample.X <= reflectance {
		rec.Wo = reflect(rec.Wi)
		rec.Eta = 1.0
		return core.NewColor(1)
	}

	etaI, etaT := d.ExtIOR, d.IntIOR
	entering := cosThetaI > 0
	if !entering {
		etaI, etaT = etaT, etaI
		cosThetaI = -cosThetaI
	}

	eta := etaI / etaT
	sinThetaTSqr := eta * eta * (1 - cosThetaI*cosThetaI)
	// Total internal reflection always goes through the branch above since
	// reflectance is 1 there; guard against rounding anyway
	if sinThetaTSqr >= 1 {
		rec.Wo = reflect(rec.Wi)
		rec.Eta = 1.0
		return core.NewColor(1)
	}
	cosThetaT := math.Sqrt(1 - sinThetaTSqr)
	if entering {
		cosThetaT = -cosThetaT
	}

	rec.Wo = core.NewVec3(-eta*rec.Wi.X, -eta*rec.Wi.Y, cosThetaT)
	rec.Eta = etaT / etaI

	return core.NewColor(eta * eta)
}

// Eval is zero: both lobes are point masses
func (d *Dielectric) Eval(rec *BSDFQueryRecord) core.Vec3 {
	return core.Vec3{}
}

// PDF is zero for the same reason
func (d *Dielectric) PDF(rec *BSDFQueryRecord) float64 {
	return 0
}

// FresnelDielectric returns the unpolarized Fresnel reflectance for a smooth
// dielectric boundary. cosThetaI is measured against the normal on the
// exterior side; negative values mean the ray arrives from the interior.
func FresnelDielectric(cosThetaI, extIOR, intIOR float64) float64 {
	etaI, etaT := extIOR, intIOR
	if extIOR == intIOR {
		return 0
	}
	if cosThetaI < 0 {
		etaI, etaT = etaT, etaI
		cosThetaI = -cosThetaI
	}

	eta := etaI / etaT
	sinThetaTSqr := eta * eta * (1 - cosThetaI*cosThetaI)
	if sinThetaTSqr > 1 {
		return 1
	}
	cosThetaT := math.Sqrt(1 - sinThetaTSqr)

	rs := (etaI*cosThetaI - etaT*cosThetaT) / (etaI*cosThetaI + etaT*cosThetaT)
	rp := (etaT*cosThetaI - etaI*cosThetaT) / (etaT*cosThetaI + etaI*cosThetaT)
	return (rs*rs + rp*rp) / 2
}
