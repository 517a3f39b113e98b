package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Mirror is an ideal specular reflector
type Mirror struct {
	Albedo core.Vec3
}

// NewMirror creates a perfect mirror tinted by albedo
func NewMirror(albedo core.Vec3) *Mirror {
	return &Mirror{Albedo: albedo}
}

// Sample reflects Wi about the normal
func (m *Mirror) Sample(rec *BSDFQueryRecord, sample core.Vec2) core.Vec3 {
	if core.CosTheta(rec.Wi) <= 0 {
		return core.Vec3{}
	}

	rec.Wo = reflect(rec.Wi)
	rec.Measure = Discrete
	rec.Eta = 1.0

	return m.Albedo
}

// Eval is zero: a point mass has no density to evaluate
func (m *Mirror) Eval(rec *BSDFQueryRecord) core.Vec3 {
	return core.Vec3{}
}

// PDF is zero for the same reason
func (m *Mirror) PDF(rec *BSDFQueryRecord) float64 {
	return 0
}
