package integrator

import (
	"sync/atomic"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/lights"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// PathTracingIntegrator implements unidirectional path tracing with one
// light sample per bounce and Russian roulette
type PathTracingIntegrator struct {
	config       Config
	logger       core.Logger
	etaAnomalies atomic.Int64
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config Config) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		config: config,
		logger: config.logger(),
	}
}

// pathState is the walk's loop state, rebuilt for every camera ray
type pathState struct {
	ray            core.Ray
	result         core.Vec3
	throughput     core.Vec3
	depth          int
	eta            float64
	includeEmitted bool
}

func newPathState(ray core.Ray) pathState {
	return pathState{
		ray:            ray,
		throughput:     core.NewColor(1),
		eta:            1.0,
		includeEmitted: true,
	}
}

// Li walks a path from the camera ray, accumulating emitted radiance,
// one direct-lighting sample per hit and the BSDF-sampled continuation.
//
// Emitted radiance is only added on the first hit or after a discrete
// bounce. Continuous bounces already picked up that light through the
// direct-lighting sample at the previous vertex.
func (pt *PathTracingIntegrator) Li(sc *scene.Scene, sampler core.Sampler, ray core.Ray) (core.Vec3, error) {
	st := newPathState(ray)

	for {
		it := sc.Intersect(st.ray)

		// Escaped: only the background can contribute
		if !it.IsHit() {
			if st.includeEmitted && sc.HasBackground() {
				rec := lights.NewLightQueryRecordForRay(st.ray)
				st.result = st.result.Add(st.throughput.MultiplyVec(sc.Background().Eval(&rec)))
			}
			break
		}

		// The walk continues after hitting a light since its material may reflect
		if st.includeEmitted && it.Object.IsEmitter() {
			rec := lights.NewLightQueryRecordForHit(it.Object.Emitter, st.ray.Origin, it.Point, it.Normal)
			st.result = st.result.Add(st.throughput.MultiplyVec(it.Object.Emitter.Eval(&rec)))
		}

		direct, err := estimateDirect(sc, sampler, st.ray, it)
		if err != nil {
			return core.Vec3{}, err
		}
		st.result = st.result.Add(st.throughput.MultiplyVec(direct))

		if pt.config.MaxDepth > 0 && st.depth+1 >= pt.config.MaxDepth {
			break
		}

		if !pt.bounce(sampler, &st, it) {
			break
		}
	}

	return st.result, nil
}

// bounce samples the hit material to extend the path. It returns false when
// the path ends: zero weight, a degenerate refraction chain or roulette.
func (pt *PathTracingIntegrator) bounce(sampler core.Sampler, st *pathState, it scene.Intersection) bool {
	bRec := material.NewBSDFQueryRecord(it.ToLocal(st.ray.Direction.Negate().Normalize()))
	weight := it.Object.Material.Sample(&bRec, sampler.Get2D())
	if weight.IsZero() {
		return false
	}

	st.eta *= bRec.Eta
	if st.eta < pt.config.EtaMin || st.eta > pt.config.EtaMax {
		n := pt.etaAnomalies.Add(1)
		pt.logger.Printf("path terminated: relative index %.4f left [%.2f, %.2f] at depth %d (%d so far)\n",
			st.eta, pt.config.EtaMin, pt.config.EtaMax, st.depth, n)
		return false
	}
	st.throughput = st.throughput.MultiplyVec(weight)

	st.ray = core.NewRay(it.Point, it.ToWorld(bRec.Wo))
	st.includeEmitted = bRec.Measure == material.Discrete

	st.depth++
	if st.depth > pt.config.RussianRouletteMinDepth {
		q := pt.config.RussianRouletteSurvival
		if sampler.Get1D() >= q {
			return false
		}
		st.throughput = st.throughput.Multiply(1.0 / q)
	}
	return true
}

// EtaAnomalies returns how many paths were cut because their accumulated
// relative refractive index left the allowed band
func (pt *PathTracingIntegrator) EtaAnomalies() int64 {
	return pt.etaAnomalies.Load()
}

// estimateDirect takes one light sample at the hit and weights it by the
// BSDF, the segment transmittance and the cosine at the shading point
func estimateDirect(sc *scene.Scene, sampler core.Sampler, ray core.Ray, it scene.Intersection) (core.Vec3, error) {
	lRec := lights.NewLightQueryRecord(it.Point)
	direct, err := SampleLights(sc, &lRec, sampler.Get2D())
	if err != nil {
		return core.Vec3{}, err
	}
	if direct.IsZero() {
		return core.Vec3{}, nil
	}

	bRec := material.NewBSDFEvalRecord(
		it.ToLocal(ray.Direction.Negate().Normalize()),
		it.ToLocal(lRec.D),
		material.SolidAngle,
	)
	f := it.Object.Material.Eval(&bRec)
	tr := sc.Transmittance(core.NewRaySegment(lRec.Ref, lRec.D, 0, lRec.Dist), sampler)
	cos := core.CosTheta(bRec.Wo)
	if cos < 0 {
		cos = -cos
	}
	return direct.MultiplyVec(f).MultiplyVec(tr).Multiply(cos), nil
}
