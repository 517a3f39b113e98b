package integrator

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// ErrUnknownIntegrator is returned by Registry.New for unregistered names
var ErrUnknownIntegrator = errors.New("unknown integrator")

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Li estimates the radiance arriving along ray. Each call is independent
	// and safe to run concurrently as long as every goroutine uses its own
	// sampler. An error means the scene is misconfigured, not that the
	// sample was unlucky.
	Li(sc *scene.Scene, sampler core.Sampler, ray core.Ray) (core.Vec3, error)
}

// Config contains estimator settings
type Config struct {
	RussianRouletteSurvival float64     // Survival probability once roulette is active
	RussianRouletteMinDepth int         // Roulette applies once the bounce count exceeds this
	MaxDepth                int         // Maximum surface hits per path, 0 for none
	EtaMin                  float64     // Lower bound of the accumulated relative index
	EtaMax                  float64     // Upper bound of the accumulated relative index
	Logger                  core.Logger // Receives diagnostics; nil discards them
}

// DefaultConfig returns the standard estimator settings
func DefaultConfig() Config {
	return Config{
		RussianRouletteSurvival: 0.7,
		RussianRouletteMinDepth: 1,
		MaxDepth:                0,
		EtaMin:                  0.5,
		EtaMax:                  2.0,
		Logger:                  core.NewDefaultLogger(),
	}
}

// Validate checks the config for values the estimators cannot use
func (c Config) Validate() error {
	if c.RussianRouletteSurvival <= 0 || c.RussianRouletteSurvival > 1 {
		return fmt.Errorf("russian roulette survival must be in (0, 1], got %v", c.RussianRouletteSurvival)
	}
	if c.RussianRouletteMinDepth < 0 {
		return fmt.Errorf("russian roulette min depth must be >= 0, got %d", c.RussianRouletteMinDepth)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must be >= 0, got %d", c.MaxDepth)
	}
	if c.EtaMin <= 0 || c.EtaMin > 1 || c.EtaMax < 1 {
		return fmt.Errorf("eta bounds must satisfy 0 < min <= 1 <= max, got [%v, %v]", c.EtaMin, c.EtaMax)
	}
	return nil
}

func (c Config) logger() core.Logger {
	if c.Logger == nil {
		return core.NopLogger{}
	}
	return c.Logger
}

// Factory creates an integrator from a config
type Factory func(Config) Integrator

// Registry maps integrator names to factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry holding the built-in integrators
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("path", func(cfg Config) Integrator { return NewPathTracingIntegrator(cfg) })
	r.Register("direct", func(cfg Config) Integrator { return NewDirectLightingIntegrator(cfg) })
	return r
}

// Register adds or replaces a factory
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// New creates the integrator registered under name
func (r *Registry) New(name string, cfg Config) (Integrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid integrator config: %w", err)
	}

	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownIntegrator, name, strings.Join(r.Names(), ", "))
	}
	return factory(cfg), nil
}

// Names returns the registered names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
