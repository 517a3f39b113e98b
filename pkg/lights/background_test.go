package lights

import (
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestUniformBackground(t *testing.T) {
	bg := NewUniformBackground(core.NewVec3(0.2, 0.3, 0.4))
	for _, dir := range []core.Vec3{core.NewVec3(0, 1, 0), core.NewVec3(1, -1, 0)} {
		rec := NewLightQueryRecordForRay(core.NewRay(core.Vec3{}, dir))
		if got := bg.Eval(&rec); got != bg.Emission {
			t.Errorf("Direction %v: got %v", dir, got)
		}
	}
}

func TestGradientBackground(t *testing.T) {
	top := core.NewVec3(0.5, 0.7, 1.0)
	bottom := core.NewVec3(1, 1, 1)
	bg := NewGradientBackground(top, bottom)

	tests := []struct {
		name     string
		dir      core.Vec3
		expected core.Vec3
	}{
		{"straight up", core.NewVec3(0, 5, 0), top},
		{"straight down", core.NewVec3(0, -1, 0), bottom},
		{"horizon", core.NewVec3(1, 0, 0), top.Add(bottom).Multiply(0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewLightQueryRecordForRay(core.NewRay(core.Vec3{}, tt.dir))
			if got := bg.Eval(&rec); got.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("got %v, expected %v", got, tt.expected)
			}
		})
	}
}
