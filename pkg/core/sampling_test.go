package core

import (
	"math"
	"testing"
)

func TestRandomSamplerRange(t *testing.T) {
	sampler := NewSeededSampler(7)
	for i := 0; i < 1000; i++ {
		u := sampler.Get1D()
		if u < 0 || u >= 1 {
			t.Fatalf("Get1D out of range: %f", u)
		}
		p := sampler.Get2D()
		if p.X < 0 || p.X >= 1 || p.Y < 0 || p.Y >= 1 {
			t.Fatalf("Get2D out of range: %v", p)
		}
	}
}

func TestRandomSamplerDeterministic(t *testing.T) {
	a := NewSeededSampler(42)
	b := NewSeededSampler(42)
	for i := 0; i < 100; i++ {
		if a.Get1D() != b.Get1D() {
			t.Fatal("Expected identical sequences for identical seeds")
		}
	}
}

func TestSampleCosineHemisphere(t *testing.T) {
	sampler := NewSeededSampler(1)
	sumCos := 0.0
	n := 20000
	for i := 0; i < n; i++ {
		v := SampleCosineHemisphere(sampler.Get2D())
		if math.Abs(v.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit vector, got length %f", v.Length())
		}
		if v.Z < 0 {
			t.Fatalf("Expected upper hemisphere, got %v", v)
		}
		sumCos += v.Z
	}

	// E[cos θ] under cos/π density is 2/3
	mean := sumCos / float64(n)
	if math.Abs(mean-2.0/3.0) > 0.01 {
		t.Errorf("Mean cosine: got %f, expected %f", mean, 2.0/3.0)
	}
}

func TestCosineHemispherePDF(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec3
		expected float64
	}{
		{"normal", NewVec3(0, 0, 1), 1 / math.Pi},
		{"grazing", NewVec3(1, 0, 0), 0},
		{"below", NewVec3(0, 0, -1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineHemispherePDF(tt.v); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("got %f, expected %f", got, tt.expected)
			}
		})
	}
}

func TestSampleUniformTriangle(t *testing.T) {
	sampler := NewSeededSampler(3)
	for i := 0; i < 1000; i++ {
		b1, b2 := SampleUniformTriangle(sampler.Get2D())
		if b1 < 0 || b2 < 0 || b1+b2 > 1+1e-12 {
			t.Fatalf("Barycentrics outside triangle: %f %f", b1, b2)
		}
	}
}

func TestSampleOnUnitSphere(t *testing.T) {
	sampler := NewSeededSampler(5)
	for i := 0; i < 100; i++ {
		v := SampleOnUnitSphere(sampler.Get2D())
		if math.Abs(v.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit vector, got %v", v)
		}
	}
}
