package domain

import (
	"math"
	"testing"
)

func TestCosineSimilarity_Identical(t *testing.T) {
	v := []float32{0.5, 0.5, 0.7}
	if got := CosineSimilarity(v, v); math.Abs(got-1) > 1e-9 {
		t.Errorf("expected similarity 1 for identical vectors, got %v", got)
	}
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("expected similarity 0 for orthogonal vectors, got %v", got)
	}
}

func TestCosineSimilarity_Opposite(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-1, -2, -3}
	if got := CosineSimilarity(a, b); math.Abs(got+1) > 1e-9 {
		t.Errorf("expected similarity -1 for opposite vectors, got %v", got)
	}
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	a := []float32{0, 0, 0}
	b := []float32{1, 2, 3}
	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("expected 0 for zero vector, got %v", got)
	}
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	a := []float32{1, 2}
	b := []float32{1, 2, 3}
	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("expected 0 for dimension mismatch, got %v", got)
	}
}

func TestNormalize_UnitNorm(t *testing.T) {
	v := Normalize([]float32{3, 4})

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if math.Abs(math.Sqrt(sum)-1) > 1e-6 {
		t.Errorf("expected unit norm, got %v", math.Sqrt(sum))
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	once := Normalize([]float32{1, 2, 3, 4})
	twice := Normalize(once)

	for i := range once {
		if math.Abs(float64(once[i])-float64(twice[i])) > 1e-9 {
			t.Fatalf("normalization not idempotent at %d: %v vs %v", i, once[i], twice[i])
		}
	}
}

func TestNormalize_ZeroVectorUnchanged(t *testing.T) {
	v := []float32{0, 0, 0}
	got := Normalize(v)
	for i, x := range got {
		if x != 0 {
			t.Fatalf("expected zero vector unchanged, got %v at %d", x, i)
		}
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	v := []float32{3, 4}
	_ = Normalize(v)
	if v[0] != 3 || v[1] != 4 {
		t.Errorf("input mutated: %v", v)
	}
}
