package domain

import "math"

// CosineSimilarity returns dot(a,b) / (|a|*|b|) for two non-degenerate
// vectors. Accumulation happens in float64 regardless of the stored
// element type.
//
// Length mismatch, empty input, and zero magnitude are precondition
// violations and return ErrDimensionMismatch, ErrEmptyVector, and
// ErrZeroMagnitude respectively.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	if len(a) == 0 {
		return 0, ErrEmptyVector
	}

	var dot, magA, magB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		magA += x * x
		magB += y * y
	}

	magA = math.Sqrt(magA)
	magB = math.Sqrt(magB)
	if magA == 0 || magB == 0 {
		return 0, ErrZeroMagnitude
	}

	return dot / (magA * magB), nil
}
