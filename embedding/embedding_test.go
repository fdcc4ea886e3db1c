package embedding

import (
	"errors"
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
		want []float32
	}{
		{"three four", []float32{3, 4}, []float32{0.6, 0.8}},
		{"already unit", []float32{0, 1, 0}, []float32{0, 1, 0}},
		{"zero", []float32{0, 0}, []float32{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := append([]float32(nil), tt.in...)
			Normalize(v)
			for i := range v {
				if math.Abs(float64(v[i]-tt.want[i])) > 1e-6 {
					t.Fatalf("Normalize(%v) = %v, want %v", tt.in, v, tt.want)
				}
			}
		})
	}
}

func TestEmbeddingError(t *testing.T) {
	cause := errors.New("throttled")
	err := ErrRateLimitExceeded("EmbedDocuments", cause)

	var ee *EmbeddingError
	if !errors.As(err, &ee) || ee.Code != ErrCodeRateLimitExceeded {
		t.Fatalf("error = %v, want RateLimitExceeded", err)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not unwrapped")
	}
}
