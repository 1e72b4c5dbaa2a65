package telemetry

import (
	"math"
	"testing"
)

func TestSummarizeMatrix(t *testing.T) {
	tests := []struct {
		name           string
		types          int
		m              []float32
		mean, min      float64
		max, asymmetry float64
	}{
		{"antisymmetric", 2, []float32{0, 1, -1, 0}, 0, -1, 1, math.Sqrt(8)},
		{"symmetric", 2, []float32{1, 0.5, 0.5, -1}, 0.25, -1, 1, 0},
		{"single type", 1, []float32{0.5}, 0.5, 0.5, 0.5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SummarizeMatrix(tt.types, tt.m)
			if s.Types != tt.types {
				t.Errorf("Types = %d, want %d", s.Types, tt.types)
			}
			for _, c := range []struct {
				name      string
				got, want float64
			}{
				{"mean", s.Mean, tt.mean},
				{"min", s.Min, tt.min},
				{"max", s.Max, tt.max},
				{"asymmetry", s.Asymmetry, tt.asymmetry},
			} {
				if math.Abs(c.got-c.want) > 1e-6 {
					t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
				}
			}
		})
	}
}

func TestSummarizeMatrixRejectsBadShape(t *testing.T) {
	if s := SummarizeMatrix(2, []float32{1, 2, 3}); s != (MatrixSummary{}) {
		t.Errorf("bad shape summary = %+v, want zero", s)
	}
	if s := SummarizeMatrix(0, nil); s != (MatrixSummary{}) {
		t.Errorf("empty summary = %+v, want zero", s)
	}
}
