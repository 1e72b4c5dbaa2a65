package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"
)

// MatrixSummary describes an attraction matrix.
type MatrixSummary struct {
	Types int
	Mean  float64
	Min   float64
	Max   float64

	// Asymmetry is the Frobenius norm of A - Aᵀ. Zero means every pair of
	// types treats each other the same way.
	Asymmetry float64
}

// SummarizeMatrix describes a row-major types x types matrix.
func SummarizeMatrix(types int, m []float32) MatrixSummary {
	if types <= 0 || len(m) != types*types {
		return MatrixSummary{}
	}
	data := make([]float64, len(m))
	for i, v := range m {
		data[i] = float64(v)
	}
	a := mat.NewDense(types, types, data)

	var diff mat.Dense
	diff.Sub(a, a.T())

	return MatrixSummary{
		Types:     types,
		Mean:      mat.Sum(a) / float64(len(data)),
		Min:       mat.Min(a),
		Max:       mat.Max(a),
		Asymmetry: mat.Norm(&diff, 2),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s MatrixSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("types", s.Types),
		slog.Float64("mean", s.Mean),
		slog.Float64("min", s.Min),
		slog.Float64("max", s.Max),
		slog.Float64("asymmetry", s.Asymmetry),
	)
}
