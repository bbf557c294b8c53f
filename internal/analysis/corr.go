package analysis

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// Len returns the number of columns in the matrix.
func (m *CorrMatrix) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Columns)
}

// At returns the coefficient for columns i and j.
func (m *CorrMatrix) At(i, j int) float64 { return m.Values[i][j] }

// Correlate computes pairwise Pearson coefficients between the named columns.
// The diagonal is exactly 1. Off-diagonal cells are NaN when a column has no
// variance or the frame has fewer than two rows. A frame with no rows yields an
// empty matrix.
func Correlate(f Frame, columns []string) (*CorrMatrix, error) {
	if f.Len() == 0 || len(columns) == 0 {
		return &CorrMatrix{}, nil
	}
	xs := make([][]float64, len(columns))
	for j, c := range columns {
		v, err := column(f, c)
		if err != nil {
			return nil, err
		}
		xs[j] = v
	}
	n := len(columns)
	sym := mat.NewSymDense(n, nil)
	for a := 0; a < n; a++ {
		sym.SetSym(a, a, 1)
		for b := a + 1; b < n; b++ {
			sym.SetSym(a, b, pearson(xs[a], xs[b]))
		}
	}
	out := &CorrMatrix{Columns: append([]string(nil), columns...), Values: make([][]float64, n)}
	for i := 0; i < n; i++ {
		out.Values[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			out.Values[i][j] = sym.At(i, j)
		}
	}
	return out, nil
}

// pearson wraps stat.Correlation, clamping rounding overshoot to [-1, 1].
func pearson(x, y []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.NaN()
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}
