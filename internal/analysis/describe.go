package analysis

import (
	"math"
	"sort"
)

// ColumnStats mirrors a describe() row: count, mean, sample std, min, quartiles, max.
// All statistics are NaN when Count is 0; Std is NaN when Count is 1.
type ColumnStats struct {
	Name  string
	Count int
	Mean  float64
	Std   float64
	Min   float64
	P25   float64
	P50   float64
	P75   float64
	Max   float64
}

// Description holds the summary statistics for a set of columns.
type Description struct {
	Columns []ColumnStats
}

// Describe computes summary statistics for the named columns of f.
func Describe(f Frame, columns []string) (Description, error) {
	out := Description{Columns: make([]ColumnStats, 0, len(columns))}
	for _, name := range columns {
		vals, err := column(f, name)
		if err != nil {
			return Description{}, err
		}
		out.Columns = append(out.Columns, describeColumn(name, vals))
	}
	return out, nil
}

func describeColumn(name string, vals []float64) ColumnStats {
	nan := math.NaN()
	s := ColumnStats{Name: name, Count: len(vals), Mean: nan, Std: nan, Min: nan, P25: nan, P50: nan, P75: nan, Max: nan}
	if len(vals) == 0 {
		return s
	}
	// Welford update
	var n int
	var mean, m2 float64
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range vals {
		n++
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
		delta := x - mean
		mean += delta / float64(n)
		m2 += delta * (x - mean)
	}
	s.Mean, s.Min, s.Max = mean, lo, hi
	if n > 1 {
		s.Std = math.Sqrt(m2 / float64(n-1))
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	s.P25 = quantile(sorted, 0.25)
	s.P50 = quantile(sorted, 0.5)
	s.P75 = quantile(sorted, 0.75)
	return s
}

// quantile uses linear interpolation between closest ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
