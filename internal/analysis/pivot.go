package analysis

import (
	"math"
	"sort"
)

// PivotTable is a mean cross-tabulation. Rows and Cols hold the distinct key
// values in ascending order; Cells[r][c] is NaN where no row matched.
type PivotTable struct {
	RowKey      string
	ColKey      string
	ValueColumn string
	Rows        []float64
	Cols        []float64
	Cells       [][]float64
}

// Empty reports whether the table has no cells.
func (p PivotTable) Empty() bool { return len(p.Rows) == 0 || len(p.Cols) == 0 }

// Lookup returns the cell for a (row, col) key pair; ok is false for gaps.
func (p PivotTable) Lookup(row, col float64) (float64, bool) {
	r := sort.SearchFloat64s(p.Rows, row)
	c := sort.SearchFloat64s(p.Cols, col)
	if r >= len(p.Rows) || p.Rows[r] != row || c >= len(p.Cols) || p.Cols[c] != col {
		return math.NaN(), false
	}
	v := p.Cells[r][c]
	return v, !math.IsNaN(v)
}

// PivotMean groups by (rowKey, colKey) and averages value in each cell.
func PivotMean(f Frame, rowKey, colKey, value string) (PivotTable, error) {
	out := PivotTable{RowKey: rowKey, ColKey: colKey, ValueColumn: value}
	if f.Len() == 0 {
		return out, nil
	}
	rk, err := column(f, rowKey)
	if err != nil {
		return out, err
	}
	ck, err := column(f, colKey)
	if err != nil {
		return out, err
	}
	vals, err := column(f, value)
	if err != nil {
		return out, err
	}
	type cell struct{ r, c float64 }
	type acc struct {
		sum float64
		n   int
	}
	cells := map[cell]*acc{}
	rowSeen := map[float64]struct{}{}
	colSeen := map[float64]struct{}{}
	for i := range vals {
		k := cell{rk[i], ck[i]}
		a := cells[k]
		if a == nil {
			a = &acc{}
			cells[k] = a
		}
		a.sum += vals[i]
		a.n++
		if _, ok := rowSeen[rk[i]]; !ok {
			rowSeen[rk[i]] = struct{}{}
			out.Rows = append(out.Rows, rk[i])
		}
		if _, ok := colSeen[ck[i]]; !ok {
			colSeen[ck[i]] = struct{}{}
			out.Cols = append(out.Cols, ck[i])
		}
	}
	sort.Float64s(out.Rows)
	sort.Float64s(out.Cols)
	out.Cells = make([][]float64, len(out.Rows))
	for r, rv := range out.Rows {
		out.Cells[r] = make([]float64, len(out.Cols))
		for c, cv := range out.Cols {
			if a := cells[cell{rv, cv}]; a != nil {
				out.Cells[r][c] = a.sum / float64(a.n)
			} else {
				out.Cells[r][c] = math.NaN()
			}
		}
	}
	return out, nil
}
