package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Markdown renders the group summary as a bullet list under a section header.
func (s GroupSummary) Markdown(title string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]\n", strings.ToUpper(safeName(title))))
	if s.Len() == 0 {
		b.WriteString("(no data)\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("%s of %s by %s\n", s.Agg, s.ValueColumn, s.KeyColumn))
	for _, g := range s.Groups {
		b.WriteString(fmt.Sprintf("- %s (n=%d): %s\n", safeVal(g.Label), g.Count, fmtNum(g.Value)))
	}
	return b.String()
}

// Markdown renders the pivot as a markdown table; gaps render as blank cells.
func (p PivotTable) Markdown(title string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]\n", strings.ToUpper(safeName(title))))
	if p.Empty() {
		b.WriteString("(no data)\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("mean %s by %s (rows) and %s (columns)\n\n", p.ValueColumn, p.RowKey, p.ColKey))
	b.WriteString("| " + p.RowKey)
	for _, c := range p.Cols {
		b.WriteString(" | " + NumberLabel(c))
	}
	b.WriteString(" |\n|---")
	for range p.Cols {
		b.WriteString("|---")
	}
	b.WriteString("|\n")
	for r, rv := range p.Rows {
		b.WriteString("| " + NumberLabel(rv))
		for c := range p.Cols {
			v := p.Cells[r][c]
			if math.IsNaN(v) {
				b.WriteString(" | ")
				continue
			}
			b.WriteString(fmt.Sprintf(" | %.1f", v))
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

// Markdown lists the strongest correlation pairs (by |r|) followed by the full matrix.
func (m *CorrMatrix) Markdown(title string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]\n", strings.ToUpper(safeName(title))))
	if m.Len() == 0 {
		b.WriteString("(no data)\n")
		return b.String()
	}
	type pr struct {
		A, B string
		R    float64
	}
	var pairs []pr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if math.IsNaN(m.Values[i][j]) {
				continue
			}
			pairs = append(pairs, pr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai := math.Abs(pairs[i].R)
		aj := math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	maxp := 10
	if len(pairs) < maxp {
		maxp = len(pairs)
	}
	for i := 0; i < maxp; i++ {
		b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", pairs[i].A, pairs[i].B, pairs[i].R))
	}
	b.WriteString("\n| ")
	for _, c := range m.Columns {
		b.WriteString(" | " + c)
	}
	b.WriteString(" |\n|---")
	for range m.Columns {
		b.WriteString("|---")
	}
	b.WriteString("|\n")
	for i, c := range m.Columns {
		b.WriteString("| " + c)
		for j := range m.Columns {
			b.WriteString(" | " + fmtCorr(m.Values[i][j]))
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

// Markdown renders the RFM table, capped at maxRows most recent dates (0 = all).
func (s RFMSummary) Markdown(title string, maxRows int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]\n", strings.ToUpper(safeName(title))))
	if s.Len() == 0 {
		b.WriteString("(no data)\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Dates: %d\n", s.Len()))
	b.WriteString(fmt.Sprintf("Correlation(recency, count): %s\n", fmtCorr(s.Correlation)))
	b.WriteString("Note: frequency and monetary both use the daily total count.\n\n")
	b.WriteString("| date | recency | frequency | monetary |\n|---|---|---|---|\n")
	rows := s.Rows
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[len(rows)-maxRows:]
	}
	for i := len(rows) - 1; i >= 0; i-- {
		r := rows[i]
		b.WriteString(fmt.Sprintf("| %s | %d | %s | %s |\n", r.Date.Format("2006-01-02"), r.Recency, fmtNum(r.Frequency), fmtNum(r.Monetary)))
	}
	return b.String()
}

// Markdown renders the describe table with statistics as rows and columns as columns.
func (d Description) Markdown(title string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]\n", strings.ToUpper(safeName(title))))
	if len(d.Columns) == 0 || d.Columns[0].Count == 0 {
		b.WriteString("(no data)\n")
		return b.String()
	}
	b.WriteString("| ")
	for _, c := range d.Columns {
		b.WriteString(" | " + safeName(c.Name))
	}
	b.WriteString(" |\n|---")
	for range d.Columns {
		b.WriteString("|---")
	}
	b.WriteString("|\n")
	for _, row := range d.Rows() {
		b.WriteString("| " + row[0])
		for _, v := range row[1:] {
			b.WriteString(" | " + v)
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

// Rows returns the describe table as text rows: stat name followed by one value per column.
func (d Description) Rows() [][]string {
	stats := []struct {
		name string
		get  func(ColumnStats) float64
	}{
		{"count", func(c ColumnStats) float64 { return float64(c.Count) }},
		{"mean", func(c ColumnStats) float64 { return c.Mean }},
		{"std", func(c ColumnStats) float64 { return c.Std }},
		{"min", func(c ColumnStats) float64 { return c.Min }},
		{"25%", func(c ColumnStats) float64 { return c.P25 }},
		{"50%", func(c ColumnStats) float64 { return c.P50 }},
		{"75%", func(c ColumnStats) float64 { return c.P75 }},
		{"max", func(c ColumnStats) float64 { return c.Max }},
	}
	out := make([][]string, 0, len(stats))
	for _, st := range stats {
		row := []string{st.name}
		for _, c := range d.Columns {
			row = append(row, fmtNum(st.get(c)))
		}
		out = append(out, row)
	}
	return out
}

func fmtNum(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.4g", v)
}

// FormatNumber renders integral values without exponent and others with 4 significant digits.
func FormatNumber(v float64) string { return fmtNum(v) }

func fmtCorr(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.3f", v)
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}
func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
