// Package render turns aggregated tables into charts. A Chart is the whole
// contract between the pipeline and a presentation sink: a table, a chart kind
// and an axis mapping.
package render

import (
	"math"
	"time"
)

// Kind is the declared chart type.
type Kind string

const (
	KindLine       Kind = "line"
	KindStackedBar Kind = "stacked-bar"
	KindHeatmap    Kind = "heatmap"
	KindBar        Kind = "bar"
)

// Axes binds table columns to chart axes.
type Axes struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// Series is one named run of values aligned with Chart.Labels.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Grid is the matrix behind a heatmap; NaN cells are gaps.
type Grid struct {
	RowLabels []string    `json:"rowLabels"`
	ColLabels []string    `json:"colLabels"`
	Values    [][]float64 `json:"values"`
	// Format is the printf verb used to annotate cells, e.g. "%.1f".
	Format string `json:"format,omitempty"`
}

// Chart is a render-ready table with its kind and axis bindings.
type Chart struct {
	Name   string      `json:"name"`
	Title  string      `json:"title"`
	Kind   Kind        `json:"kind"`
	Axes   Axes        `json:"axes"`
	Labels []string    `json:"labels,omitempty"`
	Times  []time.Time `json:"times,omitempty"`
	Series []Series    `json:"series,omitempty"`
	Grid   *Grid       `json:"grid,omitempty"`
}

// Empty reports whether the chart has nothing to draw.
func (c Chart) Empty() bool {
	if c.Kind == KindHeatmap {
		if c.Grid == nil || len(c.Grid.RowLabels) == 0 || len(c.Grid.ColLabels) == 0 {
			return true
		}
		for _, row := range c.Grid.Values {
			for _, v := range row {
				if !math.IsNaN(v) {
					return false
				}
			}
		}
		return true
	}
	return len(c.Labels) == 0 || len(c.Series) == 0
}

// Sink draws charts somewhere.
type Sink interface {
	Render(c Chart) error
}
