package render

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sampleCharts() []Chart {
	d0 := time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC)
	return []Chart{
		{
			Name: "line", Title: "Rentals", Kind: KindLine,
			Axes:   Axes{X: "dteday", Y: "cnt"},
			Labels: []string{"2011-01-01", "2011-01-02", "2011-01-03"},
			Times:  []time.Time{d0, d0.AddDate(0, 0, 1), d0.AddDate(0, 0, 2)},
			Series: []Series{{Name: "cnt", Values: []float64{10, 20, 15}}},
		},
		{
			Name: "line-nominal", Title: "By hour", Kind: KindLine,
			Axes:   Axes{X: "hr", Y: "cnt"},
			Labels: []string{"0", "1"},
			Series: []Series{{Name: "cnt", Values: []float64{3, 8}}},
		},
		{
			Name: "stacked", Title: "Users", Kind: KindStackedBar,
			Axes:   Axes{X: "dteday", Y: "users"},
			Labels: []string{"a", "b"},
			Series: []Series{
				{Name: "casual", Values: []float64{1, 2}},
				{Name: "registered", Values: []float64{5, 6}},
			},
		},
		{
			Name: "bar", Title: "Mean by weather", Kind: KindBar,
			Axes:   Axes{X: "weathersit", Y: "cnt"},
			Labels: []string{"1", "2", "3"},
			Series: []Series{{Name: "cnt", Values: []float64{30, 20, 5}}},
		},
		{
			Name: "heat", Title: "Pivot", Kind: KindHeatmap,
			Axes: Axes{X: "weekday", Y: "hr"},
			Grid: &Grid{
				RowLabels: []string{"0", "1"},
				ColLabels: []string{"0", "1", "2"},
				Values:    [][]float64{{1, 2, math.NaN()}, {4, 5, 6}},
				Format:    "%.1f",
			},
		},
	}
}

func TestChartEmpty(t *testing.T) {
	assert.True(t, Chart{Kind: KindLine}.Empty())
	assert.True(t, Chart{Kind: KindBar, Labels: []string{"a"}}.Empty())
	assert.True(t, Chart{Kind: KindHeatmap}.Empty())
	assert.True(t, Chart{Kind: KindHeatmap, Grid: &Grid{
		RowLabels: []string{"r"}, ColLabels: []string{"c"},
		Values: [][]float64{{math.NaN()}},
	}}.Empty())
	for _, c := range sampleCharts() {
		assert.False(t, c.Empty(), c.Name)
	}
}

func TestPNGSinkWritesEveryKind(t *testing.T) {
	dir := t.TempDir()
	sink := &PNGSink{Dir: filepath.Join(dir, "charts"), Width: 4, Height: 3}
	charts := append(sampleCharts(), Chart{Name: "nothing", Title: "Empty", Kind: KindLine})
	for _, c := range charts {
		require.NoError(t, sink.Render(c), c.Name)
	}
	require.Len(t, sink.Files, len(charts))
	for i, c := range charts {
		assert.Equal(t, sink.Path(c), sink.Files[i])
		b, err := os.ReadFile(sink.Files[i])
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(b, pngMagic), "%s is not a PNG", c.Name)
	}
}

func TestWritePNGUnknownKind(t *testing.T) {
	var buf bytes.Buffer
	err := WritePNG(&buf, Chart{Name: "x", Kind: "pie", Labels: []string{"a"}, Series: []Series{{Values: []float64{1}}}}, 0, 0)
	assert.Error(t, err)
}

func TestTermSink(t *testing.T) {
	var buf bytes.Buffer
	sink := TermSink{W: &buf}
	for _, c := range sampleCharts() {
		require.NoError(t, sink.Render(c))
	}
	require.NoError(t, sink.Render(Chart{Name: "e", Title: "Nothing here", Kind: KindBar}))
	out := buf.String()
	assert.Contains(t, out, "Rentals [line]")
	assert.Contains(t, out, "registered")
	assert.Contains(t, out, "5.0")
	assert.Contains(t, out, "Nothing here [bar]")
	assert.Contains(t, out, "(no data)")
}

func TestTermSinkMaxRows(t *testing.T) {
	var buf bytes.Buffer
	sink := TermSink{W: &buf, MaxRows: 1}
	require.NoError(t, sink.Render(sampleCharts()[3]))
	out := buf.String()
	assert.Contains(t, out, "showing 1 of 3 rows")
	assert.NotContains(t, out, " 5 |")
}
