package render

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

const (
	pxPerInch     = 96
	maxTickLabels = 40
)

// PNGSink writes one PNG file per chart into Dir.
type PNGSink struct {
	Dir string
	// Width and Height are in inches.
	Width  float64
	Height float64

	// Files lists the paths written so far, in render order.
	Files []string
}

// Path returns the file a chart is written to.
func (s *PNGSink) Path(c Chart) string {
	return filepath.Join(s.Dir, c.Name+".png")
}

// Render writes c to Dir/<name>.png.
func (s *PNGSink) Render(c Chart) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("mkdir chart dir: %w", err)
	}
	var buf bytes.Buffer
	if err := WritePNG(&buf, c, s.Width, s.Height); err != nil {
		return err
	}
	path := s.Path(c)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	s.Files = append(s.Files, path)
	return nil
}

// WritePNG renders c as PNG into w. Width and height are in inches; zero means 8x6.
func WritePNG(w io.Writer, c Chart, width, height float64) error {
	if width <= 0 {
		width = 8
	}
	if height <= 0 {
		height = 6
	}
	if c.Empty() {
		return savePlot(w, emptyPlot(c), width, height)
	}
	// Time axes read better through go-chart; it needs at least two points.
	if c.Kind == KindLine && len(c.Times) >= 2 && len(c.Times) == len(c.Labels) {
		var buf bytes.Buffer
		if err := timeSeriesPNG(&buf, c, width, height); err == nil {
			_, err = buf.WriteTo(w)
			return err
		}
	}
	var p *plot.Plot
	var err error
	switch c.Kind {
	case KindLine:
		p, err = linePlot(c)
	case KindBar:
		p, err = barPlot(c, false, width)
	case KindStackedBar:
		p, err = barPlot(c, true, width)
	case KindHeatmap:
		p, err = heatmapPlot(c)
	default:
		return fmt.Errorf("unsupported chart kind %q", c.Kind)
	}
	if err != nil {
		return fmt.Errorf("build %s chart %q: %w", c.Kind, c.Name, err)
	}
	return savePlot(w, p, width, height)
}

func savePlot(w io.Writer, p *plot.Plot, width, height float64) error {
	wt, err := p.WriterTo(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

func newPlot(c Chart) *plot.Plot {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.Axes.X
	p.Y.Label.Text = c.Axes.Y
	return p
}

func emptyPlot(c Chart) *plot.Plot {
	p := newPlot(c)
	p.Title.Text = c.Title + " (no data)"
	return p
}

// nominalX sets category tick labels, thinning them out when there are many.
func nominalX(p *plot.Plot, labels []string) {
	shown := labels
	if len(labels) > maxTickLabels {
		step := int(math.Ceil(float64(len(labels)) / maxTickLabels))
		shown = make([]string, len(labels))
		for i := 0; i < len(labels); i += step {
			shown[i] = labels[i]
		}
	}
	p.NominalX(shown...)
	if len(labels) > 12 {
		p.X.Tick.Label.Rotation = math.Pi / 2
		p.X.Tick.Label.XAlign = text.XRight
		p.X.Tick.Label.YAlign = text.YCenter
		p.X.Tick.Label.Font.Size = vg.Points(6)
	}
}

func linePlot(c Chart) (*plot.Plot, error) {
	p := newPlot(c)
	for i, s := range c.Series {
		pts := make(plotter.XYs, len(s.Values))
		for j, v := range s.Values {
			pts[j].X = float64(j)
			pts[j].Y = v
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		l.Color = plotutil.Color(i)
		p.Add(l)
		if len(c.Series) > 1 {
			p.Legend.Add(s.Name, l)
		}
	}
	nominalX(p, c.Labels)
	return p, nil
}

func barPlot(c Chart, stacked bool, width float64) (*plot.Plot, error) {
	p := newPlot(c)
	n := len(c.Labels)
	groups := 1
	if !stacked {
		groups = len(c.Series)
	}
	bw := vg.Length(width) * vg.Inch * 0.75 / vg.Length(n*groups)
	if bw < vg.Points(0.5) {
		bw = vg.Points(0.5)
	}
	var below *plotter.BarChart
	for i, s := range c.Series {
		bars, err := plotter.NewBarChart(plotter.Values(s.Values), bw)
		if err != nil {
			return nil, err
		}
		bars.LineStyle.Width = 0
		bars.Color = plotutil.Color(i)
		if stacked {
			if below != nil {
				bars.StackOn(below)
			}
		} else if groups > 1 {
			bars.Offset = bw * vg.Length(2*i-groups+1) / 2
		}
		p.Add(bars)
		if len(c.Series) > 1 {
			p.Legend.Add(s.Name, bars)
		}
		below = bars
	}
	p.Legend.Top = true
	nominalX(p, c.Labels)
	return p, nil
}

// gridXYZ adapts Grid to plotter.GridXYZ with cell centers on integer coordinates.
type gridXYZ struct{ g *Grid }

func (g gridXYZ) Dims() (c, r int) { return len(g.g.ColLabels), len(g.g.RowLabels) }
func (g gridXYZ) Z(c, r int) float64 { return g.g.Values[r][c] }
func (g gridXYZ) X(c int) float64 { return float64(c) }
func (g gridXYZ) Y(r int) float64 { return float64(r) }

func heatmapPlot(c Chart) (*plot.Plot, error) {
	p := newPlot(c)
	g := c.Grid
	lo, hi := math.Inf(1), math.Inf(-1)
	var xys plotter.XYs
	var labels []string
	format := g.Format
	if format == "" {
		format = "%.1f"
	}
	for r, row := range g.Values {
		for col, v := range row {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			xys = append(xys, plotter.XY{X: float64(col), Y: float64(r)})
			labels = append(labels, fmt.Sprintf(format, v))
		}
	}
	if lo == hi {
		hi = lo + 1
	}
	hm := plotter.NewHeatMap(gridXYZ{g}, palette.Heat(12, 1))
	hm.Min, hm.Max = lo, hi
	hm.NaN = color.Transparent
	p.Add(hm)

	ann, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, err
	}
	for i := range ann.TextStyle {
		ann.TextStyle[i].XAlign = text.XCenter
		ann.TextStyle[i].YAlign = text.YCenter
		ann.TextStyle[i].Font.Size = vg.Points(6)
	}
	p.Add(ann)

	p.NominalX(g.ColLabels...)
	p.NominalY(g.RowLabels...)
	return p, nil
}

func timeSeriesPNG(w io.Writer, c Chart, width, height float64) error {
	series := make([]chart.Series, 0, len(c.Series))
	for _, s := range c.Series {
		series = append(series, chart.TimeSeries{Name: s.Name, XValues: c.Times, YValues: s.Values})
	}
	ch := chart.Chart{
		Title:  c.Title,
		Width:  int(width * pxPerInch),
		Height: int(height * pxPerInch),
		XAxis:  chart.XAxis{Name: c.Axes.X, ValueFormatter: chart.TimeDateValueFormatter},
		YAxis:  chart.YAxis{Name: c.Axes.Y},
		Series: series,
	}
	if len(series) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch.Render(chart.PNG, w)
}
