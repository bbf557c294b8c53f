// Package dashboard assembles the dashboard tabs. Each view runs a fixed
// filter, aggregate and chart sequence over a shared read-only dataset.
package dashboard

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/bikedash-cli/internal/dataset"
	"github.com/KaramelBytes/bikedash-cli/internal/render"
)

// ErrUnknownView is returned by Build for names outside Names.
var ErrUnknownView = errors.New("unknown view")

// View names, in tab order.
const (
	ViewOverview   = "overview"
	ViewHourly     = "hourly"
	ViewWeather    = "weather"
	ViewWorkingDay = "workingday"
	ViewRFM        = "rfm"
)

// Names lists every view in tab order.
var Names = []string{ViewOverview, ViewHourly, ViewWeather, ViewWorkingDay, ViewRFM}

// View is one computed dashboard tab.
type View interface {
	Name() string
	Title() string
	Charts() []render.Chart
	// Markdown renders the view's tables for reports.
	Markdown() string
}

// Selection holds the sidebar filters and the hour slider.
type Selection struct {
	Season  int `json:"season" yaml:"season"`
	Weather int `json:"weather" yaml:"weather"`
	Hour    int `json:"hour" yaml:"hour"`
}

// DefaultSelection picks the first season and weather present in ds and the default hour.
func DefaultSelection(ds *dataset.Dataset) Selection {
	sel := Selection{Hour: dataset.DefaultHour}
	if s := ds.Seasons(); len(s) > 0 {
		sel.Season = s[0]
	}
	if w := ds.Weathers(); len(w) > 0 {
		sel.Weather = w[0]
	}
	return sel
}

// Build computes the named view for sel. Views that do not filter ignore sel.
func Build(name string, ds *dataset.Dataset, sel Selection) (View, error) {
	switch name {
	case ViewOverview:
		return Overview(ds, sel.Season, sel.Weather)
	case ViewHourly:
		return Hourly(ds, sel.Hour)
	case ViewWeather:
		return WeatherImpact(ds)
	case ViewWorkingDay:
		return WorkingDay(ds)
	case ViewRFM:
		return RFM(ds)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownView, name)
}

// BuildAll computes every view in tab order.
func BuildAll(ds *dataset.Dataset, sel Selection) ([]View, error) {
	out := make([]View, 0, len(Names))
	for _, name := range Names {
		v, err := Build(name, ds, sel)
		if err != nil {
			return nil, fmt.Errorf("build %s view: %w", name, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// FindChart returns the chart of v named "<view>-<short>".
func FindChart(v View, short string) (render.Chart, bool) {
	want := chartName(v.Name(), short)
	for _, c := range v.Charts() {
		if c.Name == want {
			return c, true
		}
	}
	return render.Chart{}, false
}

// RenderAll sends every chart of v to sink, stopping at the first error.
func RenderAll(v View, sink render.Sink) error {
	for _, c := range v.Charts() {
		if err := sink.Render(c); err != nil {
			return fmt.Errorf("render %s: %w", c.Name, err)
		}
	}
	return nil
}

func chartName(view, short string) string { return view + "-" + short }
