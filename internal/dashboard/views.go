package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/bikedash-cli/internal/analysis"
	"github.com/KaramelBytes/bikedash-cli/internal/dataset"
	"github.com/KaramelBytes/bikedash-cli/internal/render"
)

const dateLayout = "2006-01-02"

// SummaryColumns are described on the overview tab.
var SummaryColumns = []string{dataset.ColTemp, dataset.ColHumidity, dataset.ColWindspeed, dataset.ColCount}

// WeatherColumns feed the weather correlation matrix.
var WeatherColumns = []string{dataset.ColTemp, dataset.ColATemp, dataset.ColHumidity, dataset.ColWindspeed, dataset.ColCount}

// OverviewView is the daily overview for one (season, weather) pair.
type OverviewView struct {
	Season  int
	Weather int
	Rows    dataset.DailyTable
	Stats   analysis.Description
}

// Overview filters the daily table and describes the result.
func Overview(ds *dataset.Dataset, season, weather int) (*OverviewView, error) {
	rows := analysis.FilterDaily(ds.Daily, season, weather)
	stats, err := analysis.Describe(rows, SummaryColumns)
	if err != nil {
		return nil, err
	}
	return &OverviewView{Season: season, Weather: weather, Rows: rows, Stats: stats}, nil
}

func (v *OverviewView) Name() string { return ViewOverview }

func (v *OverviewView) Title() string {
	return fmt.Sprintf("Daily Overview for season %d with weather %d", v.Season, v.Weather)
}

func (v *OverviewView) Charts() []render.Chart {
	labels := make([]string, len(v.Rows))
	times := make([]time.Time, len(v.Rows))
	cnt := make([]float64, len(v.Rows))
	casual := make([]float64, len(v.Rows))
	registered := make([]float64, len(v.Rows))
	for i, r := range v.Rows {
		labels[i] = r.Date.Format(dateLayout)
		times[i] = r.Date
		cnt[i] = float64(r.Count)
		casual[i] = float64(r.Casual)
		registered[i] = float64(r.Registered)
	}
	return []render.Chart{
		{
			Name:   chartName(ViewOverview, "count"),
			Title:  v.Title(),
			Kind:   render.KindLine,
			Axes:   render.Axes{X: dataset.ColDate, Y: dataset.ColCount},
			Labels: labels,
			Times:  times,
			Series: []render.Series{{Name: dataset.ColCount, Values: cnt}},
		},
		{
			Name:   chartName(ViewOverview, "users"),
			Title:  "Casual vs Registered Users",
			Kind:   render.KindStackedBar,
			Axes:   render.Axes{X: dataset.ColDate, Y: "users"},
			Labels: labels,
			Series: []render.Series{
				{Name: dataset.ColCasual, Values: casual},
				{Name: dataset.ColRegistered, Values: registered},
			},
		},
	}
}

func (v *OverviewView) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Matching days: %d\n\n", len(v.Rows)))
	b.WriteString(v.Stats.Markdown("Summary Statistics"))
	return b.String()
}

// HourlyView holds the rows at one hour and the hour by weekday pattern of the whole table.
type HourlyView struct {
	Hour    int
	Rows    dataset.HourlyTable
	Pattern analysis.PivotTable
}

// Hourly filters the hourly table to hour and pivots mean cnt by hr and weekday.
// The hour is not range checked here.
func Hourly(ds *dataset.Dataset, hour int) (*HourlyView, error) {
	pattern, err := analysis.PivotMean(ds.Hourly, dataset.ColHour, dataset.ColWeekday, dataset.ColCount)
	if err != nil {
		return nil, err
	}
	return &HourlyView{Hour: hour, Rows: analysis.FilterHourly(ds.Hourly, hour), Pattern: pattern}, nil
}

func (v *HourlyView) Name() string { return ViewHourly }

func (v *HourlyView) Title() string { return fmt.Sprintf("Hourly Analysis at %02d:00", v.Hour) }

func (v *HourlyView) Charts() []render.Chart {
	labels := make([]string, len(v.Rows))
	times := make([]time.Time, len(v.Rows))
	cnt := make([]float64, len(v.Rows))
	for i, r := range v.Rows {
		labels[i] = r.Date.Format(dateLayout)
		times[i] = r.Date
		cnt[i] = float64(r.Count)
	}
	return []render.Chart{
		{
			Name:   chartName(ViewHourly, "count"),
			Title:  v.Title(),
			Kind:   render.KindLine,
			Axes:   render.Axes{X: dataset.ColDate, Y: dataset.ColCount},
			Labels: labels,
			Times:  times,
			Series: []render.Series{{Name: dataset.ColCount, Values: cnt}},
		},
		{
			Name:  chartName(ViewHourly, "heatmap"),
			Title: "Hourly Rental Patterns",
			Kind:  render.KindHeatmap,
			Axes:  render.Axes{X: dataset.ColWeekday, Y: dataset.ColHour},
			Grid: &render.Grid{
				RowLabels: numberLabels(v.Pattern.Rows),
				ColLabels: numberLabels(v.Pattern.Cols),
				Values:    v.Pattern.Cells,
				Format:    "%.1f",
			},
		},
	}
}

func (v *HourlyView) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Days with a reading at hour %d: %d\n\n", v.Hour, len(v.Rows)))
	b.WriteString(v.Pattern.Markdown("Hourly Rental Patterns"))
	return b.String()
}

// WeatherView is the weather impact tab over the whole daily table.
type WeatherView struct {
	Means analysis.GroupSummary
	Corr  *analysis.CorrMatrix
}

// WeatherImpact averages cnt per weather situation and correlates the weather columns.
func WeatherImpact(ds *dataset.Dataset) (*WeatherView, error) {
	means, err := analysis.GroupMean(ds.Daily, dataset.ColWeather, dataset.ColCount, nil)
	if err != nil {
		return nil, err
	}
	corr, err := analysis.Correlate(ds.Daily, WeatherColumns)
	if err != nil {
		return nil, err
	}
	return &WeatherView{Means: means, Corr: corr}, nil
}

func (v *WeatherView) Name() string { return ViewWeather }

func (v *WeatherView) Title() string { return "Impact of Weather on Rentals" }

func (v *WeatherView) Charts() []render.Chart {
	return []render.Chart{
		groupChart(chartName(ViewWeather, "mean"), "Average Bike Rentals by Weather Condition", v.Means),
		{
			Name:  chartName(ViewWeather, "corr"),
			Title: "Correlation of Weather Variables",
			Kind:  render.KindHeatmap,
			Grid: &render.Grid{
				RowLabels: v.Corr.Columns,
				ColLabels: v.Corr.Columns,
				Values:    v.Corr.Values,
				Format:    "%.2f",
			},
		},
	}
}

func (v *WeatherView) Markdown() string {
	return v.Means.Markdown("Average Rentals by Weather") + "\n" + v.Corr.Markdown("Correlation of Weather Variables")
}

// WorkingDayView is total rentals split into weekday and weekend.
type WorkingDayView struct {
	Totals analysis.GroupSummary
}

// WorkingDay sums cnt over the working-day partition of the daily table.
func WorkingDay(ds *dataset.Dataset) (*WorkingDayView, error) {
	totals, err := analysis.GroupSum(ds.Daily, dataset.ColWorkingDay, dataset.ColCount, analysis.WorkingDayLabel)
	if err != nil {
		return nil, err
	}
	return &WorkingDayView{Totals: totals}, nil
}

func (v *WorkingDayView) Name() string { return ViewWorkingDay }

func (v *WorkingDayView) Title() string { return "Total Rentals: Weekday vs Weekend" }

func (v *WorkingDayView) Charts() []render.Chart {
	return []render.Chart{groupChart(chartName(ViewWorkingDay, "total"), v.Title(), v.Totals)}
}

func (v *WorkingDayView) Markdown() string { return v.Totals.Markdown(v.Title()) }

// RFMView is the recency and count summary per date.
type RFMView struct {
	Summary analysis.RFMSummary
}

// RFM computes the per-date recency table over the daily table.
func RFM(ds *dataset.Dataset) (*RFMView, error) {
	s, err := analysis.ComputeRFM(ds.Daily)
	if err != nil {
		return nil, err
	}
	return &RFMView{Summary: s}, nil
}

func (v *RFMView) Name() string { return ViewRFM }

func (v *RFMView) Title() string { return "Recency and Daily Rentals" }

// Charts plots count against recency, most recent day first.
func (v *RFMView) Charts() []render.Chart {
	rows := v.Summary.Rows
	labels := make([]string, len(rows))
	cnt := make([]float64, len(rows))
	for i := range rows {
		r := rows[len(rows)-1-i]
		labels[i] = strconv.Itoa(r.Recency)
		cnt[i] = r.Monetary
	}
	return []render.Chart{{
		Name:   chartName(ViewRFM, "recency"),
		Title:  v.Title(),
		Kind:   render.KindLine,
		Axes:   render.Axes{X: "recency", Y: dataset.ColCount},
		Labels: labels,
		Series: []render.Series{{Name: dataset.ColCount, Values: cnt}},
	}}
}

func (v *RFMView) Markdown() string { return v.Summary.Markdown("RFM", 30) }

func groupChart(name, title string, s analysis.GroupSummary) render.Chart {
	labels := make([]string, len(s.Groups))
	vals := make([]float64, len(s.Groups))
	for i, g := range s.Groups {
		labels[i] = g.Label
		vals[i] = g.Value
	}
	return render.Chart{
		Name:   name,
		Title:  title,
		Kind:   render.KindBar,
		Axes:   render.Axes{X: s.KeyColumn, Y: s.ValueColumn},
		Labels: labels,
		Series: []render.Series{{Name: s.Agg + " " + s.ValueColumn, Values: vals}},
	}
}

func numberLabels(keys []float64) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = analysis.NumberLabel(k)
	}
	return out
}
