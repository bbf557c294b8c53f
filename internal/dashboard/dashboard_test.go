package dashboard

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/KaramelBytes/bikedash-cli/internal/dataset"
	"github.com/KaramelBytes/bikedash-cli/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(m time.Month, d int) time.Time { return time.Date(2011, m, d, 0, 0, 0, 0, time.UTC) }

func fixture() *dataset.Dataset {
	daily := dataset.DailyTable{
		{Date: day(1, 1), Season: 1, Weather: 1, WorkingDay: 0, Weekday: 6, Temp: 0.2, ATemp: 0.21, Humidity: 0.8, Windspeed: 0.1, Casual: 4, Registered: 6, Count: 10},
		{Date: day(1, 2), Season: 1, Weather: 1, WorkingDay: 1, Weekday: 0, Temp: 0.4, ATemp: 0.38, Humidity: 0.7, Windspeed: 0.3, Casual: 5, Registered: 15, Count: 20},
		{Date: day(1, 3), Season: 1, Weather: 2, WorkingDay: 1, Weekday: 1, Temp: 0.1, ATemp: 0.12, Humidity: 0.9, Windspeed: 0.2, Casual: 1, Registered: 4, Count: 5},
		{Date: day(4, 1), Season: 2, Weather: 1, WorkingDay: 0, Weekday: 5, Temp: 0.3, ATemp: 0.31, Humidity: 0.6, Windspeed: 0.4, Casual: 2, Registered: 5, Count: 7},
	}
	hourly := dataset.HourlyTable{
		{DailyRecord: dataset.DailyRecord{Date: day(1, 1), Weekday: 6, Count: 3}, Hour: 0},
		{DailyRecord: dataset.DailyRecord{Date: day(1, 1), Weekday: 6, Count: 9}, Hour: 12},
		{DailyRecord: dataset.DailyRecord{Date: day(1, 2), Weekday: 0, Count: 4}, Hour: 12},
		{DailyRecord: dataset.DailyRecord{Date: day(1, 8), Weekday: 6, Count: 11}, Hour: 12},
	}
	return dataset.New(daily, hourly)
}

func TestDefaultSelection(t *testing.T) {
	sel := DefaultSelection(fixture())
	assert.Equal(t, Selection{Season: 1, Weather: 1, Hour: dataset.DefaultHour}, sel)
}

func TestOverview(t *testing.T) {
	v, err := Overview(fixture(), 1, 1)
	require.NoError(t, err)
	require.Len(t, v.Rows, 2)

	charts := v.Charts()
	require.Len(t, charts, 2)
	line := charts[0]
	assert.Equal(t, render.KindLine, line.Kind)
	assert.Equal(t, []string{"2011-01-01", "2011-01-02"}, line.Labels)
	assert.Equal(t, []float64{10, 20}, line.Series[0].Values)
	assert.Len(t, line.Times, 2)

	bars := charts[1]
	assert.Equal(t, render.KindStackedBar, bars.Kind)
	require.Len(t, bars.Series, 2)
	assert.Equal(t, []float64{4, 5}, bars.Series[0].Values)
	assert.Equal(t, []float64{6, 15}, bars.Series[1].Values)

	require.Len(t, v.Stats.Columns, len(SummaryColumns))
	cnt := v.Stats.Columns[3]
	assert.Equal(t, 2, cnt.Count)
	assert.InDelta(t, 15, cnt.Mean, 1e-9)
	assert.Contains(t, v.Markdown(), "Matching days: 2")
}

func TestOverviewAbsentSelection(t *testing.T) {
	v, err := Overview(fixture(), 4, 3)
	require.NoError(t, err)
	assert.Empty(t, v.Rows)
	for _, c := range v.Charts() {
		assert.True(t, c.Empty(), c.Name)
	}
	assert.Contains(t, v.Markdown(), "(no data)")
}

func TestHourly(t *testing.T) {
	v, err := Hourly(fixture(), 12)
	require.NoError(t, err)
	assert.Len(t, v.Rows, 3)

	charts := v.Charts()
	require.Len(t, charts, 2)
	assert.Equal(t, []float64{9, 4, 11}, charts[0].Series[0].Values)

	heat := charts[1]
	assert.Equal(t, render.KindHeatmap, heat.Kind)
	assert.Equal(t, []string{"0", "12"}, heat.Grid.RowLabels)
	assert.Equal(t, []string{"0", "6"}, heat.Grid.ColLabels)
	assert.True(t, math.IsNaN(heat.Grid.Values[0][0]))
	assert.Equal(t, 3.0, heat.Grid.Values[0][1])
	assert.Equal(t, 4.0, heat.Grid.Values[1][0])
	assert.Equal(t, 10.0, heat.Grid.Values[1][1])
}

func TestHourlyNoReadings(t *testing.T) {
	v, err := Hourly(fixture(), 23)
	require.NoError(t, err)
	assert.Empty(t, v.Rows)
	assert.True(t, v.Charts()[0].Empty())
	assert.False(t, v.Charts()[1].Empty())
}

func TestWeatherImpact(t *testing.T) {
	v, err := WeatherImpact(fixture())
	require.NoError(t, err)
	charts := v.Charts()
	require.Len(t, charts, 2)
	assert.Equal(t, []string{"1", "2"}, charts[0].Labels)
	assert.InDelta(t, 37.0/3, charts[0].Series[0].Values[0], 1e-9)
	assert.Equal(t, 5.0, charts[0].Series[0].Values[1])

	corr := charts[1].Grid
	require.Len(t, corr.RowLabels, len(WeatherColumns))
	for i := range corr.Values {
		assert.Equal(t, 1.0, corr.Values[i][i])
	}
}

func TestWorkingDay(t *testing.T) {
	v, err := WorkingDay(fixture())
	require.NoError(t, err)
	c := v.Charts()[0]
	assert.Equal(t, []string{"Weekend", "Weekday"}, c.Labels)
	assert.Equal(t, []float64{17, 25}, c.Series[0].Values)
	assert.Equal(t, 42.0, c.Series[0].Values[0]+c.Series[0].Values[1])
}

func TestRFM(t *testing.T) {
	v, err := RFM(fixture())
	require.NoError(t, err)
	c := v.Charts()[0]
	assert.Equal(t, []string{"0", "88", "89", "90"}, c.Labels)
	assert.Equal(t, []float64{7, 5, 20, 10}, c.Series[0].Values)
	assert.Contains(t, v.Markdown(), "[RFM]")
}

func TestBuildAndFindChart(t *testing.T) {
	ds := fixture()
	views, err := BuildAll(ds, DefaultSelection(ds))
	require.NoError(t, err)
	require.Len(t, views, len(Names))
	for i, v := range views {
		assert.Equal(t, Names[i], v.Name())
	}

	_, err = Build("nope", ds, Selection{})
	assert.True(t, errors.Is(err, ErrUnknownView))

	c, ok := FindChart(views[1], "heatmap")
	require.True(t, ok)
	assert.Equal(t, "hourly-heatmap", c.Name)
	_, ok = FindChart(views[1], "users")
	assert.False(t, ok)
}

func TestRenderAll(t *testing.T) {
	v, err := WorkingDay(fixture())
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, RenderAll(v, render.TermSink{W: &buf}))
	assert.Contains(t, buf.String(), "Weekday")
}
