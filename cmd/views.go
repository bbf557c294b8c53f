package cmd

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/bikedash-cli/internal/analysis"
	"github.com/KaramelBytes/bikedash-cli/internal/dashboard"
	"github.com/KaramelBytes/bikedash-cli/internal/dataset"
	"github.com/KaramelBytes/bikedash-cli/internal/render"
)

var (
	viewSeason  int
	viewWeather int
	viewHour    int
	viewPNGDir  string
	viewMaxRows int
)

var selectorsCmd = &cobra.Command{
	Use:   "selectors",
	Short: "List the season and weather values present in the data",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		render.WriteTable(out, []string{"selector", "values"}, [][]string{
			{"season", joinInts(ds.Seasons())},
			{"weather", joinInts(ds.Weathers())},
			{"hour", fmt.Sprintf("%d-%d (default %d)", dataset.MinHour, dataset.MaxHour, cfg.DefaultHour)},
		})
		return nil
	},
}

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Daily overview for one season and weather situation",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		sel := dashboard.DefaultSelection(ds)
		if cmd.Flags().Changed("season") {
			sel.Season = viewSeason
		}
		if cmd.Flags().Changed("weather") {
			sel.Weather = viewWeather
		}
		if !ds.HasSeason(sel.Season) || !ds.HasWeather(sel.Weather) {
			render.Note(cmd.ErrOrStderr(), "⚠ Warning: season %d / weather %d not present in the data", sel.Season, sel.Weather)
		}
		v, err := dashboard.Overview(ds, sel.Season, sel.Weather)
		if err != nil {
			return err
		}
		return showView(cmd, v)
	},
}

var hourlyCmd = &cobra.Command{
	Use:   "hourly",
	Short: "Rentals at one hour of day and the hour by weekday pattern",
	RunE: func(cmd *cobra.Command, args []string) error {
		hour := dataset.DefaultHour
		if cfg != nil {
			hour = cfg.DefaultHour
		}
		if cmd.Flags().Changed("hour") {
			hour = viewHour
		}
		if err := checkHour(hour); err != nil {
			return err
		}
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		v, err := dashboard.Hourly(ds, hour)
		if err != nil {
			return err
		}
		return showView(cmd, v)
	},
}

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Mean rentals by weather situation and weather correlations",
	RunE:  runStaticView(dashboard.ViewWeather),
}

var workingDayCmd = &cobra.Command{
	Use:   "workingday",
	Short: "Total rentals on weekdays vs weekends",
	RunE:  runStaticView(dashboard.ViewWorkingDay),
}

var rfmCmd = &cobra.Command{
	Use:   "rfm",
	Short: "Recency and daily count summary",
	RunE:  runStaticView(dashboard.ViewRFM),
}

func runStaticView(name string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		v, err := dashboard.Build(name, ds, dashboard.Selection{})
		if err != nil {
			return err
		}
		return showView(cmd, v)
	}
}

// showView prints every chart of v as a table and optionally writes PNGs.
func showView(cmd *cobra.Command, v dashboard.View) error {
	out := cmd.OutOrStdout()
	maxRows := cfg.MaxRows
	if cmd.Flags().Changed("max-rows") {
		maxRows = viewMaxRows
	}
	if err := dashboard.RenderAll(v, render.TermSink{W: out, MaxRows: maxRows}); err != nil {
		return err
	}
	printExtras(out, v)
	if viewPNGDir == "" {
		return nil
	}
	sink := &render.PNGSink{Dir: viewPNGDir, Width: cfg.ChartWidth, Height: cfg.ChartHeight}
	if err := dashboard.RenderAll(v, sink); err != nil {
		return err
	}
	for _, f := range sink.Files {
		fmt.Fprintf(out, "✓ Wrote %s\n", f)
	}
	return nil
}

// printExtras shows the tables a view carries beside its charts.
func printExtras(out io.Writer, v dashboard.View) {
	switch tv := v.(type) {
	case *dashboard.OverviewView:
		render.Heading(out, "Summary Statistics")
		if len(tv.Rows) == 0 {
			render.Note(out, "(no data)")
			return
		}
		header := []string{""}
		for _, c := range tv.Stats.Columns {
			header = append(header, c.Name)
		}
		render.WriteTable(out, header, tv.Stats.Rows())
	case *dashboard.RFMView:
		render.Note(out, "Correlation(recency, count): %s", formatCorr(tv.Summary.Correlation))
		render.Note(out, "Frequency and monetary both use the daily total count.")
	case *dashboard.WorkingDayView:
		var total float64
		for _, g := range tv.Totals.Groups {
			total += g.Value
		}
		render.Note(out, "Total rentals: %s", analysis.FormatNumber(total))
	}
}

func formatCorr(r float64) string {
	if math.IsNaN(r) {
		return "undefined"
	}
	return strconv.FormatFloat(r, 'f', 3, 64)
}

func joinInts(vs []int) string {
	s := ""
	for i, v := range vs {
		if i > 0 {
			s += ", "
		}
		s += strconv.Itoa(v)
	}
	return s
}

func init() {
	rootCmd.AddCommand(selectorsCmd, overviewCmd, hourlyCmd, weatherCmd, workingDayCmd, rfmCmd)

	overviewCmd.Flags().IntVar(&viewSeason, "season", 0, "season value (default: first in data)")
	overviewCmd.Flags().IntVar(&viewWeather, "weather", 0, "weather situation (default: first in data)")
	hourlyCmd.Flags().IntVar(&viewHour, "hour", dataset.DefaultHour, "hour of day 0-23 (default from config)")
	for _, c := range []*cobra.Command{overviewCmd, hourlyCmd, weatherCmd, workingDayCmd, rfmCmd} {
		c.Flags().StringVar(&viewPNGDir, "png", "", "also write PNG charts into this directory")
		c.Flags().IntVar(&viewMaxRows, "max-rows", 0, "rows printed per chart, 0 for all (default from config)")
	}
}
