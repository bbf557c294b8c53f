package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/bikedash-cli/internal/dashboard"
	"github.com/KaramelBytes/bikedash-cli/internal/render"
	"github.com/KaramelBytes/bikedash-cli/internal/report"
)

var (
	reportOut     string
	reportSeason  int
	reportWeather int
	reportHour    int
	reportNoPNG   bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export every dashboard tab as markdown plus PNG charts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		sel := dashboard.DefaultSelection(ds)
		sel.Hour = cfg.DefaultHour
		f := cmd.Flags()
		if f.Changed("season") {
			sel.Season = reportSeason
		}
		if f.Changed("weather") {
			sel.Weather = reportWeather
		}
		if f.Changed("hour") {
			sel.Hour = reportHour
		}
		if err := checkHour(sel.Hour); err != nil {
			return err
		}
		dir := reportOut
		if dir == "" {
			dir = cfg.OutputDir
		}
		var sink render.Sink
		if !reportNoPNG {
			sink = &render.PNGSink{Dir: filepath.Join(dir, "charts"), Width: cfg.ChartWidth, Height: cfg.ChartHeight}
		}
		m, err := report.Write(dir, ds, sel, sink)
		if err != nil {
			return err
		}
		debugf("report %s: %d files", m.ID, len(m.Files))
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Report written to %s (id %s, %d files)\n", dir, m.ID, len(m.Files))
		return nil
	},
}

var reportShowCmd = &cobra.Command{
	Use:   "show <dir>",
	Short: "Show the manifest of an exported report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := report.LoadManifest(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "id: %s\n", m.ID)
		fmt.Fprintf(out, "created_at: %s\n", m.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(out, "selection: season=%d weather=%d hour=%d\n", m.Selection.Season, m.Selection.Weather, m.Selection.Hour)
		for _, f := range m.Files {
			fmt.Fprintf(out, "  - %s\n", f)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportShowCmd)
	reportCmd.Flags().StringVarP(&reportOut, "output", "o", "", "output directory (default from config)")
	reportCmd.Flags().IntVar(&reportSeason, "season", 0, "season for the overview tab (default: first in data)")
	reportCmd.Flags().IntVar(&reportWeather, "weather", 0, "weather situation for the overview tab (default: first in data)")
	reportCmd.Flags().IntVar(&reportHour, "hour", 0, "hour for the hourly tab (default from config)")
	reportCmd.Flags().BoolVar(&reportNoPNG, "no-png", false, "skip chart images")
}
