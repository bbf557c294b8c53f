package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/bikedash-cli/internal/config"
	"github.com/KaramelBytes/bikedash-cli/internal/dataset"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Input overrides (take precedence over config)
	flagDayPath  string
	flagHourPath string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "bikedash",
	Short: "bikedash: bike sharing dashboard in your terminal, browser or a report",
	Long: `bikedash loads the daily and hourly bike sharing tables and renders the
dashboard tabs (overview, hourly analysis, weather impact, working day, RFM)
as terminal tables, PNG charts, an HTTP dashboard or a markdown report.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.bikedash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagDayPath, "day", "", "daily table (.csv, .tsv or .xlsx; overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagHourPath, "hour-file", "", "hourly table (.csv, .tsv or .xlsx; overrides config)")
}

func loadConfig() {
	if path, err := cfgpkg.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
	} else if path != "" {
		debugf("loaded environment from %s", path)
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: config commands can still repair the file
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("day") && flagDayPath != "" {
		cfg.DayPath = flagDayPath
	}
	if f.Changed("hour-file") && flagHourPath != "" {
		cfg.HourPath = flagHourPath
	}
}

func debugf(format string, args ...interface{}) {
	if debug {
		fmt.Fprintf(os.Stderr, "[debug] "+format+"\n", args...)
	}
}

// loadDataset reads both input tables named by the effective configuration.
func loadDataset() (*dataset.Dataset, error) {
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	start := time.Now()
	daily, err := dataset.LoadDaily(cfg.DayPath, cfg.DatasetOptions(cfg.DaySheet))
	if err != nil {
		return nil, fmt.Errorf("load daily table: %w", err)
	}
	hourly, err := dataset.LoadHourly(cfg.HourPath, cfg.DatasetOptions(cfg.HourSheet))
	if err != nil {
		return nil, fmt.Errorf("load hourly table: %w", err)
	}
	ds := dataset.New(daily, hourly)
	debugf("loaded %d daily rows from %s and %d hourly rows from %s in %s",
		len(daily), cfg.DayPath, len(hourly), cfg.HourPath, time.Since(start).Round(time.Millisecond))
	return ds, nil
}

// checkHour enforces the hour slider bounds.
func checkHour(h int) error {
	if h < dataset.MinHour || h > dataset.MaxHour {
		return fmt.Errorf("--hour must be between %d and %d, got %d", dataset.MinHour, dataset.MaxHour, h)
	}
	return nil
}
