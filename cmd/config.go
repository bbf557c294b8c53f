package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/bikedash-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set bikedash configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "day_path: %s\n", cfg.DayPath)
		fmt.Fprintf(out, "hour_path: %s\n", cfg.HourPath)
		if cfg.DaySheet != "" {
			fmt.Fprintf(out, "day_sheet: %s\n", cfg.DaySheet)
		}
		if cfg.HourSheet != "" {
			fmt.Fprintf(out, "hour_sheet: %s\n", cfg.HourSheet)
		}
		if cfg.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", cfg.Delimiter)
		}
		fmt.Fprintf(out, "output_dir: %s\n", cfg.OutputDir)
		fmt.Fprintf(out, "chart_width: %.2f\n", cfg.ChartWidth)
		fmt.Fprintf(out, "chart_height: %.2f\n", cfg.ChartHeight)
		fmt.Fprintf(out, "max_rows: %d\n", cfg.MaxRows)
		fmt.Fprintf(out, "listen_addr: %s\n", cfg.ListenAddr)
		fmt.Fprintf(out, "default_hour: %d\n", cfg.DefaultHour)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "day_path":
			cfg.DayPath = val
		case "hour_path":
			cfg.HourPath = val
		case "day_sheet":
			cfg.DaySheet = val
		case "hour_sheet":
			cfg.HourSheet = val
		case "delimiter":
			cfg.Delimiter = val
		case "output_dir":
			cfg.OutputDir = val
		case "chart_width", "chart_height":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid size for %s: %v", key, val)
			}
			if key == "chart_width" {
				cfg.ChartWidth = f
			} else {
				cfg.ChartHeight = f
			}
		case "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_rows: %v", val)
			}
			cfg.MaxRows = i
		case "listen_addr":
			cfg.ListenAddr = val
		case "default_hour":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for default_hour: %w", err)
			}
			if err := checkHour(i); err != nil {
				return err
			}
			cfg.DefaultHour = i
		default:
			return fmt.Errorf("unknown key: %s (known: %v)", key, cfgpkg.Keys)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
