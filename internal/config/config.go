package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/bikedash-cli/internal/dataset"
	"github.com/KaramelBytes/bikedash-cli/internal/utils"
)

const (
	dirName    = ".bikedash"
	envPrefix  = "BIKEDASH"
	configName = "config"
)

// Global configuration structure.
type Global struct {
	DayPath  string `mapstructure:"day_path" yaml:"day_path"`
	HourPath string `mapstructure:"hour_path" yaml:"hour_path"`
	// Sheet names for .xlsx inputs; empty means the first sheet.
	DaySheet  string `mapstructure:"day_sheet" yaml:"day_sheet"`
	HourSheet string `mapstructure:"hour_sheet" yaml:"hour_sheet"`
	// Delimiter overrides the extension default for delimited files.
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`

	OutputDir   string  `mapstructure:"output_dir" yaml:"output_dir"`
	ChartWidth  float64 `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight float64 `mapstructure:"chart_height" yaml:"chart_height"`
	MaxRows     int     `mapstructure:"max_rows" yaml:"max_rows"`

	ListenAddr  string `mapstructure:"listen_addr" yaml:"listen_addr"`
	DefaultHour int    `mapstructure:"default_hour" yaml:"default_hour"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"day_path", "hour_path", "day_sheet", "hour_sheet", "delimiter",
	"output_dir", "chart_width", "chart_height", "max_rows",
	"listen_addr", "default_hour",
}

// Dir returns ~/.bikedash.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.bikedash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, configName+".yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// LoadDotEnv loads the nearest .env above the working directory into the
// process environment. Variables already set win. A missing file is not an error.
func LoadDotEnv() (string, error) {
	path, err := utils.FindUp("", ".env")
	if errors.Is(err, utils.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if err := godotenv.Load(path); err != nil {
		return "", fmt.Errorf("load %s: %w", path, err)
	}
	return path, nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("day_path", filepath.Join("data", "day_preprocessed.csv"))
	v.SetDefault("hour_path", filepath.Join("data", "hour_preprocessed.csv"))
	v.SetDefault("day_sheet", "")
	v.SetDefault("hour_sheet", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("output_dir", "bikedash-report")
	v.SetDefault("chart_width", 8.0)
	v.SetDefault("chart_height", 6.0)
	v.SetDefault("max_rows", 25)
	v.SetDefault("listen_addr", "127.0.0.1:8050")
	v.SetDefault("default_hour", dataset.DefaultHour)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks value ranges that would otherwise surface late.
func (c *Global) Validate() error {
	if c.DefaultHour < dataset.MinHour || c.DefaultHour > dataset.MaxHour {
		return fmt.Errorf("default_hour must be between %d and %d, got %d", dataset.MinHour, dataset.MaxHour, c.DefaultHour)
	}
	if c.ChartWidth < 0 || c.ChartHeight < 0 {
		return fmt.Errorf("chart size must not be negative")
	}
	if len([]rune(c.Delimiter)) > 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	return nil
}

// DatasetOptions returns loader options for one of the two inputs.
func (c *Global) DatasetOptions(sheet string) dataset.Options {
	opt := dataset.Options{Sheet: sheet}
	if r := []rune(c.Delimiter); len(r) == 1 {
		opt.Delimiter = r[0]
	}
	return opt
}
