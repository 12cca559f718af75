// Package config handles configuration for perfreport.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/perfreport/pkg/core"
)

// EnvPrefix prefixes every environment override, e.g. PERFREPORT_TESTS_DIR.
const EnvPrefix = "PERFREPORT_"

// Default values.
const (
	DefaultTestsDir    = "performance_tests"
	DefaultRenderer    = "plotly"
	DefaultTailwindURL = "https://cdn.tailwindcss.com"
	DefaultPlotlyURL   = "https://cdn.plot.ly/plotly-2.35.2.min.js"
	DefaultChartWidth  = 1500
	DefaultChartHeight = 500
)

// Config represents the workspace configuration (perfreport.yaml).
type Config struct {
	// Input layout
	TestsDir string `yaml:"testsDir" env:"TESTS_DIR"` // Root holding one directory per run

	// Rendering
	Renderer    string `yaml:"renderer" env:"RENDERER"`        // plotly or svg
	Timezone    string `yaml:"timezone" env:"TIMEZONE"`        // IANA zone for displayed times; empty keeps UTC/local
	TailwindURL string `yaml:"tailwindURL" env:"TAILWIND_URL"` // Tailwind CSS script
	PlotlyURL   string `yaml:"plotlyURL" env:"PLOTLY_URL"`     // Plotly.js script
	ChartWidth  int    `yaml:"chartWidth" env:"CHART_WIDTH"`   // Figure width in px
	ChartHeight int    `yaml:"chartHeight" env:"CHART_HEIGHT"` // Figure height in px
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	return &Config{
		TestsDir:    DefaultTestsDir,
		Renderer:    DefaultRenderer,
		TailwindURL: DefaultTailwindURL,
		PlotlyURL:   DefaultPlotlyURL,
		ChartWidth:  DefaultChartWidth,
		ChartHeight: DefaultChartHeight,
	}
}

// Load loads configuration from a file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir looks for perfreport.yaml or perfreport.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range []string{"perfreport.yaml", "perfreport.yml"} {
		configPath := filepath.Join(dir, name)
		if _, err := os.Stat(configPath); err == nil {
			return Load(configPath)
		}
	}

	// No config file found, return defaults
	return Default(), nil
}

// LoadEnv loads the dotenv files that exist, in order. Variables already
// present in the environment are not overridden. It returns how many files
// were loaded.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			existing = append(existing, file)
		}
	}

	if len(existing) == 0 {
		return 0, nil
	}

	return len(existing), godotenv.Load(existing...)
}

// ApplyEnv overrides fields from PERFREPORT_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return core.ErrInvalidConfig.WithCause(err)
	}
	return nil
}

// Resolve builds the effective configuration for a working directory:
// defaults, then the config file (explicit path, or looked up in dir), then
// .env and .env.local from dir, then the environment.
func Resolve(path, dir string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if path != "" {
		cfg, err = Load(path)
	} else {
		cfg, err = LoadFromDir(dir)
	}
	if err != nil {
		return nil, core.ErrInvalidConfig.WithMessage("could not load config").WithCause(err)
	}

	if _, err := LoadEnv([]string{filepath.Join(dir, ".env"), filepath.Join(dir, ".env.local")}); err != nil {
		return nil, core.ErrInvalidConfig.WithMessage("could not load .env").WithCause(err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values that cannot be caught by the parsers.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TestsDir) == "" {
		return core.ErrInvalidConfig.WithDetails(map[string]interface{}{"field": "testsDir"})
	}
	if c.ChartWidth < 0 || c.ChartHeight < 0 {
		return core.ErrInvalidConfig.WithDetails(map[string]interface{}{
			"field":  "chartWidth/chartHeight",
			"width":  c.ChartWidth,
			"height": c.ChartHeight,
		})
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return core.ErrInvalidConfig.WithDetails(map[string]interface{}{"field": "timezone"}).WithCause(err)
		}
	}
	return nil
}

// TestsRoot returns the tests directory, anchored at GetHome when relative.
func (c *Config) TestsRoot() string {
	if filepath.IsAbs(c.TestsDir) {
		return c.TestsDir
	}
	return filepath.Join(GetHome(), c.TestsDir)
}

// Locations returns the zones used for report and index timestamps.
// Without a configured timezone the report shows UTC and the index shows
// local time.
func (c *Config) Locations() (report, index *time.Location) {
	if c.Timezone != "" {
		if loc, err := time.LoadLocation(c.Timezone); err == nil {
			return loc, loc
		}
	}
	return time.UTC, time.Local
}
