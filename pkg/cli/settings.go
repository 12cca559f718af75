package cli

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/perfreport/pkg/chart"
	"github.com/devicelab-dev/perfreport/pkg/config"
	"github.com/devicelab-dev/perfreport/pkg/core"
	"github.com/devicelab-dev/perfreport/pkg/logger"
	"github.com/devicelab-dev/perfreport/pkg/report"
	"github.com/devicelab-dev/perfreport/pkg/run"
)

// settings is the resolved configuration of one invocation.
type settings struct {
	cfg        *config.Config
	layout     run.Layout
	renderer   chart.Renderer
	reportZone *time.Location
	indexZone  *time.Location
}

// loadSettings initializes logging and resolves configuration in order:
// defaults, config file, .env files, PERFREPORT_* variables, flags.
func loadSettings(c *cli.Context) (*settings, error) {
	if path := c.String("log-file"); path != "" {
		if err := logger.Init(path, c.Bool("verbose")); err != nil {
			return nil, core.ErrInvalidConfig.WithMessage("could not open log file").WithCause(err)
		}
	} else {
		level := logrus.InfoLevel
		if c.Bool("verbose") {
			level = logrus.DebugLevel
		}
		logger.SetOutput(c.App.ErrWriter, level)
	}

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	cfg, err := config.Resolve(c.String("config"), wd)
	if err != nil {
		return nil, err
	}

	// Flags take precedence
	if c.IsSet("tests-dir") {
		cfg.TestsDir = c.String("tests-dir")
	}
	if c.IsSet("renderer") {
		cfg.Renderer = c.String("renderer")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	renderer, err := chart.New(cfg.Renderer, cfg.PlotlyURL)
	if err != nil {
		return nil, core.ErrInvalidConfig.
			WithDetails(map[string]interface{}{"renderer": cfg.Renderer}).
			WithCause(err)
	}

	reportZone, indexZone := cfg.Locations()
	s := &settings{
		cfg:        cfg,
		layout:     run.NewLayout(cfg.TestsRoot()),
		renderer:   renderer,
		reportZone: reportZone,
		indexZone:  indexZone,
	}

	logger.WithFields(logrus.Fields{
		"testsDir": s.layout.Root,
		"renderer": renderer.Name(),
		"command":  c.Command.Name,
	}).Debug("configuration resolved")
	return s, nil
}

func (s *settings) htmlConfig() report.HTMLConfig {
	return report.HTMLConfig{
		Renderer:    s.renderer,
		TailwindURL: s.cfg.TailwindURL,
		Location:    s.reportZone,
		ChartWidth:  s.cfg.ChartWidth,
		ChartHeight: s.cfg.ChartHeight,
	}
}

func (s *settings) indexConfig() report.IndexConfig {
	return report.IndexConfig{
		TailwindURL: s.cfg.TailwindURL,
		Location:    s.indexZone,
	}
}
