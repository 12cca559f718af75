package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/perfreport/pkg/analysis"
	"github.com/devicelab-dev/perfreport/pkg/core"
	"github.com/devicelab-dev/perfreport/pkg/logger"
	"github.com/devicelab-dev/perfreport/pkg/report"
	"github.com/devicelab-dev/perfreport/pkg/run"
)

var reportCommand = &cli.Command{
	Name:      "report",
	Usage:     "Generate report.html for one run",
	ArgsUsage: "<run-name>",
	Description: `Reads <tests-dir>/<run-name>/metadata.json and data.csv and writes
<tests-dir>/<run-name>/report.html.

Examples:
  perfreport report lookup-2024-05-01
  perfreport --renderer svg report lookup-2024-05-01`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "format",
			Usage: "Output format (html, pdf)",
			Value: string(report.FormatHTML),
		},
	},
	Action: runReport,
}

var indexCommand = &cli.Command{
	Name:  "index",
	Usage: "Rebuild index.html from every reported run",
	Description: `Scans <tests-dir> and writes <tests-dir>/index.html with one card per run
that has both metadata.json and report.html, most recent first.`,
	Action: runIndex,
}

var publishCommand = &cli.Command{
	Name:      "publish",
	Usage:     "Generate report.html for one run, then rebuild index.html",
	ArgsUsage: "<run-name>",
	Action:    runPublish,
}

func runReport(c *cli.Context) error {
	name, err := runNameArg(c)
	if err != nil {
		return err
	}
	format := report.Format(strings.ToLower(c.String("format")))

	s, err := loadSettings(c)
	if err != nil {
		return err
	}

	if err := generateReport(s, name, format); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "Report created successfully")
	return nil
}

func runIndex(c *cli.Context) error {
	if c.Args().Present() {
		return usageError(c, "index takes no arguments")
	}

	s, err := loadSettings(c)
	if err != nil {
		return err
	}

	if _, err := report.BuildIndex(s.layout, s.indexConfig()); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "Indexing complete")
	return nil
}

func runPublish(c *cli.Context) error {
	name, err := runNameArg(c)
	if err != nil {
		return err
	}

	s, err := loadSettings(c)
	if err != nil {
		return err
	}

	if err := generateReport(s, name, report.FormatHTML); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "Report created successfully")

	if _, err := report.BuildIndex(s.layout, s.indexConfig()); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "Indexing complete")
	return nil
}

// runNameArg returns the single positional run name.
func runNameArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", usageError(c, fmt.Sprintf("expected exactly one run name, got %d arguments", c.NArg()))
	}
	name := c.Args().First()
	if err := run.ValidateName(name); err != nil {
		fmt.Fprintf(c.App.ErrWriter, "Usage: %s %s %s\n", c.App.Name, c.Command.Name, c.Command.ArgsUsage)
		return "", err
	}
	return name, nil
}

// loadAndAnalyze loads a run and computes the standard analyses.
func loadAndAnalyze(s *settings, name string) (*run.Run, *analysis.Report, error) {
	r, err := run.Load(s.layout, name)
	if err != nil {
		return nil, nil, err
	}

	rep, err := analysis.Standard(r.Events)
	if err != nil {
		return nil, nil, err
	}
	return r, rep, nil
}

func generateReport(s *settings, name string, format report.Format) error {
	log := logger.WithFields(logrus.Fields{"run": name, "format": string(format)})

	r, rep, err := loadAndAnalyze(s, name)
	if err != nil {
		log.WithField("category", core.CategoryOf(err).String()).Errorf("report failed: %v", err)
		return err
	}
	log.Infof("loaded %d events", len(r.Events))

	cfg := s.htmlConfig()
	if format == report.FormatPDF {
		cfg.OutputPath = filepath.Join(s.layout.RunDir(name), "report.pdf")
	}
	return report.Export(format, r, rep, cfg)
}
