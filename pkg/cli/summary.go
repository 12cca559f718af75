package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/perfreport/pkg/analysis"
	"github.com/devicelab-dev/perfreport/pkg/run"
)

var summaryCommand = &cli.Command{
	Name:      "summary",
	Usage:     "Print a run's aggregates as JSON or YAML without writing files",
	ArgsUsage: "<run-name>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output encoding (json, yaml)",
			Value:   "json",
		},
	},
	Action: runSummary,
}

// RunSummary is the machine-readable form of a report.
type RunSummary struct {
	Run        string                     `json:"run" yaml:"run"`
	Metadata   *run.Metadata              `json:"metadata" yaml:"metadata"`
	Events     int                        `json:"events" yaml:"events"`
	Throughput *analysis.ThroughputResult `json:"throughput" yaml:"throughput"`
	Latency    []*analysis.LatencyResult  `json:"latency" yaml:"latency"`
}

func runSummary(c *cli.Context) error {
	name, err := runNameArg(c)
	if err != nil {
		return err
	}

	output := strings.ToLower(c.String("output"))
	if output != "json" && output != "yaml" {
		return usageError(c, fmt.Sprintf("unknown output %q (want json or yaml)", output))
	}

	s, err := loadSettings(c)
	if err != nil {
		return err
	}

	r, rep, err := loadAndAnalyze(s, name)
	if err != nil {
		return err
	}

	return writeSummary(c.App.Writer, output, RunSummary{
		Run:        r.Name,
		Metadata:   r.Metadata,
		Events:     len(r.Events),
		Throughput: rep.Throughput(),
		Latency:    rep.Latency(),
	})
}

func writeSummary(w io.Writer, output string, sum RunSummary) error {
	if output == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sum); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sum); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
