// Package cli provides the command-line interface for perfreport.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/perfreport/pkg/core"
	"github.com/devicelab-dev/perfreport/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "tests-dir",
		Usage: "Directory holding one sub-directory per test run (default: performance_tests)",
	},
	&cli.StringFlag{
		Name:  "config",
		Usage: "Path to perfreport.yaml (default: ./perfreport.yaml if present)",
	},
	&cli.StringFlag{
		Name:  "renderer",
		Usage: "Chart renderer (plotly, svg)",
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Write logs to this file instead of stderr",
		EnvVars: []string{"PERFREPORT_LOG_FILE"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: []string{"PERFREPORT_VERBOSE"},
	},
}

// NewApp builds the application, writing command output to stdout and
// usage and error messages to stderr.
func NewApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:    "perfreport",
		Usage:   "Latency reports for load-test runs",
		Version: Version,
		Description: `perfreport turns the raw output of a load-test run into a static HTML
report and keeps an index page of every reported run.

Examples:
  perfreport report lookup-2024-05-01
  perfreport index
  perfreport publish lookup-2024-05-01
  perfreport --renderer svg report lookup-2024-05-01
  perfreport summary --output yaml lookup-2024-05-01
  perfreport validate`,
		Flags: GlobalFlags,
		Commands: []*cli.Command{
			reportCommand,
			indexCommand,
			publishCommand,
			summaryCommand,
			validateCommand,
		},
		Writer:    stdout,
		ErrWriter: stderr,
		// Errors are reported by Run; never exit from inside the app.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// Run executes the CLI with args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	defer logger.Close()

	if err := NewApp(stdout, stderr).Run(args); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", describe(err))
		return 1
	}
	return 0
}

// Execute runs the CLI.
func Execute() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// describe renders err with the details of the outermost ReportError.
func describe(err error) string {
	var re *core.ReportError
	if !errors.As(err, &re) || len(re.Details) == 0 {
		return err.Error()
	}

	keys := make([]string, 0, len(re.Details))
	for k := range re.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, re.Details[k])
	}
	return fmt.Sprintf("%s (%s)", err.Error(), strings.Join(parts, ", "))
}

// usageError prints the command's usage line and returns a usage error.
func usageError(c *cli.Context, msg string) error {
	fmt.Fprintf(c.App.ErrWriter, "Usage: %s %s %s\n", c.App.Name, c.Command.Name, c.Command.ArgsUsage)
	return core.ErrUsage.WithMessage(msg)
}
