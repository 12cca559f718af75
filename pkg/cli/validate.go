package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/perfreport/pkg/core"
	"github.com/devicelab-dev/perfreport/pkg/validator"
)

var validateCommand = &cli.Command{
	Name:      "validate",
	Usage:     "Check run directories without writing anything",
	ArgsUsage: "[run-name...]",
	Description: `Checks metadata.json and data.csv of the named runs, or of every run
under <tests-dir> when none are named. All problems are listed; the
command fails if any run cannot be reported.`,
	Action: runValidate,
}

func runValidate(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}

	result := validator.New(s.layout).Validate(c.Args().Slice()...)

	w := c.App.Writer
	for _, name := range result.Runs {
		fmt.Fprintf(w, "ok    %s\n", name)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warn  %v\n", warning)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(w, "error %v\n", e)
	}

	if !result.IsValid() {
		return core.NewReportError(core.ErrCategoryValidation, "validation_failed",
			fmt.Sprintf("%d problem(s) found", len(result.Errors)))
	}
	return nil
}
