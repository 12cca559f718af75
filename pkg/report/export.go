package report

import (
	"github.com/devicelab-dev/perfreport/pkg/analysis"
	"github.com/devicelab-dev/perfreport/pkg/core"
	"github.com/devicelab-dev/perfreport/pkg/run"
)

// Format is an output document format.
type Format string

// Output formats.
const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// ExportPDF would write the report as a PDF document. It is not supported
// and always returns core.ErrNotSupported.
func ExportPDF(r *run.Run, rep *analysis.Report, outputPath string) error {
	return core.ErrNotSupported.WithDetails(map[string]interface{}{
		"format": string(FormatPDF),
		"output": outputPath,
	})
}

// Export writes the report in the requested format.
func Export(format Format, r *run.Run, rep *analysis.Report, cfg HTMLConfig) error {
	switch format {
	case "", FormatHTML:
		return GenerateHTML(r, rep, cfg)
	case FormatPDF:
		return ExportPDF(r, rep, cfg.OutputPath)
	default:
		return core.ErrNotSupported.WithDetails(map[string]interface{}{"format": string(format)})
	}
}
