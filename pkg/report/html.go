package report

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/devicelab-dev/perfreport/pkg/analysis"
	"github.com/devicelab-dev/perfreport/pkg/chart"
	"github.com/devicelab-dev/perfreport/pkg/core"
	"github.com/devicelab-dev/perfreport/pkg/logger"
	"github.com/devicelab-dev/perfreport/pkg/run"
)

var reportTmpl = template.Must(template.New("report").Parse(reportTemplate))

// GenerateHTML renders the analysed run to a single HTML document.
// The page is rendered in memory first, so a failure leaves no file behind.
func GenerateHTML(r *run.Run, rep *analysis.Report, cfg HTMLConfig) error {
	if r == nil || r.Metadata == nil {
		return core.ErrMetadataMissing
	}

	if cfg.OutputPath == "" {
		cfg.OutputPath = filepath.Join(r.Dir, run.ReportFile)
	}
	if cfg.Renderer == nil {
		cfg.Renderer = &chart.PlotlyRenderer{ScriptURL: chart.DefaultPlotlyURL}
	}
	if cfg.TailwindURL == "" {
		cfg.TailwindURL = DefaultTailwindURL
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	data, err := buildHTMLData(r.Metadata, rep, cfg)
	if err != nil {
		return err
	}

	html, err := renderHTML(reportTmpl, data)
	if err != nil {
		return core.ErrRenderFailed.WithMessage("render report template").WithCause(err)
	}

	if err := run.WriteFileAtomic(cfg.OutputPath, html); err != nil {
		return fmt.Errorf("write html: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"run":      r.Name,
		"sections": len(data.Sections),
		"renderer": cfg.Renderer.Name(),
	}).Info("report written to " + cfg.OutputPath)
	return nil
}

func buildHTMLData(m *run.Metadata, rep *analysis.Report, cfg HTMLConfig) (HTMLData, error) {
	data := HTMLData{
		Title:       m.TestDisplayName,
		TailwindURL: cfg.TailwindURL,
		ChartHead:   cfg.Renderer.Head(),
		Header: Header{
			StartTime:          m.StartTime().In(cfg.Location).Format(TimeLayout),
			ServerURL:          m.ServerURL,
			Description:        m.TestDescription,
			ConcurrentRequests: m.ConcurrentRequests,
			Duration:           m.TestDuration,
			TotalRequests:      m.TotalRequests,
			SuccessfulRequests: m.SuccessfulRequests,
			FailedRequests:     m.FailedRequests,
			RequestsPerSecond:  analysis.FormatNumber(m.RequestsPerSecond),
		},
	}

	if rep == nil {
		return data, nil
	}

	for i, s := range rep.Sections() {
		fig := s.Figure
		if cfg.ChartWidth > 0 {
			fig.Width = cfg.ChartWidth
		}
		if cfg.ChartHeight > 0 {
			fig.Height = cfg.ChartHeight
		}

		id := fmt.Sprintf("chart-%d", i)
		html, err := cfg.Renderer.Render(id, fig)
		if err != nil {
			return HTMLData{}, core.ErrRenderFailed.
				WithDetails(map[string]interface{}{"section": s.Title}).
				WithCause(err)
		}
		logger.Debug("rendered %s (%s)", s.Title, id)

		data.Sections = append(data.Sections, SectionHTML{
			ID:          id,
			Title:       s.Title,
			Description: s.Description,
			Summary:     s.Summary,
			Chart:       html,
		})
	}
	return data, nil
}

func renderHTML(tmpl *template.Template, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="{{.TailwindURL}}"></script>
    {{.ChartHead}}
</head>
<body>
    <div class="card rounded-xl m-10 p-10 border-2" id="run-header">
        <p class="text-2xl font-bold italic">{{.Title}}</p>
        <p class="text-lg font-bold italic">Test Start Time: <b data-field="start-time">{{.Header.StartTime}}</b></p>
        <p class="text-lg font-bold italic">Server URL: <b data-field="server-url">{{.Header.ServerURL}}</b></p>
        <p class="text-lg font-bold italic">Test Description:</p>
        <p class="text-lg italic" data-field="description">{{.Header.Description}}</p>
        <p class="font-bold italic">Run Information:</p>
        <p class="italic">Concurrent Requests: <b data-field="concurrent-requests">{{.Header.ConcurrentRequests}}</b></p>
        <p class="italic">Test Duration: <b data-field="duration">{{.Header.Duration}}</b> seconds</p>
        <p class="italic">Total Requests: <b data-field="total-requests">{{.Header.TotalRequests}}</b></p>
        <p class="italic">Successful Requests: <b data-field="successful-requests">{{.Header.SuccessfulRequests}}</b></p>
        <p class="italic">Failed Requests: <b data-field="failed-requests">{{.Header.FailedRequests}}</b></p>
        <p class="italic">Average Requests Per Second (Total Requests / Test Duration): <b data-field="requests-per-second">{{.Header.RequestsPerSecond}}</b></p>
    </div>
    <hr class="!border-t-4">
{{- range .Sections}}
    <div class="card rounded-xl m-10 p-10 border-2 section" id="section-{{.ID}}">
        <p class="text-xl font-bold italic section-title">{{.Title}}</p>
        {{- if .Description}}
        <div class="card justify-center rounded-xl m-10 p-10 border-2 section-description">
            <p class="text-lg font-bold italic"> Test Description:</p>
            <p class="text-lg italic">{{.Description}}</p>
        </div>
        {{- end}}
        <div class="card rounded-xl m-10 p-10 border-2 section-summary">
            <p class="text-lg font-bold italic">Summary Information</p>
            {{- range .Summary}}
            <p class="italic">{{.Label}}: <b>{{.Value}}</b>{{if .Unit}} {{.Unit}}{{end}}</p>
            {{- end}}
        </div>
        <div class="card flex justify-center rounded-xl m-10 p-10 border-2 section-chart">
            {{.Chart}}
        </div>
    </div>
    <hr class="!border-t-4">
{{- end}}
</body>
</html>
`
