package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/devicelab-dev/perfreport/pkg/core"
	"github.com/devicelab-dev/perfreport/pkg/logger"
	"github.com/devicelab-dev/perfreport/pkg/run"
)

var indexTmpl = template.Must(template.New("index").Parse(indexTemplate))

// BuildIndex scans the tests root and writes index.html linking to every
// run that has been reported. A single bad run directory never fails the
// build; only an unreadable root or a failed write does.
func BuildIndex(layout run.Layout, cfg IndexConfig) ([]IndexCard, error) {
	if cfg.Title == "" {
		cfg.Title = "Performance Tests"
	}
	if cfg.TailwindURL == "" {
		cfg.TailwindURL = DefaultTailwindURL
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	cards, err := ScanRuns(layout, cfg.Location)
	if err != nil {
		return nil, err
	}

	html, err := renderHTML(indexTmpl, IndexData{
		Title:       cfg.Title,
		TailwindURL: cfg.TailwindURL,
		Runs:        cards,
	})
	if err != nil {
		return nil, core.ErrRenderFailed.WithMessage("render index template").WithCause(err)
	}

	if err := run.WriteFileAtomic(layout.IndexPath(), html); err != nil {
		return nil, fmt.Errorf("write index: %w", err)
	}

	logger.WithFields(logrus.Fields{"runs": len(cards)}).Info("index written to " + layout.IndexPath())
	return cards, nil
}

type runDir struct {
	name    string
	modTime time.Time
}

// ScanRuns returns one card per reported run, most recently modified first.
// Directories without metadata.json or report.html are skipped, as are
// runs whose metadata cannot be parsed.
func ScanRuns(layout run.Layout, loc *time.Location) ([]IndexCard, error) {
	entries, err := os.ReadDir(layout.Root)
	if err != nil {
		return nil, core.ErrRunNotFound.
			WithMessage("could not read tests directory").
			WithDetails(map[string]interface{}{"path": layout.Root}).
			WithCause(err)
	}

	dirs := make([]runDir, 0, len(entries))
	for _, e := range entries {
		// Stat follows symlinked run directories.
		info, err := os.Stat(layout.RunDir(e.Name()))
		if err != nil {
			logger.Debug("skipping %s: %v", e.Name(), err)
			continue
		}
		if !info.IsDir() {
			continue
		}
		dirs = append(dirs, runDir{name: e.Name(), modTime: info.ModTime()})
	}

	sort.Slice(dirs, func(i, j int) bool {
		if !dirs[i].modTime.Equal(dirs[j].modTime) {
			return dirs[i].modTime.After(dirs[j].modTime)
		}
		return dirs[i].name < dirs[j].name
	})

	cards := make([]IndexCard, 0, len(dirs))
	for _, d := range dirs {
		if !isFile(layout.MetadataPath(d.name)) || !isFile(layout.ReportPath(d.name)) {
			logger.Debug("skipping %s: missing %s or %s", d.name, run.MetadataFile, run.ReportFile)
			continue
		}

		card, err := readCard(layout, d.name, loc)
		if err != nil {
			logger.Warn("skipping %s: %v", d.name, err)
			continue
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// readCard parses metadata leniently: absent or unusable fields become N/A.
func readCard(layout run.Layout, name string, loc *time.Location) (IndexCard, error) {
	data, err := os.ReadFile(layout.MetadataPath(name))
	if err != nil {
		return IndexCard{}, core.ErrMetadataMissing.WithCause(err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		return IndexCard{}, core.ErrMetadataMalformed.WithCause(err)
	}
	if fields == nil {
		return IndexCard{}, core.ErrMetadataMalformed.WithMessage("metadata is null")
	}

	return IndexCard{
		Name:               name,
		Href:               "./" + path.Join(name, run.ReportFile),
		DisplayName:        displayValue(fields["test_display_name"]),
		ServerURL:          displayValue(fields["server_url"]),
		StartTime:          displayTime(fields["test_start_time"], loc),
		ConcurrentRequests: displayValue(fields["concurrent_requests"]),
		Duration:           displayValue(fields["test_duration"]),
		TotalRequests:      displayValue(fields["total_requests"]),
	}, nil
}

func displayValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return NotAvailable
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return fmt.Sprint(x)
	default:
		return NotAvailable
	}
}

func displayTime(v interface{}, loc *time.Location) string {
	n, ok := v.(json.Number)
	if !ok {
		return NotAvailable
	}
	ns, err := n.Int64()
	if err != nil {
		f, ferr := n.Float64()
		if ferr != nil {
			return NotAvailable
		}
		ns = int64(f)
	}
	return time.Unix(0, ns).In(loc).Format(TimeLayout)
}

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <script src="{{.TailwindURL}}"></script>
</head>
<body>
    <h1 class="text-center text-2xl font-bold m-4">{{.Title}}</h1>
    <div id="runs">
{{- range .Runs}}
        <div class="card rounded-xl border-2 p-10 m-10 flex justify-evenly items-center run-card" data-run="{{.Name}}">
            <p class="font-bold text-xl w-64 run-name">{{.DisplayName}}</p>
            <div class="space-y-2">
                <p>Server URL: <span data-field="server-url">{{.ServerURL}}</span></p>
                <p>Test Start Time: <span data-field="start-time">{{.StartTime}}</span></p>
                <p>Concurrent Requests: <span data-field="concurrent-requests">{{.ConcurrentRequests}}</span></p>
                <p>Test Duration: <span data-field="duration">{{.Duration}}</span> seconds</p>
            </div>
            <div class="flex justify-center">
                <a class="bg-blue-500 hover:bg-blue-700 text-white font-bold py-2 px-4 rounded-full flex space-x-2" href="{{.Href}}" target="_blank">
                    <svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><path d="M2 12s3-7 10-7 10 7 10 7-3 7-10 7-10-7-10-7Z"/><circle cx="12" cy="12" r="3"/></svg>
                    <p>View Full Report</p>
                </a>
            </div>
        </div>
{{- end}}
    </div>
</body>
</html>
`
