package run

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strconv"

	"github.com/devicelab-dev/perfreport/pkg/core"
)

// requiredMetadataKeys are the keys the report header reads.
var requiredMetadataKeys = []string{
	"server_url",
	"test_start_time",
	"test_display_name",
	"test_description",
	"concurrent_requests",
	"test_duration",
	"total_requests",
	"successful_requests",
	"failed_requests",
	"requests_per_second",
}

// LoadMetadata reads and validates a metadata.json file.
func LoadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path built from the tests root
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.ErrMetadataMissing.WithCause(err).WithDetails(map[string]interface{}{"path": path})
		}
		return nil, core.ErrMetadataMissing.WithMessage("run metadata is unreadable").WithCause(err)
	}
	return ParseMetadata(data)
}

// ParseMetadata decodes metadata JSON and checks that every header key is present.
func ParseMetadata(data []byte) (*Metadata, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, core.ErrMetadataMalformed.WithCause(err)
	}

	var missing []string
	for _, key := range requiredMetadataKeys {
		if _, ok := raw[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, core.ErrMetadataMalformed.
			WithCause(fmt.Errorf("missing keys %v", missing)).
			WithDetails(map[string]interface{}{"missing": missing})
	}

	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, core.ErrMetadataMalformed.WithCause(err)
	}
	return &m, nil
}

// LoadEvents parses the six-column event log. Rows keep file order.
func LoadEvents(path string) ([]Event, error) {
	f, err := os.Open(path) //#nosec G304 -- path built from the tests root
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.ErrEventLogMissing.WithCause(err).WithDetails(map[string]interface{}{"path": path})
		}
		return nil, core.ErrEventLogMissing.WithMessage("run event log is unreadable").WithCause(err)
	}
	defer f.Close()

	return ReadEvents(f)
}

// ReadEvents parses event rows from r.
func ReadEvents(r io.Reader) ([]Event, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 6
	cr.ReuseRecord = true

	var events []Event
	for n := 1; ; n++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.ErrEventLogMalformed.WithCause(err).WithDetails(map[string]interface{}{"record": n})
		}
		ev, err := parseEvent(rec)
		if err != nil {
			return nil, core.ErrEventLogMalformed.
				WithCause(fmt.Errorf("record %d: %w", n, err)).
				WithDetails(map[string]interface{}{"record": n})
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseEvent(rec []string) (Event, error) {
	occ, err := strconv.Atoi(rec[1])
	if err != nil {
		return Event{}, fmt.Errorf("occurrences: %w", err)
	}
	nums := make([]int64, 4)
	for i, name := range []string{"lookup duration", "request duration", "start time", "end time"} {
		v, err := strconv.ParseInt(rec[i+2], 10, 64)
		if err != nil {
			return Event{}, fmt.Errorf("%s: %w", name, err)
		}
		nums[i] = v
	}
	return Event{
		ClientID:        rec[0],
		Occurrences:     occ,
		LookupDuration:  nums[0],
		RequestDuration: nums[1],
		StartTime:       nums[2],
		EndTime:         nums[3],
	}, nil
}

// Load reads a run's metadata and event log. A run whose metadata reports
// zero total requests is rejected before the event log is opened.
func Load(layout Layout, name string) (*Run, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	dir := layout.RunDir(name)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, core.ErrRunNotFound.WithDetails(map[string]interface{}{"path": dir})
	}

	meta, err := LoadMetadata(layout.MetadataPath(name))
	if err != nil {
		return nil, err
	}

	if meta.TotalRequests == 0 {
		return nil, core.ErrNoRequests.WithDetails(map[string]interface{}{"run": name})
	}

	events, err := LoadEvents(layout.EventsPath(name))
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, core.ErrNoEvents.WithDetails(map[string]interface{}{"run": name})
	}

	return &Run{
		Name:     name,
		Dir:      dir,
		Metadata: meta,
		Events:   events,
	}, nil
}
