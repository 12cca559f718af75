package run

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicelab-dev/perfreport/pkg/core"
)

func testMetadata(total int) *Metadata {
	return &Metadata{
		ServerURL:          "http://localhost:8080/check_ip",
		TestUniqueName:     "smoke_1",
		TestDisplayName:    "Smoke 1",
		TestDescription:    "hash map lookup under load",
		ConcurrentRequests: 4,
		TestDuration:       3,
		TotalRequests:      total,
		SuccessfulRequests: total,
		FailedRequests:     0,
		RequestsPerSecond:  float64(total) / 3,
		TestStartTime:      1700000000000000000,
	}
}

func writeRun(t *testing.T, root, name string, meta *Metadata, events []Event) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	if meta != nil {
		require.NoError(t, WriteMetadata(dir, meta))
	}
	if events != nil {
		require.NoError(t, WriteEvents(dir, events))
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	root := t.TempDir()
	events := []Event{
		{ClientID: "10.0.0.1", Occurrences: 0, LookupDuration: 120, RequestDuration: 1000000, StartTime: 1700000000000000000, EndTime: 1700000003000000000},
		{ClientID: "10.0.0.2", Occurrences: 1, LookupDuration: 80, RequestDuration: 2000000, StartTime: 1700000000500000000, EndTime: 1700000003000000000},
	}
	writeRun(t, root, "smoke_1", testMetadata(2), events)

	r, err := Load(NewLayout(root), "smoke_1")
	require.NoError(t, err)

	assert.Equal(t, "smoke_1", r.Name)
	assert.Equal(t, filepath.Join(root, "smoke_1"), r.Dir)
	assert.Equal(t, 2, r.Metadata.TotalRequests)
	assert.Equal(t, events, r.Events)
}

func TestWriteEvents_QuotesClientID(t *testing.T) {
	root := t.TempDir()
	events := []Event{
		{ClientID: `a,"b`, Occurrences: 2, LookupDuration: 1, RequestDuration: 2, StartTime: 3, EndTime: 4},
		{ClientID: "line\nbreak", Occurrences: 0, LookupDuration: 5, RequestDuration: 6, StartTime: 7, EndTime: 8},
	}
	writeRun(t, root, "quoted", testMetadata(2), events)

	got, err := LoadEvents(NewLayout(root).EventsPath("quoted"))
	require.NoError(t, err)
	assert.Equal(t, events, got)
}

func TestLoad_ZeroTotalRequests(t *testing.T) {
	root := t.TempDir()
	writeRun(t, root, "empty", testMetadata(0), []Event{{ClientID: "1.1.1.1"}})

	_, err := Load(NewLayout(root), "empty")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNoRequests))
	assert.Equal(t, core.ErrCategoryValidation, core.CategoryOf(err))
}

func TestLoad_ZeroTotalRequestsWithoutEventLog(t *testing.T) {
	root := t.TempDir()
	writeRun(t, root, "empty", testMetadata(0), nil)

	_, err := Load(NewLayout(root), "empty")
	assert.True(t, errors.Is(err, core.ErrNoRequests), "validation must happen before the event log is read, got %v", err)
}

func TestLoad_MissingMetadata(t *testing.T) {
	root := t.TempDir()
	writeRun(t, root, "nometa", nil, []Event{{ClientID: "1.1.1.1"}})

	_, err := Load(NewLayout(root), "nometa")
	assert.True(t, errors.Is(err, core.ErrMetadataMissing), "got %v", err)
}

func TestLoad_MissingEventLog(t *testing.T) {
	root := t.TempDir()
	writeRun(t, root, "nodata", testMetadata(5), nil)

	_, err := Load(NewLayout(root), "nodata")
	assert.True(t, errors.Is(err, core.ErrEventLogMissing), "got %v", err)
}

func TestLoad_EmptyEventLog(t *testing.T) {
	root := t.TempDir()
	writeRun(t, root, "blank", testMetadata(5), []Event{})

	_, err := Load(NewLayout(root), "blank")
	assert.True(t, errors.Is(err, core.ErrNoEvents), "got %v", err)
}

func TestLoad_RunNotFound(t *testing.T) {
	_, err := Load(NewLayout(t.TempDir()), "ghost")
	assert.True(t, errors.Is(err, core.ErrRunNotFound), "got %v", err)
}

func TestLoad_InvalidName(t *testing.T) {
	_, err := Load(NewLayout(t.TempDir()), "../etc")
	assert.True(t, errors.Is(err, core.ErrInvalidRunName), "got %v", err)
}

func TestParseMetadata_MissingKeys(t *testing.T) {
	_, err := ParseMetadata([]byte(`{"server_url": "http://x", "total_requests": 3}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMetadataMalformed))
	assert.Contains(t, err.Error(), "test_start_time")
}

func TestParseMetadata_NotJSON(t *testing.T) {
	_, err := ParseMetadata([]byte(`not json`))
	assert.True(t, errors.Is(err, core.ErrMetadataMalformed), "got %v", err)
}

func TestParseMetadata_WrongType(t *testing.T) {
	data := `{"server_url":"u","test_start_time":"yesterday","test_display_name":"d","test_description":"",
"concurrent_requests":1,"test_duration":1,"total_requests":1,"successful_requests":1,"failed_requests":0,"requests_per_second":1}`
	_, err := ParseMetadata([]byte(data))
	assert.True(t, errors.Is(err, core.ErrMetadataMalformed), "got %v", err)
}

func TestParseMetadata_GeneratorOutput(t *testing.T) {
	data := `{
  "server_url": "http://localhost:8080/check_ip",
  "test_unique_name": "run_a",
  "test_display_name": "Run A",
  "test_description": "desc",
  "folder": "performance_tests/run_a/",
  "concurrent_requests": 10,
  "test_duration": 5,
  "total_requests": 500,
  "successful_requests": 498,
  "failed_requests": 2,
  "requests_per_second": 100,
  "test_start_time": 1700000000123456789
}`
	m, err := ParseMetadata([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "performance_tests/run_a/", m.Folder)
	assert.Equal(t, int64(1700000000123456789), m.TestStartTime)
	assert.Equal(t, "2023-11-14 22:13:20", m.StartTime().Format("2006-01-02 15:04:05"))
}

func TestReadEvents_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"too few columns", "1.1.1.1,0,1,2,3\n"},
		{"too many columns", "1.1.1.1,0,1,2,3,4,5\n"},
		{"non-numeric duration", "1.1.1.1,0,abc,2,3,4\n"},
		{"non-numeric occurrences", "1.1.1.1,x,1,2,3,4\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadEvents(strings.NewReader(tt.input))
			assert.True(t, errors.Is(err, core.ErrEventLogMalformed), "got %v", err)
		})
	}
}

func TestReadEvents_KeepsOrder(t *testing.T) {
	input := "b,0,5,50,2000000000,3000000000\na,1,6,60,1000000000,3000000000\n"
	events, err := ReadEvents(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "b", events[0].ClientID)
	assert.Equal(t, "a", events[1].ClientID)
	assert.Equal(t, int64(60), events[1].RequestDuration)
}

func TestParseField(t *testing.T) {
	f, err := ParseField("RequestDuration")
	require.NoError(t, err)
	assert.Equal(t, FieldRequestDuration, f)

	_, err = ParseField("EndTime")
	assert.True(t, errors.Is(err, core.ErrUnknownField))

	e := Event{LookupDuration: 7, RequestDuration: 9}
	assert.Equal(t, int64(7), e.Duration(FieldLookupDuration))
	assert.Equal(t, int64(9), e.Duration(FieldRequestDuration))
}

func TestValidateName(t *testing.T) {
	for _, ok := range []string{"smoke_1", "run-2024.01", "A"} {
		assert.NoError(t, ValidateName(ok), ok)
	}
	for _, bad := range []string{"", ".", "..", "a/b", `a\b`, "with space", "semi;colon"} {
		assert.Error(t, ValidateName(bad), bad)
	}
}

func TestLayout(t *testing.T) {
	l := NewLayout("")
	assert.Equal(t, DefaultRoot, l.Root)
	assert.Equal(t, filepath.Join("performance_tests", "r", "metadata.json"), l.MetadataPath("r"))
	assert.Equal(t, filepath.Join("performance_tests", "r", "data.csv"), l.EventsPath("r"))
	assert.Equal(t, filepath.Join("performance_tests", "r", "report.html"), l.ReportPath("r"))
	assert.Equal(t, filepath.Join("performance_tests", "index.html"), l.IndexPath())
}

func TestWriteFileAtomic_NoTempLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.html")
	require.NoError(t, WriteFileAtomic(path, []byte("<html></html>")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "report.html", entries[0].Name())
}
