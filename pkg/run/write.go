package run

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// WriteMetadata writes metadata.json into dir.
func WriteMetadata(dir string, m *Metadata) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	return WriteFileAtomic(filepath.Join(dir, MetadataFile), data)
}

// WriteEvents writes data.csv into dir, one row per event, no header.
func WriteEvents(dir string, events []Event) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, e := range events {
		rec := []string{
			e.ClientID,
			strconv.Itoa(e.Occurrences),
			strconv.FormatInt(e.LookupDuration, 10),
			strconv.FormatInt(e.RequestDuration, 10),
			strconv.FormatInt(e.StartTime, 10),
			strconv.FormatInt(e.EndTime, 10),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write event: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write events: %w", err)
	}
	return WriteFileAtomic(filepath.Join(dir, EventsFile), buf.Bytes())
}

// WriteFileAtomic writes data to a temp file in the same directory and
// renames it over path, so readers never see a partial file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
