package run

import (
	"path/filepath"
	"regexp"

	"github.com/devicelab-dev/perfreport/pkg/core"
)

// DefaultRoot is the tests root used by the load generator.
const DefaultRoot = "performance_tests"

var namePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Layout resolves paths under a tests root.
type Layout struct {
	Root string
}

// NewLayout returns a Layout rooted at root (DefaultRoot when empty).
func NewLayout(root string) Layout {
	if root == "" {
		root = DefaultRoot
	}
	return Layout{Root: root}
}

// RunDir returns <root>/<name>.
func (l Layout) RunDir(name string) string {
	return filepath.Join(l.Root, name)
}

// MetadataPath returns <root>/<name>/metadata.json.
func (l Layout) MetadataPath(name string) string {
	return filepath.Join(l.Root, name, MetadataFile)
}

// EventsPath returns <root>/<name>/data.csv.
func (l Layout) EventsPath(name string) string {
	return filepath.Join(l.Root, name, EventsFile)
}

// ReportPath returns <root>/<name>/report.html.
func (l Layout) ReportPath(name string) string {
	return filepath.Join(l.Root, name, ReportFile)
}

// IndexPath returns <root>/index.html.
func (l Layout) IndexPath() string {
	return filepath.Join(l.Root, IndexFile)
}

// ValidateName checks that name is a single, plain directory name.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || !namePattern.MatchString(name) {
		return core.ErrInvalidRunName.WithDetails(map[string]interface{}{"name": name})
	}
	return nil
}
