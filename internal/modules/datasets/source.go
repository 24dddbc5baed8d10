// Package datasets loads subsidy record files from static storage and keeps
// the current grouped snapshot in memory.
package datasets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Source lists and opens record files in static storage
type Source interface {
	// List returns the names of every supported record file
	List(ctx context.Context) ([]string, error)
	// Open returns the content of one file returned by List
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Describe returns a human readable location for logs and metadata
	Describe() string
}

// Supported record file formats
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// formatOf returns the record format for a file name, or "" when unsupported
func formatOf(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".msgpack", ".mpk":
		return FormatMsgpack
	default:
		return ""
	}
}

// DirSource reads record files from a local directory (non-recursive)
type DirSource struct {
	dir string
}

// NewDirSource creates a source over a local data directory
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// List implements Source
func (d *DirSource) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory %s: %w", d.dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if formatOf(e.Name()) == "" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Open implements Source
func (d *DirSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("invalid data file name: %s", name)
	}
	f, err := os.Open(filepath.Join(d.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to open data file %s: %w", name, err)
	}
	return f, nil
}

// Describe implements Source
func (d *DirSource) Describe() string {
	return "dir:" + d.dir
}
