// Package loader reads form documents and value files.
//
// Documents are YAML, TOML or JSON mappings selected by file extension.
// Environment variables can supply value overrides that merge over a
// loaded document.
package loader

import (
	"io/fs"
	"os"
)

// Loader produces a top-level mapping. A nil map with a nil error means the
// source does not exist.
type Loader interface {
	Load() (map[string]any, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func() (map[string]any, error)

func (f LoaderFunc) Load() (map[string]any, error) { return f() }

var (
	_ Loader = (*DocumentLoader)(nil)
	_ Loader = (*EnvLoader)(nil)
)

// Merge loads every source in order and deep-merges each over the ones
// before it. Missing sources are skipped. The result is never nil.
func Merge(sources ...Loader) (map[string]any, error) {
	out := map[string]any{}
	for _, src := range sources {
		doc, err := src.Load()
		if err != nil {
			return nil, err
		}
		if doc != nil {
			out = DeepMerge(out, doc)
		}
	}
	return out, nil
}

// FileSystem is the file access the loaders need. Tests substitute an
// in-memory implementation.
type FileSystem interface {
	fs.FS
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS reads the host file system.
type OSFS struct{}

func (OSFS) Open(name string) (fs.File, error)     { return os.Open(name) }
func (OSFS) ReadFile(path string) ([]byte, error)  { return os.ReadFile(path) }
func (OSFS) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

// DefaultFS returns OSFS.
func DefaultFS() FileSystem { return OSFS{} }
