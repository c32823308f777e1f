package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
)

// IncludeKey names the directive that pulls other documents in beneath the
// current one.
const IncludeKey = "@include"

// DocumentLoader loads documents whose format follows the file extension.
type DocumentLoader struct {
	fs   FileSystem
	path string

	// files read so far, in first-read order
	files []string
}

// NewDocumentLoader creates a loader for the given path.
func NewDocumentLoader(path string) *DocumentLoader {
	return &DocumentLoader{
		fs:   DefaultFS(),
		path: path,
	}
}

// NewDocumentLoaderWithFS creates a loader with a custom file system.
func NewDocumentLoaderWithFS(fs FileSystem, path string) *DocumentLoader {
	return &DocumentLoader{
		fs:   fs,
		path: path,
	}
}

// Path returns the configured path.
func (l *DocumentLoader) Path() string {
	return l.path
}

// Files returns the path of every document read so far, included ones
// too, in the order they were first read. Missing files are not listed.
func (l *DocumentLoader) Files() []string {
	return slices.Clone(l.files)
}

// Load reads the document at the configured path.
func (l *DocumentLoader) Load() (map[string]any, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads the document at path.
func (l *DocumentLoader) LoadFrom(path string) (map[string]any, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := l.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // File doesn't exist, not an error
		}
		return nil, fmt.Errorf("reading document %s: %w", path, err)
	}
	if !slices.Contains(l.files, path) {
		l.files = append(l.files, path)
	}

	return Decode(f, path, data)
}

// LoadFromReader reads a document in format f from an io.Reader.
func (l *DocumentLoader) LoadFromReader(r io.Reader, f Format) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	return Decode(f, "<reader>", data)
}

// LoadWithIncludes loads a document and processes @include directives.
// Included documents may use a different format than the includer. The
// including document wins over what it includes. maxDepth bounds nesting.
func (l *DocumentLoader) LoadWithIncludes(path string, maxDepth int) (map[string]any, error) {
	if maxDepth <= 0 {
		return nil, fmt.Errorf("include depth exceeded for %s", path)
	}

	doc, err := l.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	includes, hasIncludes := doc[IncludeKey]
	if !hasIncludes {
		return doc, nil
	}
	delete(doc, IncludeKey)

	var includeList []string
	switch v := includes.(type) {
	case string:
		includeList = []string{v}
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s must be string or array of strings", IncludeKey)
			}
			includeList = append(includeList, s)
		}
	case []string:
		includeList = v
	default:
		return nil, fmt.Errorf("%s must be string or array of strings, got %T", IncludeKey, includes)
	}

	baseDir := filepath.Dir(path)
	merged := map[string]any{}
	for _, inc := range includeList {
		incPath := inc
		if !filepath.IsAbs(inc) {
			incPath = filepath.Join(baseDir, inc)
		}

		incDoc, err := l.LoadWithIncludes(incPath, maxDepth-1)
		if err != nil {
			return nil, fmt.Errorf("loading include %s: %w", incPath, err)
		}
		if incDoc == nil {
			return nil, fmt.Errorf("loading include %s: %w", incPath, os.ErrNotExist)
		}
		merged = DeepMerge(merged, incDoc)
	}

	return DeepMerge(merged, doc), nil
}

// ParseError represents an error while parsing a document.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
