package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for a path whose extension maps to no format.
var ErrUnknownFormat = errors.New("unknown document format")

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// Decode parses data as a document in format f. The document root must be
// a mapping; an empty document decodes to an empty map.
func Decode(f Format, source string, data []byte) (map[string]any, error) {
	var doc map[string]any
	switch f {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			pe := &ParseError{Path: source, Message: err.Error(), Err: err}
			if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
				pe.Line, _ = strconv.Atoi(m[1])
			}
			return nil, pe
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			pe := &ParseError{Path: source, Message: err.Error(), Err: err}
			var de *toml.DecodeError
			if errors.As(err, &de) {
				pe.Line, pe.Column = de.Position()
			}
			return nil, pe
		}
	case FormatJSON:
		if len(strings.TrimSpace(string(data))) == 0 {
			break
		}
		if !gjson.ValidBytes(data) {
			return nil, &ParseError{Path: source, Message: "invalid JSON"}
		}
		res := gjson.ParseBytes(data)
		if !res.IsObject() {
			return nil, &ParseError{Path: source, Message: "document root must be an object"}
		}
		doc, _ = res.Value().(map[string]any)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}
