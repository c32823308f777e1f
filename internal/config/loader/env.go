package loader

import (
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultEnvPrefix is the prefix of value override variables.
const DefaultEnvPrefix = "FORMCHECK_VALUE_"

// EnvLoader loads field values from environment variables.
//
// FORMCHECK_VALUE_EMAIL=a@b.com sets "email"; a double underscore separates
// path segments, so FORMCHECK_VALUE_ADDRESS__ZIP_CODE sets "address.zipCode".
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "FORMCHECK_VALUE_")
	mapping map[string]string // Env var -> field path
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return NewEnvLoaderWithMapping(prefix, nil)
}

// NewEnvLoaderWithMapping creates a loader with explicit variable to path
// mappings. Mapped variables need not carry the prefix.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	if mapping == nil {
		mapping = make(map[string]string)
	}
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
		environ: os.Environ,
	}
}

// Load reads environment variables and returns a values document.
// Note: Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	values := make(map[string]any)

	for _, env := range l.environ() {
		name, raw, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if path, mapped := l.mapping[name]; mapped {
			SetPath(values, path, ParseValue(raw))
			continue
		}
		if !strings.HasPrefix(name, l.prefix) || name == l.prefix {
			continue
		}
		SetPath(values, l.envToPath(name), ParseValue(raw))
	}

	return values, nil
}

// AddMapping adds an explicit variable to path mapping.
func (l *EnvLoader) AddMapping(envVar, path string) {
	l.mapping[envVar] = path
}

// RemoveMapping removes a mapping.
func (l *EnvLoader) RemoveMapping(envVar string) {
	delete(l.mapping, envVar)
}

// envToPath converts FORMCHECK_VALUE_ADDRESS__ZIP_CODE to address.zipCode.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)

	segments := strings.Split(name, "__")
	for i, seg := range segments {
		words := strings.Split(strings.ToLower(seg), "_")
		for j := 1; j < len(words); j++ {
			if w := words[j]; w != "" {
				words[j] = strings.ToUpper(w[:1]) + w[1:]
			}
		}
		segments[i] = strings.Join(words, "")
	}
	return strings.Join(segments, ".")
}

// ParseValue types a textual value: booleans, integers, decimals, and JSON
// arrays or objects. Anything else stays a string.
func ParseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}

	if i, err := strconv.Atoi(s); err == nil {
		return i
	}

	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	if (strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{")) && gjson.Valid(s) {
		return gjson.Parse(s).Value()
	}

	return s
}

// SetPath sets a value in a nested map using a dot-separated path,
// creating intermediate maps as needed.
func SetPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}

	current[parts[len(parts)-1]] = value
}
