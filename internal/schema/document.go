package schema

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/dshills/rehance/internal/config/loader"
	"github.com/dshills/rehance/internal/validation"
)

// MaxIncludeDepth bounds @include nesting in Load.
const MaxIncludeDepth = 8

// Field kinds as written in documents.
const (
	KindValue      = "value"
	KindGroup      = "group"
	KindCollection = "collection"
)

// Document is a parsed schema document.
type Document struct {
	Messages validation.Messages
	Fields   map[string]FieldDecl

	scripts []closer
}

// FieldDecl declares one field.
type FieldDecl struct {
	Kind    string
	Default any
	Rules   []RuleDecl
	Fields  map[string]FieldDecl
}

// RuleDecl names a rule and its arguments.
type RuleDecl struct {
	Name string
	Args map[string]any
}

// Load reads a document with loader.DocumentLoader, following @include
// directives.
func Load(path string) (*Document, error) {
	return LoadWith(loader.NewDocumentLoader(path), path)
}

// LoadWith reads a document through l.
func LoadWith(l *loader.DocumentLoader, path string) (*Document, error) {
	raw, err := l.LoadWithIncludes(path, MaxIncludeDepth)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("schema %s: %w", path, os.ErrNotExist)
	}
	return Parse(raw)
}

// Parse reads a decoded document.
func Parse(raw map[string]any) (*Document, error) {
	doc := &Document{
		Messages: validation.Messages{},
		Fields:   map[string]FieldDecl{},
	}

	for _, key := range sortedKeys(raw) {
		switch key {
		case "messages":
			msgs, err := parseMessages(raw[key])
			if err != nil {
				return nil, err
			}
			doc.Messages = msgs
		case "fields":
			fields, err := parseFields("fields", raw[key])
			if err != nil {
				return nil, err
			}
			doc.Fields = fields
		default:
			return nil, declErrf(key, ErrInvalidDecl, "unknown section")
		}
	}
	return doc, nil
}

func parseMessages(raw any) (validation.Messages, error) {
	m, ok := raw.(map[string]any)
	if !ok && raw != nil {
		return nil, declErrf("messages", ErrInvalidDecl, "want mapping, got %T", raw)
	}
	msgs := make(validation.Messages, len(m))
	for k, v := range m {
		s, ok := v.(string)
		if !ok {
			return nil, declErrf("messages."+k, ErrInvalidDecl, "want string, got %T", v)
		}
		msgs[k] = s
	}
	return msgs, nil
}

func parseFields(path string, raw any) (map[string]FieldDecl, error) {
	m, ok := raw.(map[string]any)
	if !ok && raw != nil {
		return nil, declErrf(path, ErrInvalidDecl, "want mapping, got %T", raw)
	}
	fields := make(map[string]FieldDecl, len(m))
	for _, name := range sortedKeys(m) {
		fpath := path + "." + name
		if name == "" || strings.Contains(name, ".") {
			return nil, declErrf(fpath, ErrInvalidDecl, "field names must be non-empty and dot-free")
		}
		f, err := parseField(fpath, m[name])
		if err != nil {
			return nil, err
		}
		fields[name] = f
	}
	return fields, nil
}

func parseField(path string, raw any) (FieldDecl, error) {
	f := FieldDecl{Kind: KindValue}
	if raw == nil {
		return f, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return f, declErrf(path, ErrInvalidDecl, "want mapping, got %T", raw)
	}

	for _, key := range sortedKeys(m) {
		v := m[key]
		switch key {
		case "kind":
			kind, ok := v.(string)
			if !ok {
				return f, declErrf(path+".kind", ErrInvalidDecl, "want string, got %T", v)
			}
			switch kind {
			case KindValue, KindGroup, KindCollection:
				f.Kind = kind
			default:
				return f, declErrf(path+".kind", ErrUnknownKind, "%q", kind)
			}
		case "default":
			f.Default = v
		case "rules":
			rules, err := parseRules(path+".rules", v)
			if err != nil {
				return f, err
			}
			f.Rules = rules
		case "fields":
			fields, err := parseFields(path+".fields", v)
			if err != nil {
				return f, err
			}
			f.Fields = fields
		default:
			return f, declErrf(path+"."+key, ErrInvalidDecl, "unknown key")
		}
	}

	if f.Kind == KindValue && len(f.Fields) > 0 {
		return f, declErrf(path, ErrInvalidDecl, "value fields cannot declare fields")
	}
	if f.Kind != KindValue && len(f.Rules) > 0 {
		return f, declErrf(path, ErrInvalidDecl, "rules belong on value fields")
	}
	return f, nil
}

func parseRules(path string, raw any) ([]RuleDecl, error) {
	list, ok := raw.([]any)
	if !ok && raw != nil {
		return nil, declErrf(path, ErrInvalidDecl, "want list, got %T", raw)
	}
	rules := make([]RuleDecl, 0, len(list))
	for i, item := range list {
		rpath := fmt.Sprintf("%s[%d]", path, i)
		switch r := item.(type) {
		case string:
			rules = append(rules, RuleDecl{Name: r})
		case map[string]any:
			if len(r) != 1 {
				return nil, declErrf(rpath, ErrInvalidDecl, "want exactly one rule name, got %d keys", len(r))
			}
			for name, args := range r {
				am, ok := args.(map[string]any)
				if !ok && args != nil {
					return nil, declErrf(rpath+"."+name, ErrInvalidDecl, "arguments must be a mapping, got %T", args)
				}
				rules = append(rules, RuleDecl{Name: name, Args: am})
			}
		default:
			return nil, declErrf(rpath, ErrInvalidDecl, "want rule name or mapping, got %T", item)
		}
	}
	return rules, nil
}

// Defaults returns the initial record described by the declared defaults.
func (d *Document) Defaults() map[string]any {
	return defaults(d.Fields)
}

func defaults(fields map[string]FieldDecl) map[string]any {
	out := make(map[string]any, len(fields))
	for name, f := range fields {
		switch {
		case f.Default != nil:
			out[name] = f.Default
		case f.Kind == KindGroup:
			out[name] = defaults(f.Fields)
		case f.Kind == KindCollection:
			out[name] = []any{}
		default:
			out[name] = nil
		}
	}
	return out
}

// Close releases the Lua states of every shape compiled from d.
func (d *Document) Close() {
	for _, s := range d.scripts {
		s.Close()
	}
	d.scripts = nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
