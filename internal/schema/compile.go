package schema

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/dshills/rehance/internal/config/loader"
	"github.com/dshills/rehance/internal/state"
	"github.com/dshills/rehance/internal/validation"
	"github.com/dshills/rehance/internal/validation/script"
)

// Rule names understood in documents.
const (
	RuleRequired   = "required"
	RuleRequiredIf = "requiredIf"
	RuleEmail      = "email"
	RuleMatches    = "matches"
	RuleMustBe     = "mustBe"
	RuleTag        = "tag"
	RuleCheck      = "check"
)

type closer interface{ Close() }

// ruleBuilder compiles one rule declaration.
type ruleBuilder func(d *Document, a args) (validation.Rule, error)

var ruleBuilders = map[string]ruleBuilder{
	RuleRequired: func(_ *Document, a args) (validation.Rule, error) {
		return validation.Required(a.message()...), a.only("message")
	},
	RuleEmail: func(_ *Document, a args) (validation.Rule, error) {
		return validation.Email(a.message()...), a.only("message")
	},
	RuleMatches: func(_ *Document, a args) (validation.Rule, error) {
		src, err := a.requiredString("pattern")
		if err != nil {
			return validation.Rule{}, err
		}
		re, err := regexp.Compile(src)
		if err != nil {
			return validation.Rule{}, fmt.Errorf("%w: pattern: %v", ErrInvalidDecl, err)
		}
		return validation.Matches(re, a.message()...), a.only("pattern", "message")
	},
	RuleMustBe: func(_ *Document, a args) (validation.Rule, error) {
		want := true
		if v, ok := a["value"]; ok {
			b, ok := v.(bool)
			if !ok {
				return validation.Rule{}, fmt.Errorf("%w: value: want bool, got %T", ErrInvalidDecl, v)
			}
			want = b
		}
		return validation.MustBe(want, a.message()...), a.only("value", "message")
	},
	RuleTag: func(_ *Document, a args) (validation.Rule, error) {
		expr, err := a.requiredString("expr")
		if err != nil {
			return validation.Rule{}, err
		}
		r, err := validation.Tag(expr, a.message()...)
		if err != nil {
			return validation.Rule{}, err
		}
		return r, a.only("expr", "message")
	},
	RuleRequiredIf: func(d *Document, a args) (validation.Rule, error) {
		p, err := d.compileLua(a)
		if err != nil {
			return validation.Rule{}, err
		}
		return validation.RequiredIf(p.Func(), a.message()...), a.only("lua", "message")
	},
	RuleCheck: func(d *Document, a args) (validation.Rule, error) {
		key := RuleCheck
		if v, ok := a["key"]; ok {
			s, ok := v.(string)
			if !ok || s == "" {
				return validation.Rule{}, fmt.Errorf("%w: key: want non-empty string", ErrInvalidDecl)
			}
			key = s
		}
		p, err := d.compileLua(a)
		if err != nil {
			return validation.Rule{}, err
		}
		msg := validation.MsgTag
		if m := a.message(); len(m) > 0 {
			msg = m[0]
		}
		return validation.Predicate(key, p.Func(), msg), a.only("lua", "key", "message")
	},
}

// RuleNames returns the rule names documents may use, sorted.
func RuleNames() []string {
	names := make([]string, 0, len(ruleBuilders))
	for name := range ruleBuilders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Shape compiles the field declarations. Lua predicates created here live
// until Close.
func (d *Document) Shape() (state.Shape, error) {
	return d.shape("fields", d.Fields)
}

func (d *Document) shape(path string, fields map[string]FieldDecl) (state.Shape, error) {
	out := make(state.Shape, len(fields))
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		f := fields[name]
		fpath := path + "." + name
		var field state.Field
		switch f.Kind {
		case KindValue, "":
			rules, err := d.compileRules(fpath+".rules", f.Rules)
			if err != nil {
				return nil, err
			}
			field = state.Value(rules...)
		case KindGroup:
			sub, err := d.shape(fpath+".fields", f.Fields)
			if err != nil {
				return nil, err
			}
			field = state.Group(sub)
		case KindCollection:
			sub, err := d.shape(fpath+".fields", f.Fields)
			if err != nil {
				return nil, err
			}
			field = state.Collection(sub)
		default:
			return nil, declErrf(fpath+".kind", ErrUnknownKind, "%q", f.Kind)
		}
		out[name] = field.WithDefault(f.Default)
	}
	return out, nil
}

func (d *Document) compileRules(path string, decls []RuleDecl) ([]validation.Rule, error) {
	rules := make([]validation.Rule, 0, len(decls))
	for i, decl := range decls {
		rpath := fmt.Sprintf("%s[%d].%s", path, i, decl.Name)
		build, ok := ruleBuilders[decl.Name]
		if !ok {
			return nil, declErrf(rpath, ErrUnknownRule, "%q", decl.Name)
		}
		r, err := build(d, args(decl.Args))
		if err != nil {
			return nil, declErr(rpath, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func (d *Document) compileLua(a args) (*script.Predicate, error) {
	src, err := a.requiredString("lua")
	if err != nil {
		return nil, err
	}
	p, err := script.Compile(src)
	if err != nil {
		return nil, err
	}
	d.scripts = append(d.scripts, p)
	return p, nil
}

// Build constructs a root trie from values merged over the document
// defaults. The document's messages become the tree's catalog; options
// given here are applied after it.
func (d *Document) Build(values map[string]any, opts ...state.Option) (*state.TrieNode, error) {
	shape, err := d.Shape()
	if err != nil {
		return nil, err
	}
	data := loader.DeepMerge(loader.Clone(d.Defaults()), loader.Clone(values))
	opts = append([]state.Option{state.WithMessages(d.Messages)}, opts...)
	return state.New(shape, data, opts...)
}

// args are the arguments of one rule declaration.
type args map[string]any

func (a args) message() []string {
	if s, ok := a["message"].(string); ok && s != "" {
		return []string{s}
	}
	return nil
}

func (a args) requiredString(key string) (string, error) {
	v, ok := a[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %q", ErrInvalidDecl, key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %s: want non-empty string, got %T", ErrInvalidDecl, key, v)
	}
	return s, nil
}

// only reports the first argument not in allowed.
func (a args) only(allowed ...string) error {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if !slices.Contains(allowed, k) {
			return fmt.Errorf("%w: unknown argument %q", ErrInvalidDecl, k)
		}
	}
	return nil
}
