package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dshills/rehance/internal/state"
	"github.com/dshills/rehance/internal/validation"
)

const signupYAML = `
messages:
  required: "Please fill this in."
  email.email: "That does not look like an email."
fields:
  email:   { rules: [ required, { email: {} } ] }
  age:     { default: 0, rules: [ { tag: { expr: "gte=0,lte=150" } } ] }
  terms:   { default: false, rules: [ { mustBe: { value: true } } ] }
  address: { kind: group, fields: { city: { rules: [ { required: {} } ] } } }
  contacts:
    kind: collection
    fields:
      name:  { rules: [ { required: {} } ] }
      phone: { rules: [ { requiredIf: { lua: "value ~= nil and value ~= ''" } } ] }
`

func parseYAML(t *testing.T, src string) *Document {
	t.Helper()
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(src), &raw))
	doc, err := Parse(raw)
	require.NoError(t, err)
	t.Cleanup(doc.Close)
	return doc
}

func TestParse(t *testing.T) {
	doc := parseYAML(t, signupYAML)

	assert.Equal(t, validation.Messages{
		"required":    "Please fill this in.",
		"email.email": "That does not look like an email.",
	}, doc.Messages)
	require.Len(t, doc.Fields, 5)

	email := doc.Fields["email"]
	assert.Equal(t, KindValue, email.Kind)
	assert.Equal(t, []RuleDecl{{Name: "required"}, {Name: "email", Args: map[string]any{}}}, email.Rules)

	assert.Equal(t, KindCollection, doc.Fields["contacts"].Kind)
	assert.Contains(t, doc.Fields["contacts"].Fields, "phone")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  error
		path string
	}{
		{"unknown section", "widgets: {}", ErrInvalidDecl, "widgets"},
		{"message not string", "messages: { required: 3 }", ErrInvalidDecl, "messages.required"},
		{"fields not mapping", "fields: [a]", ErrInvalidDecl, "fields"},
		{"unknown kind", "fields: { a: { kind: table } }", ErrUnknownKind, "fields.a.kind"},
		{"unknown key", "fields: { a: { color: red } }", ErrInvalidDecl, "fields.a.color"},
		{"dotted name", "fields: { a.b: {} }", ErrInvalidDecl, "fields.a.b"},
		{"rules not list", "fields: { a: { rules: required } }", ErrInvalidDecl, "fields.a.rules"},
		{"rule with two names", "fields: { a: { rules: [ { required: {}, email: {} } ] } }", ErrInvalidDecl, "fields.a.rules[0]"},
		{"rule args not mapping", "fields: { a: { rules: [ { required: 1 } ] } }", ErrInvalidDecl, "fields.a.rules[0].required"},
		{"rules on group", "fields: { a: { kind: group, rules: [ required ] } }", ErrInvalidDecl, "fields.a"},
		{"fields on value", "fields: { a: { fields: { b: {} } } }", ErrInvalidDecl, "fields.a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw map[string]any
			require.NoError(t, yaml.Unmarshal([]byte(tt.src), &raw))

			_, err := Parse(raw)
			require.ErrorIs(t, err, tt.err)

			var de *DeclError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.path, de.Path)
		})
	}
}

func TestDocument_Defaults(t *testing.T) {
	doc := parseYAML(t, signupYAML)

	assert.Equal(t, map[string]any{
		"email":    nil,
		"age":      0,
		"terms":    false,
		"address":  map[string]any{"city": nil},
		"contacts": []any{},
	}, doc.Defaults())
}

func TestDocument_ShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  error
		path string
	}{
		{"unknown rule", "fields: { a: { rules: [ phone ] } }", ErrUnknownRule, "fields.a.rules[0].phone"},
		{"bad pattern", "fields: { a: { rules: [ { matches: { pattern: '(' } } ] } }", ErrInvalidDecl, "fields.a.rules[0].matches"},
		{"missing pattern", "fields: { a: { rules: [ matches ] } }", ErrInvalidDecl, "fields.a.rules[0].matches"},
		{"bad tag", "fields: { a: { rules: [ { tag: { expr: 'nosuchtag' } } ] } }", validation.ErrInvalidTag, "fields.a.rules[0].tag"},
		{"bad lua", "fields: { a: { rules: [ { check: { lua: 'value ==' } } ] } }", nil, "fields.a.rules[0].check"},
		{"mustBe not bool", "fields: { a: { rules: [ { mustBe: { value: yes please } } ] } }", ErrInvalidDecl, "fields.a.rules[0].mustBe"},
		{"unknown argument", "fields: { a: { rules: [ { required: { msg: x } } ] } }", ErrInvalidDecl, "fields.a.rules[0].required"},
		{"nested", "fields: { g: { kind: group, fields: { a: { rules: [ nope ] } } } }", ErrUnknownRule, "fields.g.fields.a.rules[0].nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseYAML(t, tt.src)

			_, err := doc.Shape()
			require.Error(t, err)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}

			var de *DeclError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.path, de.Path)
		})
	}
}

func TestDocument_Build(t *testing.T) {
	doc := parseYAML(t, signupYAML)

	root, err := doc.Build(map[string]any{
		"email":    "a@b.com",
		"address":  map[string]any{"city": "Oslo"},
		"contacts": []any{map[string]any{"name": "x"}},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"email":    "a@b.com",
		"age":      0,
		"terms":    false,
		"address":  map[string]any{"city": "Oslo"},
		"contacts": []any{map[string]any{"name": "x", "phone": nil}},
	}, root.Value())
	assert.Equal(t, doc.Messages, root.Messages())
}

func TestDocument_BuildValidates(t *testing.T) {
	doc := parseYAML(t, signupYAML)

	root, err := doc.Build(map[string]any{
		"email":    "nope",
		"age":      200,
		"contacts": []any{map[string]any{"phone": ""}},
	})
	require.NoError(t, err)

	root.TouchAll()
	var got []string
	for _, f := range state.Failures(root) {
		got = append(got, f.Path+": "+f.Message)
	}

	assert.Equal(t, []string{
		"address.city: Please fill this in.",
		"age: " + validation.MsgTag,
		"contacts.0.name: Please fill this in.",
		"contacts.0.phone: " + validation.MsgRequired,
		"email: That does not look like an email.",
		"terms: " + validation.MsgMustBeTrue,
	}, got)
	assert.False(t, root.IsValid())

	root.Field("email").Update("a@b.com")
	root.Field("age").Update(30)
	root.Field("terms").Update(true)
	root.Group("address").Field("city").Update("Oslo")
	item := root.Collection("contacts").At(0)
	item.Field("name").Update("x")
	item.Field("phone").Update("555")
	assert.True(t, root.IsValid())
}

func TestDocument_BuildErrors(t *testing.T) {
	doc := parseYAML(t, signupYAML)

	_, err := doc.Build(map[string]any{"nickname": "x"})
	assert.ErrorIs(t, err, state.ErrUnknownField)

	_, err = doc.Build(map[string]any{"contacts": "x"})
	assert.ErrorIs(t, err, state.ErrShapeMismatch)
}

func TestDocument_BuildDoesNotAliasValues(t *testing.T) {
	doc := parseYAML(t, "fields: { g: { kind: group, fields: { a: {} } } }")
	values := map[string]any{"g": map[string]any{"a": 1}}

	_, err := doc.Build(values)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"g": map[string]any{"a": 1}}, values)
}

func TestCheckRule(t *testing.T) {
	doc := parseYAML(t, `
fields:
  code:
    rules:
      - check: { lua: "type(value) == 'string' and #value == 4", key: length, message: "Four characters." }
`)
	root, err := doc.Build(map[string]any{"code": "abc"})
	require.NoError(t, err)

	code := root.Field("code")
	failures := code.Validate()
	require.Len(t, failures, 1)
	assert.Equal(t, "length", failures[0].Key)
	assert.Equal(t, "Four characters.", failures[0].Message)

	code.Update("abcd")
	assert.Empty(t, code.Errors())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "form.json"), []byte(`{
  "@include": "shared.yaml",
  "fields": {"email": {"rules": ["required"]}}
}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shared.yaml"), []byte("messages:\n  required: shared\n"), 0o644))

	doc, err := Load(filepath.Join(dir, "form.json"))
	require.NoError(t, err)
	defer doc.Close()

	assert.Equal(t, validation.Messages{"required": "shared"}, doc.Messages)
	assert.Contains(t, doc.Fields, "email")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRuleNames(t *testing.T) {
	assert.Equal(t, []string{"check", "email", "matches", "mustBe", "required", "requiredIf", "tag"}, RuleNames())
}

func TestDeclError(t *testing.T) {
	err := &DeclError{Path: "fields.a", Err: ErrUnknownKind}
	assert.Equal(t, "schema: fields.a: unknown field kind", err.Error())
	assert.Equal(t, "schema: invalid declaration", (&DeclError{Err: ErrInvalidDecl}).Error())
}
