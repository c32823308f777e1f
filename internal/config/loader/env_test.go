package loader

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func envLoader(prefix string, env ...string) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.environ = func() []string { return env }
	return l
}

func TestEnvLoader_Load(t *testing.T) {
	l := envLoader(DefaultEnvPrefix,
		"FORMCHECK_VALUE_EMAIL=a@b.com",
		"FORMCHECK_VALUE_AGE=30",
		"FORMCHECK_VALUE_ADDRESS__ZIP_CODE=N1 9GU",
		"FORMCHECK_VALUE_TERMS=true",
		"FORMCHECK_VALUE_=ignored",
		"HOME=/root",
		"BROKEN",
	)

	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := map[string]any{
		"email":   "a@b.com",
		"age":     30,
		"address": map[string]any{"zipCode": "N1 9GU"},
		"terms":   true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvLoader_Mapping(t *testing.T) {
	l := envLoader("APP_", "CITY=Oslo", "APP_NAME=x")
	l.AddMapping("CITY", "address.city")

	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := map[string]any{
		"address": map[string]any{"city": "Oslo"},
		"name":    "x",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	l.RemoveMapping("CITY")
	got, _ = l.Load()
	if _, ok := got["address"]; ok {
		t.Error("removed mapping still applied")
	}
}

func TestEnvLoader_envToPath(t *testing.T) {
	l := NewEnvLoader("P_")
	tests := map[string]string{
		"P_EMAIL":                 "email",
		"P_FIRST_NAME":            "firstName",
		"P_ADDRESS__CITY":         "address.city",
		"P_CONTACTS__0__PHONE_NO": "contacts.0.phoneNo",
	}
	for env, want := range tests {
		if got := l.envToPath(env); got != want {
			t.Errorf("envToPath(%q) = %q, want %q", env, got, want)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"FALSE", false},
		{"null", nil},
		{"0", 0},
		{"42", 42},
		{"-3", -3},
		{"1.5", 1.5},
		{"a.b", "a.b"},
		{"hello", "hello"},
		{`["a", 1]`, []any{"a", float64(1)}},
		{`{"k": "v"}`, map[string]any{"k": "v"}},
		{"[not json", "[not json"},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, ParseValue(tt.in)); diff != "" {
			t.Errorf("ParseValue(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestSetPath(t *testing.T) {
	data := map[string]any{"address": "flat"}
	SetPath(data, "address.city", "Oslo")
	SetPath(data, "email", "a@b.com")

	want := map[string]any{
		"address": map[string]any{"city": "Oslo"},
		"email":   "a@b.com",
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("SetPath() mismatch (-want +got):\n%s", diff)
	}
}
