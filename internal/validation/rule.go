package validation

// Rule is a single validation check.
type Rule struct {
	// Key identifies the rule in failures and message catalogs.
	Key string

	// Message is the default message reported on failure.
	Message string

	// Requirement marks rules that demand a value. A field carrying a
	// requirement rule is not valid until it has been interacted with.
	Requirement bool

	// Test returns true when the value passes.
	Test func(v any) bool
}

// Failure is a failed rule.
type Failure struct {
	Key     string `json:"key" yaml:"key"`
	Message string `json:"message" yaml:"message"`
}

// String returns the failure message.
func (f Failure) String() string {
	return f.Message
}

// Check runs the rule against v. ok is false when the rule fails.
// A rule without a Test always passes.
func (r Rule) Check(v any) (f Failure, ok bool) {
	if r.Test == nil || r.Test(v) {
		return Failure{}, true
	}
	return Failure{Key: r.Key, Message: r.Message}, false
}

// Validate applies every rule to v in order and returns every failure.
// It returns nil when all rules pass.
func Validate(v any, rules ...Rule) []Failure {
	var failures []Failure
	for _, r := range rules {
		if f, ok := r.Check(v); !ok {
			failures = append(failures, f)
		}
	}
	return failures
}

// ValidateField is Validate with messages resolved against msgs for the
// named field.
func ValidateField(field string, v any, msgs Messages, rules ...Rule) []Failure {
	failures := Validate(v, rules...)
	for i := range failures {
		failures[i].Message = msgs.Resolve(field, failures[i].Key, failures[i].Message)
	}
	return failures
}

// HasRequirement reports whether any rule is a requirement rule.
func HasRequirement(rules []Rule) bool {
	for _, r := range rules {
		if r.Requirement {
			return true
		}
	}
	return false
}

// Messages is a message catalog keyed by "field.key" or "key".
type Messages map[string]string

// Resolve returns the message for a failure of rule key on field. A
// field-specific entry wins over a rule-wide entry, which wins over def.
func (m Messages) Resolve(field, key, def string) string {
	if field != "" {
		if msg, ok := m[field+"."+key]; ok && msg != "" {
			return msg
		}
	}
	if msg, ok := m[key]; ok && msg != "" {
		return msg
	}
	return def
}

// Merge returns a new catalog with the entries of others layered over m.
func (m Messages) Merge(others ...Messages) Messages {
	out := make(Messages, len(m))
	for k, v := range m {
		out[k] = v
	}
	for _, o := range others {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}
