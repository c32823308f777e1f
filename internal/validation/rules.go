package validation

import (
	"regexp"

	"github.com/dshills/rehance/internal/value"
)

// Rule keys of the built-in rules.
const (
	KeyRequired   = "required"
	KeyRequiredIf = "requiredIf"
	KeyMatches    = "matches"
	KeyEmail      = "email"
	KeyMustBe     = "mustBe"
	KeyTag        = "tag"
)

// Default messages of the built-in rules.
const (
	MsgRequired    = "This field is required."
	MsgMatches     = "This field is not in the correct format."
	MsgEmail       = "This field must be a valid email address."
	MsgMustBeTrue  = "This field must be checked."
	MsgMustBeFalse = "This field must be unchecked."
	MsgTag         = "This field is invalid."
)

// emailPattern accepts a quoted or dotted local part and a dotted domain or
// bracketed IPv4 literal.
var emailPattern = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)

func message(def string, msg []string) string {
	if len(msg) > 0 && msg[0] != "" {
		return msg[0]
	}
	return def
}

// Required fails when the value is not truthy: nil, false, "", NaN or a
// zero-length list or map. Numeric zero counts as present, so a number
// field holding 0 passes; use Tag (e.g. "ne=0") for a non-zero requirement.
func Required(msg ...string) Rule {
	return Rule{
		Key:         KeyRequired,
		Message:     message(MsgRequired, msg),
		Requirement: true,
		Test:        value.Truthy,
	}
}

// RequiredIf passes when pred returns true for the value and fails when it
// returns false. pred decides whether the current value satisfies the
// requirement; it is a requirement rule for the pristine-field gate.
func RequiredIf(pred func(v any) bool, msg ...string) Rule {
	return Rule{
		Key:         KeyRequiredIf,
		Message:     message(MsgRequired, msg),
		Requirement: true,
		Test: func(v any) bool {
			return pred == nil || pred(v)
		},
	}
}

// Matches fails when a non-empty value does not match re. Empty values pass.
func Matches(re *regexp.Regexp, msg ...string) Rule {
	return Pattern(KeyMatches, re, message(MsgMatches, msg))
}

// Pattern is Matches with a custom rule key.
func Pattern(key string, re *regexp.Regexp, msg string) Rule {
	return Rule{
		Key:     key,
		Message: msg,
		Test: func(v any) bool {
			if value.Empty(v) {
				return true
			}
			return re.MatchString(value.String(v))
		},
	}
}

// Email fails when a non-empty value is not an email address.
func Email(msg ...string) Rule {
	return Pattern(KeyEmail, emailPattern, message(MsgEmail, msg))
}

// MustBe fails unless the value's truthiness equals want. It models a
// checkbox that must be checked (or unchecked) and is not a requirement rule.
func MustBe(want bool, msg ...string) Rule {
	def := MsgMustBeTrue
	if !want {
		def = MsgMustBeFalse
	}
	return Rule{
		Key:     KeyMustBe,
		Message: message(def, msg),
		Test: func(v any) bool {
			return value.Truthy(v) == want
		},
	}
}

// Predicate builds a rule from an arbitrary test.
func Predicate(key string, test func(v any) bool, msg string) Rule {
	return Rule{Key: key, Message: msg, Test: test}
}
