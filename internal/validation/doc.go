// Package validation provides the rule pipeline form fields consult to
// compute their errors.
//
// A Rule is a pure predicate over a field value with a symbolic key and a
// default English message. Validate applies every rule in order and collects
// every failure; it never stops at the first one and never returns an error.
//
//	failures := validation.Validate("", validation.Required(), validation.Email())
//	// [{Key: required, Message: This field is required.}]
//
// Pattern rules (Matches, Email, Tag) pass on empty values. Compose them with
// Required to forbid empty input.
//
// Messages overrides default messages per field and rule key:
//
//	msgs := validation.Messages{
//	    "required":    "Please fill this in.",
//	    "email.email": "That does not look like an email.",
//	}
//	msgs.Resolve("email", "email", "default") // "That does not look like an email."
package validation
