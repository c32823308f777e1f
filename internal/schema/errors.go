package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors for malformed declarations.
var (
	// ErrUnknownRule is returned for a rule name the schema does not define.
	ErrUnknownRule = errors.New("unknown rule")

	// ErrUnknownKind is returned for a field kind other than value, group
	// or collection.
	ErrUnknownKind = errors.New("unknown field kind")

	// ErrInvalidDecl is returned for a declaration of the wrong shape.
	ErrInvalidDecl = errors.New("invalid declaration")
)

// DeclError reports a problem at a position in a schema document.
type DeclError struct {
	// Path locates the declaration, e.g. "fields.email.rules[1]".
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *DeclError) Error() string {
	if e.Path == "" {
		return "schema: " + e.Err.Error()
	}
	return fmt.Sprintf("schema: %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *DeclError) Unwrap() error {
	return e.Err
}

func declErr(path string, err error) error {
	return &DeclError{Path: path, Err: err}
}

func declErrf(path string, sentinel error, format string, args ...any) error {
	return &DeclError{Path: path, Err: fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)}
}
