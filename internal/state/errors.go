package state

import (
	"errors"
	"fmt"

	"github.com/dshills/rehance/internal/address"
)

// Sentinel errors for structural misuse.
var (
	// ErrIndexOutOfRange is returned when a collection index is out of bounds.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrIncompatibleParent is returned when a node is constructed under a
	// parent that cannot own children or belongs to another tree.
	ErrIncompatibleParent = errors.New("incompatible parent")

	// ErrShapeMismatch is returned when initial data does not fit the shape.
	ErrShapeMismatch = errors.New("value does not match shape")

	// ErrUnknownField is returned when initial data names a field the shape lacks.
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidShape is returned for a malformed shape declaration.
	ErrInvalidShape = errors.New("invalid shape")

	// ErrNotFound is returned by Find when a path does not resolve.
	ErrNotFound = errors.New("node not found")
)

// StructureError reports a structural operation that failed.
type StructureError struct {
	// Op is the operation, e.g. "drop" or "append".
	Op string

	// Node is the address of the node the operation ran on. Empty when the
	// node was never created.
	Node address.Address

	// Path is the field path involved, when there is one.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StructureError) Error() string {
	msg := "state: " + e.Op
	if e.Node != "" {
		msg += " on " + e.Node.String()
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" at %q", e.Path)
	}
	return msg + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *StructureError) Unwrap() error {
	return e.Err
}
