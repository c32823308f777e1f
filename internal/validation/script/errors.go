package script

import "errors"

// Errors for predicate compilation and evaluation.
var (
	// ErrCompile is returned when a predicate does not parse.
	ErrCompile = errors.New("lua predicate does not compile")

	// ErrEval is returned when a predicate raises an error.
	ErrEval = errors.New("lua predicate failed")

	// ErrClosed is returned when evaluating a closed predicate.
	ErrClosed = errors.New("lua predicate is closed")
)
