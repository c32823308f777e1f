package validation

import "errors"

// ErrInvalidTag is returned by Tag for an expression validator cannot parse.
var ErrInvalidTag = errors.New("invalid validation tag")
