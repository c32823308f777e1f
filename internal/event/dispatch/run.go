package dispatch

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Outcome classifies a handler execution.
type Outcome uint8

const (
	// Delivered means the handler returned nil.
	Delivered Outcome = iota

	// Failed means the handler returned an error.
	Failed

	// Panicked means the handler panicked.
	Panicked
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case Failed:
		return "failed"
	case Panicked:
		return "panicked"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

// Result describes one handler execution.
type Result struct {
	Outcome Outcome

	// Err is the error returned by a Failed handler.
	Err error

	// PanicValue and Stack are set for a Panicked handler.
	PanicValue any
	Stack      []byte

	Elapsed time.Duration
}

// Run calls h with evt and reports how it went. Run never panics.
func Run[E any](evt E, h func(E) error) (res Result) {
	start := time.Now()
	defer func() {
		res.Elapsed = time.Since(start)
		if r := recover(); r != nil {
			res = Result{
				Outcome:    Panicked,
				PanicValue: r,
				Stack:      debug.Stack(),
				Elapsed:    res.Elapsed,
			}
		}
	}()

	if err := h(evt); err != nil {
		return Result{Outcome: Failed, Err: err}
	}
	return Result{Outcome: Delivered}
}
