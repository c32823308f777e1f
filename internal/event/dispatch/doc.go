// Package dispatch runs subscriber handlers with fault isolation.
//
// Run calls one handler in the caller's goroutine. An error or a panic is
// captured in the Result instead of escaping, so a bus can keep delivering
// to the remaining subscribers:
//
//	res := dispatch.Run(evt, handler.Handle)
//	if res.Outcome == dispatch.Panicked {
//	    logger.Error("handler panicked", "panic", res.PanicValue)
//	}
//
// Tally aggregates results for statistics.
package dispatch
