package dispatch

import (
	"sync/atomic"
	"time"
)

// Tally counts results. The zero value is ready to use and safe for
// concurrent use.
type Tally struct {
	executed  atomic.Uint64
	delivered atomic.Uint64
	failed    atomic.Uint64
	panicked  atomic.Uint64
	elapsedNs atomic.Int64
}

// Counts is a snapshot of a Tally.
type Counts struct {
	Executed  uint64
	Delivered uint64
	Failed    uint64
	Panicked  uint64
	Elapsed   time.Duration
}

// Record adds res to the tally.
func (t *Tally) Record(res Result) {
	t.executed.Add(1)
	t.elapsedNs.Add(int64(res.Elapsed))
	switch res.Outcome {
	case Delivered:
		t.delivered.Add(1)
	case Failed:
		t.failed.Add(1)
	case Panicked:
		t.panicked.Add(1)
	}
}

// Counts returns the current totals. Fields are read one at a time and may
// be slightly inconsistent while results are being recorded.
func (t *Tally) Counts() Counts {
	return Counts{
		Executed:  t.executed.Load(),
		Delivered: t.delivered.Load(),
		Failed:    t.failed.Load(),
		Panicked:  t.panicked.Load(),
		Elapsed:   time.Duration(t.elapsedNs.Load()),
	}
}

// Reset sets every count to zero.
func (t *Tally) Reset() {
	t.executed.Store(0)
	t.delivered.Store(0)
	t.failed.Store(0)
	t.panicked.Store(0)
	t.elapsedNs.Store(0)
}
