package event

// Priority orders the handlers of one event. Lower values run first.
type Priority int

// Priority bands. Any int is a valid priority; these name the usual tiers.
const (
	PriorityCritical Priority = 0
	PriorityHigh     Priority = 100
	PriorityNormal   Priority = 200
	PriorityLow      Priority = 300
)

// String names the band p falls in.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	}
	return "low"
}

// Handler reacts to a delivered event. A returned error is reported to the
// subscription's OnError hook and logged; it never reaches the publisher.
type Handler interface {
	Handle(evt Event) error
}

// HandlerFunc lets an ordinary function act as a Handler.
type HandlerFunc func(evt Event) error

func (f HandlerFunc) Handle(evt Event) error { return f(evt) }

// FilterFunc decides per event whether a subscription receives it.
type FilterFunc func(evt Event) bool

// ErrorHandler receives a *HandlerError or *PanicError.
type ErrorHandler func(err error)

// Stats is a snapshot of bus counters.
type Stats struct {
	EventsPublished uint64

	// EventsDelivered counts handler runs that returned nil.
	EventsDelivered uint64

	HandlersExecuted uint64
	HandlerErrors    uint64
	HandlerPanics    uint64

	// ReentrantPublishes counts events queued by handlers while the bus
	// was delivering.
	ReentrantPublishes uint64

	ActiveSubscribers int
}
