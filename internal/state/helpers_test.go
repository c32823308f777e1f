package state

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dshills/rehance/internal/event"
	"github.com/dshills/rehance/internal/validation"
)

var quiet = WithLogger(slog.New(slog.DiscardHandler))

// recorder collects every event published on a bus.
type recorder struct {
	events []event.Event
}

func record(t *testing.T, bus *event.Bus) *recorder {
	t.Helper()
	r := &recorder{}
	_, err := bus.SubscribeFunc(func(evt event.Event) error {
		r.events = append(r.events, evt)
		return nil
	})
	require.NoError(t, err)
	return r
}

func (r *recorder) topics() []event.Topic {
	out := make([]event.Topic, len(r.events))
	for i, evt := range r.events {
		out[i] = evt.Topic
	}
	return out
}

func contactShape() Shape {
	return Shape{
		"name":  Value(),
		"phone": Value(),
	}
}

func requiredRule() validation.Rule {
	return validation.Required()
}
