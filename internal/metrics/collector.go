// Package metrics exports form and bus state as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/rehance/internal/event"
	"github.com/dshills/rehance/internal/state"
)

// Collector reads a bus and a tree on every scrape. It keeps no state of
// its own, so counters follow the bus's Stats.
type Collector struct {
	bus  *event.Bus
	root state.Node

	published   *prometheus.Desc
	delivered   *prometheus.Desc
	errors      *prometheus.Desc
	panics      *prometheus.Desc
	reentrant   *prometheus.Desc
	subscribers *prometheus.Desc
	fields      *prometheus.Desc
	invalid     *prometheus.Desc
	dirty       *prometheus.Desc
	valid       *prometheus.Desc
}

// NewCollector creates a collector for bus and the tree under root. Either
// may be nil; its metrics are then omitted.
func NewCollector(namespace string, bus *event.Bus, root state.Node) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, nil)
	}
	return &Collector{
		bus:         bus,
		root:        root,
		published:   desc("events_published_total", "Events published on the bus."),
		delivered:   desc("events_delivered_total", "Events delivered to subscribers."),
		errors:      desc("handler_errors_total", "Subscriber handlers that returned an error."),
		panics:      desc("handler_panics_total", "Subscriber handlers that panicked."),
		reentrant:   desc("reentrant_publishes_total", "Events published while the bus was dispatching."),
		subscribers: desc("subscriptions_active", "Active subscriptions."),
		fields:      desc("fields_total", "Value fields in the tree."),
		invalid:     desc("fields_invalid", "Value fields that are not valid."),
		dirty:       desc("fields_dirty", "Value fields that have been interacted with."),
		valid:       desc("tree_valid", "1 when the whole tree is valid."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		c.published, c.delivered, c.errors, c.panics, c.reentrant, c.subscribers,
		c.fields, c.invalid, c.dirty, c.valid,
	} {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.bus != nil {
		s := c.bus.Stats()
		ch <- prometheus.MustNewConstMetric(c.published, prometheus.CounterValue, float64(s.EventsPublished))
		ch <- prometheus.MustNewConstMetric(c.delivered, prometheus.CounterValue, float64(s.EventsDelivered))
		ch <- prometheus.MustNewConstMetric(c.errors, prometheus.CounterValue, float64(s.HandlerErrors))
		ch <- prometheus.MustNewConstMetric(c.panics, prometheus.CounterValue, float64(s.HandlerPanics))
		ch <- prometheus.MustNewConstMetric(c.reentrant, prometheus.CounterValue, float64(s.ReentrantPublishes))
		ch <- prometheus.MustNewConstMetric(c.subscribers, prometheus.GaugeValue, float64(s.ActiveSubscribers))
	}

	if c.root != nil {
		var fields, invalid, dirty int
		_ = state.Walk(c.root, func(n state.Node) error {
			v, ok := n.(*state.ValueNode)
			if !ok {
				return nil
			}
			fields++
			if !v.IsValid() {
				invalid++
			}
			if v.IsDirty() {
				dirty++
			}
			return nil
		})
		valid := 0.0
		if c.root.IsValid() {
			valid = 1
		}
		ch <- prometheus.MustNewConstMetric(c.fields, prometheus.GaugeValue, float64(fields))
		ch <- prometheus.MustNewConstMetric(c.invalid, prometheus.GaugeValue, float64(invalid))
		ch <- prometheus.MustNewConstMetric(c.dirty, prometheus.GaugeValue, float64(dirty))
		ch <- prometheus.MustNewConstMetric(c.valid, prometheus.GaugeValue, valid)
	}
}

var _ prometheus.Collector = (*Collector)(nil)
