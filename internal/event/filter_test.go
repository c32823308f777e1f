package event

import (
	"testing"

	"github.com/dshills/rehance/internal/address"
)

func TestFilters(t *testing.T) {
	evt := NewEvent("collection.appended", "1.2.3", 4, "state")

	tests := []struct {
		name   string
		filter FilterFunc
		want   bool
	}{
		{"source match", FilterBySource("state"), true},
		{"source mismatch", FilterBySource("cli"), false},
		{"topic match", FilterByTopic("value.updated", "collection.appended"), true},
		{"topic mismatch", FilterByTopic("value.updated"), false},
		{"topic prefix", FilterByTopicPrefix("collection."), true},
		{"topic prefix mismatch", FilterByTopicPrefix("value."), false},
		{"origin pattern", FilterByOrigin("1.*.3"), true},
		{"origin pattern mismatch", FilterByOrigin("1.*"), false},
		{"and", FilterAnd(FilterAll(), FilterBySource("state")), true},
		{"and fails", FilterAnd(FilterAll(), FilterNone()), false},
		{"and ignores nil", FilterAnd(nil, FilterAll()), true},
		{"or", FilterOr(FilterNone(), FilterBySource("state")), true},
		{"or fails", FilterOr(FilterNone(), nil), false},
		{"not", FilterNot(FilterNone()), true},
		{"all", FilterAll(), true},
		{"none", FilterNone(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter(evt); got != tt.want {
				t.Errorf("filter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterBySubtree(t *testing.T) {
	filter := FilterBySubtree("1.2")

	tests := []struct {
		origin address.Address
		want   bool
	}{
		{"1.2", true},
		{"1.2.3", true},
		{"1.2.3.4", true},
		{"1", true},
		{"1.3", false},
		{"1.22", false},
		{"9", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin.String(), func(t *testing.T) {
			evt := NewEvent("value.updated", tt.origin, nil, "test")
			if got := filter(evt); got != tt.want {
				t.Errorf("FilterBySubtree(1.2)(%s) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}
