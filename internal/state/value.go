package state

import (
	"slices"

	"github.com/dshills/rehance/internal/validation"
	"github.com/dshills/rehance/internal/value"
)

// ValueNode is a leaf holding a single value.
type ValueNode struct {
	base

	initial any
	current any

	rules   []validation.Rule
	errors  []validation.Failure
	dirty   bool
	focused bool
}

// NewValue creates a value node. Without WithParent the node is the root of
// its own tree and gets its own bus.
func NewValue(initial any, opts ...Option) (*ValueNode, error) {
	o := buildOptions(opts)
	t, err := resolveParent("new value", o)
	if err != nil {
		return nil, err
	}
	return newValueNode(t, o.parent, o.name, initial, o.rules), nil
}

func newValueNode(t *tree, parent Node, name string, initial any, rules []validation.Rule) *ValueNode {
	n := &ValueNode{
		initial: initial,
		current: initial,
		rules:   dedupeRules(nil, rules...),
	}
	n.init(n, t, parent, name)
	n.validate()
	return n
}

// Kind returns KindValue.
func (n *ValueNode) Kind() Kind { return KindValue }

// Value returns the current value.
func (n *ValueNode) Value() any { return n.current }

// InitialValue returns the value the node was created with.
func (n *ValueNode) InitialValue() any { return n.initial }

// Update replaces the value, re-runs the rules and publishes value.updated.
func (n *ValueNode) Update(v any) {
	old := n.current
	n.current = v
	n.validate()
	n.publish(TopicValueUpdated, ValueChange{Old: old, New: v})
}

// Toggle flips the value's truthiness to a bool, as a checkbox does, and
// publishes value.updated like Update.
func (n *ValueNode) Toggle() {
	n.Update(!value.Truthy(n.current))
}

// Reset restores the initial value and the pristine state, re-runs the
// rules and publishes value.reset.
func (n *ValueNode) Reset() {
	old := n.current
	n.current = n.initial
	n.dirty = false
	n.focused = false
	n.validate()
	n.publish(TopicValueReset, ValueChange{Old: old, New: n.initial})
}

// Clear sets the value to nil, re-runs the rules and publishes
// value.cleared.
func (n *ValueNode) Clear() {
	old := n.current
	n.current = nil
	n.validate()
	n.publish(TopicValueCleared, ValueChange{Old: old})
}

// Changed reports whether the current value is not the initial value.
// Maps, slices and pointers compare by reference.
func (n *ValueNode) Changed() bool {
	return !value.Same(n.current, n.initial)
}

// Truthy reports whether the value counts as present.
func (n *ValueNode) Truthy() bool { return value.Truthy(n.current) }

// Empty reports whether the value holds no data.
func (n *ValueNode) Empty() bool { return value.Empty(n.current) }

// StringValue returns the value as a string, or "" for non-scalars.
func (n *ValueNode) StringValue() string { return value.String(n.current) }

// ListValue returns the value as a list, or an empty list.
func (n *ValueNode) ListValue() []any { return value.List(n.current) }

// MapValue returns the value as a map, or an empty map.
func (n *ValueNode) MapValue() map[string]any { return value.Map(n.current) }

// Rules returns a copy of the node's rules.
func (n *ValueNode) Rules() []validation.Rule {
	return slices.Clone(n.rules)
}

// AddRule appends rules whose keys the node does not carry yet and re-runs
// the rules.
func (n *ValueNode) AddRule(rules ...validation.Rule) *ValueNode {
	n.rules = dedupeRules(n.rules, rules...)
	n.validate()
	return n
}

// IsRequired reports whether the node carries a requirement rule.
func (n *ValueNode) IsRequired() bool {
	return validation.HasRequirement(n.rules)
}

// Validate re-runs the rules against the current value and returns the
// failures. It does not publish.
func (n *ValueNode) Validate() []validation.Failure {
	n.validate()
	return n.Errors()
}

func (n *ValueNode) validate() {
	n.errors = validation.ValidateField(n.Name(), n.current, n.tree.messages, n.rules...)
}

// Errors returns the failures of the last validation.
func (n *ValueNode) Errors() []validation.Failure {
	return slices.Clone(n.errors)
}

// Error returns the first failure message, or "".
func (n *ValueNode) Error() string {
	if len(n.errors) == 0 {
		return ""
	}
	return n.errors[0].Message
}

// IsValid reports whether the current value passes every rule and the
// field has been interacted with or is not required.
func (n *ValueNode) IsValid() bool {
	return len(n.errors) == 0 && (n.dirty || !n.IsRequired())
}

// IsDirty reports whether the field has been interacted with.
func (n *ValueNode) IsDirty() bool { return n.dirty }

// IsFocused reports whether the field has focus.
func (n *ValueNode) IsFocused() bool { return n.focused }

// Focus marks the field focused and dirty and publishes field.focused.
func (n *ValueNode) Focus() {
	n.focused = true
	n.dirty = true
	n.publish(TopicFieldFocused, nil)
}

// Blur clears focus, re-runs the rules and publishes field.blurred.
func (n *ValueNode) Blur() {
	n.focused = false
	n.validate()
	n.publish(TopicFieldBlurred, nil)
}

// Touch marks the field dirty, re-runs the rules and publishes field.touched.
func (n *ValueNode) Touch() {
	n.touch()
	n.publish(TopicFieldTouched, nil)
}

func (n *ValueNode) touch() {
	n.dirty = true
	n.validate()
}

// dedupeRules appends the rules whose keys are not in dst yet.
func dedupeRules(dst []validation.Rule, rules ...validation.Rule) []validation.Rule {
	for _, r := range rules {
		if slices.ContainsFunc(dst, func(have validation.Rule) bool { return have.Key == r.Key }) {
			continue
		}
		dst = append(dst, r)
	}
	return dst
}
