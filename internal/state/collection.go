package state

import (
	"fmt"
	"slices"
)

// CollectionNode is an ordered list of records sharing one item shape.
type CollectionNode struct {
	base

	item         Shape
	items        []*TrieNode
	initial      []any
	initialItems []*TrieNode
}

// NewCollection creates a collection whose items follow item.
func NewCollection(item Shape, initial []any, opts ...Option) (*CollectionNode, error) {
	const op = "new collection"
	if err := item.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	t, err := resolveParent(op, o)
	if err != nil {
		return nil, err
	}
	prefix := ""
	if o.parent != nil {
		prefix = joinPath(o.parent.Path(), o.name)
	}
	return builder{op: op, t: t}.collection(o.parent, o.name, prefix, item, initial)
}

// Kind returns KindCollection.
func (c *CollectionNode) Kind() Kind { return KindCollection }

// ItemShape returns the shape every item follows.
func (c *CollectionNode) ItemShape() Shape { return c.item }

// Value returns a fresh list of the items' values.
func (c *CollectionNode) Value() any {
	out := make([]any, len(c.items))
	for i, item := range c.items {
		out[i] = item.Value()
	}
	return out
}

// InitialValue returns the list as it was right after construction.
func (c *CollectionNode) InitialValue() any { return c.initial }

// Len returns the number of items.
func (c *CollectionNode) Len() int { return len(c.items) }

// At returns the item at i, or nil when i is out of range.
func (c *CollectionNode) At(i int) *TrieNode {
	if i < 0 || i >= len(c.items) {
		return nil
	}
	return c.items[i]
}

// Items returns a copy of the item list.
func (c *CollectionNode) Items() []*TrieNode {
	return slices.Clone(c.items)
}

func (c *CollectionNode) indexOf(n Node) int {
	return slices.IndexFunc(c.items, func(item *TrieNode) bool { return Node(item) == n })
}

// Append builds one item from data and adds it at the end. A single
// collection.appended event carries the new index.
func (c *CollectionNode) Append(data any) (*TrieNode, error) {
	const op = "append"
	idx := len(c.items)
	b := builder{op: op, t: c.tree}
	items, err := b.items(c, c.Path(), idx, []any{data})
	if err != nil {
		return nil, err
	}
	c.items = append(c.items, items[0])
	c.logger().Debug("collection append", "node", c.id, "index", idx)
	c.publish(TopicCollectionAppended, idx)
	return items[0], nil
}

// Fill appends one item per element of data. Either every item is added or
// none is. A single collection.filled event carries the added range; an
// empty data list publishes nothing.
func (c *CollectionNode) Fill(data []any) error {
	const op = "fill"
	if len(data) == 0 {
		return nil
	}
	from := len(c.items)
	b := builder{op: op, t: c.tree}
	items, err := b.items(c, c.Path(), from, data)
	if err != nil {
		return err
	}
	c.items = append(c.items, items...)
	c.logger().Debug("collection fill", "node", c.id, "from", from, "count", len(items))
	c.publish(TopicCollectionFilled, FillRange{From: from, Count: len(items)})
	return nil
}

// Drop removes the item at i and publishes collection.dropped with the
// index. Out of range indexes leave the collection unchanged.
func (c *CollectionNode) Drop(i int) error {
	if i < 0 || i >= len(c.items) {
		return &StructureError{
			Op:   "drop",
			Node: c.id,
			Err:  fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(c.items)),
		}
	}
	c.items = slices.Delete(c.items, i, i+1)
	c.logger().Debug("collection drop", "node", c.id, "index", i)
	c.publish(TopicCollectionDropped, i)
	return nil
}

// Changed reports whether the length, the item identities or any item's
// values differ from construction.
func (c *CollectionNode) Changed() bool {
	if len(c.items) != len(c.initialItems) {
		return true
	}
	for i, item := range c.items {
		if item != c.initialItems[i] || item.Changed() {
			return true
		}
	}
	return false
}

// IsValid reports whether every item is valid.
func (c *CollectionNode) IsValid() bool {
	for _, item := range c.items {
		if !item.IsValid() {
			return false
		}
	}
	return true
}

// TouchAll marks every value below c dirty and validates it, then publishes
// a single tree.touched event.
func (c *CollectionNode) TouchAll() {
	touchAll(c)
	c.publish(TopicTreeTouched, nil)
}
