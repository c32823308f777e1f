package state

import (
	"fmt"
	"slices"
	"strconv"
)

// builder constructs subtrees from shape and data, reporting failures as
// StructureErrors under one operation name.
type builder struct {
	op string
	t  *tree
}

func (b builder) fail(n Node, path string, err error) error {
	se := &StructureError{Op: b.op, Path: path, Err: err}
	if n != nil {
		se.Node = n.ID()
	}
	return se
}

// trie builds a record node for shape. Missing fields take their declared
// default.
func (b builder) trie(parent Node, name, path string, shape Shape, data map[string]any) (*TrieNode, error) {
	n := &TrieNode{
		shape:    shape,
		keys:     shape.Keys(),
		children: make(map[string]Node, len(shape)),
	}
	n.init(n, b.t, parent, name)

	var extra []string
	for key := range data {
		if _, ok := shape[key]; !ok {
			extra = append(extra, key)
		}
	}
	if len(extra) > 0 {
		slices.Sort(extra)
		return nil, b.fail(n, joinPath(path, extra[0]), ErrUnknownField)
	}

	for _, key := range n.keys {
		f := shape[key]
		raw, ok := data[key]
		if !ok {
			raw = f.Default
		}
		child, err := b.field(n, key, joinPath(path, key), f, raw)
		if err != nil {
			return nil, err
		}
		n.children[key] = child
	}
	n.initial = n.Value().(map[string]any)
	return n, nil
}

func (b builder) field(parent Node, key, path string, f Field, raw any) (Node, error) {
	switch f.Kind {
	case KindValue:
		return newValueNode(b.t, parent, key, raw, f.Rules), nil
	case KindTrie:
		rec, ok := asRecord(raw)
		if !ok {
			return nil, b.fail(parent, path, fmt.Errorf("%w: want record, got %T", ErrShapeMismatch, raw))
		}
		return b.trie(parent, key, path, f.Fields, rec)
	case KindCollection:
		list, ok := asList(raw)
		if !ok {
			return nil, b.fail(parent, path, fmt.Errorf("%w: want list, got %T", ErrShapeMismatch, raw))
		}
		return b.collection(parent, key, path, f.Fields, list)
	default:
		return nil, b.fail(parent, path, fmt.Errorf("%w: unknown kind %d", ErrInvalidShape, f.Kind))
	}
}

func (b builder) collection(parent Node, name, path string, item Shape, data []any) (*CollectionNode, error) {
	c := &CollectionNode{item: item}
	c.init(c, b.t, parent, name)
	items, err := b.items(c, path, 0, data)
	if err != nil {
		return nil, err
	}
	c.items = items
	c.initialItems = slices.Clone(items)
	c.initial = c.Value().([]any)
	return c, nil
}

// items builds collection items for data, naming them from index from.
func (b builder) items(c *CollectionNode, path string, from int, data []any) ([]*TrieNode, error) {
	out := make([]*TrieNode, 0, len(data))
	for i, raw := range data {
		idx := strconv.Itoa(from + i)
		itemPath := joinPath(path, idx)
		rec, ok := asRecord(raw)
		if !ok {
			return nil, b.fail(c, itemPath, fmt.Errorf("%w: want record, got %T", ErrShapeMismatch, raw))
		}
		item, err := b.trie(c, idx, itemPath, c.item, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
