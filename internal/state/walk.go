package state

import (
	"errors"

	"github.com/dshills/rehance/internal/validation"
)

// SkipChildren may be returned by a Walk callback to skip a node's
// descendants.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every node visited by Walk.
type WalkFunc func(n Node) error

// Walk visits n and its descendants depth-first in pre-order. Trie children
// are visited in sorted key order, collection items by index. The first
// error other than SkipChildren stops the walk and is returned.
func Walk(n Node, fn WalkFunc) error {
	err := walk(n, fn)
	if errors.Is(err, SkipChildren) {
		return nil
	}
	return err
}

func walk(n Node, fn WalkFunc) error {
	if err := fn(n); err != nil {
		return err
	}
	switch c := n.(type) {
	case *TrieNode:
		for _, key := range c.keys {
			if err := walkChild(c.children[key], fn); err != nil {
				return err
			}
		}
	case *CollectionNode:
		for _, item := range c.Items() {
			if err := walkChild(item, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func walkChild(n Node, fn WalkFunc) error {
	err := walk(n, fn)
	if errors.Is(err, SkipChildren) {
		return nil
	}
	return err
}

// FieldFailure is a validation failure of the value at Path.
type FieldFailure struct {
	Path string `json:"path" yaml:"path"`
	validation.Failure
}

// Failures collects the current failures of every value below n, in walk
// order. It does not re-run any rule.
func Failures(n Node) []FieldFailure {
	var out []FieldFailure
	_ = Walk(n, func(c Node) error {
		v, ok := c.(*ValueNode)
		if !ok {
			return nil
		}
		for _, f := range v.errors {
			out = append(out, FieldFailure{Path: v.Path(), Failure: f})
		}
		return nil
	})
	return out
}
