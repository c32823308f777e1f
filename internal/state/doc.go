// Package state implements the form-state trie.
//
// A tree mirrors the shape of a nested form value. Three node kinds exist:
//
//   - ValueNode holds one scalar or opaque value, its rules and its
//     interaction flags (dirty, focused).
//   - TrieNode maps field names to child nodes. Its fields are fixed by the
//     Shape it was built from.
//   - CollectionNode holds an ordered list of TrieNode items built from one
//     item Shape. Items are added with Append or Fill and removed with Drop.
//
// The root of a tree is a TrieNode without a parent. Every node of a tree
// shares the root's event bus. Each mutation entry point (Update, Reset,
// Clear, Focus, Blur, Touch, Append, Fill, Drop, TouchAll, SetMessages,
// Notify) changes state first and then publishes exactly one event whose
// origin is the mutated node's address. Reading values, validity or change
// flags never publishes.
//
// Node addresses are dotted: a child's ID is its parent's ID, a dot, and a
// random nine digit segment. Subscribers use them to scope interest:
//
//	root, err := state.New(state.Shape{
//	    "email": state.Value(validation.Required(), validation.Email()),
//	    "age":   state.Value(),
//	}, map[string]any{"email": "", "age": 0})
//
//	email := root.Field("email")
//	state.SubscribeSubtree(email, event.HandlerFunc(func(evt event.Event) error {
//	    render(email)
//	    return nil
//	}))
//	email.Update("a@b.com")
//
// # Change detection
//
// Changed compares a value with the initial value by identity: scalars by
// ==, maps, slices and pointers by reference. Updating a field with a fresh
// map equal in content to the initial one counts as a change. Deep
// comparison is left to the caller.
//
// # Validity
//
// Rules run when a value node is built and again on every mutation, so a
// node's errors always describe its current value. A value node is valid
// when it has no errors and has either been interacted with (dirty) or
// carries no requirement rule: a pristine required field is invalid even
// when its initial value passes. Tries and collections are valid when every
// child is.
//
// Nodes are not safe for concurrent use.
package state
