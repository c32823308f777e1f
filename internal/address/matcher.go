package address

import "sync"

// Matcher finds every stored pattern that matches an address, using a trie
// keyed by pattern segments. It is safe for concurrent use.
type Matcher struct {
	mu   sync.RWMutex
	root *trieNode
}

type trieNode struct {
	children map[string]*trieNode
	patterns []Address // patterns terminating here
}

func newTrieNode() *trieNode {
	return &trieNode{
		children: make(map[string]*trieNode),
	}
}

func (n *trieNode) isEmpty() bool {
	return len(n.children) == 0 && len(n.patterns) == 0
}

// NewMatcher creates an empty matcher.
func NewMatcher() *Matcher {
	return &Matcher{
		root: newTrieNode(),
	}
}

// Add stores a pattern. Adding the same pattern twice is a no-op.
func (m *Matcher) Add(pattern Address) {
	if pattern == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	node := m.root
	for _, seg := range pattern.Segments() {
		if node.children[seg] == nil {
			node.children[seg] = newTrieNode()
		}
		node = node.children[seg]
	}

	for _, p := range node.patterns {
		if p == pattern {
			return
		}
	}
	node.patterns = append(node.patterns, pattern)
}

// Remove deletes a pattern and prunes nodes left empty.
func (m *Matcher) Remove(pattern Address) {
	if pattern == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	segments := pattern.Segments()
	path := make([]*trieNode, 0, len(segments)+1)
	path = append(path, m.root)

	node := m.root
	for _, seg := range segments {
		child := node.children[seg]
		if child == nil {
			return
		}
		path = append(path, child)
		node = child
	}

	for i, p := range node.patterns {
		if p == pattern {
			node.patterns = append(node.patterns[:i], node.patterns[i+1:]...)
			break
		}
	}

	for i := len(path) - 1; i > 0; i-- {
		if !path[i].isEmpty() {
			break
		}
		delete(path[i-1].children, segments[i-1])
	}
}

// Has returns true if the exact pattern is stored.
func (m *Matcher) Has(pattern Address) bool {
	if pattern == "" {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	node := m.root
	for _, seg := range pattern.Segments() {
		if node.children[seg] == nil {
			return false
		}
		node = node.children[seg]
	}

	for _, p := range node.patterns {
		if p == pattern {
			return true
		}
	}
	return false
}

// Match returns all stored patterns matching the concrete address.
// A pattern reachable through several wildcard paths is reported once.
func (m *Matcher) Match(addr Address) []Address {
	if addr == "" {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []Address
	seen := make(map[Address]bool)
	m.matchRecursive(m.root, addr.Segments(), 0, seen, &matches)
	return matches
}

func (m *Matcher) matchRecursive(node *trieNode, segments []string, depth int, seen map[Address]bool, matches *[]Address) {
	if node == nil {
		return
	}

	if depth == len(segments) {
		for _, p := range node.patterns {
			if !seen[p] {
				seen[p] = true
				*matches = append(*matches, p)
			}
		}
		// ** at the end can match zero segments
		if child := node.children[WildcardMulti]; child != nil {
			m.matchRecursive(child, segments, depth, seen, matches)
		}
		return
	}

	segment := segments[depth]

	if child := node.children[segment]; child != nil {
		m.matchRecursive(child, segments, depth+1, seen, matches)
	}

	if child := node.children[WildcardSingle]; child != nil {
		m.matchRecursive(child, segments, depth+1, seen, matches)
	}

	if child := node.children[WildcardMulti]; child != nil {
		for i := depth; i <= len(segments); i++ {
			m.matchRecursive(child, segments, i, seen, matches)
		}
	}
}

// Count returns the number of stored patterns.
func (m *Matcher) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	var walk func(n *trieNode)
	walk = func(n *trieNode) {
		count += len(n.patterns)
		for _, child := range n.children {
			walk(child)
		}
	}
	walk(m.root)
	return count
}

// Clear removes all patterns.
func (m *Matcher) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.root = newTrieNode()
}
