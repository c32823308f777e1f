package address

import "strings"

// Address is a dotted hierarchical node address, or a pattern over addresses
// when it contains wildcards.
type Address string

// Wildcard constants for pattern matching.
const (
	// WildcardSingle matches exactly one segment.
	WildcardSingle = "*"

	// WildcardMulti matches zero or more segments.
	WildcardMulti = "**"

	// Separator separates address segments.
	Separator = "."
)

// All is the pattern that matches every address.
const All Address = WildcardMulti

// Compose returns the address of a node with the given local segment under
// parent. An empty parent yields a root address.
func Compose(parent Address, local string) Address {
	if parent == "" {
		return Address(local)
	}
	return Address(string(parent) + Separator + local)
}

// String returns the address as a string.
func (a Address) String() string {
	return string(a)
}

// Segments returns the address split by the separator.
func (a Address) Segments() []string {
	if a == "" {
		return nil
	}
	return strings.Split(string(a), Separator)
}

// Depth returns the number of segments in the address.
func (a Address) Depth() int {
	if a == "" {
		return 0
	}
	return strings.Count(string(a), Separator) + 1
}

// Parent returns the address with the last segment removed.
// Returns an empty address for a root.
func (a Address) Parent() Address {
	s := string(a)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return ""
	}
	return Address(s[:idx])
}

// Local returns the last segment of the address.
func (a Address) Local() string {
	s := string(a)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return s
	}
	return s[idx+1:]
}

// Root returns the first segment of the address.
func (a Address) Root() Address {
	s := string(a)
	idx := strings.Index(s, Separator)
	if idx < 0 {
		return a
	}
	return Address(s[:idx])
}

// HasPrefix returns true if prefix equals the address or is one of its
// ancestors. Matching is done on whole segments.
func (a Address) HasPrefix(prefix Address) bool {
	if prefix == "" {
		return true
	}
	s := string(a)
	p := string(prefix)
	if !strings.HasPrefix(s, p) {
		return false
	}
	if len(s) == len(p) {
		return true
	}
	return s[len(p)] == '.'
}

// IsDescendantOf returns true if the address is strictly below ancestor.
func (a Address) IsDescendantOf(ancestor Address) bool {
	return a != ancestor && a.HasPrefix(ancestor)
}

// Subtree returns the pattern matching the address and all its descendants.
func (a Address) Subtree() Address {
	if a == "" {
		return All
	}
	return Address(string(a) + Separator + WildcardMulti)
}

// IsPattern returns true if the address contains wildcard segments.
func (a Address) IsPattern() bool {
	return strings.Contains(string(a), WildcardSingle)
}

// IsValid returns true if the address is non-empty and has no empty segments.
func (a Address) IsValid() bool {
	if a == "" {
		return false
	}
	for _, seg := range a.Segments() {
		if seg == "" {
			return false
		}
	}
	return true
}

// Matches returns true if the address matches the given pattern.
func (a Address) Matches(pattern Address) bool {
	return matchSegments(a.Segments(), pattern.Segments())
}

// matchSegments performs recursive pattern matching on address segments.
func matchSegments(addr, pattern []string) bool {
	ai, pi := 0, 0

	for pi < len(pattern) {
		if pattern[pi] == WildcardMulti {
			for ai <= len(addr) {
				if matchSegments(addr[ai:], pattern[pi+1:]) {
					return true
				}
				ai++
			}
			return false
		}

		if ai >= len(addr) {
			return false
		}

		if pattern[pi] != WildcardSingle && pattern[pi] != addr[ai] {
			return false
		}
		ai++
		pi++
	}

	return ai == len(addr)
}
