// Package address provides hierarchical node addresses for a state trie.
//
// # Address Format
//
// Every node in a trie carries a dotted address whose segments trace its
// ancestor chain. A root draws one random local segment; each child appends
// its own local segment to its parent's address:
//
//	482913775                       root
//	482913775.100384921             child of the root
//	482913775.100384921.733019284   grandchild
//
// Local segments are nine-digit integers drawn uniformly at random. They are
// unique with overwhelming probability but collisions are not defended
// against.
//
// # Patterns
//
// Subscribers select the nodes they care about with patterns:
//
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
//
// Examples:
//
//	**                  matches every address
//	482913775.**        matches the root and all of its descendants
//	482913775.*         matches only the direct children of the root
//
// The Matcher type stores many patterns in a trie and returns every pattern
// that matches a concrete address.
package address
