// Package value implements the coercions and comparisons form state applies
// to field values of arbitrary Go type.
//
// Field values are held as any. The functions here give them the projections
// a view layer needs (truthiness, emptiness, string, list and map views) and
// the identity comparison used for change detection.
package value
