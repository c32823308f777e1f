package address

import (
	"math/rand/v2"
	"strconv"
)

// Bounds of the local segment range.
const (
	MinLocal = 100000000
	MaxLocal = 999999999
)

// intN is swapped in tests for deterministic segments.
var intN = rand.IntN

// Next returns a new random local segment in [MinLocal, MaxLocal].
func Next() string {
	return strconv.Itoa(MinLocal + intN(MaxLocal-MinLocal+1))
}

// New returns a fresh address under parent.
func New(parent Address) Address {
	return Compose(parent, Next())
}
