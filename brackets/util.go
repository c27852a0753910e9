package brackets

import "fmt"

const maxSlots = 1 << 16

// NearestPow2 rounds v up to the number of first-round slots a bracket needs.
// 0 and 1 both yield 2 since the smallest bracket is a single match: a lone
// participant still gets a match decided as a bye, where plain bit rounding
// would give 1 slot and no matches at all.
func NearestPow2(v int) (int, error) {
	if v < 0 || v > maxSlots {
		return 0, fmt.Errorf("%w: got %d", ErrOutOfRange, v)
	}
	if v < 2 {
		return 2, nil
	}
	if v&(v-1) == 0 {
		return v, nil
	}

	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v++
	return v, nil
}

func log2(v int) int {
	n := 0
	for v > 1 {
		v >>= 1
		n++
	}
	return n
}
