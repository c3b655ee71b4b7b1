package windowrank

import "golang.org/x/exp/constraints"

// Comparator reports the order of a relative to b: negative if a < b, zero
// if they are equivalent, positive if a > b. It is the only thing the core
// data structure requires of its value domain; equality is derived from it
// (!(a<b) && !(b<a)) rather than tracked as a separate trait.
type Comparator[T any] func(a, b T) int

// Ordered returns a Comparator for any type with the standard library's
// natural order, built with the three-way compare convention used
// throughout this package (and, upstream, by cmp.Compare and by the ring
// buffer in this module's own rate-limiting sibling, go-catrate).
func Ordered[T constraints.Ordered]() Comparator[T] {
	return func(a, b T) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
}

func (c Comparator[T]) less(a, b T) bool {
	return c(a, b) < 0
}

func (c Comparator[T]) equal(a, b T) bool {
	return c(a, b) == 0
}
