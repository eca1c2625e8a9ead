package cmp

// SliceEq checks two slices have the same content in the same order.
func SliceEq[T comparable](a, b []T) bool {
	return SliceEqWith(a, b, func(x, y T) bool { return x == y })
}

// SliceEqWith checks two slices are equal under the given predicate.
func SliceEqWith[T any, U any](a []T, b []U, pred func(T, U) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for nth := range a {
		if !pred(a[nth], b[nth]) {
			return false
		}
	}
	return true
}
