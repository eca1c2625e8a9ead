package cmp_test

import (
	"strconv"
	"testing"

	"github.com/nycbus/imputecalls/pkg/utils/cmp"
)

func TestSliceEq(t *testing.T) {
	t.Run("it is true for slices with the same content", func(t *testing.T) {
		if !cmp.SliceEq([]int{1, 2, 3}, []int{1, 2, 3}) {
			t.Error("equal slices are reported unequal")
		}
	})

	t.Run("it is true for empty slices", func(t *testing.T) {
		if !cmp.SliceEq([]int{}, nil) {
			t.Error("empty slices are reported unequal")
		}
	})

	t.Run("it is false for different lengths", func(t *testing.T) {
		if cmp.SliceEq([]int{1, 2, 3}, []int{1, 2}) {
			t.Error("slices of different lengths are reported equal")
		}
	})

	t.Run("it is false for different orders", func(t *testing.T) {
		if cmp.SliceEq([]int{1, 2, 3}, []int{3, 2, 1}) {
			t.Error("reordered slices are reported equal")
		}
	})
}

func TestSliceEqWith(t *testing.T) {
	t.Run("it compares under the predicate", func(t *testing.T) {
		if !cmp.SliceEqWith(
			[]int{1, 2, 3}, []string{"1", "2", "3"},
			func(i int, s string) bool { return strconv.Itoa(i) == s },
		) {
			t.Error("matching slices are reported unequal")
		}

		if cmp.SliceEqWith(
			[]int{1, 2, 3}, []string{"1", "2", "4"},
			func(i int, s string) bool { return strconv.Itoa(i) == s },
		) {
			t.Error("mismatching slices are reported equal")
		}
	})
}
