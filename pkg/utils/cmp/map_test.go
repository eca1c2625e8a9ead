package cmp_test

import (
	"strconv"
	"testing"

	"github.com/nycbus/imputecalls/pkg/utils/cmp"
)

func TestMapEq(t *testing.T) {
	t.Run("it is true for maps with the same content", func(t *testing.T) {
		if !cmp.MapEq(
			map[string]int{"a": 1, "b": 2},
			map[string]int{"b": 2, "a": 1},
		) {
			t.Error("equal maps are reported unequal")
		}
	})

	t.Run("it is false for different values", func(t *testing.T) {
		if cmp.MapEq(
			map[string]int{"a": 1, "b": 2},
			map[string]int{"a": 1, "b": 3},
		) {
			t.Error("maps with different values are reported equal")
		}
	})

	t.Run("it is false for different keys", func(t *testing.T) {
		if cmp.MapEq(
			map[string]int{"a": 1, "b": 2},
			map[string]int{"a": 1, "c": 2},
		) {
			t.Error("maps with different keys are reported equal")
		}
	})
}

func TestMapEqWith(t *testing.T) {
	t.Run("it compares values under the predicate", func(t *testing.T) {
		if !cmp.MapEqWith(
			map[string]int{"a": 1, "b": 2},
			map[string]string{"a": "1", "b": "2"},
			func(i int, s string) bool { return strconv.Itoa(i) == s },
		) {
			t.Error("matching maps are reported unequal")
		}
	})
}
