package utils_test

import (
	"strconv"
	"testing"

	"github.com/nycbus/imputecalls/pkg/utils"
	"github.com/nycbus/imputecalls/pkg/utils/cmp"
)

func TestMap(t *testing.T) {
	t.Run("it maps each element, keeping order", func(t *testing.T) {
		actual := utils.Map([]int{3, 1, 4}, strconv.Itoa)
		if !cmp.SliceEq(actual, []string{"3", "1", "4"}) {
			t.Errorf("unexpected mapping result: %v", actual)
		}
	})
	t.Run("it maps empty slice to empty slice", func(t *testing.T) {
		actual := utils.Map([]int{}, strconv.Itoa)
		if len(actual) != 0 {
			t.Errorf("unexpected mapping result: %v", actual)
		}
	})
}

func TestMode(t *testing.T) {
	t.Run("it finds the most frequent element", func(t *testing.T) {
		actual := utils.Mode([]string{"a", "b", "b", "c", "b", "a"})
		if actual != "b" {
			t.Errorf("unexpected mode: %s", actual)
		}
	})
	t.Run("it breaks ties by first occurrence", func(t *testing.T) {
		actual := utils.Mode([]string{"x", "y", "y", "x"})
		if actual != "x" {
			t.Errorf("unexpected mode: %s", actual)
		}
	})
	t.Run("it returns zero value for empty slice", func(t *testing.T) {
		if actual := utils.Mode([]int{}); actual != 0 {
			t.Errorf("unexpected mode: %d", actual)
		}
	})
}
