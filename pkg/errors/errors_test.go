package errors_test

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"

	xe "github.com/nycbus/imputecalls/pkg/errors"
)

type RootErr struct{}

func (RootErr) Error() string {
	return "error type for test"
}

func createError(message string) error {
	return xe.New(message)
}

func TestNewError(t *testing.T) {
	t.Run("it knows the location where it is created", func(t *testing.T) {
		testee := createError("test error")
		errMessage := testee.Error()

		_, thisFile, _, _ := runtime.Caller(0)

		if !strings.Contains(errMessage, "createError") {
			t.Errorf("it does not know function name: %s", errMessage)
		}
		if !strings.Contains(errMessage, thisFile) {
			t.Errorf("it does not know file (%s): %s", thisFile, errMessage)
		}
	})

	t.Run("it supports errors protocol", func(t *testing.T) {
		rootError := RootErr{}

		err := xe.Wrap(
			fmt.Errorf("%w", fmt.Errorf("%w", rootError)),
		)

		if !errors.Is(err, rootError) {
			t.Error("it does not support unwrapping.")
		}
	})

	t.Run("it carries its note in the message", func(t *testing.T) {
		err := xe.WrapWithNote("while testing", RootErr{})

		if !strings.Contains(err.Error(), "while testing") {
			t.Errorf("it does not carry the note: %s", err.Error())
		}
		if !errors.Is(err, RootErr{}) {
			t.Error("it does not support unwrapping.")
		}
	})
}
