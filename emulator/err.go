package emulator

import (
	"errors"

	"github.com/ezrec/batpu/translate"
)

var f = translate.From

var (
	ErrFaulted = errors.New(f("machine faulted; reset required"))
)

// ErrRuntime indicates the program counter of a runtime error.
type ErrRuntime struct {
	Pc  int
	Err error
}

func (err *ErrRuntime) Error() string {
	return f("pc %d %v", err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
