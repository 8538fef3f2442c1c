package link

import (
	"errors"

	"github.com/ezrec/batpu/translate"
)

var f = translate.From

var (
	ErrLabelDuplicate = errors.New(f("label duplicated"))
	ErrLabelInvalid   = errors.New(f("label invalid"))
	ErrTargetRange    = errors.New(f("target out of range"))
	ErrTargetMissing  = errors.New(f("target missing"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrSyntax locates a link error at a source line.
type ErrSyntax struct {
	LineNo int
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
