package script

import (
	"errors"

	"github.com/ezrec/batpu/translate"
)

var f = translate.From

var (
	ErrRegisterInvalid  = errors.New(f("register invalid"))
	ErrImmediateRange   = errors.New(f("immediate out of range"))
	ErrOffsetRange      = errors.New(f("offset out of range"))
	ErrConditionInvalid = errors.New(f("condition invalid"))
	ErrTargetInvalid    = errors.New(f("target invalid"))
	ErrCharInvalid      = errors.New(f("character has no glyph"))
)
