package machine

import (
	"errors"

	"github.com/ezrec/batpu/translate"
)

var f = translate.From

var (
	// Contract violations. These are raised with panic().
	ErrContract     = errors.New(f("contract violation"))
	ErrStackAddress = errors.New(f("stack address out of range"))
	ErrOpcodeDecode = errors.New(f("unknown opcode"))

	// Program validation errors
	ErrProgramSize  = errors.New(f("program too large"))
	ErrRegister     = errors.New(f("register invalid"))
	ErrTarget       = errors.New(f("target out of range"))
	ErrCondition    = errors.New(f("condition invalid"))
	ErrOffsetRange  = errors.New(f("offset out of range"))
	ErrMachineCode  = errors.New(f("machine code invalid"))
	ErrMemoryRange  = errors.New(f("memory address out of range"))
	ErrRegisterPoke = errors.New(f("register index out of range"))
)

// ErrInstruction locates an invalid instruction in a program.
type ErrInstruction struct {
	Index int
	Err   error
}

func (err ErrInstruction) Error() string {
	return f("instruction %d: %v", err.Index, err.Err)
}

func (err ErrInstruction) Unwrap() error {
	return err.Err
}

// ErrViolation is the panic value for a contract violation.
type ErrViolation struct {
	Pc  Address
	Err error
}

func (err ErrViolation) Error() string {
	return f("pc %d: %v", int(err.Pc), err.Err)
}

func (err ErrViolation) Unwrap() []error {
	return []error{ErrContract, err.Err}
}

// ErrLine locates a machine code parse error.
type ErrLine struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrLine) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrLine) Unwrap() error {
	return err.Err
}
