package machine

import (
	"errors"
	"iter"
	"slices"
)

// Program is an immutable, linked instruction stream.
type Program struct {
	codes []Instruction
}

// NewProgram validates and links a sequence of instructions.
func NewProgram(codes ...Instruction) (prog *Program, err error) {
	if len(codes) > ADDRESS_COUNT {
		err = ErrProgramSize
		return
	}

	var errs []error
	for n, code := range codes {
		if verr := code.Validate(); verr != nil {
			errs = append(errs, ErrInstruction{Index: n, Err: verr})
		}
	}
	err = errors.Join(errs...)
	if err != nil {
		return
	}

	prog = &Program{codes: slices.Clone(codes)}
	return
}

// MustProgram is NewProgram for fixed programs; it panics on error.
func MustProgram(codes ...Instruction) *Program {
	prog, err := NewProgram(codes...)
	if err != nil {
		panic(err)
	}
	return prog
}

// Len returns the number of instructions.
func (prog *Program) Len() int {
	if prog == nil {
		return 0
	}
	return len(prog.codes)
}

// At returns the instruction at address pc.
func (prog *Program) At(pc Address) (code Instruction, ok bool) {
	if int(pc) >= prog.Len() {
		return
	}
	return prog.codes[pc], true
}

// Codes iterates over the program instructions with their addresses.
func (prog *Program) Codes() iter.Seq2[Address, Instruction] {
	return func(yield func(pc Address, code Instruction) bool) {
		for n := range prog.Len() {
			if !yield(Address(n), prog.codes[n]) {
				return
			}
		}
	}
}
