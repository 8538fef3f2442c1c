// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package script builds BatPU programs from Starlark scripts.
//
// A script emits instructions by calling mnemonic builtins:
//
//	LDI(r1, 10)
//	LABEL("loop")
//	STR(r0, r1, 0)
//	DEC(r1)
//	BRH(NOTZERO, "loop")
//	HLT()
//
// Targets of JMP, BRH and CAL may be a label name, an absolute address, or
// REL(n) for an offset from the instruction. Ordinary Starlark (loops,
// functions, arithmetic) generates code at build time. Predefines are
// visible to the script as global constants.
package script

import (
	"fmt"
	"io"
	"log"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	bio "github.com/ezrec/batpu/io"
	"github.com/ezrec/batpu/link"
	"github.com/ezrec/batpu/machine"
)

// Builder compiles Starlark scripts into programs.
type Builder struct {
	Verbose bool // If set, logs script print() output and link results.

	predefine map[string]string
}

// Predefine defines a new global constant or redefines an existing one.
// Integer-looking values become Starlark ints; anything else a string.
func (b *Builder) Predefine(name string, value string) {
	if b.predefine == nil {
		b.predefine = map[string]string{name: value}
	} else {
		b.predefine[name] = value
	}
}

// relative is the Starlark value returned by REL(n).
type relative int

var _ starlark.Value = relative(0)

func (r relative) String() string        { return fmt.Sprintf("REL(%d)", int(r)) }
func (r relative) Type() string          { return "relative" }
func (r relative) Freeze()               {}
func (r relative) Truth() starlark.Bool  { return starlark.True }
func (r relative) Hash() (uint32, error) { return uint32(r), nil }

// build holds the state of a single script evaluation.
type build struct {
	linker link.Linker
}

// lineOf returns the script line of the builtin's caller.
func lineOf(thread *starlark.Thread) int {
	return int(thread.CallFrame(1).Pos.Line)
}

func register(value int) (reg machine.Register, err error) {
	if value < 0 || value >= machine.REGISTER_COUNT {
		err = fmt.Errorf("%w: %d", ErrRegisterInvalid, value)
		return
	}
	reg = machine.Register(value)
	return
}

func registers(values ...int) (regs []machine.Register, err error) {
	regs = make([]machine.Register, len(values))
	for n, value := range values {
		regs[n], err = register(value)
		if err != nil {
			return
		}
	}
	return
}

func immediate(value int) (imm machine.Word, err error) {
	if value < -128 || value > 255 {
		err = fmt.Errorf("%w: %d", ErrImmediateRange, value)
		return
	}
	imm = machine.Word(value)
	return
}

func offset(value int) (off int8, err error) {
	if value < -8 || value > 7 {
		err = fmt.Errorf("%w: %d", ErrOffsetRange, value)
		return
	}
	off = int8(value)
	return
}

func location(value starlark.Value) (loc link.Location, err error) {
	switch v := value.(type) {
	case starlark.String:
		loc = link.AtLabel(string(v))
	case starlark.Int:
		addr, ok := v.Int64()
		if !ok {
			err = ErrTargetInvalid
			return
		}
		loc = link.AtAddress(int(addr))
	case relative:
		loc = link.AtOffset(int(v))
	default:
		err = fmt.Errorf("%w: %v", ErrTargetInvalid, value.Type())
	}
	return
}

type builtinFunc func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

// alu3 builds a builtin for a three register instruction.
func (bd *build) alu3(op machine.Op) builtinFunc {
	return func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var a, b, c int
		if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 3, &a, &b, &c); err != nil {
			return nil, err
		}
		regs, err := registers(a, b, c)
		if err != nil {
			return nil, err
		}
		bd.linker.Emit(lineOf(thread), machine.MakeAlu(op, regs[0], regs[1], regs[2]))
		return starlark.None, nil
	}
}

// emit builds a builtin for a fixed instruction expressed in terms of
// register operands.
func (bd *build) emit(nargs int, makeCode func(regs []machine.Register) machine.Instruction) builtinFunc {
	return func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		values := make([]int, nargs)
		ptrs := make([]any, nargs)
		for n := range values {
			ptrs[n] = &values[n]
		}
		if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, nargs, ptrs...); err != nil {
			return nil, err
		}
		regs, err := registers(values...)
		if err != nil {
			return nil, err
		}
		bd.linker.Emit(lineOf(thread), makeCode(regs))
		return starlark.None, nil
	}
}

// immediateOp builds a builtin for ldi and adi.
func (bd *build) immediateOp(makeCode func(a machine.Register, imm machine.Word) machine.Instruction) builtinFunc {
	return func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var a, value int
		if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &a, &value); err != nil {
			return nil, err
		}
		reg, err := register(a)
		if err != nil {
			return nil, err
		}
		imm, err := immediate(value)
		if err != nil {
			return nil, err
		}
		bd.linker.Emit(lineOf(thread), makeCode(reg, imm))
		return starlark.None, nil
	}
}

// memoryOp builds a builtin for lod and str.
func (bd *build) memoryOp(makeCode func(a, b machine.Register, off int8) machine.Instruction) builtinFunc {
	return func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var a, b, value int
		if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &a, &b, &value); err != nil {
			return nil, err
		}
		regs, err := registers(a, b)
		if err != nil {
			return nil, err
		}
		off, err := offset(value)
		if err != nil {
			return nil, err
		}
		bd.linker.Emit(lineOf(thread), makeCode(regs[0], regs[1], off))
		return starlark.None, nil
	}
}

// targetOp builds a builtin for jmp and cal.
func (bd *build) targetOp(code machine.Instruction) builtinFunc {
	return func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var target starlark.Value
		if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &target); err != nil {
			return nil, err
		}
		loc, err := location(target)
		if err != nil {
			return nil, err
		}
		bd.linker.EmitTarget(lineOf(thread), code, loc)
		return starlark.None, nil
	}
}

func (bd *build) branch(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var cond int
	var target starlark.Value
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &cond, &target); err != nil {
		return nil, err
	}
	if !machine.Condition(cond).Valid() {
		return nil, fmt.Errorf("%w: %d", ErrConditionInvalid, cond)
	}
	loc, err := location(target)
	if err != nil {
		return nil, err
	}
	bd.linker.EmitTarget(lineOf(thread), machine.MakeBranch(machine.Condition(cond), 0), loc)
	return starlark.None, nil
}

func (bd *build) label(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &name); err != nil {
		return nil, err
	}
	if err := bd.linker.Label(lineOf(thread), name); err != nil {
		return nil, err
	}
	return starlark.None, nil
}

func rel(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var n int
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &n); err != nil {
		return nil, err
	}
	return relative(n), nil
}

func char(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &text); err != nil {
		return nil, err
	}
	runes := []rune(text)
	if len(runes) != 1 {
		return nil, fmt.Errorf("%w: %q", ErrCharInvalid, text)
	}
	index, ok := bio.GlyphIndex(runes[0])
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCharInvalid, text)
	}
	return starlark.MakeInt(int(index)), nil
}

// Pseudo-instructions, expressed with r0 as a zero source or sink.

func pseudoCmp(r []machine.Register) machine.Instruction {
	return machine.MakeAlu(machine.OP_SUB, r[0], r[1], 0)
}

func pseudoMov(r []machine.Register) machine.Instruction {
	return machine.MakeAlu(machine.OP_ADD, r[0], 0, r[1])
}

func pseudoLsh(r []machine.Register) machine.Instruction {
	return machine.MakeAlu(machine.OP_ADD, r[0], r[0], r[1])
}

func pseudoNot(r []machine.Register) machine.Instruction {
	return machine.MakeAlu(machine.OP_NOR, r[0], 0, r[1])
}

func pseudoNeg(r []machine.Register) machine.Instruction {
	return machine.MakeAlu(machine.OP_SUB, 0, r[0], r[1])
}

func pseudoInc(r []machine.Register) machine.Instruction {
	return machine.MakeAddImmediate(r[0], 1)
}

func pseudoDec(r []machine.Register) machine.Instruction {
	return machine.MakeAddImmediate(r[0], 0xff)
}

// predeclared returns the globals visible to a script.
func (b *Builder) predeclared(bd *build) (dict starlark.StringDict) {
	dict = starlark.StringDict{}

	for key, value := range b.predefine {
		if v64, err := strconv.ParseInt(value, 0, 64); err == nil {
			dict[key] = starlark.MakeInt64(v64)
		} else {
			dict[key] = starlark.String(value)
		}
	}

	for n := range machine.REGISTER_COUNT {
		dict[fmt.Sprintf("r%d", n)] = starlark.MakeInt(n)
	}

	conds := map[string]machine.Condition{
		"ZERO":     machine.COND_ZERO,
		"NOTZERO":  machine.COND_NOT_ZERO,
		"CARRY":    machine.COND_CARRY,
		"NOTCARRY": machine.COND_NOT_CARRY,
		"EQ":       machine.COND_ZERO,
		"NE":       machine.COND_NOT_ZERO,
		"GE":       machine.COND_CARRY,
		"LT":       machine.COND_NOT_CARRY,
	}
	for key, cond := range conds {
		dict[key] = starlark.MakeInt(int(cond))
	}

	fns := map[string]builtinFunc{
		"NOP": bd.emit(0, func([]machine.Register) machine.Instruction { return machine.MakeNop() }),
		"HLT": bd.emit(0, func([]machine.Register) machine.Instruction { return machine.MakeHalt() }),
		"ADD": bd.alu3(machine.OP_ADD),
		"SUB": bd.alu3(machine.OP_SUB),
		"NOR": bd.alu3(machine.OP_NOR),
		"AND": bd.alu3(machine.OP_AND),
		"XOR": bd.alu3(machine.OP_XOR),
		"RSH": bd.emit(2, func(r []machine.Register) machine.Instruction { return machine.MakeShift(r[0], r[1]) }),
		"LDI": bd.immediateOp(machine.MakeLoadImmediate),
		"ADI": bd.immediateOp(machine.MakeAddImmediate),
		"JMP": bd.targetOp(machine.MakeJump(0)),
		"BRH": bd.branch,
		"CAL": bd.targetOp(machine.MakeCall(0)),
		"RET": bd.emit(0, func([]machine.Register) machine.Instruction { return machine.MakeReturn() }),
		"LOD": bd.memoryOp(machine.MakeLoad),
		"STR": bd.memoryOp(machine.MakeStore),

		// Pseudo-instructions
		"CMP": bd.emit(2, pseudoCmp),
		"MOV": bd.emit(2, pseudoMov),
		"LSH": bd.emit(2, pseudoLsh),
		"NOT": bd.emit(2, pseudoNot),
		"NEG": bd.emit(2, pseudoNeg),
		"INC": bd.emit(1, pseudoInc),
		"DEC": bd.emit(1, pseudoDec),

		"LABEL": bd.label,
		"REL":   rel,
		"CHAR":  char,
	}
	for name, fn := range fns {
		dict[name] = starlark.NewBuiltin(name, fn)
	}

	return
}

// Parse runs a script and links the instructions it emitted.
func (b *Builder) Parse(filename string, r io.Reader) (prog *machine.Program, err error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return
	}

	bd := &build{}
	bd.linker.Verbose = b.Verbose

	thread := &starlark.Thread{
		Name: filename,
		Print: func(thread *starlark.Thread, msg string) {
			if b.Verbose {
				log.Printf("script: %v", msg)
			}
		},
	}
	opts := &syntax.FileOptions{
		Set:             true,
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
	}

	_, err = starlark.ExecFileOptions(opts, thread, filename, src, b.predeclared(bd))
	if err != nil {
		return
	}

	prog, err = bd.linker.Link()
	return
}
