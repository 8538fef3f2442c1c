package machine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Decode converts a 16-bit BatPU-2 machine word into an instruction.
//
//	15..12  opcode
//	11..8   A          11..10  branch condition
//	 7..4   B           9..0   jump/branch/call address
//	 3..0   C or load/store offset (signed)
//	 7..0   immediate
func Decode(word uint16) (code Instruction) {
	a := Register((word >> 8) & 0xf)
	b := Register((word >> 4) & 0xf)
	c := Register(word & 0xf)
	addr := Address(word & 0x3ff)

	op := Op(word >> 12)
	switch op {
	case OP_NOP:
		code = MakeNop()
	case OP_HLT:
		code = MakeHalt()
	case OP_ADD, OP_SUB, OP_NOR, OP_AND, OP_XOR:
		code = MakeAlu(op, a, b, c)
	case OP_RSH:
		code = MakeShift(a, c)
	case OP_LDI:
		code = MakeLoadImmediate(a, Word(word))
	case OP_ADI:
		code = MakeAddImmediate(a, Word(word))
	case OP_JMP:
		code = MakeJump(addr)
	case OP_BRH:
		code = MakeBranch(Condition((word>>10)&0x3), addr)
	case OP_CAL:
		code = MakeCall(addr)
	case OP_RET:
		code = MakeReturn()
	case OP_LOD:
		code = MakeLoad(a, b, int8(word<<4)>>4)
	case OP_STR:
		code = MakeStore(a, b, int8(word<<4)>>4)
	}

	return
}

// Encode converts an instruction into a 16-bit BatPU-2 machine word.
func Encode(code Instruction) (word uint16, err error) {
	err = code.Validate()
	if err != nil {
		return
	}

	word = uint16(code.Op) << 12
	a := uint16(code.A) << 8
	b := uint16(code.B) << 4
	c := uint16(code.C)

	switch code.Op {
	case OP_ADD, OP_SUB, OP_NOR, OP_AND, OP_XOR:
		word |= a | b | c
	case OP_RSH:
		word |= a | c
	case OP_LDI, OP_ADI:
		word |= a | uint16(code.Immediate)
	case OP_JMP, OP_CAL:
		word |= uint16(code.Target)
	case OP_BRH:
		word |= uint16(code.Cond)<<10 | uint16(code.Target)
	case OP_LOD, OP_STR:
		if code.Offset < -8 || code.Offset > 7 {
			err = ErrOffsetRange
			return
		}
		word |= a | b | (uint16(code.Offset) & 0xf)
	}

	return
}

// ReadMachineCode reads a program in the textual machine code format: one
// word per line as sixteen '0' or '1' characters. Blank lines are ignored.
func ReadMachineCode(r io.Reader) (prog *Program, err error) {
	var codes []Instruction
	var errs []error

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}
		if len(line) != 16 {
			errs = append(errs, ErrLine{LineNo: lineno, Line: line, Err: ErrMachineCode})
			continue
		}
		word, perr := strconv.ParseUint(line, 2, 16)
		if perr != nil {
			errs = append(errs, ErrLine{LineNo: lineno, Line: line, Err: errors.Join(ErrMachineCode, perr)})
			continue
		}
		codes = append(codes, Decode(uint16(word)))
	}
	errs = append(errs, scanner.Err())

	err = errors.Join(errs...)
	if err != nil {
		return
	}

	prog, err = NewProgram(codes...)
	return
}

// WriteMachineCode writes a program in the textual machine code format.
func WriteMachineCode(w io.Writer, prog *Program) (err error) {
	for pc, code := range prog.Codes() {
		var word uint16
		word, err = Encode(code)
		if err != nil {
			err = ErrInstruction{Index: int(pc), Err: err}
			return
		}
		_, err = fmt.Fprintf(w, "%016b\n", word)
		if err != nil {
			return
		}
	}

	return
}
