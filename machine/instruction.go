package machine

import (
	"fmt"
)

// Word is the native 8-bit register and memory unit.
type Word = uint8

// Address is an instruction memory address.
type Address uint16

// Register is a register file index.
type Register uint8

// Op is an instruction opcode. The value is the BatPU-2 opcode nibble.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_NOP = Op(0)  // nop
	OP_HLT = Op(1)  // hlt
	OP_ADD = Op(2)  // add
	OP_SUB = Op(3)  // sub
	OP_NOR = Op(4)  // nor
	OP_AND = Op(5)  // and
	OP_XOR = Op(6)  // xor
	OP_RSH = Op(7)  // rsh
	OP_LDI = Op(8)  // ldi
	OP_ADI = Op(9)  // adi
	OP_JMP = Op(10) // jmp
	OP_BRH = Op(11) // brh
	OP_CAL = Op(12) // cal
	OP_RET = Op(13) // ret
	OP_LOD = Op(14) // lod
	OP_STR = Op(15) // str
)

// Valid reports whether op is a known opcode.
func (op Op) Valid() bool {
	return op >= OP_NOP && op <= OP_STR
}

// Condition is a branch condition.
type Condition int

//go:generate go tool stringer -linecomment -type=Condition
const (
	COND_ZERO      = Condition(0) // zero
	COND_NOT_ZERO  = Condition(1) // notzero
	COND_CARRY     = Condition(2) // carry
	COND_NOT_CARRY = Condition(3) // notcarry
)

// Valid reports whether cond is a known condition.
func (cond Condition) Valid() bool {
	return cond >= COND_ZERO && cond <= COND_NOT_CARRY
}

// Instruction is a single decoded instruction. Op selects which of the
// operand fields are meaningful:
//
//	add/sub/nor/and/xor  A, B -> C
//	rsh                  A -> C
//	ldi/adi              A, Immediate
//	jmp/cal              Target
//	brh                  Cond, Target
//	lod                  B = [A + Offset]
//	str                  [A + Offset] = B
type Instruction struct {
	Op        Op
	A         Register
	B         Register
	C         Register
	Immediate Word
	Offset    int8
	Cond      Condition
	Target    Address
}

// MakeNop creates a no-op.
func MakeNop() Instruction {
	return Instruction{Op: OP_NOP}
}

// MakeHalt creates a halt.
func MakeHalt() Instruction {
	return Instruction{Op: OP_HLT}
}

// MakeAlu creates a three register ALU instruction (add, sub, nor, and, xor).
func MakeAlu(op Op, a, b, c Register) Instruction {
	return Instruction{Op: op, A: a, B: b, C: c}
}

// MakeShift creates a logical right shift of a into c.
func MakeShift(a, c Register) Instruction {
	return Instruction{Op: OP_RSH, A: a, C: c}
}

// MakeLoadImmediate creates a load of imm into a.
func MakeLoadImmediate(a Register, imm Word) Instruction {
	return Instruction{Op: OP_LDI, A: a, Immediate: imm}
}

// MakeAddImmediate creates an add of imm into a.
func MakeAddImmediate(a Register, imm Word) Instruction {
	return Instruction{Op: OP_ADI, A: a, Immediate: imm}
}

// MakeJump creates an unconditional jump.
func MakeJump(target Address) Instruction {
	return Instruction{Op: OP_JMP, Target: target}
}

// MakeBranch creates a conditional jump.
func MakeBranch(cond Condition, target Address) Instruction {
	return Instruction{Op: OP_BRH, Cond: cond, Target: target}
}

// MakeCall creates a subroutine call.
func MakeCall(target Address) Instruction {
	return Instruction{Op: OP_CAL, Target: target}
}

// MakeReturn creates a subroutine return.
func MakeReturn() Instruction {
	return Instruction{Op: OP_RET}
}

// MakeLoad creates a memory load: b = [a + offset].
func MakeLoad(a, b Register, offset int8) Instruction {
	return Instruction{Op: OP_LOD, A: a, B: b, Offset: offset}
}

// MakeStore creates a memory store: [a + offset] = b.
func MakeStore(a, b Register, offset int8) Instruction {
	return Instruction{Op: OP_STR, A: a, B: b, Offset: offset}
}

// Validate checks that every meaningful operand is in range.
func (inst Instruction) Validate() (err error) {
	check := func(regs ...Register) {
		for _, reg := range regs {
			if int(reg) >= REGISTER_COUNT {
				err = ErrRegister
				return
			}
		}
	}

	switch inst.Op {
	case OP_NOP, OP_HLT, OP_RET:
	case OP_ADD, OP_SUB, OP_NOR, OP_AND, OP_XOR:
		check(inst.A, inst.B, inst.C)
	case OP_RSH:
		check(inst.A, inst.C)
	case OP_LDI, OP_ADI:
		check(inst.A)
	case OP_LOD, OP_STR:
		check(inst.A, inst.B)
	case OP_BRH:
		if !inst.Cond.Valid() {
			return ErrCondition
		}
		fallthrough
	case OP_JMP, OP_CAL:
		if int(inst.Target) >= ADDRESS_COUNT {
			err = ErrTarget
		}
	default:
		err = ErrOpcodeDecode
	}

	return
}

// String returns the assembly language representation of this instruction.
func (inst Instruction) String() (out string) {
	switch inst.Op {
	case OP_NOP, OP_HLT, OP_RET:
		out = inst.Op.String()
	case OP_ADD, OP_SUB, OP_NOR, OP_AND, OP_XOR:
		out = fmt.Sprintf("%v r%d r%d r%d", inst.Op, inst.A, inst.B, inst.C)
	case OP_RSH:
		out = fmt.Sprintf("%v r%d r%d", inst.Op, inst.A, inst.C)
	case OP_LDI, OP_ADI:
		out = fmt.Sprintf("%v r%d %d", inst.Op, inst.A, inst.Immediate)
	case OP_JMP, OP_CAL:
		out = fmt.Sprintf("%v %d", inst.Op, inst.Target)
	case OP_BRH:
		out = fmt.Sprintf("%v %v %d", inst.Op, inst.Cond, inst.Target)
	case OP_LOD, OP_STR:
		out = fmt.Sprintf("%v r%d r%d %d", inst.Op, inst.A, inst.B, inst.Offset)
	default:
		out = inst.Op.String()
	}

	return
}
