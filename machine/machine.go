package machine

import (
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/ezrec/batpu/io"
)

const (
	REGISTER_COUNT = 16                       // Register file size.
	MEMORY_SIZE    = 256                      // Logical data address space.
	PORT_COUNT     = 16                       // I/O ports at the top of data space.
	PORT_BASE      = MEMORY_SIZE - PORT_COUNT // First port address.
	ADDRESS_COUNT  = 1024                     // Instruction address space.
)

// Machine is the simulation context for the BatPU processor and its
// peripherals.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Pc     Address // Program counter.
	Halted bool    // Set by hlt; cleared by Reset.
	Stack  Stack   // Return address stack.
	Ticks  int     // Instructions executed since reset.

	Screen     *io.Screen           // Bitmap screen.
	Characters *io.CharacterDisplay // Character display.
	Number     io.NumberDisplay     // Number display.
	Controller io.Controller        // Controller input.

	Rand *rand.Rand // Source for the random number port.

	// Change notifications for observers. Set on mutation; the observer
	// clears them after reading.
	RegistersUpdated bool
	MemoryUpdated    bool
	FlagsUpdated     bool

	register [REGISTER_COUNT]Word
	memory   [PORT_BASE]Word
	zero     bool
	carry    bool

	program *Program
}

// New creates a reset machine with no program loaded.
func New() (m *Machine) {
	m = &Machine{
		Screen:     io.NewScreen(io.SCREEN_WIDTH, io.SCREEN_HEIGHT),
		Characters: io.NewCharacterDisplay(io.CHARACTER_CAPACITY),
		Rand:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		program:    &Program{},
	}

	m.Reset()

	return
}

// Reset the machine state.
// - Clears the registers, memory, flags and stack.
// - Clears every peripheral, including the controller.
// - Returns the program counter to zero and clears the halt latch.
//
// The loaded program is kept.
func (m *Machine) Reset() {
	if m.Verbose {
		log.Printf("machine: reset")
	}

	clear(m.register[:])
	clear(m.memory[:])
	m.zero = false
	m.carry = false
	m.Stack.Reset()

	m.Screen.Clear()
	m.Characters.Clear()
	m.Number.Clear()
	m.Controller.Clear()

	m.Pc = 0
	m.Halted = false
	m.Ticks = 0

	m.RegistersUpdated = true
	m.MemoryUpdated = true
	m.FlagsUpdated = true
}

// SetProgram replaces the instruction stream. Machine state is untouched.
func (m *Machine) SetProgram(prog *Program) {
	if prog == nil {
		prog = &Program{}
	}
	m.program = prog
}

// Program returns the loaded instruction stream.
func (m *Machine) Program() *Program {
	return m.program
}

// Register returns a register value. r0 always reads as zero.
func (m *Machine) Register(reg Register) Word {
	return m.register[reg%REGISTER_COUNT]
}

// SetRegister writes a register. Writes to r0 are discarded.
func (m *Machine) SetRegister(reg Register, value Word) {
	reg %= REGISTER_COUNT
	if reg == 0 {
		return
	}

	m.register[reg] = value
	m.RegistersUpdated = true
}

// Registers returns a copy of the register file.
func (m *Machine) Registers() [REGISTER_COUNT]Word {
	return m.register
}

// Memory returns a copy of the data memory.
func (m *Machine) Memory() [PORT_BASE]Word {
	return m.memory
}

// Poke writes a data memory cell directly, bypassing the I/O ports.
func (m *Machine) Poke(address int, value Word) (err error) {
	if address < 0 || address >= PORT_BASE {
		err = ErrMemoryRange
		return
	}

	m.memory[address] = value
	m.MemoryUpdated = true
	return
}

// Zero returns the zero flag.
func (m *Machine) Zero() bool {
	return m.zero
}

// SetZero sets the zero flag.
func (m *Machine) SetZero(zero bool) {
	if m.zero != zero {
		m.FlagsUpdated = true
	}
	m.zero = zero
}

// Carry returns the carry flag.
func (m *Machine) Carry() bool {
	return m.carry
}

// SetCarry sets the carry flag.
func (m *Machine) SetCarry(carry bool) {
	if m.carry != carry {
		m.FlagsUpdated = true
	}
	m.carry = carry
}

// String returns the current machine state as a string.
func (m *Machine) String() (text string) {
	text = fmt.Sprintf("   pc: %04d\n", m.Pc)
	text += fmt.Sprintf(" halt: %v\n", m.Halted)
	text += fmt.Sprintf(" zero: %v\n", m.zero)
	text += fmt.Sprintf("carry: %v\n", m.carry)
	for n, val := range m.register {
		text += fmt.Sprintf("% 5s: 0x%02X\n", fmt.Sprintf("r%d", n), val)
	}
	if top, ok := m.Stack.Peek(); ok {
		text += fmt.Sprintf("stack: %04d (%d)\n", top, len(m.Stack.Data))
	} else {
		text += "stack: ----\n"
	}

	return
}

// next returns the address following pc.
func next(pc Address) Address {
	return (pc + 1) % ADDRESS_COUNT
}

// Tick executes a single instruction slot.
//
// A halted machine does nothing. A program counter past the end of the
// program executes nothing but still advances, wrapping at ADDRESS_COUNT.
func (m *Machine) Tick() {
	if m.Halted {
		return
	}

	if int(m.Pc) >= ADDRESS_COUNT {
		panic(ErrViolation{Pc: m.Pc, Err: ErrTarget})
	}

	code, ok := m.program.At(m.Pc)
	if !ok {
		m.Pc = next(m.Pc)
		return
	}

	m.Execute(code)
}

// Execute executes a single decoded instruction at the current program
// counter. An instruction that fails Validate is a contract violation.
func (m *Machine) Execute(code Instruction) {
	if m.Verbose {
		log.Printf("machine: %04d: %v", m.Pc, code)
	}

	if err := code.Validate(); err != nil {
		panic(ErrViolation{Pc: m.Pc, Err: err})
	}

	next_pc := next(m.Pc)

	switch code.Op {
	case OP_NOP:
		// pass
	case OP_HLT:
		m.Halted = true
		next_pc = 0
	case OP_ADD:
		sum := uint(m.Register(code.A)) + uint(m.Register(code.B))
		m.setResult(code.C, Word(sum), sum > 0xff)
	case OP_SUB:
		a, b := m.Register(code.A), m.Register(code.B)
		m.setResult(code.C, a-b, a >= b)
	case OP_NOR:
		m.setResult(code.C, ^(m.Register(code.A) | m.Register(code.B)), false)
	case OP_AND:
		m.setResult(code.C, m.Register(code.A)&m.Register(code.B), false)
	case OP_XOR:
		m.setResult(code.C, m.Register(code.A)^m.Register(code.B), false)
	case OP_RSH:
		m.SetRegister(code.C, m.Register(code.A)>>1)
	case OP_LDI:
		m.SetRegister(code.A, code.Immediate)
	case OP_ADI:
		sum := uint(m.Register(code.A)) + uint(code.Immediate)
		m.setResult(code.A, Word(sum), sum > 0xff)
	case OP_JMP:
		next_pc = code.Target
	case OP_BRH:
		if m.condition(code.Cond) {
			next_pc = code.Target
		}
	case OP_CAL:
		m.Stack.Push(next_pc)
		next_pc = code.Target
	case OP_RET:
		if addr, ok := m.Stack.Pop(); ok {
			next_pc = addr
		}
	case OP_LOD:
		m.SetRegister(code.B, m.Read(int(m.Register(code.A))+int(code.Offset)))
	case OP_STR:
		m.Write(int(m.Register(code.A))+int(code.Offset), m.Register(code.B))
	}

	m.Pc = next_pc % ADDRESS_COUNT
	m.Ticks++
}

// setResult stores an ALU result and updates both flags.
func (m *Machine) setResult(dst Register, value Word, carry bool) {
	m.SetZero(value == 0)
	m.SetCarry(carry)
	m.SetRegister(dst, value)
}

// condition evaluates a branch condition against the flags.
func (m *Machine) condition(cond Condition) (ok bool) {
	switch cond {
	case COND_ZERO:
		ok = m.zero
	case COND_NOT_ZERO:
		ok = !m.zero
	case COND_CARRY:
		ok = m.carry
	case COND_NOT_CARRY:
		ok = !m.carry
	default:
		panic(ErrViolation{Pc: m.Pc, Err: ErrCondition})
	}
	return
}
