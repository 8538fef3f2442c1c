package machine

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzMachine(f *testing.F) {
	for op := range 16 {
		f.Add(uint16(op<<12), uint8(0), uint8(0), uint16(0), false)
		f.Add(uint16(op<<12|0x0fff), uint8(0xff), uint8(0x80), uint16(ADDRESS_COUNT-1), true)
	}

	f.Fuzz(func(t *testing.T, word uint16, a uint8, b uint8, pc uint16, stack bool) {
		assert := assert.New(t)

		code := Decode(word)

		m := New()
		m.Rand = rand.New(rand.NewPCG(uint64(word), 0))
		m.Pc = Address(pc % ADDRESS_COUNT)
		for n := range Register(REGISTER_COUNT) {
			m.SetRegister(n, Word(n)*0x11)
		}
		m.SetRegister(code.A, a)
		m.SetRegister(code.B, b)
		if stack {
			m.Stack.Push(0x2a)
		}

		prior := m.Registers()
		prior_pc := m.Pc
		prior_zero, prior_carry := m.Zero(), m.Carry()
		x, y := prior[code.A], prior[code.B]

		m.Execute(code)

		assert.Equal(Word(0), m.Register(0))
		assert.Less(int(m.Pc), ADDRESS_COUNT)
		assert.LessOrEqual(len(m.Stack.Data), STACK_LIMIT)

		expect := prior
		set := func(dst Register, value Word) {
			if dst != 0 {
				expect[dst] = value
			}
		}
		next_pc := next(prior_pc)
		zero, carry := prior_zero, prior_carry

		switch code.Op {
		case OP_HLT:
			next_pc = 0
			assert.True(m.Halted)
		case OP_ADD:
			set(code.C, x+y)
			zero, carry = x+y == 0, int(x)+int(y) > 0xff
		case OP_SUB:
			set(code.C, x-y)
			zero, carry = x-y == 0, x >= y
		case OP_NOR:
			set(code.C, ^(x | y))
			zero, carry = ^(x|y) == 0, false
		case OP_AND:
			set(code.C, x&y)
			zero, carry = x&y == 0, false
		case OP_XOR:
			set(code.C, x^y)
			zero, carry = x^y == 0, false
		case OP_RSH:
			set(code.C, x>>1)
		case OP_LDI:
			set(code.A, code.Immediate)
		case OP_ADI:
			set(code.A, x+code.Immediate)
			zero, carry = x+code.Immediate == 0, int(x)+int(code.Immediate) > 0xff
		case OP_JMP:
			next_pc = code.Target
		case OP_BRH:
			if m.condition(code.Cond) {
				next_pc = code.Target
			}
		case OP_CAL:
			top, ok := m.Stack.Peek()
			assert.True(ok)
			assert.Equal(next(prior_pc), top)
			next_pc = code.Target
		case OP_RET:
			if stack {
				next_pc = 0x2a
			}
			assert.True(m.Stack.Empty())
		case OP_LOD:
			// Memory, screen and controller all start cleared; only the
			// random number port reads non-zero.
			if wrap(int(x)+int(code.Offset)) == PORT_RNG.Address() {
				set(code.B, m.Register(code.B))
			} else {
				set(code.B, 0)
			}
		case OP_STR:
			address := wrap(int(x) + int(code.Offset))
			if address < PORT_BASE {
				assert.Equal(y, m.Memory()[address])
			}
		}

		assert.Equal(expect, m.Registers(), code.String())
		assert.Equal(next_pc, m.Pc, code.String())
		assert.Equal(zero, m.Zero(), code.String())
		assert.Equal(carry, m.Carry(), code.String())
	})
}
