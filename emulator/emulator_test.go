package emulator

import (
	"errors"
	"maps"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/batpu/io"
	"github.com/ezrec/batpu/machine"
	"github.com/ezrec/batpu/script"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Machine)
	assert.Equal(DEFAULT_RATE, emu.Rate)
	assert.Equal(0, emu.Program().Len())
}

func doLoad(t *testing.T, emu *Emulator, lines ...string) {
	t.Helper()

	b := &script.Builder{}
	for name, value := range emu.Defines() {
		b.Predefine(name, value)
	}

	prog, err := b.Parse("test.star", strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatalf("%v", err)
	}

	emu.Load(prog)
}

func TestEmulator_Defines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	defines := maps.Collect(emu.Defines())

	table := [...]struct {
		name  string
		value string
	}{
		{"SCREEN_WIDTH", "32"},
		{"SCREEN_HEIGHT", "32"},
		{"CHARACTER_CAPACITY", "10"},
		{"BUTTON_LEFT", "1"},
		{"BUTTON_A", "32"},
		{"BUTTON_START", "128"},
		{"REGISTER_COUNT", "16"},
		{"PORT_PIXEL_X", "240"},
		{"PORT_CONTROLLER_INPUT", "255"},
	}

	for _, entry := range table {
		assert.Equal(entry.value, defines[entry.name], entry.name)
	}
}

func TestEmulator_Tick(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doLoad(t, emu,
		"LDI(r1, PORT_SHOW_NUMBER)",
		"LDI(r2, 42)",
		"STR(r1, r2)",
		"HLT()",
	)

	for range 3 {
		done, err := emu.Tick()
		assert.NoError(err)
		assert.False(done)
	}

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(42, emu.Number.Value())

	// Halt latches.
	done, err = emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(4, emu.Ticks)
}

func TestEmulator_Run(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doLoad(t, emu,
		"LABEL('loop')",
		"ADI(r1, 1)",
		"JMP('loop')",
	)
	emu.Rate = 2

	table := [...]struct {
		elapsed time.Duration
		ticks   int
	}{
		{250 * time.Millisecond, 0},
		{250 * time.Millisecond, 1},
		{time.Second, 2},
		{750 * time.Millisecond, 1},
		{250 * time.Millisecond, 1},
		{0, 0},
	}

	total := 0
	for n, entry := range table {
		ticks, err := emu.Run(entry.elapsed)
		assert.NoError(err, n)
		assert.Equal(entry.ticks, ticks, n)
		total += ticks
	}
	assert.Equal(total, emu.Ticks)
	assert.Equal(machine.Word((total+1)/2), emu.Register(1))
}

func TestEmulator_RunHalt(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doLoad(t, emu,
		"LDI(r1, 5)",
		"HLT()",
		"LDI(r1, 6)",
	)
	emu.Rate = 100

	ticks, err := emu.Run(time.Second)
	assert.NoError(err)
	assert.Equal(2, ticks)
	assert.True(emu.Halted)
	assert.Equal(machine.Word(5), emu.Register(1))

	ticks, err = emu.Run(time.Second)
	assert.NoError(err)
	assert.Equal(0, ticks)

	emu.Reset()
	assert.False(emu.Halted)
	assert.Equal(machine.Word(0), emu.Register(1))
}

func TestEmulator_Fault(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doLoad(t, emu, "NOP()")

	emu.Machine.Pc = 2000
	_, err := emu.Tick()
	assert.ErrorIs(err, machine.ErrContract)
	assert.ErrorIs(err, machine.ErrTarget)

	var rerr *ErrRuntime
	if assert.True(errors.As(err, &rerr)) {
		assert.Equal(2000, rerr.Pc)
	}

	_, err = emu.Tick()
	assert.ErrorIs(err, ErrFaulted)

	ticks, err := emu.Run(time.Second)
	assert.ErrorIs(err, ErrFaulted)
	assert.Equal(0, ticks)

	emu.Reset()
	done, err := emu.Tick()
	assert.NoError(err)
	assert.False(done)
}

func TestEmulator_Poll(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doLoad(t, emu,
		"LDI(r1, PORT_SHOW_NUMBER)",
		"LDI(r2, 250)",
		"STR(r1, r2)",
		"STR(r1, r0, 2)",
		"LDI(r1, PORT_WRITE_CHAR)",
		"LDI(r2, CHAR('A'))",
		"STR(r1, r2)",
		"STR(r1, r2, 1)",
		"CAL('fn')",
		"HLT()",
		"LABEL('fn')",
		"ADI(r3, 1)",
		"HLT()",
	)

	snap, dirty := emu.Poll()
	assert.Equal(DIRTY_REGISTERS|DIRTY_MEMORY|DIRTY_FLAGS|DIRTY_STACK|DIRTY_SCREEN|DIRTY_CHARACTERS|DIRTY_NUMBER, dirty)
	assert.Equal(machine.Address(0), snap.Pc)
	assert.Equal(32, snap.Width)
	assert.Equal(32, snap.Height)
	assert.Equal("", snap.Text)

	_, dirty = emu.Poll()
	assert.Equal(Dirty(0), dirty)

	for range 3 {
		_, err := emu.Tick()
		assert.NoError(err)
	}
	snap, dirty = emu.Poll()
	assert.Equal(DIRTY_REGISTERS|DIRTY_NUMBER, dirty)
	assert.Equal(250, snap.Number)
	assert.Equal(machine.Word(250), snap.Registers[2])

	_, err := emu.Tick()
	assert.NoError(err)
	snap, dirty = emu.Poll()
	assert.Equal(DIRTY_NUMBER, dirty)
	assert.Equal(-6, snap.Number)

	for range 4 {
		_, err := emu.Tick()
		assert.NoError(err)
	}
	snap, dirty = emu.Poll()
	assert.Equal(DIRTY_REGISTERS|DIRTY_CHARACTERS, dirty)
	assert.Equal("A", snap.Text)

	for range 2 {
		_, err := emu.Tick()
		assert.NoError(err)
	}
	snap, dirty = emu.Poll()
	assert.Equal(DIRTY_STACK|DIRTY_REGISTERS, dirty)
	assert.Equal([]machine.Address{9}, snap.Stack)
	assert.Equal(machine.Word(1), snap.Registers[3])
	assert.Equal(11, int(snap.Pc))

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
	snap, _ = emu.Poll()
	assert.True(snap.Halted)
}

func TestEmulator_Pokes(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doLoad(t, emu,
		"LDI(r1, PORT_CONTROLLER_INPUT)",
		"LOD(r1, r2)",
		"LDI(r4, 16)",
		"LOD(r4, r3)",
		"HLT()",
	)
	emu.Poll()

	assert.NoError(emu.PokeRegister(5, 9))
	assert.NoError(emu.PokeRegister(0, 9))
	assert.ErrorIs(emu.PokeRegister(16, 9), machine.ErrRegisterPoke)
	assert.ErrorIs(emu.PokeRegister(-1, 9), machine.ErrRegisterPoke)

	assert.NoError(emu.Poke(16, 77))
	assert.ErrorIs(emu.Poke(machine.PORT_RNG.Address(), 1), machine.ErrMemoryRange)

	snap, dirty := emu.Poll()
	assert.Equal(DIRTY_REGISTERS|DIRTY_MEMORY, dirty)
	assert.Equal(machine.Word(9), snap.Registers[5])
	assert.Equal(machine.Word(0), snap.Registers[0])
	assert.Equal(machine.Word(77), snap.Memory[16])

	emu.Press(io.BUTTON_A, true)
	emu.Press(io.BUTTON_LEFT, true)

	for range 5 {
		_, err := emu.Tick()
		assert.NoError(err)
	}
	assert.True(emu.Halted)
	assert.Equal(machine.Word(0x21), emu.Register(2))
	assert.Equal(machine.Word(77), emu.Register(3))
}

func TestSnapshot_Pixel(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doLoad(t, emu,
		"LDI(r1, PORT_PIXEL_X)",
		"LDI(r2, 3)",
		"STR(r1, r2)",
		"LDI(r2, 30)",
		"STR(r1, r2, 1)",
		"STR(r1, r0, 2)",
		"STR(r1, r0, 5)",
		"HLT()",
	)

	for done := false; !done; {
		var err error
		done, err = emu.Tick()
		assert.NoError(err)
	}

	snap, dirty := emu.Poll()
	assert.NotZero(dirty & DIRTY_SCREEN)
	for y := range snap.Height {
		for x := range snap.Width {
			assert.Equal(x == 3 && y == 30, snap.Pixel(x, y), "%d,%d", x, y)
		}
	}
}
