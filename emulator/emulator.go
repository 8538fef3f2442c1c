// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator drives a BatPU machine from a host: timed execution,
// fault capture, and change polling for displays.
package emulator

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/ezrec/batpu/internal"
	"github.com/ezrec/batpu/io"
	"github.com/ezrec/batpu/machine"
)

const (
	DEFAULT_RATE = 1000.0 // Default instructions per second.
)

var _emulator_defines = map[string]string{
	"SCREEN_WIDTH":       fmt.Sprintf("%d", io.SCREEN_WIDTH),
	"SCREEN_HEIGHT":      fmt.Sprintf("%d", io.SCREEN_HEIGHT),
	"CHARACTER_CAPACITY": fmt.Sprintf("%d", io.CHARACTER_CAPACITY),
}

func init() {
	for b := io.BUTTON_LEFT; b <= io.BUTTON_START; b++ {
		_emulator_defines[fmt.Sprintf("BUTTON_%v", strings.ToUpper(b.String()))] = fmt.Sprintf("%d", 1<<uint(b))
	}
}

// Dirty is a set of subsystems changed since the last Poll.
type Dirty int

const (
	DIRTY_REGISTERS  = Dirty(1 << 0)
	DIRTY_MEMORY     = Dirty(1 << 1)
	DIRTY_FLAGS      = Dirty(1 << 2)
	DIRTY_STACK      = Dirty(1 << 3)
	DIRTY_SCREEN     = Dirty(1 << 4)
	DIRTY_CHARACTERS = Dirty(1 << 5)
	DIRTY_NUMBER     = Dirty(1 << 6)
)

// Snapshot is a copy of the externally visible machine state.
type Snapshot struct {
	Pc        machine.Address
	Halted    bool
	Zero      bool
	Carry     bool
	Ticks     int
	Registers [machine.REGISTER_COUNT]machine.Word
	Memory    [machine.PORT_BASE]machine.Word
	Stack     []machine.Address
	Width     int
	Height    int
	Screen    []byte // Packed front image, see io.Screen.Image.
	Text      string
	Number    int
}

// Pixel returns the snapshot pixel at (x, y), which must be on screen.
func (snap *Snapshot) Pixel(x, y int) bool {
	i := x + y*snap.Width
	return (snap.Screen[i/8]>>uint(i%8))&1 != 0
}

// Emulator state. Machine + program + execution rate.
type Emulator struct {
	Verbose          bool    // If set, enables verbose logging.
	*machine.Machine         // Reference to the machine simulation.
	Rate             float64 // Instructions per second for Run.

	leftover float64 // Fractional ticks carried between Run calls.
	fault    error   // Set by a contract violation until Reset.
}

// NewEmulator creates a new emulator with no program.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Machine: machine.New(),
		Rate:    DEFAULT_RATE,
	}

	return
}

// Defines returns an iterator over all of the defines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Concat2(maps.All(_emulator_defines),
		emu.Machine.Defines(),
	)
}

// Load a program and reset.
func (emu *Emulator) Load(prog *machine.Program) {
	emu.Machine.SetProgram(prog)
	emu.Reset()
}

// Reset the machine and the run state.
func (emu *Emulator) Reset() {
	emu.Machine.Verbose = emu.Verbose
	emu.Machine.Reset()
	emu.leftover = 0
	emu.fault = nil
}

// Tick performs a single tick of the emulator. done is set when the
// machine is halted.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.fault != nil {
		err = errors.Join(ErrFaulted, emu.fault)
		return
	}

	emu.Machine.Verbose = emu.Verbose

	pc := emu.Machine.Pc
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		rerr, ok := r.(error)
		if !ok {
			panic(r)
		}
		emu.fault = &ErrRuntime{Pc: int(pc), Err: rerr}
		err = emu.fault
		if emu.Verbose {
			log.Printf("emulator: %v", err)
		}
	}()

	emu.Machine.Tick()
	done = emu.Machine.Halted

	return
}

// Run executes as many ticks as Rate allows in elapsed, carrying the
// fractional remainder to the next call. It stops early on halt.
func (emu *Emulator) Run(elapsed time.Duration) (ticks int, err error) {
	budget := emu.Rate*elapsed.Seconds() + emu.leftover
	whole := math.Floor(budget)
	emu.leftover = budget - whole

	for range int(whole) {
		if emu.Machine.Halted {
			emu.leftover = 0
			return
		}
		var done bool
		done, err = emu.Tick()
		if err != nil {
			return
		}
		ticks++
		if done {
			emu.leftover = 0
			return
		}
	}

	return
}

// PokeRegister writes a register between ticks. Writes to r0 are discarded.
func (emu *Emulator) PokeRegister(index int, value machine.Word) (err error) {
	if index < 0 || index >= machine.REGISTER_COUNT {
		err = machine.ErrRegisterPoke
		return
	}

	emu.Machine.SetRegister(machine.Register(index), value)
	return
}

// Press updates a controller button.
func (emu *Emulator) Press(button io.Button, pressed bool) {
	emu.Machine.Controller.Set(button, pressed)
}

// Snapshot copies the externally visible state.
func (emu *Emulator) Snapshot() (snap Snapshot) {
	m := emu.Machine
	snap = Snapshot{
		Pc:        m.Pc,
		Halted:    m.Halted,
		Zero:      m.Zero(),
		Carry:     m.Carry(),
		Ticks:     m.Ticks,
		Registers: m.Registers(),
		Memory:    m.Memory(),
		Stack:     slices.Clone(m.Stack.Data),
		Width:     m.Screen.Width(),
		Height:    m.Screen.Height(),
		Screen:    slices.Clone(m.Screen.Image()),
		Text:      m.Characters.Text(),
		Number:    m.Number.Value(),
	}

	return
}

// Poll returns a snapshot and the subsystems changed since the previous
// Poll, then clears the change notifications.
func (emu *Emulator) Poll() (snap Snapshot, dirty Dirty) {
	m := emu.Machine

	flags := []struct {
		updated *bool
		dirty   Dirty
	}{
		{&m.RegistersUpdated, DIRTY_REGISTERS},
		{&m.MemoryUpdated, DIRTY_MEMORY},
		{&m.FlagsUpdated, DIRTY_FLAGS},
		{&m.Stack.Updated, DIRTY_STACK},
		{&m.Screen.Updated, DIRTY_SCREEN},
		{&m.Characters.Updated, DIRTY_CHARACTERS},
		{&m.Number.Updated, DIRTY_NUMBER},
	}
	for _, flag := range flags {
		if *flag.updated {
			dirty |= flag.dirty
			*flag.updated = false
		}
	}

	snap = emu.Snapshot()
	return
}
