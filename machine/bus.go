package machine

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"
)

// Port is an I/O port number, counted from PORT_BASE.
type Port int

//go:generate go tool stringer -linecomment -type=Port
const (
	PORT_PIXEL_X             = Port(0)  // pixel_x
	PORT_PIXEL_Y             = Port(1)  // pixel_y
	PORT_DRAW_PIXEL          = Port(2)  // draw_pixel
	PORT_CLEAR_PIXEL         = Port(3)  // clear_pixel
	PORT_LOAD_PIXEL          = Port(4)  // load_pixel
	PORT_BUFFER_SCREEN       = Port(5)  // buffer_screen
	PORT_CLEAR_SCREEN_BUFFER = Port(6)  // clear_screen_buffer
	PORT_WRITE_CHAR          = Port(7)  // write_char
	PORT_BUFFER_CHARS        = Port(8)  // buffer_chars
	PORT_CLEAR_CHARS_BUFFER  = Port(9)  // clear_chars_buffer
	PORT_SHOW_NUMBER         = Port(10) // show_number
	PORT_CLEAR_NUMBER        = Port(11) // clear_number
	PORT_SIGNED_MODE         = Port(12) // signed_mode
	PORT_UNSIGNED_MODE       = Port(13) // unsigned_mode
	PORT_RNG                 = Port(14) // rng
	PORT_CONTROLLER_INPUT    = Port(15) // controller_input
)

// Address returns the data memory address of the port.
func (port Port) Address() int {
	return PORT_BASE + int(port)
}

var _machine_defines = map[string]string{
	"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
	"MEMORY_SIZE":    fmt.Sprintf("%d", MEMORY_SIZE),
	"PORT_BASE":      fmt.Sprintf("%d", PORT_BASE),
	"ADDRESS_COUNT":  fmt.Sprintf("%d", ADDRESS_COUNT),
	"STACK_LIMIT":    fmt.Sprintf("%d", STACK_LIMIT),
}

func init() {
	for port := range Port(PORT_COUNT) {
		_machine_defines[fmt.Sprintf("PORT_%s", strings.ToUpper(port.String()))] = fmt.Sprintf("%d", port.Address())
	}
}

// Defines for the machine: sizes and port addresses.
func (m *Machine) Defines() iter.Seq2[string, string] {
	return maps.All(_machine_defines)
}

// wrap reduces a data address into [0, MEMORY_SIZE).
func wrap(address int) int {
	address %= MEMORY_SIZE
	if address < 0 {
		address += MEMORY_SIZE
	}
	return address
}

// Read a data address through the I/O bus.
func (m *Machine) Read(address int) (value Word) {
	address = wrap(address)
	if address < PORT_BASE {
		return m.memory[address]
	}

	switch Port(address - PORT_BASE) {
	case PORT_LOAD_PIXEL:
		if m.Screen.Pixel() {
			value = 1
		}
	case PORT_RNG:
		value = Word(m.Rand.UintN(MEMORY_SIZE))
	case PORT_CONTROLLER_INPUT:
		value = m.Controller.Packed()
	}

	return
}

// Write a data address through the I/O bus.
func (m *Machine) Write(address int, value Word) {
	address = wrap(address)
	if address < PORT_BASE {
		m.memory[address] = value
		m.MemoryUpdated = true
		return
	}

	port := Port(address - PORT_BASE)
	switch port {
	case PORT_PIXEL_X:
		m.Screen.X = int(value)
	case PORT_PIXEL_Y:
		m.Screen.Y = int(value)
	case PORT_DRAW_PIXEL:
		m.Screen.SetPixel(true)
	case PORT_CLEAR_PIXEL:
		m.Screen.SetPixel(false)
	case PORT_BUFFER_SCREEN:
		m.Screen.Commit()
	case PORT_CLEAR_SCREEN_BUFFER:
		m.Screen.ClearBuffer()
	case PORT_WRITE_CHAR:
		if !m.Characters.PushIndex(value) && m.Verbose {
			log.Printf("machine: %v: glyph %d dropped", port, value)
		}
	case PORT_BUFFER_CHARS:
		m.Characters.Commit()
	case PORT_CLEAR_CHARS_BUFFER:
		m.Characters.ClearBuffer()
	case PORT_SHOW_NUMBER:
		m.Number.SetValue(value)
	case PORT_CLEAR_NUMBER:
		m.Number.Clear()
	case PORT_SIGNED_MODE:
		m.Number.SetSigned(true)
	case PORT_UNSIGNED_MODE:
		m.Number.SetSigned(false)
	default:
		// Read-only ports ignore writes.
	}
}
