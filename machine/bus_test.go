package machine

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_Memory(t *testing.T) {
	assert := assert.New(t)

	m := New()
	m.MemoryUpdated = false

	m.Write(10, 0x55)
	assert.True(m.MemoryUpdated)
	assert.Equal(Word(0x55), m.Read(10))
	assert.Equal(Word(0x55), m.Read(10+MEMORY_SIZE))
	assert.Equal(Word(0x55), m.Read(10-MEMORY_SIZE))

	m.Write(-1, 0x77)
	assert.Equal(Word(0), m.Memory()[PORT_BASE-1])
}

func TestBus_Screen(t *testing.T) {
	assert := assert.New(t)

	m := New()
	m.Write(PORT_PIXEL_X.Address(), 4)
	m.Write(PORT_PIXEL_Y.Address(), 2)
	m.Write(PORT_DRAW_PIXEL.Address(), 0)
	assert.Equal(Word(1), m.Read(PORT_LOAD_PIXEL.Address()))
	assert.False(m.Screen.At(4, 2))

	m.Screen.Updated = false
	m.Write(PORT_BUFFER_SCREEN.Address(), 0)
	assert.True(m.Screen.Updated)
	assert.True(m.Screen.At(4, 2))

	m.Write(PORT_CLEAR_PIXEL.Address(), 0)
	assert.Equal(Word(0), m.Read(PORT_LOAD_PIXEL.Address()))

	m.Write(PORT_DRAW_PIXEL.Address(), 0)
	m.Write(PORT_CLEAR_SCREEN_BUFFER.Address(), 0)
	assert.Equal(Word(0), m.Read(PORT_LOAD_PIXEL.Address()))
	assert.True(m.Screen.At(4, 2))

	// Cursor wraps: x=36 is x=4.
	m.Write(PORT_PIXEL_X.Address(), 36)
	m.Write(PORT_DRAW_PIXEL.Address(), 0)
	m.Write(PORT_PIXEL_X.Address(), 4)
	assert.Equal(Word(1), m.Read(PORT_LOAD_PIXEL.Address()))
}

func TestBus_Characters(t *testing.T) {
	assert := assert.New(t)

	m := New()
	for _, index := range []Word{8, 9, 30, 28} {
		m.Write(PORT_WRITE_CHAR.Address(), index)
	}
	assert.Equal("", m.Characters.Text())

	m.Write(PORT_BUFFER_CHARS.Address(), 0)
	assert.Equal("HI!", m.Characters.Text())

	m.Write(PORT_CLEAR_CHARS_BUFFER.Address(), 0)
	assert.Equal("HI!", m.Characters.Text())
	m.Write(PORT_BUFFER_CHARS.Address(), 0)
	assert.Equal("", m.Characters.Text())
}

func TestBus_Number(t *testing.T) {
	assert := assert.New(t)

	m := New()
	m.Write(PORT_SHOW_NUMBER.Address(), 200)
	assert.Equal(200, m.Number.Value())

	m.Write(PORT_SIGNED_MODE.Address(), 0)
	assert.Equal(-56, m.Number.Value())

	m.Write(PORT_UNSIGNED_MODE.Address(), 0)
	assert.Equal(200, m.Number.Value())

	m.Write(PORT_SIGNED_MODE.Address(), 0)
	m.Write(PORT_CLEAR_NUMBER.Address(), 0)
	assert.Equal(0, m.Number.Value())
	assert.False(m.Number.Signed)
}

func TestBus_Inputs(t *testing.T) {
	assert := assert.New(t)

	m := New()
	m.Controller.Start = true
	m.Controller.Left = true
	assert.Equal(Word(0x81), m.Read(PORT_CONTROLLER_INPUT.Address()))

	m.Rand = rand.New(rand.NewPCG(1, 2))
	expect := rand.New(rand.NewPCG(1, 2))
	for range 8 {
		assert.Equal(Word(expect.UintN(MEMORY_SIZE)), m.Read(PORT_RNG.Address()))
	}
}

func TestBus_WriteOnly(t *testing.T) {
	assert := assert.New(t)

	m := New()
	for port := range Port(PORT_COUNT) {
		switch port {
		case PORT_LOAD_PIXEL, PORT_RNG, PORT_CONTROLLER_INPUT:
			continue
		}
		assert.Equal(Word(0), m.Read(port.Address()), "%v", port)
	}

	m.MemoryUpdated = false
	m.Write(PORT_RNG.Address(), 1)
	m.Write(PORT_CONTROLLER_INPUT.Address(), 1)
	m.Write(PORT_LOAD_PIXEL.Address(), 1)
	assert.False(m.MemoryUpdated)
	assert.Equal(Word(0), m.Read(PORT_CONTROLLER_INPUT.Address()))
}

func TestBus_Defines(t *testing.T) {
	assert := assert.New(t)

	m := New()
	defines := map[string]string{}
	for k, v := range m.Defines() {
		defines[k] = v
	}
	assert.Equal("240", defines["PORT_PIXEL_X"])
	assert.Equal("255", defines["PORT_CONTROLLER_INPUT"])
	assert.Equal("1024", defines["ADDRESS_COUNT"])
	assert.Equal("controller_input", PORT_CONTROLLER_INPUT.String())
	assert.Equal("Port(16)", Port(PORT_COUNT).String())
}
