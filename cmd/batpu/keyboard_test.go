package main

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	bio "github.com/ezrec/batpu/io"
)

func TestDecodeKeys(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		input string
		keys  []key
	}{
		{"", nil},
		{"w", []key{{Button: bio.BUTTON_UP}}},
		{"\x1b[D", []key{{Button: bio.BUTTON_LEFT}}},
		{"\x1b[Cj", []key{{Button: bio.BUTTON_RIGHT}, {Button: bio.BUTTON_A}}},
		{"\x1b[Z", nil},
		{"\x1b", nil},
		{"xk\r ", []key{{Button: bio.BUTTON_B}, {Button: bio.BUTTON_START}, {Button: bio.BUTTON_SELECT}}},
		{"dq", []key{{Button: bio.BUTTON_RIGHT}, {Quit: true}}},
		{"\x03", []key{{Quit: true}}},
	}

	for _, entry := range table {
		assert.Equal(entry.keys, decodeKeys([]byte(entry.input)), "%q", entry.input)
	}
}

func TestHolds(t *testing.T) {
	assert := assert.New(t)

	var c bio.Controller
	h := holds{}
	now := time.Unix(1000, 0)

	h.press(bio.BUTTON_A, now)
	h.apply(c.Set, now)
	assert.True(c.A)
	assert.False(c.B)

	h.apply(c.Set, now.Add(KEY_HOLD))
	assert.True(c.A)

	h.press(bio.BUTTON_B, now.Add(KEY_HOLD))
	h.apply(c.Set, now.Add(KEY_HOLD+time.Millisecond))
	assert.False(c.A)
	assert.True(c.B)
	assert.Equal(uint8(1<<bio.BUTTON_B), c.Packed())
}

func TestKeyboard(t *testing.T) {
	assert := assert.New(t)

	r, w := io.Pipe()
	kb := newKeyboard(r)

	go w.Write([]byte("w"))
	assert.Equal([]key{{Button: bio.BUTTON_UP}}, <-kb.Keys)

	assert.NoError(kb.Close())
	assert.NoError(kb.Close())

	// The reader exits on its next read and closes Keys.
	go w.Write([]byte("a"))
	for range kb.Keys {
	}
	_, ok := <-kb.Keys
	assert.False(ok)

	w.Close()
}
