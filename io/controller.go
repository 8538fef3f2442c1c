package io

import (
	"fmt"
)

// Button identifies a controller button. The value is its bit in the
// packed controller byte.
type Button int

//go:generate go tool stringer -linecomment -type=Button
const (
	BUTTON_LEFT   = Button(0) // left
	BUTTON_DOWN   = Button(1) // down
	BUTTON_RIGHT  = Button(2) // right
	BUTTON_UP     = Button(3) // up
	BUTTON_B      = Button(4) // b
	BUTTON_A      = Button(5) // a
	BUTTON_SELECT = Button(6) // select
	BUTTON_START  = Button(7) // start
)

// Controller holds the state of the eight controller buttons.
type Controller struct {
	Start  bool
	Select bool
	A      bool
	B      bool
	Up     bool
	Right  bool
	Down   bool
	Left   bool
}

// button returns the field backing a button.
func (c *Controller) button(b Button) *bool {
	switch b {
	case BUTTON_START:
		return &c.Start
	case BUTTON_SELECT:
		return &c.Select
	case BUTTON_A:
		return &c.A
	case BUTTON_B:
		return &c.B
	case BUTTON_UP:
		return &c.Up
	case BUTTON_RIGHT:
		return &c.Right
	case BUTTON_DOWN:
		return &c.Down
	case BUTTON_LEFT:
		return &c.Left
	}
	panic(fmt.Sprintf("unknown button %d", int(b)))
}

// Set presses or releases a button.
func (c *Controller) Set(b Button, pressed bool) {
	*c.button(b) = pressed
}

// Pressed reports whether a button is held.
func (c *Controller) Pressed(b Button) bool {
	return *c.button(b)
}

// Packed returns the buttons as one byte, MSB first:
// start, select, a, b, up, right, down, left.
func (c *Controller) Packed() (packed uint8) {
	for b := BUTTON_LEFT; b <= BUTTON_START; b++ {
		if c.Pressed(b) {
			packed |= 1 << uint(b)
		}
	}
	return
}

// Clear releases every button.
func (c *Controller) Clear() {
	*c = Controller{}
}
