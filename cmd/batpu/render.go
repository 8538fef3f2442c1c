package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/ezrec/batpu/emulator"
	bio "github.com/ezrec/batpu/io"
)

const (
	PIXEL_ON  = "██"
	PIXEL_OFF = "  "
)

// render draws a snapshot as text. eol separates lines, which must be
// "\r\n" while the terminal is in raw mode.
func render(w io.Writer, snap *emulator.Snapshot, eol string) (err error) {
	var sb strings.Builder

	border := "+" + strings.Repeat("-", snap.Width*len([]rune(PIXEL_ON))) + "+"
	sb.WriteString(border + eol)
	for y := range snap.Height {
		sb.WriteString("|")
		for x := range snap.Width {
			if snap.Pixel(x, y) {
				sb.WriteString(PIXEL_ON)
			} else {
				sb.WriteString(PIXEL_OFF)
			}
		}
		sb.WriteString("|" + eol)
	}
	sb.WriteString(border + eol)

	fmt.Fprintf(&sb, "text: [%-*s]  number: %4d%s", bio.CHARACTER_CAPACITY, snap.Text, snap.Number, eol)
	fmt.Fprintf(&sb, "pc: %04d  ticks: %d", snap.Pc, snap.Ticks)
	if snap.Halted {
		sb.WriteString("  halted")
	}
	sb.WriteString(eol)

	_, err = io.WriteString(w, sb.String())
	return
}
