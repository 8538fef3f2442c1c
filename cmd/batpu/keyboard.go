package main

import (
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	bio "github.com/ezrec/batpu/io"
)

const (
	KEY_HOLD = 150 * time.Millisecond // Terminals report no key release.
)

// key is a decoded terminal key.
type key struct {
	Button bio.Button
	Quit   bool
}

var _key_buttons = map[byte]bio.Button{
	'w':  bio.BUTTON_UP,
	'a':  bio.BUTTON_LEFT,
	's':  bio.BUTTON_DOWN,
	'd':  bio.BUTTON_RIGHT,
	'j':  bio.BUTTON_A,
	'k':  bio.BUTTON_B,
	'\r': bio.BUTTON_START,
	' ':  bio.BUTTON_SELECT,
}

var _arrow_buttons = map[byte]bio.Button{
	'A': bio.BUTTON_UP,
	'B': bio.BUTTON_DOWN,
	'C': bio.BUTTON_RIGHT,
	'D': bio.BUTTON_LEFT,
}

// decodeKeys translates raw terminal input into keys. Unknown input is
// skipped.
func decodeKeys(buf []byte) (keys []key) {
	for n := 0; n < len(buf); n++ {
		c := buf[n]
		switch {
		case c == 'q' || c == 0x03:
			keys = append(keys, key{Quit: true})
		case c == 0x1b && n+2 < len(buf) && buf[n+1] == '[':
			if b, ok := _arrow_buttons[buf[n+2]]; ok {
				keys = append(keys, key{Button: b})
			}
			n += 2
		default:
			if b, ok := _key_buttons[c]; ok {
				keys = append(keys, key{Button: b})
			}
		}
	}

	return
}

// Keyboard reads raw terminal input into a channel of keys.
type Keyboard struct {
	Keys chan []key // Closed when the reader stops.

	done  chan struct{}
	once  sync.Once
	fd    int
	state *term.State
}

// NewKeyboard puts stdin into raw mode and starts reading.
func NewKeyboard() (kb *Keyboard, err error) {
	fd := int(os.Stdin.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return
	}

	kb = newKeyboard(os.Stdin)
	kb.fd = fd
	kb.state = state

	return
}

// newKeyboard starts a reader over r. The reader stops at the first read
// after Close, or when r fails.
func newKeyboard(r io.Reader) (kb *Keyboard) {
	kb = &Keyboard{
		Keys: make(chan []key, 16),
		done: make(chan struct{}),
	}

	go func() {
		defer close(kb.Keys)
		buf := make([]byte, 16)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				select {
				case kb.Keys <- decodeKeys(buf[:n]):
				case <-kb.done:
					return
				}
			}
			if err != nil {
				return
			}
			select {
			case <-kb.done:
				return
			default:
			}
		}
	}()

	return
}

// Close stops the reader and restores the terminal.
func (kb *Keyboard) Close() (err error) {
	kb.once.Do(func() {
		close(kb.done)
		if kb.state != nil {
			err = term.Restore(kb.fd, kb.state)
		}
	})

	return
}

// holds tracks when each pressed button is released.
type holds map[bio.Button]time.Time

// press records a key press at now.
func (h holds) press(b bio.Button, now time.Time) {
	h[b] = now.Add(KEY_HOLD)
}

// apply updates the emulator controller for the time now, releasing
// expired buttons.
func (h holds) apply(press func(bio.Button, bool), now time.Time) {
	for b := bio.BUTTON_LEFT; b <= bio.BUTTON_START; b++ {
		until, ok := h[b]
		if ok && now.After(until) {
			delete(h, b)
			ok = false
		}
		press(b, ok)
	}
}
