package io

const (
	CHARACTER_CAPACITY = 10 // Default character display length.
)

// GLYPHS is the character display glyph table, indexed by the value
// written to the character port.
const GLYPHS = " ABCDEFGHIJKLMNOPQRSTUVWXYZ.!?"

// Glyph returns the glyph at index, if there is one.
func Glyph(index uint8) (glyph rune, ok bool) {
	if int(index) >= len(GLYPHS) {
		return
	}

	return rune(GLYPHS[index]), true
}

// GlyphIndex returns the table index of a glyph.
func GlyphIndex(glyph rune) (index uint8, ok bool) {
	for n, g := range GLYPHS {
		if g == glyph {
			return uint8(n), true
		}
	}

	return
}

// CharacterDisplay is a bounded text display fed one glyph at a time.
type CharacterDisplay struct {
	Updated bool // Set when the displayed text changes; cleared by the observer.

	capacity int
	buffer   []rune
	text     []rune
}

// NewCharacterDisplay creates an empty display holding up to capacity glyphs.
func NewCharacterDisplay(capacity int) (cd *CharacterDisplay) {
	cd = &CharacterDisplay{
		capacity: capacity,
		buffer:   make([]rune, 0, capacity),
		text:     make([]rune, 0, capacity),
		Updated:  true,
	}

	return
}

// Capacity of the display in glyphs.
func (cd *CharacterDisplay) Capacity() int {
	return cd.capacity
}

// Push appends a glyph to the back buffer. It returns false, without
// changing anything, when the buffer is full.
func (cd *CharacterDisplay) Push(glyph rune) bool {
	if len(cd.buffer) >= cd.capacity {
		return false
	}

	cd.buffer = append(cd.buffer, glyph)
	return true
}

// PushIndex appends the glyph at a table index. Indexes without a glyph
// are ignored and report false.
func (cd *CharacterDisplay) PushIndex(index uint8) bool {
	glyph, ok := Glyph(index)
	if !ok {
		return false
	}

	return cd.Push(glyph)
}

// Commit makes the back buffer the displayed text.
func (cd *CharacterDisplay) Commit() {
	cd.text = append(cd.text[:0], cd.buffer...)
	cd.Updated = true
}

// ClearBuffer empties the back buffer only.
func (cd *CharacterDisplay) ClearBuffer() {
	cd.buffer = cd.buffer[:0]
}

// Clear empties both the back buffer and the displayed text.
func (cd *CharacterDisplay) Clear() {
	cd.buffer = cd.buffer[:0]
	cd.text = cd.text[:0]
	cd.Updated = true
}

// Text returns the displayed text.
func (cd *CharacterDisplay) Text() string {
	return string(cd.text)
}
