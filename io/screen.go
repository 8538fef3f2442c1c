package io

const (
	SCREEN_WIDTH  = 32 // Default screen width in pixels.
	SCREEN_HEIGHT = 32 // Default screen height in pixels.
)

// Screen is a monochrome bitmap with a back buffer that programs draw into
// and a front image that hosts display. Coordinates wrap on both axes.
type Screen struct {
	X int // Cursor X, used by the pixel ports.
	Y int // Cursor Y, used by the pixel ports.

	Updated bool // Set when the front image changes; cleared by the observer.

	width  int
	height int
	buffer []byte
	image  []byte
}

// NewScreen creates a cleared screen of the given size.
func NewScreen(width, height int) (screen *Screen) {
	size := (width*height + 7) / 8
	screen = &Screen{
		width:   width,
		height:  height,
		buffer:  make([]byte, size),
		image:   make([]byte, size),
		Updated: true,
	}

	return
}

// Width of the screen in pixels.
func (screen *Screen) Width() int {
	return screen.width
}

// Height of the screen in pixels.
func (screen *Screen) Height() int {
	return screen.height
}

// index returns the byte and bit holding pixel (x, y).
func (screen *Screen) index(x, y int) (byte_index int, bit uint) {
	x %= screen.width
	if x < 0 {
		x += screen.width
	}
	y %= screen.height
	if y < 0 {
		y += screen.height
	}

	i := x + y*screen.width
	return i / 8, uint(i % 8)
}

// Pixel returns the back buffer pixel under the cursor.
func (screen *Screen) Pixel() bool {
	n, bit := screen.index(screen.X, screen.Y)
	return (screen.buffer[n]>>bit)&1 != 0
}

// SetPixel sets the back buffer pixel under the cursor.
func (screen *Screen) SetPixel(on bool) {
	n, bit := screen.index(screen.X, screen.Y)
	if on {
		screen.buffer[n] |= 1 << bit
	} else {
		screen.buffer[n] &^= 1 << bit
	}
}

// At returns the displayed pixel at (x, y).
func (screen *Screen) At(x, y int) bool {
	n, bit := screen.index(x, y)
	return (screen.image[n]>>bit)&1 != 0
}

// Commit copies the back buffer into the displayed image.
func (screen *Screen) Commit() {
	copy(screen.image, screen.buffer)
	screen.Updated = true
}

// ClearBuffer zeroes the back buffer. The displayed image is untouched.
func (screen *Screen) ClearBuffer() {
	clear(screen.buffer)
}

// Clear zeroes both buffers and homes the cursor.
func (screen *Screen) Clear() {
	clear(screen.buffer)
	clear(screen.image)
	screen.X = 0
	screen.Y = 0
	screen.Updated = true
}

// Image returns the packed displayed image. Pixel (x, y) is bit
// (x + y*width) % 8 of byte (x + y*width) / 8.
func (screen *Screen) Image() []byte {
	return screen.image
}
