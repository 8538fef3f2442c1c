// Package io provides the BatPU peripherals: a double-buffered pixel
// screen, a character display, a number display and an eight-button
// controller. Peripherals know nothing of the bus; the machine maps its
// ports onto them.
package io
