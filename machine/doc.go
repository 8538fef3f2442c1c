// Package machine implements the BatPU processor.
//
// The machine has sixteen 8-bit registers (r0 reads as zero), 240 bytes of
// data memory, sixteen memory-mapped I/O ports, zero and carry flags, a
// sixteen-entry return stack, and a program counter over a separate
// instruction memory of up to 1024 instructions.
//
// Programs are executed from a linked Program: every control-flow target
// is a concrete address, so a Program can be executed without further
// checks. Decode and Encode convert between instructions and the 16-bit
// BatPU-2 machine code.
package machine
