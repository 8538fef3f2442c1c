// Package link resolves assembler output into an executable program.
//
// Statements carry jump, branch and call targets as a Location, which may
// be an absolute address, an offset from the statement, or a label. Link
// resolves every Location to an address and produces a machine.Program,
// which can only hold resolved addresses.
package link

import (
	"errors"
	"fmt"
	"log"

	"github.com/ezrec/batpu/machine"
)

// LocationKind selects how a Location is resolved.
type LocationKind int

//go:generate go tool stringer -linecomment -type=LocationKind
const (
	LOCATION_ADDRESS = LocationKind(0) // address
	LOCATION_OFFSET  = LocationKind(1) // offset
	LOCATION_LABEL   = LocationKind(2) // label
)

// Location is an unresolved control-flow target.
type Location struct {
	Kind    LocationKind
	Address int    // LOCATION_ADDRESS: absolute address.
	Offset  int    // LOCATION_OFFSET: relative to the statement's address.
	Label   string // LOCATION_LABEL: label name.
}

// AtAddress is a Location at an absolute address.
func AtAddress(address int) Location {
	return Location{Kind: LOCATION_ADDRESS, Address: address}
}

// AtOffset is a Location relative to the instruction using it.
func AtOffset(offset int) Location {
	return Location{Kind: LOCATION_OFFSET, Offset: offset}
}

// AtLabel is a Location at a label.
func AtLabel(label string) Location {
	return Location{Kind: LOCATION_LABEL, Label: label}
}

func (loc Location) String() string {
	switch loc.Kind {
	case LOCATION_ADDRESS:
		return fmt.Sprintf("%d", loc.Address)
	case LOCATION_OFFSET:
		return fmt.Sprintf(".%+d", loc.Offset)
	case LOCATION_LABEL:
		return loc.Label
	}
	return fmt.Sprintf("Location(%v)", loc.Kind)
}

// Statement is either a label definition or an instruction.
type Statement struct {
	LineNo int                 // Source line, for errors.
	Label  string              // If set, names the next instruction.
	Code   machine.Instruction // Instruction; Target is filled in by Link.
	Target Location            // Target of jmp, brh and cal.
}

// UsesTarget reports whether an opcode takes a control-flow target.
func UsesTarget(op machine.Op) bool {
	switch op {
	case machine.OP_JMP, machine.OP_BRH, machine.OP_CAL:
		return true
	}
	return false
}

// Linker collects statements and resolves them into a program.
type Linker struct {
	Verbose    bool
	Statements []Statement
}

// Label names the next instruction. The name must not be empty.
func (ln *Linker) Label(lineno int, name string) (err error) {
	if len(name) == 0 {
		err = ErrSyntax{LineNo: lineno, Err: ErrLabelInvalid}
		return
	}

	ln.Statements = append(ln.Statements, Statement{LineNo: lineno, Label: name})
	return
}

// Emit appends an instruction without a target.
func (ln *Linker) Emit(lineno int, code machine.Instruction) {
	ln.Statements = append(ln.Statements, Statement{LineNo: lineno, Code: code})
}

// EmitTarget appends a jmp, brh or cal with an unresolved target.
func (ln *Linker) EmitTarget(lineno int, code machine.Instruction, target Location) {
	ln.Statements = append(ln.Statements, Statement{LineNo: lineno, Code: code, Target: target})
}

// Labels returns the address of every label.
func (ln *Linker) Labels() (labels map[string]int, err error) {
	labels = map[string]int{}
	var errs []error

	index := 0
	for _, stmt := range ln.Statements {
		if len(stmt.Label) == 0 {
			index++
			continue
		}
		if _, dup := labels[stmt.Label]; dup {
			errs = append(errs, ErrSyntax{LineNo: stmt.LineNo, Err: fmt.Errorf("%w: %v", ErrLabelDuplicate, stmt.Label)})
			continue
		}
		labels[stmt.Label] = index
	}

	err = errors.Join(errs...)
	return
}

// resolve converts a Location used at index into an address.
func resolve(loc Location, index int, labels map[string]int) (addr machine.Address, err error) {
	var target int
	switch loc.Kind {
	case LOCATION_ADDRESS:
		target = loc.Address
	case LOCATION_OFFSET:
		target = index + loc.Offset
	case LOCATION_LABEL:
		if len(loc.Label) == 0 {
			err = ErrLabelInvalid
			return
		}
		var ok bool
		target, ok = labels[loc.Label]
		if !ok {
			err = ErrLabelMissing(loc.Label)
			return
		}
	default:
		err = ErrTargetMissing
		return
	}

	if target < 0 || target >= machine.ADDRESS_COUNT {
		err = ErrTargetRange
		return
	}

	addr = machine.Address(target)
	return
}

// Link resolves all statements into a program.
func (ln *Linker) Link() (prog *machine.Program, err error) {
	labels, err := ln.Labels()
	if err != nil {
		return
	}

	var codes []machine.Instruction
	var errs []error
	for _, stmt := range ln.Statements {
		if len(stmt.Label) != 0 {
			continue
		}
		code := stmt.Code
		if UsesTarget(code.Op) {
			code.Target, err = resolve(stmt.Target, len(codes), labels)
			if err != nil {
				errs = append(errs, ErrSyntax{LineNo: stmt.LineNo, Err: err})
			}
		}
		if ln.Verbose {
			log.Printf("link: %04d: %v", len(codes), code)
		}
		codes = append(codes, code)
	}

	err = errors.Join(errs...)
	if err != nil {
		return
	}

	prog, err = machine.NewProgram(codes...)
	return
}
