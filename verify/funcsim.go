package verify

import (
	"fmt"
	"slices"

	"github.com/sarchlab/isagen/emit"
)

// Locals are the operand bindings visible to a body.
type Locals map[string]uint32

// Body stands in for the opaque semantic body of an instruction.
type Body func(locals Locals)

// Identity is a body that leaves every local as it is.
func Identity(Locals) {}

// WriteEvent records a register store made by an epilogue.
type WriteEvent struct {
	Slot     int
	Register int
	Value    uint32
}

// AVRRegisterMask is the width of an AVR register, which the generated code
// binds as unsigned char.
const AVRRegisterMask uint32 = 0xff

// FunctionalSimulator executes the access plan of generated classes against
// an in-memory register file. Loads and stores are truncated to
// RegisterMask, as the target's register type truncates them.
type FunctionalSimulator struct {
	Registers    []uint32
	Writes       []WriteEvent
	RegisterMask uint32
}

// NewFunctionalSimulator creates a simulator with numRegisters zeroed AVR
// registers.
func NewFunctionalSimulator(numRegisters int) *FunctionalSimulator {
	return &FunctionalSimulator{
		Registers:    make([]uint32, numRegisters),
		RegisterMask: AVRRegisterMask,
	}
}

// Execute runs the prologue of c, then body, then the epilogue. slots maps
// each slot index to a register number. It returns the number of slots
// consumed.
func (fs *FunctionalSimulator) Execute(c *emit.Class, slots []int, body Body) (int, error) {
	if len(slots) != c.SlotCount() {
		return 0, fmt.Errorf("%s: %d slots given, %d required", c.Name, len(slots), c.SlotCount())
	}

	for i, r := range slots {
		if r < 0 || r >= len(fs.Registers) {
			return 0, fmt.Errorf("%s: slot %d names register %d, only %d exist",
				c.Name, i, r, len(fs.Registers))
		}
	}

	for _, a := range slices.Concat(c.Prologue, c.Epilogue) {
		if a.Slot < 0 || a.Slot >= len(slots) {
			return 0, fmt.Errorf("%s: %s of slot %d out of range", c.Name, a.Kind, a.Slot)
		}
	}

	locals := make(Locals, len(c.Prologue))
	for _, a := range c.Prologue {
		switch a.Kind {
		case emit.Load:
			locals[a.Local] = fs.Registers[slots[a.Slot]] & fs.RegisterMask
		case emit.Zero:
			locals[a.Local] = 0
		default:
			return 0, fmt.Errorf("%s: %s in prologue", c.Name, a.Kind)
		}
	}

	body(locals)

	for _, a := range c.Epilogue {
		if a.Kind != emit.Store {
			return 0, fmt.Errorf("%s: %s in epilogue", c.Name, a.Kind)
		}

		v, ok := locals[a.Local]
		if !ok {
			return 0, fmt.Errorf("%s: store of unbound local %s", c.Name, a.Local)
		}

		v &= fs.RegisterMask
		r := slots[a.Slot]
		fs.Registers[r] = v
		fs.Writes = append(fs.Writes, WriteEvent{Slot: a.Slot, Register: r, Value: v})
	}

	return c.SlotCount(), nil
}

// checkAccessBehavior runs c with an identity body over distinct, non-zero
// register values and checks what the plan does with each operand.
func checkAccessBehavior(c *emit.Class) []Issue {
	var issues []Issue

	report := func(op int, format string, args ...any) {
		issues = append(issues, Issue{
			Type:        IssueAccess,
			Instruction: c.Name,
			Operand:     op,
			Message:     fmt.Sprintf(format, args...),
		})
	}

	n := c.SlotCount()
	fs := NewFunctionalSimulator(n)
	slots := make([]int, n)
	for i := range slots {
		slots[i] = i
		fs.Registers[i] = markedValue(i)
	}

	var seen Locals
	consumed, err := fs.Execute(c, slots, func(locals Locals) {
		seen = make(Locals, len(locals))
		for k, v := range locals {
			seen[k] = v
		}
	})
	if err != nil {
		report(-1, "%v", err)
		return issues
	}
	if consumed != n {
		report(-1, "execute consumed %d slots, want %d", consumed, n)
	}

	written := make(map[int]bool)
	for _, w := range fs.Writes {
		written[w.Slot] = true
	}

	for i, op := range c.Operands {
		if i >= n {
			break
		}

		v, bound := seen[op.Local()]
		switch {
		case !bound:
			report(i, "operand %s has no binding when the body runs", op.Ident)
		case op.Mode.IsRead() && v != markedValue(i):
			report(i, "operand %s does not see its register value", op.Ident)
		case !op.Mode.IsRead() && v != 0:
			report(i, "write-only operand %s is not zero when the body runs", op.Ident)
		}

		if !op.Mode.IsWrite() && written[i] {
			report(i, "read-only operand %s is written back", op.Ident)
		}
		if op.Mode.IsWrite() && !written[i] {
			report(i, "operand %s is never written back", op.Ident)
		}
		if op.Mode.IsRead() && fs.Registers[i] != markedValue(i) {
			report(i, "identity body changed register of operand %s", op.Ident)
		}
	}

	return issues
}

// markedValue is a non-zero register value that fits a byte, distinct for
// the first 128 operands.
func markedValue(i int) uint32 {
	return 0x80 | uint32(i&0x7f)
}
