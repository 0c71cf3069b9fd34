package emit

import (
	"fmt"

	"github.com/sarchlab/isagen/operand"
)

// AccessKind is the kind of a register access statement.
type AccessKind int

// Register access kinds.
const (
	// Load binds the local to the current value of the slot's register.
	Load AccessKind = iota
	// Zero binds the local to zero, for operands that are only written.
	Zero
	// Store writes the local back to the slot's register.
	Store
)

func (k AccessKind) String() string {
	switch k {
	case Load:
		return "load"
	case Zero:
		return "zero"
	case Store:
		return "store"
	default:
		return fmt.Sprintf("AccessKind(%d)", int(k))
	}
}

// Access is one statement of the prologue or the epilogue.
type Access struct {
	Kind  AccessKind
	Slot  int
	Local string
}

// synthesizeAccess builds the prologue and the epilogue for the operands.
// Every operand gets exactly one binding in the prologue so that the body can
// use any local unconditionally. Only written operands appear in the
// epilogue. Both keep the declared operand order.
func synthesizeAccess(descs []operand.Descriptor) (prologue, epilogue []Access) {
	prologue = make([]Access, 0, len(descs))

	for _, d := range descs {
		kind := Zero
		if d.Mode.IsRead() {
			kind = Load
		}
		prologue = append(prologue, Access{Kind: kind, Slot: d.Index, Local: d.Local()})
	}

	for _, d := range descs {
		if d.Mode.IsWrite() {
			epilogue = append(epilogue, Access{Kind: Store, Slot: d.Index, Local: d.Local()})
		}
	}

	return prologue, epilogue
}

// Statement renders an access as a target statement.
func (t Target) Statement(a Access) string {
	switch a.Kind {
	case Load:
		return fmt.Sprintf("%s %s = mach->%s(slots[%d]);", t.RegisterType, a.Local, t.GetRegister, a.Slot)
	case Zero:
		return fmt.Sprintf("%s %s = 0;", t.RegisterType, a.Local)
	case Store:
		return fmt.Sprintf("mach->%s(slots[%d], %s);", t.SetRegister, a.Slot, a.Local)
	default:
		panic(fmt.Sprintf("unknown access kind %s", a.Kind))
	}
}
