package emit

import (
	"fmt"

	"github.com/sarchlab/isagen/operand"
)

// SlotDescriptor is the contract of one operand slot: which register class
// it may name and whether the instruction reads or writes it. The runtime
// uses it to validate caller supplied slots.
type SlotDescriptor struct {
	RegisterClass string
	Write         bool
	Read          bool
}

func synthesizeSlots(descs []operand.Descriptor) []SlotDescriptor {
	slots := make([]SlotDescriptor, 0, len(descs))

	for _, d := range descs {
		slots = append(slots, SlotDescriptor{
			RegisterClass: d.RegisterClass,
			Write:         d.Mode.IsWrite(),
			Read:          d.Mode.IsRead(),
		})
	}

	return slots
}

// SlotExpr renders the construction expression of a slot. The constructor
// takes the class first, then the write flag, then the read flag.
func (t Target) SlotExpr(s SlotDescriptor) string {
	return fmt.Sprintf("new %s(%s::%s, %t, %t)",
		t.SlotClass, t.RegisterClassEnum, s.RegisterClass, s.Write, s.Read)
}
