package emit

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sarchlab/isagen/isa"
)

// Target names the runtime types and accessors that generated classes are
// written against.
type Target struct {
	Name string

	ClassPrefix       string // prepended to the instruction name
	BaseClass         string // interface every instruction class derives from
	MachineBase       string // type of the machine passed to execute
	Machine           string // concrete machine the base is cast to
	SlotType          string // slot handle type
	SlotClass         string // slot class constructed by getSlots
	RegisterClassEnum string // enum that holds register class tags
	RegisterType      string // type of the locals bound to operands

	GetRegister string // machine method that reads a slot's register
	SetRegister string // machine method that writes a slot's register
	SlotValue   string // slot method that returns the register number

	// RegisterClasses, when not empty, is the closed set of tags operands
	// may use.
	RegisterClasses []string
}

// AVRRegisterClasses are the register classes the AVR runtime defines.
var AVRRegisterClasses = []string{
	"ALL_REGISTERS",
	"REGISTERS_16PLUS",
	"REGISTER0",
	"REGISTER1",
}

// AVR is the default target, the 8-bit AVR machine.
var AVR = Target{
	Name:              "avr",
	ClassPrefix:       "Avr_",
	BaseClass:         "Instruction",
	MachineBase:       "TargetMachine",
	Machine:           "AvrMachine",
	SlotType:          "Slot",
	SlotClass:         "AVRRegisterSlot",
	RegisterClassEnum: "AvrRegisterClasses",
	RegisterType:      "unsigned char",
	GetRegister:       "getRegister",
	SetRegister:       "setRegister",
	SlotValue:         "getValue",
}

// WithRegisterClasses returns a copy of the target that only accepts the
// given register classes.
func (t Target) WithRegisterClasses(classes ...string) Target {
	t.RegisterClasses = slices.Clone(classes)
	return t
}

// ValidateRegisterClass checks that tag can be used as a register class.
func (t Target) ValidateRegisterClass(tag string) error {
	if !isIdentifier(tag) {
		return fmt.Errorf("%w: %q is not an identifier", isa.ErrInvalidRegisterClass, tag)
	}

	if len(t.RegisterClasses) > 0 && !slices.Contains(t.RegisterClasses, tag) {
		return fmt.Errorf("%w: %q is not one of %s",
			isa.ErrInvalidRegisterClass, tag, strings.Join(t.RegisterClasses, ", "))
	}

	return nil
}

// ClassName derives the generated class name of an instruction. Characters
// that cannot appear in an identifier become underscores.
func (t Target) ClassName(instruction string) string {
	var b strings.Builder

	b.WriteString(t.ClassPrefix)
	if b.Len() == 0 && instruction != "" && instruction[0] >= '0' && instruction[0] <= '9' {
		b.WriteByte('_')
	}
	for _, r := range instruction {
		if isIdentRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	return b.String()
}

func isIdentifier(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return false
	}

	for _, r := range s {
		if !isIdentRune(r) {
			return false
		}
	}

	return true
}

func isIdentRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
