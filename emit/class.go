package emit

import (
	"fmt"
	"strings"

	"github.com/sarchlab/isagen/operand"
)

// Class is the generated artifact of one instruction. It keeps the
// structured plan next to the rendered fragments so that both can be
// inspected before anything is serialized.
//
// The fields are exported for inspection only. A Class returned by the
// Emitter must be treated as read-only: the rendered fragments are not
// recomputed, so changing the plan leaves them out of step.
type Class struct {
	Name      string
	ClassName string
	PrintName string
	Operands  []operand.Descriptor
	Prologue  []Access
	Body      string
	Epilogue  []Access
	Slots     []SlotDescriptor

	ExecuteRoutine string
	SlotList       string
	SymbolicForm   string
	ResolvedForm   string // target expression evaluated at call time
}

// SlotCount is the number of slots the instruction consumes.
func (c *Class) SlotCount() int {
	return len(c.Slots)
}

// Resolve computes the resolved disassembly form for the given register
// numbers, exactly as the generated toString(slots) does at run time.
func (c *Class) Resolve(regs []int) (string, error) {
	if len(regs) != len(c.Operands) {
		return "", fmt.Errorf("%s takes %d slots, got %d", c.Name, len(c.Operands), len(regs))
	}

	parts := make([]string, 0, len(regs))
	for _, r := range regs {
		parts = append(parts, fmt.Sprintf("r%d", r))
	}

	return joinForm(c.PrintName, parts), nil
}

func symbolicForm(printName string, descs []operand.Descriptor) string {
	parts := make([]string, 0, len(descs))
	for _, d := range descs {
		parts = append(parts, d.Symbol())
	}
	return joinForm(printName, parts)
}

func joinForm(printName string, parts []string) string {
	if len(parts) == 0 {
		return printName
	}
	return printName + " " + strings.Join(parts, ", ")
}

// resolvedFormExpr builds the target expression that concatenates the print
// name with the register number of each slot.
func (t Target) resolvedFormExpr(printName string, n int) string {
	if n == 0 {
		return quote(printName)
	}

	terms := make([]string, 0, 2*n)
	for i := 0; i < n; i++ {
		prefix := ", r"
		if i == 0 {
			prefix = printName + " r"
		}
		terms = append(terms,
			quote(prefix),
			fmt.Sprintf("std::to_string(slots[%d]->%s())", i, t.SlotValue))
	}

	return strings.Join(terms, " + ")
}

type classView struct {
	*Class
	Target Target
}
