package verify

import (
	"fmt"
	"strings"

	"github.com/sarchlab/isagen/emit"
)

// RunLint performs the static checks and the access plan simulation on all
// classes. It returns an empty list when every class is sound.
func RunLint(classes []*emit.Class) []Issue {
	var issues []Issue

	owners := make(map[string]string)
	for _, c := range classes {
		if prev, ok := owners[c.ClassName]; ok {
			issues = append(issues, Issue{
				Type:        IssueStruct,
				Instruction: c.Name,
				Operand:     -1,
				Message: fmt.Sprintf("class name %s is also generated for %s",
					c.ClassName, prev),
			})
		} else {
			owners[c.ClassName] = c.Name
		}

		issues = append(issues, lintClass(c)...)
		issues = append(issues, checkAccessBehavior(c)...)
	}

	return issues
}

func lintClass(c *emit.Class) []Issue {
	var issues []Issue

	report := func(op int, format string, args ...any) {
		issues = append(issues, Issue{
			Type:        IssueStruct,
			Instruction: c.Name,
			Operand:     op,
			Message:     fmt.Sprintf(format, args...),
		})
	}

	n := len(c.Operands)
	if len(c.Slots) != n {
		report(-1, "%d slots for %d operands", len(c.Slots), n)
	}
	if len(c.Prologue) != n {
		report(-1, "%d prologue bindings for %d operands", len(c.Prologue), n)
	}

	locals := make(map[string]int)
	for i, a := range c.Prologue {
		if a.Slot != i {
			report(i, "prologue binding %d targets slot %d", i, a.Slot)
			continue
		}
		if i >= n {
			continue
		}

		op := c.Operands[i]
		if want := bindingKind(op.Mode.IsRead()); a.Kind != want {
			report(i, "operand %s is bound by %s, want %s", op.Ident, a.Kind, want)
		}
		if prev, ok := locals[a.Local]; ok {
			report(i, "local %s is also bound for operand %d", a.Local, prev)
		}
		locals[a.Local] = i
	}

	last := -1
	for _, a := range c.Epilogue {
		if a.Kind != emit.Store {
			report(a.Slot, "epilogue holds a %s", a.Kind)
			continue
		}
		if a.Slot <= last {
			report(a.Slot, "store to slot %d follows store to slot %d", a.Slot, last)
		}
		last = a.Slot

		if a.Slot < 0 || a.Slot >= n {
			report(a.Slot, "store to slot %d out of range", a.Slot)
			continue
		}
		if !c.Operands[a.Slot].Mode.IsWrite() {
			report(a.Slot, "read-only operand %s is stored", c.Operands[a.Slot].Ident)
		}
	}

	for i, s := range c.Slots {
		if i >= n {
			break
		}
		mode := c.Operands[i].Mode
		if s.Read != mode.IsRead() || s.Write != mode.IsWrite() {
			report(i, "slot flags read=%t write=%t disagree with mode %s", s.Read, s.Write, mode)
		}
	}

	symbolic := formOperands(c.SymbolicForm, c.PrintName)
	resolved, err := c.Resolve(make([]int, n))
	if err != nil {
		report(-1, "resolved form: %v", err)
	} else if got := formOperands(resolved, c.PrintName); got != symbolic || got != n {
		report(-1, "symbolic form has %d operands, resolved form %d, slot count %d",
			symbolic, got, n)
	}

	return issues
}

func bindingKind(read bool) emit.AccessKind {
	if read {
		return emit.Load
	}
	return emit.Zero
}

// formOperands counts the operands of a disassembly form, or returns -1
// when the form does not start with the print name.
func formOperands(form, printName string) int {
	if form == printName {
		return 0
	}

	rest, ok := strings.CutPrefix(form, printName+" ")
	if !ok {
		return -1
	}

	return len(strings.Split(rest, ", "))
}
