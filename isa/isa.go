// Package isa defines the instruction table that drives code generation and
// loads it from YAML.
//
// A table is an ordered list of instruction definitions. The order in which
// instructions appear in the source file is preserved all the way to the
// generated output.
//
// # Input format
//
// The top level of the file is a mapping from instruction name to a record:
//
//	ADD:
//	  implementation: |
//	    rA = rA + rB;
//	  operands: [["rw", ALL_REGISTERS], ["r", ALL_REGISTERS]]
//	  print_name: add
//
// The implementation is an opaque piece of target source. It is never parsed.
package isa

// Field names of an instruction record.
const (
	FieldImplementation = "implementation"
	FieldOperands       = "operands"
	FieldPrintName      = "print_name"
)

// OperandSpec is one raw operand entry, [mode, registerClass].
type OperandSpec struct {
	Mode          string
	RegisterClass string
}

// Definition describes a single instruction.
type Definition struct {
	Name           string
	PrintName      string
	Operands       []OperandSpec
	Implementation string
}

// Table is the ordered set of instruction definitions.
type Table struct {
	Definitions []Definition
}

// Len returns the number of instructions in the table.
func (t *Table) Len() int {
	return len(t.Definitions)
}

// Names returns the instruction names in table order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.Definitions))
	for _, d := range t.Definitions {
		names = append(names, d.Name)
	}
	return names
}

// Loader produces an instruction table.
type Loader interface {
	Load() (*Table, error)
}
