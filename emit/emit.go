// Package emit turns instruction definitions into C++ instruction classes.
//
// Generation is split in two phases. Generate builds one Class per
// definition, in table order, without touching any output. Write then
// serializes the classes in one go.
package emit

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/isagen/isa"
	"github.com/sarchlab/isagen/operand"
)

// Builder can create new emitters.
type Builder struct {
	target Target
	source string
}

// NewBuilder returns a builder for the AVR target.
func NewBuilder() Builder {
	return Builder{
		target: AVR,
		source: "instructions.yaml",
	}
}

// WithTarget sets the target runtime.
func (b Builder) WithTarget(target Target) Builder {
	b.target = target
	return b
}

// WithSource sets the input name recorded in the generated banner.
func (b Builder) WithSource(name string) Builder {
	b.source = name
	return b
}

// Build creates an emitter.
func (b Builder) Build() *Emitter {
	return &Emitter{
		target: b.target,
		source: b.source,
	}
}

// Emitter generates instruction classes for one target.
type Emitter struct {
	target Target
	source string
}

// Target returns the target the emitter writes for.
func (e *Emitter) Target() Target {
	return e.target
}

// Generate builds the classes of every definition in table order. It stops
// at the first failing definition.
func (e *Emitter) Generate(table *isa.Table) ([]*Class, error) {
	classes := make([]*Class, 0, table.Len())

	for _, def := range table.Definitions {
		c, err := e.Class(def)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}

	return classes, nil
}

// Class builds the class of a single definition.
func (e *Emitter) Class(def isa.Definition) (*Class, error) {
	descs, err := operand.Resolve(def.Operands)
	if err != nil {
		return nil, isa.NewInstructionError(def.Name, isa.FieldOperands, err)
	}

	for _, d := range descs {
		if err := e.target.ValidateRegisterClass(d.RegisterClass); err != nil {
			return nil, isa.NewInstructionError(def.Name, isa.FieldOperands,
				fmt.Errorf("operand %d: %w", d.Index, err))
		}
	}

	prologue, epilogue := synthesizeAccess(descs)

	c := &Class{
		Name:      def.Name,
		ClassName: e.target.ClassName(def.Name),
		PrintName: def.PrintName,
		Operands:  descs,
		Prologue:  prologue,
		Body:      def.Implementation,
		Epilogue:  epilogue,
		Slots:     synthesizeSlots(descs),
	}

	c.SymbolicForm = symbolicForm(def.PrintName, descs)
	c.ResolvedForm = e.target.resolvedFormExpr(def.PrintName, len(descs))

	c.ExecuteRoutine, err = render(executeTemplate, executeView{
		Target:    e.target,
		Prologue:  e.statements(prologue),
		Body:      bodyFragment(def.Implementation),
		Epilogue:  e.statements(epilogue),
		SlotCount: c.SlotCount(),
	})
	if err != nil {
		return nil, isa.NewInstructionError(def.Name, "", err)
	}

	slotExprs := make([]string, 0, len(c.Slots))
	for _, s := range c.Slots {
		slotExprs = append(slotExprs, e.target.SlotExpr(s))
	}

	c.SlotList, err = render(slotListTemplate, slotListView{
		Target: e.target,
		Slots:  slotExprs,
	})
	if err != nil {
		return nil, isa.NewInstructionError(def.Name, "", err)
	}

	return c, nil
}

// Write serializes the banner and every class, in the given order. Nothing
// reaches w unless all classes rendered.
func (e *Emitter) Write(w io.Writer, classes []*Class) error {
	var buf bytes.Buffer

	banner, err := render(bannerTemplate, e.source)
	if err != nil {
		return err
	}
	buf.WriteString(banner)

	for _, c := range classes {
		text, err := render(classTemplate, classView{Class: c, Target: e.target})
		if err != nil {
			return fmt.Errorf("instruction %q: %w", c.Name, err)
		}
		buf.WriteByte('\n')
		buf.WriteString(text)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

func (e *Emitter) statements(accesses []Access) []string {
	lines := make([]string, 0, len(accesses))
	for _, a := range accesses {
		lines = append(lines, e.target.Statement(a))
	}
	return lines
}

// bodyFragment places the body on lines of its own. The text itself is
// passed through untouched.
func bodyFragment(body string) string {
	if body == "" || strings.HasSuffix(body, "\n") {
		return body
	}
	return body + "\n"
}
