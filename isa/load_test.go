package isa_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/isagen/isa"
)

const avrTable = `
SUB:
  implementation: |
    rA = rA - rB;
  operands: [["rw", ALL_REGISTERS], ["r", ALL_REGISTERS]]
  print_name: sub
ADD:
  implementation: |
    rA = rA + rB;
  operands:
    - [rw, ALL_REGISTERS]
    - [r, ALL_REGISTERS]
  print_name: add
NOP:
  implementation: ""
  operands: []
  print_name: nop
`

var _ = Describe("Parse", func() {
	It("should keep the declaration order", func() {
		table, err := isa.Parse([]byte(avrTable))

		Expect(err).NotTo(HaveOccurred())
		Expect(table.Len()).To(Equal(3))
		Expect(table.Names()).To(Equal([]string{"SUB", "ADD", "NOP"}))
	})

	It("should read every field of a record", func() {
		table, err := isa.Parse([]byte(avrTable))
		Expect(err).NotTo(HaveOccurred())

		add := table.Definitions[1]
		Expect(add.Name).To(Equal("ADD"))
		Expect(add.PrintName).To(Equal("add"))
		Expect(add.Implementation).To(Equal("rA = rA + rB;\n"))
		Expect(add.Operands).To(Equal([]isa.OperandSpec{
			{Mode: "rw", RegisterClass: "ALL_REGISTERS"},
			{Mode: "r", RegisterClass: "ALL_REGISTERS"},
		}))
	})

	It("should accept an instruction without operands", func() {
		table, err := isa.Parse([]byte(avrTable))
		Expect(err).NotTo(HaveOccurred())

		Expect(table.Definitions[2].Operands).To(BeEmpty())
		Expect(table.Definitions[2].Implementation).To(BeEmpty())
	})

	It("should follow aliases", func() {
		src := `
MOV:
  implementation: rA = rB;
  operands: [&gp [w, ALL_REGISTERS], *gp]
  print_name: mov
`
		table, err := isa.Parse([]byte(src))

		Expect(err).NotTo(HaveOccurred())
		Expect(table.Definitions[0].Operands).To(HaveLen(2))
		Expect(table.Definitions[0].Operands[1]).To(Equal(isa.OperandSpec{
			Mode:          "w",
			RegisterClass: "ALL_REGISTERS",
		}))
	})

	DescribeTable("merge keys",
		func(src string, want isa.Definition) {
			table, err := isa.Parse([]byte(src))

			Expect(err).NotTo(HaveOccurred())
			Expect(table.Definitions[table.Len()-1]).To(Equal(want))
		},
		Entry("single mapping",
			"ADD: &b {implementation: x, operands: [], print_name: add}\n"+
				"SUB: {<<: *b, print_name: sub}\n",
			isa.Definition{Name: "SUB", PrintName: "sub", Operands: []isa.OperandSpec{}, Implementation: "x"}),
		Entry("explicit key before the merge",
			"ADD: &b {implementation: x, operands: [], print_name: add}\n"+
				"SUB: {print_name: sub, <<: *b}\n",
			isa.Definition{Name: "SUB", PrintName: "sub", Operands: []isa.OperandSpec{}, Implementation: "x"}),
		Entry("list of mappings, earlier wins",
			"ADD: &a {implementation: x, operands: [[r, GP]], print_name: add}\n"+
				"NOP: &n {implementation: y, operands: [], print_name: nop}\n"+
				"MOV: {<<: [*n, *a]}\n",
			isa.Definition{Name: "MOV", PrintName: "nop", Operands: []isa.OperandSpec{}, Implementation: "y"}),
		Entry("chained merges",
			"ADD: &a {implementation: x, operands: [[w, GP]], print_name: add}\n"+
				"SUB: &s {<<: *a, print_name: sub}\n"+
				"CMP: {<<: *s, implementation: z}\n",
			isa.Definition{
				Name:           "CMP",
				PrintName:      "sub",
				Operands:       []isa.OperandSpec{{Mode: "w", RegisterClass: "GP"}},
				Implementation: "z",
			}),
	)

	DescribeTable("malformed input",
		func(src string) {
			_, err := isa.Parse([]byte(src))
			Expect(err).To(MatchError(isa.ErrMalformedInputFile))
		},
		Entry("empty document", ""),
		Entry("not yaml", "ADD: [unterminated"),
		Entry("top level sequence", "- ADD\n- SUB\n"),
		Entry("record is a string", "ADD: add\n"),
		Entry("duplicate name", "ADD: {implementation: a, operands: [], print_name: a}\n"+
			"ADD: {implementation: b, operands: [], print_name: b}\n"),
		Entry("operands not a sequence", "ADD: {implementation: a, operands: r, print_name: a}\n"),
		Entry("operand not a pair", "ADD: {implementation: a, operands: [[r]], print_name: a}\n"),
		Entry("operand with nested entry", "ADD: {implementation: a, operands: [[r, [x]]], print_name: a}\n"),
		Entry("implementation not a string", "ADD: {implementation: [a], operands: [], print_name: a}\n"),
		Entry("merge of a string", "ADD: {<<: a, implementation: a, operands: [], print_name: a}\n"),
		Entry("merge at the top level",
			"ADD: &a {implementation: x, operands: [], print_name: add}\n<<: {SUB: *a}\n"),
	)

	DescribeTable("missing fields",
		func(src, field string) {
			_, err := isa.Parse([]byte(src))

			Expect(err).To(MatchError(isa.ErrMissingField))

			var instErr *isa.InstructionError
			Expect(errors.As(err, &instErr)).To(BeTrue())
			Expect(instErr.Instruction).To(Equal("ADD"))
			Expect(instErr.Field).To(Equal(field))
			Expect(err.Error()).To(ContainSubstring(`"ADD"`))
			Expect(err.Error()).To(ContainSubstring(field))
		},
		Entry("implementation", "ADD: {operands: [], print_name: add}\n", isa.FieldImplementation),
		Entry("operands", "ADD: {implementation: a, print_name: add}\n", isa.FieldOperands),
		Entry("null operands", "ADD: {implementation: a, operands: ~, print_name: add}\n", isa.FieldOperands),
		Entry("print_name", "ADD: {implementation: a, operands: []}\n", isa.FieldPrintName),
	)
})

var _ = Describe("FileLoader", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("should load a table from disk", func() {
		path := filepath.Join(dir, "avr.yaml")
		Expect(os.WriteFile(path, []byte(avrTable), 0o644)).To(Succeed())

		table, err := isa.FileLoader{Path: path}.Load()

		Expect(err).NotTo(HaveOccurred())
		Expect(table.Names()).To(Equal([]string{"SUB", "ADD", "NOP"}))
	})

	It("should report a file that cannot be opened", func() {
		_, err := isa.FileLoader{Path: filepath.Join(dir, "missing.yaml")}.Load()

		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
	})
})
