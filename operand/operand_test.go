package operand_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/isagen/isa"
	"github.com/sarchlab/isagen/operand"
)

var _ = Describe("ParseMode", func() {
	DescribeTable("valid tokens",
		func(token string, read, write bool) {
			m, err := operand.ParseMode(token)

			Expect(err).NotTo(HaveOccurred())
			Expect(m.IsRead()).To(Equal(read))
			Expect(m.IsWrite()).To(Equal(write))
		},
		Entry("read", "r", true, false),
		Entry("write", "w", false, true),
		Entry("read write", "rw", true, true),
		Entry("write read", "wr", true, true),
		Entry("repeated marker", "rr", true, false),
		Entry("other characters", "rx", true, false),
		Entry("word", "read", true, false),
		Entry("trailing space", "rw ", true, true),
		Entry("write word", "write", true, true),
	)

	DescribeTable("invalid tokens",
		func(token string) {
			_, err := operand.ParseMode(token)

			Expect(err).To(MatchError(isa.ErrInvalidOperandAccessMode))
		},
		Entry("empty", ""),
		Entry("no marker", "x"),
		Entry("upper case", "RW"),
		Entry("space", " "),
	)

	It("should print modes compactly", func() {
		Expect(operand.Read.String()).To(Equal("r"))
		Expect(operand.Write.String()).To(Equal("w"))
		Expect((operand.Read | operand.Write).String()).To(Equal("rw"))
		Expect(operand.AccessMode(0).String()).To(Equal("-"))
	})
})

var _ = Describe("Ident", func() {
	It("should use one letter for the first 26 operands", func() {
		Expect(operand.Ident(0)).To(Equal("A"))
		Expect(operand.Ident(1)).To(Equal("B"))
		Expect(operand.Ident(25)).To(Equal("Z"))
	})

	It("should continue with two letters", func() {
		Expect(operand.Ident(26)).To(Equal("AA"))
		Expect(operand.Ident(27)).To(Equal("AB"))
		Expect(operand.Ident(51)).To(Equal("AZ"))
		Expect(operand.Ident(52)).To(Equal("BA"))
		Expect(operand.Ident(701)).To(Equal("ZZ"))
		Expect(operand.Ident(702)).To(Equal("AAA"))
	})

	It("should never repeat an identifier", func() {
		seen := make(map[string]bool)
		for i := 0; i < 2000; i++ {
			id := operand.Ident(i)
			Expect(seen).NotTo(HaveKey(id))
			seen[id] = true
		}
	})

	It("should panic on a negative index", func() {
		Expect(func() { operand.Ident(-1) }).To(Panic())
	})
})

var _ = Describe("Resolve", func() {
	It("should classify operands in declared order", func() {
		descs, err := operand.Resolve([]isa.OperandSpec{
			{Mode: "rw", RegisterClass: "GP"},
			{Mode: "r", RegisterClass: "GP"},
			{Mode: "w", RegisterClass: "HI"},
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(descs).To(HaveLen(3))

		Expect(descs[0].Index).To(Equal(0))
		Expect(descs[0].Ident).To(Equal("A"))
		Expect(descs[0].Local()).To(Equal("rA"))
		Expect(descs[0].Symbol()).To(Equal("S1"))
		Expect(descs[0].Mode).To(Equal(operand.Read | operand.Write))

		Expect(descs[1].Ident).To(Equal("B"))
		Expect(descs[1].Mode).To(Equal(operand.Read))

		Expect(descs[2].Ident).To(Equal("C"))
		Expect(descs[2].Mode).To(Equal(operand.Write))
		Expect(descs[2].RegisterClass).To(Equal("HI"))
		Expect(descs[2].String()).To(Equal("C:w:HI"))
	})

	It("should name the offending operand", func() {
		_, err := operand.Resolve([]isa.OperandSpec{
			{Mode: "r", RegisterClass: "GP"},
			{Mode: "x", RegisterClass: "GP"},
		})

		Expect(err).To(MatchError(isa.ErrInvalidOperandAccessMode))
		Expect(err.Error()).To(HavePrefix("operand 1: "))
	})

	It("should resolve an empty operand list", func() {
		descs, err := operand.Resolve(nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(descs).To(BeEmpty())
	})
})
