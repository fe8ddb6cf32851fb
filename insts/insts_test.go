package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sim8086/insts"
)

var _ = Describe("Insts Package", func() {
	It("should have an Instruction type", func() {
		var i insts.Instruction
		Expect(i).To(BeZero())
	})

	It("should have a Decoder type", func() {
		decoder := insts.NewDecoder()
		Expect(decoder).ToNot(BeNil())
		Expect(decoder.Registry()).To(BeIdenticalTo(insts.DefaultRegistry()))
	})

	Describe("Registers", func() {
		It("should name all 16 registers by W and code", func() {
			names := map[uint8][]string{
				0: {"al", "cl", "dl", "bl", "ah", "ch", "dh", "bh"},
				1: {"ax", "cx", "dx", "bx", "sp", "bp", "si", "di"},
			}
			for w, regs := range names {
				for code, name := range regs {
					Expect(insts.LookupRegister(w, uint8(code)).String()).To(Equal(name))
				}
			}
		})

		It("should mask out-of-range inputs", func() {
			Expect(insts.LookupRegister(0b11, 0b1011)).To(Equal(insts.RegBX))
		})

		It("should report register width", func() {
			Expect(insts.RegAH.Wide()).To(BeFalse())
			Expect(insts.RegSP.Wide()).To(BeTrue())
			Expect(insts.RegNone.Wide()).To(BeFalse())
		})

		It("should pick the accumulator by width", func() {
			Expect(insts.Accumulator(0)).To(Equal(insts.RegAL))
			Expect(insts.Accumulator(1)).To(Equal(insts.RegAX))
		})
	})

	Describe("Effective addresses", func() {
		It("should map RM 0-3 to register pairs", func() {
			Expect(insts.EffectiveAddress(0b000, 0, 0).String()).To(Equal("[bx+si]"))
			Expect(insts.EffectiveAddress(0b001, 0, 0).String()).To(Equal("[bx+di]"))
			Expect(insts.EffectiveAddress(0b010, 0, 0).String()).To(Equal("[bp+si]"))
			Expect(insts.EffectiveAddress(0b011, 0, 0).String()).To(Equal("[bp+di]"))
		})

		It("should map RM 4-7 to single registers", func() {
			Expect(insts.EffectiveAddress(0b100, 0, 0).String()).To(Equal("[si]"))
			Expect(insts.EffectiveAddress(0b101, 0, 0).String()).To(Equal("[di]"))
			Expect(insts.EffectiveAddress(0b110, 0, 0).String()).To(Equal("[bp]"))
			Expect(insts.EffectiveAddress(0b111, 0, 0).String()).To(Equal("[bx]"))
		})

		It("should drop the displacement when no displacement bits are given", func() {
			addr := insts.EffectiveAddress(0b111, 12, 0)
			Expect(addr.Disp).To(BeZero())
			Expect(addr.DispBits).To(BeZero())
		})

		It("should build direct addresses", func() {
			addr := insts.DirectAddress(1000)
			Expect(addr.Direct).To(BeTrue())
			Expect(addr.Base).To(Equal(insts.RegNone))
			Expect(addr.String()).To(Equal("[1000]"))
		})
	})

	Describe("Fields", func() {
		head := insts.Head(0b1000_1011, 0b01_101_110)

		It("should extract first-byte fields", func() {
			Expect(insts.FirstByte(1, 1).Extract(head)).To(Equal(uint8(1)))
			Expect(insts.FirstByte(0, 1).Extract(head)).To(Equal(uint8(1)))
			Expect(insts.FirstByte(2, 6).Extract(head)).To(Equal(uint8(0b100010)))
		})

		It("should extract ModRM fields", func() {
			Expect(insts.ModField.Extract(head)).To(Equal(uint8(0b01)))
			Expect(insts.RegField.Extract(head)).To(Equal(uint8(0b101)))
			Expect(insts.RMField.Extract(head)).To(Equal(uint8(0b110)))
		})

		It("should default absent fields to zero", func() {
			var f insts.Field
			Expect(f.Present()).To(BeFalse())
			Expect(f.Extract(0xffff)).To(BeZero())
		})

		It("should return the constant of a fixed field", func() {
			f := insts.Fixed(1)
			Expect(f.Present()).To(BeTrue())
			Expect(f.InSecondByte()).To(BeFalse())
			Expect(f.Extract(0)).To(Equal(uint8(1)))
		})

		It("should keep every value within the field width", func() {
			for shift := uint8(0); shift < 8; shift++ {
				for width := uint8(1); shift+width <= 8; width++ {
					Expect(insts.SecondByte(shift, width).Extract(0xffff)).To(
						Equal(uint8(1<<width - 1)))
				}
			}
		})

		It("should know which byte a field lives in", func() {
			Expect(insts.RegField.InSecondByte()).To(BeTrue())
			Expect(insts.FirstByte(0, 3).InSecondByte()).To(BeFalse())
		})
	})
})
