package disasm_test

import (
	"bytes"
	"errors"
	"strings"

	"github.com/go-logr/logr/funcr"
	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"rsc.io/diff"

	"github.com/sarchlab/sim8086/config"
	"github.com/sarchlab/sim8086/disasm"
	"github.com/sarchlab/sim8086/insts"
)

// Single register mov.
var listing37 = []byte{0x89, 0xd9}

// Many register movs.
var listing38 = []byte{
	0x89, 0xd9, 0x88, 0xe5, 0x89, 0xda, 0x89, 0xde, 0x89, 0xfb, 0x88, 0xc8,
	0x88, 0xed, 0x89, 0xc3, 0x89, 0xf3, 0x89, 0xfc, 0x89, 0xc5,
}

const listing38Text = `bits 16

mov cx, bx
mov ch, ah
mov dx, bx
mov si, bx
mov bx, di
mov al, cl
mov ch, ch
mov bx, ax
mov bx, si
mov sp, di
mov bp, ax
`

// More movs: immediates and effective addresses.
var listing39 = []byte{
	0x89, 0xde, 0x88, 0xc6,
	0xb1, 0x0c, 0xb5, 0xf4,
	0xb9, 0x0c, 0x00, 0xb9, 0xf4, 0xff, 0xba, 0x6c, 0x0f, 0xba, 0x94, 0xf0,
	0x8a, 0x00, 0x8b, 0x1b, 0x8b, 0x56, 0x00,
	0x8a, 0x60, 0x04,
	0x8a, 0x80, 0x87, 0x13,
	0x89, 0x09, 0x88, 0x0a, 0x88, 0x6e, 0x00,
}

const listing39Text = `bits 16

mov si, bx
mov dh, al
mov cl, 12
mov ch, -12
mov cx, 12
mov cx, -12
mov dx, 3948
mov dx, -3948
mov al, [bx+si]
mov bx, [bp+di]
mov dx, [bp]
mov ah, [bx+si+4]
mov al, [bx+si+4999]
mov [bx+di], cx
mov [bp+si], cl
mov [bp], ch
`

var _ = Describe("Disassembler", func() {
	var d *disasm.Disassembler

	BeforeEach(func() {
		d = disasm.New()
	})

	listing := func(code []byte) (string, error) {
		var buf bytes.Buffer
		err := d.WriteListing(&buf, code)
		return buf.String(), err
	}

	expectListing := func(code []byte, want string) {
		got, err := listing(code)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(want), "listing differs:\n%s", diff.Format(want, got))
	}

	Describe("Lines", func() {
		It("should yield nothing for an empty buffer", func() {
			count := 0
			for range d.Lines(nil) {
				count++
			}
			Expect(count).To(Equal(0))
		})

		It("should advance by the size of each instruction", func() {
			lines, err := d.Disassemble([]byte{0x89, 0xd9, 0xb9, 0x0c, 0x00, 0x8a, 0x60, 0x04})
			Expect(err).NotTo(HaveOccurred())
			Expect(lines).To(HaveLen(3))

			Expect(lines[0].Offset).To(Equal(0))
			Expect(lines[1].Offset).To(Equal(2))
			Expect(lines[2].Offset).To(Equal(5))

			Expect(lines[1].Bytes).To(Equal([]byte{0xb9, 0x0c, 0x00}))
			Expect(lines[2].Text).To(Equal("mov ah, [bx+si+4]"))
		})

		It("should carry the decoded instruction", func() {
			lines, err := d.Disassemble(listing37)
			Expect(err).NotTo(HaveOccurred())
			Expect(lines).To(HaveLen(1))

			want := insts.Instruction{
				Op:   insts.OpMOV,
				Wide: true,
				Operands: [2]insts.Operand{
					insts.RegisterOperand(insts.RegCX),
					insts.RegisterOperand(insts.RegBX),
				},
				Size: 2,
			}
			Expect(cmp.Diff(want, lines[0].Inst)).To(BeEmpty())
		})

		It("should yield the error as the final element", func() {
			var (
				texts   []string
				lastErr error
				errAt   int
			)
			for line, err := range d.Lines([]byte{0x89, 0xd9, 0x0f, 0x89, 0xd9}) {
				Expect(lastErr).To(BeNil(), "element after the error")
				if err != nil {
					lastErr = err
					errAt = line.Offset
					continue
				}
				texts = append(texts, line.Text)
			}

			Expect(texts).To(Equal([]string{"mov cx, bx"}))
			Expect(errors.Is(lastErr, insts.ErrUnknownOpcode)).To(BeTrue())
			Expect(errAt).To(Equal(2))
		})

		It("should stop decoding when the consumer stops", func() {
			count := 0
			for _, err := range d.Lines([]byte{0x89, 0xd9, 0x0f}) {
				Expect(err).NotTo(HaveOccurred())
				count++
				break
			}
			Expect(count).To(Equal(1))
		})
	})

	Describe("Disassemble", func() {
		It("should return the lines decoded before a truncation", func() {
			lines, err := d.Disassemble([]byte{0x89, 0xd9, 0xb9, 0x0c})
			Expect(lines).To(HaveLen(1))

			var trunc *insts.TruncatedInstructionError
			Expect(errors.As(err, &trunc)).To(BeTrue())
			Expect(trunc.Offset).To(Equal(2))
			Expect(trunc.Available).To(Equal(2))
			Expect(trunc.Required).To(Equal(3))
		})
	})

	Describe("WriteListing", func() {
		It("should reproduce a single register move", func() {
			expectListing(listing37, "bits 16\n\nmov cx, bx\n")
		})

		It("should reproduce a run of register moves", func() {
			expectListing(listing38, listing38Text)
		})

		It("should reproduce immediates and effective addresses", func() {
			expectListing(listing39, listing39Text)
		})

		It("should omit the header when disabled", func() {
			cfg := config.DefaultConfig()
			cfg.Header = false
			d = disasm.New(disasm.WithConfig(cfg))

			expectListing(listing37, "mov cx, bx\n")
		})

		It("should annotate offsets and bytes", func() {
			cfg := config.DefaultConfig()
			cfg.Header = false
			cfg.ShowOffsets = true
			cfg.ShowBytes = true
			d = disasm.New(disasm.WithConfig(cfg))

			expectListing([]byte{0x89, 0xd9, 0xb9, 0xf4, 0xff}, ""+
				"mov cx, bx                  ; 0000: 89 d9\n"+
				"mov cx, -12                 ; 0002: b9 f4 ff\n")
		})

		It("should annotate only bytes", func() {
			cfg := config.DefaultConfig()
			cfg.Header = false
			cfg.ShowBytes = true
			d = disasm.New(disasm.WithConfig(cfg))

			expectListing(listing37, "mov cx, bx                  ; 89 d9\n")
		})

		It("should end with an error line", func() {
			got, err := listing([]byte{0x89, 0xd9, 0x0f})
			Expect(errors.Is(err, insts.ErrUnknownOpcode)).To(BeTrue())

			want := "bits 16\n\nmov cx, bx\n; error: unknown opcode 0x0f at offset 2\n"
			Expect(got).To(Equal(want), "listing differs:\n%s", diff.Format(want, got))
		})

		It("should honor the immediate policy from the config", func() {
			cfg := config.DefaultConfig()
			cfg.Header = false
			cfg.ImmediatePolicy = "unsigned"
			d = disasm.New(disasm.WithConfig(cfg))

			expectListing([]byte{0xb5, 0xf4, 0x83, 0xc0, 0xfe}, "mov ch, 244\nadd ax, -2\n")
		})

		It("should prefer an explicit decoder over the config", func() {
			cfg := config.DefaultConfig()
			cfg.Header = false
			cfg.ImmediatePolicy = "unsigned"
			d = disasm.New(
				disasm.WithConfig(cfg),
				disasm.WithDecoder(insts.NewDecoder()),
			)

			expectListing([]byte{0xb5, 0xf4}, "mov ch, -12\n")
		})

		It("should log decode failures", func() {
			var logged []string
			logger := funcr.New(func(prefix, args string) {
				logged = append(logged, args)
			}, funcr.Options{Verbosity: 1})

			d = disasm.New(disasm.WithLogger(logger))
			_, err := listing([]byte{0x0f})
			Expect(err).To(HaveOccurred())

			Expect(strings.Join(logged, "\n")).To(ContainSubstring("decoding stopped"))
		})

		It("should report success at verbosity 1", func() {
			var logged []string
			logger := funcr.New(func(prefix, args string) {
				logged = append(logged, args)
			}, funcr.Options{Verbosity: 1})

			d = disasm.New(disasm.WithLogger(logger))
			_, err := listing(listing38)
			Expect(err).NotTo(HaveOccurred())

			Expect(logged).To(HaveLen(1))
			Expect(logged[0]).To(ContainSubstring(`"instructions"=11`))
		})
	})

	Describe("FormatLine", func() {
		It("should return the text without annotations", func() {
			line := disasm.Line{Offset: 4, Bytes: []byte{0x89, 0xd9}, Text: "mov cx, bx"}
			Expect(disasm.FormatLine(line, config.DefaultConfig())).To(Equal("mov cx, bx"))
		})

		It("should keep a single space before the comment on long text", func() {
			cfg := config.DefaultConfig()
			cfg.ShowOffsets = true
			line := disasm.Line{Offset: 0x12, Text: "mov word [bp+si-300], -32768"}

			Expect(disasm.FormatLine(line, cfg)).To(Equal("mov word [bp+si-300], -32768 ; 0012"))
		})
	})
})
