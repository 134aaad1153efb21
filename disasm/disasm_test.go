package disasm_test

import (
	"slices"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/brouhaha/glacial/asm"
	"github.com/brouhaha/glacial/disasm"
	"github.com/brouhaha/glacial/isa"
	"github.com/brouhaha/glacial/memory"
)

func texts(lines []disasm.Line) (out []string) {
	for _, line := range lines {
		out = append(out, line.String())
	}
	return
}

var _ = Describe("Disassembler", func() {
	var dis *disasm.Disassembler

	BeforeEach(func() {
		dis = &disasm.Disassembler{}
	})

	Describe("Instruction", func() {
		// load #12h -> 0x4012
		It("should decode an immediate load", func() {
			line := dis.Instruction(0x100, 0x4012)

			Expect(line.Err).NotTo(HaveOccurred())
			Expect(line.Inst).NotTo(BeNil())
			Expect(line.Inst.Mnemonic).To(Equal("load"))
			Expect(line.Text).To(Equal("load #12h"))
			Expect(line.String()).To(Equal("0100: 4012  load #12h"))
		})

		// br eq, 124h -> 0xc892
		It("should decode a branch with a scaled target", func() {
			line := dis.Instruction(0, 0xc892)

			Expect(line.Err).NotTo(HaveOccurred())
			Expect(line.Text).To(Equal("br eq, 124h"))
		})

		// store @x with a stray register bit -> 0x2080
		It("should render a bad opcode as a .word", func() {
			line := dis.Instruction(0x20, 0x2080)

			Expect(line.Err).To(MatchError(isa.ErrBadInstruction(0x2080)))
			Expect(line.Inst).To(BeNil())
			Expect(line.Text).To(Equal(".word 0x2080"))
			Expect(line.String()).To(Equal("0020: 2080  .word 0x2080"))
		})

		It("should use a custom engine", func() {
			engine, err := isa.NewEngine(isa.NewInst("nop", isa.MustForm("00000000 00000000")))
			Expect(err).NotTo(HaveOccurred())
			dis.Engine = engine

			Expect(dis.Instruction(0, 0x0000).Text).To(Equal("nop"))
			Expect(dis.Instruction(0, 0x0123).Err).To(HaveOccurred())
		})
	})

	Describe("Range", func() {
		var mem *memory.Memory

		BeforeEach(func() {
			mem = memory.New(0x20)
			Expect(mem.Write(0x10, []byte{
				0x01, 0x23, // opr 123h
				0x11, 0x00, // bad
				0x30, 0x01, // store @y+
				0x9b, 0x10, // skb 10h, 3, 1h
				0x87, // half an instruction
			})).To(Succeed())
		})

		It("should continue past bad instructions and stop at the end", func() {
			lines := slices.Collect(dis.Range(mem, 0x10, 0x19))

			Expect(texts(lines)).To(Equal([]string{
				"0010:       .org 0x0010",
				"0010: 0123  opr 123h",
				"0012: 1100  .word 0x1100",
				"0014: 3001  store @y+",
				"0016: 9b10  skb 10h, 3, 1h",
				"0018: 87    .byte 0x87",
			}))
			Expect(lines[2].Err).To(MatchError(isa.ErrBadInstruction(0x1100)))
			Expect(lines[5].Size).To(Equal(1))
			Expect(lines[5].Inst).To(BeNil())
		})

		It("should stop at uninitialized memory", func() {
			lines := slices.Collect(dis.Range(mem, 0x14, 0x20))

			Expect(lines).To(HaveLen(4))
			Expect(lines[2].Address).To(Equal(uint16(0x16)))
			Expect(lines[3].Text).To(Equal(".byte 0x87"))
		})

		It("should emit an odd leading byte as a .byte", func() {
			lines := slices.Collect(dis.Range(mem, 0x11, 0x16))

			Expect(texts(lines)).To(Equal([]string{
				"0011:       .org 0x0011",
				"0011: 23    .byte 0x23",
				"0012: 1100  .word 0x1100",
				"0014: 3001  store @y+",
			}))
		})

		It("should honor an early break", func() {
			count := 0
			for range dis.Range(mem, 0x10, 0x18) {
				count++
				break
			}
			Expect(count).To(Equal(1))
		})

		It("should decode nothing for an empty range", func() {
			Expect(slices.Collect(dis.Range(mem, 0x10, 0x10))).To(BeEmpty())
			Expect(texts(slices.Collect(dis.Range(mem, 0x10, 0x11)))).To(Equal([]string{
				"0010:       .org 0x0010",
				"0010: 01    .byte 0x01",
			}))
		})
	})

	Describe("Memory", func() {
		It("should walk every valid range", func() {
			mem := memory.New(0x100)
			Expect(mem.Write(0x00, []byte{0x40, 0x01})).To(Succeed())
			Expect(mem.Write(0x80, []byte{0x80, 0x00, 0xf8, 0x00})).To(Succeed())

			Expect(texts(slices.Collect(dis.Memory(mem)))).To(Equal([]string{
				"0000:       .org 0x0000",
				"0000: 4001  load #1h",
				"0080:       .org 0x0080",
				"0080: 8000  jump 0h",
				"0082: f800  br tick, 0h",
			}))
		})

		It("should keep odd bytes at the edges of a range", func() {
			mem := memory.New(0x100)
			Expect(mem.Write(0x41, []byte{0xaa, 0x40, 0x01, 0xbb})).To(Succeed())

			Expect(texts(slices.Collect(dis.Memory(mem)))).To(Equal([]string{
				"0041:       .org 0x0041",
				"0041: aa    .byte 0xaa",
				"0042: 4001  load #1h",
				"0044: bb    .byte 0xbb",
			}))
		})

		It("should reassemble to the same bytes", func() {
			source := `
	.org 40h
	load #-1
	store @x+
	and 12h
	skb @y, 5, 1
	br nz, 40h
	call 100h
	.word 2080h
	adc #7
	.org 81h
	.byte 9
	opr 1
	.byte 7
`
			prog, err := (&asm.Assembler{}).Parse(strings.NewReader(source))
			Expect(err).NotTo(HaveOccurred())
			mem, err := prog.Memory()
			Expect(err).NotTo(HaveOccurred())

			var text []string
			for line := range dis.Memory(mem) {
				text = append(text, line.Text)
			}
			Expect(text[0]).To(Equal(".org 0x0040"))
			Expect(text[7]).To(Equal(".word 0x2080"))
			Expect(text[9:]).To(Equal([]string{".org 0x0081", ".byte 0x09", "opr 1h", ".byte 0x07"}))

			again, err := (&asm.Assembler{}).Parse(strings.NewReader(strings.Join(text, "\n")))
			Expect(err).NotTo(HaveOccurred())
			mem2, err := again.Memory()
			Expect(err).NotTo(HaveOccurred())

			Expect(slices.Collect(dis.Memory(mem2))).To(Equal(slices.Collect(dis.Memory(mem))))
		})
	})
})
