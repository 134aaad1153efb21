// Package disasm converts Glacial machine code back to assembler text.
package disasm

import (
	"fmt"
	"iter"
	"log"

	"github.com/brouhaha/glacial/internal"
	"github.com/brouhaha/glacial/isa"
	"github.com/brouhaha/glacial/memory"
)

// Source supplies the bytes to disassemble. *memory.Memory is a Source.
type Source interface {
	Read(addr, n int) (data []byte, err error)
}

// Line is one disassembled instruction or directive.
type Line struct {
	Address uint16
	Opcode  uint16    // Instruction opcode, or the value of a .byte.
	Size    int       // Bytes covered: 2 for an opcode, 1 for a .byte, 0 for an .org.
	Inst    *isa.Inst // Nil if the opcode is not an instruction.
	Text    string    // Assembler text; a .word directive for a bad opcode.
	Err     error     // Decode error of a bad opcode.
}

// String renders the line as an address, opcode and text listing.
func (line Line) String() string {
	var code string
	switch line.Size {
	case 1:
		code = fmt.Sprintf("%02x", line.Opcode)
	case isa.OPCODE_BYTES:
		code = fmt.Sprintf("%04x", line.Opcode)
	}
	return fmt.Sprintf("%04x: %-4s  %s", line.Address, code, line.Text)
}

// orgLine sets the assembly address.
func orgLine(addr int) Line {
	return Line{
		Address: uint16(addr),
		Text:    fmt.Sprintf(".org 0x%04x", addr),
	}
}

// byteLine holds a byte that is not part of an aligned opcode.
func byteLine(addr int, value byte) Line {
	return Line{
		Address: uint16(addr),
		Opcode:  uint16(value),
		Size:    1,
		Text:    fmt.Sprintf(".byte 0x%02x", value),
	}
}

// Disassembler decodes instructions with an instruction set.
type Disassembler struct {
	Engine  *isa.Engine // Instruction set. If nil, isa.Glacial() is used.
	Verbose bool        // If set, logs undecodable opcodes.
}

func (dis *Disassembler) engine() *isa.Engine {
	if dis.Engine == nil {
		return isa.Glacial()
	}
	return dis.Engine
}

// Instruction disassembles a single opcode at addr.
func (dis *Disassembler) Instruction(addr uint16, opcode uint16) (line Line) {
	line = Line{
		Address: addr,
		Opcode:  opcode,
		Size:    isa.OPCODE_BYTES,
	}

	inst, _, _, err := dis.engine().LookupOpcode(opcode)
	if err == nil {
		line.Text, err = dis.engine().Text(opcode)
	}
	if err != nil {
		if dis.Verbose {
			log.Printf("disasm: %04x: %v", addr, err)
		}
		line.Text = fmt.Sprintf(".word 0x%04x", opcode)
		line.Err = err
		return
	}

	line.Inst = inst
	return
}

// Range disassembles the big-endian instructions from start up to end,
// after an .org line for start. An odd leading or trailing byte becomes a
// .byte line. It stops early at the first byte that can not be read.
func (dis *Disassembler) Range(src Source, start, end int) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		if start >= end {
			return
		}
		if !yield(orgLine(start)) {
			return
		}

		addr := start
		if addr%isa.OPCODE_BYTES != 0 {
			data, err := src.Read(addr, 1)
			if err != nil {
				return
			}
			if !yield(byteLine(addr, data[0])) {
				return
			}
			addr++
		}

		for ; addr+isa.OPCODE_BYTES <= end; addr += isa.OPCODE_BYTES {
			data, err := src.Read(addr, isa.OPCODE_BYTES)
			if err != nil {
				break
			}
			opcode := uint16(data[0])<<8 | uint16(data[1])
			if !yield(dis.Instruction(uint16(addr), opcode)) {
				return
			}
		}

		if addr < end {
			data, err := src.Read(addr, 1)
			if err != nil {
				return
			}
			yield(byteLine(addr, data[0]))
		}
	}
}

// Memory disassembles every valid range of mem in address order.
func (dis *Disassembler) Memory(mem *memory.Memory) iter.Seq[Line] {
	var seqs []iter.Seq[Line]
	for start, data := range mem.Ranges() {
		seqs = append(seqs, dis.Range(mem, start, start+len(data)))
	}
	return internal.IterSeqConcat(seqs...)
}
