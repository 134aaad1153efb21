package asm

import (
	"errors"
	"iter"

	"github.com/brouhaha/glacial/memory"
)

// Line is the output of one source line that generated bytes.
type Line struct {
	LineNo  int      // Source line number.
	Address uint16   // Address of the first byte.
	Words   []string // Mnemonic or directive, followed by its operands.
	Bytes   []byte   // Generated bytes.
}

// Program is the result of an assembly, in source order.
type Program struct {
	Lines []Line
}

// Debug maps an address back to the line that generated it.
type Debug struct {
	*Line
	Index int // Byte offset of the address within the line.
}

// Debug returns the line that generated addr. The Line is nil if no line
// covers addr.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, line := range prog.Lines {
		if int(addr) >= int(line.Address) && int(addr) < int(line.Address)+len(line.Bytes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: int(addr - line.Address),
			}
			break
		}
	}

	return
}

// Bytes iterates over every generated byte with its address.
func (prog *Program) Bytes() iter.Seq2[uint16, byte] {
	return func(yield func(addr uint16, value byte) bool) {
		for _, line := range prog.Lines {
			for n, value := range line.Bytes {
				if !yield(line.Address+uint16(n), value) {
					return
				}
			}
		}
	}
}

// Store writes the program into mem.
func (prog *Program) Store(mem *memory.Memory) (err error) {
	for _, line := range prog.Lines {
		err = mem.Write(int(line.Address), line.Bytes)
		if err != nil {
			return
		}
	}
	return
}

// Memory returns a write-once memory holding the program, so overlapping
// lines are an error. The memory ends after the highest generated byte.
func (prog *Program) Memory() (mem *memory.Memory, err error) {
	mem = memory.New(memory.DEFAULT_SIZE)
	mem.WriteOnce = true

	err = prog.Store(mem)
	if err != nil {
		return nil, err
	}

	err = mem.Truncate(-1)
	if errors.Is(err, memory.ErrUninitialized) {
		err = mem.Truncate(0)
	}
	if err != nil {
		return nil, err
	}

	return
}
