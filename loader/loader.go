// Package loader extracts the loadable segments of an ELF executable.
package loader

import (
	"debug/elf"
	"errors"
	"io"
	"log"
	"slices"

	"github.com/brouhaha/glacial/memory"
	"github.com/brouhaha/glacial/translate"
)

var f = translate.From

var (
	ErrNotExecutable = errors.New(f("not an executable ELF file"))
	ErrMachine       = errors.New(f("ELF machine mismatch"))
)

// Segment is the file contents of one loadable program header.
type Segment struct {
	Addr uint64 // Physical load address.
	Data []byte // File bytes of the segment.
}

// End returns one past the last address of the segment.
func (seg *Segment) End() uint64 {
	return seg.Addr + uint64(len(seg.Data))
}

// Image is the loadable content of an executable, in address order.
type Image struct {
	Entry    uint64
	Segments []*Segment
}

// Loader reads ELF executables.
type Loader struct {
	Verbose bool // If set, logs skipped and loaded program headers.
}

// Load reads an executable for the given machine with a default Loader.
func Load(r io.ReaderAt, machine elf.Machine) (image *Image, err error) {
	return (&Loader{}).Load(r, machine)
}

// Load reads the PT_LOAD segments of an executable. Segments with no file
// contents are dropped.
func (ld *Loader) Load(r io.ReaderAt, machine elf.Machine) (image *Image, err error) {
	file, err := elf.NewFile(r)
	if err != nil {
		return
	}
	defer file.Close()

	if file.Type != elf.ET_EXEC {
		err = ErrNotExecutable
		return
	}
	if file.Machine != machine {
		err = ErrMachine
		return
	}

	progs := make([]*elf.Prog, 0, len(file.Progs))
	for _, prog := range file.Progs {
		if prog.Type != elf.PT_LOAD {
			if ld.Verbose {
				log.Printf("loader: skipping program header type %v", prog.Type)
			}
			continue
		}
		if prog.Filesz == 0 {
			continue
		}
		progs = append(progs, prog)
	}
	slices.SortStableFunc(progs, func(a, b *elf.Prog) int {
		switch {
		case a.Paddr < b.Paddr:
			return -1
		case a.Paddr > b.Paddr:
			return 1
		}
		return 0
	})

	image = &Image{Entry: file.Entry}
	for _, prog := range progs {
		data := make([]byte, prog.Filesz)
		_, err = io.ReadFull(prog.Open(), data)
		if err != nil {
			return nil, err
		}
		seg := &Segment{Addr: prog.Paddr, Data: data}
		if ld.Verbose {
			log.Printf("loader: segment 0x%08x:0x%08x", seg.Addr, seg.End()-1)
		}
		image.Segments = append(image.Segments, seg)
	}

	return
}

// Find returns the segment holding addr, or nil.
func (image *Image) Find(addr uint64) *Segment {
	for _, seg := range image.Segments {
		if addr >= seg.Addr && addr < seg.End() {
			return seg
		}
	}
	return nil
}

// Memory copies every segment into a new memory of the given size.
func (image *Image) Memory(size int) (mem *memory.Memory, err error) {
	mem = memory.New(size)
	for _, seg := range image.Segments {
		if seg.End() > uint64(mem.Len()) {
			return nil, memory.ErrAddress
		}
		err = mem.Write(int(seg.Addr), seg.Data)
		if err != nil {
			return nil, err
		}
	}
	return
}
