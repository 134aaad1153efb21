// Package memory provides a sparse byte-addressable memory image that tracks
// which bytes have been written.
package memory

import (
	"errors"
	"iter"
	"slices"

	"github.com/brouhaha/glacial/translate"
)

var f = translate.From

const DEFAULT_SIZE = 0x10000 // Default memory size in bytes.

var (
	ErrUninitialized   = errors.New(f("memory uninitialized"))
	ErrUpdateAttempted = errors.New(f("write-once memory updated"))
	ErrAddress         = errors.New(f("address out of range"))
)

// Memory is a byte array with a validity flag per byte. Reading a byte that
// was never written is ErrUninitialized, which is distinct from reading a
// written zero.
type Memory struct {
	WriteOnce bool // If set, a valid byte may not be written again.

	data  []byte
	valid []bool
}

// New creates an empty memory of size bytes; zero selects DEFAULT_SIZE.
func New(size int) *Memory {
	if size == 0 {
		size = DEFAULT_SIZE
	}
	return &Memory{
		data:  make([]byte, size),
		valid: make([]bool, size),
	}
}

// FromBytes creates a memory holding data, every byte valid.
func FromBytes(data []byte) *Memory {
	mem := &Memory{
		data:  slices.Clone(data),
		valid: make([]bool, len(data)),
	}
	for n := range mem.valid {
		mem.valid[n] = true
	}
	return mem
}

// Len returns the size of the memory in bytes.
func (mem *Memory) Len() int {
	return len(mem.data)
}

func (mem *Memory) check(addr, n int) error {
	if addr < 0 || n < 0 || addr+n > len(mem.data) {
		return ErrAddress
	}
	return nil
}

// Read returns a copy of n bytes at addr.
func (mem *Memory) Read(addr, n int) (data []byte, err error) {
	err = mem.check(addr, n)
	if err != nil {
		return
	}
	if slices.Contains(mem.valid[addr:addr+n], false) {
		err = ErrUninitialized
		return
	}

	data = slices.Clone(mem.data[addr : addr+n])
	return
}

// Byte returns the byte at addr.
func (mem *Memory) Byte(addr int) (value byte, err error) {
	data, err := mem.Read(addr, 1)
	if err != nil {
		return
	}
	value = data[0]
	return
}

// Write stores data at addr and marks it valid.
func (mem *Memory) Write(addr int, data []byte) (err error) {
	err = mem.check(addr, len(data))
	if err != nil {
		return
	}
	if mem.WriteOnce && slices.Contains(mem.valid[addr:addr+len(data)], true) {
		err = ErrUpdateAttempted
		return
	}

	copy(mem.data[addr:], data)
	for n := range data {
		mem.valid[addr+n] = true
	}
	return
}

// Deinit marks n bytes at addr as uninitialized.
func (mem *Memory) Deinit(addr, n int) (err error) {
	err = mem.check(addr, n)
	if err != nil {
		return
	}
	for i := range n {
		mem.valid[addr+i] = false
		mem.data[addr+i] = 0
	}
	return
}

// ValidBounds returns the range from the first to one past the last valid
// byte. There may be holes in between.
func (mem *Memory) ValidBounds() (first, end int, err error) {
	first = slices.Index(mem.valid, true)
	if first < 0 {
		err = ErrUninitialized
		return 0, 0, err
	}

	end = len(mem.valid)
	for !mem.valid[end-1] {
		end--
	}
	return
}

// NextValidRange returns the first run of valid bytes at or after from, as
// a half-open range.
func (mem *Memory) NextValidRange(from int) (start, end int, err error) {
	if from < 0 {
		from = 0
	}
	if from >= len(mem.valid) {
		err = ErrUninitialized
		return
	}

	offset := slices.Index(mem.valid[from:], true)
	if offset < 0 {
		err = ErrUninitialized
		return
	}
	start = from + offset

	end = start
	for end < len(mem.valid) && mem.valid[end] {
		end++
	}
	return
}

// Ranges iterates over every run of valid bytes with its start address.
func (mem *Memory) Ranges() iter.Seq2[int, []byte] {
	return func(yield func(addr int, data []byte) bool) {
		from := 0
		for {
			start, end, err := mem.NextValidRange(from)
			if err != nil {
				return
			}
			if !yield(start, mem.data[start:end]) {
				return
			}
			from = end
		}
	}
}

// Truncate shrinks the memory to end bytes. A negative end truncates just
// past the last valid byte.
func (mem *Memory) Truncate(end int) (err error) {
	if end < 0 {
		_, end, err = mem.ValidBounds()
		if err != nil {
			return
		}
	}
	if end > len(mem.data) {
		return ErrAddress
	}

	mem.data = mem.data[:end]
	mem.valid = mem.valid[:end]
	return
}

// Interleave merges equally sized memories byte by byte: byte n of mems[i]
// lands at n*len(mems)+i.
func Interleave(mems ...*Memory) (mem *Memory, err error) {
	if len(mems) == 0 {
		return &Memory{}, nil
	}

	size := mems[0].Len()
	for _, m := range mems[1:] {
		if m.Len() != size {
			err = ErrAddress
			return
		}
	}

	count := len(mems)
	mem = &Memory{
		data:  make([]byte, size*count),
		valid: make([]bool, size*count),
	}
	for i, m := range mems {
		for n := range size {
			mem.data[n*count+i] = m.data[n]
			mem.valid[n*count+i] = m.valid[n]
		}
	}

	return
}
