// Package ihex reads and writes Intel hex images of a memory.Memory.
package ihex

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/brouhaha/glacial/memory"
	"github.com/brouhaha/glacial/translate"
)

var f = translate.From

const (
	RECORD_DATA = 0x00 // Data record.
	RECORD_EOF  = 0x01 // End of file record, carrying the entry address.

	DEFAULT_PER_LINE = 16 // Default data bytes per record.
)

var (
	ErrDiscontiguous = errors.New(f("address decreasing"))
	ErrRecord        = errors.New(f("record malformed"))
)

// ErrChecksum is a record whose checksum does not match its contents.
type ErrChecksum struct {
	Record int
}

func (err *ErrChecksum) Error() string {
	return f("bad checksum for record #%d", err.Record)
}

// ErrRecordType is a record of a type other than data or end of file.
type ErrRecordType struct {
	Record int
	Type   byte
}

func (err *ErrRecordType) Error() string {
	return f("unknown record type %02x for record #%d", err.Type, err.Record)
}

func checksum(raw []byte) byte {
	var sum byte
	for _, b := range raw {
		sum += b
	}
	return -sum
}

type reader struct {
	in     *bufio.Reader
	record int
}

func (rd *reader) bytes(count int) (data []byte, err error) {
	text := make([]byte, 2*count)
	_, err = io.ReadFull(rd.in, text)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			err = ErrRecord
		}
		return
	}
	data = make([]byte, count)
	_, err = hex.Decode(data, text)
	if err != nil {
		err = ErrRecord
	}
	return
}

// next reads the record after the next ':'. It returns io.EOF when the
// input holds no more records.
func (rd *reader) next() (rec_type byte, addr uint16, data []byte, err error) {
	for {
		var c byte
		c, err = rd.in.ReadByte()
		if err != nil {
			return
		}
		if c == ':' {
			break
		}
	}
	rd.record++

	header, err := rd.bytes(4)
	if err != nil {
		return
	}
	addr = uint16(header[1])<<8 | uint16(header[2])
	rec_type = header[3]

	data, err = rd.bytes(int(header[0]))
	if err != nil {
		return
	}

	sum, err := rd.bytes(1)
	if err != nil {
		return
	}
	if checksum(append(header, data...)) != sum[0] {
		err = &ErrChecksum{Record: rd.record}
	}

	return
}

// Read loads an Intel hex image into mem and returns the memory and the
// entry address from the end of file record. If mem is nil a 64 KiB memory
// is allocated and truncated after the last byte loaded.
func Read(in io.Reader, mem *memory.Memory) (out *memory.Memory, entry uint16, err error) {
	out = mem
	if out == nil {
		out = memory.New(memory.DEFAULT_SIZE)
	}

	rd := &reader{in: bufio.NewReader(in)}
	load := 0
	for {
		var rec_type byte
		var addr uint16
		var data []byte
		rec_type, addr, data, err = rd.next()
		if errors.Is(err, io.EOF) {
			err = nil
			break
		}
		if err != nil {
			return nil, 0, err
		}

		if rec_type == RECORD_EOF {
			entry = addr
			break
		}
		if rec_type != RECORD_DATA {
			err = &ErrRecordType{Record: rd.record, Type: rec_type}
			return nil, 0, err
		}

		if int(addr) < load {
			return nil, 0, ErrDiscontiguous
		}
		err = out.Write(int(addr), data)
		if err != nil {
			return nil, 0, err
		}
		load = int(addr) + len(data)
	}

	if mem == nil {
		err = out.Truncate(-1)
		if errors.Is(err, memory.ErrUninitialized) {
			err = out.Truncate(0)
		}
	}

	return
}

func writeRecord(out io.Writer, addr uint16, rec_type byte, data []byte) (err error) {
	raw := append([]byte{byte(len(data)), byte(addr >> 8), byte(addr), rec_type}, data...)
	raw = append(raw, checksum(raw))
	_, err = fmt.Fprintf(out, ":%s\n", hex.EncodeToString(raw))
	return
}

// Write saves every valid range of mem as data records of up to perLine
// bytes, followed by an end of file record holding entry. A perLine of
// zero selects DEFAULT_PER_LINE.
func Write(out io.Writer, mem *memory.Memory, entry uint16, perLine int) (err error) {
	if perLine <= 0 {
		perLine = DEFAULT_PER_LINE
	}

	for start, data := range mem.Ranges() {
		for len(data) > 0 {
			n := min(perLine, len(data))
			err = writeRecord(out, uint16(start), RECORD_DATA, data[:n])
			if err != nil {
				return
			}
			start += n
			data = data[n:]
		}
	}

	return writeRecord(out, entry, RECORD_EOF, nil)
}
