package isa

import (
	"math/bits"
)

// BitField is a named field of an instruction pattern. Its bits may be
// scattered over several bytes; Mask has one byte per instruction byte.
type BitField struct {
	Width int    // Number of bits in the field.
	Mask  []byte // Bits of each instruction byte owned by the field.
}

func (bf *BitField) pad(length int) {
	for len(bf.Mask) < length {
		bf.Mask = append(bf.Mask, 0)
	}
}

func (bf *BitField) append(mask byte) {
	bf.Mask = append(bf.Mask, mask)
	bf.Width += bits.OnesCount8(mask)
}

// Insert stores value into the field bits of code. The least significant
// bit of value lands in the least significant bit of the field. A value
// wider than the field is ErrOperandOutOfRange; code may then be partially
// updated.
func (bf *BitField) Insert(code []byte, value uint64) (err error) {
	for i := len(bf.Mask) - 1; i >= 0; i-- {
		for n := range 8 {
			bit := byte(1) << n
			if bf.Mask[i]&bit == 0 {
				continue
			}
			if value&1 == 1 {
				code[i] |= bit
			} else {
				code[i] &^= bit
			}
			value >>= 1
		}
	}

	if value != 0 {
		err = ErrOperandOutOfRange
	}

	return
}

// Extract returns the value of the field in code, reading the field bits
// from the most significant instruction bit down.
func (bf *BitField) Extract(code []byte) (value uint64) {
	for i, mask := range bf.Mask {
		for n := 7; n >= 0; n-- {
			bit := byte(1) << n
			if mask&bit == 0 {
				continue
			}
			value <<= 1
			if code[i]&bit != 0 {
				value |= 1
			}
		}
	}

	return
}

// Max returns the largest value the field can hold.
func (bf *BitField) Max() uint64 {
	return (uint64(1) << bf.Width) - 1
}
