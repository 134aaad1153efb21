package isa

import (
	"strings"
)

// parseByte parses one 8 character block of a pattern, most significant bit
// first.
func parseByte(block string, second bool) (bits, mask byte, fields map[string]byte) {
	fields = map[string]byte{}
	for n := range 8 {
		bit := byte(1) << (7 - n)
		switch c := block[n]; c {
		case '0':
			mask |= bit
		case '1':
			bits |= bit
			mask |= bit
		default:
			name := string(c)
			if second {
				name += "2"
			}
			fields[name] |= bit
		}
	}
	return
}

// ParseEncoding parses a textual bit pattern into its fixed bits, the mask
// of fixed bits, and its fields. Spaces are ignored. A '/' marks the start of
// a second set of fields: a letter after it names a distinct field, stored
// with a "2" suffix.
func ParseEncoding(pattern string) (bits, mask []byte, fields map[string]*BitField, err error) {
	text := strings.ReplaceAll(pattern, " ", "")
	if len(text) == 0 {
		err = &ErrPattern{Pattern: pattern, Reason: f("empty")}
		return
	}

	fields = map[string]*BitField{}
	second := false
	for len(text) > 0 {
		if text[0] == '/' {
			text = text[1:]
			second = true
			continue
		}
		if len(text) < 8 || strings.Contains(text[:8], "/") {
			err = &ErrPattern{Pattern: pattern, Reason: f("byte %d is not 8 bits", len(bits))}
			return
		}

		b, m, byte_fields := parseByte(text[:8], second)
		text = text[8:]

		for name, field_mask := range byte_fields {
			bf, ok := fields[name]
			if !ok {
				bf = &BitField{}
				fields[name] = bf
			}
			bf.pad(len(bits))
			bf.append(field_mask)
		}

		bits = append(bits, b)
		mask = append(mask, m)
	}

	for _, bf := range fields {
		bf.pad(len(bits))
	}

	return
}
