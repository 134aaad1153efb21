package isa

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Form is one encoding of an instruction: an operand type signature and the
// bit pattern the operands are packed into.
type Form struct {
	Operands []OperandType        // Operand types, in assembly order.
	Encoding string               // Source bit pattern.
	Bits     []byte               // Fixed bit values.
	Mask     []byte               // Mask of the fixed bits.
	Fields   map[string]*BitField // Fields by name.

	scale map[string]uint64
}

// NewForm parses an encoding pattern and binds it to an operand signature.
// Every bit of the pattern must belong to exactly one of the fixed mask or a
// single field, and operand types and fields must pair up one to one.
func NewForm(encoding string, operands ...OperandType) (form *Form, err error) {
	bits, mask, fields, err := ParseEncoding(encoding)
	if err != nil {
		return
	}

	form = &Form{
		Operands: slices.Clone(operands),
		Encoding: encoding,
		Bits:     bits,
		Mask:     mask,
		Fields:   fields,
		scale:    map[string]uint64{},
	}

	for i := range bits {
		owned := mask[i]
		for _, bf := range fields {
			if owned&bf.Mask[i] != 0 {
				err = &ErrPattern{Pattern: encoding, Reason: f("byte %d bits owned twice", i)}
				return nil, err
			}
			owned |= bf.Mask[i]
		}
		if owned != 0xff {
			err = &ErrPattern{Pattern: encoding, Reason: f("byte %d bits unowned", i)}
			return nil, err
		}
	}

	for _, ot := range operands {
		name := ot.Field()
		if _, ok := fields[name]; !ok {
			err = &ErrPattern{Pattern: encoding, Reason: f("no field %q for %v operand", name, ot)}
			return nil, err
		}
		if _, dup := form.scale[name]; dup {
			err = &ErrPattern{Pattern: encoding, Reason: f("field %q used twice", name)}
			return nil, err
		}
		form.scale[name] = ot.Scale()
	}

	for _, name := range slices.Sorted(maps.Keys(fields)) {
		if _, ok := form.scale[name]; !ok {
			err = &ErrPattern{Pattern: encoding, Reason: f("field %q has no operand", name)}
			return nil, err
		}
	}

	return
}

// MustForm is NewForm for static catalogs; a bad pattern panics.
func MustForm(encoding string, operands ...OperandType) *Form {
	form, err := NewForm(encoding, operands...)
	if err != nil {
		panic(err)
	}
	return form
}

// Len returns the instruction length in bytes.
func (form *Form) Len() int {
	return len(form.Bits)
}

// Opcode returns the fixed bits and their mask as big-endian integers.
func (form *Form) Opcode() (bits, mask uint64) {
	for i := range form.Bits {
		bits = (bits << 8) | uint64(form.Bits[i])
		mask = (mask << 8) | uint64(form.Mask[i])
	}
	return
}

// Matches returns true if the form's operand signature has the given
// operand classes.
func (form *Form) Matches(classes ...OperandClass) bool {
	if len(classes) != len(form.Operands) {
		return false
	}
	for n, ot := range form.Operands {
		if ot.Class() != classes[n] {
			return false
		}
	}
	return true
}

// insert stores an operand value into the named field of code, dividing a
// scaled field by its scale first.
func (form *Form) insert(code []byte, name string, value uint64) (err error) {
	bf, ok := form.Fields[name]
	if !ok {
		return ErrFieldMismatch
	}
	if scale, ok := form.scale[name]; ok && scale > 1 {
		if value%scale != 0 {
			return ErrOperandOutOfRange
		}
		value /= scale
	}
	return bf.Insert(code, value)
}

// InsertFields builds an instruction from the fixed bits and a value for
// each field. The value names must be exactly the form's field names.
func (form *Form) InsertFields(values map[string]uint64) (code []byte, err error) {
	if len(values) != len(form.Fields) {
		err = ErrFieldMismatch
		return
	}

	code = slices.Clone(form.Bits)
	for _, name := range slices.Sorted(maps.Keys(values)) {
		err = form.insert(code, name, values[name])
		if err != nil {
			code = nil
			return
		}
	}

	return
}

// ExtractFields returns the value of every field of the form in code.
func (form *Form) ExtractFields(code []byte) (values map[string]uint64) {
	values = make(map[string]uint64, len(form.Fields))
	for name, bf := range form.Fields {
		value := bf.Extract(code)
		if scale, ok := form.scale[name]; ok {
			value *= scale
		}
		values[name] = value
	}
	return
}

// String returns the operand signature and pattern of the form.
func (form *Form) String() string {
	names := make([]string, len(form.Operands))
	for n, ot := range form.Operands {
		names[n] = ot.String()
	}
	return fmt.Sprintf("(%v) %v", strings.Join(names, ", "), form.Encoding)
}
