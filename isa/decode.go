package isa

import (
	"fmt"
	"strings"
)

func opcodeBytes(opcode uint16) []byte {
	return []byte{byte(opcode >> 8), byte(opcode)}
}

// LookupOpcode returns the instruction and form encoding opcode, and the
// value of every field of the form.
func (engine *Engine) LookupOpcode(opcode uint16) (inst *Inst, form *Form, fields map[string]uint64, err error) {
	inst, form, ok := engine.table.Lookup(opcode)
	if !ok {
		err = ErrBadInstruction(opcode)
		return
	}

	fields = form.ExtractFields(opcodeBytes(opcode))

	return
}

// Decode returns the mnemonic, operand signature and field values of opcode.
func (engine *Engine) Decode(opcode uint16) (mnemonic string, operands []OperandType, fields map[string]uint64, err error) {
	inst, form, fields, err := engine.LookupOpcode(opcode)
	if err != nil {
		return
	}

	return inst.Mnemonic, form.Operands, fields, nil
}

// DecodeOperands returns the operands that assemble to opcode.
func (engine *Engine) DecodeOperands(opcode uint16) (inst *Inst, operands []Operand, err error) {
	inst, form, fields, err := engine.LookupOpcode(opcode)
	if err != nil {
		return
	}

	operands = make([]Operand, len(form.Operands))
	for n, ot := range form.Operands {
		value := fields[ot.Field()]
		switch ot.Class() {
		case CLASS_IMM:
			operands[n] = Immediate(value)
		case CLASS_IND:
			operands[n] = Indirect(value)
		case CLASS_POSTINC:
			operands[n] = Postincrement(value)
		case CLASS_COND:
			operands[n] = Condition(value)
		default:
			operands[n] = Numeric(value)
		}
	}

	return
}

// FormatHex formats a value as assembler hex: "12h", "0ffh".
func FormatHex(value uint64) string {
	str := fmt.Sprintf("%xh", value)
	if str[0] >= 'a' && str[0] <= 'f' {
		str = "0" + str
	}
	return str
}

// FormatOperand formats a field value as source text for an operand type.
func FormatOperand(ot OperandType, value uint64) string {
	switch ot {
	case OT_IMM:
		return "#" + FormatHex(value)
	case OT_IND:
		return "@" + IndirectReg(value).String()
	case OT_POSTINC:
		return "@" + IndirectReg(value).String() + "+"
	case OT_COND:
		return Cond(value).String()
	case OT_BIT:
		return fmt.Sprintf("%d", value)
	}
	return FormatHex(value)
}

// Text returns the assembler source text of opcode.
func (engine *Engine) Text(opcode uint16) (text string, err error) {
	mnemonic, operands, fields, err := engine.Decode(opcode)
	if err != nil {
		return
	}

	if len(operands) == 0 {
		return mnemonic, nil
	}

	words := make([]string, len(operands))
	for n, ot := range operands {
		words[n] = FormatOperand(ot, fields[ot.Field()])
	}

	text = mnemonic + " " + strings.Join(words, ", ")

	return
}
