package isa

import (
	"slices"
)

// Assemble encodes an instruction from its mnemonic and operands.
//
// The program counter is reserved: all Glacial addressing is absolute.
// Field values are unsigned; a negative Numeric or Immediate is out of
// range, so signed immediates must be masked to the field width first.
func (engine *Engine) Assemble(pc uint16, mnemonic string, operands ...Operand) (code []byte, err error) {
	inst, err := engine.LookupMnemonic(mnemonic)
	if err != nil {
		return
	}

	return engine.AssembleInst(pc, inst, operands...)
}

// AssembleInst encodes an instruction already looked up with
// LookupMnemonic.
func (engine *Engine) AssembleInst(pc uint16, inst *Inst, operands ...Operand) (code []byte, err error) {
	form, ok := inst.Match(Classes(operands...)...)
	if !ok {
		err = ErrNoMatchingForm
		return
	}

	code = slices.Clone(form.Bits)
	for n, op := range operands {
		ot := form.Operands[n]
		value := op.raw()
		if value < 0 {
			err = &ErrOperand{Index: n, Type: ot, Err: ErrOperandOutOfRange}
		} else {
			err = form.insert(code, ot.Field(), uint64(value))
			if err != nil {
				err = &ErrOperand{Index: n, Type: ot, Err: err}
			}
		}
		if err != nil {
			code = nil
			return
		}
	}

	return
}
