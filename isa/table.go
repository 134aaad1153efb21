package isa

const (
	OPCODE_BYTES = 2                        // Instruction length in bytes.
	OPCODE_BITS  = 8 * OPCODE_BYTES         // Instruction length in bits.
	OPCODE_COUNT = 1 << OPCODE_BITS         // Size of the opcode space.
	OPCODE_MASK  = uint64(OPCODE_COUNT - 1) // Mask of the opcode space.
)

// decodeEntry holds 1-based catalog indexes; zero means no form.
type decodeEntry struct {
	inst uint16
	form uint16
}

// DecodeTable maps every opcode to the single form that encodes it, if any.
type DecodeTable struct {
	insts []*Inst
	entry [OPCODE_COUNT]decodeEntry
}

// NewDecodeTable builds the decode table of a catalog. Each form claims
// every opcode whose fixed bits match; an opcode claimed twice is an
// *ErrDecodeCollision.
func NewDecodeTable(insts []*Inst) (table *DecodeTable, err error) {
	table = &DecodeTable{insts: insts}

	for i, inst := range insts {
		for j, form := range inst.Forms {
			if form.Len() != OPCODE_BYTES {
				err = &ErrPattern{Pattern: form.Encoding, Reason: f("%d bytes long, expected %d", form.Len(), OPCODE_BYTES)}
				return nil, err
			}

			entry := decodeEntry{inst: uint16(i + 1), form: uint16(j + 1)}
			bits, mask := form.Opcode()
			free := ^mask & OPCODE_MASK

			// Walk every subset of the free bits.
			sub := uint64(0)
			for {
				opcode := bits | sub
				old := table.entry[opcode]
				if old.inst != 0 {
					err = &ErrDecodeCollision{
						Opcode: uint16(opcode),
						First:  describe(insts[old.inst-1], insts[old.inst-1].Forms[old.form-1]),
						Second: describe(inst, form),
					}
					return nil, err
				}
				table.entry[opcode] = entry

				sub = (sub - free) & free
				if sub == 0 {
					break
				}
			}
		}
	}

	return
}

// Lookup returns the instruction and form that encode opcode.
func (table *DecodeTable) Lookup(opcode uint16) (inst *Inst, form *Form, ok bool) {
	entry := table.entry[opcode]
	if entry.inst == 0 {
		return
	}

	inst = table.insts[entry.inst-1]
	form = inst.Forms[entry.form-1]
	ok = true

	return
}

// Count returns the number of opcodes that decode to an instruction.
func (table *DecodeTable) Count() (count int) {
	for _, entry := range table.entry {
		if entry.inst != 0 {
			count++
		}
	}
	return
}
