package isa

import (
	"iter"
)

// Engine assembles and decodes instructions of one catalog. It is immutable
// once built, so concurrent use is safe.
type Engine struct {
	insts      []*Inst
	byMnemonic map[string]*Inst
	table      *DecodeTable
}

// NewEngine validates a catalog and builds its decode table.
func NewEngine(insts ...*Inst) (engine *Engine, err error) {
	engine = &Engine{
		insts:      insts,
		byMnemonic: make(map[string]*Inst, len(insts)),
	}

	for _, inst := range insts {
		if _, ok := engine.byMnemonic[inst.Mnemonic]; ok {
			return nil, ErrMnemonicDuplicate(inst.Mnemonic)
		}
		engine.byMnemonic[inst.Mnemonic] = inst
	}

	engine.table, err = NewDecodeTable(insts)
	if err != nil {
		return nil, err
	}

	return
}

// Insts iterates over the catalog in definition order.
func (engine *Engine) Insts() iter.Seq[*Inst] {
	return func(yield func(inst *Inst) bool) {
		for _, inst := range engine.insts {
			if !yield(inst) {
				return
			}
		}
	}
}

// Forms iterates over every form of the catalog with its instruction.
func (engine *Engine) Forms() iter.Seq2[*Inst, *Form] {
	return func(yield func(inst *Inst, form *Form) bool) {
		for _, inst := range engine.insts {
			for _, form := range inst.Forms {
				if !yield(inst, form) {
					return
				}
			}
		}
	}
}

// Table returns the decode table.
func (engine *Engine) Table() *DecodeTable {
	return engine.table
}

// LookupMnemonic returns the instruction for a mnemonic.
func (engine *Engine) LookupMnemonic(mnemonic string) (inst *Inst, err error) {
	inst, ok := engine.byMnemonic[mnemonic]
	if !ok {
		err = ErrUnknownMnemonic(mnemonic)
	}
	return
}
