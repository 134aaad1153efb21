package isa

// Inst is an instruction mnemonic and its forms. The forms are tried in
// order when assembling.
type Inst struct {
	Mnemonic string
	Forms    []*Form
}

// NewInst creates an instruction from its forms.
func NewInst(mnemonic string, forms ...*Form) *Inst {
	return &Inst{
		Mnemonic: mnemonic,
		Forms:    forms,
	}
}

// Match returns the first form whose operand signature has the given
// operand classes.
func (inst *Inst) Match(classes ...OperandClass) (form *Form, ok bool) {
	for _, form = range inst.Forms {
		if form.Matches(classes...) {
			return form, true
		}
	}
	return nil, false
}

// describe names an instruction form for diagnostics.
func describe(inst *Inst, form *Form) string {
	return inst.Mnemonic + " " + form.String()
}
