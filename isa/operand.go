package isa

// OperandClass is the coarse syntax class of an operand, used to select a
// Form by the shape of the supplied operands.
type OperandClass int

//go:generate go tool stringer -linecomment -type=OperandClass
const (
	CLASS_IMM     = OperandClass(0) // imm
	CLASS_NUMERIC = OperandClass(1) // numeric
	CLASS_IND     = OperandClass(2) // ind
	CLASS_POSTINC = OperandClass(3) // postinc
	CLASS_COND    = OperandClass(4) // cond
)

// OperandType is the declared type of one operand slot of a Form.
type OperandType int

//go:generate go tool stringer -linecomment -type=OperandType
const (
	OT_VAL     = OperandType(0) // val
	OT_IMM     = OperandType(1) // imm
	OT_MEM     = OperandType(2) // mem
	OT_IND     = OperandType(3) // ind
	OT_POSTINC = OperandType(4) // postinc
	OT_BIT     = OperandType(5) // bit
	OT_COND    = OperandType(6) // cond
	OT_JMP     = OperandType(7) // jmp
)

var operandClass = [...]OperandClass{
	OT_VAL:     CLASS_NUMERIC,
	OT_IMM:     CLASS_IMM,
	OT_MEM:     CLASS_NUMERIC,
	OT_IND:     CLASS_IND,
	OT_POSTINC: CLASS_POSTINC,
	OT_BIT:     CLASS_NUMERIC,
	OT_COND:    CLASS_COND,
	OT_JMP:     CLASS_NUMERIC,
}

var operandField = [...]string{
	OT_VAL:     "i",
	OT_IMM:     "i",
	OT_MEM:     "m",
	OT_IND:     "x",
	OT_POSTINC: "x",
	OT_BIT:     "b",
	OT_COND:    "c",
	OT_JMP:     "j",
}

// Class returns the operand class an operand of this type must have.
func (ot OperandType) Class() OperandClass {
	return operandClass[ot]
}

// Field returns the name of the pattern field that holds this operand.
func (ot OperandType) Field() string {
	return operandField[ot]
}

// Scale returns the divisor applied to an operand value before it is stored
// in its field. Jump targets are word addresses.
func (ot OperandType) Scale() uint64 {
	if ot == OT_JMP {
		return 2
	}
	return 1
}

// IndirectReg selects one of the two index registers.
type IndirectReg int

//go:generate go tool stringer -linecomment -type=IndirectReg
const (
	REG_X = IndirectReg(0) // x
	REG_Y = IndirectReg(1) // y
)

// ParseIndirectReg returns the index register with the given name.
func ParseIndirectReg(name string) (reg IndirectReg, ok bool) {
	switch name {
	case "x":
		return REG_X, true
	case "y":
		return REG_Y, true
	}
	return
}

// Operand is a concrete operand supplied to the assembler. It is one of
// Numeric, Immediate, Indirect, Postincrement or Condition.
type Operand interface {
	// Class returns the operand class of the variant.
	Class() OperandClass
	// raw returns the value stored in the operand's field.
	raw() int64
}

// Numeric is a bare number: an address, bit number or plain value.
type Numeric int64

// Immediate is a '#' prefixed immediate value.
type Immediate int64

// Indirect addresses memory through an index register, as in '@x'.
type Indirect IndirectReg

// Postincrement addresses memory through an index register and steps it
// afterwards, as in '@x+'.
type Postincrement IndirectReg

// Condition is a branch condition.
type Condition Cond

var (
	_ Operand = Numeric(0)
	_ Operand = Immediate(0)
	_ Operand = Indirect(REG_X)
	_ Operand = Postincrement(REG_X)
	_ Operand = Condition(COND_NE)
)

func (Numeric) Class() OperandClass       { return CLASS_NUMERIC }
func (Immediate) Class() OperandClass     { return CLASS_IMM }
func (Indirect) Class() OperandClass      { return CLASS_IND }
func (Postincrement) Class() OperandClass { return CLASS_POSTINC }
func (Condition) Class() OperandClass     { return CLASS_COND }

func (op Numeric) raw() int64       { return int64(op) }
func (op Immediate) raw() int64     { return int64(op) }
func (op Indirect) raw() int64      { return int64(op) }
func (op Postincrement) raw() int64 { return int64(op) }
func (op Condition) raw() int64     { return int64(op) }

// Classes returns the operand class signature of a list of operands.
func Classes(operands ...Operand) (classes []OperandClass) {
	classes = make([]OperandClass, len(operands))
	for n, op := range operands {
		classes[n] = op.Class()
	}
	return
}
