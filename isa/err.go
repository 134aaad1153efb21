package isa

import (
	"errors"

	"github.com/brouhaha/glacial/translate"
)

var f = translate.From

var (
	// Assembly errors
	ErrNoMatchingForm    = errors.New(f("no matching form"))
	ErrOperandOutOfRange = errors.New(f("operand out of range"))
	ErrFieldMismatch     = errors.New(f("field set mismatch"))

	// Catalog errors
	ErrEncoding = errors.New(f("encoding invalid"))
)

// ErrUnknownMnemonic is returned when a mnemonic is not in the catalog.
type ErrUnknownMnemonic string

func (err ErrUnknownMnemonic) Error() string {
	return f("unknown mnemonic %q", string(err))
}

func (err ErrUnknownMnemonic) Is(target error) (ok bool) {
	_, ok = target.(ErrUnknownMnemonic)
	return
}

// ErrMnemonicDuplicate is returned when a catalog defines a mnemonic twice.
type ErrMnemonicDuplicate string

func (err ErrMnemonicDuplicate) Error() string {
	return f("mnemonic %q duplicated", string(err))
}

func (err ErrMnemonicDuplicate) Unwrap() error {
	return ErrEncoding
}

// ErrBadInstruction is returned when an opcode matches no form.
type ErrBadInstruction uint16

func (err ErrBadInstruction) Error() string {
	return f("bad instruction 0x%04x", uint16(err))
}

func (err ErrBadInstruction) Is(target error) (ok bool) {
	_, ok = target.(ErrBadInstruction)
	return
}

// ErrOperand locates an operand that could not be encoded.
type ErrOperand struct {
	Index int
	Type  OperandType
	Err   error
}

func (err *ErrOperand) Error() string {
	return f("operand %d (%v) %v", err.Index+1, err.Type, err.Err)
}

func (err *ErrOperand) Unwrap() error {
	return err.Err
}

// ErrPattern locates a defect in a textual bit pattern.
type ErrPattern struct {
	Pattern string
	Reason  string
}

func (err *ErrPattern) Error() string {
	return f("pattern %q: %v", err.Pattern, err.Reason)
}

func (err *ErrPattern) Unwrap() error {
	return ErrEncoding
}

// ErrDecodeCollision reports an opcode claimed by two forms. The catalog is
// ambiguous and no engine can be built from it.
type ErrDecodeCollision struct {
	Opcode uint16
	First  string
	Second string
}

func (err *ErrDecodeCollision) Error() string {
	return f("opcode 0x%04x claimed by both %v and %v", err.Opcode, err.First, err.Second)
}
