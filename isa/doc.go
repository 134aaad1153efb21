// Package isa implements the instruction encoder and decoder for the Glacial
// microarchitecture.
//
// Every instruction is 16 bits wide. An instruction mnemonic (Inst) owns one or
// more Forms, each a pair of an operand type signature and a textual bit
// pattern such as "0100 0000 iiii iiii". The pattern fixes some bits and
// scatters named fields over the others. An Engine builds a total decode table
// over the whole opcode space from the catalog once, refusing to start if any
// opcode is claimed by two forms, and is read-only afterwards.
package isa
