package isa

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeTable(t *testing.T) {
	assert := assert.New(t)

	insts := []*Inst{
		NewInst("opr", MustForm("0000iiii iiiiiiii", OT_VAL)),
		NewInst("store", MustForm("00100000 0000000x", OT_IND)),
	}

	table, err := NewDecodeTable(insts)
	assert.NoError(err)
	assert.Equal(4096+2, table.Count())

	inst, form, ok := table.Lookup(0x0123)
	assert.True(ok)
	assert.Equal(insts[0], inst)
	assert.Equal(insts[0].Forms[0], form)

	inst, _, ok = table.Lookup(0x2001)
	assert.True(ok)
	assert.Equal("store", inst.Mnemonic)

	_, _, ok = table.Lookup(0x2080)
	assert.False(ok)
	_, _, ok = table.Lookup(0x1000)
	assert.False(ok)
}

func TestDecodeTable_Collision(t *testing.T) {
	assert := assert.New(t)

	insts := []*Inst{
		NewInst("load", MustForm("01000000 iiiiiiii", OT_IMM)),
		NewInst("ldx", MustForm("0100000x 00000000", OT_IND)),
	}

	table, err := NewDecodeTable(insts)
	assert.Nil(table)

	var collision *ErrDecodeCollision
	assert.True(errors.As(err, &collision))
	assert.Equal(uint16(0x4000), collision.Opcode)
	assert.Equal("load (imm) 01000000 iiiiiiii", collision.First)
	assert.Equal("ldx (ind) 0100000x 00000000", collision.Second)

	// Forms of one instruction may not overlap either.
	insts = []*Inst{
		NewInst("load",
			MustForm("0101mmmm mmmmmmmm", OT_MEM),
			MustForm("01010000 0000000x", OT_IND)),
	}
	_, err = NewDecodeTable(insts)
	assert.True(errors.As(err, &collision))
	assert.Equal(uint16(0x5000), collision.Opcode)
}

func TestDecodeTable_Width(t *testing.T) {
	assert := assert.New(t)

	insts := []*Inst{
		NewInst("long", MustForm("11111111 iiiiiiii 00000000", OT_VAL)),
	}

	_, err := NewDecodeTable(insts)
	assert.True(errors.Is(err, ErrEncoding))
}
