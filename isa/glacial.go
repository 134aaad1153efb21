package isa

import (
	"sync"
)

// GlacialInsts returns the Glacial instruction catalog.
func GlacialInsts() []*Inst {
	return []*Inst{
		NewInst("opr", MustForm("0000iiii iiiiiiii", OT_VAL)),

		NewInst("store",
			MustForm("00010000 mmmmmmmm", OT_MEM),
			MustForm("00100000 0000000x", OT_IND),
			MustForm("00110000 0000000x", OT_POSTINC)),

		NewInst("load",
			MustForm("01000000 iiiiiiii", OT_IMM),
			MustForm("01010000 mmmmmmmm", OT_MEM),
			MustForm("01100000 0000000x", OT_IND),
			MustForm("01110000 0000000x", OT_POSTINC)),

		NewInst("and",
			MustForm("01000001 iiiiiiii", OT_IMM),
			MustForm("01010001 mmmmmmmm", OT_MEM),
			MustForm("01100001 0000000x", OT_IND),
			MustForm("01110001 0000000x", OT_POSTINC)),

		NewInst("xor",
			MustForm("01000010 iiiiiiii", OT_IMM),
			MustForm("01010010 mmmmmmmm", OT_MEM),
			MustForm("01100010 0000000x", OT_IND),
			MustForm("01110010 0000000x", OT_POSTINC)),

		NewInst("adc",
			MustForm("01000011 iiiiiiii", OT_IMM),
			MustForm("01010011 mmmmmmmm", OT_MEM),
			MustForm("01100011 0000000x", OT_IND),
			MustForm("01110011 0000000x", OT_POSTINC)),

		NewInst("jump", MustForm("10000jjj jjjjjjjj", OT_JMP)),
		NewInst("call", MustForm("10001jjj jjjjjjjj", OT_JMP)),

		NewInst("skb",
			MustForm("1001ibbb mmmmmmmm", OT_MEM, OT_BIT, OT_VAL),
			MustForm("1010ibbb 0000000x", OT_IND, OT_BIT, OT_VAL),
			MustForm("1011ibbb 0000000x", OT_POSTINC, OT_BIT, OT_VAL)),

		NewInst("br", MustForm("11cccjjj jjjjjjjj", OT_COND, OT_JMP)),
	}
}

// Glacial returns the shared engine for the Glacial catalog. The catalog is
// validated on first use; a defect in it panics.
var Glacial = sync.OnceValue(func() *Engine {
	engine, err := NewEngine(GlacialInsts()...)
	if err != nil {
		panic(err)
	}
	return engine
})
