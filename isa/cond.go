package isa

// Cond is a 3-bit branch condition code.
type Cond int

// The names are the canonical spellings used when disassembling. BranchCond
// holds every accepted alias.
//
//go:generate go tool stringer -linecomment -type=Cond
const (
	COND_NE    = Cond(0) // ne
	COND_EQ    = Cond(1) // eq
	COND_CC    = Cond(2) // cc
	COND_CS    = Cond(3) // cs
	COND_NXINT = Cond(4) // nxint
	COND_XINT  = Cond(5) // xint
	COND_NTICK = Cond(6) // ntick
	COND_TICK  = Cond(7) // tick
)

// BranchCond maps every branch condition spelling to its code.
var BranchCond = map[string]Cond{
	"ne":    COND_NE,
	"nz":    COND_NE,
	"eq":    COND_EQ,
	"z":     COND_EQ,
	"cc":    COND_CC,
	"ge":    COND_CC,
	"cs":    COND_CS,
	"lt":    COND_CS,
	"nxint": COND_NXINT,
	"xint":  COND_XINT,
	"ntick": COND_NTICK,
	"tick":  COND_TICK,
}

// ParseCond returns the condition code for a condition name.
func ParseCond(name string) (cond Cond, ok bool) {
	cond, ok = BranchCond[name]
	return
}
