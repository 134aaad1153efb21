package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEval(t *testing.T) {
	assert := assert.New(t)

	ev := &Evaluator{Symbols: map[string]int64{
		"a":     3,
		"b":     5,
		"BASE":  0x100,
		"tx_on": 1,
		"$":     0x200,
	}}

	table := []struct {
		text  string
		value int64
	}{
		{"42", 42},
		{"0x2a", 42},
		{"2ah", 42},
		{"0ffh", 255},
		{"0FFH", 255},
		{"a", 3},
		{"a + b * 2", 13},
		{"(a + b) * 2", 16},
		{"b / 2", 2},
		{"-7 / 2", -4},
		{"-a", -3},
		{"+a", 3},
		{"~0", -1},
		{"~a & 0ffh", 0xfc},
		{"1 << 4", 16},
		{"BASE >> 4", 0x10},
		{"a | b", 7},
		{"a ^ b", 6},
		{"a & b", 1},
		{"a < b", 1},
		{"a > b", 0},
		{"a <= 3", 1},
		{"b >= 6", 0},
		{"a == 3", 1},
		{"a != 3", 0},
		{"!tx_on", 0},
		{"!0", 1},
		{"!!b", 1},
		{"(a < b) + (b < a) + 1", 2},
		{"BASE + 10h", 0x110},
		{" 5", 5},
		{"\t!0 ", 1},
		{"$ + 1", 0x201},
		{"!0 + 1", 2},
		{"!a + 1", 1},
		{"-a * 2", -6},
		{"- -a", 3},
		{"1 + 2 << 1", 6},
		{"1 < 2 < 3", 1},
		{"3 > 2 > 1", 0},
		{"a & b == 1", 0},
		{"a | 1 == 1", 3},
		{"a == 3 == 1", 1},
		{"a ^ b & 1", 2},
	}

	for _, entry := range table {
		value, err := ev.Eval(entry.text)
		if assert.NoError(err, entry.text) {
			assert.Equal(entry.value, value, entry.text)
		}
	}
}

func TestEval_Errors(t *testing.T) {
	assert := assert.New(t)

	ev := &Evaluator{Symbols: map[string]int64{"a": 1}}

	_, err := ev.Eval("a + missing")
	assert.ErrorIs(err, ErrUndefinedSymbol("missing"))

	var bad *ErrExpression
	for _, text := range []string{
		"",
		"   ",
		"a +",
		"(a",
		`"text"`,
		"a % 2",
		"a and 1",
		"a(1)",
		"a 1",
		")",
		"1abc",
		"0x",
		"99999999999999999999",
		"1.5",
		"1 << -1",
		"1 << 70",
	} {
		_, err = ev.Eval(text)
		if assert.ErrorAs(err, &bad, text) {
			assert.Equal(text, bad.Text)
		}
	}
}

func TestEval_NoSymbols(t *testing.T) {
	assert := assert.New(t)

	ev := &Evaluator{}
	value, err := ev.Eval("1 + 2")
	assert.NoError(err)
	assert.Equal(int64(3), value)

	_, err = ev.Eval("x")
	assert.ErrorIs(err, ErrUndefinedSymbol("x"))
}
