package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strings"
	"unicode"

	"github.com/brouhaha/glacial/expr"
	"github.com/brouhaha/glacial/isa"
)

const (
	ADDRESS_LIMIT = 0x10000 // One past the highest assembled address.
	MACRO_DEPTH   = 16      // Deepest nesting of macro invocations.
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates, updated for every line.
const (
	EQU_LINENO = "LINENO" // Current source line.
	EQU_PC     = "PC"     // Address of the current line.
)

// Assembler is a single pass macro assembler for the Glacial instruction set.
//
// There are no labels: every address operand is an expression over
// numbers and equates.
type Assembler struct {
	Verbose bool        // If set, verbosely logs the assembler actions.
	Engine  *isa.Engine // Instruction set. If nil, isa.Glacial() is used.

	predefine map[string]int64
	Equate    map[string]int64  // Map of equates.
	Macro     map[string]*Macro // Map of macros.

	lines []Line
	pc    int
	depth int
}

// Predefine defines a new equate or redefines an existing equate, applied
// to every following Parse.
func (asm *Assembler) Predefine(equ string, value int64) {
	if asm.predefine == nil {
		asm.predefine = map[string]int64{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

func (asm *Assembler) engine() *isa.Engine {
	if asm.Engine == nil {
		return isa.Glacial()
	}
	return asm.Engine
}

// eval evaluates an expression against the current equates.
func (asm *Assembler) eval(text string) (value int64, err error) {
	ev := &expr.Evaluator{Symbols: asm.Equate}
	return ev.Eval(text)
}

var (
	charQuote  = regexp.MustCompile(`'\\?[^']'`)
	identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// charEval replaces 'c' character constants with their values.
func charEval(line string) string {
	return charQuote.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})
}

// stripComment removes a ';' comment, keeping ';' character constants.
func stripComment(text string) string {
	for n := 0; n < len(text); n++ {
		switch text[n] {
		case '\'':
			loc := charQuote.FindStringIndex(text[n:])
			if loc != nil && loc[0] == 0 {
				n += loc[1] - 1
			}
		case ';':
			return text[:n]
		}
	}
	return text
}

// splitHead splits a line into its first word and the remaining text.
func splitHead(line string) (head string, rest string) {
	n := strings.IndexFunc(line, unicode.IsSpace)
	if n < 0 {
		return line, ""
	}
	return line[:n], strings.TrimSpace(line[n:])
}

// splitArgs splits comma separated arguments.
func splitArgs(rest string) (args []string) {
	if len(rest) == 0 {
		return
	}
	for _, arg := range strings.Split(rest, ",") {
		args = append(args, strings.TrimSpace(arg))
	}
	return
}

// parseOperand converts operand text to an operand.
//
//	#expr   immediate
//	@x      indirect
//	@x+     postincrement
//	cond    branch condition
//	expr    numeric
func (asm *Assembler) parseOperand(text string) (op isa.Operand, err error) {
	if len(text) == 0 {
		err = ErrOperandMissing
		return
	}

	switch text[0] {
	case '#':
		var value int64
		value, err = asm.eval(text[1:])
		if err != nil {
			return
		}
		// Negative immediates are bytes.
		if value < 0 && value >= -0x80 {
			value &= 0xff
		}
		op = isa.Immediate(value)
		return
	case '@':
		name := strings.ToLower(strings.TrimSpace(text[1:]))
		postinc := strings.HasSuffix(name, "+")
		if postinc {
			name = strings.TrimSpace(name[:len(name)-1])
		}
		reg, ok := isa.ParseIndirectReg(name)
		if !ok {
			err = ErrOperandInvalid
			return
		}
		if postinc {
			op = isa.Postincrement(reg)
		} else {
			op = isa.Indirect(reg)
		}
		return
	}

	cond, ok := isa.ParseCond(strings.ToLower(text))
	if ok {
		op = isa.Condition(cond)
		return
	}

	value, err := asm.eval(text)
	if err != nil {
		return
	}
	op = isa.Numeric(value)

	return
}

// emit appends generated bytes at the current address.
func (asm *Assembler) emit(lineno int, words []string, data []byte) (err error) {
	if asm.pc+len(data) > ADDRESS_LIMIT {
		err = ErrAddressRange
		return
	}

	asm.lines = append(asm.lines, Line{
		LineNo:  lineno,
		Address: uint16(asm.pc),
		Words:   words,
		Bytes:   data,
	})
	asm.pc += len(data)

	return
}

// data evaluates .byte or .word arguments, big-endian.
func (asm *Assembler) data(args []string, size int) (data []byte, err error) {
	if len(args) == 0 {
		err = ErrDirective
		return
	}

	bits := uint(8 * size)
	low := -(int64(1) << (bits - 1))
	high := int64(1)<<bits - 1
	for _, arg := range args {
		var value int64
		value, err = asm.eval(arg)
		if err != nil {
			return
		}
		if value < low || value > high {
			err = ErrValueRange
			return
		}
		for n := size - 1; n >= 0; n-- {
			data = append(data, byte(value>>(8*n)))
		}
	}

	return
}

// expand substitutes macro arguments into each macro line and assembles it.
func (asm *Assembler) expand(name string, macro *Macro, args []string) (err error) {
	if len(args) != len(macro.Args) {
		err = ErrMacroSyntax
		return
	}
	if asm.depth >= MACRO_DEPTH {
		err = ErrMacroDepth
		return
	}

	var subst func(string) string
	if len(args) > 0 {
		values := make(map[string]string, len(args))
		quoted := make([]string, len(args))
		for n, arg := range macro.Args {
			values[arg] = args[n]
			quoted[n] = regexp.QuoteMeta(arg)
		}
		re := regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\b`)
		subst = func(line string) string {
			return re.ReplaceAllStringFunc(line, func(word string) string {
				return values[word]
			})
		}
	}

	asm.depth++
	defer func() { asm.depth-- }()

	for n, line := range macro.Lines {
		lineno := macro.LineNo + n
		if subst != nil {
			line = subst(line)
		}
		err = asm.parseLine(line, lineno)
		if err != nil {
			err = &ErrMacro{Macro: name, Line: lineno, Err: err}
			return
		}
	}

	return
}

// parseLine assembles a single line, without comments.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	asm.Equate[EQU_LINENO] = int64(lineno)
	asm.Equate[EQU_PC] = int64(asm.pc)

	line = strings.TrimSpace(charEval(line))
	if len(line) == 0 {
		return
	}

	head, rest := splitHead(line)
	args := splitArgs(rest)
	words := append([]string{head}, args...)

	switch head {
	case ".equ":
		name, value_text := splitHead(rest)
		if !identifier.MatchString(name) || len(value_text) == 0 {
			err = ErrDirective
			return
		}
		if _, ok := asm.Equate[name]; ok {
			err = ErrEquateDuplicate
			return
		}
		var value int64
		value, err = asm.eval(value_text)
		if err != nil {
			return
		}
		asm.Equate[name] = value
		return
	case ".org":
		if len(args) != 1 {
			err = ErrDirective
			return
		}
		var value int64
		value, err = asm.eval(args[0])
		if err != nil {
			return
		}
		if value < 0 || value >= ADDRESS_LIMIT {
			err = ErrAddressRange
			return
		}
		asm.pc = int(value)
		return
	case ".byte", ".word":
		size := 1
		if head == ".word" {
			size = 2
		}
		var data []byte
		data, err = asm.data(args, size)
		if err != nil {
			return
		}
		return asm.emit(lineno, words, data)
	}

	if strings.HasPrefix(head, ".") {
		err = ErrDirective
		return
	}

	macro, ok := asm.Macro[head]
	if ok {
		return asm.expand(head, macro, args)
	}

	inst, err := asm.engine().LookupMnemonic(strings.ToLower(head))
	if err != nil {
		return
	}

	operands := make([]isa.Operand, len(args))
	for n, arg := range args {
		operands[n], err = asm.parseOperand(arg)
		if err != nil {
			return
		}
	}

	if asm.pc%2 != 0 {
		err = ErrAlignment
		return
	}

	code, err := asm.engine().AssembleInst(uint16(asm.pc), inst, operands...)
	if err != nil {
		return
	}

	return asm.emit(lineno, words, code)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.lines = nil
	asm.pc = 0
	asm.depth = 0
	if asm.Macro == nil {
		asm.Macro = make(map[string]*Macro)
	}
	clear(asm.Macro)
	asm.Equate = map[string]int64{EQU_LINENO: 0, EQU_PC: 0}
	maps.Copy(asm.Equate, asm.predefine)

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))
		words := strings.Fields(strings.ReplaceAll(line, ",", " "))

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	prog = &Program{
		Lines: asm.lines,
	}
	asm.lines = nil

	return
}
