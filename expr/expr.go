// Package expr evaluates assembler constant expressions.
//
// Expressions are parsed with the assembler operator table, from tightest
// to loosest binding:
//
//	+ - ~ !        unary
//	* /            integer division
//	+ -
//	<< >>
//	< <= > >=
//	== !=
//	&
//	^
//	|
//
// Binary operators associate to the left, so '1 < 2 < 3' compares the 0 or
// 1 result of '1 < 2' with 3. Comparisons and '!' yield 1 or 0. The parsed
// tree is resolved and run by Starlark.
package expr

import (
	"errors"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/brouhaha/glacial/translate"
)

var f = translate.From

// ErrUndefinedSymbol is an identifier with no value in the symbol table.
type ErrUndefinedSymbol string

func (err ErrUndefinedSymbol) Error() string {
	return f("undefined symbol '%s'", string(err))
}

// ErrExpression is an expression that can not be parsed or evaluated.
type ErrExpression struct {
	Text string
	Err  error
}

func (err *ErrExpression) Error() string {
	if err.Err == nil {
		return f("bad expression '%s'", err.Text)
	}
	return f("bad expression '%s': %v", err.Text, err.Err)
}

func (err *ErrExpression) Unwrap() error {
	return err.Err
}

var (
	errCharacter = errors.New(f("unexpected character"))
	errNumber    = errors.New(f("malformed number"))
	errToken     = errors.New(f("unexpected token"))
	errEnd       = errors.New(f("unexpected end of expression"))
	errEmpty     = errors.New(f("empty expression"))
	errRange     = errors.New(f("value out of range"))
	errResult    = errors.New(f("result is not an integer"))
)

// Evaluator evaluates expressions against a symbol table.
type Evaluator struct {
	Symbols map[string]int64 // Symbol values.
}

type tokenKind int

const (
	TOKEN_NUMBER = tokenKind(iota)
	TOKEN_IDENT
	TOKEN_OP
)

type token struct {
	kind  tokenKind
	text  string
	value int64
	col   int
}

// operators, longest first.
var operators = []string{
	"<<", ">>", "<=", ">=", "==", "!=",
	"+", "-", "*", "/", "~", "!", "<", ">", "&", "^", "|", "(", ")",
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdent(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// parseNumber accepts decimal, '0x2a' and '2ah' integers.
func parseNumber(text string) (value int64, err error) {
	lower := strings.ToLower(text)
	base := 10
	switch {
	case strings.HasPrefix(lower, "0x"):
		lower = lower[2:]
		base = 16
	case strings.HasSuffix(lower, "h"):
		lower = lower[:len(lower)-1]
		base = 16
	}

	value, err = strconv.ParseInt(lower, base, 64)
	if errors.Is(err, strconv.ErrRange) {
		err = errRange
	} else if err != nil {
		err = errNumber
	}
	return
}

// tokenize splits text into numbers, identifiers and operators.
func tokenize(text string) (tokens []token, err error) {
	for n := 0; n < len(text); {
		c := text[n]
		switch {
		case c == ' ' || c == '\t':
			n++
			continue
		case c >= '0' && c <= '9':
			end := n
			for end < len(text) && isIdent(text[end]) {
				end++
			}
			tok := token{kind: TOKEN_NUMBER, text: text[n:end], col: n}
			tok.value, err = parseNumber(tok.text)
			if err != nil {
				return
			}
			tokens = append(tokens, tok)
			n = end
			continue
		case isIdentStart(c):
			end := n
			for end < len(text) && isIdent(text[end]) {
				end++
			}
			tokens = append(tokens, token{kind: TOKEN_IDENT, text: text[n:end], col: n})
			n = end
			continue
		}

		found := false
		for _, op := range operators {
			if strings.HasPrefix(text[n:], op) {
				tokens = append(tokens, token{kind: TOKEN_OP, text: op, col: n})
				n += len(op)
				found = true
				break
			}
		}
		if !found {
			err = errCharacter
			return
		}
	}

	return
}

// binaryLevels lists the binary operators from loosest to tightest.
var binaryLevels = []map[string]syntax.Token{
	{"|": syntax.PIPE},
	{"^": syntax.CIRCUMFLEX},
	{"&": syntax.AMP},
	{"==": syntax.EQL, "!=": syntax.NEQ},
	{"<": syntax.LT, "<=": syntax.LE, ">": syntax.GT, ">=": syntax.GE},
	{"<<": syntax.LTLT, ">>": syntax.GTGT},
	{"+": syntax.PLUS, "-": syntax.MINUS},
	{"*": syntax.STAR, "/": syntax.SLASHSLASH},
}

var compareOps = map[syntax.Token]bool{
	syntax.LT:  true,
	syntax.LE:  true,
	syntax.GT:  true,
	syntax.GE:  true,
	syntax.EQL: true,
	syntax.NEQ: true,
}

var unaryOps = map[string]syntax.Token{
	"+": syntax.PLUS,
	"-": syntax.MINUS,
	"~": syntax.TILDE,
	"!": syntax.NOT,
}

// parser builds a Starlark expression tree from tokens.
type parser struct {
	symbols map[string]int64
	file    string
	tokens  []token
	next    int
}

func (p *parser) pos(tok token) syntax.Position {
	return syntax.MakePosition(&p.file, 1, int32(tok.col+1))
}

func (p *parser) peek() (tok token, ok bool) {
	if p.next >= len(p.tokens) {
		return
	}
	return p.tokens[p.next], true
}

func (p *parser) literal(pos syntax.Position, value int64, raw string) *syntax.Literal {
	return &syntax.Literal{Token: syntax.INT, TokenPos: pos, Raw: raw, Value: value}
}

// asInt wraps a boolean valued node as '1 if x else 0'.
func (p *parser) asInt(pos syntax.Position, x syntax.Expr) syntax.Expr {
	return &syntax.CondExpr{
		If:      pos,
		Cond:    x,
		True:    p.literal(pos, 1, "1"),
		ElsePos: pos,
		False:   p.literal(pos, 0, "0"),
	}
}

func (p *parser) binary(level int) (x syntax.Expr, err error) {
	if level == len(binaryLevels) {
		return p.unary()
	}

	x, err = p.binary(level + 1)
	if err != nil {
		return
	}

	for {
		tok, ok := p.peek()
		if !ok || tok.kind != TOKEN_OP {
			return
		}
		op, ok := binaryLevels[level][tok.text]
		if !ok {
			return
		}
		p.next++

		var y syntax.Expr
		y, err = p.binary(level + 1)
		if err != nil {
			return
		}

		pos := p.pos(tok)
		x = &syntax.BinaryExpr{X: x, OpPos: pos, Op: op, Y: y}
		if compareOps[op] {
			x = p.asInt(pos, x)
		}
	}
}

func (p *parser) unary() (x syntax.Expr, err error) {
	tok, ok := p.peek()
	if !ok {
		err = errEnd
		return
	}

	if tok.kind == TOKEN_OP {
		if op, ok := unaryOps[tok.text]; ok {
			p.next++
			x, err = p.unary()
			if err != nil {
				return
			}
			pos := p.pos(tok)
			x = &syntax.UnaryExpr{OpPos: pos, Op: op, X: x}
			if op == syntax.NOT {
				x = p.asInt(pos, x)
			}
			return
		}
	}

	return p.primary()
}

func (p *parser) primary() (x syntax.Expr, err error) {
	tok, ok := p.peek()
	if !ok {
		err = errEnd
		return
	}
	p.next++

	switch tok.kind {
	case TOKEN_NUMBER:
		x = p.literal(p.pos(tok), tok.value, tok.text)
		return
	case TOKEN_IDENT:
		if _, ok := p.symbols[tok.text]; !ok {
			err = ErrUndefinedSymbol(tok.text)
			return
		}
		x = &syntax.Ident{NamePos: p.pos(tok), Name: tok.text}
		return
	}

	if tok.text != "(" {
		err = errToken
		return
	}

	inner, err := p.binary(0)
	if err != nil {
		return
	}

	closing, ok := p.peek()
	if !ok {
		err = errEnd
		return
	}
	if closing.text != ")" {
		err = errToken
		return
	}
	p.next++

	x = &syntax.ParenExpr{Lparen: p.pos(tok), X: inner, Rparen: p.pos(closing)}
	return
}

// Eval returns the integer value of an expression.
func (ev *Evaluator) Eval(text string) (value int64, err error) {
	defer func() {
		var undefined ErrUndefinedSymbol
		if err != nil && !errors.As(err, &undefined) {
			err = &ErrExpression{Text: text, Err: err}
		}
	}()

	tokens, err := tokenize(text)
	if err != nil {
		return
	}
	if len(tokens) == 0 {
		err = errEmpty
		return
	}

	p := &parser{symbols: ev.Symbols, file: "expr", tokens: tokens}
	node, err := p.binary(0)
	if err != nil {
		return
	}
	if p.next != len(tokens) {
		err = errToken
		return
	}

	env := make(starlark.StringDict, len(ev.Symbols))
	for name, symbol := range ev.Symbols {
		env[name] = starlark.MakeInt64(symbol)
	}

	thread := &starlark.Thread{Name: "expr"}
	result, err := starlark.EvalExprOptions(&syntax.FileOptions{}, thread, node, env)
	if err != nil {
		return
	}

	st_int, ok := result.(starlark.Int)
	if !ok {
		err = errResult
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = errRange
		return
	}

	return
}
