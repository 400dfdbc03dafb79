package compiler

import (
	"fmt"
	"strconv"

	"github.com/cwbudde/latc/internal/errors"
	"github.com/cwbudde/latc/internal/lexer"
	"github.com/cwbudde/latc/internal/scope"
	"github.com/cwbudde/latc/internal/types"
)

// Precedence levels for the expression grammar, loosest to tightest:
// or < and < eq/neq < relational < additive < multiplicative < unary <
// primary.
const (
	precLowest = iota
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
)

var binPrec = map[lexer.TokenType]int{
	lexer.OR_OR:    precOr,
	lexer.AND_AND:  precAnd,
	lexer.EQ_EQ:    precEquality,
	lexer.NOT_EQ:   precEquality,
	lexer.LT:       precRelational,
	lexer.GT:       precRelational,
	lexer.LT_EQ:    precRelational,
	lexer.GT_EQ:    precRelational,
	lexer.PLUS:     precAdditive,
	lexer.MINUS:    precAdditive,
	lexer.STAR:     precMultiplicative,
	lexer.SLASH:    precMultiplicative,
	lexer.PERCENT:  precMultiplicative,
}

// Parser is the grammar-directed reduction driver: it owns the token
// stream and the single compile-session ctx threaded through every
// production.
type Parser struct {
	l    *lexer.Lexer
	ctx  *ctx
	src  string
	file string

	curToken, peekToken lexer.Token
	seenLexErrors       int
}

// bail unwinds the parser to Compile's recover on the first fatal
// diagnostic, implementing a single-error compilation model. This
// mirrors go/parser's own bailout-via-panic pattern for recursive
// descent.
type bail struct {
	err *errors.CompilerError
}

func newParser(source, file string) *Parser {
	p := &Parser{l: lexer.New(source), ctx: newCtx(), src: source, file: file}
	p.nextToken()
	p.nextToken()
	return p
}

// Compile runs the full pipeline over source and returns the emitted
// EWVM assembly, or the first fatal CompilerError encountered.
func Compile(source, file string) (asm string, err *errors.CompilerError) {
	p := newParser(source, file)
	defer func() {
		if r := recover(); r != nil {
			if b, ok := r.(bail); ok {
				err = b.err
				return
			}
			panic(r)
		}
	}()
	asm = p.parseProgram()
	return asm, nil
}

// Stats reports a handful of pipeline counters gathered while
// compiling, for `latc compile -v` to print.
type Stats struct {
	Functions   int
	GlobalCells int
	Loops       int
	IfChains    int
}

// CompileWithStats behaves like Compile but additionally returns
// counters accumulated on the compile session.
func CompileWithStats(source, file string) (asm string, stats Stats, err *errors.CompilerError) {
	p := newParser(source, file)
	defer func() {
		if r := recover(); r != nil {
			if b, ok := r.(bail); ok {
				err = b.err
				return
			}
			panic(r)
		}
	}()
	asm = p.parseProgram()
	stats = Stats{
		Functions:   p.ctx.funcs.Len(),
		GlobalCells: p.ctx.scopes.GlobalCount,
		Loops:       p.ctx.loopCount,
		IfChains:    p.ctx.relIfCount,
	}
	return asm, stats, nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	if errs := p.l.Errors(); len(errs) > p.seenLexErrors {
		e := errs[p.seenLexErrors]
		p.seenLexErrors = len(errs)
		p.fatalf(errors.LexError, e.Pos, "%s", e.Message)
	}
}

// peek2 looks one token past peekToken, for the `(` type `)` cast
// lookahead that distinguishes a cast from a parenthesized expression.
func (p *Parser) peek2() lexer.Token {
	return p.l.Peek(0)
}

func (p *Parser) fatalf(kind errors.Kind, pos lexer.Position, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	panic(bail{errors.NewCompilerError(kind, pos, msg, p.src, p.file)})
}

func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	if p.curToken.Type != tt {
		p.fatalf(errors.SyntaxError, p.curToken.Pos, "expected %s, got %s %q", tt, p.curToken.Type, p.curToken.Literal)
	}
	tok := p.curToken
	p.nextToken()
	return tok
}

func (p *Parser) expectIntLiteral() int {
	tok := p.expect(lexer.INT)
	n, err := strconv.Atoi(tok.Literal)
	if err != nil {
		p.fatalf(errors.SyntaxError, tok.Pos, "invalid integer literal %q", tok.Literal)
	}
	return n
}

func isTypeKeyword(tt lexer.TokenType) bool {
	return tt == lexer.KW_INTEGER || tt == lexer.KW_FLOAT || tt == lexer.KW_FILUM
}

// isCastAhead reports whether curToken starts a `(` type `)` cast
// rather than a parenthesized sub-expression: it requires a type
// keyword immediately inside the parens followed directly by `)`.
func (p *Parser) isCastAhead() bool {
	return p.curToken.Type == lexer.LPAREN && isTypeKeyword(p.peekToken.Type) && p.peek2().Type == lexer.RPAREN
}

// parseProgram drives `prog -> global_decls functions`, accepting
// globals and function definitions interleaved in source order, then
// emits the program prologue/epilogue around the accumulated function
// bodies.
func (p *Parser) parseProgram() string {
	globals := ""
	functions := ""

	for p.curToken.Type != lexer.EOF {
		switch p.curToken.Type {
		case lexer.KW_FUNC:
			functions += p.parseFunctionDecl()
		case lexer.IDENT:
			globals += p.parseDeclarationStatement()
		default:
			p.fatalf(errors.SyntaxError, p.curToken.Pos, "expected a declaration or function at top level, got %s", p.curToken.Type)
		}
	}

	if _, ok := p.ctx.funcs.Lookup("main"); !ok {
		p.fatalf(errors.MissingMain, p.curToken.Pos, "program has no main function")
	}
	if p.ctx.types.Len() != 0 {
		p.fatalf(errors.InternalAssertion, p.curToken.Pos, "type stack not empty at end of program (%d entries)", p.ctx.types.Len())
	}

	var out string
	out += globals
	out += "start\n"
	out += "PUSHA " + MungeName("main") + "\n"
	out += "CALL\n"
	out += "stop\n"
	out += functions
	return out
}

// parseFunctionDecl parses `func name(params) -> T { body }`.
// Every `func` carries a body and is registered as both declared and
// defined on the spot, so a second `func` with an already-used name is
// rejected as a redefinition. There is no body-less forward
// declaration form.
func (p *Parser) parseFunctionDecl() string {
	p.expect(lexer.KW_FUNC)
	nameTok := p.expect(lexer.IDENT)
	name := nameTok.Literal

	if existing, ok := p.ctx.funcs.Lookup(name); ok && existing.Defined {
		p.fatalf(errors.RedefinedFunction, nameTok.Pos, "function %q already defined", name)
	}

	p.expect(lexer.LPAREN)
	var inputTypes []types.Type
	var paramNames []string
	if p.curToken.Type != lexer.RPAREN {
		n, t := p.parseParam()
		paramNames = append(paramNames, n)
		inputTypes = append(inputTypes, t)
		for p.curToken.Type == lexer.COMMA {
			p.nextToken()
			n, t := p.parseParam()
			paramNames = append(paramNames, n)
			inputTypes = append(inputTypes, t)
		}
	}
	p.expect(lexer.RPAREN)

	var outputType *types.Type
	if p.curToken.Type == lexer.ARROW {
		p.nextToken()
		dt := p.parseDeclType()
		outputType = &dt.t
	}

	fd := &FuncData{Name: name, InputTypes: inputTypes, OutputType: outputType, Declared: true, Defined: true}
	p.ctx.funcs.Declare(fd)
	p.ctx.currentFunction = fd

	p.expect(lexer.LBRACE)
	p.ctx.scopes.StartFunction(name)

	prologue := ""
	for i, n := range paramNames {
		k := i + 1
		sym, ok := p.ctx.scopes.Declare(n, inputTypes[i], inputTypes[i].SizeInCells())
		if !ok {
			p.fatalf(errors.RedeclaredIdentifier, nameTok.Pos, "parameter %q already declared", n)
		}
		sym.Initialized = true
		prologue += "PUSHI 0\nPUSHFP\nLOAD -" + strconv.Itoa(k) + "\nSTOREL " + strconv.Itoa(k-1) + "\n"
	}

	body := p.parseStatements()
	body += p.ctx.scopes.End()
	p.expect(lexer.RBRACE)

	p.ctx.currentFunction = nil

	full := prologue + body
	if len(full) < 7 || full[len(full)-7:] != "RETURN\n" {
		full += "RETURN\n"
	}

	return MungeName(name) + ":\n" + full
}

func (p *Parser) parseParam() (string, types.Type) {
	nameTok := p.expect(lexer.IDENT)
	p.expect(lexer.COLON)
	dt := p.parseDeclType()
	return nameTok.Literal, dt.t
}

// declType is parseDeclType's result: the resolved Type plus, for a
// sized vector literal type, the literal size that was spelled out.
type declType struct {
	t     types.Type
	sized bool
	size  int
}

func (p *Parser) parseBaseType() types.Prim {
	switch p.curToken.Type {
	case lexer.KW_INTEGER:
		p.nextToken()
		return types.Integer
	case lexer.KW_FLOAT:
		p.nextToken()
		return types.Float
	case lexer.KW_FILUM:
		p.nextToken()
		return types.Filum
	}
	p.fatalf(errors.SyntaxError, p.curToken.Pos, "expected a type, got %s", p.curToken.Type)
	return types.Integer
}

// parseDeclType parses the type grammar following a `:` -- a bare
// primitive, a `&T` pointer, or a `vec<T>`/`vec<T>[N]` vector.
func (p *Parser) parseDeclType() declType {
	switch p.curToken.Type {
	case lexer.AMP:
		p.nextToken()
		prim := p.parseBaseType()
		return declType{t: types.NewPointer(prim)}
	case lexer.KW_VEC:
		p.nextToken()
		p.expect(lexer.LT)
		prim := p.parseBaseType()
		p.expect(lexer.GT)
		if p.curToken.Type == lexer.LBRACK {
			p.nextToken()
			n := p.expectIntLiteral()
			p.expect(lexer.RBRACK)
			return declType{t: types.NewVector(prim, n), sized: true, size: n}
		}
		return declType{t: types.NewVector(prim, 0)}
	default:
		prim := p.parseBaseType()
		return declType{t: types.NewPrimitive(prim)}
	}
}

// baseAddressCode pushes the address a vector or pointer symbol's
// element 0 lives at: the segment base (global or frame pointer)
// offset by the symbol's slot, or -- for a pointer symbol -- the
// address value stored *in* that slot.
func (p *Parser) baseAddressCode(sym *scope.Symbol, ownerInFunction bool) string {
	base := "PUSHGP\n"
	if ownerInFunction {
		base = "PUSHFP\n"
	}
	if sym.Type.IsPointer() {
		return base + "LOAD " + strconv.Itoa(sym.Lo) + "\n"
	}
	return base + "PUSHI " + strconv.Itoa(sym.Lo) + "\nPADD\n"
}

func (p *Parser) loadScalarCode(sym *scope.Symbol, ownerInFunction bool) string {
	base := "PUSHGP\n"
	if ownerInFunction {
		base = "PUSHFP\n"
	}
	return base + "LOAD " + strconv.Itoa(sym.Lo) + "\n"
}

func (p *Parser) storeScalarCode(sym *scope.Symbol, ownerInFunction bool) string {
	if ownerInFunction {
		return "STOREL " + strconv.Itoa(sym.Lo) + "\n"
	}
	return "STOREG " + strconv.Itoa(sym.Lo) + "\n"
}
