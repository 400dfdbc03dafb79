package compiler

import (
	"strconv"

	"github.com/cwbudde/latc/internal/errors"
	"github.com/cwbudde/latc/internal/lexer"
	"github.com/cwbudde/latc/internal/scope"
	"github.com/cwbudde/latc/internal/types"
)

// parseExpr is the precedence-climbing entry point: it parses a unary
// operand then consumes infix operators whose precedence is >= minPrec,
// recursing at prec+1 for left-associative binding. The expression's
// static type is never returned directly -- every production pushes
// its result onto ctx.types, which is the single source of truth an
// enclosing production pops from.
func (p *Parser) parseExpr(minPrec int) string {
	code := p.parseUnary()
	for {
		prec, ok := binPrec[p.curToken.Type]
		if !ok || prec < minPrec {
			break
		}
		opTok := p.curToken
		p.nextToken()
		rightCode := p.parseExpr(prec + 1)
		opCode, swap := p.applyBinaryOp(opTok)
		if swap {
			code = rightCode + code + opCode
		} else {
			code = code + rightCode + opCode
		}
	}
	return code
}

// parseUnary handles prefix `-`/`!` and the `(T) unary` cast
// production, falling through to parsePrimary otherwise.
func (p *Parser) parseUnary() string {
	switch {
	case p.curToken.Type == lexer.MINUS:
		opTok := p.curToken
		p.nextToken()
		operand := p.parseUnary()
		return operand + p.applyUnaryMinus(opTok)
	case p.curToken.Type == lexer.NOT:
		opTok := p.curToken
		p.nextToken()
		operand := p.parseUnary()
		return operand + p.applyNot(opTok)
	case p.isCastAhead():
		return p.parseCast()
	}
	return p.parsePrimary()
}

func (p *Parser) parseCast() string {
	openTok := p.expect(lexer.LPAREN)
	targetPrim := p.parseBaseType()
	p.expect(lexer.RPAREN)
	operand := p.parseUnary()
	srcType, _ := p.ctx.types.Pop()
	if !srcType.IsPrimitive() {
		p.fatalf(errors.TypeMismatch, openTok.Pos, "cannot cast %s to %s", srcType, targetPrim)
	}
	op, ok := castOpcode(srcType.Prim(), targetPrim)
	if !ok {
		p.fatalf(errors.TypeMismatch, openTok.Pos, "no cast from %s to %s", srcType.Prim(), targetPrim)
	}
	p.ctx.types.Push(types.NewPrimitive(targetPrim), openTok.Pos.Line)
	return operand + op
}

// castOpcode implements the cast row: opcode =
// ITOF/FTOI/ATOI/ATOF/ITOS (first half = source primitive prefix,
// second half = target primitive suffix). Identity cast emits nothing.
func castOpcode(src, dst types.Prim) (string, bool) {
	if src == dst {
		return "", true
	}
	switch {
	case src == types.Integer && dst == types.Float:
		return "ITOF\n", true
	case src == types.Float && dst == types.Integer:
		return "FTOI\n", true
	case src == types.Filum && dst == types.Integer:
		return "ATOI\n", true
	case src == types.Filum && dst == types.Float:
		return "ATOF\n", true
	case src == types.Integer && dst == types.Filum:
		return "ITOS\n", true
	}
	return "", false
}

func (p *Parser) parsePrimary() string {
	tok := p.curToken
	switch tok.Type {
	case lexer.INT:
		p.nextToken()
		p.ctx.types.Push(types.IntegerType, tok.Pos.Line)
		return "PUSHI " + tok.Literal + "\n"
	case lexer.FLOAT:
		p.nextToken()
		p.ctx.types.Push(types.FloatType, tok.Pos.Line)
		return "PUSHF " + tok.Literal + "\n"
	case lexer.STRING:
		p.nextToken()
		p.ctx.types.Push(types.FilumType, tok.Pos.Line)
		return "PUSHS " + tok.Literal + "\n"
	case lexer.KW_READI, lexer.KW_READF, lexer.KW_READS:
		return p.parseReadExpr()
	case lexer.LPAREN:
		p.nextToken()
		code := p.parseExpr(precLowest)
		p.expect(lexer.RPAREN)
		return code
	case lexer.IDENT:
		return p.parseIdentExpr()
	}
	p.fatalf(errors.SyntaxError, tok.Pos, "unexpected token %s in expression", tok.Type)
	return ""
}

func (p *Parser) parseReadExpr() string {
	tok := p.curToken
	p.nextToken()
	p.expect(lexer.LPAREN)
	p.expect(lexer.RPAREN)
	switch tok.Type {
	case lexer.KW_READI:
		p.ctx.types.Push(types.IntegerType, tok.Pos.Line)
		return "READ\nATOI\n"
	case lexer.KW_READF:
		p.ctx.types.Push(types.FloatType, tok.Pos.Line)
		return "READ\nATOF\n"
	default:
		p.ctx.types.Push(types.FilumType, tok.Pos.Line)
		return "READ\n"
	}
}

// parseIdentExpr handles a bare identifier reference, a call `f(...)`,
// or an index `x[i]`.
func (p *Parser) parseIdentExpr() string {
	nameTok := p.curToken
	name := nameTok.Literal
	p.nextToken()

	if p.curToken.Type == lexer.LPAREN {
		return p.parseCallExpr(name, nameTok)
	}

	sym, ownerInFn, _, ok := p.ctx.scopes.Lookup(name)
	if !ok {
		p.fatalf(errors.UndeclaredIdentifier, nameTok.Pos, "undeclared identifier %q", name)
	}

	if p.curToken.Type == lexer.LBRACK {
		return p.parseIndexExpr(sym, ownerInFn, nameTok)
	}

	if sym.Type.IsVector() {
		p.fatalf(errors.IllegalIndexing, nameTok.Pos, "array %q must be indexed", name)
	}
	if sym.Type.IsPointer() && !sym.Initialized {
		p.fatalf(errors.UninitializedPointer, nameTok.Pos, "pointer %q used before initialization", name)
	}

	p.ctx.types.Push(sym.Type, nameTok.Pos.Line)
	return p.loadScalarCode(sym, ownerInFn)
}

// parseIndexExpr handles a read of x[i] where x is a vector or
// pointer: indexed access requires an integer index and yields the
// element type.
func (p *Parser) parseIndexExpr(sym *scope.Symbol, ownerInFn bool, nameTok lexer.Token) string {
	if !sym.Type.IsVector() && !sym.Type.IsPointer() {
		p.fatalf(errors.IllegalIndexing, nameTok.Pos, "%q is not indexable", sym.Name)
	}
	if sym.Type.IsPointer() && !sym.Initialized {
		p.fatalf(errors.UninitializedPointer, nameTok.Pos, "pointer %q used before initialization", sym.Name)
	}
	p.expect(lexer.LBRACK)
	idxCode := p.parseExpr(precLowest)
	idxType, _ := p.ctx.types.Pop()
	if !idxType.Equal(types.IntegerType) {
		p.fatalf(errors.IllegalIndexing, nameTok.Pos, "index must be integer, got %s", idxType)
	}
	p.expect(lexer.RBRACK)

	addr := p.baseAddressCode(sym, ownerInFn)
	elem := types.NewPrimitive(sym.Type.Elem())
	p.ctx.types.Push(elem, nameTok.Pos.Line)
	return addr + idxCode + "PADD\nLOAD 0\n"
}

// parseCallExpr handles `f(args)`: resolve f, emit the return-slot
// placeholder before the arguments if f returns a value, validate
// arity and argument types against the type stack, and emit the
// call/cleanup sequence.
func (p *Parser) parseCallExpr(name string, nameTok lexer.Token) string {
	fd, ok := p.ctx.funcs.Lookup(name)
	if !ok {
		p.fatalf(errors.UndeclaredIdentifier, nameTok.Pos, "call to undeclared function %q", name)
	}

	code := ""
	if fd.OutputType != nil {
		code += "PUSHI -69\n"
	}

	p.expect(lexer.LPAREN)
	p.ctx.pushCallArgs()
	if p.curToken.Type != lexer.RPAREN {
		code += p.parseExpr(precLowest)
		p.ctx.countCallArg()
		for p.curToken.Type == lexer.COMMA {
			p.nextToken()
			code += p.parseExpr(precLowest)
			p.ctx.countCallArg()
		}
	}
	p.expect(lexer.RPAREN)
	argc := p.ctx.popCallArgs()

	if argc != len(fd.InputTypes) {
		p.fatalf(errors.ArityMismatch, nameTok.Pos, "function %q expects %d argument(s), got %d", name, len(fd.InputTypes), argc)
	}
	got := p.ctx.types.PopN(argc)
	for i, want := range fd.InputTypes {
		if !got[i].Equal(want) {
			p.fatalf(errors.TypeMismatch, nameTok.Pos, "argument %d of %q: expected %s, got %s", i+1, name, want, got[i])
		}
	}
	if fd.OutputType != nil {
		p.ctx.types.Push(*fd.OutputType, nameTok.Pos.Line)
	}

	code += "PUSHA " + MungeName(name) + "\n"
	code += "CALL\n"
	code += "POP " + strconv.Itoa(argc) + "\n"
	return code
}
