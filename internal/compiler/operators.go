package compiler

import (
	"github.com/cwbudde/latc/internal/errors"
	"github.com/cwbudde/latc/internal/lexer"
	"github.com/cwbudde/latc/internal/types"
)

// applyUnaryMinus pops one operand type and implements the unary `-`
// row: integer negates via `PUSHI -1; MUL`, float via `PUSHF -1.0;
// FMUL`.
func (p *Parser) applyUnaryMinus(opTok lexer.Token) string {
	t, _ := p.ctx.types.Pop()
	switch {
	case t.Equal(types.IntegerType):
		p.ctx.types.Push(types.IntegerType, opTok.Pos.Line)
		return "PUSHI -1\nMUL\n"
	case t.Equal(types.FloatType):
		p.ctx.types.Push(types.FloatType, opTok.Pos.Line)
		return "PUSHF -1.0\nFMUL\n"
	}
	p.fatalf(errors.TypeMismatch, opTok.Pos, "unary - requires integer or float, got %s", t)
	return ""
}

// applyNot implements the unary `!` row: accepts integer or float,
// result same type, emits NOT.
func (p *Parser) applyNot(opTok lexer.Token) string {
	t, _ := p.ctx.types.Pop()
	if !t.Equal(types.IntegerType) && !t.Equal(types.FloatType) {
		p.fatalf(errors.TypeMismatch, opTok.Pos, "unary ! requires integer or float, got %s", t)
	}
	p.ctx.types.Push(t, opTok.Pos.Line)
	return "NOT\n"
}

// applyBinaryOp pops the right then left operand type (mirroring VM
// stack order: the right operand was pushed last), applies the
// operator table, pushes the result type, and returns the opcode
// fragment plus whether the caller must assemble the operand code in
// swapped (right, left) order -- true only for filum `+`, since CONCAT
// expects its operands in swapped order and there is no VM SWAP
// instruction to reorder them after the fact.
func (p *Parser) applyBinaryOp(opTok lexer.Token) (string, bool) {
	rt, _ := p.ctx.types.Pop()
	lt, _ := p.ctx.types.Pop()

	switch opTok.Type {
	case lexer.OR_OR:
		p.requireBoth(lt, rt, types.IntegerType, opTok)
		p.ctx.types.Push(types.IntegerType, opTok.Pos.Line)
		return "OR\n", false
	case lexer.AND_AND:
		p.requireBoth(lt, rt, types.IntegerType, opTok)
		p.ctx.types.Push(types.IntegerType, opTok.Pos.Line)
		return "AND\n", false
	case lexer.EQ_EQ, lexer.NOT_EQ:
		p.requireEqualNotFilum(lt, rt, opTok)
		p.ctx.types.Push(types.IntegerType, opTok.Pos.Line)
		if opTok.Type == lexer.EQ_EQ {
			return "EQUAL\n", false
		}
		return "EQUAL\nNOT\n", false
	case lexer.LT, lexer.GT, lexer.LT_EQ, lexer.GT_EQ:
		return p.applyRelational(opTok, lt, rt), false
	case lexer.PLUS:
		return p.applyPlus(opTok, lt, rt)
	case lexer.MINUS:
		return p.applyMinus(opTok, lt, rt), false
	case lexer.STAR:
		return p.applyMulDiv(opTok, lt, rt, "MUL\n", "FMUL\n"), false
	case lexer.SLASH:
		return p.applyMulDiv(opTok, lt, rt, "DIV\n", "FDIV\n"), false
	case lexer.PERCENT:
		p.requireBoth(lt, rt, types.IntegerType, opTok)
		p.ctx.types.Push(types.IntegerType, opTok.Pos.Line)
		return "MOD\n", false
	}

	p.fatalf(errors.InternalAssertion, opTok.Pos, "unhandled binary operator %s", opTok.Type)
	return "", false
}

func (p *Parser) requireBoth(lt, rt, want types.Type, opTok lexer.Token) {
	if !lt.Equal(want) || !rt.Equal(want) {
		p.fatalf(errors.TypeMismatch, opTok.Pos, "operator %s requires (%s,%s), got (%s,%s)", opTok.Type, want, want, lt, rt)
	}
}

func (p *Parser) requireEqualNotFilum(lt, rt types.Type, opTok lexer.Token) {
	if !lt.Equal(rt) {
		p.fatalf(errors.TypeMismatch, opTok.Pos, "operator %s requires matching operand types, got %s and %s", opTok.Type, lt, rt)
	}
	if lt.IsPrimitive() && lt.Prim() == types.Filum {
		p.fatalf(errors.TypeMismatch, opTok.Pos, "operator %s does not accept filum operands", opTok.Type)
	}
}

var relOpcode = map[lexer.TokenType]string{
	lexer.LT:    "INF",
	lexer.GT:    "SUP",
	lexer.LT_EQ: "INFEQ",
	lexer.GT_EQ: "SUPEQ",
}

// applyRelational implements the comparison row: equal, non-filum
// operand types; float operands use the F-prefixed opcode and an
// appended FTOI to land a proper integer boolean.
func (p *Parser) applyRelational(opTok lexer.Token, lt, rt types.Type) string {
	p.requireEqualNotFilum(lt, rt, opTok)
	base := relOpcode[opTok.Type]
	p.ctx.types.Push(types.IntegerType, opTok.Pos.Line)
	if lt.IsPrimitive() && lt.Prim() == types.Float {
		return "F" + base + "\nFTOI\n"
	}
	return base + "\n"
}

// applyPlus implements the `+` row: int+int, float+float, pointer+int
// (PADD), and filum+filum (CONCAT, operands swapped).
func (p *Parser) applyPlus(opTok lexer.Token, lt, rt types.Type) (string, bool) {
	switch {
	case lt.Equal(types.IntegerType) && rt.Equal(types.IntegerType):
		p.ctx.types.Push(types.IntegerType, opTok.Pos.Line)
		return "ADD\n", false
	case lt.Equal(types.FloatType) && rt.Equal(types.FloatType):
		p.ctx.types.Push(types.FloatType, opTok.Pos.Line)
		return "FADD\n", false
	case lt.IsPointer() && rt.Equal(types.IntegerType):
		p.ctx.types.Push(lt, opTok.Pos.Line)
		return "PADD\n", false
	case lt.IsPrimitive() && lt.Prim() == types.Filum && rt.IsPrimitive() && rt.Prim() == types.Filum:
		p.ctx.types.Push(types.FilumType, opTok.Pos.Line)
		return "CONCAT\n", true
	}
	p.fatalf(errors.TypeMismatch, opTok.Pos, "operator + does not accept (%s,%s)", lt, rt)
	return "", false
}

// applyMinus implements the `-` row: int-int or pointer-pointer both
// yield int via SUB; float-float yields float via FSUB; pointer-int
// yields pointer via negate-then-PADD.
func (p *Parser) applyMinus(opTok lexer.Token, lt, rt types.Type) string {
	switch {
	case lt.Equal(types.IntegerType) && rt.Equal(types.IntegerType):
		p.ctx.types.Push(types.IntegerType, opTok.Pos.Line)
		return "SUB\n"
	case lt.IsPointer() && rt.IsPointer() && lt.Equal(rt):
		p.ctx.types.Push(types.IntegerType, opTok.Pos.Line)
		return "SUB\n"
	case lt.Equal(types.FloatType) && rt.Equal(types.FloatType):
		p.ctx.types.Push(types.FloatType, opTok.Pos.Line)
		return "FSUB\n"
	case lt.IsPointer() && rt.Equal(types.IntegerType):
		p.ctx.types.Push(lt, opTok.Pos.Line)
		return "PUSHI -1\nMUL\nPADD\n"
	}
	p.fatalf(errors.TypeMismatch, opTok.Pos, "operator - does not accept (%s,%s)", lt, rt)
	return ""
}

func (p *Parser) applyMulDiv(opTok lexer.Token, lt, rt types.Type, intOp, floatOp string) string {
	switch {
	case lt.Equal(types.IntegerType) && rt.Equal(types.IntegerType):
		p.ctx.types.Push(types.IntegerType, opTok.Pos.Line)
		return intOp
	case lt.Equal(types.FloatType) && rt.Equal(types.FloatType):
		p.ctx.types.Push(types.FloatType, opTok.Pos.Line)
		return floatOp
	}
	p.fatalf(errors.TypeMismatch, opTok.Pos, "operator %s does not accept (%s,%s)", opTok.Type, lt, rt)
	return ""
}
