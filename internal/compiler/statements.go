package compiler

import (
	"strconv"

	"github.com/cwbudde/latc/internal/errors"
	"github.com/cwbudde/latc/internal/lexer"
	"github.com/cwbudde/latc/internal/scope"
	"github.com/cwbudde/latc/internal/types"
)

// parseStatements parses statements until a closing brace or EOF,
// concatenating their emitted fragments left-to-right, bottom-up.
func (p *Parser) parseStatements() string {
	var code string
	for p.curToken.Type != lexer.RBRACE && p.curToken.Type != lexer.EOF {
		code += p.parseStatement()
	}
	return code
}

// parseBlock parses a `{ stmts }` block as its own nested scope.
func (p *Parser) parseBlock(scopeName string) string {
	p.expect(lexer.LBRACE)
	p.ctx.scopes.Start(scopeName)
	code := p.parseStatements()
	code += p.ctx.scopes.End()
	p.expect(lexer.RBRACE)
	return code
}

func (p *Parser) parseStatement() string {
	switch p.curToken.Type {
	case lexer.KW_PRINT:
		return p.parsePrintStmt()
	case lexer.KW_IF:
		return p.parseIfStmt()
	case lexer.KW_WHILE:
		return p.parseWhileStmt()
	case lexer.KW_DO:
		return p.parseDoWhileStmt()
	case lexer.KW_FOR:
		return p.parseForStmt()
	case lexer.KW_MATCH:
		return p.parseMatchStmt()
	case lexer.KW_BREAK:
		return p.parseBreakStmt()
	case lexer.KW_CONTINUE:
		return p.parseContinueStmt()
	case lexer.KW_RETURN:
		return p.parseReturnStmt()
	case lexer.LBRACE:
		return p.parseBlock("block")
	case lexer.SEMICOLON:
		p.nextToken()
		return ""
	case lexer.IDENT:
		return p.parseIdentStatement()
	}
	p.fatalf(errors.SyntaxError, p.curToken.Pos, "unexpected token %s at start of statement", p.curToken.Type)
	return ""
}

func defaultPush(pr types.Prim) string {
	switch pr {
	case types.Integer:
		return "PUSHI 0\n"
	case types.Float:
		return "PUSHF 0.0\n"
	default:
		return "PUSHS \"\"\n"
	}
}

// parseDeclarationStatement handles `name : type [= init] ;` at either
// global or local scope.
func (p *Parser) parseDeclarationStatement() string {
	nameTok := p.expect(lexer.IDENT)
	p.expect(lexer.COLON)
	dt := p.parseDeclType()

	hasInit := p.curToken.Type == lexer.ASSIGN
	if hasInit {
		p.nextToken()
	}

	switch {
	case dt.t.IsVector():
		return p.finishVectorDecl(nameTok, dt, hasInit, true)
	case dt.t.IsPointer():
		return p.finishPointerDecl(nameTok, dt, hasInit, true)
	default:
		return p.finishScalarDecl(nameTok, dt, hasInit, true)
	}
}

func (p *Parser) declareOrFatal(nameTok lexer.Token, t types.Type, size int) *scope.Symbol {
	sym, ok := p.ctx.scopes.Declare(nameTok.Literal, t, size)
	if !ok {
		p.fatalf(errors.RedeclaredIdentifier, nameTok.Pos, "%q already declared in this scope", nameTok.Literal)
	}
	return sym
}

func (p *Parser) finishScalarDecl(nameTok lexer.Token, dt declType, hasInit, semi bool) string {
	var code string
	if hasInit {
		exprTok := p.curToken
		exprCode := p.parseExpr(precLowest)
		t, _ := p.ctx.types.Pop()
		if !t.Equal(dt.t) {
			p.fatalf(errors.TypeMismatch, exprTok.Pos, "declaration of %q: expected %s, got %s", nameTok.Literal, dt.t, t)
		}
		code = exprCode
	} else {
		code = defaultPush(dt.t.Prim())
	}
	if semi {
		p.expect(lexer.SEMICOLON)
	}
	sym := p.declareOrFatal(nameTok, dt.t, 1)
	sym.Initialized = true
	return code
}

// finishPointerDecl implements pointer declaration: uninitialized
// `x: &T` materializes a self-address; `x: &T = expr` requires expr to
// be `&T` or a decaying `vec<T>`.
func (p *Parser) finishPointerDecl(nameTok lexer.Token, dt declType, hasInit, semi bool) string {
	elem := dt.t.Elem()
	if hasInit {
		exprCode := p.parsePointerInitExpr(elem, nameTok)
		p.ctx.types.Pop()
		if semi {
			p.expect(lexer.SEMICOLON)
		}
		sym := p.declareOrFatal(nameTok, dt.t, 1)
		sym.Initialized = true
		return exprCode
	}

	if semi {
		p.expect(lexer.SEMICOLON)
	}
	sym := p.declareOrFatal(nameTok, dt.t, 1)
	sym.Initialized = false
	inFn := p.ctx.scopes.InFunction()
	base := "PUSHGP\n"
	if inFn {
		base = "PUSHFP\n"
	}
	selfAddr := base + "PUSHI " + strconv.Itoa(sym.Lo) + "\nPADD\n"
	store := p.storeScalarCode(sym, inFn)
	return "PUSHI 0\n" + selfAddr + store
}

// parsePointerInitExpr parses the right-hand side of `x: &T = ...`: a
// bare vector identifier of element T decays to its base address;
// anything else must evaluate to `&T` directly.
func (p *Parser) parsePointerInitExpr(elem types.Prim, declTok lexer.Token) string {
	if p.curToken.Type == lexer.IDENT && p.peekToken.Type != lexer.LBRACK && p.peekToken.Type != lexer.LPAREN {
		nameTok := p.curToken
		if sym, ownerInFn, _, ok := p.ctx.scopes.Lookup(nameTok.Literal); ok && sym.Type.IsVector() && sym.Type.Elem() == elem {
			p.nextToken()
			p.ctx.types.Push(types.NewPointer(elem), nameTok.Pos.Line)
			return p.baseAddressCode(sym, ownerInFn)
		}
	}
	code := p.parseExpr(precLowest)
	t, _ := p.ctx.types.Pop()
	want := types.NewPointer(elem)
	if !t.Equal(want) {
		p.fatalf(errors.TypeMismatch, declTok.Pos, "pointer initializer: expected %s or vec<%s>, got %s", want, elem, t)
	}
	p.ctx.types.Push(t, declTok.Pos.Line)
	return code
}

// finishVectorDecl implements vector declaration: sized no-init
// reservation, array-literal init, and integer range init (range init
// is wired for both the global and local declaration paths).
func (p *Parser) finishVectorDecl(nameTok lexer.Token, dt declType, hasInit, semi bool) string {
	elem := dt.t.Elem()

	if !hasInit {
		if !dt.sized {
			p.fatalf(errors.SyntaxError, nameTok.Pos, "vector %q needs an explicit size or an initializer", nameTok.Literal)
		}
		if semi {
			p.expect(lexer.SEMICOLON)
		}
		sym := p.declareOrFatal(nameTok, types.NewVector(elem, dt.size), dt.size)
		sym.Initialized = true
		if elem == types.Integer {
			return "PUSHN " + strconv.Itoa(dt.size) + "\n"
		}
		var code string
		for i := 0; i < dt.size; i++ {
			code += defaultPush(elem)
		}
		return code
	}

	if p.curToken.Type != lexer.LBRACK {
		p.fatalf(errors.SyntaxError, p.curToken.Pos, "expected [ to start a vector literal, got %s", p.curToken.Type)
	}
	p.nextToken()

	if p.curToken.Type == lexer.INT && p.peekToken.Type == lexer.ELLIPSIS {
		return p.finishVectorRangeInit(nameTok, elem, dt, semi)
	}
	return p.finishVectorListInit(nameTok, elem, dt, semi)
}

func (p *Parser) finishVectorListInit(nameTok lexer.Token, elem types.Prim, dt declType, semi bool) string {
	var code string
	n := 0
	p.ctx.arrayAssignItems = 0
	if p.curToken.Type != lexer.RBRACK {
		for {
			elemTok := p.curToken
			elemCode := p.parseExpr(precLowest)
			t, _ := p.ctx.types.Pop()
			if !t.Equal(types.NewPrimitive(elem)) {
				p.fatalf(errors.TypeMismatch, elemTok.Pos, "vector element %d: expected %s, got %s", n+1, elem, t)
			}
			code += elemCode
			n++
			p.ctx.arrayAssignItems = n
			if p.curToken.Type != lexer.COMMA {
				break
			}
			p.nextToken()
		}
	}
	p.expect(lexer.RBRACK)
	if semi {
		p.expect(lexer.SEMICOLON)
	}
	if dt.sized && dt.size != n {
		p.fatalf(errors.TypeMismatch, nameTok.Pos, "vector %q declared with size %d but initializer has %d element(s)", nameTok.Literal, dt.size, n)
	}
	sym := p.declareOrFatal(nameTok, types.NewVector(elem, n), n)
	sym.Initialized = true
	p.ctx.arrayAssignItems = 0
	return code
}

func (p *Parser) finishVectorRangeInit(nameTok lexer.Token, elem types.Prim, dt declType, semi bool) string {
	if elem != types.Integer {
		p.fatalf(errors.TypeMismatch, nameTok.Pos, "range initializer is only valid for vec<integer>")
	}
	aTok := p.curToken
	a := p.expectIntLiteral()
	p.expect(lexer.ELLIPSIS)
	b := p.expectIntLiteral()
	p.expect(lexer.RBRACK)
	if semi {
		p.expect(lexer.SEMICOLON)
	}
	if b < a {
		p.fatalf(errors.TypeMismatch, aTok.Pos, "range [%d...%d] is empty or descending", a, b)
	}
	n := b - a + 1
	if dt.sized && dt.size != n {
		p.fatalf(errors.TypeMismatch, nameTok.Pos, "vector %q declared with size %d but range has %d element(s)", nameTok.Literal, dt.size, n)
	}
	sym := p.declareOrFatal(nameTok, types.NewVector(elem, n), n)
	sym.Initialized = true
	var code string
	for v := a; v <= b; v++ {
		code += "PUSHI " + strconv.Itoa(v) + "\n"
	}
	return code
}

// parseIdentStatement dispatches an identifier-led statement to
// declaration, assignment, or a bare call.
func (p *Parser) parseIdentStatement() string {
	if p.peekToken.Type == lexer.COLON {
		return p.parseDeclarationStatement()
	}

	nameTok := p.curToken
	name := nameTok.Literal
	p.nextToken()

	if p.curToken.Type == lexer.LPAREN {
		fd, ok := p.ctx.funcs.Lookup(name)
		code := p.parseCallExpr(name, nameTok)
		if ok && fd.OutputType != nil {
			p.ctx.types.Pop()
			code += "POP 1\n"
		}
		p.expect(lexer.SEMICOLON)
		return code
	}

	sym, ownerInFn, _, ok := p.ctx.scopes.Lookup(name)
	if !ok {
		p.fatalf(errors.UndeclaredIdentifier, nameTok.Pos, "undeclared identifier %q", name)
	}

	if p.curToken.Type == lexer.LBRACK {
		return p.parseIndexedAssign(sym, ownerInFn, nameTok, true)
	}

	return p.parsePlainAssign(sym, ownerInFn, nameTok, true)
}

func (p *Parser) parsePlainAssign(sym *scope.Symbol, ownerInFn bool, nameTok lexer.Token, semi bool) string {
	p.expect(lexer.ASSIGN)
	if sym.Type.IsVector() {
		p.fatalf(errors.IllegalIndexing, nameTok.Pos, "array %q must be indexed to assign", sym.Name)
	}
	exprTok := p.curToken
	var exprCode string
	if sym.Type.IsPointer() {
		exprCode = p.parsePointerInitExpr(sym.Type.Elem(), exprTok)
	} else {
		exprCode = p.parseExpr(precLowest)
	}
	t, _ := p.ctx.types.Pop()
	if !t.Equal(sym.Type) && !t.DecaysTo(sym.Type) {
		p.fatalf(errors.TypeMismatch, exprTok.Pos, "assignment to %q: expected %s, got %s", sym.Name, sym.Type, t)
	}
	if semi {
		p.expect(lexer.SEMICOLON)
	}
	sym.Initialized = true
	return exprCode + p.storeScalarCode(sym, ownerInFn)
}

func (p *Parser) parseIndexedAssign(sym *scope.Symbol, ownerInFn bool, nameTok lexer.Token, semi bool) string {
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
	p.expect(lexer.ASSIGN)

	elem := types.NewPrimitive(sym.Type.Elem())
	exprTok := p.curToken
	exprCode := p.parseExpr(precLowest)
	vt, _ := p.ctx.types.Pop()
	if !vt.Equal(elem) {
		p.fatalf(errors.TypeMismatch, exprTok.Pos, "assignment to %q[i]: expected %s, got %s", sym.Name, elem, vt)
	}
	if semi {
		p.expect(lexer.SEMICOLON)
	}

	addr := p.baseAddressCode(sym, ownerInFn)
	return exprCode + addr + idxCode + "PADD\nSTORE 0\n"
}

// parsePrintStmt: each argument is pushed then popped into its
// type-specialized WRITE opcode; arrays and pointers are rejected.
func (p *Parser) parsePrintStmt() string {
	p.expect(lexer.KW_PRINT)
	p.expect(lexer.LPAREN)
	var code string
	if p.curToken.Type != lexer.RPAREN {
		code += p.parsePrintArg()
		for p.curToken.Type == lexer.COMMA {
			p.nextToken()
			code += p.parsePrintArg()
		}
	}
	p.expect(lexer.RPAREN)
	p.expect(lexer.SEMICOLON)
	return code
}

func (p *Parser) parsePrintArg() string {
	exprTok := p.curToken
	exprCode := p.parseExpr(precLowest)
	t, _ := p.ctx.types.Pop()
	switch {
	case t.Equal(types.IntegerType):
		return exprCode + "WRITEI\n"
	case t.Equal(types.FloatType):
		return exprCode + "WRITEF\n"
	case t.Equal(types.FilumType):
		return exprCode + "WRITES\n"
	}
	p.fatalf(errors.IllegalIndexing, exprTok.Pos, "print of %s is not implemented", t)
	return ""
}

// parseIfStmt implements the if/else-if/else chain: one rel_if_count
// shared by every arm's JUMP to a common FINISHIF terminator, each
// arm's own if_count naming its own skip label.
func (p *Parser) parseIfStmt() string {
	chain := p.ctx.pushIf()
	p.expect(lexer.KW_IF)
	code := p.parseCondArm(chain.rel, "IFLABEL")
	for p.curToken.Type == lexer.KW_ELSE {
		p.nextToken()
		if p.curToken.Type == lexer.KW_IF {
			p.nextToken()
			code += p.parseCondArm(chain.rel, "ELSEIFLABEL")
			continue
		}
		code += p.parseBlock("else")
		break
	}
	code += "FINISHIF" + strconv.Itoa(chain.rel) + ":\n"
	p.ctx.popIf()
	return code
}

func (p *Parser) parseCondArm(rel int, labelPrefix string) string {
	condTok := p.curToken
	condCode := p.parseExpr(precLowest)
	t, _ := p.ctx.types.Pop()
	if !t.Equal(types.IntegerType) {
		p.fatalf(errors.TypeMismatch, condTok.Pos, "if condition must be integer, got %s", t)
	}
	label := p.ctx.nextIfLabel()
	body := p.parseBlock("if")

	var code string
	code += condCode
	code += "JZ " + labelPrefix + strconv.Itoa(label) + "END\n"
	code += body
	code += "JUMP FINISHIF" + strconv.Itoa(rel) + "\n"
	code += labelPrefix + strconv.Itoa(label) + "END:\n"
	return code
}

// parseWhileStmt implements the while loop emission.
func (p *Parser) parseWhileStmt() string {
	p.expect(lexer.KW_WHILE)
	frame := p.ctx.pushLoop(LoopWhile)
	id := strconv.Itoa(frame.id)

	condTok := p.curToken
	condCode := p.parseExpr(precLowest)
	t, _ := p.ctx.types.Pop()
	if !t.Equal(types.IntegerType) {
		p.fatalf(errors.TypeMismatch, condTok.Pos, "while condition must be integer, got %s", t)
	}

	p.expect(lexer.LBRACE)
	p.ctx.scopes.Start("while")
	body := p.parseStatements()
	popFrag := p.ctx.scopes.End()
	p.expect(lexer.RBRACE)
	p.ctx.popLoop()

	var code string
	code += "LOOP" + id + "START:\n"
	code += condCode
	code += "JZ LOOP" + id + "END\n"
	code += body
	code += "NEXTLOOP" + id + ":\n"
	code += popFrag
	code += "JUMP LOOP" + id + "START\n"
	code += "LOOP" + id + "END:\n"
	return code
}

// parseDoWhileStmt implements the do-while emission; `continue` is
// rejected inside DO by the loop-stack check in parseContinueStmt.
func (p *Parser) parseDoWhileStmt() string {
	p.expect(lexer.KW_DO)
	frame := p.ctx.pushLoop(LoopDo)
	id := strconv.Itoa(frame.id)

	p.expect(lexer.LBRACE)
	p.ctx.scopes.Start("do")
	body := p.parseStatements()
	popFrag := p.ctx.scopes.End()
	p.expect(lexer.RBRACE)

	p.expect(lexer.KW_WHILE)
	condTok := p.curToken
	condCode := p.parseExpr(precLowest)
	t, _ := p.ctx.types.Pop()
	if !t.Equal(types.IntegerType) {
		p.fatalf(errors.TypeMismatch, condTok.Pos, "do-while condition must be integer, got %s", t)
	}
	p.expect(lexer.SEMICOLON)
	p.ctx.popLoop()

	var code string
	code += "LOOP" + id + "START:\n"
	code += body
	code += "NEXTLOOP" + id + ":\n"
	code += popFrag
	code += condCode
	code += "JZ LOOP" + id + "END\n"
	code += "JUMP LOOP" + id + "START\n"
	code += "LOOP" + id + "END:\n"
	return code
}

// parseForStmt implements the for loop: an outer scope for the
// initializers, an inner scope for the body.
func (p *Parser) parseForStmt() string {
	p.expect(lexer.KW_FOR)
	p.expect(lexer.LPAREN)
	p.ctx.scopes.Start("for-init")

	var inits string
	if p.curToken.Type != lexer.SEMICOLON {
		inits += p.parseForInit()
		for p.curToken.Type == lexer.COMMA {
			p.nextToken()
			inits += p.parseForInit()
		}
	}
	p.expect(lexer.SEMICOLON)

	frame := p.ctx.pushLoop(LoopFor)
	id := strconv.Itoa(frame.id)

	var condCode string
	if p.curToken.Type != lexer.SEMICOLON {
		condTok := p.curToken
		condCode = p.parseExpr(precLowest)
		t, _ := p.ctx.types.Pop()
		if !t.Equal(types.IntegerType) {
			p.fatalf(errors.TypeMismatch, condTok.Pos, "for condition must be integer, got %s", t)
		}
	} else {
		condCode = "PUSHI 1\n"
	}
	p.expect(lexer.SEMICOLON)

	var updates string
	if p.curToken.Type != lexer.RPAREN {
		updates += p.parseForUpdate()
		for p.curToken.Type == lexer.COMMA {
			p.nextToken()
			updates += p.parseForUpdate()
		}
	}
	p.expect(lexer.RPAREN)

	p.expect(lexer.LBRACE)
	p.ctx.scopes.Start("for-body")
	body := p.parseStatements()
	innerPop := p.ctx.scopes.End()
	p.expect(lexer.RBRACE)

	p.ctx.popLoop()
	outerPop := p.ctx.scopes.End()

	var code string
	code += inits
	code += "LOOP" + id + "START:\n"
	code += condCode
	code += "JZ LOOP" + id + "END\n"
	code += body
	code += "NEXTLOOP" + id + ":\n"
	code += updates
	code += innerPop
	code += "JUMP LOOP" + id + "START\n"
	code += "LOOP" + id + "END:\n"
	code += outerPop
	return code
}

// parseForInit supports a scalar declaration or a plain/indexed
// assignment in a for-header initializer slot (no terminating `;` --
// the header's own `;` tokens are consumed by parseForStmt).
func (p *Parser) parseForInit() string {
	if p.peekToken.Type == lexer.COLON {
		nameTok := p.expect(lexer.IDENT)
		p.expect(lexer.COLON)
		dt := p.parseDeclType()
		hasInit := p.curToken.Type == lexer.ASSIGN
		if hasInit {
			p.nextToken()
		}
		if dt.t.IsPrimitive() {
			return p.finishScalarDecl(nameTok, dt, hasInit, false)
		}
		p.fatalf(errors.SyntaxError, nameTok.Pos, "only scalar declarations are supported in a for-loop initializer")
	}
	return p.parseForUpdate()
}

// parseForUpdate supports a plain or indexed assignment with no
// terminating `;`.
func (p *Parser) parseForUpdate() string {
	nameTok := p.expect(lexer.IDENT)
	sym, ownerInFn, _, ok := p.ctx.scopes.Lookup(nameTok.Literal)
	if !ok {
		p.fatalf(errors.UndeclaredIdentifier, nameTok.Pos, "undeclared identifier %q", nameTok.Literal)
	}
	if p.curToken.Type == lexer.LBRACK {
		return p.parseIndexedAssign(sym, ownerInFn, nameTok, false)
	}
	return p.parsePlainAssign(sym, ownerInFn, nameTok, false)
}

// parseMatchStmt implements match: each arm re-emits the subject
// expression and compares with EQUAL, jumping to a shared FINISHMATCH
// terminator; the default arm is mandatory.
func (p *Parser) parseMatchStmt() string {
	p.expect(lexer.KW_MATCH)
	subjTok := p.curToken
	subjCode := p.parseExpr(precLowest)
	subjType, _ := p.ctx.types.Pop()
	p.expect(lexer.LBRACE)

	rel := p.ctx.nextMatchRel()
	var code string
	sawDefault := false
	for p.curToken.Type != lexer.RBRACE {
		if p.curToken.Type == lexer.KW_DEFAULT {
			p.nextToken()
			p.expect(lexer.ARROW)
			code += p.parseBlock("match-default")
			sawDefault = true
			continue
		}

		armTok := p.curToken
		armCode := p.parseExpr(precLowest)
		armType, _ := p.ctx.types.Pop()
		if !armType.Equal(subjType) {
			p.fatalf(errors.TypeMismatch, armTok.Pos, "match arm type %s does not match subject type %s", armType, subjType)
		}
		p.expect(lexer.ARROW)
		label := p.ctx.nextMatchLabel()
		body := p.parseBlock("match-arm")

		code += subjCode
		code += armCode
		code += "EQUAL\n"
		code += "JZ MATCHLABEL" + strconv.Itoa(label) + "END\n"
		code += body
		code += "JUMP FINISHMATCH" + strconv.Itoa(rel) + "\n"
		code += "MATCHLABEL" + strconv.Itoa(label) + "END:\n"
	}
	p.expect(lexer.RBRACE)
	if !sawDefault {
		p.fatalf(errors.SyntaxError, subjTok.Pos, "match is missing its mandatory default arm")
	}
	code += "FINISHMATCH" + strconv.Itoa(rel) + ":\n"
	return code
}

// parseBreakStmt/parseContinueStmt: both require an enclosing loop;
// continue additionally rejects a do-while.
func (p *Parser) parseBreakStmt() string {
	tok := p.expect(lexer.KW_BREAK)
	frame, ok := p.ctx.currentLoop()
	if !ok {
		p.fatalf(errors.IllegalBreakContinue, tok.Pos, "break outside a loop")
	}
	p.expect(lexer.SEMICOLON)
	return "JUMP LOOP" + strconv.Itoa(frame.id) + "END\n"
}

func (p *Parser) parseContinueStmt() string {
	tok := p.expect(lexer.KW_CONTINUE)
	frame, ok := p.ctx.currentLoop()
	if !ok {
		p.fatalf(errors.IllegalBreakContinue, tok.Pos, "continue outside a loop")
	}
	if frame.kind == LoopDo {
		p.fatalf(errors.IllegalBreakContinue, tok.Pos, "continue is not allowed inside do-while")
	}
	p.expect(lexer.SEMICOLON)
	return "JUMP NEXTLOOP" + strconv.Itoa(frame.id) + "\n"
}

// parseReturnStmt implements return-type checking: bare `return;`
// requires no output type; `return expr;` requires a matching one and
// stores the value at frame[-(|params|+1)].
func (p *Parser) parseReturnStmt() string {
	tok := p.expect(lexer.KW_RETURN)
	fn := p.ctx.currentFunction
	if fn == nil {
		p.fatalf(errors.SyntaxError, tok.Pos, "return outside a function")
	}

	if p.curToken.Type == lexer.SEMICOLON {
		if fn.OutputType != nil {
			p.fatalf(errors.TypeMismatch, tok.Pos, "function %q must return a value", fn.Name)
		}
		p.nextToken()
		return "RETURN\n"
	}

	if fn.OutputType == nil {
		p.fatalf(errors.TypeMismatch, tok.Pos, "function %q does not return a value", fn.Name)
	}
	exprTok := p.curToken
	exprCode := p.parseExpr(precLowest)
	t, _ := p.ctx.types.Pop()
	if !t.Equal(*fn.OutputType) {
		p.fatalf(errors.TypeMismatch, exprTok.Pos, "return type mismatch: expected %s, got %s", *fn.OutputType, t)
	}
	p.expect(lexer.SEMICOLON)

	slot := -(len(fn.InputTypes) + 1)
	return exprCode + "PUSHFP\nSTORE " + strconv.Itoa(slot) + "\nRETURN\n"
}
