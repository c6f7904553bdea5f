// Package parser implements SyC's recursive-descent, precedence-climbing
// parser. Shape (Parser{lx, tok}, next/expect one-token lookahead) is
// grounded on tinyrange-ccomp/internal/parser/parser.go; the grammar itself
// — top-level dispatch, statement forms, the nine-level expression
// precedence chain — is ported from original_source/src/parser/parser.cpp.
package parser

import (
	"fmt"

	"github.com/tinyrange/syc/internal/ast"
	"github.com/tinyrange/syc/internal/lexer"
	"github.com/tinyrange/syc/internal/types"
)

// ParseError carries the line at which parsing failed, per spec.md §7.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at line %d", e.Message, e.Line)
}

// Parser holds one current token plus a small pending queue used only for
// the top-level function/variable lookahead (peeking past a run of `*`
// tokens to the IDENT LPAREN that would mark a function). lexer.Lexer itself
// is a pure forward scanner; the queue buffers tokens read ahead of `tok`
// without needing to rewind the lexer.
type Parser struct {
	lx      *lexer.Lexer
	tok     lexer.Token
	pending []lexer.Token
}

// ParseFile tokenizes and parses src in one pass, returning the Program AST
// or the first ParseError/LexError encountered.
func ParseFile(filename, src string) (*ast.Program, error) {
	p := &Parser{lx: lexer.New(src)}
	if err := p.next(); err != nil {
		return nil, err
	}
	prog := &ast.Program{}
	for p.tok.Type != lexer.EOF {
		d, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		prog.Decls = append(prog.Decls, d)
	}
	return prog, nil
}

func (p *Parser) next() error {
	if len(p.pending) > 0 {
		p.tok = p.pending[0]
		p.pending = p.pending[1:]
		return nil
	}
	t, err := p.lx.Next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

// peek returns the token `n` positions ahead of tok (n==1 is the token
// `next()` would produce) without consuming it, buffering any tokens read
// ahead into pending.
func (p *Parser) peek(n int) (lexer.Token, error) {
	for len(p.pending) < n {
		t, err := p.lx.Next()
		if err != nil {
			return lexer.Token{}, err
		}
		p.pending = append(p.pending, t)
	}
	return p.pending[n-1], nil
}

func (p *Parser) expect(tt lexer.TokenType, message string) (lexer.Token, error) {
	if p.tok.Type != tt {
		return lexer.Token{}, &ParseError{Line: p.tok.Line, Message: message}
	}
	t := p.tok
	if err := p.next(); err != nil {
		return lexer.Token{}, err
	}
	return t, nil
}

func (p *Parser) match(tt lexer.TokenType) (bool, error) {
	if p.tok.Type != tt {
		return false, nil
	}
	if err := p.next(); err != nil {
		return false, err
	}
	return true, nil
}

func baseKindOf(tt lexer.TokenType) (types.Kind, bool) {
	switch tt {
	case lexer.INT:
		return types.Int, true
	case lexer.CHAR:
		return types.Char, true
	case lexer.VOID:
		return types.Void, true
	default:
		return 0, false
	}
}

// parseTopLevel implements spec.md §4.2's top-level dispatch: `const` starts
// a const declaration; int/char/void look past any `*` tokens, and the
// presence of `IDENT LPAREN` after them distinguishes a function from a
// variable declaration.
func (p *Parser) parseTopLevel() (ast.Decl, error) {
	if p.tok.Type == lexer.CONST {
		return p.parseConstDecl()
	}
	if _, ok := baseKindOf(p.tok.Type); ok {
		isFunc, err := p.lookaheadIsFunction()
		if err != nil {
			return nil, err
		}
		if isFunc {
			return p.parseFunctionDef()
		}
		return p.parseVarDecl()
	}
	return nil, &ParseError{Line: p.tok.Line, Message: "unexpected token at top level: " + p.tok.Lex}
}

// lookaheadIsFunction peeks past any run of `*` tokens following the current
// type keyword to see whether `IDENT LPAREN` follows, per
// original_source/src/parser/parser.cpp's `while (peek(lookahead).type ==
// MULT) lookahead++` loop. Peeked tokens are buffered in p.pending, not
// consumed, so the real parse (parsePointerSuffix etc.) re-reads them.
func (p *Parser) lookaheadIsFunction() (bool, error) {
	n := 1
	for {
		t, err := p.peek(n)
		if err != nil {
			return false, err
		}
		if t.Type != lexer.MULT {
			if t.Type != lexer.IDENT {
				return false, nil
			}
			after, err := p.peek(n + 1)
			if err != nil {
				return false, err
			}
			return after.Type == lexer.LPAREN, nil
		}
		n++
	}
}

func (p *Parser) parsePointerSuffix(base types.Kind) (types.Type, error) {
	t := types.Type{Base: base}
	for {
		ok, err := p.match(lexer.MULT)
		if err != nil {
			return t, err
		}
		if !ok {
			break
		}
		t.PointerLevel++
	}
	return t, nil
}

func (p *Parser) parseFunctionDef() (ast.Decl, error) {
	base, _ := baseKindOf(p.tok.Type)
	if err := p.next(); err != nil {
		return nil, err
	}
	retType, err := p.parsePointerSuffix(base)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.IDENT, "expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN, "expected '('"); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN, "expected ')'"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDef{Name: nameTok.Lex, ReturnType: retType, Params: params, Body: body}, nil
}

func (p *Parser) parseParams() ([]ast.Param, error) {
	var params []ast.Param
	if p.tok.Type == lexer.RPAREN {
		return params, nil
	}
	for {
		base, ok := baseKindOf(p.tok.Type)
		if !ok {
			return nil, &ParseError{Line: p.tok.Line, Message: "expected parameter type"}
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		pt, err := p.parsePointerSuffix(base)
		if err != nil {
			return nil, err
		}
		nameTok, err := p.expect(lexer.IDENT, "expected parameter name")
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: nameTok.Lex, Type: pt})
		more, err := p.match(lexer.COMMA)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	return params, nil
}

func (p *Parser) parseVarDecl() (ast.Decl, error) {
	base, ok := baseKindOf(p.tok.Type)
	if !ok || base == types.Void {
		return nil, &ParseError{Line: p.tok.Line, Message: "expected type (int or char)"}
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	vt, err := p.parsePointerSuffix(base)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.IDENT, "expected variable name")
	if err != nil {
		return nil, err
	}
	decl := &ast.VarDecl{Name: nameTok.Lex, VarType: vt}
	isArr, err := p.match(lexer.LBRACKET)
	if err != nil {
		return nil, err
	}
	if isArr {
		decl.IsArray = true
		if p.tok.Type == lexer.INT_LITERAL {
			decl.ArraySize = p.tok.Value
			if err := p.next(); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(lexer.RBRACKET, "expected ']'"); err != nil {
			return nil, err
		}
	}
	hasInit, err := p.match(lexer.ASSIGN)
	if err != nil {
		return nil, err
	}
	if hasInit {
		decl.Init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.SEMICOLON, "expected ';'"); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseConstDecl() (ast.Decl, error) {
	if _, err := p.expect(lexer.CONST, "expected 'const'"); err != nil {
		return nil, err
	}
	base, ok := baseKindOf(p.tok.Type)
	if !ok || base == types.Void {
		return nil, &ParseError{Line: p.tok.Line, Message: "expected type (int or char)"}
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	vt, err := p.parsePointerSuffix(base)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.IDENT, "expected constant name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ASSIGN, "expected '=' for const initialization"); err != nil {
		return nil, err
	}
	init, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON, "expected ';'"); err != nil {
		return nil, err
	}
	return &ast.VarDecl{Name: nameTok.Lex, VarType: vt, IsConst: true, Init: init}, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	if _, err := p.expect(lexer.LBRACE, "expected '{'"); err != nil {
		return nil, err
	}
	blk := &ast.Block{}
	for p.tok.Type != lexer.RBRACE && p.tok.Type != lexer.EOF {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		blk.Statements = append(blk.Statements, s)
	}
	if _, err := p.expect(lexer.RBRACE, "expected '}'"); err != nil {
		return nil, err
	}
	return blk, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.tok.Type {
	case lexer.INT, lexer.CHAR:
		d, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		return d.(ast.Stmt), nil
	case lexer.CONST:
		d, err := p.parseConstDecl()
		if err != nil {
			return nil, err
		}
		return d.(ast.Stmt), nil
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.WHILE:
		return p.parseWhileStmt()
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.BREAK:
		if err := p.next(); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.SEMICOLON, "expected ';'"); err != nil {
			return nil, err
		}
		return &ast.BreakStmt{}, nil
	case lexer.CONTINUE:
		if err := p.next(); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.SEMICOLON, "expected ';'"); err != nil {
			return nil, err
		}
		return &ast.ContinueStmt{}, nil
	case lexer.LBRACE:
		return p.parseBlock()
	default:
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.SEMICOLON, "expected ';'"); err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Expr: e}, nil
	}
}

// parseIfStmt binds a trailing else to the nearest if by plain recursion
// (dangling-else resolved structurally, no special-casing needed).
func (p *Parser) parseIfStmt() (ast.Stmt, error) {
	if _, err := p.expect(lexer.IF, "expected 'if'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN, "expected '('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN, "expected ')'"); err != nil {
		return nil, err
	}
	thenStmt, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Stmt
	hasElse, err := p.match(lexer.ELSE)
	if err != nil {
		return nil, err
	}
	if hasElse {
		elseStmt, err = p.parseStmt()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Cond: cond, Then: thenStmt, Else: elseStmt}, nil
}

func (p *Parser) parseWhileStmt() (ast.Stmt, error) {
	if _, err := p.expect(lexer.WHILE, "expected 'while'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN, "expected '('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN, "expected ')'"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Cond: cond, Body: body}, nil
}

func (p *Parser) parseReturnStmt() (ast.Stmt, error) {
	if _, err := p.expect(lexer.RETURN, "expected 'return'"); err != nil {
		return nil, err
	}
	var value ast.Expr
	if p.tok.Type != lexer.SEMICOLON {
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		value = v
	}
	if _, err := p.expect(lexer.SEMICOLON, "expected ';'"); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Value: value}, nil
}

// --- expression grammar, lowest to highest precedence (spec.md §4.2) ---

func (p *Parser) parseExpr() (ast.Expr, error) { return p.parseAssignment() }

func (p *Parser) parseAssignment() (ast.Expr, error) {
	left, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if p.tok.Type == lexer.ASSIGN {
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		// A Binary("=", ...) node is built regardless of LHS shape; the IR
		// generator rejects a non-Ident LHS with a semantic error (DESIGN.md
		// Open Question 3), rather than silently returning left unchanged.
		return &ast.Binary{Op: "=", Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parseLogicalOr() (ast.Expr, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == lexer.OR {
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: "||", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (ast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == lexer.AND {
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: "&&", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch p.tok.Type {
		case lexer.EQ:
			op = "=="
		case lexer.NE:
			op = "!="
		default:
			return left, nil
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseRelational() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch p.tok.Type {
		case lexer.LT:
			op = "<"
		case lexer.LE:
			op = "<="
		case lexer.GT:
			op = ">"
		case lexer.GE:
			op = ">="
		default:
			return left, nil
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch p.tok.Type {
		case lexer.PLUS:
			op = "+"
		case lexer.MINUS:
			op = "-"
		default:
			return left, nil
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch p.tok.Type {
		case lexer.MULT:
			op = "*"
		case lexer.DIV:
			op = "/"
		case lexer.MOD:
			op = "%"
		default:
			return left, nil
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	var op string
	switch p.tok.Type {
	case lexer.PLUS:
		op = "+"
	case lexer.MINUS:
		op = "-"
	case lexer.NOT:
		op = "!"
	case lexer.AMPERSAND:
		op = "&"
	case lexer.MULT:
		op = "*"
	case lexer.INCREMENT:
		op = "++"
	case lexer.DECREMENT:
		op = "--"
	default:
		return p.parsePrimary()
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.Unary{Op: op, Operand: operand}, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch p.tok.Type {
	case lexer.INT_LITERAL:
		v := p.tok.Value
		if err := p.next(); err != nil {
			return nil, err
		}
		return &ast.IntLiteral{Value: v}, nil
	case lexer.CHAR_LITERAL:
		v := p.tok.Value
		if err := p.next(); err != nil {
			return nil, err
		}
		return &ast.CharLiteral{Value: v}, nil
	case lexer.STRING_LITERAL:
		v := p.tok.Str
		if err := p.next(); err != nil {
			return nil, err
		}
		return &ast.StringLiteral{Value: v}, nil
	case lexer.IDENT:
		name := p.tok.Lex
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.tok.Type == lexer.LPAREN {
			if err := p.next(); err != nil {
				return nil, err
			}
			var args []ast.Expr
			if p.tok.Type != lexer.RPAREN {
				for {
					a, err := p.parseExpr()
					if err != nil {
						return nil, err
					}
					args = append(args, a)
					more, err := p.match(lexer.COMMA)
					if err != nil {
						return nil, err
					}
					if !more {
						break
					}
				}
			}
			if _, err := p.expect(lexer.RPAREN, "expected ')'"); err != nil {
				return nil, err
			}
			return &ast.Call{FuncName: name, Args: args}, nil
		}
		if p.tok.Type == lexer.LBRACKET {
			if err := p.next(); err != nil {
				return nil, err
			}
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBRACKET, "expected ']'"); err != nil {
				return nil, err
			}
			return &ast.ArrayAccess{ArrayName: name, Index: idx}, nil
		}
		return &ast.Ident{Name: name}, nil
	case lexer.LPAREN:
		if err := p.next(); err != nil {
			return nil, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN, "expected ')'"); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, &ParseError{Line: p.tok.Line, Message: "unexpected token in expression: " + p.tok.Lex}
	}
}
