package parser

import (
	"seenc/internal/ast"
	"seenc/internal/keyword"
	"seenc/internal/lexer"
)

// parseBlock implements the Block production: '{' Statement* '}',
// introducing a nested scope at check time (the parser itself does not
// track scopes; that is the type checker's job).
func (p *Parser) parseBlock() *ast.BlockExpr {
	start := p.expect(lexer.LBrace, "'{'").Span
	var stmts []ast.Stmt
	for !p.check(lexer.RBrace) && !p.atEnd() {
		stmts = append(stmts, p.parseStatement())
	}
	p.expect(lexer.RBrace, "'}'")
	return &ast.BlockExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Stmts: stmts}
}

// parseStatement implements:
//
//	Statement → Block | Return | If | While | For | Print | Match
//	          | DeclStmt | ExprStmt
func (p *Parser) parseStatement() ast.Stmt {
	start := p.cur().Span

	switch {
	case p.check(lexer.LBrace):
		blk := p.parseBlock()
		return &ast.ExprStmt{Base: ast.Base{Sp: p.spanFrom(start)}, X: blk, Terminated: p.match(lexer.Semicolon)}

	case p.checkKeyword(keyword.Return):
		p.advance()
		var val ast.Expr
		if !p.check(lexer.Semicolon) {
			val = p.parseExpression()
		}
		p.expect(lexer.Semicolon, "';'")
		return &ast.ExprStmt{
			Base:       ast.Base{Sp: p.spanFrom(start)},
			X:          &ast.ReturnExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Value: val},
			Terminated: true,
		}

	case p.checkKeyword(keyword.Break):
		p.advance()
		p.expect(lexer.Semicolon, "';'")
		return &ast.ExprStmt{
			Base:       ast.Base{Sp: p.spanFrom(start)},
			X:          &ast.BreakExpr{Base: ast.Base{Sp: p.spanFrom(start)}},
			Terminated: true,
		}

	case p.checkKeyword(keyword.Continue):
		p.advance()
		p.expect(lexer.Semicolon, "';'")
		return &ast.ExprStmt{
			Base:       ast.Base{Sp: p.spanFrom(start)},
			X:          &ast.ContinueExpr{Base: ast.Base{Sp: p.spanFrom(start)}},
			Terminated: true,
		}

	case p.checkKeyword(keyword.If):
		e := p.parseIfExpr()
		return &ast.ExprStmt{Base: ast.Base{Sp: p.spanFrom(start)}, X: e, Terminated: p.match(lexer.Semicolon)}

	case p.checkKeyword(keyword.While):
		e := p.parseWhileExpr()
		return &ast.ExprStmt{Base: ast.Base{Sp: p.spanFrom(start)}, X: e, Terminated: p.match(lexer.Semicolon)}

	case p.checkKeyword(keyword.For):
		e := p.parseForExpr()
		return &ast.ExprStmt{Base: ast.Base{Sp: p.spanFrom(start)}, X: e, Terminated: p.match(lexer.Semicolon)}

	case p.checkKeyword(keyword.Loop):
		e := p.parseLoopExpr()
		return &ast.ExprStmt{Base: ast.Base{Sp: p.spanFrom(start)}, X: e, Terminated: p.match(lexer.Semicolon)}

	case p.checkKeyword(keyword.Match):
		e := p.parseMatchExpr()
		return &ast.ExprStmt{Base: ast.Base{Sp: p.spanFrom(start)}, X: e, Terminated: p.match(lexer.Semicolon)}

	case p.checkKeyword(keyword.Print):
		return p.parsePrintStmt()

	case p.isDeclStart():
		d := p.parseDecl()
		return &ast.DeclStmt{Base: ast.Base{Sp: p.spanFrom(start)}, D: d}

	default:
		return p.parseExprStmt()
	}
}

// parsePrintStmt implements the Print statement form, grounded on the
// teacher's dedicated PRINT_STATEMENT/PRINT_LIST node types.
func (p *Parser) parsePrintStmt() ast.Stmt {
	start := p.advance().Span // 'print'
	var args []ast.Expr
	args = append(args, p.parseExpression())
	for p.match(lexer.Comma) {
		args = append(args, p.parseExpression())
	}
	p.expect(lexer.Semicolon, "';'")
	return &ast.PrintStmt{Base: ast.Base{Sp: p.spanFrom(start)}, Args: args}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	start := p.cur().Span
	x := p.parseExpression()
	terminated := p.match(lexer.Semicolon)
	if !terminated && !p.check(lexer.RBrace) && !p.atEnd() {
		p.errorf("expected ';' after expression, found %s", p.describe(p.cur()))
		p.synchronize()
	}
	return &ast.ExprStmt{Base: ast.Base{Sp: p.spanFrom(start)}, X: x, Terminated: terminated}
}
