package parser

import (
	"seenc/internal/ast"
	"seenc/internal/diagnostics"
	"seenc/internal/keyword"
	"seenc/internal/lexer"
)

// parseProgram implements: Program → Declaration* (spec §4.4), except
// that a leading expression is also accepted at top level per §3
// ("a Program is an ordered sequence of declarations + top-level
// expressions").
func (p *Parser) parseProgram() *ast.Program {
	start := p.cur().Span
	var items []ast.Node
	for !p.atEnd() {
		items = append(items, p.parseTopLevelItem())
	}
	end := start
	if p.pos > 0 {
		end = p.toks[p.pos-1].Span
	}
	return ast.NewProgram(diagnostics.Span{Start: start.Start, End: end.End, FileID: p.fileID}, items)
}

func (p *Parser) parseTopLevelItem() ast.Node {
	if p.isDeclStart() {
		return p.parseDecl()
	}
	expr := p.parseExpression()
	p.match(lexer.Semicolon)
	return expr
}

func (p *Parser) isDeclStart() bool {
	kw, ok := p.curKind().AsKeyword()
	if !ok {
		return false
	}
	switch kw {
	case keyword.Function, keyword.Var, keyword.Val, keyword.Struct, keyword.Enum:
		return true
	default:
		return false
	}
}

// parseDecl implements: Declaration → FunctionDecl | VariableDecl |
// StructDecl | EnumDecl.
func (p *Parser) parseDecl() ast.Decl {
	switch {
	case p.checkKeyword(keyword.Function):
		return p.parseFunctionDecl()
	case p.checkKeyword(keyword.Var), p.checkKeyword(keyword.Val):
		return p.parseVariableDecl()
	case p.checkKeyword(keyword.Struct):
		return p.parseStructDecl()
	case p.checkKeyword(keyword.Enum):
		return p.parseEnumDecl()
	default:
		p.errorf("expected a declaration, found %s", p.describe(p.cur()))
		p.synchronize()
		return &ast.VariableDecl{Base: ast.Base{Sp: p.errSpan()}, Init: p.errorExpr()}
	}
}

// parseFunctionDecl implements:
//
//	FunctionDecl → FUN Ident '(' Params ')' ('->' Type)? Block
func (p *Parser) parseFunctionDecl() *ast.FunctionDecl {
	start := p.advance().Span // 'function'
	name := p.expectIdentText("function name")

	p.expect(lexer.LParen, "'('")
	var params []ast.Param
	for !p.check(lexer.RParen) && !p.atEnd() {
		pname := p.expectIdentText("parameter name")
		p.expect(lexer.Colon, "':'")
		ptype := p.parseTypeExpr()
		params = append(params, ast.Param{Name: pname, Type: ptype})
		if !p.match(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RParen, "')'")

	var ret *ast.TypeExpr
	if p.match(lexer.Arrow) {
		ret = p.parseTypeExpr()
	}

	body := p.parseBlock()
	return &ast.FunctionDecl{
		Base:       ast.Base{Sp: p.spanFrom(start)},
		Name:       name,
		Params:     params,
		ReturnType: ret,
		Body:       body,
	}
}

// parseVariableDecl implements:
//
//	VariableDecl → (VAL|VAR) Ident (':' Type)? '=' Expr ';'
func (p *Parser) parseVariableDecl() *ast.VariableDecl {
	start := p.cur().Span
	mutable := p.checkKeyword(keyword.Var)
	p.advance() // val/var

	name := p.expectIdentText("variable name")
	var typ *ast.TypeExpr
	if p.match(lexer.Colon) {
		typ = p.parseTypeExpr()
	}
	p.expect(lexer.Assign, "'='")
	init := p.parseExpression()
	p.expect(lexer.Semicolon, "';'")

	return &ast.VariableDecl{
		Base:    ast.Base{Sp: p.spanFrom(start)},
		Name:    name,
		Mutable: mutable,
		Type:    typ,
		Init:    init,
	}
}

// parseStructDecl implements:
//
//	StructDecl → STRUCT Ident '{' (Field (',' Field)* ','?)? '}'
func (p *Parser) parseStructDecl() *ast.StructDecl {
	start := p.advance().Span // 'struct'
	name := p.expectIdentText("struct name")
	p.expect(lexer.LBrace, "'{'")

	var fields []ast.FieldDecl
	for !p.check(lexer.RBrace) && !p.atEnd() {
		fname := p.expectIdentText("field name")
		p.expect(lexer.Colon, "':'")
		ftype := p.parseTypeExpr()
		fields = append(fields, ast.FieldDecl{Name: fname, Type: ftype})
		if !p.match(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RBrace, "'}'")

	return &ast.StructDecl{Base: ast.Base{Sp: p.spanFrom(start)}, Name: name, Fields: fields}
}

// parseEnumDecl implements:
//
//	EnumDecl → ENUM Ident ('<' Ident (',' Ident)* '>')?
//	           '{' Variant (',' Variant)* ','? '}'
func (p *Parser) parseEnumDecl() *ast.EnumDecl {
	start := p.advance().Span // 'enum'
	name := p.expectIdentText("enum name")

	var typeParams []string
	if p.match(lexer.Lt) {
		for {
			typeParams = append(typeParams, p.expectIdentText("type parameter"))
			if !p.match(lexer.Comma) {
				break
			}
		}
		p.expect(lexer.Gt, "'>'")
	}

	p.expect(lexer.LBrace, "'{'")
	var variants []ast.VariantDecl
	for !p.check(lexer.RBrace) && !p.atEnd() {
		vname := p.expectIdentText("variant name")
		var fields []*ast.TypeExpr
		if p.match(lexer.LParen) {
			for !p.check(lexer.RParen) && !p.atEnd() {
				fields = append(fields, p.parseTypeExpr())
				if !p.match(lexer.Comma) {
					break
				}
			}
			p.expect(lexer.RParen, "')'")
		}
		variants = append(variants, ast.VariantDecl{Name: vname, Fields: fields})
		if !p.match(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RBrace, "'}'")

	return &ast.EnumDecl{
		Base:       ast.Base{Sp: p.spanFrom(start)},
		Name:       name,
		TypeParams: typeParams,
		Variants:   variants,
	}
}

// parseTypeExpr parses a syntactic type annotation: Name, optional
// '<Args>', optional trailing '?', or a leading '[' T ']' array form.
func (p *Parser) parseTypeExpr() *ast.TypeExpr {
	start := p.cur().Span
	if p.match(lexer.LBracket) {
		elem := p.parseTypeExpr()
		p.expect(lexer.RBracket, "']'")
		t := ast.NewTypeExpr(p.spanFrom(start), "", nil, false, true)
		t.Elem = elem
		if p.match(lexer.Question) {
			t.Optional = true
		}
		return t
	}

	name := p.expectIdentText("type name")
	var args []*ast.TypeExpr
	if p.match(lexer.Lt) {
		for {
			args = append(args, p.parseTypeExpr())
			if !p.match(lexer.Comma) {
				break
			}
		}
		p.expect(lexer.Gt, "'>'")
	}
	optional := p.match(lexer.Question)
	return ast.NewTypeExpr(p.spanFrom(start), name, args, optional, false)
}

// expectIdentText consumes an Identifier token and returns its text,
// reporting an error and returning "" if the current token is not an
// identifier.
func (p *Parser) expectIdentText(what string) string {
	if p.check(lexer.Identifier) {
		return p.advance().Lexeme
	}
	p.errorf("expected %s, found %s", what, p.describe(p.cur()))
	return ""
}
