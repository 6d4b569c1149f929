package parser

import (
	"strings"

	"seenc/internal/ast"
	"seenc/internal/diagnostics"
	"seenc/internal/keyword"
	"seenc/internal/lexer"
)

// parseExpression is the entry point for the full precedence chain
// (spec §4.4): assignment → logical-or → logical-and → equality →
// comparison → range → add/sub → mul/div → unary → try(?) →
// call/index/member → primary.
func (p *Parser) parseExpression() ast.Expr {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() ast.Expr {
	start := p.cur().Span
	left := p.parseLogicalOr()
	if p.match(lexer.Assign) {
		value := p.parseAssignment() // right-associative
		return &ast.AssignExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Target: left, Value: value}
	}
	return left
}

func (p *Parser) parseLogicalOr() ast.Expr {
	start := p.cur().Span
	left := p.parseLogicalAnd()
	for p.checkKeyword(keyword.Or) {
		p.advance()
		right := p.parseLogicalAnd()
		left = &ast.BinaryExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Op: ast.OpOr, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseLogicalAnd() ast.Expr {
	start := p.cur().Span
	left := p.parseEquality()
	for p.checkKeyword(keyword.And) {
		p.advance()
		right := p.parseEquality()
		left = &ast.BinaryExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Op: ast.OpAnd, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	start := p.cur().Span
	left := p.parseComparison()
	for {
		var op ast.BinaryOp
		switch {
		case p.check(lexer.Eq):
			op = ast.OpEq
		case p.check(lexer.NotEq):
			op = ast.OpNotEq
		default:
			return left
		}
		p.advance()
		right := p.parseComparison()
		left = &ast.BinaryExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseComparison() ast.Expr {
	start := p.cur().Span
	left := p.parseRange()
	for {
		var op ast.BinaryOp
		switch {
		case p.check(lexer.Lt):
			op = ast.OpLt
		case p.check(lexer.LtEq):
			op = ast.OpLtEq
		case p.check(lexer.Gt):
			op = ast.OpGt
		case p.check(lexer.GtEq):
			op = ast.OpGtEq
		default:
			return left
		}
		p.advance()
		right := p.parseRange()
		left = &ast.BinaryExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Op: op, Left: left, Right: right}
	}
}

// parseRange handles the (non-chaining) '..' and '...' operators.
func (p *Parser) parseRange() ast.Expr {
	start := p.cur().Span
	left := p.parseAdditive()
	switch {
	case p.check(lexer.DotDot):
		p.advance()
		right := p.parseAdditive()
		return &ast.BinaryExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Op: ast.OpRange, Left: left, Right: right}
	case p.check(lexer.DotDotDot):
		p.advance()
		right := p.parseAdditive()
		return &ast.BinaryExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Op: ast.OpRangeIncl, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	start := p.cur().Span
	left := p.parseMultiplicative()
	for {
		var op ast.BinaryOp
		switch {
		case p.check(lexer.Plus):
			op = ast.OpAdd
		case p.check(lexer.Minus):
			op = ast.OpSub
		default:
			return left
		}
		p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseMultiplicative() ast.Expr {
	start := p.cur().Span
	left := p.parseUnary()
	for {
		var op ast.BinaryOp
		switch {
		case p.check(lexer.Star):
			op = ast.OpMul
		case p.check(lexer.Slash):
			op = ast.OpDiv
		case p.check(lexer.Percent):
			op = ast.OpMod
		default:
			return left
		}
		p.advance()
		right := p.parseUnary()
		left = &ast.BinaryExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	start := p.cur().Span
	switch {
	case p.check(lexer.Minus):
		p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Op: ast.OpNeg, Operand: operand}
	case p.checkKeyword(keyword.Not):
		p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Op: ast.OpNot, Operand: operand}
	default:
		return p.parseTry()
	}
}

// parseTry handles the postfix '?' operator, which binds tighter than
// any binary operator but looser than member/index/call (spec §4.4).
func (p *Parser) parseTry() ast.Expr {
	start := p.cur().Span
	x := p.parsePostfix()
	for p.match(lexer.Question) {
		x = &ast.TryExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Operand: x}
	}
	return x
}

// parsePostfix handles call, index, member and nullable-safe member
// chains applied to a primary expression.
func (p *Parser) parsePostfix() ast.Expr {
	start := p.cur().Span
	x := p.parsePrimary()
	for {
		switch {
		case p.check(lexer.LParen):
			p.advance()
			var args []ast.Expr
			for !p.check(lexer.RParen) && !p.atEnd() {
				args = append(args, p.parseExpression())
				if !p.match(lexer.Comma) {
					break
				}
			}
			p.expect(lexer.RParen, "')'")
			x = &ast.CallExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Callee: x, Args: args}

		case p.check(lexer.LBracket):
			p.advance()
			idx := p.parseExpression()
			p.expect(lexer.RBracket, "']'")
			x = &ast.IndexExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Array: x, Index: idx}

		case p.check(lexer.Dot):
			p.advance()
			field := p.expectIdentText("field name")
			x = &ast.MemberExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Object: x, Field: field}

		case p.check(lexer.Question) && p.peekIs(1, lexer.Dot):
			p.advance() // '?'
			p.advance() // '.'
			field := p.expectIdentText("field name")
			x = &ast.MemberExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Object: x, Field: field, NullableSafe: true}

		default:
			return x
		}
	}
}

// peekIs reports whether the token offset past the current one has
// kind k, without consuming anything.
func (p *Parser) peekIs(offset int, k lexer.Kind) bool {
	i := p.pos + offset
	if i >= len(p.toks) {
		return k == lexer.EOF
	}
	return p.toks[i].Kind == k
}

// parsePrimary implements the base cases of the expression grammar:
// literals, identifiers, enum literals, grouping, arrays, struct
// literals, lambdas and the expression-flavored control forms.
func (p *Parser) parsePrimary() ast.Expr {
	start := p.cur().Span
	tok := p.cur()

	switch tok.Kind {
	case lexer.Integer:
		p.advance()
		return &ast.IntLiteral{Base: ast.Base{Sp: p.spanFrom(start)}, Value: tok.IntValue}

	case lexer.Float:
		p.advance()
		return &ast.FloatLiteral{Base: ast.Base{Sp: p.spanFrom(start)}, Text: tok.FloatText}

	case lexer.String:
		p.advance()
		return &ast.StringLiteral{Base: ast.Base{Sp: p.spanFrom(start)}, Value: tok.StringText}

	case lexer.InterpString:
		p.advance()
		return p.parseInterpString(tok, p.spanFrom(start))

	case lexer.Char:
		p.advance()
		return &ast.CharLiteral{Base: ast.Base{Sp: p.spanFrom(start)}, Value: tok.CharValue}

	case lexer.Boolean:
		p.advance()
		return &ast.BoolLiteral{Base: ast.Base{Sp: p.spanFrom(start)}, Value: tok.BoolValue}

	case lexer.LParen:
		p.advance()
		saved := p.noStructLiteral
		p.noStructLiteral = false
		x := p.parseExpression()
		p.noStructLiteral = saved
		p.expect(lexer.RParen, "')'")
		return x

	case lexer.LBracket:
		return p.parseArrayLiteral(start)

	case lexer.Identifier:
		return p.parseIdentifierLed(start)
	}

	if kw, ok := tok.Kind.AsKeyword(); ok {
		switch kw {
		case keyword.Null:
			p.advance()
			return &ast.NullLiteral{Base: ast.Base{Sp: p.spanFrom(start)}}
		case keyword.True:
			p.advance()
			return &ast.BoolLiteral{Base: ast.Base{Sp: p.spanFrom(start)}, Value: true}
		case keyword.False:
			p.advance()
			return &ast.BoolLiteral{Base: ast.Base{Sp: p.spanFrom(start)}, Value: false}
		case keyword.If:
			return p.parseIfExpr()
		case keyword.While:
			return p.parseWhileExpr()
		case keyword.For:
			return p.parseForExpr()
		case keyword.Loop:
			return p.parseLoopExpr()
		case keyword.Match:
			return p.parseMatchExpr()
		case keyword.Function:
			return p.parseLambdaExpr(start)
		}
	}

	p.errorf("expected expression, found %s", p.describe(tok))
	p.synchronize()
	return p.errorExpr()
}

// parseIdentifierLed parses everything that can follow a bare
// identifier in expression position: a plain reference, a struct
// literal, or an enum literal (`Name::Variant(args...)`).
func (p *Parser) parseIdentifierLed(start diagnostics.Span) ast.Expr {
	name := p.advance().Lexeme

	if p.check(lexer.DoubleColon) {
		p.advance()
		variant := p.expectIdentText("variant name")
		var args []ast.Expr
		if p.match(lexer.LParen) {
			for !p.check(lexer.RParen) && !p.atEnd() {
				args = append(args, p.parseExpression())
				if !p.match(lexer.Comma) {
					break
				}
			}
			p.expect(lexer.RParen, "')'")
		}
		return &ast.EnumLiteral{Base: ast.Base{Sp: p.spanFrom(start)}, EnumName: name, Variant: variant, Args: args}
	}

	if p.check(lexer.LBrace) && !p.noStructLiteral {
		return p.parseStructLiteralFields(start, name)
	}

	return ast.NewIdentifier(p.spanFrom(start), name)
}

func (p *Parser) parseStructLiteralFields(start diagnostics.Span, typeName string) ast.Expr {
	p.expect(lexer.LBrace, "'{'")
	var fields []ast.FieldInit
	for !p.check(lexer.RBrace) && !p.atEnd() {
		fname := p.expectIdentText("field name")
		p.expect(lexer.Colon, "':'")
		fval := p.parseExpression()
		fields = append(fields, ast.FieldInit{Name: fname, Value: fval})
		if !p.match(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RBrace, "'}'")
	return &ast.StructLiteral{Base: ast.Base{Sp: p.spanFrom(start)}, TypeName: typeName, Fields: fields}
}

func (p *Parser) parseArrayLiteral(start diagnostics.Span) ast.Expr {
	p.advance() // '['
	var elems []ast.Expr
	for !p.check(lexer.RBracket) && !p.atEnd() {
		elems = append(elems, p.parseExpression())
		if !p.match(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RBracket, "']'")
	return &ast.ArrayLiteral{Base: ast.Base{Sp: p.spanFrom(start)}, Elements: elems}
}

// parseLambdaExpr implements an anonymous function expression:
//
//	Lambda → FUN '(' Params ')' '=>' Expr
func (p *Parser) parseLambdaExpr(start diagnostics.Span) ast.Expr {
	p.advance() // 'function'
	p.expect(lexer.LParen, "'('")
	var params []ast.Param
	for !p.check(lexer.RParen) && !p.atEnd() {
		name := p.expectIdentText("parameter name")
		var typ *ast.TypeExpr
		if p.match(lexer.Colon) {
			typ = p.parseTypeExpr()
		}
		params = append(params, ast.Param{Name: name, Type: typ})
		if !p.match(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RParen, "')'")
	p.expect(lexer.FatArrow, "'=>'")
	body := p.parseExpression()
	return &ast.LambdaExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Params: params, Body: body}
}

// parseCondition parses a control-header condition with struct
// literals suppressed, optionally wrapped in parentheses, resolving
// the classic if/while/for '{' ambiguity the same way go/parser
// suppresses composite literals in control headers.
func (p *Parser) parseCondition() ast.Expr {
	saved := p.noStructLiteral
	p.noStructLiteral = true
	defer func() { p.noStructLiteral = saved }()

	if p.check(lexer.LParen) {
		p.advance()
		inner := p.noStructLiteral
		p.noStructLiteral = false
		x := p.parseExpression()
		p.noStructLiteral = inner
		p.expect(lexer.RParen, "')'")
		return x
	}
	return p.parseExpression()
}

// parseIfExpr implements: IF Cond Block (ELSE (Block | If))?
func (p *Parser) parseIfExpr() ast.Expr {
	start := p.advance().Span // 'if'
	cond := p.parseCondition()
	then := p.parseBlock()
	var elseBranch ast.Expr
	if p.matchKeyword(keyword.Else) {
		if p.checkKeyword(keyword.If) {
			elseBranch = p.parseIfExpr()
		} else {
			elseBranch = p.parseBlock()
		}
	}
	return &ast.IfExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Cond: cond, Then: then, Else: elseBranch}
}

// parseWhileExpr implements: WHILE Cond Block
func (p *Parser) parseWhileExpr() ast.Expr {
	start := p.advance().Span // 'while'
	p.loopDepth++
	cond := p.parseCondition()
	body := p.parseBlock()
	p.loopDepth--
	return &ast.WhileExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Cond: cond, Body: body}
}

// parseForExpr implements: FOR Ident IN Expr Block, over an Array(T)
// or a range produced by '..'/'...' (spec §4.5).
func (p *Parser) parseForExpr() ast.Expr {
	start := p.advance().Span // 'for'
	name := p.expectIdentText("loop variable")
	p.expectKeyword(keyword.In, "'in'")

	saved := p.noStructLiteral
	p.noStructLiteral = true
	iterable := p.parseExpression()
	p.noStructLiteral = saved

	p.loopDepth++
	body := p.parseBlock()
	p.loopDepth--
	return &ast.ForExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Var: name, Iterable: iterable, Body: body}
}

// parseLoopExpr implements: LOOP Block, an unconditional loop exited
// only via break/return.
func (p *Parser) parseLoopExpr() ast.Expr {
	start := p.advance().Span // 'loop'
	p.loopDepth++
	body := p.parseBlock()
	p.loopDepth--
	return &ast.LoopExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Body: body}
}

// parseMatchExpr implements: MATCH Expr '{' (Pattern '=>' Expr ','?)* '}'
func (p *Parser) parseMatchExpr() ast.Expr {
	start := p.advance().Span // 'match'

	saved := p.noStructLiteral
	p.noStructLiteral = true
	value := p.parseExpression()
	p.noStructLiteral = saved

	p.expect(lexer.LBrace, "'{'")
	var arms []ast.MatchArm
	for !p.check(lexer.RBrace) && !p.atEnd() {
		pat := p.parsePattern()
		p.expect(lexer.FatArrow, "'=>'")
		body := p.parseExpression()
		arms = append(arms, ast.MatchArm{Pattern: pat, Body: body})
		if !p.match(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RBrace, "'}'")
	return &ast.MatchExpr{Base: ast.Base{Sp: p.spanFrom(start)}, Value: value, Arms: arms}
}

// parsePattern implements:
//
//	Pattern → Literal | Ident | '_' | EnumName '::' Variant ('(' Pattern,* ')')?
func (p *Parser) parsePattern() ast.Pattern {
	start := p.cur().Span
	tok := p.cur()

	switch tok.Kind {
	case lexer.Integer, lexer.Float, lexer.String, lexer.Char, lexer.Boolean:
		lit := p.parsePrimary()
		return &ast.LiteralPattern{Base: ast.Base{Sp: p.spanFrom(start)}, Value: lit}
	}
	if kw, ok := tok.Kind.AsKeyword(); ok && kw == keyword.Null {
		lit := p.parsePrimary()
		return &ast.LiteralPattern{Base: ast.Base{Sp: p.spanFrom(start)}, Value: lit}
	}

	if p.check(lexer.Identifier) {
		name := tok.Lexeme
		if name == "_" {
			p.advance()
			return &ast.WildcardPattern{Base: ast.Base{Sp: p.spanFrom(start)}}
		}
		p.advance()
		if p.match(lexer.DoubleColon) {
			variant := p.expectIdentText("variant name")
			var subs []ast.Pattern
			if p.match(lexer.LParen) {
				for !p.check(lexer.RParen) && !p.atEnd() {
					subs = append(subs, p.parsePattern())
					if !p.match(lexer.Comma) {
						break
					}
				}
				p.expect(lexer.RParen, "')'")
			}
			return &ast.EnumPattern{Base: ast.Base{Sp: p.spanFrom(start)}, EnumName: name, Variant: variant, SubPatterns: subs}
		}
		return &ast.IdentPattern{Base: ast.Base{Sp: p.spanFrom(start)}, Name: name}
	}

	p.errorf("expected pattern, found %s", p.describe(tok))
	p.synchronize()
	return &ast.WildcardPattern{Base: ast.Base{Sp: p.errSpan()}}
}

// expectKeyword consumes the current token if it is keyword k, else
// reports an error naming what, without advancing past EOF.
func (p *Parser) expectKeyword(k keyword.Kind, what string) {
	if p.checkKeyword(k) {
		p.advance()
		return
	}
	p.errorf("expected %s, found %s", what, p.describe(p.cur()))
}

// parseInterpString splits an InterpString token's raw text into
// literal-text and embedded-expression parts. Unescaped '{' opens an
// expression segment that runs to its matching unescaped '}'
// (segments do not nest quotes); the segment's source text is re-lexed
// and re-parsed as a standalone expression using the same keyword
// catalog the outer parse was built with. '\{' and '\}' escape a
// literal brace; other backslash escapes follow the same table as
// ordinary string literals.
func (p *Parser) parseInterpString(tok lexer.Token, sp diagnostics.Span) ast.Expr {
	// Lexeme carries the full '$"..."' lexeme including its delimiters;
	// strip the leading '$"' and trailing '"' to recover the raw body.
	raw := tok.Lexeme
	if len(raw) >= 2 && raw[:2] == `$"` {
		raw = raw[2:]
	}
	if len(raw) >= 1 && raw[len(raw)-1] == '"' {
		raw = raw[:len(raw)-1]
	}
	var parts []ast.InterpPart
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			parts = append(parts, ast.InterpPart{Text: text.String()})
			text.Reset()
		}
	}

	runes := []rune(raw)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes):
			text.WriteRune(unescapeInterp(runes[i+1]))
			i += 2

		case r == '{':
			flush()
			depth := 1
			j := i + 1
			for j < len(runes) && depth > 0 {
				switch runes[j] {
				case '{':
					depth++
				case '}':
					depth--
					if depth == 0 {
						goto found
					}
				}
				j++
			}
		found:
			if depth != 0 {
				p.bag.Addf(diagnostics.Error, sp, "unterminated interpolation expression in string literal")
				i = len(runes)
				break
			}
			exprSrc := string(runes[i+1 : j])
			parts = append(parts, ast.InterpPart{Expr: p.parseEmbeddedExpr(exprSrc, sp)})
			i = j + 1

		default:
			text.WriteRune(r)
			i++
		}
	}
	flush()

	return &ast.InterpolatedString{Base: ast.Base{Sp: sp}, Parts: parts}
}

func unescapeInterp(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return r // \\, \", \{, \}, \' and anything else pass through literally
	}
}

// parseEmbeddedExpr re-lexes and re-parses src as a standalone
// expression, reusing the outer parser's catalog and diagnostics bag
// so errors inside an interpolation segment surface through the same
// channel as the rest of the file.
func (p *Parser) parseEmbeddedExpr(src string, sp diagnostics.Span) ast.Expr {
	toks := lexer.Tokenize(src, p.cat, p.bag, p.fileID)
	sub := &Parser{toks: toks, bag: p.bag, fileID: p.fileID, cat: p.cat}
	if len(toks) == 0 || sub.atEnd() {
		return &ast.ErrorExpr{Base: ast.Base{Sp: sp}}
	}
	return sub.parseExpression()
}
