// Package parser turns a lexer.Token stream into an ast.Program using
// precedence climbing for expressions and recursive descent for
// statements and declarations (spec §4.4). Errors are reported to a
// diagnostics.Bag and recovered from locally; the parser never returns
// without having advanced past at least one token, and is fatal only on
// a completely empty token stream.
package parser

import (
	"seenc/internal/ast"
	"seenc/internal/diagnostics"
	"seenc/internal/keyword"
	"seenc/internal/lexer"

	"github.com/pkg/errors"
)

// Parser holds the token stream and cursor. It is not safe for
// concurrent use.
type Parser struct {
	toks   []lexer.Token
	pos    int
	bag    *diagnostics.Bag
	fileID int
	cat    *keyword.Catalog // needed to re-lex embedded interpolation expressions

	// noStructLiteral suppresses parsing a bare `Ident '{' ...` as a
	// struct literal while parsing an if/while/for condition header,
	// resolving the classic "is '{' the block or a composite literal"
	// ambiguity the same way go/parser does for composite literals in
	// control-flow headers (spec leaves this ambiguity to the
	// implementer; see DESIGN.md).
	noStructLiteral bool

	// loopDepth tracks whether break/continue currently have an
	// enclosing loop to bind to; it is advisory only here, since
	// break/continue's real label-stack discipline lives in the IR
	// generator (spec §4.6) — the parser merely accepts the syntax.
	loopDepth int
}

// Parse runs the full grammar over toks and returns the resulting
// Program. Parse is fatal (returns a non-nil error) only when toks is
// empty; any other failure is recovered from and reported via bag, with
// parsing continuing to produce as complete a Program as possible (spec
// §4.8).
func Parse(toks []lexer.Token, bag *diagnostics.Bag, fileID int, cat *keyword.Catalog) (*ast.Program, error) {
	if len(toks) == 0 {
		return nil, errors.New("parser: empty token stream")
	}
	p := &Parser{toks: toks, bag: bag, fileID: fileID, cat: cat}
	return p.parseProgram(), nil
}

// ---------------------------------------------------------------
// ----- Cursor primitives -----
// ---------------------------------------------------------------

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *Parser) curKind() lexer.Kind { return p.cur().Kind }

func (p *Parser) atEnd() bool { return p.curKind() == lexer.EOF }

// advance consumes and returns the current token, never stepping past
// EOF, so the parser always makes progress without running off the end.
func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if !p.atEnd() {
		p.pos++
	}
	return t
}

func (p *Parser) check(k lexer.Kind) bool { return p.curKind() == k }

func (p *Parser) checkKeyword(k keyword.Kind) bool {
	kw, ok := p.curKind().AsKeyword()
	return ok && kw == k
}

func (p *Parser) match(k lexer.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) matchKeyword(k keyword.Kind) bool {
	if p.checkKeyword(k) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it has kind k, else reports an
// error at the current span and returns the zero Token.
func (p *Parser) expect(k lexer.Kind, what string) lexer.Token {
	if p.check(k) {
		return p.advance()
	}
	p.errorf("expected %s, found %s", what, p.describe(p.cur()))
	return lexer.Token{Kind: lexer.Error, Span: p.cur().Span}
}

func (p *Parser) describe(t lexer.Token) string {
	if t.Kind == lexer.EOF {
		return "end of input"
	}
	return t.Kind.String()
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.bag.Addf(diagnostics.Error, p.cur().Span, format, args...)
}

// synchronize advances past tokens until a synchronizing point: ';'
// (consumed), '}' or ')' (not consumed, so the caller's own closing-
// delimiter check succeeds), a declaration keyword, or EOF. This bounds
// recovery to always make progress, satisfying "parser progress" (spec
// §8).
func (p *Parser) synchronize() {
	// Always consume at least one token so a parser stuck exactly on a
	// synchronizing token still advances.
	p.advance()
	for !p.atEnd() {
		switch p.curKind() {
		case lexer.Semicolon:
			p.advance()
			return
		case lexer.RBrace, lexer.RParen:
			return
		}
		if kw, ok := p.curKind().AsKeyword(); ok {
			switch kw {
			case keyword.Function, keyword.Var, keyword.Val, keyword.Struct, keyword.Enum:
				return
			}
		}
		p.advance()
	}
}

func (p *Parser) errSpan() diagnostics.Span { return p.cur().Span }

// spanFrom builds a Span running from start's start position to the end
// of the most recently consumed token, for wrapping a multi-token
// construct after it has been fully parsed.
func (p *Parser) spanFrom(start diagnostics.Span) diagnostics.Span {
	end := start
	if p.pos > 0 {
		end = p.toks[p.pos-1].Span
	}
	return diagnostics.Span{Start: start.Start, End: end.End, FileID: p.fileID}
}

// errorExpr builds a placeholder expression at the current position,
// for use after a syntax error from which no real expression could be
// built.
func (p *Parser) errorExpr() ast.Expr {
	return &ast.ErrorExpr{Base: ast.Base{Sp: p.errSpan()}}
}
