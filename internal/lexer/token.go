// Package lexer turns a UTF-8 source buffer into a finite ordered token
// stream terminated by EOF. It never aborts: invalid input yields a
// Token of Kind Error and the lexer still advances and keeps scanning, so
// the parser downstream always receives a complete stream to recover
// from (spec §4.3, §4.8).
package lexer

import (
	"fmt"

	"seenc/internal/diagnostics"
	"seenc/internal/keyword"
)

// Kind is the closed tagged union of token kinds. Structural kinds
// (delimiters, operators, literal categories) occupy the low values;
// every loaded keyword.Kind is mapped bijectively onto a Kind at
// KeywordBase+int(k), giving the token stream "one case per keyword
// kind" without the lexer ever embedding keyword text constants (spec
// §4.3: keyword resolution is delegated to the Catalog).
type Kind int

const (
	EOF Kind = iota
	Error
	Identifier
	Integer
	Float
	String
	InterpString // a $"..." interpolated string literal; Lexeme is the raw,
	// unescaped text between the quotes, split into Text/Expr parts by
	// the parser (spec §3: interpolated string [Text | Expr]*).
	Char
	Boolean

	// Delimiters.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Semicolon
	Colon
	Dot
	Question

	// Operators.
	Plus
	Minus
	Star
	Slash
	Percent
	Assign
	PlusAssign
	MinusAssign
	StarAssign
	SlashAssign
	PercentAssign
	Eq
	NotEq
	Lt
	LtEq
	Gt
	GtEq
	AndAnd
	OrOr
	Bang
	Amp
	Pipe
	Caret
	Shl
	Shr
	Arrow     // ->
	FatArrow  // =>
	DoubleColon
	DotDot
	DotDotDot

	// KeywordBase marks the start of the keyword-kind range. Every
	// keyword.Kind k is represented as KeywordBase + Kind(k).
	KeywordBase
)

// KeywordKind converts a keyword.Kind into its Token Kind.
func KeywordKind(k keyword.Kind) Kind {
	return KeywordBase + Kind(k)
}

// AsKeyword reports whether kind represents a keyword.Kind, and which
// one.
func (kind Kind) AsKeyword() (keyword.Kind, bool) {
	if kind < KeywordBase {
		return 0, false
	}
	return keyword.Kind(kind - KeywordBase), true
}

var kindNames = map[Kind]string{
	EOF: "EOF", Error: "Error", Identifier: "Identifier", Integer: "Integer",
	Float: "Float", String: "String", InterpString: "InterpString",
	Char: "Char", Boolean: "Boolean",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[",
	RBracket: "]", Comma: ",", Semicolon: ";", Colon: ":", Dot: ".",
	Question: "?", Plus: "+", Minus: "-", Star: "*", Slash: "/",
	Percent: "%", Assign: "=", PlusAssign: "+=", MinusAssign: "-=",
	StarAssign: "*=", SlashAssign: "/=", PercentAssign: "%=", Eq: "==",
	NotEq: "!=", Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=", AndAnd: "&&",
	OrOr: "||", Bang: "!", Amp: "&", Pipe: "|", Caret: "^", Shl: "<<",
	Shr: ">>", Arrow: "->", FatArrow: "=>", DoubleColon: "::",
	DotDot: "..", DotDotDot: "...",
}

// String renders kind for diagnostics and debugging.
func (kind Kind) String() string {
	if n, ok := kindNames[kind]; ok {
		return n
	}
	if kw, ok := kind.AsKeyword(); ok {
		return "keyword:" + kw.String()
	}
	return "unknown"
}

// Token is one lexeme scanned from the source, carrying its Kind, raw
// text and source Span, plus whichever typed payload field its Kind
// implies. Non-applicable payload fields are left at their zero value,
// giving Token the shape of a tagged union without requiring a Go
// interface or type switch to read a literal's value.
type Token struct {
	Kind       Kind
	Lexeme     string
	Span       diagnostics.Span
	IntValue   int64
	FloatText  string
	CharValue  rune
	BoolValue  bool
	StringText string
	Keyword    keyword.Kind
}

// String renders the token in a print-friendly form, truncating long
// lexemes, mirroring the teacher's item.String().
func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "EOF"
	case Error:
		return fmt.Sprintf("%s [ERROR]", t.Lexeme)
	}
	lex := t.Lexeme
	if len(lex) > 10 {
		lex = lex[:10] + "..."
	}
	return fmt.Sprintf("%q (%d:%d)", lex, t.Span.Start.Line, t.Span.Start.Column)
}
