// Package ast defines the abstract syntax tree produced by the parser:
// pure data, no behavior beyond Span accessors. Every node carries a
// Span so diagnostics and the IR generator can point back at source
// text (spec §3).
package ast

import "seenc/internal/diagnostics"

// Node is implemented by every AST node.
type Node interface {
	Span() diagnostics.Span
}

// Base carries the common Span field embedded by every concrete node
// type, mirroring the teacher's ir.Node{Line, Pos} fields generalized
// into a full Span.
type Base struct {
	Sp diagnostics.Span
}

// Span returns the node's source span.
func (b Base) Span() diagnostics.Span { return b.Sp }

// Expr is implemented by every expression node (spec §3's expression
// tagged union).
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is implemented by every top-level/local declaration node.
type Decl interface {
	Node
	declNode()
}

// Pattern is implemented by every match-arm pattern node.
type Pattern interface {
	Node
	patternNode()
}

// Program is an ordered sequence of declarations and top-level
// expressions with an overall span (spec §3).
type Program struct {
	Base
	Items []Node // each element is a Decl or an Expr
}

func NewProgram(sp diagnostics.Span, items []Node) *Program {
	return &Program{Base{sp}, items}
}
