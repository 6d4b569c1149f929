package ast

import "seenc/internal/diagnostics"

// TypeExpr is the syntactic (as opposed to semantic) representation of a
// type annotation as written by the programmer: a name, optional generic
// arguments, and optional nullable/array wrapping. The Type Checker
// resolves a TypeExpr into a types.Type.
type TypeExpr struct {
	Base
	Name     string      // e.g. "Int", "P", "Option"
	Args     []*TypeExpr // generic type arguments, e.g. the [T] in Option<T>
	Elem     *TypeExpr   // element type when Array is true
	Optional bool        // true if written as "T?"
	Array    bool        // true if written as "[T]"
}

func NewTypeExpr(sp diagnostics.Span, name string, args []*TypeExpr, optional, array bool) *TypeExpr {
	return &TypeExpr{Base: Base{sp}, Name: name, Args: args, Optional: optional, Array: array}
}
