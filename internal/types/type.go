// Package types implements the semantic type model: primitive and
// composite Types, assignability/subtyping rules, and the scoped
// Environment used by the type checker (spec §3, §4.5).
package types

import "fmt"

// Kind discriminates the closed set of semantic type shapes.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindString
	KindChar
	KindUnit
	KindUnknown
	KindOptional
	KindArray
	KindStruct
	KindEnum
	KindGeneric
	KindFunction
)

// Type is a semantic (not syntactic) type. Equality is structural: two
// Types are equal iff Equal reports true, regardless of pointer
// identity.
type Type struct {
	Kind Kind

	// KindStruct / KindEnum
	Name string

	// KindOptional / KindArray: the wrapped/element type.
	Elem *Type

	// KindGeneric
	Args []*Type

	// KindFunction
	Params []*Type
	Result *Type
}

var (
	Int     = &Type{Kind: KindInt}
	Float   = &Type{Kind: KindFloat}
	Bool    = &Type{Kind: KindBool}
	String  = &Type{Kind: KindString}
	Char    = &Type{Kind: KindChar}
	Unit    = &Type{Kind: KindUnit}
	Unknown = &Type{Kind: KindUnknown}
)

// Optional builds Optional(t).
func Optional(t *Type) *Type { return &Type{Kind: KindOptional, Elem: t} }

// Array builds Array(t).
func Array(t *Type) *Type { return &Type{Kind: KindArray, Elem: t} }

// StructT builds Struct(name).
func StructT(name string) *Type { return &Type{Kind: KindStruct, Name: name} }

// EnumT builds Enum(name).
func EnumT(name string) *Type { return &Type{Kind: KindEnum, Name: name} }

// Generic builds ParameterizedGeneric(name, args).
func Generic(name string, args ...*Type) *Type {
	return &Type{Kind: KindGeneric, Name: name, Args: args}
}

// Func builds Function(params, result).
func Func(params []*Type, result *Type) *Type {
	return &Type{Kind: KindFunction, Params: params, Result: result}
}

// IsNumeric reports whether t is Int or Float.
func (t *Type) IsNumeric() bool {
	return t != nil && (t.Kind == KindInt || t.Kind == KindFloat)
}

// String renders t for diagnostics.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindBool:
		return "Bool"
	case KindString:
		return "String"
	case KindChar:
		return "Char"
	case KindUnit:
		return "Unit"
	case KindUnknown:
		return "Unknown"
	case KindOptional:
		return t.Elem.String() + "?"
	case KindArray:
		return "[" + t.Elem.String() + "]"
	case KindStruct:
		return t.Name
	case KindEnum:
		return t.Name
	case KindGeneric:
		args := ""
		for i, a := range t.Args {
			if i > 0 {
				args += ", "
			}
			args += a.String()
		}
		return fmt.Sprintf("%s<%s>", t.Name, args)
	case KindFunction:
		params := ""
		for i, p := range t.Params {
			if i > 0 {
				params += ", "
			}
			params += p.String()
		}
		return fmt.Sprintf("(%s) -> %s", params, t.Result.String())
	default:
		return "?"
	}
}

// Equal reports whether t and u are structurally identical.
func (t *Type) Equal(u *Type) bool {
	if t == nil || u == nil {
		return t == u
	}
	if t.Kind != u.Kind {
		return false
	}
	switch t.Kind {
	case KindStruct, KindEnum:
		return t.Name == u.Name
	case KindOptional, KindArray:
		return t.Elem.Equal(u.Elem)
	case KindGeneric:
		if t.Name != u.Name || len(t.Args) != len(u.Args) {
			return false
		}
		for i := range t.Args {
			if !t.Args[i].Equal(u.Args[i]) {
				return false
			}
		}
		return true
	case KindFunction:
		if len(t.Params) != len(u.Params) || !t.Result.Equal(u.Result) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(u.Params[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// AssignableTo reports whether a value of type t may be used where a
// value of type target is expected, per spec §3's assignability rules:
// reflexive; Unknown assignable to/from anything (recovery); Optional(T)
// accepts T and the bare Optional(Unknown) produced by a null literal;
// Int is assignable to Float in numeric contexts (callers needing that
// promotion call NumericResult instead, since plain assignability here
// stays exact except for the Optional/Unknown escape hatches).
func (t *Type) AssignableTo(target *Type) bool {
	if t == nil || target == nil {
		return false
	}
	if t.Kind == KindUnknown || target.Kind == KindUnknown {
		return true
	}
	if t.Equal(target) {
		return true
	}
	if target.Kind == KindOptional {
		if t.Kind == KindOptional && t.Elem.Kind == KindUnknown {
			// The `null` literal's type, Optional(Unknown), unifies with
			// any Optional(T).
			return true
		}
		return t.AssignableTo(target.Elem)
	}
	return false
}

// NumericResult returns the result type of a numeric binary operation
// over operand types a and b per spec §4.5: Float if either operand is
// Float, else Int. Callers must check IsNumeric on both operands first.
func NumericResult(a, b *Type) *Type {
	if a.Kind == KindFloat || b.Kind == KindFloat {
		return Float
	}
	return Int
}
