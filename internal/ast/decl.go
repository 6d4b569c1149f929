package ast

// FunctionDecl declares a named function with typed parameters, an
// optional declared return type (Unit if nil), and a block body.
type FunctionDecl struct {
	Base
	Name       string
	Params     []Param
	ReturnType *TypeExpr // nil means Unit
	Body       *BlockExpr
}

func (*FunctionDecl) declNode() {}

// VariableDecl declares a top-level or local binding; equivalent in
// shape to LetExpr but used where the grammar requires a declaration
// rather than an expression (spec §4.4: VariableDecl production).
type VariableDecl struct {
	Base
	Name    string
	Mutable bool
	Type    *TypeExpr
	Init    Expr
}

func (*VariableDecl) declNode() {}

type FieldDecl struct {
	Name string
	Type *TypeExpr
}

type StructDecl struct {
	Base
	Name   string
	Fields []FieldDecl
}

func (*StructDecl) declNode() {}

// VariantDecl is one case of an EnumDecl; Fields is the variant's payload
// element types, empty for a unit-like variant.
type VariantDecl struct {
	Name   string
	Fields []*TypeExpr
}

// EnumDecl declares a (possibly generic) tagged union. TypeParams names
// the declaration's generic parameters, referenced by VariantDecl.Fields
// entries whose Name matches one of them.
type EnumDecl struct {
	Base
	Name       string
	TypeParams []string
	Variants   []VariantDecl
}

func (*EnumDecl) declNode() {}
