package ir

// TypeKind discriminates the closed set of IRType shapes (spec §3).
type TypeKind int

const (
	TVoid TypeKind = iota
	TInt
	TFloat
	TBool
	TString
	TStruct
	TEnum
	TPtr
)

// StructFieldType is one (field name, IRType) pair of a Struct IRType.
type StructFieldType struct {
	Name string
	Type Type
}

// EnumVariantType is one (variant name, optional payload types) case of
// an Enum IRType; Fields is nil for a unit-like variant.
type EnumVariantType struct {
	Name   string
	Fields []Type
}

// Type is the IR's own type representation, distinct from types.Type:
// it describes the shape a lowered value has in the emitted code, after
// generics have been erased to their instantiated field layouts.
type Type struct {
	Kind TypeKind

	// TStruct
	Name   string
	Fields []StructFieldType

	// TEnum
	Variants []EnumVariantType

	// TPtr
	Elem *Type
}

var (
	Void   = Type{Kind: TVoid}
	Int    = Type{Kind: TInt}
	Float  = Type{Kind: TFloat}
	Bool   = Type{Kind: TBool}
	String = Type{Kind: TString}
)

func StructType(name string, fields []StructFieldType) Type {
	return Type{Kind: TStruct, Name: name, Fields: fields}
}

func EnumType(name string, variants []EnumVariantType) Type {
	return Type{Kind: TEnum, Name: name, Variants: variants}
}

func PtrType(elem Type) Type {
	return Type{Kind: TPtr, Elem: &elem}
}

func (t Type) String() string {
	switch t.Kind {
	case TVoid:
		return "void"
	case TInt:
		return "int"
	case TFloat:
		return "float"
	case TBool:
		return "bool"
	case TString:
		return "string"
	case TStruct:
		return "struct " + t.Name
	case TEnum:
		return "enum " + t.Name
	case TPtr:
		return "ptr<" + t.Elem.String() + ">"
	default:
		return "?"
	}
}
