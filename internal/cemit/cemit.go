package cemit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"seenc/internal/ir"
)

// runtimePreamble declares the small set of helper functions the
// emitted code calls for operations C has no single operator for
// (array access, field access by name, string concatenation). Their
// definitions live in a companion runtime, not in generated output.
// Struct/enum construction is emitted directly per type instead (see
// emitStructDef/emitEnumDef), since the emitter already knows every
// field's name, order, and C type at compile time.
const runtimePreamble = `#include <stdio.h>
#include <stdlib.h>
#include <stdint.h>
#include <stdbool.h>

typedef void *seen_value;

extern seen_value seen_rt_array_get(seen_value arr, int64_t idx);
extern void        seen_rt_array_set(seen_value arr, int64_t idx, seen_value v);
extern seen_value seen_rt_array_from(int64_t count, ...);
extern seen_value seen_rt_field_get(seen_value obj, const char *field);
extern void        seen_rt_field_set(seen_value obj, const char *field, seen_value v);
extern seen_value seen_rt_string_concat(seen_value a, seen_value b);
extern const char *seen_rt_enum_tag(seen_value v);
extern seen_value seen_rt_enum_field(seen_value v, int idx);
extern void        seen_rt_print(seen_value v);
`

// Emit lowers prog into one C translation unit per module, concatenated
// in declaration order with a shared runtime preamble.
func Emit(prog *ir.Program) (string, error) {
	var w Writer
	w.WriteString(runtimePreamble)
	w.WriteString("\n")
	for _, mod := range prog.Modules {
		if err := emitModule(&w, mod); err != nil {
			return "", errors.Wrapf(err, "module %s", mod.Name)
		}
	}
	return w.String(), nil
}

func emitModule(w *Writer, mod *ir.Module) error {
	w.Line("/* module %s */", mod.Name)
	for name, t := range mod.Types {
		switch t.Kind {
		case ir.TStruct:
			emitStructDef(w, name, t)
		case ir.TEnum:
			emitEnumDef(w, name, t)
		}
	}
	for _, fn := range mod.Functions {
		if err := fn.Validate(); err != nil {
			return err
		}
	}
	for _, fn := range mod.Functions {
		emitFunctionProto(w, fn)
	}
	w.WriteString("\n")
	for _, fn := range mod.Functions {
		emitFunction(w, fn, mod.Types)
	}
	return nil
}

// emitStructDef emits the struct's typedef plus a TypeName__new
// constructor taking one parameter per field in declaration order and
// returning a malloc'd, populated instance as a seen_value.
func emitStructDef(w *Writer, name string, t ir.Type) {
	w.Line("typedef struct {")
	for _, f := range t.Fields {
		w.Line("\t%s %s;", cType(f.Type), f.Name)
	}
	w.Line("} %s;", name)

	params := "void"
	if len(t.Fields) > 0 {
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = fmt.Sprintf("%s %s", cType(f.Type), f.Name)
		}
		params = strings.Join(parts, ", ")
	}
	w.Line("seen_value %s__new(%s) {", name, params)
	w.Line("\t%s *v = malloc(sizeof(%s));", name, name)
	for _, f := range t.Fields {
		w.Line("\tv->%s = %s;", f.Name, f.Name)
	}
	w.Line("\treturn (seen_value)v;")
	w.Line("}")
	w.WriteString("\n")
}

// emitEnumDef emits a tag-plus-union typedef (spec §4.7(ii)) with one
// union arm per variant holding its payload fields, plus one
// EnumName__Variant constructor function per variant that tags and
// populates a malloc'd instance. tag is always the typedef's first
// member so a generic runtime helper can read it through any enum's
// pointer regardless of which variant is stored.
func emitEnumDef(w *Writer, name string, t ir.Type) {
	w.Line("typedef struct {")
	w.Line("\tconst char *tag;")
	w.Line("\tunion {")
	for _, v := range t.Variants {
		if len(v.Fields) == 0 {
			w.Line("\t\tstruct { char _unused; } %s;", v.Name)
			continue
		}
		w.Line("\t\tstruct {")
		for i, ft := range v.Fields {
			w.Line("\t\t\t%s _%d;", cType(ft), i)
		}
		w.Line("\t\t} %s;", v.Name)
	}
	w.Line("\t} as;")
	w.Line("} %s;", name)
	w.WriteString("\n")

	for _, v := range t.Variants {
		emitEnumConstructor(w, name, v)
	}
}

func emitEnumConstructor(w *Writer, enumName string, v ir.EnumVariantType) {
	params := "void"
	if len(v.Fields) > 0 {
		parts := make([]string, len(v.Fields))
		for i, ft := range v.Fields {
			parts[i] = fmt.Sprintf("%s _%d", cType(ft), i)
		}
		params = strings.Join(parts, ", ")
	}
	w.Line("seen_value %s__%s(%s) {", enumName, v.Name, params)
	w.Line("\t%s *v = malloc(sizeof(%s));", enumName, enumName)
	w.Line("\tv->tag = %q;", v.Name)
	for i := range v.Fields {
		w.Line("\tv->as.%s._%d = _%d;", v.Name, i, i)
	}
	w.Line("\treturn (seen_value)v;")
	w.Line("}")
	w.WriteString("\n")
}

func cType(t ir.Type) string {
	switch t.Kind {
	case ir.TInt:
		return "int64_t"
	case ir.TFloat:
		return "double"
	case ir.TBool:
		return "bool"
	case ir.TString:
		return "const char *"
	case ir.TVoid:
		return "void"
	case ir.TPtr:
		return cType(*t.Elem) + " *"
	case ir.TStruct:
		return t.Name
	case ir.TEnum:
		return "seen_value"
	default:
		return "seen_value"
	}
}

func funcSignature(fn *ir.Function) string {
	sig := fmt.Sprintf("%s %s(", cType(fn.ReturnType), fn.Name)
	for i, p := range fn.Params {
		if i > 0 {
			sig += ", "
		}
		sig += fmt.Sprintf("%s %s", cType(p.Type), p.Name)
	}
	if len(fn.Params) == 0 {
		sig += "void"
	}
	return sig + ")"
}

func emitFunctionProto(w *Writer, fn *ir.Function) {
	w.Line("%s;", funcSignature(fn))
}

// phiCopy is a `dst = value;` assignment that must run at the end of a
// specific predecessor block, the standard "out of SSA" technique for
// lowering Phi nodes to a backend (like C) with no native phi.
type phiCopy struct {
	dst   ir.Register
	value ir.Value
}

// collectPhiCopies scans every Phi in fn and returns, for each
// predecessor block label, the copies that block must perform just
// before its terminator runs.
func collectPhiCopies(fn *ir.Function) map[string][]phiCopy {
	copies := make(map[string][]phiCopy)
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			phi, ok := instr.(ir.Phi)
			if !ok {
				continue
			}
			for _, in := range phi.Incoming {
				copies[in.Label] = append(copies[in.Label], phiCopy{dst: phi.Dst, value: in.Value})
			}
		}
	}
	return copies
}

func emitFunction(w *Writer, fn *ir.Function, types map[string]ir.Type) {
	w.Line("%s {", funcSignature(fn))
	for i := 0; i < fn.RegisterCount; i++ {
		w.Line("\tseen_value r%d;", i)
	}
	copies := collectPhiCopies(fn)
	for _, b := range fn.Blocks {
		w.Label(b.Label)
		for _, instr := range b.Instrs {
			emitInstr(w, instr, types)
		}
		for _, c := range copies[b.Label] {
			w.Line("\tr%d = %s;", c.dst, renderValue(c.value, types))
		}
		emitTerminator(w, b.Terminator, types)
	}
	w.Line("}")
	w.WriteString("\n")
}

func renderValue(v ir.Value, types map[string]ir.Type) string {
	switch x := v.(type) {
	case ir.RegisterValue:
		return fmt.Sprintf("r%d", x.Reg)
	case ir.IntConst:
		return fmt.Sprintf("%d", x.Value)
	case ir.FloatConst:
		return fmt.Sprintf("%g", x.Value)
	case ir.BoolConst:
		if x.Value {
			return "true"
		}
		return "false"
	case ir.StringConst:
		return fmt.Sprintf("%q", x.Value)
	case ir.VarValue:
		return x.Name
	case ir.VoidValue:
		return "NULL"
	case ir.StructLiteralValue:
		return renderStructLiteral(x, types)
	case ir.ArrayLiteralValue:
		return renderArrayLiteral(x, types)
	default:
		return "NULL"
	}
}

// renderStructLiteral renders a struct literal as a TypeName__new(...)
// call and an enum literal (also a StructLiteralValue, per the "__tag"
// plus positional fields convention irgen uses) as a
// EnumName__Variant(...) call, both emitted by emitStructDef/
// emitEnumDef above. types must already hold v.TypeName's definition:
// every struct/enum type irgen lowers is registered before any literal
// of it is lowered.
func renderStructLiteral(v ir.StructLiteralValue, types map[string]ir.Type) string {
	t, ok := types[v.TypeName]
	if !ok {
		return "NULL"
	}
	byName := make(map[string]ir.Value, len(v.Fields))
	for _, f := range v.Fields {
		byName[f.Field] = f.Value
	}

	switch t.Kind {
	case ir.TEnum:
		tag, ok := byName["__tag"].(ir.StringConst)
		if !ok {
			return "NULL"
		}
		var args []string
		for i := 0; ; i++ {
			fv, ok := byName[strconv.Itoa(i)]
			if !ok {
				break
			}
			args = append(args, renderValue(fv, types))
		}
		return fmt.Sprintf("%s__%s(%s)", v.TypeName, tag.Value, strings.Join(args, ", "))
	case ir.TStruct:
		args := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			if fv, ok := byName[f.Name]; ok {
				args[i] = renderValue(fv, types)
			} else {
				args[i] = "0"
			}
		}
		return fmt.Sprintf("%s__new(%s)", v.TypeName, strings.Join(args, ", "))
	default:
		return "NULL"
	}
}

// renderArrayLiteral renders an array literal as a call into the
// runtime's variadic seen_rt_array_from helper, which mallocs an array
// sized for count elements and stores each argument into it in order
// (spec §4.7: "array literals allocate with malloc and store element
// by element").
func renderArrayLiteral(v ir.ArrayLiteralValue, types map[string]ir.Type) string {
	if len(v.Elements) == 0 {
		return "seen_rt_array_from(0)"
	}
	args := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		args[i] = renderValue(e, types)
	}
	return fmt.Sprintf("seen_rt_array_from(%d, %s)", len(args), strings.Join(args, ", "))
}

var binaryOperators = map[ir.BinaryOp]string{
	ir.OpAdd: "+", ir.OpSub: "-", ir.OpMul: "*", ir.OpDiv: "/", ir.OpMod: "%",
	ir.OpEq: "==", ir.OpNotEq: "!=", ir.OpLt: "<", ir.OpLtEq: "<=",
	ir.OpGt: ">", ir.OpGtEq: ">=", ir.OpAnd: "&&", ir.OpOr: "||",
}

func emitInstr(w *Writer, instr ir.Instruction, types map[string]ir.Type) {
	switch x := instr.(type) {
	case ir.Move:
		w.Line("\tr%d = %s;", x.Dst, renderValue(x.Src, types))
	case ir.Binary:
		w.Line("\tr%d = %s %s %s;", x.Dst, renderValue(x.L, types), binaryOperators[x.Op], renderValue(x.R, types))
	case ir.Unary:
		op := "-"
		if x.Op == ir.OpNot {
			op = "!"
		}
		w.Line("\tr%d = %s%s;", x.Dst, op, renderValue(x.X, types))
	case ir.Store:
		w.Line("\t%s = %s;", x.Dst.Name, renderValue(x.Src, types))
	case ir.Load:
		w.Line("\tr%d = %s;", x.Dst, x.Src.Name)
	case ir.Call:
		args := ""
		for i, a := range x.Args {
			if i > 0 {
				args += ", "
			}
			args += renderValue(a, types)
		}
		if x.Dst != nil {
			w.Line("\tr%d = %s(%s);", *x.Dst, x.Target, args)
		} else {
			w.Line("\t%s(%s);", x.Target, args)
		}
	case ir.ArrayAccess:
		w.Line("\tr%d = seen_rt_array_get(%s, %s);", x.Dst, renderValue(x.Array, types), renderValue(x.Index, types))
	case ir.ArraySet:
		w.Line("\tseen_rt_array_set(%s, %s, %s);", renderValue(x.Array, types), renderValue(x.Index, types), renderValue(x.Value, types))
	case ir.FieldAccess:
		w.Line("\tr%d = seen_rt_field_get(%s, %q);", x.Dst, renderValue(x.Object, types), x.Field)
	case ir.FieldSet:
		w.Line("\tseen_rt_field_set(%s, %q, %s);", renderValue(x.Object, types), x.Field, renderValue(x.Value, types))
	case ir.StringConcat:
		w.Line("\tr%d = seen_rt_string_concat(%s, %s);", x.Dst, renderValue(x.L, types), renderValue(x.R, types))
	case ir.GetEnumTag:
		w.Line("\tr%d = (seen_value)seen_rt_enum_tag(%s);", x.Dst, renderValue(x.Value, types))
	case ir.GetEnumField:
		w.Line("\tr%d = seen_rt_enum_field(%s, %d);", x.Dst, renderValue(x.Value, types), x.Idx)
	case ir.Phi:
		// Resolved by collectPhiCopies: each incoming edge's assignment
		// is emitted at the end of its predecessor block instead, since
		// plain C has no native phi.
	case ir.Label:
		w.Label(x.Name)
	}
}

func emitTerminator(w *Writer, term ir.Instruction, types map[string]ir.Type) {
	switch x := term.(type) {
	case ir.Return:
		if x.Value == nil {
			w.Line("\treturn;")
		} else {
			w.Line("\treturn %s;", renderValue(x.Value, types))
		}
	case ir.Jump:
		w.Line("\tgoto %s;", x.Target)
	case ir.JumpIf:
		w.Line("\tif (%s) goto %s; else goto %s;", renderValue(x.Cond, types), x.Target, x.Next)
	case ir.JumpIfNot:
		w.Line("\tif (!(%s)) goto %s; else goto %s;", renderValue(x.Cond, types), x.Target, x.Next)
	}
}
