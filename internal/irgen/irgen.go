// Package irgen lowers a type-checked ast.Program into an ir.Program
// (spec §4.6): one ir.Module per source file, a generated basic-block
// CFG per function, and a synthetic `main` wrapping any top-level
// expressions when no explicit entry point is declared.
package irgen

import (
	"fmt"

	"seenc/internal/ast"
	"seenc/internal/check"
	"seenc/internal/ir"
	"seenc/internal/types"
)

// Generator carries the per-module state needed to lower a Program: the
// checker's type annotations (consulted instead of re-deriving types),
// the module under construction, and the per-function block-building
// cursor used by lowerExpr/lowerStmt.
type Generator struct {
	res *check.Result
	mod *ir.Module

	fn         *ir.Function
	blocks     []*ir.BasicBlock
	cur        *ir.BasicBlock
	regCount   int
	labelCount int

	// breakTargets/continueTargets track the label a break/continue
	// jumps to for the innermost enclosing loop; pushed on loop entry,
	// popped on exit, mirroring the checker's loopStack.
	breakTargets    []string
	continueTargets []string
}

// Generate lowers prog into a single-module ir.Program. moduleName
// becomes the ir.Module's Name (typically the source file's base name).
func Generate(prog *ast.Program, res *check.Result, moduleName string) *ir.Program {
	g := &Generator{res: res, mod: ir.NewModule(moduleName)}
	g.lowerProgram(prog)
	return &ir.Program{Modules: []*ir.Module{g.mod}, EntryPoint: g.mod.EntryPointName()}
}

func (g *Generator) newRegister() ir.Register {
	r := ir.Register(g.regCount)
	g.regCount++
	return r
}

func (g *Generator) newLabel(prefix string) string {
	g.labelCount++
	return fmt.Sprintf("%s.%d", prefix, g.labelCount)
}

// startBlock opens a new basic block, makes it current, and returns it.
// Callers that fall through from a prior block must have already
// terminated it with a Jump/JumpIf/JumpIfNot into this block's label.
func (g *Generator) startBlock(label string) *ir.BasicBlock {
	b := &ir.BasicBlock{Label: label}
	g.blocks = append(g.blocks, b)
	g.cur = b
	return b
}

func (g *Generator) emit(instr ir.Instruction) {
	g.cur.Instrs = append(g.cur.Instrs, instr)
}

func (g *Generator) terminate(instr ir.Instruction) {
	g.cur.Terminator = instr
}

// finished reports whether the current block already has a terminator,
// i.e. a `return`/`break`/`continue` already closed it and any further
// statements in the same source block are unreachable.
func (g *Generator) finished() bool {
	return g.cur != nil && g.cur.Terminator != nil
}

func (g *Generator) typeOf(e ast.Expr) *types.Type {
	return g.res.TypeOf(e)
}

// lowerType converts a checker-facing semantic type into the IR's own
// erased Type representation (spec §3 distinguishes the two models).
func (g *Generator) lowerType(t *types.Type) ir.Type {
	if t == nil {
		return ir.Void
	}
	switch t.Kind {
	case types.KindInt, types.KindChar:
		return ir.Int
	case types.KindFloat:
		return ir.Float
	case types.KindBool:
		return ir.Bool
	case types.KindString:
		return ir.String
	case types.KindUnit, types.KindUnknown:
		return ir.Void
	case types.KindOptional:
		return ir.PtrType(g.lowerType(t.Elem))
	case types.KindArray:
		return ir.PtrType(g.lowerType(t.Elem))
	case types.KindStruct:
		return g.lowerStructType(t.Name)
	case types.KindEnum, types.KindGeneric:
		return g.lowerEnumType(t.Name)
	default:
		return ir.Void
	}
}

func (g *Generator) lowerStructType(name string) ir.Type {
	if t, ok := g.mod.Types[name]; ok {
		return t
	}
	def, ok := g.res.Env.LookupStruct(name)
	if !ok {
		return ir.Type{Kind: ir.TStruct, Name: name}
	}
	fields := make([]ir.StructFieldType, len(def.FieldNames))
	for i, fn := range def.FieldNames {
		fields[i] = ir.StructFieldType{Name: fn, Type: g.lowerType(def.FieldTypes[fn])}
	}
	st := ir.StructType(name, fields)
	g.mod.Types[name] = st
	return st
}

func (g *Generator) lowerEnumType(name string) ir.Type {
	if t, ok := g.mod.Types[name]; ok {
		return t
	}
	def, ok := g.res.Env.LookupEnum(name)
	if !ok {
		return ir.Type{Kind: ir.TEnum, Name: name}
	}
	variants := make([]ir.EnumVariantType, len(def.Variants))
	for i, v := range def.Variants {
		fields := make([]ir.Type, len(v.Fields))
		for j, f := range v.Fields {
			fields[j] = g.lowerType(f)
		}
		variants[i] = ir.EnumVariantType{Name: v.Name, Fields: fields}
	}
	et := ir.EnumType(name, variants)
	g.mod.Types[name] = et
	return et
}

