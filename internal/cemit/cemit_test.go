package cemit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seenc/internal/ir"
)

func simpleProgram() *ir.Program {
	entry := &ir.BasicBlock{
		Label: "entry",
		Instrs: []ir.Instruction{
			ir.Binary{Op: ir.OpAdd, L: ir.RegisterValue{Reg: 0}, R: ir.IntConst{Value: 1}, Dst: 1},
		},
		Terminator: ir.Return{Value: ir.RegisterValue{Reg: 1}},
	}
	fn := &ir.Function{
		Name:          "f",
		Params:        []ir.Parameter{{Name: "a", Type: ir.Int}},
		ReturnType:    ir.Int,
		Blocks:        []*ir.BasicBlock{entry},
		RegisterCount: 2,
	}
	mod := ir.NewModule("m")
	mod.Functions["f"] = fn
	return &ir.Program{Modules: []*ir.Module{mod}, EntryPoint: ""}
}

func TestEmitSimpleFunction(t *testing.T) {
	out, err := Emit(simpleProgram())
	require.NoError(t, err)
	assert.Contains(t, out, "int64_t f(int64_t a)")
	assert.Contains(t, out, "r1 = r0 + 1;")
	assert.Contains(t, out, "return r1;")
	assert.Contains(t, out, "entry:;")
}

func TestEmitRejectsMalformedCFG(t *testing.T) {
	p := simpleProgram()
	p.Modules[0].Functions["f"].Blocks[0].Terminator = nil
	_, err := Emit(p)
	assert.Error(t, err)
}

func TestEmitPhiResolvesToPredecessorCopies(t *testing.T) {
	entry := &ir.BasicBlock{
		Instrs:     []ir.Instruction{},
		Label:      "entry",
		Terminator: ir.JumpIf{Cond: ir.BoolConst{Value: true}, Target: "a", Next: "b"},
	}
	a := &ir.BasicBlock{Label: "a", Terminator: ir.Jump{Target: "merge"}}
	b := &ir.BasicBlock{Label: "b", Terminator: ir.Jump{Target: "merge"}}
	merge := &ir.BasicBlock{
		Label: "merge",
		Instrs: []ir.Instruction{
			ir.Phi{Dst: 0, Incoming: []ir.PhiIncoming{
				{Label: "a", Value: ir.IntConst{Value: 1}},
				{Label: "b", Value: ir.IntConst{Value: 2}},
			}},
		},
		Terminator: ir.Return{Value: ir.RegisterValue{Reg: 0}},
	}
	fn := &ir.Function{
		Name:          "g",
		ReturnType:    ir.Int,
		Blocks:        []*ir.BasicBlock{entry, a, b, merge},
		RegisterCount: 1,
	}
	mod := ir.NewModule("m")
	mod.Functions["g"] = fn
	out, err := Emit(&ir.Program{Modules: []*ir.Module{mod}})
	require.NoError(t, err)
	assert.Contains(t, out, "a:;\n\tr0 = 1;\n\tgoto merge;")
	assert.Contains(t, out, "b:;\n\tr0 = 2;\n\tgoto merge;")
}

func TestEmitStructDefinition(t *testing.T) {
	mod := ir.NewModule("m")
	mod.Types["P"] = ir.StructType("P", []ir.StructFieldType{{Name: "x", Type: ir.Int}})
	mod.Functions["main"] = &ir.Function{
		Name:       "main",
		ReturnType: ir.Int,
		Blocks: []*ir.BasicBlock{{
			Label:      "entry",
			Terminator: ir.Return{Value: ir.IntConst{Value: 0}},
		}},
	}
	out, err := Emit(&ir.Program{Modules: []*ir.Module{mod}, EntryPoint: "main"})
	require.NoError(t, err)
	assert.Contains(t, out, "typedef struct {")
	assert.Contains(t, out, "int64_t x;")
	assert.Contains(t, out, "} P;")
	assert.Contains(t, out, "seen_value P__new(int64_t x) {")
	assert.Contains(t, out, "v->x = x;")
}

func optionModule() *ir.Module {
	mod := ir.NewModule("m")
	mod.Types["Option"] = ir.EnumType("Option", []ir.EnumVariantType{
		{Name: "Some", Fields: []ir.Type{ir.Int}},
		{Name: "None"},
	})
	mod.Functions["main"] = &ir.Function{
		Name:       "main",
		ReturnType: ir.Int,
		Blocks: []*ir.BasicBlock{{
			Label:      "entry",
			Terminator: ir.Return{Value: ir.IntConst{Value: 0}},
		}},
	}
	return mod
}

func TestEmitEnumDefinitionAndConstructors(t *testing.T) {
	mod := optionModule()
	out, err := Emit(&ir.Program{Modules: []*ir.Module{mod}, EntryPoint: "main"})
	require.NoError(t, err)
	assert.Contains(t, out, "typedef struct {")
	assert.Contains(t, out, "const char *tag;")
	assert.Contains(t, out, "union {")
	assert.Contains(t, out, "int64_t _0;")
	assert.Contains(t, out, "} Some;")
	assert.Contains(t, out, "} Option;")

	assert.Contains(t, out, "seen_value Option__Some(int64_t _0) {")
	assert.Contains(t, out, `v->tag = "Some";`)
	assert.Contains(t, out, "v->as.Some._0 = _0;")

	assert.Contains(t, out, "seen_value Option__None(void) {")
	assert.Contains(t, out, `v->tag = "None";`)
}

func TestEmitStructLiteralRendersConstructorCall(t *testing.T) {
	mod := ir.NewModule("m")
	mod.Types["P"] = ir.StructType("P", []ir.StructFieldType{
		{Name: "x", Type: ir.Int},
		{Name: "y", Type: ir.Int},
	})
	lit := ir.StructLiteralValue{TypeName: "P", Fields: []ir.StructFieldValue{
		{Field: "x", Value: ir.IntConst{Value: 1}},
		{Field: "y", Value: ir.IntConst{Value: 2}},
	}}
	mod.Functions["main"] = &ir.Function{
		Name:          "main",
		ReturnType:    ir.Int,
		RegisterCount: 1,
		Blocks: []*ir.BasicBlock{{
			Label:      "entry",
			Instrs:     []ir.Instruction{ir.Store{Dst: ir.VarValue{Name: "p"}, Src: lit}},
			Terminator: ir.Return{Value: ir.IntConst{Value: 0}},
		}},
	}
	out, err := Emit(&ir.Program{Modules: []*ir.Module{mod}, EntryPoint: "main"})
	require.NoError(t, err)
	assert.Contains(t, out, "p = P__new(1, 2);")
}

func TestEmitEnumLiteralRendersVariantConstructorCall(t *testing.T) {
	mod := optionModule()
	lit := ir.StructLiteralValue{TypeName: "Option", Fields: []ir.StructFieldValue{
		{Field: "__tag", Value: ir.StringConst{Value: "Some"}},
		{Field: "0", Value: ir.IntConst{Value: 5}},
	}}
	mod.Functions["main"].Blocks[0].Instrs = []ir.Instruction{
		ir.Store{Dst: ir.VarValue{Name: "o"}, Src: lit},
	}
	out, err := Emit(&ir.Program{Modules: []*ir.Module{mod}, EntryPoint: "main"})
	require.NoError(t, err)
	assert.Contains(t, out, "o = Option__Some(5);")
}

func TestEmitArrayLiteralRendersRuntimeBuilderCall(t *testing.T) {
	mod := ir.NewModule("m")
	lit := ir.ArrayLiteralValue{Elements: []ir.Value{
		ir.IntConst{Value: 1}, ir.IntConst{Value: 2}, ir.IntConst{Value: 3},
	}}
	mod.Functions["main"] = &ir.Function{
		Name:          "main",
		ReturnType:    ir.Int,
		RegisterCount: 1,
		Blocks: []*ir.BasicBlock{{
			Label:      "entry",
			Instrs:     []ir.Instruction{ir.Store{Dst: ir.VarValue{Name: "a"}, Src: lit}},
			Terminator: ir.Return{Value: ir.IntConst{Value: 0}},
		}},
	}
	out, err := Emit(&ir.Program{Modules: []*ir.Module{mod}, EntryPoint: "main"})
	require.NoError(t, err)
	assert.Contains(t, out, "a = seen_rt_array_from(3, 1, 2, 3);")
}

func TestEmitIncludesStdioAndStdlib(t *testing.T) {
	out, err := Emit(simpleProgram())
	require.NoError(t, err)
	assert.Contains(t, out, "#include <stdio.h>")
	assert.Contains(t, out, "#include <stdlib.h>")
}
