package irgen

import (
	"seenc/internal/ast"
	"seenc/internal/ir"
)

// lowerProgram registers struct/enum type definitions, lowers every
// named function, and, if no explicit `main` function exists, wraps any
// remaining top-level declarations/expressions in a synthetic `main`
// (spec §4.6: "top-level expressions outside any function lower into a
// synthetic main returning 0").
func (g *Generator) lowerProgram(prog *ast.Program) {
	var topLevel []ast.Node
	for _, item := range prog.Items {
		switch d := item.(type) {
		case *ast.StructDecl:
			g.lowerStructType(d.Name)
		case *ast.EnumDecl:
			g.lowerEnumType(d.Name)
		case *ast.FunctionDecl:
			g.lowerFunctionDecl(d)
		default:
			topLevel = append(topLevel, item)
		}
	}
	if g.mod.EntryPointName() == "" && len(topLevel) > 0 {
		g.lowerSyntheticMain(topLevel)
	}
}

// beginFunction resets the block-building cursor for a fresh function.
func (g *Generator) beginFunction(name string, params []ir.Parameter, ret ir.Type) {
	g.fn = &ir.Function{Name: name, Params: params, ReturnType: ret}
	g.blocks = nil
	g.regCount = 0
	g.labelCount = 0
	g.startBlock("entry")
}

func (g *Generator) endFunction() *ir.Function {
	g.fn.Blocks = g.blocks
	g.fn.RegisterCount = g.regCount
	return g.fn
}

// lowerFunctionDecl lowers d into a module-level ir.Function, saving and
// restoring the generator's block-building state so it can be called
// while another function (e.g. a synthetic main) is mid-construction.
func (g *Generator) lowerFunctionDecl(d *ast.FunctionDecl) {
	savedFn, savedBlocks, savedCur := g.fn, g.blocks, g.cur
	savedReg, savedLabel := g.regCount, g.labelCount

	sig, _ := g.res.Env.LookupFunc(d.Name)
	params := make([]ir.Parameter, len(d.Params))
	for i, p := range d.Params {
		t := ir.Void
		if sig != nil && i < len(sig.Params) {
			t = g.lowerType(sig.Params[i])
		}
		params[i] = ir.Parameter{Name: p.Name, Type: t}
	}
	ret := ir.Void
	if sig != nil {
		ret = g.lowerType(sig.Return)
	}

	g.beginFunction(d.Name, params, ret)
	result := g.lowerBlock(d.Body)
	if !g.finished() {
		if ret.Kind == ir.TVoid {
			g.terminate(ir.Return{})
		} else {
			g.terminate(ir.Return{Value: result})
		}
	}
	g.mod.Functions[d.Name] = g.endFunction()

	g.fn, g.blocks, g.cur = savedFn, savedBlocks, savedCur
	g.regCount, g.labelCount = savedReg, savedLabel
}

// lowerSyntheticMain wraps top-level declarations/expressions that
// aren't part of a named function into a generated `main`, mirroring a
// script-style entry point.
func (g *Generator) lowerSyntheticMain(items []ast.Node) {
	g.beginFunction("main", nil, ir.Int)
	for _, item := range items {
		switch n := item.(type) {
		case *ast.VariableDecl:
			g.lowerVariableDecl(n)
		case *ast.FunctionDecl:
			g.lowerFunctionDecl(n)
		case ast.Expr:
			if g.finished() {
				continue
			}
			g.lowerExpr(n)
		}
	}
	if !g.finished() {
		g.terminate(ir.Return{Value: ir.IntConst{Value: 0}})
	}
	g.mod.Functions["main"] = g.endFunction()
}

func (g *Generator) lowerVariableDecl(d *ast.VariableDecl) {
	v := g.lowerExpr(d.Init)
	g.emit(ir.Store{Src: v, Dst: ir.VarValue{Name: d.Name}})
}
