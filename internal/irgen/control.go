package irgen

import (
	"seenc/internal/ast"
	"seenc/internal/ir"
)

// lowerIf builds entry->cond (already current)->then|else->merge, with
// a Phi at merge combining whichever branch's value actually falls
// through to it (a branch that returns/breaks/continues contributes no
// incoming edge).
func (g *Generator) lowerIf(x *ast.IfExpr) ir.Value {
	cond := g.lowerExpr(x.Cond)
	thenLabel := g.newLabel("if.then")
	elseLabel := g.newLabel("if.else")
	mergeLabel := g.newLabel("if.merge")

	elseTarget := mergeLabel
	if x.Else != nil {
		elseTarget = elseLabel
	}
	g.terminate(ir.JumpIfNot{Cond: cond, Target: elseTarget, Next: thenLabel})

	g.startBlock(thenLabel)
	thenVal := g.lowerExpr(x.Then)
	var incoming []ir.PhiIncoming
	if !g.finished() {
		thenEnd := g.cur.Label
		g.terminate(ir.Jump{Target: mergeLabel})
		incoming = append(incoming, ir.PhiIncoming{Label: thenEnd, Value: thenVal})
	}

	if x.Else != nil {
		g.startBlock(elseLabel)
		elseVal := g.lowerExpr(x.Else)
		if !g.finished() {
			elseEnd := g.cur.Label
			g.terminate(ir.Jump{Target: mergeLabel})
			incoming = append(incoming, ir.PhiIncoming{Label: elseEnd, Value: elseVal})
		}
	}

	g.startBlock(mergeLabel)
	if len(incoming) == 0 {
		return ir.VoidValue{}
	}
	if len(incoming) == 1 {
		return incoming[0].Value
	}
	dst := g.newRegister()
	g.emit(ir.Phi{Dst: dst, Incoming: incoming})
	return ir.RegisterValue{Reg: dst}
}

// lowerWhile builds cond_block/body_block/end_block, pushing end_block
// and cond_block as the break/continue targets for the duration of the
// body.
func (g *Generator) lowerWhile(x *ast.WhileExpr) ir.Value {
	condLabel := g.newLabel("while.cond")
	bodyLabel := g.newLabel("while.body")
	endLabel := g.newLabel("while.end")

	g.terminate(ir.Jump{Target: condLabel})
	g.startBlock(condLabel)
	cond := g.lowerExpr(x.Cond)
	g.terminate(ir.JumpIfNot{Cond: cond, Target: endLabel, Next: bodyLabel})

	g.pushLoop(endLabel, condLabel)
	g.startBlock(bodyLabel)
	g.lowerExpr(x.Body)
	if !g.finished() {
		g.terminate(ir.Jump{Target: condLabel})
	}
	g.popLoop()

	g.startBlock(endLabel)
	return ir.VoidValue{}
}

// lowerLoop builds body_block/end_block for an unconditional `loop`,
// which only exits via an explicit break.
func (g *Generator) lowerLoop(x *ast.LoopExpr) ir.Value {
	bodyLabel := g.newLabel("loop.body")
	endLabel := g.newLabel("loop.end")

	g.terminate(ir.Jump{Target: bodyLabel})
	g.pushLoop(endLabel, bodyLabel)
	g.startBlock(bodyLabel)
	g.lowerExpr(x.Body)
	if !g.finished() {
		g.terminate(ir.Jump{Target: bodyLabel})
	}
	g.popLoop()

	g.startBlock(endLabel)
	return ir.VoidValue{}
}

// lowerFor lowers `for x in a..b { ... }` / `for x in a...b { ... }`
// into an induction-variable loop: init, a Less/LessEq comparison
// against the upper bound, and an increment-by-1 back edge. Only a
// range written directly in the loop header is lowered: for any other
// iterable (an array literal or an array-typed variable, both of which
// the checker accepts) no loop is emitted, the body is dropped, and the
// result is VoidValue.
func (g *Generator) lowerFor(x *ast.ForExpr) ir.Value {
	rangeExpr, ok := x.Iterable.(*ast.BinaryExpr)
	if !ok || (rangeExpr.Op != ast.OpRange && rangeExpr.Op != ast.OpRangeIncl) {
		return ir.VoidValue{}
	}
	lo := g.lowerExpr(rangeExpr.Left)
	hi := g.lowerExpr(rangeExpr.Right)
	g.emit(ir.Store{Src: lo, Dst: ir.VarValue{Name: x.Var}})

	condLabel := g.newLabel("for.cond")
	bodyLabel := g.newLabel("for.body")
	stepLabel := g.newLabel("for.step")
	endLabel := g.newLabel("for.end")

	g.terminate(ir.Jump{Target: condLabel})
	g.startBlock(condLabel)
	cur := g.newRegister()
	g.emit(ir.Load{Src: ir.VarValue{Name: x.Var}, Dst: cur})
	cmpOp := ir.OpLt
	if rangeExpr.Op == ast.OpRangeIncl {
		cmpOp = ir.OpLtEq
	}
	cmp := g.newRegister()
	g.emit(ir.Binary{Op: cmpOp, L: ir.RegisterValue{Reg: cur}, R: hi, Dst: cmp})
	g.terminate(ir.JumpIfNot{Cond: ir.RegisterValue{Reg: cmp}, Target: endLabel, Next: bodyLabel})

	g.pushLoop(endLabel, stepLabel)
	g.startBlock(bodyLabel)
	g.lowerExpr(x.Body)
	if !g.finished() {
		g.terminate(ir.Jump{Target: stepLabel})
	}
	g.popLoop()

	g.startBlock(stepLabel)
	ival := g.newRegister()
	g.emit(ir.Load{Src: ir.VarValue{Name: x.Var}, Dst: ival})
	next := g.newRegister()
	g.emit(ir.Binary{Op: ir.OpAdd, L: ir.RegisterValue{Reg: ival}, R: ir.IntConst{Value: 1}, Dst: next})
	g.emit(ir.Store{Src: ir.RegisterValue{Reg: next}, Dst: ir.VarValue{Name: x.Var}})
	g.terminate(ir.Jump{Target: condLabel})

	g.startBlock(endLabel)
	return ir.VoidValue{}
}

func (g *Generator) pushLoop(breakLabel, continueLabel string) {
	g.breakTargets = append(g.breakTargets, breakLabel)
	g.continueTargets = append(g.continueTargets, continueLabel)
}

func (g *Generator) popLoop() {
	g.breakTargets = g.breakTargets[:len(g.breakTargets)-1]
	g.continueTargets = g.continueTargets[:len(g.continueTargets)-1]
}

// lowerMatch evaluates the scrutinee once, then chains a tag comparison
// per arm: the first matching arm's body runs and jumps to merge, and a
// Phi at merge combines whichever arms actually produced a value.
func (g *Generator) lowerMatch(x *ast.MatchExpr) ir.Value {
	scrutinee := g.lowerExpr(x.Value)
	mergeLabel := g.newLabel("match.merge")
	var incoming []ir.PhiIncoming

	for i, arm := range x.Arms {
		armLabel := g.newLabel("match.arm")
		nextLabel := mergeLabel
		if i < len(x.Arms)-1 {
			nextLabel = g.newLabel("match.next")
		}

		cond, bind := g.lowerPatternTest(arm.Pattern, scrutinee)
		if cond == nil {
			g.terminate(ir.Jump{Target: armLabel})
		} else {
			g.terminate(ir.JumpIfNot{Cond: cond, Target: nextLabel, Next: armLabel})
		}

		g.startBlock(armLabel)
		bind()
		val := g.lowerExpr(arm.Body)
		if !g.finished() {
			armEnd := g.cur.Label
			g.terminate(ir.Jump{Target: mergeLabel})
			incoming = append(incoming, ir.PhiIncoming{Label: armEnd, Value: val})
		}

		if i < len(x.Arms)-1 {
			g.startBlock(nextLabel)
		}
	}

	g.startBlock(mergeLabel)
	if len(incoming) == 0 {
		return ir.VoidValue{}
	}
	if len(incoming) == 1 {
		return incoming[0].Value
	}
	dst := g.newRegister()
	g.emit(ir.Phi{Dst: dst, Incoming: incoming})
	return ir.RegisterValue{Reg: dst}
}

// lowerPatternTest returns the boolean Value deciding whether pattern
// matches scrutinee (nil means "always matches"), and a bind closure to
// run once inside the matched arm's block to introduce any pattern
// bindings.
func (g *Generator) lowerPatternTest(p ast.Pattern, scrutinee ir.Value) (ir.Value, func()) {
	switch pat := p.(type) {
	case *ast.WildcardPattern:
		return nil, func() {}
	case *ast.IdentPattern:
		name := pat.Name
		return nil, func() {
			g.emit(ir.Store{Src: scrutinee, Dst: ir.VarValue{Name: name}})
		}
	case *ast.LiteralPattern:
		lit := g.lowerExpr(pat.Value)
		dst := g.newRegister()
		g.emit(ir.Binary{Op: ir.OpEq, L: scrutinee, R: lit, Dst: dst})
		return ir.RegisterValue{Reg: dst}, func() {}
	case *ast.EnumPattern:
		tagReg := g.newRegister()
		g.emit(ir.GetEnumTag{Value: scrutinee, Dst: tagReg})
		cmp := g.newRegister()
		g.emit(ir.Binary{Op: ir.OpEq, L: ir.RegisterValue{Reg: tagReg}, R: ir.StringConst{Value: pat.Variant}, Dst: cmp})
		return ir.RegisterValue{Reg: cmp}, func() {
			for i, sub := range pat.SubPatterns {
				fieldReg := g.newRegister()
				g.emit(ir.GetEnumField{Value: scrutinee, Idx: i, Dst: fieldReg})
				_, bind := g.lowerPatternTest(sub, ir.RegisterValue{Reg: fieldReg})
				bind()
			}
		}
	default:
		return nil, func() {}
	}
}

// lowerLambdaAsFunction lowers an immediately-invoked lambda's body as
// a standalone module function named name.
func (g *Generator) lowerLambdaAsFunction(name string, x *ast.LambdaExpr) {
	savedFn, savedBlocks, savedCur := g.fn, g.blocks, g.cur
	savedReg, savedLabel := g.regCount, g.labelCount

	params := make([]ir.Parameter, len(x.Params))
	for i, p := range x.Params {
		params[i] = ir.Parameter{Name: p.Name, Type: ir.Void}
	}
	g.beginFunction(name, params, ir.Void)
	val := g.lowerExpr(x.Body)
	if !g.finished() {
		g.terminate(ir.Return{Value: val})
	}
	g.mod.Functions[name] = g.endFunction()

	g.fn, g.blocks, g.cur = savedFn, savedBlocks, savedCur
	g.regCount, g.labelCount = savedReg, savedLabel
}
