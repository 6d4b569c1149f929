package irgen

import (
	"strconv"

	"seenc/internal/ast"
	"seenc/internal/ir"
	"seenc/internal/types"
)

// lowerExpr lowers e to an ir.Value, emitting whatever instructions are
// needed into the current basic block as a side effect. Every case
// returns a usable value so downstream lowering stays total, mirroring
// the checker's "assign Unknown and continue" recovery discipline.
func (g *Generator) lowerExpr(e ast.Expr) ir.Value {
	switch x := e.(type) {
	case *ast.IntLiteral:
		return ir.IntConst{Value: x.Value}
	case *ast.FloatLiteral:
		f, _ := strconv.ParseFloat(x.Text, 64)
		return ir.FloatConst{Value: f}
	case *ast.StringLiteral:
		return ir.StringConst{Value: x.Value}
	case *ast.CharLiteral:
		return ir.IntConst{Value: int64(x.Value)}
	case *ast.BoolLiteral:
		return ir.BoolConst{Value: x.Value}
	case *ast.NullLiteral:
		return ir.VoidValue{}
	case *ast.InterpolatedString:
		return g.lowerInterpString(x)
	case *ast.Identifier:
		dst := g.newRegister()
		g.emit(ir.Load{Src: ir.VarValue{Name: x.Name}, Dst: dst})
		return ir.RegisterValue{Reg: dst}
	case *ast.BinaryExpr:
		return g.lowerBinary(x)
	case *ast.UnaryExpr:
		return g.lowerUnary(x)
	case *ast.AssignExpr:
		return g.lowerAssign(x)
	case *ast.CallExpr:
		return g.lowerCall(x)
	case *ast.IfExpr:
		return g.lowerIf(x)
	case *ast.WhileExpr:
		return g.lowerWhile(x)
	case *ast.ForExpr:
		return g.lowerFor(x)
	case *ast.LoopExpr:
		return g.lowerLoop(x)
	case *ast.BreakExpr:
		if len(g.breakTargets) > 0 {
			g.terminate(ir.Jump{Target: g.breakTargets[len(g.breakTargets)-1]})
		}
		return ir.VoidValue{}
	case *ast.ContinueExpr:
		if len(g.continueTargets) > 0 {
			g.terminate(ir.Jump{Target: g.continueTargets[len(g.continueTargets)-1]})
		}
		return ir.VoidValue{}
	case *ast.ReturnExpr:
		if x.Value == nil {
			g.terminate(ir.Return{})
		} else {
			g.terminate(ir.Return{Value: g.lowerExpr(x.Value)})
		}
		return ir.VoidValue{}
	case *ast.BlockExpr:
		return g.lowerBlock(x)
	case *ast.LetExpr:
		v := g.lowerExpr(x.Init)
		g.emit(ir.Store{Src: v, Dst: ir.VarValue{Name: x.Name}})
		return ir.VoidValue{}
	case *ast.ArrayLiteral:
		elems := make([]ir.Value, len(x.Elements))
		for i, el := range x.Elements {
			elems[i] = g.lowerExpr(el)
		}
		return ir.ArrayLiteralValue{Elements: elems}
	case *ast.IndexExpr:
		arr := g.lowerExpr(x.Array)
		idx := g.lowerExpr(x.Index)
		dst := g.newRegister()
		g.emit(ir.ArrayAccess{Array: arr, Index: idx, Dst: dst})
		return ir.RegisterValue{Reg: dst}
	case *ast.StructLiteral:
		fields := make([]ir.StructFieldValue, len(x.Fields))
		for i, f := range x.Fields {
			fields[i] = ir.StructFieldValue{Field: f.Name, Value: g.lowerExpr(f.Value)}
		}
		return ir.StructLiteralValue{TypeName: x.TypeName, Fields: fields}
	case *ast.MemberExpr:
		obj := g.lowerExpr(x.Object)
		dst := g.newRegister()
		g.emit(ir.FieldAccess{Object: obj, Field: x.Field, Dst: dst})
		return ir.RegisterValue{Reg: dst}
	case *ast.EnumLiteral:
		return g.lowerEnumLiteral(x)
	case *ast.MatchExpr:
		return g.lowerMatch(x)
	case *ast.TryExpr:
		return g.lowerTry(x)
	case *ast.LambdaExpr:
		// Lambdas are lowered as generated top-level functions, not as a
		// first-class Value: this IR's Value union has no function-
		// pointer case, so an immediately-invoked lambda is the only
		// form that lowers meaningfully. A lambda bound to a name and
		// called later is out of scope for this generator.
		name := g.newLabel("lambda")
		g.lowerLambdaAsFunction(name, x)
		return ir.VoidValue{}
	case *ast.ErrorExpr:
		return ir.VoidValue{}
	default:
		return ir.VoidValue{}
	}
}

func (g *Generator) lowerInterpString(x *ast.InterpolatedString) ir.Value {
	var acc ir.Value = ir.StringConst{Value: ""}
	first := true
	for _, part := range x.Parts {
		var piece ir.Value
		if part.Expr != nil {
			piece = g.lowerExpr(part.Expr)
		} else {
			piece = ir.StringConst{Value: part.Text}
		}
		if first {
			acc = piece
			first = false
			continue
		}
		dst := g.newRegister()
		g.emit(ir.StringConcat{L: acc, R: piece, Dst: dst})
		acc = ir.RegisterValue{Reg: dst}
	}
	return acc
}

var binaryOps = map[ast.BinaryOp]ir.BinaryOp{
	ast.OpAdd:    ir.OpAdd,
	ast.OpSub:    ir.OpSub,
	ast.OpMul:    ir.OpMul,
	ast.OpDiv:    ir.OpDiv,
	ast.OpMod:    ir.OpMod,
	ast.OpEq:     ir.OpEq,
	ast.OpNotEq:  ir.OpNotEq,
	ast.OpLt:     ir.OpLt,
	ast.OpLtEq:   ir.OpLtEq,
	ast.OpGt:     ir.OpGt,
	ast.OpGtEq:   ir.OpGtEq,
	ast.OpAnd:    ir.OpAnd,
	ast.OpOr:     ir.OpOr,
}

func (g *Generator) lowerBinary(x *ast.BinaryExpr) ir.Value {
	if x.Op == ast.OpRange || x.Op == ast.OpRangeIncl {
		// A bare range expression outside a for-loop header has no
		// materialized array at this IR level; for handles ranges
		// directly from the source AST instead of through this path.
		return ir.ArrayLiteralValue{}
	}
	l := g.lowerExpr(x.Left)
	r := g.lowerExpr(x.Right)
	if x.Op == ast.OpAdd && g.typeOf(x.Left).Kind == types.KindString {
		dst := g.newRegister()
		g.emit(ir.StringConcat{L: l, R: r, Dst: dst})
		return ir.RegisterValue{Reg: dst}
	}
	op, ok := binaryOps[x.Op]
	if !ok {
		return ir.VoidValue{}
	}
	dst := g.newRegister()
	g.emit(ir.Binary{Op: op, L: l, R: r, Dst: dst})
	return ir.RegisterValue{Reg: dst}
}

func (g *Generator) lowerUnary(x *ast.UnaryExpr) ir.Value {
	v := g.lowerExpr(x.Operand)
	op := ir.OpNeg
	if x.Op == ast.OpNot {
		op = ir.OpNot
	}
	dst := g.newRegister()
	g.emit(ir.Unary{Op: op, X: v, Dst: dst})
	return ir.RegisterValue{Reg: dst}
}

func (g *Generator) lowerAssign(x *ast.AssignExpr) ir.Value {
	v := g.lowerExpr(x.Value)
	switch target := x.Target.(type) {
	case *ast.Identifier:
		g.emit(ir.Store{Src: v, Dst: ir.VarValue{Name: target.Name}})
	case *ast.MemberExpr:
		obj := g.lowerExpr(target.Object)
		g.emit(ir.FieldSet{Object: obj, Field: target.Field, Value: v})
	case *ast.IndexExpr:
		arr := g.lowerExpr(target.Array)
		idx := g.lowerExpr(target.Index)
		g.emit(ir.ArraySet{Array: arr, Index: idx, Value: v})
	}
	return v
}

func (g *Generator) lowerCall(x *ast.CallExpr) ir.Value {
	args := make([]ir.Value, len(x.Args))
	for i, a := range x.Args {
		args[i] = g.lowerExpr(a)
	}
	target := ""
	switch callee := x.Callee.(type) {
	case *ast.Identifier:
		target = callee.Name
	case *ast.MemberExpr:
		// Method-call sugar: obj.method(args) lowers to a call of the
		// free function named by the bare method name ("method"), with
		// the receiver prepended to the arguments.
		obj := g.lowerExpr(callee.Object)
		args = append([]ir.Value{obj}, args...)
		target = callee.Field
	case *ast.LambdaExpr:
		target = g.newLabel("lambda")
		g.lowerLambdaAsFunction(target, callee)
	}
	retType := g.typeOf(x)
	if retType.Kind == types.KindUnit || retType.Kind == types.KindUnknown {
		g.emit(ir.Call{Target: target, Args: args})
		return ir.VoidValue{}
	}
	dst := g.newRegister()
	g.emit(ir.Call{Target: target, Args: args, Dst: &dst})
	return ir.RegisterValue{Reg: dst}
}

func (g *Generator) lowerEnumLiteral(x *ast.EnumLiteral) ir.Value {
	fields := make([]ir.StructFieldValue, 0, len(x.Args)+1)
	fields = append(fields, ir.StructFieldValue{Field: "__tag", Value: ir.StringConst{Value: x.Variant}})
	for i, a := range x.Args {
		fields = append(fields, ir.StructFieldValue{Field: strconv.Itoa(i), Value: g.lowerExpr(a)})
	}
	return ir.StructLiteralValue{TypeName: x.EnumName, Fields: fields}
}

// lowerTry lowers the postfix `?` operator by convention: the operand's
// first declared variant (payload in field "0") is the success case,
// any other tag short-circuits the enclosing function by returning the
// operand unchanged.
func (g *Generator) lowerTry(x *ast.TryExpr) ir.Value {
	operand := g.lowerExpr(x.Operand)
	tagReg := g.newRegister()
	g.emit(ir.GetEnumTag{Value: operand, Dst: tagReg})

	def, _ := g.res.Env.LookupEnum(enumNameOf(g.typeOf(x.Operand)))
	successTag := ""
	if def != nil && len(def.Variants) > 0 {
		successTag = def.Variants[0].Name
	}

	cmpReg := g.newRegister()
	g.emit(ir.Binary{Op: ir.OpEq, L: ir.RegisterValue{Reg: tagReg}, R: ir.StringConst{Value: successTag}, Dst: cmpReg})

	okLabel := g.newLabel("try.ok")
	failLabel := g.newLabel("try.fail")
	g.terminate(ir.JumpIfNot{
		Cond:   ir.RegisterValue{Reg: cmpReg},
		Target: failLabel,
		Next:   okLabel,
	})

	g.startBlock(failLabel)
	g.terminate(ir.Return{Value: operand})

	g.startBlock(okLabel)
	payload := g.newRegister()
	g.emit(ir.GetEnumField{Value: operand, Idx: 0, Dst: payload})
	return ir.RegisterValue{Reg: payload}
}

func enumNameOf(t *types.Type) string {
	if t == nil {
		return ""
	}
	return t.Name
}
