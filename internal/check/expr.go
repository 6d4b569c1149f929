package check

import (
	"seenc/internal/ast"
	"seenc/internal/types"
)

// checkExpr dispatches on the concrete expression node and returns (and
// records) its type. Every case that can fail reports a diagnostic and
// still returns a type, normally types.Unknown, so the caller never
// needs a nil check.
func (c *checker) checkExpr(e ast.Expr) *types.Type {
	switch x := e.(type) {
	case *ast.IntLiteral:
		return c.set(e, types.Int)
	case *ast.FloatLiteral:
		return c.set(e, types.Float)
	case *ast.StringLiteral:
		return c.set(e, types.String)
	case *ast.CharLiteral:
		return c.set(e, types.Char)
	case *ast.BoolLiteral:
		return c.set(e, types.Bool)
	case *ast.NullLiteral:
		return c.set(e, types.Optional(types.Unknown))
	case *ast.InterpolatedString:
		for _, part := range x.Parts {
			if part.Expr != nil {
				c.checkExpr(part.Expr)
			}
		}
		return c.set(e, types.String)
	case *ast.Identifier:
		return c.checkIdentifier(e, x)
	case *ast.BinaryExpr:
		return c.checkBinary(e, x)
	case *ast.UnaryExpr:
		return c.checkUnary(e, x)
	case *ast.AssignExpr:
		return c.checkAssign(e, x)
	case *ast.CallExpr:
		return c.checkCall(e, x)
	case *ast.IndexExpr:
		return c.checkIndex(e, x)
	case *ast.MemberExpr:
		return c.checkMember(e, x)
	case *ast.ArrayLiteral:
		return c.checkArrayLiteral(e, x)
	case *ast.StructLiteral:
		return c.checkStructLiteral(e, x)
	case *ast.EnumLiteral:
		return c.checkEnumLiteral(e, x)
	case *ast.TryExpr:
		return c.checkTry(e, x)
	case *ast.IfExpr:
		return c.checkIf(e, x)
	case *ast.WhileExpr:
		return c.checkWhile(e, x)
	case *ast.ForExpr:
		return c.checkFor(e, x)
	case *ast.LoopExpr:
		return c.checkLoop(e, x)
	case *ast.BlockExpr:
		return c.set(e, c.checkBlock(x))
	case *ast.MatchExpr:
		return c.checkMatch(e, x)
	case *ast.LambdaExpr:
		return c.checkLambda(e, x)
	case *ast.BreakExpr:
		if len(c.loopStack) == 0 {
			c.errorf(e.Span(), "break outside of a loop")
		}
		return c.set(e, types.Unit)
	case *ast.ContinueExpr:
		if len(c.loopStack) == 0 {
			c.errorf(e.Span(), "continue outside of a loop")
		}
		return c.set(e, types.Unit)
	case *ast.ReturnExpr:
		return c.checkReturn(e, x)
	case *ast.ErrorExpr:
		return c.set(e, types.Unknown)
	default:
		return c.set(e, types.Unknown)
	}
}

func (c *checker) checkIdentifier(e ast.Expr, x *ast.Identifier) *types.Type {
	if t, ok := c.env.LookupVar(x.Name); ok {
		return c.set(e, t)
	}
	if sig, ok := c.env.LookupFunc(x.Name); ok {
		return c.set(e, types.Func(sig.Params, sig.Return))
	}
	c.errorf(e.Span(), "undefined name %q", x.Name)
	return c.set(e, types.Unknown)
}

func (c *checker) checkBinary(e ast.Expr, x *ast.BinaryExpr) *types.Type {
	lt := c.checkExpr(x.Left)
	rt := c.checkExpr(x.Right)

	switch x.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		if lt.Kind != types.KindUnknown && rt.Kind != types.KindUnknown && (!lt.IsNumeric() || !rt.IsNumeric()) {
			c.errorf(e.Span(), "operator %s requires numeric operands, got %s and %s", x.Op, lt, rt)
			return c.set(e, types.Unknown)
		}
		return c.set(e, types.NumericResult(lt, rt))

	case ast.OpEq, ast.OpNotEq:
		if !lt.AssignableTo(rt) && !rt.AssignableTo(lt) {
			c.errorf(e.Span(), "cannot compare incompatible types %s and %s", lt, rt)
		}
		return c.set(e, types.Bool)

	case ast.OpLt, ast.OpLtEq, ast.OpGt, ast.OpGtEq:
		if lt.Kind != types.KindUnknown && rt.Kind != types.KindUnknown && (!lt.IsNumeric() || !rt.IsNumeric()) {
			c.errorf(e.Span(), "comparison requires numeric operands, got %s and %s", lt, rt)
		}
		return c.set(e, types.Bool)

	case ast.OpAnd, ast.OpOr:
		if lt.Kind != types.KindUnknown && lt.Kind != types.KindBool {
			c.errorf(x.Left.Span(), "logical operator requires Bool, got %s", lt)
		}
		if rt.Kind != types.KindUnknown && rt.Kind != types.KindBool {
			c.errorf(x.Right.Span(), "logical operator requires Bool, got %s", rt)
		}
		return c.set(e, types.Bool)

	case ast.OpRange, ast.OpRangeIncl:
		if lt.Kind != types.KindUnknown && lt.Kind != types.KindInt {
			c.errorf(x.Left.Span(), "range bound must be Int, got %s", lt)
		}
		if rt.Kind != types.KindUnknown && rt.Kind != types.KindInt {
			c.errorf(x.Right.Span(), "range bound must be Int, got %s", rt)
		}
		return c.set(e, types.Array(types.Int))

	default:
		return c.set(e, types.Unknown)
	}
}

func (c *checker) checkUnary(e ast.Expr, x *ast.UnaryExpr) *types.Type {
	t := c.checkExpr(x.Operand)
	switch x.Op {
	case ast.OpNeg:
		if t.Kind != types.KindUnknown && !t.IsNumeric() {
			c.errorf(e.Span(), "unary - requires a numeric operand, got %s", t)
			return c.set(e, types.Unknown)
		}
		return c.set(e, t)
	case ast.OpNot:
		if t.Kind != types.KindUnknown && t.Kind != types.KindBool {
			c.errorf(e.Span(), "unary not requires a Bool operand, got %s", t)
		}
		return c.set(e, types.Bool)
	default:
		return c.set(e, types.Unknown)
	}
}

func (c *checker) checkAssign(e ast.Expr, x *ast.AssignExpr) *types.Type {
	target, ok := x.Target.(*ast.Identifier)
	if !ok {
		c.errorf(x.Target.Span(), "assignment target must be a variable")
		c.checkExpr(x.Value)
		return c.set(e, types.Unknown)
	}
	lt, ok := c.env.LookupVar(target.Name)
	if !ok {
		c.errorf(x.Target.Span(), "undefined name %q", target.Name)
		lt = types.Unknown
	}
	c.set(target, lt)
	rt := c.checkExpr(x.Value)
	if !rt.AssignableTo(lt) {
		c.errorf(e.Span(), "cannot assign %s to variable of type %s", rt, lt)
	}
	return c.set(e, lt)
}

func (c *checker) checkCall(e ast.Expr, x *ast.CallExpr) *types.Type {
	callee, ok := x.Callee.(*ast.Identifier)
	if !ok {
		// A non-identifier callee (e.g. a lambda value) still type
		// checks as Function(...) and must agree on arity/types.
		ct := c.checkExpr(x.Callee)
		for _, a := range x.Args {
			c.checkExpr(a)
		}
		if ct.Kind == types.KindFunction {
			return c.set(e, ct.Result)
		}
		return c.set(e, types.Unknown)
	}

	sig, ok := c.env.LookupFunc(callee.Name)
	if !ok {
		c.errorf(e.Span(), "call to undefined function %q", callee.Name)
		for _, a := range x.Args {
			c.checkExpr(a)
		}
		return c.set(e, types.Unknown)
	}
	c.set(callee, types.Func(sig.Params, sig.Return))

	if len(x.Args) != len(sig.Params) {
		c.errorf(e.Span(), "function %q expects %d argument(s), got %d", callee.Name, len(sig.Params), len(x.Args))
	}
	for i, a := range x.Args {
		at := c.checkExpr(a)
		if i < len(sig.Params) && !at.AssignableTo(sig.Params[i]) {
			c.errorf(a.Span(), "argument %d to %q: cannot use %s as %s", i+1, callee.Name, at, sig.Params[i])
		}
	}
	return c.set(e, sig.Return)
}

func (c *checker) checkIndex(e ast.Expr, x *ast.IndexExpr) *types.Type {
	at := c.checkExpr(x.Array)
	it := c.checkExpr(x.Index)
	if it.Kind != types.KindUnknown && it.Kind != types.KindInt {
		c.errorf(x.Index.Span(), "index must be Int, got %s", it)
	}
	if at.Kind == types.KindUnknown {
		return c.set(e, types.Unknown)
	}
	if at.Kind != types.KindArray {
		c.errorf(x.Array.Span(), "cannot index non-array type %s", at)
		return c.set(e, types.Unknown)
	}
	return c.set(e, at.Elem)
}

func (c *checker) checkMember(e ast.Expr, x *ast.MemberExpr) *types.Type {
	ot := c.checkExpr(x.Object)
	target := ot
	if x.NullableSafe && ot.Kind == types.KindOptional {
		target = ot.Elem
	}
	if target.Kind == types.KindUnknown {
		return c.set(e, types.Unknown)
	}
	if target.Kind != types.KindStruct {
		c.errorf(x.Object.Span(), "field access requires a struct, got %s", target)
		return c.set(e, types.Unknown)
	}
	def, ok := c.env.LookupStruct(target.Name)
	if !ok {
		return c.set(e, types.Unknown)
	}
	ft, ok := def.FieldType(x.Field)
	if !ok {
		c.errorf(e.Span(), "struct %q has no field %q", target.Name, x.Field)
		return c.set(e, types.Unknown)
	}
	if x.NullableSafe {
		return c.set(e, types.Optional(ft))
	}
	return c.set(e, ft)
}

func (c *checker) checkArrayLiteral(e ast.Expr, x *ast.ArrayLiteral) *types.Type {
	if len(x.Elements) == 0 {
		return c.set(e, types.Array(types.Unknown))
	}
	elem := c.checkExpr(x.Elements[0])
	for _, el := range x.Elements[1:] {
		t := c.checkExpr(el)
		if !t.AssignableTo(elem) {
			if elem.AssignableTo(t) {
				elem = t
				continue
			}
			c.errorf(el.Span(), "array element type %s does not match earlier element type %s", t, elem)
		}
	}
	return c.set(e, types.Array(elem))
}

func (c *checker) checkStructLiteral(e ast.Expr, x *ast.StructLiteral) *types.Type {
	def, ok := c.env.LookupStruct(x.TypeName)
	if !ok {
		c.errorf(e.Span(), "undeclared struct %q", x.TypeName)
		for _, f := range x.Fields {
			c.checkExpr(f.Value)
		}
		return c.set(e, types.Unknown)
	}

	seen := make(map[string]bool, len(x.Fields))
	for _, f := range x.Fields {
		vt := c.checkExpr(f.Value)
		seen[f.Name] = true
		ft, ok := def.FieldType(f.Name)
		if !ok {
			c.errorf(e.Span(), "struct %q has no field %q", x.TypeName, f.Name)
			continue
		}
		if !vt.AssignableTo(ft) {
			c.errorf(f.Value.Span(), "field %q: cannot assign %s to %s", f.Name, vt, ft)
		}
	}
	for _, name := range def.FieldNames {
		if !seen[name] {
			c.errorf(e.Span(), "struct %q: missing required field %q", x.TypeName, name)
		}
	}
	return c.set(e, types.StructT(x.TypeName))
}

func (c *checker) checkEnumLiteral(e ast.Expr, x *ast.EnumLiteral) *types.Type {
	def, ok := c.env.LookupEnum(x.EnumName)
	if !ok {
		c.errorf(e.Span(), "undeclared enum %q", x.EnumName)
		for _, a := range x.Args {
			c.checkExpr(a)
		}
		return c.set(e, types.Unknown)
	}
	variant, ok := def.Variant(x.Variant)
	if !ok {
		c.errorf(e.Span(), "enum %q has no variant %q", x.EnumName, x.Variant)
		for _, a := range x.Args {
			c.checkExpr(a)
		}
		return c.set(e, types.Unknown)
	}
	if len(x.Args) != len(variant.Fields) {
		c.errorf(e.Span(), "variant %s::%s expects %d argument(s), got %d", x.EnumName, x.Variant, len(variant.Fields), len(x.Args))
	}

	// typeArgs accumulates, by position in def.TypeParams, the concrete
	// type inferred for each generic parameter from this literal's
	// arguments, so the enum's type carries instantiated payload types
	// (spec §4.5 "Generic enums") instead of the bare parameter names.
	typeArgs := make([]*types.Type, len(def.TypeParams))
	for i := range typeArgs {
		typeArgs[i] = types.Unknown
	}

	for i, a := range x.Args {
		at := c.checkExpr(a)
		if i >= len(variant.Fields) {
			continue
		}
		field := variant.Fields[i]
		if idx := typeParamIndex(def.TypeParams, field); idx >= 0 {
			typeArgs[idx] = at
			continue
		}
		if !at.AssignableTo(field) {
			c.errorf(a.Span(), "variant %s::%s argument %d: cannot use %s as %s", x.EnumName, x.Variant, i+1, at, field)
		}
	}

	if len(def.TypeParams) > 0 {
		return c.set(e, types.Generic(x.EnumName, typeArgs...))
	}
	return c.set(e, types.EnumT(x.EnumName))
}

// typeParamIndex reports the index of t in typeParams if t is a bare
// reference to one of them (types.Generic(name) with no arguments),
// else -1.
func typeParamIndex(typeParams []string, t *types.Type) int {
	if t.Kind != types.KindGeneric || len(t.Args) != 0 {
		return -1
	}
	for i, tp := range typeParams {
		if tp == t.Name {
			return i
		}
	}
	return -1
}

// substituteTypeParam resolves a variant field type that is a bare
// reference to one of typeParams into the corresponding concrete
// argument from args, leaving any other shape (including nested
// generics this simplified model does not recurse into) unchanged.
func substituteTypeParam(t *types.Type, typeParams []string, args []*types.Type) *types.Type {
	if idx := typeParamIndex(typeParams, t); idx >= 0 && idx < len(args) {
		return args[idx]
	}
	return t
}

func (c *checker) checkTry(e ast.Expr, x *ast.TryExpr) *types.Type {
	ot := c.checkExpr(x.Operand)
	if ot.Kind == types.KindUnknown {
		return c.set(e, types.Unknown)
	}
	if ot.Kind != types.KindGeneric || ot.Name != "Result" || len(ot.Args) != 2 {
		c.errorf(e.Span(), "'?' requires a Result<T, E> operand, got %s", ot)
		return c.set(e, types.Unknown)
	}
	return c.set(e, ot.Args[0])
}

func (c *checker) checkIf(e ast.Expr, x *ast.IfExpr) *types.Type {
	ct := c.checkExpr(x.Cond)
	if ct.Kind != types.KindUnknown && ct.Kind != types.KindBool {
		c.errorf(x.Cond.Span(), "if condition must be Bool, got %s", ct)
	}
	thenType := c.checkBlock(x.Then)
	c.set(x.Then, thenType)
	if x.Else == nil {
		return c.set(e, types.Unit)
	}
	elseType := c.checkExpr(x.Else)
	if thenType.AssignableTo(elseType) {
		return c.set(e, elseType)
	}
	return c.set(e, thenType)
}

func (c *checker) checkWhile(e ast.Expr, x *ast.WhileExpr) *types.Type {
	ct := c.checkExpr(x.Cond)
	if ct.Kind != types.KindUnknown && ct.Kind != types.KindBool {
		c.errorf(x.Cond.Span(), "while condition must be Bool, got %s", ct)
	}
	c.loopStack = append(c.loopStack, struct{}{})
	bodyType := c.checkBlock(x.Body)
	c.loopStack = c.loopStack[:len(c.loopStack)-1]
	c.set(x.Body, bodyType)
	return c.set(e, types.Unit)
}

func (c *checker) checkFor(e ast.Expr, x *ast.ForExpr) *types.Type {
	it := c.checkExpr(x.Iterable)
	elem := types.Unknown
	if it.Kind != types.KindUnknown {
		if it.Kind != types.KindArray {
			c.errorf(x.Iterable.Span(), "for loop requires an iterable array, got %s", it)
		} else {
			elem = it.Elem
		}
	}
	c.env.Push()
	if err := c.env.DefineVar(x.Var, elem); err != nil {
		c.errorf(e.Span(), "%s", err)
	}
	c.loopStack = append(c.loopStack, struct{}{})
	bodyType := c.checkStmtsInCurrentScope(x.Body)
	c.loopStack = c.loopStack[:len(c.loopStack)-1]
	c.env.Pop()
	c.set(x.Body, bodyType)
	return c.set(e, types.Unit)
}

// checkStmtsInCurrentScope checks a block's statements without pushing
// its own scope, used where the caller (e.g. checkFor, which defines
// the induction variable) already owns the enclosing scope.
func (c *checker) checkStmtsInCurrentScope(b *ast.BlockExpr) *types.Type {
	var last *types.Type = types.Unit
	for i, stmt := range b.Stmts {
		c.checkStmt(stmt)
		if i == len(b.Stmts)-1 {
			if es, ok := stmt.(*ast.ExprStmt); ok && !es.Terminated {
				if t, ok := c.typed[es.X]; ok {
					last = t
				}
			}
		}
	}
	return last
}

func (c *checker) checkLoop(e ast.Expr, x *ast.LoopExpr) *types.Type {
	c.loopStack = append(c.loopStack, struct{}{})
	bodyType := c.checkBlock(x.Body)
	c.loopStack = c.loopStack[:len(c.loopStack)-1]
	c.set(x.Body, bodyType)
	return c.set(e, types.Unit)
}

func (c *checker) checkMatch(e ast.Expr, x *ast.MatchExpr) *types.Type {
	scrutinee := c.checkExpr(x.Value)
	var result *types.Type
	for _, arm := range x.Arms {
		c.env.Push()
		c.bindPattern(arm.Pattern, scrutinee)
		armType := c.checkExpr(arm.Body)
		c.env.Pop()
		switch {
		case result == nil:
			result = armType
		case armType.AssignableTo(result):
			// keep result
		case result.AssignableTo(armType):
			result = armType
		default:
			c.errorf(arm.Body.Span(), "match arm type %s is not compatible with earlier arm type %s", armType, result)
		}
	}
	if result == nil {
		result = types.Unit
	}
	return c.set(e, result)
}

// bindPattern introduces any names a pattern binds into the current
// (innermost) scope, and validates enum patterns against scrutinee.
func (c *checker) bindPattern(pat ast.Pattern, scrutinee *types.Type) {
	switch p := pat.(type) {
	case *ast.LiteralPattern:
		lt := c.checkExpr(p.Value)
		if lt.Kind != types.KindUnknown && scrutinee.Kind != types.KindUnknown &&
			!lt.AssignableTo(scrutinee) && !scrutinee.AssignableTo(lt) {
			c.errorf(p.Span(), "pattern type %s is not compatible with matched type %s", lt, scrutinee)
		}
	case *ast.WildcardPattern:
		// binds nothing
	case *ast.IdentPattern:
		if err := c.env.DefineVar(p.Name, scrutinee); err != nil {
			c.errorf(p.Span(), "%s", err)
		}
	case *ast.EnumPattern:
		def, ok := c.env.LookupEnum(p.EnumName)
		if !ok {
			c.errorf(p.Span(), "undeclared enum %q in pattern", p.EnumName)
			return
		}
		variant, ok := def.Variant(p.Variant)
		if !ok {
			c.errorf(p.Span(), "enum %q has no variant %q", p.EnumName, p.Variant)
			return
		}
		if len(p.SubPatterns) != len(variant.Fields) {
			c.errorf(p.Span(), "pattern %s::%s expects %d sub-pattern(s), got %d", p.EnumName, p.Variant, len(variant.Fields), len(p.SubPatterns))
		}

		typeArgs := make([]*types.Type, len(def.TypeParams))
		for i := range typeArgs {
			typeArgs[i] = types.Unknown
		}
		if scrutinee.Kind == types.KindGeneric && scrutinee.Name == p.EnumName && len(scrutinee.Args) == len(typeArgs) {
			copy(typeArgs, scrutinee.Args)
		}

		for i, sub := range p.SubPatterns {
			field := types.Unknown
			if i < len(variant.Fields) {
				field = substituteTypeParam(variant.Fields[i], def.TypeParams, typeArgs)
			}
			c.bindPattern(sub, field)
		}
	}
}

func (c *checker) checkLambda(e ast.Expr, x *ast.LambdaExpr) *types.Type {
	c.env.Push()
	params := make([]*types.Type, len(x.Params))
	for i, p := range x.Params {
		pt := c.resolveTypeExpr(p.Type)
		params[i] = pt
		if err := c.env.DefineVar(p.Name, pt); err != nil {
			c.errorf(e.Span(), "%s", err)
		}
	}
	bodyType := c.checkExpr(x.Body)
	c.env.Pop()
	return c.set(e, types.Func(params, bodyType))
}

func (c *checker) checkReturn(e ast.Expr, x *ast.ReturnExpr) *types.Type {
	var declared *types.Type
	if len(c.returnStack) > 0 {
		declared = c.returnStack[len(c.returnStack)-1]
	}
	if x.Value == nil {
		if declared != nil && declared.Kind != types.KindUnit && declared.Kind != types.KindUnknown {
			c.errorf(e.Span(), "function expects a return value of type %s", declared)
		}
		return c.set(e, types.Unit)
	}
	vt := c.checkExpr(x.Value)
	if declared != nil && !vt.AssignableTo(declared) {
		c.errorf(e.Span(), "cannot return %s, function declares return type %s", vt, declared)
	}
	return c.set(e, vt)
}
