// Package check implements the type checker: it walks a Program built
// by the parser, annotates every expression with a types.Type, verifies
// declarations against the rules in spec §4.5, and collects function
// signatures and type definitions into a types.Environment. A failure
// at any single expression produces a diagnostic and continues,
// assigning types.Unknown so downstream checks stay productive (spec
// §4.8).
package check

import (
	"seenc/internal/ast"
	"seenc/internal/diagnostics"
	"seenc/internal/types"
)

// Result is the checker's output: the type annotation table plus the
// final Environment, which the IR generator consults for function
// signatures and struct/enum layouts.
type Result struct {
	Types map[ast.Expr]*types.Type
	Env   *types.Environment
}

// TypeOf looks up the annotated type of e, returning types.Unknown if e
// was never visited (defensive; every reachable expression is visited).
func (r *Result) TypeOf(e ast.Expr) *types.Type {
	if t, ok := r.Types[e]; ok {
		return t
	}
	return types.Unknown
}

type checker struct {
	env   *types.Environment
	bag   *diagnostics.Bag
	typed map[ast.Expr]*types.Type

	// returnStack tracks the declared return type of each lexically
	// enclosing function, consulted by checkReturn.
	returnStack []*types.Type

	// loopStack tracks whether break/continue currently have an
	// enclosing loop; mismatched use is reported here rather than left
	// to the IR stage (spec §4.6 notes the error is "caught earlier").
	loopStack []struct{}
}

// Check runs the full type-checking pass over prog, reporting failures
// to bag and returning the best-effort Result.
func Check(prog *ast.Program, bag *diagnostics.Bag) *Result {
	c := &checker{
		env:   types.NewEnvironment(),
		bag:   bag,
		typed: make(map[ast.Expr]*types.Type),
	}
	c.registerTopLevel(prog)
	for _, item := range prog.Items {
		c.checkItem(item)
	}
	return &Result{Types: c.typed, Env: c.env}
}

func (c *checker) errorf(sp diagnostics.Span, format string, args ...interface{}) {
	c.bag.Addf(diagnostics.Error, sp, format, args...)
}

func (c *checker) set(e ast.Expr, t *types.Type) *types.Type {
	c.typed[e] = t
	return t
}

// registerTopLevel performs a forward-declaration pass so that mutually
// recursive functions, and functions defined after their first caller,
// both resolve: every function/struct/enum name is visible throughout
// the whole program regardless of declaration order.
func (c *checker) registerTopLevel(prog *ast.Program) {
	for _, item := range prog.Items {
		switch d := item.(type) {
		case *ast.FunctionDecl:
			c.defineFunctionSignature(d)
		case *ast.StructDecl:
			c.defineStruct(d)
		case *ast.EnumDecl:
			c.defineEnum(d)
		}
	}
}

func (c *checker) defineFunctionSignature(d *ast.FunctionDecl) {
	params := make([]*types.Type, len(d.Params))
	names := make([]string, len(d.Params))
	for i, p := range d.Params {
		params[i] = c.resolveTypeExpr(p.Type)
		names[i] = p.Name
	}
	ret := types.Unit
	if d.ReturnType != nil {
		ret = c.resolveTypeExpr(d.ReturnType)
	}
	sig := &types.FunctionSignature{Name: d.Name, Params: params, ParamNames: names, Return: ret}
	if err := c.env.DefineFunc(sig); err != nil {
		c.errorf(d.Span(), "%s", err)
	}
}

func (c *checker) defineStruct(d *ast.StructDecl) {
	def := &types.StructDef{Name: d.Name, FieldTypes: make(map[string]*types.Type, len(d.Fields))}
	for _, f := range d.Fields {
		def.FieldNames = append(def.FieldNames, f.Name)
		def.FieldTypes[f.Name] = c.resolveTypeExpr(f.Type)
	}
	if err := c.env.DefineStruct(def); err != nil {
		c.errorf(d.Span(), "%s", err)
	}
}

func (c *checker) defineEnum(d *ast.EnumDecl) {
	typeParamSet := make(map[string]bool, len(d.TypeParams))
	for _, tp := range d.TypeParams {
		if typeParamSet[tp] {
			c.errorf(d.Span(), "duplicate type parameter %q in enum %q", tp, d.Name)
		}
		typeParamSet[tp] = true
	}

	def := &types.EnumDef{Name: d.Name, TypeParams: d.TypeParams}
	for _, v := range d.Variants {
		fields := make([]*types.Type, len(v.Fields))
		for i, ft := range v.Fields {
			fields[i] = c.resolveVariantFieldType(ft, typeParamSet, d.Name)
		}
		def.Variants = append(def.Variants, types.EnumVariant{Name: v.Name, Fields: fields})
	}
	if err := c.env.DefineEnum(def); err != nil {
		c.errorf(d.Span(), "%s", err)
	}
}

// resolveVariantFieldType resolves a variant payload slot: one of the
// enum's own type parameters becomes Generic(name), anything else goes
// through resolveTypeExpr. Because resolveTypeExpr takes an unknown
// name as Struct(name), a payload naming an undefined type is not
// reported; the Unknown check below does not fire for it.
func (c *checker) resolveVariantFieldType(te *ast.TypeExpr, typeParams map[string]bool, enumName string) *types.Type {
	if te != nil && typeParams[te.Name] {
		return types.Generic(te.Name)
	}
	t := c.resolveTypeExpr(te)
	if t.Kind == types.KindUnknown && te != nil {
		c.errorf(te.Span(), "enum %q: variant payload type %q is neither a known type nor a declared type parameter", enumName, te.Name)
	}
	return t
}

// resolveTypeExpr turns a syntactic TypeExpr into a semantic Type,
// resolving struct/enum names against the Environment. A name that is
// neither a primitive nor a registered struct/enum resolves to
// Struct(name), so forward references work; it never yields Unknown
// and no undefined-type error is reported here.
func (c *checker) resolveTypeExpr(te *ast.TypeExpr) *types.Type {
	if te == nil {
		return types.Unit
	}
	var base *types.Type
	if te.Array {
		base = types.Array(c.resolveTypeExpr(te.Elem))
	} else {
		switch te.Name {
		case "Int":
			base = types.Int
		case "Float":
			base = types.Float
		case "Bool":
			base = types.Bool
		case "String":
			base = types.String
		case "Char":
			base = types.Char
		case "Unit":
			base = types.Unit
		default:
			if len(te.Args) > 0 {
				args := make([]*types.Type, len(te.Args))
				for i, a := range te.Args {
					args[i] = c.resolveTypeExpr(a)
				}
				base = types.Generic(te.Name, args...)
			} else if _, ok := c.env.LookupStruct(te.Name); ok {
				base = types.StructT(te.Name)
			} else if _, ok := c.env.LookupEnum(te.Name); ok {
				base = types.EnumT(te.Name)
			} else {
				// Unresolved at registration time (e.g. forward reference to
				// a struct/enum declared later); assume it names a type and
				// let later lookups by name succeed once fully registered.
				base = types.StructT(te.Name)
			}
		}
	}
	if te.Optional {
		return types.Optional(base)
	}
	return base
}

func (c *checker) checkItem(item ast.Node) {
	switch n := item.(type) {
	case ast.Decl:
		c.checkDecl(n)
	case ast.Expr:
		c.checkExpr(n)
	}
}

func (c *checker) checkDecl(d ast.Decl) {
	switch decl := d.(type) {
	case *ast.FunctionDecl:
		c.checkFunctionBody(decl)
	case *ast.VariableDecl:
		c.checkVariableDecl(decl)
	case *ast.StructDecl, *ast.EnumDecl:
		// Already fully processed in registerTopLevel.
	}
}

func (c *checker) checkFunctionBody(d *ast.FunctionDecl) {
	sig, ok := c.env.LookupFunc(d.Name)
	if !ok {
		return // already reported as a duplicate declaration
	}
	c.env.Push()
	for i, name := range sig.ParamNames {
		if err := c.env.DefineVar(name, sig.Params[i]); err != nil {
			c.errorf(d.Span(), "%s", err)
		}
	}
	c.returnStack = append(c.returnStack, sig.Return)
	c.checkBlock(d.Body)
	c.returnStack = c.returnStack[:len(c.returnStack)-1]
	c.env.Pop()
}

func (c *checker) checkVariableDecl(d *ast.VariableDecl) {
	initType := c.checkExpr(d.Init)
	declared := initType
	if d.Type != nil {
		declared = c.resolveTypeExpr(d.Type)
		if !initType.AssignableTo(declared) {
			c.errorf(d.Span(), "cannot assign %s to declared type %s", initType, declared)
		}
	}
	if err := c.env.DefineVar(d.Name, declared); err != nil {
		c.errorf(d.Span(), "%s", err)
	}
}

func (c *checker) checkStmt(s ast.Stmt) {
	switch stmt := s.(type) {
	case *ast.ExprStmt:
		c.checkExpr(stmt.X)
	case *ast.DeclStmt:
		c.checkDecl(stmt.D)
	case *ast.PrintStmt:
		for _, a := range stmt.Args {
			c.checkExpr(a)
		}
	}
}

func (c *checker) checkBlock(b *ast.BlockExpr) *types.Type {
	c.env.Push()
	defer c.env.Pop()
	var last *types.Type = types.Unit
	for i, stmt := range b.Stmts {
		c.checkStmt(stmt)
		if i == len(b.Stmts)-1 {
			if es, ok := stmt.(*ast.ExprStmt); ok && !es.Terminated {
				last = c.typed[es.X]
				if last == nil {
					last = types.Unit
				}
			}
		}
	}
	return last
}
