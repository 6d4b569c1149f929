package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seenc/internal/ast"
	"seenc/internal/diagnostics"
	"seenc/internal/keyword"
	"seenc/internal/lexer"
)

func newCatalog(t *testing.T) *keyword.Catalog {
	t.Helper()
	cat := keyword.New()
	require.NoError(t, cat.Load("en", keyword.English()))
	require.NoError(t, cat.Load("ar", keyword.Arabic()))
	require.NoError(t, cat.Switch("en"))
	return cat
}

func parseSrc(t *testing.T, src string) (*ast.Program, *diagnostics.Bag) {
	t.Helper()
	cat := newCatalog(t)
	bag := diagnostics.NewBag(8)
	toks := lexer.Tokenize(src, cat, bag, 0)
	prog, err := Parse(toks, bag, 0, cat)
	require.NoError(t, err)
	require.NotNil(t, prog)
	return prog, bag
}

// TestParserPrecedence checks 1 + 2 * 3 groups as 1 + (2 * 3), spec §8
// scenario S1's parse shape.
func TestParserPrecedence(t *testing.T) {
	prog, bag := parseSrc(t, "val x = 1 + 2 * 3;")
	require.False(t, bag.HasErrors())
	require.Len(t, prog.Items, 1)

	decl, ok := prog.Items[0].(*ast.VariableDecl)
	require.True(t, ok)
	bin, ok := decl.Init.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, bin.Op)

	right, ok := bin.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpMul, right.Op)
}

func TestParserFunctionDecl(t *testing.T) {
	prog, bag := parseSrc(t, "function f(a: Int, b: Int) -> Int { return a / b; }")
	require.False(t, bag.HasErrors())
	require.Len(t, prog.Items, 1)
	fn, ok := prog.Items[0].(*ast.FunctionDecl)
	require.True(t, ok)
	assert.Equal(t, "f", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "Int", fn.ReturnType.Name)
	require.Len(t, fn.Body.Stmts, 1)
}

func TestParserStructLiteral(t *testing.T) {
	prog, bag := parseSrc(t, "struct P { x: Int, y: Int } val p = P{ x: 1, y: 2 };")
	require.False(t, bag.HasErrors())
	require.Len(t, prog.Items, 2)

	decl, ok := prog.Items[1].(*ast.VariableDecl)
	require.True(t, ok)
	lit, ok := decl.Init.(*ast.StructLiteral)
	require.True(t, ok)
	assert.Equal(t, "P", lit.TypeName)
	require.Len(t, lit.Fields, 2)
	assert.Equal(t, "x", lit.Fields[0].Name)
}

// TestParserStructLiteralSuppressedInCondition checks that `if p {...}`
// parses `p` as a bare condition identifier, not the start of a struct
// literal swallowing the block's opening brace.
func TestParserStructLiteralSuppressedInCondition(t *testing.T) {
	prog, bag := parseSrc(t, "function f() { if p { return 1; } return 0; }")
	require.False(t, bag.HasErrors())
	fn := prog.Items[0].(*ast.FunctionDecl)
	require.Len(t, fn.Body.Stmts, 2)

	ifStmt, ok := fn.Body.Stmts[0].(*ast.ExprStmt)
	require.True(t, ok)
	ifExpr, ok := ifStmt.X.(*ast.IfExpr)
	require.True(t, ok)
	_, isIdent := ifExpr.Cond.(*ast.Identifier)
	assert.True(t, isIdent, "condition should be a bare identifier, not a struct literal")
	require.Len(t, ifExpr.Then.Stmts, 1)
}

func TestParserGenericEnumDecl(t *testing.T) {
	prog, bag := parseSrc(t, "enum Option<T> { Some(T), None }")
	require.False(t, bag.HasErrors())
	decl, ok := prog.Items[0].(*ast.EnumDecl)
	require.True(t, ok)
	assert.Equal(t, []string{"T"}, decl.TypeParams)
	require.Len(t, decl.Variants, 2)
	assert.Equal(t, "Some", decl.Variants[0].Name)
	require.Len(t, decl.Variants[0].Fields, 1)
	assert.Equal(t, "None", decl.Variants[1].Name)
	assert.Empty(t, decl.Variants[1].Fields)
}

func TestParserMatchWithBinding(t *testing.T) {
	src := `function f(o: Option<Int>) -> Int {
		match o {
			Option::Some(v) => v,
			Option::None => 0,
		}
	}`
	prog, bag := parseSrc(t, src)
	require.False(t, bag.HasErrors())
	fn := prog.Items[0].(*ast.FunctionDecl)
	require.Len(t, fn.Body.Stmts, 1)
	exprStmt := fn.Body.Stmts[0].(*ast.ExprStmt)
	match, ok := exprStmt.X.(*ast.MatchExpr)
	require.True(t, ok)
	require.Len(t, match.Arms, 2)

	some, ok := match.Arms[0].Pattern.(*ast.EnumPattern)
	require.True(t, ok)
	assert.Equal(t, "Option", some.EnumName)
	assert.Equal(t, "Some", some.Variant)
	require.Len(t, some.SubPatterns, 1)
	_, isIdentPat := some.SubPatterns[0].(*ast.IdentPattern)
	assert.True(t, isIdentPat)
}

func TestParserForLoopOverRange(t *testing.T) {
	prog, bag := parseSrc(t, "function f() { for i in 0..10 { print i; } }")
	require.False(t, bag.HasErrors())
	fn := prog.Items[0].(*ast.FunctionDecl)
	exprStmt := fn.Body.Stmts[0].(*ast.ExprStmt)
	forExpr, ok := exprStmt.X.(*ast.ForExpr)
	require.True(t, ok)
	assert.Equal(t, "i", forExpr.Var)
	rng, ok := forExpr.Iterable.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpRange, rng.Op)
}

func TestParserTryBindsTighterThanBinaryLooserThanMember(t *testing.T) {
	// a.b()? + 1  ==  ((a.b())?) + 1
	prog, bag := parseSrc(t, "val x = a.b()? + 1;")
	require.False(t, bag.HasErrors())
	decl := prog.Items[0].(*ast.VariableDecl)
	add, ok := decl.Init.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, add.Op)
	try, ok := add.Left.(*ast.TryExpr)
	require.True(t, ok)
	_, isCall := try.Operand.(*ast.CallExpr)
	assert.True(t, isCall)
}

func TestParserInterpolatedString(t *testing.T) {
	prog, bag := parseSrc(t, `val s = $"count is {n + 1} done";`)
	require.False(t, bag.HasErrors())
	decl := prog.Items[0].(*ast.VariableDecl)
	interp, ok := decl.Init.(*ast.InterpolatedString)
	require.True(t, ok)
	require.Len(t, interp.Parts, 3)
	assert.Equal(t, "count is ", interp.Parts[0].Text)
	require.NotNil(t, interp.Parts[1].Expr)
	bin, ok := interp.Parts[1].Expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, bin.Op)
	assert.Equal(t, " done", interp.Parts[2].Text)
}

func TestParserArabicKeywordTable(t *testing.T) {
	cat := keyword.New()
	require.NoError(t, cat.Load("ar", keyword.Arabic()))
	require.NoError(t, cat.Switch("ar"))
	bag := diagnostics.NewBag(8)
	toks := lexer.Tokenize("دالة f() { ارجع 1; }", cat, bag, 0)
	prog, err := Parse(toks, bag, 0, cat)
	require.NoError(t, err)
	require.False(t, bag.HasErrors())
	fn, ok := prog.Items[0].(*ast.FunctionDecl)
	require.True(t, ok)
	assert.Equal(t, "f", fn.Name)
}

// TestParserRecoversAndMakesProgress exercises error recovery (spec §8
// "parser progress"): a malformed declaration must not hang the parser,
// and subsequent well-formed declarations still parse.
func TestParserRecoversAndMakesProgress(t *testing.T) {
	prog, bag := parseSrc(t, "val = ; function g() { return 1; }")
	require.True(t, bag.HasErrors())
	require.NotEmpty(t, prog.Items)

	var found bool
	for _, item := range prog.Items {
		if fn, ok := item.(*ast.FunctionDecl); ok && fn.Name == "g" {
			found = true
		}
	}
	assert.True(t, found, "parser should recover and still parse the trailing function")
}

func TestParserEmptyTokenStreamIsFatal(t *testing.T) {
	bag := diagnostics.NewBag(1)
	_, err := Parse(nil, bag, 0, nil)
	assert.Error(t, err)
}

func TestParserLambdaExpr(t *testing.T) {
	prog, bag := parseSrc(t, "val add = function(a: Int, b: Int) => a + b;")
	require.False(t, bag.HasErrors())
	decl := prog.Items[0].(*ast.VariableDecl)
	lambda, ok := decl.Init.(*ast.LambdaExpr)
	require.True(t, ok)
	require.Len(t, lambda.Params, 2)
	_, isBinary := lambda.Body.(*ast.BinaryExpr)
	assert.True(t, isBinary)
}

func TestParserArrayLiteralAndIndex(t *testing.T) {
	prog, bag := parseSrc(t, "val xs = [1, 2, 3]; val y = xs[0];")
	require.False(t, bag.HasErrors())
	require.Len(t, prog.Items, 2)
	arr := prog.Items[0].(*ast.VariableDecl).Init.(*ast.ArrayLiteral)
	require.Len(t, arr.Elements, 3)
	idx := prog.Items[1].(*ast.VariableDecl).Init.(*ast.IndexExpr)
	_, isIdent := idx.Array.(*ast.Identifier)
	assert.True(t, isIdent)
}

func TestParserBooleanLiterals(t *testing.T) {
	prog, bag := parseSrc(t, "val t = true; val f = false;")
	require.False(t, bag.HasErrors())
	require.Len(t, prog.Items, 2)

	tDecl, ok := prog.Items[0].(*ast.VariableDecl)
	require.True(t, ok)
	tLit, ok := tDecl.Init.(*ast.BoolLiteral)
	require.True(t, ok, "expected true to parse as a BoolLiteral, got %T", tDecl.Init)
	assert.True(t, tLit.Value)

	fDecl, ok := prog.Items[1].(*ast.VariableDecl)
	require.True(t, ok)
	fLit, ok := fDecl.Init.(*ast.BoolLiteral)
	require.True(t, ok, "expected false to parse as a BoolLiteral, got %T", fDecl.Init)
	assert.False(t, fLit.Value)
}
