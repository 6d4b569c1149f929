package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seenc/internal/ast"
	"seenc/internal/diagnostics"
	"seenc/internal/keyword"
	"seenc/internal/lexer"
	"seenc/internal/parser"
	"seenc/internal/types"
)

func checkSrc(t *testing.T, src string) (*ast.Program, *Result, *diagnostics.Bag) {
	t.Helper()
	cat := keyword.New()
	require.NoError(t, cat.Load("en", keyword.English()))
	require.NoError(t, cat.Switch("en"))
	bag := diagnostics.NewBag(8)
	toks := lexer.Tokenize(src, cat, bag, 0)
	prog, err := parser.Parse(toks, bag, 0, cat)
	require.NoError(t, err)
	require.False(t, bag.HasErrors(), "unexpected parse errors: %v", bag.All())
	res := Check(prog, bag)
	return prog, res, bag
}

// TestCheckerArithmeticPrecedence mirrors spec §8 scenario S1: the type
// of `x` in `let x = 1 + 2 * 3;` is Int.
func TestCheckerArithmeticPrecedence(t *testing.T) {
	prog, res, bag := checkSrc(t, "val x = 1 + 2 * 3;")
	require.False(t, bag.HasErrors())
	decl := prog.Items[0].(*ast.VariableDecl)
	assert.Equal(t, types.Int, res.TypeOf(decl.Init))
}

// TestCheckerDivisionByZeroIsNotCaught mirrors spec §8 scenario S2: the
// checker does not special-case a zero divisor; the division still
// type checks as Int / Int -> Int.
func TestCheckerDivisionByZeroIsNotCaught(t *testing.T) {
	src := `function f(a: Int, b: Int) -> Int { return a / b; }`
	_, _, bag := checkSrc(t, src)
	assert.False(t, bag.HasErrors())
}

func TestCheckerStructLiteral(t *testing.T) {
	src := `struct P { x: Int, y: Int } val p = P{ x: 1, y: 2 };`
	prog, res, bag := checkSrc(t, src)
	require.False(t, bag.HasErrors())
	decl := prog.Items[1].(*ast.VariableDecl)
	pt := res.TypeOf(decl.Init)
	assert.Equal(t, types.KindStruct, pt.Kind)
	assert.Equal(t, "P", pt.Name)
}

func TestCheckerStructLiteralMissingFieldIsError(t *testing.T) {
	src := `struct P { x: Int, y: Int } val p = P{ x: 1 };`
	_, _, bag := checkSrc(t, src)
	assert.True(t, bag.HasErrors())
}

func TestCheckerStructLiteralUnknownFieldIsError(t *testing.T) {
	src := `struct P { x: Int } val p = P{ x: 1, z: 2 };`
	_, _, bag := checkSrc(t, src)
	assert.True(t, bag.HasErrors())
}

// TestCheckerGenericEnum mirrors spec §8 scenario S5.
func TestCheckerGenericEnum(t *testing.T) {
	src := `enum Option<T> { Some(T), None }
		function f() -> Int {
			val o = Option::Some(1);
			return 0;
		}`
	_, _, bag := checkSrc(t, src)
	assert.False(t, bag.HasErrors())
}

// TestCheckerMatchWithBinding mirrors spec §8 scenario S6.
func TestCheckerMatchWithBinding(t *testing.T) {
	src := `enum Option<T> { Some(T), None }
		function f() -> Int {
			val o = Option::Some(5);
			return match o {
				Option::Some(v) => v,
				Option::None => 0,
			};
		}`
	prog, res, bag := checkSrc(t, src)
	require.False(t, bag.HasErrors())
	fn := prog.Items[1].(*ast.FunctionDecl)
	retStmt := fn.Body.Stmts[1].(*ast.ExprStmt).X.(*ast.ReturnExpr)
	matchExpr := retStmt.Value.(*ast.MatchExpr)
	assert.Equal(t, types.Int, res.TypeOf(matchExpr))
}

func TestCheckerUndefinedNameIsError(t *testing.T) {
	_, _, bag := checkSrc(t, "val x = y + 1;")
	assert.True(t, bag.HasErrors())
}

func TestCheckerIfConditionMustBeBool(t *testing.T) {
	_, _, bag := checkSrc(t, "function f() { if 1 { return; } }")
	assert.True(t, bag.HasErrors())
}

func TestCheckerForOverRangeBindsIntElement(t *testing.T) {
	src := `function f() { for i in 0..10 { val j = i + 1; } }`
	_, _, bag := checkSrc(t, src)
	assert.False(t, bag.HasErrors())
}

func TestCheckerBreakOutsideLoopIsError(t *testing.T) {
	_, _, bag := checkSrc(t, "function f() { break; }")
	assert.True(t, bag.HasErrors())
}

func TestCheckerCallArityMismatchIsError(t *testing.T) {
	src := `function f(a: Int) -> Int { return a; } val x = f(1, 2);`
	_, _, bag := checkSrc(t, src)
	assert.True(t, bag.HasErrors())
}

func TestCheckerNullAssignableToOptional(t *testing.T) {
	src := `function f() -> Int? { return null; }`
	_, _, bag := checkSrc(t, src)
	assert.False(t, bag.HasErrors())
}

func TestCheckerScopeBalanceAfterSuccessfulCheck(t *testing.T) {
	cat := keyword.New()
	require.NoError(t, cat.Load("en", keyword.English()))
	require.NoError(t, cat.Switch("en"))
	bag := diagnostics.NewBag(8)
	toks := lexer.Tokenize("function f(a: Int) -> Int { if a > 0 { return a; } return 0; }", cat, bag, 0)
	prog, err := parser.Parse(toks, bag, 0, cat)
	require.NoError(t, err)
	res := Check(prog, bag)
	assert.Equal(t, 1, res.Env.Depth())
}
