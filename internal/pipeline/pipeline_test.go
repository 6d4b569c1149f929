package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seenc/internal/keyword"
)

func newPipeline(t *testing.T) Pipeline {
	t.Helper()
	cat := keyword.New()
	require.NoError(t, cat.Load("en", keyword.English()))
	require.NoError(t, cat.Switch("en"))
	return New(cat)
}

func TestCompileProducesCForValidProgram(t *testing.T) {
	p := newPipeline(t)
	art, bag := p.Compile([]byte(`function f(a: Int, b: Int) -> Int { return a + b; }`), Options{})
	assert.False(t, bag.HasErrors(), "unexpected diagnostics: %v", bag.All())
	require.NotNil(t, art.IR)
	assert.Contains(t, art.C, "f(int64_t a, int64_t b)")
}

func TestCompileStopsAtParseStageOnSyntaxError(t *testing.T) {
	p := newPipeline(t)
	art, bag := p.Compile([]byte(`function f( { `), Options{})
	assert.True(t, bag.HasErrors())
	assert.Nil(t, art.Checked)
	assert.Empty(t, art.C)
}

func TestCompileStopsAtCheckStageOnTypeError(t *testing.T) {
	p := newPipeline(t)
	art, bag := p.Compile([]byte(`function f() -> Int { return "not an int"; }`), Options{})
	assert.True(t, bag.HasErrors())
	assert.NotNil(t, art.AST)
	assert.Empty(t, art.C)
}

func TestCompileDumpTokensStopsBeforeParsing(t *testing.T) {
	p := newPipeline(t)
	art, bag := p.Compile([]byte(`val x = 1;`), Options{DumpTokens: true})
	assert.False(t, bag.HasErrors())
	assert.NotEmpty(t, art.Tokens)
	assert.Nil(t, art.AST)
}

func TestCompileDumpIRStopsBeforeEmit(t *testing.T) {
	p := newPipeline(t)
	art, bag := p.Compile([]byte(`val x = 1;`), Options{DumpIR: true})
	assert.False(t, bag.HasErrors())
	require.NotNil(t, art.IR)
	assert.Empty(t, art.C)
}

func TestCompileUsesEntryPointAsModuleName(t *testing.T) {
	p := newPipeline(t)
	art, bag := p.Compile([]byte(`val x = 1;`), Options{EntryPoint: "demo"})
	require.False(t, bag.HasErrors())
	require.NotNil(t, art.IR)
	assert.Equal(t, "demo", art.IR.Modules[0].Name)
	assert.Equal(t, "main", art.IR.EntryPoint)
}

func TestCompileDefaultsPipelineCatalogWhenNil(t *testing.T) {
	p := Pipeline{}
	art, bag := p.Compile([]byte(`function f() -> Int { return 1; }`), Options{})
	assert.False(t, bag.HasErrors(), "unexpected diagnostics: %v", bag.All())
	assert.NotEmpty(t, art.C)
}
