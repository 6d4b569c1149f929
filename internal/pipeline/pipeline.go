// Package pipeline ties the lexer, parser, type checker, IR generator
// and C emitter together the way the teacher's main.run does: run each
// stage in turn, stop at the first one that leaves errors in the bag
// instead of feeding a known-bad input into the next stage. Unlike
// main.run it never touches a file or exits a process — Compile is a
// plain, repeatedly callable function over in-memory source text.
package pipeline

import (
	"seenc/internal/ast"
	"seenc/internal/cemit"
	"seenc/internal/check"
	"seenc/internal/diagnostics"
	"seenc/internal/ir"
	"seenc/internal/irgen"
	"seenc/internal/keyword"
	"seenc/internal/lexer"
	"seenc/internal/parser"
)

// Options configures a single Compile call. It mirrors the shape of
// the teacher's util.Options but drops everything that names a file or
// a target machine, since the core never does its own I/O.
type Options struct {
	EntryPoint string // Name given to the resulting ir.Module.
	DumpTokens bool   // Stop after lexing and report the token stream in Artifact.
	DumpAST    bool   // Stop after parsing and report the AST in Artifact.
	DumpIR     bool   // Stop after IR generation and report the IR in Artifact, skipping cemit.
}

// Artifact holds whichever stage outputs were produced before Compile
// stopped, either because a later stage wasn't reached due to errors,
// or because Options asked to stop early for a dump.
type Artifact struct {
	Tokens  []lexer.Token
	AST     *ast.Program
	Checked *check.Result
	IR      *ir.Program
	C       string
}

// Pipeline runs a compilation against a fixed keyword Catalog, the
// only piece of state a single compile needs across stages besides the
// source text itself.
type Pipeline struct {
	Catalog *keyword.Catalog
}

// New returns a Pipeline using cat for keyword resolution.
func New(cat *keyword.Catalog) Pipeline {
	return Pipeline{Catalog: cat}
}

// Compile runs Lexer -> Parser -> TypeChecker -> IRGenerator -> CEmitter
// over src in sequence, halting at the first stage whose bag
// HasErrors(). It returns whatever partial Artifact exists alongside a
// fresh Bag holding every diagnostic collected along the way.
func (p Pipeline) Compile(src []byte, opt Options) (Artifact, *diagnostics.Bag) {
	var art Artifact
	bag := diagnostics.NewBag(16)

	cat := p.Catalog
	if cat == nil {
		cat = keyword.New()
		_ = cat.Load("en", keyword.English())
		_ = cat.Switch("en")
	}

	art.Tokens = lexer.Tokenize(string(src), cat, bag, 0)
	if opt.DumpTokens || bag.HasErrors() {
		return art, bag
	}

	prog, err := parser.Parse(art.Tokens, bag, 0, cat)
	if err != nil {
		bag.Addf(diagnostics.Error, diagnostics.Span{}, "%s", err)
		return art, bag
	}
	art.AST = prog
	if opt.DumpAST || bag.HasErrors() {
		return art, bag
	}

	art.Checked = check.Check(prog, bag)
	if bag.HasErrors() {
		return art, bag
	}

	moduleName := opt.EntryPoint
	if moduleName == "" {
		moduleName = "main"
	}
	art.IR = irgen.Generate(prog, art.Checked, moduleName)
	if err := art.IR.Validate(); err != nil {
		bag.Addf(diagnostics.Error, diagnostics.Span{}, "%s", err)
		return art, bag
	}
	if opt.DumpIR {
		return art, bag
	}

	c, err := cemit.Emit(art.IR)
	if err != nil {
		bag.Addf(diagnostics.Error, diagnostics.Span{}, "%s", err)
		return art, bag
	}
	art.C = c
	return art, bag
}
