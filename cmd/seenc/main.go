// Command seenc is a thin example driver around the seenc compiler
// core: it owns every concern the core itself refuses to (reading a
// file, picking a keyword language, writing output, exiting the
// process), mirroring the split between the teacher's main.go and its
// frontend/ir/backend packages.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kr/pretty"

	"seenc/internal/keyword"
	"seenc/internal/pipeline"
)

func main() {
	var (
		srcPath    = flag.String("src", "", "path to source file (required)")
		outPath    = flag.String("out", "", "path to output C file (default: stdout)")
		lang       = flag.String("lang", "en", "keyword language code")
		dumpTokens = flag.Bool("dump-tokens", false, "print the token stream and exit")
		dumpAST    = flag.Bool("dump-ast", false, "print the parsed AST and exit")
		dumpIR     = flag.Bool("dump-ir", false, "print the generated IR and exit")
		verbose    = flag.Bool("v", false, "log stage timing to stderr")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if !*verbose {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}

	if err := run(log, runOptions{
		srcPath:    *srcPath,
		outPath:    *outPath,
		lang:       *lang,
		dumpTokens: *dumpTokens,
		dumpAST:    *dumpAST,
		dumpIR:     *dumpIR,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

type runOptions struct {
	srcPath    string
	outPath    string
	lang       string
	dumpTokens bool
	dumpAST    bool
	dumpIR     bool
}

// run reads opt.srcPath, compiles it, and writes the result to
// opt.outPath (or stdout), returning an error describing the first
// stage that failed. It never calls os.Exit itself, so it stays
// testable without forking a process.
func run(log *slog.Logger, opt runOptions) error {
	if opt.srcPath == "" {
		return fmt.Errorf("missing required -src flag")
	}

	src, err := os.ReadFile(opt.srcPath)
	if err != nil {
		return fmt.Errorf("could not read source: %w", err)
	}

	cat := keyword.New()
	table, ok := builtinTable(opt.lang)
	if !ok {
		return fmt.Errorf("unknown language %q", opt.lang)
	}
	if err := cat.Load(opt.lang, table); err != nil {
		return fmt.Errorf("could not load language %q: %w", opt.lang, err)
	}
	if err := cat.Switch(opt.lang); err != nil {
		return fmt.Errorf("could not switch to language %q: %w", opt.lang, err)
	}

	start := time.Now()
	p := pipeline.New(cat)
	art, bag := p.Compile(src, pipeline.Options{
		EntryPoint: moduleNameOf(opt.srcPath),
		DumpTokens: opt.dumpTokens,
		DumpAST:    opt.dumpAST,
		DumpIR:     opt.dumpIR,
	})
	log.Info("compiled", "elapsed", time.Since(start), "errors", len(bag.Errors()))

	switch {
	case opt.dumpTokens:
		fmt.Fprintf(os.Stderr, "%# v\n", pretty.Formatter(art.Tokens))
	case opt.dumpAST:
		fmt.Fprintf(os.Stderr, "%# v\n", pretty.Formatter(art.AST))
	case opt.dumpIR:
		fmt.Fprintf(os.Stderr, "%# v\n", pretty.Formatter(art.IR))
	}

	if bag.HasErrors() {
		for _, d := range bag.Errors() {
			fmt.Fprintln(os.Stderr, d.String())
		}
		return fmt.Errorf("compilation failed with %d error(s)", len(bag.Errors()))
	}
	if opt.dumpTokens || opt.dumpAST || opt.dumpIR {
		return nil
	}

	if opt.outPath == "" {
		_, err := fmt.Print(art.C)
		return err
	}
	return os.WriteFile(opt.outPath, []byte(art.C), 0644)
}

func builtinTable(lang string) (keyword.Table, bool) {
	switch lang {
	case "en":
		return keyword.English(), true
	case "ar":
		return keyword.Arabic(), true
	default:
		return keyword.Table{}, false
	}
}

func moduleNameOf(srcPath string) string {
	base := srcPath
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '/' {
			base = base[i+1:]
			break
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			return base[:i]
		}
	}
	return base
}
