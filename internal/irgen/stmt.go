package irgen

import (
	"seenc/internal/ast"
	"seenc/internal/ir"
)

// lowerBlock lowers every statement of b in its own IR (no new basic
// block per source block: a BlockExpr introduces a lexical scope, not a
// control-flow boundary), returning the value of a trailing
// non-semicolon-terminated expression statement, or VoidValue if none.
func (g *Generator) lowerBlock(b *ast.BlockExpr) ir.Value {
	var last ir.Value = ir.VoidValue{}
	for i, stmt := range b.Stmts {
		if g.finished() {
			break
		}
		if i == len(b.Stmts)-1 {
			if es, ok := stmt.(*ast.ExprStmt); ok && !es.Terminated {
				last = g.lowerExpr(es.X)
				continue
			}
		}
		g.lowerStmt(stmt)
	}
	return last
}

func (g *Generator) lowerStmt(s ast.Stmt) {
	switch stmt := s.(type) {
	case *ast.ExprStmt:
		g.lowerExpr(stmt.X)
	case *ast.DeclStmt:
		g.lowerLocalDecl(stmt.D)
	case *ast.PrintStmt:
		args := make([]ir.Value, len(stmt.Args))
		for i, a := range stmt.Args {
			args[i] = g.lowerExpr(a)
		}
		g.emit(ir.Call{Target: "print", Args: args})
	}
}

func (g *Generator) lowerLocalDecl(d ast.Decl) {
	switch decl := d.(type) {
	case *ast.VariableDecl:
		g.lowerVariableDecl(decl)
	case *ast.FunctionDecl:
		g.lowerFunctionDecl(decl)
	}
}
