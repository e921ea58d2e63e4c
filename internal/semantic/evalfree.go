package semantic

import (
	"sort"

	"github.com/sunholo/pyzig/internal/ast"
	"github.com/sunholo/pyzig/internal/parser"
)

// freeIdentsOf parses src as a standalone snippet and returns the sorted,
// deduplicated set of identifiers it references. Used to decide which
// enclosing-scope bindings an eval()/exec() string literal needs kept
// alive (spec.md §4.4). Parse failures yield no free identifiers rather
// than propagating an error — an unparseable eval() literal is the
// bytecode compiler's problem (internal/bytecode), not this analyzer's.
func freeIdentsOf(src string) []string {
	mod, rep := parser.ParseFile([]byte(src), "<eval-literal>")
	if rep != nil {
		return nil
	}
	seen := make(map[string]bool)
	for _, stmt := range mod.Body {
		collectIdentsStmt(stmt, seen)
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectIdentsStmt(stmt ast.Stmt, seen map[string]bool) {
	switch n := stmt.(type) {
	case *ast.ExprStmt:
		collectIdentsExpr(n.Value, seen)
	case *ast.Assign:
		collectIdentsExpr(n.Value, seen)
		for _, t := range n.Targets {
			collectIdentsExpr(t, seen)
		}
	case *ast.Return:
		if n.Value != nil {
			collectIdentsExpr(n.Value, seen)
		}
	case *ast.If:
		collectIdentsExpr(n.Cond, seen)
		for _, s := range n.Body {
			collectIdentsStmt(s, seen)
		}
		for _, s := range n.Orelse {
			collectIdentsStmt(s, seen)
		}
	}
}

func collectIdentsExpr(expr ast.Expr, seen map[string]bool) {
	switch e := expr.(type) {
	case *ast.Name:
		seen[e.Id] = true
	case *ast.BinOp:
		collectIdentsExpr(e.Left, seen)
		collectIdentsExpr(e.Right, seen)
	case *ast.UnaryOp:
		collectIdentsExpr(e.Operand, seen)
	case *ast.BoolOp:
		for _, v := range e.Values {
			collectIdentsExpr(v, seen)
		}
	case *ast.Compare:
		collectIdentsExpr(e.Left, seen)
		for _, c := range e.Comparators {
			collectIdentsExpr(c, seen)
		}
	case *ast.Call:
		collectIdentsExpr(e.Func, seen)
		for _, a := range e.Args {
			collectIdentsExpr(a, seen)
		}
	case *ast.Attribute:
		collectIdentsExpr(e.Value, seen)
	case *ast.Subscript:
		collectIdentsExpr(e.Value, seen)
		collectIdentsExpr(e.Index, seen)
	case *ast.ListExpr:
		for _, elt := range e.Elts {
			collectIdentsExpr(elt, seen)
		}
	case *ast.TupleExpr:
		for _, elt := range e.Elts {
			collectIdentsExpr(elt, seen)
		}
	}
}
