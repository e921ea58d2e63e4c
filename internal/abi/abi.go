// Package abi computes the calling convention the code generator emits
// for each compiled function: whether it needs an explicit allocator
// parameter threaded through (because it can grow a list, build a
// string, or otherwise allocate), and whether it can fail and so must
// return a tagged ok/error result instead of a bare value. This mirrors
// the teacher's linker, which walks a tree once up front to resolve
// every dictionary reference before codegen runs, except the thing
// being resolved here is a function's parameter and return shape.
package abi

import (
	"github.com/sunholo/pyzig/internal/ast"
	"github.com/sunholo/pyzig/internal/registry"
	"github.com/sunholo/pyzig/internal/types"
)

// ParamSlot is one entry in a generated function's parameter list.
type ParamSlot struct {
	Name        string
	Type        types.Type
	IsAllocator bool
}

// FuncABI is the resolved calling convention for one function.
type FuncABI struct {
	Name           string
	Params         []ParamSlot
	NeedsAllocator bool
	Fallible       bool
	Return         types.Type
}

// ResultTypeName names the Zig-side tagged union type a fallible
// function returns, parametrized on its success payload's type name.
func ResultTypeName(okTypeName string) string {
	return "PyzigResult(" + okTypeName + ")"
}

// AllocatorParamName is the conventional name codegen gives the
// threaded allocator parameter, matching the convention every
// registry.*Entry.NeedsAllocator flag assumes downstream.
const AllocatorParamName = "alloc"

// BuildFuncABI resolves the full calling convention for fn given its
// inferred signature.
func BuildFuncABI(fn *ast.FunctionDef, sig *types.FuncSig, res *types.Result) FuncABI {
	a := FuncABI{
		Name:           fn.Name,
		NeedsAllocator: RequiresAllocator(fn.Body, res),
		Fallible:       IsFallible(fn.Body),
		Return:         sig.Return,
	}
	if a.NeedsAllocator {
		a.Params = append(a.Params, ParamSlot{Name: AllocatorParamName, IsAllocator: true})
	}
	for i, p := range fn.Params {
		t := types.TUnknown
		if i < len(sig.Params) {
			t = sig.Params[i]
		}
		a.Params = append(a.Params, ParamSlot{Name: p.Name, Type: t})
	}
	return a
}

// RequiresAllocator reports whether executing body might need to
// allocate: building a list, set or dict literal (empty or not), a
// comprehension or a generator expression, formatting an f-string,
// concatenating/repeating a string or list, or calling a builtin/module
// function/method the registry marks NeedsAllocator. Tuple literals do not
// count. res supplies the inferred type of each expression so
// `+`/`*` can be judged by their actual operand types rather than
// assumed to always allocate (int/float arithmetic never does).
func RequiresAllocator(body []ast.Stmt, res *types.Result) bool {
	found := false
	walkStmts(body, func(e ast.Expr) {
		if found {
			return
		}
		if exprNeedsAllocator(e, res) {
			found = true
		}
	})
	return found
}

func exprNeedsAllocator(e ast.Expr, res *types.Result) bool {
	switch v := e.(type) {
	case *ast.ListExpr, *ast.SetExpr, *ast.DictExpr,
		*ast.ListComp, *ast.SetComp, *ast.DictComp, *ast.GenExp, *ast.FString:
		return true
	case *ast.BinOp:
		if v.Op != "+" && v.Op != "*" {
			return false
		}
		if res == nil {
			return false
		}
		t, ok := res.ExprTypes[v]
		if !ok {
			return false
		}
		// only string concatenation/repetition and list
		// concatenation/repetition allocate; int/float arithmetic never
		// does (spec.md §8 scenario 1's allocator-free recursive call).
		return t.Kind == types.String || t.Kind == types.ListType
	case *ast.Call:
		if name, ok := v.Func.(*ast.Name); ok {
			if e, ok := registry.Builtins[name.Id]; ok && e.NeedsAllocator {
				return true
			}
		}
		if attr, ok := v.Func.(*ast.Attribute); ok {
			if mod, ok := attr.Value.(*ast.Name); ok {
				if f, ok := registry.LookupModuleFunc(mod.Id, attr.Attr); ok && f.NeedsAllocator {
					return true
				}
			}
			for _, m := range registry.Methods {
				if m.Method == attr.Attr && m.NeedsAllocator {
					return true
				}
			}
		}
	}
	return false
}

// IsFallible reports whether body can raise at runtime: an explicit
// raise/assert, a division or indexing operation (both can fault), or
// a call to a builtin/module function the registry doesn't mark pure.
func IsFallible(body []ast.Stmt) bool {
	for _, stmt := range body {
		if stmtIsFallible(stmt) {
			return true
		}
	}
	return false
}

func stmtIsFallible(stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.Raise, *ast.Assert:
		return true
	case *ast.Assign:
		return exprIsFallible(s.Value)
	case *ast.AnnAssign:
		return s.Value != nil && exprIsFallible(s.Value)
	case *ast.AugAssign:
		return exprIsFallible(s.Value)
	case *ast.Return:
		return s.Value != nil && exprIsFallible(s.Value)
	case *ast.ExprStmt:
		return exprIsFallible(s.Value)
	case *ast.If:
		return exprIsFallible(s.Cond) || IsFallible(s.Body) || IsFallible(s.Orelse)
	case *ast.While:
		return exprIsFallible(s.Cond) || IsFallible(s.Body) || IsFallible(s.Orelse)
	case *ast.For:
		return exprIsFallible(s.Iter) || IsFallible(s.Body) || IsFallible(s.Orelse)
	case *ast.With:
		for _, item := range s.Items {
			if exprIsFallible(item.Context) {
				return true
			}
		}
		return IsFallible(s.Body)
	case *ast.Try:
		// a try block exists precisely because something inside can
		// fail, but those failures are handled locally; only the
		// finally clause's faults can still escape.
		return IsFallible(s.Finally)
	default:
		return false
	}
}

func exprIsFallible(e ast.Expr) bool {
	found := false
	var visit func(ast.Expr)
	visit = func(e ast.Expr) {
		if e == nil || found {
			return
		}
		switch v := e.(type) {
		case *ast.BinOp:
			if v.Op == "/" || v.Op == "//" || v.Op == "%" {
				found = true
				return
			}
			visit(v.Left)
			visit(v.Right)
		case *ast.Subscript:
			found = true
		case *ast.Call:
			if name, ok := v.Func.(*ast.Name); ok {
				if entry, ok := registry.Builtins[name.Id]; ok && !entry.IsPure {
					found = true
					return
				}
			}
			if attr, ok := v.Func.(*ast.Attribute); ok {
				if mod, ok := attr.Value.(*ast.Name); ok {
					if f, ok := registry.LookupModuleFunc(mod.Id, attr.Attr); ok && !f.IsPure {
						found = true
						return
					}
				}
			}
			for _, a := range v.Args {
				visit(a)
			}
		default:
			walkChildren(e, visit)
		}
	}
	visit(e)
	return found
}

// walkStmts calls fn on every expression reachable from body, recursing
// through nested statements and compound expressions.
func walkStmts(body []ast.Stmt, fn func(ast.Expr)) {
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.Assign:
			fn(s.Value)
			walkExprTree(s.Value, fn)
		case *ast.AnnAssign:
			if s.Value != nil {
				fn(s.Value)
				walkExprTree(s.Value, fn)
			}
		case *ast.AugAssign:
			fn(s.Value)
			walkExprTree(s.Value, fn)
		case *ast.Return:
			if s.Value != nil {
				fn(s.Value)
				walkExprTree(s.Value, fn)
			}
		case *ast.ExprStmt:
			fn(s.Value)
			walkExprTree(s.Value, fn)
		case *ast.If:
			fn(s.Cond)
			walkExprTree(s.Cond, fn)
			walkStmts(s.Body, fn)
			walkStmts(s.Orelse, fn)
		case *ast.While:
			fn(s.Cond)
			walkExprTree(s.Cond, fn)
			walkStmts(s.Body, fn)
			walkStmts(s.Orelse, fn)
		case *ast.For:
			fn(s.Iter)
			walkExprTree(s.Iter, fn)
			walkStmts(s.Body, fn)
			walkStmts(s.Orelse, fn)
		case *ast.Try:
			walkStmts(s.Body, fn)
			for _, h := range s.Handlers {
				walkStmts(h.Body, fn)
			}
			walkStmts(s.Orelse, fn)
			walkStmts(s.Finally, fn)
		case *ast.With:
			for _, item := range s.Items {
				fn(item.Context)
				walkExprTree(item.Context, fn)
			}
			walkStmts(s.Body, fn)
		}
	}
}

func walkExprTree(e ast.Expr, fn func(ast.Expr)) {
	walkChildren(e, func(child ast.Expr) {
		fn(child)
		walkExprTree(child, fn)
	})
}

// walkChildren invokes visit on every direct child expression of e.
func walkChildren(e ast.Expr, visit func(ast.Expr)) {
	switch v := e.(type) {
	case *ast.BinOp:
		visit(v.Left)
		visit(v.Right)
	case *ast.UnaryOp:
		visit(v.Operand)
	case *ast.BoolOp:
		for _, x := range v.Values {
			visit(x)
		}
	case *ast.Compare:
		visit(v.Left)
		for _, x := range v.Comparators {
			visit(x)
		}
	case *ast.IfExpr:
		visit(v.Test)
		visit(v.Body)
		visit(v.Orelse)
	case *ast.ListExpr:
		for _, x := range v.Elts {
			visit(x)
		}
	case *ast.TupleExpr:
		for _, x := range v.Elts {
			visit(x)
		}
	case *ast.SetExpr:
		for _, x := range v.Elts {
			visit(x)
		}
	case *ast.DictExpr:
		for _, entry := range v.Entries {
			if entry.Key != nil {
				visit(entry.Key)
			}
			visit(entry.Value)
		}
	case *ast.Call:
		visit(v.Func)
		for _, x := range v.Args {
			visit(x)
		}
		for _, kw := range v.Keywords {
			visit(kw.Value)
		}
	case *ast.Attribute:
		visit(v.Value)
	case *ast.Subscript:
		visit(v.Value)
		visit(v.Index)
	case *ast.Starred:
		visit(v.Value)
	case *ast.Await:
		visit(v.Value)
	case *ast.FString:
		for _, part := range v.Parts {
			if part.Expr != nil {
				visit(part.Expr)
			}
		}
	}
}
