// Package codegen lowers an inferred module into Zig source text. It
// walks the AST the same way the teacher's evaluator walks it to
// produce runtime values — a big switch per node kind, recursing into
// children — except the output here is a string of Zig code instead of
// an interpreted Value, and every call site first asks
// internal/registry which of the three dispatch tables (builtin,
// module function, method) owns the callee before emitting a direct
// symbol reference into the runtime.
package codegen

import (
	"fmt"
	"strings"

	"github.com/sunholo/pyzig/internal/abi"
	"github.com/sunholo/pyzig/internal/ast"
	"github.com/sunholo/pyzig/internal/errors"
	"github.com/sunholo/pyzig/internal/registry"
	"github.com/sunholo/pyzig/internal/semantic"
	"github.com/sunholo/pyzig/internal/types"
)

// Generator accumulates emitted Zig source for one module.
type Generator struct {
	buf       strings.Builder
	res       *types.Result
	mutations *semantic.MutationResult
	funcABIs  map[string]*abi.FuncABI
	indent    int
}

// Generate lowers mod (already type-inferred into res, with mutation
// facts already gathered into mutations) into a complete Zig source
// file. mutations drives the const-vs-var choice for locals: a name
// that semantic.AnalyzeMutations never saw reassigned, method-mutated,
// or subscript-mutated is emitted as a Zig `const` (spec.md §3's
// Mutation Map is "used to decide whether to emit mutable or immutable
// containers"). mutations may be nil (every local then defaults to
// `var`, matching the teacher's unconditional-var behavior).
func Generate(mod *ast.Module, res *types.Result, mutations *semantic.MutationResult) (string, *errors.Report) {
	g := &Generator{res: res, mutations: mutations, funcABIs: make(map[string]*abi.FuncABI)}
	for _, stmt := range mod.Body {
		fn, ok := stmt.(*ast.FunctionDef)
		if !ok {
			continue
		}
		sig := res.Funcs[fn.Name]
		if sig == nil {
			sig = &types.FuncSig{Return: types.TUnknown}
		}
		funcABI := abi.BuildFuncABI(fn, sig, res)
		g.funcABIs[fn.Name] = &funcABI
	}

	g.writeln(`const std = @import("std");`)
	g.writeln(`const pyzig_runtime = @import("pyzig_runtime");`)
	g.writeln("")

	for name, info := range res.Classes {
		g.emitClassStruct(name, info)
	}
	for _, stmt := range mod.Body {
		if cls, ok := stmt.(*ast.ClassDef); ok {
			g.emitClassMethods(cls, res.Classes[cls.Name])
			continue
		}
		if fn, ok := stmt.(*ast.FunctionDef); ok {
			g.emitFunction(fn, res.Funcs[fn.Name], "")
			continue
		}
	}

	g.writeln("pub fn pyzig_main(alloc: std.mem.Allocator) !void {")
	g.indent++
	for _, stmt := range mod.Body {
		switch stmt.(type) {
		case *ast.FunctionDef, *ast.ClassDef:
			continue
		}
		g.emitStmt(stmt)
	}
	g.indent--
	g.writeln("}")

	return g.buf.String(), nil
}

func (g *Generator) line(prefix string, args ...any) {
	g.writeln(fmt.Sprintf(prefix, args...))
}

func (g *Generator) writeln(s string) {
	g.buf.WriteString(strings.Repeat("    ", g.indent))
	g.buf.WriteString(s)
	g.buf.WriteString("\n")
}

func (g *Generator) emitClassStruct(name string, info *types.ClassInfo) {
	g.line("pub const %s = struct {", name)
	g.indent++
	for field, t := range info.Fields {
		g.line("%s: %s,", field, zigType(t))
	}
	g.indent--
	g.writeln("};")
	g.writeln("")
}

func (g *Generator) emitClassMethods(cls *ast.ClassDef, info *types.ClassInfo) {
	for _, m := range cls.Body {
		fn, ok := m.(*ast.FunctionDef)
		if !ok {
			continue
		}
		sig := g.res.Funcs[cls.Name+"."+fn.Name]
		g.emitFunction(fn, sig, cls.Name)
	}
}

func (g *Generator) emitFunction(fn *ast.FunctionDef, sig *types.FuncSig, classPrefix string) {
	if sig == nil {
		sig = &types.FuncSig{Return: types.TUnknown}
	}
	var funcABI abi.FuncABI
	if classPrefix == "" && g.funcABIs[fn.Name] != nil {
		// reuse the ABI Generate precomputed for every top-level function,
		// so emitCall's call-site lookup and this declaration never diverge.
		funcABI = *g.funcABIs[fn.Name]
	} else {
		funcABI = abi.BuildFuncABI(fn, sig, g.res)
	}
	name := fn.Name
	if classPrefix != "" {
		name = classPrefix + "_" + fn.Name
	}

	retType := zigType(funcABI.Return)
	if funcABI.Fallible {
		retType = "!" + retType
	}

	var params []string
	for _, p := range funcABI.Params {
		if p.IsAllocator {
			params = append(params, p.Name+": std.mem.Allocator")
			continue
		}
		pt := p.Type
		if classPrefix != "" && p.Name == "self" {
			params = append(params, "self: *"+classPrefix)
			continue
		}
		params = append(params, p.Name+": "+zigType(pt))
	}

	g.line("pub fn %s(%s) %s {", name, strings.Join(params, ", "), retType)
	g.indent++
	for _, stmt := range fn.Body {
		g.emitStmt(stmt)
	}
	g.indent--
	g.writeln("}")
	g.writeln("")
}

func (g *Generator) emitStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.FunctionDef:
		g.emitFunction(s, g.res.Funcs[s.Name], "")
	case *ast.Assign:
		val := g.emitExpr(s.Value)
		for _, target := range s.Targets {
			g.line("%s %s = %s;", g.bindingKeyword(target), g.emitTarget(target), val)
		}
	case *ast.AnnAssign:
		if s.Value != nil {
			g.line("%s %s: %s = %s;", g.bindingKeyword(s.Target), g.emitTarget(s.Target), annotationZigType(s.Annotation), g.emitExpr(s.Value))
		}
	case *ast.AugAssign:
		g.line("%s %s= %s;", g.emitTarget(s.Target), augZigOp(s.Op), g.emitExpr(s.Value))
	case *ast.Return:
		if s.Value != nil {
			g.line("return %s;", g.emitExpr(s.Value))
		} else {
			g.writeln("return;")
		}
	case *ast.If:
		g.line("if (%s) {", g.emitExpr(s.Cond))
		g.indent++
		for _, b := range s.Body {
			g.emitStmt(b)
		}
		g.indent--
		if len(s.Orelse) > 0 {
			g.writeln("} else {")
			g.indent++
			for _, b := range s.Orelse {
				g.emitStmt(b)
			}
			g.indent--
		}
		g.writeln("}")
	case *ast.While:
		g.line("while (%s) {", g.emitExpr(s.Cond))
		g.indent++
		for _, b := range s.Body {
			g.emitStmt(b)
		}
		g.indent--
		g.writeln("}")
	case *ast.For:
		g.line("for (%s.items()) |%s| {", g.emitExpr(s.Iter), g.emitTarget(s.Target))
		g.indent++
		for _, b := range s.Body {
			g.emitStmt(b)
		}
		g.indent--
		g.writeln("}")
	case *ast.ExprStmt:
		g.line("_ = %s;", g.emitExpr(s.Value))
	case *ast.Pass:
		g.writeln("{}")
	case *ast.Break:
		g.writeln("break;")
	case *ast.Continue:
		g.writeln("continue;")
	case *ast.Assert:
		g.line("std.debug.assert(%s);", g.emitExpr(s.Test))
	case *ast.Raise:
		if s.Exc != nil {
			g.line("return error.PyzigRaised; // %s", g.emitExpr(s.Exc))
		} else {
			g.writeln("return error.PyzigRaised;")
		}
	case *ast.Try:
		g.writeln("{")
		g.indent++
		for _, b := range s.Body {
			g.emitStmt(b)
		}
		g.indent--
		g.writeln("}")
		for _, h := range s.Handlers {
			g.line("// except %s", h.Name)
			for _, b := range h.Body {
				g.emitStmt(b)
			}
		}
	case *ast.With:
		for _, item := range s.Items {
			g.line("%s %s = %s;", g.bindingKeyword(item.AsName), g.emitExpr(item.AsName), g.emitExpr(item.Context))
		}
		for _, b := range s.Body {
			g.emitStmt(b)
		}
	case *ast.Global, *ast.Nonlocal, *ast.Del, *ast.Import, *ast.ImportFrom:
		// resolved ahead of codegen by internal/semantic and
		// internal/importresolve; nothing to emit.
	default:
		g.line("// unhandled statement: %T", stmt)
	}
}

func (g *Generator) emitTarget(e ast.Expr) string {
	if e == nil {
		return "_"
	}
	return g.emitExpr(e)
}

// bindingKeyword picks "const" or "var" for a freshly-declared local,
// consulting the Mutation Map (spec.md §3). A plain *ast.Name target
// that AnalyzeMutations never saw reassigned, method-mutated, or
// subscript-mutated is immutable for the rest of this scope and gets
// emitted as `const`; anything else (no mutation info available, a
// non-Name target, or known mutation) keeps the conservative `var`.
func (g *Generator) bindingKeyword(target ast.Expr) string {
	if g.mutations == nil {
		return "var"
	}
	name, ok := target.(*ast.Name)
	if !ok {
		return "var"
	}
	li, ok := g.mutations.Locals[name.Id]
	if !ok {
		return "var"
	}
	if li.ReassignCount <= 1 && !li.MutatedByMethod && !li.ElementMutated {
		return "const"
	}
	return "var"
}

func augZigOp(op string) string {
	switch op {
	case "+", "-", "*", "/", "%", "&", "|", "^":
		return op
	case "//":
		return "/"
	default:
		return "+"
	}
}

// annotationZigType maps a source-level type annotation directly to a
// Zig type name, independent of the inferrer's lattice (used for
// AnnAssign statements, where the annotation is authoritative).
func annotationZigType(ann ast.Expr) string {
	name, ok := ann.(*ast.Name)
	if !ok {
		return "pyzig_runtime.PyValue"
	}
	switch name.Id {
	case "int":
		return "i64"
	case "float":
		return "f64"
	case "bool":
		return "bool"
	case "str":
		return "pyzig_runtime.PyString"
	case "None":
		return "void"
	default:
		return "*" + name.Id
	}
}
