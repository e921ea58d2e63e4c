package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sunholo/pyzig/internal/abi"
	"github.com/sunholo/pyzig/internal/ast"
	"github.com/sunholo/pyzig/internal/registry"
)

// emitExpr lowers expr to a Zig expression string. It never fails —
// anything it doesn't recognize becomes an inline comment marker so a
// partial lowering still produces inspectable output.
func (g *Generator) emitExpr(expr ast.Expr) string {
	if expr == nil {
		return "undefined"
	}
	switch e := expr.(type) {
	case *ast.Constant:
		return g.emitConstant(e)
	case *ast.Name:
		return e.Id
	case *ast.BinOp:
		return fmt.Sprintf("(%s %s %s)", g.emitExpr(e.Left), zigBinOp(e.Op), g.emitExpr(e.Right))
	case *ast.UnaryOp:
		return fmt.Sprintf("(%s%s)", zigUnaryOp(e.Op), g.emitExpr(e.Operand))
	case *ast.BoolOp:
		parts := make([]string, len(e.Values))
		for i, v := range e.Values {
			parts[i] = g.emitExpr(v)
		}
		sep := " and "
		if e.Op == "or" {
			sep = " or "
		}
		return "(" + strings.Join(parts, sep) + ")"
	case *ast.Compare:
		return g.emitCompare(e)
	case *ast.IfExpr:
		return fmt.Sprintf("(if (%s) %s else %s)", g.emitExpr(e.Test), g.emitExpr(e.Body), g.emitExpr(e.Orelse))
	case *ast.ListExpr:
		return g.emitSeqLiteral("pyzig_runtime.makeList", e.Elts)
	case *ast.TupleExpr:
		return g.emitSeqLiteral("pyzig_runtime.makeTuple", e.Elts)
	case *ast.SetExpr:
		return g.emitSeqLiteral("pyzig_runtime.makeSet", e.Elts)
	case *ast.DictExpr:
		var parts []string
		for _, entry := range e.Entries {
			if entry.Key == nil {
				continue
			}
			parts = append(parts, fmt.Sprintf(".{ .key = %s, .value = %s }", g.emitExpr(entry.Key), g.emitExpr(entry.Value)))
		}
		return "pyzig_runtime.makeDict(alloc, &.{ " + strings.Join(parts, ", ") + " })"
	case *ast.ListComp, *ast.SetComp, *ast.DictComp, *ast.GenExp:
		return "/* comprehension lowered to a loop above this expression */"
	case *ast.Call:
		return g.emitCall(e)
	case *ast.Attribute:
		return fmt.Sprintf("%s.%s", g.emitExpr(e.Value), e.Attr)
	case *ast.Subscript:
		if sl, ok := e.Index.(*ast.Slice); ok {
			return g.emitSlice(e.Value, sl)
		}
		return fmt.Sprintf("%s.at(%s)", g.emitExpr(e.Value), g.emitExpr(e.Index))
	case *ast.Starred:
		return g.emitExpr(e.Value)
	case *ast.Lambda:
		return "/* lambda lowered as a hoisted anonymous function */"
	case *ast.FString:
		return g.emitFString(e)
	case *ast.Await:
		return "(try " + g.emitExpr(e.Value) + ")"
	default:
		return fmt.Sprintf("/* unhandled expr %T */", expr)
	}
}

func (g *Generator) emitConstant(c *ast.Constant) string {
	switch c.Kind {
	case ast.ConstInt:
		switch v := c.Value.(type) {
		case int64:
			return strconv.FormatInt(v, 10)
		case string:
			return "pyzig_runtime.bigIntFromDecimal(\"" + v + "\")"
		}
	case ast.ConstFloat:
		if v, ok := c.Value.(float64); ok {
			return strconv.FormatFloat(v, 'g', -1, 64)
		}
	case ast.ConstString:
		if v, ok := c.Value.(string); ok {
			return strconv.Quote(v)
		}
	case ast.ConstBytes:
		if v, ok := c.Value.([]byte); ok {
			return strconv.Quote(string(v))
		}
	case ast.ConstBool:
		if v, ok := c.Value.(bool); ok {
			if v {
				return "true"
			}
			return "false"
		}
	case ast.ConstNone:
		return "null"
	case ast.ConstEllipsis:
		return "{}"
	}
	return "undefined"
}

func zigBinOp(op string) string {
	switch op {
	case "+", "-", "*", "/", "%", "&", "|", "^", "<<", ">>":
		return op
	case "//":
		return "/"
	case "**":
		return "**" // lowered by the runtime's pow helper at a higher level
	default:
		return op
	}
}

func zigUnaryOp(op string) string {
	switch op {
	case "not":
		return "!"
	case "-":
		return "-"
	case "+":
		return ""
	case "~":
		return "~"
	default:
		return ""
	}
}

func (g *Generator) emitCompare(e *ast.Compare) string {
	var parts []string
	left := g.emitExpr(e.Left)
	for i, op := range e.Ops {
		right := g.emitExpr(e.Comparators[i])
		parts = append(parts, fmt.Sprintf("(%s %s %s)", left, zigCompareOp(op), right))
		left = right
	}
	return "(" + strings.Join(parts, " and ") + ")"
}

func zigCompareOp(op string) string {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
		return op
	case "in":
		return "/* in */ =="
	case "not in":
		return "/* not in */ !="
	case "is":
		return "=="
	case "is not":
		return "!="
	default:
		return "=="
	}
}

func (g *Generator) emitSeqLiteral(ctor string, elts []ast.Expr) string {
	parts := make([]string, len(elts))
	for i, el := range elts {
		parts[i] = g.emitExpr(el)
	}
	return ctor + "(alloc, &.{ " + strings.Join(parts, ", ") + " })"
}

func (g *Generator) emitSlice(value ast.Expr, sl *ast.Slice) string {
	lo := "0"
	if sl.Lower != nil {
		lo = g.emitExpr(sl.Lower)
	}
	hi := g.emitExpr(value) + ".len()"
	if sl.Upper != nil {
		hi = g.emitExpr(sl.Upper)
	}
	return fmt.Sprintf("%s.slice(%s, %s)", g.emitExpr(value), lo, hi)
}

func (g *Generator) emitFString(e *ast.FString) string {
	var parts []string
	for _, part := range e.Parts {
		if part.Expr != nil {
			parts = append(parts, g.emitExpr(part.Expr))
		} else {
			parts = append(parts, strconv.Quote(part.Literal))
		}
	}
	return "pyzig_runtime.formatString(alloc, &.{ " + strings.Join(parts, ", ") + " })"
}

// emitCall dispatches a call expression through the same three-table
// priority order the spec gives the backend: builtins first, then
// module functions, then instance methods; anything else falls back to
// a direct user-function call.
func (g *Generator) emitCall(e *ast.Call) string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = g.emitExpr(a)
	}

	switch fn := e.Func.(type) {
	case *ast.Name:
		if entry, ok := registry.Builtins[fn.Id]; ok {
			callArgs := args
			if entry.NeedsAllocator {
				callArgs = append([]string{"alloc"}, callArgs...)
			}
			return entry.ZigSymbol + "(" + strings.Join(callArgs, ", ") + ")"
		}
		callArgs := args
		if callee, ok := g.funcABIs[fn.Id]; ok && callee.NeedsAllocator {
			// propagate the allocator parameter when the callee's own ABI
			// (spec.md §4.7 item 5) says it needs one, matching the
			// parameter emitFunction declared for it.
			callArgs = append([]string{abi.AllocatorParamName}, callArgs...)
		}
		return fn.Id + "(" + strings.Join(callArgs, ", ") + ")"
	case *ast.Attribute:
		recvModule, isModule := fn.Value.(*ast.Name)
		if isModule {
			if modFn, ok := registry.LookupModuleFunc(recvModule.Id, fn.Attr); ok {
				callArgs := args
				if modFn.NeedsAllocator {
					callArgs = append([]string{"alloc"}, callArgs...)
				}
				return modFn.ZigSymbol + "(" + strings.Join(callArgs, ", ") + ")"
			}
		}
		recv := g.emitExpr(fn.Value)
		callArgs := append([]string{recv}, args...)
		if method := lookupMethodByName(fn.Attr); method != nil {
			if method.NeedsAllocator {
				callArgs = append([]string{"alloc"}, callArgs...)
			}
			return method.ZigSymbol + "(" + strings.Join(callArgs, ", ") + ")"
		}
		return recv + "." + fn.Attr + "(" + strings.Join(args, ", ") + ")"
	default:
		return g.emitExpr(e.Func) + "(" + strings.Join(args, ", ") + ")"
	}
}

// lookupMethodByName scans the method table for the first entry with
// this method name, used when the receiver's static type wasn't
// resolved precisely enough to key the "type.method" lookup directly.
func lookupMethodByName(method string) *registry.MethodEntry {
	for _, m := range registry.Methods {
		if m.Method == method {
			return m
		}
	}
	return nil
}
