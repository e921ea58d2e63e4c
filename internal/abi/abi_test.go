package abi

import (
	"testing"

	"github.com/sunholo/pyzig/internal/ast"
	"github.com/sunholo/pyzig/internal/parser"
	"github.com/sunholo/pyzig/internal/types"
)

func parseFunc(t *testing.T, src string) *ast.FunctionDef {
	t.Helper()
	mod, rep := parser.ParseFile([]byte(src), "test.py")
	if rep != nil {
		t.Fatalf("parse error: %s", rep.Message)
	}
	fn, ok := mod.Body[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("expected a function def, got %T", mod.Body[0])
	}
	return fn
}

// parseAndInfer parses src (whose first top-level statement must be a
// function def) and type-infers the whole module, returning both the
// function and the inferred Result so RequiresAllocator/BuildFuncABI can
// be exercised against real per-expression types instead of a nil Result.
func parseAndInfer(t *testing.T, src string) (*ast.FunctionDef, *types.Result) {
	t.Helper()
	mod, rep := parser.ParseFile([]byte(src), "test.py")
	if rep != nil {
		t.Fatalf("parse error: %s", rep.Message)
	}
	res, rep := types.Infer(mod)
	if rep != nil {
		t.Fatalf("infer error: %s", rep.Message)
	}
	fn, ok := mod.Body[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("expected a function def, got %T", mod.Body[0])
	}
	return fn, res
}

func TestRequiresAllocatorForListLiteral(t *testing.T) {
	fn := parseFunc(t, "def f():\n    return [1, 2, 3]\n")
	if !RequiresAllocator(fn.Body, nil) {
		t.Error("expected building a list literal to require an allocator")
	}
}

func TestRequiresAllocatorForStringConcat(t *testing.T) {
	fn, res := parseAndInfer(t, "def f(a: str, b: str):\n    return a + b\n")
	if !RequiresAllocator(fn.Body, res) {
		t.Error("expected a string '+' binop to require an allocator")
	}
}

func TestRequiresAllocatorFalseForIntArithmetic(t *testing.T) {
	fn, res := parseAndInfer(t, "def fib(n: int):\n    return 1 if n <= 1 else fib(n - 1) + fib(n - 2)\n")
	if RequiresAllocator(fn.Body, res) {
		t.Error("expected a direct, allocator-free recursive int '+' to need no allocator")
	}
}

func TestRequiresAllocatorFalseForPureScalarReturn(t *testing.T) {
	fn := parseFunc(t, "def f(a, b):\n    return a\n")
	if RequiresAllocator(fn.Body, nil) {
		t.Error("expected a bare return to need no allocator")
	}
}

func TestIsFallibleForDivision(t *testing.T) {
	fn := parseFunc(t, "def f(a, b):\n    return a / b\n")
	if !IsFallible(fn.Body) {
		t.Error("expected division to be fallible")
	}
}

func TestIsFallibleForRaise(t *testing.T) {
	fn := parseFunc(t, "def f():\n    raise ValueError(\"bad\")\n")
	if !IsFallible(fn.Body) {
		t.Error("expected an explicit raise to be fallible")
	}
}

func TestIsFallibleFalseForSimpleArithmetic(t *testing.T) {
	fn := parseFunc(t, "def f(a, b):\n    return a + b\n")
	if IsFallible(fn.Body) {
		t.Error("expected plain addition to be infallible")
	}
}

func TestIsFallibleForSubscript(t *testing.T) {
	fn := parseFunc(t, "def f(xs):\n    return xs[0]\n")
	if !IsFallible(fn.Body) {
		t.Error("expected subscripting to be fallible (index errors)")
	}
}

func TestTryBlockSuppressesInnerFallibility(t *testing.T) {
	fn := parseFunc(t, "def f(a, b):\n    try:\n        return a / b\n    except Exception as e:\n        return 0\n")
	if IsFallible(fn.Body) {
		t.Error("expected a try/except around the only fallible op to suppress it")
	}
}

func TestBuildFuncABIThreadsAllocatorFirst(t *testing.T) {
	fn := parseFunc(t, "def f(a):\n    return [a]\n")
	sig := &types.FuncSig{Params: []types.Type{types.TInt}, Return: types.List(types.TInt)}
	a := BuildFuncABI(fn, sig, nil)
	if !a.NeedsAllocator {
		t.Fatal("expected NeedsAllocator to be true")
	}
	if len(a.Params) != 2 || !a.Params[0].IsAllocator || a.Params[0].Name != AllocatorParamName {
		t.Errorf("Params = %+v, want allocator first then 'a'", a.Params)
	}
	if a.Params[1].Name != "a" {
		t.Errorf("Params[1].Name = %q, want a", a.Params[1].Name)
	}
}

func TestBuildFuncABINoAllocatorForIntArithmetic(t *testing.T) {
	fn, res := parseAndInfer(t, "def fib(n: int):\n    return 1 if n <= 1 else fib(n - 1) + fib(n - 2)\n")
	sig := res.Funcs["fib"]
	a := BuildFuncABI(fn, sig, res)
	if a.NeedsAllocator {
		t.Fatal("expected a direct, allocator-free recursive call to need no allocator parameter")
	}
	if len(a.Params) != 1 || a.Params[0].IsAllocator {
		t.Errorf("Params = %+v, want just 'n', no allocator", a.Params)
	}
}

func TestResultTypeNameFormatting(t *testing.T) {
	if got := ResultTypeName("i64"); got != "PyzigResult(i64)" {
		t.Errorf("got %q", got)
	}
}
