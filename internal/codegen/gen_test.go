package codegen

import (
	"strings"
	"testing"

	"github.com/sunholo/pyzig/internal/parser"
	"github.com/sunholo/pyzig/internal/semantic"
	"github.com/sunholo/pyzig/internal/types"
)

func generateSrc(t *testing.T, src string) string {
	t.Helper()
	mod, rep := parser.ParseFile([]byte(src), "test.py")
	if rep != nil {
		t.Fatalf("parse error: %s", rep.Message)
	}
	res, rep := types.Infer(mod)
	if rep != nil {
		t.Fatalf("infer error: %s", rep.Message)
	}
	out, rep := Generate(mod, res, semantic.AnalyzeMutations(mod))
	if rep != nil {
		t.Fatalf("codegen error: %s", rep.Message)
	}
	return out
}

func TestGenerateEmitsRuntimeImport(t *testing.T) {
	out := generateSrc(t, "x = 1\n")
	if !strings.Contains(out, `@import("pyzig_runtime")`) {
		t.Error("expected generated source to import the runtime package")
	}
}

func TestGenerateFunctionSignature(t *testing.T) {
	out := generateSrc(t, "def add(a: int, b: int):\n    return a + b\n")
	if !strings.Contains(out, "pub fn add(a: i64, b: i64) i64 {") {
		t.Errorf("generated source missing expected signature:\n%s", out)
	}
}

func TestGenerateFallibleFunctionReturnsUnion(t *testing.T) {
	out := generateSrc(t, "def div(a: int, b: int):\n    return a / b\n")
	if !strings.Contains(out, "!f64") {
		t.Errorf("expected a fallible division to return an error-union type:\n%s", out)
	}
}

func TestGenerateListLiteralAllocates(t *testing.T) {
	out := generateSrc(t, "def f():\n    return [1, 2, 3]\n")
	if !strings.Contains(out, "alloc: std.mem.Allocator") {
		t.Errorf("expected list-building function to take an allocator:\n%s", out)
	}
	if !strings.Contains(out, "pyzig_runtime.makeList(alloc") {
		t.Errorf("expected a makeList call:\n%s", out)
	}
}

func TestGenerateBuiltinCallDispatchesToRegistry(t *testing.T) {
	out := generateSrc(t, "def f(xs):\n    return len(xs)\n")
	if !strings.Contains(out, "pyzig_len(xs)") {
		t.Errorf("expected len(xs) to lower to the registry's ZigSymbol:\n%s", out)
	}
}

func TestGenerateClassStruct(t *testing.T) {
	out := generateSrc(t, "class Point:\n    def __init__(self, x: int, y: int):\n        self.x = x\n        self.y = y\n")
	if !strings.Contains(out, "pub const Point = struct {") {
		t.Errorf("expected a Point struct:\n%s", out)
	}
}

func TestGenerateNeverReassignedLocalIsConst(t *testing.T) {
	out := generateSrc(t, "x = 1\nprint(x)\n")
	if !strings.Contains(out, "const x = 1;") {
		t.Errorf("expected a never-reassigned local to be emitted as const:\n%s", out)
	}
}

func TestGenerateReassignedLocalStaysVar(t *testing.T) {
	out := generateSrc(t, "x = 1\nx = 2\nprint(x)\n")
	if !strings.Contains(out, "var x = 2;") {
		t.Errorf("expected a reassigned local to stay var:\n%s", out)
	}
}

func TestGenerateMethodMutatedLocalStaysVar(t *testing.T) {
	out := generateSrc(t, "nums = [1, 2]\nnums.append(3)\n")
	if !strings.Contains(out, "var nums = ") {
		t.Errorf("expected a method-mutated local to stay var:\n%s", out)
	}
}

func TestGenerateWithBindingRespectsMutation(t *testing.T) {
	out := generateSrc(t, "with open('f') as fh:\n    pass\n")
	if !strings.Contains(out, "const fh = ") {
		t.Errorf("expected an unreassigned with-binding to be const:\n%s", out)
	}
}
