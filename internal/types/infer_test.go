package types

import (
	"testing"

	"github.com/sunholo/pyzig/internal/parser"
)

func mustInfer(t *testing.T, src string) *Result {
	t.Helper()
	mod, rep := parser.ParseFile([]byte(src), "test.py")
	if rep != nil {
		t.Fatalf("parse error: %s", rep.Message)
	}
	res, rep := Infer(mod)
	if rep != nil {
		t.Fatalf("infer error: %s", rep.Message)
	}
	return res
}

func TestInferLiteralTypes(t *testing.T) {
	res := mustInfer(t, "x = 1\ny = 1.5\nz = \"hi\"\nw = True\n")
	kinds := map[Kind]bool{}
	for _, ty := range res.ExprTypes {
		kinds[ty.Kind] = true
	}
	for _, want := range []Kind{Int, Float, String, Bool} {
		if !kinds[want] {
			t.Errorf("expected a %v literal type to be recorded", want)
		}
	}
}

func TestInferArithmeticWidensToFloat(t *testing.T) {
	res := mustInfer(t, "def mix(a: int, b: float):\n    return a + b\n")
	sig := res.Funcs["mix"]
	if sig.Return.Kind != Float {
		t.Errorf("mix return = %v, want float", sig.Return)
	}
}

func TestInferFunctionReturnType(t *testing.T) {
	res := mustInfer(t, "def add(a, b):\n    return a + b\n")
	sig, ok := res.Funcs["add"]
	if !ok {
		t.Fatal("expected a signature for add")
	}
	if sig.Return.Kind != Unknown {
		t.Errorf("add return = %v, want unknown (params have no annotation)", sig.Return)
	}
}

func TestInferFunctionReturnTypeWithAnnotations(t *testing.T) {
	res := mustInfer(t, "def add(a: int, b: int):\n    return a + b\n")
	sig := res.Funcs["add"]
	if sig.Return.Kind != Int {
		t.Errorf("add return = %v, want int", sig.Return)
	}
}

func TestInferRecursiveFunctionReachesFixpoint(t *testing.T) {
	res := mustInfer(t, "def fact(n: int):\n    if n <= 1:\n        return 1\n    return n * fact(n - 1)\n")
	sig := res.Funcs["fact"]
	if sig.Return.Kind != Int {
		t.Errorf("fact return = %v, want int", sig.Return)
	}
}

func TestInferListLiteralElementType(t *testing.T) {
	res := mustInfer(t, "xs = [1, 2, 3]\n")
	found := false
	for _, ty := range res.ExprTypes {
		if ty.Kind == ListType && ty.Elem != nil && ty.Elem.Kind == Int {
			found = true
		}
	}
	if !found {
		t.Error("expected a list[int] expression type to be recorded")
	}
}

func TestInferDictLiteralKeyValueTypes(t *testing.T) {
	res := mustInfer(t, "d = {\"a\": 1, \"b\": 2}\n")
	found := false
	for _, ty := range res.ExprTypes {
		if ty.Kind == DictType && ty.Key != nil && ty.Value != nil &&
			ty.Key.Kind == String && ty.Value.Kind == Int {
			found = true
		}
	}
	if !found {
		t.Error("expected a dict[string, int] expression type to be recorded")
	}
}

func TestInferClassFieldTypesFromInit(t *testing.T) {
	res := mustInfer(t, "class Point:\n    def __init__(self, x: int, y: int):\n        self.x = x\n        self.y = y\n")
	info, ok := res.Classes["Point"]
	if !ok {
		t.Fatal("expected Point class info")
	}
	if info.Fields["x"].Kind != Int || info.Fields["y"].Kind != Int {
		t.Errorf("Point fields = %+v, want x:int y:int", info.Fields)
	}
}

func TestInferComparisonIsBool(t *testing.T) {
	res := mustInfer(t, "def check(a, b):\n    return a < b\n")
	sig := res.Funcs["check"]
	if sig.Return.Kind != Bool {
		t.Errorf("check return = %v, want bool", sig.Return)
	}
}

func TestInferBuiltinLenReturnsInt(t *testing.T) {
	res := mustInfer(t, "def size(xs):\n    return len(xs)\n")
	sig := res.Funcs["size"]
	if sig.Return.Kind != Int {
		t.Errorf("size return = %v, want int", sig.Return)
	}
}

func TestInferForLoopBindsElementType(t *testing.T) {
	res := mustInfer(t, "def total(xs: list):\n    acc = 0\n    for x in xs:\n        acc = acc + x\n    return acc\n")
	sig := res.Funcs["total"]
	if sig.Return.Kind != Unknown && sig.Return.Kind != Int {
		t.Errorf("total return = %v, want int or unknown (xs has no element type annotation)", sig.Return)
	}
}

func TestInferMethodCallOnSelfInstance(t *testing.T) {
	res := mustInfer(t, "class Counter:\n    def __init__(self):\n        self.n = 0\n    def value(self):\n        return self.n\n")
	info := res.Classes["Counter"]
	if info.Fields["n"].Kind != Int {
		t.Errorf("Counter.n = %v, want int", info.Fields["n"])
	}
}
