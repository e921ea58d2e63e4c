package semantic

import (
	"testing"

	"github.com/sunholo/pyzig/internal/parser"
)

func analyzeSrc(t *testing.T, src string) string {
	t.Helper()
	mod, rep := parser.ParseFile([]byte(src), "test.py")
	if rep != nil {
		t.Fatalf("parse error: %s", rep.Message)
	}
	if rep := Analyze(mod); rep != nil {
		return rep.Code
	}
	return ""
}

func TestAnalyzeCleanModule(t *testing.T) {
	if code := analyzeSrc(t, "x = 1\ny = x + 1\nprint(y)\n"); code != "" {
		t.Errorf("expected no error, got %s", code)
	}
}

func TestUndefinedNameRejected(t *testing.T) {
	if code := analyzeSrc(t, "print(undefined_name)\n"); code != "SEM001" {
		t.Errorf("code = %q, want SEM001", code)
	}
}

func TestForwardReferenceToLaterFunctionAllowed(t *testing.T) {
	src := "def a():\n    return b()\ndef b():\n    return 1\n"
	if code := analyzeSrc(t, src); code != "" {
		t.Errorf("expected forward reference to resolve, got %s", code)
	}
}

func TestMutualRecursionAllowed(t *testing.T) {
	src := "def is_even(n):\n    if n == 0:\n        return True\n    return is_odd(n - 1)\ndef is_odd(n):\n    if n == 0:\n        return False\n    return is_even(n - 1)\n"
	if code := analyzeSrc(t, src); code != "" {
		t.Errorf("expected mutual recursion to resolve, got %s", code)
	}
}

func TestInheritanceCycleRejected(t *testing.T) {
	src := "class A(B):\n    pass\nclass B(A):\n    pass\n"
	if code := analyzeSrc(t, src); code != "SEM002" {
		t.Errorf("code = %q, want SEM002", code)
	}
}

func TestSelfInheritanceRejected(t *testing.T) {
	src := "class A(A):\n    pass\n"
	if code := analyzeSrc(t, src); code != "SEM002" {
		t.Errorf("code = %q, want SEM002", code)
	}
}

func TestGlobalAfterLocalUseRejected(t *testing.T) {
	src := "x = 1\ndef f():\n    x = 2\n    global x\n    return x\n"
	if code := analyzeSrc(t, src); code != "SEM003" {
		t.Errorf("code = %q, want SEM003", code)
	}
}

func TestGlobalDeclaredFirstAllowed(t *testing.T) {
	src := "x = 1\ndef f():\n    global x\n    x = 2\n    return x\n"
	if code := analyzeSrc(t, src); code != "" {
		t.Errorf("expected no error, got %s", code)
	}
}

func TestNonlocalWithoutEnclosingFunctionRejected(t *testing.T) {
	src := "def f():\n    nonlocal y\n    return y\n"
	if code := analyzeSrc(t, src); code != "SEM004" {
		t.Errorf("code = %q, want SEM004", code)
	}
}

func TestNonlocalWithEnclosingFunctionAllowed(t *testing.T) {
	src := "def outer():\n    y = 1\n    def inner():\n        nonlocal y\n        y = 2\n        return y\n    return inner()\n"
	if code := analyzeSrc(t, src); code != "" {
		t.Errorf("expected no error, got %s", code)
	}
}

func TestDuplicateMethodDefinitionRejected(t *testing.T) {
	src := "class C:\n    def f(self):\n        return 1\n    def f(self):\n        return 2\n"
	if code := analyzeSrc(t, src); code != "SEM005" {
		t.Errorf("code = %q, want SEM005", code)
	}
}

func TestSelfAndClsAlwaysResolve(t *testing.T) {
	src := "class C:\n    def f(self):\n        return self.x\n"
	if code := analyzeSrc(t, src); code != "" {
		t.Errorf("expected self to resolve without error, got %s", code)
	}
}

func TestComprehensionTargetScopedToClause(t *testing.T) {
	src := "xs = [1, 2, 3]\nys = [x * 2 for x in xs]\n"
	if code := analyzeSrc(t, src); code != "" {
		t.Errorf("expected comprehension target to resolve, got %s", code)
	}
}

func TestLambdaParamsScoped(t *testing.T) {
	src := "f = lambda a, b: a + b\n"
	if code := analyzeSrc(t, src); code != "" {
		t.Errorf("expected lambda params to resolve, got %s", code)
	}
}

func TestExceptHandlerNameBound(t *testing.T) {
	src := "try:\n    pass\nexcept Exception as e:\n    print(e)\n"
	if code := analyzeSrc(t, src); code != "" {
		t.Errorf("expected except-handler name to resolve, got %s", code)
	}
}
