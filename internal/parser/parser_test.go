package parser

import (
	"testing"

	"github.com/sunholo/pyzig/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.Module {
	t.Helper()
	mod, rep := ParseFile([]byte(src), "test.py")
	if rep != nil {
		t.Fatalf("ParseFile(%q) failed: %s", src, rep.Message)
	}
	return mod
}

func mustFail(t *testing.T, src string) string {
	t.Helper()
	_, rep := ParseFile([]byte(src), "test.py")
	if rep == nil {
		t.Fatalf("ParseFile(%q) succeeded, want error", src)
	}
	return rep.Code
}

func TestParseSimpleAssignment(t *testing.T) {
	mod := mustParse(t, "x = 1\n")
	if len(mod.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(mod.Body))
	}
	assign, ok := mod.Body[0].(*ast.Assign)
	if !ok {
		t.Fatalf("expected *ast.Assign, got %T", mod.Body[0])
	}
	if name, ok := assign.Targets[0].(*ast.Name); !ok || name.Id != "x" {
		t.Errorf("unexpected target: %#v", assign.Targets[0])
	}
}

func TestParseAnnAssign(t *testing.T) {
	mod := mustParse(t, "count: int = 0\n")
	node, ok := mod.Body[0].(*ast.AnnAssign)
	if !ok {
		t.Fatalf("expected *ast.AnnAssign, got %T", mod.Body[0])
	}
	if node.Value == nil {
		t.Error("expected a value")
	}
}

func TestParseAugAssign(t *testing.T) {
	mod := mustParse(t, "total += 1\n")
	node, ok := mod.Body[0].(*ast.AugAssign)
	if !ok {
		t.Fatalf("expected *ast.AugAssign, got %T", mod.Body[0])
	}
	if node.Op != "+" {
		t.Errorf("op = %q, want +", node.Op)
	}
}

func TestParseFunctionDef(t *testing.T) {
	src := "def add(a: int, b: int = 1) -> int:\n    return a + b\n"
	mod := mustParse(t, src)
	fn, ok := mod.Body[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("expected *ast.FunctionDef, got %T", mod.Body[0])
	}
	if fn.Name != "add" {
		t.Errorf("name = %q, want add", fn.Name)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if fn.Params[1].Default == nil {
		t.Error("expected default value on second param")
	}
	if fn.ReturnType == nil {
		t.Error("expected a return type annotation")
	}
	if len(fn.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body))
	}
	ret, ok := fn.Body[0].(*ast.Return)
	if !ok {
		t.Fatalf("expected *ast.Return, got %T", fn.Body[0])
	}
	if _, ok := ret.Value.(*ast.BinOp); !ok {
		t.Errorf("expected BinOp return value, got %T", ret.Value)
	}
}

func TestParseClassDef(t *testing.T) {
	src := "class Point(object):\n    def __init__(self, x):\n        self.x = x\n"
	mod := mustParse(t, src)
	cls, ok := mod.Body[0].(*ast.ClassDef)
	if !ok {
		t.Fatalf("expected *ast.ClassDef, got %T", mod.Body[0])
	}
	if cls.Name != "Point" {
		t.Errorf("name = %q, want Point", cls.Name)
	}
	if len(cls.Bases) != 1 {
		t.Fatalf("expected 1 base, got %d", len(cls.Bases))
	}
	if len(cls.Body) != 1 {
		t.Fatalf("expected 1 method, got %d", len(cls.Body))
	}
}

func TestParseMultipleInheritanceRejected(t *testing.T) {
	code := mustFail(t, "class C(A, B):\n    pass\n")
	if code != "UNS003" {
		t.Errorf("code = %s, want UNS003", code)
	}
}

func TestParseIfElifElse(t *testing.T) {
	src := "if a:\n    x = 1\nelif b:\n    x = 2\nelse:\n    x = 3\n"
	mod := mustParse(t, src)
	top, ok := mod.Body[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", mod.Body[0])
	}
	if len(top.Orelse) != 1 {
		t.Fatalf("expected elif to nest as single orelse stmt, got %d", len(top.Orelse))
	}
	elif, ok := top.Orelse[0].(*ast.If)
	if !ok {
		t.Fatalf("expected nested *ast.If for elif, got %T", top.Orelse[0])
	}
	if len(elif.Orelse) != 1 {
		t.Fatalf("expected else body, got %d stmts", len(elif.Orelse))
	}
}

func TestParseWhileElse(t *testing.T) {
	src := "while x:\n    x -= 1\nelse:\n    done = True\n"
	mod := mustParse(t, src)
	w, ok := mod.Body[0].(*ast.While)
	if !ok {
		t.Fatalf("expected *ast.While, got %T", mod.Body[0])
	}
	if len(w.Orelse) != 1 {
		t.Errorf("expected while-else body")
	}
}

func TestParseForLoopWithTuple(t *testing.T) {
	src := "for k, v in items:\n    pass\n"
	mod := mustParse(t, src)
	f, ok := mod.Body[0].(*ast.For)
	if !ok {
		t.Fatalf("expected *ast.For, got %T", mod.Body[0])
	}
	if _, ok := f.Target.(*ast.TupleExpr); !ok {
		t.Errorf("expected tuple target, got %T", f.Target)
	}
}

func TestParseTryExceptFinally(t *testing.T) {
	src := "try:\n    risky()\nexcept ValueError as e:\n    handle(e)\nfinally:\n    cleanup()\n"
	mod := mustParse(t, src)
	tr, ok := mod.Body[0].(*ast.Try)
	if !ok {
		t.Fatalf("expected *ast.Try, got %T", mod.Body[0])
	}
	if len(tr.Handlers) != 1 {
		t.Fatalf("expected 1 handler, got %d", len(tr.Handlers))
	}
	if tr.Handlers[0].Name != "e" {
		t.Errorf("handler name = %q, want e", tr.Handlers[0].Name)
	}
	if len(tr.Finally) != 1 {
		t.Errorf("expected finally body")
	}
}

func TestParseWithStatement(t *testing.T) {
	src := "with open(path) as f:\n    read(f)\n"
	mod := mustParse(t, src)
	w, ok := mod.Body[0].(*ast.With)
	if !ok {
		t.Fatalf("expected *ast.With, got %T", mod.Body[0])
	}
	if len(w.Items) != 1 || w.Items[0].AsName == nil {
		t.Errorf("expected one with-item with an as-name")
	}
}

func TestParseImportForms(t *testing.T) {
	mod := mustParse(t, "import os.path as p\nfrom . import sibling\nfrom pkg import a, b as c\n")
	imp, ok := mod.Body[0].(*ast.Import)
	if !ok {
		t.Fatalf("expected *ast.Import, got %T", mod.Body[0])
	}
	if imp.Names[0].Name != "os.path" || imp.Names[0].AsName != "p" {
		t.Errorf("unexpected import alias: %#v", imp.Names[0])
	}
	rel, ok := mod.Body[1].(*ast.ImportFrom)
	if !ok {
		t.Fatalf("expected *ast.ImportFrom, got %T", mod.Body[1])
	}
	if rel.Level != 1 {
		t.Errorf("level = %d, want 1", rel.Level)
	}
	from, ok := mod.Body[2].(*ast.ImportFrom)
	if !ok {
		t.Fatalf("expected *ast.ImportFrom, got %T", mod.Body[2])
	}
	if from.Module != "pkg" || len(from.Names) != 2 || from.Names[1].AsName != "c" {
		t.Errorf("unexpected import-from: %#v", from)
	}
}

func TestParseGlobalNonlocalDel(t *testing.T) {
	mod := mustParse(t, "global x, y\n")
	g, ok := mod.Body[0].(*ast.Global)
	if !ok || len(g.Names) != 2 {
		t.Fatalf("expected global x, y, got %#v", mod.Body[0])
	}

	mod = mustParse(t, "del a, b\n")
	d, ok := mod.Body[0].(*ast.Del)
	if !ok || len(d.Targets) != 2 {
		t.Fatalf("expected del a, b, got %#v", mod.Body[0])
	}
}

func TestParseRaiseFrom(t *testing.T) {
	mod := mustParse(t, "raise ValueError('bad') from err\n")
	r, ok := mod.Body[0].(*ast.Raise)
	if !ok {
		t.Fatalf("expected *ast.Raise, got %T", mod.Body[0])
	}
	if r.Exc == nil || r.Cause == nil {
		t.Errorf("expected both exc and cause set")
	}
}

func TestParseAssertWithMessage(t *testing.T) {
	mod := mustParse(t, "assert x > 0, 'must be positive'\n")
	a, ok := mod.Body[0].(*ast.Assert)
	if !ok || a.Msg == nil {
		t.Fatalf("expected assert with message, got %#v", mod.Body[0])
	}
}

func TestChainedAssignment(t *testing.T) {
	mod := mustParse(t, "a = b = 1\n")
	assign, ok := mod.Body[0].(*ast.Assign)
	if !ok {
		t.Fatalf("expected *ast.Assign, got %T", mod.Body[0])
	}
	if len(assign.Targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(assign.Targets))
	}
	if a, ok := assign.Targets[0].(*ast.Name); !ok || a.Id != "a" {
		t.Errorf("target 0 = %#v, want Name a", assign.Targets[0])
	}
	if b, ok := assign.Targets[1].(*ast.Name); !ok || b.Id != "b" {
		t.Errorf("target 1 = %#v, want Name b", assign.Targets[1])
	}
	if c, ok := assign.Value.(*ast.Constant); !ok || c.Value != int64(1) {
		t.Errorf("value = %#v, want Constant(1)", assign.Value)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	mod := mustParse(t, "x = 1 + 2 * 3\n")
	assign := mod.Body[0].(*ast.Assign)
	bin := assign.Value.(*ast.BinOp)
	if bin.Op != "+" {
		t.Fatalf("top-level op = %q, want +", bin.Op)
	}
	right, ok := bin.Right.(*ast.BinOp)
	if !ok || right.Op != "*" {
		t.Errorf("expected * nested on the right, got %#v", bin.Right)
	}
}

func TestPowerIsRightAssociative(t *testing.T) {
	mod := mustParse(t, "x = 2 ** 3 ** 2\n")
	assign := mod.Body[0].(*ast.Assign)
	bin := assign.Value.(*ast.BinOp)
	if bin.Op != "**" {
		t.Fatalf("top-level op = %q, want **", bin.Op)
	}
	if _, ok := bin.Right.(*ast.BinOp); !ok {
		t.Errorf("expected ** right-nested, got %#v", bin.Right)
	}
	if _, ok := bin.Left.(*ast.Constant); !ok {
		t.Errorf("expected plain constant on the left, got %#v", bin.Left)
	}
}

func TestChainedComparison(t *testing.T) {
	mod := mustParse(t, "ok = 1 < x <= 10\n")
	assign := mod.Body[0].(*ast.Assign)
	cmp, ok := assign.Value.(*ast.Compare)
	if !ok {
		t.Fatalf("expected *ast.Compare, got %T", assign.Value)
	}
	if len(cmp.Ops) != 2 || cmp.Ops[0] != "<" || cmp.Ops[1] != "<=" {
		t.Errorf("unexpected ops: %v", cmp.Ops)
	}
}

func TestNotInOperator(t *testing.T) {
	mod := mustParse(t, "ok = x not in items\n")
	assign := mod.Body[0].(*ast.Assign)
	cmp, ok := assign.Value.(*ast.Compare)
	if !ok || cmp.Ops[0] != "not in" {
		t.Fatalf("expected `not in` compare, got %#v", assign.Value)
	}
}

func TestBoolOpFlattensChain(t *testing.T) {
	mod := mustParse(t, "ok = a and b and c\n")
	assign := mod.Body[0].(*ast.Assign)
	bo, ok := assign.Value.(*ast.BoolOp)
	if !ok {
		t.Fatalf("expected *ast.BoolOp, got %T", assign.Value)
	}
	if len(bo.Values) != 3 {
		t.Errorf("expected 3 flattened values, got %d", len(bo.Values))
	}
}

func TestTernaryExpression(t *testing.T) {
	mod := mustParse(t, "x = a if cond else b\n")
	assign := mod.Body[0].(*ast.Assign)
	if _, ok := assign.Value.(*ast.IfExpr); !ok {
		t.Fatalf("expected *ast.IfExpr, got %T", assign.Value)
	}
}

func TestLambdaExpression(t *testing.T) {
	mod := mustParse(t, "f = lambda x, y=1: x + y\n")
	assign := mod.Body[0].(*ast.Assign)
	lam, ok := assign.Value.(*ast.Lambda)
	if !ok {
		t.Fatalf("expected *ast.Lambda, got %T", assign.Value)
	}
	if len(lam.Params) != 2 || lam.Params[1].Default == nil {
		t.Errorf("unexpected lambda params: %#v", lam.Params)
	}
}

func TestCallWithArgsAndKeywords(t *testing.T) {
	mod := mustParse(t, "f(1, 2, key=3, *rest, **extra)\n")
	stmt := mod.Body[0].(*ast.ExprStmt)
	call, ok := stmt.Value.(*ast.Call)
	if !ok {
		t.Fatalf("expected *ast.Call, got %T", stmt.Value)
	}
	if len(call.Args) != 2 {
		t.Errorf("expected 2 positional args, got %d", len(call.Args))
	}
	if call.StarArgs == nil {
		t.Error("expected *rest to populate StarArgs")
	}
	if len(call.Keywords) != 2 {
		t.Errorf("expected 2 keyword entries (key= and **extra), got %d", len(call.Keywords))
	}
}

func TestSubscriptAndSlice(t *testing.T) {
	mod := mustParse(t, "y = x[1:10:2]\n")
	assign := mod.Body[0].(*ast.Assign)
	sub, ok := assign.Value.(*ast.Subscript)
	if !ok {
		t.Fatalf("expected *ast.Subscript, got %T", assign.Value)
	}
	sl, ok := sub.Index.(*ast.Slice)
	if !ok {
		t.Fatalf("expected *ast.Slice index, got %T", sub.Index)
	}
	if sl.Lower == nil || sl.Upper == nil || sl.Step == nil {
		t.Errorf("expected all three slice parts set: %#v", sl)
	}
}

func TestAttributeChain(t *testing.T) {
	mod := mustParse(t, "y = a.b.c\n")
	assign := mod.Body[0].(*ast.Assign)
	attr, ok := assign.Value.(*ast.Attribute)
	if !ok || attr.Attr != "c" {
		t.Fatalf("expected outer attr c, got %#v", assign.Value)
	}
	if inner, ok := attr.Value.(*ast.Attribute); !ok || inner.Attr != "b" {
		t.Errorf("expected nested attr b, got %#v", attr.Value)
	}
}

func TestListDictSetLiterals(t *testing.T) {
	mod := mustParse(t, "a = [1, 2, 3]\nb = {1, 2}\nc = {'k': 1, 'j': 2}\n")
	if _, ok := mod.Body[0].(*ast.Assign).Value.(*ast.ListExpr); !ok {
		t.Errorf("expected list literal")
	}
	if _, ok := mod.Body[1].(*ast.Assign).Value.(*ast.SetExpr); !ok {
		t.Errorf("expected set literal")
	}
	dict, ok := mod.Body[2].(*ast.Assign).Value.(*ast.DictExpr)
	if !ok || len(dict.Entries) != 2 {
		t.Errorf("expected dict literal with 2 entries, got %#v", mod.Body[2])
	}
}

func TestListComprehension(t *testing.T) {
	mod := mustParse(t, "a = [x * 2 for x in nums if x > 0]\n")
	lc, ok := mod.Body[0].(*ast.Assign).Value.(*ast.ListComp)
	if !ok {
		t.Fatalf("expected *ast.ListComp, got %T", mod.Body[0].(*ast.Assign).Value)
	}
	if len(lc.Clauses) != 1 || len(lc.Clauses[0].Ifs) != 1 {
		t.Errorf("unexpected comprehension clauses: %#v", lc.Clauses)
	}
}

func TestDictComprehension(t *testing.T) {
	mod := mustParse(t, "d = {k: v for k, v in pairs}\n")
	dc, ok := mod.Body[0].(*ast.Assign).Value.(*ast.DictComp)
	if !ok {
		t.Fatalf("expected *ast.DictComp, got %T", mod.Body[0].(*ast.Assign).Value)
	}
	if len(dc.Clauses) != 1 {
		t.Errorf("expected 1 clause, got %d", len(dc.Clauses))
	}
}

func TestGeneratorExpressionInCall(t *testing.T) {
	mod := mustParse(t, "total = sum(x for x in nums)\n")
	call := mod.Body[0].(*ast.Assign).Value.(*ast.Call)
	if len(call.Args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(call.Args))
	}
	if _, ok := call.Args[0].(*ast.GenExp); !ok {
		t.Errorf("expected *ast.GenExp arg, got %T", call.Args[0])
	}
}

func TestFStringParts(t *testing.T) {
	mod := mustParse(t, "s = f'total={a + b}!'\n")
	fs, ok := mod.Body[0].(*ast.Assign).Value.(*ast.FString)
	if !ok {
		t.Fatalf("expected *ast.FString, got %T", mod.Body[0].(*ast.Assign).Value)
	}
	if len(fs.Parts) != 3 {
		t.Fatalf("expected 3 parts (literal, expr, literal), got %d: %#v", len(fs.Parts), fs.Parts)
	}
	if fs.Parts[1].Expr == nil {
		t.Errorf("expected part 1 to be an expression")
	}
}

func TestAwaitExpression(t *testing.T) {
	mod := mustParse(t, "async def f():\n    x = await g()\n")
	fn := mod.Body[0].(*ast.FunctionDef)
	if !fn.IsAsync {
		t.Error("expected IsAsync true")
	}
	assign := fn.Body[0].(*ast.Assign)
	if _, ok := assign.Value.(*ast.Await); !ok {
		t.Errorf("expected *ast.Await, got %T", assign.Value)
	}
}

func TestDecoratedFunction(t *testing.T) {
	mod := mustParse(t, "@cache\ndef f(x):\n    return x\n")
	fn, ok := mod.Body[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("expected *ast.FunctionDef, got %T", mod.Body[0])
	}
	if len(fn.Decorators) != 1 {
		t.Errorf("expected 1 decorator, got %d", len(fn.Decorators))
	}
}

func TestSingleLineSuite(t *testing.T) {
	mod := mustParse(t, "if x: y = 1\n")
	ifs, ok := mod.Body[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", mod.Body[0])
	}
	if len(ifs.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(ifs.Body))
	}
}

func TestMissingColonIsParseError(t *testing.T) {
	code := mustFail(t, "if x\n    y = 1\n")
	if code != "PAR001" {
		t.Errorf("code = %s, want PAR001", code)
	}
}

func TestYieldFromRejected(t *testing.T) {
	code := mustFail(t, "def g():\n    yield from inner()\n")
	if code != "UNS001" {
		t.Errorf("code = %s, want UNS001", code)
	}
}

func TestUnexpectedTokenInExpression(t *testing.T) {
	code := mustFail(t, "x = * \n")
	_ = code // parseStarred finds NEWLINE where its operand should be and fails with PAR002; mustFail asserts the failure.
}
