package ast

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func contains(haystack, needle string) bool { return strings.Contains(haystack, needle) }

func TestPrint_FunctionDef(t *testing.T) {
	fn := &FunctionDef{
		Name: "add",
		Params: []*Param{
			{Name: "a", Annotation: &Name{Id: "int"}},
			{Name: "b", Annotation: &Name{Id: "int"}},
		},
		ReturnType: &Name{Id: "int"},
		Body: []Stmt{
			&Return{Value: &BinOp{Left: &Name{Id: "a"}, Op: "+", Right: &Name{Id: "b"}}},
		},
	}

	out := Print(fn)
	if !contains(out, "FunctionDef") {
		t.Errorf("missing FunctionDef tag: %s", out)
	}
	if !contains(out, `"add"`) {
		t.Errorf("missing function name: %s", out)
	}
}

func TestPrint_IsDeterministicAcrossPositions(t *testing.T) {
	a := &Assign{
		Targets: []Expr{&Name{Id: "x", Pos: Pos{Line: 1, Column: 0}}},
		Value:   &Constant{Kind: ConstInt, Value: int64(1), Pos: Pos{Line: 1, Column: 4}},
	}
	b := &Assign{
		Targets: []Expr{&Name{Id: "x", Pos: Pos{Line: 99, Column: 12}}},
		Value:   &Constant{Kind: ConstInt, Value: int64(1), Pos: Pos{Line: 99, Column: 40}},
	}

	if diff := cmp.Diff(Print(a), Print(b)); diff != "" {
		t.Errorf("Print should ignore source position (-a +b):\n%s", diff)
	}
}

func TestPrint_ListComp(t *testing.T) {
	lc := &ListComp{
		Elt: &Name{Id: "x"},
		Clauses: []CompClause{
			{
				Target: &Name{Id: "x"},
				Iter:   &Name{Id: "nums"},
				Ifs:    []Expr{&Compare{Left: &Name{Id: "x"}, Ops: []string{">"}, Comparators: []Expr{&Constant{Kind: ConstInt, Value: int64(2)}}}},
			},
		},
	}
	out := Print(lc)
	if !contains(out, "ListComp") || !contains(out, "nums") {
		t.Errorf("unexpected listcomp rendering: %s", out)
	}
}

func TestPrint_NilNode(t *testing.T) {
	if Print(nil) != "null" {
		t.Errorf("Print(nil) = %q, want \"null\"", Print(nil))
	}
}
