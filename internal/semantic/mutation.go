package semantic

import "github.com/sunholo/pyzig/internal/ast"

// mutatingMethods is the published table spec.md §9's open question asks
// every reimplementation to publish: method names that, when called on a
// container receiver, mutate it in place rather than returning a new
// value. Codegen consults LifetimeInfo.MutatedByMethod (driven by this
// table) to decide whether a container needs a mutable backing store.
var mutatingMethods = map[string]bool{
	"append": true, "extend": true, "insert": true, "remove": true,
	"pop": true, "clear": true, "sort": true, "reverse": true,
	"update": true, "add": true, "discard": true, "setdefault": true,
	"popitem": true,
}

// MutationKind tags how a variable is known to be mutated.
type MutationKind int

const (
	NotMutated MutationKind = iota
	MutatedByMethod
	MutatedBySubscript
	Reassigned
)

// LifetimeInfo is one local variable's lifetime and mutation record —
// the Mutation Map and the per-local lifetime facts spec.md §3 and §4.4
// describe, merged into one struct since both are produced by the same
// traversal.
type LifetimeInfo struct {
	Name            string
	ReassignCount   int
	ReadCount       int
	MutatedByMethod bool // a known mutating method was called on it
	ElementMutated  bool // subscript assignment: x[i] = ... or x[i] += ...
}

// MutationResult is the output of AnalyzeMutations: one LifetimeInfo per
// local name seen anywhere in the module (top-level and nested function
// bodies share one flat namespace here — codegen looks names up in this
// flat map directly, so same-named locals in different functions share
// one record).
type MutationResult struct {
	Locals map[string]*LifetimeInfo
	// EvalFreeIdents maps each eval()/exec() call's source position to the
	// free identifiers referenced inside its string-literal argument, so
	// codegen can keep those bindings alive across the call (spec.md §4.4).
	EvalFreeIdents map[ast.Pos][]string
}

func (r *MutationResult) local(name string) *LifetimeInfo {
	li, ok := r.Locals[name]
	if !ok {
		li = &LifetimeInfo{Name: name}
		r.Locals[name] = li
	}
	return li
}

// AnalyzeMutations walks mod once, recording reassignment/read counts and
// mutation evidence per local, plus the free-identifier set referenced by
// each eval()/exec() string-literal call. Unlike Analyze, this pass never
// fails: an unsupported construct just contributes no mutation evidence,
// since mutation facts are an optimization input, not a soundness
// requirement (spec.md §4.4's invariants bind to scoping, not mutation).
func AnalyzeMutations(mod *ast.Module) *MutationResult {
	r := &MutationResult{
		Locals:         make(map[string]*LifetimeInfo),
		EvalFreeIdents: make(map[ast.Pos][]string),
	}
	walkStmts(mod.Body, r)
	return r
}

func walkStmts(body []ast.Stmt, r *MutationResult) {
	for _, stmt := range body {
		walkStmt(stmt, r)
	}
}

func walkStmt(stmt ast.Stmt, r *MutationResult) {
	switch n := stmt.(type) {
	case *ast.Assign:
		walkExpr(n.Value, r)
		for _, target := range n.Targets {
			recordTarget(target, r)
		}
	case *ast.AnnAssign:
		if n.Value != nil {
			walkExpr(n.Value, r)
		}
		recordTarget(n.Target, r)
	case *ast.AugAssign:
		walkExpr(n.Value, r)
		recordTarget(n.Target, r)
		if sub, ok := n.Target.(*ast.Subscript); ok {
			if name, ok := sub.Value.(*ast.Name); ok {
				r.local(name.Id).ElementMutated = true
			}
		}
	case *ast.FunctionDef:
		walkStmts(n.Body, r)
	case *ast.ClassDef:
		walkStmts(n.Body, r)
	case *ast.If:
		walkExpr(n.Cond, r)
		walkStmts(n.Body, r)
		walkStmts(n.Orelse, r)
	case *ast.While:
		walkExpr(n.Cond, r)
		walkStmts(n.Body, r)
		walkStmts(n.Orelse, r)
	case *ast.For:
		walkExpr(n.Iter, r)
		recordTarget(n.Target, r)
		walkStmts(n.Body, r)
		walkStmts(n.Orelse, r)
	case *ast.Try:
		walkStmts(n.Body, r)
		for _, h := range n.Handlers {
			walkStmts(h.Body, r)
		}
		walkStmts(n.Finally, r)
	case *ast.With:
		for _, item := range n.Items {
			walkExpr(item.Context, r)
			if item.AsName != nil {
				recordTarget(item.AsName, r)
			}
		}
		walkStmts(n.Body, r)
	case *ast.Return:
		if n.Value != nil {
			walkExpr(n.Value, r)
		}
	case *ast.ExprStmt:
		walkExpr(n.Value, r)
	case *ast.Assert:
		walkExpr(n.Test, r)
	case *ast.Raise:
		if n.Exc != nil {
			walkExpr(n.Exc, r)
		}
	case *ast.Del:
		for _, target := range n.Targets {
			if name, ok := target.(*ast.Name); ok {
				r.local(name.Id).Reassigned()
			}
		}
	}
}

// Reassigned bumps the reassignment counter; exported as a method so
// callers outside this file (codegen, tests) record it the same way.
func (li *LifetimeInfo) Reassigned() { li.ReassignCount++ }

func recordTarget(target ast.Expr, r *MutationResult) {
	switch t := target.(type) {
	case *ast.Name:
		li := r.local(t.Id)
		li.ReassignCount++
	case *ast.Subscript:
		if name, ok := t.Value.(*ast.Name); ok {
			r.local(name.Id).ElementMutated = true
		}
	case *ast.TupleExpr:
		for _, elt := range t.Elts {
			recordTarget(elt, r)
		}
	case *ast.ListExpr:
		for _, elt := range t.Elts {
			recordTarget(elt, r)
		}
	case *ast.Attribute:
		// attribute assignment (self.x = ...) doesn't touch a local's
		// mutation record; instance-attribute mutation is tracked by the
		// type inferrer's ClassInfo instead.
	}
}

func walkExpr(expr ast.Expr, r *MutationResult) {
	switch e := expr.(type) {
	case *ast.Name:
		r.local(e.Id).ReadCount++
	case *ast.Call:
		walkCall(e, r)
	case *ast.BinOp:
		walkExpr(e.Left, r)
		walkExpr(e.Right, r)
	case *ast.UnaryOp:
		walkExpr(e.Operand, r)
	case *ast.BoolOp:
		for _, v := range e.Values {
			walkExpr(v, r)
		}
	case *ast.Compare:
		walkExpr(e.Left, r)
		for _, c := range e.Comparators {
			walkExpr(c, r)
		}
	case *ast.Attribute:
		walkExpr(e.Value, r)
	case *ast.Subscript:
		walkExpr(e.Value, r)
		walkExpr(e.Index, r)
	case *ast.ListExpr:
		for _, elt := range e.Elts {
			walkExpr(elt, r)
		}
	case *ast.TupleExpr:
		for _, elt := range e.Elts {
			walkExpr(elt, r)
		}
	case *ast.SetExpr:
		for _, elt := range e.Elts {
			walkExpr(elt, r)
		}
	case *ast.DictExpr:
		for _, entry := range e.Entries {
			if entry.Key != nil {
				walkExpr(entry.Key, r)
			}
			walkExpr(entry.Value, r)
		}
	case *ast.IfExpr:
		walkExpr(e.Test, r)
		walkExpr(e.Body, r)
		walkExpr(e.Orelse, r)
	case *ast.FString:
		for _, part := range e.Parts {
			if part.Expr != nil {
				walkExpr(part.Expr, r)
			}
		}
	case *ast.Starred:
		walkExpr(e.Value, r)
	case *ast.Await:
		walkExpr(e.Value, r)
	}
}

// walkCall records method-mutation evidence and, for eval()/exec() calls
// on a single string-literal constant argument, the free identifiers the
// literal's body references (spec.md §4.4).
func walkCall(call *ast.Call, r *MutationResult) {
	if attr, ok := call.Func.(*ast.Attribute); ok {
		if recv, ok := attr.Value.(*ast.Name); ok && mutatingMethods[attr.Attr] {
			r.local(recv.Id).MutatedByMethod = true
		}
		walkExpr(attr.Value, r)
	} else if name, ok := call.Func.(*ast.Name); ok && (name.Id == "eval" || name.Id == "exec") {
		if len(call.Args) == 1 {
			if lit, ok := call.Args[0].(*ast.Constant); ok && lit.Kind == ast.ConstString {
				if src, ok := lit.Value.(string); ok {
					r.EvalFreeIdents[call.Pos] = freeIdentsOf(src)
				}
			}
		}
	}
	for _, arg := range call.Args {
		walkExpr(arg, r)
	}
	for _, kw := range call.Keywords {
		walkExpr(kw.Value, r)
	}
}
