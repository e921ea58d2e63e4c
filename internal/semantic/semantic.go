// Package semantic performs static name-resolution and structural checks
// over a parsed module before type inference and code generation run: it
// builds a symbol-table scope chain per function/class, flags references
// to names that can't resolve anywhere in the chain, rejects inheritance
// cycles, and validates global/nonlocal declarations against the scopes
// they claim to reach into.
package semantic

import (
	"github.com/sunholo/pyzig/internal/ast"
	"github.com/sunholo/pyzig/internal/errors"
	"github.com/sunholo/pyzig/internal/registry"
)

const phase = "semantic"

// scopeKind distinguishes module, function, and class scopes: class
// bodies are not visible to nested functions the way Python resolves
// names (a method can't see its class's other attributes as bare
// names), so nonlocal/free-variable resolution skips over them.
type scopeKind int

const (
	scopeModule scopeKind = iota
	scopeFunction
	scopeClass
)

// scope is a symbol table node in the lexical scope chain.
type scope struct {
	kind      scopeKind
	names     map[string]bool
	globals   map[string]bool
	nonlocals map[string]bool
	parent    *scope
}

func newScope(kind scopeKind, parent *scope) *scope {
	return &scope{
		kind:      kind,
		names:     make(map[string]bool),
		globals:   make(map[string]bool),
		nonlocals: make(map[string]bool),
		parent:    parent,
	}
}

// enclosingFunction walks up the chain to the nearest function scope,
// skipping class scopes, matching Python's nonlocal resolution rules.
func (s *scope) enclosingFunction() *scope {
	for p := s.parent; p != nil; p = p.parent {
		if p.kind == scopeFunction {
			return p
		}
	}
	return nil
}

func (s *scope) root() *scope {
	e := s
	for e.parent != nil {
		e = e.parent
	}
	return e
}

// resolves reports whether name is bound anywhere reachable from s,
// honoring global/nonlocal redirection at each level.
func (s *scope) resolves(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.globals[name] {
			return cur.root().names[name]
		}
		if cur.names[name] {
			return true
		}
	}
	return false
}

// Analyzer runs the checks and accumulates results; classBases records
// each class's single base-class name (empty if none) for cycle
// detection, and classMethods the set of method names already seen per
// class, for duplicate-definition detection.
type Analyzer struct {
	classBases   map[string]string
	classMethods map[string]map[string]int
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		classBases:   make(map[string]string),
		classMethods: make(map[string]map[string]int),
	}
}

// Analyze runs all structural checks over mod, returning the first
// violation encountered as a *errors.Report.
func Analyze(mod *ast.Module) *errors.Report {
	a := NewAnalyzer()
	if rep := a.collectClasses(mod.Body); rep != nil {
		return rep
	}
	if rep := a.checkInheritanceCycles(); rep != nil {
		return rep
	}

	root := newScope(scopeModule, nil)
	predeclare(root, mod.Body)
	return a.analyzeBlock(mod.Body, root)
}

// predeclare pre-binds every top-level def/class/import name in scope so
// forward references within the same block (mutual recursion, use
// before later textual definition within a loop) resolve.
func predeclare(s *scope, body []ast.Stmt) {
	for _, stmt := range body {
		switch st := stmt.(type) {
		case *ast.FunctionDef:
			s.names[st.Name] = true
		case *ast.ClassDef:
			s.names[st.Name] = true
		case *ast.Import:
			for _, alias := range st.Names {
				name := alias.Name
				if alias.AsName != "" {
					name = alias.AsName
				}
				s.names[name] = true
			}
		case *ast.ImportFrom:
			for _, alias := range st.Names {
				name := alias.Name
				if alias.AsName != "" {
					name = alias.AsName
				}
				s.names[name] = true
			}
		}
	}
}

func (a *Analyzer) collectClasses(body []ast.Stmt) *errors.Report {
	for _, stmt := range body {
		cls, ok := stmt.(*ast.ClassDef)
		if !ok {
			continue
		}
		base := ""
		if len(cls.Bases) == 1 {
			if n, ok := cls.Bases[0].(*ast.Name); ok {
				base = n.Id
			}
		}
		a.classBases[cls.Name] = base

		methods := make(map[string]int)
		for _, m := range cls.Body {
			fn, ok := m.(*ast.FunctionDef)
			if !ok {
				continue
			}
			methods[fn.Name]++
			if methods[fn.Name] > 1 {
				return errors.New("SEM005", phase,
					"duplicate definition of method '"+fn.Name+"' in class '"+cls.Name+"'",
					&fn.Pos)
			}
		}
		a.classMethods[cls.Name] = methods
	}
	return nil
}

func (a *Analyzer) checkInheritanceCycles() *errors.Report {
	for name := range a.classBases {
		seen := map[string]bool{name: true}
		cur := a.classBases[name]
		for cur != "" {
			if seen[cur] {
				return errors.New("SEM002", phase,
					"inheritance cycle detected involving class '"+name+"'", nil)
			}
			seen[cur] = true
			cur = a.classBases[cur]
		}
	}
	return nil
}

func (a *Analyzer) analyzeBlock(body []ast.Stmt, s *scope) *errors.Report {
	for _, stmt := range body {
		if rep := a.analyzeStmt(stmt, s); rep != nil {
			return rep
		}
	}
	return nil
}

func (a *Analyzer) analyzeStmt(stmt ast.Stmt, s *scope) *errors.Report {
	switch st := stmt.(type) {
	case *ast.FunctionDef:
		return a.analyzeFunction(st, s)
	case *ast.ClassDef:
		return a.analyzeClass(st, s)
	case *ast.Assign:
		if rep := a.checkExpr(st.Value, s); rep != nil {
			return rep
		}
		for _, target := range st.Targets {
			bindTarget(target, s)
		}
		return nil
	case *ast.AnnAssign:
		if st.Value != nil {
			if rep := a.checkExpr(st.Value, s); rep != nil {
				return rep
			}
		}
		bindTarget(st.Target, s)
		return nil
	case *ast.AugAssign:
		if rep := a.checkExpr(st.Target, s); rep != nil {
			return rep
		}
		if rep := a.checkExpr(st.Value, s); rep != nil {
			return rep
		}
		bindTarget(st.Target, s)
		return nil
	case *ast.If:
		if rep := a.checkExpr(st.Cond, s); rep != nil {
			return rep
		}
		if rep := a.analyzeBlock(st.Body, s); rep != nil {
			return rep
		}
		return a.analyzeBlock(st.Orelse, s)
	case *ast.While:
		if rep := a.checkExpr(st.Cond, s); rep != nil {
			return rep
		}
		if rep := a.analyzeBlock(st.Body, s); rep != nil {
			return rep
		}
		return a.analyzeBlock(st.Orelse, s)
	case *ast.For:
		if rep := a.checkExpr(st.Iter, s); rep != nil {
			return rep
		}
		bindTarget(st.Target, s)
		if rep := a.analyzeBlock(st.Body, s); rep != nil {
			return rep
		}
		return a.analyzeBlock(st.Orelse, s)
	case *ast.Try:
		if rep := a.analyzeBlock(st.Body, s); rep != nil {
			return rep
		}
		for _, h := range st.Handlers {
			if h.Name != "" {
				s.names[h.Name] = true
			}
			if rep := a.analyzeBlock(h.Body, s); rep != nil {
				return rep
			}
		}
		if rep := a.analyzeBlock(st.Orelse, s); rep != nil {
			return rep
		}
		return a.analyzeBlock(st.Finally, s)
	case *ast.With:
		for _, item := range st.Items {
			if rep := a.checkExpr(item.Context, s); rep != nil {
				return rep
			}
			if item.AsName != nil {
				bindTarget(item.AsName, s)
			}
		}
		return a.analyzeBlock(st.Body, s)
	case *ast.Return:
		if st.Value != nil {
			return a.checkExpr(st.Value, s)
		}
		return nil
	case *ast.ExprStmt:
		return a.checkExpr(st.Value, s)
	case *ast.Assert:
		if rep := a.checkExpr(st.Test, s); rep != nil {
			return rep
		}
		if st.Msg != nil {
			return a.checkExpr(st.Msg, s)
		}
		return nil
	case *ast.Raise:
		if st.Exc != nil {
			if rep := a.checkExpr(st.Exc, s); rep != nil {
				return rep
			}
		}
		if st.Cause != nil {
			return a.checkExpr(st.Cause, s)
		}
		return nil
	case *ast.Global:
		for _, name := range st.Names {
			if s.names[name] && !s.globals[name] {
				return errors.New("SEM003", phase,
					"name '"+name+"' used as a local before the 'global' declaration", &st.Pos)
			}
			s.globals[name] = true
			s.root().names[name] = true
		}
		return nil
	case *ast.Nonlocal:
		enclosing := s.enclosingFunction()
		for _, name := range st.Names {
			if enclosing == nil {
				return errors.New("SEM004", phase,
					"'nonlocal' name '"+name+"' has no enclosing function scope to bind to", &st.Pos)
			}
			s.nonlocals[name] = true
		}
		return nil
	case *ast.Del:
		for _, target := range st.Targets {
			if rep := a.checkExpr(target, s); rep != nil {
				return rep
			}
		}
		return nil
	default:
		return nil
	}
}

func (a *Analyzer) analyzeFunction(fn *ast.FunctionDef, s *scope) *errors.Report {
	s.names[fn.Name] = true
	child := newScope(scopeFunction, s)
	for _, p := range fn.Params {
		child.names[p.Name] = true
		if p.Default != nil {
			if rep := a.checkExpr(p.Default, s); rep != nil {
				return rep
			}
		}
	}
	predeclare(child, fn.Body)
	return a.analyzeBlock(fn.Body, child)
}

func (a *Analyzer) analyzeClass(cls *ast.ClassDef, s *scope) *errors.Report {
	s.names[cls.Name] = true
	for _, base := range cls.Bases {
		if rep := a.checkExpr(base, s); rep != nil {
			return rep
		}
	}
	child := newScope(scopeClass, s)
	predeclare(child, cls.Body)
	return a.analyzeBlock(cls.Body, child)
}

func bindTarget(target ast.Expr, s *scope) {
	switch t := target.(type) {
	case *ast.Name:
		if !s.globals[t.Id] && !s.nonlocals[t.Id] {
			s.names[t.Id] = true
		}
	case *ast.TupleExpr:
		for _, e := range t.Elts {
			bindTarget(e, s)
		}
	case *ast.ListExpr:
		for _, e := range t.Elts {
			bindTarget(e, s)
		}
	case *ast.Starred:
		bindTarget(t.Value, s)
	}
}

// checkExpr walks expr verifying every Name reference resolves, either
// in the scope chain or as a builtin/module-level forward reference
// already predeclared.
func (a *Analyzer) checkExpr(expr ast.Expr, s *scope) *errors.Report {
	if expr == nil {
		return nil
	}
	switch e := expr.(type) {
	case *ast.Name:
		if e.Id == "self" || e.Id == "cls" {
			return nil
		}
		if !s.resolves(e.Id) && !isKnownBuiltinName(e.Id) {
			return errors.New("SEM001", phase, "name '"+e.Id+"' is not defined", &e.Pos)
		}
		return nil
	case *ast.BinOp:
		if rep := a.checkExpr(e.Left, s); rep != nil {
			return rep
		}
		return a.checkExpr(e.Right, s)
	case *ast.UnaryOp:
		return a.checkExpr(e.Operand, s)
	case *ast.BoolOp:
		for _, v := range e.Values {
			if rep := a.checkExpr(v, s); rep != nil {
				return rep
			}
		}
		return nil
	case *ast.Compare:
		if rep := a.checkExpr(e.Left, s); rep != nil {
			return rep
		}
		for _, c := range e.Comparators {
			if rep := a.checkExpr(c, s); rep != nil {
				return rep
			}
		}
		return nil
	case *ast.IfExpr:
		if rep := a.checkExpr(e.Test, s); rep != nil {
			return rep
		}
		if rep := a.checkExpr(e.Body, s); rep != nil {
			return rep
		}
		return a.checkExpr(e.Orelse, s)
	case *ast.Call:
		if rep := a.checkExpr(e.Func, s); rep != nil {
			return rep
		}
		for _, arg := range e.Args {
			if rep := a.checkExpr(arg, s); rep != nil {
				return rep
			}
		}
		for _, kw := range e.Keywords {
			if rep := a.checkExpr(kw.Value, s); rep != nil {
				return rep
			}
		}
		if e.StarArgs != nil {
			return a.checkExpr(e.StarArgs, s)
		}
		return nil
	case *ast.Attribute:
		return a.checkExpr(e.Value, s)
	case *ast.Subscript:
		if rep := a.checkExpr(e.Value, s); rep != nil {
			return rep
		}
		return a.checkExpr(e.Index, s)
	case *ast.Slice:
		if rep := a.checkExpr(e.Lower, s); rep != nil {
			return rep
		}
		if rep := a.checkExpr(e.Upper, s); rep != nil {
			return rep
		}
		return a.checkExpr(e.Step, s)
	case *ast.ListExpr:
		for _, el := range e.Elts {
			if rep := a.checkExpr(el, s); rep != nil {
				return rep
			}
		}
		return nil
	case *ast.TupleExpr:
		for _, el := range e.Elts {
			if rep := a.checkExpr(el, s); rep != nil {
				return rep
			}
		}
		return nil
	case *ast.SetExpr:
		for _, el := range e.Elts {
			if rep := a.checkExpr(el, s); rep != nil {
				return rep
			}
		}
		return nil
	case *ast.DictExpr:
		for _, entry := range e.Entries {
			if entry.Key != nil {
				if rep := a.checkExpr(entry.Key, s); rep != nil {
					return rep
				}
			}
			if rep := a.checkExpr(entry.Value, s); rep != nil {
				return rep
			}
		}
		return nil
	case *ast.ListComp:
		return a.checkComp(e.Clauses, e.Elt, nil, s)
	case *ast.SetComp:
		return a.checkComp(e.Clauses, e.Elt, nil, s)
	case *ast.GenExp:
		return a.checkComp(e.Clauses, e.Elt, nil, s)
	case *ast.DictComp:
		return a.checkComp(e.Clauses, e.Key, e.Value, s)
	case *ast.Lambda:
		child := newScope(scopeFunction, s)
		for _, p := range e.Params {
			child.names[p.Name] = true
		}
		return a.checkExpr(e.Body, child)
	case *ast.Starred:
		return a.checkExpr(e.Value, s)
	case *ast.FString:
		for _, part := range e.Parts {
			if part.Expr != nil {
				if rep := a.checkExpr(part.Expr, s); rep != nil {
					return rep
				}
			}
		}
		return nil
	case *ast.Await:
		return a.checkExpr(e.Value, s)
	default:
		return nil
	}
}

func (a *Analyzer) checkComp(clauses []ast.CompClause, elt1, elt2 ast.Expr, s *scope) *errors.Report {
	child := newScope(scopeFunction, s)
	for _, cl := range clauses {
		if rep := a.checkExpr(cl.Iter, child); rep != nil {
			return rep
		}
		bindTarget(cl.Target, child)
		for _, cond := range cl.Ifs {
			if rep := a.checkExpr(cond, child); rep != nil {
				return rep
			}
		}
	}
	if rep := a.checkExpr(elt1, child); rep != nil {
		return rep
	}
	return a.checkExpr(elt2, child)
}

// isKnownBuiltinName reports whether name is one of the handful of
// always-available identifiers that aren't modeled as ordinary
// bindings: the registry's builtin functions plus literal pseudo-names.
func isKnownBuiltinName(name string) bool {
	switch name {
	case "True", "False", "None", "__name__", "__file__":
		return true
	}
	return registry.IsBuiltin(name)
}
