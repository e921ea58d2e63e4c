package types

import (
	"github.com/sunholo/pyzig/internal/ast"
	"github.com/sunholo/pyzig/internal/errors"
	"github.com/sunholo/pyzig/internal/registry"
)

// FuncSig is the inferred signature of one top-level or nested function.
type FuncSig struct {
	Params []Type
	Return Type
}

// ClassInfo holds a class's inferred instance-attribute types, flattened
// across its single base class (multiple inheritance is rejected by the
// parser before this pass ever runs).
type ClassInfo struct {
	Name   string
	Base   string
	Fields map[string]Type
}

// Result is the output of inferring an entire module: a type for every
// expression node plus resolved function and class signatures.
type Result struct {
	ExprTypes map[ast.Expr]Type
	Funcs     map[string]*FuncSig
	Classes   map[string]*ClassInfo
}

const maxFixpointIterations = 8

// Infer runs the bottom-up inferrer over mod and returns a fully
// populated Result. It never fails the whole pass on an individual
// unresolved expression — anything it cannot pin down joins to Unknown.
// No construct makes it return a non-nil *errors.Report: unrecognized
// annotations are mapped by annotationToType rather than rejected.
func Infer(mod *ast.Module) (*Result, *errors.Report) {
	inf := &inferrer{
		res: &Result{
			ExprTypes: make(map[ast.Expr]Type),
			Funcs:     make(map[string]*FuncSig),
			Classes:   make(map[string]*ClassInfo),
		},
	}
	inf.collectClasses(mod.Body)
	inf.collectFuncSigs(mod.Body)

	root := NewEnv()
	for name, fs := range inf.res.Funcs {
		root.Define(name, funcValueType(fs))
	}

	for i := 0; i < maxFixpointIterations; i++ {
		changed, rep := inf.inferBlock(mod.Body, root)
		if rep != nil {
			return nil, rep
		}
		if !changed {
			break
		}
	}
	return inf.res, nil
}

func funcValueType(fs *FuncSig) Type { return Type{Kind: FunctionType} }

type inferrer struct {
	res *Result
}

// collectClasses pre-registers every class name so forward references
// (a method returning an instance of its own enclosing class) resolve.
func (inf *inferrer) collectClasses(body []ast.Stmt) {
	for _, stmt := range body {
		if cls, ok := stmt.(*ast.ClassDef); ok {
			base := ""
			if len(cls.Bases) == 1 {
				if n, ok := cls.Bases[0].(*ast.Name); ok {
					base = n.Id
				}
			}
			info := &ClassInfo{Name: cls.Name, Base: base, Fields: make(map[string]Type)}
			inf.res.Classes[cls.Name] = info
			inf.collectClassFields(cls, info)
		}
	}
}

func (inf *inferrer) collectClassFields(cls *ast.ClassDef, info *ClassInfo) {
	for _, stmt := range cls.Body {
		fn, ok := stmt.(*ast.FunctionDef)
		if !ok {
			continue
		}
		for _, s := range fn.Body {
			collectSelfAssignTargets(s, info)
		}
	}
}

// collectSelfAssignTargets finds `self.attr = ...` / `self.attr: T` inside
// a method body, seeding the class's field map with Unknown placeholders
// the fixpoint loop later narrows.
func collectSelfAssignTargets(stmt ast.Stmt, info *ClassInfo) {
	switch s := stmt.(type) {
	case *ast.Assign:
		for _, target := range s.Targets {
			if attr, ok := target.(*ast.Attribute); ok {
				if recv, ok := attr.Value.(*ast.Name); ok && recv.Id == "self" {
					if _, exists := info.Fields[attr.Attr]; !exists {
						info.Fields[attr.Attr] = TUnknown
					}
				}
			}
		}
	case *ast.AnnAssign:
		if attr, ok := s.Target.(*ast.Attribute); ok {
			if recv, ok := attr.Value.(*ast.Name); ok && recv.Id == "self" {
				info.Fields[attr.Attr] = annotationToType(s.Annotation)
			}
		}
	case *ast.If:
		for _, s2 := range s.Body {
			collectSelfAssignTargets(s2, info)
		}
		for _, s2 := range s.Orelse {
			collectSelfAssignTargets(s2, info)
		}
	case *ast.For:
		for _, s2 := range s.Body {
			collectSelfAssignTargets(s2, info)
		}
	case *ast.While:
		for _, s2 := range s.Body {
			collectSelfAssignTargets(s2, info)
		}
	case *ast.Try:
		for _, s2 := range s.Body {
			collectSelfAssignTargets(s2, info)
		}
		for _, h := range s.Handlers {
			for _, s2 := range h.Body {
				collectSelfAssignTargets(s2, info)
			}
		}
	}
}

func (inf *inferrer) collectFuncSigs(body []ast.Stmt) {
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.FunctionDef:
			inf.res.Funcs[s.Name] = &FuncSig{Params: paramTypes(s.Params), Return: TUnknown}
		case *ast.ClassDef:
			for _, m := range s.Body {
				if fn, ok := m.(*ast.FunctionDef); ok {
					inf.res.Funcs[s.Name+"."+fn.Name] = &FuncSig{Params: paramTypes(fn.Params), Return: TUnknown}
				}
			}
		}
	}
}

func paramTypes(params []*ast.Param) []Type {
	out := make([]Type, len(params))
	for i, p := range params {
		if p.Annotation != nil {
			out[i] = annotationToType(p.Annotation)
		} else {
			out[i] = TUnknown
		}
	}
	return out
}

// annotationToType maps a type-annotation expression to a lattice Type.
// A bare name outside the fixed vocabulary is taken as a class name; other
// unrecognized annotations widen to Unknown rather than erroring, since
// annotations are advisory here.
func annotationToType(ann ast.Expr) Type {
	switch a := ann.(type) {
	case *ast.Name:
		switch a.Id {
		case "int":
			return TInt
		case "float":
			return TFloat
		case "bool":
			return TBool
		case "str":
			return TString
		case "bytes":
			return Simple(BytesIOType)
		case "list", "List":
			return Type{Kind: ListType}
		case "tuple", "Tuple":
			return Type{Kind: TupleType}
		case "set", "Set":
			return Type{Kind: SetType}
		case "dict", "Dict":
			return Type{Kind: DictType}
		case "None":
			return TNone
		default:
			return ClassInstance(a.Id)
		}
	case *ast.Subscript:
		base, ok := a.Value.(*ast.Name)
		if !ok {
			return TUnknown
		}
		switch base.Id {
		case "list", "List":
			return List(annotationToType(a.Index))
		case "dict", "Dict":
			if tup, ok := a.Index.(*ast.TupleExpr); ok && len(tup.Elts) == 2 {
				return Dict(annotationToType(tup.Elts[0]), annotationToType(tup.Elts[1]))
			}
			return Type{Kind: DictType}
		default:
			return TUnknown
		}
	case *ast.Constant:
		if a.Kind == ast.ConstNone {
			return TNone
		}
	}
	return TUnknown
}

// inferBlock infers every statement in body under env, reporting whether
// any function/class signature changed (drives the fixpoint loop).
func (inf *inferrer) inferBlock(body []ast.Stmt, env *Env) (bool, *errors.Report) {
	changed := false
	for _, stmt := range body {
		c, rep := inf.inferStmt(stmt, env)
		if rep != nil {
			return false, rep
		}
		changed = changed || c
	}
	return changed, nil
}

func (inf *inferrer) inferStmt(stmt ast.Stmt, env *Env) (bool, *errors.Report) {
	switch s := stmt.(type) {
	case *ast.FunctionDef:
		return inf.inferFunctionDef(s, env, "")
	case *ast.ClassDef:
		return inf.inferClassDef(s, env)
	case *ast.Assign:
		t, rep := inf.inferExpr(s.Value, env)
		if rep != nil {
			return false, rep
		}
		for _, target := range s.Targets {
			inf.bindTarget(target, t, env)
		}
		return false, nil
	case *ast.AnnAssign:
		declared := annotationToType(s.Annotation)
		if s.Value != nil {
			if _, rep := inf.inferExpr(s.Value, env); rep != nil {
				return false, rep
			}
		}
		inf.bindTarget(s.Target, declared, env)
		return false, nil
	case *ast.AugAssign:
		cur, _ := inf.lookupTarget(s.Target, env)
		rhs, rep := inf.inferExpr(s.Value, env)
		if rep != nil {
			return false, rep
		}
		inf.bindTarget(s.Target, Join(cur, rhs), env)
		return false, nil
	case *ast.If:
		if _, rep := inf.inferExpr(s.Cond, env); rep != nil {
			return false, rep
		}
		c1, rep := inf.inferBlock(s.Body, env.Child())
		if rep != nil {
			return false, rep
		}
		c2, rep := inf.inferBlock(s.Orelse, env.Child())
		if rep != nil {
			return false, rep
		}
		return c1 || c2, nil
	case *ast.While:
		if _, rep := inf.inferExpr(s.Cond, env); rep != nil {
			return false, rep
		}
		c1, rep := inf.inferBlock(s.Body, env.Child())
		if rep != nil {
			return false, rep
		}
		c2, rep := inf.inferBlock(s.Orelse, env.Child())
		if rep != nil {
			return false, rep
		}
		return c1 || c2, nil
	case *ast.For:
		iterT, rep := inf.inferExpr(s.Iter, env)
		if rep != nil {
			return false, rep
		}
		elem := TUnknown
		if iterT.Elem != nil {
			elem = *iterT.Elem
		}
		child := env.Child()
		inf.bindTarget(s.Target, elem, child)
		c1, rep := inf.inferBlock(s.Body, child)
		if rep != nil {
			return false, rep
		}
		c2, rep := inf.inferBlock(s.Orelse, env.Child())
		if rep != nil {
			return false, rep
		}
		return c1 || c2, nil
	case *ast.Return:
		// handled by inferFunctionDef, which re-walks the body collecting
		// return types directly; nothing to do at the top level.
		if s.Value != nil {
			if _, rep := inf.inferExpr(s.Value, env); rep != nil {
				return false, rep
			}
		}
		return false, nil
	case *ast.Try:
		c1, rep := inf.inferBlock(s.Body, env.Child())
		if rep != nil {
			return false, rep
		}
		for _, h := range s.Handlers {
			hc, rep := inf.inferBlock(h.Body, env.Child())
			if rep != nil {
				return false, rep
			}
			c1 = c1 || hc
		}
		c2, rep := inf.inferBlock(s.Orelse, env.Child())
		if rep != nil {
			return false, rep
		}
		c3, rep := inf.inferBlock(s.Finally, env.Child())
		if rep != nil {
			return false, rep
		}
		return c1 || c2 || c3, nil
	case *ast.With:
		for _, item := range s.Items {
			ctxT, rep := inf.inferExpr(item.Context, env)
			if rep != nil {
				return false, rep
			}
			if item.AsName != nil {
				inf.bindTarget(item.AsName, ctxT, env)
			}
		}
		return inf.inferBlock(s.Body, env.Child())
	case *ast.ExprStmt:
		_, rep := inf.inferExpr(s.Value, env)
		return false, rep
	case *ast.Assert:
		_, rep := inf.inferExpr(s.Test, env)
		return false, rep
	case *ast.Raise:
		return false, nil
	default:
		return false, nil
	}
}

func (inf *inferrer) inferFunctionDef(fn *ast.FunctionDef, env *Env, classPrefix string) (bool, *errors.Report) {
	key := fn.Name
	if classPrefix != "" {
		key = classPrefix + "." + fn.Name
	}
	sig := inf.res.Funcs[key]
	if sig == nil {
		sig = &FuncSig{Params: paramTypes(fn.Params), Return: TUnknown}
		inf.res.Funcs[key] = sig
	}

	child := env.Child()
	for i, p := range fn.Params {
		t := TUnknown
		if i < len(sig.Params) {
			t = sig.Params[i]
		}
		if classPrefix != "" && i == 0 && p.Name == "self" {
			t = ClassInstance(classPrefix)
		}
		child.Define(p.Name, t)
	}

	collector := &returnCollector{}
	if _, rep := inf.inferBlock(fn.Body, child); rep != nil {
		return false, rep
	}
	collectReturns(fn.Body, collector)

	inferred := TNone
	for i, r := range collector.types {
		if i == 0 {
			inferred = r
		} else {
			inferred = Join(inferred, r)
		}
	}
	// re-evaluate return expressions under the fully-bound child scope so
	// recursive calls see this iteration's signature.
	for i, retExpr := range collector.exprs {
		t, rep := inf.inferExpr(retExpr, child)
		if rep != nil {
			return false, rep
		}
		if i == 0 && len(collector.types) == 0 {
			inferred = t
		} else {
			inferred = Join(inferred, t)
		}
	}

	changed := !Equal(sig.Return, inferred) || sig.Return.String() != inferred.String()
	sig.Return = inferred
	return changed, nil
}

type returnCollector struct {
	types []Type
	exprs []ast.Expr
}

func collectReturns(body []ast.Stmt, c *returnCollector) {
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.Return:
			if s.Value != nil {
				c.exprs = append(c.exprs, s.Value)
			} else {
				c.types = append(c.types, TNone)
			}
		case *ast.If:
			collectReturns(s.Body, c)
			collectReturns(s.Orelse, c)
		case *ast.While:
			collectReturns(s.Body, c)
			collectReturns(s.Orelse, c)
		case *ast.For:
			collectReturns(s.Body, c)
			collectReturns(s.Orelse, c)
		case *ast.Try:
			collectReturns(s.Body, c)
			for _, h := range s.Handlers {
				collectReturns(h.Body, c)
			}
			collectReturns(s.Orelse, c)
			collectReturns(s.Finally, c)
		case *ast.With:
			collectReturns(s.Body, c)
		}
	}
}

func (inf *inferrer) inferClassDef(cls *ast.ClassDef, env *Env) (bool, *errors.Report) {
	changed := false
	for _, m := range cls.Body {
		if fn, ok := m.(*ast.FunctionDef); ok {
			c, rep := inf.inferFunctionDef(fn, env, cls.Name)
			if rep != nil {
				return false, rep
			}
			changed = changed || c
		}
	}
	return changed, nil
}

func (inf *inferrer) bindTarget(target ast.Expr, t Type, env *Env) {
	switch tgt := target.(type) {
	case *ast.Name:
		env.Assign(tgt.Id, t)
	case *ast.TupleExpr:
		elem := TUnknown
		if t.Elem != nil {
			elem = *t.Elem
		}
		for _, e := range tgt.Elts {
			inf.bindTarget(e, elem, env)
		}
	case *ast.Attribute:
		if recv, ok := tgt.Value.(*ast.Name); ok {
			if recvT, ok := env.Lookup(recv.Id); ok && recvT.Kind == ClassInstanceType {
				if info, ok := inf.res.Classes[recvT.ClassName]; ok {
					if cur, seen := info.Fields[tgt.Attr]; seen && cur.Kind != Unknown {
						info.Fields[tgt.Attr] = Join(cur, t)
					} else {
						info.Fields[tgt.Attr] = t
					}
				}
			}
		}
	}
}

func (inf *inferrer) lookupTarget(target ast.Expr, env *Env) (Type, bool) {
	if name, ok := target.(*ast.Name); ok {
		return env.Lookup(name.Id)
	}
	return TUnknown, false
}

// inferExpr computes and memoizes the type of expr, recursing into its
// subexpressions first.
func (inf *inferrer) inferExpr(expr ast.Expr, env *Env) (Type, *errors.Report) {
	if expr == nil {
		return TUnknown, nil
	}
	t, rep := inf.inferExprUncached(expr, env)
	if rep != nil {
		return TUnknown, rep
	}
	inf.res.ExprTypes[expr] = t
	return t, nil
}

func (inf *inferrer) inferExprUncached(expr ast.Expr, env *Env) (Type, *errors.Report) {
	switch e := expr.(type) {
	case *ast.Constant:
		return constantType(e), nil
	case *ast.Name:
		if t, ok := env.Lookup(e.Id); ok {
			return t, nil
		}
		return TUnknown, nil
	case *ast.BinOp:
		return inf.inferBinOp(e, env)
	case *ast.UnaryOp:
		if e.Op == "not" {
			return TBool, nil
		}
		operand, rep := inf.inferExpr(e.Operand, env)
		return operand, rep
	case *ast.BoolOp:
		var last Type
		for _, v := range e.Values {
			t, rep := inf.inferExpr(v, env)
			if rep != nil {
				return TUnknown, rep
			}
			last = t
		}
		return last, nil
	case *ast.Compare:
		if _, rep := inf.inferExpr(e.Left, env); rep != nil {
			return TUnknown, rep
		}
		for _, c := range e.Comparators {
			if _, rep := inf.inferExpr(c, env); rep != nil {
				return TUnknown, rep
			}
		}
		return TBool, nil
	case *ast.IfExpr:
		t1, rep := inf.inferExpr(e.Body, env)
		if rep != nil {
			return TUnknown, rep
		}
		t2, rep := inf.inferExpr(e.Orelse, env)
		if rep != nil {
			return TUnknown, rep
		}
		if _, rep := inf.inferExpr(e.Test, env); rep != nil {
			return TUnknown, rep
		}
		return Join(t1, t2), nil
	case *ast.ListExpr:
		elem := TUnknown
		for i, el := range e.Elts {
			t, rep := inf.inferExpr(el, env)
			if rep != nil {
				return TUnknown, rep
			}
			if i == 0 {
				elem = t
			} else {
				elem = Join(elem, t)
			}
		}
		return List(elem), nil
	case *ast.TupleExpr:
		for _, el := range e.Elts {
			if _, rep := inf.inferExpr(el, env); rep != nil {
				return TUnknown, rep
			}
		}
		return Type{Kind: TupleType}, nil
	case *ast.SetExpr:
		elem := TUnknown
		for i, el := range e.Elts {
			t, rep := inf.inferExpr(el, env)
			if rep != nil {
				return TUnknown, rep
			}
			if i == 0 {
				elem = t
			} else {
				elem = Join(elem, t)
			}
		}
		return Type{Kind: SetType, Elem: &elem}, nil
	case *ast.DictExpr:
		var key, val Type
		for i, entry := range e.Entries {
			if entry.Key == nil {
				continue
			}
			k, rep := inf.inferExpr(entry.Key, env)
			if rep != nil {
				return TUnknown, rep
			}
			v, rep := inf.inferExpr(entry.Value, env)
			if rep != nil {
				return TUnknown, rep
			}
			if i == 0 {
				key, val = k, v
			} else {
				key, val = Join(key, k), Join(val, v)
			}
		}
		return Dict(key, val), nil
	case *ast.ListComp:
		child := env.Child()
		if rep := inf.bindCompClauses(e.Clauses, child); rep != nil {
			return TUnknown, rep
		}
		elem, rep := inf.inferExpr(e.Elt, child)
		if rep != nil {
			return TUnknown, rep
		}
		return List(elem), nil
	case *ast.SetComp:
		child := env.Child()
		if rep := inf.bindCompClauses(e.Clauses, child); rep != nil {
			return TUnknown, rep
		}
		elem, rep := inf.inferExpr(e.Elt, child)
		if rep != nil {
			return TUnknown, rep
		}
		return Type{Kind: SetType, Elem: &elem}, nil
	case *ast.GenExp:
		child := env.Child()
		if rep := inf.bindCompClauses(e.Clauses, child); rep != nil {
			return TUnknown, rep
		}
		elem, rep := inf.inferExpr(e.Elt, child)
		if rep != nil {
			return TUnknown, rep
		}
		return Type{Kind: ListType, Elem: &elem}, nil
	case *ast.DictComp:
		child := env.Child()
		if rep := inf.bindCompClauses(e.Clauses, child); rep != nil {
			return TUnknown, rep
		}
		k, rep := inf.inferExpr(e.Key, child)
		if rep != nil {
			return TUnknown, rep
		}
		v, rep := inf.inferExpr(e.Value, child)
		if rep != nil {
			return TUnknown, rep
		}
		return Dict(k, v), nil
	case *ast.Lambda:
		child := env.Child()
		for _, p := range e.Params {
			child.Define(p.Name, TUnknown)
		}
		if _, rep := inf.inferExpr(e.Body, child); rep != nil {
			return TUnknown, rep
		}
		return Type{Kind: FunctionType}, nil
	case *ast.Call:
		return inf.inferCall(e, env)
	case *ast.Attribute:
		return inf.inferAttribute(e, env)
	case *ast.Subscript:
		return inf.inferSubscript(e, env)
	case *ast.Slice:
		if e.Lower != nil {
			inf.inferExpr(e.Lower, env)
		}
		if e.Upper != nil {
			inf.inferExpr(e.Upper, env)
		}
		if e.Step != nil {
			inf.inferExpr(e.Step, env)
		}
		return TUnknown, nil
	case *ast.Starred:
		return inf.inferExpr(e.Value, env)
	case *ast.FString:
		for _, part := range e.Parts {
			if part.Expr != nil {
				if _, rep := inf.inferExpr(part.Expr, env); rep != nil {
					return TUnknown, rep
				}
			}
		}
		return TString, nil
	case *ast.Await:
		return inf.inferExpr(e.Value, env)
	default:
		return TUnknown, nil
	}
}

func (inf *inferrer) bindCompClauses(clauses []ast.CompClause, env *Env) *errors.Report {
	for _, cl := range clauses {
		iterT, rep := inf.inferExpr(cl.Iter, env)
		if rep != nil {
			return rep
		}
		elem := TUnknown
		if iterT.Elem != nil {
			elem = *iterT.Elem
		}
		inf.bindTarget(cl.Target, elem, env)
		for _, cond := range cl.Ifs {
			if _, rep := inf.inferExpr(cond, env); rep != nil {
				return rep
			}
		}
	}
	return nil
}

func constantType(c *ast.Constant) Type {
	switch c.Kind {
	case ast.ConstInt:
		if _, ok := c.Value.(string); ok {
			return TBigInt
		}
		return TInt
	case ast.ConstFloat:
		return TFloat
	case ast.ConstString:
		return TString
	case ast.ConstBytes:
		return Simple(BytesIOType)
	case ast.ConstBool:
		return TBool
	case ast.ConstNone:
		return TNone
	default:
		return TUnknown
	}
}

func (inf *inferrer) inferBinOp(e *ast.BinOp, env *Env) (Type, *errors.Report) {
	left, rep := inf.inferExpr(e.Left, env)
	if rep != nil {
		return TUnknown, rep
	}
	right, rep := inf.inferExpr(e.Right, env)
	if rep != nil {
		return TUnknown, rep
	}
	switch e.Op {
	case "+":
		if left.Kind == String && right.Kind == String {
			return TString, nil
		}
		if left.Kind == ListType && right.Kind == ListType {
			return Join(left, right), nil
		}
		if IsNumeric(left) && IsNumeric(right) {
			return Join(left, right), nil
		}
		return TUnknown, nil
	case "-", "*", "/", "//", "%", "**":
		if IsNumeric(left) && IsNumeric(right) {
			if e.Op == "/" {
				return TFloat, nil
			}
			return Join(left, right), nil
		}
		if e.Op == "*" && left.Kind == ListType && right.Kind == Int {
			return left, nil
		}
		if e.Op == "*" && left.Kind == String && right.Kind == Int {
			return TString, nil
		}
		if e.Op == "*" && left.Kind == Int && right.Kind == String {
			return TString, nil
		}
		return TUnknown, nil
	case "&", "|", "^", "<<", ">>":
		if left.Kind == Int && right.Kind == Int {
			return TInt, nil
		}
		if left.Kind == SetType {
			return Join(left, right), nil
		}
		return TUnknown, nil
	default:
		return TUnknown, nil
	}
}

func (inf *inferrer) inferAttribute(e *ast.Attribute, env *Env) (Type, *errors.Report) {
	recv, rep := inf.inferExpr(e.Value, env)
	if rep != nil {
		return TUnknown, rep
	}
	if recv.Kind == ClassInstanceType {
		info, ok := inf.res.Classes[recv.ClassName]
		for ok && info != nil {
			if t, found := info.Fields[e.Attr]; found {
				return t, nil
			}
			if info.Base == "" {
				break
			}
			info, ok = inf.res.Classes[info.Base]
		}
	}
	return TUnknown, nil
}

func (inf *inferrer) inferSubscript(e *ast.Subscript, env *Env) (Type, *errors.Report) {
	recv, rep := inf.inferExpr(e.Value, env)
	if rep != nil {
		return TUnknown, rep
	}
	if _, rep := inf.inferExpr(e.Index, env); rep != nil {
		return TUnknown, rep
	}
	if _, isSlice := e.Index.(*ast.Slice); isSlice {
		return recv, nil
	}
	switch recv.Kind {
	case ListType, TupleType:
		if recv.Elem != nil {
			return *recv.Elem, nil
		}
	case DictType:
		if recv.Value != nil {
			return *recv.Value, nil
		}
	case String:
		return TString, nil
	}
	return TUnknown, nil
}

func (inf *inferrer) inferCall(e *ast.Call, env *Env) (Type, *errors.Report) {
	for _, a := range e.Args {
		if _, rep := inf.inferExpr(a, env); rep != nil {
			return TUnknown, rep
		}
	}
	for _, kw := range e.Keywords {
		if _, rep := inf.inferExpr(kw.Value, env); rep != nil {
			return TUnknown, rep
		}
	}
	if e.StarArgs != nil {
		if _, rep := inf.inferExpr(e.StarArgs, env); rep != nil {
			return TUnknown, rep
		}
	}

	switch fn := e.Func.(type) {
	case *ast.Name:
		if sig, ok := inf.res.Funcs[fn.Id]; ok {
			return sig.Return, nil
		}
		if info, ok := inf.res.Classes[fn.Id]; ok {
			return ClassInstance(info.Name), nil
		}
		if registry.IsBuiltin(fn.Id) {
			return builtinReturnType(fn.Id, e.Args), nil
		}
		return TUnknown, nil
	case *ast.Attribute:
		recv, rep := inf.inferExpr(fn.Value, env)
		if rep != nil {
			return TUnknown, rep
		}
		if recv.Kind == ClassInstanceType {
			if sig, ok := inf.res.Funcs[recv.ClassName+"."+fn.Attr]; ok {
				return sig.Return, nil
			}
		}
		return methodReturnType(recv, fn.Attr), nil
	default:
		return TUnknown, nil
	}
}

var builtinScalarReturns = map[string]Type{
	"len": TInt, "abs": TUnknown, "round": TUnknown, "sum": TUnknown,
	"int": TInt, "float": TFloat, "str": TString, "bool": TBool,
	"repr": TString, "hex": TString, "oct": TString, "bin": TString, "chr": TString, "ord": TInt,
	"sorted": TUnknown, "input": TString, "hash": TInt, "id": TInt,
	"isinstance": TBool, "issubclass": TBool, "hasattr": TBool, "callable": TBool,
	"all": TBool, "any": TBool,
}

func builtinReturnType(name string, args []ast.Expr) Type {
	if t, ok := builtinScalarReturns[name]; ok {
		return t
	}
	switch name {
	case "list":
		return Type{Kind: ListType}
	case "tuple":
		return Type{Kind: TupleType}
	case "set":
		return Type{Kind: SetType}
	case "dict":
		return Type{Kind: DictType}
	case "range":
		return Type{Kind: ListType}
	}
	return TUnknown
}

func methodReturnType(recv Type, method string) Type {
	switch recv.Kind {
	case ListType:
		switch method {
		case "pop":
			if recv.Elem != nil {
				return *recv.Elem
			}
		case "copy":
			return recv
		case "index", "count":
			return TInt
		}
	case DictType:
		switch method {
		case "get":
			if recv.Value != nil {
				return *recv.Value
			}
		case "keys":
			if recv.Key != nil {
				return List(*recv.Key)
			}
		case "values":
			if recv.Value != nil {
				return List(*recv.Value)
			}
		case "copy":
			return recv
		}
	case String:
		switch method {
		case "upper", "lower", "strip", "replace", "format", "join":
			return TString
		case "split":
			return List(TString)
		case "find":
			return TInt
		case "startswith", "endswith":
			return TBool
		}
	}
	return TUnknown
}
