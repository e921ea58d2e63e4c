package ast

import (
	"encoding/json"
	"fmt"
)

// Print produces a deterministic JSON representation of an AST node,
// suitable for golden-snapshot tests (go-cmp over the parsed tree). It
// omits source positions so re-running the parser over semantically
// identical source with different whitespace still snapshots identically.
func Print(node Node) string {
	if node == nil {
		return "null"
	}
	data, err := json.MarshalIndent(simplify(node), "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

func simplifyStmts(stmts []Stmt) []any {
	out := make([]any, len(stmts))
	for i, s := range stmts {
		out[i] = simplify(s)
	}
	return out
}

func simplifyExprs(exprs []Expr) []any {
	out := make([]any, len(exprs))
	for i, e := range exprs {
		out[i] = simplify(e)
	}
	return out
}

func simplifyClauses(clauses []CompClause) []any {
	out := make([]any, len(clauses))
	for i, c := range clauses {
		ifs := make([]any, len(c.Ifs))
		for j, e := range c.Ifs {
			ifs[j] = simplify(e)
		}
		out[i] = map[string]any{
			"target": simplify(c.Target),
			"iter":   simplify(c.Iter),
			"ifs":    ifs,
		}
	}
	return out
}

// simplify converts an AST node to a plain JSON-serializable structure,
// tagged with a "type" discriminator per node kind.
func simplify(node any) any {
	if node == nil {
		return nil
	}
	switch n := node.(type) {
	case *Module:
		return map[string]any{"type": "Module", "name": n.Name, "body": simplifyStmts(n.Body)}
	case *FunctionDef:
		params := make([]any, len(n.Params))
		for i, p := range n.Params {
			params[i] = map[string]any{
				"name": p.Name, "annotation": simplify(p.Annotation),
				"default": simplify(p.Default), "star_args": p.StarArgs, "star_kwargs": p.StarKwargs,
			}
		}
		return map[string]any{
			"type": "FunctionDef", "name": n.Name, "params": params,
			"return_type": simplify(n.ReturnType), "body": simplifyStmts(n.Body), "is_async": n.IsAsync,
		}
	case *ClassDef:
		return map[string]any{"type": "ClassDef", "name": n.Name, "bases": simplifyExprs(n.Bases), "body": simplifyStmts(n.Body)}
	case *Assign:
		return map[string]any{"type": "Assign", "targets": simplifyExprs(n.Targets), "value": simplify(n.Value)}
	case *AnnAssign:
		return map[string]any{"type": "AnnAssign", "target": simplify(n.Target), "annotation": simplify(n.Annotation), "value": simplify(n.Value)}
	case *AugAssign:
		return map[string]any{"type": "AugAssign", "target": simplify(n.Target), "op": n.Op, "value": simplify(n.Value)}
	case *If:
		return map[string]any{"type": "If", "cond": simplify(n.Cond), "body": simplifyStmts(n.Body), "orelse": simplifyStmts(n.Orelse)}
	case *While:
		return map[string]any{"type": "While", "cond": simplify(n.Cond), "body": simplifyStmts(n.Body), "orelse": simplifyStmts(n.Orelse)}
	case *For:
		return map[string]any{"type": "For", "target": simplify(n.Target), "iter": simplify(n.Iter), "body": simplifyStmts(n.Body), "orelse": simplifyStmts(n.Orelse)}
	case *Return:
		return map[string]any{"type": "Return", "value": simplify(n.Value)}
	case *Try:
		handlers := make([]any, len(n.Handlers))
		for i, h := range n.Handlers {
			handlers[i] = map[string]any{"exc_type": simplify(h.Type), "name": h.Name, "body": simplifyStmts(h.Body)}
		}
		return map[string]any{"type": "Try", "body": simplifyStmts(n.Body), "handlers": handlers, "orelse": simplifyStmts(n.Orelse), "finally": simplifyStmts(n.Finally)}
	case *Raise:
		return map[string]any{"type": "Raise", "exc": simplify(n.Exc), "cause": simplify(n.Cause)}
	case *Assert:
		return map[string]any{"type": "Assert", "test": simplify(n.Test), "msg": simplify(n.Msg)}
	case *Import:
		names := make([]any, len(n.Names))
		for i, a := range n.Names {
			names[i] = map[string]any{"name": a.Name, "as_name": a.AsName}
		}
		return map[string]any{"type": "Import", "names": names}
	case *ImportFrom:
		names := make([]any, len(n.Names))
		for i, a := range n.Names {
			names[i] = map[string]any{"name": a.Name, "as_name": a.AsName}
		}
		return map[string]any{"type": "ImportFrom", "module": n.Module, "level": n.Level, "names": names}
	case *With:
		items := make([]any, len(n.Items))
		for i, it := range n.Items {
			items[i] = map[string]any{"context": simplify(it.Context), "as_name": simplify(it.AsName)}
		}
		return map[string]any{"type": "With", "items": items, "body": simplifyStmts(n.Body)}
	case *Pass:
		return map[string]any{"type": "Pass"}
	case *Break:
		return map[string]any{"type": "Break"}
	case *Continue:
		return map[string]any{"type": "Continue"}
	case *Global:
		return map[string]any{"type": "Global", "names": n.Names}
	case *Nonlocal:
		return map[string]any{"type": "Nonlocal", "names": n.Names}
	case *Del:
		return map[string]any{"type": "Del", "targets": simplifyExprs(n.Targets)}
	case *ExprStmt:
		return map[string]any{"type": "ExprStmt", "value": simplify(n.Value)}
	case *YieldStmt:
		return map[string]any{"type": "YieldStmt", "value": simplify(n.Value), "from": n.From}
	case *Constant:
		return map[string]any{"type": "Constant", "value": n.Value}
	case *Name:
		return map[string]any{"type": "Name", "id": n.Id}
	case *Attribute:
		return map[string]any{"type": "Attribute", "value": simplify(n.Value), "attr": n.Attr}
	case *Subscript:
		return map[string]any{"type": "Subscript", "value": simplify(n.Value), "index": simplify(n.Index)}
	case *Slice:
		return map[string]any{"type": "Slice", "lower": simplify(n.Lower), "upper": simplify(n.Upper), "step": simplify(n.Step)}
	case *Call:
		kwargs := make([]any, len(n.Keywords))
		for i, k := range n.Keywords {
			kwargs[i] = map[string]any{"name": k.Name, "value": simplify(k.Value)}
		}
		return map[string]any{"type": "Call", "func": simplify(n.Func), "args": simplifyExprs(n.Args), "star_args": simplify(n.StarArgs), "keywords": kwargs}
	case *BinOp:
		return map[string]any{"type": "BinOp", "left": simplify(n.Left), "op": n.Op, "right": simplify(n.Right)}
	case *UnaryOp:
		return map[string]any{"type": "UnaryOp", "op": n.Op, "operand": simplify(n.Operand)}
	case *BoolOp:
		return map[string]any{"type": "BoolOp", "op": n.Op, "values": simplifyExprs(n.Values)}
	case *Compare:
		return map[string]any{"type": "Compare", "left": simplify(n.Left), "ops": n.Ops, "comparators": simplifyExprs(n.Comparators)}
	case *ListExpr:
		return map[string]any{"type": "List", "elts": simplifyExprs(n.Elts)}
	case *TupleExpr:
		return map[string]any{"type": "Tuple", "elts": simplifyExprs(n.Elts)}
	case *SetExpr:
		return map[string]any{"type": "Set", "elts": simplifyExprs(n.Elts)}
	case *DictExpr:
		entries := make([]any, len(n.Entries))
		for i, e := range n.Entries {
			entries[i] = map[string]any{"key": simplify(e.Key), "value": simplify(e.Value)}
		}
		return map[string]any{"type": "Dict", "entries": entries}
	case *ListComp:
		return map[string]any{"type": "ListComp", "elt": simplify(n.Elt), "clauses": simplifyClauses(n.Clauses)}
	case *SetComp:
		return map[string]any{"type": "SetComp", "elt": simplify(n.Elt), "clauses": simplifyClauses(n.Clauses)}
	case *GenExp:
		return map[string]any{"type": "GenExp", "elt": simplify(n.Elt), "clauses": simplifyClauses(n.Clauses)}
	case *DictComp:
		return map[string]any{"type": "DictComp", "key": simplify(n.Key), "value": simplify(n.Value), "clauses": simplifyClauses(n.Clauses)}
	case *Lambda:
		params := make([]any, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Name
		}
		return map[string]any{"type": "Lambda", "params": params, "body": simplify(n.Body)}
	case *IfExpr:
		return map[string]any{"type": "IfExpr", "test": simplify(n.Test), "body": simplify(n.Body), "orelse": simplify(n.Orelse)}
	case *Starred:
		return map[string]any{"type": "Starred", "value": simplify(n.Value)}
	case *FString:
		parts := make([]any, len(n.Parts))
		for i, p := range n.Parts {
			if p.Expr != nil {
				parts[i] = map[string]any{"expr": simplify(p.Expr)}
			} else {
				parts[i] = map[string]any{"literal": p.Literal}
			}
		}
		return map[string]any{"type": "FString", "parts": parts}
	case *Await:
		return map[string]any{"type": "Await", "value": simplify(n.Value)}
	default:
		return map[string]any{"type": fmt.Sprintf("%T", node)}
	}
}
