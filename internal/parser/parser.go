// Package parser implements a recursive-descent/Pratt parser that turns a
// pyzig token stream into an ast.Module for the supported Python subset.
package parser

import (
	"fmt"

	"github.com/sunholo/pyzig/internal/ast"
	"github.com/sunholo/pyzig/internal/errors"
	"github.com/sunholo/pyzig/internal/lexer"
	"github.com/sunholo/pyzig/internal/token"
)

// Parser consumes a pre-lexed token stream and builds an AST.
type Parser struct {
	toks []token.Token
	pos  int
	file string

	prefixParseFns map[token.Kind]func() (ast.Expr, *errors.Report)
	infixParseFns  map[token.Kind]func(ast.Expr) (ast.Expr, *errors.Report)
}

// Precedence levels, lowest to highest. `**` binds tighter than unary minus
// on its left operand but is parsed right-associative explicitly in
// parsePower; everything else is left-associative via precedence climbing.
const (
	LOWEST int = iota
	TERNARY
	LOGICAL_OR
	LOGICAL_AND
	LOGICAL_NOT
	COMPARISON
	BITOR
	BITXOR
	BITAND
	SHIFT
	SUM
	PRODUCT
	UNARY
	POWER
	CALL
)

var precedences = map[token.Kind]int{
	token.OR:          LOGICAL_OR,
	token.AND:         LOGICAL_AND,
	token.LT:          COMPARISON,
	token.GT:          COMPARISON,
	token.LE:          COMPARISON,
	token.GE:          COMPARISON,
	token.EQ:          COMPARISON,
	token.NE:          COMPARISON,
	token.IN:          COMPARISON,
	token.IS:          COMPARISON,
	token.NOT:         COMPARISON, // only relevant as the start of `not in`
	token.PIPE:        BITOR,
	token.CARET:       BITXOR,
	token.AMP:         BITAND,
	token.LSHIFT:      SHIFT,
	token.RSHIFT:      SHIFT,
	token.PLUS:        SUM,
	token.MINUS:       SUM,
	token.STAR:        PRODUCT,
	token.SLASH:       PRODUCT,
	token.DOUBLESLASH: PRODUCT,
	token.PERCENT:     PRODUCT,
	token.AT:          PRODUCT,
	token.DOUBLESTAR:  POWER,
	token.LPAREN:      CALL,
	token.LBRACKET:    CALL,
	token.DOT:         CALL,
}

// ParseFile tokenizes and parses source in one call.
func ParseFile(source []byte, file string) (*ast.Module, *errors.Report) {
	toks, rep := lexer.Tokenize(source, file)
	if rep != nil {
		return nil, rep
	}
	return Parse(toks, file)
}

// Parse builds an ast.Module from a pre-lexed token stream.
func Parse(toks []token.Token, file string) (*ast.Module, *errors.Report) {
	p := &Parser{toks: toks, file: file}
	p.registerExprParsers()

	mod := &ast.Module{Path: file, Pos: p.curPos()}
	for !p.atEOF() {
		if p.curIs(token.NEWLINE) {
			p.advance()
			continue
		}
		stmt, rep := p.parseStatement()
		if rep != nil {
			return nil, rep
		}
		mod.Body = append(mod.Body, stmt)
	}
	return mod, nil
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos+1]
}

func (p *Parser) curPos() ast.Pos { return p.cur().Pos }

func (p *Parser) curIs(k token.Kind) bool  { return p.cur().Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peek().Kind == k }
func (p *Parser) atEOF() bool              { return p.curIs(token.EOF) }

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k token.Kind) (token.Token, *errors.Report) {
	if !p.curIs(k) {
		return token.Token{}, p.errorf("PAR001", "expected %v, got %v %q", k, p.cur().Kind, p.cur().Literal)
	}
	return p.advance(), nil
}

func (p *Parser) errorf(code, format string, args ...any) *errors.Report {
	return errors.New(code, "parser", fmt.Sprintf(format, args...), &p.cur().Pos)
}

// skipNewlines consumes zero or more NEWLINE tokens (blank lines between
// statements collapse to nothing in the AST).
func (p *Parser) skipNewlines() {
	for p.curIs(token.NEWLINE) {
		p.advance()
	}
}

// ---- Statements -------------------------------------------------------

func (p *Parser) parseBlock() ([]ast.Stmt, *errors.Report) {
	if _, rep := p.expect(token.COLON); rep != nil {
		return nil, rep
	}
	if p.curIs(token.NEWLINE) {
		p.advance()
		if _, rep := p.expect(token.INDENT); rep != nil {
			return nil, rep
		}
		var body []ast.Stmt
		for !p.curIs(token.DEDENT) && !p.atEOF() {
			if p.curIs(token.NEWLINE) {
				p.advance()
				continue
			}
			stmt, rep := p.parseStatement()
			if rep != nil {
				return nil, rep
			}
			body = append(body, stmt)
		}
		if _, rep := p.expect(token.DEDENT); rep != nil {
			return nil, rep
		}
		return body, nil
	}
	// single-line suite: `if x: y = 1`
	return p.parseSimpleStatementLine()
}

// parseSimpleStatementLine parses one or more semicolon-separated simple
// statements terminated by NEWLINE or EOF.
func (p *Parser) parseSimpleStatementLine() ([]ast.Stmt, *errors.Report) {
	var out []ast.Stmt
	for {
		stmt, rep := p.parseSimpleStatement()
		if rep != nil {
			return nil, rep
		}
		out = append(out, stmt)
		if p.curIs(token.SEMI) {
			p.advance()
			if p.curIs(token.NEWLINE) || p.atEOF() {
				break
			}
			continue
		}
		break
	}
	if p.curIs(token.NEWLINE) {
		p.advance()
	}
	return out, nil
}

func (p *Parser) parseStatement() (ast.Stmt, *errors.Report) {
	switch p.cur().Kind {
	case token.DEF:
		return p.parseFunctionDef(false)
	case token.ASYNC:
		if p.peekIs(token.DEF) {
			p.advance()
			return p.parseFunctionDef(true)
		}
		return p.parseCompoundOrSimple()
	case token.CLASS:
		return p.parseClassDef()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.TRY:
		return p.parseTry()
	case token.WITH:
		return p.parseWith()
	case token.AT:
		return p.parseDecorated()
	default:
		return p.parseCompoundOrSimple()
	}
}

// parseCompoundOrSimple handles the remaining statement kinds, all of
// which are "simple" (single logical line, possibly semicolon-chained).
func (p *Parser) parseCompoundOrSimple() (ast.Stmt, *errors.Report) {
	stmts, rep := p.parseSimpleStatementLine()
	if rep != nil {
		return nil, rep
	}
	if len(stmts) == 1 {
		return stmts[0], nil
	}
	// Multiple simple statements on one line collapse into a synthetic
	// block so the caller always receives exactly one ast.Stmt; codegen
	// flattens single-statement blocks transparently.
	return &ast.If{Cond: &ast.Constant{Kind: ast.ConstBool, Value: true}, Body: stmts, Pos: stmts[0].Position()}, nil
}

func (p *Parser) parseDecorated() (ast.Stmt, *errors.Report) {
	var decorators []ast.Expr
	for p.curIs(token.AT) {
		p.advance()
		expr, rep := p.parseExpr(LOWEST)
		if rep != nil {
			return nil, rep
		}
		decorators = append(decorators, expr)
		if _, rep := p.expect(token.NEWLINE); rep != nil {
			return nil, rep
		}
	}
	var stmt ast.Stmt
	var rep *errors.Report
	switch p.cur().Kind {
	case token.DEF:
		stmt, rep = p.parseFunctionDef(false)
	case token.ASYNC:
		p.advance()
		stmt, rep = p.parseFunctionDef(true)
	case token.CLASS:
		stmt, rep = p.parseClassDef()
	default:
		return nil, p.errorf("PAR003", "decorators must precede a function or class definition")
	}
	if rep != nil {
		return nil, rep
	}
	if fn, ok := stmt.(*ast.FunctionDef); ok {
		fn.Decorators = decorators
	}
	if cls, ok := stmt.(*ast.ClassDef); ok {
		_ = cls // class decorators are accepted syntactically but not specially lowered
	}
	return stmt, nil
}

func (p *Parser) parseFunctionDef(isAsync bool) (ast.Stmt, *errors.Report) {
	pos := p.curPos()
	if _, rep := p.expect(token.DEF); rep != nil {
		return nil, rep
	}
	nameTok, rep := p.expect(token.IDENT)
	if rep != nil {
		return nil, rep
	}
	if _, rep := p.expect(token.LPAREN); rep != nil {
		return nil, rep
	}
	params, rep := p.parseParams()
	if rep != nil {
		return nil, rep
	}
	if _, rep := p.expect(token.RPAREN); rep != nil {
		return nil, rep
	}
	var retType ast.Expr
	if p.curIs(token.ARROW) {
		p.advance()
		retType, rep = p.parseExpr(LOWEST)
		if rep != nil {
			return nil, rep
		}
	}
	body, rep := p.parseBlock()
	if rep != nil {
		return nil, rep
	}
	return &ast.FunctionDef{
		Name: nameTok.Literal, Params: params, ReturnType: retType,
		Body: body, IsAsync: isAsync, Pos: pos,
	}, nil
}

func (p *Parser) parseParams() ([]*ast.Param, *errors.Report) {
	var params []*ast.Param
	for !p.curIs(token.RPAREN) {
		param := &ast.Param{Pos: p.curPos()}
		if p.curIs(token.DOUBLESTAR) {
			p.advance()
			param.StarKwargs = true
		} else if p.curIs(token.STAR) {
			p.advance()
			param.StarArgs = true
			if p.curIs(token.COMMA) || p.curIs(token.RPAREN) {
				// bare `*` marker: keyword-only separator, not a real param
				if p.curIs(token.COMMA) {
					p.advance()
				}
				continue
			}
		}
		nameTok, rep := p.expect(token.IDENT)
		if rep != nil {
			return nil, rep
		}
		param.Name = nameTok.Literal
		if p.curIs(token.COLON) {
			p.advance()
			ann, rep := p.parseExpr(TERNARY + 1)
			if rep != nil {
				return nil, rep
			}
			param.Annotation = ann
		}
		if p.curIs(token.ASSIGN) {
			p.advance()
			def, rep := p.parseExpr(TERNARY + 1)
			if rep != nil {
				return nil, rep
			}
			param.Default = def
		}
		params = append(params, param)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return params, nil
}

func (p *Parser) parseClassDef() (ast.Stmt, *errors.Report) {
	pos := p.curPos()
	if _, rep := p.expect(token.CLASS); rep != nil {
		return nil, rep
	}
	nameTok, rep := p.expect(token.IDENT)
	if rep != nil {
		return nil, rep
	}
	var bases []ast.Expr
	if p.curIs(token.LPAREN) {
		p.advance()
		for !p.curIs(token.RPAREN) {
			b, rep := p.parseExpr(LOWEST)
			if rep != nil {
				return nil, rep
			}
			bases = append(bases, b)
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if _, rep := p.expect(token.RPAREN); rep != nil {
			return nil, rep
		}
	}
	if len(bases) > 1 {
		return nil, p.errorf("UNS003", "multiple inheritance is not supported; use a single base class")
	}
	body, rep := p.parseBlock()
	if rep != nil {
		return nil, rep
	}
	return &ast.ClassDef{Name: nameTok.Literal, Bases: bases, Body: body, Pos: pos}, nil
}

func (p *Parser) parseIf() (ast.Stmt, *errors.Report) {
	pos := p.curPos()
	p.advance() // `if`
	cond, rep := p.parseExpr(LOWEST)
	if rep != nil {
		return nil, rep
	}
	body, rep := p.parseBlock()
	if rep != nil {
		return nil, rep
	}
	node := &ast.If{Cond: cond, Body: body, Pos: pos}
	switch p.cur().Kind {
	case token.ELIF:
		elif, rep := p.parseElif()
		if rep != nil {
			return nil, rep
		}
		node.Orelse = []ast.Stmt{elif}
	case token.ELSE:
		p.advance()
		orelse, rep := p.parseBlock()
		if rep != nil {
			return nil, rep
		}
		node.Orelse = orelse
	}
	return node, nil
}

func (p *Parser) parseElif() (ast.Stmt, *errors.Report) {
	pos := p.curPos()
	p.advance() // `elif`
	cond, rep := p.parseExpr(LOWEST)
	if rep != nil {
		return nil, rep
	}
	body, rep := p.parseBlock()
	if rep != nil {
		return nil, rep
	}
	node := &ast.If{Cond: cond, Body: body, Pos: pos}
	switch p.cur().Kind {
	case token.ELIF:
		elif, rep := p.parseElif()
		if rep != nil {
			return nil, rep
		}
		node.Orelse = []ast.Stmt{elif}
	case token.ELSE:
		p.advance()
		orelse, rep := p.parseBlock()
		if rep != nil {
			return nil, rep
		}
		node.Orelse = orelse
	}
	return node, nil
}

func (p *Parser) parseWhile() (ast.Stmt, *errors.Report) {
	pos := p.curPos()
	p.advance()
	cond, rep := p.parseExpr(LOWEST)
	if rep != nil {
		return nil, rep
	}
	body, rep := p.parseBlock()
	if rep != nil {
		return nil, rep
	}
	node := &ast.While{Cond: cond, Body: body, Pos: pos}
	if p.curIs(token.ELSE) {
		p.advance()
		orelse, rep := p.parseBlock()
		if rep != nil {
			return nil, rep
		}
		node.Orelse = orelse
	}
	return node, nil
}

func (p *Parser) parseFor() (ast.Stmt, *errors.Report) {
	pos := p.curPos()
	p.advance()
	target, rep := p.parseTargetList()
	if rep != nil {
		return nil, rep
	}
	if _, rep := p.expect(token.IN); rep != nil {
		return nil, rep
	}
	iter, rep := p.parseExprList()
	if rep != nil {
		return nil, rep
	}
	body, rep := p.parseBlock()
	if rep != nil {
		return nil, rep
	}
	node := &ast.For{Target: target, Iter: iter, Body: body, Pos: pos}
	if p.curIs(token.ELSE) {
		p.advance()
		orelse, rep := p.parseBlock()
		if rep != nil {
			return nil, rep
		}
		node.Orelse = orelse
	}
	return node, nil
}

// parseTargetList parses a comma-separated assignment target, wrapping
// more than one element in a TupleExpr (e.g. `for k, v in items`).
func (p *Parser) parseTargetList() (ast.Expr, *errors.Report) {
	first, rep := p.parseExpr(TERNARY + 1)
	if rep != nil {
		return nil, rep
	}
	if !p.curIs(token.COMMA) {
		return first, nil
	}
	elts := []ast.Expr{first}
	for p.curIs(token.COMMA) {
		p.advance()
		if p.curIs(token.IN) {
			break
		}
		e, rep := p.parseExpr(TERNARY + 1)
		if rep != nil {
			return nil, rep
		}
		elts = append(elts, e)
	}
	return &ast.TupleExpr{Elts: elts, Pos: first.Position()}, nil
}

// parseExprList parses a comma-separated expression list, wrapping more
// than one element in a TupleExpr.
func (p *Parser) parseExprList() (ast.Expr, *errors.Report) {
	first, rep := p.parseExpr(LOWEST)
	if rep != nil {
		return nil, rep
	}
	if !p.curIs(token.COMMA) {
		return first, nil
	}
	elts := []ast.Expr{first}
	for p.curIs(token.COMMA) {
		p.advance()
		if p.curIs(token.COLON) || p.curIs(token.NEWLINE) {
			break
		}
		e, rep := p.parseExpr(LOWEST)
		if rep != nil {
			return nil, rep
		}
		elts = append(elts, e)
	}
	return &ast.TupleExpr{Elts: elts, Pos: first.Position()}, nil
}

func (p *Parser) parseTry() (ast.Stmt, *errors.Report) {
	pos := p.curPos()
	p.advance()
	body, rep := p.parseBlock()
	if rep != nil {
		return nil, rep
	}
	node := &ast.Try{Body: body, Pos: pos}
	for p.curIs(token.EXCEPT) {
		hpos := p.curPos()
		p.advance()
		h := &ast.ExceptHandler{Pos: hpos}
		if !p.curIs(token.COLON) {
			typ, rep := p.parseExpr(LOWEST)
			if rep != nil {
				return nil, rep
			}
			h.Type = typ
			if p.curIs(token.AS) {
				p.advance()
				nameTok, rep := p.expect(token.IDENT)
				if rep != nil {
					return nil, rep
				}
				h.Name = nameTok.Literal
			}
		}
		hbody, rep := p.parseBlock()
		if rep != nil {
			return nil, rep
		}
		h.Body = hbody
		node.Handlers = append(node.Handlers, h)
	}
	if p.curIs(token.ELSE) {
		p.advance()
		orelse, rep := p.parseBlock()
		if rep != nil {
			return nil, rep
		}
		node.Orelse = orelse
	}
	if p.curIs(token.FINALLY) {
		p.advance()
		fin, rep := p.parseBlock()
		if rep != nil {
			return nil, rep
		}
		node.Finally = fin
	}
	return node, nil
}

func (p *Parser) parseWith() (ast.Stmt, *errors.Report) {
	pos := p.curPos()
	p.advance()
	var items []ast.WithItem
	for {
		ctx, rep := p.parseExpr(TERNARY + 1)
		if rep != nil {
			return nil, rep
		}
		item := ast.WithItem{Context: ctx}
		if p.curIs(token.AS) {
			p.advance()
			name, rep := p.parseExpr(TERNARY + 1)
			if rep != nil {
				return nil, rep
			}
			item.AsName = name
		}
		items = append(items, item)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	body, rep := p.parseBlock()
	if rep != nil {
		return nil, rep
	}
	return &ast.With{Items: items, Body: body, Pos: pos}, nil
}

// parseSimpleStatement parses exactly one simple (non-compound) statement,
// stopping before a trailing `;` or NEWLINE.
func (p *Parser) parseSimpleStatement() (ast.Stmt, *errors.Report) {
	pos := p.curPos()
	switch p.cur().Kind {
	case token.PASS:
		p.advance()
		return &ast.Pass{Pos: pos}, nil
	case token.BREAK:
		p.advance()
		return &ast.Break{Pos: pos}, nil
	case token.CONTINUE:
		p.advance()
		return &ast.Continue{Pos: pos}, nil
	case token.RETURN:
		p.advance()
		if p.curIs(token.NEWLINE) || p.curIs(token.SEMI) || p.atEOF() {
			return &ast.Return{Pos: pos}, nil
		}
		v, rep := p.parseExprList()
		if rep != nil {
			return nil, rep
		}
		return &ast.Return{Value: v, Pos: pos}, nil
	case token.RAISE:
		return p.parseRaise()
	case token.ASSERT:
		return p.parseAssert()
	case token.IMPORT:
		return p.parseImport()
	case token.FROM:
		return p.parseImportFrom()
	case token.GLOBAL:
		return p.parseGlobalNonlocal(true)
	case token.NONLOCAL:
		return p.parseGlobalNonlocal(false)
	case token.DEL:
		return p.parseDel()
	case token.YIELD:
		return p.parseYieldStmt()
	default:
		return p.parseExprOrAssignStatement()
	}
}

func (p *Parser) parseRaise() (ast.Stmt, *errors.Report) {
	pos := p.curPos()
	p.advance()
	node := &ast.Raise{Pos: pos}
	if p.curIs(token.NEWLINE) || p.curIs(token.SEMI) || p.atEOF() {
		return node, nil
	}
	exc, rep := p.parseExpr(LOWEST)
	if rep != nil {
		return nil, rep
	}
	node.Exc = exc
	if p.curIs(token.FROM) {
		p.advance()
		cause, rep := p.parseExpr(LOWEST)
		if rep != nil {
			return nil, rep
		}
		node.Cause = cause
	}
	return node, nil
}

func (p *Parser) parseAssert() (ast.Stmt, *errors.Report) {
	pos := p.curPos()
	p.advance()
	test, rep := p.parseExpr(TERNARY + 1)
	if rep != nil {
		return nil, rep
	}
	node := &ast.Assert{Test: test, Pos: pos}
	if p.curIs(token.COMMA) {
		p.advance()
		msg, rep := p.parseExpr(LOWEST)
		if rep != nil {
			return nil, rep
		}
		node.Msg = msg
	}
	return node, nil
}

func (p *Parser) parseDottedName() (string, *errors.Report) {
	tok, rep := p.expect(token.IDENT)
	if rep != nil {
		return "", rep
	}
	name := tok.Literal
	for p.curIs(token.DOT) {
		p.advance()
		part, rep := p.expect(token.IDENT)
		if rep != nil {
			return "", rep
		}
		name += "." + part.Literal
	}
	return name, nil
}

func (p *Parser) parseImport() (ast.Stmt, *errors.Report) {
	pos := p.curPos()
	p.advance()
	node := &ast.Import{Pos: pos}
	for {
		name, rep := p.parseDottedName()
		if rep != nil {
			return nil, rep
		}
		alias := ast.ImportAlias{Name: name}
		if p.curIs(token.AS) {
			p.advance()
			asTok, rep := p.expect(token.IDENT)
			if rep != nil {
				return nil, rep
			}
			alias.AsName = asTok.Literal
		}
		node.Names = append(node.Names, alias)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return node, nil
}

func (p *Parser) parseImportFrom() (ast.Stmt, *errors.Report) {
	pos := p.curPos()
	p.advance()
	level := 0
	for p.curIs(token.DOT) || p.curIs(token.ELLIPSIS) {
		if p.curIs(token.ELLIPSIS) {
			level += 3
		} else {
			level++
		}
		p.advance()
	}
	module := ""
	if !p.curIs(token.IMPORT) {
		var rep *errors.Report
		module, rep = p.parseDottedName()
		if rep != nil {
			return nil, rep
		}
	}
	if _, rep := p.expect(token.IMPORT); rep != nil {
		return nil, rep
	}
	node := &ast.ImportFrom{Module: module, Level: level, Pos: pos}
	if p.curIs(token.STAR) {
		p.advance()
		node.Names = []ast.ImportAlias{{Name: "*"}}
		return node, nil
	}
	paren := p.curIs(token.LPAREN)
	if paren {
		p.advance()
	}
	for {
		nameTok, rep := p.expect(token.IDENT)
		if rep != nil {
			return nil, rep
		}
		alias := ast.ImportAlias{Name: nameTok.Literal}
		if p.curIs(token.AS) {
			p.advance()
			asTok, rep := p.expect(token.IDENT)
			if rep != nil {
				return nil, rep
			}
			alias.AsName = asTok.Literal
		}
		node.Names = append(node.Names, alias)
		if p.curIs(token.COMMA) {
			p.advance()
			if paren && p.curIs(token.RPAREN) {
				break
			}
			continue
		}
		break
	}
	if paren {
		if _, rep := p.expect(token.RPAREN); rep != nil {
			return nil, rep
		}
	}
	return node, nil
}

func (p *Parser) parseGlobalNonlocal(isGlobal bool) (ast.Stmt, *errors.Report) {
	pos := p.curPos()
	p.advance()
	var names []string
	for {
		tok, rep := p.expect(token.IDENT)
		if rep != nil {
			return nil, rep
		}
		names = append(names, tok.Literal)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if isGlobal {
		return &ast.Global{Names: names, Pos: pos}, nil
	}
	return &ast.Nonlocal{Names: names, Pos: pos}, nil
}

func (p *Parser) parseDel() (ast.Stmt, *errors.Report) {
	pos := p.curPos()
	p.advance()
	var targets []ast.Expr
	for {
		e, rep := p.parseExpr(TERNARY + 1)
		if rep != nil {
			return nil, rep
		}
		targets = append(targets, e)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return &ast.Del{Targets: targets, Pos: pos}, nil
}

func (p *Parser) parseYieldStmt() (ast.Stmt, *errors.Report) {
	pos := p.curPos()
	p.advance()
	if p.curIs(token.FROM) {
		return nil, p.errorf("UNS001", "`yield from` is not part of the supported subset")
	}
	node := &ast.YieldStmt{Pos: pos}
	if !p.curIs(token.NEWLINE) && !p.curIs(token.SEMI) && !p.atEOF() {
		v, rep := p.parseExprList()
		if rep != nil {
			return nil, rep
		}
		node.Value = v
	}
	return node, nil
}

// augAssignOps maps augmented-assignment tokens to their base operator.
var augAssignOps = map[token.Kind]string{
	token.PLUSEQ: "+", token.MINUSEQ: "-", token.STAREQ: "*", token.SLASHEQ: "/",
	token.DSLASHEQ: "//", token.PERCENTEQ: "%", token.AMPEQ: "&", token.PIPEEQ: "|",
	token.CARETEQ: "^", token.LSHIFTEQ: "<<", token.RSHIFTEQ: ">>", token.DSTAREQ: "**",
	token.ATEQ: "@",
}

func (p *Parser) parseExprOrAssignStatement() (ast.Stmt, *errors.Report) {
	pos := p.curPos()
	first, rep := p.parseExprList()
	if rep != nil {
		return nil, rep
	}

	switch {
	case p.curIs(token.COLON):
		p.advance()
		ann, rep := p.parseExpr(TERNARY + 1)
		if rep != nil {
			return nil, rep
		}
		node := &ast.AnnAssign{Target: first, Annotation: ann, Pos: pos}
		if p.curIs(token.ASSIGN) {
			p.advance()
			val, rep := p.parseExprList()
			if rep != nil {
				return nil, rep
			}
			node.Value = val
		}
		return node, nil

	case p.curIs(token.ASSIGN):
		// Chained assignment `a = b = value`: every `=`-separated expr
		// except the last one parsed is a target.
		exprs := []ast.Expr{first}
		for p.curIs(token.ASSIGN) {
			p.advance()
			v, rep := p.parseExprList()
			if rep != nil {
				return nil, rep
			}
			exprs = append(exprs, v)
		}
		value := exprs[len(exprs)-1]
		targets := exprs[:len(exprs)-1]
		return &ast.Assign{Targets: targets, Value: value, Pos: pos}, nil

	default:
		if op, ok := augAssignOps[p.cur().Kind]; ok {
			p.advance()
			val, rep := p.parseExprList()
			if rep != nil {
				return nil, rep
			}
			return &ast.AugAssign{Target: first, Op: op, Value: val, Pos: pos}, nil
		}
		return &ast.ExprStmt{Value: first, Pos: pos}, nil
	}
}
