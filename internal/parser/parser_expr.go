package parser

import (
	"strconv"
	"strings"

	"github.com/sunholo/pyzig/internal/ast"
	"github.com/sunholo/pyzig/internal/errors"
	"github.com/sunholo/pyzig/internal/token"
)

func (p *Parser) registerExprParsers() {
	p.prefixParseFns = map[token.Kind]func() (ast.Expr, *errors.Report){
		token.IDENT:      p.parseName,
		token.INT:        p.parseIntLiteral,
		token.FLOAT:      p.parseFloatLiteral,
		token.STRING:     p.parseStringLiteral,
		token.FSTRING:    p.parseFString,
		token.BYTES:      p.parseBytesLiteral,
		token.TRUE:       p.parseBoolLiteral,
		token.FALSE:      p.parseBoolLiteral,
		token.NONE:       p.parseNoneLiteral,
		token.ELLIPSIS:   p.parseEllipsisLiteral,
		token.LPAREN:     p.parseParenOrTuple,
		token.LBRACKET:   p.parseListOrComp,
		token.LBRACE:     p.parseDictOrSetOrComp,
		token.MINUS:      p.parseUnary,
		token.PLUS:       p.parseUnary,
		token.TILDE:      p.parseUnary,
		token.NOT:        p.parseUnary,
		token.STAR:       p.parseStarred,
		token.LAMBDA:     p.parseLambda,
		token.AWAIT:      p.parseAwait,
	}
	p.infixParseFns = map[token.Kind]func(ast.Expr) (ast.Expr, *errors.Report){
		token.PLUS:        p.parseBinOp,
		token.MINUS:       p.parseBinOp,
		token.STAR:        p.parseBinOp,
		token.SLASH:       p.parseBinOp,
		token.DOUBLESLASH: p.parseBinOp,
		token.PERCENT:     p.parseBinOp,
		token.AT:          p.parseBinOp,
		token.PIPE:        p.parseBinOp,
		token.CARET:       p.parseBinOp,
		token.AMP:         p.parseBinOp,
		token.LSHIFT:      p.parseBinOp,
		token.RSHIFT:      p.parseBinOp,
		token.DOUBLESTAR:  p.parsePower,
		token.AND:         p.parseBoolOp,
		token.OR:          p.parseBoolOp,
		token.LT:          p.parseCompare,
		token.GT:          p.parseCompare,
		token.LE:          p.parseCompare,
		token.GE:          p.parseCompare,
		token.EQ:          p.parseCompare,
		token.NE:          p.parseCompare,
		token.IN:          p.parseCompare,
		token.IS:          p.parseCompare,
		token.NOT:         p.parseCompare, // `x not in y`
		token.LPAREN:      p.parseCall,
		token.LBRACKET:    p.parseSubscript,
		token.DOT:         p.parseAttribute,
	}
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.cur().Kind]; ok {
		return pr
	}
	return LOWEST
}

// parseExpr parses an expression, then wraps it in an IfExpr ternary if
// followed by `if`, stopping at precedence boundaries per the Pratt table.
// The conditional expression `a if b else c` binds looser than everything
// handled below LOWEST, so it is checked once at the top level.
func (p *Parser) parseExpr(minPrec int) (ast.Expr, *errors.Report) {
	prefix, ok := p.prefixParseFns[p.cur().Kind]
	if !ok {
		return nil, p.errorf("PAR002", "unexpected token %v %q in expression", p.cur().Kind, p.cur().Literal)
	}
	left, rep := prefix()
	if rep != nil {
		return nil, rep
	}

	for minPrec < p.peekPrecedence() {
		infix, ok := p.infixParseFns[p.cur().Kind]
		if !ok {
			break
		}
		left, rep = infix(left)
		if rep != nil {
			return nil, rep
		}
	}

	if minPrec <= TERNARY && p.curIs(token.IF) {
		pos := left.Position()
		p.advance()
		test, rep := p.parseExpr(TERNARY + 1)
		if rep != nil {
			return nil, rep
		}
		if _, rep := p.expect(token.ELSE); rep != nil {
			return nil, rep
		}
		orelse, rep := p.parseExpr(TERNARY)
		if rep != nil {
			return nil, rep
		}
		left = &ast.IfExpr{Test: test, Body: left, Orelse: orelse, Pos: pos}
	}

	return left, nil
}

func (p *Parser) parseName() (ast.Expr, *errors.Report) {
	tok := p.advance()
	return &ast.Name{Id: tok.Literal, Pos: tok.Pos}, nil
}

func (p *Parser) parseIntLiteral() (ast.Expr, *errors.Report) {
	tok := p.advance()
	lit := strings.ReplaceAll(tok.Literal, "_", "")
	base := 10
	switch {
	case strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X"):
		base, lit = 16, lit[2:]
	case strings.HasPrefix(lit, "0o") || strings.HasPrefix(lit, "0O"):
		base, lit = 8, lit[2:]
	case strings.HasPrefix(lit, "0b") || strings.HasPrefix(lit, "0B"):
		base, lit = 2, lit[2:]
	}
	v, err := strconv.ParseInt(lit, base, 64)
	if err != nil {
		// outside int64 range: preserved as bigint via decimal string,
		// resolved precisely during type inference / codegen.
		return &ast.Constant{Kind: ast.ConstInt, Value: lit, Pos: tok.Pos}, nil
	}
	return &ast.Constant{Kind: ast.ConstInt, Value: v, Pos: tok.Pos}, nil
}

func (p *Parser) parseFloatLiteral() (ast.Expr, *errors.Report) {
	tok := p.advance()
	lit := strings.ReplaceAll(tok.Literal, "_", "")
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, p.errorf("PAR004", "malformed float literal %q", tok.Literal)
	}
	return &ast.Constant{Kind: ast.ConstFloat, Value: v, Pos: tok.Pos}, nil
}

func (p *Parser) parseStringLiteral() (ast.Expr, *errors.Report) {
	tok := p.advance()
	return &ast.Constant{Kind: ast.ConstString, Value: tok.Literal, Pos: tok.Pos}, nil
}

func (p *Parser) parseBytesLiteral() (ast.Expr, *errors.Report) {
	tok := p.advance()
	return &ast.Constant{Kind: ast.ConstBytes, Value: []byte(tok.Literal), Pos: tok.Pos}, nil
}

func (p *Parser) parseBoolLiteral() (ast.Expr, *errors.Report) {
	tok := p.advance()
	return &ast.Constant{Kind: ast.ConstBool, Value: tok.Kind == token.TRUE, Pos: tok.Pos}, nil
}

func (p *Parser) parseNoneLiteral() (ast.Expr, *errors.Report) {
	tok := p.advance()
	return &ast.Constant{Kind: ast.ConstNone, Value: nil, Pos: tok.Pos}, nil
}

func (p *Parser) parseEllipsisLiteral() (ast.Expr, *errors.Report) {
	tok := p.advance()
	return &ast.Constant{Kind: ast.ConstEllipsis, Value: "...", Pos: tok.Pos}, nil
}

// parseFString splits an f-string literal's raw text into alternating
// literal-text and `{expr}` segments, parsing each embedded expression
// with its own sub-parser over a fresh token stream.
func (p *Parser) parseFString() (ast.Expr, *errors.Report) {
	tok := p.advance()
	fs := &ast.FString{Pos: tok.Pos}
	raw := tok.Literal
	var lit strings.Builder
	i := 0
	for i < len(raw) {
		ch := raw[i]
		switch {
		case ch == '{' && i+1 < len(raw) && raw[i+1] == '{':
			lit.WriteByte('{')
			i += 2
		case ch == '}' && i+1 < len(raw) && raw[i+1] == '}':
			lit.WriteByte('}')
			i += 2
		case ch == '{':
			if lit.Len() > 0 {
				fs.Parts = append(fs.Parts, ast.FStringPart{Literal: lit.String()})
				lit.Reset()
			}
			depth := 1
			start := i + 1
			j := start
			for j < len(raw) && depth > 0 {
				switch raw[j] {
				case '{':
					depth++
				case '}':
					depth--
					if depth == 0 {
						break
					}
				}
				if depth > 0 {
					j++
				}
			}
			if depth != 0 {
				return nil, p.errorf("PAR002", "unterminated f-string expression")
			}
			exprSrc := raw[start:j]
			if colon := strings.LastIndex(exprSrc, "!"); colon >= 0 && colon == len(exprSrc)-2 {
				exprSrc = exprSrc[:colon]
			}
			sub, rep := subParseExpr(exprSrc, tok.Pos)
			if rep != nil {
				return nil, rep
			}
			fs.Parts = append(fs.Parts, ast.FStringPart{Expr: sub})
			i = j + 1
		default:
			lit.WriteByte(ch)
			i++
		}
	}
	if lit.Len() > 0 {
		fs.Parts = append(fs.Parts, ast.FStringPart{Literal: lit.String()})
	}
	return fs, nil
}

// subParseExpr lexes and parses a single expression extracted from inside
// an f-string brace, reusing the main lexer/parser over the fragment.
func subParseExpr(src string, pos ast.Pos) (ast.Expr, *errors.Report) {
	mod, rep := ParseFile([]byte(src), pos.File)
	if rep != nil {
		return nil, rep
	}
	if len(mod.Body) != 1 {
		return nil, errors.New("PAR002", "parser", "f-string expression must be a single expression", &pos)
	}
	exprStmt, ok := mod.Body[0].(*ast.ExprStmt)
	if !ok {
		return nil, errors.New("PAR002", "parser", "f-string expression must be a single expression", &pos)
	}
	return exprStmt.Value, nil
}

func (p *Parser) parseParenOrTuple() (ast.Expr, *errors.Report) {
	pos := p.curPos()
	p.advance() // `(`
	if p.curIs(token.RPAREN) {
		p.advance()
		return &ast.TupleExpr{Pos: pos}, nil
	}
	first, rep := p.parseExprOrStarred()
	if rep != nil {
		return nil, rep
	}
	if clauses, genRep, isGen := p.tryParseCompClauses(); isGen {
		if genRep != nil {
			return nil, genRep
		}
		if _, rep := p.expect(token.RPAREN); rep != nil {
			return nil, rep
		}
		return &ast.GenExp{Elt: first, Clauses: clauses, Pos: pos}, nil
	}
	if !p.curIs(token.COMMA) {
		if _, rep := p.expect(token.RPAREN); rep != nil {
			return nil, rep
		}
		return first, nil
	}
	elts := []ast.Expr{first}
	for p.curIs(token.COMMA) {
		p.advance()
		if p.curIs(token.RPAREN) {
			break
		}
		e, rep := p.parseExprOrStarred()
		if rep != nil {
			return nil, rep
		}
		elts = append(elts, e)
	}
	if _, rep := p.expect(token.RPAREN); rep != nil {
		return nil, rep
	}
	return &ast.TupleExpr{Elts: elts, Pos: pos}, nil
}

func (p *Parser) parseExprOrStarred() (ast.Expr, *errors.Report) {
	if p.curIs(token.STAR) {
		pos := p.curPos()
		p.advance()
		v, rep := p.parseExpr(TERNARY + 1)
		if rep != nil {
			return nil, rep
		}
		return &ast.Starred{Value: v, Pos: pos}, nil
	}
	return p.parseExpr(TERNARY + 1)
}

// tryParseCompClauses parses `for target in iter if cond ...` clauses if
// the current token starts one; isGen reports whether any were found.
func (p *Parser) tryParseCompClauses() (clauses []ast.CompClause, rep *errors.Report, isGen bool) {
	if !p.curIs(token.FOR) && !(p.curIs(token.ASYNC) && p.peekIs(token.FOR)) {
		return nil, nil, false
	}
	for p.curIs(token.FOR) || (p.curIs(token.ASYNC) && p.peekIs(token.FOR)) {
		isAsync := false
		if p.curIs(token.ASYNC) {
			isAsync = true
			p.advance()
		}
		p.advance() // `for`
		target, rep := p.parseTargetList()
		if rep != nil {
			return nil, rep, true
		}
		if _, r := p.expect(token.IN); r != nil {
			return nil, r, true
		}
		iter, rep := p.parseExpr(TERNARY + 1)
		if rep != nil {
			return nil, rep, true
		}
		clause := ast.CompClause{Target: target, Iter: iter, IsAsync: isAsync}
		for p.curIs(token.IF) {
			p.advance()
			cond, rep := p.parseExpr(TERNARY + 1)
			if rep != nil {
				return nil, rep, true
			}
			clause.Ifs = append(clause.Ifs, cond)
		}
		clauses = append(clauses, clause)
	}
	return clauses, nil, true
}

func (p *Parser) parseListOrComp() (ast.Expr, *errors.Report) {
	pos := p.curPos()
	p.advance() // `[`
	if p.curIs(token.RBRACKET) {
		p.advance()
		return &ast.ListExpr{Pos: pos}, nil
	}
	first, rep := p.parseExprOrStarred()
	if rep != nil {
		return nil, rep
	}
	if clauses, genRep, isComp := p.tryParseCompClauses(); isComp {
		if genRep != nil {
			return nil, genRep
		}
		if _, rep := p.expect(token.RBRACKET); rep != nil {
			return nil, rep
		}
		return &ast.ListComp{Elt: first, Clauses: clauses, Pos: pos}, nil
	}
	elts := []ast.Expr{first}
	for p.curIs(token.COMMA) {
		p.advance()
		if p.curIs(token.RBRACKET) {
			break
		}
		e, rep := p.parseExprOrStarred()
		if rep != nil {
			return nil, rep
		}
		elts = append(elts, e)
	}
	if _, rep := p.expect(token.RBRACKET); rep != nil {
		return nil, rep
	}
	return &ast.ListExpr{Elts: elts, Pos: pos}, nil
}

func (p *Parser) parseDictOrSetOrComp() (ast.Expr, *errors.Report) {
	pos := p.curPos()
	p.advance() // `{`
	if p.curIs(token.RBRACE) {
		p.advance()
		return &ast.DictExpr{Pos: pos}, nil
	}
	if p.curIs(token.DOUBLESTAR) {
		p.advance()
		v, rep := p.parseExpr(TERNARY + 1)
		if rep != nil {
			return nil, rep
		}
		entries := []ast.DictEntry{{Key: nil, Value: v}}
		return p.finishDict(pos, entries)
	}
	first, rep := p.parseExpr(TERNARY + 1)
	if rep != nil {
		return nil, rep
	}
	if p.curIs(token.COLON) {
		p.advance()
		val, rep := p.parseExpr(TERNARY + 1)
		if rep != nil {
			return nil, rep
		}
		if clauses, genRep, isComp := p.tryParseCompClauses(); isComp {
			if genRep != nil {
				return nil, genRep
			}
			if _, rep := p.expect(token.RBRACE); rep != nil {
				return nil, rep
			}
			return &ast.DictComp{Key: first, Value: val, Clauses: clauses, Pos: pos}, nil
		}
		return p.finishDict(pos, []ast.DictEntry{{Key: first, Value: val}})
	}
	// set literal or set comprehension
	if clauses, genRep, isComp := p.tryParseCompClauses(); isComp {
		if genRep != nil {
			return nil, genRep
		}
		if _, rep := p.expect(token.RBRACE); rep != nil {
			return nil, rep
		}
		return &ast.SetComp{Elt: first, Clauses: clauses, Pos: pos}, nil
	}
	elts := []ast.Expr{first}
	for p.curIs(token.COMMA) {
		p.advance()
		if p.curIs(token.RBRACE) {
			break
		}
		e, rep := p.parseExpr(TERNARY + 1)
		if rep != nil {
			return nil, rep
		}
		elts = append(elts, e)
	}
	if _, rep := p.expect(token.RBRACE); rep != nil {
		return nil, rep
	}
	return &ast.SetExpr{Elts: elts, Pos: pos}, nil
}

func (p *Parser) finishDict(pos ast.Pos, entries []ast.DictEntry) (ast.Expr, *errors.Report) {
	for p.curIs(token.COMMA) {
		p.advance()
		if p.curIs(token.RBRACE) {
			break
		}
		if p.curIs(token.DOUBLESTAR) {
			p.advance()
			v, rep := p.parseExpr(TERNARY + 1)
			if rep != nil {
				return nil, rep
			}
			entries = append(entries, ast.DictEntry{Key: nil, Value: v})
			continue
		}
		k, rep := p.parseExpr(TERNARY + 1)
		if rep != nil {
			return nil, rep
		}
		if _, rep := p.expect(token.COLON); rep != nil {
			return nil, rep
		}
		v, rep := p.parseExpr(TERNARY + 1)
		if rep != nil {
			return nil, rep
		}
		entries = append(entries, ast.DictEntry{Key: k, Value: v})
	}
	if _, rep := p.expect(token.RBRACE); rep != nil {
		return nil, rep
	}
	return &ast.DictExpr{Entries: entries, Pos: pos}, nil
}

func (p *Parser) parseUnary() (ast.Expr, *errors.Report) {
	tok := p.advance()
	prec := UNARY
	if tok.Kind == token.NOT {
		prec = LOGICAL_NOT
	}
	operand, rep := p.parseExpr(prec)
	if rep != nil {
		return nil, rep
	}
	return &ast.UnaryOp{Op: tok.Kind.String(), Operand: operand, Pos: tok.Pos}, nil
}

func (p *Parser) parseStarred() (ast.Expr, *errors.Report) {
	pos := p.curPos()
	p.advance()
	v, rep := p.parseExpr(UNARY)
	if rep != nil {
		return nil, rep
	}
	return &ast.Starred{Value: v, Pos: pos}, nil
}

func (p *Parser) parseLambda() (ast.Expr, *errors.Report) {
	pos := p.curPos()
	p.advance()
	var params []*ast.Param
	for !p.curIs(token.COLON) {
		param := &ast.Param{Pos: p.curPos()}
		if p.curIs(token.DOUBLESTAR) {
			p.advance()
			param.StarKwargs = true
		} else if p.curIs(token.STAR) {
			p.advance()
			param.StarArgs = true
		}
		nameTok, rep := p.expect(token.IDENT)
		if rep != nil {
			return nil, rep
		}
		param.Name = nameTok.Literal
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
	if _, rep := p.expect(token.COLON); rep != nil {
		return nil, rep
	}
	body, rep := p.parseExpr(TERNARY + 1)
	if rep != nil {
		return nil, rep
	}
	return &ast.Lambda{Params: params, Body: body, Pos: pos}, nil
}

func (p *Parser) parseAwait() (ast.Expr, *errors.Report) {
	pos := p.curPos()
	p.advance()
	v, rep := p.parseExpr(UNARY)
	if rep != nil {
		return nil, rep
	}
	return &ast.Await{Value: v, Pos: pos}, nil
}

func (p *Parser) parseBinOp(left ast.Expr) (ast.Expr, *errors.Report) {
	tok := p.advance()
	prec := precedences[tok.Kind]
	right, rep := p.parseExpr(prec)
	if rep != nil {
		return nil, rep
	}
	return &ast.BinOp{Left: left, Op: tok.Kind.String(), Right: right, Pos: left.Position()}, nil
}

// parsePower is right-associative: `2 ** 3 ** 2` parses as `2 ** (3 ** 2)`.
func (p *Parser) parsePower(left ast.Expr) (ast.Expr, *errors.Report) {
	tok := p.advance()
	right, rep := p.parseExpr(POWER - 1)
	if rep != nil {
		return nil, rep
	}
	return &ast.BinOp{Left: left, Op: tok.Kind.String(), Right: right, Pos: left.Position()}, nil
}

func (p *Parser) parseBoolOp(left ast.Expr) (ast.Expr, *errors.Report) {
	tok := p.advance()
	prec := precedences[tok.Kind]
	right, rep := p.parseExpr(prec)
	if rep != nil {
		return nil, rep
	}
	op := "and"
	if tok.Kind == token.OR {
		op = "or"
	}
	if bo, ok := left.(*ast.BoolOp); ok && bo.Op == op {
		bo.Values = append(bo.Values, right)
		return bo, nil
	}
	return &ast.BoolOp{Op: op, Values: []ast.Expr{left, right}, Pos: left.Position()}, nil
}

// parseCompare builds a chained comparison: `a < b <= c` collects into one
// Compare node with Ops=["<","<="] and Comparators=[b,c].
func (p *Parser) parseCompare(left ast.Expr) (ast.Expr, *errors.Report) {
	cmp := &ast.Compare{Left: left, Pos: left.Position()}
	for p.isCompareOpStart() {
		opStr, rep := p.consumeCompareOp()
		if rep != nil {
			return nil, rep
		}
		if opStr == "" {
			break
		}
		right, rep := p.parseExpr(COMPARISON)
		if rep != nil {
			return nil, rep
		}
		cmp.Ops = append(cmp.Ops, opStr)
		cmp.Comparators = append(cmp.Comparators, right)
	}
	if len(cmp.Ops) == 0 {
		return left, nil
	}
	return cmp, nil
}

// isCompareOpStart reports whether the current token begins a (possibly
// two-word) comparison operator; `not` only counts when followed by `in`.
func (p *Parser) isCompareOpStart() bool {
	switch p.cur().Kind {
	case token.LT, token.GT, token.LE, token.GE, token.EQ, token.NE, token.IN, token.IS:
		return true
	case token.NOT:
		return p.peekIs(token.IN)
	}
	return false
}

func (p *Parser) consumeCompareOp() (string, *errors.Report) {
	switch p.cur().Kind {
	case token.LT, token.GT, token.LE, token.GE, token.EQ, token.NE:
		tok := p.advance()
		return tok.Kind.String(), nil
	case token.IN:
		p.advance()
		return "in", nil
	case token.IS:
		p.advance()
		if p.curIs(token.NOT) {
			p.advance()
			return "is not", nil
		}
		return "is", nil
	case token.NOT:
		if p.peekIs(token.IN) {
			p.advance()
			p.advance()
			return "not in", nil
		}
		return "", nil
	}
	return "", nil
}

func (p *Parser) parseCall(fn ast.Expr) (ast.Expr, *errors.Report) {
	pos := fn.Position()
	p.advance() // `(`
	call := &ast.Call{Func: fn, Pos: pos}
	for !p.curIs(token.RPAREN) {
		if p.curIs(token.DOUBLESTAR) {
			p.advance()
			v, rep := p.parseExpr(TERNARY + 1)
			if rep != nil {
				return nil, rep
			}
			call.Keywords = append(call.Keywords, ast.Keyword{Name: "", Value: v})
		} else if p.curIs(token.STAR) {
			p.advance()
			v, rep := p.parseExpr(TERNARY + 1)
			if rep != nil {
				return nil, rep
			}
			call.StarArgs = v
		} else if p.curIs(token.IDENT) && p.peekIs(token.ASSIGN) {
			nameTok := p.advance()
			p.advance() // `=`
			v, rep := p.parseExpr(TERNARY + 1)
			if rep != nil {
				return nil, rep
			}
			call.Keywords = append(call.Keywords, ast.Keyword{Name: nameTok.Literal, Value: v})
		} else {
			v, rep := p.parseExpr(TERNARY + 1)
			if rep != nil {
				return nil, rep
			}
			call.Args = append(call.Args, v)
		}
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, rep := p.expect(token.RPAREN); rep != nil {
		return nil, rep
	}
	return call, nil
}

func (p *Parser) parseSubscript(value ast.Expr) (ast.Expr, *errors.Report) {
	pos := value.Position()
	p.advance() // `[`
	index, rep := p.parseSliceOrIndex()
	if rep != nil {
		return nil, rep
	}
	if _, rep := p.expect(token.RBRACKET); rep != nil {
		return nil, rep
	}
	return &ast.Subscript{Value: value, Index: index, Pos: pos}, nil
}

func (p *Parser) parseSliceOrIndex() (ast.Expr, *errors.Report) {
	pos := p.curPos()
	var lower, upper, step ast.Expr
	var rep *errors.Report
	isSlice := false

	if !p.curIs(token.COLON) {
		lower, rep = p.parseExpr(TERNARY + 1)
		if rep != nil {
			return nil, rep
		}
	}
	if p.curIs(token.COLON) {
		isSlice = true
		p.advance()
		if !p.curIs(token.COLON) && !p.curIs(token.RBRACKET) {
			upper, rep = p.parseExpr(TERNARY + 1)
			if rep != nil {
				return nil, rep
			}
		}
		if p.curIs(token.COLON) {
			p.advance()
			if !p.curIs(token.RBRACKET) {
				step, rep = p.parseExpr(TERNARY + 1)
				if rep != nil {
					return nil, rep
				}
			}
		}
	}
	if isSlice {
		return &ast.Slice{Lower: lower, Upper: upper, Step: step, Pos: pos}, nil
	}
	return lower, nil
}

func (p *Parser) parseAttribute(value ast.Expr) (ast.Expr, *errors.Report) {
	pos := value.Position()
	p.advance() // `.`
	nameTok, rep := p.expect(token.IDENT)
	if rep != nil {
		return nil, rep
	}
	return &ast.Attribute{Value: value, Attr: nameTok.Literal, Pos: pos}, nil
}
