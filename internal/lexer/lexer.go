// Package lexer tokenizes pyzig's Python-subset source into a token
// stream, tracking Python-style significant indentation.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"

	"github.com/sunholo/pyzig/internal/errors"
	"github.com/sunholo/pyzig/internal/token"
)

// Lexer tokenizes pyzig source code.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           rune
	line         int
	column       int // visual column, width-aware (see visualWidth)
	file         string

	parenDepth      int
	atLineHead      bool
	indents         []int
	pendingDedents  int
	suppressNewline bool // true right after the synthetic EOF NEWLINE
}

// New creates a new Lexer over input, attributing spans to file. Callers
// should pass input through Normalize first.
func New(input string, file string) *Lexer {
	l := &Lexer{
		input:      input,
		file:       file,
		line:       1,
		column:     0,
		atLineHead: true,
		indents:    []int{0},
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	ch, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.position = l.readPosition
	l.readPosition += size
	l.column += visualWidth(ch)
	if ch == '\n' {
		l.line++
		l.column = 0
	}
	l.ch = ch
}

// visualWidth reports the caret-column width of ch, using x/text/width so
// wide (e.g. East-Asian fullwidth) runes in PEP-3131 identifiers or string
// literals still line up diagnostic carets with terminal rendering.
func visualWidth(ch rune) int {
	switch width.LookupRune(ch).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return ch
}

func (l *Lexer) peekAhead(n int) rune {
	pos := l.readPosition
	var ch rune
	for i := 0; i < n; i++ {
		if pos >= len(l.input) {
			return 0
		}
		var size int
		ch, size = utf8.DecodeRuneInString(l.input[pos:])
		pos += size
	}
	return ch
}

// Tokenize runs the full lexer over source, returning the token stream or
// the first LexError encountered. A trailing EOF token is always included
// on success. Source should already be BOM-stripped/NFC-normalized via
// Normalize; Tokenize normalizes again defensively since it is cheap when
// already normal.
func Tokenize(source []byte, file string) ([]token.Token, *errors.Report) {
	l := New(string(Normalize(source)), file)
	var out []token.Token
	for {
		tok, rep := l.next()
		if rep != nil {
			return nil, rep
		}
		out = append(out, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return out, nil
}

func lexErr(code, msg string, line, col int, file string) *errors.Report {
	return errors.New(code, "lexer", msg, &token.Pos{Line: line, Column: col, File: file})
}

// next returns the next token, handling indentation bookkeeping at the
// start of each logical line.
func (l *Lexer) next() (token.Token, *errors.Report) {
	if l.pendingDedents > 0 {
		l.pendingDedents--
		return token.New(token.DEDENT, "", l.line, l.column, l.file), nil
	}
	if l.atLineHead && l.parenDepth == 0 {
		return l.handleLineHead()
	}
	return l.scanToken()
}

// handleLineHead consumes leading whitespace/blank lines and computes the
// INDENT/DEDENT delta for the next logical line.
func (l *Lexer) handleLineHead() (token.Token, *errors.Report) {
	for {
		line, col := l.line, 0
		indent := 0
		for l.ch == ' ' || l.ch == '\t' {
			if l.ch == '\t' {
				indent += 8 - (indent % 8)
			} else {
				indent++
			}
			l.readChar()
		}
		if l.ch == '#' {
			l.skipComment()
		}
		if l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '\n' {
			l.readChar()
			continue // blank logical line: no INDENT/DEDENT, no NEWLINE
		}
		if l.ch == 0 {
			// atLineHead stays set, so once the queued DEDENTs are drained
			// the next call comes back here and closeIndents returns EOF.
			return l.closeIndents(line, col)
		}

		l.atLineHead = false
		top := l.indents[len(l.indents)-1]
		switch {
		case indent > top:
			l.indents = append(l.indents, indent)
			return token.New(token.INDENT, "", line, col, l.file), nil
		case indent < top:
			return l.dedentTo(indent, line, col)
		default:
			return l.scanToken()
		}
	}
}

// dedentTo pops indents until the stack top equals target, queuing
// DEDENT tokens (one returned now, the rest drained via pendingDedents).
func (l *Lexer) dedentTo(target, line, col int) (token.Token, *errors.Report) {
	count := 0
	for len(l.indents) > 1 && l.indents[len(l.indents)-1] > target {
		l.indents = l.indents[:len(l.indents)-1]
		count++
	}
	if l.indents[len(l.indents)-1] != target {
		return token.Token{}, lexErr("LEX004", "inconsistent dedent: indentation does not match any enclosing block", line, col, l.file)
	}
	l.pendingDedents = count - 1
	return token.New(token.DEDENT, "", line, col, l.file), nil
}

func (l *Lexer) closeIndents(line, col int) (token.Token, *errors.Report) {
	if len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.pendingDedents = len(l.indents) - 1
		l.indents = l.indents[:1]
		return token.New(token.DEDENT, "", line, col, l.file), nil
	}
	return token.New(token.EOF, "", line, col, l.file), nil
}

func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// scanToken scans exactly one non-indentation token.
func (l *Lexer) scanToken() (token.Token, *errors.Report) {
	l.skipIntraLineSpace()

	line, col := l.line, l.column

	switch l.ch {
	case 0:
		if l.parenDepth == 0 {
			l.atLineHead = true
			return token.New(token.NEWLINE, "", line, col, l.file), nil
		}
		return l.closeIndents(line, col)
	case '\n':
		l.readChar()
		if l.parenDepth > 0 {
			return l.scanToken()
		}
		l.atLineHead = true
		return token.New(token.NEWLINE, "", line, col, l.file), nil
	case '\r':
		l.readChar()
		return l.scanToken()
	case '#':
		l.skipComment()
		return l.scanToken()
	case '\\':
		if l.peekChar() == '\n' {
			l.readChar()
			l.readChar()
			return l.scanToken()
		}
		l.readChar()
		return token.Token{}, lexErr("LEX005", "unexpected '\\' outside string literal", line, col, l.file)
	}

	if isIdentStart(l.ch) {
		return l.readIdentLike(line, col)
	}
	if isDigit(l.ch) {
		return l.readNumber(line, col)
	}
	if l.ch == '"' || l.ch == '\'' {
		return l.readStringLiteral(line, col, "")
	}

	return l.readOperator(line, col)
}

func (l *Lexer) skipIntraLineSpace() {
	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}
}

func isIdentStart(ch rune) bool { return ch == '_' || unicode.IsLetter(ch) }
func isIdentCont(ch rune) bool  { return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch) }
func isDigit(ch rune) bool      { return ch >= '0' && ch <= '9' }

func (l *Lexer) readIdentLike(line, col int) (token.Token, *errors.Report) {
	start := l.position
	for isIdentCont(l.ch) {
		l.readChar()
	}
	lit := l.input[start:l.position]

	if (l.ch == '"' || l.ch == '\'') && isStringPrefix(lit) {
		return l.readStringLiteral(line, col, lit)
	}

	kind := token.LookupIdent(lit)
	return token.New(kind, lit, line, col, l.file), nil
}

func isStringPrefix(s string) bool {
	switch strings.ToLower(s) {
	case "f", "r", "b", "rb", "br", "fr", "rf", "u":
		return true
	}
	return false
}

func (l *Lexer) readNumber(line, col int) (token.Token, *errors.Report) {
	start := l.position
	isFloat := false

	if l.ch == '0' && isRadixMarker(l.peekChar()) {
		l.readChar()
		l.readChar()
		for isHexOctBinDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		return token.New(token.INT, l.input[start:l.position], line, col, l.file), nil
	}

	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		save, saveRead, saveCol, saveLine, saveCh := l.position, l.readPosition, l.column, l.line, l.ch
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if isDigit(l.ch) {
			isFloat = true
			for isDigit(l.ch) {
				l.readChar()
			}
		} else {
			l.position, l.readPosition, l.column, l.line, l.ch = save, saveRead, saveCol, saveLine, saveCh
		}
	}
	if l.ch == 'j' || l.ch == 'J' {
		// complex-literal suffix: accepted lexically, rejected later by the
		// type inferrer since `complex` is outside the native type lattice.
		l.readChar()
	}

	lit := l.input[start:l.position]
	if isFloat {
		return token.New(token.FLOAT, lit, line, col, l.file), nil
	}
	return token.New(token.INT, lit, line, col, l.file), nil
}

func isRadixMarker(ch rune) bool {
	switch ch {
	case 'x', 'X', 'o', 'O', 'b', 'B':
		return true
	}
	return false
}

func isHexOctBinDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func (l *Lexer) readStringLiteral(line, col int, prefix string) (token.Token, *errors.Report) {
	quote := l.ch
	triple := false
	if l.peekChar() == quote && l.peekAhead(2) == quote {
		triple = true
		l.readChar()
		l.readChar()
	}
	l.readChar() // consume opening quote(s)

	raw := strings.ContainsRune(strings.ToLower(prefix), 'r')

	var out strings.Builder
	for {
		if l.ch == 0 {
			return token.Token{}, lexErr("LEX002", "unterminated string literal", line, col, l.file)
		}
		if l.ch == quote {
			if !triple {
				l.readChar()
				break
			}
			if l.peekChar() == quote && l.peekAhead(2) == quote {
				l.readChar()
				l.readChar()
				l.readChar()
				break
			}
		}
		if l.ch == '\n' && !triple {
			return token.Token{}, lexErr("LEX002", "unterminated string literal (newline in single-line string)", line, col, l.file)
		}
		if l.ch == '\\' && !raw {
			l.readChar()
			switch l.ch {
			case 'n':
				out.WriteRune('\n')
			case 't':
				out.WriteRune('\t')
			case 'r':
				out.WriteRune('\r')
			case '\\':
				out.WriteRune('\\')
			case '\'':
				out.WriteRune('\'')
			case '"':
				out.WriteRune('"')
			case '0':
				out.WriteRune(0)
			case '\n':
				// escaped newline: line continuation inside the string
			default:
				out.WriteRune('\\')
				out.WriteRune(l.ch)
			}
			l.readChar()
			continue
		}
		out.WriteRune(l.ch)
		l.readChar()
	}

	kind := token.STRING
	switch {
	case strings.ContainsAny(strings.ToLower(prefix), "f"):
		kind = token.FSTRING
	case strings.ContainsAny(strings.ToLower(prefix), "b"):
		kind = token.BYTES
	}
	return token.New(kind, out.String(), line, col, l.file), nil
}

func (l *Lexer) readOperator(line, col int) (token.Token, *errors.Report) {
	mk := func(k token.Kind, lit string) token.Token { return token.New(k, lit, line, col, l.file) }
	two := func(expect rune, k2 token.Kind, k1 token.Kind, lit1 string) token.Token {
		if l.peekChar() == expect {
			ch := l.ch
			l.readChar()
			l.readChar()
			return token.New(k2, string(ch)+string(expect), line, col, l.file)
		}
		l.readChar()
		return mk(k1, lit1)
	}

	switch l.ch {
	case '(':
		l.parenDepth++
		l.readChar()
		return mk(token.LPAREN, "("), nil
	case ')':
		if l.parenDepth > 0 {
			l.parenDepth--
		}
		l.readChar()
		return mk(token.RPAREN, ")"), nil
	case '[':
		l.parenDepth++
		l.readChar()
		return mk(token.LBRACKET, "["), nil
	case ']':
		if l.parenDepth > 0 {
			l.parenDepth--
		}
		l.readChar()
		return mk(token.RBRACKET, "]"), nil
	case '{':
		l.parenDepth++
		l.readChar()
		return mk(token.LBRACE, "{"), nil
	case '}':
		if l.parenDepth > 0 {
			l.parenDepth--
		}
		l.readChar()
		return mk(token.RBRACE, "}"), nil
	case ',':
		l.readChar()
		return mk(token.COMMA, ","), nil
	case ';':
		l.readChar()
		return mk(token.SEMI, ";"), nil
	case '~':
		l.readChar()
		return mk(token.TILDE, "~"), nil
	case ':':
		return two('=', token.WALRUS, token.COLON, ":"), nil
	case '.':
		if l.peekChar() == '.' && l.peekAhead(2) == '.' {
			l.readChar()
			l.readChar()
			l.readChar()
			return mk(token.ELLIPSIS, "..."), nil
		}
		l.readChar()
		return mk(token.DOT, "."), nil
	case '+':
		return two('=', token.PLUSEQ, token.PLUS, "+"), nil
	case '-':
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return mk(token.ARROW, "->"), nil
		}
		return two('=', token.MINUSEQ, token.MINUS, "-"), nil
	case '%':
		return two('=', token.PERCENTEQ, token.PERCENT, "%"), nil
	case '@':
		return two('=', token.ATEQ, token.AT, "@"), nil
	case '^':
		return two('=', token.CARETEQ, token.CARET, "^"), nil
	case '&':
		return two('=', token.AMPEQ, token.AMP, "&"), nil
	case '|':
		return two('=', token.PIPEEQ, token.PIPE, "|"), nil
	case '=':
		return two('=', token.EQ, token.ASSIGN, "="), nil
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return mk(token.NE, "!="), nil
		}
		l.readChar()
		return token.Token{}, lexErr("LEX001", "unexpected character '!'", line, col, l.file)
	case '*':
		if l.peekChar() == '*' {
			l.readChar()
			return two('=', token.DSTAREQ, token.DOUBLESTAR, "**"), nil
		}
		return two('=', token.STAREQ, token.STAR, "*"), nil
	case '/':
		if l.peekChar() == '/' {
			l.readChar()
			return two('=', token.DSLASHEQ, token.DOUBLESLASH, "//"), nil
		}
		return two('=', token.SLASHEQ, token.SLASH, "/"), nil
	case '<':
		if l.peekChar() == '<' {
			l.readChar()
			return two('=', token.LSHIFTEQ, token.LSHIFT, "<<"), nil
		}
		return two('=', token.LE, token.LT, "<"), nil
	case '>':
		if l.peekChar() == '>' {
			l.readChar()
			return two('=', token.RSHIFTEQ, token.RSHIFT, ">>"), nil
		}
		return two('=', token.GE, token.GT, ">"), nil
	}

	ch := l.ch
	l.readChar()
	return token.Token{}, lexErr("LEX001", "invalid character '"+string(ch)+"'", line, col, l.file)
}
