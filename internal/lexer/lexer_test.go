package lexer

import (
	"testing"

	"github.com/sunholo/pyzig/internal/token"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	toks, rep := Tokenize([]byte(src), "test.py")
	if rep != nil {
		t.Fatalf("Tokenize error: %s", rep.Message)
	}
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func assertKinds(t *testing.T, src string, want []token.Kind) {
	t.Helper()
	got := kinds(t, src)
	if len(got) != len(want) {
		t.Fatalf("Tokenize(%q) = %v, want %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokenize(%q)[%d] = %v, want %v (full: %v)", src, i, got[i], want[i], got)
		}
	}
}

func TestSimpleAssignment(t *testing.T) {
	assertKinds(t, "x = 1\n", []token.Kind{
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE, token.EOF,
	})
}

func TestIndentationTracksBlocks(t *testing.T) {
	src := "if x:\n    y = 1\n    z = 2\nw = 3\n"
	assertKinds(t, src, []token.Kind{
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.DEDENT,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.EOF,
	})
}

func TestNestedDedentEmitsMultipleTokens(t *testing.T) {
	src := "if a:\n    if b:\n        x = 1\ny = 2\n"
	toks, rep := Tokenize([]byte(src), "t.py")
	if rep != nil {
		t.Fatalf("unexpected error: %s", rep.Message)
	}
	dedents := 0
	for _, tok := range toks {
		if tok.Kind == token.DEDENT {
			dedents++
		}
	}
	if dedents != 2 {
		t.Errorf("expected 2 DEDENT tokens for nested blocks, got %d", dedents)
	}
}

func TestInconsistentIndentationFails(t *testing.T) {
	src := "if a:\n   x = 1\n  y = 2\n"
	_, rep := Tokenize([]byte(src), "t.py")
	if rep == nil {
		t.Fatal("expected a LexError for inconsistent dedent")
	}
	if rep.Code != "LEX004" {
		t.Errorf("Code = %q, want LEX004", rep.Code)
	}
}

func TestParenSuppressesNewline(t *testing.T) {
	src := "x = (1 +\n     2)\n"
	assertKinds(t, src, []token.Kind{
		token.IDENT, token.ASSIGN, token.LPAREN, token.INT, token.PLUS, token.INT, token.RPAREN,
		token.NEWLINE, token.EOF,
	})
}

func TestStringPrefixesAndTriple(t *testing.T) {
	toks, rep := Tokenize([]byte(`s = f"hi {x}"` + "\n"), "t.py")
	if rep != nil {
		t.Fatalf("unexpected error: %s", rep.Message)
	}
	if toks[2].Kind != token.FSTRING {
		t.Errorf("expected FSTRING, got %v", toks[2].Kind)
	}

	toks, rep = Tokenize([]byte(`doc = """line1\nline2"""`+"\n"), "t.py")
	if rep != nil {
		t.Fatalf("unexpected error: %s", rep.Message)
	}
	if toks[2].Kind != token.STRING {
		t.Errorf("expected STRING for triple-quoted literal, got %v", toks[2].Kind)
	}
}

func TestUnterminatedStringFails(t *testing.T) {
	_, rep := Tokenize([]byte(`x = "unterminated`+"\n"), "t.py")
	if rep == nil || rep.Code != "LEX002" {
		t.Fatalf("expected LEX002, got %+v", rep)
	}
}

func TestNumericLiterals(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
	}{
		{"123", token.INT},
		{"1_000", token.INT},
		{"0x1F", token.INT},
		{"0b101", token.INT},
		{"0o17", token.INT},
		{"3.14", token.FLOAT},
		{"1e10", token.FLOAT},
		{"1.5e-3", token.FLOAT},
	}
	for _, c := range cases {
		toks, rep := Tokenize([]byte(c.src+"\n"), "t.py")
		if rep != nil {
			t.Fatalf("Tokenize(%q): %s", c.src, rep.Message)
		}
		if toks[0].Kind != c.kind {
			t.Errorf("Tokenize(%q)[0].Kind = %v, want %v", c.src, toks[0].Kind, c.kind)
		}
	}
}

func TestOperators(t *testing.T) {
	assertKinds(t, "a += 1\nb //= 2\nc ** d\n", []token.Kind{
		token.IDENT, token.PLUSEQ, token.INT, token.NEWLINE,
		token.IDENT, token.DSLASHEQ, token.INT, token.NEWLINE,
		token.IDENT, token.DOUBLESTAR, token.IDENT, token.NEWLINE,
		token.EOF,
	})
}

func TestCommentsAreDropped(t *testing.T) {
	assertKinds(t, "x = 1  # a trailing comment\n", []token.Kind{
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE, token.EOF,
	})
}

func TestKeywordVsIdentifier(t *testing.T) {
	assertKinds(t, "class Foo:\n    pass\n", []token.Kind{
		token.CLASS, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT, token.PASS, token.NEWLINE, token.DEDENT, token.EOF,
	})
}
