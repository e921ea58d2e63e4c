package errors

import (
	"strings"
	"testing"

	"github.com/sunholo/pyzig/internal/token"
)

func TestRenderWithoutSpanOmitsSourceLine(t *testing.T) {
	r := New("SEM001", "semantic", "example", nil)
	out := r.Render([]byte("x = 1\n"))
	if strings.Contains(out, "^") {
		t.Errorf("expected no caret line without a span, got:\n%s", out)
	}
}

func TestRenderAlignsCaretUnderAsciiColumn(t *testing.T) {
	src := []byte("total = bad_name + 1\n")
	r := New("SEM001", "semantic", "undefined name", &token.Pos{Line: 1, Column: 9, File: "t.py"})
	out := r.Render(src)
	lines := strings.Split(out, "\n")
	if len(lines) < 3 {
		t.Fatalf("expected at least 3 lines, got %d:\n%s", len(lines), out)
	}
	caretLine := lines[2]
	if !strings.HasPrefix(caretLine, strings.Repeat(" ", 8)+"^") {
		t.Errorf("caret line %q not aligned under column 9", caretLine)
	}
}

func TestRenderAlignsCaretPastWideRune(t *testing.T) {
	src := []byte("café = bad_name\n")
	r := New("SEM001", "semantic", "undefined name", &token.Pos{Line: 1, Column: 8, File: "t.py"})
	out := r.Render(src)
	lines := strings.Split(out, "\n")
	caretLine := lines[2]
	if !strings.HasSuffix(strings.TrimRight(caretLine, "\n"), "^") {
		t.Errorf("expected caret line to end in ^, got %q", caretLine)
	}
}
