package modcompile

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCompileFileNoImports(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.py", "x = 2 + 3 * 4\nprint(x)\n")

	c, err := New(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	unit, rep := c.CompileFile(path)
	if rep != nil {
		t.Fatalf("unexpected error: %+v", rep)
	}
	if unit.IR == "" {
		t.Fatal("expected non-empty generated IR")
	}
	if len(unit.Children) != 0 {
		t.Fatalf("expected no children, got %d", len(unit.Children))
	}
}

func TestCompileFileRecursiveImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "helper.py", "def add(a: int, b: int) -> int:\n    return a + b\n")
	path := writeFile(t, dir, "main.py", "import helper\nprint(helper.add(1, 2))\n")

	c, err := New(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	unit, rep := c.CompileFile(path)
	if rep != nil {
		t.Fatalf("unexpected error: %+v", rep)
	}
	if len(unit.Children) != 1 {
		t.Fatalf("expected one compiled child module, got %d", len(unit.Children))
	}
	if !unit.Children[0].Inline {
		t.Fatal("expected the imported module to be marked inline")
	}
}

func TestCompileFileUnresolvedImportSkipped(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.py", "import pytest\n\ndef run():\n    pytest.main()\n\nrun()\n")

	c, err := New(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	unit, rep := c.CompileFile(path)
	if rep != nil {
		t.Fatalf("unexpected error: %+v", rep)
	}
	if unit.IR == "" {
		t.Fatal("expected compilation to succeed despite the unresolved import")
	}
	found := false
	for _, w := range c.Warnings() {
		if w != "" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a warning naming the unresolved import")
	}
}
