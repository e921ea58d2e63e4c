package bytecode

import "testing"

func TestMakeInstruction(t *testing.T) {
	tests := []struct {
		op       Opcode
		operands []int
		expected []byte
	}{
		{OpConstant, []int{65000}, []byte{byte(OpConstant), 253, 232}},
		{OpAdd, nil, []byte{byte(OpAdd)}},
		{OpReturn, nil, []byte{byte(OpReturn)}},
		{OpJumpIfFalse, []int{10}, []byte{byte(OpJumpIfFalse), 0, 10}},
	}
	for _, tt := range tests {
		got := MakeInstruction(tt.op, tt.operands...)
		if len(got) != len(tt.expected) {
			t.Fatalf("op %d: got length %d, want %d", tt.op, len(got), len(tt.expected))
		}
		for i, b := range tt.expected {
			if got[i] != b {
				t.Errorf("op %d byte %d: got %d, want %d", tt.op, i, got[i], b)
			}
		}
	}
}

// The bytecode compiler leaves folding to internal/comptime; this checks
// that a constant expression compiles to a non-empty program.
func TestCompileConstantExpression(t *testing.T) {
	prog, rep := Compile("2 + 3 * 4")
	if rep != nil {
		t.Fatalf("unexpected error: %+v", rep)
	}
	if len(prog.Instructions) == 0 {
		t.Fatal("expected non-empty instruction stream")
	}
	if len(prog.Constants) == 0 {
		t.Fatal("expected at least one pooled constant")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	prog, rep := Compile("x = 1\nif x < 2:\n    y = 3\nelse:\n    y = 4\n")
	if rep != nil {
		t.Fatalf("unexpected error: %+v", rep)
	}
	data := prog.Serialize()
	decoded, err := Deserialize(data)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if len(decoded.Instructions) != len(prog.Instructions) {
		t.Errorf("instruction length mismatch: got %d, want %d", len(decoded.Instructions), len(prog.Instructions))
	}
	for i := range prog.Instructions {
		if decoded.Instructions[i] != prog.Instructions[i] {
			t.Errorf("instruction byte %d mismatch", i)
		}
	}
	if len(decoded.Constants) != len(prog.Constants) {
		t.Fatalf("constant count mismatch: got %d, want %d", len(decoded.Constants), len(prog.Constants))
	}
}

func TestUnsupportedConstructRejected(t *testing.T) {
	if _, rep := Compile("yield 1"); rep == nil {
		t.Fatal("expected an UnsupportedError Report for yield inside eval/exec")
	}
}

func TestCacheDedup(t *testing.T) {
	c := NewCache()
	_, fromCache, rep := c.CompileCached("1 + 1")
	if rep != nil {
		t.Fatalf("unexpected error: %+v", rep)
	}
	if fromCache {
		t.Fatal("first compile should not be a cache hit")
	}
	_, fromCache, rep = c.CompileCached("1 + 1")
	if rep != nil {
		t.Fatalf("unexpected error: %+v", rep)
	}
	if !fromCache {
		t.Fatal("second compile of the same literal should be a cache hit")
	}
}
