package registry

import "testing"

func TestIsBuiltin(t *testing.T) {
	if !IsBuiltin("len") {
		t.Error("expected len to be a registered builtin")
	}
	if IsBuiltin("not_a_real_builtin") {
		t.Error("did not expect not_a_real_builtin to be registered")
	}
}

func TestLookupModuleFunc(t *testing.T) {
	e, ok := LookupModuleFunc("math", "sqrt")
	if !ok {
		t.Fatal("expected math.sqrt to be registered")
	}
	if e.ZigSymbol != "pyzig_math_sqrt" {
		t.Errorf("ZigSymbol = %q, want pyzig_math_sqrt", e.ZigSymbol)
	}
	if _, ok := LookupModuleFunc("math", "nonexistent"); ok {
		t.Error("did not expect math.nonexistent to resolve")
	}
}

func TestLookupMethod(t *testing.T) {
	e, ok := LookupMethod("list", "append")
	if !ok {
		t.Fatal("expected list.append to be registered")
	}
	if !e.Mutates {
		t.Error("expected list.append to be marked as mutating")
	}
	if !e.NeedsAllocator {
		t.Error("expected list.append to need an allocator (may grow backing storage)")
	}
}

func TestVariadicArityMarkers(t *testing.T) {
	sumEntry := Builtins["print"]
	if sumEntry.MaxArgs != -1 {
		t.Errorf("print MaxArgs = %d, want -1 (variadic)", sumEntry.MaxArgs)
	}
}

func TestEveryCategoryPopulated(t *testing.T) {
	if len(Builtins) == 0 {
		t.Error("Builtins registry is empty")
	}
	if len(ModuleFunctions) == 0 {
		t.Error("ModuleFunctions registry is empty")
	}
	if len(Methods) == 0 {
		t.Error("Methods registry is empty")
	}
}

func TestNoDuplicateMethodKeys(t *testing.T) {
	seen := make(map[string]bool)
	for key, e := range Methods {
		want := e.Type + "." + e.Method
		if key != want {
			t.Errorf("method map key %q does not match entry %q", key, want)
		}
		if seen[key] {
			t.Errorf("duplicate method key %q", key)
		}
		seen[key] = true
	}
}
