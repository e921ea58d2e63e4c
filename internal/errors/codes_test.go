package errors

import "testing"

func TestErrorCodeTaxonomy(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		phase string
	}{
		{"LEX001", LEX001, "lexer"},
		{"LEX004", LEX004, "lexer"},
		{"PAR001", PAR001, "parser"},
		{"PAR010", PAR010, "parser"},
		{"IMP001", IMP001, "import"},
		{"IMP002", IMP002, "import"},
		{"SEM001", SEM001, "semantic"},
		{"SEM004", SEM004, "semantic"},
		{"TYP001", TYP001, "typecheck"},
		{"UNS001", UNS001, "unsupported"},
		{"IOE001", IOE001, "io"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.code, tt.phase, "example", nil)
			if r.Code != tt.code {
				t.Errorf("Code = %q, want %q", r.Code, tt.code)
			}
			if r.Phase != tt.phase {
				t.Errorf("Phase = %q, want %q", r.Phase, tt.phase)
			}
			if r.Schema != schemaVersion {
				t.Errorf("Schema = %q, want %q", r.Schema, schemaVersion)
			}
		})
	}
}

func TestReportJSONRoundTrip(t *testing.T) {
	r := New(TYP001, "typecheck", "unsupported operand types", nil).
		WithData("left", "int").WithData("right", "str").
		WithFix("convert one side with str()", 0.8)

	out, err := r.ToJSON(true)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if out == "" {
		t.Fatal("ToJSON returned empty string")
	}
}

func TestWrapAndAsReport(t *testing.T) {
	r := New(SEM001, "semantic", "unknown symbol 'x'", nil)
	err := Wrap(r)
	got, ok := AsReport(err)
	if !ok {
		t.Fatal("AsReport returned ok=false")
	}
	if got != r {
		t.Errorf("AsReport returned a different Report")
	}
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should return nil error")
	}
}
