package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/sunholo/pyzig/internal/token"
)

// schemaVersion is embedded in every Report so downstream tooling can
// evolve the wire shape without breaking older consumers.
const schemaVersion = "pyzig.error/v1"

// Fix is an optional suggested remediation attached to a Report.
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// Report is the canonical structured error type for the pyzig compiler.
// Every pass returns a *Report on failure instead of a bare error, which
// can be wrapped as a ReportError when a stdlib `error` is required.
type Report struct {
	Schema  string         `json:"schema"`
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    *token.Pos     `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
}

// New builds a Report for code/phase/message at span (span may be nil).
func New(code, phase, message string, span *token.Pos) *Report {
	return &Report{Schema: schemaVersion, Code: code, Phase: phase, Message: message, Span: span}
}

// WithData attaches structured context and returns the same Report for
// chaining at the call site.
func (r *Report) WithData(key string, value any) *Report {
	if r.Data == nil {
		r.Data = make(map[string]any)
	}
	r.Data[key] = value
	return r
}

// WithFix attaches a suggested fix and returns the same Report.
func (r *Report) WithFix(suggestion string, confidence float64) *Report {
	r.Fix = &Fix{Suggestion: suggestion, Confidence: confidence}
	return r
}

// ReportError wraps a Report as a stdlib error so it survives errors.As()
// unwrapping across plain `error` return values.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport extracts a Report from an error chain, if present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// Wrap wraps a Report as an error. Returns nil for a nil Report so callers
// can write `return errors.Wrap(rep)` unconditionally.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON renders the Report as JSON with a deterministic key order: struct
// fields in declaration order, Data map keys sorted.
func (r *Report) ToJSON(compact bool) (string, error) {
	if compact {
		data, err := json.Marshal(r)
		return string(data), err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	return string(data), err
}

// Render produces a human-readable "file:line:col: [CODE] message" banner
// plus the offending source line with a caret under the (1-indexed)
// column, matching the
// driver's historical plain-text error format. source may be nil when the
// original text is unavailable (e.g. a synthesized error).
func (r *Report) Render(source []byte) string {
	var b strings.Builder
	if r.Span != nil {
		fmt.Fprintf(&b, "%s: [%s] %s\n", r.Span.String(), r.Code, r.Message)
	} else {
		fmt.Fprintf(&b, "[%s] %s\n", r.Code, r.Message)
	}
	if r.Span == nil || source == nil {
		return b.String()
	}
	lines := strings.Split(string(source), "\n")
	if r.Span.Line-1 < 0 || r.Span.Line-1 >= len(lines) {
		return b.String()
	}
	line := lines[r.Span.Line-1]
	b.WriteString(line)
	b.WriteByte('\n')
	col := r.Span.Column - 1
	if col < 0 {
		col = 0
	}
	b.WriteString(caretPadding(line, col))
	b.WriteString("^\n")
	return b.String()
}

// caretPadding builds the run of spaces that lines a caret up after col
// display columns of line (the lexer's width-aware column count), counting
// display width rather than byte or rune
// count so a caret still lands under the right character when the
// source contains wide or non-ASCII runes (docstrings, PEP 3131
// identifiers) ahead of the error column.
func caretPadding(line string, col int) string {
	var b strings.Builder
	i := 0
	for _, r := range line {
		if i >= col {
			break
		}
		w := runewidth.RuneWidth(r)
		if w <= 0 {
			w = 1
		}
		b.WriteString(strings.Repeat(" ", w))
		i += w
	}
	return b.String()
}

// NewGeneric wraps an opaque error (e.g. from os.Open) as a Report so every
// pass boundary has a uniform return type.
func NewGeneric(phase string, err error) *Report {
	return &Report{Schema: schemaVersion, Code: "IOE001", Phase: phase, Message: err.Error(), Data: map[string]any{}}
}
