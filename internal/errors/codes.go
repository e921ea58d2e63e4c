// Package errors provides centralized, structured error reporting for the
// pyzig compiler pipeline. Every pass returns a *Report instead of a bare
// error so the CLI, tests, and tooling can all consume the same taxonomy.
package errors

// Error code constants organized by phase. Each constant is one of the
// error kinds from the language specification: LexError, ParseError,
// ImportError, SemanticError, TypeError, UnsupportedError, IOError.
const (
	// ============================================================================
	// Lexer Errors (LEX###) — LexError
	// ============================================================================

	// LEX001 indicates an invalid or unrecognized character
	LEX001 = "LEX001"
	// LEX002 indicates an unterminated string literal
	LEX002 = "LEX002"
	// LEX003 indicates a malformed numeric literal
	LEX003 = "LEX003"
	// LEX004 indicates indentation that doesn't match any enclosing block
	LEX004 = "LEX004"
	// LEX005 indicates a stray line-continuation backslash
	LEX005 = "LEX005"

	// ============================================================================
	// Parser Errors (PAR###) — ParseError
	// ============================================================================

	// PAR001 indicates an unexpected token
	PAR001 = "PAR001"
	// PAR002 indicates a missing closing delimiter
	PAR002 = "PAR002"
	// PAR003 indicates invalid function-definition syntax
	PAR003 = "PAR003"
	// PAR004 indicates invalid class-definition syntax
	PAR004 = "PAR004"
	// PAR005 indicates invalid import syntax
	PAR005 = "PAR005"
	// PAR006 indicates invalid assignment-target syntax
	PAR006 = "PAR006"
	// PAR007 indicates an invalid comprehension clause
	PAR007 = "PAR007"
	// PAR008 indicates a malformed pattern/argument list
	PAR008 = "PAR008"
	// PAR009 indicates a malformed type annotation
	PAR009 = "PAR009"
	// PAR010 indicates an expected NEWLINE/INDENT/DEDENT mismatch
	PAR010 = "PAR010"

	// ============================================================================
	// Import Errors (IMP###) — ImportError
	// ============================================================================

	// IMP001 indicates an import that could not be resolved and isn't skippable
	IMP001 = "IMP001"
	// IMP002 indicates a cyclic import in the dependency DAG
	IMP002 = "IMP002"
	// IMP003 indicates a package directory missing its __init__ file where required
	IMP003 = "IMP003"

	// ============================================================================
	// Semantic Errors (SEM###) — SemanticError
	// ============================================================================

	// SEM001 indicates a reference to an unknown symbol
	SEM001 = "SEM001"
	// SEM002 indicates a cycle in the class-inheritance chain
	SEM002 = "SEM002"
	// SEM003 indicates a `global` declaration for a name already bound as a local in the same scope
	SEM003 = "SEM003"
	// SEM004 indicates a `nonlocal` declaration with no enclosing function scope to bind to
	SEM004 = "SEM004"
	// SEM005 indicates a method defined twice in one class body
	SEM005 = "SEM005"

	// ============================================================================
	// Static Type Errors (TYP###) — TypeError (static)
	// ============================================================================

	// TYP001 indicates an operation unsupported on the inferred operand types
	TYP001 = "TYP001"
	// TYP002 indicates a function return type that cannot be unified across returns
	TYP002 = "TYP002"
	// TYP003 indicates a call with the wrong argument count for a known signature
	TYP003 = "TYP003"
	// TYP004 indicates an attribute access on a type with no such attribute
	TYP004 = "TYP004"

	// ============================================================================
	// Unsupported Construct Errors (UNS###) — UnsupportedError
	// ============================================================================

	// UNS001 indicates a construct outside the supported Python subset (e.g. `yield from`)
	UNS001 = "UNS001"
	// UNS002 indicates reliance on dynamic metaprogramming (metaclasses, `__getattr__`)
	UNS002 = "UNS002"
	// UNS003 indicates multiple inheritance beyond a single parent chain
	UNS003 = "UNS003"

	// ============================================================================
	// IO Errors (IOE###) — IOError
	// ============================================================================

	// IOE001 indicates a source file could not be found
	IOE001 = "IOE001"
	// IOE002 indicates a permission error reading or writing a file
	IOE002 = "IOE002"
)
