package importresolve

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sunholo/pyzig/internal/ast"
)

// Resolved is one import statement's classification, ready for the
// module compiler to act on.
type Resolved struct {
	ModuleName string
	Strategy   Strategy
	FilePath   string // set only for StrategyCompilePython
	Entry      ModuleEntry
}

// Resolver resolves dotted module names against a registry and a
// project source tree rooted at BaseDir, the way the teacher's module
// resolver walks a project root and search paths — generalized here to
// .py sources instead of .ail ones, with a YAML-driven registry in
// place of a compiled-in stdlib path.
type Resolver struct {
	BaseDir     string
	SearchPaths []string
	Registry    *Registry
}

func NewResolver(baseDir string, registry *Registry) *Resolver {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Resolver{BaseDir: baseDir, Registry: registry}
}

// ResolveModule classifies a single dotted module name (e.g. "os.path"
// or "mypkg.utils").
func (r *Resolver) ResolveModule(name string) Resolved {
	if entry, ok := r.Registry.Lookup(name); ok {
		res := Resolved{ModuleName: name, Strategy: entry.Strategy, Entry: entry}
		if entry.Strategy == StrategyCompilePython {
			res.FilePath = r.localSourcePath(name)
		}
		return res
	}

	if path, ok := r.findLocalSource(name); ok {
		return Resolved{
			ModuleName: name,
			Strategy:   StrategyCompilePython,
			FilePath:   path,
			Entry:      ModuleEntry{Name: name, Strategy: StrategyCompilePython},
		}
	}

	return Resolved{
		ModuleName: name,
		Strategy:   StrategySkip,
		Entry:      ModuleEntry{Name: name, Strategy: StrategySkip, Notes: "no resolution strategy found"},
	}
}

func (r *Resolver) localSourcePath(name string) string {
	path, _ := r.findLocalSource(name)
	return path
}

// findLocalSource looks for name as a sibling .py file (dots become
// path separators), first under BaseDir and then under each configured
// search path, mirroring resolveLocalImport/resolveProjectImport's
// try-root-then-search-paths order.
func (r *Resolver) findLocalSource(name string) (string, bool) {
	rel := strings.ReplaceAll(name, ".", string(filepath.Separator)) + ".py"

	candidate := filepath.Join(r.BaseDir, rel)
	if fileExists(candidate) {
		return candidate, true
	}
	for _, sp := range r.SearchPaths {
		candidate := filepath.Join(sp, rel)
		if fileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ImportedModuleNames extracts every dotted module name a module's
// top-level import statements reference, in source order, deduplicated.
func ImportedModuleNames(mod *ast.Module) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, stmt := range mod.Body {
		switch s := stmt.(type) {
		case *ast.Import:
			for _, alias := range s.Names {
				add(alias.Name)
			}
		case *ast.ImportFrom:
			add(s.Module)
		}
	}
	return names
}

// ResolveAll resolves every import in mod and returns the classified
// list alongside human-readable warnings for anything that resolved to
// StrategySkip (the module compiler surfaces these on its warning
// channel rather than failing the build).
func ResolveAll(mod *ast.Module, r *Resolver) ([]Resolved, []string) {
	var resolved []Resolved
	var warnings []string
	for _, name := range ImportedModuleNames(mod) {
		res := r.ResolveModule(name)
		resolved = append(resolved, res)
		if res.Strategy == StrategySkip {
			warnings = append(warnings, "import '"+name+"' could not be resolved and will be skipped")
		}
	}
	return resolved, warnings
}
