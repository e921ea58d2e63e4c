// Package importresolve classifies each import statement in a module
// into one of a handful of strategies the module compiler can act on:
// satisfy it from the generated Zig runtime, link against a C library,
// recursively compile another Python source file, inline a tiny shim, or
// skip it with a warning because nothing in the backend can satisfy it.
package importresolve

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Strategy is how an import gets satisfied in the generated binary.
type Strategy string

const (
	StrategyZigRuntime    Strategy = "zig_runtime"
	StrategyCLibrary      Strategy = "c_library"
	StrategyCompilePython Strategy = "compile_python"
	StrategyInline        Strategy = "inline"
	StrategySkip          Strategy = "skip"
)

// ModuleEntry is one row of the module registry sidecar: how a given
// dotted module name should be satisfied, and any backend-specific
// wiring it needs.
type ModuleEntry struct {
	Name       string   `yaml:"python_name"`
	Strategy   Strategy `yaml:"strategy"`
	ZigPackage string   `yaml:"backend_import_path,omitempty"`
	NeedsInit  bool     `yaml:"needs_init,omitempty"`
	CHeader    string   `yaml:"c_header,omitempty"`
	CLib       string   `yaml:"c_library_name,omitempty"`
	Notes      string   `yaml:"notes,omitempty"`
}

// Registry maps module names to their resolution entry.
type Registry struct {
	Modules map[string]ModuleEntry `yaml:"modules"`
}

// LoadRegistry reads a YAML sidecar file describing module resolution
// strategies, falling back to DefaultRegistry entries for any module
// the file doesn't mention.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, err
	}
	if reg.Modules == nil {
		reg.Modules = make(map[string]ModuleEntry)
	}
	for name, entry := range DefaultRegistry().Modules {
		if _, exists := reg.Modules[name]; !exists {
			reg.Modules[name] = entry
		}
	}
	return &reg, nil
}

// DefaultRegistry is the built-in resolution table for every standard
// library module internal/registry implements module functions for:
// each is satisfied entirely by the generated Zig runtime, with no
// external library dependency.
func DefaultRegistry() *Registry {
	runtime := []string{
		"math", "json", "os", "os.path", "sys", "collections", "io",
		"hashlib", "sqlite3", "re", "random", "time", "itertools",
	}
	modules := make(map[string]ModuleEntry, len(runtime))
	for _, name := range runtime {
		modules[name] = ModuleEntry{Name: name, Strategy: StrategyZigRuntime, ZigPackage: "pyzig_runtime"}
	}
	return &Registry{Modules: modules}
}

// Lookup returns the entry for name, or (zero-value, false) if the
// registry has no opinion about it.
func (r *Registry) Lookup(name string) (ModuleEntry, bool) {
	e, ok := r.Modules[name]
	return e, ok
}
