// Package modcompile recursively invokes the full lex→parse→semantic→
// type→codegen pipeline over a module and its imports (spec.md §4.9),
// producing either a standalone compilation unit per
// StrategyCompilePython import or an inlined struct for module-scoped
// access. It is the orchestration layer the rest of internal/* plugs
// into, grounded on the teacher's internal/pipeline.Pipeline staging
// (parse → elaborate → typecheck → link) generalized from AILANG's
// single-binary pipeline to a DAG over many Python source files.
package modcompile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/sunholo/pyzig/internal/codegen"
	"github.com/sunholo/pyzig/internal/comptime"
	"github.com/sunholo/pyzig/internal/errors"
	"github.com/sunholo/pyzig/internal/importresolve"
	"github.com/sunholo/pyzig/internal/parser"
	"github.com/sunholo/pyzig/internal/semantic"
	"github.com/sunholo/pyzig/internal/types"
)

// Unit is the compiled output for one module: its generated Zig IR, the
// child modules it recursively pulled in (StrategyCompilePython only),
// and whether it is destined to be a standalone compilation unit (a
// top-level import target) or inlined as a nested struct (module-scoped
// access like `mymath.add`).
type Unit struct {
	ModuleName string
	SourcePath string
	IR         string
	Inline     bool
	Consts     map[string]comptime.Value
	Children   []*Unit
}

// Options configures a compilation run.
type Options struct {
	// SearchPaths are extra directories the import resolver consults
	// after BaseDir, matching spec.md §4.3's search order.
	SearchPaths []string
	// RegistryPath, if non-empty, points at a pyzig.modules.yaml sidecar
	// (spec.md §6's "extensible by callers at construction time").
	RegistryPath string
	// Logger receives one line per module entered/left the DAG. If nil,
	// a logger writing to io.Discard is used so callers that don't care
	// about progress tracing pay no cost.
	Logger *logrus.Logger
}

// Compiler drives one root compilation, recursively invoking itself for
// every resolved StrategyCompilePython import and memoizing by absolute
// source path so a diamond-shaped import graph compiles each module
// exactly once.
type Compiler struct {
	opts     Options
	resolver *importresolve.Resolver
	log      *logrus.Logger
	visited  map[string]*Unit
	visiting map[string]bool
	warnings []string
}

// New constructs a Compiler rooted at baseDir, the directory import
// resolution treats as the project root (spec.md §4.3 search order (1)).
func New(baseDir string, opts Options) (*Compiler, error) {
	var registry *importresolve.Registry
	if opts.RegistryPath != "" {
		reg, err := importresolve.LoadRegistry(opts.RegistryPath)
		if err != nil {
			return nil, err
		}
		registry = reg
	}
	resolver := importresolve.NewResolver(baseDir, registry)
	resolver.SearchPaths = opts.SearchPaths

	log := opts.Logger
	if log == nil {
		log = logrus.New()
		log.SetOutput(discardWriter{})
	}

	return &Compiler{
		opts:     opts,
		resolver: resolver,
		log:      log,
		visited:  make(map[string]*Unit),
		visiting: make(map[string]bool),
	}, nil
}

// Warnings returns every diagnostic accumulated across the whole recursive
// compile — one per import resolved to skip, one per child module that
// failed to compile and was dropped — as a first-class return value rather
// than a side print. Only modules are reported: functions that reference a
// skipped module are not marked skipped, and calls to them are not elided.
func (c *Compiler) Warnings() []string { return c.warnings }

// CompileFile compiles the root module at path and every source-backed
// module it transitively imports.
func (c *Compiler) CompileFile(path string) (*Unit, *errors.Report) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.NewGeneric("modcompile", err)
	}
	return c.compileModulePath(moduleNameFromPath(abs), abs, false)
}

func (c *Compiler) compileModulePath(name, path string, inline bool) (*Unit, *errors.Report) {
	if u, ok := c.visited[path]; ok {
		return u, nil
	}
	if c.visiting[path] {
		return nil, errors.New("IMP002", "modcompile", fmt.Sprintf("import cycle detected compiling %s", name), nil)
	}
	c.visiting[path] = true
	defer delete(c.visiting, path)

	c.log.WithField("module", name).Info("entering module")
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewGeneric("modcompile", err)
	}

	mod, rep := parser.ParseFile(source, path)
	if rep != nil {
		return nil, rep
	}

	if rep := semantic.Analyze(mod); rep != nil {
		return nil, rep
	}

	res, rep := types.Infer(mod)
	if rep != nil {
		return nil, rep
	}

	consts := comptime.FoldModuleConstants(mod)
	mutations := semantic.AnalyzeMutations(mod)

	ir, rep := codegen.Generate(mod, res, mutations)
	if rep != nil {
		return nil, rep
	}

	u := &Unit{ModuleName: name, SourcePath: path, IR: ir, Inline: inline, Consts: consts}
	c.visited[path] = u

	resolved, warnings := importresolve.ResolveAll(mod, c.resolver)
	c.warnings = append(c.warnings, warnings...)
	for _, r := range resolved {
		if r.Strategy != importresolve.StrategyCompilePython {
			continue
		}
		child, rep := c.compileModulePath(r.ModuleName, r.FilePath, true)
		if rep != nil {
			// A child module that fails to compile degrades to a skip
			// rather than aborting the whole build (spec.md §7
			// "never-fatal" / "degraded modes").
			c.warnings = append(c.warnings, fmt.Sprintf("module %q failed to compile and was skipped: %s", r.ModuleName, rep.Message))
			continue
		}
		u.Children = append(u.Children, child)
	}

	c.log.WithField("module", name).Info("leaving module")
	return u, nil
}

func moduleNameFromPath(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}

// AllUnits returns the root unit plus every recursively compiled child,
// flattened in compile order, for callers (the CLI, tests) that want to
// emit one IR file per module.
func AllUnits(root *Unit) []*Unit {
	var out []*Unit
	var walk func(u *Unit)
	walk = func(u *Unit) {
		out = append(out, u)
		for _, child := range u.Children {
			walk(child)
		}
	}
	walk(root)
	return out
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
