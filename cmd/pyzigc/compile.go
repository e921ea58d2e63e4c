package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sunholo/pyzig/internal/bytecode"
	"github.com/sunholo/pyzig/internal/modcompile"
)

// commonFlags are shared across compile and build: the spec.md §6
// command surface is intentionally small.
type commonFlags struct {
	force        bool
	emitBytecode bool
	wasm         bool
	binary       bool
	registry     string
	outDir       string
}

func registerCommonFlags(cmd *cobra.Command, f *commonFlags) {
	cmd.Flags().BoolVar(&f.force, "force", false, "bypass the build-artifact cache oracle")
	cmd.Flags().BoolVar(&f.emitBytecode, "emit-bytecode", false, "emit a serialized bytecode program to stdout instead of IR")
	cmd.Flags().BoolVar(&f.wasm, "wasm", false, "select the WebAssembly backend target")
	cmd.Flags().StringVar(&f.registry, "modules-registry", "", "path to a pyzig.modules.yaml module registry sidecar")
	cmd.Flags().StringVar(&f.outDir, "out", "build", "build directory for emitted IR (spec.md §6 filesystem layout)")
}

func newCompileCmd() *cobra.Command {
	f := &commonFlags{}
	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "compile and run a pyzig source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := doCompile(args[0], f); err != nil {
				return err
			}
			fmt.Println(yellow("note:") + " running the compiled artifact is handled by the out-of-scope CLI driver/native toolchain")
			return nil
		},
	}
	registerCommonFlags(cmd, f)
	return cmd
}

func newBuildCmd() *cobra.Command {
	f := &commonFlags{}
	cmd := &cobra.Command{
		Use:   "build <file>",
		Short: "compile only, producing a shared library (default) or an executable with --binary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doCompile(args[0], f)
		},
	}
	registerCommonFlags(cmd, f)
	cmd.Flags().BoolVar(&f.binary, "binary", false, "produce an executable instead of a shared library")
	return cmd
}

func doCompile(path string, f *commonFlags) error {
	if f.emitBytecode {
		return emitBytecode(path)
	}

	base := filepath.Dir(path)
	opts := modcompile.Options{RegistryPath: f.registry}
	c, err := modcompile.New(base, opts)
	if err != nil {
		return err
	}

	unit, rep := c.CompileFile(path)
	if rep != nil {
		src, _ := os.ReadFile(path)
		fmt.Fprint(os.Stderr, rep.Render(src))
		return fmt.Errorf("compilation failed")
	}

	for _, w := range c.Warnings() {
		fmt.Fprintf(os.Stderr, "%s %s\n", yellow("warning:"), w)
	}

	if err := os.MkdirAll(f.outDir, 0o755); err != nil {
		return err
	}
	target := "native"
	if f.wasm {
		target = "wasm32-freestanding"
	}
	kind := "shared library"
	if f.binary {
		kind = "executable"
	}

	for _, u := range modcompile.AllUnits(unit) {
		outPath := filepath.Join(f.outDir, u.ModuleName+".zig")
		if err := os.WriteFile(outPath, []byte(u.IR), 0o644); err != nil {
			return err
		}
	}
	fmt.Printf("%s wrote IR for %d module(s) to %s (target=%s, artifact=%s)\n",
		green("✓"), len(modcompile.AllUnits(unit)), f.outDir, target, kind)
	return nil
}

func emitBytecode(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	prog, rep := bytecode.Compile(string(source))
	if rep != nil {
		fmt.Fprint(os.Stderr, rep.Render(source))
		return fmt.Errorf("bytecode compilation failed")
	}
	_, err = os.Stdout.Write(prog.Serialize())
	return err
}
