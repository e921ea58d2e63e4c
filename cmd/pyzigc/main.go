// Command pyzigc is the thin driver spec.md §6 documents the interface
// contract for: argument parsing and subcommand routing only, with the
// actual compile pipeline living in internal/modcompile. Kept minimal
// per spec.md §1's scope note — the out-of-scope pieces (the downstream
// native toolchain, the build cache oracle) are stubbed or delegated.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// Version is set by ldflags at release build time.
var Version = "dev"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("error:"), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "pyzigc",
		Short:   bold("pyzigc") + " — ahead-of-time compiler for a statically-analyzable Python subset",
		Version: Version,
	}
	root.AddCommand(newCompileCmd())
	root.AddCommand(newBuildCmd())
	root.AddCommand(newEvalReplCmd())
	return root
}
