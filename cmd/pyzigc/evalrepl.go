package main

import (
	"fmt"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/sunholo/pyzig/internal/bytecode"
)

// newEvalReplCmd is a maintainer debug convenience, genuinely out of
// spec.md's core scope: it lets a developer type eval()/exec() literal
// bodies and step through the constants pool and instruction stream the
// bytecode compiler would embed, without wiring up the full compile
// pipeline. Built on peterh/liner, the same line-editing library the
// teacher's own REPL uses.
func newEvalReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval-repl",
		Short: "interactively compile eval()/exec() literals to bytecode and inspect the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvalRepl()
		},
	}
}

func runEvalRepl() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	cache := bytecode.NewCache()
	fmt.Println(bold("pyzigc eval-repl") + " — type a Python expression or statement, Ctrl-D to quit")

	for {
		input, err := line.Prompt("eval> ")
		if err != nil {
			fmt.Println()
			return nil
		}
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		line.AppendHistory(input)

		prog, fromCache, rep := cache.CompileCached(input)
		if rep != nil {
			fmt.Printf("%s %s\n", red("error:"), rep.Message)
			continue
		}
		hit := ""
		if fromCache {
			hit = yellow(" (cache hit)")
		}
		fmt.Printf("%s%s %d instruction byte(s), %d constant(s)\n", green("ok"), hit, len(prog.Instructions), len(prog.Constants))
		for i, c := range prog.Constants {
			fmt.Printf("  const[%d] = %v\n", i, c)
		}
	}
}
