// Command exprscript is the ExprScript command-line interpreter: run, parse,
// and lex subcommands over the engine in pkg/exprscript.
package main

import (
	"fmt"
	"os"

	"exprscript/cmd/exprscript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
