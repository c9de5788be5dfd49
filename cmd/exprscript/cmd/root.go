package cmd

import (
	"os"
	"sync"

	"github.com/spf13/cobra"
	"zombiezen.com/go/log"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "exprscript",
	Short: "ExprScript interpreter",
	Long: `exprscript is a Go implementation of the ExprScript language: an
expression-oriented language with first-class lexical closures, first-class
continuations (call/cc), exact rational arithmetic, and mixed
lexical/dynamic scoping, driven by a small-step evaluator with an
instrumented mark-sweep-compact garbage collector.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose diagnostic logging")
	rootCmd.PersistentFlags().String("config", "", "path to an exprscript.yaml tuning file")
}

var initLogOnce sync.Once

func initLogging(verbose bool) {
	initLogOnce.Do(func() {
		level := log.Info
		if verbose {
			level = log.Debug
		}
		log.SetDefault(&log.LevelFilter{
			Min:    level,
			Output: log.New(os.Stderr, "exprscript: ", log.StdFlags, nil),
		})
	})
}
