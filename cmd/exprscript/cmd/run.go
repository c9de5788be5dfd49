package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"zombiezen.com/go/log"

	"exprscript/internal/config"
	"exprscript/pkg/exprscript"
)

var (
	runEvalExpr  string
	runDumpAST   bool
	runDumpState bool
	runShowSent  bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run an ExprScript file or expression",
	Long: `Execute an ExprScript program from a file or an inline expression.

Examples:
  # Run a script file
  exprscript run program.es

  # Evaluate an inline expression
  exprscript run -e '(.+ 1 2)'

  # Run with the parsed AST dumped first
  exprscript run --dump-ast program.es`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runEvalExpr, "eval", "e", "", "evaluate inline code instead of reading from a file")
	runCmd.Flags().BoolVar(&runDumpAST, "dump-ast", false, "dump the parsed AST before running")
	runCmd.Flags().BoolVar(&runDumpState, "dump-state", false, "pretty-print the result value's Go representation")
	runCmd.Flags().BoolVar(&runShowSent, "show-sent", false, "print the accumulated .send report as JSON after running")
}

func runScript(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	initLogging(verbose)
	ctx := context.Background()

	input, _, err := readSource(runEvalExpr, args)
	if err != nil {
		return err
	}

	cfg, err := loadConfigFlag(cmd)
	if err != nil {
		return err
	}

	engine := exprscript.New(
		exprscript.WithStdout(os.Stdout),
		exprscript.WithStdin(os.Stdin),
		exprscript.WithConfig(cfg),
	)

	node, err := engine.Parse(input)
	if err != nil {
		return err
	}
	if runDumpAST {
		fmt.Println(node.String())
	}

	log.Debugf(ctx, "evaluating %d bytes of source", len(input))
	result, err := engine.Eval(ctx, node)
	if err != nil {
		return err
	}

	fmt.Println(result.PrettyPrint())
	if runDumpState {
		pretty.Println(result)
	}
	if runShowSent {
		out, err := engine.Report().JSON(cfg.Report.Pretty)
		if err != nil {
			return fmt.Errorf("rendering .send report: %w", err)
		}
		fmt.Println(string(out))
	}
	return nil
}

// readSource resolves the program text from -e, a file argument, or stdin.
func readSource(evalExpr string, args []string) (source, name string, err error) {
	switch {
	case evalExpr != "":
		return evalExpr, "<eval>", nil
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), args[0], nil
	default:
		return "", "", fmt.Errorf("provide a file path or use -e for inline code")
	}
}

func loadConfigFlag(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
