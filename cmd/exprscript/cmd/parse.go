package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"exprscript/internal/parser"
)

var (
	parseExpression bool
	parseDumpAST    bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse ExprScript source and print its AST",
	Long: `Parse ExprScript source code and display the parsed AST.

If no file is provided, reads from stdin. Use -e to parse a single
expression from the command line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVarP(&parseExpression, "expression", "e", false, "parse an expression given on the command line")
	parseCmd.Flags().BoolVar(&parseDumpAST, "pretty", false, "pretty-print the Go AST representation instead of the canonical form")
}

func runParse(cmd *cobra.Command, args []string) error {
	var input string
	switch {
	case parseExpression:
		if len(args) == 0 {
			return fmt.Errorf("no expression provided")
		}
		input = args[0]
	case len(args) > 0:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		input = string(data)
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		input = string(data)
	}

	node, err := parser.Parse(input)
	if err != nil {
		return err
	}
	if parseDumpAST {
		pretty.Println(node)
		return nil
	}
	fmt.Println(node.String())
	return nil
}
