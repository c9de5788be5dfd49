package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"exprscript/internal/lexer"
)

var (
	lexEvalExpr string
	lexShowPos  bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize an ExprScript file or expression",
	Long: `Tokenize ExprScript source and print the resulting token stream.

Useful for debugging the lexer. If no file is provided, reads from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEvalExpr, "eval", "e", "", "tokenize inline code instead of reading from a file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show each token's source position")
}

func runLex(cmd *cobra.Command, args []string) error {
	var input string
	switch {
	case lexEvalExpr != "":
		input = lexEvalExpr
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		input = string(data)
	case len(args) == 0:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		input = string(data)
	}

	tokens, err := lexer.Lex(input)
	if err != nil {
		return err
	}
	for _, tok := range tokens {
		if lexShowPos {
			fmt.Printf("%-20q @%d:%d\n", tok.Src, tok.Pos.Line, tok.Pos.Column)
		} else {
			fmt.Printf("%q\n", tok.Src)
		}
	}
	return nil
}
