package parser_test

import (
	"testing"

	"exprscript/internal/ast"
	"exprscript/internal/parser"
)

func TestParseGCDProgram(t *testing.T) {
	src := `letrec (g = lambda (a b) { if (.< 0 b) then (g b (.% a b)) else a }) { (g 45 60) }`
	tree, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := tree.(*ast.Letrec); !ok {
		t.Fatalf("expected *ast.Letrec root, got %T", tree)
	}
}

func TestParseDecimalLiteral(t *testing.T) {
	tree, err := parser.Parse("1.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := tree.(*ast.Number)
	if n.N != 3 || n.D != 2 {
		t.Fatalf("got %d/%d, want 3/2", n.N, n.D)
	}
}

func TestParseEmptySequenceRejected(t *testing.T) {
	if _, err := parser.Parse("[ ]"); err == nil {
		t.Fatal("expected an error for an empty sequence")
	}
}

func TestParseRedundantTokens(t *testing.T) {
	if _, err := parser.Parse("1 2"); err == nil {
		t.Fatal("expected an error for trailing tokens")
	}
}

func TestParseQueryLexicalVsDynamic(t *testing.T) {
	tree, err := parser.Parse(`@x lambda () { 1 }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := tree.(*ast.Query)
	if q.Closure == nil {
		t.Fatal("lexical query should carry a closure expression")
	}

	tree2, err := parser.Parse(`@X`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q2 := tree2.(*ast.Query)
	if q2.Closure != nil {
		t.Fatal("dynamic query should not carry a closure expression")
	}
}

func TestParseCallAndSequence(t *testing.T) {
	tree, err := parser.Parse(`[ (.+ 1 2) (.- 3 1) ]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seq := tree.(*ast.Sequence)
	if len(seq.Exprs) != 2 {
		t.Fatalf("got %d expressions, want 2", len(seq.Exprs))
	}
}
