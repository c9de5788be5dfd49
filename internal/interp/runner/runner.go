// Package runner composes the evaluator, the intrinsic registry, and an
// output buffer into one Interpreter — the same "keep internal/interp free
// of evaluator-package knowledge at the call site, wire it all up here"
// shape the teacher's internal/interp/runner/runner.go uses to assemble its
// own Interpreter from an Evaluator, a TypeSystem, and a RefCountManager.
package runner

import (
	"bufio"
	"context"
	"io"

	"exprscript/internal/ast"
	"exprscript/internal/config"
	"exprscript/internal/interp/builtins"
	"exprscript/internal/interp/evaluator"
	"exprscript/internal/interp/runtime"
	"exprscript/internal/parser"
	"exprscript/internal/report"
)

// Interpreter is a ready-to-run ExprScript engine: one Evaluator per Run
// call (so repeated Run/Eval calls never leak store state between programs,
// spec.md §4.5's `.eval` "a new top-level program in a fresh state" applied
// at the outermost level too), sharing one stdout/stdin/output-buffer host
// context and one intrinsic registry.
type Interpreter struct {
	cfg      evaluator.Config
	bctx     *builtins.Context
	registry builtins.Registry
}

// New builds an Interpreter writing to stdout, reading from stdin, per cfg.
func New(stdout io.Writer, stdin io.Reader, cfg config.Config) *Interpreter {
	return &Interpreter{
		cfg: evaluator.Config{GCRatio: cfg.GC.Ratio, Budget: cfg.Run.Budget()},
		bctx: &builtins.Context{
			Stdout: stdout,
			Stdin:  bufio.NewReader(stdin),
			Output: report.NewBuffer(),
		},
		registry: builtins.NewRegistry(),
	}
}

// Output returns the accumulated `.send` report buffer across every Run
// call made so far on this Interpreter.
func (in *Interpreter) Output() *report.Buffer { return in.bctx.Output }

// Parse lexes and parses source without running it.
func (in *Interpreter) Parse(source string) (ast.Node, error) {
	node, err := parser.Parse(source)
	if err != nil {
		return nil, evaluator.WrapFrontEnd(err)
	}
	return node, nil
}

// Run parses and evaluates source to completion, returning its result value.
func (in *Interpreter) Run(ctx context.Context, source string) (runtime.Value, error) {
	node, err := in.Parse(source)
	if err != nil {
		return nil, err
	}
	return in.Eval(ctx, node)
}

// Eval evaluates an already-parsed program in a fresh evaluator state.
func (in *Interpreter) Eval(ctx context.Context, node ast.Node) (runtime.Value, error) {
	ev := evaluator.New(in.cfg, in.bctx, in.registry)
	return ev.Run(ctx, node)
}
