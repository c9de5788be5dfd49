// Package exprscript is the public facade over the engine in
// internal/interp: an Engine wraps internal/interp/runner.Interpreter with
// only the surface a host program needs (Parse/Run/Eval plus the accumulated
// `.send` report), keeping every internal package free to change shape
// without breaking callers.
package exprscript

import (
	"context"
	"io"
	"strings"

	"exprscript/internal/ast"
	"exprscript/internal/config"
	"exprscript/internal/interp/runner"
	"exprscript/internal/interp/runtime"
	"exprscript/internal/report"
)

// Value is the result of running or evaluating a program — spec.md §3.3's
// Void/Number/String/Closure/Continuation tagged sum.
type Value = runtime.Value

// Node is a parsed program, returned by Parse and accepted by Eval.
type Node = ast.Node

// Engine runs ExprScript programs. Each Run/Eval call starts from a fresh
// store (spec.md §4.5's "new top-level program in a fresh state" applied at
// the engine's own boundary), but Engine-level host state — stdout/stdin
// and the `.send` report buffer — persists across calls on the same Engine.
type Engine struct {
	in *runner.Interpreter
}

// Option configures a new Engine.
type Option func(*options)

type options struct {
	stdout io.Writer
	stdin  io.Reader
	cfg    config.Config
}

// WithStdout directs `.put` output to w instead of the default io.Discard.
func WithStdout(w io.Writer) Option { return func(o *options) { o.stdout = w } }

// WithStdin directs `.getline` input to r instead of an empty reader.
func WithStdin(r io.Reader) Option { return func(o *options) { o.stdin = r } }

// WithConfig overrides the engine's GC ratio and execution budget
// (internal/config). The config's report section is not read by the Engine.
func WithConfig(cfg config.Config) Option { return func(o *options) { o.cfg = cfg } }

// New builds an Engine from zero or more Options; an Engine built with no
// options discards `.put` output, returns EOF immediately to `.getline`, and
// uses config.Default() tuning.
func New(opts ...Option) *Engine {
	o := options{stdout: io.Discard, stdin: strings.NewReader(""), cfg: config.Default()}
	for _, apply := range opts {
		apply(&o)
	}
	return &Engine{in: runner.New(o.stdout, o.stdin, o.cfg)}
}

// Parse lexes and parses source into a Node without running it.
func (e *Engine) Parse(source string) (Node, error) {
	return e.in.Parse(source)
}

// Run parses and evaluates source to completion in a fresh evaluator state.
func (e *Engine) Run(ctx context.Context, source string) (Value, error) {
	return e.in.Run(ctx, source)
}

// Eval evaluates an already-parsed Node in a fresh evaluator state.
func (e *Engine) Eval(ctx context.Context, node Node) (Value, error) {
	return e.in.Eval(ctx, node)
}

// Report returns the buffer `.send` has accumulated into across every
// Run/Eval call made so far on this Engine.
func (e *Engine) Report() *report.Buffer { return e.in.Output() }
