// Package evaluator is the small-step driver spec.md §4.3/§9 mandates in
// place of a recursive tree-walking interpreter: "a small-step driver is
// chosen deliberately to (a) make call/cc a mechanical stack copy, (b)
// allow precise GC rooting ... and (c) permit bounded-budget execution."
// Its outer dispatch is over the top-of-stack Layer's expression kind
// (exhaustive tagged-sum match per spec.md §9); the inner dispatch over
// intrinsic name is delegated to exprscript/internal/interp/builtins,
// except for `.call/cc`, `.eval` and `.exit`, which need engine-level
// stack surgery or a fresh evaluator and so are handled directly here.
//
// Ported step-for-step from the reference implementation's interpret()
// loop (_examples/original_source/src/interpreter.py), including its
// program-counter encoding for each composite node, so the two stay
// checkable against each other line by line.
package evaluator

import (
	"context"
	"time"

	"exprscript/internal/ast"
	"exprscript/internal/interp/builtins"
	"exprscript/internal/interp/errors"
	"exprscript/internal/interp/runtime"
	"exprscript/internal/lexer"
	"exprscript/internal/parser"
	"exprscript/internal/rational"
)

// Config tunes the parameters spec.md leaves to the implementation
// (SPEC_FULL.md §1.3): the GC occupancy trigger ratio and an optional
// wall-clock execution budget.
type Config struct {
	// GCRatio is the store-occupancy fraction that triggers a GC cycle
	// (spec.md §4.6; default 0.8, matching the reference's `0.8 * capacity`).
	GCRatio float64
	// Budget is an optional wall-clock ceiling (spec.md §5); zero means no
	// budget. Exceeding it fails with a Timeout error.
	Budget time.Duration
}

// DefaultConfig matches the reference implementation's hard-coded 0.8 GC
// ratio and imposes no execution budget.
func DefaultConfig() Config {
	return Config{GCRatio: 0.8}
}

// Evaluator holds one program's entire mutable execution state: the store,
// the stack of Layers, and the single result register spec.md §4.3
// describes. It is not safe for concurrent use — spec.md §5 is explicit
// that scheduling is "single-threaded cooperative within the evaluator".
type Evaluator struct {
	store    *runtime.Store
	stack    []*runtime.Layer
	result   runtime.Value
	cfg      Config
	bctx     *builtins.Context
	registry builtins.Registry

	// insufficientCapacity is the last store capacity at which a GC cycle
	// failed to free enough room; the evaluator skips running GC again
	// until capacity has grown past it (spec.md §4.6 thrash prevention).
	insufficientCapacity int
	startedAt            time.Time
}

// haltSignal is the internal sentinel error the `.exit` intrinsic returns
// to unwind Run cleanly with success — spec.md §7: "`.exit` terminates
// successfully without producing an error."
type haltSignal struct{}

func (haltSignal) Error() string { return "exprscript: .exit" }

var errExit error = haltSignal{}

// New builds an Evaluator sharing bctx (stdout/stdin/output buffer) and
// registry (the intrinsic dispatch table) with its caller — used both for
// the top-level program and for each nested `.eval`, which gets a fresh
// store but the same host collaborators (spec.md §4.5 "a new top-level
// program in a fresh state").
func New(cfg Config, bctx *builtins.Context, registry builtins.Registry) *Evaluator {
	return &Evaluator{
		store:                runtime.NewStore(),
		cfg:                  cfg,
		bctx:                 bctx,
		registry:             registry,
		insufficientCapacity: -1,
	}
}

// Run drives root to completion, returning its value or the first error
// encountered (spec.md §7: "the evaluator surfaces the first such error
// ... and terminates").
func (e *Evaluator) Run(ctx context.Context, root ast.Node) (runtime.Value, error) {
	e.stack = []*runtime.Layer{runtime.NewFrame(runtime.NewEnv(), root)}
	e.startedAt = time.Now()
	for {
		if len(e.stack) == 0 {
			return e.result, nil
		}
		if e.cfg.Budget > 0 && time.Since(e.startedAt) > e.cfg.Budget {
			return nil, errors.NewTimeout(e.stack[len(e.stack)-1].Expr.Pos())
		}
		e.maybeGC()
		if err := e.step(ctx); err != nil {
			if err == errExit {
				return e.result, nil
			}
			return nil, err
		}
	}
}

// maybeGC mirrors the reference's GC control block exactly (spec.md §4.6):
// run a cycle once occupancy crosses the ratio, and remember the capacity
// at which a cycle failed to bring occupancy back down so repeated GC
// attempts don't thrash while the store is still genuinely growing.
func (e *Evaluator) maybeGC() {
	capacity := e.store.Capacity()
	if capacity <= e.insufficientCapacity {
		return
	}
	threshold := e.cfg.GCRatio * float64(capacity)
	if float64(e.store.End()) < threshold {
		return
	}
	e.gc()
	if float64(e.store.End()) >= e.cfg.GCRatio*float64(e.store.Capacity()) {
		e.insufficientCapacity = capacity
	}
}

func (e *Evaluator) top() *runtime.Layer { return e.stack[len(e.stack)-1] }

func (e *Evaluator) push(l *runtime.Layer) { e.stack = append(e.stack, l) }

func (e *Evaluator) pop() { e.stack = e.stack[:len(e.stack)-1] }

// frameBoundary returns the index of the nearest Frame-flagged layer at or
// below the current top — the current frame's own starting layer, used by
// tail-call frame replacement.
func frameBoundary(stack []*runtime.Layer) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Frame {
			return i
		}
	}
	return 0
}

// step evaluates exactly one Layer at the top of the stack, mutating
// e.stack and e.result in place — the outer tagged-sum dispatch spec.md §9
// calls for.
func (e *Evaluator) step(ctx context.Context) error {
	layer := e.top()
	switch n := layer.Expr.(type) {
	case *ast.Number:
		e.result = runtime.NewNumber(rational.New(n.N, n.D))
		e.pop()
	case *ast.String:
		e.result = runtime.NewString(n.Value)
		e.pop()
	case *ast.Lambda:
		e.result = runtime.NewClosure(layer.Env.FilterLexical(), n)
		e.pop()
	case *ast.Variable:
		return e.stepVariable(n, layer)
	case *ast.Letrec:
		return e.stepLetrec(n, layer)
	case *ast.If:
		return e.stepIf(n, layer)
	case *ast.Sequence:
		return e.stepSequence(n, layer)
	case *ast.Query:
		return e.stepQuery(n, layer)
	case *ast.Access:
		return e.stepAccess(n, layer)
	case *ast.Call:
		return e.stepCall(ctx, n, layer)
	default:
		return errors.NewTypeError(layer.Expr.Pos(), "cannot evaluate %T as a value", layer.Expr)
	}
	return nil
}

func (e *Evaluator) stepVariable(n *ast.Variable, layer *runtime.Layer) error {
	if n.IsLexical() {
		loc, ok := layer.Env.Lookup(n.Name)
		if !ok {
			return errors.NewUndefinedVariable(n.Loc, n.Name)
		}
		e.result = e.store.Get(loc)
		e.pop()
		return nil
	}
	loc, ok := lookupDynamic(e.stack, n.Name)
	if !ok {
		return errors.NewUndefinedVariable(n.Loc, n.Name)
	}
	e.result = e.store.Get(loc)
	e.pop()
	return nil
}

func lookupDynamic(stack []*runtime.Layer, name string) (int, bool) {
	for i := len(stack) - 1; i >= 0; i-- {
		if !stack[i].Frame {
			continue
		}
		if loc, ok := stack[i].Env.Lookup(name); ok {
			return loc, true
		}
	}
	return 0, false
}

func queryDynamic(stack []*runtime.Layer, name string) bool {
	_, ok := lookupDynamic(stack, name)
	return ok
}

func (e *Evaluator) stepLetrec(n *ast.Letrec, layer *runtime.Layer) error {
	count := len(n.Bindings)
	switch {
	case layer.PC == 0:
		for _, b := range n.Bindings {
			layer.Env.Push(b.Name.Name, e.store.New(runtime.NewVoid()))
		}
		layer.PC++
	case layer.PC <= count:
		if layer.PC > 1 {
			e.finishBinding(n.Bindings[layer.PC-2], layer.Env)
		}
		e.push(runtime.NewLayer(layer.Env, n.Bindings[layer.PC-1].Expr))
		layer.PC++
	case layer.PC == count+1:
		if layer.PC > 1 && count > 0 {
			e.finishBinding(n.Bindings[layer.PC-2], layer.Env)
		}
		e.push(runtime.NewTailLayer(layer.Env, n.Body, layer.Tail))
		layer.PC++
	default:
		layer.Env.PopN(count)
		e.pop()
	}
	return nil
}

func (e *Evaluator) finishBinding(b ast.Binding, env *runtime.Env) {
	loc, ok := env.Lookup(b.Name.Name)
	if ok {
		e.store.Set(loc, e.result)
	}
}

func (e *Evaluator) stepIf(n *ast.If, layer *runtime.Layer) error {
	switch layer.PC {
	case 0:
		e.push(runtime.NewLayer(layer.Env, n.Cond))
		layer.PC++
	case 1:
		cond, ok := e.result.(*runtime.Number)
		if !ok {
			return errors.ConditionNotNumber(n.Loc, e.result.Kind().String())
		}
		if cond.Val.Sign() != 0 {
			e.push(runtime.NewTailLayer(layer.Env, n.Then, layer.Tail))
		} else {
			e.push(runtime.NewTailLayer(layer.Env, n.Else, layer.Tail))
		}
		layer.PC++
	default:
		e.pop()
	}
	return nil
}

func (e *Evaluator) stepSequence(n *ast.Sequence, layer *runtime.Layer) error {
	if layer.PC < len(n.Exprs) {
		tail := layer.Tail && layer.PC == len(n.Exprs)-1
		e.push(runtime.NewTailLayer(layer.Env, n.Exprs[layer.PC], tail))
		layer.PC++
		return nil
	}
	e.pop()
	return nil
}

func (e *Evaluator) stepQuery(n *ast.Query, layer *runtime.Layer) error {
	if n.Var.IsDynamic() {
		e.result = boolNumber(queryDynamic(e.stack, n.Var.Name))
		e.pop()
		return nil
	}
	if layer.PC == 0 {
		e.push(runtime.NewLayer(layer.Env, n.Closure))
		layer.PC++
		return nil
	}
	closure, ok := e.result.(*runtime.Closure)
	if !ok {
		return errors.QueryAccessNotClosure(n.Loc, e.result.Kind().String())
	}
	_, found := closure.Lookup(n.Var.Name)
	e.result = boolNumber(found)
	e.pop()
	return nil
}

func (e *Evaluator) stepAccess(n *ast.Access, layer *runtime.Layer) error {
	if layer.PC == 0 {
		e.push(runtime.NewLayer(layer.Env, n.Closure))
		layer.PC++
		return nil
	}
	closure, ok := e.result.(*runtime.Closure)
	if !ok {
		return errors.QueryAccessNotClosure(n.Loc, e.result.Kind().String())
	}
	loc, found := closure.Lookup(n.Var.Name)
	if !found {
		return errors.NewUndefinedVariable(n.Loc, n.Var.Name)
	}
	e.result = e.store.Get(loc)
	e.pop()
	return nil
}

func boolNumber(b bool) *runtime.Number {
	if b {
		return runtime.NewNumber(rational.FromInt(1))
	}
	return runtime.NewNumber(rational.FromInt(0))
}

// box returns v's existing store location, or allocates a fresh one — the
// reference implementation's "args[i].location if not None else
// state.new(args[i])" optimization (src/interpreter.py), which lets an
// already-boxed value (e.g. one just fetched by a Variable lookup) be
// reused as a parameter's binding instead of doubling store pressure.
func (e *Evaluator) box(v runtime.Value) int {
	if loc := v.Location(); loc != runtime.NoLocation {
		return loc
	}
	return e.store.New(v)
}

// WrapFrontEnd adapts a lexer/parser error into the InterpreterError
// taxonomy spec.md §7 defines, so every error this engine can produce —
// front-end or evaluation — has the same shape by the time it reaches a
// caller.
func WrapFrontEnd(err error) error {
	switch e := err.(type) {
	case *lexer.Error:
		return errors.FromLexer(e.Pos, e.Msg)
	case *parser.Error:
		return errors.FromParser(e.Pos, e.Msg)
	default:
		return err
	}
}
