package evaluator

import (
	"context"

	"zombiezen.com/go/log"

	"exprscript/internal/ast"
	"exprscript/internal/interp/errors"
	"exprscript/internal/interp/runtime"
	"exprscript/internal/parser"
)

func (e *Evaluator) stepCall(ctx context.Context, n *ast.Call, layer *runtime.Layer) error {
	if n.IsIntrinsicCall() {
		return e.stepIntrinsicCall(ctx, n, layer)
	}
	return e.stepClosureOrContinuationCall(ctx, n, layer)
}

// stepIntrinsicCall ports the reference's intrinsic-call branch
// (src/interpreter.py CallNode/IntrinsicNode): arguments are evaluated
// left to right with no stack growth afterward, then the intrinsic either
// runs through the builtins.Registry or — for the three engine-level
// forms — is handled directly here.
func (e *Evaluator) stepIntrinsicCall(ctx context.Context, n *ast.Call, layer *runtime.Layer) error {
	callee := n.Callee.(*ast.Intrinsic)
	argc := len(n.Args)
	switch {
	case layer.PC == 0:
		layer.SetLocal("args", []runtime.Value{})
		layer.PC++
	case layer.PC <= argc:
		if layer.PC > 1 {
			layer.AppendLocalSlice("args", e.result)
		}
		e.push(runtime.NewLayer(layer.Env, n.Args[layer.PC-1]))
		layer.PC++
	default:
		if layer.PC > 1 {
			layer.AppendLocalSlice("args", e.result)
		}
		args := layer.GetLocalSlice("args")
		switch callee.Name {
		case ".call/cc":
			return e.callCC(ctx, callee, args)
		case ".eval":
			return e.evalIntrinsic(ctx, callee, args)
		case ".exit":
			if len(args) != 0 {
				return errors.WrongArity(callee.Loc, ".exit", 0, len(args))
			}
			return errExit
		default:
			handler, ok := e.registry.Lookup(callee.Name)
			if !ok {
				return errors.UnrecognizedIntrinsic(callee.Loc, callee.Name)
			}
			v, err := handler(e.bctx, callee.Loc, args)
			if err != nil {
				return err
			}
			e.result = v
			e.pop()
		}
	}
	return nil
}

// callCC ports src/interpreter.py lines 1239-1251 exactly: pop this call's
// own layer *before* snapshotting the stack (so the snapshot does not
// include the call/cc invocation itself), then push a fresh frame that
// binds the receiver closure's single parameter to the captured
// continuation and fall through without the common "pop self" at the end
// of stepIntrinsicCall — the pop already happened.
func (e *Evaluator) callCC(ctx context.Context, callee *ast.Intrinsic, args []runtime.Value) error {
	if len(args) != 1 {
		return errors.WrongArity(callee.Loc, ".call/cc", 1, len(args))
	}
	closure, ok := args[0].(*runtime.Closure)
	if !ok {
		return errors.WrongArgType(callee.Loc, ".call/cc", 0, runtime.KindClosure.String(), args[0].Kind().String())
	}
	if len(closure.Fun.Params) != 1 {
		return errors.NewArityError(callee.Loc, ".call/cc's receiver closure must take exactly 1 parameter, got %d", len(closure.Fun.Params))
	}
	e.pop()
	contStack := runtime.CloneStack(e.stack)
	cont := runtime.NewContinuation(contStack, callee)
	log.Debugf(ctx, "call/cc captured continuation %s at %s (%d layers)", cont.TraceID, callee.Loc, len(contStack))
	addr := e.box(cont)
	bindings := append(append([]runtime.Binding{}, closure.Env...), runtime.Binding{Name: closure.Fun.Params[0].Name, Loc: addr})
	e.push(runtime.NewFrame(runtime.NewEnvFrom(bindings), closure.Fun.Body))
	return nil
}

// evalIntrinsic ports `.eval` (src/interpreter.py): parse the string as a
// fresh top-level program and run it to completion in a brand-new
// Evaluator sharing this one's host collaborators (stdout/stdin/output
// buffer) but with its own store (spec.md §4.5 "a new top-level program
// in a fresh state").
func (e *Evaluator) evalIntrinsic(ctx context.Context, callee *ast.Intrinsic, args []runtime.Value) error {
	if len(args) != 1 {
		return errors.WrongArity(callee.Loc, ".eval", 1, len(args))
	}
	s, ok := args[0].(*runtime.String)
	if !ok {
		return errors.WrongArgType(callee.Loc, ".eval", 0, runtime.KindString.String(), args[0].Kind().String())
	}
	node, err := parser.Parse(s.Val)
	if err != nil {
		return WrapFrontEnd(err)
	}
	sub := New(e.cfg, e.bctx, e.registry)
	v, err := sub.Run(ctx, node)
	if err != nil {
		return err
	}
	e.result = v
	e.pop()
	return nil
}

// stepClosureOrContinuationCall ports the reference's closure/continuation
// call branch (src/interpreter.py CallNode else-branch), including the
// tail-call frame-replacement optimization spec.md §4.3 recommends: when
// this Call layer sits in tail position, invoking a Closure discards the
// current frame (and every already-resolved intermediate layer beneath it
// down to the frame boundary) instead of stacking a new one on top,
// bounding stack growth independent of recursion depth.
func (e *Evaluator) stepClosureOrContinuationCall(ctx context.Context, n *ast.Call, layer *runtime.Layer) error {
	argc := len(n.Args)
	switch {
	case layer.PC == 0:
		e.push(runtime.NewLayer(layer.Env, n.Callee))
		layer.PC++
	case layer.PC == 1:
		layer.SetLocal("callee", e.result)
		layer.SetLocal("args", []runtime.Value{})
		layer.PC++
	case layer.PC-1 <= argc:
		if layer.PC-1 > 1 {
			layer.AppendLocalSlice("args", e.result)
		}
		e.push(runtime.NewLayer(layer.Env, n.Args[layer.PC-2]))
		layer.PC++
	case layer.PC-1 == argc+1:
		if layer.PC-1 > 1 {
			layer.AppendLocalSlice("args", e.result)
		}
		callee := layer.GetLocal("callee")
		args := layer.GetLocalSlice("args")
		switch c := callee.(type) {
		case *runtime.Closure:
			if len(args) != len(c.Fun.Params) {
				return errors.WrongArity(n.Callee.Pos(), calleeName(n), len(c.Fun.Params), len(args))
			}
			bindings := append([]runtime.Binding{}, c.Env...)
			for i, p := range c.Fun.Params {
				bindings = append(bindings, runtime.Binding{Name: p.Name, Loc: e.box(args[i])})
			}
			frame := runtime.NewFrame(runtime.NewEnvFrom(bindings), c.Fun.Body)
			if layer.Tail {
				k := frameBoundary(e.stack)
				e.stack = e.stack[:k]
				e.push(frame)
			} else {
				e.push(frame)
				layer.PC++
			}
		case *runtime.Continuation:
			if len(args) != 1 {
				return errors.WrongArity(n.Callee.Pos(), calleeName(n), 1, len(args))
			}
			log.Debugf(ctx, "invoking continuation %s (%d layers)", c.TraceID, len(c.Stack))
			e.stack = runtime.CloneStack(c.Stack)
		default:
			return errors.NotCallable(n.Callee.Pos(), callee.Kind().String())
		}
	default:
		e.pop()
	}
	return nil
}

func calleeName(n *ast.Call) string {
	return n.Callee.PrettyPrint()
}
