package builtins

import (
	"exprscript/internal/interp/runtime"
	"exprscript/internal/lexer"
)

// registerPredicates wires the five type predicates of spec.md §4.5, each
// under its long and short name (`.void?`/`.v?`, etc).
func registerPredicates(r Registry) {
	alias(r, ".void?", ".v?", kindPredicate(runtime.KindVoid))
	alias(r, ".num?", ".n?", kindPredicate(runtime.KindNumber))
	alias(r, ".str?", ".s?", kindPredicate(runtime.KindString))
	alias(r, ".clo?", ".c?", kindPredicate(runtime.KindClosure))
	// .cont? has no short alias in spec.md §4.5.
	r[".cont?"] = kindPredicate(runtime.KindContinuation)
}

func kindPredicate(want runtime.Kind) Handler {
	return func(ctx *Context, pos lexer.Position, args []runtime.Value) (runtime.Value, error) {
		if err := checkArity(pos, want.String()+"?", args, 1); err != nil {
			return nil, err
		}
		return boolNumber(args[0].Kind() == want), nil
	}
}

// registerVoid wires the reference implementation's zero-argument `.void`
// constructor (src/interpreter.py, src/exprscript.py), supplemented per
// SPEC_FULL.md §3 — a convenience spec.md's Non-goals don't exclude.
func registerVoid(r Registry) {
	r[".void"] = func(ctx *Context, pos lexer.Position, args []runtime.Value) (runtime.Value, error) {
		if err := checkArity(pos, ".void", args, 0); err != nil {
			return nil, err
		}
		return runtime.NewVoid(), nil
	}
}
