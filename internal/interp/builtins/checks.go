package builtins

import (
	"exprscript/internal/interp/errors"
	"exprscript/internal/interp/runtime"
	"exprscript/internal/lexer"
)

// checkArity is the Go-typed equivalent of the reference interpreter's
// check_args_error_exit arity half (src/interpreter.py): every handler
// calls this first so the count mismatch is reported uniformly.
func checkArity(pos lexer.Position, name string, args []runtime.Value, want int) error {
	if len(args) != want {
		return errors.WrongArity(pos, name, want, len(args))
	}
	return nil
}

func asNumber(pos lexer.Position, name string, args []runtime.Value, i int) (*runtime.Number, error) {
	n, ok := args[i].(*runtime.Number)
	if !ok {
		return nil, errors.WrongArgType(pos, name, i, runtime.KindNumber.String(), args[i].Kind().String())
	}
	return n, nil
}

func asString(pos lexer.Position, name string, args []runtime.Value, i int) (*runtime.String, error) {
	s, ok := args[i].(*runtime.String)
	if !ok {
		return nil, errors.WrongArgType(pos, name, i, runtime.KindString.String(), args[i].Kind().String())
	}
	return s, nil
}

// asInt additionally requires the Number to be an integer (e.g. .strcut's
// bounds), matching the reference's `if args[1].d != 1 ...: sys.exit` check
// inline in the .strcut branch.
func asInt(pos lexer.Position, name string, n *runtime.Number) (int64, error) {
	if !n.Val.IsInteger() {
		return 0, errors.NewDomainError(pos, "%s requires an integer argument, got %s", name, n.Val.String())
	}
	return n.Val.Numerator().Int64(), nil
}

func boolNumber(b bool) *runtime.Number {
	if b {
		return runtime.NewNumber(ratOne)
	}
	return runtime.NewNumber(ratZero)
}
