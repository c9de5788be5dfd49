package errors

import "exprscript/internal/lexer"

// This file collects the handful of error shapes every intrinsic call site
// needs, so builtins don't each hand-roll the same sentence (mirrors the
// teacher's errors/catalog.go, trimmed to this language's taxonomy).

// WrongArity reports that callee received got arguments but wanted want.
func WrongArity(pos lexer.Position, callee string, want, got int) *InterpreterError {
	return NewArityError(pos, "%s expects %d argument(s), got %d", callee, want, got)
}

// WrongArgType reports that argument index (0-based) to callee was of the
// wrong kind.
func WrongArgType(pos lexer.Position, callee string, index int, wantKind, gotKind string) *InterpreterError {
	return NewTypeError(pos, "%s argument %d: expected %s, got %s", callee, index, wantKind, gotKind)
}

// NotCallable reports that a Call's callee evaluated to a value that is
// neither a Closure nor a Continuation.
func NotCallable(pos lexer.Position, gotKind string) *InterpreterError {
	return NewTypeError(pos, "value of kind %s is not callable", gotKind)
}

// ConditionNotNumber reports an If whose condition evaluated to a non-Number.
func ConditionNotNumber(pos lexer.Position, gotKind string) *InterpreterError {
	return NewTypeError(pos, "if condition evaluated to a value of kind %s, expected Number", gotKind)
}

// QueryAccessNotClosure reports @/& applied to a non-Closure lexical target.
func QueryAccessNotClosure(pos lexer.Position, gotKind string) *InterpreterError {
	return NewTypeError(pos, "lexical variable query/access applied to a value of kind %s, expected Closure", gotKind)
}

// UnrecognizedIntrinsic reports a call to an intrinsic name the registry
// does not recognize.
func UnrecognizedIntrinsic(pos lexer.Position, name string) *InterpreterError {
	return NewTypeError(pos, "unrecognized intrinsic function %s", name)
}
