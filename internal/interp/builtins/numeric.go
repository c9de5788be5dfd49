package builtins

import (
	"exprscript/internal/interp/errors"
	"exprscript/internal/interp/runtime"
	"exprscript/internal/lexer"
	"exprscript/internal/rational"
)

var (
	ratZero = rational.FromInt(0)
	ratOne  = rational.FromInt(1)
)

// registerNumeric wires spec.md §4.5's arithmetic, comparison, and boolean
// intrinsics, each a direct Go port of the corresponding `elif` branch in
// src/interpreter.py's interpret() onto internal/rational's normalised
// operations.
func registerNumeric(r Registry) {
	r[".+"] = binaryArith(".+", func(a, b rational.Rational) rational.Rational { return a.Add(b) })
	r[".-"] = binaryArith(".-", func(a, b rational.Rational) rational.Rational { return a.Sub(b) })
	r[".*"] = binaryArith(".*", func(a, b rational.Rational) rational.Rational { return a.Mul(b) })

	r["./"] = func(ctx *Context, pos lexer.Position, args []runtime.Value) (runtime.Value, error) {
		if err := checkArity(pos, "./", args, 2); err != nil {
			return nil, err
		}
		a, err := asNumber(pos, "./", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := asNumber(pos, "./", args, 1)
		if err != nil {
			return nil, err
		}
		if b.Val.Sign() == 0 {
			return nil, errors.NewDivisionByZero(pos)
		}
		return runtime.NewNumber(a.Val.Div(b.Val)), nil
	}

	r[".%"] = func(ctx *Context, pos lexer.Position, args []runtime.Value) (runtime.Value, error) {
		if err := checkArity(pos, ".%", args, 2); err != nil {
			return nil, err
		}
		a, err := asNumber(pos, ".%", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := asNumber(pos, ".%", args, 1)
		if err != nil {
			return nil, err
		}
		// SPEC_FULL.md §5(i): a zero (or negative) right operand is a
		// DomainError, same class as every other .% domain violation,
		// not a distinct DivisionByZero.
		if !a.Val.IsInteger() || !b.Val.IsInteger() || a.Val.Sign() < 0 || b.Val.Sign() <= 0 {
			return nil, errors.NewDomainError(pos, ".%% requires an integer, non-negative left operand and a strictly positive integer right operand, got %s %% %s", a.Val.String(), b.Val.String())
		}
		return runtime.NewNumber(a.Val.Mod(b.Val)), nil
	}

	r[".floor"] = unaryArith(".floor", rational.Rational.Floor)
	r[".ceil"] = unaryArith(".ceil", rational.Rational.Ceil)

	r[".<"] = compare(".<", func(a, b rational.Rational) bool { return a.Lt(b) })
	r[".<="] = compare(".<=", func(a, b rational.Rational) bool { return !b.Lt(a) })
	r[".>"] = compare(".>", func(a, b rational.Rational) bool { return b.Lt(a) })
	r[".>="] = compare(".>=", func(a, b rational.Rational) bool { return !a.Lt(b) })
	r[".=="] = compare(".==", func(a, b rational.Rational) bool { return !a.Lt(b) && !b.Lt(a) })
	r[".!="] = compare(".!=", func(a, b rational.Rational) bool { return a.Lt(b) || b.Lt(a) })

	r[".and"] = binaryBool(".and", func(a, b bool) bool { return a && b })
	r[".or"] = binaryBool(".or", func(a, b bool) bool { return a || b })
	r[".not"] = func(ctx *Context, pos lexer.Position, args []runtime.Value) (runtime.Value, error) {
		if err := checkArity(pos, ".not", args, 1); err != nil {
			return nil, err
		}
		a, err := asNumber(pos, ".not", args, 0)
		if err != nil {
			return nil, err
		}
		return boolNumber(a.Val.Sign() == 0), nil
	}
}

func binaryArith(name string, op func(a, b rational.Rational) rational.Rational) Handler {
	return func(ctx *Context, pos lexer.Position, args []runtime.Value) (runtime.Value, error) {
		if err := checkArity(pos, name, args, 2); err != nil {
			return nil, err
		}
		a, err := asNumber(pos, name, args, 0)
		if err != nil {
			return nil, err
		}
		b, err := asNumber(pos, name, args, 1)
		if err != nil {
			return nil, err
		}
		return runtime.NewNumber(op(a.Val, b.Val)), nil
	}
}

func unaryArith(name string, op func(rational.Rational) rational.Rational) Handler {
	return func(ctx *Context, pos lexer.Position, args []runtime.Value) (runtime.Value, error) {
		if err := checkArity(pos, name, args, 1); err != nil {
			return nil, err
		}
		a, err := asNumber(pos, name, args, 0)
		if err != nil {
			return nil, err
		}
		return runtime.NewNumber(op(a.Val)), nil
	}
}

func compare(name string, op func(a, b rational.Rational) bool) Handler {
	return func(ctx *Context, pos lexer.Position, args []runtime.Value) (runtime.Value, error) {
		if err := checkArity(pos, name, args, 2); err != nil {
			return nil, err
		}
		a, err := asNumber(pos, name, args, 0)
		if err != nil {
			return nil, err
		}
		b, err := asNumber(pos, name, args, 1)
		if err != nil {
			return nil, err
		}
		return boolNumber(op(a.Val, b.Val)), nil
	}
}

func binaryBool(name string, op func(a, b bool) bool) Handler {
	return func(ctx *Context, pos lexer.Position, args []runtime.Value) (runtime.Value, error) {
		if err := checkArity(pos, name, args, 2); err != nil {
			return nil, err
		}
		a, err := asNumber(pos, name, args, 0)
		if err != nil {
			return nil, err
		}
		b, err := asNumber(pos, name, args, 1)
		if err != nil {
			return nil, err
		}
		return boolNumber(op(a.Val.Sign() != 0, b.Val.Sign() != 0)), nil
	}
}
