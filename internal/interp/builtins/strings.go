package builtins

import (
	"exprscript/internal/ast"
	"exprscript/internal/interp/errors"
	"exprscript/internal/interp/runtime"
	"exprscript/internal/lexer"
	"exprscript/internal/parser"
	"exprscript/internal/rational"
)

// registerStrings wires spec.md §4.5's string operations. Every entry is
// registered under both its long (reference-implementation) name and the
// short alias spec.md lists alongside it (`.strlen`/`.slen`, etc.) — both
// point at the same Handler, so there is exactly one implementation to
// keep correct.
func registerStrings(r Registry) {
	alias(r, ".strlen", ".slen", strlen)
	alias(r, ".strcut", ".ssub", strcut)
	alias(r, ".str+", ".s+", strConcat)
	alias(r, ".str<", ".s<", strCompare(func(a, b string) bool { return a < b }))
	alias(r, ".str<=", ".s<=", strCompare(func(a, b string) bool { return a <= b }))
	alias(r, ".str>", ".s>", strCompare(func(a, b string) bool { return a > b }))
	alias(r, ".str>=", ".s>=", strCompare(func(a, b string) bool { return a >= b }))
	alias(r, ".str==", ".s==", strCompare(func(a, b string) bool { return a == b }))
	alias(r, ".str!=", ".s!=", strCompare(func(a, b string) bool { return a != b }))
	alias(r, ".strnum", ".s->n", strnum)
	alias(r, ".strquote", ".squote", strquote)
}

func alias(r Registry, long, short string, h Handler) {
	r[long] = h
	r[short] = h
}

func strlen(ctx *Context, pos lexer.Position, args []runtime.Value) (runtime.Value, error) {
	if err := checkArity(pos, ".strlen", args, 1); err != nil {
		return nil, err
	}
	s, err := asString(pos, ".strlen", args, 0)
	if err != nil {
		return nil, err
	}
	return runtime.NewNumber(rational.FromInt(int64(len([]rune(s.Val))))), nil
}

func strcut(ctx *Context, pos lexer.Position, args []runtime.Value) (runtime.Value, error) {
	if err := checkArity(pos, ".strcut", args, 3); err != nil {
		return nil, err
	}
	s, err := asString(pos, ".strcut", args, 0)
	if err != nil {
		return nil, err
	}
	loN, err := asNumber(pos, ".strcut", args, 1)
	if err != nil {
		return nil, err
	}
	hiN, err := asNumber(pos, ".strcut", args, 2)
	if err != nil {
		return nil, err
	}
	lo, err := asInt(pos, ".strcut", loN)
	if err != nil {
		return nil, err
	}
	hi, err := asInt(pos, ".strcut", hiN)
	if err != nil {
		return nil, err
	}
	runes := []rune(s.Val)
	if lo < 0 || hi < lo || hi > int64(len(runes)) {
		return nil, errors.NewDomainError(pos, ".strcut bounds [%d, %d) out of range for a string of length %d", lo, hi, len(runes))
	}
	return runtime.NewString(string(runes[lo:hi])), nil
}

func strConcat(ctx *Context, pos lexer.Position, args []runtime.Value) (runtime.Value, error) {
	if err := checkArity(pos, ".str+", args, 2); err != nil {
		return nil, err
	}
	a, err := asString(pos, ".str+", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := asString(pos, ".str+", args, 1)
	if err != nil {
		return nil, err
	}
	return runtime.NewString(a.Val + b.Val), nil
}

func strCompare(op func(a, b string) bool) Handler {
	return func(ctx *Context, pos lexer.Position, args []runtime.Value) (runtime.Value, error) {
		if err := checkArity(pos, ".str<", args, 2); err != nil {
			return nil, err
		}
		a, err := asString(pos, ".str<", args, 0)
		if err != nil {
			return nil, err
		}
		b, err := asString(pos, ".str<", args, 1)
		if err != nil {
			return nil, err
		}
		return boolNumber(op(a.Val, b.Val)), nil
	}
}

// strnum re-lexes and re-parses its string argument as a single number
// literal — the reference implementation's approach exactly
// (src/interpreter.py `.strnum`: `parse(deque([Token(sl, args[0].value)]))`)
// rather than a bespoke numeric parser. It runs the argument through the
// real lexer (not a hand-built Token) so the number-literal grammar check
// in lexer.Lex (no leading zeros, no trailing-zero fractions) actually
// applies here too, exactly as it would to the same text in source.
func strnum(ctx *Context, pos lexer.Position, args []runtime.Value) (runtime.Value, error) {
	if err := checkArity(pos, ".strnum", args, 1); err != nil {
		return nil, err
	}
	s, err := asString(pos, ".strnum", args, 0)
	if err != nil {
		return nil, err
	}
	tokens, lerr := lexer.Lex(s.Val)
	if lerr != nil || len(tokens) != 1 {
		return nil, errors.NewDomainError(pos, ".strnum applied to a non-number string %q", s.Val)
	}
	node, perr := parser.ParseTokens(tokens)
	if perr != nil {
		return nil, errors.NewDomainError(pos, ".strnum applied to a non-number string %q", s.Val)
	}
	num, ok := node.(*ast.Number)
	if !ok {
		return nil, errors.NewDomainError(pos, ".strnum applied to a non-number string %q", s.Val)
	}
	return runtime.NewNumber(rational.New(num.N, num.D)), nil
}

func strquote(ctx *Context, pos lexer.Position, args []runtime.Value) (runtime.Value, error) {
	if err := checkArity(pos, ".strquote", args, 1); err != nil {
		return nil, err
	}
	s, err := asString(pos, ".strquote", args, 0)
	if err != nil {
		return nil, err
	}
	return runtime.NewString(ast.Quote(s.Val)), nil
}
