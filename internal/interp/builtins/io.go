package builtins

import (
	"io"
	"strings"

	"exprscript/internal/interp/errors"
	"exprscript/internal/interp/runtime"
	"exprscript/internal/lexer"
	"exprscript/internal/report"
)

// registerIO wires spec.md §4.5's I/O intrinsics: `.getline` (blocking
// read, Void at EOF rather than an error), `.put` (one or more values,
// concatenated canonical text, no trailing newline, flushed), and `.send`
// (append a (channel, payload) tuple to the output buffer — SPEC_FULL.md
// §3, not present in the original_source revisions but explicit in
// spec.md §4.5/§6 for variants that have it).
func registerIO(r Registry) {
	r[".getline"] = func(ctx *Context, pos lexer.Position, args []runtime.Value) (runtime.Value, error) {
		if err := checkArity(pos, ".getline", args, 0); err != nil {
			return nil, err
		}
		line, err := ctx.Stdin.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return runtime.NewVoid(), nil
			}
			return nil, errors.NewIOError(pos, err)
		}
		return runtime.NewString(strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")), nil
	}

	r[".put"] = func(ctx *Context, pos lexer.Position, args []runtime.Value) (runtime.Value, error) {
		if len(args) < 1 {
			return nil, errors.NewArityError(pos, ".put expects at least 1 argument, got %d", len(args))
		}
		var b strings.Builder
		for _, a := range args {
			b.WriteString(a.PrettyPrint())
		}
		if _, err := io.WriteString(ctx.Stdout, b.String()); err != nil {
			return nil, errors.NewIOError(pos, err)
		}
		if f, ok := ctx.Stdout.(interface{ Flush() error }); ok {
			if err := f.Flush(); err != nil {
				return nil, errors.NewIOError(pos, err)
			}
		}
		return runtime.NewVoid(), nil
	}

	r[".send"] = func(ctx *Context, pos lexer.Position, args []runtime.Value) (runtime.Value, error) {
		if err := checkArity(pos, ".send", args, 2); err != nil {
			return nil, err
		}
		channel, err := asNumber(pos, ".send", args, 0)
		if err != nil {
			return nil, err
		}
		var payload report.Payload
		switch v := args[1].(type) {
		case *runtime.Number:
			payload = report.Payload{Number: v.Val}
		case *runtime.String:
			payload = report.Payload{Str: v.Val, IsString: true}
		default:
			return nil, errors.WrongArgType(pos, ".send", 1, "Number or String", v.Kind().String())
		}
		ctx.Output.Append(channel.Val, payload)
		return runtime.NewVoid(), nil
	}
}
