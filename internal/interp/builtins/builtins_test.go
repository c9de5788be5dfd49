package builtins_test

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"exprscript/internal/interp/builtins"
	"exprscript/internal/interp/runtime"
	"exprscript/internal/lexer"
	"exprscript/internal/rational"
	"exprscript/internal/report"
)

func newCtx(stdin string) (*builtins.Context, *bytes.Buffer) {
	var out bytes.Buffer
	return &builtins.Context{
		Stdout: &out,
		Stdin:  bufio.NewReader(strings.NewReader(stdin)),
		Output: report.NewBuffer(),
	}, &out
}

func num(n, d int64) *runtime.Number { return runtime.NewNumber(rational.New(n, d)) }

func TestArithmeticAndComparison(t *testing.T) {
	reg := builtins.NewRegistry()
	ctx, _ := newCtx("")
	pos := lexer.Position{Line: 1, Column: 1}

	add, _ := reg.Lookup(".+")
	v, err := add(ctx, pos, []runtime.Value{num(1, 2), num(1, 3)})
	if err != nil {
		t.Fatal(err)
	}
	if v.(*runtime.Number).Val.String() != "5/6" {
		t.Fatalf("got %s", v.PrettyPrint())
	}

	lt, _ := reg.Lookup(".<")
	v, _ = lt(ctx, pos, []runtime.Value{num(1, 2), num(2, 3)})
	if v.(*runtime.Number).Val.Sign() != 1 {
		t.Fatalf("expected true (1), got %s", v.PrettyPrint())
	}
}

func TestDivisionByZero(t *testing.T) {
	reg := builtins.NewRegistry()
	ctx, _ := newCtx("")
	div, _ := reg.Lookup("./")
	_, err := div(ctx, lexer.Position{Line: 1, Column: 1}, []runtime.Value{num(1, 1), num(0, 1)})
	if err == nil {
		t.Fatal("expected a division-by-zero error")
	}
}

func TestModDomainErrorOnZeroRight(t *testing.T) {
	reg := builtins.NewRegistry()
	ctx, _ := newCtx("")
	mod, _ := reg.Lookup(".%")
	_, err := mod(ctx, lexer.Position{Line: 1, Column: 1}, []runtime.Value{num(5, 1), num(0, 1)})
	if err == nil {
		t.Fatal("expected a domain error")
	}
}

func TestStrcutByCodePoints(t *testing.T) {
	reg := builtins.NewRegistry()
	ctx, _ := newCtx("")
	cut, _ := reg.Lookup(".strcut")
	v, err := cut(ctx, lexer.Position{Line: 1, Column: 1}, []runtime.Value{runtime.NewString("héllo"), num(1, 1), num(3, 1)})
	if err != nil {
		t.Fatal(err)
	}
	if v.(*runtime.String).Val != "él" {
		t.Fatalf("got %q", v.PrettyPrint())
	}
}

func TestStrnumRoundTrip(t *testing.T) {
	reg := builtins.NewRegistry()
	ctx, _ := newCtx("")
	quote, _ := reg.Lookup(".strquote")
	numToStr, _ := reg.Lookup(".strnum")
	q, err := quote(ctx, lexer.Position{Line: 1, Column: 1}, []runtime.Value{runtime.NewString("3/2")})
	if err != nil {
		t.Fatal(err)
	}
	_ = q
	v, err := numToStr(ctx, lexer.Position{Line: 1, Column: 1}, []runtime.Value{runtime.NewString("3/2")})
	if err != nil {
		t.Fatal(err)
	}
	if v.(*runtime.Number).Val.String() != "3/2" {
		t.Fatalf("got %s", v.PrettyPrint())
	}
}

// TestStrnumRejectsInvalidLiterals guards spec.md §4.5's ".strnum ...
// fails if not a valid literal" against the full number grammar (spec.md
// §6: no leading zeros, no trailing-zero fractions), not just "starts with
// a digit".
func TestStrnumRejectsInvalidLiterals(t *testing.T) {
	reg := builtins.NewRegistry()
	ctx, _ := newCtx("")
	numToStr, _ := reg.Lookup(".strnum")
	for _, bad := range []string{"01", "1.0", "1 2", "abc"} {
		if _, err := numToStr(ctx, lexer.Position{Line: 1, Column: 1}, []runtime.Value{runtime.NewString(bad)}); err == nil {
			t.Fatalf(".strnum %q: expected a DomainError, got none", bad)
		}
	}
}

func TestGetlineEOFIsVoidNotError(t *testing.T) {
	reg := builtins.NewRegistry()
	ctx, _ := newCtx("")
	getline, _ := reg.Lookup(".getline")
	v, err := getline(ctx, lexer.Position{Line: 1, Column: 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != runtime.KindVoid {
		t.Fatalf("expected Void at EOF, got %s", v.PrettyPrint())
	}
}

func TestPutConcatenatesAndFlushes(t *testing.T) {
	reg := builtins.NewRegistry()
	ctx, out := newCtx("")
	put, _ := reg.Lookup(".put")
	_, err := put(ctx, lexer.Position{Line: 1, Column: 1}, []runtime.Value{runtime.NewString("a"), num(1, 1)})
	if err != nil {
		t.Fatal(err)
	}
	if out.String() != "a1" {
		t.Fatalf("got %q", out.String())
	}
}

func TestSendAppendsTuple(t *testing.T) {
	reg := builtins.NewRegistry()
	ctx, _ := newCtx("")
	send, _ := reg.Lookup(".send")
	_, err := send(ctx, lexer.Position{Line: 1, Column: 1}, []runtime.Value{num(1, 1), runtime.NewString("hi")})
	if err != nil {
		t.Fatal(err)
	}
	if ctx.Output.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", ctx.Output.Len())
	}
}

func TestTypePredicates(t *testing.T) {
	reg := builtins.NewRegistry()
	ctx, _ := newCtx("")
	isNum, _ := reg.Lookup(".n?")
	v, _ := isNum(ctx, lexer.Position{Line: 1, Column: 1}, []runtime.Value{runtime.NewString("x")})
	if v.(*runtime.Number).Val.Sign() != 0 {
		t.Fatal("expected false for a String argument")
	}
}
