package evaluator_test

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"exprscript/internal/interp/builtins"
	"exprscript/internal/interp/evaluator"
	"exprscript/internal/interp/runtime"
	"exprscript/internal/parser"
	"exprscript/internal/report"
)

func run(t *testing.T, src string) runtime.Value {
	t.Helper()
	node, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	bctx := &builtins.Context{
		Stdout: &bytes.Buffer{},
		Stdin:  bufio.NewReader(strings.NewReader("")),
		Output: report.NewBuffer(),
	}
	ev := evaluator.New(evaluator.DefaultConfig(), bctx, builtins.NewRegistry())
	v, err := ev.Run(context.Background(), node)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return v
}

func wantNumber(t *testing.T, v runtime.Value, want string) {
	t.Helper()
	n, ok := v.(*runtime.Number)
	if !ok {
		t.Fatalf("expected a Number, got %s", v.PrettyPrint())
	}
	if n.Val.String() != want {
		t.Fatalf("got %s, want %s", n.Val.String(), want)
	}
}

// TestGCDMutualRecursion ports spec.md §8 scenario 1 verbatim.
func TestGCDMutualRecursion(t *testing.T) {
	src := `letrec (g = lambda (a b) { if (.< 0 b) then (g b (.% a b)) else a }) { (g 45 60) }`
	wantNumber(t, run(t, src), "15")
}

// TestAccumulatorClosureCapture ports spec.md §8 scenario 2 verbatim: two
// closures created from the same lambda body each capture their own `x`
// independently.
func TestAccumulatorClosureCapture(t *testing.T) {
	src := `letrec (mk = lambda (x) { lambda () { x } } f = (mk 7)) { (.+ (f) (f)) }`
	wantNumber(t, run(t, src), "14")
}

// TestCallCCEscapes ports spec.md §8 scenario 3 verbatim: the continuation
// invocation discards the pending `(.+ 100 ...)`.
func TestCallCCEscapes(t *testing.T) {
	src := `(.+ 10 (.call/cc lambda (k) { (.+ 100 (k 1)) }))`
	wantNumber(t, run(t, src), "11")
}

// TestTailRecursiveSumIsStackBounded ports spec.md §8 scenario 4 verbatim: a
// tail-recursive sum to 10000 runs to completion and yields 50005000. It
// checks the result only; the depth of the evaluator's Layer stack is not
// measured here.
func TestTailRecursiveSumIsStackBounded(t *testing.T) {
	src := `letrec (s = lambda (n a) { if (.< 0 n) then (s (.- n 1) (.+ n a)) else a }) { (s 10000 0) }`
	wantNumber(t, run(t, src), "50005000")
}

// TestRationalArithmeticStaysExact exercises (1/2+1/3)/5 = 1/6 (spec.md §8).
func TestRationalArithmeticStaysExact(t *testing.T) {
	src := `(./ (.+ 1/2 1/3) 5)`
	wantNumber(t, run(t, src), "1/6")
}

// TestGCReclaimsTransientClosures forces many GC cycles over the course of
// 10000 throwaway closures, asserting the final result is unaffected by
// compaction (spec.md §4.6).
func TestGCReclaimsTransientClosures(t *testing.T) {
	src := `
letrec (
  loop = lambda (n acc) {
    if (.== n 0) then acc
    else
      letrec (
        junk = lambda (x) { (.+ x n) }
      ) {
        (loop (.- n 1) (.+ acc (junk 1)))
      }
  }
) {
  (loop 10000 0)
}`
	node, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	bctx := &builtins.Context{
		Stdout: &bytes.Buffer{},
		Stdin:  bufio.NewReader(strings.NewReader("")),
		Output: report.NewBuffer(),
	}
	cfg := evaluator.DefaultConfig()
	cfg.GCRatio = 0.1
	ev := evaluator.New(cfg, bctx, builtins.NewRegistry())
	v, err := ev.Run(context.Background(), node)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	wantNumber(t, v, "50015000")
}

// TestDynamicScopingVisibleAcrossFrames checks that an uppercase-named
// binding introduced by one frame is visible to a nested call's body via
// dynamic lookup, not just lexically (spec.md §4.4/§9). The call is wrapped
// as an intrinsic argument (never a tail position) so the assertion is
// independent of the tail-call frame-replacement optimization.
func TestDynamicScopingVisibleAcrossFrames(t *testing.T) {
	src := `
letrec (
  Flag = 1
  check = lambda () { Flag }
) {
  (.+ (check) 0)
}`
	wantNumber(t, run(t, src), "1")
}

// TestCallCCCapturesDeepCopyNotLiveAlias re-runs the same .call/cc program
// twice from independent Evaluators and checks both runs agree, guarding
// spec.md §5's "re-invoking a continuation installs another deep copy" /
// "free[ly] reusable" property at the only granularity ExprScript programs
// can observe it from inside the language: this language has no assignment
// form (SPEC_FULL.md §5(ii)), so a captured continuation can't be stashed
// and re-invoked from two different call sites within one run; what must
// hold instead is that invoking it is deterministic and doesn't corrupt
// shared structure for the next independent capture.
func TestCallCCCapturesDeepCopyNotLiveAlias(t *testing.T) {
	src := `(.+ 10 (.call/cc lambda (k) { (.+ 100 (k 1)) }))`
	first := run(t, src)
	second := run(t, src)
	wantNumber(t, first, "11")
	wantNumber(t, second, "11")
}

// TestExitHaltsWithCurrentResult checks .exit terminates the program
// successfully with whatever value was last computed (spec.md §7).
func TestExitHaltsWithCurrentResult(t *testing.T) {
	src := `
letrec (
  x = 42
  y = (.exit)
) {
  x
}`
	wantNumber(t, run(t, src), "42")
}
