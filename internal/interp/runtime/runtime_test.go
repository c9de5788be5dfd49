package runtime_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"exprscript/internal/interp/runtime"
	"exprscript/internal/rational"
)

func TestStoreNewStampsLocation(t *testing.T) {
	s := runtime.NewStore()
	v := runtime.NewNumber(rational.FromInt(5))
	idx := s.New(v)
	if v.Location() != idx {
		t.Fatalf("value location %d != store index %d", v.Location(), idx)
	}
	if s.Get(idx) != runtime.Value(v) {
		t.Fatal("store did not retain the same value")
	}
}

func TestStoreReusesSlotsBelowEnd(t *testing.T) {
	s := runtime.NewStore()
	a := s.New(runtime.NewVoid())
	b := s.New(runtime.NewVoid())
	_ = a
	_ = b
	s.Truncate(1)
	c := runtime.NewNumber(rational.FromInt(1))
	idx := s.New(c)
	if idx != 1 {
		t.Fatalf("expected slot 1 to be reused, got %d", idx)
	}
	if s.Capacity() != 2 {
		t.Fatalf("capacity should not have grown, got %d", s.Capacity())
	}
}

func TestEnvLookupNewestFirst(t *testing.T) {
	e := runtime.NewEnv()
	e.Push("x", 10)
	e.Push("x", 20)
	loc, ok := e.Lookup("x")
	if !ok || loc != 20 {
		t.Fatalf("expected newest binding (20), got %d ok=%v", loc, ok)
	}
}

func TestEnvFilterLexical(t *testing.T) {
	e := runtime.NewEnv()
	e.Push("x", 1)
	e.Push("Y", 2)
	lex := e.FilterLexical()
	if len(lex) != 1 || lex[0].Name != "x" {
		t.Fatalf("expected only lexical bindings, got %+v", lex)
	}
}

func TestCloneStackIndependence(t *testing.T) {
	env := runtime.NewEnv()
	env.Push("x", 1)
	layer := runtime.NewFrame(env, nil)
	layer.SetLocal("args", []runtime.Value{runtime.NewVoid()})

	clone := runtime.CloneStack([]*runtime.Layer{layer})

	env.Push("y", 2)
	layer.AppendLocalSlice("args", runtime.NewVoid())

	if len(clone[0].Env.Bindings) != 1 {
		t.Fatalf("clone env should not see later pushes, got %d bindings", len(clone[0].Env.Bindings))
	}
	if len(clone[0].GetLocalSlice("args")) != 1 {
		t.Fatalf("clone args should not see later appends, got %d", len(clone[0].GetLocalSlice("args")))
	}
}

// TestCloneStackPreservesEnvAliasing guards spec.md §3.4's "shared env,
// across intermediate layers of the same frame" invariant across a
// continuation capture: two layers that share one *Env object before
// cloning must still share one (different) *Env object after, so a later
// Push/PopN on the resumed frame layer stays visible to its still-live
// child layer instead of silently diverging.
func TestCloneStackPreservesEnvAliasing(t *testing.T) {
	env := runtime.NewEnv()
	env.Push("x", 1)
	frame := runtime.NewFrame(env, nil)
	child := runtime.NewLayer(env, nil)

	clone := runtime.CloneStack([]*runtime.Layer{frame, child})

	if clone[0].Env != clone[1].Env {
		t.Fatal("cloned frame and child layers should still share one Env")
	}

	clone[0].Env.Push("y", 2)
	if len(clone[1].Env.Bindings) != 2 {
		t.Fatalf("push on cloned frame's env should be visible to aliased child, got %d bindings", len(clone[1].Env.Bindings))
	}
}

// TestCloneStackBindingsDeepEqual uses cmp.Diff for the structural diff a
// plain length/index check above would miss: every (name, location) pair
// must survive the clone in order, not just the count.
func TestCloneStackBindingsDeepEqual(t *testing.T) {
	env := runtime.NewEnv()
	env.Push("x", 1)
	env.Push("Y", 2)
	env.Push("z", 3)
	frame := runtime.NewFrame(env, nil)

	clone := runtime.CloneStack([]*runtime.Layer{frame})

	want := []runtime.Binding{{Name: "x", Loc: 1}, {Name: "Y", Loc: 2}, {Name: "z", Loc: 3}}
	if diff := cmp.Diff(want, clone[0].Env.Bindings); diff != "" {
		t.Fatalf("cloned bindings mismatch (-want +got):\n%s", diff)
	}
}
