package rational_test

import (
	"testing"

	"exprscript/internal/rational"
)

func TestAddNormalises(t *testing.T) {
	got := rational.New(1, 2).Add(rational.New(1, 3))
	want := rational.New(5, 6)
	if !got.Eq(want) {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestDivSignNormalisation(t *testing.T) {
	got := rational.New(1, 2).Div(rational.New(-1, 3))
	if got.Sign() >= 0 {
		t.Fatalf("expected negative result, got %s", got)
	}
	if got.Denominator().Sign() <= 0 {
		t.Fatalf("denominator must stay positive, got %s", got)
	}
}

func TestLowestTerms(t *testing.T) {
	got := rational.New(4, 8)
	if got.Numerator().Int64() != 1 || got.Denominator().Int64() != 2 {
		t.Fatalf("not reduced: %s", got)
	}
}

func TestFloorCeil(t *testing.T) {
	r := rational.New(7, 2)
	if got := r.Floor(); got.Numerator().Int64() != 3 {
		t.Fatalf("floor(7/2) = %s, want 3", got)
	}
	if got := r.Ceil(); got.Numerator().Int64() != 4 {
		t.Fatalf("ceil(7/2) = %s, want 4", got)
	}
	neg := rational.New(-7, 2)
	if got := neg.Floor(); got.Numerator().Int64() != -4 {
		t.Fatalf("floor(-7/2) = %s, want -4", got)
	}
}

func TestModPreconditionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on invalid Mod operands")
		}
	}()
	rational.New(1, 2).Mod(rational.New(1, 1))
}

func TestLtDerivedComparisons(t *testing.T) {
	a, b := rational.New(1, 3), rational.New(1, 2)
	if !a.Lt(b) {
		t.Fatal("1/3 should be < 1/2")
	}
	if a.Eq(b) {
		t.Fatal("1/3 should not equal 1/2")
	}
	if !rational.New(2, 4).Eq(rational.New(1, 2)) {
		t.Fatal("2/4 should equal 1/2 after normalisation")
	}
}

func TestStringFormat(t *testing.T) {
	if got := rational.FromInt(15).String(); got != "15" {
		t.Fatalf("integer rational should print without denominator, got %s", got)
	}
	if got := rational.New(1, 6).String(); got != "1/6" {
		t.Fatalf("got %s, want 1/6", got)
	}
	if got := rational.New(-1, 6).String(); got != "-1/6" {
		t.Fatalf("got %s, want -1/6", got)
	}
}
