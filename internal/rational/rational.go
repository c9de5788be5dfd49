// Package rational implements exact rational arithmetic for ExprScript's
// only numeric type: a signed numerator over a strictly positive
// denominator, always kept in lowest terms.
package rational

import "math/big"

// Rational is an exact fraction n/d with d > 0 and gcd(|n|, d) == 1.
//
// The zero value is not a valid Rational; use New or FromInt.
type Rational struct {
	n *big.Int
	d *big.Int
}

// New builds a normalised Rational from a numerator and a strictly
// positive denominator. It panics if d == 0; callers that accept
// user-controlled denominators (the parser, .strnum) must reject zero
// denominators themselves before calling New.
func New(n, d int64) Rational {
	return newBig(big.NewInt(n), big.NewInt(d))
}

// FromInt builds the integer Rational n/1.
func FromInt(n int64) Rational {
	return New(n, 1)
}

func newBig(n, d *big.Int) Rational {
	if d.Sign() == 0 {
		panic("rational: zero denominator")
	}
	if d.Sign() < 0 {
		n = new(big.Int).Neg(n)
		d = new(big.Int).Neg(d)
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(n), d)
	if g.Sign() == 0 {
		g.SetInt64(1)
	}
	return Rational{
		n: new(big.Int).Quo(n, g),
		d: new(big.Int).Quo(d, g),
	}
}

// Numerator returns the (signed) numerator in lowest terms.
func (r Rational) Numerator() *big.Int { return new(big.Int).Set(r.n) }

// Denominator returns the (strictly positive) denominator in lowest terms.
func (r Rational) Denominator() *big.Int { return new(big.Int).Set(r.d) }

// IsInteger reports whether r has denominator 1.
func (r Rational) IsInteger() bool { return r.d.Cmp(big.NewInt(1)) == 0 }

// Sign returns -1, 0, or 1 matching the sign of r.
func (r Rational) Sign() int { return r.n.Sign() }

// Add returns r + o.
func (r Rational) Add(o Rational) Rational {
	n := new(big.Int).Add(new(big.Int).Mul(r.n, o.d), new(big.Int).Mul(o.n, r.d))
	d := new(big.Int).Mul(r.d, o.d)
	return newBig(n, d)
}

// Sub returns r - o.
func (r Rational) Sub(o Rational) Rational {
	n := new(big.Int).Sub(new(big.Int).Mul(r.n, o.d), new(big.Int).Mul(o.n, r.d))
	d := new(big.Int).Mul(r.d, o.d)
	return newBig(n, d)
}

// Mul returns r * o.
func (r Rational) Mul(o Rational) Rational {
	n := new(big.Int).Mul(r.n, o.n)
	d := new(big.Int).Mul(r.d, o.d)
	return newBig(n, d)
}

// Div returns r / o. The caller must check o.Sign() != 0 first (division
// by zero is a source-located DivisionByZero error, not a panic here).
func (r Rational) Div(o Rational) Rational {
	n := new(big.Int).Mul(r.n, o.d)
	d := new(big.Int).Mul(r.d, o.n)
	return newBig(n, d)
}

// Mod returns r % o for integer r, o with r >= 0 and o > 0. The caller is
// responsible for validating those preconditions (DomainError otherwise);
// Mod panics if they don't hold, since every call site must have already
// checked.
func (r Rational) Mod(o Rational) Rational {
	if !r.IsInteger() || !o.IsInteger() || r.Sign() < 0 || o.Sign() <= 0 {
		panic("rational: Mod preconditions violated")
	}
	n := new(big.Int).Mod(r.n, o.n)
	return newBig(n, big.NewInt(1))
}

// Floor returns floor(r) as an integer Rational.
func (r Rational) Floor() Rational {
	q := new(big.Int)
	m := new(big.Int)
	q.DivMod(r.n, r.d, m)
	return newBig(q, big.NewInt(1))
}

// Ceil returns ceil(r) as an integer Rational.
func (r Rational) Ceil() Rational {
	q := new(big.Int)
	m := new(big.Int)
	q.DivMod(r.n, r.d, m)
	if m.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return newBig(q, big.NewInt(1))
}

// Lt reports whether r < o, by cross-multiplication (both denominators are
// positive, so the sign of the product is never flipped).
func (r Rational) Lt(o Rational) bool {
	left := new(big.Int).Mul(r.n, o.d)
	right := new(big.Int).Mul(o.n, r.d)
	return left.Cmp(right) < 0
}

// Eq reports structural equality after normalisation, i.e. !r.Lt(o) && !o.Lt(r).
func (r Rational) Eq(o Rational) bool {
	return !r.Lt(o) && !o.Lt(r)
}

// String renders "n" for integers or "n/d" otherwise, sign on the numerator.
func (r Rational) String() string {
	if r.IsInteger() {
		return r.n.String()
	}
	return r.n.String() + "/" + r.d.String()
}
