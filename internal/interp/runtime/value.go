// Package runtime holds the execution engine's value domain, heap, and
// environment/stack representation (spec.md §3.3–3.5, §4.2, §4.4). These
// types are deliberately free of any evaluation logic — that lives in
// exprscript/internal/interp/evaluator, which is the only package that
// mutates a Store or walks a stack of Layers.
package runtime

import (
	"github.com/google/uuid"

	"exprscript/internal/ast"
	"exprscript/internal/rational"
)

// Kind identifies which Value variant a value is, for the type predicates
// in spec.md §4.5 (.void?, .num?, .str?, .clo?, .cont?) and for error
// messages.
type Kind int

const (
	KindVoid Kind = iota
	KindNumber
	KindString
	KindClosure
	KindContinuation
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "Void"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindClosure:
		return "Closure"
	case KindContinuation:
		return "Continuation"
	default:
		return "?"
	}
}

// NoLocation marks a Value that has never been boxed into the Store.
const NoLocation = -1

// Value is the tagged sum of runtime values described in spec.md §3.3.
// Every variant carries a back-pointer location so the store and GC can
// address it uniformly, even though only Closure and Continuation actually
// need to be heap-allocated for the semantics to work (parameters capture
// by reference, per spec.md §4.3 Call (user)).
type Value interface {
	Kind() Kind
	// PrettyPrint renders the canonical textual form from spec.md §6.
	PrettyPrint() string
	Location() int
	SetLocation(int)
}

type header struct {
	loc int
}

func (h *header) Location() int     { return h.loc }
func (h *header) SetLocation(i int) { h.loc = i }

// Void is the result of forms with no useful value (e.g. .put).
type Void struct{ header }

func NewVoid() *Void { return &Void{header{NoLocation}} }

func (*Void) Kind() Kind          { return KindVoid }
func (*Void) PrettyPrint() string { return "<void>" }

// Number wraps an exact rational (spec.md §3.1, §4.1).
type Number struct {
	header
	Val rational.Rational
}

func NewNumber(v rational.Rational) *Number { return &Number{header{NoLocation}, v} }

func (*Number) Kind() Kind            { return KindNumber }
func (n *Number) PrettyPrint() string { return n.Val.String() }

// String wraps raw text (escapes already decoded, spec.md §3.3).
type String struct {
	header
	Val string
}

func NewString(v string) *String { return &String{header{NoLocation}, v} }

func (*String) Kind() Kind            { return KindString }
func (s *String) PrettyPrint() string { return s.Val }

// Binding is one (name, location) pair in an environment (spec.md §3.5,
// GLOSSARY "Env").
type Binding struct {
	Name string
	Loc  int
}

// Closure captures only the lexical portion of its defining environment
// (spec.md §4.4) plus a pointer to the Lambda node it was created from.
type Closure struct {
	header
	Env []Binding
	Fun *ast.Lambda
	// Site is the source position the closure was created at, used for the
	// canonical "<closure evaluated at ...>" rendering in spec.md §6.
	Site ast.Node
}

func NewClosure(env []Binding, fun *ast.Lambda) *Closure {
	return &Closure{header{NoLocation}, env, fun, fun}
}

func (*Closure) Kind() Kind { return KindClosure }
func (c *Closure) PrettyPrint() string {
	pos := c.Fun.Pos()
	return "<closure evaluated at " + pos.String() + ">"
}

// Lookup performs the newest-first linear scan spec.md §3.5 mandates.
func (c *Closure) Lookup(name string) (int, bool) {
	for i := len(c.Env) - 1; i >= 0; i-- {
		if c.Env[i].Name == name {
			return c.Env[i].Loc, true
		}
	}
	return 0, false
}

// Continuation is an immutable snapshot of the evaluation stack at the
// point .call/cc captured it (spec.md §3.3, §5).
type Continuation struct {
	header
	Stack []*Layer
	// Site is the source position .call/cc was invoked at, for rendering.
	Site ast.Node
	// TraceID tags this capture for correlation across debug log lines
	// (SPEC_FULL.md §2): it is never read by any intrinsic or control
	// form, only logged when the continuation is captured or invoked.
	TraceID uuid.UUID
}

func NewContinuation(stack []*Layer, site ast.Node) *Continuation {
	return &Continuation{header{NoLocation}, stack, site, uuid.New()}
}

func (*Continuation) Kind() Kind { return KindContinuation }
func (k *Continuation) PrettyPrint() string {
	return "<continuation evaluated at " + k.Site.Pos().String() + ">"
}
