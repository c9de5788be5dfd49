// Package ast defines the immutable ExprScript abstract syntax tree
// described by spec.md §3.2. Every node carries a source location used for
// diagnostics and is produced once by the parser; the evaluator never
// mutates a node.
package ast

import (
	"strconv"
	"strings"

	"exprscript/internal/lexer"
)

// Node is the common interface implemented by every AST node.
type Node interface {
	Pos() lexer.Position
	String() string
	PrettyPrint() string
}

// Number is a pre-normalised rational literal.
type Number struct {
	Loc lexer.Position
	N   int64
	D   int64
}

func (n *Number) Pos() lexer.Position { return n.Loc }
func (n *Number) String() string      { return "(NumberNode " + n.Loc.String() + " " + fmtFrac(n.N, n.D) + ")" }
func (n *Number) PrettyPrint() string {
	if n.D == 1 {
		return strconv.FormatInt(n.N, 10)
	}
	return strconv.FormatInt(n.N, 10) + "/" + strconv.FormatInt(n.D, 10)
}

func fmtFrac(n, d int64) string {
	return strconv.FormatInt(n, 10) + " " + strconv.FormatInt(d, 10)
}

// String is a string literal with escapes already decoded.
type String struct {
	Loc   lexer.Position
	Value string
}

func (s *String) Pos() lexer.Position { return s.Loc }
func (s *String) String() string      { return "(StringNode " + s.Loc.String() + " " + Quote(s.Value) + ")" }
func (s *String) PrettyPrint() string { return Quote(s.Value) }

// Quote renders a string as a double-quoted ExprScript literal, escaping
// backslash and double-quote (spec.md §4.5 .squote/.strquote).
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Intrinsic names a built-in operation; it only ever appears as a Call's
// Callee and is never itself a variable reference.
type Intrinsic struct {
	Loc  lexer.Position
	Name string
}

func (n *Intrinsic) Pos() lexer.Position { return n.Loc }
func (n *Intrinsic) String() string      { return "(IntrinsicNode " + n.Loc.String() + " " + n.Name + ")" }
func (n *Intrinsic) PrettyPrint() string { return n.Name }

// Variable is a name reference, classified lexical/dynamic by the first
// character's case (spec.md §3.2, §4.4, §9).
type Variable struct {
	Loc  lexer.Position
	Name string
}

func (v *Variable) Pos() lexer.Position { return v.Loc }
func (v *Variable) String() string      { return "(VariableNode " + v.Loc.String() + " " + v.Name + ")" }
func (v *Variable) PrettyPrint() string { return v.Name }

// IsLexical reports whether v names a lexically scoped binding.
func (v *Variable) IsLexical() bool { return IsLexicalName(v.Name) }

// IsDynamic reports whether v names a dynamically scoped binding.
func (v *Variable) IsDynamic() bool { return IsDynamicName(v.Name) }

// IsLexicalName reports whether name starts with a lowercase letter.
func IsLexicalName(name string) bool {
	return len(name) > 0 && name[0] >= 'a' && name[0] <= 'z'
}

// IsDynamicName reports whether name starts with an uppercase letter.
func IsDynamicName(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

// Lambda is a closure literal: an ordered parameter list plus a body.
type Lambda struct {
	Loc    lexer.Position
	Params []*Variable
	Body   Node
}

func (l *Lambda) Pos() lexer.Position { return l.Loc }
func (l *Lambda) String() string {
	var b strings.Builder
	b.WriteString("(LambdaNode ")
	b.WriteString(l.Loc.String())
	b.WriteString(" [")
	for i, p := range l.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString("] ")
	b.WriteString(l.Body.String())
	b.WriteString(")")
	return b.String()
}
func (l *Lambda) PrettyPrint() string {
	names := make([]string, len(l.Params))
	for i, p := range l.Params {
		names[i] = p.PrettyPrint()
	}
	return "lambda (" + strings.Join(names, " ") + ") {\n" + indent(l.Body.PrettyPrint(), 2) + "\n}"
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}

// Binding is one letrec (name, expr) pair.
type Binding struct {
	Name *Variable
	Expr Node
}

// Letrec allows mutual recursion: every binding's RHS and the body see
// every binding name.
type Letrec struct {
	Loc      lexer.Position
	Bindings []Binding
	Body     Node
}

func (l *Letrec) Pos() lexer.Position { return l.Loc }
func (l *Letrec) String() string {
	var b strings.Builder
	b.WriteString("(LetrecNode ")
	b.WriteString(l.Loc.String())
	for _, bind := range l.Bindings {
		b.WriteString(" (")
		b.WriteString(bind.Name.String())
		b.WriteString(" ")
		b.WriteString(bind.Expr.String())
		b.WriteString(")")
	}
	b.WriteString(" ")
	b.WriteString(l.Body.String())
	b.WriteString(")")
	return b.String()
}
func (l *Letrec) PrettyPrint() string {
	lines := make([]string, len(l.Bindings))
	for i, bind := range l.Bindings {
		lines[i] = bind.Name.PrettyPrint() + " = " + bind.Expr.PrettyPrint()
	}
	return "letrec (\n" + indent(strings.Join(lines, "\n"), 2) + "\n) {\n" + indent(l.Body.PrettyPrint(), 2) + "\n}"
}

// If is a conditional; Cond must evaluate to a Number (spec.md §4.3).
type If struct {
	Loc    lexer.Position
	Cond   Node
	Then   Node
	Else   Node
}

func (n *If) Pos() lexer.Position { return n.Loc }
func (n *If) String() string {
	return "(IfNode " + n.Loc.String() + " " + n.Cond.String() + " " + n.Then.String() + " " + n.Else.String() + ")"
}
func (n *If) PrettyPrint() string {
	return "if " + n.Cond.PrettyPrint() + " then " + n.Then.PrettyPrint() + "\nelse " + n.Else.PrettyPrint()
}

// Call applies Callee (an intrinsic, a closure, or a continuation) to Args
// in left-to-right evaluation order.
type Call struct {
	Loc    lexer.Position
	Callee Node
	Args   []Node
}

func (c *Call) Pos() lexer.Position { return c.Loc }
func (c *Call) String() string {
	var b strings.Builder
	b.WriteString("(CallNode ")
	b.WriteString(c.Loc.String())
	b.WriteString(" ")
	b.WriteString(c.Callee.String())
	for _, a := range c.Args {
		b.WriteString(" ")
		b.WriteString(a.String())
	}
	b.WriteString(")")
	return b.String()
}
func (c *Call) PrettyPrint() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Callee.PrettyPrint())
	for _, a := range c.Args {
		parts = append(parts, a.PrettyPrint())
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// IsIntrinsicCall reports whether the call's callee is a literal intrinsic
// name rather than an expression that evaluates to a Closure/Continuation.
func (c *Call) IsIntrinsicCall() bool {
	_, ok := c.Callee.(*Intrinsic)
	return ok
}

// Sequence evaluates each expression in order; its value is the last one.
// The parser must reject an empty sequence (spec.md §8).
type Sequence struct {
	Loc   lexer.Position
	Exprs []Node
}

func (s *Sequence) Pos() lexer.Position { return s.Loc }
func (s *Sequence) String() string {
	var b strings.Builder
	b.WriteString("(SequenceNode ")
	b.WriteString(s.Loc.String())
	for _, e := range s.Exprs {
		b.WriteString(" ")
		b.WriteString(e.String())
	}
	b.WriteString(")")
	return b.String()
}
func (s *Sequence) PrettyPrint() string {
	lines := make([]string, len(s.Exprs))
	for i, e := range s.Exprs {
		lines[i] = e.PrettyPrint()
	}
	return "[\n" + indent(strings.Join(lines, "\n"), 2) + "\n]"
}

// Query tests whether Var is bound. For a lexical Var, Closure must be
// non-nil and is evaluated first; for a dynamic Var, Closure is nil and the
// live call stack is inspected directly (spec.md §3.2, §4.3).
type Query struct {
	Loc     lexer.Position
	Var     *Variable
	Closure Node // nil for dynamic queries
}

func (q *Query) Pos() lexer.Position { return q.Loc }
func (q *Query) String() string {
	s := "(QueryNode " + q.Loc.String() + " " + q.Var.String()
	if q.Closure != nil {
		s += " " + q.Closure.String()
	}
	return s + ")"
}
func (q *Query) PrettyPrint() string {
	s := "@" + q.Var.PrettyPrint()
	if q.Closure != nil {
		s += " " + q.Closure.PrettyPrint()
	}
	return s
}

// Access reads a lexical variable from a closure's captured environment.
type Access struct {
	Loc     lexer.Position
	Var     *Variable
	Closure Node
}

func (a *Access) Pos() lexer.Position { return a.Loc }
func (a *Access) String() string {
	return "(AccessNode " + a.Loc.String() + " " + a.Var.String() + " " + a.Closure.String() + ")"
}
func (a *Access) PrettyPrint() string {
	return "&" + a.Var.PrettyPrint() + " " + a.Closure.PrettyPrint()
}
