package runtime

import "exprscript/internal/ast"

// Env is the mutable (name, location) list a Layer evaluates against
// (spec.md §3.5, GLOSSARY). It is a pointer-identity object: every
// intermediate layer of one frame shares the *same* Env, so a Letrec's
// append is visible to every layer of that frame, and the mandatory pop
// when the Letrec finishes removes exactly the bindings it added.
type Env struct {
	Bindings []Binding
}

// NewEnv returns an empty environment (used for the initial program layer
// and, appended to, for a closure call's fresh frame).
func NewEnv() *Env { return &Env{} }

// NewEnvFrom wraps an already-built bindings slice (a closure's captured
// env plus its newly bound parameters) as a frame's Env.
func NewEnvFrom(bindings []Binding) *Env { return &Env{Bindings: bindings} }

// Push appends one binding; PopN removes it again.
func (e *Env) Push(name string, loc int) {
	e.Bindings = append(e.Bindings, Binding{Name: name, Loc: loc})
}

// PopN removes the last n bindings (Letrec's mandatory unwind, spec.md
// §4.3).
func (e *Env) PopN(n int) {
	e.Bindings = e.Bindings[:len(e.Bindings)-n]
}

// Lookup scans newest-first, per spec.md §3.5.
func (e *Env) Lookup(name string) (int, bool) {
	for i := len(e.Bindings) - 1; i >= 0; i-- {
		if e.Bindings[i].Name == name {
			return e.Bindings[i].Loc, true
		}
	}
	return 0, false
}

// Has reports whether name occurs in e (spec.md §3.2 Query, lexical form).
func (e *Env) Has(name string) bool {
	_, ok := e.Lookup(name)
	return ok
}

// FilterLexical returns a fresh slice containing only the lexically named
// bindings — the snapshot a Lambda captures into its Closure (spec.md
// §4.4). The result is independent of e; mutating e afterward never
// affects an already-captured closure.
func (e *Env) FilterLexical() []Binding {
	out := make([]Binding, 0, len(e.Bindings))
	for _, b := range e.Bindings {
		if ast.IsLexicalName(b.Name) {
			out = append(out, b)
		}
	}
	return out
}

// clone returns a new Env with an independent copy of the bindings slice,
// used when deep-copying the stack for a captured Continuation (spec.md
// §3.3 "aliases are not shared with the live stack").
func (e *Env) clone() *Env {
	cp := make([]Binding, len(e.Bindings))
	copy(cp, e.Bindings)
	return &Env{Bindings: cp}
}
