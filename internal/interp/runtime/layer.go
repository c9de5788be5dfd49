package runtime

import "exprscript/internal/ast"

// Layer is one element of the evaluation stack (spec.md §3.4, GLOSSARY):
// the in-progress evaluation of a single expression, addressed by a
// program counter that advances as sub-expressions are pushed and
// resolved. The stack of Layers *is* the continuation (spec.md §9) — this
// is what makes call/cc a mechanical slice copy.
type Layer struct {
	// Env is shared across every intermediate layer of the same frame.
	Env *Env
	// Expr is the expression currently under evaluation. There is no
	// sentinel layer: the bottom layer is the program's own frame, and
	// evaluation finishes when the stack is empty.
	Expr ast.Node
	// PC is the step counter driving this node kind's little state
	// machine (0-based, spec.md §4.3).
	PC int
	// Local holds the small fixed set of per-layer working values (e.g.
	// "callee", "args"). Each entry is a Value or a []Value.
	Local map[string]any
	// Frame marks either the initial program layer or a layer that began a
	// user call — the unit of dynamic scoping and GC/continuation rooting.
	Frame bool
	// Tail marks a layer whose eventual pop is a pure pass-through up to
	// its enclosing Frame layer — i.e. it sits in tail position (spec.md
	// §4.3 "Tail-call disposition"). The evaluator uses a run of Tail
	// layers down to the nearest Frame to collapse a tail call into a
	// frame replacement instead of a frame push, bounding stack growth.
	Tail bool
}

// NewLayer creates a non-frame, non-tail layer sharing env with its
// enclosing frame.
func NewLayer(env *Env, expr ast.Node) *Layer {
	return &Layer{Env: env, Expr: expr}
}

// NewTailLayer creates a non-frame layer inheriting tail position from its
// parent (If branches, a Sequence's last expression, a Letrec's body).
func NewTailLayer(env *Env, expr ast.Node, tail bool) *Layer {
	return &Layer{Env: env, Expr: expr, Tail: tail}
}

// NewFrame creates a frame-starting layer (a closure call or the initial
// program layer) with its own fresh environment. A fresh frame always
// begins in tail position relative to itself.
func NewFrame(env *Env, expr ast.Node) *Layer {
	return &Layer{Env: env, Expr: expr, Frame: true, Tail: true}
}

// GetLocal fetches a single Value local, or nil if absent/wrong shape.
func (l *Layer) GetLocal(key string) Value {
	v, _ := l.Local[key].(Value)
	return v
}

// GetLocalSlice fetches a []Value local, or nil if absent/wrong shape.
func (l *Layer) GetLocalSlice(key string) []Value {
	v, _ := l.Local[key].([]Value)
	return v
}

// SetLocal stores a single Value or []Value under key, creating Local on
// first use.
func (l *Layer) SetLocal(key string, v any) {
	if l.Local == nil {
		l.Local = make(map[string]any, 2)
	}
	l.Local[key] = v
}

// AppendLocalSlice appends v to the []Value stored under key.
func (l *Layer) AppendLocalSlice(key string, v Value) {
	l.SetLocal(key, append(l.GetLocalSlice(key), v))
}

// clone deep-copies a layer for continuation capture, sharing envs by the
// same rule as the rule that built them (via envs, below): a fresh Local
// map with independently-backed slices (so later appends to the live
// layer's "args" slice can never corrupt the snapshot).
func (l *Layer) clone(envs map[*Env]*Env) *Layer {
	cp := &Layer{Expr: l.Expr, PC: l.PC, Frame: l.Frame, Tail: l.Tail}
	if l.Env != nil {
		cloned, ok := envs[l.Env]
		if !ok {
			cloned = l.Env.clone()
			envs[l.Env] = cloned
		}
		cp.Env = cloned
	}
	if l.Local != nil {
		cp.Local = make(map[string]any, len(l.Local))
		for k, v := range l.Local {
			if vs, ok := v.([]Value); ok {
				dup := make([]Value, len(vs))
				copy(dup, vs)
				cp.Local[k] = dup
			} else {
				cp.Local[k] = v
			}
		}
	}
	return cp
}

// CloneStack deep-copies an entire evaluation stack — the operation that
// backs both capturing a continuation (.call/cc) and installing one
// (invoking it), per spec.md §3.3/§5: "a Continuation.stack is never
// mutated after capture" and re-invocation installs "another deep copy".
//
// Every intermediate layer of one frame shares that frame's *Env pointer
// (spec.md §3.4: "shared env, across intermediate layers of the same
// frame"); envs tracks old->new Env identity across the whole stack so two
// layers that alias one Env before cloning still alias one (different)
// Env after — otherwise a Letrec's Push/PopN on the frame's own layer
// would silently diverge from what its still-live child layers see once a
// captured continuation is resumed.
func CloneStack(stack []*Layer) []*Layer {
	envs := make(map[*Env]*Env, len(stack))
	out := make([]*Layer, len(stack))
	for i, l := range stack {
		out[i] = l.clone(envs)
	}
	return out
}
