package evaluator

import "exprscript/internal/interp/runtime"

// marker implements the mark phase of spec.md §4.6's mark-sweep-compact
// cycle, ported from State.mark in src/interpreter.py: walk outward from
// the result register and the live stack, following every Closure.env and
// Continuation.stack reference, recording which store indices are still
// reachable and which Closures/Layer-stacks need their indices rewritten
// once compaction moves things around.
type marker struct {
	store *runtime.Store

	visitedLoc     map[int]bool
	visitedClosure map[*runtime.Closure]bool
	visitedCont    map[*runtime.Continuation]bool

	touchedClosures []*runtime.Closure
	touchedStacks   [][]*runtime.Layer
}

func newMarker(store *runtime.Store) *marker {
	return &marker{
		store:          store,
		visitedLoc:     make(map[int]bool),
		visitedClosure: make(map[*runtime.Closure]bool),
		visitedCont:    make(map[*runtime.Continuation]bool),
	}
}

func (m *marker) markValue(v runtime.Value) {
	if loc := v.Location(); loc != runtime.NoLocation && loc < m.store.End() {
		m.markLocation(loc)
	}
	switch val := v.(type) {
	case *runtime.Closure:
		m.markClosure(val)
	case *runtime.Continuation:
		m.markContinuation(val)
	}
}

func (m *marker) markClosure(c *runtime.Closure) {
	if m.visitedClosure[c] {
		return
	}
	m.visitedClosure[c] = true
	m.touchedClosures = append(m.touchedClosures, c)
	for _, b := range c.Env {
		m.markLocation(b.Loc)
	}
}

func (m *marker) markContinuation(k *runtime.Continuation) {
	if m.visitedCont[k] {
		return
	}
	m.visitedCont[k] = true
	m.touchedStacks = append(m.touchedStacks, k.Stack)
	m.markStack(k.Stack)
}

func (m *marker) markLocation(loc int) {
	if m.visitedLoc[loc] {
		return
	}
	m.visitedLoc[loc] = true
	m.markValue(m.store.Get(loc))
}

// markStack mirrors mark_stack: every frame layer's env is a GC root (its
// bindings are only ever reachable through the live/captured stack, never
// through a store cell), and every layer's Local may itself hold Values
// awaiting a push (e.g. a Call's partially-evaluated "args" slice).
func (m *marker) markStack(stack []*runtime.Layer) {
	for _, layer := range stack {
		if layer.Frame && layer.Env != nil {
			for _, b := range layer.Env.Bindings {
				m.markLocation(b.Loc)
			}
		}
		for _, lv := range layer.Local {
			switch x := lv.(type) {
			case runtime.Value:
				m.markValue(x)
			case []runtime.Value:
				for _, elem := range x {
					m.markValue(elem)
				}
			}
		}
	}
}

// gc runs one full mark-sweep-compact cycle (spec.md §4.6) rooted at the
// result register and the live stack, and returns the number of store
// cells reclaimed.
func (e *Evaluator) gc() int {
	m := newMarker(e.store)
	if e.result != nil {
		m.markValue(e.result)
	}
	m.touchedStacks = append(m.touchedStacks, e.stack)
	m.markStack(e.stack)

	removed, relocation := e.store.Compact(m.visitedLoc)

	for _, c := range m.touchedClosures {
		for i := range c.Env {
			c.Env[i].Loc = relocation[c.Env[i].Loc]
		}
	}
	for _, stack := range m.touchedStacks {
		for _, layer := range stack {
			if layer.Frame && layer.Env != nil {
				for i := range layer.Env.Bindings {
					layer.Env.Bindings[i].Loc = relocation[layer.Env.Bindings[i].Loc]
				}
			}
		}
	}
	return removed
}
