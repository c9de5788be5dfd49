// Package builtins is the intrinsic dispatch table spec.md §4.5 and §9
// call for ("a dispatch table keyed by intrinsic name ... is acceptable
// and keeps the evaluator compact"), grounded on the teacher's
// Registry/FunctionInfo pattern (internal/interp/builtins/registry.go):
// a name keys a Handler, registered once at startup, looked up by the
// evaluator on every intrinsic Call.
//
// `.call/cc`, `.eval` and `.exit` are deliberately not here — they need to
// create a fresh evaluator or perform stack surgery that only
// internal/interp/evaluator can do without an import cycle, so that
// package special-cases those three names before falling back to this
// registry for everything else.
package builtins

import (
	"bufio"
	"io"

	"exprscript/internal/report"
)

// Context bundles the host collaborators an intrinsic may need beyond its
// arguments: where `.put` writes, where `.getline` reads, and the
// structured buffer `.send` appends to.
type Context struct {
	Stdout io.Writer
	Stdin  *bufio.Reader
	Output *report.Buffer
}
