// Package report builds the structured output buffer spec.md §4.5/§6
// describes for the `.send` intrinsic: an ordered list of (channel,
// payload) tuples, reported as JSON after execution. It has no dependency
// on the evaluator — builtins appends to a Buffer, the CLI renders one.
package report

import (
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"exprscript/internal/rational"
)

// Payload is the `.send` payload, a Number or a String (spec.md §4.5's
// "(channel:Number, payload:Number|String)"). IsString selects which of
// Str and Number is meaningful.
type Payload struct {
	Number   rational.Rational
	Str      string
	IsString bool
}

// Entry is one (channel, payload) tuple appended by `.send`.
type Entry struct {
	Channel rational.Rational
	Payload Payload
}

// Buffer is the in-memory output buffer a single evaluator run accumulates
// into; spec.md §5 calls it out as part of the observable side-effect
// trace alongside standard output.
type Buffer struct {
	entries []Entry
}

// NewBuffer returns an empty output buffer.
func NewBuffer() *Buffer { return &Buffer{} }

// Append records one .send tuple in call order (spec.md §5 "Side effects
// ... observe these orderings").
func (b *Buffer) Append(channel rational.Rational, payload Payload) {
	b.entries = append(b.entries, Entry{Channel: channel, Payload: payload})
}

// Entries returns a defensive copy of the accumulated tuples.
func (b *Buffer) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len reports how many tuples have been appended.
func (b *Buffer) Len() int { return len(b.entries) }

// JSON renders the buffer as a JSON array of {"channel":...,"payload":...}
// objects, built incrementally with tidwall/sjson the way the teacher
// assembles its own structured reports, optionally pretty-printed with
// tidwall/pretty (the CLI's `--show-sent` output does so when the config's
// `report.pretty` is set). A
// rational with a non-trivial denominator has no native JSON numeric
// form, so it is rendered as its canonical "n/d" string instead of an
// unquoted (invalid) JSON token.
func (b *Buffer) JSON(prettyPrint bool) ([]byte, error) {
	doc := []byte("[]")
	for _, e := range b.entries {
		obj := []byte("{}")
		var err error
		obj, err = setNumber(obj, "channel", e.Channel)
		if err != nil {
			return nil, err
		}
		if e.Payload.IsString {
			obj, err = sjson.SetBytes(obj, "payload", e.Payload.Str)
		} else {
			obj, err = setNumber(obj, "payload", e.Payload.Number)
		}
		if err != nil {
			return nil, err
		}
		doc, err = sjson.SetRawBytes(doc, "-1", obj)
		if err != nil {
			return nil, err
		}
	}
	if prettyPrint {
		return pretty.Pretty(doc), nil
	}
	return doc, nil
}

func setNumber(doc []byte, path string, r rational.Rational) ([]byte, error) {
	if r.IsInteger() {
		return sjson.SetRawBytes(doc, path, []byte(r.Numerator().String()))
	}
	return sjson.SetBytes(doc, path, r.String())
}
