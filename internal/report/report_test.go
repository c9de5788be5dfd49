package report_test

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/tidwall/gjson"

	"exprscript/internal/rational"
	"exprscript/internal/report"
)

func TestJSONIntegerChannelAndStringPayload(t *testing.T) {
	b := report.NewBuffer()
	b.Append(rational.FromInt(1), report.Payload{Str: "hello", IsString: true})

	doc, err := b.JSON(false)
	if err != nil {
		t.Fatal(err)
	}
	if gjson.GetBytes(doc, "0.channel").Int() != 1 {
		t.Fatalf("unexpected channel: %s", doc)
	}
	if gjson.GetBytes(doc, "0.payload").String() != "hello" {
		t.Fatalf("unexpected payload: %s", doc)
	}
}

func TestJSONFractionalPayloadRendersAsString(t *testing.T) {
	b := report.NewBuffer()
	b.Append(rational.FromInt(0), report.Payload{Number: rational.New(1, 3)})

	doc, err := b.JSON(false)
	if err != nil {
		t.Fatal(err)
	}
	got := gjson.GetBytes(doc, "0.payload")
	if got.Type != gjson.String || got.String() != "1/3" {
		t.Fatalf("expected quoted fraction string, got %s", doc)
	}
}

func TestJSONOrderPreserved(t *testing.T) {
	b := report.NewBuffer()
	b.Append(rational.FromInt(1), report.Payload{Number: rational.FromInt(10)})
	b.Append(rational.FromInt(2), report.Payload{Number: rational.FromInt(20)})

	doc, err := b.JSON(true)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(doc), "10") || !strings.Contains(string(doc), "20") {
		t.Fatalf("missing entries: %s", doc)
	}
	if gjson.GetBytes(doc, "0.channel").Int() != 1 || gjson.GetBytes(doc, "1.channel").Int() != 2 {
		t.Fatalf("order not preserved: %s", doc)
	}
}

// TestJSONPrettyFormatSnapshot snapshot-tests the pretty-printed `.send`
// report format spec.md §6 describes, the way the teacher snapshot-tests
// its own formatter output.
func TestJSONPrettyFormatSnapshot(t *testing.T) {
	b := report.NewBuffer()
	b.Append(rational.FromInt(1), report.Payload{Number: rational.New(1, 3)})
	b.Append(rational.FromInt(2), report.Payload{Str: "hi", IsString: true})

	doc, err := b.JSON(true)
	if err != nil {
		t.Fatal(err)
	}
	snaps.MatchSnapshot(t, "send_report_pretty", string(doc))
}
