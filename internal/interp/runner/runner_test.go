package runner_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"exprscript/internal/config"
	"exprscript/internal/interp/runner"
	"exprscript/internal/interp/runtime"
)

func TestRunEvaluatesAndReportsGoThroughTheSameBuffer(t *testing.T) {
	var stdout bytes.Buffer
	in := runner.New(&stdout, strings.NewReader(""), config.Default())

	v, err := in.Run(context.Background(), `(.send 1 "hi")`)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != runtime.KindVoid {
		t.Fatalf("expected Void, got %s", v.PrettyPrint())
	}
	if in.Output().Len() != 1 {
		t.Fatalf("expected 1 reported entry, got %d", in.Output().Len())
	}
}

func TestRunIsolatesStoreAcrossCalls(t *testing.T) {
	var stdout bytes.Buffer
	in := runner.New(&stdout, strings.NewReader(""), config.Default())

	v1, err := in.Run(context.Background(), `letrec (x = 1) { x }`)
	if err != nil {
		t.Fatal(err)
	}
	v2, err := in.Run(context.Background(), `letrec (x = 2) { x }`)
	if err != nil {
		t.Fatal(err)
	}
	if v1.(*runtime.Number).Val.String() != "1" || v2.(*runtime.Number).Val.String() != "2" {
		t.Fatalf("got %s and %s", v1.PrettyPrint(), v2.PrettyPrint())
	}
}
