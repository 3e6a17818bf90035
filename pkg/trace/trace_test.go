package trace_test

import (
	"testing"

	"github.com/amirkhaki/conductor/pkg/trace"
)

func TestAppendAndString(t *testing.T) {
	tr := trace.New()
	tr.Append(trace.OperationChoice, 1)
	tr.Append(trace.BooleanChoice, 1)
	tr.Append(trace.IntegerChoice, 7)

	if got, want := tr.String(), "1,1,7"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if tr.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tr.Len())
	}
}

func TestEmptyTraceString(t *testing.T) {
	if got := trace.New().String(); got != "" {
		t.Fatalf("empty trace serialized to %q, want empty string", got)
	}
}

func TestParseRoundTrip(t *testing.T) {
	tr := trace.New()
	tr.Append(trace.OperationChoice, 3)
	tr.Append(trace.OperationChoice, 1)
	tr.Append(trace.OperationChoice, 4)

	serialized := tr.String()
	parsed, err := trace.Parse(serialized)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.String() != serialized {
		t.Fatalf("round trip mismatch: %q != %q", parsed.String(), serialized)
	}
}

func TestParseEmptyString(t *testing.T) {
	tr, err := trace.Parse("")
	if err != nil {
		t.Fatalf("Parse(\"\"): %v", err)
	}
	if tr.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", tr.Len())
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := trace.Parse("1,x,3"); err == nil {
		t.Fatal("expected Parse to reject a non-numeric token")
	}
}

func TestCursorWalksInOrder(t *testing.T) {
	tr := trace.New()
	tr.Append(trace.OperationChoice, 10)
	tr.Append(trace.OperationChoice, 20)

	c := trace.NewCursor(tr)
	if v, ok := c.Next(); !ok || v != 10 {
		t.Fatalf("first Next() = (%d, %t), want (10, true)", v, ok)
	}
	if v, ok := c.Next(); !ok || v != 20 {
		t.Fatalf("second Next() = (%d, %t), want (20, true)", v, ok)
	}
	if _, ok := c.Next(); ok {
		t.Fatal("expected cursor to be exhausted")
	}
}

func TestCursorReset(t *testing.T) {
	tr := trace.New()
	tr.Append(trace.OperationChoice, 1)
	c := trace.NewCursor(tr)
	c.Next()
	if c.Remaining() != 0 {
		t.Fatalf("Remaining() = %d, want 0", c.Remaining())
	}
	c.Reset()
	if c.Remaining() != 1 {
		t.Fatalf("Remaining() after Reset = %d, want 1", c.Remaining())
	}
}

func TestReset(t *testing.T) {
	tr := trace.New()
	tr.Append(trace.OperationChoice, 1)
	tr.Reset()
	if tr.Len() != 0 {
		t.Fatalf("Len() after Reset = %d, want 0", tr.Len())
	}
}
