// Package trace implements the schedule trace: an ordered,
// append-only log of scheduling decisions. It serializes to a
// comma-separated list of decimal values and can be replayed by
// consuming entries in the same order they were recorded.
package trace

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind distinguishes what a trace entry records, for diagnostics only
// — the wire format carries just the decimal value, not the kind, so
// replay reconstructs meaning from call order rather than from the
// trace text itself.
type Kind uint8

const (
	// OperationChoice records the sequenceId ScheduleNext picked.
	OperationChoice Kind = iota + 1
	// BooleanChoice records a GetNextBoolean result.
	BooleanChoice
	// IntegerChoice records a GetNextInteger result.
	IntegerChoice
)

func (k Kind) String() string {
	switch k {
	case OperationChoice:
		return "operation"
	case BooleanChoice:
		return "boolean"
	case IntegerChoice:
		return "integer"
	default:
		return "unknown"
	}
}

// Entry is a single scheduling decision.
type Entry struct {
	Kind  Kind
	Value int64
}

// Trace is an ordered, append-only log of scheduling decisions.
type Trace struct {
	entries []Entry
}

// New creates an empty trace.
func New() *Trace {
	return &Trace{}
}

// Append records a new decision at the end of the trace.
func (t *Trace) Append(kind Kind, value int64) {
	t.entries = append(t.entries, Entry{Kind: kind, Value: value})
}

// Len returns the number of entries recorded so far.
func (t *Trace) Len() int {
	return len(t.entries)
}

// Entries returns the recorded entries in decision order. The
// returned slice must not be mutated by the caller.
func (t *Trace) Entries() []Entry {
	return t.entries
}

// String serializes the trace to comma-separated decimal values, in
// decision order. An empty trace serializes to the empty string.
func (t *Trace) String() string {
	if len(t.entries) == 0 {
		return ""
	}
	parts := make([]string, len(t.entries))
	for i, e := range t.entries {
		parts[i] = strconv.FormatInt(e.Value, 10)
	}
	return strings.Join(parts, ",")
}

// Reset clears the trace back to empty.
func (t *Trace) Reset() {
	t.entries = t.entries[:0]
}

// Parse decodes a comma-separated decimal trace as produced by
// String. Entries decoded this way carry no Kind — a replay consumer
// infers what each value means from the order in which it asks for
// the next entry, not from the text itself. An empty string decodes
// to an empty trace.
func Parse(s string) (*Trace, error) {
	t := New()
	if s == "" {
		return t, nil
	}
	for _, tok := range strings.Split(s, ",") {
		v, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("trace: invalid token %q: %w", tok, err)
		}
		t.entries = append(t.entries, Entry{Value: v})
	}
	return t, nil
}

// Cursor walks a trace's values in order for replay.
type Cursor struct {
	trace *Trace
	pos   int
}

// NewCursor creates a Cursor over t, starting at the first entry.
func NewCursor(t *Trace) *Cursor {
	return &Cursor{trace: t}
}

// Next returns the next entry's value and advances the cursor. ok is
// false once the trace is exhausted.
func (c *Cursor) Next() (value int64, ok bool) {
	if c.pos >= len(c.trace.entries) {
		return 0, false
	}
	v := c.trace.entries[c.pos].Value
	c.pos++
	return v, true
}

// Reset rewinds the cursor to the start of the trace, for re-running
// the same iteration under the same replay trace.
func (c *Cursor) Reset() {
	c.pos = 0
}

// Remaining reports how many entries are left unconsumed.
func (c *Cursor) Remaining() int {
	return len(c.trace.entries) - c.pos
}
