package operation

import "github.com/amirkhaki/conductor/pkg/ident"

// Table owns every Operation created within one scheduler iteration
// set. Operations reference each other only through the stable
// sequenceId handles this Table resolves, so the wait/signal graph
// never forms a pointer cycle.
type Table struct {
	byID  map[ident.ID]*Operation
	bySeq map[int64]*Operation
}

// NewTable creates an empty operation table.
func NewTable() *Table {
	return &Table{
		byID:  make(map[ident.ID]*Operation),
		bySeq: make(map[int64]*Operation),
	}
}

// Put inserts or overwrites op in the table.
func (t *Table) Put(op *Operation) {
	t.byID[op.ID] = op
	t.bySeq[op.SequenceID] = op
}

// Delete removes op from the table by its id.
func (t *Table) Delete(id ident.ID) {
	op, ok := t.byID[id]
	if !ok {
		return
	}
	delete(t.byID, id)
	delete(t.bySeq, op.SequenceID)
}

// ByID resolves an operation by its external id.
func (t *Table) ByID(id ident.ID) (*Operation, bool) {
	op, ok := t.byID[id]
	return op, ok
}

// BySeq resolves an operation by its stable handle.
func (t *Table) BySeq(seq int64) (*Operation, bool) {
	op, ok := t.bySeq[seq]
	return op, ok
}

// All returns every operation currently in the table, in no
// particular order.
func (t *Table) All() []*Operation {
	out := make([]*Operation, 0, len(t.byID))
	for _, op := range t.byID {
		out = append(out, op)
	}
	return out
}

// Len reports how many operations are currently in the table.
func (t *Table) Len() int {
	return len(t.byID)
}

// Clear empties the table.
func (t *Table) Clear() {
	t.byID = make(map[ident.ID]*Operation)
	t.bySeq = make(map[int64]*Operation)
}
