package segmented

import (
	"github.com/go-sif/segmented/errors"
	multierror "github.com/hashicorp/go-multierror"
)

// Provider exposes the per-partition boundaries of a partitioned container
type Provider[L any] interface {
	Parts() int
	Begin(partition int) L
	End(partition int) L
}

// Table is an immutable, ordered list of partition boundaries. Partition i spans
// [Begin(i), End(i)); a partition whose begin equals its end is empty.
type Table[L LocalIterator[L]] struct {
	begins []L
	ends   []L
	// offsets[i] is the logical index of Begin(i); offsets[Parts()] is the total length
	offsets []int
}

// NewTable copies a list of begin boundaries and a list of end boundaries into a Table.
// Both lists must have the same, non-zero length, and no partition may end before it begins.
func NewTable[L LocalIterator[L]](begins []L, ends []L) (*Table[L], error) {
	if len(begins) != len(ends) {
		return nil, errors.BoundaryCountError{Begins: len(begins), Ends: len(ends)}
	}
	if len(begins) == 0 {
		return nil, errors.EmptyTableError{}
	}
	t := &Table[L]{
		begins:  append(make([]L, 0, len(begins)), begins...),
		ends:    append(make([]L, 0, len(ends)), ends...),
		offsets: make([]int, len(begins)+1),
	}
	var multierr *multierror.Error
	for i := range t.begins {
		span := t.ends[i].Sub(t.begins[i])
		if span < 0 {
			multierr = multierror.Append(multierr, errors.ReversedBoundaryError{Partition: i, Span: span})
			span = 0
		}
		t.offsets[i+1] = t.offsets[i] + span
	}
	if err := multierr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return t, nil
}

// TableFromProvider queries every partition boundary of a Provider once and copies them into a Table
func TableFromProvider[L LocalIterator[L]](p Provider[L]) (*Table[L], error) {
	parts := p.Parts()
	begins := make([]L, parts)
	ends := make([]L, parts)
	for i := 0; i < parts; i++ {
		begins[i] = p.Begin(i)
		ends[i] = p.End(i)
	}
	return NewTable(begins, ends)
}

// Parts returns the number of partitions in this Table
func (t *Table[L]) Parts() int {
	return len(t.begins)
}

// Begin returns the begin boundary of a partition
func (t *Table[L]) Begin(partition int) L {
	return t.begins[partition]
}

// End returns the end boundary of a partition
func (t *Table[L]) End(partition int) L {
	return t.ends[partition]
}

// Span returns the number of elements in a partition
func (t *Table[L]) Span(partition int) int {
	return t.offsets[partition+1] - t.offsets[partition]
}

// Offset returns the logical index of the first element of a partition
func (t *Table[L]) Offset(partition int) int {
	return t.offsets[partition]
}

// Len returns the number of elements across all partitions
func (t *Table[L]) Len() int {
	return t.offsets[len(t.begins)]
}

// Empty returns true iff a partition contains no elements
func (t *Table[L]) Empty(partition int) bool {
	return t.begins[partition].Equal(t.ends[partition])
}

// Equal returns true iff both Tables hold the same number of partitions with the same boundaries
func (t *Table[L]) Equal(other *Table[L]) bool {
	if t == other {
		return true
	}
	if other == nil || len(t.begins) != len(other.begins) {
		return false
	}
	for i := range t.begins {
		if !t.begins[i].Equal(other.begins[i]) || !t.ends[i].Equal(other.ends[i]) {
			return false
		}
	}
	return true
}

// entry returns the boundary at which a walk in direction dir enters a partition
func (t *Table[L]) entry(partition int, dir direction) L {
	if dir == forward {
		return t.begins[partition]
	}
	return t.ends[partition]
}

// exit returns the boundary at which a walk in direction dir leaves a partition
func (t *Table[L]) exit(partition int, dir direction) L {
	if dir == forward {
		return t.ends[partition]
	}
	return t.begins[partition]
}
