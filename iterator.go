package segmented

import (
	"fmt"
	"log"
)

// direction is the sense in which a position moves across partition boundaries
type direction int

const (
	forward  direction = 1
	backward direction = -1
)

// Iterator is a random-access cursor over the concatenation of every partition in a Table.
// Its position is the pair (active partition, active local iterator).
//
// Positions are always normalized: a position never rests on the end boundary of a partition
// other than the last one, so empty partitions are never exposed and two Iterators denoting the
// same element compare equal. The single exception is the canonical end, which is the end
// boundary of the last partition.
//
// An Iterator is not safe for concurrent use. Copies made with Clone share the Table, which is
// never modified after construction.
type Iterator[L LocalIterator[L]] struct {
	table     *Table[L]
	partition int
	local     L
}

// New creates an Iterator at the first element of the sequence described by a list of begin
// boundaries and a list of end boundaries. Leading empty partitions are skipped; if every
// partition is empty, the Iterator is created at the canonical end.
func New[L LocalIterator[L]](begins []L, ends []L) (*Iterator[L], error) {
	table, err := NewTable(begins, ends)
	if err != nil {
		return nil, err
	}
	return Begin(table), nil
}

// NewFromProvider creates an Iterator at the first element of a partitioned container
func NewFromProvider[L LocalIterator[L]](p Provider[L]) (*Iterator[L], error) {
	table, err := TableFromProvider(p)
	if err != nil {
		return nil, err
	}
	return Begin(table), nil
}

// Begin creates an Iterator at the first element of a Table
func Begin[L LocalIterator[L]](table *Table[L]) *Iterator[L] {
	it := &Iterator[L]{table: table}
	it.rewind()
	return it
}

// End creates an Iterator at the canonical end of a Table
func End[L LocalIterator[L]](table *Table[L]) *Iterator[L] {
	last := table.Parts() - 1
	return &Iterator[L]{
		table:     table,
		partition: last,
		local:     table.End(last),
	}
}

// Table returns the partition boundaries this Iterator walks
func (it *Iterator[L]) Table() *Table[L] {
	return it.table
}

// Parts returns the number of partitions
func (it *Iterator[L]) Parts() int {
	return it.table.Parts()
}

// Partition returns the index of the active partition
func (it *Iterator[L]) Partition() int {
	return it.partition
}

// Local returns the active local iterator
func (it *Iterator[L]) Local() L {
	return it.local
}

// Len returns the number of elements across all partitions
func (it *Iterator[L]) Len() int {
	return it.table.Len()
}

// Index returns the logical offset of this position from the first element
func (it *Iterator[L]) Index() int {
	return it.table.Offset(it.partition) + it.local.Sub(it.table.Begin(it.partition))
}

// IsEnd returns true iff this Iterator is at the canonical end
func (it *Iterator[L]) IsEnd() bool {
	return it.partition == it.table.Parts()-1 && it.local.Equal(it.table.End(it.partition))
}

// Begin returns a new Iterator at the first element of the same Table
func (it *Iterator[L]) Begin() *Iterator[L] {
	return Begin(it.table)
}

// End returns a new Iterator at the canonical end of the same Table
func (it *Iterator[L]) End() *Iterator[L] {
	return End(it.table)
}

// Clone returns an independent copy of this Iterator
func (it *Iterator[L]) Clone() *Iterator[L] {
	c := *it
	return &c
}

// Assign replaces both the position and the Table of this Iterator with those of other
func (it *Iterator[L]) Assign(other *Iterator[L]) {
	*it = *other
}

// RemainingBegin returns where the not-yet-visited part of a partition starts: the end of a
// partition which has already been passed, the active local iterator for the active partition,
// and the begin of a partition which has not been reached yet
func (it *Iterator[L]) RemainingBegin(partition int) L {
	switch {
	case partition < it.partition:
		return it.table.End(partition)
	case partition == it.partition:
		return it.local
	default:
		return it.table.Begin(partition)
	}
}

// PartitionEnd returns the end boundary of a partition
func (it *Iterator[L]) PartitionEnd(partition int) L {
	return it.table.End(partition)
}

// Next moves to the next element, or to the canonical end from the last element
func (it *Iterator[L]) Next() {
	if !it.local.Equal(it.table.End(it.partition)) {
		it.local = it.local.Add(1)
	}
	it.settle(forward)
}

// Prev moves to the previous element. Prev at the first element leaves the position unchanged.
func (it *Iterator[L]) Prev() {
	saved := *it
	if !it.settle(backward) {
		*it = saved
		return
	}
	it.local = it.local.Add(-1)
}

// Advance moves n elements forward, or -n elements backward when n is negative. Moving past
// the canonical end stops at the canonical end; moving before the first element stops at the
// first element.
func (it *Iterator[L]) Advance(n int) {
	switch {
	case n > 0:
		it.advanceForward(n)
	case n < 0:
		it.advanceBackward(-n)
	}
}

// Offset returns a new Iterator n elements away from this one
func (it *Iterator[L]) Offset(n int) *Iterator[L] {
	c := it.Clone()
	c.Advance(n)
	return c
}

// DistanceTo returns the number of elements from this position to other, which is negative
// when other comes first. Both Iterators must walk the same Table.
func (it *Iterator[L]) DistanceTo(other *Iterator[L]) int {
	if !it.table.Equal(other.table) {
		log.Panicf("Cannot compute the distance between iterators over different partition tables")
	}
	if it.partition == other.partition {
		return other.local.Sub(it.local)
	}
	first, second, sign := it, other, 1
	if other.partition < it.partition {
		first, second, sign = other, it, -1
	}
	// remainder of the first partition, every partition in between, and the consumed part of the last
	n := first.table.End(first.partition).Sub(first.local)
	for p := first.partition + 1; p < second.partition; p++ {
		n += first.table.Span(p)
	}
	n += second.local.Sub(second.table.Begin(second.partition))
	return sign * n
}

// Equal returns true iff both Iterators walk equal Tables and refer to the same element
func (it *Iterator[L]) Equal(other *Iterator[L]) bool {
	return it.partition == other.partition &&
		it.local.Equal(other.local) &&
		it.table.Equal(other.table)
}

// Compare orders positions by active partition, then by local position. It returns -1, 0 or 1.
func (it *Iterator[L]) Compare(other *Iterator[L]) int {
	switch {
	case it.partition < other.partition:
		return -1
	case it.partition > other.partition:
		return 1
	}
	d := it.local.Sub(other.local)
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	}
	return 0
}

// Less returns true iff this position comes before other
func (it *Iterator[L]) Less(other *Iterator[L]) bool {
	return it.Compare(other) < 0
}

// String returns a textual representation of this position
func (it *Iterator[L]) String() string {
	return fmt.Sprintf("(%d, %v)", it.partition, it.local)
}

// rewind moves to the first element of the Table
func (it *Iterator[L]) rewind() {
	it.partition = 0
	it.local = it.table.Begin(0)
	it.settle(forward)
}

// settle carries the position across partition boundaries in direction dir for as long as the
// local iterator rests on the boundary through which dir leaves the active partition, landing
// on the opposite boundary of each partition it enters. It returns false if it stopped because
// no partition remains in that direction.
func (it *Iterator[L]) settle(dir direction) bool {
	for it.local.Equal(it.table.exit(it.partition, dir)) {
		next := it.partition + int(dir)
		if next < 0 || next >= it.table.Parts() {
			return false
		}
		it.partition = next
		it.local = it.table.entry(next, dir)
	}
	return true
}

func (it *Iterator[L]) advanceForward(n int) {
	last := it.table.Parts() - 1
	for {
		end := it.table.End(it.partition)
		remaining := end.Sub(it.local)
		if remaining > n {
			it.local = it.local.Add(n)
			return
		}
		if it.partition == last {
			it.local = end
			return
		}
		n -= remaining
		it.partition++
		it.local = it.table.Begin(it.partition)
	}
}

func (it *Iterator[L]) advanceBackward(n int) {
	for {
		consumed := it.local.Sub(it.table.Begin(it.partition))
		if consumed >= n {
			it.local = it.local.Add(-n)
			return
		}
		if it.partition == 0 {
			it.rewind()
			return
		}
		n -= consumed
		it.partition--
		it.local = it.table.End(it.partition)
	}
}
