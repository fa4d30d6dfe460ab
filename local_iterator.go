package segmented

import "context"

// LocalIterator is a random-access iterator scoped to the storage of a single partition.
// Implementations are values: Add returns a new iterator rather than modifying the receiver.
type LocalIterator[L any] interface {
	// Add returns an iterator n steps away from this one (n may be negative)
	Add(n int) L
	// Sub returns the number of steps from other to this iterator
	Sub(other L) int
	// Equal returns true iff both iterators refer to the same position
	Equal(other L) bool
}

// Dereferencer is a LocalIterator capability for reading an element directly, which is only
// meaningful when every partition shares one addressable execution context
type Dereferencer[T any] interface {
	Value() T
}

// Accessor is a LocalIterator capability for reading and writing an element through an
// explicit execution queue
type Accessor[T any] interface {
	// Read submits a fetch of the element at this position to q
	Read(ctx context.Context, q Queue) (*Pending[T], error)
	// Write submits a store of value at this position to q
	Write(ctx context.Context, q Queue, value T) (Event, error)
}

// Index is a LocalIterator over bare integer positions. It carries no storage, which makes
// it useful for describing partition layouts and for positional arithmetic.
type Index int

// Add returns the Index n steps away
func (i Index) Add(n int) Index {
	return i + Index(n)
}

// Sub returns the number of steps from other to i
func (i Index) Sub(other Index) int {
	return int(i - other)
}

// Equal returns true iff both Indices are the same position
func (i Index) Equal(other Index) bool {
	return i == other
}
