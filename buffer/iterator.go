package buffer

import (
	"context"
	"strconv"

	"github.com/go-sif/segmented"
)

// Iterator is a position within a Buffer. It is a value; Add returns a new Iterator.
type Iterator[T any] struct {
	buf *Buffer[T]
	pos int
}

// Add returns the Iterator n elements away
func (it Iterator[T]) Add(n int) Iterator[T] {
	return Iterator[T]{buf: it.buf, pos: it.pos + n}
}

// Sub returns the number of elements from other to it. Both must be positions in the same Buffer.
func (it Iterator[T]) Sub(other Iterator[T]) int {
	return it.pos - other.pos
}

// Equal returns true iff both Iterators are the same position in the same Buffer
func (it Iterator[T]) Equal(other Iterator[T]) bool {
	return it.buf == other.buf && it.pos == other.pos
}

// Buffer returns the Buffer this Iterator walks
func (it Iterator[T]) Buffer() *Buffer[T] {
	return it.buf
}

// Position returns the element index of this Iterator within its Buffer
func (it Iterator[T]) Position() int {
	return it.pos
}

// Value reads the element directly, bypassing the queue. It is only safe once every command
// which writes the Buffer has completed.
func (it Iterator[T]) Value() T {
	return it.buf.data[it.pos]
}

// Read submits a fetch of the element to q
func (it Iterator[T]) Read(ctx context.Context, q segmented.Queue) (*segmented.Pending[T], error) {
	return it.buf.ReadAt(ctx, q, it.pos)
}

// Write submits a store of value into the element to q
func (it Iterator[T]) Write(ctx context.Context, q segmented.Queue, value T) (segmented.Event, error) {
	return it.buf.WriteAt(ctx, q, it.pos, value)
}

// String returns the element index of this Iterator
func (it Iterator[T]) String() string {
	return strconv.Itoa(it.pos)
}
