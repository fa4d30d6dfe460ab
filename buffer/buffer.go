// Package buffer provides queue-owned element storage for a single partition, and the local
// iterator over it.
package buffer

import (
	"context"
	"log"

	"github.com/go-sif/segmented"
	"github.com/go-sif/segmented/errors"
	uuid "github.com/gofrs/uuid"
)

// Buffer is fixed-length storage for the elements of one partition. Its contents are only
// accessed by commands submitted to a queue, so accesses through one queue are ordered.
type Buffer[T any] struct {
	id    string
	owner segmented.Queue
	data  []T
}

// New allocates a Buffer of n zero elements, owned by a queue
func New[T any](owner segmented.Queue, n int) *Buffer[T] {
	if n < 0 {
		log.Panicf("Buffer length %d must not be negative", n)
	}
	id, err := uuid.NewV4()
	if err != nil {
		log.Fatalf("failed to generate UUID for Buffer: %v", err)
	}
	return &Buffer[T]{
		id:    id.String(),
		owner: owner,
		data:  make([]T, n),
	}
}

// ID retrieves the ID of this Buffer
func (b *Buffer[T]) ID() string {
	return b.id
}

// Len retrieves the number of elements in this Buffer
func (b *Buffer[T]) Len() int {
	return len(b.data)
}

// Owner retrieves the queue which owns this Buffer
func (b *Buffer[T]) Owner() segmented.Queue {
	return b.owner
}

// Begin returns an Iterator at the first element of this Buffer
func (b *Buffer[T]) Begin() Iterator[T] {
	return Iterator[T]{buf: b, pos: 0}
}

// End returns an Iterator one past the last element of this Buffer
func (b *Buffer[T]) End() Iterator[T] {
	return Iterator[T]{buf: b, pos: len(b.data)}
}

// ReadAt submits a fetch of element i to q
func (b *Buffer[T]) ReadAt(ctx context.Context, q segmented.Queue, i int) (*segmented.Pending[T], error) {
	if err := b.checkRange(i, 1); err != nil {
		return nil, err
	}
	value := new(T)
	event, err := q.Submit(ctx, func(ctx context.Context) error {
		*value = b.data[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return segmented.NewPending(event, value), nil
}

// WriteAt submits a store of value into element i to q
func (b *Buffer[T]) WriteAt(ctx context.Context, q segmented.Queue, i int, value T) (segmented.Event, error) {
	if err := b.checkRange(i, 1); err != nil {
		return nil, err
	}
	return q.Submit(ctx, func(ctx context.Context) error {
		b.data[i] = value
		return nil
	})
}

// CopyFrom submits a copy of host into this Buffer, starting at element offset, to q. host is
// staged at submission, so it may be modified as soon as CopyFrom returns.
func (b *Buffer[T]) CopyFrom(ctx context.Context, q segmented.Queue, host []T, offset int) (segmented.Event, error) {
	if err := b.checkRange(offset, len(host)); err != nil {
		return nil, err
	}
	staged := append(make([]T, 0, len(host)), host...)
	return q.Submit(ctx, func(ctx context.Context) error {
		copy(b.data[offset:], staged)
		return nil
	})
}

// CopyTo submits a copy of this Buffer, starting at element offset, into host to q. host must not
// be accessed until the returned Event completes.
func (b *Buffer[T]) CopyTo(ctx context.Context, q segmented.Queue, host []T, offset int) (segmented.Event, error) {
	if err := b.checkRange(offset, len(host)); err != nil {
		return nil, err
	}
	return q.Submit(ctx, func(ctx context.Context) error {
		copy(host, b.data[offset:offset+len(host)])
		return nil
	})
}

// checkRange fails unless elements [i, i+n) lie within this Buffer
func (b *Buffer[T]) checkRange(i int, n int) error {
	if i < 0 || n < 0 || i+n > len(b.data) {
		if i >= 0 && i < len(b.data) {
			i = i + n - 1
		}
		return errors.ElementRangeError{Index: i, Len: len(b.data)}
	}
	return nil
}
