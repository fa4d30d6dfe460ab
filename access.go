package segmented

import (
	"context"

	"github.com/go-sif/segmented/errors"
)

// Accessible is a LocalIterator which can read and write its element through a Queue
type Accessible[L any, T any] interface {
	LocalIterator[L]
	Accessor[T]
}

// Dereferenceable is a LocalIterator which can read its element directly
type Dereferenceable[L any, T any] interface {
	LocalIterator[L]
	Dereferencer[T]
}

// ReadAsync resolves the queue owning the active partition of it and submits a fetch of the
// element at its position to that queue, without waiting for the fetch to complete
func ReadAsync[T any, L Accessible[L, T]](ctx context.Context, it *Iterator[L], registry QueueRegistry) (*Pending[T], error) {
	q, err := owner(it, registry)
	if err != nil {
		return nil, err
	}
	return it.local.Read(ctx, q)
}

// Read fetches the element at the position of it through the queue owning its active
// partition, blocking until the fetch completes
func Read[T any, L Accessible[L, T]](ctx context.Context, it *Iterator[L], registry QueueRegistry) (T, error) {
	pending, err := ReadAsync[T](ctx, it, registry)
	if err != nil {
		var zero T
		return zero, err
	}
	return pending.Wait(ctx)
}

// WriteAsync resolves the queue owning the active partition of it and submits a store of value
// at its position to that queue, without waiting for the store to complete
func WriteAsync[T any, L Accessible[L, T]](ctx context.Context, it *Iterator[L], registry QueueRegistry, value T) (Event, error) {
	q, err := owner(it, registry)
	if err != nil {
		return nil, err
	}
	return it.local.Write(ctx, q, value)
}

// Write stores value at the position of it through the queue owning its active partition,
// blocking until the store completes
func Write[T any, L Accessible[L, T]](ctx context.Context, it *Iterator[L], registry QueueRegistry, value T) error {
	event, err := WriteAsync(ctx, it, registry, value)
	if err != nil {
		return err
	}
	return event.Wait(ctx)
}

// Value dereferences the position of it directly, without going through a queue
func Value[T any, L Dereferenceable[L, T]](it *Iterator[L]) T {
	return it.local.Value()
}

// owner resolves the queue of the active partition. The canonical end owns no element.
func owner[L LocalIterator[L]](it *Iterator[L], registry QueueRegistry) (Queue, error) {
	if it.IsEnd() {
		return nil, errors.ElementRangeError{Index: it.Index(), Len: it.Len()}
	}
	q, err := registry.Resolve(it.partition)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, errors.UnresolvedQueueError{Partition: it.partition}
	}
	return q, nil
}
