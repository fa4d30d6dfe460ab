package segmented

import "context"

// Command is a unit of work executed by a Queue. The context passed to a Command is owned by
// the Queue; a submitted Command always runs to completion.
type Command func(ctx context.Context) error

// Event is the completion handle of a Command submitted to a Queue
type Event interface {
	// Wait blocks until the Command completes or ctx is done, returning the Command's error
	Wait(ctx context.Context) error
	// Done is closed once the Command completes
	Done() <-chan struct{}
	// Err returns the Command's error, or nil if it succeeded or has not completed
	Err() error
}

// Queue is an ordered work-submission channel through which a partition's storage is read or
// written. Commands submitted to a Queue complete in submission order.
type Queue interface {
	ID() string
	Submit(ctx context.Context, cmd Command) (Event, error)
}

// QueueRegistry resolves a partition index to the Queue which owns that partition
type QueueRegistry interface {
	Resolve(partition int) (Queue, error)
}

// RegistryFunc adapts a function into a QueueRegistry
type RegistryFunc func(partition int) (Queue, error)

// Resolve calls f
func (f RegistryFunc) Resolve(partition int) (Queue, error) {
	return f(partition)
}

// Pending is an element fetch which has been submitted to a Queue but may not have completed
type Pending[T any] struct {
	event Event
	value *T
}

// NewPending pairs the Event of a fetch Command with the location the Command stores its
// result into
func NewPending[T any](event Event, value *T) *Pending[T] {
	return &Pending[T]{event: event, value: value}
}

// Event returns the completion handle of the fetch
func (p *Pending[T]) Event() Event {
	return p.event
}

// Wait blocks until the fetch completes and returns the element
func (p *Pending[T]) Wait(ctx context.Context) (T, error) {
	if err := p.event.Wait(ctx); err != nil {
		var zero T
		return zero, err
	}
	return *p.value, nil
}
