package queue

import "context"

// Event is the completion handle of a command submitted to a CommandQueue
type Event struct {
	done chan struct{}
	err  error
}

func createEvent() *Event {
	return &Event{done: make(chan struct{})}
}

// complete records the command's result and releases every waiter. It must be called exactly once.
func (e *Event) complete(err error) {
	e.err = err
	close(e.done)
}

// Wait blocks until the command completes or ctx is done. A done ctx stops the wait, not the command.
func (e *Event) Wait(ctx context.Context) error {
	select {
	case <-e.done:
		return e.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the command completes
func (e *Event) Done() <-chan struct{} {
	return e.done
}

// Err returns the command's error, or nil if it succeeded or has not completed
func (e *Event) Err() error {
	select {
	case <-e.done:
		return e.err
	default:
		return nil
	}
}
