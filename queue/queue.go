// Package queue provides an in-process execution queue, which runs submitted commands one at a
// time and in submission order, and a registry mapping partitions to the queues which own them.
package queue

import (
	"context"
	"log"
	"sync"
	"time"

	fifo "github.com/eapache/queue"
	"github.com/go-sif/segmented"
	"github.com/go-sif/segmented/errors"
	"github.com/go-sif/segmented/internal/stats"
	iutil "github.com/go-sif/segmented/internal/util"
	"github.com/go-sif/segmented/logging"
	uuid "github.com/gofrs/uuid"
	multierror "github.com/hashicorp/go-multierror"
	"golang.org/x/sync/semaphore"
)

// CommandQueue executes submitted commands on a dedicated goroutine, strictly in submission order
type CommandQueue struct {
	id       string
	opts     *Options
	log      *logging.Logger
	inflight *semaphore.Weighted // bounds submitted-but-incomplete commands to opts.Depth
	lock     sync.Mutex
	cond     *sync.Cond
	pending  *fifo.Queue // of *command, guarded by lock
	closed   bool
	failures *multierror.Error // failures since the last Finish, guarded by lock
	stopped  chan struct{}
	stats    *stats.QueueStatistics
}

type command struct {
	run   segmented.Command
	event *Event
}

// NewCommandQueue creates a CommandQueue and starts its worker goroutine, which runs until Close
func NewCommandQueue(opts *Options) (*CommandQueue, error) {
	if opts == nil {
		opts = &Options{}
	} else {
		opts = CloneOptions(opts)
	}
	id, err := uuid.NewV4()
	if err != nil {
		log.Fatalf("failed to generate UUID for CommandQueue: %v", err)
	}
	ensureDefaultOptionsValues(opts, id.String())
	q := &CommandQueue{
		id:       id.String(),
		opts:     opts,
		log:      opts.Logger.WithSource(opts.Name),
		inflight: semaphore.NewWeighted(int64(opts.Depth)),
		pending:  fifo.New(),
		stopped:  make(chan struct{}),
		stats:    &stats.QueueStatistics{},
	}
	q.cond = sync.NewCond(&q.lock)
	q.stats.Start()
	go q.run()
	q.log.Infof("started queue %s with depth %d", q.id, opts.Depth)
	return q, nil
}

// ID returns the unique ID of this CommandQueue
func (q *CommandQueue) ID() string {
	return q.id
}

// Name returns the human-readable name of this CommandQueue
func (q *CommandQueue) Name() string {
	return q.opts.Name
}

// Stats returns statistics about the commands this CommandQueue has run
func (q *CommandQueue) Stats() segmented.QueueStatistics {
	return q.stats
}

// Submit enqueues a command and returns its completion handle without waiting for it to run.
// Submit blocks while Depth commands are outstanding; if ctx is done first, the command is not
// submitted. Once submitted, a command always runs to completion.
func (q *CommandQueue) Submit(ctx context.Context, cmd segmented.Command) (segmented.Event, error) {
	if err := q.inflight.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	q.lock.Lock()
	defer q.lock.Unlock()
	if q.closed {
		q.inflight.Release(1)
		return nil, errors.QueueClosedError{ID: q.id}
	}
	event := createEvent()
	q.pending.Add(&command{run: iutil.SafeCommand(cmd), event: event})
	q.stats.Submit()
	q.cond.Signal()
	return event, nil
}

// Finish blocks until every command submitted before the call has completed. It returns the
// errors of the commands which failed since the previous Finish, or ctx.Err() if ctx is done first.
func (q *CommandQueue) Finish(ctx context.Context) error {
	barrier, err := q.Submit(ctx, func(ctx context.Context) error { return nil })
	if err != nil {
		return err
	}
	if err = barrier.Wait(ctx); err != nil {
		return err
	}
	q.lock.Lock()
	failures := q.failures
	q.failures = nil
	q.lock.Unlock()
	if failures != nil {
		q.log.Debugf("finished with %d failed commands:\n%s", len(failures.Errors), iutil.FormatMultiError(failures.Errors))
	}
	return failures.ErrorOrNil()
}

// Close stops accepting commands, waits for the outstanding ones to complete, and stops the
// worker goroutine. Close is idempotent.
func (q *CommandQueue) Close() error {
	q.lock.Lock()
	alreadyClosed := q.closed
	q.closed = true
	q.cond.Broadcast()
	q.lock.Unlock()
	<-q.stopped
	if !alreadyClosed {
		q.stats.Finish()
		q.log.Infof("closed queue %s after %d commands (%d failed)", q.id, q.stats.GetNumCompleted(), q.stats.GetNumFailed())
	}
	return nil
}

// run executes commands until the queue is closed and drained
func (q *CommandQueue) run() {
	defer close(q.stopped)
	ctx := context.Background()
	for {
		q.lock.Lock()
		for q.pending.Length() == 0 && !q.closed {
			q.cond.Wait()
		}
		if q.pending.Length() == 0 {
			q.lock.Unlock()
			return
		}
		cmd := q.pending.Remove().(*command)
		q.lock.Unlock()

		start := time.Now()
		err := cmd.run(ctx)
		q.stats.EndCommand(start, err)
		if err != nil {
			q.log.Warnf("command failed: %v", err)
			q.lock.Lock()
			q.failures = multierror.Append(q.failures, err)
			q.lock.Unlock()
		}
		cmd.event.complete(err)
		q.inflight.Release(1)
	}
}
