package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-sif/segmented"
	"github.com/go-sif/segmented/errors"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func createTestQueue(t *testing.T, depth int) *CommandQueue {
	q, err := NewCommandQueue(&Options{Depth: depth})
	require.Nil(t, err)
	return q
}

func TestCommandsRunInSubmissionOrder(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	q := createTestQueue(t, 4)
	defer q.Close()

	var order []int
	events := []segmented.Event{}
	for i := 0; i < 50; i++ {
		i := i
		event, err := q.Submit(ctx, func(ctx context.Context) error {
			order = append(order, i)
			return nil
		})
		require.Nil(t, err)
		events = append(events, event)
	}
	require.Nil(t, q.Finish(ctx))
	for _, e := range events {
		require.Nil(t, e.Err())
	}
	require.Len(t, order, 50)
	for i, v := range order {
		require.Equal(t, i, v)
	}
	require.Equal(t, int64(51), q.Stats().GetNumSubmitted()) // includes the Finish barrier
	require.Equal(t, int64(0), q.Stats().GetNumFailed())
}

func TestFinishReportsFailuresOnce(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	q := createTestQueue(t, 0)
	defer q.Close()

	bad, err := q.Submit(ctx, func(ctx context.Context) error { return fmt.Errorf("transfer failed") })
	require.Nil(t, err)
	_, err = q.Submit(ctx, func(ctx context.Context) error { panic("kernel fault") })
	require.Nil(t, err)

	err = q.Finish(ctx)
	require.NotNil(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	require.Len(t, merr.Errors, 2)
	require.EqualError(t, merr.Errors[0], "transfer failed")
	require.IsType(t, errors.CommandPanicError{}, merr.Errors[1])
	require.EqualError(t, bad.Wait(ctx), "transfer failed")

	require.Nil(t, q.Finish(ctx))
	require.Equal(t, int64(2), q.Stats().GetNumFailed())
}

func TestSubmitBlocksAtDepth(t *testing.T) {
	defer goleak.VerifyNone(t)
	q := createTestQueue(t, 1)
	defer q.Close()

	release := make(chan struct{})
	_, err := q.Submit(context.Background(), func(ctx context.Context) error {
		<-release
		return nil
	})
	require.Nil(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = q.Submit(ctx, func(ctx context.Context) error { return nil })
	require.Equal(t, context.DeadlineExceeded, err)

	close(release)
	require.Nil(t, q.Finish(context.Background()))
}

func TestWaitHonoursContext(t *testing.T) {
	defer goleak.VerifyNone(t)
	q := createTestQueue(t, 0)
	defer q.Close()

	release := make(chan struct{})
	event, err := q.Submit(context.Background(), func(ctx context.Context) error {
		<-release
		return nil
	})
	require.Nil(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Equal(t, context.Canceled, event.Wait(ctx))
	require.Nil(t, event.Err())
	close(release)
	require.Nil(t, event.Wait(context.Background()))
}

func TestCloseDrainsAndRejects(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	q := createTestQueue(t, 0)

	var lock sync.Mutex
	ran := 0
	for i := 0; i < 10; i++ {
		_, err := q.Submit(ctx, func(ctx context.Context) error {
			lock.Lock()
			defer lock.Unlock()
			ran++
			return nil
		})
		require.Nil(t, err)
	}
	require.Nil(t, q.Close())
	require.Equal(t, 10, ran)
	require.Nil(t, q.Close())

	_, err := q.Submit(ctx, func(ctx context.Context) error { return nil })
	require.Equal(t, errors.QueueClosedError{ID: q.ID()}, err)
	require.Equal(t, errors.QueueClosedError{ID: q.ID()}, q.Finish(ctx))
}

func TestDefaultOptions(t *testing.T) {
	defer goleak.VerifyNone(t)
	q, err := NewCommandQueue(nil)
	require.Nil(t, err)
	defer q.Close()
	require.Equal(t, 64, q.opts.Depth)
	require.Equal(t, "queue-"+q.ID()[:8], q.Name())

	require.Panics(t, func() {
		ensureDefaultOptionsValues(&Options{Depth: -1}, q.ID())
	})
}
