package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-sif/segmented/errors"
	"github.com/go-sif/segmented/partitioned"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestCommandPanicSurfacesOnFinish(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	v, err := partitioned.NewVector[string](&partitioned.Options{Len: 6, Partitions: 3})
	require.Nil(t, err)
	defer v.Close()

	q, err := v.Queue(1)
	require.Nil(t, err)
	event, err := q.Submit(ctx, func(ctx context.Context) error {
		var m map[string]int
		m["boom"]++ // nil map write
		return nil
	})
	require.Nil(t, err)
	_, err = v.SetAsync(ctx, 2, "after the panic")
	require.Nil(t, err)

	err = v.Finish(ctx)
	require.NotNil(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	require.Len(t, merr.Errors, 1)
	panicErr, ok := merr.Errors[0].(errors.CommandPanicError)
	require.True(t, ok)
	require.Contains(t, panicErr.Trace, "command_error_test")
	require.Equal(t, panicErr, event.Err())

	// the queue keeps running after a panic
	value, err := v.At(ctx, 2)
	require.Nil(t, err)
	require.Equal(t, "after the panic", value)
	require.Equal(t, int64(1), q.Stats().GetNumFailed())
}

func TestSubmitRespectsContextUnderBackpressure(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	v, err := partitioned.NewVector[int](&partitioned.Options{Len: 4, Partitions: 1, QueueDepth: 1})
	require.Nil(t, err)
	defer v.Close()

	q, err := v.Queue(0)
	require.Nil(t, err)
	release := make(chan struct{})
	_, err = q.Submit(ctx, func(ctx context.Context) error {
		<-release
		return nil
	})
	require.Nil(t, err)

	timeout, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err = v.Set(timeout, 0, 1)
	require.Equal(t, context.DeadlineExceeded, err)
	require.Empty(t, v.Dirty())

	close(release)
	require.Nil(t, v.Set(ctx, 0, 1))
	value, err := v.At(ctx, 0)
	require.Nil(t, err)
	require.Equal(t, 1, value)
}

func TestClosedQueueRejectsAccess(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	v, err := partitioned.NewVector[int](&partitioned.Options{Len: 2})
	require.Nil(t, err)
	require.Nil(t, v.Close())

	q, err := v.Queue(0)
	require.Nil(t, err)
	_, err = v.At(ctx, 0)
	require.Equal(t, errors.QueueClosedError{ID: q.ID()}, err)
	require.Nil(t, v.Close())
}
