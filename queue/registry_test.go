package queue

import (
	"testing"

	"github.com/go-sif/segmented"
	"github.com/go-sif/segmented/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestRegistryResolve(t *testing.T) {
	defer goleak.VerifyNone(t)
	q0 := createTestQueue(t, 0)
	defer q0.Close()
	q1 := createTestQueue(t, 0)
	defer q1.Close()

	r := NewRegistry([]segmented.Queue{q0, q1}, []int{1, 0, 1, -1, 7})
	q, err := r.Resolve(0)
	require.Nil(t, err)
	require.Equal(t, q1.ID(), q.ID())
	q, err = r.Resolve(1)
	require.Nil(t, err)
	require.Equal(t, q0.ID(), q.ID())

	for _, p := range []int{3, 4, 5, -1} {
		_, err = r.Resolve(p)
		require.Equal(t, errors.UnresolvedQueueError{Partition: p}, err)
		require.Equal(t, -1, r.Owner(p))
	}
	require.Equal(t, 1, r.Owner(2))
	require.Len(t, r.Queues(), 2)
}

func TestSingleRegistry(t *testing.T) {
	defer goleak.VerifyNone(t)
	q0 := createTestQueue(t, 0)
	defer q0.Close()

	r := SingleRegistry(q0)
	for _, p := range []int{0, 1, 100} {
		q, err := r.Resolve(p)
		require.Nil(t, err)
		require.Equal(t, q0.ID(), q.ID())
		require.Equal(t, 0, r.Owner(p))
	}
	_, err := SingleRegistry(nil).Resolve(0)
	require.Equal(t, errors.UnresolvedQueueError{Partition: 0}, err)
}
