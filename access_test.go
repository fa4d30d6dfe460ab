package segmented

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-sif/segmented/errors"
	"github.com/stretchr/testify/require"
)

// doneEvent is an Event which has already completed
type doneEvent struct {
	done chan struct{}
	err  error
}

func createDoneEvent(err error) *doneEvent {
	e := &doneEvent{done: make(chan struct{}), err: err}
	close(e.done)
	return e
}

func (e *doneEvent) Wait(ctx context.Context) error { return e.err }
func (e *doneEvent) Done() <-chan struct{} { return e.done }
func (e *doneEvent) Err() error { return e.err }

// inlineQueue runs every Command on the submitting goroutine and records the partitions it served
type inlineQueue struct {
	id     string
	served int
}

func (q *inlineQueue) ID() string { return q.id }

func (q *inlineQueue) Submit(ctx context.Context, cmd Command) (Event, error) {
	q.served++
	return createDoneEvent(cmd(ctx)), nil
}

// sliceIterator is a local iterator over one partition's slice
type sliceIterator struct {
	store *[]int
	pos   int
}

func (s sliceIterator) Add(n int) sliceIterator { return sliceIterator{store: s.store, pos: s.pos + n} }
func (s sliceIterator) Sub(other sliceIterator) int { return s.pos - other.pos }
func (s sliceIterator) Equal(other sliceIterator) bool { return s.store == other.store && s.pos == other.pos }
func (s sliceIterator) Value() int { return (*s.store)[s.pos] }

func (s sliceIterator) Read(ctx context.Context, q Queue) (*Pending[int], error) {
	var value int
	event, err := q.Submit(ctx, func(ctx context.Context) error {
		value = (*s.store)[s.pos]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewPending(event, &value), nil
}

func (s sliceIterator) Write(ctx context.Context, q Queue, value int) (Event, error) {
	return q.Submit(ctx, func(ctx context.Context) error {
		(*s.store)[s.pos] = value
		return nil
	})
}

func createSliceTestIterator(t *testing.T, stores ...*[]int) *Iterator[sliceIterator] {
	begins := make([]sliceIterator, len(stores))
	ends := make([]sliceIterator, len(stores))
	for i, s := range stores {
		begins[i] = sliceIterator{store: s}
		ends[i] = sliceIterator{store: s, pos: len(*s)}
	}
	it, err := New(begins, ends)
	require.Nil(t, err)
	return it
}

func TestReadRoutesToOwningQueue(t *testing.T) {
	ctx := context.Background()
	a, b, c := []int{1, -2, -3}, []int{}, []int{-4, 5}
	queues := []*inlineQueue{{id: "q0"}, {id: "q1"}, {id: "q2"}}
	registry := RegistryFunc(func(partition int) (Queue, error) {
		return queues[partition], nil
	})

	it := createSliceTestIterator(t, &a, &b, &c)
	values := []int{}
	for !it.IsEnd() {
		v, err := Read[int](ctx, it, registry)
		require.Nil(t, err)
		values = append(values, v)
		it.Next()
	}
	require.Equal(t, []int{1, -2, -3, -4, 5}, values)
	require.Equal(t, 3, queues[0].served)
	require.Equal(t, 0, queues[1].served)
	require.Equal(t, 2, queues[2].served)
}

func TestWriteIsVisibleToLaterRead(t *testing.T) {
	ctx := context.Background()
	a, b := []int{0, 0}, []int{0, 0}
	q := &inlineQueue{id: "single"}
	registry := RegistryFunc(func(partition int) (Queue, error) { return q, nil })

	it := createSliceTestIterator(t, &a, &b)
	for i := 0; !it.IsEnd(); i++ {
		require.Nil(t, Write(ctx, it, registry, i*10))
		it.Next()
	}
	it = it.Begin()
	it.Advance(3)
	v, err := Read[int](ctx, it, registry)
	require.Nil(t, err)
	require.Equal(t, 30, v)
	require.Equal(t, 30, Value[int](it))
	require.Equal(t, []int{20, 30}, b)
}

func TestReadAsyncReturnsPending(t *testing.T) {
	ctx := context.Background()
	a := []int{7}
	q := &inlineQueue{id: "single"}
	registry := RegistryFunc(func(partition int) (Queue, error) { return q, nil })
	it := createSliceTestIterator(t, &a)

	pending, err := ReadAsync[int](ctx, it, registry)
	require.Nil(t, err)
	<-pending.Event().Done()
	v, err := pending.Wait(ctx)
	require.Nil(t, err)
	require.Equal(t, 7, v)

	event, err := WriteAsync(ctx, it, registry, 8)
	require.Nil(t, err)
	require.Nil(t, event.Wait(ctx))
	require.Equal(t, 8, a[0])
}

func TestUnresolvedQueueIsAnError(t *testing.T) {
	ctx := context.Background()
	a, b := []int{1}, []int{2}
	q := &inlineQueue{id: "only-partition-0"}
	registry := RegistryFunc(func(partition int) (Queue, error) {
		if partition == 0 {
			return q, nil
		}
		return nil, nil
	})
	it := createSliceTestIterator(t, &a, &b)
	it.Next()
	_, err := Read[int](ctx, it, registry)
	require.Equal(t, errors.UnresolvedQueueError{Partition: 1}, err)
	err = Write(ctx, it, registry, 3)
	require.Equal(t, errors.UnresolvedQueueError{Partition: 1}, err)
	require.Equal(t, 0, q.served)

	failing := RegistryFunc(func(partition int) (Queue, error) {
		return nil, fmt.Errorf("registry unavailable")
	})
	_, err = Read[int](ctx, it, failing)
	require.EqualError(t, err, "registry unavailable")
}

func TestReadAtEndIsAnError(t *testing.T) {
	ctx := context.Background()
	a := []int{1}
	q := &inlineQueue{id: "single"}
	registry := RegistryFunc(func(partition int) (Queue, error) { return q, nil })
	it := createSliceTestIterator(t, &a).End()
	_, err := Read[int](ctx, it, registry)
	require.Equal(t, errors.ElementRangeError{Index: 1, Len: 1}, err)
	require.Equal(t, 0, q.served)
}

func TestTableFromProvider(t *testing.T) {
	a, b := []int{1, 2}, []int{3}
	p := &sliceProvider{stores: []*[]int{&a, &b}}
	it, err := NewFromProvider[sliceIterator](p)
	require.Nil(t, err)
	require.Equal(t, 3, it.Len())
	require.Equal(t, 2, it.Parts())
	require.Equal(t, 2, it.Table().Span(0))
	require.Equal(t, 2, it.Table().Offset(1))
	require.True(t, it.Table().Equal(it.Offset(2).Table()))
	require.Equal(t, 1, Value[int](it))
}

type sliceProvider struct {
	stores []*[]int
}

func (p *sliceProvider) Parts() int { return len(p.stores) }
func (p *sliceProvider) Begin(partition int) sliceIterator {
	return sliceIterator{store: p.stores[partition]}
}
func (p *sliceProvider) End(partition int) sliceIterator {
	return sliceIterator{store: p.stores[partition], pos: len(*p.stores[partition])}
}
