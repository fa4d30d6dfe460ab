// Package partitioned provides Vector, a fixed-length container whose elements are split into
// partitions, each stored in a buffer owned by one of several execution queues. A Vector is both
// the boundary provider and the queue registry for the segmented iterators which walk it.
package partitioned

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/docker/docker/pkg/locker"
	"github.com/go-sif/segmented"
	"github.com/go-sif/segmented/buffer"
	"github.com/go-sif/segmented/errors"
	"github.com/go-sif/segmented/logging"
	"github.com/go-sif/segmented/queue"
	uuid "github.com/gofrs/uuid"
	multierror "github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// Vector is a fixed-length sequence of T, partitioned over execution queues
type Vector[T any] struct {
	id         string
	opts       *Options
	log        *logging.Logger
	queues     []*queue.CommandQueue
	ownsQueues bool
	registry   *queue.Registry
	buffers    []*buffer.Buffer[T]
	table      *segmented.Table[buffer.Iterator[T]]
	locks      *locker.Locker // exclusive sections per partition, keyed by partition index
	dirtyLock  sync.Mutex
	dirty      *roaring.Bitmap // partitions written since the last Finish, guarded by dirtyLock
}

// NewVector creates a Vector of zero elements laid out as described by opts
func NewVector[T any](opts *Options) (*Vector[T], error) {
	if opts == nil {
		opts = &Options{}
	} else {
		opts = CloneOptions(opts)
	}
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		log.Fatalf("failed to generate UUID for Vector: %v", err)
	}
	ensureDefaultOptionsValues(opts, id.String())
	v := &Vector[T]{
		id:    id.String(),
		opts:  opts,
		log:   opts.Logger.WithSource(opts.Name),
		locks: locker.New(),
		dirty: roaring.New(),
	}
	if len(opts.Queues) > 0 {
		v.queues = opts.Queues
	} else {
		v.ownsQueues = true
		for i := 0; i < opts.NumQueues; i++ {
			q, err := queue.NewCommandQueue(&queue.Options{
				Name:   fmt.Sprintf("%s-q%d", opts.Name, i),
				Depth:  opts.QueueDepth,
				Logger: opts.Logger,
			})
			if err != nil {
				v.Close()
				return nil, err
			}
			v.queues = append(v.queues, q)
		}
	}
	assignment := assignQueues(opts.Placement, opts.Name, opts.Partitions, len(v.queues))
	generic := make([]segmented.Queue, len(v.queues))
	for i, q := range v.queues {
		generic[i] = q
	}
	v.registry = queue.NewRegistry(generic, assignment)
	v.buffers = make([]*buffer.Buffer[T], opts.Partitions)
	for i, size := range opts.Sizes {
		v.buffers[i] = buffer.New[T](v.queues[assignment[i]], size)
	}
	v.table, err = segmented.TableFromProvider[buffer.Iterator[T]](v)
	if err != nil {
		v.Close()
		return nil, err
	}
	v.log.Infof("created vector %s of %d elements in %d partitions over %d queues (%s placement)", v.id, opts.Len, opts.Partitions, len(v.queues), opts.Placement)
	return v, nil
}

// ID returns the unique ID of this Vector
func (v *Vector[T]) ID() string {
	return v.id
}

// Name returns the name of this Vector
func (v *Vector[T]) Name() string {
	return v.opts.Name
}

// Len returns the number of elements in this Vector
func (v *Vector[T]) Len() int {
	return v.opts.Len
}

// Parts returns the number of partitions in this Vector
func (v *Vector[T]) Parts() int {
	return len(v.buffers)
}

// Sizes returns the length of each partition
func (v *Vector[T]) Sizes() []int {
	return append([]int(nil), v.opts.Sizes...)
}

// Begin returns the local iterator at the start of a partition
func (v *Vector[T]) Begin(partition int) buffer.Iterator[T] {
	return v.buffers[partition].Begin()
}

// End returns the local iterator one past the end of a partition
func (v *Vector[T]) End(partition int) buffer.Iterator[T] {
	return v.buffers[partition].End()
}

// Resolve returns the queue which owns a partition
func (v *Vector[T]) Resolve(partition int) (segmented.Queue, error) {
	return v.registry.Resolve(partition)
}

// Queue returns the queue which owns a partition
func (v *Vector[T]) Queue(partition int) (*queue.CommandQueue, error) {
	if err := v.checkPartition(partition); err != nil {
		return nil, err
	}
	return v.queues[v.registry.Owner(partition)], nil
}

// Table returns the boundary table of this Vector
func (v *Vector[T]) Table() *segmented.Table[buffer.Iterator[T]] {
	return v.table
}

// Iterator returns a segmented iterator at the first element of this Vector
func (v *Vector[T]) Iterator() *segmented.Iterator[buffer.Iterator[T]] {
	return segmented.Begin(v.table)
}

// IteratorEnd returns a segmented iterator at the end of this Vector
func (v *Vector[T]) IteratorEnd() *segmented.Iterator[buffer.Iterator[T]] {
	return segmented.End(v.table)
}

// At reads the element at a logical index
func (v *Vector[T]) At(ctx context.Context, index int) (T, error) {
	it, err := v.iteratorAt(index)
	if err != nil {
		var zero T
		return zero, err
	}
	return segmented.Read[T](ctx, it, v)
}

// SetAsync submits a store of value into the element at a logical index. The returned Event
// completes once the store has executed on the owning queue.
func (v *Vector[T]) SetAsync(ctx context.Context, index int, value T) (segmented.Event, error) {
	it, err := v.iteratorAt(index)
	if err != nil {
		return nil, err
	}
	event, err := segmented.WriteAsync(ctx, it, v, value)
	if err != nil {
		return nil, err
	}
	v.markDirty(it.Partition())
	return event, nil
}

// Set stores value into the element at a logical index
func (v *Vector[T]) Set(ctx context.Context, index int, value T) error {
	event, err := v.SetAsync(ctx, index, value)
	if err != nil {
		return err
	}
	return event.Wait(ctx)
}

// Fill copies host into this Vector, partitions in parallel. host must have exactly Len elements.
func (v *Vector[T]) Fill(ctx context.Context, host []T) error {
	if len(host) != v.Len() {
		return errors.ElementRangeError{Index: len(host), Len: v.Len()}
	}
	g, gctx := errgroup.WithContext(ctx)
	for i := range v.buffers {
		i := i
		if v.buffers[i].Len() == 0 {
			continue
		}
		chunk := host[v.table.Offset(i) : v.table.Offset(i)+v.table.Span(i)]
		g.Go(func() error {
			return v.writePartition(gctx, i, chunk)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	v.log.Debugf("filled %d elements", len(host))
	return nil
}

// ToSlice copies the contents of this Vector to a new slice, partitions in parallel
func (v *Vector[T]) ToSlice(ctx context.Context) ([]T, error) {
	out := make([]T, v.Len())
	g, gctx := errgroup.WithContext(ctx)
	for i := range v.buffers {
		i := i
		if v.buffers[i].Len() == 0 {
			continue
		}
		g.Go(func() error {
			return v.readPartition(gctx, i, out[v.table.Offset(i):v.table.Offset(i)+v.table.Span(i)])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Dirty returns the partitions written through this Vector since the last Finish
func (v *Vector[T]) Dirty() []int {
	v.dirtyLock.Lock()
	defer v.dirtyLock.Unlock()
	dirty := make([]int, 0, v.dirty.GetCardinality())
	it := v.dirty.Iterator()
	for it.HasNext() {
		dirty = append(dirty, int(it.Next()))
	}
	return dirty
}

// Finish waits for every command submitted to the queues owning partitions written since the
// last Finish, and returns the failures reported by those queues
func (v *Vector[T]) Finish(ctx context.Context) error {
	v.dirtyLock.Lock()
	dirty := v.dirty
	v.dirty = roaring.New()
	v.dirtyLock.Unlock()

	owners := roaring.New()
	it := dirty.Iterator()
	for it.HasNext() {
		owners.Add(uint32(v.registry.Owner(int(it.Next()))))
	}
	var errs *multierror.Error
	qit := owners.Iterator()
	for qit.HasNext() {
		q := v.queues[qit.Next()]
		if err := q.Finish(ctx); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	v.log.Debugf("finished %d dirty partitions on %d queues", dirty.GetCardinality(), owners.GetCardinality())
	return errs.ErrorOrNil()
}

// FinishAll waits for every command submitted to every queue of this Vector
func (v *Vector[T]) FinishAll(ctx context.Context) error {
	v.dirtyLock.Lock()
	v.dirty.Clear()
	v.dirtyLock.Unlock()
	var errs *multierror.Error
	for _, q := range v.queues {
		if err := q.Finish(ctx); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// Close closes the queues this Vector created. Queues supplied through Options are left open.
func (v *Vector[T]) Close() error {
	if !v.ownsQueues {
		return nil
	}
	var errs *multierror.Error
	for _, q := range v.queues {
		if err := q.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

func (v *Vector[T]) readPartition(ctx context.Context, partition int, out []T) error {
	v.lockPartition(partition)
	defer v.unlockPartition(partition)
	q, err := v.Resolve(partition)
	if err != nil {
		return err
	}
	event, err := v.buffers[partition].CopyTo(ctx, q, out, 0)
	if err != nil {
		return err
	}
	return event.Wait(ctx)
}

func (v *Vector[T]) iteratorAt(index int) (*segmented.Iterator[buffer.Iterator[T]], error) {
	if index < 0 || index >= v.Len() {
		return nil, errors.ElementRangeError{Index: index, Len: v.Len()}
	}
	return v.Iterator().Offset(index), nil
}

func (v *Vector[T]) checkPartition(partition int) error {
	if partition < 0 || partition >= len(v.buffers) {
		return errors.PartitionRangeError{Partition: partition, Parts: len(v.buffers)}
	}
	return nil
}

func (v *Vector[T]) markDirty(partition int) {
	v.dirtyLock.Lock()
	defer v.dirtyLock.Unlock()
	v.dirty.Add(uint32(partition))
}

func (v *Vector[T]) lockPartition(partition int) {
	v.locks.Lock(strconv.Itoa(partition))
}

func (v *Vector[T]) unlockPartition(partition int) {
	if err := v.locks.Unlock(strconv.Itoa(partition)); err != nil {
		log.Panicf("partition %d was not locked: %v", partition, err)
	}
}
