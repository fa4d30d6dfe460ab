package queue

import (
	"github.com/go-sif/segmented"
	"github.com/go-sif/segmented/errors"
)

// unowned marks a partition without a queue
const unowned = -1

// Registry is a fixed mapping from partitions to the queues which own them
type Registry struct {
	queues []segmented.Queue
	owners []int // owners[partition] indexes queues, or is unowned
	single bool  // iff true, queues[0] owns every partition
}

// NewRegistry maps partition i to queues[assignment[i]]. A negative or out-of-range assignment
// leaves a partition without a queue, which Resolve reports as an error.
func NewRegistry(queues []segmented.Queue, assignment []int) *Registry {
	owners := make([]int, len(assignment))
	for i, a := range assignment {
		if a < 0 || a >= len(queues) || queues[a] == nil {
			owners[i] = unowned
		} else {
			owners[i] = a
		}
	}
	return &Registry{
		queues: append([]segmented.Queue(nil), queues...),
		owners: owners,
	}
}

// SingleRegistry maps every partition to one queue. This is the single-context arrangement in
// which direct dereference of partition storage is meaningful.
func SingleRegistry(q segmented.Queue) *Registry {
	return &Registry{
		queues: []segmented.Queue{q},
		single: true,
	}
}

// Resolve returns the queue which owns a partition
func (r *Registry) Resolve(partition int) (segmented.Queue, error) {
	if partition < 0 {
		return nil, errors.UnresolvedQueueError{Partition: partition}
	}
	if r.single {
		if r.queues[0] == nil {
			return nil, errors.UnresolvedQueueError{Partition: partition}
		}
		return r.queues[0], nil
	}
	if partition >= len(r.owners) || r.owners[partition] == unowned {
		return nil, errors.UnresolvedQueueError{Partition: partition}
	}
	return r.queues[r.owners[partition]], nil
}

// Owner returns the index of the queue which owns a partition, or -1 if none does
func (r *Registry) Owner(partition int) int {
	if partition < 0 {
		return unowned
	}
	if r.single {
		return 0
	}
	if partition >= len(r.owners) {
		return unowned
	}
	return r.owners[partition]
}

// Queues returns every queue known to this Registry
func (r *Registry) Queues() []segmented.Queue {
	return append([]segmented.Queue(nil), r.queues...)
}
