package partitioned

import (
	"fmt"

	"github.com/go-sif/segmented/errors"
	"github.com/go-sif/segmented/logging"
	"github.com/go-sif/segmented/queue"
)

// Placement decides which queue owns each partition of a Vector
type Placement string

const (
	// RoundRobin assigns partition i to queue i modulo the number of queues
	RoundRobin Placement = "round-robin"
	// Hashed assigns each partition by hashing the Vector's name and the partition index
	Hashed Placement = "hashed"
	// Single assigns every partition to the first queue
	Single Placement = "single"
)

// Compression selects the compressor used for Vector snapshots
type Compression string

const (
	// LZ4 compresses snapshots with lz4
	LZ4 Compression = "lz4"
	// Zstd compresses snapshots with zstd
	Zstd Compression = "zstd"
)

// Options configure a Vector
type Options struct {
	Name        string                // identifies the Vector in logs, and seeds Hashed placement (defaults to a prefix of its ID)
	Len         int                   // the total number of elements, split evenly over Partitions (ignored when Sizes is set)
	Partitions  int                   // the number of partitions Len is split over (defaults to 1)
	Sizes       []int                 // the explicit length of each partition; zero-length partitions are allowed
	NumQueues   int                   // the number of queues to create (defaults to one per partition; ignored when Queues is set)
	QueueDepth  int                   // the Depth of each created queue
	Queues      []*queue.CommandQueue // existing queues to place partitions on. The Vector does not close these.
	Placement   Placement             // how partitions are assigned to queues (defaults to RoundRobin)
	Compression Compression           // the snapshot compressor (defaults to LZ4)
	Logger      *logging.Logger       // where the Vector and the queues it creates log (defaults to discarding)
}

// CloneOptions makes a copy of an Options
func CloneOptions(opts *Options) *Options {
	return &Options{
		Name:        opts.Name,
		Len:         opts.Len,
		Partitions:  opts.Partitions,
		Sizes:       append([]int(nil), opts.Sizes...),
		NumQueues:   opts.NumQueues,
		QueueDepth:  opts.QueueDepth,
		Queues:      append([]*queue.CommandQueue(nil), opts.Queues...),
		Placement:   opts.Placement,
		Compression: opts.Compression,
		Logger:      opts.Logger,
	}
}

func validateOptions(opts *Options) error {
	if opts.Len < 0 {
		return errors.LayoutError{Field: "len", Reason: fmt.Sprintf("%d must not be negative", opts.Len)}
	}
	if opts.Partitions < 0 {
		return errors.LayoutError{Field: "partitions", Reason: fmt.Sprintf("%d must not be negative", opts.Partitions)}
	}
	for i, size := range opts.Sizes {
		if size < 0 {
			return errors.LayoutError{Field: fmt.Sprintf("sizes.%d", i), Reason: fmt.Sprintf("%d must not be negative", size)}
		}
	}
	if opts.NumQueues < 0 {
		return errors.LayoutError{Field: "queues", Reason: fmt.Sprintf("%d must not be negative", opts.NumQueues)}
	}
	if opts.QueueDepth < 0 {
		return errors.LayoutError{Field: "queue_depth", Reason: fmt.Sprintf("%d must not be negative", opts.QueueDepth)}
	}
	for i, q := range opts.Queues {
		if q == nil {
			return errors.LayoutError{Field: fmt.Sprintf("queues.%d", i), Reason: "queue must not be nil"}
		}
	}
	switch opts.Placement {
	case "", RoundRobin, Hashed, Single:
	default:
		return errors.LayoutError{Field: "placement", Reason: fmt.Sprintf("unknown placement %q", opts.Placement)}
	}
	switch opts.Compression {
	case "", LZ4, Zstd:
	default:
		return errors.LayoutError{Field: "compression", Reason: fmt.Sprintf("unknown compression %q", opts.Compression)}
	}
	return nil
}

func ensureDefaultOptionsValues(opts *Options, id string) {
	if len(opts.Sizes) == 0 {
		if opts.Partitions == 0 {
			opts.Partitions = 1
		}
		opts.Sizes = splitEvenly(opts.Len, opts.Partitions)
	}
	opts.Partitions = len(opts.Sizes)
	opts.Len = 0
	for _, size := range opts.Sizes {
		opts.Len += size
	}
	if len(opts.Queues) > 0 {
		opts.NumQueues = len(opts.Queues)
	} else if opts.NumQueues == 0 {
		opts.NumQueues = opts.Partitions
	}
	if len(opts.Name) == 0 {
		opts.Name = "vector-" + id[:8]
	}
	if len(opts.Placement) == 0 {
		opts.Placement = RoundRobin
	}
	if len(opts.Compression) == 0 {
		opts.Compression = LZ4
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
}

// splitEvenly divides n elements over parts partitions, giving the remainder to the leading ones
func splitEvenly(n int, parts int) []int {
	sizes := make([]int, parts)
	for i := range sizes {
		sizes[i] = n / parts
		if i < n%parts {
			sizes[i]++
		}
	}
	return sizes
}
