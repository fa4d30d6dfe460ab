// Package segmented contains the core components of segmented iteration: a single logical,
// ordered sequence of elements whose storage is split across an ordered list of partitions,
// each partition owned by its own execution queue.
//
// A Table records the begin/end boundaries of every partition. An Iterator walks the
// concatenation of all partitions as a random-access cursor, skipping empty partitions in
// both directions, and routes element reads and writes to the queue which owns the active
// partition through a QueueRegistry.
package segmented
