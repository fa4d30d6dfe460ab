package errors

import (
	"fmt"
)

// EmptyTableError occurs when a partition table is constructed without any partitions
type EmptyTableError struct{}

// Error returns a textual representation of this EmptyTableError
func (e EmptyTableError) Error() string {
	return "Partition table must contain at least one partition"
}

// BoundaryCountError occurs when the begin and end boundary lists of a partition table differ in length
type BoundaryCountError struct {
	Begins int
	Ends   int
}

// Error returns a textual representation of this BoundaryCountError
func (e BoundaryCountError) Error() string {
	return fmt.Sprintf("Partition table has %d begin boundaries but %d end boundaries", e.Begins, e.Ends)
}

// ReversedBoundaryError occurs when a partition's end lies before its begin
type ReversedBoundaryError struct {
	Partition int
	Span      int
}

// Error returns a textual representation of this ReversedBoundaryError
func (e ReversedBoundaryError) Error() string {
	return fmt.Sprintf("Partition %d has a reversed boundary (end - begin = %d)", e.Partition, e.Span)
}

// UnresolvedQueueError occurs when a queue registry has no queue for a partition
type UnresolvedQueueError struct{ Partition int }

// Error returns a textual representation of this UnresolvedQueueError
func (e UnresolvedQueueError) Error() string {
	return fmt.Sprintf("No queue owns partition %d", e.Partition)
}

// QueueClosedError occurs when a command is submitted to a queue which has been closed
type QueueClosedError struct{ ID string }

// Error returns a textual representation of this QueueClosedError
func (e QueueClosedError) Error() string {
	return fmt.Sprintf("Queue %s is closed", e.ID)
}

// ElementRangeError occurs when an element index lies outside of a buffer
type ElementRangeError struct {
	Index int
	Len   int
}

// Error returns a textual representation of this ElementRangeError
func (e ElementRangeError) Error() string {
	return fmt.Sprintf("Element index %d is out of range for buffer of length %d", e.Index, e.Len)
}

// PartitionRangeError occurs when a partition index lies outside of a partitioned container
type PartitionRangeError struct {
	Partition int
	Parts     int
}

// Error returns a textual representation of this PartitionRangeError
func (e PartitionRangeError) Error() string {
	return fmt.Sprintf("Partition %d is out of range [0, %d)", e.Partition, e.Parts)
}

// LayoutError occurs when a partition layout document is malformed
type LayoutError struct {
	Field  string
	Reason string
}

// Error returns a textual representation of this LayoutError
func (e LayoutError) Error() string {
	if len(e.Field) == 0 {
		return fmt.Sprintf("Invalid layout: %s", e.Reason)
	}
	return fmt.Sprintf("Invalid layout field %s: %s", e.Field, e.Reason)
}

// CommandPanicError occurs when a command panics while executing on a queue
type CommandPanicError struct {
	Value interface{}
	Trace string
}

// Error returns a textual representation of this CommandPanicError
func (e CommandPanicError) Error() string {
	return fmt.Sprintf("Command panicked: %v\n%s", e.Value, e.Trace)
}
