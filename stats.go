package segmented

import "time"

// QueueStatistics facilitates the retrieval of statistics about a running Queue
type QueueStatistics interface {
	// GetStartTime returns the time the Queue started
	GetStartTime() time.Time
	// GetRuntime returns how long the Queue has been (or was) running
	GetRuntime() time.Duration
	// GetNumSubmitted returns the number of Commands submitted so far
	GetNumSubmitted() int64
	// GetNumCompleted returns the number of Commands which have finished executing, successfully or not
	GetNumCompleted() int64
	// GetNumFailed returns the number of Commands which returned an error or panicked
	GetNumFailed() int64
	// GetCurrentCommandRuntime returns a rolling average of Command execution time
	GetCurrentCommandRuntime() time.Duration
}
