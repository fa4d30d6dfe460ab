package stats

import (
	"sync"
	"time"
)

const statisticRollingWindows = 5

// QueueStatistics contains statistics about a running Queue. It is safe for concurrent use: Commands
// are submitted from many goroutines while a single worker records their completion.
type QueueStatistics struct {
	lock                      sync.Mutex
	started                   bool
	finished                  bool
	startTime                 time.Time
	totalRuntime              time.Duration
	submitted                 int64
	completed                 int64
	failed                    int64
	recentCommandRuntimes     []time.Duration // for rolling average of recent command execution times
	recentCommandRuntimesHead int
	recentCommandRuntimesLen  int
}

// Start triggers statistics tracking, if it hasn't been started already
func (qs *QueueStatistics) Start() {
	qs.lock.Lock()
	defer qs.lock.Unlock()
	if !qs.started {
		qs.started = true
		qs.startTime = time.Now()
		qs.recentCommandRuntimes = make([]time.Duration, statisticRollingWindows)
	}
}

// Finish completes statistics tracking
func (qs *QueueStatistics) Finish() {
	qs.lock.Lock()
	defer qs.lock.Unlock()
	if qs.started && !qs.finished {
		qs.finished = true
		qs.totalRuntime = time.Since(qs.startTime)
	}
}

// Submit tracks the submission of a Command
func (qs *QueueStatistics) Submit() {
	qs.lock.Lock()
	defer qs.lock.Unlock()
	qs.submitted++
}

// EndCommand tracks the completion of a Command which started at a given time
func (qs *QueueStatistics) EndCommand(start time.Time, err error) {
	runtime := time.Since(start)
	qs.lock.Lock()
	defer qs.lock.Unlock()
	if qs.recentCommandRuntimes == nil {
		qs.recentCommandRuntimes = make([]time.Duration, statisticRollingWindows)
	}
	qs.recentCommandRuntimes[qs.recentCommandRuntimesHead] = runtime
	qs.recentCommandRuntimesHead = (qs.recentCommandRuntimesHead + 1) % len(qs.recentCommandRuntimes)
	if qs.recentCommandRuntimesLen < len(qs.recentCommandRuntimes) {
		qs.recentCommandRuntimesLen++
	}
	qs.completed++
	if err != nil {
		qs.failed++
	}
}

// GetStartTime returns the time the Queue started
func (qs *QueueStatistics) GetStartTime() time.Time {
	qs.lock.Lock()
	defer qs.lock.Unlock()
	return qs.startTime
}

// GetRuntime returns how long the Queue has been (or was) running
func (qs *QueueStatistics) GetRuntime() time.Duration {
	qs.lock.Lock()
	defer qs.lock.Unlock()
	if !qs.started {
		return 0
	}
	if qs.finished {
		return qs.totalRuntime
	}
	return time.Since(qs.startTime)
}

// GetNumSubmitted returns the number of Commands submitted so far
func (qs *QueueStatistics) GetNumSubmitted() int64 {
	qs.lock.Lock()
	defer qs.lock.Unlock()
	return qs.submitted
}

// GetNumCompleted returns the number of Commands which have finished executing
func (qs *QueueStatistics) GetNumCompleted() int64 {
	qs.lock.Lock()
	defer qs.lock.Unlock()
	return qs.completed
}

// GetNumFailed returns the number of Commands which returned an error or panicked
func (qs *QueueStatistics) GetNumFailed() int64 {
	qs.lock.Lock()
	defer qs.lock.Unlock()
	return qs.failed
}

// GetCurrentCommandRuntime returns a rolling average of Command execution time
func (qs *QueueStatistics) GetCurrentCommandRuntime() time.Duration {
	qs.lock.Lock()
	defer qs.lock.Unlock()
	if qs.recentCommandRuntimesLen == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range qs.recentCommandRuntimes[:qs.recentCommandRuntimesLen] {
		total += d
	}
	return total / time.Duration(qs.recentCommandRuntimesLen)
}
