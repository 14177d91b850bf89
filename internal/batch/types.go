package batch

import (
	"sync"
	"time"
)

// Stage is one step of processing a request.
type Stage string

const (
	StageLoad    Stage = "load"
	StageResolve Stage = "resolve"
	StageEmit    Stage = "emit"
	StageWrite   Stage = "write"
)

// Stages lists every stage in execution order.
var Stages = []Stage{StageLoad, StageResolve, StageEmit, StageWrite}

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	// StatusCached is a done emit stage served from the disk cache.
	StatusCached Status = "cached"
	StatusError  Status = "error"
)

// Event reports progress for one request, identified by its Name.
type Event struct {
	Name    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use; workers report without coordination.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds stage durations of one request.
type Timings struct {
	mu     sync.Mutex
	stages map[Stage]time.Duration
}

// Set stores a duration for the given stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
	t.stages[stage] = dur
}

// Has reports whether a duration for stage is recorded.
func (t *Timings) Has(stage Stage) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.stages[stage]
	return ok
}

func (t *Timings) Duration(stage Stage) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stages[stage]
}

// Sum returns the sum of durations across stages, or across all recorded
// stages when none are given.
func (t *Timings) Sum(stages ...Stage) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	var total time.Duration
	if len(stages) == 0 {
		for _, d := range t.stages {
			total += d
		}
		return total
	}
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
