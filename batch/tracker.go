// Package batch tracks long-running import jobs in memory so callers
// can poll progress by ID.
package batch

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status of a tracked batch.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Progress is a point-in-time snapshot of a batch.
type Progress struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Total       int       `json:"total"`
	Processed   int       `json:"processed"`
	Succeeded   int       `json:"succeeded"`
	Failed      int       `json:"failed"`
	Errors      []string  `json:"errors,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// Tracker holds batch progress records.
type Tracker struct {
	mu      sync.RWMutex
	batches map[string]*Progress
	now     func() time.Time
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		batches: make(map[string]*Progress),
		now:     time.Now,
	}
}

// Start registers a new batch with the expected item count and returns
// its ID.
func (t *Tracker) Start(total int) string {
	id := uuid.NewString()
	t.mu.Lock()
	t.batches[id] = &Progress{
		ID:        id,
		Status:    StatusRunning,
		Total:     total,
		StartedAt: t.now(),
	}
	t.mu.Unlock()
	return id
}

// Record counts one processed item. A non-empty errMsg marks it failed.
func (t *Tracker) Record(id string, errMsg string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.batches[id]
	if !ok {
		return fmt.Errorf("unknown batch: %s", id)
	}
	p.Processed++
	if errMsg == "" {
		p.Succeeded++
	} else {
		p.Failed++
		p.Errors = append(p.Errors, errMsg)
	}
	return nil
}

// Complete marks the batch finished. failure sets the terminal status.
func (t *Tracker) Complete(id string, failure error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.batches[id]
	if !ok {
		return fmt.Errorf("unknown batch: %s", id)
	}
	p.CompletedAt = t.now()
	if failure != nil {
		p.Status = StatusFailed
		p.Errors = append(p.Errors, failure.Error())
	} else {
		p.Status = StatusCompleted
	}
	return nil
}

// Get returns a snapshot of the batch by value.
func (t *Tracker) Get(id string) (Progress, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.batches[id]
	if !ok {
		return Progress{}, false
	}
	snapshot := *p
	snapshot.Errors = append([]string(nil), p.Errors...)
	return snapshot, true
}
