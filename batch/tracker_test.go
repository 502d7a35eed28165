package batch

import (
	"errors"
	"sync"
	"testing"
)

func TestTrackerLifecycle(t *testing.T) {
	tr := NewTracker()
	id := tr.Start(3)
	if id == "" {
		t.Fatal("empty batch ID")
	}

	if err := tr.Record(id, ""); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := tr.Record(id, ""); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := tr.Record(id, "row 4: unknown status"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := tr.Complete(id, nil); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	p, ok := tr.Get(id)
	if !ok {
		t.Fatal("batch missing after completion")
	}
	if p.Status != StatusCompleted || p.Total != 3 || p.Processed != 3 || p.Succeeded != 2 || p.Failed != 1 {
		t.Errorf("progress = %+v", p)
	}
	if len(p.Errors) != 1 || p.Errors[0] != "row 4: unknown status" {
		t.Errorf("errors = %v", p.Errors)
	}
	if p.CompletedAt.Before(p.StartedAt) {
		t.Error("CompletedAt before StartedAt")
	}
}

func TestTrackerFailure(t *testing.T) {
	tr := NewTracker()
	id := tr.Start(1)
	if err := tr.Complete(id, errors.New("service unavailable")); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	p, _ := tr.Get(id)
	if p.Status != StatusFailed {
		t.Errorf("status = %s, want failed", p.Status)
	}
	if len(p.Errors) != 1 {
		t.Errorf("errors = %v", p.Errors)
	}
}

func TestTrackerUnknownBatch(t *testing.T) {
	tr := NewTracker()
	if err := tr.Record("nope", ""); err == nil {
		t.Error("Record on unknown batch should fail")
	}
	if err := tr.Complete("nope", nil); err == nil {
		t.Error("Complete on unknown batch should fail")
	}
	if _, ok := tr.Get("nope"); ok {
		t.Error("Get on unknown batch should report missing")
	}
}

func TestTrackerSnapshotIsolation(t *testing.T) {
	tr := NewTracker()
	id := tr.Start(2)
	tr.Record(id, "first error")

	p, _ := tr.Get(id)
	p.Errors[0] = "mutated"
	p.Processed = 99

	fresh, _ := tr.Get(id)
	if fresh.Errors[0] != "first error" || fresh.Processed != 1 {
		t.Errorf("snapshot mutation leaked into tracker: %+v", fresh)
	}
}

func TestTrackerConcurrentRecords(t *testing.T) {
	tr := NewTracker()
	id := tr.Start(100)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Record(id, "")
		}()
	}
	wg.Wait()

	p, _ := tr.Get(id)
	if p.Processed != 100 || p.Succeeded != 100 {
		t.Errorf("progress = %+v", p)
	}
}
