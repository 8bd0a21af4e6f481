package retention

import (
	"context"
	"fmt"
	"testing"
	"time"

	"meridian-hq/meridian/pkg/audit"
	"meridian-hq/meridian/pkg/audit/storage"
)

func seedAged(t *testing.T, s *storage.MemoryStorage, ages ...time.Duration) {
	t.Helper()
	now := time.Now()
	for i, age := range ages {
		record := &audit.VerificationRecord{
			ID:           fmt.Sprintf("rec-%03d", i),
			Outcome:      "verified",
			VerifiedTime: now.Add(-age),
		}
		if err := s.Store(context.Background(), record); err != nil {
			t.Fatalf("store: %v", err)
		}
	}
}

func TestPruner_PruneByAge(t *testing.T) {
	s := storage.NewMemoryStorage()
	seedAged(t, s,
		24*time.Hour,
		10*24*time.Hour,
		40*24*time.Hour,
		400*24*time.Hour,
	)

	p := NewPruner(s, &Config{RetentionDays: 30})
	deleted, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	remaining, err := s.Count(context.Background(), nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if remaining != 2 {
		t.Errorf("remaining = %d, want 2", remaining)
	}
}

func TestPruner_PruneByCount(t *testing.T) {
	s := storage.NewMemoryStorage()
	ages := make([]time.Duration, 10)
	for i := range ages {
		ages[i] = time.Duration(i) * time.Hour
	}
	seedAged(t, s, ages...)

	p := NewPruner(s, &Config{RetentionDays: 0, MaxRecords: 4})
	deleted, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 6 {
		t.Errorf("deleted = %d, want 6", deleted)
	}

	// The newest records survive.
	remaining, err := s.Query(context.Background(), &audit.Query{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(remaining) != 4 {
		t.Fatalf("remaining = %d, want 4", len(remaining))
	}
	if remaining[0].ID != "rec-000" {
		t.Errorf("newest surviving record = %q, want rec-000", remaining[0].ID)
	}
}

func TestPruner_PruneByCount_TimestampTie(t *testing.T) {
	s := storage.NewMemoryStorage()
	// Two records share the boundary timestamp: one retained, one pruned.
	seedAged(t, s,
		0,
		time.Hour,
		2*time.Hour,
		2*time.Hour,
		3*time.Hour,
	)

	p := NewPruner(s, &Config{RetentionDays: 0, MaxRecords: 3})
	deleted, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	remaining, err := s.Count(context.Background(), nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if remaining != 3 {
		t.Errorf("remaining = %d, want exactly the configured maximum of 3", remaining)
	}

	newest, err := s.Query(context.Background(), &audit.Query{Limit: 1})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(newest) != 1 || newest[0].ID != "rec-000" {
		t.Errorf("newest surviving record = %+v, want rec-000", newest)
	}
}

func TestPruner_NothingToPrune(t *testing.T) {
	s := storage.NewMemoryStorage()
	seedAged(t, s, time.Hour, 2*time.Hour)

	p := NewPruner(s, &Config{RetentionDays: 30, MaxRecords: 100})
	deleted, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}
}

func TestPruner_ZeroConfigKeepsEverything(t *testing.T) {
	s := storage.NewMemoryStorage()
	seedAged(t, s, 1000*24*time.Hour)

	p := NewPruner(s, &Config{RetentionDays: 0, MaxRecords: 0})
	deleted, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := storage.NewMemoryStorage()
	p := NewPruner(s, &Config{RetentionDays: 30, PruneSchedule: "0 3 * * *"})

	sched := p.Scheduler()
	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !sched.IsRunning() {
		t.Error("scheduler should be running")
	}

	sched.Stop()
	if sched.IsRunning() {
		t.Error("scheduler should be stopped")
	}
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := storage.NewMemoryStorage()
	p := NewPruner(s, &Config{PruneSchedule: "not a cron expression"})

	if err := p.Scheduler().Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}
