package storage

import (
	"sync"
	"testing"
	"time"

	"github.com/noahxzhu/homework-notify/internal/model"
)

func TestStore_Update(t *testing.T) {
	started := time.Unix(1000, 0)
	s := NewStore(model.Snapshot{StartedAt: started, PollState: model.PollState{Cursor: 1000}})

	s.Update(func(snap *model.Snapshot) {
		snap.Cycles++
		snap.Cursor = 2000
		snap.LastOutcome = model.OutcomeNotified
	})

	got := s.Snapshot()
	if got.Cycles != 1 {
		t.Errorf("expected Cycles to be 1 but got %d", got.Cycles)
	}
	if got.Cursor != 2000 {
		t.Errorf("expected Cursor to be 2000 but got %d", got.Cursor)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("expected StartedAt to be kept but got %v", got.StartedAt)
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := NewStore(model.Snapshot{})

	snap := s.Snapshot()
	snap.Cycles = 42

	if got := s.Snapshot().Cycles; got != 0 {
		t.Errorf("expected stored Cycles to stay 0 but got %d", got)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore(model.Snapshot{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Update(func(snap *model.Snapshot) { snap.Cycles++ })
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	if got := s.Snapshot().Cycles; got != 50 {
		t.Errorf("expected 50 cycles but got %d", got)
	}
}
