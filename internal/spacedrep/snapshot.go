package spacedrep

import (
	"context"
	"fmt"

	"github.com/abhisek/studybuddy/internal/store"
)

// SnapshotKey is the key/value entry holding all card review state.
const SnapshotKey = "flashcard_reviews"

// SnapshotData is the persisted form of a Scheduler.
type SnapshotData struct {
	Reviews map[string]*ReviewState `json:"reviews"`
}

// SnapshotData exports the current review state for persistence.
func (s *Scheduler) SnapshotData() *SnapshotData {
	data := &SnapshotData{Reviews: make(map[string]*ReviewState, len(s.reviews))}
	for id, rs := range s.reviews {
		cp := *rs
		data.Reviews[id] = &cp
	}
	return data
}

// Load reads the scheduler from kv. A missing entry yields an empty scheduler.
func Load(ctx context.Context, kv store.KVRepo) (*Scheduler, error) {
	var snap SnapshotData
	found, err := kv.Get(ctx, SnapshotKey, &snap)
	if err != nil {
		return nil, fmt.Errorf("load review state: %w", err)
	}
	if !found {
		return NewScheduler(nil), nil
	}
	return NewScheduler(&snap), nil
}

// Save writes the scheduler to kv.
func (s *Scheduler) Save(ctx context.Context, kv store.KVRepo) error {
	if err := kv.Put(ctx, SnapshotKey, s.SnapshotData()); err != nil {
		return fmt.Errorf("save review state: %w", err)
	}
	return nil
}
