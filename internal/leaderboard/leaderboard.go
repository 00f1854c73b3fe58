// Package leaderboard keeps the local top five quiz scores.
package leaderboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/abhisek/studybuddy/internal/store"
)

// Key is the key/value entry holding the leaderboard JSON array.
const Key = "quiz_leaderboard"

// Size is the number of entries kept.
const Size = 5

// Entry is one finished quiz run.
type Entry struct {
	Topic string    `json:"topic"`
	Score int       `json:"score"`
	Date  time.Time `json:"date"`
}

// Insert adds e to entries and returns the top Size entries by score.
// Ties keep earlier entries first. entries is not modified.
func Insert(entries []Entry, e Entry) []Entry {
	out := make([]Entry, 0, len(entries)+1)
	out = append(out, entries...)
	out = append(out, e)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > Size {
		out = out[:Size]
	}
	return out
}

// Board reads and writes the leaderboard in the key/value store.
type Board struct {
	kv store.KVRepo
}

// New returns a Board backed by kv.
func New(kv store.KVRepo) *Board {
	return &Board{kv: kv}
}

// Top returns the stored entries, best first. A missing board is empty.
func (b *Board) Top(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if _, err := b.kv.Get(ctx, Key, &entries); err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	return entries, nil
}

// Record inserts a finished run and returns the updated board.
func (b *Board) Record(ctx context.Context, e Entry) ([]Entry, error) {
	entries, err := b.Top(ctx)
	if err != nil {
		return nil, err
	}

	updated := Insert(entries, e)
	if err := b.kv.Put(ctx, Key, updated); err != nil {
		return nil, fmt.Errorf("write leaderboard: %w", err)
	}
	return updated, nil
}

// Clear removes all entries.
func (b *Board) Clear(ctx context.Context) error {
	return b.kv.Delete(ctx, Key)
}
