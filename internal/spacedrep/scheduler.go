package spacedrep

import (
	"sort"
	"time"
)

// Scheduler tracks review state for a set of cards.
type Scheduler struct {
	reviews map[string]*ReviewState
}

// NewScheduler creates a scheduler, loading review state from the snapshot.
func NewScheduler(snap *SnapshotData) *Scheduler {
	s := &Scheduler{reviews: make(map[string]*ReviewState)}
	if snap == nil {
		return s
	}
	for id, rs := range snap.Reviews {
		if rs == nil {
			continue
		}
		cp := *rs
		cp.CardID = id
		s.reviews[id] = &cp
	}
	return s
}

// Record applies a rating to a card and returns its new state.
func (s *Scheduler) Record(cardID string, rating Rating, now time.Time) *ReviewState {
	rs := s.reviews[cardID]
	if rs == nil {
		rs = &ReviewState{CardID: cardID}
		s.reviews[cardID] = rs
	}

	rs.Interval = NextInterval(rating, rs.Interval)
	rs.NextReview = now.AddDate(0, 0, rs.Interval)
	rs.LastReview = now
	rs.LastRating = rating
	rs.ReviewCount++
	return rs
}

// Get returns the review state for a card, or nil if never reviewed.
func (s *Scheduler) Get(cardID string) *ReviewState {
	return s.reviews[cardID]
}

// IsDue reports whether the card should be reviewed now.
func (s *Scheduler) IsDue(cardID string, now time.Time) bool {
	return s.reviews[cardID].IsDue(now)
}

// Due filters ids down to the cards due at now, keeping their order.
func (s *Scheduler) Due(ids []string, now time.Time) []string {
	var due []string
	for _, id := range ids {
		if s.IsDue(id, now) {
			due = append(due, id)
		}
	}
	return due
}

// Upcoming returns reviewed cards that are not yet due, soonest first.
func (s *Scheduler) Upcoming(now time.Time) []*ReviewState {
	var out []*ReviewState
	for _, rs := range s.reviews {
		if !rs.IsDue(now) {
			out = append(out, rs)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].NextReview.Equal(out[j].NextReview) {
			return out[i].NextReview.Before(out[j].NextReview)
		}
		return out[i].CardID < out[j].CardID
	})
	return out
}
