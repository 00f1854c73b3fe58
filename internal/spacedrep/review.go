package spacedrep

import "time"

// ReviewState holds the schedule for a single card.
type ReviewState struct {
	CardID      string    `json:"card_id"`
	Interval    int       `json:"interval"`
	NextReview  time.Time `json:"next_review"`
	LastReview  time.Time `json:"last_review"`
	LastRating  Rating    `json:"last_rating"`
	ReviewCount int       `json:"review_count"`
}

// IsDue returns true at or past the review date. A nil state (a card
// never reviewed) is always due.
func (rs *ReviewState) IsDue(now time.Time) bool {
	if rs == nil {
		return true
	}
	return !now.Before(rs.NextReview)
}

// DaysUntilReview returns the whole days until the next review, rounded
// up. Returns 0 if already due.
func (rs *ReviewState) DaysUntilReview(now time.Time) int {
	if rs.IsDue(now) {
		return 0
	}
	return int(rs.NextReview.Sub(now).Hours()/24.0) + 1
}
