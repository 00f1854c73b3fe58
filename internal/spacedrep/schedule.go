// Package spacedrep schedules flashcard reviews on a fixed expanding
// interval table.
package spacedrep

import "fmt"

// BaseIntervals is the review interval table in days.
var BaseIntervals = []int{1, 3, 7, 14, 30, 60}

// Rating is how hard the learner found a card.
type Rating string

const (
	RatingEasy   Rating = "easy"
	RatingMedium Rating = "medium"
	RatingHard   Rating = "hard"
)

// ParseRating maps user input to a Rating.
func ParseRating(s string) (Rating, error) {
	switch r := Rating(s); r {
	case RatingEasy, RatingMedium, RatingHard:
		return r, nil
	}
	return "", fmt.Errorf("unknown rating %q", s)
}

// UnmarshalText rejects ratings outside the known set so a damaged
// snapshot fails to load. An empty rating is kept for never-rated cards.
func (r *Rating) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*r = ""
		return nil
	}
	v, err := ParseRating(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// NextInterval scales the current interval by the rating and snaps the
// result up to the first table value that is at least as long. Results
// beyond the table use its last value.
func NextInterval(rating Rating, current int) int {
	if current <= 0 {
		current = BaseIntervals[0]
	}

	var scaled float64
	switch rating {
	case RatingEasy:
		scaled = float64(current) * 2.5
	case RatingMedium:
		scaled = float64(current) * 1.5
	default:
		scaled = max(1, float64(current)*0.8)
	}

	for _, days := range BaseIntervals {
		if float64(days) >= scaled {
			return days
		}
	}
	return BaseIntervals[len(BaseIntervals)-1]
}
