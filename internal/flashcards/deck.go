// Package flashcards holds the flashcard deck: pagination, flipping and
// spaced-repetition ratings.
package flashcards

import (
	"errors"
	"strings"
	"time"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/spacedrep"
)

// User-facing messages.
const (
	MsgNoCards        = "No flashcards generated. Please try again."
	MsgGenerateFailed = "Failed to generate flashcards. Please try again."
)

// ErrNoCards is returned when generation produced an empty deck.
var ErrNoCards = errors.New("flashcards: no cards generated")

// Message maps a generation error to the text shown to the user.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoCards):
		return MsgNoCards
	default:
		return MsgGenerateFailed
	}
}

// Deck is the set of cards for one topic. Exactly one card is in view.
type Deck struct {
	Topic   string
	Cards   []api.Flashcard
	Index   int
	Flipped bool

	sched *spacedrep.Scheduler
}

// NewDeck returns an empty deck using sched for ratings. A nil sched
// keeps ratings in memory only.
func NewDeck(sched *spacedrep.Scheduler) *Deck {
	if sched == nil {
		sched = spacedrep.NewScheduler(nil)
	}
	return &Deck{sched: sched}
}

// Load replaces the deck with freshly generated cards.
func (d *Deck) Load(topic string, cards []api.Flashcard) error {
	if len(cards) == 0 {
		return ErrNoCards
	}
	d.Topic = strings.TrimSpace(topic)
	d.Cards = cards
	d.Index = 0
	d.Flipped = false
	return nil
}

// Empty reports whether there is nothing to show.
func (d *Deck) Empty() bool {
	return len(d.Cards) == 0
}

// Current returns the card in view, or nil for an empty deck.
func (d *Deck) Current() *api.Flashcard {
	if d.Empty() {
		return nil
	}
	return &d.Cards[d.Index]
}

// Flip turns the current card over.
func (d *Deck) Flip() {
	if !d.Empty() {
		d.Flipped = !d.Flipped
	}
}

// Next moves forward one card. It is a no-op on the last card.
func (d *Deck) Next() bool {
	if d.Index+1 >= len(d.Cards) {
		return false
	}
	d.Index++
	d.Flipped = false
	return true
}

// Prev moves back one card. It is a no-op on the first card.
func (d *Deck) Prev() bool {
	if d.Index == 0 || d.Empty() {
		return false
	}
	d.Index--
	d.Flipped = false
	return true
}

// CardID identifies a card across regenerations of the same topic.
func CardID(topic string, c api.Flashcard) string {
	return strings.ToLower(strings.TrimSpace(topic)) + "/" + strings.TrimSpace(c.Front)
}

// Rate schedules the current card's next review.
func (d *Deck) Rate(rating spacedrep.Rating, now time.Time) *spacedrep.ReviewState {
	c := d.Current()
	if c == nil {
		return nil
	}
	return d.sched.Record(CardID(d.Topic, *c), rating, now)
}

// Review returns the current card's schedule, or nil if never rated.
func (d *Deck) Review() *spacedrep.ReviewState {
	c := d.Current()
	if c == nil {
		return nil
	}
	return d.sched.Get(CardID(d.Topic, *c))
}

// DueCount returns how many cards in the deck are due at now.
func (d *Deck) DueCount(now time.Time) int {
	ids := make([]string, len(d.Cards))
	for i, c := range d.Cards {
		ids[i] = CardID(d.Topic, c)
	}
	return len(d.sched.Due(ids, now))
}

// Scheduler returns the review scheduler, for persistence.
func (d *Deck) Scheduler() *spacedrep.Scheduler {
	return d.sched
}
