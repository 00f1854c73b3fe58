package flashcards

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/flashcards"
	"github.com/abhisek/studybuddy/internal/logging"
	"github.com/abhisek/studybuddy/internal/notify"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/spacedrep"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/layout"
)

const requestTimeout = 60 * time.Second

type cardsMsg struct {
	Topic string
	Cards []api.Flashcard
	Err   error
}

type savedMsg struct {
	Err error
}

// FlashcardScreen generates a deck for a topic and walks through it.
type FlashcardScreen struct {
	svc   api.Service
	kv    store.KVRepo
	log   *logrus.Logger
	clock func() time.Time

	deck     *flashcards.Deck
	input    components.TextInput
	browsing bool
	loading  bool
	errMsg   string

	// saving is set while a snapshot write is in flight; dirty asks for
	// another write once it lands.
	saving bool
	dirty  bool
}

var _ screen.Screen = (*FlashcardScreen)(nil)
var _ screen.KeyHintProvider = (*FlashcardScreen)(nil)

// New creates the flashcard screen. Ratings go to sched and are saved
// to kv when it is non-nil.
func New(svc api.Service, kv store.KVRepo, sched *spacedrep.Scheduler, log *logrus.Logger) *FlashcardScreen {
	if log == nil {
		log = logging.Discard()
	}
	return &FlashcardScreen{
		svc:   svc,
		kv:    kv,
		log:   log,
		clock: time.Now,
		deck:  flashcards.NewDeck(sched),
		input: components.NewTextInput("Enter a topic, e.g. photosynthesis", components.KindText, 80),
	}
}

func (s *FlashcardScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *FlashcardScreen) Title() string {
	return "Flashcards"
}

func (s *FlashcardScreen) KeyHints() []layout.KeyHint {
	if !s.browsing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Generate"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Space", Description: "Flip"},
		{Key: "←→", Description: "Prev/Next"},
		{Key: "1/2/3", Description: "Easy/Medium/Hard"},
		{Key: "T", Description: "New topic"},
		{Key: "Esc", Description: "Back"},
	}
}

// Deck exposes the loaded deck.
func (s *FlashcardScreen) Deck() *flashcards.Deck {
	return s.deck
}

func (s *FlashcardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case cardsMsg:
		return s.handleCards(msg)

	case savedMsg:
		s.saving = false
		if msg.Err != nil {
			s.log.WithError(msg.Err).Warn("flashcards: save review state")
		}
		if s.dirty {
			s.dirty = false
			return s, s.save()
		}
		return s, nil

	case tea.KeyMsg:
		if s.browsing {
			return s.handleBrowseKey(msg)
		}
		if msg.String() == "enter" {
			return s.generate()
		}
	}

	if s.browsing || s.loading {
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *FlashcardScreen) generate() (screen.Screen, tea.Cmd) {
	topic := s.input.Value()
	if topic == "" || s.loading {
		return s, nil
	}
	s.loading = true
	s.errMsg = ""

	svc := s.svc
	return s, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		cards, err := svc.GenerateFlashcards(ctx, api.FlashcardRequest{
			Topic: topic,
			Count: api.DefaultFlashcardCount,
		})
		return cardsMsg{Topic: topic, Cards: cards, Err: err}
	}
}

func (s *FlashcardScreen) handleCards(msg cardsMsg) (screen.Screen, tea.Cmd) {
	s.loading = false
	if msg.Err != nil {
		s.log.WithError(msg.Err).Warn("flashcards: generate failed")
		s.errMsg = flashcards.Message(msg.Err)
		return s, nil
	}
	if err := s.deck.Load(msg.Topic, msg.Cards); err != nil {
		s.errMsg = flashcards.Message(err)
		return s, nil
	}
	s.browsing = true
	s.input.Blur()
	return s, nil
}

var ratingKeys = map[string]spacedrep.Rating{
	"1": spacedrep.RatingEasy,
	"2": spacedrep.RatingMedium,
	"3": spacedrep.RatingHard,
}

func (s *FlashcardScreen) handleBrowseKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	switch key {
	case "space", "enter", "f":
		s.deck.Flip()
	case "right", "l", "n":
		s.deck.Next()
	case "left", "h", "p":
		s.deck.Prev()
	case "t":
		s.browsing = false
		s.input.Reset()
		return s, s.input.Focus()
	default:
		if rating, ok := ratingKeys[key]; ok {
			return s, s.rate(rating)
		}
	}
	return s, nil
}

// rate schedules the current card, saves the schedule and moves on.
func (s *FlashcardScreen) rate(rating spacedrep.Rating) tea.Cmd {
	now := s.clock()
	rs := s.deck.Rate(rating, now)
	if rs == nil {
		return nil
	}
	s.deck.Next()

	days := rs.DaysUntilReview(now)
	note := screen.Notify("Card rated "+string(rating),
		fmt.Sprintf("Next review in %d day%s", days, plural(days)), notify.KindSuccess)

	return tea.Batch(note, s.save())
}

// save writes a copy of the schedule. Only one write runs at a time so
// an older snapshot can never land after a newer one.
func (s *FlashcardScreen) save() tea.Cmd {
	if s.kv == nil {
		return nil
	}
	if s.saving {
		s.dirty = true
		return nil
	}
	s.saving = true
	snap := spacedrep.NewScheduler(s.deck.Scheduler().SnapshotData())
	kv := s.kv
	return func() tea.Msg {
		return savedMsg{Err: snap.Save(context.Background(), kv)}
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
