package quiz

import (
	"context"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/appstate"
	"github.com/abhisek/studybuddy/internal/leaderboard"
	"github.com/abhisek/studybuddy/internal/logging"
	"github.com/abhisek/studybuddy/internal/quiz"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/layout"
)

// Setup form fields, in tab order.
const (
	fieldTopic = iota
	fieldDifficulty
	fieldCount
	numFields
)

const requestTimeout = 60 * time.Second

// turnSeq hands out turn ids shared by all quiz screens, so timers from a
// closed screen never match a turn of a newer one.
var turnSeq atomic.Uint64

func nextTurn() uint64 {
	return turnSeq.Add(1)
}

// QuizScreen runs a timed quiz: setup form, questions, results.
type QuizScreen struct {
	svc   api.Service
	board *leaderboard.Board
	log   *logrus.Logger
	game  *quiz.Game
	clock func() time.Time

	topic      components.TextInput
	count      components.TextInput
	difficulty int
	focus      int
	loading    bool
	errMsg     string

	choice components.MultiChoice
	last   *quiz.AnswerRecord

	// turn identifies the question on screen so that ticks and review
	// timers from earlier questions or other screens are dropped.
	turn uint64
	// request identifies the pending quiz generation.
	request uint64

	entries     []leaderboard.Entry
	motivation  string
	serverCheck *api.QuizSubmission
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates the quiz screen. The topic is prefilled from the current
// study session. board may be nil to skip the leaderboard.
func New(svc api.Service, state *appstate.Store, board *leaderboard.Board, log *logrus.Logger) *QuizScreen {
	if log == nil {
		log = logging.Discard()
	}
	topic := components.NewTextInput("e.g. python", components.KindText, 80)
	if cur := state.State().CurrentSession; cur != nil {
		topic.SetValue(cur.Topic)
	}
	count := components.NewTextInput("5", components.KindInteger, 2)
	count.SetValue("5")
	count.Blur()

	return &QuizScreen{
		svc:        svc,
		board:      board,
		log:        log,
		game:       quiz.New(nil),
		clock:      time.Now,
		topic:      topic,
		count:      count,
		difficulty: 1,
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return tea.Batch(s.topic.Init(), s.loadLeaderboard())
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch s.game.Phase {
	case quiz.PhasePlaying:
		hints := []layout.KeyHint{
			{Key: "A-D", Description: "Answer"},
			{Key: "↑↓ Enter", Description: "Select"},
		}
		if s.game.LifelineAvailable {
			hints = append(hints, layout.KeyHint{Key: "F", Description: "50/50"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Quit"})
	case quiz.PhaseResults:
		return []layout.KeyHint{
			{Key: "R", Description: "New quiz"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "←→", Description: "Difficulty"},
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

// Game exposes the underlying state machine.
func (s *QuizScreen) Game() *quiz.Game {
	return s.game
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsMsg:
		return s.handleQuestions(msg)

	case tickMsg:
		return s.handleTick(msg)

	case reviewDoneMsg:
		return s.handleReviewDone(msg)

	case leaderboardMsg:
		if msg.Err != nil {
			s.log.WithError(msg.Err).Warn("quiz: leaderboard")
			return s, nil
		}
		s.entries = msg.Entries
		return s, nil

	case motivationMsg:
		s.motivation = msg.Text
		return s, nil

	case gradedMsg:
		if msg.Err != nil {
			s.log.WithError(msg.Err).Warn("quiz: server grading failed")
			return s, nil
		}
		s.serverCheck = msg.Submission
		return s, nil

	case tea.KeyMsg:
		switch s.game.Phase {
		case quiz.PhasePlaying:
			return s.handlePlayingKey(msg)
		case quiz.PhaseResults:
			return s.handleResultsKey(msg)
		default:
			return s.handleSetupKey(msg)
		}
	}

	if s.game.Phase == quiz.PhaseSetup {
		return s.updateFocused(msg)
	}
	return s, nil
}

func (s *QuizScreen) updateFocused(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.focus {
	case fieldTopic:
		s.topic, cmd = s.topic.Update(msg)
	case fieldCount:
		s.count, cmd = s.count.Update(msg)
	}
	return s, cmd
}

func (s *QuizScreen) handleSetupKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.loading {
		return s, nil
	}
	switch msg.String() {
	case "tab", "down":
		return s, s.setFocus((s.focus + 1) % numFields)
	case "shift+tab", "up":
		return s, s.setFocus((s.focus + numFields - 1) % numFields)
	case "left":
		if s.focus == fieldDifficulty {
			s.difficulty = (s.difficulty + len(api.Difficulties) - 1) % len(api.Difficulties)
			return s, nil
		}
	case "right":
		if s.focus == fieldDifficulty {
			s.difficulty = (s.difficulty + 1) % len(api.Difficulties)
			return s, nil
		}
	case "enter":
		return s.startQuiz()
	}
	return s.updateFocused(msg)
}

func (s *QuizScreen) setFocus(field int) tea.Cmd {
	s.focus = field
	s.topic.Blur()
	s.count.Blur()
	switch field {
	case fieldTopic:
		return s.topic.Focus()
	case fieldCount:
		return s.count.Focus()
	}
	return nil
}

func (s *QuizScreen) startQuiz() (screen.Screen, tea.Cmd) {
	n, err := s.count.IntValue()
	if err != nil {
		n = 0
	}
	topic := s.topic.Value()
	if err := quiz.Validate(topic, n); err != nil {
		s.errMsg = quiz.Message(err)
		return s, nil
	}

	s.errMsg = ""
	s.loading = true
	s.request = nextTurn()
	id := s.request
	req := api.QuizRequest{
		Topic:        topic,
		Difficulty:   api.Difficulties[s.difficulty],
		NumQuestions: n,
	}
	svc := s.svc
	return s, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		qs, err := svc.GenerateQuiz(ctx, req)
		return questionsMsg{Request: id, Questions: qs, Err: err}
	}
}

func (s *QuizScreen) handleQuestions(msg questionsMsg) (screen.Screen, tea.Cmd) {
	if !s.loading || msg.Request != s.request {
		return s, nil
	}
	s.loading = false
	if msg.Err != nil {
		s.log.WithError(msg.Err).Warn("quiz: generate failed")
		s.errMsg = quiz.Message(msg.Err)
		return s, nil
	}
	if err := s.game.Start(s.topic.Value(), api.Difficulties[s.difficulty], msg.Questions); err != nil {
		s.errMsg = quiz.Message(err)
		return s, nil
	}
	s.topic.Blur()
	s.count.Blur()
	return s, s.beginTurn()
}

// beginTurn shows the current question and starts its countdown.
func (s *QuizScreen) beginTurn() tea.Cmd {
	s.turn = nextTurn()
	s.last = nil
	s.choice = components.NewMultiChoice(s.game.Current().Options)
	return tickCmd(s.turn)
}

func tickCmd(turn uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{Turn: turn}
	})
}

func reviewCmd(turn uint64) tea.Cmd {
	return tea.Tick(quiz.ReviewDelay, func(time.Time) tea.Msg {
		return reviewDoneMsg{Turn: turn}
	})
}

func (s *QuizScreen) handleTick(msg tickMsg) (screen.Screen, tea.Cmd) {
	if msg.Turn != s.turn || s.game.Phase != quiz.PhasePlaying || s.game.Answered {
		return s, nil
	}
	if s.game.Tick() {
		s.reveal()
		return s, reviewCmd(s.turn)
	}
	return s, tickCmd(s.turn)
}

func (s *QuizScreen) handlePlayingKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.game.Answered {
		return s, nil
	}
	if msg.String() == "f" {
		hidden, err := s.game.UseFiftyFifty()
		if err == nil {
			s.choice.Hide(hidden)
		}
		return s, nil
	}

	var picked string
	s.choice, picked = s.choice.Update(msg)
	if picked == "" {
		return s, nil
	}
	if _, err := s.game.Answer(picked); err != nil {
		return s, nil
	}
	s.reveal()
	return s, reviewCmd(s.turn)
}

// reveal marks the answered question on screen.
func (s *QuizScreen) reveal() {
	rec := s.game.Answers[len(s.game.Answers)-1]
	s.last = &rec
	s.choice.Reveal(rec.Question.CorrectAnswer, rec.UserAnswer)
}

func (s *QuizScreen) handleReviewDone(msg reviewDoneMsg) (screen.Screen, tea.Cmd) {
	if msg.Turn != s.turn || !s.game.Answered {
		return s, nil
	}
	if s.game.Advance() {
		s.turn = nextTurn()
		return s, s.finish()
	}
	return s, s.beginTurn()
}

// finish records the run and fetches the results extras.
func (s *QuizScreen) finish() tea.Cmd {
	res := s.game.Results()
	s.motivation = ""
	s.serverCheck = nil

	svc := s.svc
	sub := s.game.Submission()
	cmds := []tea.Cmd{
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			text, err := svc.Motivation(ctx)
			if err != nil {
				return motivationMsg{}
			}
			return motivationMsg{Text: text}
		},
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			graded, err := svc.SubmitQuiz(ctx, sub)
			return gradedMsg{Submission: graded, Err: err}
		},
	}

	if s.board != nil {
		board := s.board
		entry := leaderboard.Entry{Topic: res.Topic, Score: res.Score, Date: s.clock()}
		cmds = append(cmds, func() tea.Msg {
			entries, err := board.Record(context.Background(), entry)
			return leaderboardMsg{Entries: entries, Err: err}
		})
	}
	return tea.Batch(cmds...)
}

func (s *QuizScreen) loadLeaderboard() tea.Cmd {
	if s.board == nil {
		return nil
	}
	board := s.board
	return func() tea.Msg {
		entries, err := board.Top(context.Background())
		return leaderboardMsg{Entries: entries, Err: err}
	}
}

func (s *QuizScreen) handleResultsKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() != "r" {
		return s, nil
	}
	s.game.Reset()
	s.last = nil
	s.errMsg = ""
	return s, s.setFocus(fieldTopic)
}
