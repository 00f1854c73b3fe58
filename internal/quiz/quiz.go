// Package quiz implements the timed multiple-choice quiz: setup
// validation, a per-question countdown, streak scoring, the 50/50
// lifeline and the end-of-run debrief.
package quiz

import (
	"errors"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/studybuddy/internal/api"
)

// Phase is the quiz run phase.
type Phase int

const (
	PhaseSetup   Phase = iota // Choosing topic, count and difficulty
	PhasePlaying              // Answering questions
	PhaseResults              // Showing the debrief
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhasePlaying:
		return "playing"
	case PhaseResults:
		return "results"
	default:
		return "unknown"
	}
}

const (
	// QuestionTime is the per-question countdown in seconds.
	QuestionTime = 15

	// WarningTime is the remaining seconds at which the timer turns red.
	WarningTime = 5

	// ReviewDelay is how long an answered question stays on screen.
	ReviewDelay = 2 * time.Second

	MinQuestions     = 1
	MaxQuestions     = 20
	DefaultQuestions = api.DefaultQuizQuestions

	// hiddenByLifeline is how many wrong options 50/50 removes.
	hiddenByLifeline = 2
)

// User-facing messages shown on the setup screen.
const (
	MsgEmptyTopic     = "Please enter a topic"
	MsgQuestionCount  = "Please choose between 1 and 20 questions"
	MsgGenerateFailed = "Failed to generate questions. Please try again."
	MsgConnection     = "Connection error. Please try again."
)

var (
	ErrEmptyTopic      = errors.New("quiz: empty topic")
	ErrQuestionCount   = errors.New("quiz: question count out of range")
	ErrNoQuestions     = errors.New("quiz: no questions generated")
	ErrNotPlaying      = errors.New("quiz: not in playing phase")
	ErrAlreadyAnswered = errors.New("quiz: question already answered")
	ErrLifelineUsed    = errors.New("quiz: lifeline already used")
)

// Message maps a setup or generation error to the text shown to the user.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyTopic):
		return MsgEmptyTopic
	case errors.Is(err, ErrQuestionCount):
		return MsgQuestionCount
	case errors.Is(err, ErrNoQuestions):
		return MsgGenerateFailed
	default:
		return MsgConnection
	}
}

// Validate checks the setup form.
func Validate(topic string, numQuestions int) error {
	if strings.TrimSpace(topic) == "" {
		return ErrEmptyTopic
	}
	if numQuestions < MinQuestions || numQuestions > MaxQuestions {
		return ErrQuestionCount
	}
	return nil
}

// Points is the score for a correct answer given the seconds left on the
// clock and the streak before this answer.
func Points(timeLeft, streak int) int {
	return 100 + (timeLeft/2)*10 + streak*50
}

// AnswerRecord is one entry of the debrief.
type AnswerRecord struct {
	Question   api.QuizQuestion
	UserAnswer string // empty on time-out
	IsCorrect  bool
	IsTimeOut  bool
	Points     int
}

// Game is the state of one quiz run. All methods are meant to be called
// from a single goroutine (the bubbletea update loop).
type Game struct {
	Phase      Phase
	Topic      string
	Difficulty api.Difficulty
	Questions  []api.QuizQuestion

	// Index is the current question.
	Index int

	Score  int
	Streak int

	// TimeLeft is the countdown for the current question, in seconds.
	TimeLeft int

	// Answered locks the current question during the review delay.
	Answered bool

	// Selected is the answer given for the current question.
	Selected string

	// LifelineAvailable is true until 50/50 is used in this run.
	LifelineAvailable bool

	// Hidden holds options removed by 50/50 on the current question.
	Hidden map[string]bool

	Answers []AnswerRecord

	rng *rand.Rand
}

// New returns a game in the setup phase. rng drives the 50/50 choice;
// nil uses a time-seeded source.
func New(rng *rand.Rand) *Game {
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>32))
	}
	return &Game{Phase: PhaseSetup, Difficulty: api.DifficultyMedium, rng: rng}
}

// Start moves from setup to playing with a freshly generated question set.
func (g *Game) Start(topic string, difficulty api.Difficulty, questions []api.QuizQuestion) error {
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	g.Phase = PhasePlaying
	g.Topic = strings.TrimSpace(topic)
	g.Difficulty = difficulty
	g.Questions = questions
	g.Index = 0
	g.Score = 0
	g.Streak = 0
	g.LifelineAvailable = true
	g.Answers = nil
	g.resetTurn()
	return nil
}

func (g *Game) resetTurn() {
	g.TimeLeft = QuestionTime
	g.Answered = false
	g.Selected = ""
	g.Hidden = map[string]bool{}
}

// Current returns the question on screen, or nil outside the playing phase.
func (g *Game) Current() *api.QuizQuestion {
	if g.Phase != PhasePlaying || g.Index >= len(g.Questions) {
		return nil
	}
	return &g.Questions[g.Index]
}

// Tick advances the countdown by one second. When the last second runs
// out the question is submitted as a time-out and Tick reports true.
// Ticks after the question is answered are ignored.
func (g *Game) Tick() bool {
	if g.Phase != PhasePlaying || g.Answered {
		return false
	}
	if g.TimeLeft <= 1 {
		g.TimeLeft = 0
		g.record("", true)
		return true
	}
	g.TimeLeft--
	return false
}

// Answer submits answer for the current question and returns the record.
func (g *Game) Answer(answer string) (AnswerRecord, error) {
	if g.Phase != PhasePlaying {
		return AnswerRecord{}, ErrNotPlaying
	}
	if g.Answered {
		return AnswerRecord{}, ErrAlreadyAnswered
	}
	return g.record(answer, false), nil
}

func (g *Game) record(answer string, timeOut bool) AnswerRecord {
	q := g.Questions[g.Index]
	g.Answered = true
	g.Selected = answer

	rec := AnswerRecord{
		Question:   q,
		UserAnswer: answer,
		IsCorrect:  !timeOut && answer == q.CorrectAnswer,
		IsTimeOut:  timeOut,
	}
	if rec.IsCorrect {
		rec.Points = Points(g.TimeLeft, g.Streak)
		g.Score += rec.Points
		g.Streak++
	} else {
		g.Streak = 0
	}

	g.Answers = append(g.Answers, rec)
	return rec
}

// UseFiftyFifty hides two wrong options of the current question, chosen
// at random. It can be used once per run and only before answering.
func (g *Game) UseFiftyFifty() ([]string, error) {
	if g.Phase != PhasePlaying {
		return nil, ErrNotPlaying
	}
	if !g.LifelineAvailable {
		return nil, ErrLifelineUsed
	}
	if g.Answered {
		return nil, ErrAlreadyAnswered
	}

	q := g.Questions[g.Index]
	var wrong []string
	for _, opt := range q.Options {
		if opt != q.CorrectAnswer {
			wrong = append(wrong, opt)
		}
	}
	g.rng.Shuffle(len(wrong), func(i, j int) { wrong[i], wrong[j] = wrong[j], wrong[i] })
	if len(wrong) > hiddenByLifeline {
		wrong = wrong[:hiddenByLifeline]
	}

	for _, opt := range wrong {
		g.Hidden[opt] = true
	}
	g.LifelineAvailable = false
	return wrong, nil
}

// Advance moves past an answered question after the review delay. It
// reports true when the run has finished and the game is in results.
func (g *Game) Advance() bool {
	if g.Phase != PhasePlaying || !g.Answered {
		return false
	}
	if g.Index+1 < len(g.Questions) {
		g.Index++
		g.resetTurn()
		return false
	}
	g.Phase = PhaseResults
	return true
}

// Reset returns to setup, keeping the last topic and difficulty.
func (g *Game) Reset() {
	g.Phase = PhaseSetup
	g.Questions = nil
	g.Answers = nil
	g.Index = 0
	g.Score = 0
	g.Streak = 0
	g.resetTurn()
}

// Results summarizes a finished run.
type Results struct {
	Topic      string
	Score      int
	Correct    int
	Total      int
	Percentage int
	Answers    []AnswerRecord
}

// Results computes the summary. Percentage is rounded to the nearest
// whole number.
func (g *Game) Results() Results {
	r := Results{
		Topic:   g.Topic,
		Score:   g.Score,
		Total:   len(g.Questions),
		Answers: g.Answers,
	}
	for _, a := range g.Answers {
		if a.IsCorrect {
			r.Correct++
		}
	}
	if r.Total > 0 {
		r.Percentage = int(math.Round(float64(r.Correct) / float64(r.Total) * 100))
	}
	return r
}

// Submission builds the server-side grading request, keyed by question id.
// Questions without an id get their position as key.
func (g *Game) Submission() api.QuizSubmitRequest {
	req := api.QuizSubmitRequest{
		Questions: make([]api.QuizQuestion, len(g.Questions)),
		Answers:   make(map[string]string, len(g.Answers)),
	}
	copy(req.Questions, g.Questions)
	for i := range req.Questions {
		if req.Questions[i].ID == "" {
			req.Questions[i].ID = strconv.Itoa(i + 1)
		}
	}
	for i, a := range g.Answers {
		req.Answers[req.Questions[i].ID] = a.UserAnswer
	}
	return req
}
