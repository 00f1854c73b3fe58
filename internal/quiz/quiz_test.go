package quiz

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studybuddy/internal/api"
)

func sampleQuestions(n int) []api.QuizQuestion {
	qs := make([]api.QuizQuestion, n)
	for i := range qs {
		qs[i] = api.QuizQuestion{
			ID:            string(rune('a' + i)),
			Question:      "Which keyword defines a function in Python?",
			Options:       []string{"def", "func", "function", "lambda"},
			CorrectAnswer: "def",
			Explanation:   "Functions are defined with def.",
		}
	}
	return qs
}

func newGame(t *testing.T, n int) *Game {
	t.Helper()
	g := New(rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, g.Start("python", api.DifficultyMedium, sampleQuestions(n)))
	return g
}

func tickN(g *Game, n int) {
	for range n {
		g.Tick()
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		topic string
		n     int
		want  error
	}{
		{"python", 5, nil},
		{"python", 1, nil},
		{"python", 20, nil},
		{"   ", 5, ErrEmptyTopic},
		{"", 5, ErrEmptyTopic},
		{"python", 0, ErrQuestionCount},
		{"python", 21, ErrQuestionCount},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, Validate(tt.topic, tt.n), tt.want, "Validate(%q, %d)", tt.topic, tt.n)
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Please enter a topic", Message(ErrEmptyTopic))
	assert.Equal(t, "Please choose between 1 and 20 questions", Message(ErrQuestionCount))
	assert.Equal(t, "Failed to generate questions. Please try again.", Message(ErrNoQuestions))
	assert.Equal(t, "Connection error. Please try again.", Message(assert.AnError))
	assert.Empty(t, Message(nil))
}

func TestPoints(t *testing.T) {
	for tl := 0; tl <= QuestionTime; tl++ {
		for s := 0; s < 10; s++ {
			assert.Equal(t, 100+(tl/2)*10+s*50, Points(tl, s))
		}
	}
	assert.Equal(t, 150, Points(10, 0))
	assert.Equal(t, 170, Points(15, 0))
}

func TestStart(t *testing.T) {
	g := New(nil)
	assert.Equal(t, PhaseSetup, g.Phase)
	assert.ErrorIs(t, g.Start("python", api.DifficultyEasy, nil), ErrNoQuestions)
	assert.Equal(t, PhaseSetup, g.Phase)

	require.NoError(t, g.Start("  python ", api.DifficultyEasy, sampleQuestions(3)))
	assert.Equal(t, PhasePlaying, g.Phase)
	assert.Equal(t, "python", g.Topic)
	assert.Equal(t, QuestionTime, g.TimeLeft)
	assert.True(t, g.LifelineAvailable)
	assert.Zero(t, g.Score)
	assert.Zero(t, g.Streak)
	assert.Empty(t, g.Answers)
}

func TestAllCorrectAtTen(t *testing.T) {
	g := newGame(t, 5)

	want := []int{150, 200, 250, 300, 350}
	for i, pts := range want {
		tickN(g, QuestionTime-10)
		require.Equal(t, 10, g.TimeLeft)

		rec, err := g.Answer("def")
		require.NoError(t, err)
		assert.True(t, rec.IsCorrect)
		assert.Equal(t, pts, rec.Points, "question %d", i+1)

		finished := g.Advance()
		assert.Equal(t, i == len(want)-1, finished)
	}

	assert.Equal(t, 1250, g.Score)
	assert.Equal(t, PhaseResults, g.Phase)

	res := g.Results()
	assert.Equal(t, 5, res.Correct)
	assert.Equal(t, 100, res.Percentage)
	assert.Equal(t, 1250, res.Score)
}

func TestWrongAnswerResetsStreak(t *testing.T) {
	g := newGame(t, 4)

	g.Answer("def")
	g.Advance()
	g.Answer("def")
	g.Advance()
	require.Equal(t, 2, g.Streak)
	before := g.Score

	rec, err := g.Answer("func")
	require.NoError(t, err)
	assert.False(t, rec.IsCorrect)
	assert.Zero(t, rec.Points)
	assert.Equal(t, before, g.Score)
	assert.Zero(t, g.Streak)

	g.Advance()
	rec, _ = g.Answer("def")
	assert.Equal(t, Points(QuestionTime, 0), rec.Points)
}

func TestTimeOut(t *testing.T) {
	g := newGame(t, 2)
	g.Answer("def")
	g.Advance()
	require.Equal(t, 1, g.Streak)

	for i := 0; i < QuestionTime-1; i++ {
		assert.False(t, g.Tick())
	}
	assert.Equal(t, 1, g.TimeLeft)
	assert.True(t, g.Tick(), "last second should time out")
	assert.Zero(t, g.TimeLeft)
	assert.True(t, g.Answered)
	assert.Zero(t, g.Streak)

	last := g.Answers[len(g.Answers)-1]
	assert.True(t, last.IsTimeOut)
	assert.False(t, last.IsCorrect)
	assert.Empty(t, last.UserAnswer)

	// Further ticks during the review delay do nothing.
	assert.False(t, g.Tick())
	assert.Len(t, g.Answers, 2)
}

func TestAnswerTwice(t *testing.T) {
	g := newGame(t, 1)
	_, err := g.Answer("def")
	require.NoError(t, err)
	_, err = g.Answer("func")
	assert.ErrorIs(t, err, ErrAlreadyAnswered)
	assert.Len(t, g.Answers, 1)
}

func TestAnswerOutsidePlaying(t *testing.T) {
	g := New(nil)
	_, err := g.Answer("def")
	assert.ErrorIs(t, err, ErrNotPlaying)
	assert.False(t, g.Tick())
	assert.False(t, g.Advance())
}

func TestAdvanceRequiresAnswer(t *testing.T) {
	g := newGame(t, 2)
	assert.False(t, g.Advance())
	assert.Equal(t, 0, g.Index)
}

func TestFiftyFifty(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		g := New(rand.New(rand.NewPCG(seed, seed+1)))
		require.NoError(t, g.Start("python", api.DifficultyEasy, sampleQuestions(2)))

		hidden, err := g.UseFiftyFifty()
		require.NoError(t, err)
		assert.Len(t, hidden, 2)
		assert.NotContains(t, hidden, "def")
		assert.Len(t, g.Hidden, 2)
		assert.False(t, g.Hidden["def"])

		_, err = g.UseFiftyFifty()
		assert.ErrorIs(t, err, ErrLifelineUsed)

		// The lifeline stays spent on later questions.
		g.Answer("def")
		g.Advance()
		assert.Empty(t, g.Hidden)
		_, err = g.UseFiftyFifty()
		assert.ErrorIs(t, err, ErrLifelineUsed)
	}
}

func TestFiftyFiftyAfterAnswer(t *testing.T) {
	g := newGame(t, 2)
	g.Answer("func")

	_, err := g.UseFiftyFifty()
	assert.ErrorIs(t, err, ErrAlreadyAnswered)
	assert.True(t, g.LifelineAvailable)
}

func TestFiftyFiftyFewOptions(t *testing.T) {
	g := New(nil)
	require.NoError(t, g.Start("logic", api.DifficultyEasy, []api.QuizQuestion{{
		Question: "True or false?", Options: []string{"True", "False"}, CorrectAnswer: "True",
	}}))

	hidden, err := g.UseFiftyFifty()
	require.NoError(t, err)
	assert.Equal(t, []string{"False"}, hidden)
	assert.Equal(t, map[string]bool{"False": true}, g.Hidden)
}

func TestResultsPercentageRounds(t *testing.T) {
	g := newGame(t, 3)
	g.Answer("def")
	g.Advance()
	g.Answer("def")
	g.Advance()
	g.Answer("nope")
	g.Advance()

	res := g.Results()
	assert.Equal(t, 2, res.Correct)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 67, res.Percentage)
	assert.Len(t, res.Answers, 3)
}

func TestSubmission(t *testing.T) {
	qs := sampleQuestions(2)
	qs[1].ID = ""
	g := New(nil)
	require.NoError(t, g.Start("python", api.DifficultyEasy, qs))
	g.Answer("def")
	g.Advance()
	g.Tick()
	tickN(g, QuestionTime)
	g.Advance()

	req := g.Submission()
	assert.Len(t, req.Questions, 2)
	assert.Equal(t, "2", req.Questions[1].ID)
	assert.Equal(t, map[string]string{"a": "def", "2": ""}, req.Answers)
	assert.Empty(t, g.Questions[1].ID, "game questions are not mutated")
}

func TestReset(t *testing.T) {
	g := newGame(t, 1)
	g.Answer("def")
	g.Advance()
	g.Reset()

	assert.Equal(t, PhaseSetup, g.Phase)
	assert.Equal(t, "python", g.Topic)
	assert.Nil(t, g.Current())
}
