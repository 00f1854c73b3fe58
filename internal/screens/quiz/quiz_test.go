package quiz

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/api/apitest"
	"github.com/abhisek/studybuddy/internal/appstate"
	"github.com/abhisek/studybuddy/internal/leaderboard"
	"github.com/abhisek/studybuddy/internal/quiz"
	"github.com/abhisek/studybuddy/internal/store"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func questions(n int) []api.QuizQuestion {
	qs := make([]api.QuizQuestion, n)
	for i := range qs {
		qs[i] = api.QuizQuestion{
			ID:            string(rune('a' + i)),
			Question:      "Question?",
			Options:       []string{"right", "wrong1", "wrong2", "wrong3"},
			CorrectAnswer: "right",
			Explanation:   "Because.",
		}
	}
	return qs
}

func newScreen(t *testing.T, svc *apitest.Fake) (*QuizScreen, *leaderboard.Board) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "quiz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	board := leaderboard.New(st.KV())
	s := New(svc, appstate.NewStore(), board, nil)
	s.clock = func() time.Time { return time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC) }
	return s, board
}

func typeText(s *QuizScreen, text string) {
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

// start fills the topic, presses enter and delivers the generated questions.
func start(t *testing.T, s *QuizScreen, topic string) {
	t.Helper()
	typeText(s, topic)
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.True(t, s.loading)
	s.Update(cmd())
}

// run executes cmd and every command of a batch, returning the messages.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestSetup_Validation(t *testing.T) {
	s, _ := newScreen(t, &apitest.Fake{})

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Equal(t, quiz.MsgEmptyTopic, s.errMsg)

	typeText(s, "python")
	s.Update(specialKey(tea.KeyTab))
	s.Update(specialKey(tea.KeyTab))
	assert.Equal(t, fieldCount, s.focus)
	s.Update(specialKey(tea.KeyBackspace))
	typeText(s, "0")

	_, cmd = s.Update(specialKey(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Equal(t, quiz.MsgQuestionCount, s.errMsg)
	assert.Contains(t, s.View(100, 30), quiz.MsgQuestionCount)
}

func TestSetup_DifficultyCycles(t *testing.T) {
	s, _ := newScreen(t, &apitest.Fake{})
	assert.Equal(t, api.DifficultyMedium, api.Difficulties[s.difficulty])

	s.Update(specialKey(tea.KeyTab))
	s.Update(specialKey(tea.KeyRight))
	assert.Equal(t, api.DifficultyHard, api.Difficulties[s.difficulty])
	s.Update(specialKey(tea.KeyRight))
	assert.Equal(t, api.DifficultyEasy, api.Difficulties[s.difficulty])
	s.Update(specialKey(tea.KeyLeft))
	assert.Equal(t, api.DifficultyHard, api.Difficulties[s.difficulty])
}

func TestSetup_GenerationErrors(t *testing.T) {
	s, _ := newScreen(t, &apitest.Fake{QuizErr: apitest.ErrFake})
	start(t, s, "python")
	assert.Equal(t, quiz.MsgConnection, s.errMsg)
	assert.Equal(t, quiz.PhaseSetup, s.game.Phase)
	assert.False(t, s.loading)

	s2, _ := newScreen(t, &apitest.Fake{Questions: nil})
	start(t, s2, "python")
	assert.Equal(t, quiz.MsgGenerateFailed, s2.errMsg)
}

func TestPlay_CorrectAnswersAndResults(t *testing.T) {
	svc := &apitest.Fake{
		Questions:      questions(2),
		MotivationText: "Keep going!",
		Graded:         &api.QuizSubmission{Score: 2, TotalQuestions: 2},
	}
	s, board := newScreen(t, svc)
	start(t, s, "python")
	require.Equal(t, quiz.PhasePlaying, s.game.Phase)

	// Two seconds pass, then answer A.
	s.Update(tickMsg{Turn: s.turn})
	s.Update(tickMsg{Turn: s.turn})
	assert.Equal(t, 13, s.game.TimeLeft)

	_, cmd := s.Update(keyPress('a'))
	assert.NotNil(t, cmd)
	assert.True(t, s.game.Answered)
	assert.Equal(t, quiz.Points(13, 0), s.game.Score)
	assert.Contains(t, s.View(100, 30), "Correct!")

	// Ticks during review are ignored.
	s.Update(tickMsg{Turn: s.turn})
	assert.Equal(t, 13, s.game.TimeLeft)

	s.Update(reviewDoneMsg{Turn: s.turn})
	assert.Equal(t, 1, s.game.Index)
	assert.Equal(t, quiz.QuestionTime, s.game.TimeLeft)

	s.Update(specialKey(tea.KeyEnter))
	_, cmd = s.Update(reviewDoneMsg{Turn: s.turn})
	require.Equal(t, quiz.PhaseResults, s.game.Phase)

	for _, msg := range run(cmd) {
		s.Update(msg)
	}
	assert.True(t, svc.Called("SubmitQuiz"))
	require.Len(t, svc.Submitted, 1)
	assert.Equal(t, "right", svc.Submitted[0].Answers["b"])

	want := quiz.Points(13, 0) + quiz.Points(15, 1)
	view := s.View(100, 40)
	assert.Contains(t, view, "Quiz Complete!")
	assert.Contains(t, view, "Correct 2/2")
	assert.Contains(t, view, "Keep going!")
	assert.Contains(t, view, "Server check: 2/2")

	entries, err := board.Top(t.Context())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, want, entries[0].Score)
	assert.Equal(t, "python", entries[0].Topic)
}

func TestPlay_TimeOut(t *testing.T) {
	s, _ := newScreen(t, &apitest.Fake{Questions: questions(1)})
	start(t, s, "python")

	var cmd tea.Cmd
	for range quiz.QuestionTime {
		_, cmd = s.Update(tickMsg{Turn: s.turn})
	}
	assert.NotNil(t, cmd)
	assert.True(t, s.game.Answered)
	require.NotNil(t, s.last)
	assert.True(t, s.last.IsTimeOut)
	assert.Contains(t, s.View(100, 30), "Time's up!")

	// Keys are locked while reviewing.
	s.Update(keyPress('a'))
	assert.Len(t, s.game.Answers, 1)
}

func TestPlay_StaleTimersDropped(t *testing.T) {
	s, _ := newScreen(t, &apitest.Fake{Questions: questions(2)})
	start(t, s, "python")
	first := s.turn

	s.Update(keyPress('b'))
	s.Update(reviewDoneMsg{Turn: first})
	require.Equal(t, 1, s.game.Index)

	s.Update(tickMsg{Turn: first})
	assert.Equal(t, quiz.QuestionTime, s.game.TimeLeft)
	s.Update(reviewDoneMsg{Turn: first})
	assert.Equal(t, 1, s.game.Index)
}

func TestPlay_TimersFromClosedScreenDropped(t *testing.T) {
	old, _ := newScreen(t, &apitest.Fake{Questions: questions(2)})
	start(t, old, "python")
	oldTurn := old.turn

	fresh, _ := newScreen(t, &apitest.Fake{Questions: questions(2)})
	start(t, fresh, "go")
	require.NotEqual(t, oldTurn, fresh.turn)

	_, cmd := fresh.Update(tickMsg{Turn: oldTurn})
	assert.Nil(t, cmd, "no second countdown chain")
	assert.Equal(t, quiz.QuestionTime, fresh.game.TimeLeft)

	fresh.Update(keyPress('a'))
	fresh.Update(reviewDoneMsg{Turn: oldTurn})
	assert.Equal(t, 0, fresh.game.Index)
}

func TestQuestionsFromClosedScreenDropped(t *testing.T) {
	old, _ := newScreen(t, &apitest.Fake{Questions: questions(2)})
	typeText(old, "python")
	_, pending := old.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, pending)

	fresh, _ := newScreen(t, &apitest.Fake{Questions: questions(3)})
	typeText(fresh, "go")
	_, own := fresh.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, own)

	fresh.Update(pending())
	assert.Equal(t, quiz.PhaseSetup, fresh.game.Phase)
	assert.True(t, fresh.loading)

	fresh.Update(own())
	assert.Equal(t, quiz.PhasePlaying, fresh.game.Phase)
	assert.Len(t, fresh.game.Questions, 3)
}

func TestPlay_FiftyFifty(t *testing.T) {
	s, _ := newScreen(t, &apitest.Fake{Questions: questions(2)})
	start(t, s, "python")

	s.Update(keyPress('f'))
	visible := s.choice.Visible()
	assert.Len(t, visible, 2)
	assert.Contains(t, visible, "right")
	assert.False(t, s.game.LifelineAvailable)
	assert.NotContains(t, s.View(100, 30), "50/50 lifeline available")

	s.Update(keyPress('f'))
	assert.Len(t, s.choice.Visible(), 2)
}

func TestPlay_StreakBadgeAndWarning(t *testing.T) {
	s, _ := newScreen(t, &apitest.Fake{Questions: questions(3)})
	start(t, s, "python")

	for range 2 {
		s.Update(keyPress('a'))
		s.Update(reviewDoneMsg{Turn: s.turn})
	}
	assert.Equal(t, 2, s.game.Streak)

	for range quiz.QuestionTime - quiz.WarningTime {
		s.Update(tickMsg{Turn: s.turn})
	}
	view := s.View(100, 30)
	assert.Contains(t, view, "2 streak")
	assert.Contains(t, view, "5s")
}

func TestResults_RestartKeepsTopic(t *testing.T) {
	s, _ := newScreen(t, &apitest.Fake{Questions: questions(1)})
	start(t, s, "biology")
	s.Update(keyPress('c'))
	s.Update(reviewDoneMsg{Turn: s.turn})
	require.Equal(t, quiz.PhaseResults, s.game.Phase)
	assert.True(t, strings.Contains(s.View(100, 40), "Correct 0/1"))

	s.Update(keyPress('r'))
	assert.Equal(t, quiz.PhaseSetup, s.game.Phase)
	assert.Equal(t, "biology", s.topic.Value())
	assert.Equal(t, fieldTopic, s.focus)
}
