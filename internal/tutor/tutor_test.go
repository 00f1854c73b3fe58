package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/llm"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func mockTutor(responses ...llm.MockResponse) (*Tutor, *llm.MockProvider) {
	mock := llm.NewMockProvider(responses...)
	return New(mock, DefaultConfig(), quietLogger()), mock
}

func jsonResponse(t *testing.T, v any) llm.MockResponse {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return llm.MockResponse{Content: b}
}

func TestOffline(t *testing.T) {
	tut := New(nil, DefaultConfig(), quietLogger())
	ctx := context.Background()

	assert.False(t, tut.Online())
	assert.Equal(t, OfflineAnswer("go"), tut.Answer(ctx, "go", "what is a goroutine?"))
	assert.Len(t, tut.Flashcards(ctx, "go", 5), 3)
	assert.Nil(t, tut.WeeklyGoals(ctx, "go", 4))
	assert.Nil(t, tut.Resources(ctx, "go"))

	qs := tut.Quiz(ctx, "python", api.DifficultyEasy, 5)
	require.Len(t, qs, 2)
	assert.Equal(t, "py_easy_1", qs[0].ID)
}

func TestOfflineAnswerText(t *testing.T) {
	assert.Equal(t,
		"I'm currently in offline mode, but that's a great question about chemistry! Try looking it up in the recommended resources.",
		OfflineAnswer("chemistry"))
}

func TestAnswer(t *testing.T) {
	tut, mock := mockTutor(llm.MockResponse{Content: json.RawMessage("A goroutine is a lightweight thread.")})

	got := tut.Answer(context.Background(), "go", "what is a goroutine?")

	assert.Equal(t, "A goroutine is a lightweight thread.", got)
	require.Equal(t, 1, mock.CallCount())
	assert.Nil(t, mock.Calls[0].Schema)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "what is a goroutine?")
}

func TestAnswer_FailureFallsBack(t *testing.T) {
	tut, _ := mockTutor(llm.MockResponse{Err: errors.New("boom")})

	assert.Equal(t, OfflineAnswer("go"), tut.Answer(context.Background(), "go", "q"))
}

func TestQuiz_Generated(t *testing.T) {
	tut, mock := mockTutor(jsonResponse(t, map[string]any{
		"questions": []map[string]any{
			{"id": "a", "question": "2+2?", "options": []string{"3", "4", "5", "6"}, "correct_answer": "4", "explanation": "sum"},
			{"id": "b", "question": "bad", "options": []string{"1", "2", "3", "4"}, "correct_answer": "9", "explanation": "x"},
			{"id": "a", "question": "3+3?", "options": []string{"5", "6", "7", "8"}, "correct_answer": "6", "explanation": "sum"},
		},
	}))

	qs := tut.Quiz(context.Background(), "math", api.DifficultyHard, 5)

	require.Len(t, qs, 2)
	assert.Equal(t, "a", qs[0].ID)
	assert.Equal(t, "q3", qs[1].ID)
	assert.Equal(t, "math", qs[1].Topic)
	assert.Equal(t, api.DifficultyHard, qs[1].Difficulty)
	assert.Equal(t, QuizSchema, mock.Calls[0].Schema)
}

func TestQuiz_TruncatesToRequested(t *testing.T) {
	q := map[string]any{"question": "?", "options": []string{"a", "b", "c", "d"}, "correct_answer": "a", "explanation": ""}
	tut, _ := mockTutor(jsonResponse(t, map[string]any{
		"questions": []map[string]any{
			withID(q, "1"), withID(q, "2"), withID(q, "3"),
		},
	}))

	assert.Len(t, tut.Quiz(context.Background(), "x", api.DifficultyEasy, 2), 2)
}

func withID(q map[string]any, id string) map[string]any {
	out := map[string]any{"id": id}
	for k, v := range q {
		out[k] = v
	}
	return out
}

func TestQuiz_InvalidOutputFallsBackToBank(t *testing.T) {
	tut, _ := mockTutor(llm.MockResponse{Content: json.RawMessage(`{"questions": []}`)})

	qs := tut.Quiz(context.Background(), "React", api.DifficultyEasy, 5)

	require.Len(t, qs, 1)
	assert.Equal(t, "react_easy_1", qs[0].ID)
}

func TestBankQuestions(t *testing.T) {
	assert.Len(t, BankQuestions("python", api.DifficultyEasy, 1), 1)
	assert.Empty(t, BankQuestions("python", api.DifficultyMedium, 0))
	assert.Empty(t, BankQuestions("rust", api.DifficultyEasy, 5))

	qs := BankQuestions("python", api.DifficultyHard, 5)
	require.Len(t, qs, 1)
	qs[0].Options[0] = "changed"
	assert.Equal(t, "O(1)", BankQuestions("python", api.DifficultyHard, 5)[0].Options[0])
}

func TestFlashcards(t *testing.T) {
	tut, mock := mockTutor(jsonResponse(t, map[string]any{
		"cards": []api.Flashcard{{Front: "f1", Back: "b1"}, {Front: "f2", Back: "b2"}},
	}))

	cards := tut.Flashcards(context.Background(), "go", 1)

	assert.Equal(t, []api.Flashcard{{Front: "f1", Back: "b1"}}, cards)
	assert.Equal(t, FlashcardSchema, mock.Calls[0].Schema)
}

func TestFlashcards_FailureFallsBack(t *testing.T) {
	tut, _ := mockTutor(llm.MockResponse{Err: &llm.ErrRateLimit{}})

	cards := tut.Flashcards(context.Background(), "go", 5)

	require.Len(t, cards, 3)
	assert.Equal(t, "What is go?", cards[0].Front)
	assert.Equal(t, "A key concept in go.", cards[0].Back)
}

func TestWeeklyGoals(t *testing.T) {
	tut, _ := mockTutor(jsonResponse(t, map[string]any{
		"weeks": []map[string]any{
			{"week": 1, "theme": "Basics", "goals": []string{"syntax"}},
			{"week": 2, "theme": "Types", "goals": []string{}},
		},
	}))

	goals := tut.WeeklyGoals(context.Background(), "go", 2)

	require.Len(t, goals, 2)
	assert.Equal(t, "Types", goals[1].Theme)
}

func TestResources(t *testing.T) {
	tut, _ := mockTutor(
		jsonResponse(t, map[string]any{"resources": []string{"Tour of Go", "Effective Go"}}),
		llm.MockResponse{Err: errors.New("down")},
	)

	assert.Equal(t, []string{"Tour of Go", "Effective Go"}, tut.Resources(context.Background(), "go"))
	assert.Nil(t, tut.Resources(context.Background(), "go"))
}

func TestMotivation(t *testing.T) {
	tut := New(nil, DefaultConfig(), nil)
	for range 20 {
		assert.Contains(t, Motivations, tut.Motivation())
	}
	assert.Len(t, Motivations, 10)
}
