package appstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studybuddy/internal/api"
)

func ended(topic string, minutes, questions, confidence int) api.StudySession {
	start := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	return api.StudySession{
		ID:              topic,
		Topic:           topic,
		Duration:        minutes,
		QuestionsAsked:  questions,
		ConfidenceLevel: confidence,
		StartTime:       api.NewTimestamp(start),
		EndTime:         api.NewTimestamp(start.Add(time.Duration(minutes) * time.Minute)),
	}
}

func TestInitial(t *testing.T) {
	s := Initial()
	assert.Equal(t, "visual", s.Profile.LearningStyle)
	assert.Equal(t, []string{"python", "javascript"}, s.Profile.PreferredTopics)
	assert.Equal(t, "intermediate", s.Profile.DifficultyLevel)
	assert.Equal(t, "Student", s.Profile.Name)
	assert.Len(t, s.Profile.StudyGoals, 2)
	assert.Nil(t, s.CurrentSession)
}

func TestStartSession(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	s := Reduce(Initial(), StartSession{Topic: "algebra", Now: now})

	require.NotNil(t, s.CurrentSession)
	assert.Equal(t, "algebra", s.CurrentSession.Topic)
	assert.NotEmpty(t, s.CurrentSession.ID)
	assert.Zero(t, s.CurrentSession.QuestionsAsked)
	assert.True(t, s.CurrentSession.StartTime.Equal(now))

	remote := &api.StudySession{ID: "srv-1", Topic: "algebra"}
	s = Reduce(Initial(), StartSession{Topic: "algebra", Session: remote})
	assert.Equal(t, "srv-1", s.CurrentSession.ID)
}

func TestEndSession_RunningAverage(t *testing.T) {
	s := Reduce(Initial(), StartSession{Topic: "a"})
	s = Reduce(s, EndSession{Session: ended("a", 45, 3, 7)})
	s = Reduce(s, EndSession{Session: ended("b", 30, 2, 4)})
	s = Reduce(s, EndSession{Session: ended("c", 15, 0, 10)})

	assert.Nil(t, s.CurrentSession)
	assert.Len(t, s.Sessions, 3)
	assert.Equal(t, Progress{
		TotalStudyTime:    90,
		SessionsCompleted: 3,
		QuestionsAsked:    5,
		AverageConfidence: 7,
	}, s.Progress)
}

func TestSetSessions_RecomputesProgress(t *testing.T) {
	open := api.StudySession{ID: "open", Topic: "x", Duration: 99}
	s := Reduce(Initial(), SetSessions{Sessions: []api.StudySession{
		ended("a", 20, 1, 6), open, ended("b", 40, 3, 8),
	}})

	assert.Len(t, s.Sessions, 3)
	assert.Equal(t, 60, s.Progress.TotalStudyTime)
	assert.Equal(t, 2, s.Progress.SessionsCompleted)
	assert.Equal(t, 4, s.Progress.QuestionsAsked)
	assert.InDelta(t, 7.0, s.Progress.AverageConfidence, 1e-9)

	assert.Equal(t, Progress{}, ProgressOf(nil))
}

func TestStudyPlans(t *testing.T) {
	s := Reduce(Initial(), SetStudyPlans{Plans: []api.StudyPlan{{ID: "1", Topic: "python"}}})
	s = Reduce(s, AddStudyPlan{Plan: api.StudyPlan{ID: "2", Topic: "react"}})
	require.Len(t, s.StudyPlans, 2)

	before := s
	s = Reduce(s, DeleteStudyPlan{ID: "1"})
	require.Len(t, s.StudyPlans, 1)
	assert.Equal(t, "2", s.StudyPlans[0].ID)
	assert.Len(t, before.StudyPlans, 2, "earlier snapshots are not modified")
	assert.Equal(t, "1", before.StudyPlans[0].ID)

	s = Reduce(s, DeleteStudyPlan{ID: "missing"})
	assert.Len(t, s.StudyPlans, 1)
}

func TestReduce_DoesNotAliasAppends(t *testing.T) {
	base := Reduce(Initial(), SetStudyPlans{Plans: make([]api.StudyPlan, 0, 4)})
	a := Reduce(base, AddStudyPlan{Plan: api.StudyPlan{ID: "a"}})
	b := Reduce(base, AddStudyPlan{Plan: api.StudyPlan{ID: "b"}})
	assert.Equal(t, "a", a.StudyPlans[0].ID)
	assert.Equal(t, "b", b.StudyPlans[0].ID)
}

func TestStore(t *testing.T) {
	st := NewStore()
	st.Dispatch(SetProfile{Profile: api.UserProfile{Name: "Ada"}})
	got := st.Dispatch(AddStudyPlan{Plan: api.StudyPlan{ID: "p"}})

	assert.Equal(t, "Ada", got.Profile.Name)
	assert.Equal(t, got, st.State())
}
