// Package apitest provides an in-memory api.Service for screen tests.
package apitest

import (
	"context"
	"errors"
	"sync"

	"github.com/abhisek/studybuddy/internal/api"
)

// ErrFake is a generic failure for tests that only need "something broke".
var ErrFake = errors.New("apitest: failure")

// Fake is a scripted api.Service. Each method returns the matching
// fields and records its name in Calls.
type Fake struct {
	mu    sync.Mutex
	Calls []string

	ProfileResult  *api.UserProfile
	SessionsResult []api.StudySession
	SessionsErr    error
	Session        *api.StudySession
	SessionErr     error

	Answer string
	AskErr error

	Questions []api.QuizQuestion
	QuizErr   error
	Submitted []api.QuizSubmitRequest
	Graded    *api.QuizSubmission
	SubmitErr error

	MotivationText string

	Cards    []api.Flashcard
	CardsErr error

	Plans     []api.StudyPlan
	PlanErr   error
	DeleteErr error

	ProgressResult *api.ProgressStats
}

var _ api.Service = (*Fake)(nil)

func (f *Fake) record(name string) {
	f.mu.Lock()
	f.Calls = append(f.Calls, name)
	f.mu.Unlock()
}

// Called reports whether name was called at least once.
func (f *Fake) Called(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Calls {
		if c == name {
			return true
		}
	}
	return false
}

func (f *Fake) Profile(context.Context) (*api.UserProfile, error) {
	f.record("Profile")
	if f.ProfileResult == nil {
		return &api.UserProfile{Name: "Student"}, nil
	}
	return f.ProfileResult, nil
}

func (f *Fake) UpdateProfile(_ context.Context, p api.UserProfile) (*api.UserProfile, error) {
	f.record("UpdateProfile")
	f.ProfileResult = &p
	return &p, nil
}

func (f *Fake) Sessions(context.Context) ([]api.StudySession, error) {
	f.record("Sessions")
	if f.SessionsErr != nil {
		return nil, f.SessionsErr
	}
	return f.SessionsResult, nil
}

func (f *Fake) StartSession(_ context.Context, topic string) (*api.StudySession, error) {
	f.record("StartSession")
	if f.SessionErr != nil {
		return nil, f.SessionErr
	}
	if f.Session != nil {
		return f.Session, nil
	}
	return &api.StudySession{ID: "s1", Topic: topic}, nil
}

func (f *Fake) EndSession(_ context.Context, id string, confidence int) (*api.StudySession, error) {
	f.record("EndSession")
	if f.SessionErr != nil {
		return nil, f.SessionErr
	}
	return &api.StudySession{ID: id, Duration: 1, ConfidenceLevel: confidence}, nil
}

func (f *Fake) AskSessionQuestion(context.Context, string, string) (string, error) {
	f.record("AskSessionQuestion")
	return f.Answer, f.AskErr
}

func (f *Fake) GenerateQuiz(context.Context, api.QuizRequest) ([]api.QuizQuestion, error) {
	f.record("GenerateQuiz")
	return f.Questions, f.QuizErr
}

func (f *Fake) SubmitQuiz(_ context.Context, req api.QuizSubmitRequest) (*api.QuizSubmission, error) {
	f.record("SubmitQuiz")
	f.mu.Lock()
	f.Submitted = append(f.Submitted, req)
	f.mu.Unlock()
	return f.Graded, f.SubmitErr
}

func (f *Fake) Motivation(context.Context) (string, error) {
	f.record("Motivation")
	return f.MotivationText, nil
}

func (f *Fake) AskQuestion(context.Context, string) (string, error) {
	f.record("AskQuestion")
	return f.Answer, f.AskErr
}

func (f *Fake) GenerateFlashcards(context.Context, api.FlashcardRequest) ([]api.Flashcard, error) {
	f.record("GenerateFlashcards")
	return f.Cards, f.CardsErr
}

func (f *Fake) CreateStudyPlan(_ context.Context, req api.PlanRequest) (*api.StudyPlan, error) {
	f.record("CreateStudyPlan")
	if f.PlanErr != nil {
		return nil, f.PlanErr
	}
	p := api.StudyPlan{ID: "plan-1", Topic: req.Topic, DailyHours: req.DailyHours}
	f.Plans = append(f.Plans, p)
	return &p, nil
}

func (f *Fake) StudyPlans(context.Context) ([]api.StudyPlan, error) {
	f.record("StudyPlans")
	return f.Plans, nil
}

func (f *Fake) DeleteStudyPlan(context.Context, string) error {
	f.record("DeleteStudyPlan")
	return f.DeleteErr
}

func (f *Fake) Progress(context.Context) (*api.ProgressStats, error) {
	f.record("Progress")
	if f.ProgressResult == nil {
		return &api.ProgressStats{}, nil
	}
	return f.ProgressResult, nil
}
