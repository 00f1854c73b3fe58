package backend

import (
	"context"

	"github.com/abhisek/studybuddy/internal/api"
)

// UserService binds a Backend to one user so it satisfies api.Service.
type UserService struct {
	backend *Backend
	userID  string
}

var _ api.Service = (*UserService)(nil)

// ForUser returns the api.Service view of b for userID.
func (b *Backend) ForUser(userID string) *UserService {
	return &UserService{backend: b, userID: userID}
}

func (u *UserService) Profile(ctx context.Context) (*api.UserProfile, error) {
	return u.backend.Profile(ctx, u.userID)
}

func (u *UserService) UpdateProfile(ctx context.Context, p api.UserProfile) (*api.UserProfile, error) {
	return u.backend.UpdateProfile(ctx, u.userID, p)
}

func (u *UserService) Sessions(ctx context.Context) ([]api.StudySession, error) {
	return u.backend.Sessions(ctx, u.userID)
}

func (u *UserService) StartSession(ctx context.Context, topic string) (*api.StudySession, error) {
	return u.backend.StartSession(ctx, u.userID, topic)
}

func (u *UserService) EndSession(ctx context.Context, id string, confidence int) (*api.StudySession, error) {
	return u.backend.EndSession(ctx, u.userID, id, confidence)
}

func (u *UserService) AskSessionQuestion(ctx context.Context, sessionID, question string) (string, error) {
	return u.backend.Ask(ctx, u.userID, sessionID, question)
}

func (u *UserService) GenerateQuiz(ctx context.Context, req api.QuizRequest) ([]api.QuizQuestion, error) {
	return u.backend.GenerateQuiz(ctx, req), nil
}

func (u *UserService) SubmitQuiz(_ context.Context, req api.QuizSubmitRequest) (*api.QuizSubmission, error) {
	return GradeQuiz(req), nil
}

func (u *UserService) Motivation(context.Context) (string, error) {
	return u.backend.Motivation(), nil
}

func (u *UserService) AskQuestion(ctx context.Context, question string) (string, error) {
	return u.backend.Ask(ctx, u.userID, GlobalChatSession, question)
}

func (u *UserService) GenerateFlashcards(ctx context.Context, req api.FlashcardRequest) ([]api.Flashcard, error) {
	return u.backend.GenerateFlashcards(ctx, req), nil
}

func (u *UserService) CreateStudyPlan(ctx context.Context, req api.PlanRequest) (*api.StudyPlan, error) {
	return u.backend.CreateStudyPlan(ctx, u.userID, req)
}

func (u *UserService) StudyPlans(ctx context.Context) ([]api.StudyPlan, error) {
	return u.backend.StudyPlans(ctx, u.userID)
}

func (u *UserService) DeleteStudyPlan(ctx context.Context, id string) error {
	return u.backend.DeleteStudyPlan(ctx, u.userID, id)
}

func (u *UserService) Progress(ctx context.Context) (*api.ProgressStats, error) {
	return u.backend.Progress(ctx, u.userID)
}
