package api

import "context"

// Service is everything the client screens need from the study backend.
// The HTTP Client implements it against a remote server; the in-process
// backend implements it directly for offline use.
type Service interface {
	Profile(ctx context.Context) (*UserProfile, error)
	UpdateProfile(ctx context.Context, p UserProfile) (*UserProfile, error)

	Sessions(ctx context.Context) ([]StudySession, error)
	StartSession(ctx context.Context, topic string) (*StudySession, error)
	EndSession(ctx context.Context, id string, confidence int) (*StudySession, error)
	AskSessionQuestion(ctx context.Context, sessionID, question string) (string, error)

	GenerateQuiz(ctx context.Context, req QuizRequest) ([]QuizQuestion, error)
	SubmitQuiz(ctx context.Context, req QuizSubmitRequest) (*QuizSubmission, error)

	Motivation(ctx context.Context) (string, error)
	AskQuestion(ctx context.Context, question string) (string, error)
	GenerateFlashcards(ctx context.Context, req FlashcardRequest) ([]Flashcard, error)

	CreateStudyPlan(ctx context.Context, req PlanRequest) (*StudyPlan, error)
	StudyPlans(ctx context.Context) ([]StudyPlan, error)
	DeleteStudyPlan(ctx context.Context, id string) error

	Progress(ctx context.Context) (*ProgressStats, error)
}

// Defaults shared by the client and the server.
const (
	DefaultBaseURL        = "http://localhost:5000/api"
	DefaultUserID         = "user-123"
	DefaultQuizQuestions  = 5
	DefaultFlashcardCount = 5
	UserIDHeader          = "User-ID"
	AuthorizationHeader   = "Authorization"
	ServerVersion         = "2.0.0"
)
