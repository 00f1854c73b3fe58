package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Difficulty is the requested quiz difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the selectable difficulties in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty maps a user string to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	case "":
		return DifficultyMedium, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
}

// UserProfile describes the learner.
type UserProfile struct {
	LearningStyle   string   `json:"learning_style"`
	PreferredTopics []string `json:"preferred_topics"`
	DifficultyLevel string   `json:"difficulty_level"`
	StudyGoals      []string `json:"study_goals"`
	Name            string   `json:"name"`
}

// StudySession is one timed study block. Duration is in minutes.
type StudySession struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Topic            string    `json:"topic"`
	Duration         int       `json:"duration"`
	MaterialsCovered []string  `json:"materials_covered"`
	QuestionsAsked   int       `json:"questions_asked"`
	ConfidenceLevel  int       `json:"confidence_level"`
	StartTime        Timestamp `json:"start_time"`
	EndTime          Timestamp `json:"end_time"`
}

// Ended reports whether the session has been closed.
func (s StudySession) Ended() bool {
	return !s.EndTime.IsZero()
}

// QuizQuestion is a generated multiple-choice question.
type QuizQuestion struct {
	ID            string     `json:"id"`
	Question      string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correct_answer"`
	Explanation   string     `json:"explanation"`
	Topic         string     `json:"topic,omitempty"`
	Difficulty    Difficulty `json:"difficulty,omitempty"`
}

// Flashcard is a front/back study card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// StudyPlan is a generated multi-week schedule for one topic.
type StudyPlan struct {
	ID                 string      `json:"id"`
	UserID             string      `json:"user_id,omitempty"`
	Topic              string      `json:"topic"`
	TotalHours         int         `json:"total_hours"`
	DailyHours         float64     `json:"daily_hours"`
	WeeklyGoals        WeeklyGoals `json:"weekly_goals"`
	Resources          []string    `json:"resources"`
	AssessmentSchedule []string    `json:"assessment_schedule"`
	Deadline           Timestamp   `json:"deadline"`
	CreatedAt          Timestamp   `json:"created_at"`
}

// ChatMessage is one entry in the chat transcript.
type ChatMessage struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	IsError   bool      `json:"isError,omitempty"`
}

// Sender identifies who wrote a chat message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// QuizRequest are the query parameters of GET /quiz/generate.
type QuizRequest struct {
	Topic        string     `json:"topic" validate:"required"`
	Difficulty   Difficulty `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	NumQuestions int        `json:"numQuestions" validate:"min=1,max=20"`
}

// QuizSubmitRequest is the body of POST /quiz/submit. Answers are keyed by question id.
type QuizSubmitRequest struct {
	Questions []QuizQuestion    `json:"questions" validate:"required,min=1"`
	Answers   map[string]string `json:"answers"`
}

// QuestionResult grades one submitted answer.
type QuestionResult struct {
	QuestionID    string `json:"question_id"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation"`
}

// QuizSubmission is the server-side grading of a quiz run.
type QuizSubmission struct {
	Score          int              `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	Percentage     float64          `json:"percentage"`
	Results        []QuestionResult `json:"results"`
}

// PlanRequest is the body of POST /study-plans. The plan length comes
// from TargetDays or, when that is unset, from Deadline. The daily budget
// comes from DailyHours or, when that is unset, from HoursAvailable
// spread over the plan.
type PlanRequest struct {
	Topic          string     `json:"topic" validate:"required"`
	DailyHours     float64    `json:"daily_hours,omitempty" validate:"omitempty,gt=0,lte=24"`
	TargetDays     int        `json:"target_days,omitempty" validate:"omitempty,gt=0,lte=365"`
	Deadline       *Timestamp `json:"deadline,omitempty"`
	HoursAvailable int        `json:"hours_available,omitempty" validate:"omitempty,gt=0"`
}

// DefaultHoursAvailable is the total budget when a plan request gives
// neither daily_hours nor hours_available.
const DefaultHoursAvailable = 10

// ErrPlanWindow reports a plan request with neither target_days nor a deadline.
var ErrPlanWindow = errors.New("target_days or deadline is required")

// Window resolves the plan length in whole days and its deadline.
func (r PlanRequest) Window(now time.Time) (int, time.Time, error) {
	if r.TargetDays > 0 {
		return r.TargetDays, now.AddDate(0, 0, r.TargetDays), nil
	}
	if r.Deadline == nil || r.Deadline.IsZero() {
		return 0, time.Time{}, ErrPlanWindow
	}
	return int(r.Deadline.Sub(now).Hours() / 24), r.Deadline.Time, nil
}

// Hours resolves the daily and total study hours for a plan over days.
func (r PlanRequest) Hours(days int) (float64, int) {
	span := max(days, 1)
	if r.DailyHours > 0 {
		return r.DailyHours, int(r.DailyHours * float64(span))
	}
	total := r.HoursAvailable
	if total <= 0 {
		total = DefaultHoursAvailable
	}
	return float64(total) / float64(span), total
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Account is the public view of a registered user.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginResponse carries the access token issued by POST /auth/login.
type LoginResponse struct {
	AccessToken string  `json:"access_token"`
	User        Account `json:"user"`
}

// FlashcardRequest is the body of POST /generate-flashcards.
type FlashcardRequest struct {
	Topic string `json:"topic" validate:"required"`
	Count int    `json:"count" validate:"omitempty,min=1,max=50"`
}

// QuestionRequest is the body of POST /ask-question and /sessions/{id}/question.
type QuestionRequest struct {
	Question string `json:"question"`
}

// AnswerResponse carries a tutor answer.
type AnswerResponse struct {
	Message string `json:"message,omitempty"`
	Answer  string `json:"answer"`
}

// SessionRequest is the body of POST /sessions.
type SessionRequest struct {
	Topic string `json:"topic"`
}

// EndSessionRequest is the body of PUT /sessions/{id}/end.
type EndSessionRequest struct {
	ConfidenceLevel *int `json:"confidenceLevel" validate:"omitempty,min=0,max=10"`
}

// MessageResponse is a bare {"message": "..."} body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error body every endpoint returns on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ProgressStats aggregates a user's study sessions.
type ProgressStats struct {
	TotalStudyTime    int            `json:"total_study_time"`
	SessionsCompleted int            `json:"sessions_completed"`
	QuestionsAsked    int            `json:"questions_asked"`
	AverageConfidence float64        `json:"average_confidence"`
	TopicDistribution map[string]int `json:"topic_distribution"`
}

// Health is the GET /health body.
type Health struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp Timestamp `json:"timestamp"`
	Version   string    `json:"version"`
}

// Timestamp is a time that accepts both RFC 3339 and zone-less ISO 8601
// values on decode and encodes the zero time as an empty string.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognized format %q", s)
}
