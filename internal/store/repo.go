package store

import (
	"context"
	"time"

	"github.com/abhisek/studybuddy/internal/api"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // exact purpose match when set
	Before  int    // id < Before when > 0
}

// KVRepo stores small JSON documents under fixed keys.
type KVRepo interface {
	// Get decodes the value stored under key into dst. It reports false
	// when the key is absent.
	Get(ctx context.Context, key string, dst any) (bool, error)

	// Put encodes v as JSON and stores it under key.
	Put(ctx context.Context, key string, v any) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for one purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
	Failures     int
}

// EventRepo records and queries LLM request events.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
	// GetLLMEvent returns nil when no event has the given id.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}

// ProfileRepo stores one profile per user.
type ProfileRepo interface {
	// Get returns nil when the user has no stored profile.
	Get(ctx context.Context, userID string) (*api.UserProfile, error)
	Put(ctx context.Context, userID string, p api.UserProfile) error
}

// SessionRepo stores study sessions.
type SessionRepo interface {
	Save(ctx context.Context, s api.StudySession) error
	// Get returns nil when no session has the given id.
	Get(ctx context.Context, id string) (*api.StudySession, error)
	// ListByUser returns the user's sessions oldest first.
	ListByUser(ctx context.Context, userID string) ([]api.StudySession, error)
}

// PlanRepo stores study plans.
type PlanRepo interface {
	Save(ctx context.Context, p api.StudyPlan) error
	// ListByUser returns the user's plans oldest first.
	ListByUser(ctx context.Context, userID string) ([]api.StudyPlan, error)
	// Delete removes the plan if it belongs to userID and reports whether
	// a row was removed.
	Delete(ctx context.Context, userID, id string) (bool, error)
}

// User is a registered account.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepo stores accounts. Emails are unique.
type UserRepo interface {
	// Create inserts u. It fails with ErrUserExists when the email is taken.
	Create(ctx context.Context, u User) error
	// ByEmail and ByID return nil when no account matches.
	ByEmail(ctx context.Context, email string) (*User, error)
	ByID(ctx context.Context, id string) (*User, error)
}
