// Package appstate is the client-side global store: the learner profile,
// study-session history and cached study plans, updated only through
// actions.
package appstate

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/studybuddy/internal/api"
)

// Progress aggregates finished study sessions.
type Progress struct {
	TotalStudyTime    int // minutes
	SessionsCompleted int
	QuestionsAsked    int
	AverageConfidence float64
}

// State is an immutable snapshot of the store.
type State struct {
	Profile        api.UserProfile
	Sessions       []api.StudySession
	CurrentSession *api.StudySession
	Progress       Progress
	StudyPlans     []api.StudyPlan
}

// DefaultProfile is the profile used before the backend has answered.
func DefaultProfile() api.UserProfile {
	return api.UserProfile{
		LearningStyle:   "visual",
		PreferredTopics: []string{"python", "javascript"},
		DifficultyLevel: "intermediate",
		StudyGoals:      []string{"Master Python programming", "Learn web development"},
		Name:            "Student",
	}
}

// Initial returns the starting state.
func Initial() State {
	return State{Profile: DefaultProfile()}
}

// Action is a state transition request.
type Action interface {
	isAction()
}

// StartSession opens a new local session for Topic. Session, when set,
// is the backend's record and is used instead of a generated one.
type StartSession struct {
	Topic   string
	Session *api.StudySession
	Now     time.Time
}

// EndSession closes the current session and folds it into progress.
type EndSession struct {
	Session api.StudySession
}

type SetProfile struct {
	Profile api.UserProfile
}

// SetSessions replaces the history and recomputes progress from it.
type SetSessions struct {
	Sessions []api.StudySession
}

type SetStudyPlans struct {
	Plans []api.StudyPlan
}

type AddStudyPlan struct {
	Plan api.StudyPlan
}

type DeleteStudyPlan struct {
	ID string
}

func (StartSession) isAction()    {}
func (EndSession) isAction()      {}
func (SetProfile) isAction()      {}
func (SetSessions) isAction()     {}
func (SetStudyPlans) isAction()   {}
func (AddStudyPlan) isAction()    {}
func (DeleteStudyPlan) isAction() {}

// Reduce applies a to s and returns the new state. s is not modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case StartSession:
		sess := a.Session
		if sess == nil {
			now := a.Now
			if now.IsZero() {
				now = time.Now()
			}
			sess = &api.StudySession{
				ID:               uuid.NewString(),
				Topic:            a.Topic,
				StartTime:        api.NewTimestamp(now),
				MaterialsCovered: []string{},
			}
		}
		cp := *sess
		s.CurrentSession = &cp

	case EndSession:
		p := s.Progress
		n := float64(p.SessionsCompleted)
		s.Progress = Progress{
			TotalStudyTime:    p.TotalStudyTime + a.Session.Duration,
			SessionsCompleted: p.SessionsCompleted + 1,
			QuestionsAsked:    p.QuestionsAsked + a.Session.QuestionsAsked,
			AverageConfidence: (p.AverageConfidence*n + float64(a.Session.ConfidenceLevel)) / (n + 1),
		}
		s.Sessions = append(slices.Clip(s.Sessions), a.Session)
		s.CurrentSession = nil

	case SetProfile:
		s.Profile = a.Profile

	case SetSessions:
		s.Sessions = slices.Clone(a.Sessions)
		s.Progress = ProgressOf(a.Sessions)

	case SetStudyPlans:
		s.StudyPlans = slices.Clone(a.Plans)

	case AddStudyPlan:
		s.StudyPlans = append(slices.Clip(s.StudyPlans), a.Plan)

	case DeleteStudyPlan:
		s.StudyPlans = slices.DeleteFunc(slices.Clone(s.StudyPlans), func(p api.StudyPlan) bool {
			return p.ID == a.ID
		})
	}
	return s
}

// ProgressOf computes progress from finished sessions.
func ProgressOf(sessions []api.StudySession) Progress {
	var p Progress
	var confidence int
	for _, sess := range sessions {
		if !sess.Ended() {
			continue
		}
		p.TotalStudyTime += sess.Duration
		p.SessionsCompleted++
		p.QuestionsAsked += sess.QuestionsAsked
		confidence += sess.ConfidenceLevel
	}
	if p.SessionsCompleted > 0 {
		p.AverageConfidence = float64(confidence) / float64(p.SessionsCompleted)
	}
	return p
}

// Store serializes actions and hands out snapshots.
type Store struct {
	mu    sync.RWMutex
	state State
}

// NewStore creates a store holding Initial().
func NewStore() *Store {
	return &Store{state: Initial()}
}

// Dispatch applies a and returns the resulting state.
func (st *Store) Dispatch(a Action) State {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = Reduce(st.state, a)
	return st.state
}

// State returns the current snapshot.
func (st *Store) State() State {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.state
}
