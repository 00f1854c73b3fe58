// Package backend implements the study API on top of the local store and
// the tutor. The HTTP server calls it per request; the terminal client
// uses it directly through ForUser when running without a server.
package backend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/appstate"
	"github.com/abhisek/studybuddy/internal/planner"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/abhisek/studybuddy/internal/tutor"
)

// ErrNotFound is returned when a session or plan does not exist or
// belongs to another user.
var ErrNotFound = errors.New("not found")

// GlobalChatSession is the pseudo-session free chat questions are
// counted against.
const GlobalChatSession = "global-chat"

const (
	defaultSessionTopic = "general"
	chatTopic           = "general knowledge"
)

// Backend serves every user from one store.
type Backend struct {
	profiles store.ProfileRepo
	sessions store.SessionRepo
	plans    store.PlanRepo
	users    store.UserRepo
	tutor    *tutor.Tutor
	log      *logrus.Logger

	// Clock returns the current time. Nil means time.Now.
	Clock func() time.Time
}

// New creates a Backend over st.
func New(st *store.Store, t *tutor.Tutor, log *logrus.Logger) *Backend {
	if log == nil {
		log = logrus.New()
	}
	return &Backend{
		profiles: st.Profiles(),
		sessions: st.Sessions(),
		plans:    st.Plans(),
		users:    st.Users(),
		tutor:    t,
		log:      log,
	}
}

func (b *Backend) now() time.Time {
	if b.Clock != nil {
		return b.Clock()
	}
	return time.Now()
}

// Profile returns the stored profile, or the default profile for users
// that never saved one.
func (b *Backend) Profile(ctx context.Context, userID string) (*api.UserProfile, error) {
	p, err := b.profiles.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if p == nil {
		def := appstate.DefaultProfile()
		return &def, nil
	}
	return p, nil
}

// UpdateProfile merges the non-empty fields of update into the profile.
func (b *Backend) UpdateProfile(ctx context.Context, userID string, update api.UserProfile) (*api.UserProfile, error) {
	current, err := b.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	merged := mergeProfile(*current, update)
	if err := b.profiles.Put(ctx, userID, merged); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return &merged, nil
}

func mergeProfile(p, update api.UserProfile) api.UserProfile {
	if update.LearningStyle != "" {
		p.LearningStyle = update.LearningStyle
	}
	if update.PreferredTopics != nil {
		p.PreferredTopics = update.PreferredTopics
	}
	if update.DifficultyLevel != "" {
		p.DifficultyLevel = update.DifficultyLevel
	}
	if update.StudyGoals != nil {
		p.StudyGoals = update.StudyGoals
	}
	if update.Name != "" {
		p.Name = update.Name
	}
	return p
}

// Sessions lists the user's sessions oldest first.
func (b *Backend) Sessions(ctx context.Context, userID string) ([]api.StudySession, error) {
	sessions, err := b.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// StartSession opens a new session. An empty topic becomes "general".
func (b *Backend) StartSession(ctx context.Context, userID, topic string) (*api.StudySession, error) {
	if topic == "" {
		topic = defaultSessionTopic
	}
	s := api.StudySession{
		ID:               uuid.NewString(),
		UserID:           userID,
		Topic:            topic,
		MaterialsCovered: []string{},
		StartTime:        api.NewTimestamp(b.now()),
	}
	if err := b.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	b.log.WithFields(logrus.Fields{"user": userID, "session": s.ID, "topic": topic}).Info("session started")
	return &s, nil
}

// EndSession closes an open session owned by userID, recording whole
// minutes studied and the learner's confidence.
func (b *Backend) EndSession(ctx context.Context, userID, id string, confidence int) (*api.StudySession, error) {
	s, err := b.ownedSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if s.Ended() {
		return nil, ErrNotFound
	}

	end := b.now()
	s.EndTime = api.NewTimestamp(end)
	s.ConfidenceLevel = confidence
	s.Duration = int(end.Sub(s.StartTime.Time).Minutes())

	if err := b.sessions.Save(ctx, *s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	b.log.WithFields(logrus.Fields{"user": userID, "session": id, "minutes": s.Duration}).Info("session ended")
	return s, nil
}

func (b *Backend) ownedSession(ctx context.Context, userID, id string) (*api.StudySession, error) {
	s, err := b.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if s == nil || s.UserID != userID {
		return nil, ErrNotFound
	}
	return s, nil
}

// CountQuestion increments the question counter of a session.
func (b *Backend) CountQuestion(ctx context.Context, userID, sessionID string) error {
	s, err := b.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	s.QuestionsAsked++
	if err := b.sessions.Save(ctx, *s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Ask answers question in the context of a session's topic and counts
// it against the session. Unknown sessions still get an answer.
func (b *Backend) Ask(ctx context.Context, userID, sessionID, question string) (string, error) {
	topic := chatTopic
	s, err := b.ownedSession(ctx, userID, sessionID)
	switch {
	case err == nil:
		topic = s.Topic
		s.QuestionsAsked++
		if err := b.sessions.Save(ctx, *s); err != nil {
			return "", fmt.Errorf("save session: %w", err)
		}
	case !errors.Is(err, ErrNotFound):
		return "", err
	}
	return b.tutor.Answer(ctx, topic, question), nil
}

// GenerateQuiz returns questions for req, defaulting to medium
// difficulty and five questions.
func (b *Backend) GenerateQuiz(ctx context.Context, req api.QuizRequest) []api.QuizQuestion {
	if req.Difficulty == "" {
		req.Difficulty = api.DifficultyMedium
	}
	if req.NumQuestions <= 0 {
		req.NumQuestions = api.DefaultQuizQuestions
	}
	return b.tutor.Quiz(ctx, req.Topic, req.Difficulty, req.NumQuestions)
}

// GradeQuiz scores answers against each question's correct answer.
func GradeQuiz(req api.QuizSubmitRequest) *api.QuizSubmission {
	out := &api.QuizSubmission{
		TotalQuestions: len(req.Questions),
		Results:        make([]api.QuestionResult, 0, len(req.Questions)),
	}
	for _, q := range req.Questions {
		answer := req.Answers[q.ID]
		correct := answer == q.CorrectAnswer
		if correct {
			out.Score++
		}
		out.Results = append(out.Results, api.QuestionResult{
			QuestionID:    q.ID,
			UserAnswer:    answer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     correct,
			Explanation:   q.Explanation,
		})
	}
	if out.TotalQuestions > 0 {
		out.Percentage = float64(out.Score) / float64(out.TotalQuestions) * 100
	}
	return out
}

// Motivation returns an encouragement message.
func (b *Backend) Motivation() string {
	return b.tutor.Motivation()
}

// GenerateFlashcards returns cards for req, five by default.
func (b *Backend) GenerateFlashcards(ctx context.Context, req api.FlashcardRequest) []api.Flashcard {
	if req.Count <= 0 {
		req.Count = api.DefaultFlashcardCount
	}
	return b.tutor.Flashcards(ctx, req.Topic, req.Count)
}

// CreateStudyPlan builds and stores a plan. Weekly goals and resources
// are generated concurrently.
func (b *Backend) CreateStudyPlan(ctx context.Context, userID string, req api.PlanRequest) (*api.StudyPlan, error) {
	now := b.now()
	days, _, err := req.Window(now)
	if err != nil {
		return nil, err
	}

	var content planner.Content

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		content.Goals = b.tutor.WeeklyGoals(gctx, req.Topic, planner.Weeks(days))
		return nil
	})
	g.Go(func() error {
		content.Resources = b.tutor.Resources(gctx, req.Topic)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	plan, err := planner.Build(userID, req, now, content)
	if err != nil {
		return nil, err
	}
	if err := b.plans.Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("save study plan: %w", err)
	}
	b.log.WithFields(logrus.Fields{"user": userID, "plan": plan.ID, "topic": plan.Topic}).Info("study plan created")
	return &plan, nil
}

// StudyPlans lists the user's plans oldest first.
func (b *Backend) StudyPlans(ctx context.Context, userID string) ([]api.StudyPlan, error) {
	plans, err := b.plans.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list study plans: %w", err)
	}
	return plans, nil
}

// DeleteStudyPlan removes a plan owned by userID.
func (b *Backend) DeleteStudyPlan(ctx context.Context, userID, id string) error {
	ok, err := b.plans.Delete(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("delete study plan: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Progress aggregates every session of the user.
func (b *Backend) Progress(ctx context.Context, userID string) (*api.ProgressStats, error) {
	sessions, err := b.Sessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ProgressOf(sessions), nil
}

// ProgressOf computes progress statistics over sessions.
func ProgressOf(sessions []api.StudySession) *api.ProgressStats {
	stats := &api.ProgressStats{
		SessionsCompleted: len(sessions),
		TopicDistribution: make(map[string]int),
	}
	confidence := 0
	for _, s := range sessions {
		stats.TotalStudyTime += s.Duration
		stats.QuestionsAsked += s.QuestionsAsked
		confidence += s.ConfidenceLevel
		stats.TopicDistribution[s.Topic] += s.Duration
	}
	if len(sessions) > 0 {
		avg := float64(confidence) / float64(len(sessions))
		stats.AverageConfidence = math.Round(avg*10) / 10
	}
	return stats
}
