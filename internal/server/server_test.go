package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/backend"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/abhisek/studybuddy/internal/tutor"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	ts, _ := newServerPair(t, opts)
	return ts
}

func newServerPair(t *testing.T, opts Options) (*httptest.Server, *Server) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	b := backend.New(st, tutor.New(nil, tutor.DefaultConfig(), quietLogger()), quietLogger())
	srv := New(b, opts, quietLogger())
	srv.Clock = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, srv
}

func newClient(ts *httptest.Server, user string) *api.Client {
	return api.NewClient(ts.URL+"/api", api.WithUserID(user), api.WithLogger(quietLogger()))
}

func doJSON(t *testing.T, method, url, body string, header map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Options{})

	h, err := newClient(ts, "u1").CheckHealth(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, "AI Study Buddy API is running", h.Message)
	assert.Equal(t, "2.0.0", h.Version)
	assert.Equal(t, 2025, h.Timestamp.Year())
}

func TestSessionFlow(t *testing.T) {
	ts := newTestServer(t, Options{})
	ctx := context.Background()
	c := newClient(ts, "alice")

	s, err := c.StartSession(ctx, "biology")
	require.NoError(t, err)
	assert.Equal(t, "alice", s.UserID)

	answer, err := c.AskSessionQuestion(ctx, s.ID, "what is a cell?")
	require.NoError(t, err)
	assert.Equal(t, tutor.OfflineAnswer("biology"), answer)

	ended, err := c.EndSession(ctx, s.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, 9, ended.ConfidenceLevel)
	assert.Equal(t, 1, ended.QuestionsAsked)

	_, err = c.EndSession(ctx, s.ID, 9)
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
	assert.Equal(t, "Session not found", api.Message(err))

	sessions, err := newClient(ts, "bob").Sessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	stats, err := c.Progress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SessionsCompleted)
	assert.InDelta(t, 9.0, stats.AverageConfidence, 1e-9)
}

func TestEndSession_DefaultConfidence(t *testing.T) {
	ts := newTestServer(t, Options{})
	s, err := newClient(ts, api.DefaultUserID).StartSession(context.Background(), "math")
	require.NoError(t, err)

	resp, body := doJSON(t, http.MethodPut, ts.URL+"/api/sessions/"+s.ID+"/end", `{}`, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 5, body["confidence_level"])
}

func TestEndSession_InvalidConfidence(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := doJSON(t, http.MethodPut, ts.URL+"/api/sessions/x/end", `{"confidenceLevel": 11}`, nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "confidenceLevel")
}

func TestSessionQuestion_Count(t *testing.T) {
	ts := newTestServer(t, Options{})
	s, err := newClient(ts, api.DefaultUserID).StartSession(context.Background(), "math")
	require.NoError(t, err)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+s.ID+"/question", `{}`, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Question counted", body["message"])

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+s.ID+"/question", `{}`, map[string]string{"User-ID": "other"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Session not found", body["error"])
}

func TestAskQuestion(t *testing.T) {
	ts := newTestServer(t, Options{})

	answer, err := newClient(ts, "u1").AskQuestion(context.Background(), "why is the sky blue?")
	require.NoError(t, err)
	assert.Equal(t, tutor.OfflineAnswer("general knowledge"), answer)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/ask-question", `{"question": "  "}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No question provided", body["error"])

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/api/ask-question", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid JSON body", body["error"])
}

func TestQuiz(t *testing.T) {
	ts := newTestServer(t, Options{})
	ctx := context.Background()
	c := newClient(ts, "u1")

	qs, err := c.GenerateQuiz(ctx, api.QuizRequest{Topic: "python", Difficulty: api.DifficultyEasy, NumQuestions: 2})
	require.NoError(t, err)
	require.Len(t, qs, 2)

	result, err := c.SubmitQuiz(ctx, api.QuizSubmitRequest{
		Questions: qs,
		Answers:   map[string]string{qs[0].ID: qs[0].CorrectAnswer},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Score)
	assert.InDelta(t, 50.0, result.Percentage, 1e-9)

	none, err := c.GenerateQuiz(ctx, api.QuizRequest{Topic: "astronomy"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestQuiz_Validation(t *testing.T) {
	ts := newTestServer(t, Options{})

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"missing topic", "", "topic is a required field"},
		{"bad difficulty", "?topic=go&difficulty=insane", "difficulty"},
		{"too many", "?topic=go&numQuestions=21", "numQuestions"},
		{"not a number", "?topic=go&numQuestions=five", "numQuestions must be a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/quiz/generate"+tt.query, "", nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, body["error"], tt.want)
		})
	}

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/quiz/submit", `{"questions": []}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMotivationAndFlashcards(t *testing.T) {
	ts := newTestServer(t, Options{})
	ctx := context.Background()
	c := newClient(ts, "u1")

	msg, err := c.Motivation(ctx)
	require.NoError(t, err)
	assert.Contains(t, tutor.Motivations, msg)

	cards, err := c.GenerateFlashcards(ctx, api.FlashcardRequest{Topic: "go"})
	require.NoError(t, err)
	assert.Len(t, cards, 3)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/generate-flashcards", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStudyPlans(t *testing.T) {
	ts := newTestServer(t, Options{})
	ctx := context.Background()
	c := newClient(ts, "u1")

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/study-plans",
		`{"topic": "javascript", "daily_hours": 1.5, "target_days": 14}`, map[string]string{"User-ID": "u1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)

	plans, err := c.StudyPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "JS Fundamentals", plans[0].WeeklyGoals[0].Theme)

	err = newClient(ts, "u2").DeleteStudyPlan(ctx, id)
	assert.Equal(t, "Failed to delete study plan", api.Message(err))

	require.NoError(t, c.DeleteStudyPlan(ctx, id))

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/api/study-plans", `{"topic": "go", "daily_hours": -1, "target_days": 7}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "daily_hours")

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/api/study-plans", `{"topic": "go", "daily_hours": 2}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, api.ErrPlanWindow.Error(), body["error"])
}

func TestStudyPlans_DeadlineForm(t *testing.T) {
	ts := newTestServer(t, Options{})
	deadline := time.Now().AddDate(0, 0, 15).Format("2006-01-02T15:04:05")

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/study-plans",
		`{"topic": "go", "deadline": "`+deadline+`", "hours_available": 28}`, map[string]string{"User-ID": "u1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, 28, body["total_hours"])
	assert.EqualValues(t, 2, body["daily_hours"])
	assert.Len(t, body["weekly_goals"], 2)
}

func TestProfile(t *testing.T) {
	ts := newTestServer(t, Options{})
	ctx := context.Background()
	c := newClient(ts, "u1")

	p, err := c.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Student", p.Name)

	updated, err := c.UpdateProfile(ctx, api.UserProfile{Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.Name)
	assert.Equal(t, "visual", updated.LearningStyle)
}

func TestDefaultUserID(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/sessions", `{"topic": "art"}`, nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, api.DefaultUserID, body["user_id"])
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, Options{RateLimit: 0.001, RateBurst: 2})

	for range 2 {
		resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/motivation", "", map[string]string{"User-ID": "spammer"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/motivation", "", map[string]string{"User-ID": "spammer"})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "Too many requests", body["error"])

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/motivation", "", map[string]string{"User-ID": "someone-else"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNotFoundAndMethod(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", body["error"])

	resp, _ = doJSON(t, http.MethodPatch, ts.URL+"/api/progress", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, Options{CORSOrigins: []string{"http://localhost:3000"}})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/progress", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	req.Header.Set("Access-Control-Request-Headers", "User-ID")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	ts := newTestServer(t, Options{JWTSecret: "test-secret"})
	reg := ts.URL + "/api/auth/register"

	resp, body := doJSON(t, http.MethodPost, reg, `{"email": "ada@example.com", "password": "pw", "name": "Ada"}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "User created successfully", body["message"])

	resp, body = doJSON(t, http.MethodPost, reg, `{"email": "ada@example.com", "password": "other"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User already exists", body["error"])

	resp, _ = doJSON(t, http.MethodPost, reg, `{"email": "not-an-email", "password": "pw"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", `{"email": "ada@example.com", "password": "wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", body["error"])

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", `{"email": "nobody@example.com", "password": "pw"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", `{"email": "ada@example.com", "password": "pw"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	user, _ := body["user"].(map[string]any)
	assert.Equal(t, "Ada", user["name"])

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/auth/me", "", map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, user["id"], body["id"])
	assert.Equal(t, "ada@example.com", body["email"])
}

func TestAuth_Me(t *testing.T) {
	ts, srv := newServerPair(t, Options{})

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/auth/me", "", map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := srv.Tokens().Issue("ghost")
	require.NoError(t, err)
	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/auth/me", "", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", body["error"])
}

func TestAuth_TokenWinsOverUserIDHeader(t *testing.T) {
	ts, srv := newServerPair(t, Options{})
	ctx := context.Background()

	token, err := srv.Tokens().Issue("from-token")
	require.NoError(t, err)
	resp, _ := doJSON(t, http.MethodPut, ts.URL+"/api/user/profile", `{"name": "Token User"}`,
		map[string]string{"Authorization": "Bearer " + token, "User-ID": "from-header"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	p, err := newClient(ts, "from-token").Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Token User", p.Name)

	p, err = newClient(ts, "from-header").Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Student", p.Name)

	// An unusable token falls back to the header.
	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/api/user/profile", `{"name": "Header User"}`,
		map[string]string{"Authorization": "Bearer garbage", "User-ID": "from-header"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p, err = newClient(ts, "from-header").Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Header User", p.Name)
}

func TestClient_TokenAuth(t *testing.T) {
	ts := newTestServer(t, Options{})
	ctx := context.Background()
	c := newClient(ts, "ignored")

	require.NoError(t, c.Register(ctx, api.RegisterRequest{Email: "cli@example.com", Password: "pw", Name: "Cli"}))
	login, err := c.Login(ctx, api.LoginRequest{Email: "cli@example.com", Password: "pw"})
	require.NoError(t, err)

	authed := api.NewClient(ts.URL+"/api", api.WithToken(login.AccessToken), api.WithLogger(quietLogger()))
	me, err := authed.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cli", me.Name)

	_, err = c.Me(ctx)
	assert.Equal(t, http.StatusUnauthorized, api.StatusCode(err))
}
