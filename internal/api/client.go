package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"
)

// Client talks to the study API over HTTP. Every request carries the
// configured User-ID header. There is no retry.
type Client struct {
	baseURL string
	userID  string
	token   string
	timeout time.Duration
	http    *http.Client
	log     *logrus.Logger
}

var _ Service = (*Client)(nil)

const defaultTimeout = 30 * time.Second

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client. The client is
// copied, so a WithTimeout option never changes the caller's value.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithUserID sets the User-ID header value.
func WithUserID(id string) ClientOption {
	return func(c *Client) { c.userID = id }
}

// WithToken sends token as a Bearer credential. The server prefers it
// over the User-ID header.
func WithToken(token string) ClientOption {
	return func(c *Client) { c.token = token }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *logrus.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// NewClient creates a Client for the API rooted at baseURL
// (e.g. "http://localhost:5000/api").
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		userID:  DefaultUserID,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	hc := *c.http
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.http = &hc
	return c
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/register", nil, req, nil)
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the account behind the client's token.
func (c *Client) Me(ctx context.Context) (*Account, error) {
	var out Account
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Profile(ctx context.Context) (*UserProfile, error) {
	var p UserProfile
	if err := c.do(ctx, http.MethodGet, "/user/profile", nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProfile(ctx context.Context, profile UserProfile) (*UserProfile, error) {
	var p UserProfile
	if err := c.do(ctx, http.MethodPut, "/user/profile", nil, profile, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Sessions(ctx context.Context) ([]StudySession, error) {
	var out []StudySession
	if err := c.do(ctx, http.MethodGet, "/sessions", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) StartSession(ctx context.Context, topic string) (*StudySession, error) {
	var s StudySession
	if err := c.do(ctx, http.MethodPost, "/sessions", nil, SessionRequest{Topic: topic}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) EndSession(ctx context.Context, id string, confidence int) (*StudySession, error) {
	var s StudySession
	body := EndSessionRequest{ConfidenceLevel: &confidence}
	if err := c.do(ctx, http.MethodPut, "/sessions/"+url.PathEscape(id)+"/end", nil, body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) AskSessionQuestion(ctx context.Context, sessionID, question string) (string, error) {
	var resp AnswerResponse
	path := "/sessions/" + url.PathEscape(sessionID) + "/question"
	if err := c.do(ctx, http.MethodPost, path, nil, QuestionRequest{Question: question}, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

func (c *Client) GenerateQuiz(ctx context.Context, req QuizRequest) ([]QuizQuestion, error) {
	n := req.NumQuestions
	if n == 0 {
		n = DefaultQuizQuestions
	}
	q := url.Values{}
	q.Set("topic", req.Topic)
	q.Set("difficulty", string(req.Difficulty))
	q.Set("numQuestions", strconv.Itoa(n))

	var out []QuizQuestion
	if err := c.do(ctx, http.MethodGet, "/quiz/generate", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SubmitQuiz(ctx context.Context, req QuizSubmitRequest) (*QuizSubmission, error) {
	var out QuizSubmission
	if err := c.do(ctx, http.MethodPost, "/quiz/submit", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Motivation(ctx context.Context) (string, error) {
	var resp MessageResponse
	if err := c.do(ctx, http.MethodGet, "/motivation", nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) AskQuestion(ctx context.Context, question string) (string, error) {
	var resp AnswerResponse
	if err := c.do(ctx, http.MethodPost, "/ask-question", nil, QuestionRequest{Question: question}, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

func (c *Client) GenerateFlashcards(ctx context.Context, req FlashcardRequest) ([]Flashcard, error) {
	if req.Count == 0 {
		req.Count = DefaultFlashcardCount
	}
	var out []Flashcard
	if err := c.do(ctx, http.MethodPost, "/generate-flashcards", nil, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateStudyPlan(ctx context.Context, req PlanRequest) (*StudyPlan, error) {
	var p StudyPlan
	if err := c.do(ctx, http.MethodPost, "/study-plans", nil, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) StudyPlans(ctx context.Context) ([]StudyPlan, error) {
	var out []StudyPlan
	if err := c.do(ctx, http.MethodGet, "/study-plans", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteStudyPlan(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/study-plans/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) Progress(ctx context.Context) (*ProgressStats, error) {
	var out ProgressStats
	if err := c.do(ctx, http.MethodGet, "/progress", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health fetches the server health document.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// CheckHealth fetches /health and verifies the server speaks the same
// major API version as this client.
func (c *Client) CheckHealth(ctx context.Context) (*Health, error) {
	h, err := c.Health(ctx)
	if err != nil {
		return nil, err
	}
	if err := CompatibleVersion(h.Version); err != nil {
		return h, err
	}
	return h, nil
}

// CompatibleVersion reports whether a server version string is usable.
func CompatibleVersion(server string) error {
	v := canonicalVersion(server)
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: unparseable version %q", ErrIncompatibleServer, server)
	}
	want := canonicalVersion(ServerVersion)
	if semver.Major(v) != semver.Major(want) {
		return fmt.Errorf("%w: server %s, client expects %s.x", ErrIncompatibleServer, server, semver.Major(want))
	}
	return nil
}

func canonicalVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// do performs one request and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(UserIDHeader, c.userID)
	if c.token != "" {
		req.Header.Set(AuthorizationHeader, "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{"method": method, "path": path}).Warn("api request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"latency": time.Since(start),
	}).Debug("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}
	var body ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil {
		apiErr.Message = body.Error
	}
	return apiErr
}
