// Package server exposes the backend as a JSON HTTP API under /api.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/studybuddy/internal/auth"
	"github.com/abhisek/studybuddy/internal/backend"
)

// Options configures the HTTP layer.
type Options struct {
	// RateLimit is the sustained requests per second allowed per user.
	// Zero disables limiting.
	RateLimit float64
	RateBurst int

	CORSOrigins []string

	// JWTSecret signs access tokens. Empty uses auth.DevSecret.
	JWTSecret string
	// TokenTTL is the access token lifetime. Zero uses auth.DefaultTokenTTL.
	TokenTTL time.Duration
}

// Server routes API requests to a Backend.
type Server struct {
	backend   *backend.Backend
	log       *logrus.Logger
	validator *Validator
	limiter   *RateLimiter
	tokens    *auth.Tokens
	opts      Options

	// Clock returns the current time for health reports. Nil means time.Now.
	Clock func() time.Time
}

// New creates a Server.
func New(b *backend.Backend, opts Options, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	s := &Server{
		backend:   b,
		log:       log,
		validator: NewValidator(),
		tokens:    auth.NewTokens(opts.JWTSecret, opts.TokenTTL),
		opts:      opts,
	}
	if opts.RateLimit > 0 {
		s.limiter = NewRateLimiter(opts.RateLimit, opts.RateBurst)
	}
	return s
}

// Tokens returns the access token issuer.
func (s *Server) Tokens() *auth.Tokens {
	return s.tokens
}

// Handler returns the routed, CORS-wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests, s.identify, s.rateLimit)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		errorResponse(w, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		errorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	api := r.PathPrefix("/api").Subrouter()

	// System
	api.HandleFunc("/health", s.health).Methods("GET")

	// Auth
	api.HandleFunc("/auth/register", s.register).Methods("POST")
	api.HandleFunc("/auth/login", s.login).Methods("POST")
	api.HandleFunc("/auth/me", s.me).Methods("GET")

	// Profile
	api.HandleFunc("/user/profile", s.getProfile).Methods("GET")
	api.HandleFunc("/user/profile", s.updateProfile).Methods("PUT")

	// Sessions
	api.HandleFunc("/sessions", s.listSessions).Methods("GET")
	api.HandleFunc("/sessions", s.startSession).Methods("POST")
	api.HandleFunc("/sessions/{id}/end", s.endSession).Methods("PUT")
	api.HandleFunc("/sessions/{id}/question", s.sessionQuestion).Methods("POST")

	// Quiz
	api.HandleFunc("/quiz/generate", s.generateQuiz).Methods("GET")
	api.HandleFunc("/quiz/submit", s.submitQuiz).Methods("POST")

	// Tutor
	api.HandleFunc("/motivation", s.motivation).Methods("GET")
	api.HandleFunc("/ask-question", s.askQuestion).Methods("POST")
	api.HandleFunc("/generate-flashcards", s.generateFlashcards).Methods("POST")

	// Study plans
	api.HandleFunc("/study-plans", s.listPlans).Methods("GET")
	api.HandleFunc("/study-plans", s.createPlan).Methods("POST")
	api.HandleFunc("/study-plans/{id}", s.deletePlan).Methods("DELETE")

	// Progress
	api.HandleFunc("/progress", s.progress).Methods("GET")

	origins := s.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "User-ID"},
	})

	return c.Handler(r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("study API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("shutting down study API")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}
