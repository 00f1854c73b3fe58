package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/studybuddy/internal/api"
)

type contextKey string

const (
	userIDKey        contextKey = "user_id"
	authenticatedKey contextKey = "authenticated"
)

// userID returns the caller id resolved by identify.
func userID(r *http.Request) string {
	if id, ok := r.Context().Value(userIDKey).(string); ok {
		return id
	}
	return api.DefaultUserID
}

// authenticated reports whether the caller presented a valid access token.
func authenticated(r *http.Request) bool {
	ok, _ := r.Context().Value(authenticatedKey).(bool)
	return ok
}

// identify resolves the caller. A valid Bearer token wins; otherwise the
// User-ID header is used, defaulting to the demo user. An invalid token
// falls back to the header.
func (s *Server) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id, ok := s.bearerIdentity(r); ok {
			ctx = context.WithValue(ctx, userIDKey, id)
			ctx = context.WithValue(ctx, authenticatedKey, true)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		id := r.Header.Get(api.UserIDHeader)
		if id == "" {
			id = api.DefaultUserID
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, userIDKey, id)))
	})
}

func (s *Server) bearerIdentity(r *http.Request) (string, bool) {
	h := r.Header.Get(api.AuthorizationHeader)
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	id, err := s.tokens.Parse(strings.TrimSpace(token))
	if err != nil {
		s.log.WithError(err).Debug("ignoring access token")
		return "", false
	}
	return id, true
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow(userID(r)) {
			errorResponse(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry := s.log.WithFields(logrus.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"status":  rec.status,
			"latency": time.Since(start),
			"user":    r.Header.Get(api.UserIDHeader),
		})
		if rec.status >= 500 {
			entry.Error("request failed")
			return
		}
		entry.Info("request")
	})
}
