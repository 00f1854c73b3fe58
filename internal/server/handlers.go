package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/backend"
)

const (
	defaultConfidence = 5

	msgInternal        = "Internal server error"
	msgInvalidJSON     = "Invalid JSON body"
	msgSessionNotFound = "Session not found"
	msgNoQuestion      = "No question provided"
	msgDeleteFailed    = "Failed to delete study plan"
	msgUserExists      = "User already exists"
	msgBadCredentials  = "Invalid credentials"
	msgUserNotFound    = "User not found"
	msgTokenRequired   = "Missing or invalid access token"
)

// internalError logs err and answers with a generic 500.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.WithError(err).WithField("path", r.URL.Path).Error("handler failed")
	errorResponse(w, msgInternal, http.StatusInternalServerError)
}

// decodeValid decodes the body into req and validates it. It writes the
// 400 response itself and reports false on failure.
func (s *Server) decodeValid(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := decodeBody(r, req); err != nil {
		errorResponse(w, msgInvalidJSON, http.StatusBadRequest)
		return false
	}
	if msg, ok := s.validator.Struct(req); !ok {
		errorResponse(w, msg, http.StatusBadRequest)
		return false
	}
	return true
}

// === System ===

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, api.Health{
		Status:    "healthy",
		Message:   "AI Study Buddy API is running",
		Timestamp: api.NewTimestamp(s.now()),
		Version:   api.ServerVersion,
	}, http.StatusOK)
}

// === Auth ===

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	_, err := s.backend.Register(r.Context(), req)
	if errors.Is(err, backend.ErrUserExists) {
		errorResponse(w, msgUserExists, http.StatusBadRequest)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	jsonResponse(w, api.MessageResponse{Message: "User created successfully"}, http.StatusCreated)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	acct, err := s.backend.Authenticate(r.Context(), req)
	if errors.Is(err, backend.ErrInvalidCredentials) {
		errorResponse(w, msgBadCredentials, http.StatusUnauthorized)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	token, err := s.tokens.Issue(acct.ID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	jsonResponse(w, api.LoginResponse{AccessToken: token, User: *acct}, http.StatusOK)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	if !authenticated(r) {
		errorResponse(w, msgTokenRequired, http.StatusUnauthorized)
		return
	}
	acct, err := s.backend.Account(r.Context(), userID(r))
	if errors.Is(err, backend.ErrNotFound) {
		errorResponse(w, msgUserNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	jsonResponse(w, acct, http.StatusOK)
}

// === Profile ===

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.backend.Profile(r.Context(), userID(r))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	jsonResponse(w, p, http.StatusOK)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req api.UserProfile
	if err := decodeBody(r, &req); err != nil {
		errorResponse(w, msgInvalidJSON, http.StatusBadRequest)
		return
	}
	p, err := s.backend.UpdateProfile(r.Context(), userID(r), req)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	jsonResponse(w, p, http.StatusOK)
}

// === Sessions ===

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.backend.Sessions(r.Context(), userID(r))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []api.StudySession{}
	}
	jsonResponse(w, sessions, http.StatusOK)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var req api.SessionRequest
	if err := decodeBody(r, &req); err != nil {
		errorResponse(w, msgInvalidJSON, http.StatusBadRequest)
		return
	}
	session, err := s.backend.StartSession(r.Context(), userID(r), req.Topic)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	jsonResponse(w, session, http.StatusOK)
}

func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	var req api.EndSessionRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	confidence := defaultConfidence
	if req.ConfidenceLevel != nil {
		confidence = *req.ConfidenceLevel
	}

	session, err := s.backend.EndSession(r.Context(), userID(r), mux.Vars(r)["id"], confidence)
	if errors.Is(err, backend.ErrNotFound) {
		errorResponse(w, msgSessionNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	jsonResponse(w, session, http.StatusOK)
}

// sessionQuestion answers a question asked during a session. Without a
// question it only counts one against the session.
func (s *Server) sessionQuestion(w http.ResponseWriter, r *http.Request) {
	var req api.QuestionRequest
	if err := decodeBody(r, &req); err != nil {
		errorResponse(w, msgInvalidJSON, http.StatusBadRequest)
		return
	}
	id := mux.Vars(r)["id"]

	if strings.TrimSpace(req.Question) != "" {
		answer, err := s.backend.Ask(r.Context(), userID(r), id, req.Question)
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		jsonResponse(w, api.AnswerResponse{Message: "Question answered", Answer: answer}, http.StatusOK)
		return
	}

	err := s.backend.CountQuestion(r.Context(), userID(r), id)
	if errors.Is(err, backend.ErrNotFound) {
		errorResponse(w, msgSessionNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	jsonResponse(w, api.MessageResponse{Message: "Question counted"}, http.StatusOK)
}

// === Quiz ===

func (s *Server) generateQuiz(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := api.QuizRequest{
		Topic:        q.Get("topic"),
		Difficulty:   api.Difficulty(q.Get("difficulty")),
		NumQuestions: api.DefaultQuizQuestions,
	}
	if raw := q.Get("numQuestions"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			errorResponse(w, "numQuestions must be a number", http.StatusBadRequest)
			return
		}
		req.NumQuestions = n
	}
	if msg, ok := s.validator.Struct(req); !ok {
		errorResponse(w, msg, http.StatusBadRequest)
		return
	}

	jsonResponse(w, s.backend.GenerateQuiz(r.Context(), req), http.StatusOK)
}

func (s *Server) submitQuiz(w http.ResponseWriter, r *http.Request) {
	var req api.QuizSubmitRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	jsonResponse(w, backend.GradeQuiz(req), http.StatusOK)
}

// === Tutor ===

func (s *Server) motivation(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, api.MessageResponse{Message: s.backend.Motivation()}, http.StatusOK)
}

func (s *Server) askQuestion(w http.ResponseWriter, r *http.Request) {
	var req api.QuestionRequest
	if err := decodeBody(r, &req); err != nil {
		errorResponse(w, msgInvalidJSON, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		errorResponse(w, msgNoQuestion, http.StatusBadRequest)
		return
	}

	answer, err := s.backend.Ask(r.Context(), userID(r), backend.GlobalChatSession, req.Question)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	jsonResponse(w, api.AnswerResponse{Answer: answer}, http.StatusOK)
}

func (s *Server) generateFlashcards(w http.ResponseWriter, r *http.Request) {
	var req api.FlashcardRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	jsonResponse(w, s.backend.GenerateFlashcards(r.Context(), req), http.StatusOK)
}

// === Study plans ===

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.backend.StudyPlans(r.Context(), userID(r))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if plans == nil {
		plans = []api.StudyPlan{}
	}
	jsonResponse(w, plans, http.StatusOK)
}

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	var req api.PlanRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	plan, err := s.backend.CreateStudyPlan(r.Context(), userID(r), req)
	if errors.Is(err, api.ErrPlanWindow) {
		errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	jsonResponse(w, plan, http.StatusCreated)
}

func (s *Server) deletePlan(w http.ResponseWriter, r *http.Request) {
	err := s.backend.DeleteStudyPlan(r.Context(), userID(r), mux.Vars(r)["id"])
	if errors.Is(err, backend.ErrNotFound) {
		errorResponse(w, msgDeleteFailed, http.StatusNotFound)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	jsonResponse(w, api.MessageResponse{Message: "Study plan deleted successfully"}, http.StatusOK)
}

// === Progress ===

func (s *Server) progress(w http.ResponseWriter, r *http.Request) {
	stats, err := s.backend.Progress(r.Context(), userID(r))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	jsonResponse(w, stats, http.StatusOK)
}
