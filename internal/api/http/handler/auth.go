package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/projectfair/server/internal/logger"
	"github.com/projectfair/server/internal/metrics"
	"github.com/projectfair/server/internal/model"
	"github.com/projectfair/server/internal/session"
)

// Auth serves sign-up, login, logout and session inspection.
type Auth struct {
	sessions       *session.Registry
	contextManager model.ContextManager
	metrics        *metrics.Collector
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(sessions *session.Registry, contextManager model.ContextManager, metrics *metrics.Collector, logger *logger.Logger) *Auth {
	return &Auth{
		sessions:       sessions,
		contextManager: contextManager,
		metrics:        metrics,
		logger:         logger,
	}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UID           uuid.UUID `json:"uid"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	ProfileImage  string    `json:"profileImage"`
	Designation   string    `json:"designation"`
	Github        string    `json:"github"`
	Linkedin      string    `json:"linkedin"`
	State         string    `json:"state"`
	Authenticated bool      `json:"authenticated"`
	Error         string    `json:"error,omitempty"`
}

type authResponse struct {
	Session   sessionResponse `json:"session"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

func toSessionResponse(sess model.Session) sessionResponse {
	return sessionResponse{
		UID:           sess.UID,
		Name:          sess.Name,
		Email:         sess.Email,
		ProfileImage:  sess.ProfileImage,
		Designation:   sess.Designation,
		Github:        sess.Github,
		Linkedin:      sess.Linkedin,
		State:         string(sess.State),
		Authenticated: sess.Authenticated,
		Error:         sess.LastError,
	}
}

// SignUp registers a new user and signs them in.
func (h *Auth) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, model.NewValidationError("invalid request body"))
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, h.logger, model.NewValidationError("All fields are required!"))
		return
	}

	sess, err := h.sessions.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	cred, err := h.sessions.Store(sess.UID).Credential(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordSignup()
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Session:   toSessionResponse(sess),
		Token:     cred.Token,
		ExpiresAt: cred.ExpiresAt,
	})
}

// LogIn verifies credentials and returns the session with its token.
func (h *Auth) LogIn(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, model.NewValidationError("invalid request body"))
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, h.logger, model.NewValidationError("All fields are required!"))
		return
	}

	sess, err := h.sessions.LogIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	cred, err := h.sessions.Store(sess.UID).Credential(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordLogin()
	}

	writeJSON(w, http.StatusOK, authResponse{
		Session:   toSessionResponse(sess),
		Token:     cred.Token,
		ExpiresAt: cred.ExpiresAt,
	})
}

// LogOut signs the user out and drops their session.
func (h *Auth) LogOut(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrNotAuthenticated)
		return
	}

	if _, err := h.sessions.LogOut(r.Context(), userID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Session returns the caller's session, hydrating it from the profile
// store when the server holds no live session for them.
func (h *Auth) Session(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrNotAuthenticated)
		return
	}

	store := h.sessions.Store(userID)
	sess := store.Snapshot()
	if !sess.Authenticated {
		var err error
		sess, err = store.FetchProfile(r.Context(), userID)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}
