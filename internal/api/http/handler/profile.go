package handler

import (
	"encoding/json"
	"net/http"

	"github.com/projectfair/server/internal/logger"
	"github.com/projectfair/server/internal/model"
	"github.com/projectfair/server/internal/session"
)

// Profile serves reading and replacing the caller's profile.
type Profile struct {
	sessions       *session.Registry
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewProfile creates a new Profile handler.
func NewProfile(sessions *session.Registry, contextManager model.ContextManager, logger *logger.Logger) *Profile {
	return &Profile{
		sessions:       sessions,
		contextManager: contextManager,
		logger:         logger,
	}
}

type profileRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
	Designation  string `json:"designation"`
	Github       string `json:"github"`
	Linkedin     string `json:"linkedin"`
}

// Get loads the caller's profile into their session and returns it.
func (h *Profile) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrNotAuthenticated)
		return
	}

	sess, err := h.sessions.Store(userID).FetchProfile(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

// Update replaces the caller's profile with exactly the submitted fields.
func (h *Profile) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrNotAuthenticated)
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, model.NewValidationError("invalid request body"))
		return
	}

	store := h.sessions.Store(userID)
	if !store.Snapshot().Authenticated {
		if _, err := store.FetchProfile(r.Context(), userID); err != nil {
			writeError(w, h.logger, err)
			return
		}
	}

	sess, err := store.UpdateProfile(r.Context(), model.ProfileFields{
		Name:         req.Name,
		Email:        req.Email,
		ProfileImage: req.ProfileImage,
		Designation:  req.Designation,
		Github:       req.Github,
		Linkedin:     req.Linkedin,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}
