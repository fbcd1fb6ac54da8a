package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/projectfair/server/internal/likes"
	"github.com/projectfair/server/internal/logger"
	"github.com/projectfair/server/internal/metrics"
	"github.com/projectfair/server/internal/model"
	"github.com/projectfair/server/internal/projects"
)

// Projects serves project CRUD and star toggling.
type Projects struct {
	directory      *projects.Directory
	likes          *likes.Coordinator
	contextManager model.ContextManager
	metrics        *metrics.Collector
	logger         *logger.Logger
}

// NewProjects creates a new Projects handler.
func NewProjects(
	directory *projects.Directory,
	likes *likes.Coordinator,
	contextManager model.ContextManager,
	metrics *metrics.Collector,
	logger *logger.Logger,
) *Projects {
	return &Projects{
		directory:      directory,
		likes:          likes,
		contextManager: contextManager,
		metrics:        metrics,
		logger:         logger,
	}
}

type projectRequest struct {
	Title     string   `json:"title"`
	Overview  string   `json:"overview"`
	Thumbnail string   `json:"thumbnail"`
	Github    string   `json:"github"`
	Link      string   `json:"link"`
	Points    []string `json:"points"`
}

type projectResponse struct {
	ID        uuid.UUID   `json:"id"`
	Title     string      `json:"title"`
	Overview  string      `json:"overview"`
	Thumbnail string      `json:"thumbnail"`
	Github    string      `json:"github"`
	Link      string      `json:"link"`
	Points    []string    `json:"points"`
	OwnerID   uuid.UUID   `json:"ownerId"`
	Likes     []uuid.UUID `json:"likes"`
	LikeCount int         `json:"likeCount"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type toggleResponse struct {
	Project projectResponse `json:"project"`
	Liked   bool            `json:"liked"`
	Count   int             `json:"count"`
}

func toProjectResponse(p model.Project) projectResponse {
	likes := p.Likes
	if likes == nil {
		likes = []uuid.UUID{}
	}
	points := p.Points
	if points == nil {
		points = []string{}
	}
	return projectResponse{
		ID:        p.ID,
		Title:     p.Title,
		Overview:  p.Overview,
		Thumbnail: p.Thumbnail,
		Github:    p.Github,
		Link:      p.Link,
		Points:    points,
		OwnerID:   p.OwnerID,
		Likes:     likes,
		LikeCount: p.LikeCount(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toProjectResponses(list []model.Project) []projectResponse {
	out := make([]projectResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProjectResponse(p))
	}
	return out
}

// List returns every project, newest first.
func (h *Projects) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.directory.ListAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponses(list))
}

// ListByOwner returns the given user's projects, newest first.
func (h *Projects) ListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, h.logger, model.NewValidationError("invalid user id"))
		return
	}

	list, err := h.directory.ListByOwner(r.Context(), ownerID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponses(list))
}

// Get returns one project by ID.
func (h *Projects) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, h.logger, model.NewValidationError("invalid project id"))
		return
	}

	project, err := h.directory.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponse(project))
}

// Create adds a project owned by the caller.
func (h *Projects) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrNotAuthenticated)
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, model.NewValidationError("invalid request body"))
		return
	}

	project, err := h.directory.Add(r.Context(), userID, projects.Submission{
		Title:     req.Title,
		Overview:  req.Overview,
		Thumbnail: req.Thumbnail,
		Github:    req.Github,
		Link:      req.Link,
		Points:    req.Points,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProjectResponse(project))
}

// Update replaces the caller's project.
func (h *Projects) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrNotAuthenticated)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, h.logger, model.NewValidationError("invalid project id"))
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, model.NewValidationError("invalid request body"))
		return
	}

	project, err := h.directory.Update(r.Context(), id, userID, projects.Submission{
		Title:     req.Title,
		Overview:  req.Overview,
		Thumbnail: req.Thumbnail,
		Github:    req.Github,
		Link:      req.Link,
		Points:    req.Points,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponse(project))
}

// Delete removes the caller's project.
func (h *Projects) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrNotAuthenticated)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, h.logger, model.NewValidationError("invalid project id"))
		return
	}

	if err := h.directory.Delete(r.Context(), id, userID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleStar flips the caller's star on a project. Anonymous callers are
// refused with a prompt to log in.
func (h *Projects) ToggleStar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, h.logger, model.NewValidationError("invalid project id"))
		return
	}

	// uuid.Nil for anonymous callers; the coordinator refuses them
	userID, _ := h.contextManager.GetUserIDFromContext(r.Context())

	result, err := h.likes.ToggleLike(r.Context(), id, userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordStarToggle()
	}

	writeJSON(w, http.StatusOK, toggleResponse{
		Project: toProjectResponse(result.Project),
		Liked:   result.Liked,
		Count:   result.Count,
	})
}
