package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/projectfair/server/internal/logger"
	"github.com/projectfair/server/internal/metrics"
	"github.com/projectfair/server/internal/model"
	"github.com/projectfair/server/internal/upload"
)

// Uploads accepts thumbnail uploads and serves progress polling.
type Uploads struct {
	pipeline       *upload.Pipeline
	tracker        *upload.Tracker
	contextManager model.ContextManager
	metrics        *metrics.Collector
	logger         *logger.Logger
	baseCtx        context.Context
}

// NewUploads creates a new Uploads handler. ctx bounds background
// transfers that outlive their originating request.
func NewUploads(
	ctx context.Context,
	pipeline *upload.Pipeline,
	tracker *upload.Tracker,
	contextManager model.ContextManager,
	metrics *metrics.Collector,
	logger *logger.Logger,
) *Uploads {
	return &Uploads{
		pipeline:       pipeline,
		tracker:        tracker,
		contextManager: contextManager,
		metrics:        metrics,
		logger:         logger,
		baseCtx:        ctx,
	}
}

type uploadAcceptedResponse struct {
	ID uuid.UUID `json:"id"`
}

type uploadTaskResponse struct {
	ID       uuid.UUID `json:"id"`
	Progress float64   `json:"progress"`
	URL      string    `json:"url,omitempty"`
	Error    string    `json:"error,omitempty"`
	Done     bool      `json:"done"`
}

// Create accepts a multipart image upload. Validation failures are
// rejected synchronously; accepted files transfer in the background and
// the response carries the task ID to poll.
func (h *Uploads) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.contextManager.GetUserIDFromContext(r.Context()); !ok {
		writeError(w, h.logger, model.ErrNotAuthenticated)
		return
	}

	if err := r.ParseMultipartForm(upload.MaxFileBytes + 1024); err != nil {
		writeError(w, h.logger, model.NewValidationError("invalid multipart body"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, h.logger, model.NewValidationError("No file selected for upload"))
		return
	}
	defer func() { _ = file.Close() }()

	candidate := upload.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}

	if err := h.pipeline.Validate(candidate); err != nil {
		writeError(w, h.logger, err)
		return
	}

	// buffer the file so the transfer can outlive the request body
	buf, err := io.ReadAll(io.LimitReader(file, upload.MaxFileBytes))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	candidate.Reader = bytes.NewReader(buf)
	candidate.Size = int64(len(buf))

	taskID := h.tracker.Begin()

	go h.transfer(taskID, candidate)

	writeJSON(w, http.StatusAccepted, uploadAcceptedResponse{ID: taskID})
}

func (h *Uploads) transfer(taskID uuid.UUID, file upload.File) {
	url, err := h.pipeline.Upload(h.baseCtx, file, func(percent float64) {
		h.tracker.SetProgress(taskID, percent)
	})
	if err != nil {
		h.tracker.Fail(taskID, err.Error())
		if h.metrics != nil {
			h.metrics.RecordUpload("failure")
		}
		return
	}

	h.tracker.Complete(taskID, url)
	if h.metrics != nil {
		h.metrics.RecordUpload("success")
	}
}

// Get returns the state of an upload task.
func (h *Uploads) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		writeError(w, h.logger, model.NewValidationError("invalid task id"))
		return
	}

	task, ok := h.tracker.Get(id)
	if !ok {
		writeError(w, h.logger, model.ErrNotFound)
		return
	}

	writeJSON(w, http.StatusOK, uploadTaskResponse{
		ID:       task.ID,
		Progress: task.Progress,
		URL:      task.URL,
		Error:    task.Error,
		Done:     task.Done,
	})
}
