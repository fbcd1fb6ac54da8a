package projects

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/projectfair/server/internal/logger"
	"github.com/projectfair/server/internal/model"
)

// Submission is the user-provided project form.
type Submission struct {
	Title     string
	Overview  string
	Thumbnail string
	Github    string
	Link      string
	Points    []string
}

// ThumbnailRemover deletes an uploaded thumbnail by its public URL.
type ThumbnailRemover interface {
	Remove(ctx context.Context, url string) error
}

// Directory implements project CRUD over the project store. Writes are
// validated at the boundary and guarded by ownership checks. Thumbnails
// that a write orphans are removed best-effort through thumbnails.
type Directory struct {
	store      model.ProjectStore
	thumbnails ThumbnailRemover
	logger     *logger.Logger
}

// NewDirectory creates a project directory over the given store.
// thumbnails may be nil, in which case orphaned thumbnails are kept.
func NewDirectory(store model.ProjectStore, thumbnails ThumbnailRemover, logger *logger.Logger) *Directory {
	return &Directory{
		store:      store,
		thumbnails: thumbnails,
		logger:     logger,
	}
}

// ListAll returns every project, newest first.
func (d *Directory) ListAll(ctx context.Context) ([]model.Project, error) {
	projects, err := d.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// ListByOwner returns the owner's projects, newest first.
func (d *Directory) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Project, error) {
	projects, err := d.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects by owner: %w", err)
	}
	return projects, nil
}

// Get returns the project by ID.
func (d *Directory) Get(ctx context.Context, id uuid.UUID) (model.Project, error) {
	project, err := d.store.GetByID(ctx, id)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// Add validates the submission and creates a project owned by ownerID.
func (d *Directory) Add(ctx context.Context, ownerID uuid.UUID, sub Submission) (model.Project, error) {
	points, err := validateSubmission(sub)
	if err != nil {
		return model.Project{}, err
	}

	project, err := d.store.Create(ctx, model.Project{
		Title:     sub.Title,
		Overview:  sub.Overview,
		Thumbnail: sub.Thumbnail,
		Github:    sub.Github,
		Link:      sub.Link,
		Points:    points,
		OwnerID:   ownerID,
	})
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to create project: %w", err)
	}

	d.logger.Info("Project directory: project added",
		"project_id", project.ID,
		"owner_id", ownerID)

	return project, nil
}

// Update validates the submission and replaces the project's fields.
// Only the owner may update a project.
func (d *Directory) Update(ctx context.Context, id, ownerID uuid.UUID, sub Submission) (model.Project, error) {
	points, err := validateSubmission(sub)
	if err != nil {
		return model.Project{}, err
	}

	existing, err := d.store.GetByID(ctx, id)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to get project: %w", err)
	}

	if existing.OwnerID != ownerID {
		return model.Project{}, model.ErrNotOwner
	}

	replacedThumbnail := existing.Thumbnail

	existing.Title = sub.Title
	existing.Overview = sub.Overview
	existing.Thumbnail = sub.Thumbnail
	existing.Github = sub.Github
	existing.Link = sub.Link
	existing.Points = points

	if err := d.store.Replace(ctx, id, existing); err != nil {
		return model.Project{}, fmt.Errorf("failed to replace project: %w", err)
	}

	updated, err := d.store.GetByID(ctx, id)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to get project: %w", err)
	}

	if replacedThumbnail != sub.Thumbnail {
		d.removeThumbnail(ctx, id, replacedThumbnail)
	}

	d.logger.Info("Project directory: project updated", "project_id", id)

	return updated, nil
}

// Delete removes the project. Only the owner may delete a project.
func (d *Directory) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	existing, err := d.store.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}

	if existing.OwnerID != ownerID {
		return model.ErrNotOwner
	}

	if err := d.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	d.removeThumbnail(ctx, id, existing.Thumbnail)

	d.logger.Info("Project directory: project deleted",
		"project_id", id,
		"owner_id", ownerID)

	return nil
}

// removeThumbnail drops a thumbnail the project no longer references.
// Failures are logged, not returned: the project write already succeeded.
func (d *Directory) removeThumbnail(ctx context.Context, id uuid.UUID, url string) {
	if d.thumbnails == nil || url == "" {
		return
	}
	if err := d.thumbnails.Remove(ctx, url); err != nil {
		d.logger.Error("Project directory: failed to remove thumbnail",
			"project_id", id,
			"error", err)
	}
}

// validateSubmission checks the form and returns the non-empty description
// points that will be stored. No store call happens before it passes.
func validateSubmission(sub Submission) ([]string, error) {
	if sub.Thumbnail == "" {
		return nil, model.NewValidationError("Thumbnail for project is required")
	}
	if sub.Github == "" {
		return nil, model.NewValidationError("Project's repository link required")
	}
	if sub.Title == "" {
		return nil, model.NewValidationError("Project's Title required")
	}
	if sub.Overview == "" {
		return nil, model.NewValidationError("Project's Overview required")
	}

	points := make([]string, 0, len(sub.Points))
	for _, p := range sub.Points {
		if strings.TrimSpace(p) != "" {
			points = append(points, p)
		}
	}

	if len(points) == 0 {
		return nil, model.NewValidationError("Description of Project is required")
	}
	if len(points) < model.MinDescriptionPoints {
		return nil, model.NewValidationError("Minimum 2 description points required")
	}
	if len(points) > model.MaxDescriptionPoints {
		return nil, model.NewValidationError("Maximum 5 description points allowed")
	}

	return points, nil
}
