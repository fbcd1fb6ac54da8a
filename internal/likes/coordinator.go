package likes

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/projectfair/server/internal/logger"
	"github.com/projectfair/server/internal/model"
)

// ToggleResult is the reconciled outcome of a star toggle.
type ToggleResult struct {
	Project model.Project
	Liked   bool
	Count   int
}

// Coordinator toggles a user's membership in a project's like set. The
// toggle direction is decided optimistically from the last read; the set
// semantics of the store make concurrent toggles commute, and a refetch
// after the write settles reconciles the result.
type Coordinator struct {
	projects model.ProjectStore
	logger   *logger.Logger
}

// NewCoordinator creates a like coordinator over the given project store.
func NewCoordinator(projects model.ProjectStore, logger *logger.Logger) *Coordinator {
	return &Coordinator{
		projects: projects,
		logger:   logger,
	}
}

// ToggleLike flips userID's membership in the project's like set and
// returns the reconciled project. Anonymous users are refused before any
// store call with a message prompting them to log in.
func (c *Coordinator) ToggleLike(ctx context.Context, projectID, userID uuid.UUID) (ToggleResult, error) {
	if userID == uuid.Nil {
		return ToggleResult{}, fmt.Errorf("%w: log in to star projects", model.ErrNotAuthenticated)
	}

	project, err := c.projects.GetByID(ctx, projectID)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("failed to get project: %w", err)
	}

	liked := project.LikedBy(userID)
	if liked {
		err = c.projects.RemoveFromLikeSet(ctx, projectID, userID)
	} else {
		err = c.projects.AddToLikeSet(ctx, projectID, userID)
	}
	if err != nil {
		// the refetch below reconciles whatever state the write left behind
		c.logger.Error("Like coordinator: toggle write failed",
			"project_id", projectID,
			"user_id", userID,
			"error", err.Error())
	}

	refreshed, err := c.projects.GetByID(ctx, projectID)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("failed to refetch project: %w", err)
	}

	c.logger.Debug("Like coordinator: toggled",
		"project_id", projectID,
		"user_id", userID,
		"liked", refreshed.LikedBy(userID))

	return ToggleResult{
		Project: refreshed,
		Liked:   refreshed.LikedBy(userID),
		Count:   refreshed.LikeCount(),
	}, nil
}
