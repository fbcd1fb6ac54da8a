package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Bounds on the number of non-empty description points a project may carry
// at submission time.
const (
	MinDescriptionPoints = 2
	MaxDescriptionPoints = 5
)

// ProjectStore defines persistence operations for projects. AddToLikeSet
// and RemoveFromLikeSet are atomic set operations: adding an existing
// member or removing an absent one is a no-op, never an error, so
// concurrent toggles from different clients cannot lose updates.
type ProjectStore interface {
	ListAll(ctx context.Context) ([]Project, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (Project, error)
	Create(ctx context.Context, project Project) (Project, error)
	Replace(ctx context.Context, id uuid.UUID, project Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddToLikeSet(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	RemoveFromLikeSet(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

// Project is a user-submitted showcase record.
type Project struct {
	ID        uuid.UUID
	Title     string
	Overview  string
	Thumbnail string
	Github    string
	Link      string
	Points    []string
	OwnerID   uuid.UUID
	Likes     []uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LikedBy reports whether userID is a member of the project's like set.
func (p Project) LikedBy(userID uuid.UUID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// LikeCount returns the size of the like set.
func (p Project) LikeCount() int {
	return len(p.Likes)
}
