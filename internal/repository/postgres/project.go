package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/projectfair/server/internal/model"
)

var _ model.ProjectStore = (*ProjectRepository)(nil)

type ProjectRepository struct {
	db *Connection
}

func NewProjectRepository(db *Connection) *ProjectRepository {
	return &ProjectRepository{
		db: db,
	}
}

const projectColumns = `id, owner_id, title, overview, thumbnail, github, link, points, created_at, updated_at`

func (r *ProjectRepository) ListAll(ctx context.Context) ([]model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	return r.collectProjects(ctx, rows)
}

func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects by owner: %w", err)
	}
	defer rows.Close()

	return r.collectProjects(ctx, rows)
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	var project model.Project
	err := r.db.QueryRow(ctx, query, id).Scan(
		&project.ID, &project.OwnerID, &project.Title, &project.Overview,
		&project.Thumbnail, &project.Github, &project.Link, &project.Points,
		&project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Project{}, model.ErrNotFound
		}
		return model.Project{}, fmt.Errorf("failed to get project by id: %w", err)
	}

	likes, err := r.loadLikes(ctx, []uuid.UUID{project.ID})
	if err != nil {
		return model.Project{}, err
	}
	project.Likes = likes[project.ID]

	return project, nil
}

func (r *ProjectRepository) Create(ctx context.Context, project model.Project) (model.Project, error) {
	query := `INSERT INTO projects (id, owner_id, title, overview, thumbnail, github, link, points, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			  RETURNING ` + projectColumns

	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}

	var saved model.Project
	err := r.db.QueryRow(ctx, query,
		project.ID, project.OwnerID, project.Title, project.Overview,
		project.Thumbnail, project.Github, project.Link, project.Points,
	).Scan(
		&saved.ID, &saved.OwnerID, &saved.Title, &saved.Overview,
		&saved.Thumbnail, &saved.Github, &saved.Link, &saved.Points,
		&saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to create project: %w", err)
	}

	return saved, nil
}

func (r *ProjectRepository) Replace(ctx context.Context, id uuid.UUID, project model.Project) error {
	query := `UPDATE projects
			  SET title = $2, overview = $3, thumbnail = $4, github = $5, link = $6, points = $7, updated_at = NOW()
			  WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		id, project.Title, project.Overview, project.Thumbnail,
		project.Github, project.Link, project.Points,
	)
	if err != nil {
		return fmt.Errorf("failed to replace project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// AddToLikeSet inserts userID into the project's like set. Adding an
// existing member is a no-op, which keeps concurrent toggles from
// different clients commutative.
func (r *ProjectRepository) AddToLikeSet(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	query := `INSERT INTO project_likes (project_id, user_id) VALUES ($1, $2)
			  ON CONFLICT (project_id, user_id) DO NOTHING`

	if _, err := r.db.Exec(ctx, query, id, userID); err != nil {
		return fmt.Errorf("failed to add to like set: %w", err)
	}

	return nil
}

// RemoveFromLikeSet deletes userID from the project's like set. Removing
// an absent member is a no-op.
func (r *ProjectRepository) RemoveFromLikeSet(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	query := `DELETE FROM project_likes WHERE project_id = $1 AND user_id = $2`

	if _, err := r.db.Exec(ctx, query, id, userID); err != nil {
		return fmt.Errorf("failed to remove from like set: %w", err)
	}

	return nil
}

func (r *ProjectRepository) collectProjects(ctx context.Context, rows pgx.Rows) ([]model.Project, error) {
	projects := []model.Project{}
	ids := []uuid.UUID{}

	for rows.Next() {
		var project model.Project
		err := rows.Scan(
			&project.ID, &project.OwnerID, &project.Title, &project.Overview,
			&project.Thumbnail, &project.Github, &project.Link, &project.Points,
			&project.CreatedAt, &project.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
		ids = append(ids, project.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read projects: %w", err)
	}

	if len(ids) == 0 {
		return projects, nil
	}

	likes, err := r.loadLikes(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].Likes = likes[projects[i].ID]
	}

	return projects, nil
}

func (r *ProjectRepository) loadLikes(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	query := `SELECT project_id, user_id FROM project_likes
			  WHERE project_id = ANY($1) ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load like sets: %w", err)
	}
	defer rows.Close()

	likes := map[uuid.UUID][]uuid.UUID{}
	for rows.Next() {
		var projectID, userID uuid.UUID
		if err := rows.Scan(&projectID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan like entry: %w", err)
		}
		likes[projectID] = append(likes[projectID], userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read like sets: %w", err)
	}

	return likes, nil
}
