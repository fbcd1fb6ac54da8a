package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/projectfair/server/internal/model"
)

var _ model.ProfileStore = (*ProfileRepository)(nil)

type ProfileRepository struct {
	db *Connection
}

func NewProfileRepository(db *Connection) *ProfileRepository {
	return &ProfileRepository{
		db: db,
	}
}

func (r *ProfileRepository) Get(ctx context.Context, uid uuid.UUID) (model.Profile, error) {
	var profile model.Profile
	query := `SELECT uid, name, email, profile_image, designation, github, linkedin, created_at, updated_at
			  FROM profiles WHERE uid = $1`

	err := r.db.QueryRow(ctx, query, uid).Scan(
		&profile.UID, &profile.Name, &profile.Email, &profile.ProfileImage,
		&profile.Designation, &profile.Github, &profile.Linkedin,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// Write replaces the profile document with exactly the given fields,
// creating it when absent.
func (r *ProfileRepository) Write(ctx context.Context, uid uuid.UUID, fields model.ProfileFields) (model.Profile, error) {
	query := `INSERT INTO profiles (uid, name, email, profile_image, designation, github, linkedin, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
			  ON CONFLICT (uid) DO UPDATE SET
				  name = EXCLUDED.name,
				  email = EXCLUDED.email,
				  profile_image = EXCLUDED.profile_image,
				  designation = EXCLUDED.designation,
				  github = EXCLUDED.github,
				  linkedin = EXCLUDED.linkedin,
				  updated_at = NOW()
			  RETURNING uid, name, email, profile_image, designation, github, linkedin, created_at, updated_at`

	var saved model.Profile
	err := r.db.QueryRow(ctx, query,
		uid, fields.Name, fields.Email, fields.ProfileImage,
		fields.Designation, fields.Github, fields.Linkedin,
	).Scan(
		&saved.UID, &saved.Name, &saved.Email, &saved.ProfileImage,
		&saved.Designation, &saved.Github, &saved.Linkedin,
		&saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to write profile: %w", err)
	}

	return saved, nil
}
