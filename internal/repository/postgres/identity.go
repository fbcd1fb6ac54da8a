package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/projectfair/server/internal/model"
)

var _ model.IdentityStore = (*IdentityRepository)(nil)

// uniqueViolation is the postgres error code for unique constraint breaks.
const uniqueViolation = "23505"

type IdentityRepository struct {
	db *Connection
}

func NewIdentityRepository(db *Connection) *IdentityRepository {
	return &IdentityRepository{
		db: db,
	}
}

func (r *IdentityRepository) Create(ctx context.Context, identity model.StoredIdentity) (model.StoredIdentity, error) {
	query := `INSERT INTO identities (id, email, password_hash, created_at, updated_at)
			  VALUES ($1, $2, $3, NOW(), NOW())
			  RETURNING id, email, password_hash`

	var saved model.StoredIdentity
	err := r.db.QueryRow(ctx, query,
		identity.ID, identity.Email, identity.PasswordHash,
	).Scan(&saved.ID, &saved.Email, &saved.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.StoredIdentity{}, model.ErrEmailInUse
		}
		return model.StoredIdentity{}, fmt.Errorf("failed to create identity: %w", err)
	}

	return saved, nil
}

func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (model.StoredIdentity, error) {
	var identity model.StoredIdentity
	query := `SELECT id, email, password_hash FROM identities WHERE email = $1`

	err := r.db.QueryRow(ctx, query, email).Scan(&identity.ID, &identity.Email, &identity.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.StoredIdentity{}, model.ErrNotFound
		}
		return model.StoredIdentity{}, fmt.Errorf("failed to get identity by email: %w", err)
	}

	return identity, nil
}

func (r *IdentityRepository) GetByID(ctx context.Context, id uuid.UUID) (model.StoredIdentity, error) {
	var identity model.StoredIdentity
	query := `SELECT id, email, password_hash FROM identities WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(&identity.ID, &identity.Email, &identity.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.StoredIdentity{}, model.ErrNotFound
		}
		return model.StoredIdentity{}, fmt.Errorf("failed to get identity by id: %w", err)
	}

	return identity, nil
}
