package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/projectfair/server/internal/logger"
	"github.com/projectfair/server/internal/model"
)

const minPasswordLength = 6

// Service implements credential operations against the identity store.
// It is shared across sessions; per-session sign-in state lives in Scope.
type Service struct {
	identities model.IdentityStore
	tokens     model.TokenManager
	logger     *logger.Logger
}

// NewService creates a new identity Service.
func NewService(identities model.IdentityStore, tokens model.TokenManager, logger *logger.Logger) *Service {
	return &Service{
		identities: identities,
		tokens:     tokens,
		logger:     logger,
	}
}

// CreateIdentity registers a new identity. It does not sign the identity
// in; callers verify the credentials afterwards to establish a session.
func (s *Service) CreateIdentity(ctx context.Context, email, password string) (model.Identity, error) {
	s.logger.Debug("Identity service: creating identity", "email", email)

	if len(password) < minPasswordLength {
		return model.Identity{}, model.ErrWeakCredential
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.Identity{}, fmt.Errorf("failed to hash password: %w", err)
	}

	stored, err := s.identities.Create(ctx, model.StoredIdentity{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, model.ErrEmailInUse) {
			s.logger.Info("Identity service: email already registered", "email", email)
			return model.Identity{}, model.ErrEmailInUse
		}
		s.logger.Error("Identity service: failed to create identity",
			"email", email,
			"error", err.Error())
		return model.Identity{}, fmt.Errorf("failed to create identity: %w", err)
	}

	s.logger.Info("Identity service: identity created",
		"email", email,
		"identity_id", stored.ID)

	return model.Identity{ID: stored.ID, Email: stored.Email}, nil
}

// VerifyIdentity checks the credentials and returns the matching identity.
func (s *Service) VerifyIdentity(ctx context.Context, email, password string) (model.Identity, error) {
	s.logger.Debug("Identity service: verifying identity", "email", email)

	stored, err := s.identities.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.Identity{}, model.ErrIdentityNotFound
	}
	if err != nil {
		return model.Identity{}, fmt.Errorf("failed to get identity by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(stored.PasswordHash, []byte(password)); err != nil {
		s.logger.Info("Identity service: wrong password", "email", email)
		return model.Identity{}, model.ErrWrongPassword
	}

	return model.Identity{ID: stored.ID, Email: stored.Email}, nil
}

// IssueToken creates a fresh bearer token for the identity.
func (s *Service) IssueToken(ctx context.Context, identityID uuid.UUID) (string, error) {
	token, err := s.tokens.GenerateSessionToken(identityID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// GetUserID resolves the user ID carried by a bearer token.
func (s *Service) GetUserID(ctx context.Context, token string) (uuid.UUID, error) {
	return s.tokens.ParseSessionToken(token)
}
