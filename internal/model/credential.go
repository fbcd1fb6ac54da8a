package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CachedCredential is the locally persisted token/expiry pair used to
// schedule forced logout.
type CachedCredential struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the credential is past its expiry at now.
func (c CachedCredential) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// CredentialCache is durable client-local storage for cached credentials.
// Cache absence is not an error condition for the session: the credential
// is re-derivable from the identity provider on the next listener firing.
type CredentialCache interface {
	Set(ctx context.Context, userID uuid.UUID, credential CachedCredential) error
	Get(ctx context.Context, userID uuid.UUID) (CachedCredential, error)
	Remove(ctx context.Context, userID uuid.UUID) error
}
