package model

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the minimal result of a successful credential operation.
// The full profile lives in the ProfileStore and is loaded separately.
type Identity struct {
	ID    uuid.UUID
	Email string
}

// IdentityListener is invoked with the current identity, or nil when no
// identity is signed in.
type IdentityListener func(identity *Identity)

// Unsubscribe cancels an identity-change subscription.
type Unsubscribe func()

// IdentityProvider authenticates credentials and issues bearer tokens.
// CurrentIdentityChanged fires the listener once at subscription time with
// the current identity and again on every sign-in and sign-out.
type IdentityProvider interface {
	CreateIdentity(ctx context.Context, email, password string) (Identity, error)
	VerifyIdentity(ctx context.Context, email, password string) (Identity, error)
	IssueToken(ctx context.Context, identityID uuid.UUID) (string, error)
	SignOut(ctx context.Context) error
	CurrentIdentityChanged(listener IdentityListener) Unsubscribe
}

// IdentityStore persists identity credentials.
type IdentityStore interface {
	Create(ctx context.Context, identity StoredIdentity) (StoredIdentity, error)
	GetByEmail(ctx context.Context, email string) (StoredIdentity, error)
	GetByID(ctx context.Context, id uuid.UUID) (StoredIdentity, error)
}

// StoredIdentity is an identity row with its password hash.
type StoredIdentity struct {
	ID           uuid.UUID
	Email        string
	PasswordHash []byte
}
