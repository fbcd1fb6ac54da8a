package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/projectfair/server/internal/logger"
	"github.com/projectfair/server/internal/mocks"
	"github.com/projectfair/server/internal/model"
)

func newTestScope(t *testing.T, stored model.StoredIdentity) *Scope {
	t.Helper()

	identities := &mocks.IdentityStore{}
	identities.On("GetByEmail", mock.Anything, stored.Email).Return(stored, nil).Maybe()

	tokens := &mocks.TokenManager{}

	return NewService(identities, tokens, logger.New(0)).NewScope()
}

func storedIdentity(t *testing.T, email, password string) model.StoredIdentity {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return model.StoredIdentity{ID: uuid.New(), Email: email, PasswordHash: hash}
}

func TestScope_ListenerFiresAtSubscription(t *testing.T) {
	scope := newTestScope(t, storedIdentity(t, "a@b.c", "password1"))

	var fired []*model.Identity
	scope.CurrentIdentityChanged(func(identity *model.Identity) {
		fired = append(fired, identity)
	})

	require.Len(t, fired, 1)
	assert.Nil(t, fired[0])
}

func TestScope_ListenerFiresOnSignInAndSignOut(t *testing.T) {
	ctx := context.Background()
	stored := storedIdentity(t, "a@b.c", "password1")
	scope := newTestScope(t, stored)

	var fired []*model.Identity
	scope.CurrentIdentityChanged(func(identity *model.Identity) {
		fired = append(fired, identity)
	})

	_, err := scope.VerifyIdentity(ctx, "a@b.c", "password1")
	require.NoError(t, err)

	require.NoError(t, scope.SignOut(ctx))

	require.Len(t, fired, 3)
	assert.Nil(t, fired[0])
	require.NotNil(t, fired[1])
	assert.Equal(t, stored.ID, fired[1].ID)
	assert.Nil(t, fired[2])
}

func TestScope_FailedVerifyDoesNotNotify(t *testing.T) {
	ctx := context.Background()
	scope := newTestScope(t, storedIdentity(t, "a@b.c", "password1"))

	var fired int
	scope.CurrentIdentityChanged(func(*model.Identity) { fired++ })

	_, err := scope.VerifyIdentity(ctx, "a@b.c", "wrong-password")
	require.Error(t, err)

	assert.Equal(t, 1, fired) // only the subscription firing
}

func TestScope_Unsubscribe(t *testing.T) {
	ctx := context.Background()
	scope := newTestScope(t, storedIdentity(t, "a@b.c", "password1"))

	var fired int
	unsubscribe := scope.CurrentIdentityChanged(func(*model.Identity) { fired++ })
	unsubscribe()

	_, err := scope.VerifyIdentity(ctx, "a@b.c", "password1")
	require.NoError(t, err)

	assert.Equal(t, 1, fired)
}
