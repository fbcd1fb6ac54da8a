package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectfair/server/internal/identity"
	"github.com/projectfair/server/internal/model"
	"github.com/projectfair/server/internal/testutil"
	"github.com/projectfair/server/internal/token"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	log := testutil.DiscardLogger()
	identities := newFakeIdentityStore()
	profiles := newFakeProfileStore()
	creds := newFakeCredentialCache()
	tokens := token.NewJWT("test-secret", time.Minute)
	service := identity.NewService(identities, tokens, log)

	r := NewRegistry(context.Background(), func() *Store {
		return NewStore(service.NewScope(), profiles, creds, time.Minute, log)
	}, log)
	t.Cleanup(r.Close)

	return r
}

func TestRegistry_SignUpRegistersSession(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	sess, err := r.SignUp(ctx, "Alice", "alice@example.com", "password1")
	require.NoError(t, err)
	require.True(t, sess.Authenticated)

	got, ok := r.Session(sess.UID)
	require.True(t, ok)
	assert.Equal(t, sess.UID, got.UID)
}

func TestRegistry_FailedLoginRegistersNothing(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.LogIn(context.Background(), "nobody@example.com", "password1")
	require.Error(t, err)
}

func TestRegistry_ReloginReplacesSession(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	first, err := r.SignUp(ctx, "Alice", "alice@example.com", "password1")
	require.NoError(t, err)

	second, err := r.LogIn(ctx, "alice@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, first.UID, second.UID)

	got, ok := r.Session(first.UID)
	require.True(t, ok)
	assert.True(t, got.Authenticated)
}

func TestRegistry_LogOutDropsSession(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	sess, err := r.SignUp(ctx, "Alice", "alice@example.com", "password1")
	require.NoError(t, err)

	out, err := r.LogOut(ctx, sess.UID)
	require.NoError(t, err)
	assert.Equal(t, model.StateAnonymous, out.State)

	_, ok := r.Session(sess.UID)
	assert.False(t, ok)
}

func TestRegistry_LogOutUnknownUser(t *testing.T) {
	r := newTestRegistry(t)

	sess, err := r.LogOut(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, model.StateAnonymous, sess.State)
}

func TestRegistry_StoreCreatesOnDemand(t *testing.T) {
	r := newTestRegistry(t)

	uid := uuid.New()
	store := r.Store(uid)
	require.NotNil(t, store)

	// same store on repeat lookups
	assert.Same(t, store, r.Store(uid))
}
