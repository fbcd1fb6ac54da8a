package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectfair/server/internal/api/http/httpctx"
	"github.com/projectfair/server/internal/identity"
	"github.com/projectfair/server/internal/model"
	"github.com/projectfair/server/internal/session"
	"github.com/projectfair/server/internal/testutil"
	"github.com/projectfair/server/internal/token"
)

type memIdentityStore struct {
	mu      sync.Mutex
	byEmail map[string]model.StoredIdentity
}

func (m *memIdentityStore) Create(_ context.Context, si model.StoredIdentity) (model.StoredIdentity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[si.Email]; ok {
		return model.StoredIdentity{}, model.ErrEmailInUse
	}
	m.byEmail[si.Email] = si
	return si, nil
}

func (m *memIdentityStore) GetByEmail(_ context.Context, email string) (model.StoredIdentity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	si, ok := m.byEmail[email]
	if !ok {
		return model.StoredIdentity{}, model.ErrNotFound
	}
	return si, nil
}

func (m *memIdentityStore) GetByID(_ context.Context, id uuid.UUID) (model.StoredIdentity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, si := range m.byEmail {
		if si.ID == id {
			return si, nil
		}
	}
	return model.StoredIdentity{}, model.ErrNotFound
}

type memProfileStore struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]model.Profile
}

func (m *memProfileStore) Get(_ context.Context, uid uuid.UUID) (model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[uid]
	if !ok {
		return model.Profile{}, model.ErrNotFound
	}
	return p, nil
}

func (m *memProfileStore) Write(_ context.Context, uid uuid.UUID, fields model.ProfileFields) (model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := model.Profile{
		UID:          uid,
		Name:         fields.Name,
		Email:        fields.Email,
		ProfileImage: fields.ProfileImage,
		Designation:  fields.Designation,
		Github:       fields.Github,
		Linkedin:     fields.Linkedin,
	}
	m.profiles[uid] = p
	return p, nil
}

type memCredentialCache struct {
	mu    sync.Mutex
	creds map[uuid.UUID]model.CachedCredential
}

func (m *memCredentialCache) Set(_ context.Context, userID uuid.UUID, cred model.CachedCredential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds[userID] = cred
	return nil
}

func (m *memCredentialCache) Get(_ context.Context, userID uuid.UUID) (model.CachedCredential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cred, ok := m.creds[userID]
	if !ok {
		return model.CachedCredential{}, model.ErrNotFound
	}
	return cred, nil
}

func (m *memCredentialCache) Remove(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.creds, userID)
	return nil
}

type authFixture struct {
	router chi.Router
	ctxMgr *httpctx.Manager
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	log := testutil.DiscardLogger()
	identities := &memIdentityStore{byEmail: make(map[string]model.StoredIdentity)}
	profiles := &memProfileStore{profiles: make(map[uuid.UUID]model.Profile)}
	creds := &memCredentialCache{creds: make(map[uuid.UUID]model.CachedCredential)}
	tokens := token.NewJWT("test-secret", time.Minute)
	service := identity.NewService(identities, tokens, log)

	sessions := session.NewRegistry(context.Background(), func() *session.Store {
		return session.NewStore(service.NewScope(), profiles, creds, time.Minute, log)
	}, log)
	t.Cleanup(sessions.Close)

	ctxMgr := httpctx.NewManager()
	h := NewAuth(sessions, ctxMgr, nil, log)

	r := chi.NewRouter()
	r.Post("/api/auth/signup", h.SignUp)
	r.Post("/api/auth/login", h.LogIn)
	r.Post("/api/auth/logout", h.LogOut)
	r.Get("/api/session", h.Session)

	return &authFixture{router: r, ctxMgr: ctxMgr}
}

func (f *authFixture) post(t *testing.T, path string, payload any, userID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	if userID != uuid.Nil {
		req = req.WithContext(f.ctxMgr.SetUserIDToContext(req.Context(), userID))
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestAuth_SignUp_ReturnsSessionAndToken(t *testing.T) {
	f := newAuthFixture(t)

	rec := f.post(t, "/api/auth/signup", signupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password1",
	}, uuid.Nil)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Session.Authenticated)
	assert.Equal(t, "Alice", resp.Session.Name)
	assert.NotEmpty(t, resp.Token)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
}

func TestAuth_SignUp_MissingFields(t *testing.T) {
	f := newAuthFixture(t)

	rec := f.post(t, "/api/auth/signup", signupRequest{Email: "alice@example.com"}, uuid.Nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "All fields are required!", resp.Error)
}

func TestAuth_SignUp_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)

	first := f.post(t, "/api/auth/signup", signupRequest{Name: "Alice", Email: "alice@example.com", Password: "password1"}, uuid.Nil)
	require.Equal(t, http.StatusCreated, first.Code)

	second := f.post(t, "/api/auth/signup", signupRequest{Name: "Bob", Email: "alice@example.com", Password: "password2"}, uuid.Nil)
	require.Equal(t, http.StatusConflict, second.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.Equal(t, "email already in use", resp.Error)
}

func TestAuth_LogIn_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)

	rec := f.post(t, "/api/auth/signup", signupRequest{Name: "Alice", Email: "alice@example.com", Password: "password1"}, uuid.Nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.post(t, "/api/auth/login", loginRequest{Email: "alice@example.com", Password: "wrong-one"}, uuid.Nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "wrong password", resp.Error)
}

func TestAuth_LogIn_UnknownUser(t *testing.T) {
	f := newAuthFixture(t)

	rec := f.post(t, "/api/auth/login", loginRequest{Email: "nobody@example.com", Password: "password1"}, uuid.Nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "user not found", resp.Error)
}

func TestAuth_LogOutThenSessionRehydrates(t *testing.T) {
	f := newAuthFixture(t)

	rec := f.post(t, "/api/auth/signup", signupRequest{Name: "Alice", Email: "alice@example.com", Password: "password1"}, uuid.Nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var signedUp authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signedUp))
	uid := signedUp.Session.UID

	rec = f.post(t, "/api/auth/logout", nil, uid)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// a later request with a still-valid token rebuilds the session
	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req = req.WithContext(f.ctxMgr.SetUserIDToContext(req.Context(), uid))
	getRec := httptest.NewRecorder()
	f.router.ServeHTTP(getRec, req)
	require.Equal(t, http.StatusOK, getRec.Code)

	var sess sessionResponse
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &sess))
	assert.True(t, sess.Authenticated)
	assert.Equal(t, "Alice", sess.Name)
}
