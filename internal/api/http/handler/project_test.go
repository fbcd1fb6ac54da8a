package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/projectfair/server/internal/api/http/httpctx"
	"github.com/projectfair/server/internal/likes"
	"github.com/projectfair/server/internal/mocks"
	"github.com/projectfair/server/internal/model"
	"github.com/projectfair/server/internal/projects"
	"github.com/projectfair/server/internal/testutil"
)

type projectsFixture struct {
	handler *Projects
	store   *mocks.ProjectStore
	router  chi.Router
	ctxMgr  *httpctx.Manager
}

func newProjectsFixture(t *testing.T) *projectsFixture {
	t.Helper()

	log := testutil.DiscardLogger()
	store := &mocks.ProjectStore{}
	ctxMgr := httpctx.NewManager()

	h := NewProjects(
		projects.NewDirectory(store, nil, log),
		likes.NewCoordinator(store, log),
		ctxMgr,
		nil,
		log,
	)

	r := chi.NewRouter()
	r.Get("/api/projects", h.List)
	r.Get("/api/projects/{projectID}", h.Get)
	r.Get("/api/users/{userID}/projects", h.ListByOwner)
	r.Post("/api/projects", h.Create)
	r.Put("/api/projects/{projectID}", h.Update)
	r.Delete("/api/projects/{projectID}", h.Delete)
	r.Post("/api/projects/{projectID}/star", h.ToggleStar)

	return &projectsFixture{handler: h, store: store, router: r, ctxMgr: ctxMgr}
}

func (f *projectsFixture) do(req *http.Request, userID uuid.UUID) *httptest.ResponseRecorder {
	if userID != uuid.Nil {
		req = req.WithContext(f.ctxMgr.SetUserIDToContext(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestProjects_List(t *testing.T) {
	f := newProjectsFixture(t)

	f.store.On("ListAll", mock.Anything).Return([]model.Project{
		{ID: uuid.New(), Title: "First"},
		{ID: uuid.New(), Title: "Second"},
	}, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/projects", nil), uuid.Nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []projectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "First", got[0].Title)
}

func TestProjects_Get_NotFound(t *testing.T) {
	f := newProjectsFixture(t)

	f.store.On("GetByID", mock.Anything, mock.Anything).Return(model.Project{}, model.ErrNotFound)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/projects/"+uuid.NewString(), nil), uuid.Nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjects_Create_ValidationMessage(t *testing.T) {
	f := newProjectsFixture(t)

	body, err := json.Marshal(projectRequest{
		Title:     "No thumbnail",
		Overview:  "overview",
		Github:    "https://github.com/x/y",
		Points:    []string{"a", "b"},
		Thumbnail: "",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewReader(body))
	rec := f.do(req, uuid.New())

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Thumbnail for project is required", resp.Error)
	f.store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProjects_Create_Success(t *testing.T) {
	f := newProjectsFixture(t)
	ownerID := uuid.New()

	f.store.On("Create", mock.Anything, mock.MatchedBy(func(p model.Project) bool {
		return p.OwnerID == ownerID
	})).Return(model.Project{ID: uuid.New(), OwnerID: ownerID, Title: "Fair"}, nil)

	body, err := json.Marshal(projectRequest{
		Title:     "Fair",
		Overview:  "overview",
		Thumbnail: "http://storage.local/thumbnails/x.png",
		Github:    "https://github.com/x/y",
		Points:    []string{"a", "b"},
	})
	require.NoError(t, err)

	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewReader(body)), ownerID)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestProjects_Update_NotOwner(t *testing.T) {
	f := newProjectsFixture(t)
	projectID := uuid.New()

	f.store.On("GetByID", mock.Anything, projectID).Return(model.Project{ID: projectID, OwnerID: uuid.New()}, nil)

	body, err := json.Marshal(projectRequest{
		Title:     "Fair",
		Overview:  "overview",
		Thumbnail: "thumb",
		Github:    "gh",
		Points:    []string{"a", "b"},
	})
	require.NoError(t, err)

	rec := f.do(httptest.NewRequest(http.MethodPut, "/api/projects/"+projectID.String(), bytes.NewReader(body)), uuid.New())

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProjects_ToggleStar_AnonymousRefused(t *testing.T) {
	f := newProjectsFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/projects/"+uuid.NewString()+"/star", nil), uuid.Nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "log in")
	f.store.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestProjects_ToggleStar_Authenticated(t *testing.T) {
	f := newProjectsFixture(t)
	projectID := uuid.New()
	userID := uuid.New()

	f.store.On("GetByID", mock.Anything, projectID).Return(model.Project{ID: projectID}, nil).Once()
	f.store.On("AddToLikeSet", mock.Anything, projectID, userID).Return(nil).Once()
	f.store.On("GetByID", mock.Anything, projectID).Return(model.Project{ID: projectID, Likes: []uuid.UUID{userID}}, nil).Once()

	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/projects/"+projectID.String()+"/star", nil), userID)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp toggleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Liked)
	assert.Equal(t, 1, resp.Count)
}

func TestProjects_Delete_Success(t *testing.T) {
	f := newProjectsFixture(t)
	projectID := uuid.New()
	ownerID := uuid.New()

	f.store.On("GetByID", mock.Anything, projectID).Return(model.Project{ID: projectID, OwnerID: ownerID}, nil)
	f.store.On("Delete", mock.Anything, projectID).Return(nil)

	rec := f.do(httptest.NewRequest(http.MethodDelete, "/api/projects/"+projectID.String(), nil), ownerID)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
