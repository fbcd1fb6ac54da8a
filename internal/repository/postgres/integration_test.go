//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/projectfair/server/internal/model"
	repo "github.com/projectfair/server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "projectfair_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/projectfair_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestRepositories_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	t.Run("identity_repository", func(t *testing.T) {
		ir := repo.NewIdentityRepository(conn)
		id := model.StoredIdentity{
			ID:           uuid.New(),
			Email:        "user@example.com",
			PasswordHash: []byte("$2a$04$hash"),
		}
		saved, err := ir.Create(ctx, id)
		require.NoError(t, err)
		require.Equal(t, id.ID, saved.ID)

		byEmail, err := ir.GetByEmail(ctx, id.Email)
		require.NoError(t, err)
		require.Equal(t, id.ID, byEmail.ID)

		byID, err := ir.GetByID(ctx, id.ID)
		require.NoError(t, err)
		require.Equal(t, id.Email, byID.Email)

		_, err = ir.Create(ctx, model.StoredIdentity{ID: uuid.New(), Email: id.Email, PasswordHash: []byte("x")})
		require.ErrorIs(t, err, model.ErrEmailInUse)

		_, err = ir.GetByEmail(ctx, "missing@example.com")
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("profile_repository", func(t *testing.T) {
		pr := repo.NewProfileRepository(conn)
		uid := uuid.New()

		_, err := pr.Get(ctx, uid)
		require.ErrorIs(t, err, model.ErrNotFound)

		created, err := pr.Write(ctx, uid, model.ProfileFields{
			Name:        "Alice",
			Email:       "alice@example.com",
			Designation: "Engineer",
			Github:      "https://github.com/alice",
		})
		require.NoError(t, err)
		require.Equal(t, uid, created.UID)
		require.Equal(t, "Alice", created.Name)

		// Write replaces the whole document: omitted fields come back empty.
		updated, err := pr.Write(ctx, uid, model.ProfileFields{
			Name:  "Alice B",
			Email: "alice@example.com",
		})
		require.NoError(t, err)
		require.Equal(t, "Alice B", updated.Name)
		require.Empty(t, updated.Designation)
		require.Empty(t, updated.Github)

		got, err := pr.Get(ctx, uid)
		require.NoError(t, err)
		require.Equal(t, updated.Name, got.Name)
	})

	t.Run("project_repository", func(t *testing.T) {
		prj := repo.NewProjectRepository(conn)
		owner := uuid.New()

		first, err := prj.Create(ctx, model.Project{
			OwnerID:   owner,
			Title:     "first",
			Overview:  "overview",
			Thumbnail: "http://img/first.png",
			Github:    "https://github.com/alice/first",
			Points:    []string{"one", "two"},
		})
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, first.ID)

		time.Sleep(10 * time.Millisecond)

		second, err := prj.Create(ctx, model.Project{
			OwnerID: owner,
			Title:   "second",
			Points:  []string{"a", "b"},
		})
		require.NoError(t, err)

		all, err := prj.ListAll(ctx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(all), 2)
		require.Equal(t, second.ID, all[0].ID)

		mine, err := prj.ListByOwner(ctx, owner)
		require.NoError(t, err)
		require.Len(t, mine, 2)

		first.Title = "first renamed"
		require.NoError(t, prj.Replace(ctx, first.ID, first))

		got, err := prj.GetByID(ctx, first.ID)
		require.NoError(t, err)
		require.Equal(t, "first renamed", got.Title)
		require.Equal(t, []string{"one", "two"}, got.Points)

		require.NoError(t, prj.Delete(ctx, second.ID))
		_, err = prj.GetByID(ctx, second.ID)
		require.ErrorIs(t, err, model.ErrNotFound)

		require.ErrorIs(t, prj.Replace(ctx, second.ID, first), model.ErrNotFound)
		require.ErrorIs(t, prj.Delete(ctx, second.ID), model.ErrNotFound)
	})
}

func TestProjectRepository_LikeSet(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	prj := repo.NewProjectRepository(conn)

	project, err := prj.Create(ctx, model.Project{OwnerID: uuid.New(), Title: "starred"})
	require.NoError(t, err)

	fan := uuid.New()

	require.NoError(t, prj.AddToLikeSet(ctx, project.ID, fan))
	// re-adding a member is a no-op
	require.NoError(t, prj.AddToLikeSet(ctx, project.ID, fan))

	got, err := prj.GetByID(ctx, project.ID)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{fan}, got.Likes)

	other := uuid.New()
	require.NoError(t, prj.AddToLikeSet(ctx, project.ID, other))

	got, err = prj.GetByID(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, got.Likes, 2)

	require.NoError(t, prj.RemoveFromLikeSet(ctx, project.ID, fan))
	require.NoError(t, prj.RemoveFromLikeSet(ctx, project.ID, fan))

	got, err = prj.GetByID(ctx, project.ID)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{other}, got.Likes)
}
