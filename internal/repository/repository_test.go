package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"agri_trade/internal/domain/models"
	"agri_trade/internal/repository"
	"agri_trade/internal/storage"
	"agri_trade/internal/storage/postgresql"

	"github.com/brianvoe/gofakeit"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	testCtx = context.Background()
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("integration test: needs docker")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(time.Minute),
	}

	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf(
		"postgres://test:test@%s:%s/testdb?sslmode=disable",
		host, port.Port(),
	)

	// Применяем миграции
	require.NoError(t, postgresql.Migrate(ctx, connStr, "up"))

	pool, err := pgxpool.Connect(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	})

	return pool
}

func TestGalleryRepo_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewGalleryRepo(db)

	id, err := repo.CreateGallery(testCtx, "Port Ops", "desc")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	gallery, err := repo.GetGalleryByID(testCtx, id)
	require.NoError(t, err)
	assert.Equal(t, "Port Ops", gallery.Title)
	assert.Equal(t, "desc", gallery.Description)
	assert.Nil(t, gallery.CoverImageID)

	first, err := repo.CreateImage(testCtx, models.GalleryImage{
		GalleryID: id, URL: "https://cdn.example.com/a.webp", IsCoverPhoto: true, Location: "A",
	})
	require.NoError(t, err)

	second, err := repo.CreateImage(testCtx, models.GalleryImage{
		GalleryID: id, URL: "https://cdn.example.com/b.webp", Location: "B",
	})
	require.NoError(t, err)

	t.Run("set cover clears previous flag", func(t *testing.T) {
		require.NoError(t, repo.SetCoverImage(testCtx, id, second))

		images, err := repo.GetImagesByGalleryID(testCtx, id)
		require.NoError(t, err)
		require.Len(t, images, 2)

		covers := 0
		for _, img := range images {
			if img.IsCoverPhoto {
				covers++
				assert.Equal(t, second, img.ID)
			}
			if img.ID == first {
				assert.False(t, img.IsCoverPhoto)
			}
		}
		assert.Equal(t, 1, covers)

		gallery, err := repo.GetGalleryByID(testCtx, id)
		require.NoError(t, err)
		require.NotNil(t, gallery.CoverImageID)
		assert.Equal(t, second, *gallery.CoverImageID)
	})

	t.Run("update title and description", func(t *testing.T) {
		require.NoError(t, repo.UpdateGallery(testCtx, id, "New", "desc"))

		gallery, err := repo.GetGalleryByID(testCtx, id)
		require.NoError(t, err)
		assert.Equal(t, "New", gallery.Title)
	})

	t.Run("list contains gallery", func(t *testing.T) {
		galleries, err := repo.GetGalleries(testCtx)
		require.NoError(t, err)
		require.Len(t, galleries, 1)
		assert.Equal(t, id, galleries[0].ID)
	})

	t.Run("delete cascade order", func(t *testing.T) {
		require.NoError(t, repo.DeleteImagesByGalleryID(testCtx, id))
		require.NoError(t, repo.DeleteGallery(testCtx, id))

		_, err := repo.GetGalleryByID(testCtx, id)
		assert.ErrorIs(t, err, storage.ErrGalleryNotFound)

		err = repo.DeleteGallery(testCtx, id)
		assert.ErrorIs(t, err, storage.ErrGalleryNotFound)
	})
}

func TestGalleryRepo_UpdateMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewGalleryRepo(db)

	err := repo.UpdateGallery(testCtx, uuid.New(), "t", "d")
	assert.ErrorIs(t, err, storage.ErrGalleryNotFound)

	err = repo.SetCoverImage(testCtx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, storage.ErrGalleryNotFound)
}

func TestAdminRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewAdminRepository(db)

	email := gofakeit.Email()

	id, err := repo.SaveAdmin(testCtx, email, []byte("hash-1"))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := repo.SaveAdmin(testCtx, email, []byte("hash-2"))
		assert.ErrorIs(t, err, storage.ErrAdminExists)
	})

	t.Run("get by email", func(t *testing.T) {
		admin, err := repo.AdminByEmail(testCtx, email)
		require.NoError(t, err)
		assert.Equal(t, id, admin.ID)
		assert.Equal(t, []byte("hash-1"), admin.Password)
	})

	t.Run("update password", func(t *testing.T) {
		require.NoError(t, repo.UpdatePassword(testCtx, email, []byte("hash-3")))

		admin, err := repo.AdminByEmail(testCtx, email)
		require.NoError(t, err)
		assert.Equal(t, []byte("hash-3"), admin.Password)

		err = repo.UpdatePassword(testCtx, "missing@example.com", []byte("x"))
		assert.ErrorIs(t, err, storage.ErrAdminNotFound)
	})

	t.Run("list", func(t *testing.T) {
		admins, err := repo.ListAdmins(testCtx)
		require.NoError(t, err)
		require.Len(t, admins, 1)
		assert.Equal(t, email, admins[0].Email)
		assert.Empty(t, admins[0].Password)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteAdmin(testCtx, email))

		_, err := repo.AdminByEmail(testCtx, email)
		assert.ErrorIs(t, err, storage.ErrAdminNotFound)

		err = repo.DeleteAdmin(testCtx, email)
		assert.ErrorIs(t, err, storage.ErrAdminNotFound)
	})
}

func TestSettingsRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewSettingsRepository(db)

	settings, err := repo.GetSettings(testCtx)
	require.NoError(t, err)
	assert.False(t, settings.CDNEnabled)
	assert.Empty(t, settings.CDNURL)

	want := models.Settings{CDNEnabled: true, CDNURL: "https://066e9a4f-a.b-cdn.net"}
	require.NoError(t, repo.UpdateSettings(testCtx, want))

	got, err := repo.GetSettings(testCtx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
