package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"sqlgenie/internal/database"
	"sqlgenie/internal/models"
)

// startPostgres spins up a throwaway database and returns a migrated pool.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("sqlgenie_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.RunMigrations(pool))
	return pool
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	pool := startPostgres(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	user := &models.User{
		Email:        "alice@example.com",
		PasswordHash: "argon2id$v=19$m=65536,t=1,p=4$salt$hash",
	}
	require.NoError(t, repo.Create(ctx, user))

	byEmail, err := repo.FindUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "alice@example.com", byID.Email)

	missing, err := repo.FindUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	pool := startPostgres(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	user := &models.User{Email: "bob@example.com", PasswordHash: "old"}
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.UpdatePassword(ctx, user.ID, "new"))

	found, err := repo.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", found.PasswordHash)
}

func TestQueryHistoryRepository_CreateAndList(t *testing.T) {
	pool := startPostgres(t)
	users := NewUserRepository(pool)
	histories := NewQueryHistoryRepository(pool)
	ctx := context.Background()

	user := &models.User{Email: "carol@example.com", PasswordHash: "x"}
	require.NoError(t, users.Create(ctx, user))

	first := &models.QueryHistory{
		UserID:      user.ID,
		QueryText:   "SELECT COUNT(*)\nFROM Products;",
		Description: "count of products",
		Source:      models.SourceSynthesizer,
		CreatedAt:   time.Now().Add(-time.Hour),
	}
	second := &models.QueryHistory{
		UserID:      user.ID,
		QueryText:   "SELECT 1;",
		Description: "latest",
		Source:      models.SourceModel,
	}
	require.NoError(t, histories.Create(ctx, first))
	require.NoError(t, histories.Create(ctx, second))

	got, err := histories.GetByUserID(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Newest first.
	assert.Equal(t, "latest", got[0].Description)
	assert.Equal(t, "count of products", got[1].Description)

	limited, err := histories.GetByUserID(ctx, user.ID, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "latest", limited[0].Description)
}
