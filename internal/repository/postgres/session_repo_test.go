package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/repository"
	"github.com/dom/blog-platform/internal/repository/postgres"
	"github.com/dom/blog-platform/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSessionRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	now := time.Now()

	newSession := func(hash string, expiresAt time.Time) *domain.Session {
		return &domain.Session{ID: uuid.New(), UserID: user.ID, TokenHash: hash, ExpiresAt: expiresAt}
	}

	require.NoError(t, repo.Create(ctx, newSession("live-1", now.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newSession("live-2", now.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newSession("stale", now.Add(-time.Minute))))

	t.Run("duplicate hash", func(t *testing.T) {
		err := repo.Create(ctx, newSession("live-1", now.Add(time.Hour)))
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("exists", func(t *testing.T) {
		ok, err := repo.ExistsByTokenHash(ctx, "live-1")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ExistsByTokenHash(ctx, "unknown")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete expired", func(t *testing.T) {
		n, err := repo.DeleteExpired(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		count, err := repo.CountByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("delete by hash is idempotent", func(t *testing.T) {
		require.NoError(t, repo.DeleteByTokenHash(ctx, "live-1"))
		require.NoError(t, repo.DeleteByTokenHash(ctx, "live-1"))

		ok, err := repo.ExistsByTokenHash(ctx, "live-1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete by user", func(t *testing.T) {
		n, err := repo.DeleteByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		count, err := repo.CountByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
