package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/logging"
	"github.com/dom/blog-platform/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashToken(t *testing.T) {
	h := service.HashToken("token")
	assert.Len(t, h, 64)
	assert.Equal(t, h, service.HashToken("token"))
	assert.NotEqual(t, h, service.HashToken("token2"))
}

func TestSessionRegistry_Lifecycle(t *testing.T) {
	repo := newFakeSessionRepo()
	registry := service.NewSessionRegistry(repo, logging.Discard())
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, registry.Create(ctx, "raw-token", userID, time.Now().Add(time.Hour)))

	live, err := registry.IsLive(ctx, "raw-token")
	require.NoError(t, err)
	assert.True(t, live)

	live, err = registry.IsLive(ctx, "other-token")
	require.NoError(t, err)
	assert.False(t, live)

	require.NoError(t, registry.Revoke(ctx, "raw-token"))
	live, err = registry.IsLive(ctx, "raw-token")
	require.NoError(t, err)
	assert.False(t, live)

	// Revoking again is a no-op.
	assert.NoError(t, registry.Revoke(ctx, "raw-token"))
}

func TestSessionRegistry_RevokeAll(t *testing.T) {
	repo := newFakeSessionRepo()
	registry := service.NewSessionRegistry(repo, logging.Discard())
	ctx := context.Background()
	userID, otherID := uuid.New(), uuid.New()

	require.NoError(t, registry.Create(ctx, "a", userID, time.Now().Add(time.Hour)))
	require.NoError(t, registry.Create(ctx, "b", userID, time.Now().Add(time.Hour)))
	require.NoError(t, registry.Create(ctx, "c", otherID, time.Now().Add(time.Hour)))

	n, err := registry.RevokeAll(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	live, _ := registry.IsLive(ctx, "c")
	assert.True(t, live)
}

func TestSessionRegistry_PurgeExpired(t *testing.T) {
	repo := newFakeSessionRepo()
	registry := service.NewSessionRegistry(repo, logging.Discard())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Session{ID: uuid.New(), TokenHash: service.HashToken("old"), ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, registry.Create(ctx, "fresh", uuid.New(), time.Now().Add(time.Hour)))

	n, err := registry.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	live, _ := registry.IsLive(ctx, "fresh")
	assert.True(t, live)
}

func TestSessionReaper_PurgesPeriodically(t *testing.T) {
	repo := newFakeSessionRepo()
	registry := service.NewSessionRegistry(repo, logging.Discard())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Session{ID: uuid.New(), TokenHash: service.HashToken("old"), ExpiresAt: time.Now().Add(-time.Minute)}))

	reaper := service.NewSessionReaper(registry, 10*time.Millisecond, logging.Discard())
	reaper.Start()
	defer reaper.Stop()

	assert.Eventually(t, func() bool { return repo.len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestSessionReaper_StopIsIdempotent(t *testing.T) {
	registry := service.NewSessionRegistry(newFakeSessionRepo(), logging.Discard())
	reaper := service.NewSessionReaper(registry, time.Hour, logging.Discard())
	reaper.Start()

	reaper.Stop()
	reaper.Stop()
}
