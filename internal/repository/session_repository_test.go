package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/invoich-web/internal/domain"
)

func exerciseSessionRepository(t *testing.T, repo SessionRepository) {
	t.Helper()
	ctx := context.Background()
	id := uuid.NewString()

	_, err := repo.Get(ctx, id)
	require.ErrorIs(t, err, ErrSessionNotFound)

	session := &domain.Session{ID: id, UserID: "u1", Token: "tok", OTPEmail: "a@b.c", CreatedAt: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, repo.Save(ctx, session, time.Minute))

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, got.UserID)
	assert.Equal(t, session.OTPEmail, got.OTPEmail)
	assert.True(t, session.CreatedAt.Equal(got.CreatedAt))

	first := domain.Notice{Kind: domain.NoticeSuccess, Message: "Customer deleted successfully"}
	second := domain.Notice{Kind: domain.NoticeError, Title: "Error", Message: "Failed"}
	require.NoError(t, repo.PushNotice(ctx, id, first, time.Minute))
	require.NoError(t, repo.PushNotice(ctx, id, second, time.Minute))

	notices, err := repo.PopNotices(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []domain.Notice{first, second}, notices)

	notices, err = repo.PopNotices(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, notices)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func exerciseSessionLocks(t *testing.T, repo SessionRepository) {
	t.Helper()
	ctx := context.Background()
	id := uuid.NewString()

	ok, err := repo.TryLock(ctx, id, "otp", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.TryLock(ctx, id, "otp", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.TryLock(ctx, id, "other", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Unlock(ctx, id, "otp"))
	ok, err = repo.TryLock(ctx, id, "otp", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Unlock(ctx, id, "otp"))
	require.NoError(t, repo.Unlock(ctx, id, "other"))
}

func TestMemorySessionRepository(t *testing.T) {
	t.Parallel()
	exerciseSessionRepository(t, NewMemorySessionRepository())
	exerciseSessionLocks(t, NewMemorySessionRepository())
}

func TestMemorySessionLockExpires(t *testing.T) {
	t.Parallel()

	now := time.Now()
	repo := &memorySessionRepository{entries: make(map[string]*memoryEntry), locks: make(map[string]time.Time), now: func() time.Time { return now }}
	ok, err := repo.TryLock(context.Background(), "s1", "otp", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	ok, err = repo.TryLock(context.Background(), "s1", "otp", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemorySessionRepositoryExpires(t *testing.T) {
	t.Parallel()

	now := time.Now()
	repo := &memorySessionRepository{entries: make(map[string]*memoryEntry), locks: make(map[string]time.Time), now: func() time.Time { return now }}
	require.NoError(t, repo.Save(context.Background(), &domain.Session{ID: "s1"}, time.Minute))

	now = now.Add(2 * time.Minute)
	_, err := repo.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisSessionRepository(t *testing.T) {
	if os.Getenv("RUN_REDIS_INTEGRATION") != "true" {
		t.Skip("set RUN_REDIS_INTEGRATION=true to run against a live redis")
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	exerciseSessionRepository(t, NewSessionRepository(client))
	exerciseSessionLocks(t, NewSessionRepository(client))
}
