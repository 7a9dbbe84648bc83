package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/bizportal/internal/domain/notify"
)

func TestNotificationStore_PushDrainOrder(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewNotificationStore(NotificationStoreOptions{Client: client, TTL: time.Minute})
	ctx := context.Background()

	_, queued, err := store.Push(ctx, "visitor-1", notify.Error("first"))
	require.NoError(t, err)
	assert.True(t, queued)
	_, queued, err = store.Push(ctx, "visitor-1", notify.Success("second"))
	require.NoError(t, err)
	assert.True(t, queued)

	got, err := store.Drain(ctx, "visitor-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Message)
	assert.Equal(t, notify.SeverityError, got[0].Severity)
	assert.Equal(t, "second", got[1].Message)
	assert.NotEmpty(t, got[0].ID)

	again, err := store.Drain(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestNotificationStore_DedupeWhilePending(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewNotificationStore(NotificationStoreOptions{Client: client, TTL: time.Minute})
	ctx := context.Background()

	first, queued, err := store.Push(ctx, "v", notify.Error("Email is required"))
	require.NoError(t, err)
	require.True(t, queued)

	dup, queued, err := store.Push(ctx, "v", notify.Error("Email is required"))
	require.NoError(t, err)
	assert.False(t, queued)
	assert.Equal(t, first.ID, dup.ID)

	_, queued, err = store.Push(ctx, "other", notify.Error("Email is required"))
	require.NoError(t, err)
	assert.True(t, queued)

	got, err := store.Drain(ctx, "v")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestNotificationStore_DismissClearsDedupe(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewNotificationStore(NotificationStoreOptions{Client: client, TTL: time.Minute})
	ctx := context.Background()

	loading, _, err := store.Push(ctx, "v", notify.Loading("Creating your account..."))
	require.NoError(t, err)
	warn, _, err := store.Push(ctx, "v", notify.Error("boom"))
	require.NoError(t, err)

	require.NoError(t, store.Dismiss(ctx, "v", loading.ID))
	require.NoError(t, store.Dismiss(ctx, "v", warn.ID))
	require.NoError(t, store.Dismiss(ctx, "v", "unknown"))

	got, err := store.Drain(ctx, "v")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, queued, err := store.Push(ctx, "v", notify.Error("boom"))
	require.NoError(t, err)
	assert.True(t, queued, "dismissed toast no longer suppresses duplicates")
}

func TestNotificationStore_DismissLeavesOtherToasts(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewNotificationStore(NotificationStoreOptions{Client: client, TTL: time.Minute})
	ctx := context.Background()

	first, _, err := store.Push(ctx, "v", notify.Error("first"))
	require.NoError(t, err)
	_, _, err = store.Push(ctx, "v", notify.Error("second"))
	require.NoError(t, err)

	require.NoError(t, store.Dismiss(ctx, "v", first.ID))

	exists, err := client.Exists(ctx, store.dedupeKey("v", "first"), store.dedupeKey("v", "second")).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists, "only the dismissed toast releases its dedupe key")

	got, err := store.Drain(ctx, "v")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Message)
}

func TestNotificationStore_DrainShortensDedupeKeys(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewNotificationStore(NotificationStoreOptions{
		Client:     client,
		TTL:        time.Minute,
		VisibleFor: 2 * time.Second,
	})
	ctx := context.Background()

	_, _, err := store.Push(ctx, "v", notify.Error("boom"))
	require.NoError(t, err)
	_, err = store.Drain(ctx, "v")
	require.NoError(t, err)

	ttl, err := client.TTL(ctx, store.dedupeKey("v", "boom")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 2*time.Second)
}

func TestNotificationStore_ReportsRedisErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0", MaxRetries: -1})
	defer client.Close()

	store := NewNotificationStore(NotificationStoreOptions{Client: client})
	ctx := context.Background()

	require.Error(t, store.Dismiss(ctx, "v", "n1"))
	_, err := store.Drain(ctx, "v")
	require.Error(t, err)
}

func TestNotificationStore_EmptyRecipient(t *testing.T) {
	store := NewNotificationStore(NotificationStoreOptions{})
	_, _, err := store.Push(context.Background(), "", notify.Error("x"))
	require.Error(t, err)

	got, err := store.Drain(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, got)
}
