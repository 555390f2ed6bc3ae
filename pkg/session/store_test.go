package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, ttl), mr
}

func TestCreateGetDelete(t *testing.T) {
	store, _ := newStore(t, time.Hour)
	ctx := context.Background()
	userID := uuid.New()

	sess, err := store.Create(ctx, userID, "alice", "127.0.0.1", "test")
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	loaded, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, loaded.UserID)
	assert.Equal(t, "alice", loaded.Username)
	assert.Equal(t, sess.ID, loaded.ID)

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, store.Delete(ctx, sess.ID))
}

func TestSessionExpires(t *testing.T) {
	store, mr := newStore(t, time.Minute)
	ctx := context.Background()

	sess, err := store.Create(ctx, uuid.New(), "bob", "", "")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
