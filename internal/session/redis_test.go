package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewRedisStore(newTestRedis(t), time.Hour)
	require.NotNil(t, store)

	p := Principal{ID: "u2", Role: RoleDoctor, Username: "drwho", FirstName: "D", LastName: "Who"}
	id, err := store.Create(ctx, p)
	require.NoError(t, err)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreExpiry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, time.Minute)

	id, err := store.Create(ctx, Principal{ID: "u3", Role: RolePatient})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewRedisStoreNilClient(t *testing.T) {
	assert.Nil(t, NewRedisStore(nil, time.Hour))
}
