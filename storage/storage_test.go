package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, err := s.GetItem(ctx, AuthTokenKey)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetItem(ctx, AuthTokenKey, "tok-1"))
	require.NoError(t, s.SetItem(ctx, UserDataKey, `{"id":"u1"}`))

	v, err := s.GetItem(ctx, AuthTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", v)

	require.NoError(t, s.SetItem(ctx, AuthTokenKey, "tok-2"))
	v, err = s.GetItem(ctx, AuthTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", v)

	require.NoError(t, s.RemoveItem(ctx, AuthTokenKey))
	_, err = s.GetItem(ctx, AuthTokenKey)
	assert.ErrorIs(t, err, ErrNotFound)

	// removing an absent key is not an error
	require.NoError(t, s.RemoveItem(ctx, AuthTokenKey))

	v, err = s.GetItem(ctx, UserDataKey)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"u1"}`, v)
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage())
}

func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s, err := NewFileStorage(path)
	require.NoError(t, err)
	exerciseStorage(t, s)

	// a second instance sees what the first persisted
	reopened, err := NewFileStorage(path)
	require.NoError(t, err)
	v, err := reopened.GetItem(context.Background(), UserDataKey)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"u1"}`, v)
}

func TestFileStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := NewFileStorage(path)
	require.NoError(t, err)
	_, err = s.GetItem(context.Background(), AuthTokenKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRedisStorage(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	s := NewRedisStorageFromClient(client, "sweetshop")
	exerciseStorage(t, s)

	assert.True(t, mr.Exists("sweetshop:"+UserDataKey))
	assert.False(t, mr.Exists(UserDataKey))
}

func TestNewRedisStorage(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s, err := NewRedisStorage(context.Background(), "redis://"+mr.Addr(), "")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SetItem(context.Background(), "k", "v"))
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	_, err = NewRedisStorage(context.Background(), "not a url", "")
	assert.Error(t, err)
}

func TestMongoStorage(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx := context.Background()
	client, err := ConnectMongo(ctx, uri)
	require.NoError(t, err)
	defer client.Disconnect(ctx)

	s := NewMongoStorage(client, "sweetshop_test")
	defer s.Collection.Drop(ctx)
	exerciseStorage(t, s)
}
