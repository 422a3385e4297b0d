package stores

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweet-shop/storage"
	"sweet-shop/utils"
)

func TestSession_RegisterPersistsAndAuthenticates(t *testing.T) {
	ctx := context.Background()
	f := newFakeAPI()
	store := storage.NewMemoryStorage()
	s := NewSession(ctx, f, store, zerolog.Nop())
	assert.False(t, s.Authenticated())
	assert.False(t, s.IsAdmin())

	require.True(t, s.Register(ctx, "ann@example.com", "secret1", "Ann"))
	assert.True(t, s.Authenticated())
	assert.True(t, s.IsAdmin())
	assert.Equal(t, "Ann", s.User().Name)
	assert.Equal(t, "opaque-token", s.Token())

	tok, err := store.GetItem(ctx, storage.AuthTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", tok)
	data, err := store.GetItem(ctx, storage.UserDataKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1","email":"ann@example.com","name":"Ann","isAdmin":true}`, data)
}

func TestSession_FailuresReportFalse(t *testing.T) {
	ctx := context.Background()
	f := newFakeAPI()
	s := NewSession(ctx, f, storage.NewMemoryStorage(), zerolog.Nop())

	require.True(t, s.Register(ctx, "ann@example.com", "secret1", "Ann"))
	s.Logout(ctx)

	assert.False(t, s.Register(ctx, "ann@example.com", "secret1", "Ann"))
	assert.False(t, s.Login(ctx, "ann@example.com", "wrong"))
	assert.False(t, s.Authenticated())

	assert.True(t, s.Login(ctx, "ann@example.com", "secret1"))
	assert.True(t, s.Authenticated())
}

func TestSession_LogoutClearsEverything(t *testing.T) {
	ctx := context.Background()
	f := newFakeAPI()
	store := storage.NewMemoryStorage()
	s := NewSession(ctx, f, store, zerolog.Nop())
	require.True(t, s.Register(ctx, "ann@example.com", "secret1", "Ann"))
	calls := f.callCount()

	s.Logout(ctx)

	assert.Nil(t, s.User())
	assert.Empty(t, s.Token())
	assert.False(t, s.IsAdmin())
	assert.Equal(t, calls, f.callCount())
	_, err := store.GetItem(ctx, storage.AuthTokenKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.GetItem(ctx, storage.UserDataKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSession_RestoresPersistedSession(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	require.NoError(t, store.SetItem(ctx, storage.AuthTokenKey, "opaque-token"))
	require.NoError(t, store.SetItem(ctx, storage.UserDataKey, `{"id":"u9","email":"bo@example.com","name":"Bo","isAdmin":false}`))

	s := NewSession(ctx, newFakeAPI(), store, zerolog.Nop())
	require.True(t, s.Authenticated())
	assert.Equal(t, "u9", s.User().ID)
	assert.False(t, s.IsAdmin())
}

func TestSession_RestoreNeedsBothKeys(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	require.NoError(t, store.SetItem(ctx, storage.AuthTokenKey, "opaque-token"))

	s := NewSession(ctx, newFakeAPI(), store, zerolog.Nop())
	assert.False(t, s.Authenticated())

	// the lone key is left in place
	_, err := store.GetItem(ctx, storage.AuthTokenKey)
	assert.NoError(t, err)
}

func TestSession_CorruptUserDataIsDiscarded(t *testing.T) {
	for _, data := range []string{`{"id":`, `null`, `[1,2]`} {
		t.Run(data, func(t *testing.T) {
			ctx := context.Background()
			store := storage.NewMemoryStorage()
			require.NoError(t, store.SetItem(ctx, storage.AuthTokenKey, "opaque-token"))
			require.NoError(t, store.SetItem(ctx, storage.UserDataKey, data))

			s := NewSession(ctx, newFakeAPI(), store, zerolog.Nop())

			assert.False(t, s.Authenticated())
			_, err := store.GetItem(ctx, storage.AuthTokenKey)
			assert.ErrorIs(t, err, storage.ErrNotFound)
			_, err = store.GetItem(ctx, storage.UserDataKey)
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestSession_ExpiredTokenIsDiscarded(t *testing.T) {
	ctx := context.Background()
	token, err := utils.GenerateJWT("u1", "ann@example.com", false)
	require.NoError(t, err)

	store := storage.NewMemoryStorage()
	require.NoError(t, store.SetItem(ctx, storage.AuthTokenKey, token))
	require.NoError(t, store.SetItem(ctx, storage.UserDataKey, `{"id":"u1","email":"ann@example.com","name":"Ann"}`))

	s := &Session{api: newFakeAPI(), storage: store, logger: zerolog.Nop(), now: func() time.Time {
		return time.Now().Add(utils.TokenTTL + time.Hour)
	}}
	s.Restore(ctx)
	assert.False(t, s.Authenticated())
	_, err = store.GetItem(ctx, storage.AuthTokenKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// a fresh token restores fine
	require.NoError(t, store.SetItem(ctx, storage.AuthTokenKey, token))
	require.NoError(t, store.SetItem(ctx, storage.UserDataKey, `{"id":"u1","email":"ann@example.com","name":"Ann"}`))
	fresh := NewSession(ctx, newFakeAPI(), store, zerolog.Nop())
	assert.True(t, fresh.Authenticated())
}

func TestValidateRegistration(t *testing.T) {
	assert.ErrorIs(t, ValidateRegistration("secret1", "secret2"), ErrPasswordMismatch)
	assert.ErrorIs(t, ValidateRegistration("abc", "abc"), ErrPasswordTooShort)
	assert.EqualError(t, ValidateRegistration("12345", "12345"), "password must be at least 6 characters long")
	assert.NoError(t, ValidateRegistration("secret1", "secret1"))
}
