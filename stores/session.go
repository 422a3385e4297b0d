package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"sweet-shop/models"
	"sweet-shop/storage"
	"sweet-shop/utils"
)

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters long", models.MinPasswordLength)
)

// ValidateRegistration runs the checks made before a registration request
// is sent
func ValidateRegistration(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < models.MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// Session tracks the authenticated user. It is Anonymous until a login,
// a registration or a restore from persisted storage succeeds.
type Session struct {
	mu      sync.RWMutex
	api     AuthAPI
	storage storage.Storage
	logger  zerolog.Logger
	now     func() time.Time

	user  *models.User
	token string
}

// NewSession creates the session store and restores any persisted session
func NewSession(ctx context.Context, client AuthAPI, store storage.Storage, logger zerolog.Logger) *Session {
	s := &Session{
		api:     client,
		storage: store,
		logger:  logger.With().Str("store", "session").Logger(),
		now:     time.Now,
	}
	s.Restore(ctx)
	return s
}

// Restore loads the persisted session. Both keys must be present. Corrupt
// user data or an expired token clears both keys and leaves the session
// Anonymous.
func (s *Session) Restore(ctx context.Context) {
	token, err := s.storage.GetItem(ctx, storage.AuthTokenKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().Err(err).Msg("Error reading auth token")
		}
		return
	}
	userData, err := s.storage.GetItem(ctx, storage.UserDataKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().Err(err).Msg("Error reading user data")
		}
		return
	}

	var user *models.User
	if err := json.Unmarshal([]byte(userData), &user); err != nil || user == nil {
		s.logger.Error().Err(err).Msg("Error parsing user data")
		s.clearPersisted(ctx)
		return
	}
	if utils.TokenExpired(token, s.now()) {
		s.logger.Info().Str("user", user.Email).Msg("Persisted token expired")
		s.clearPersisted(ctx)
		return
	}

	s.mu.Lock()
	s.user = user
	s.token = token
	s.mu.Unlock()
}

// Login authenticates and persists the session. Failures are logged and
// reported as false.
func (s *Session) Login(ctx context.Context, email, password string) bool {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Login error")
		return false
	}
	if err := s.establish(ctx, res.User, res.Token); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Login error")
		return false
	}
	return true
}

// Register creates an account and persists the session. Failures are
// logged and reported as false.
func (s *Session) Register(ctx context.Context, email, password, name string) bool {
	res, err := s.api.Register(ctx, email, password, name)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Registration error")
		return false
	}
	if err := s.establish(ctx, res.User, res.Token); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Registration error")
		return false
	}
	return true
}

func (s *Session) establish(ctx context.Context, user models.User, token string) error {
	userData, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.storage.SetItem(ctx, storage.AuthTokenKey, token); err != nil {
		return err
	}
	if err := s.storage.SetItem(ctx, storage.UserDataKey, string(userData)); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = &user
	s.token = token
	s.mu.Unlock()
	return nil
}

// Logout clears the persisted keys and returns to Anonymous. No remote
// call is made.
func (s *Session) Logout(ctx context.Context) {
	s.clearPersisted(ctx)
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()
}

func (s *Session) clearPersisted(ctx context.Context) {
	for _, key := range []string{storage.AuthTokenKey, storage.UserDataKey} {
		if err := s.storage.RemoveItem(ctx, key); err != nil {
			s.logger.Error().Err(err).Str("key", key).Msg("Error clearing session")
		}
	}
}

// User returns a copy of the current user, or nil when Anonymous
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the bearer token held in memory
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a user is signed in
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// IsAdmin is false when Anonymous
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsAdmin
}
