// Package storage provides the persisted key-value stores that keep a
// session alive across restarts.
package storage

import (
	"context"
	"errors"
)

// Keys used to persist the session
const (
	AuthTokenKey = "authToken"
	UserDataKey  = "userData"
)

// ErrNotFound is returned by GetItem when the key is absent
var ErrNotFound = errors.New("storage: key not found")

// Storage is a string key-value store. Implementations are safe for
// concurrent use within one process; nothing coordinates separate processes.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}
