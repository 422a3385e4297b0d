package models

import (
	"time"
)

// MinPasswordLength is the shortest password accepted at registration
const MinPasswordLength = 6

// User represents an authenticated shop user
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	IsAdmin   bool       `json:"isAdmin"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}
