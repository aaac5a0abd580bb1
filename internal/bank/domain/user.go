package domain

import (
	"strings"
	"time"
)

// User statuses. Only active users may authenticate or refresh sessions.
const (
	UserStatusActive   = "Active"
	UserStatusInactive = "Inactive"
)

type User struct {
	ID           string
	Username     string
	Name         string
	PasswordHash string // argon2 encoded
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the user may hold a session. Status values are
// compared case-insensitively since they round-trip through tokens.
func (u *User) IsActive() bool {
	return strings.EqualFold(u.Status, UserStatusActive)
}
