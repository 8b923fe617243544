package identity

import (
	"time"

	"github.com/google/uuid"
)

// User is one registered account. The password hash never leaves the
// package through the API.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Registration limits.
const (
	MinUsernameLen = 3
	MinPasswordLen = 6
)
