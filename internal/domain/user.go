package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account. PasswordHash is a bcrypt hash and must never be
// serialised into a response.
type User struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserUpdate is the full set of fields a user update may change.
// Password is plaintext here; the service hashes it before persistence.
type UserUpdate struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Password  string
}
