package domain

import "github.com/google/uuid"

// Caller identifies the authenticated user making a request.
// It is extracted from the bearer token by the auth middleware and passed
// explicitly to operations that record ownership.
type Caller struct {
	UserID uuid.UUID
}
