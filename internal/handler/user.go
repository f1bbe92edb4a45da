package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/tripbook/backend/internal/domain"
)

// UserRequest is the body of PUT/PATCH /users/{id}. Any other field in the
// payload is ignored.
type UserRequest struct {
	FirstName flexString `json:"first_name"`
	LastName  flexString `json:"last_name"`
	Email     flexString `json:"email"`
	Password  flexString `json:"password"`
}

// User is the JSON representation of a user. The password hash is never
// included.
type User struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusResponse is returned by user update and delete.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}

const userNotFound = "user not found"

// ListUsers handles GET /users. The body is a bare JSON array.
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.writeError(w, r, err, userNotFound)
		return
	}

	out := make([]User, len(users))
	for i, u := range users {
		out[i] = userToResponse(u)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetUser handles GET /users/{id}.
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	user, err := s.users.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, userNotFound)
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(user))
}

// UpdateUser handles PUT and PATCH /users/{id}. Both require all four fields.
func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	var body UserRequest
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.users.Update(r.Context(), domain.UserUpdate{
		ID:        id,
		FirstName: string(body.FirstName),
		LastName:  string(body.LastName),
		Email:     string(body.Email),
		Password:  string(body.Password),
	})
	if err != nil {
		s.writeError(w, r, err, userNotFound)
		return
	}

	resp := userToResponse(updated)
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:  "success",
		Message: "User updated successfully",
		User:    &resp,
	})
}

// DeleteUser handles DELETE /users/{id}.
func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	if err := s.users.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err, userNotFound)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "success", Message: "User deleted successfully"})
}

// userID parses the {id} path parameter. A malformed id cannot name any user,
// so it is reported as 404 rather than 400.
func userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, notFoundBody(userNotFound))
		return uuid.Nil, false
	}
	return id, true
}

func userToResponse(u domain.User) User {
	return User{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
