package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/pkordes/tripbook/backend/internal/domain"
	"github.com/pkordes/tripbook/backend/internal/repo"
)

const (
	// minPasswordLen is the shortest plaintext password accepted on update.
	minPasswordLen = 8
	// maxPasswordBytes is the longest input bcrypt will hash.
	maxPasswordBytes = 72
)

// UserService implements the user directory.
type UserService struct {
	repo   repo.UserRepo
	hasher PasswordHasher
}

// NewUserService constructs a UserService. Passwords are hashed with hasher
// before they reach the repo.
func NewUserService(r repo.UserRepo, hasher PasswordHasher) *UserService {
	return &UserService{repo: r, hasher: hasher}
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.UserService.List: %w", err)
	}
	if users == nil {
		return []domain.User{}, nil
	}
	return users, nil
}

// Get returns a single user.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Get: %w", err)
	}
	return user, nil
}

// Update overwrites all four editable fields of a user.
// The email must not belong to any other user; keeping one's own email is fine.
// Only the validated fields are written, whatever else the payload carried.
func (s *UserService) Update(ctx context.Context, in domain.UserUpdate) (domain.User, error) {
	if _, err := s.repo.GetByID(ctx, in.ID); err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Update: %w", err)
	}

	var rules fieldRules
	user := domain.User{
		ID:        in.ID,
		FirstName: rules.required("first_name", in.FirstName),
		LastName:  rules.required("last_name", in.LastName),
		Email:     rules.email("email", in.Email),
	}
	rules.maxLen("first_name", user.FirstName, 255)
	rules.maxLen("last_name", user.LastName, 255)

	if rules.required("password", in.Password) != "" {
		switch {
		case len(in.Password) > maxPasswordBytes:
			rules.errs.Add("password", fmt.Sprintf("the password must not be greater than %d bytes", maxPasswordBytes))
		default:
			rules.check("password", in.Password, "min="+strconv.Itoa(minPasswordLen))
		}
	}

	if user.Email != "" && !rules.errs.Has("email") {
		taken, err := s.repo.EmailTaken(ctx, user.Email, in.ID)
		if err != nil {
			return domain.User{}, fmt.Errorf("service.UserService.Update: %w", err)
		}
		if taken {
			rules.errs.Add("email", "the email has already been taken")
		}
	}

	if err := rules.err(); err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Update: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Update: %w", err)
	}
	user.PasswordHash = hash

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.UserService.Delete: %w", err)
	}
	return nil
}
