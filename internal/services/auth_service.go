package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"galaxia/internal/models"
	"galaxia/internal/repositories"
)

// AuthService checks login credentials.
type AuthService struct {
	userRepo repositories.UserRepository
	hasher   PasswordHasher
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, hasher PasswordHasher) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// Authenticate returns the user owning email when password matches.
// An unknown email and a wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
