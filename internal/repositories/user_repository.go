package repositories

import (
	"context"
	"errors"

	"galaxia/internal/models"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a write violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key")
)

// UserRepository defines the interface for user data access.
// Email lookups are case-insensitive.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// List returns users in id order. A limit <= 0 returns every user from offset on.
	List(ctx context.Context, offset, limit int) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	// Reset removes every user and restarts id assignment at 1.
	Reset(ctx context.Context) error
}
