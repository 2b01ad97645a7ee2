package repositories

import (
	"context"
	"errors"
	"fmt"

	"galaxia/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user with email %s: %w", user.Email, ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email_key = ?", models.EmailKey(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// List retrieves users ordered by ID.
func (r *GORMUserRepository) List(ctx context.Context, offset, limit int) ([]models.User, error) {
	users := []models.User{}
	q := r.db.WithContext(ctx).Order("id")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Count returns the number of users in the database.
func (r *GORMUserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// Update writes the mutable columns of an existing user.
func (r *GORMUserRepository) Update(ctx context.Context, user *models.User) error {
	// Save would insert a missing row, so check existence explicitly.
	if _, err := r.GetByID(ctx, user.ID); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&models.User{ID: user.ID}).Updates(map[string]interface{}{
		"name":          user.Name,
		"email":         user.Email,
		"email_key":     models.EmailKey(user.Email),
		"password_hash": user.PasswordHash,
	})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user with email %s: %w", user.Email, ErrDuplicateKey)
		}
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	user.EmailKey = models.EmailKey(user.Email)
	return nil
}

// Delete deletes a user by its ID from the database.
func (r *GORMUserRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %d: %w", id, ErrNotFound)
	}
	return nil
}

// Reset deletes every user and restarts the ID sequence.
func (r *GORMUserRepository) Reset(ctx context.Context) error {
	return truncate(r.db.WithContext(ctx), &models.User{})
}
