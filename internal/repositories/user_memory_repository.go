package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"galaxia/internal/models"
)

// MemoryUserRepository is an in-memory implementation of UserRepository.
// Ids come from a counter that only moves forward until Reset.
type MemoryUserRepository struct {
	users  map[uint]models.User
	nextID uint
	mu     sync.RWMutex
}

// NewMemoryUserRepository creates a new instance of MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:  make(map[uint]models.User),
		nextID: 1,
	}
}

// Create stores a new user and assigns its ID.
func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.EmailKey = models.EmailKey(user.Email)
	if _, ok := r.findByEmailKey(user.EmailKey); ok {
		return fmt.Errorf("user with email %s: %w", user.Email, ErrDuplicateKey)
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

// GetByID returns a user by its ID.
func (r *MemoryUserRepository) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %d: %w", id, ErrNotFound)
	}
	return &user, nil
}

// GetByEmail returns the user whose email matches case-insensitively.
func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.findByEmailKey(models.EmailKey(email))
	if !ok {
		return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
	}
	return &user, nil
}

// List returns users ordered by ID.
func (r *MemoryUserRepository) List(_ context.Context, offset, limit int) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []models.User{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

// Count returns the number of stored users.
func (r *MemoryUserRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

// Update replaces an existing user.
func (r *MemoryUserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user with ID %d: %w", user.ID, ErrNotFound)
	}
	user.EmailKey = models.EmailKey(user.Email)
	if other, ok := r.findByEmailKey(user.EmailKey); ok && other.ID != user.ID {
		return fmt.Errorf("user with email %s: %w", user.Email, ErrDuplicateKey)
	}
	r.users[user.ID] = *user
	return nil
}

// Delete removes a user by its ID.
func (r *MemoryUserRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("user with ID %d: %w", id, ErrNotFound)
	}
	delete(r.users, id)
	return nil
}

// Reset clears every user and restarts the ID counter.
func (r *MemoryUserRepository) Reset(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = make(map[uint]models.User)
	r.nextID = 1
	return nil
}

// findByEmailKey must be called with r.mu held.
func (r *MemoryUserRepository) findByEmailKey(key string) (models.User, bool) {
	for _, u := range r.users {
		if u.EmailKey == key {
			return u, true
		}
	}
	return models.User{}, false
}
