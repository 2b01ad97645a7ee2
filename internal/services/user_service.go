package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"galaxia/internal/cache"
	"galaxia/internal/models"
	"galaxia/internal/repositories"
	"galaxia/internal/schemas"

	"github.com/rs/zerolog/log"
)

const (
	userCacheTTL    = 5 * time.Minute
	userCachePrefix = "user:"
)

// Pagination describes one page of a listing.
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
}

// UserService handles business logic related to users.
type UserService struct {
	repo   repositories.UserRepository
	hasher PasswordHasher
	cache  *cache.Client
	events EventPublisher

	// mu makes the email uniqueness check and the write that follows it atomic.
	mu sync.Mutex
}

// NewUserService creates a new UserService. cache and events may be nil.
func NewUserService(repo repositories.UserRepository, hasher PasswordHasher, cache *cache.Client, events EventPublisher) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		cache:  cache,
		events: events,
	}
}

// Create registers a new user with a hashed password. name and email are
// expected to be validated and normalized already.
func (s *UserService) Create(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	publish(s.events, EventUserCreated, userEventData(user))
	return user, nil
}

// List returns every user in ID order.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx, 0, 0)
}

// ListPage returns one page of users in ID order. page and perPage must be positive.
func (s *UserService) ListPage(ctx context.Context, page, perPage int) ([]models.User, Pagination, error) {
	if page < 1 || perPage < 1 {
		return nil, Pagination{}, fmt.Errorf("invalid page %d or per_page %d", page, perPage)
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, Pagination{}, err
	}
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	pagination := Pagination{Page: page, PerPage: perPage, Total: total, Pages: pages}

	// Past the last page the offset could overflow, and there is nothing to read.
	if page > pages {
		return []models.User{}, pagination, nil
	}

	users, err := s.repo.List(ctx, (page-1)*perPage, perPage)
	if err != nil {
		return nil, Pagination{}, err
	}
	return users, pagination, nil
}

// Get returns a user by ID, reading through the cache.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	if s.cache == nil {
		return s.load(ctx, id)
	}
	if user := s.cachedUser(ctx, id); user != nil {
		return user, nil
	}

	// The miss path holds s.mu so a concurrent Update or Delete cannot
	// invalidate the key between the read below and the Set.
	s.mu.Lock()
	defer s.mu.Unlock()

	if user := s.cachedUser(ctx, id); user != nil {
		return user, nil
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(user); err == nil {
		s.cache.Set(ctx, cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

// Update applies the supplied fields to an existing user.
func (s *UserService) Update(ctx context.Context, id uint, changes schemas.UserChanges) (*models.User, error) {
	var hash string
	if changes.Password != nil {
		var err error
		if hash, err = s.hasher.Hash(*changes.Password); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if changes.Empty() {
		return nil, ErrNoFieldsProvided
	}

	if changes.Email != nil {
		if err := s.ensureEmailFree(ctx, *changes.Email, id); err != nil {
			return nil, err
		}
		user.Email = *changes.Email
	}
	if changes.Name != nil {
		user.Name = *changes.Name
	}
	if changes.Password != nil {
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateKey):
			return nil, ErrEmailAlreadyExists
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}

	s.cache.Delete(ctx, cacheKey(id))
	publish(s.events, EventUserUpdated, userEventData(user))
	return user, nil
}

// Delete removes a user. It reports false when no such user existed.
func (s *UserService) Delete(ctx context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete user %d: %w", id, err)
	}

	s.cache.Delete(ctx, cacheKey(id))
	publish(s.events, EventUserDeleted, map[string]interface{}{"id": id})
	return true, nil
}

// Reset removes every user and restarts ID assignment. Used by test harnesses.
func (s *UserService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Reset(ctx); err != nil {
		return err
	}
	s.cache.DeletePrefix(ctx, userCachePrefix)
	log.Info().Msg("user store reset")
	return nil
}

func (s *UserService) load(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) cachedUser(ctx context.Context, id uint) *models.User {
	data := s.cache.Get(ctx, cacheKey(id))
	if data == nil {
		return nil
	}
	var cached models.User
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil
	}
	return &cached
}

// ensureEmailFree fails with ErrEmailAlreadyExists when email belongs to a
// user other than exceptID. Must be called with s.mu held.
func (s *UserService) ensureEmailFree(ctx context.Context, email string, exceptID uint) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing.ID != exceptID {
		return ErrEmailAlreadyExists
	}
	return nil
}

func cacheKey(id uint) string {
	return fmt.Sprintf("%s%d", userCachePrefix, id)
}

func userEventData(u *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
	}
}
