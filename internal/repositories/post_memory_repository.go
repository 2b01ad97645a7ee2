package repositories

import (
	"context"
	"sync"

	"galaxia/internal/models"
)

// MemoryPostRepository is an in-memory implementation of PostRepository.
type MemoryPostRepository struct {
	posts  []models.Post
	nextID uint
	mu     sync.RWMutex
}

// NewMemoryPostRepository creates a new instance of MemoryPostRepository.
func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{nextID: 1}
}

// Create appends a post and assigns its ID.
func (r *MemoryPostRepository) Create(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post.ID = r.nextID
	r.nextID++
	r.posts = append(r.posts, *post)
	return nil
}

// ListNewestFirst returns posts in reverse insertion order.
func (r *MemoryPostRepository) ListNewestFirst(_ context.Context) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Post, 0, len(r.posts))
	for i := len(r.posts) - 1; i >= 0; i-- {
		out = append(out, r.posts[i])
	}
	return out, nil
}

// Reset clears every post and restarts the ID counter.
func (r *MemoryPostRepository) Reset(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.posts = nil
	r.nextID = 1
	return nil
}
