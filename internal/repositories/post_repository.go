package repositories

import (
	"context"

	"galaxia/internal/models"
)

// PostRepository defines the interface for wall post data access.
// Posts are append-only.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// ListNewestFirst returns every post, most recent first.
	ListNewestFirst(ctx context.Context) ([]models.Post, error)
	// Reset removes every post and restarts id assignment at 1.
	Reset(ctx context.Context) error
}
