package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"galaxia/internal/models"
	"galaxia/internal/repositories"
)

// maxAuthorLength bounds the author column; longer names are cut.
const maxAuthorLength = 80

// WallService handles business logic related to wall posts.
type WallService struct {
	repo   repositories.PostRepository
	events EventPublisher
}

// NewWallService creates a new WallService. events may be nil.
func NewWallService(repo repositories.PostRepository, events EventPublisher) *WallService {
	return &WallService{
		repo:   repo,
		events: events,
	}
}

// CreatePost publishes a post on the wall. Content is trimmed and must hold
// between 1 and models.MaxPostLength characters. A blank author becomes
// models.DefaultAuthor.
func (s *WallService) CreatePost(ctx context.Context, content, author string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > models.MaxPostLength {
		return nil, ErrInvalidContent
	}

	author = strings.TrimSpace(author)
	if author == "" {
		author = models.DefaultAuthor
	}
	if utf8.RuneCountInString(author) > maxAuthorLength {
		author = string([]rune(author)[:maxAuthorLength])
	}

	post := &models.Post{
		Author:    author,
		Content:   content,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	publish(s.events, EventPostCreated, map[string]interface{}{
		"id":     post.ID,
		"author": post.Author,
	})
	return post, nil
}

// ListPosts returns every post, most recent first.
func (s *WallService) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.repo.ListNewestFirst(ctx)
}

// Reset removes every post and restarts ID assignment. Used by test harnesses.
func (s *WallService) Reset(ctx context.Context) error {
	return s.repo.Reset(ctx)
}
