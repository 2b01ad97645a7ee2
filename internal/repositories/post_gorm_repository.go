package repositories

import (
	"context"
	"fmt"

	"galaxia/internal/models"

	"gorm.io/gorm"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

// Create inserts a new post.
func (r *GORMPostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// ListNewestFirst retrieves every post, highest ID first.
func (r *GORMPostRepository) ListNewestFirst(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// Reset deletes every post and restarts the ID sequence.
func (r *GORMPostRepository) Reset(ctx context.Context) error {
	return truncate(r.db.WithContext(ctx), &models.Post{})
}

// truncate empties the table of model and resets its identity column.
func truncate(db *gorm.DB, model interface{}) error {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return fmt.Errorf("failed to resolve table: %w", err)
	}
	table := stmt.Schema.Table

	var err error
	switch db.Dialector.Name() {
	case "postgres":
		err = db.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY", db.Statement.Quote(table))).Error
	case "mysql":
		err = db.Exec(fmt.Sprintf("TRUNCATE TABLE %s", db.Statement.Quote(table))).Error
	default:
		err = db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error
		if err == nil && db.Migrator().HasTable("sqlite_sequence") {
			err = db.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table).Error
		}
	}
	if err != nil {
		return fmt.Errorf("failed to reset table %s: %w", table, err)
	}
	return nil
}
