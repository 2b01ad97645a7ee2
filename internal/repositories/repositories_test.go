package repositories_test

import (
	"context"
	"testing"
	"time"

	"galaxia/internal/database"
	"galaxia/internal/models"
	"galaxia/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoSet struct {
	users repositories.UserRepository
	posts repositories.PostRepository
}

// backends returns a fresh memory set and a fresh SQLite set.
func backends(t *testing.T) map[string]repoSet {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return map[string]repoSet{
		"memory": {
			users: repositories.NewMemoryUserRepository(),
			posts: repositories.NewMemoryPostRepository(),
		},
		"sqlite": {
			users: repositories.NewGORMUserRepository(db),
			posts: repositories.NewGORMPostRepository(db),
		},
	}
}

func newUser(name, email string) *models.User {
	return &models.User{Name: name, Email: email, PasswordHash: "hash", CreatedAt: time.Now().UTC()}
}

func TestUserRepository(t *testing.T) {
	for name, set := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := set.users

			alice := newUser("Alice", "Alice@Example.com")
			require.NoError(t, repo.Create(ctx, alice))
			assert.Equal(t, uint(1), alice.ID)

			bob := newUser("Bob", "bob@example.com")
			require.NoError(t, repo.Create(ctx, bob))
			assert.Equal(t, uint(2), bob.ID)

			err := repo.Create(ctx, newUser("Alias", "ALICE@example.COM"))
			assert.ErrorIs(t, err, repositories.ErrDuplicateKey)

			got, err := repo.GetByEmail(ctx, "alice@example.com")
			require.NoError(t, err)
			assert.Equal(t, alice.ID, got.ID)
			assert.Equal(t, "Alice@Example.com", got.Email)

			_, err = repo.GetByID(ctx, 99)
			assert.ErrorIs(t, err, repositories.ErrNotFound)
			_, err = repo.GetByEmail(ctx, "nobody@example.com")
			assert.ErrorIs(t, err, repositories.ErrNotFound)

			bob.Email = "ALICE@example.com"
			assert.ErrorIs(t, repo.Update(ctx, bob), repositories.ErrDuplicateKey)
			bob.Email = "robert@example.com"
			bob.Name = "Robert"
			require.NoError(t, repo.Update(ctx, bob))
			got, err = repo.GetByID(ctx, bob.ID)
			require.NoError(t, err)
			assert.Equal(t, "Robert", got.Name)
			assert.Equal(t, "robert@example.com", got.Email)

			assert.ErrorIs(t, repo.Update(ctx, &models.User{ID: 42, Name: "Ghost", Email: "g@example.com"}), repositories.ErrNotFound)

			require.NoError(t, repo.Create(ctx, newUser("Carol", "carol@example.com")))
			page, err := repo.List(ctx, 1, 1)
			require.NoError(t, err)
			require.Len(t, page, 1)
			assert.Equal(t, "Robert", page[0].Name)

			all, err := repo.List(ctx, 0, 0)
			require.NoError(t, err)
			assert.Len(t, all, 3)
			assert.Equal(t, []uint{1, 2, 3}, []uint{all[0].ID, all[1].ID, all[2].ID})

			empty, err := repo.List(ctx, 10, 5)
			require.NoError(t, err)
			assert.Empty(t, empty)

			n, err := repo.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(3), n)

			require.NoError(t, repo.Delete(ctx, alice.ID))
			assert.ErrorIs(t, repo.Delete(ctx, alice.ID), repositories.ErrNotFound)

			// Ids are never reused before a reset.
			dave := newUser("Dave", "dave@example.com")
			require.NoError(t, repo.Create(ctx, dave))
			assert.Equal(t, uint(4), dave.ID)

			require.NoError(t, repo.Reset(ctx))
			n, err = repo.Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, n)

			eve := newUser("Eve", "eve@example.com")
			require.NoError(t, repo.Create(ctx, eve))
			assert.Equal(t, uint(1), eve.ID)
		})
	}
}

func TestPostRepository(t *testing.T) {
	for name, set := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := set.posts

			posts, err := repo.ListNewestFirst(ctx)
			require.NoError(t, err)
			assert.Empty(t, posts)

			first := &models.Post{Author: "Alice", Content: "P1", CreatedAt: time.Now().UTC()}
			second := &models.Post{Author: "Bob", Content: "P2", CreatedAt: time.Now().UTC()}
			require.NoError(t, repo.Create(ctx, first))
			require.NoError(t, repo.Create(ctx, second))
			assert.Equal(t, uint(1), first.ID)
			assert.Equal(t, uint(2), second.ID)

			posts, err = repo.ListNewestFirst(ctx)
			require.NoError(t, err)
			require.Len(t, posts, 2)
			assert.Equal(t, "P2", posts[0].Content)
			assert.Equal(t, "P1", posts[1].Content)

			require.NoError(t, repo.Reset(ctx))
			third := &models.Post{Author: "Carol", Content: "P3", CreatedAt: time.Now().UTC()}
			require.NoError(t, repo.Create(ctx, third))
			assert.Equal(t, uint(1), third.ID)
		})
	}
}
