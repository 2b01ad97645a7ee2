package services_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"galaxia/internal/cache"
	"galaxia/internal/models"
	"galaxia/internal/repositories"
	"galaxia/internal/schemas"
	"galaxia/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pausingUserRepository stops the next GetByID after it has read the row
// until release is closed.
type pausingUserRepository struct {
	*repositories.MemoryUserRepository
	pauseNext atomic.Bool
	reached   chan struct{}
	release   chan struct{}
}

func (r *pausingUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := r.MemoryUserRepository.GetByID(ctx, id)
	if r.pauseNext.CompareAndSwap(true, false) {
		close(r.reached)
		<-r.release
	}
	return user, err
}

func newCachedUserService(t *testing.T, repo repositories.UserRepository) (*services.UserService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { client.Close() })
	return services.NewUserService(repo, fakeHasher{}, client, nil), mr
}

func TestUserService_GetReadsThroughCache(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryUserRepository()
	userService, mr := newCachedUserService(t, repo)

	created, err := userService.Create(ctx, "Ana", "ana@example.com", "password123")
	require.NoError(t, err)
	assert.False(t, mr.Exists("user:1"))

	_, err = userService.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists("user:1"))

	// Removing the row behind the service's back shows the next read is a cache hit
	require.NoError(t, repo.Delete(ctx, created.ID))
	hit, err := userService.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", hit.Name)
	assert.Equal(t, created.Email, hit.Email)
	assert.True(t, created.CreatedAt.Equal(hit.CreatedAt))
}

func TestUserService_MutationsInvalidateCache(t *testing.T) {
	ctx := context.Background()
	userService, mr := newCachedUserService(t, repositories.NewMemoryUserRepository())

	created, err := userService.Create(ctx, "Ana", "ana@example.com", "password123")
	require.NoError(t, err)

	_, err = userService.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists("user:1"))

	_, err = userService.Update(ctx, created.ID, schemas.UserChanges{Name: strPtr("Ana María")})
	require.NoError(t, err)
	assert.False(t, mr.Exists("user:1"))

	user, err := userService.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana María", user.Name)
	require.True(t, mr.Exists("user:1"))

	deleted, err := userService.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, mr.Exists("user:1"))

	_, err = userService.Get(ctx, created.ID)
	assert.ErrorIs(t, err, services.ErrUserNotFound)

	// Reset clears every cached user
	other, err := userService.Create(ctx, "Bob", "bob@example.com", "password123")
	require.NoError(t, err)
	_, err = userService.Get(ctx, other.ID)
	require.NoError(t, err)
	require.NoError(t, mr.Set("unrelated", "x"))
	require.NoError(t, userService.Reset(ctx))
	assert.Equal(t, []string{"unrelated"}, mr.Keys())
}

func TestUserService_UpdateDuringCacheMissIsNotLost(t *testing.T) {
	ctx := context.Background()
	repo := &pausingUserRepository{
		MemoryUserRepository: repositories.NewMemoryUserRepository(),
		reached:              make(chan struct{}),
		release:              make(chan struct{}),
	}
	userService, _ := newCachedUserService(t, repo)

	created, err := userService.Create(ctx, "Ana", "ana@example.com", "password123")
	require.NoError(t, err)

	repo.pauseNext.Store(true)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := userService.Get(ctx, created.ID)
		assert.NoError(t, err)
	}()
	<-repo.reached

	// The reader now holds the old row. Give an update every chance to commit
	// and invalidate before the reader stores it in the cache.
	updated := make(chan struct{})
	go func() {
		defer wg.Done()
		defer close(updated)
		_, err := userService.Update(ctx, created.ID, schemas.UserChanges{Name: strPtr("Ana María")})
		assert.NoError(t, err)
	}()
	select {
	case <-updated:
	case <-time.After(50 * time.Millisecond):
	}
	close(repo.release)
	wg.Wait()

	user, err := userService.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana María", user.Name)
}
