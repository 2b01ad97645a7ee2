package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"galaxia/internal/models"
	"galaxia/internal/repositories"
	"galaxia/internal/schemas"
	"galaxia/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	publisher := new(MockPublisher)
	userService := services.NewUserService(mockRepo, fakeHasher{}, nil, publisher)

	mockRepo.On("GetByEmail", mock.Anything, "ana@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Name == "Ana" && u.PasswordHash == "hashed:password123" && !u.CreatedAt.IsZero()
	})).Return(nil).Once()
	publisher.On("PublishEvent", services.EventUserCreated, mock.Anything).Return(nil).Once()

	user, err := userService.Create(ctx, "Ana", "ana@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	assert.Equal(t, "ana@example.com", user.Email)

	// Email taken
	mockRepo.On("GetByEmail", mock.Anything, "ANA@example.com").Return(&models.User{ID: 1}, nil).Once()
	_, err = userService.Create(ctx, "Ana", "ANA@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrEmailAlreadyExists)

	// Unique index fired after the check
	mockRepo.On("GetByEmail", mock.Anything, "race@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrDuplicateKey).Once()
	_, err = userService.Create(ctx, "Race", "race@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrEmailAlreadyExists)

	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestUserService_PublishFailureDoesNotFailCreate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	publisher := new(MockPublisher)
	userService := services.NewUserService(mockRepo, fakeHasher{}, nil, publisher)

	mockRepo.On("GetByEmail", mock.Anything, "ana@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	publisher.On("PublishEvent", services.EventUserCreated, mock.Anything).Return(fmt.Errorf("broker down")).Once()

	_, err := userService.Create(context.Background(), "Ana", "ana@example.com", "password123")
	assert.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestUserService_Get(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	userService := services.NewUserService(mockRepo, fakeHasher{}, nil, nil)

	mockRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.User{ID: 1, Name: "Ana"}, nil).Once()
	user, err := userService.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)

	mockRepo.On("GetByID", mock.Anything, uint(2)).Return(nil, repositories.ErrNotFound).Once()
	_, err = userService.Get(ctx, 2)
	assert.ErrorIs(t, err, services.ErrUserNotFound)

	mockRepo.AssertExpectations(t)
}

func TestUserService_ListPage(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	userService := services.NewUserService(mockRepo, fakeHasher{}, nil, nil)

	page := []models.User{{ID: 3}, {ID: 4}}
	mockRepo.On("Count", mock.Anything).Return(int64(5), nil).Once()
	mockRepo.On("List", mock.Anything, 2, 2).Return(page, nil).Once()

	users, pagination, err := userService.ListPage(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, page, users)
	assert.Equal(t, services.Pagination{Page: 2, PerPage: 2, Total: 5, Pages: 3}, pagination)

	// An empty store has no pages, so nothing is listed
	mockRepo.On("Count", mock.Anything).Return(int64(0), nil).Once()
	users, pagination, err = userService.ListPage(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Equal(t, 0, pagination.Pages)

	// A page far past the end must not overflow into a valid offset
	mockRepo.On("Count", mock.Anything).Return(int64(3), nil).Once()
	users, pagination, err = userService.ListPage(ctx, 100000000000000000, 100)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
	assert.Equal(t, services.Pagination{Page: 100000000000000000, PerPage: 100, Total: 3, Pages: 1}, pagination)

	_, _, err = userService.ListPage(ctx, 0, 10)
	assert.Error(t, err)

	mockRepo.AssertExpectations(t)
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	publisher := new(MockPublisher)
	userService := services.NewUserService(mockRepo, fakeHasher{}, nil, publisher)

	existing := func() *models.User {
		return &models.User{ID: 1, Name: "Ana", Email: "ana@example.com", PasswordHash: "hashed:password123"}
	}

	// Name and password change
	mockRepo.On("GetByID", mock.Anything, uint(1)).Return(existing(), nil).Once()
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Name == "Ana María" && u.PasswordHash == "hashed:newpassword1" && u.Email == "ana@example.com"
	})).Return(nil).Once()
	publisher.On("PublishEvent", services.EventUserUpdated, mock.Anything).Return(nil).Once()

	user, err := userService.Update(ctx, 1, schemas.UserChanges{Name: strPtr("Ana María"), Password: strPtr("newpassword1")})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", user.Name)

	// Same email with different case belongs to the same user
	mockRepo.On("GetByID", mock.Anything, uint(1)).Return(existing(), nil).Once()
	mockRepo.On("GetByEmail", mock.Anything, "ANA@example.com").Return(existing(), nil).Once()
	mockRepo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
	publisher.On("PublishEvent", services.EventUserUpdated, mock.Anything).Return(nil).Once()
	user, err = userService.Update(ctx, 1, schemas.UserChanges{Email: strPtr("ANA@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "ANA@example.com", user.Email)

	// Email owned by someone else
	mockRepo.On("GetByID", mock.Anything, uint(1)).Return(existing(), nil).Once()
	mockRepo.On("GetByEmail", mock.Anything, "bob@example.com").Return(&models.User{ID: 2}, nil).Once()
	_, err = userService.Update(ctx, 1, schemas.UserChanges{Email: strPtr("bob@example.com")})
	assert.ErrorIs(t, err, services.ErrEmailAlreadyExists)

	// Empty change set
	mockRepo.On("GetByID", mock.Anything, uint(1)).Return(existing(), nil).Once()
	_, err = userService.Update(ctx, 1, schemas.UserChanges{})
	assert.ErrorIs(t, err, services.ErrNoFieldsProvided)

	// Missing user wins over the empty change set
	mockRepo.On("GetByID", mock.Anything, uint(9)).Return(nil, repositories.ErrNotFound).Once()
	_, err = userService.Update(ctx, 9, schemas.UserChanges{})
	assert.ErrorIs(t, err, services.ErrUserNotFound)

	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	publisher := new(MockPublisher)
	userService := services.NewUserService(mockRepo, fakeHasher{}, nil, publisher)

	mockRepo.On("Delete", mock.Anything, uint(1)).Return(nil).Once()
	publisher.On("PublishEvent", services.EventUserDeleted, mock.Anything).Return(nil).Once()
	deleted, err := userService.Delete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, deleted)

	mockRepo.On("Delete", mock.Anything, uint(1)).Return(repositories.ErrNotFound).Once()
	deleted, err = userService.Delete(ctx, 1)
	require.NoError(t, err)
	assert.False(t, deleted)

	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestUserService_ConcurrentCreateSameEmail(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryUserRepository()
	userService := services.NewUserService(repo, fakeHasher{}, nil, nil)

	const workers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		email := "ana@example.com"
		if i%2 == 0 {
			email = "ANA@Example.com"
		}
		go func() {
			defer wg.Done()
			_, err := userService.Create(ctx, "Ana", email, "password123")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if assert.ErrorIs(t, err, services.ErrEmailAlreadyExists) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)

	users, err := userService.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserService_ResetRestartsIDs(t *testing.T) {
	ctx := context.Background()
	userService := services.NewUserService(repositories.NewMemoryUserRepository(), fakeHasher{}, nil, nil)

	first, err := userService.Create(ctx, "Ana", "ana@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, userService.Reset(ctx))

	again, err := userService.Create(ctx, "Ana", "ana@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, uint(1), again.ID)
}
