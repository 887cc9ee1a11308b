package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	repoMocks "github.com/aaravmahajanofficial/storefront/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserService() (service.UserService, *repoMocks.UserRepository, *repoMocks.RateLimitRepository) {
	repo := new(repoMocks.UserRepository)
	limiter := new(repoMocks.RateLimitRepository)

	return service.NewUserService(repo, limiter, validator.New()), repo, limiter
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	validRequest := func() *models.RegisterRequest {
		return &models.RegisterRequest{Username: "alice", Email: "Alice@Example.com ", Password: "secret123"}
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		svc, repo, _ := newUserService()
		req := validRequest()

		repo.On("ExistsByUsernameOrEmail", ctx, "alice", "alice@example.com").Return(false, nil).Once()
		repo.On("CreateUser", ctx, mock.AnythingOfType("*models.User")).
			Run(func(args mock.Arguments) { args.Get(1).(*models.User).ID = 7 }).
			Return(nil).Once()

		// Act
		user, err := svc.Register(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.NotEqual(t, "secret123", user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))
		repo.AssertExpectations(t)
	})

	t.Run("Failure - Existing Username Or Email", func(t *testing.T) {
		svc, repo, _ := newUserService()

		repo.On("ExistsByUsernameOrEmail", ctx, "alice", "alice@example.com").Return(true, nil).Once()

		user, err := svc.Register(ctx, validRequest())

		assert.Nil(t, user)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeDuplicateEntry))
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Unique Index Race", func(t *testing.T) {
		svc, repo, _ := newUserService()

		repo.On("ExistsByUsernameOrEmail", ctx, "alice", "alice@example.com").Return(false, nil).Once()
		repo.On("CreateUser", ctx, mock.Anything).Return(repository.ErrDuplicate).Once()

		user, err := svc.Register(ctx, validRequest())

		assert.Nil(t, user)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeDuplicateEntry))
	})

	t.Run("Failure - Validation", func(t *testing.T) {
		svc, repo, _ := newUserService()

		user, err := svc.Register(ctx, &models.RegisterRequest{Username: "al", Email: "not-an-email", Password: "123"})

		assert.Nil(t, user)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeValidation))
		repo.AssertNotCalled(t, "ExistsByUsernameOrEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Markup In Username", func(t *testing.T) {
		svc, _, _ := newUserService()

		user, err := svc.Register(ctx, &models.RegisterRequest{Username: "<b></b>", Email: "x@example.com", Password: "secret123"})

		assert.Nil(t, user)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeValidation))
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		svc, repo, _ := newUserService()

		repo.On("ExistsByUsernameOrEmail", ctx, "alice", "alice@example.com").Return(false, nil).Once()
		repo.On("CreateUser", ctx, mock.Anything).Return(errors.New("disk full")).Once()

		user, err := svc.Register(ctx, validRequest())

		assert.Nil(t, user)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeDatabaseError))
	})
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	alice := &models.User{ID: 7, Username: "alice", Email: "alice@example.com", Password: string(hash), CreatedAt: time.Now()}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		svc, repo, limiter := newUserService()

		limiter.On("CheckLoginRateLimit", ctx, "alice").Return(true, 4, 0, nil).Once()
		repo.On("GetUserByUsername", ctx, "alice").Return(alice, nil).Once()

		// Act
		user, err := svc.Authenticate(ctx, &models.LoginRequest{Username: "alice", Password: "secret123"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
		limiter.AssertExpectations(t)
	})

	t.Run("Unknown User And Wrong Password Look The Same", func(t *testing.T) {
		// Arrange
		svc, repo, limiter := newUserService()

		limiter.On("CheckLoginRateLimit", ctx, mock.Anything).Return(true, 4, 0, nil)
		repo.On("GetUserByUsername", ctx, "ghost").Return(nil, repository.ErrNotFound).Once()
		repo.On("GetUserByUsername", ctx, "alice").Return(alice, nil).Once()

		// Act
		_, unknownErr := svc.Authenticate(ctx, &models.LoginRequest{Username: "ghost", Password: "secret123"})
		_, wrongErr := svc.Authenticate(ctx, &models.LoginRequest{Username: "alice", Password: "wrong-password"})

		// Assert
		require.Error(t, unknownErr)
		require.Error(t, wrongErr)
		assert.Equal(t, unknownErr.Error(), wrongErr.Error())
		assert.Equal(t, "Invalid username or password", wrongErr.Error())
		assert.True(t, appErrors.HasCode(unknownErr, appErrors.ErrCodeAuthentication))
		assert.True(t, appErrors.HasCode(wrongErr, appErrors.ErrCodeAuthentication))
	})

	t.Run("Failure - Rate Limited", func(t *testing.T) {
		svc, repo, limiter := newUserService()

		limiter.On("CheckLoginRateLimit", ctx, "alice").Return(false, 0, 12, nil).Once()

		user, err := svc.Authenticate(ctx, &models.LoginRequest{Username: "alice", Password: "secret123"})

		assert.Nil(t, user)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeTooManyRequests))
		assert.Contains(t, err.Error(), "12 seconds")
		repo.AssertNotCalled(t, "GetUserByUsername", mock.Anything, mock.Anything)
	})

	t.Run("Rate Limiter Failure Does Not Block Login", func(t *testing.T) {
		svc, repo, limiter := newUserService()

		limiter.On("CheckLoginRateLimit", ctx, "alice").Return(false, 0, 0, errors.New("redis down")).Once()
		repo.On("GetUserByUsername", ctx, "alice").Return(alice, nil).Once()

		user, err := svc.Authenticate(ctx, &models.LoginRequest{Username: "alice", Password: "secret123"})

		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("Failure - Empty Form", func(t *testing.T) {
		svc, _, limiter := newUserService()

		user, err := svc.Authenticate(ctx, &models.LoginRequest{})

		assert.Nil(t, user)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeAuthentication))
		limiter.AssertNotCalled(t, "CheckLoginRateLimit", mock.Anything, mock.Anything)
	})
}

func TestUserService_GetUserByID(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newUserService()

	repo.On("GetUserByID", ctx, int64(404)).Return(nil, repository.ErrNotFound).Once()

	user, err := svc.GetUserByID(ctx, 404)

	assert.Nil(t, user)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
}
