package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/crypto/bcrypt"
)

const (
	invalidCredentialsMessage = "Invalid username or password"
	duplicateIdentityMessage  = "Username or email already exists"
)

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// compared against when the username is unknown, so both failures cost a bcrypt round
var dummyHash = mustHash("storefront-dummy-password")

func mustHash(password string) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("hashing dummy password: %v", err))
	}

	return hash
}

type userService struct {
	repo        repository.UserRepository
	rateLimiter repository.RateLimitRepository
	validate    *validator.Validate
	sanitizer   *bluemonday.Policy
	dummyHash   []byte
}

func NewUserService(repo repository.UserRepository, rateLimiter repository.RateLimitRepository, validate *validator.Validate) UserService {

	return &userService{
		repo:        repo,
		rateLimiter: rateLimiter,
		validate:    validate,
		sanitizer:   bluemonday.StrictPolicy(),
		dummyHash:   dummyHash,
	}
}

func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {

	logger := middleware.LoggerFromContext(ctx)

	req.Username = strings.TrimSpace(s.sanitizer.Sanitize(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := utils.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to check existing users").WithError(err)
	}

	if exists {
		logger.Warn("Registration with existing identity", slog.String("username", req.Username))
		return nil, appErrors.DuplicateIdentityError(duplicateIdentityMessage)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.InternalError("Failed to secure password").WithError(err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.DuplicateIdentityError(duplicateIdentityMessage).WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to create user").WithError(err)
	}

	logger.Info("User registered", slog.Int64("userId", user.ID))

	return user, nil
}

// Authenticate reports the same error for an unknown user and a wrong
// password.
func (s *userService) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error) {

	logger := middleware.LoggerFromContext(ctx)

	if err := utils.ValidateStruct(s.validate, req); err != nil {
		return nil, appErrors.AuthenticationError(invalidCredentialsMessage).WithError(err)
	}

	if s.rateLimiter != nil {
		allowed, _, retryAfter, err := s.rateLimiter.CheckLoginRateLimit(ctx, req.Username)
		if err != nil {
			// fail open, login must keep working without redis
			logger.Error("Rate limit check failed", slog.Any("error", err))
		} else if !allowed {
			return nil, appErrors.TooManyRequestsError(fmt.Sprintf("Too many login attempts. Please try again in %d seconds.", retryAfter))
		}
	}

	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.DatabaseError("Failed to fetch user").WithError(err)
		}

		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		logger.Warn("Login failed", slog.String("reason", "unknown user"))

		return nil, appErrors.AuthenticationError(invalidCredentialsMessage)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.Warn("Login failed", slog.String("reason", "wrong password"), slog.Int64("userId", user.ID))
		return nil, appErrors.AuthenticationError(invalidCredentialsMessage)
	}

	logger.Info("User authenticated", slog.Int64("userId", user.ID))

	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("User not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch user").WithError(err)
	}

	return user, nil
}
