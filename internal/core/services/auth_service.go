package services

import (
	"context"
	"errors"
	"time"

	"biblioteca-api/internal/adapters/persistence/models"
	"biblioteca-api/internal/adapters/persistence/repositories"
	"biblioteca-api/internal/config"
	"biblioteca-api/internal/core/domain"
	"biblioteca-api/internal/pkg/jwt"
	"biblioteca-api/internal/pkg/logger"
	"biblioteca-api/internal/pkg/password"

	"gorm.io/gorm"
)

// AuthService handles registration and login
type AuthService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Name     string `json:"nombre" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"rol" validate:"omitempty,oneof=lector editor admin"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register registers a new user
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.UserResponse, error) {
	role := input.Role
	if role == "" {
		role = models.RoleReader
	}
	if !models.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	// The email must be free among ALL accounts, deactivated ones included.
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Role:     role,
		Active:   true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// A racing registration can slip past the check; the unique index
		// on email turns it into the same conflict.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	logger.L().Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Str("rol", user.Role).
		Msg("user registered")

	return user.ToResponse(), nil
}

// Login authenticates a user and issues an access token.
// A deactivated account is reported as not found, indistinguishable from a
// nonexistent one.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (string, *models.UserResponse, error) {
	user, err := s.userRepo.GetActiveByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, domain.ErrUserNotFound
		}
		return "", nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.ID, user.Role, user.Name, s.cfg.JWT.Secret, s.cfg.JWT.ExpiryHours)
	if err != nil {
		return "", nil, err
	}

	logger.L().Info().
		Str("user_id", user.ID).
		Time("expires", time.Now().Add(time.Duration(s.cfg.JWT.ExpiryHours)*time.Hour)).
		Msg("user logged in")

	return token, user.ToResponse(), nil
}
