package services

import (
	"context"
	"errors"

	"biblioteca-api/internal/adapters/persistence/models"
	"biblioteca-api/internal/adapters/persistence/repositories"
	"biblioteca-api/internal/core/domain"
	"biblioteca-api/internal/pkg/logger"

	"gorm.io/gorm"
)

// UserService handles profile management business logic
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpdateUserInput represents a profile patch. There is deliberately no
// password field here: secret rotation is excluded from the generic update
// path, so a password key in the request body is simply dropped.
type UpdateUserInput struct {
	Name   *string `json:"nombre" validate:"omitempty,max=100"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Role   *string `json:"rol" validate:"omitempty,oneof=lector editor admin"`
	Active *bool   `json:"activo"`
}

// GetProfile returns the user's own record, hash excluded
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// Update applies a profile patch. The caller must be the target user or an
// admin. Note the patch can still touch rol and activo for self-updates;
// that mirrors the generic update contract and is a known authorization gap.
func (s *UserService) Update(ctx context.Context, targetID, callerID, callerRole string, input *UpdateUserInput) (*models.UserResponse, error) {
	if callerID != targetID && callerRole != models.RoleAdmin {
		return nil, domain.ErrNotAuthorized
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrEmailTaken
		}
		user.Email = *input.Email
	}

	if input.Name != nil {
		user.Name = *input.Name
	}

	if input.Role != nil {
		if !models.ValidRole(*input.Role) {
			return nil, domain.ErrInvalidRole
		}
		user.Role = *input.Role
	}

	if input.Active != nil {
		user.Active = *input.Active
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	logger.L().Info().
		Str("user_id", user.ID).
		Str("updated_by", callerID).
		Msg("user updated")

	return user.ToResponse(), nil
}

// Deactivate soft-deletes a user. Same authorization rule as Update.
// Reservations of the user and availability of any book are left untouched.
func (s *UserService) Deactivate(ctx context.Context, targetID, callerID, callerRole string) error {
	if callerID != targetID && callerRole != models.RoleAdmin {
		return domain.ErrNotAuthorized
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if err := s.userRepo.Deactivate(ctx, targetID); err != nil {
		return err
	}

	logger.L().Info().
		Str("user_id", targetID).
		Str("deactivated_by", callerID).
		Msg("user deactivated")

	return nil
}
