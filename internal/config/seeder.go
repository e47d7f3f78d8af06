package config

import (
	"context"

	"gorm.io/gorm"

	"biblioteca-api/internal/adapters/persistence/models"
	"biblioteca-api/internal/adapters/persistence/repositories"
	"biblioteca-api/internal/pkg/logger"
	"biblioteca-api/internal/pkg/password"
)

// Seeder handles database seeding
type Seeder struct {
	userRepo repositories.UserRepository
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{userRepo: repositories.NewUserRepository(db)}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	if err := s.seedAdminUser(); err != nil {
		logger.L().Warn().Err(err).Msg("admin seeder skipped")
	}
	return nil
}

// seedAdminUser creates a default admin account when none exists.
// Development convenience only; override the credentials via env in prod.
func (s *Seeder) seedAdminUser() error {
	ctx := context.Background()

	exists, err := s.userRepo.ExistsByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	email := getEnv("ADMIN_EMAIL", "admin@biblioteca.local")
	plain := getEnv("ADMIN_PASSWORD", "admin123456")

	hashed, err := password.Hash(plain)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     "Administrador",
		Email:    email,
		Password: hashed,
		Role:     models.RoleAdmin,
		Active:   true,
	}

	if err := s.userRepo.Create(ctx, admin); err != nil {
		return err
	}

	logger.L().Info().Str("email", email).Msg("default admin user created")
	return nil
}
