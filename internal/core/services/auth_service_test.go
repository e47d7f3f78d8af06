package services

import (
	"context"
	"testing"

	"biblioteca-api/internal/adapters/persistence/models"
	"biblioteca-api/internal/config"
	"biblioteca-api/internal/core/domain"
	"biblioteca-api/internal/pkg/jwt"
	"biblioteca-api/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			ExpiryHours: 1,
		},
	}
}

func TestRegisterDefaultsToReaderRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testConfig())

	user, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Ana García",
		Email:    "ana@example.com",
		Password: "secreto123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.RoleReader, user.Role)
	assert.True(t, user.Active)

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secreto123", stored.Password)
	assert.True(t, password.Verify("secreto123", stored.Password))
}

func TestRegisterWithExplicitRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testConfig())

	user, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Eva Editor",
		Email:    "eva@example.com",
		Password: "secreto123",
		Role:     models.RoleEditor,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleEditor, user.Role)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testConfig())

	_, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "secreto123",
		Role:     "superadmin",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestRegisterEmailTaken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testConfig())

	_, err := svc.Register(context.Background(), &RegisterInput{
		Name: "Ana", Email: "ana@example.com", Password: "secreto123",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &RegisterInput{
		Name: "Otra Ana", Email: "ana@example.com", Password: "otra456",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegisterEmailHeldByDeactivatedAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testConfig())

	user, err := svc.Register(context.Background(), &RegisterInput{
		Name: "Ana", Email: "ana@example.com", Password: "secreto123",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Deactivate(context.Background(), user.ID))

	// A deactivated account still owns its email.
	_, err = svc.Register(context.Background(), &RegisterInput{
		Name: "Nueva Ana", Email: "ana@example.com", Password: "otra456",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegisterTranslatesStoreConflict(t *testing.T) {
	repo := newFakeUserRepo()
	repo.forceCreateErr = gorm.ErrDuplicatedKey
	svc := NewAuthService(repo, testConfig())

	_, err := svc.Register(context.Background(), &RegisterInput{
		Name: "Ana", Email: "ana@example.com", Password: "secreto123",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLoginIssuesValidToken(t *testing.T) {
	repo := newFakeUserRepo()
	cfg := testConfig()
	svc := NewAuthService(repo, cfg)

	registered, err := svc.Register(context.Background(), &RegisterInput{
		Name: "Ana García", Email: "ana@example.com", Password: "secreto123", Role: models.RoleAdmin,
	})
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), &LoginInput{
		Email: "ana@example.com", Password: "secreto123",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := jwt.ValidateToken(token, cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "Ana García", claims.Name)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testConfig())

	_, _, err := svc.Login(context.Background(), &LoginInput{
		Email: "nadie@example.com", Password: "lo-que-sea",
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLoginDeactivatedUserLooksMissing(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testConfig())

	user, err := svc.Register(context.Background(), &RegisterInput{
		Name: "Ana", Email: "ana@example.com", Password: "secreto123",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Deactivate(context.Background(), user.ID))

	// Deactivated and nonexistent accounts are indistinguishable at login.
	_, _, err = svc.Login(context.Background(), &LoginInput{
		Email: "ana@example.com", Password: "secreto123",
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testConfig())

	_, err := svc.Register(context.Background(), &RegisterInput{
		Name: "Ana", Email: "ana@example.com", Password: "secreto123",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), &LoginInput{
		Email: "ana@example.com", Password: "incorrecta",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
