package usecase

import (
	"fmt"
	"testing"
	"time"

	authdomain "taskflow-backend/internal/auth/domain"
	authdto "taskflow-backend/internal/auth/dto"
	"taskflow-backend/internal/auth/repository"
	"taskflow-backend/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestAuth(t *testing.T) (AuthUsecase, repository.UserRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}))

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	}
	userRepo := repository.NewUserRepository(db)
	return NewAuthUsecase(userRepo, cfg), userRepo
}

func TestRegister(t *testing.T) {
	auth, _ := newTestAuth(t)

	result, err := auth.Register(&authdto.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	require.NotNil(t, result.User)
	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.NotEqual(t, "supersecret", result.User.Password, "password must be stored hashed")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	auth, _ := newTestAuth(t)

	req := &authdto.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "supersecret"}
	_, err := auth.Register(req)
	require.NoError(t, err)

	_, err = auth.Register(req)
	assert.EqualError(t, err, "email already registered")
}

func TestLogin(t *testing.T) {
	auth, _ := newTestAuth(t)

	_, err := auth.Register(&authdto.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	result, err := auth.Login(&authdto.LoginRequest{Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)

	_, err = auth.Login(&authdto.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.Error(t, err)

	_, err = auth.Login(&authdto.LoginRequest{Email: "nobody@example.com", Password: "supersecret"})
	assert.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	auth, _ := newTestAuth(t)

	result, err := auth.Register(&authdto.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	user, err := auth.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)

	_, err = auth.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestRefreshAndLogout(t *testing.T) {
	auth, _ := newTestAuth(t)

	result, err := auth.Register(&authdto.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	refreshed, err := auth.RefreshToken(result.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	require.NoError(t, auth.Logout(result.RefreshToken))

	_, err = auth.RefreshToken(result.RefreshToken)
	assert.Error(t, err, "a logged-out refresh token must be rejected")
}
