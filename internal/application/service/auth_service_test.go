package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tillpoint/billing-api/internal/domain/entity"
	"github.com/tillpoint/billing-api/internal/infrastructure/repository"
	"github.com/tillpoint/billing-api/pkg/apperror"
	"github.com/tillpoint/billing-api/pkg/oauth"
	"github.com/tillpoint/billing-api/pkg/utils"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	googleOAuth := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{})
	return NewAuthService(repository.NewUserRepository(db), jwtManager, googleOAuth)
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(context.Background(), &RegisterInput{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
		Password:  "supersecret",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCashier, user.Role)
	assert.NotEqual(t, "supersecret", user.Password)

	output, err := svc.Login(context.Background(), &LoginInput{
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, output.AccessToken)
	assert.NotEmpty(t, output.RefreshToken)
	assert.Equal(t, user.ID, output.User.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(context.Background(), &RegisterInput{
		FirstName: "Alice", Email: "alice@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &RegisterInput{
		FirstName: "Other", Email: "alice@example.com", Password: "different",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(context.Background(), &RegisterInput{
		FirstName: "Alice", Email: "alice@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &LoginInput{
		Email: "alice@example.com", Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperror.GetAppError(err).Code)

	_, err = svc.Login(context.Background(), &LoginInput{
		Email: "nobody@example.com", Password: "supersecret",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperror.GetAppError(err).Code)
}

func TestRefreshToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(context.Background(), &RegisterInput{
		FirstName: "Alice", Email: "alice@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), &LoginInput{
		Email: "alice@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.User.ID, refreshed.User.ID)

	_, err = svc.RefreshToken(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperror.GetAppError(err).Code)
}

func TestGoogleLogin_NotConfigured(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.GoogleAuthURL("state")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	_, err = svc.GoogleLogin(context.Background(), "code")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}
