package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"miniblog/internal/domain"
	"miniblog/internal/repository"
	"miniblog/internal/repository/mocks"
	"miniblog/internal/service"
)

const testSecret = "test-secret"

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestAuthService_Register_Success(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService, err := service.NewAuthService(mockUserRepo, testSecret)
	require.NoError(t, err)

	ctx := context.Background()
	username := "alice"
	password := "pw1"

	mockUserRepo.On("Save", ctx, mock.MatchedBy(func(user *domain.User) bool {
		assert.Equal(t, username, user.Username)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)),
			"stored password should be a bcrypt hash of the input")
		return true
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = 5
		}).
		Return(nil).
		Once()

	token, err := authService.Register(ctx, username, password)

	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims := parseClaims(t, token)
	assert.Equal(t, float64(5), claims["id"])
	assert.Equal(t, username, claims["username"])

	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService, _ := service.NewAuthService(mockUserRepo, testSecret)
	ctx := context.Background()

	mockUserRepo.On("Save", ctx, mock.AnythingOfType("*domain.User")).
		Return(repository.ErrDuplicateEntry).
		Once()

	token, err := authService.Register(ctx, "existing", "password")

	require.Error(t, err)
	assert.Empty(t, token)
	assert.True(t, errors.Is(err, service.ErrRegistrationFailed))

	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService, _ := service.NewAuthService(mockUserRepo, testSecret)

	_, err := authService.Register(context.Background(), "", "password")
	assert.True(t, errors.Is(err, service.ErrInvalidInput))

	_, err = authService.Register(context.Background(), "user", "")
	assert.True(t, errors.Is(err, service.ErrInvalidInput))

	mockUserRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_Login_Success(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService, _ := service.NewAuthService(mockUserRepo, testSecret)
	ctx := context.Background()
	username := "testuser"
	password := "password123"
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userInDB := &domain.User{ID: 1, Username: username, Password: string(hashed)}

	mockUserRepo.On("FindByUsername", ctx, username).Return(userInDB, nil).Once()

	token, err := authService.Login(ctx, username, password)

	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims := parseClaims(t, token)
	assert.Equal(t, username, claims["username"])

	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService, _ := service.NewAuthService(mockUserRepo, testSecret)
	ctx := context.Background()

	mockUserRepo.On("FindByUsername", ctx, "nonexistent").
		Return(nil, repository.ErrUserNotFound).
		Once()

	token, err := authService.Login(ctx, "nonexistent", "password")

	require.Error(t, err)
	assert.Empty(t, token)
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials))

	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_IncorrectPassword(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService, _ := service.NewAuthService(mockUserRepo, testSecret)
	ctx := context.Background()
	username := "testuser"
	hashed, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	userInDB := &domain.User{ID: 1, Username: username, Password: string(hashed)}

	mockUserRepo.On("FindByUsername", ctx, username).Return(userInDB, nil).Once()

	token, err := authService.Login(ctx, username, "wrong")

	require.Error(t, err)
	assert.Empty(t, token)
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials),
		"wrong password and unknown user must be indistinguishable")

	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_IssueToken_Expiry(t *testing.T) {
	authService, _ := service.NewAuthService(new(mocks.UserRepository), testSecret)

	token, err := authService.IssueToken(7, "carol")
	require.NoError(t, err)

	claims := parseClaims(t, token)
	exp := int64(claims["exp"].(float64))
	iat := int64(claims["iat"].(float64))
	assert.Equal(t, int64((2 * time.Hour).Seconds()), exp-iat, "tokens expire after 2 hours")
}
