// Package service contains the business logic sitting between the HTTP
// handlers and the repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"miniblog/internal/domain"
	"miniblog/internal/repository"
)

// tokenTTL is the fixed lifetime of issued tokens. Expiry is the only
// invalidation; there is no server-side revocation.
const tokenTTL = 2 * time.Hour

// AuthService handles registration, login and token issuance.
type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string) (*AuthService, error) {
	if userRepo == nil {
		panic("UserRepository cannot be nil for AuthService")
	}
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT secret key cannot be empty")
	}
	return &AuthService{userRepo: userRepo, jwtSecret: []byte(jwtSecret)}, nil
}

// Register creates an account and returns a signed token for it. A
// duplicate username maps to ErrRegistrationFailed.
func (s *AuthService) Register(ctx context.Context, username, password string) (string, error) {
	logCtx := logrus.WithField("username", username)

	if username == "" || password == "" {
		return "", ErrInvalidInput
	}

	hash, err := hashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return "", ErrInternalServer
	}

	user := &domain.User{Username: username, Password: hash}
	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Warn("Registration failed: username already exists")
			return "", ErrRegistrationFailed
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return "", fmt.Errorf("db error: %w", err)
	}

	token, err := s.IssueToken(user.ID, user.Username)
	if err != nil {
		logCtx.WithError(err).Error("Failed to sign token after registration")
		return "", ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	return token, nil
}

// Login verifies credentials and returns a signed token. Unknown usernames
// and wrong passwords produce the same generic error so usernames cannot
// be enumerated.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	logCtx := logrus.WithField("username", username)

	if username == "" || password == "" {
		return "", ErrInvalidInput
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Login attempt failed: user not found")
		} else {
			logCtx.WithError(err).Warn("Login attempt failed: error finding user")
		}
		return "", ErrInvalidCredentials
	}

	if !checkPassword(password, user.Password) {
		logCtx.Warn("Login attempt failed: invalid password")
		return "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(user.ID, user.Username)
	if err != nil {
		logCtx.WithError(err).Error("Failed to sign token during login")
		return "", ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User logged in successfully")
	return token, nil
}

// IssueToken signs an HS256 token carrying the user identity.
func (s *AuthService) IssueToken(userID uint, username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       userID,
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}

// checkPassword never errors on a mismatch, it only reports false.
func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
