// Package middleware contains the gin middleware of the HTTP API.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
)

// Context keys set for downstream handlers after a successful check.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
)

var errMissingAuthHeader = errors.New("missing Authorization header")

// Auth returns a middleware enforcing a valid Bearer token. The verified
// identity is stored in the gin context under CtxUserID and CtxUsername.
// Missing header, malformed header and invalid token each get their own
// 401 message; nothing else about the failure leaks to the client.
func Auth(jwtSecret string) gin.HandlerFunc {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty for Auth middleware")
	}

	return func(c *gin.Context) {
		tokenStr, err := extractToken(c)
		if err != nil {
			if errors.Is(err, errMissingAuthHeader) {
				logrus.Warn("Auth middleware: missing Authorization header")
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Missing Authorization header"})
			} else {
				logrus.Warn("Auth middleware: malformed Authorization header")
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Malformed Authorization header"})
			}
			c.Abort()
			return
		}

		claims, err := validateToken(tokenStr, jwtSecret)
		if err != nil {
			logrus.WithError(err).Warn("Auth middleware: invalid token")
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			c.Abort()
			return
		}

		// JWT numbers decode as float64; reject anything that is not a
		// positive integer before narrowing.
		idClaim, ok := claims["id"].(float64)
		if !ok || idClaim <= 0 || idClaim != float64(uint(idClaim)) {
			logrus.Errorf("Auth middleware: 'id' claim is not a valid positive integer: %v", claims["id"])
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			c.Abort()
			return
		}
		username, ok := claims["username"].(string)
		if !ok || username == "" {
			logrus.Error("Auth middleware: 'username' claim missing in token")
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(CtxUserID, uint(idClaim))
		c.Set(CtxUsername, username)
		logrus.WithField("username", username).Debug("Auth middleware: user authenticated")

		c.Next()
	}
}

func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errMissingAuthHeader
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", jwt.ErrTokenMalformed
	}
	return parts[1], nil
}

func validateToken(tokenStr, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token or claims type")
	}
	return claims, nil
}
