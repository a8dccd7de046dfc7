// Package http contains the gin handlers of the API.
package http

import "github.com/gin-gonic/gin"

// ErrorResponse writes the uniform error body used across the API.
func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}
