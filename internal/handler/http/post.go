package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"miniblog/internal/middleware"
	"miniblog/internal/service"
)

// PostHandler serves the post endpoints.
type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// CreatePostRequest deliberately has no author field; the author comes
// from the verified token.
type CreatePostRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

// Create stores a new post for the authenticated user.
func (h *PostHandler) Create(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.CreatePost: invalid input")
		ErrorResponse(c, http.StatusBadRequest, "title and body required")
		return
	}

	author := c.GetString(middleware.CtxUsername)
	if author == "" {
		logrus.Error("Handler.CreatePost: username not in context, auth middleware missing?")
		ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	post, err := h.postService.Create(c.Request.Context(), author, req.Title, req.Body)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// List returns every post, newest first. Unauthenticated.
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.postService.List(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// Get returns a single post by numeric id. Unauthenticated.
func (h *PostHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid id")
		return
	}

	post, err := h.postService.Get(c.Request.Context(), uint(id))
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}
