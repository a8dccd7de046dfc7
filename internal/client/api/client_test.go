package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miniblog/internal/client/api"
	"miniblog/internal/domain"
)

func TestLogin_InstallsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "alice", creds["username"])
		assert.Equal(t, "pw1", creds["password"])

		json.NewEncoder(w).Encode(map[string]string{"token": "issued-token"})
	}))
	defer srv.Close()

	c := api.NewClient(srv.URL)
	require.NoError(t, c.Login(context.Background(), "alice", "pw1"))
	assert.Equal(t, "issued-token", c.Token())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
	}))
	defer srv.Close()

	c := api.NewClient(srv.URL)
	err := c.Login(context.Background(), "alice", "wrong")

	require.Error(t, err)
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "invalid credentials", apiErr.Message)
	assert.Empty(t, c.Token())
}

func TestCreatePost_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer my-token", r.Header.Get("Authorization"))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Post{ID: 1, Title: "Hi", Body: "World", Author: "alice"})
	}))
	defer srv.Close()

	c := api.NewClient(srv.URL)
	c.SetToken("my-token")

	post, err := c.CreatePost(context.Background(), "Hi", "World")
	require.NoError(t, err)
	assert.Equal(t, uint(1), post.ID)
	assert.Equal(t, "alice", post.Author)
}

func TestCreatePost_ExpiredToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid or expired token"})
	}))
	defer srv.Close()

	c := api.NewClient(srv.URL)
	c.SetToken("stale")

	_, err := c.CreatePost(context.Background(), "Hi", "World")
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
}

func TestIsUnauthorized_OtherErrors(t *testing.T) {
	assert.False(t, api.IsUnauthorized(nil))
	assert.False(t, api.IsUnauthorized(context.Canceled))
	assert.False(t, api.IsUnauthorized(&api.APIError{Status: http.StatusNotFound, Message: "post not found"}))
}

func TestPosts_DecodesList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts", r.URL.Path)
		json.NewEncoder(w).Encode([]domain.Post{
			{ID: 2, Title: "P2"},
			{ID: 1, Title: "P1"},
		})
	}))
	defer srv.Close()

	c := api.NewClient(srv.URL)
	posts, err := c.Posts(context.Background())

	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, uint(2), posts[0].ID)
}

func TestPostByID_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/42", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "post not found"})
	}))
	defer srv.Close()

	c := api.NewClient(srv.URL)
	_, err := c.PostByID(context.Background(), 42)

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}
