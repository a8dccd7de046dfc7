// Package api is the HTTP client for the posts service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"miniblog/internal/domain"
)

// APIError carries the status code and message body of a failed request.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// IsUnauthorized reports whether err is a 401 from the server, meaning the
// stored token is missing, invalid or expired.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Client talks to one posts service. Login and Register install the issued
// token so later calls authenticate automatically.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken installs a previously stored token. An empty string clears it.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current token, empty when logged out.
func (c *Client) Token() string { return c.token }

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register creates an account and installs the returned token.
func (c *Client) Register(ctx context.Context, username, password string) error {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", credentials{username, password}, &resp)
	if err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

// Login verifies credentials and installs the returned token.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", credentials{username, password}, &resp)
	if err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

type createPostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CreatePost publishes a post as the logged-in user.
func (c *Client) CreatePost(ctx context.Context, title, body string) (*domain.Post, error) {
	var post domain.Post
	err := c.do(ctx, http.MethodPost, "/posts", createPostRequest{title, body}, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Posts fetches every post, newest first.
func (c *Client) Posts(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	if err := c.do(ctx, http.MethodGet, "/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// PostByID fetches a single post.
func (c *Client) PostByID(ctx context.Context, id uint) (*domain.Post, error) {
	var post domain.Post
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d", id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		var errBody struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(res.Body).Decode(&errBody)
		if errBody.Message == "" {
			errBody.Message = http.StatusText(res.StatusCode)
		}
		return &APIError{Status: res.StatusCode, Message: errBody.Message}
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
