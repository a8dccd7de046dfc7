// Package ui holds the terminal interface. Each screen is its own
// tea.Model; transitions return the next screen's model from Update.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"miniblog/internal/client/api"
	"miniblog/internal/client/cache"
	"miniblog/internal/client/store"
)

// postsQueryKey identifies the post list in the query cache. Creating a
// post invalidates it so the feed refetches.
const postsQueryKey = "posts"

// Deps is passed through every screen.
type Deps struct {
	API    *api.Client
	Tokens *store.TokenStore
	Cache  *cache.Store
}

// Initial picks the starting screen: the feed when a stored token exists,
// the login form otherwise.
func Initial(deps Deps) tea.Model {
	if deps.API.Token() != "" {
		return NewFeedModel(deps, "")
	}
	return NewLoginModel(deps, "")
}
