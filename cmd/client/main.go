package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"miniblog/internal/client/api"
	"miniblog/internal/client/cache"
	"miniblog/internal/client/store"
	"miniblog/internal/client/ui"
)

func main() {
	baseURL := os.Getenv("MINIBLOG_API")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	tokens, err := store.NewTokenStore(os.Getenv("MINIBLOG_TOKEN_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up token store: %v\n", err)
		os.Exit(1)
	}

	client := api.NewClient(baseURL)
	if token, err := tokens.Load(); err == nil && token != "" {
		client.SetToken(token)
	}

	deps := ui.Deps{
		API:    client,
		Tokens: tokens,
		Cache:  cache.New(),
	}

	p := tea.NewProgram(ui.Initial(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running client: %v\n", err)
		os.Exit(1)
	}
}
