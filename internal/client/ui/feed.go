package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"miniblog/internal/client/api"
	"miniblog/internal/domain"
)

// FeedModel shows the post list and a compose form.
type FeedModel struct {
	deps     Deps
	username string

	viewport viewport.Model
	title    textinput.Model
	body     textarea.Model

	posts   []domain.Post
	busy    bool
	infoMsg string
	errMsg  string
}

type postsLoadedMsg []domain.Post

type postCreatedMsg struct{ post *domain.Post }

type feedErrMsg struct{ err error }

func NewFeedModel(deps Deps, username string) FeedModel {
	m := FeedModel{deps: deps, username: username}

	m.viewport = viewport.New(80, 14)

	m.title = textinput.New()
	m.title.Placeholder = "Title"
	m.title.CharLimit = 120
	m.title.Focus()

	m.body = textarea.New()
	m.body.Placeholder = "Write something..."
	m.body.CharLimit = 2000
	m.body.ShowLineNumbers = false
	m.body.SetHeight(4)
	m.body.SetWidth(80)
	m.body.FocusedStyle.CursorLine = lipgloss.NewStyle()

	return m
}

func (m FeedModel) Init() tea.Cmd {
	return m.fetchPostsCmd()
}

// fetchPostsCmd loads the feed through the query cache, so returning to
// this screen is free until something invalidates the list.
func (m FeedModel) fetchPostsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		v, err := m.deps.Cache.Fetch(ctx, postsQueryKey, func(ctx context.Context) (interface{}, error) {
			return m.deps.API.Posts(ctx)
		})
		if err != nil {
			return feedErrMsg{err}
		}
		return postsLoadedMsg(v.([]domain.Post))
	}
}

func (m FeedModel) createPostCmd(title, body string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		post, err := m.deps.API.CreatePost(ctx, title, body)
		if err != nil {
			return feedErrMsg{err}
		}
		m.deps.Cache.Invalidate(postsQueryKey)
		return postCreatedMsg{post}
	}
}

// logout clears the stored session and returns to the login screen.
func (m FeedModel) logout(status string) (tea.Model, tea.Cmd) {
	_ = m.deps.Tokens.Clear()
	m.deps.API.SetToken("")
	login := NewLoginModel(m.deps, status)
	return login, login.Init()
}

func (m FeedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if m.title.Focused() {
				m.title.Blur()
				return m, m.body.Focus()
			}
			m.body.Blur()
			return m, m.title.Focus()
		case "ctrl+r":
			m.deps.Cache.Invalidate(postsQueryKey)
			m.busy = true
			m.infoMsg = ""
			m.errMsg = ""
			return m, m.fetchPostsCmd()
		case "ctrl+l":
			return m.logout("")
		case "ctrl+s":
			if m.busy {
				return m, nil
			}
			title := strings.TrimSpace(m.title.Value())
			body := strings.TrimSpace(m.body.Value())
			if title == "" || body == "" {
				m.errMsg = "title and body required"
				return m, nil
			}
			m.busy = true
			m.errMsg = ""
			return m, m.createPostCmd(title, body)
		}

	case postsLoadedMsg:
		m.busy = false
		m.posts = msg
		m.viewport.SetContent(renderPosts(msg))
		return m, nil

	case postCreatedMsg:
		m.busy = false
		m.infoMsg = fmt.Sprintf("posted %q", msg.post.Title)
		m.title.Reset()
		m.body.Reset()
		return m, m.fetchPostsCmd()

	case feedErrMsg:
		m.busy = false
		if api.IsUnauthorized(msg.err) {
			return m.logout("Session expired, please log in again")
		}
		m.errMsg = msg.err.Error()
		return m, nil
	}

	var titleCmd, bodyCmd, vpCmd tea.Cmd
	m.title, titleCmd = m.title.Update(msg)
	m.body, bodyCmd = m.body.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(titleCmd, bodyCmd, vpCmd)
}

func renderPosts(posts []domain.Post) string {
	if len(posts) == 0 {
		return helpStyle.Render("No posts yet.")
	}

	var b strings.Builder
	for _, p := range posts {
		b.WriteString(titleStyle.Render(p.Title))
		b.WriteString("\n")
		b.WriteString(authorStyle.Render(p.Author))
		if p.CreatedAt != "" {
			b.WriteString("  ")
			b.WriteString(timeStyle.Render(p.CreatedAt))
		}
		b.WriteString("\n")
		b.WriteString(p.Body)
		b.WriteString("\n\n")
	}
	return b.String()
}

func (m FeedModel) View() string {
	s := titleStyle.Render("Posts") + "\n\n"
	s += m.viewport.View() + "\n\n"

	if m.username != "" {
		s += fmt.Sprintf("Post as %s:\n", m.username)
	}
	s += m.title.View() + "\n"
	s += m.body.View() + "\n\n"

	if m.busy {
		s += statusStyle.Render("...") + "\n"
	}
	if m.infoMsg != "" {
		s += statusStyle.Render(m.infoMsg) + "\n"
	}
	if m.errMsg != "" {
		s += errorStyle.Render(m.errMsg) + "\n"
	}

	s += helpStyle.Render("ctrl+s: post · ctrl+r: refresh · tab: switch field · ctrl+l: log out · esc: quit") + "\n"
	return s
}
