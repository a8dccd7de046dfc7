package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// LoginModel is the combined login / register form. Tab toggles between
// the two modes, enter submits.
type LoginModel struct {
	deps Deps

	username textinput.Model
	password textinput.Model

	registering bool
	busy        bool
	status      string
	errMsg      string
}

type authResultMsg struct {
	username string
	err      error
}

// NewLoginModel builds the form. status is shown above it, e.g. a
// session-expired notice.
func NewLoginModel(deps Deps, status string) LoginModel {
	m := LoginModel{deps: deps, status: status}

	m.username = textinput.New()
	m.username.Placeholder = "Username"
	m.username.CharLimit = 64
	m.username.Focus()

	m.password = textinput.New()
	m.password.Placeholder = "Password"
	m.password.CharLimit = 64
	m.password.EchoMode = textinput.EchoPassword

	return m
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) authCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var err error
		if m.registering {
			err = m.deps.API.Register(ctx, username, password)
		} else {
			err = m.deps.API.Login(ctx, username, password)
		}
		return authResultMsg{username: username, err: err}
	}
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.registering = !m.registering
			return m, nil
		case "up":
			m.username.Focus()
			m.password.Blur()
			return m, nil
		case "down":
			m.username.Blur()
			m.password.Focus()
			return m, nil
		case "enter":
			if m.busy {
				return m, nil
			}
			user, pass := m.username.Value(), m.password.Value()
			if user == "" || pass == "" {
				m.errMsg = "username and password required"
				return m, nil
			}
			m.busy = true
			m.errMsg = ""
			return m, m.authCmd(user, pass)
		}

	case authResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		if err := m.deps.Tokens.Save(m.deps.API.Token()); err != nil {
			// A failed save only costs the session persistence.
			m.status = fmt.Sprintf("warning: could not store token: %v", err)
		}
		feed := NewFeedModel(m.deps, msg.username)
		return feed, feed.Init()
	}

	var userCmd, passCmd tea.Cmd
	m.username, userCmd = m.username.Update(msg)
	m.password, passCmd = m.password.Update(msg)
	return m, tea.Batch(userCmd, passCmd)
}

func (m LoginModel) View() string {
	title := "Log in"
	action := "log in"
	if m.registering {
		title = "Create account"
		action = "register"
	}

	s := titleStyle.Render(title) + "\n\n"
	if m.status != "" {
		s += statusStyle.Render(m.status) + "\n\n"
	}

	s += m.username.View() + "\n"
	s += m.password.View() + "\n\n"

	if m.busy {
		s += statusStyle.Render("...") + "\n"
	}
	if m.errMsg != "" {
		s += errorStyle.Render(m.errMsg) + "\n"
	}

	s += helpStyle.Render(fmt.Sprintf("enter: %s · tab: switch mode · esc: quit", action)) + "\n"
	return s
}
