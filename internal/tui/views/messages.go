// Package views holds the dashboard screens and the renderers shared with
// the CLI. Screens read their data from the cache on every render, so an
// optimistic change shows up in every screen at once.
package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"questrpg/pkg/models"
)

// ActionDoneMsg reports that a mutation finished. Feedback is delivered by
// notifications; Err is kept for inline display.
type ActionDoneMsg struct {
	Action string
	Err    error
}

// LoginDoneMsg is sent when login or registration returns.
type LoginDoneMsg struct {
	User *models.User
	Err  error
}

// LoadedMsg is sent when a screen's initial queries return.
type LoadedMsg struct {
	Screen string
	Err    error
}

func done(action string, err error) tea.Msg {
	return ActionDoneMsg{Action: action, Err: err}
}
