package components

import (
	"questrpg/internal/tui/styles"
	"questrpg/pkg/models"
)

// ErrorView is the card shown when a view could not be loaded.
type ErrorView struct {
	err     error
	message string
}

// NewErrorView shows err, preferring the server's own message over
// fallback.
func NewErrorView(err error, fallback string) ErrorView {
	return ErrorView{err: err, message: models.UserMessage(err, fallback)}
}

func (e ErrorView) HasError() bool {
	return e.err != nil
}

func (e ErrorView) View() string {
	if !e.HasError() {
		return ""
	}
	hint := "Press r to retry"
	if e.err != nil {
		if appErr, ok := e.err.(*models.AppError); ok && !appErr.Retryable() {
			hint = "Press r to reload"
		}
	}
	return styles.CardStyle.Render(
		styles.ErrorStyle.Render("⚠ "+e.message) + "\n" +
			styles.HelpStyle.Render(hint),
	)
}
