package views

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"questrpg/internal/core"
	"questrpg/internal/tui/components"
	"questrpg/internal/tui/styles"
	"questrpg/pkg/models"
	"questrpg/pkg/utils"
)

// LoginMode selects the login or the registration form.
type LoginMode int

const (
	ModeLogin LoginMode = iota
	ModeRegister
)

// LoginModel is the sign-in screen.
type LoginModel struct {
	ctx  context.Context
	auth *core.Auth
	mode LoginMode

	username components.Input
	email    components.Input
	password components.Input

	focusIndex int
	loading    bool
	spinner    components.Spinner
}

func NewLoginModel(ctx context.Context, auth *core.Auth) LoginModel {
	username := components.NewInput("Username", "hero")
	username.SetValidator(utils.ValidateUsername)

	email := components.NewInput("Email", "you@example.com")
	email.SetValidator(utils.ValidateEmail)
	email.Focus()

	password := components.NewPasswordInput("Password")

	return LoginModel{
		ctx:      ctx,
		auth:     auth,
		mode:     ModeLogin,
		username: username,
		email:    email,
		password: password,
		spinner:  components.NewSpinner("Contacting the guild..."),
	}
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// fields returns the inputs of the current mode in tab order.
func (m *LoginModel) fields() []*components.Input {
	if m.mode == ModeRegister {
		return []*components.Input{&m.username, &m.email, &m.password}
	}
	return []*components.Input{&m.email, &m.password}
}

func (m *LoginModel) focus(i int) tea.Cmd {
	fields := m.fields()
	m.focusIndex = (i + len(fields)) % len(fields)
	var cmd tea.Cmd
	for j, f := range fields {
		if j == m.focusIndex {
			cmd = f.Focus()
		} else {
			f.Blur()
		}
	}
	return cmd
}

// Reset clears the form, e.g. after the session expired.
func (m *LoginModel) Reset() {
	m.password.Reset()
	m.loading = false
	m.focus(0)
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("tab", "down"))):
			return m, m.focus(m.focusIndex + 1)
		case key.Matches(msg, key.NewBinding(key.WithKeys("shift+tab", "up"))):
			return m, m.focus(m.focusIndex - 1)
		case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+t"))):
			if m.mode == ModeLogin {
				m.mode = ModeRegister
			} else {
				m.mode = ModeLogin
			}
			return m, m.focus(0)
		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if m.focusIndex < len(m.fields())-1 {
				return m, m.focus(m.focusIndex + 1)
			}
			return m.submit()
		}

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		return m, m.spinner.Update(msg)

	case LoginDoneMsg:
		m.loading = false
		if msg.Err != nil {
			m.showInline(msg.Err)
			return m, nil
		}
		m.password.Reset()
		return m, nil
	}

	fields := m.fields()
	cmd := fields[m.focusIndex].Update(msg)
	return m, cmd
}

// showInline puts validation errors next to the offending field. Other
// failures are already reported as notifications.
func (m *LoginModel) showInline(err error) {
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Kind != models.KindValidation {
		return
	}
	msg := models.UserMessage(err, appErr.Message)
	switch appErr.Field {
	case "username":
		m.username.SetError(msg)
	case "password":
		m.password.SetError(msg)
	default:
		m.email.SetError(msg)
	}
}

func (m LoginModel) submit() (LoginModel, tea.Cmd) {
	valid := true
	for _, f := range m.fields() {
		if f.Validate() != nil {
			valid = false
		}
	}
	if strings.TrimSpace(m.password.Value()) == "" {
		m.password.SetError("password is required")
		valid = false
	}
	if !valid {
		return m, nil
	}

	m.loading = true
	ctx, auth := m.ctx, m.auth
	email, password, username := m.email.Value(), m.password.Value(), m.username.Value()
	if m.mode == ModeRegister {
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			u, err := auth.Register(ctx, models.RegisterRequest{Username: username, Email: email, Password: password})
			return LoginDoneMsg{User: u, Err: err}
		})
	}
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		u, err := auth.Login(ctx, email, password)
		return LoginDoneMsg{User: u, Err: err}
	})
}

func (m LoginModel) View() string {
	var b strings.Builder
	title := "⚔ Quest RPG · Login"
	if m.mode == ModeRegister {
		title = "⚔ Quest RPG · New Hero"
	}
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("\n\n")

	for _, f := range m.fields() {
		b.WriteString(f.View())
		b.WriteString("\n\n")
	}

	if m.loading {
		b.WriteString(m.spinner.View())
		b.WriteString("\n")
	}
	other := "ctrl+t register"
	if m.mode == ModeRegister {
		other = "ctrl+t back to login"
	}
	b.WriteString(styles.HelpStyle.Render("tab next field · enter submit · " + other + " · ctrl+c quit"))
	return b.String()
}
