package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"questrpg/internal/tui/styles"
)

// Input is a labelled text field with an inline error. Validation errors
// are shown here, never as notifications.
type Input struct {
	textInput textinput.Model
	label     string
	error     string
	validator func(string) error
}

// NewInput creates a plain text field.
func NewInput(label, placeholder string) Input {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Width = 40

	return Input{
		textInput: ti,
		label:     label,
	}
}

// NewPasswordInput creates a masked field.
func NewPasswordInput(label string) Input {
	ti := textinput.New()
	ti.Placeholder = "••••••••"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 100
	ti.Width = 40

	return Input{
		textInput: ti,
		label:     label,
	}
}

func (i *Input) Focus() tea.Cmd {
	return i.textInput.Focus()
}

func (i *Input) Blur() {
	i.textInput.Blur()
}

func (i *Input) Focused() bool {
	return i.textInput.Focused()
}

func (i *Input) SetValue(v string) {
	i.textInput.SetValue(v)
}

func (i *Input) Value() string {
	return i.textInput.Value()
}

// SetError shows msg under the field until the next keystroke.
func (i *Input) SetError(msg string) {
	i.error = msg
}

func (i *Input) Error() string {
	return i.error
}

// SetValidator sets the check run by Validate.
func (i *Input) SetValidator(fn func(string) error) {
	i.validator = fn
}

// Validate runs the validator and records its message inline.
func (i *Input) Validate() error {
	if i.validator == nil {
		return nil
	}
	err := i.validator(i.Value())
	if err != nil {
		i.error = err.Error()
	}
	return err
}

// Reset clears value and error.
func (i *Input) Reset() {
	i.textInput.Reset()
	i.error = ""
}

func (i *Input) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		i.error = ""
	}
	return cmd
}

func (i Input) View() string {
	var labelStyle, inputStyle lipgloss.Style
	if i.Focused() {
		labelStyle = styles.InputFocusedStyle
		inputStyle = styles.InputFocusedStyle
	} else {
		labelStyle = styles.InputPromptStyle
		inputStyle = styles.InputStyle
	}

	result := labelStyle.Render(i.label) + "\n"
	result += inputStyle.Render(i.textInput.View())
	if i.error != "" {
		result += "\n" + styles.ErrorStyle.Render("✗ "+i.error)
	}
	return result
}
