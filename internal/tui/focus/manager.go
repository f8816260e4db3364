package focus

// Mode decides which keys reach the global bindings.
type Mode int

const (
	// ModeNavigation lets global keys switch screens.
	ModeNavigation Mode = iota
	// ModeInput sends every key to the focused text field.
	ModeInput
)

// Manager tracks the focus mode.
type Manager struct {
	mode Mode
}

func NewManager() *Manager {
	return &Manager{mode: ModeNavigation}
}

func (m *Manager) SetMode(mode Mode) {
	m.mode = mode
}

func (m *Manager) GetMode() Mode {
	return m.mode
}

func (m *Manager) IsInputMode() bool {
	return m.mode == ModeInput
}
