package components

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"questrpg/internal/notify"
)

// ToastExpiredMsg removes the toast with ID.
type ToastExpiredMsg struct{ ID int }

type toast struct {
	id int
	n  notify.Notification
}

// Toasts is the stack of transient notifications, newest last.
type Toasts struct {
	next  int
	items []toast
	max   int
}

func NewToasts(max int) Toasts {
	return Toasts{max: max}
}

// Push shows n and schedules its removal after its duration.
func (t *Toasts) Push(n notify.Notification) tea.Cmd {
	t.next++
	id := t.next
	t.items = append(t.items, toast{id: id, n: n})
	if t.max > 0 && len(t.items) > t.max {
		t.items = t.items[len(t.items)-t.max:]
	}
	d := n.Duration
	if d <= 0 {
		d = notify.DefaultDuration
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return ToastExpiredMsg{ID: id} })
}

// Expire drops the toast with id, if still shown.
func (t *Toasts) Expire(id int) {
	for i, it := range t.items {
		if it.id == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return
		}
	}
}

// Messages returns the texts currently shown.
func (t Toasts) Messages() []string {
	out := make([]string, len(t.items))
	for i, it := range t.items {
		out[i] = it.n.Message
	}
	return out
}

func (t Toasts) View() string {
	lines := make([]string, len(t.items))
	for i, it := range t.items {
		lines[i] = notify.Render(it.n, false)
	}
	return strings.Join(lines, "\n")
}
