// Package notify delivers transient user-facing messages.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"questrpg/internal/tui/styles"
)

// Level is the prominence of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
	// LevelAlert is the high-prominence level, e.g. a weekly boss unlock.
	LevelAlert
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	case LevelAlert:
		return "alert"
	}
	return "info"
}

const (
	DefaultDuration = 3 * time.Second
	AlertDuration   = 5 * time.Second
)

// Notification is one transient message.
type Notification struct {
	Level    Level
	Message  string
	Duration time.Duration
	At       time.Time
}

// Notifier receives notifications. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Discard drops everything.
var Discard Notifier = NotifierFunc(func(Notification) {})

// New fills in duration and timestamp for a message.
func New(level Level, format string, args ...any) Notification {
	d := DefaultDuration
	if level == LevelAlert {
		d = AlertDuration
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return Notification{Level: level, Message: msg, Duration: d, At: time.Now()}
}

// Console prints notifications as styled lines.
type Console struct {
	mu    sync.Mutex
	w     io.Writer
	plain bool
}

// NewConsole writes to w. plain disables styling.
func NewConsole(w io.Writer, plain bool) *Console {
	return &Console{w: w, plain: plain}
}

func (c *Console) Notify(n Notification) {
	line := Render(n, c.plain)
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, line)
}

// Render formats a notification for a terminal.
func Render(n Notification, plain bool) string {
	prefix := map[Level]string{
		LevelInfo:    "•",
		LevelSuccess: "✓",
		LevelError:   "✗",
		LevelAlert:   "🔥",
	}[n.Level]
	text := prefix + " " + n.Message
	if plain {
		return text
	}
	switch n.Level {
	case LevelSuccess:
		return styles.SuccessStyle.Render(text)
	case LevelError:
		return styles.ErrorStyle.Render(text)
	case LevelAlert:
		return styles.AlertStyle.Render(text)
	}
	return styles.InfoStyle.Render(text)
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

// All returns a copy of what was recorded.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Messages returns just the texts.
func (r *Recorder) Messages() []string {
	all := r.All()
	out := make([]string, len(all))
	for i, n := range all {
		out[i] = n.Message
	}
	return out
}

// Reset clears the recorder.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.items = nil
	r.mu.Unlock()
}

// Fanout sends each notification to every target.
type Fanout []Notifier

func (f Fanout) Notify(n Notification) {
	for _, t := range f {
		t.Notify(n)
	}
}
