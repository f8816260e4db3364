package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"questrpg/internal/notify"
	"questrpg/pkg/logger"
	"questrpg/pkg/models"
)

// TokenSetter receives the active credential.
type TokenSetter interface {
	SetToken(token string)
}

// authLocations are where a 401 must not redirect to login again.
var authLocations = []string{"/login", "/signup", "/register"}

// Manager owns the stored session and reacts to authentication failures.
type Manager struct {
	store    Store
	client   TokenSetter
	notifier notify.Notifier

	mu       sync.Mutex
	location string
	redirect func()
}

// Option configures a Manager.
type Option func(*Manager)

// WithNotifier reports session teardown to the user.
func WithNotifier(n notify.Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// WithRedirect is called when a 401 should send the user to login.
func WithRedirect(fn func()) Option {
	return func(m *Manager) { m.redirect = fn }
}

func NewManager(store Store, client TokenSetter, opts ...Option) *Manager {
	m := &Manager{store: store, client: client, notifier: notify.Discard}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Save stores credential and user snapshot together and activates the token.
func (m *Manager) Save(ctx context.Context, tok *models.TokenResponse) error {
	user, err := json.Marshal(tok.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := m.store.SetAll(ctx, map[string]string{
		TokenKey: tok.AccessToken,
		UserKey:  string(user),
	}); err != nil {
		return err
	}
	m.client.SetToken(tok.AccessToken)
	return nil
}

// Restore activates a stored token, if any.
func (m *Manager) Restore(ctx context.Context) (bool, error) {
	token, err := m.Token(ctx)
	if err != nil {
		return false, err
	}
	m.client.SetToken(token)
	return token != "", nil
}

// Token returns the stored credential or "".
func (m *Manager) Token(ctx context.Context) (string, error) {
	v, _, err := m.store.Get(ctx, TokenKey)
	return v, err
}

// User returns the cached user snapshot.
func (m *Manager) User(ctx context.Context) (*models.User, error) {
	v, ok, err := m.store.Get(ctx, UserKey)
	if err != nil {
		return nil, err
	}
	if !ok || v == "" {
		return nil, models.NewUnauthorizedError("not logged in")
	}
	var u models.User
	if err := json.Unmarshal([]byte(v), &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

// Logout clears credential and snapshot together.
func (m *Manager) Logout(ctx context.Context) error {
	m.client.SetToken("")
	return m.store.DeleteAll(ctx, TokenKey, UserKey)
}

// SetRedirect replaces the login redirect, e.g. once a UI is running.
func (m *Manager) SetRedirect(fn func()) {
	m.mu.Lock()
	m.redirect = fn
	m.mu.Unlock()
}

// SetLocation records where the user currently is.
func (m *Manager) SetLocation(loc string) {
	m.mu.Lock()
	m.location = loc
	m.mu.Unlock()
}

// Location
func (m *Manager) Location() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.location
}

// HandleUnauthorized tears the session down after a 401 and redirects to
// login unless the user is already on an authentication page.
func (m *Manager) HandleUnauthorized(ctx context.Context) {
	if err := m.Logout(context.WithoutCancel(ctx)); err != nil {
		logger.WithFields(map[string]interface{}{"error": err}).Error("failed to clear session")
	}

	loc := m.Location()
	for _, auth := range authLocations {
		if strings.Contains(loc, auth) {
			return
		}
	}
	m.notifier.Notify(notify.New(notify.LevelError, "Session expired. Please log in again."))
	m.mu.Lock()
	m.location = "/login"
	redirect := m.redirect
	m.mu.Unlock()
	if redirect != nil {
		redirect()
	}
}
