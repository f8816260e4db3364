package session

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questrpg/internal/config"
	"questrpg/internal/notify"
	"questrpg/pkg/database"
	"questrpg/pkg/models"
)

type fakeClient struct {
	mu    sync.Mutex
	token string
}

func (f *fakeClient) SetToken(token string) {
	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
}

func (f *fakeClient) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

var _ TokenSetter = (*fakeClient)(nil)

func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetAll(ctx, map[string]string{TokenKey: "tok", UserKey: `{"id":"u1"}`, "other": "keep"}))
	v, ok, err := s.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)

	require.NoError(t, s.SetAll(ctx, map[string]string{TokenKey: "tok2"}))
	v, _, _ = s.Get(ctx, TokenKey)
	assert.Equal(t, "tok2", v)

	require.NoError(t, s.DeleteAll(ctx, TokenKey, UserKey))
	_, ok, _ = s.Get(ctx, TokenKey)
	assert.False(t, ok)
	_, ok, _ = s.Get(ctx, UserKey)
	assert.False(t, ok)
	v, ok, _ = s.Get(ctx, "other")
	assert.True(t, ok)
	assert.Equal(t, "keep", v)

	require.NoError(t, s.DeleteAll(ctx))
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir", "session.yaml")
	s := NewFileStore(path)
	storeContract(t, s)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o600))
	_, _, err := NewFileStore(path).Get(context.Background(), TokenKey)
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	db, err := database.NewDB(database.Config{Path: filepath.Join(t.TempDir(), "session.db")})
	require.NoError(t, err)
	s, err := NewSQLiteStore(context.Background(), db)
	require.NoError(t, err)
	defer s.Close()
	storeContract(t, s)
}

func TestRedisStore(t *testing.T) {
	client, err := database.NewRedis(database.RedisConfig{Addr: "localhost:6379"})
	if err != nil {
		t.Skipf("Skipping test: Redis not available: %v", err)
		return
	}
	s := NewRedisStore(client, "questrpg-test:"+t.Name()+":")
	defer s.Close()
	defer s.DeleteAll(context.Background(), TokenKey, UserKey, "other")
	storeContract(t, s)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(config.SessionConfig{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(config.SessionConfig{Backend: "file", Path: filepath.Join(dir, "s.yaml")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(config.SessionConfig{Backend: "sqlite", Path: filepath.Join(dir, "s.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(config.SessionConfig{Backend: "etcd"})
	assert.Error(t, err)
}

func tokenResponse() *models.TokenResponse {
	return &models.TokenResponse{
		AccessToken: "tok-1",
		TokenType:   "bearer",
		User:        models.User{ID: "u1", Username: "hero", TotalXP: 450},
	}
}

func TestManagerSaveRestoreLogout(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	client := &fakeClient{}
	m := NewManager(store, client)

	require.NoError(t, m.Save(ctx, tokenResponse()))
	assert.Equal(t, "tok-1", client.Token())

	u, err := m.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hero", u.Username)
	assert.Equal(t, 3, u.Level())

	other := &fakeClient{}
	ok, err := NewManager(store, other).Restore(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", other.Token())

	require.NoError(t, m.Logout(ctx))
	assert.Equal(t, "", client.Token())
	_, err = m.User(ctx)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	tok, err := m.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestHandleUnauthorizedRedirects(t *testing.T) {
	ctx := context.Background()
	rec := &notify.Recorder{}
	redirects := 0
	client := &fakeClient{}
	m := NewManager(NewMemoryStore(), client,
		WithNotifier(rec),
		WithRedirect(func() { redirects++ }))
	require.NoError(t, m.Save(ctx, tokenResponse()))
	m.SetLocation("/dashboard")

	m.HandleUnauthorized(ctx)

	assert.Equal(t, 1, redirects)
	assert.Equal(t, "/login", m.Location())
	assert.Empty(t, client.Token())
	tok, _ := m.Token(ctx)
	assert.Empty(t, tok)
	_, err := m.User(ctx)
	assert.Error(t, err)
	require.Len(t, rec.All(), 1)
	assert.Equal(t, notify.LevelError, rec.All()[0].Level)
}

func TestHandleUnauthorizedOnAuthPage(t *testing.T) {
	ctx := context.Background()
	for _, loc := range []string{"/login", "/signup", "/auth/register?next=/"} {
		redirects := 0
		rec := &notify.Recorder{}
		m := NewManager(NewMemoryStore(), &fakeClient{},
			WithNotifier(rec),
			WithRedirect(func() { redirects++ }))
		require.NoError(t, m.Save(ctx, tokenResponse()))
		m.SetLocation(loc)

		m.HandleUnauthorized(ctx)

		assert.Equal(t, 0, redirects, loc)
		assert.Empty(t, rec.All(), loc)
		tok, _ := m.Token(ctx)
		assert.Empty(t, tok, "credential is still cleared on %s", loc)
	}
}
