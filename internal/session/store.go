// Package session persists the bearer credential and the cached user
// snapshot, and tears both down together.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"questrpg/internal/config"
	"questrpg/pkg/database"
)

// Fixed keys of the session key/value store.
const (
	TokenKey = "quest_token"
	UserKey  = "quest_user"
)

// Store is a small key/value store. SetAll and DeleteAll apply to all given
// keys atomically.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetAll(ctx context.Context, kv map[string]string) error
	DeleteAll(ctx context.Context, keys ...string) error
	Close() error
}

// Open builds the store selected by cfg.Backend.
func Open(cfg config.SessionConfig) (Store, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStore(cfg.Path), nil
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		db, err := database.NewDB(database.Config{Path: cfg.Path})
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(context.Background(), db)
	case "redis":
		client, err := database.NewRedis(database.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.Redis.Prefix), nil
	}
	return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu sync.RWMutex
	kv map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{kv: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.kv[key]
	return v, ok, nil
}

func (m *MemoryStore) SetAll(_ context.Context, kv map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range kv {
		m.kv[k] = v
	}
	return nil
}

func (m *MemoryStore) DeleteAll(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.kv, k)
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// FileStore keeps values in a YAML file readable only by the owner. Every
// write replaces the whole file by rename.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) load() (map[string]string, error) {
	kv := make(map[string]string)
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return kv, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if err := yaml.Unmarshal(data, &kv); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	if kv == nil {
		kv = make(map[string]string)
	}
	return kv, nil
}

func (f *FileStore) save(kv map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := yaml.Marshal(kv)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

func (f *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kv, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := kv[key]
	return v, ok, nil
}

func (f *FileStore) SetAll(_ context.Context, kv map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, err := f.load()
	if err != nil {
		return err
	}
	for k, v := range kv {
		cur[k] = v
	}
	return f.save(cur)
}

func (f *FileStore) DeleteAll(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, err := f.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(cur, k)
	}
	return f.save(cur)
}

func (f *FileStore) Close() error { return nil }

// SQLiteStore keeps values in a kv table.
type SQLiteStore struct {
	db *database.DB
}

// NewSQLiteStore creates the kv table if needed.
func NewSQLiteStore(ctx context.Context, db *database.DB) (*SQLiteStore, error) {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS session_kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	if err != nil {
		return nil, fmt.Errorf("create session table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session_kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SQLiteStore) SetAll(ctx context.Context, kv map[string]string) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		for k, v := range kv {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO session_kv (key, value) VALUES (?, ?)
				 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, k, v)
			if err != nil {
				return fmt.Errorf("set %s: %w", k, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) DeleteAll(ctx context.Context, keys ...string) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, k := range keys {
			if _, err := tx.ExecContext(ctx, `DELETE FROM session_kv WHERE key = ?`, k); err != nil {
				return fmt.Errorf("delete %s: %w", k, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// RedisStore keeps values under prefix in Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisStore) SetAll(ctx context.Context, kv map[string]string) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for k, v := range kv {
			p.Set(ctx, r.prefix+k, v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (r *RedisStore) DeleteAll(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.prefix + k
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error { return r.client.Close() }
