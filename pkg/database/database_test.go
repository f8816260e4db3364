package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB(t *testing.T) {
	db, err := NewDB(Config{Path: filepath.Join(t.TempDir(), "nested", "quest.db")})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.HealthCheck(context.Background()))

	cancelCtx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, db.HealthCheck(cancelCtx))
}

func TestNewDBRequiresPath(t *testing.T) {
	_, err := NewDB(Config{})
	assert.Error(t, err)
}

func TestWithTxRollsBack(t *testing.T) {
	db, err := NewDB(Config{Path: filepath.Join(t.TempDir(), "quest.db")})
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)`)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO kv VALUES ('a', '1')`); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv`).Scan(&n))
	assert.Equal(t, 0, n)

	require.NoError(t, db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO kv VALUES ('a', '1')`)
		return err
	}))
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestNewRedis(t *testing.T) {
	client, err := NewRedis(RedisConfig{Addr: "localhost:6379"})
	if err != nil {
		t.Skipf("Skipping test: Redis not available: %v", err)
		return
	}
	defer client.Close()
	assert.NoError(t, client.Ping(context.Background()).Err())
}
