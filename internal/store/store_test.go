package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/whereql/internal/config"
	"github.com/roach88/whereql/internal/ir"
	"github.com/roach88/whereql/internal/querysql"
	"github.com/roach88/whereql/internal/schema"
	"github.com/roach88/whereql/internal/testutil"
)

func sqliteConfig(t *testing.T) config.ClientConfig {
	t.Helper()
	return config.ClientConfig{
		Dialect:        "sqlite",
		DSN:            filepath.Join(t.TempDir(), "test.db"),
		AcquireTimeout: 5 * time.Second,
	}
}

func openTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := Open(context.Background(), "test", sqliteConfig(t))
	require.NoError(t, err)
	c.SetLogger(testutil.DiscardLogger())
	t.Cleanup(func() { c.Close() })
	return c
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	cfg := sqliteConfig(t)

	c, err := Open(context.Background(), "test", cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, querysql.SQLite, c.Dialect)
	_, err = os.Stat(cfg.DSN)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_AppliesPragmas(t *testing.T) {
	c := openTestClient(t)

	pragmas := map[string]string{
		"journal_mode": "wal",
		"synchronous":  "1",
		"busy_timeout": "5000",
		"foreign_keys": "1",
	}
	for name, want := range pragmas {
		var got string
		require.NoError(t, c.DB().QueryRow("PRAGMA "+name).Scan(&got))
		assert.Equal(t, want, got, name)
	}
	assert.Equal(t, 1, c.DB().Stats().MaxOpenConnections)
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.ClientConfig
		want string
	}{
		{"unknown dialect", config.ClientConfig{Dialect: "oracle", DSN: "x"}, "oracle"},
		{"missing dsn", config.ClientConfig{Dialect: "sqlite3"}, "dsn is required"},
		{"bad mysql dsn", config.ClientConfig{Dialect: "mysql", DSN: "user:pw@tcp(localhost"}, "invalid mysql dsn"},
		{"bad postgres dsn", config.ClientConfig{Dialect: "postgres", DSN: "postgres://host:notaport/db"}, "invalid postgres dsn"},
		{"unreachable sqlite", config.ClientConfig{Dialect: "sqlite3", DSN: "/nonexistent/dir/test.db"}, "failed to connect"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(context.Background(), "x", tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "client x")
		})
	}
}

func TestNormalizeDSN_MySQLParseTime(t *testing.T) {
	dsn, err := normalizeDSN(querysql.MySQL, "user:pw@tcp(localhost:3306)/app")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")
}

func TestDriverName(t *testing.T) {
	assert.Equal(t, "sqlite3", driverName(querysql.SQLite))
	assert.Equal(t, "mysql", driverName(querysql.MySQL))
	assert.Equal(t, "pgx", driverName(querysql.Postgres))
}

func TestClient_BindAndAutoCreate(t *testing.T) {
	c := openTestClient(t)
	ctx := context.Background()

	c.Bind(schema.Table{
		Delegate: "note",
		Name:     "t_note",
		Columns:  []schema.Column{{Name: "id", Definition: "INTEGER NOT NULL"}, {Name: "body", Definition: "TEXT"}},
		Indexes:  []schema.Index{{Name: "pk", Type: schema.IndexPrimary, Keys: []string{"id"}}},
	})
	c.Bind(schema.Table{Delegate: "alpha", Name: "t_alpha"})

	require.NoError(t, c.AutoCreate(ctx))

	d, ok := c.Dao("NOTE")
	require.True(t, ok)
	_, err := d.Insert(ctx, ir.IRObject{ir.O("id", ir.IRInt(1)), ir.O("body", ir.IRString("hi"))})
	require.NoError(t, err)

	n, err := d.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	names := make([]string, 0)
	for _, d := range c.Daos() {
		names = append(names, d.Table().Delegate)
	}
	assert.Equal(t, []string{"alpha", "note"}, names)

	_, ok = c.Dao("missing")
	assert.False(t, ok)
}
