package store

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/whereql/internal/config"
	"github.com/roach88/whereql/internal/testutil"
)

const userDefs = `dao:
  user:
    table: t_user
    db: main
    column:
      id: INTEGER NOT NULL
      username: VARCHAR(64) NOT NULL
    index:
      pk: {type: primary, key: id}
  order:
    table: t_order
    db: billing
    column:
      id: INTEGER NOT NULL
    index:
      pk: {type: primary, key: id}
  orphan:
    table: t_orphan
    column:
      id: INTEGER NOT NULL
`

func writeDefs(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "defs.yaml"), []byte(content), 0o644))
	return dir
}

func tableNames(t *testing.T, c *Client) []string {
	t.Helper()
	rows, err := c.DB().Query(`SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestOpenRegistry_SingleClient(t *testing.T) {
	dir := writeDefs(t, userDefs)
	client := sqliteConfig(t)
	client.Loader = config.LoaderConfig{Directory: dir, Delegate: "dao", AutoCreate: true}
	cfg := &config.Config{Client: &client}

	r, err := OpenRegistry(context.Background(), cfg, testutil.DiscardLogger())
	require.NoError(t, err)
	defer r.Close()

	c, err := r.Client("")
	require.NoError(t, err)
	assert.Equal(t, config.SingleClientName, c.Name)
	assert.Len(t, c.Daos(), 3, "db field is ignored with a single client")
	assert.Equal(t, []string{"t_order", "t_orphan", "t_user"}, tableNames(t, c))

	d, err := r.Dao("", "user")
	require.NoError(t, err)
	assert.Equal(t, "t_user", d.Name())

	_, err = r.Dao("", "nope")
	assert.ErrorContains(t, err, `no DAO named "nope"`)
}

func TestOpenRegistry_MultipleClients(t *testing.T) {
	dir := writeDefs(t, userDefs)
	loader := config.LoaderConfig{Directory: dir, Delegate: "dao", AutoCreate: true}
	main, billing := sqliteConfig(t), sqliteConfig(t)
	main.Loader, billing.Loader = loader, loader
	cfg := &config.Config{Clients: map[string]config.ClientConfig{"main": main, "billing": billing}}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	r, err := OpenRegistry(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"billing", "main"}, r.Names())

	_, err = r.Client("")
	assert.ErrorContains(t, err, "several clients")

	mainClient, err := r.Client("main")
	require.NoError(t, err)
	assert.Equal(t, []string{"t_user"}, tableNames(t, mainClient))

	billingClient, err := r.Client("billing")
	require.NoError(t, err)
	assert.Equal(t, []string{"t_order"}, tableNames(t, billingClient))

	_, err = r.Dao("main", "order")
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "definition has no db with multiple clients")
	assert.Contains(t, buf.String(), "dao=orphan")
}

func TestOpenRegistry_MissingDirectory(t *testing.T) {
	client := sqliteConfig(t)
	client.Loader = config.LoaderConfig{Directory: filepath.Join(t.TempDir(), "none"), Delegate: "dao"}

	r, err := OpenRegistry(context.Background(), &config.Config{Client: &client}, testutil.DiscardLogger())
	require.NoError(t, err)
	defer r.Close()

	c, err := r.Client("")
	require.NoError(t, err)
	assert.Empty(t, c.Daos())
}

func TestOpenRegistry_BadDefinitionFails(t *testing.T) {
	client := sqliteConfig(t)
	client.Loader = config.LoaderConfig{Directory: writeDefs(t, "dao: {user: {bogus: 1}}\n"), Delegate: "dao"}

	_, err := OpenRegistry(context.Background(), &config.Config{Client: &client}, testutil.DiscardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client client")
}

func TestOpenRegistry_NoClients(t *testing.T) {
	r, err := OpenRegistry(context.Background(), &config.Config{}, nil)
	require.NoError(t, err)
	assert.Empty(t, r.Names())

	_, err = r.Client("")
	assert.ErrorContains(t, err, "no client configured")
	assert.NoError(t, r.Close())
}

func TestOpenRegistry_UnknownClient(t *testing.T) {
	r, err := OpenRegistry(context.Background(), &config.Config{}, nil)
	require.NoError(t, err)
	_, err = r.Client("x")
	assert.ErrorContains(t, err, `unknown client "x"`)
}
