package cli

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/whereql/internal/testutil"
)

const userDefs = `dao:
  user:
    table: t_user
    column:
      id: INTEGER NOT NULL
      username: VARCHAR(64) NOT NULL
      status: VARCHAR(16)
    index:
      pk: {type: primary, key: id}
`

// setupProject writes a whereql.yaml with one SQLite client and a user
// definition, creates the table and seeds it. It returns the config path.
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	defs := filepath.Join(dir, "defs")
	require.NoError(t, os.MkdirAll(defs, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(defs, "user.yaml"), []byte(userDefs), 0o644))

	dbPath := filepath.Join(dir, "app.db")
	cfg := fmt.Sprintf(`client:
  dialect: sqlite3
  dsn: %s
  loader:
    directory: %s
    auto_create: true
log:
  level: error
`, dbPath, defs)
	cfgPath := filepath.Join(dir, "whereql.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	_, _, err := runCLI(t, nil, "--config", cfgPath, "migrate")
	require.NoError(t, err)

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()
	testutil.MustExec(t, db, `INSERT INTO t_user (id, username, status) VALUES
		(1, 'alice', 'active'), (2, 'bob', 'banned'), (3, 'carol', 'active')`)
	return cfgPath
}

func TestSelect(t *testing.T) {
	cfg := setupProject(t)

	out, _, err := runCLI(t, nil, "--config", cfg, "select", "-t", "user",
		"-w", `{"status": "active"}`, "--order", "id desc", "--fields", "id,username")
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":3,\"username\":\"carol\"}\n{\"id\":1,\"username\":\"alice\"}\n", out)
}

func TestSelect_Paging(t *testing.T) {
	cfg := setupProject(t)

	out, _, err := runCLI(t, nil, "--config", cfg, "select", "-t", "USER",
		"--order", "id", "--limit", "1", "--offset", "1", "--fields", "username")
	require.NoError(t, err)
	assert.Equal(t, "{\"username\":\"bob\"}\n", out)
}

func TestSelect_JSON(t *testing.T) {
	cfg := setupProject(t)

	out, _, err := runCLI(t, nil, "--config", cfg, "--format", "json", "select", "-t", "user",
		"-w", `{"id": {"$in": [1, 2]}}`, "--order", "id")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Rows  []map[string]any `json:"rows"`
			Count int              `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Count)
	assert.Equal(t, "bob", resp.Data.Rows[1]["username"])
}

func TestSelect_DryRun(t *testing.T) {
	cfg := setupProject(t)

	out, _, err := runCLI(t, nil, "--config", cfg, "select", "-t", "user", "--dry-run",
		"-w", `{"$or": {"status": "banned", "id": 1}}`, "--limit", "5")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `t_user` WHERE (`status` = ? OR `id` = ?) LIMIT ?\nargs: [banned, 1, 5]\n", out)
}

func TestSelect_WhereFromFile(t *testing.T) {
	cfg := setupProject(t)
	filter := filepath.Join(t.TempDir(), "filter.yaml")
	require.NoError(t, os.WriteFile(filter, []byte("username:\n  $like: 'b%'\n"), 0o644))

	out, _, err := runCLI(t, nil, "--config", cfg, "select", "-t", "user", "-f", filter, "--fields", "id")
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":2}\n", out)
}

func TestCount(t *testing.T) {
	cfg := setupProject(t)

	out, _, err := runCLI(t, nil, "--config", cfg, "count", "-t", "user")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	out, _, err = runCLI(t, nil, "--config", cfg, "--format", "json", "count", "-t", "user", "-w", `{"status": {"$neq": "active"}}`)
	require.NoError(t, err)
	assert.Contains(t, out, `"count": 1`)
}

func TestDelete(t *testing.T) {
	cfg := setupProject(t)

	for _, where := range []string{"", "{}", "null", "[]", `{"$or": {}}`} {
		out, _, err := runCLI(t, nil, "--config", cfg, "delete", "-t", "user", "-w", where)
		require.Error(t, err, where)
		assert.Equal(t, ExitCommandError, GetExitCode(err), where)
		assert.Contains(t, out, "without --all", where)
	}

	out, _, err := runCLI(t, nil, "--config", cfg, "count", "-t", "user")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out, "refused deletes leave every row")

	out, _, err = runCLI(t, nil, "--config", cfg, "delete", "-t", "user", "-w", `{"status": "banned"}`)
	require.NoError(t, err)
	assert.Equal(t, "deleted 1 row(s)\n", out)

	out, _, err = runCLI(t, nil, "--config", cfg, "delete", "-t", "user", "--all")
	require.NoError(t, err)
	assert.Equal(t, "deleted 2 row(s)\n", out)
}

func TestTableCommand_Errors(t *testing.T) {
	cfg := setupProject(t)

	tests := []struct {
		name     string
		args     []string
		exit     int
		contains string
	}{
		{"unknown table", []string{"count", "-t", "nope"}, ExitCommandError, `no DAO named "nope"`},
		{"unknown client", []string{"count", "-t", "user", "--client", "x"}, ExitCommandError, `unknown client "x"`},
		{"parse error", []string{"count", "-t", "user", "-w", `{"$lt": 1}`}, ExitFailure, "MALFORMED_OBJECT"},
		{"bad column", []string{"count", "-t", "user", "-w", `{"missing": 1}`}, ExitFailure, "no such column"},
		{"misspelled column in delete", []string{"delete", "-t", "user", "-w", `{"stauts": {"$neq": "active"}}`}, ExitFailure, "no such column"},
		{"bad order", []string{"select", "-t", "user", "--order", "id sideways"}, ExitCommandError, "invalid --order"},
		{"where and file", []string{"count", "-t", "user", "-w", "{}", "-f", "x.yaml"}, ExitCommandError, "not both"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, nil, append([]string{"--config", cfg}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, tt.exit, GetExitCode(err))
			assert.Contains(t, out, tt.contains)
		})
	}
}

func TestMissingConfig(t *testing.T) {
	out, _, err := runCLI(t, nil, "--config", "/nonexistent/whereql.yaml", "count", "-t", "user")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")
}

func TestMigrate(t *testing.T) {
	cfg := setupProject(t)

	out, _, err := runCLI(t, nil, "--config", cfg, "migrate")
	require.NoError(t, err, "existing tables are not an error")
	assert.Equal(t, "client client: 1 table(s)\n  t_user\n", out)
}

func TestMigrate_DryRun(t *testing.T) {
	cfg := setupProject(t)

	out, _, err := runCLI(t, nil, "--config", cfg, "migrate", "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE `t_user` (`id` INTEGER NOT NULL, `username` VARCHAR(64) NOT NULL, `status` VARCHAR(16), PRIMARY KEY (`id`));\n", out)
}

func TestConfigShow(t *testing.T) {
	cfg := setupProject(t)

	out, _, err := runCLI(t, nil, "--config", cfg, "config", "show", "--source")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Config file: "+cfg+"\n"))
	assert.Contains(t, out, "dialect: sqlite3")
	assert.Contains(t, out, "acquire_timeout: 30s")
	assert.Contains(t, out, "level: error")
}

func TestConfigShow_JSONResolvesClients(t *testing.T) {
	cfg := setupProject(t)

	out, _, err := runCLI(t, nil, "--config", cfg, "--format", "json", "config", "show")
	require.NoError(t, err)

	var resp struct {
		Data struct {
			Source  string                    `json:"source"`
			Clients map[string]map[string]any `json:"clients"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, cfg, resp.Data.Source)
	require.Contains(t, resp.Data.Clients, "client")
	assert.Equal(t, "sqlite3", resp.Data.Clients["client"]["dialect"])
}
