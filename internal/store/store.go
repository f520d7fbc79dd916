package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/whereql/internal/config"
	"github.com/roach88/whereql/internal/dao"
	"github.com/roach88/whereql/internal/querysql"
	"github.com/roach88/whereql/internal/schema"
)

// Client is one open database and the DAOs bound to it.
type Client struct {
	Name    string
	Dialect querysql.Dialect
	Config  config.ClientConfig

	db     *sql.DB
	daos   map[string]*dao.Dao
	logger *slog.Logger
}

// Open opens and pings the database described by cfg.
//
// The pool keeps at most Pool.Max open and Pool.Min idle connections; SQLite
// is limited to a single connection. The ping is bounded by AcquireTimeout.
func Open(ctx context.Context, name string, cfg config.ClientConfig) (*Client, error) {
	dialect, err := querysql.ParseDialect(cfg.Dialect)
	if err != nil {
		return nil, fmt.Errorf("client %s: %w", name, err)
	}
	dsn, err := normalizeDSN(dialect, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("client %s: %w", name, err)
	}

	db, err := sql.Open(driverName(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("client %s: failed to open database: %w", name, err)
	}

	if dialect == querysql.SQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		if cfg.Pool.Max > 0 {
			db.SetMaxOpenConns(cfg.Pool.Max)
		}
		db.SetMaxIdleConns(cfg.Pool.Min)
	}

	pingCtx := ctx
	if cfg.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.AcquireTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("client %s: failed to connect to database: %w", name, err)
	}

	if dialect == querysql.SQLite {
		if err := applyPragmas(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("client %s: failed to apply pragmas: %w", name, err)
		}
	}

	return &Client{
		Name:    name,
		Dialect: dialect,
		Config:  cfg,
		db:      db,
		daos:    make(map[string]*dao.Dao),
		logger:  slog.Default(),
	}, nil
}

// driverName returns the database/sql driver registered for d.
func driverName(d querysql.Dialect) string {
	switch d {
	case querysql.MySQL:
		return "mysql"
	case querysql.Postgres:
		return "pgx"
	default:
		return "sqlite3"
	}
}

// normalizeDSN validates dsn for d. MySQL DSNs get parseTime enabled so
// DATETIME columns scan as time.Time.
func normalizeDSN(d querysql.Dialect, dsn string) (string, error) {
	if dsn == "" {
		return "", fmt.Errorf("dsn is required")
	}
	switch d {
	case querysql.MySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("invalid mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	case querysql.Postgres:
		if _, err := pgconn.ParseConfig(dsn); err != nil {
			return "", fmt.Errorf("invalid postgres dsn: %w", err)
		}
	}
	return dsn, nil
}

// applyPragmas sets SQLite configuration.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// SetLogger sets the logger handed to DAOs bound after the call.
func (c *Client) SetLogger(l *slog.Logger) {
	if l != nil {
		c.logger = l
	}
}

// Close closes the database.
func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// DB returns the underlying database.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Bind creates a DAO for t and registers it under t.Delegate, replacing any
// DAO registered under the same name.
func (c *Client) Bind(t schema.Table) *dao.Dao {
	d := dao.New(c.db, c.Dialect, t, dao.WithLogger(c.logger))
	c.daos[t.Delegate] = d
	return d
}

// Dao returns the DAO registered under delegate (case-insensitive).
func (c *Client) Dao(delegate string) (*dao.Dao, bool) {
	d, ok := c.daos[schema.DelegateName(delegate)]
	return d, ok
}

// Daos returns every bound DAO ordered by delegate name.
func (c *Client) Daos() []*dao.Dao {
	names := make([]string, 0, len(c.daos))
	for name := range c.daos {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*dao.Dao, len(names))
	for i, name := range names {
		out[i] = c.daos[name]
	}
	return out
}

// AutoCreate creates the table of every bound DAO.
func (c *Client) AutoCreate(ctx context.Context) error {
	for _, d := range c.Daos() {
		if err := d.AutoCreateTable(ctx); err != nil {
			return fmt.Errorf("client %s: %w", c.Name, err)
		}
	}
	return nil
}
