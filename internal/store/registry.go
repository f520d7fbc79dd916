package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/roach88/whereql/internal/config"
	"github.com/roach88/whereql/internal/dao"
	"github.com/roach88/whereql/internal/schema"
)

// Registry holds the clients opened from a configuration.
type Registry struct {
	clients map[string]*Client
	multi   bool
	logger  *slog.Logger
}

// OpenRegistry opens every configured client, loads its table definitions
// and, when the client's loader asks for it, creates the tables.
// On error every client opened so far is closed.
func OpenRegistry(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		clients: make(map[string]*Client),
		multi:   cfg.MultiClient(),
		logger:  logger,
	}

	resolved := cfg.ResolvedClients()
	for _, name := range cfg.ClientNames() {
		c, err := Open(ctx, name, resolved[name])
		if err != nil {
			return nil, errors.Join(err, r.Close())
		}
		c.SetLogger(logger.With("client", name))
		r.clients[name] = c

		if err := r.load(ctx, c); err != nil {
			return nil, errors.Join(err, r.Close())
		}
	}
	return r, nil
}

// load binds the client's table definitions and auto-creates them.
func (r *Registry) load(ctx context.Context, c *Client) error {
	loader := c.Config.Loader
	if loader.Directory == "" {
		return nil
	}

	tables, err := schema.LoadDir(loader.Directory, loader.Delegate)
	if schema.IsNotFound(err) {
		r.logger.DebugContext(ctx, "definition directory not found, no DAOs loaded",
			"client", c.Name, "directory", loader.Directory)
		return nil
	}
	if err != nil {
		return fmt.Errorf("client %s: %w", c.Name, err)
	}

	for _, t := range tables {
		if r.multi {
			if t.DB == "" {
				r.logger.WarnContext(ctx, "definition has no db with multiple clients, skipping",
					"client", c.Name, "dao", t.Delegate, "source", t.Source)
				continue
			}
			if t.DB != c.Name {
				continue
			}
		}
		c.Bind(t)
	}
	r.logger.DebugContext(ctx, "DAOs loaded", "client", c.Name, "count", len(c.daos))

	if loader.AutoCreate {
		return c.AutoCreate(ctx)
	}
	return nil
}

// Client returns the named client. An empty name selects the only client.
func (r *Registry) Client(name string) (*Client, error) {
	if name == "" {
		if len(r.clients) == 1 {
			for _, c := range r.clients {
				return c, nil
			}
		}
		if len(r.clients) == 0 {
			return nil, fmt.Errorf("no client configured")
		}
		return nil, fmt.Errorf("several clients configured, choose one of %v", r.Names())
	}
	c, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("unknown client %q, configured: %v", name, r.Names())
	}
	return c, nil
}

// Dao returns the DAO registered under delegate on the named client.
func (r *Registry) Dao(client, delegate string) (*dao.Dao, error) {
	c, err := r.Client(client)
	if err != nil {
		return nil, err
	}
	d, ok := c.Dao(delegate)
	if !ok {
		return nil, fmt.Errorf("client %s: no DAO named %q", c.Name, delegate)
	}
	return d, nil
}

// Names returns the client names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every client.
func (r *Registry) Close() error {
	var errs []error
	for _, name := range r.Names() {
		if err := r.clients[name].Close(); err != nil {
			errs = append(errs, fmt.Errorf("client %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
