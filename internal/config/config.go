// Package config loads whereql.yaml with viper.
//
// Precedence is flags > WHEREQL_* environment > config file > defaults. The
// file is found by walking up from the working directory to the repository
// root, unless a path is given explicitly.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	maxWalkDepth = 25

	// EnvPrefix prefixes environment overrides: WHEREQL_DEFAULT_DSN,
	// WHEREQL_LOG_LEVEL, ...
	EnvPrefix = "WHEREQL"

	// SingleClientName names the client configured under "client".
	SingleClientName = "client"
)

// FileNames are the config file names searched for, in order.
var FileNames = []string{"whereql.yaml", "whereql.yml"}

// Config is the content of whereql.yaml.
type Config struct {
	// Default holds settings every client inherits.
	Default ClientConfig `mapstructure:"default" yaml:"default" json:"default"`

	// Client configures a single database.
	Client *ClientConfig `mapstructure:"client" yaml:"client,omitempty" json:"client,omitempty"`

	// Clients configures several named databases.
	Clients map[string]ClientConfig `mapstructure:"clients" yaml:"clients,omitempty" json:"clients,omitempty"`

	Log LogConfig `mapstructure:"log" yaml:"log" json:"log"`
}

// ClientConfig describes one database connection and its DAO loader.
type ClientConfig struct {
	// Dialect is sqlite3, mysql or postgres (aliases accepted).
	Dialect string `mapstructure:"dialect" yaml:"dialect" json:"dialect"`

	// DSN is the driver data source name.
	DSN string `mapstructure:"dsn" yaml:"dsn,omitempty" json:"dsn,omitempty"`

	Pool PoolConfig `mapstructure:"pool" yaml:"pool" json:"pool"`

	// AcquireTimeout bounds the initial connection check.
	AcquireTimeout time.Duration `mapstructure:"acquire_timeout" yaml:"acquire_timeout" json:"acquire_timeout"`

	Loader LoaderConfig `mapstructure:"loader" yaml:"loader" json:"loader"`
}

// PoolConfig sizes the connection pool.
type PoolConfig struct {
	Min int `mapstructure:"min" yaml:"min" json:"min"`
	Max int `mapstructure:"max" yaml:"max" json:"max"`
}

// LoaderConfig says where table definitions live.
type LoaderConfig struct {
	Directory  string `mapstructure:"directory" yaml:"directory" json:"directory"`
	Delegate   string `mapstructure:"delegate" yaml:"delegate" json:"delegate"`
	AutoCreate bool   `mapstructure:"auto_create" yaml:"auto_create" json:"auto_create"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// Load discovers and loads configuration. It returns the config and the
// path of the file used, empty when none was found.
func Load(explicitPath string) (*Config, string, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"client.dialect", "client.dsn"} {
		if err := v.BindEnv(key); err != nil {
			return nil, "", fmt.Errorf("binding %s: %w", key, err)
		}
	}

	path, err := findConfigFile(explicitPath)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, path, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, path, fmt.Errorf("unmarshaling config: %w", err)
	}
	if cfg.Client != nil && len(cfg.Clients) > 0 {
		return nil, path, fmt.Errorf("config sets both client and clients; use one")
	}
	return &cfg, path, nil
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults are static and always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("default.dialect", "mysql")
	v.SetDefault("default.dsn", "")
	v.SetDefault("default.pool.min", 0)
	v.SetDefault("default.pool.max", 5)
	v.SetDefault("default.acquire_timeout", 30*time.Second)
	v.SetDefault("default.loader.directory", "dao")
	v.SetDefault("default.loader.delegate", "dao")
	v.SetDefault("default.loader.auto_create", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// findConfigFile returns explicitPath when set, otherwise walks up from the
// working directory looking for FileNames, stopping at a .git boundary.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil
}

// ResolvedClients returns every configured client with unset fields filled
// from Default. A single "client" is returned under SingleClientName.
func (c *Config) ResolvedClients() map[string]ClientConfig {
	out := make(map[string]ClientConfig)
	if c.Client != nil {
		out[SingleClientName] = c.Client.inherit(c.Default)
	}
	for name, cc := range c.Clients {
		out[name] = cc.inherit(c.Default)
	}
	return out
}

// ClientNames returns the resolved client names in sorted order.
func (c *Config) ClientNames() []string {
	clients := c.ResolvedClients()
	names := make([]string, 0, len(clients))
	for name := range clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MultiClient reports whether several named clients are configured.
func (c *Config) MultiClient() bool {
	return c.Client == nil && len(c.Clients) > 0
}

// ResolveClient returns the named client. An empty name selects the only
// configured client.
func (c *Config) ResolveClient(name string) (ClientConfig, string, error) {
	clients := c.ResolvedClients()
	if name == "" {
		switch len(clients) {
		case 0:
			return ClientConfig{}, "", fmt.Errorf("no client configured")
		case 1:
			for n, cc := range clients {
				return cc, n, nil
			}
		default:
			return ClientConfig{}, "", fmt.Errorf("several clients configured, choose one of %v", c.ClientNames())
		}
	}
	cc, ok := clients[name]
	if !ok {
		return ClientConfig{}, "", fmt.Errorf("unknown client %q, configured: %v", name, c.ClientNames())
	}
	return cc, name, nil
}

// inherit fills unset fields of c from def. AutoCreate is on when either
// side turns it on.
func (c ClientConfig) inherit(def ClientConfig) ClientConfig {
	if c.Dialect == "" {
		c.Dialect = def.Dialect
	}
	if c.DSN == "" {
		c.DSN = def.DSN
	}
	if c.Pool.Min == 0 {
		c.Pool.Min = def.Pool.Min
	}
	if c.Pool.Max == 0 {
		c.Pool.Max = def.Pool.Max
	}
	if c.AcquireTimeout == 0 {
		c.AcquireTimeout = def.AcquireTimeout
	}
	if c.Loader.Directory == "" {
		c.Loader.Directory = def.Loader.Directory
	}
	if c.Loader.Delegate == "" {
		c.Loader.Delegate = def.Loader.Delegate
	}
	c.Loader.AutoCreate = c.Loader.AutoCreate || def.Loader.AutoCreate
	return c
}
