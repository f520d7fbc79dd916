package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/whereql/internal/config"
	"github.com/roach88/whereql/internal/dao"
	"github.com/roach88/whereql/internal/queryir"
	"github.com/roach88/whereql/internal/querysql"
	"github.com/roach88/whereql/internal/store"
)

// TableOptions holds the flags shared by commands that run against a table.
type TableOptions struct {
	*RootOptions
	Client string
	Table  string
	Where  string
	File   string
}

func (o *TableOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Client, "client", "", "configured client (default: the only one)")
	cmd.Flags().StringVarP(&o.Table, "table", "t", "", "DAO name of the table (required)")
	_ = cmd.MarkFlagRequired("table")
	cmd.Flags().StringVarP(&o.Where, "where", "w", "", "where clause (JSON or YAML)")
	cmd.Flags().StringVarP(&o.File, "file", "f", "", "read the where clause from a file")
}

// readFilter returns the where clause given by --where or --file. Neither
// yields an empty document, which selects every row.
func (o *TableOptions) readFilter(stdin io.Reader) ([]byte, string, error) {
	switch {
	case o.Where != "" && o.File != "":
		return nil, "", fmt.Errorf("give --where or --file, not both")
	case o.File != "":
		return readDSL(nil, o.File, stdin)
	default:
		return []byte(o.Where), "", nil
	}
}

// matchesAll reports whether p renders no condition for d, so a statement
// using it touches every row. "{}", "[]" and null all compile that way.
func matchesAll(d *dao.Dao, p queryir.Predicate) (bool, error) {
	st, err := querysql.NewCompiler(d.Dialect()).Where(p)
	if err != nil {
		return false, err
	}
	return st.SQL == "", nil
}

// loadConfig loads the configuration named by --config.
func loadConfig(opts *RootOptions, f *OutputFormatter) (*config.Config, string, error) {
	cfg, path, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, path, f.Fail(ExitCommandError, ErrCodeConfig, "loading config", err)
	}
	if path != "" {
		f.VerboseLog("Using config %s", path)
	}
	return cfg, path, nil
}

// openRegistry loads the configuration and opens its clients. The caller
// closes the registry.
func openRegistry(ctx context.Context, opts *RootOptions, cmd *cobra.Command, f *OutputFormatter) (*store.Registry, error) {
	cfg, _, err := loadConfig(opts, f)
	if err != nil {
		return nil, err
	}
	return openRegistryWith(ctx, cfg, opts, cmd, f)
}

// openRegistryWith opens the clients of cfg. Logs go to the command's
// stderr, at debug level with --verbose.
func openRegistryWith(ctx context.Context, cfg *config.Config, opts *RootOptions, cmd *cobra.Command, f *OutputFormatter) (*store.Registry, error) {
	logCfg := cfg.Log
	if opts.Verbose {
		logCfg.Level = "debug"
	}
	logger, err := logCfg.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, "configuring logging", err)
	}

	reg, err := store.OpenRegistry(ctx, cfg, logger)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeDatabase, "opening database", err)
	}
	return reg, nil
}

// withDao opens the registry, resolves --client/--table and calls fn.
func withDao(opts *TableOptions, cmd *cobra.Command, fn func(ctx context.Context, f *OutputFormatter, d *dao.Dao, p queryir.Predicate) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)

	data, name, err := opts.readFilter(cmd.InOrStdin())
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInput, "reading where clause", err)
	}
	p, err := compileDSL(data, name)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeGeneric, "compiling where clause", err)
	}

	reg, err := openRegistry(ctx, opts.RootOptions, cmd, f)
	if err != nil {
		return err
	}
	defer reg.Close()

	d, err := reg.Dao(opts.Client, opts.Table)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeUsage, "resolving table", err)
	}
	return fn(ctx, f, d, p)
}

// statementFailed reports a failed statement.
func statementFailed(f *OutputFormatter, err error) error {
	return f.Fail(ExitFailure, ErrCodeDatabase, "statement failed", err)
}
