package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/whereql/internal/config"
	"github.com/roach88/whereql/internal/querysql"
	"github.com/roach88/whereql/internal/store"
)

// MigrateOptions holds flags for the migrate command.
type MigrateOptions struct {
	*RootOptions
	Client string
	DryRun bool
}

// MigrateResult reports the tables handled for one client.
type MigrateResult struct {
	Client     string               `json:"client"`
	Tables     []string             `json:"tables"`
	Statements []querysql.Statement `json:"statements,omitempty"`
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MigrateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the tables of the loaded definitions",
		Long: `Create every table defined in the loader directory of each configured
client (or of --client only). Tables that already exist are left alone
and reported as a warning in the log.

Examples:
  whereql migrate
  whereql migrate --client billing --dry-run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Client, "client", "", "only migrate this client")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the DDL instead of running it")

	return cmd
}

func runMigrate(opts *MigrateOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)

	cfg, _, err := loadConfig(opts.RootOptions, f)
	if err != nil {
		return err
	}
	disableAutoCreate(cfg)

	reg, err := openRegistryWith(ctx, cfg, opts.RootOptions, cmd, f)
	if err != nil {
		return err
	}
	defer reg.Close()

	names := reg.Names()
	if opts.Client != "" {
		names = []string{opts.Client}
	}
	if len(names) == 0 {
		return f.Fail(ExitCommandError, ErrCodeConfig, "no client configured", nil)
	}

	results := make([]MigrateResult, 0, len(names))
	for _, name := range names {
		c, err := reg.Client(name)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeUsage, "resolving client", err)
		}
		res, err := migrateClient(ctx, c, opts.DryRun)
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeDatabase, "migration failed", err)
		}
		results = append(results, res)
	}

	if f.JSON() {
		return f.Success(results)
	}
	for _, res := range results {
		if opts.DryRun {
			for _, st := range res.Statements {
				fmt.Fprintf(f.Writer, "%s;\n", st.SQL)
			}
			continue
		}
		fmt.Fprintf(f.Writer, "client %s: %d table(s)\n", res.Client, len(res.Tables))
		for _, t := range res.Tables {
			fmt.Fprintf(f.Writer, "  %s\n", t)
		}
	}
	return nil
}

func migrateClient(ctx context.Context, c *store.Client, dryRun bool) (MigrateResult, error) {
	res := MigrateResult{Client: c.Name, Tables: []string{}}
	compiler := querysql.NewCompiler(c.Dialect)
	for _, d := range c.Daos() {
		if !d.Table().HasColumns() {
			continue
		}
		res.Tables = append(res.Tables, d.Name())
		if !dryRun {
			continue
		}
		stmts, err := compiler.CreateTable(d.Table())
		if err != nil {
			return res, err
		}
		res.Statements = append(res.Statements, stmts...)
	}
	if dryRun {
		return res, nil
	}
	return res, c.AutoCreate(ctx)
}

// disableAutoCreate turns off loader auto-creation so that opening the
// registry does not run DDL on its own.
func disableAutoCreate(cfg *config.Config) {
	cfg.Default.Loader.AutoCreate = false
	if cfg.Client != nil {
		cfg.Client.Loader.AutoCreate = false
	}
	for name, cc := range cfg.Clients {
		cc.Loader.AutoCreate = false
		cfg.Clients[name] = cc
	}
}
