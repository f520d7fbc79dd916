package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ConfigShowOptions holds flags for the config show command.
type ConfigShowOptions struct {
	*RootOptions
	Source bool
}

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	cmd.AddCommand(newConfigShowCommand(rootOpts))
	return cmd
}

func newConfigShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConfigShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Show the effective configuration after merging defaults, config file,
and WHEREQL_* environment variables.

Examples:
  whereql config show
  whereql config show --source`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			cfg, path, err := loadConfig(opts.RootOptions, f)
			if err != nil {
				return err
			}
			if f.JSON() {
				return f.Success(map[string]any{"source": path, "config": cfg, "clients": cfg.ResolvedClients()})
			}

			if opts.Source {
				if path != "" {
					fmt.Fprintf(f.Writer, "# Config file: %s\n", path)
				} else {
					fmt.Fprintln(f.Writer, "# Config file: (none, using defaults)")
				}
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return f.Fail(ExitFailure, ErrCodeGeneric, "encoding config", err)
			}
			_, err = f.Writer.Write(out)
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.Source, "source", false, "show config file source")
	return cmd
}
