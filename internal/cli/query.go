package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/whereql/internal/dao"
	"github.com/roach88/whereql/internal/ir"
	"github.com/roach88/whereql/internal/queryir"
	"github.com/roach88/whereql/internal/querysql"
)

// SelectOptions holds flags for the select command.
type SelectOptions struct {
	TableOptions
	Fields []string
	Limit  int
	Offset int
	Order  string
	DryRun bool
}

// SelectResult is the output of the select command.
type SelectResult struct {
	Rows  []ir.IRObject `json:"rows"`
	Count int           `json:"count"`
}

// NewSelectCommand creates the select command.
func NewSelectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SelectOptions{TableOptions: TableOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Select rows matching a where clause",
		Long: `Select the rows of a configured table that match a where clause.

Rows are printed one JSON object per line, keys in column order.

Examples:
  whereql select -t user -w '{"status": "active"}' --order "id desc" --limit 10
  whereql select -t order --client billing --fields id,total -f filter.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(opts, cmd)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringSliceVar(&opts.Fields, "fields", nil, "columns to select (default *)")
	cmd.Flags().IntVar(&opts.Limit, "limit", -1, "maximum number of rows")
	cmd.Flags().IntVar(&opts.Offset, "offset", -1, "number of rows to skip")
	cmd.Flags().StringVar(&opts.Order, "order", "", `order, e.g. "created desc, id"`)
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the statement instead of running it")

	return cmd
}

func (o *SelectOptions) selectOptions() (querysql.SelectOptions, error) {
	order, err := querysql.ParseOrder(o.Order)
	if err != nil {
		return querysql.SelectOptions{}, err
	}
	out := querysql.SelectOptions{Fields: o.Fields, Order: order}
	if o.Limit >= 0 {
		out.Limit = &o.Limit
	}
	if o.Offset >= 0 {
		out.Offset = &o.Offset
	}
	return out, nil
}

func runSelect(opts *SelectOptions, cmd *cobra.Command) error {
	selectOpts, err := opts.selectOptions()
	if err != nil {
		return opts.formatter(cmd).Fail(ExitCommandError, ErrCodeUsage, "invalid --order", err)
	}

	return withDao(&opts.TableOptions, cmd, func(ctx context.Context, f *OutputFormatter, d *dao.Dao, p queryir.Predicate) error {
		if opts.DryRun {
			st, err := d.Query(p, selectOpts)
			if err != nil {
				return f.Fail(ExitFailure, ErrCodeGeneric, "compiling statement", err)
			}
			return printStatement(f, st)
		}

		rows, err := d.Select(ctx, p, selectOpts)
		if err != nil {
			return statementFailed(f, err)
		}
		if f.JSON() {
			return f.Success(SelectResult{Rows: rows, Count: len(rows)})
		}
		for _, row := range rows {
			data, err := ir.MarshalIRValue(row)
			if err != nil {
				return err
			}
			fmt.Fprintln(f.Writer, string(data))
		}
		f.VerboseLog("%d row(s)", len(rows))
		return nil
	})
}

func printStatement(f *OutputFormatter, st querysql.Statement) error {
	args := st.Args
	if args == nil {
		args = []any{}
	}
	if f.JSON() {
		return f.Success(querysql.Statement{SQL: st.SQL, Args: args})
	}
	fmt.Fprintln(f.Writer, st.SQL)
	if len(args) > 0 {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = fmt.Sprintf("%v", a)
		}
		fmt.Fprintf(f.Writer, "args: [%s]\n", strings.Join(parts, ", "))
	}
	return nil
}

// CountOptions holds flags for the count command.
type CountOptions struct {
	TableOptions
}

// CountResult is the output of the count command.
type CountResult struct {
	Count int64 `json:"count"`
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CountOptions{TableOptions: TableOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count rows matching a where clause",
		Long: `Count the rows of a configured table that match a where clause.

Examples:
  whereql count -t user
  whereql count -t user -w '{"$or": {"status": "banned", "visits": {"$lt": 1}}}'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDao(&opts.TableOptions, cmd, func(ctx context.Context, f *OutputFormatter, d *dao.Dao, p queryir.Predicate) error {
				n, err := d.Count(ctx, p)
				if err != nil {
					return statementFailed(f, err)
				}
				if f.JSON() {
					return f.Success(CountResult{Count: n})
				}
				return f.Success(n)
			})
		},
	}

	opts.addFlags(cmd)
	return cmd
}

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	TableOptions
	All bool
}

// DeleteResult is the output of the delete command.
type DeleteResult struct {
	Deleted int64 `json:"deleted"`
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{TableOptions: TableOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete rows matching a where clause",
		Long: `Delete the rows of a configured table that match a where clause.

Deleting without a where clause requires --all.

Examples:
  whereql delete -t user -w '{"status": "banned"}'
  whereql delete -t session --all`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDao(&opts.TableOptions, cmd, func(ctx context.Context, f *OutputFormatter, d *dao.Dao, p queryir.Predicate) error {
				all, err := matchesAll(d, p)
				if err != nil {
					return f.Fail(ExitFailure, ErrCodeGeneric, "rendering where clause", err)
				}
				if all && !opts.All {
					return f.Fail(ExitCommandError, ErrCodeUsage,
						"refusing to delete every row without --all", nil)
				}
				n, err := d.Delete(ctx, p)
				if err != nil {
					return statementFailed(f, err)
				}
				if f.JSON() {
					return f.Success(DeleteResult{Deleted: n})
				}
				return f.Success(fmt.Sprintf("deleted %d row(s)", n))
			})
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().BoolVar(&opts.All, "all", false, "allow deleting every row")
	return cmd
}
