package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/whereql/internal/queryir"
	"github.com/roach88/whereql/internal/querysql"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Dialect string
	File    string
	Inline  bool
}

// CompileResult is the output of the compile command.
type CompileResult struct {
	Dialect  string   `json:"dialect"`
	SQL      string   `json:"sql"`
	Args     []any    `json:"args"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [where-clause]",
		Short: "Compile a where clause to SQL",
		Long: `Compile a JSON or YAML where-clause document into a parenthesized SQL
condition and its parameters.

The document is read from the argument, from --file, or from stdin.
With --verbose the predicate is also linted for dialect-sensitive shapes.

Examples:
  whereql compile '{"age": {"$gt": 18}, "$or": [{"a": 1}, {"b": 2}]}'
  whereql compile --dialect postgres -f filter.yaml
  echo '{"id": [1, 2, 3]}' | whereql compile --inline`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Dialect, "dialect", "d", "sqlite3", "SQL dialect (sqlite3|mysql|postgres)")
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read the where clause from a file (- for stdin)")
	cmd.Flags().BoolVar(&opts.Inline, "inline", false, "render values as literals (display only)")

	return cmd
}

func runCompile(opts *CompileOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	dialect, err := querysql.ParseDialect(opts.Dialect)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeUsage, "invalid dialect", err)
	}
	data, name, err := readDSL(args, opts.File, cmd.InOrStdin())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInput, "reading where clause", err)
	}

	p, err := compileDSL(data, name)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "compiling where clause", err)
	}

	compiler := &querysql.Compiler{Dialect: dialect, Inline: opts.Inline}
	st, err := compiler.Where(p)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "rendering where clause", err)
	}

	result := CompileResult{Dialect: string(dialect), SQL: st.SQL, Args: st.Args}
	if result.Args == nil {
		result.Args = []any{}
	}
	if opts.Verbose {
		result.Warnings = queryir.Validate(p).Warnings
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	return printCompileResult(formatter, result, opts.Inline)
}

func printCompileResult(f *OutputFormatter, r CompileResult, inline bool) error {
	if r.SQL == "" {
		fmt.Fprintln(f.Writer, "(no condition)")
	} else {
		fmt.Fprintln(f.Writer, r.SQL)
	}
	if !inline {
		args, err := json.Marshal(r.Args)
		if err != nil {
			return err
		}
		fmt.Fprintf(f.Writer, "args: %s\n", args)
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(f.Writer, "warnings:\n  - %s\n", strings.Join(r.Warnings, "\n  - "))
	}
	return nil
}
