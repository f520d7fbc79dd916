package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/whereql/internal/queryir"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	File string
}

// TraceResult is the output of the trace command.
type TraceResult struct {
	Calls []queryir.Call `json:"calls"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [where-clause]",
		Short: "Show the builder calls a where clause makes",
		Long: `Compile a where clause and print the sequence of builder calls
(where, orWhere, whereGroup, orWhereGroup, whereRaw) it applies,
with nested groups indented.

Examples:
  whereql trace '{"$or": {"a": 1, "b": [2, 3]}}'
  whereql trace -f filter.yaml --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read the where clause from a file (- for stdin)")

	return cmd
}

func runTrace(opts *TraceOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	formatter.TraceID = uuid.NewString()

	data, name, err := readDSL(args, opts.File, cmd.InOrStdin())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInput, "reading where clause", err)
	}
	p, err := compileDSL(data, name)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "compiling where clause", err)
	}

	calls := queryir.Record(p)
	if formatter.JSON() {
		if calls == nil {
			calls = []queryir.Call{}
		}
		return formatter.Success(TraceResult{Calls: calls})
	}

	if len(calls) == 0 {
		fmt.Fprintln(formatter.Writer, "(no calls)")
		return nil
	}
	fmt.Fprint(formatter.Writer, queryir.FormatCalls(calls))
	return nil
}
