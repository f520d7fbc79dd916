// Command whereql compiles declarative where clauses to SQL and runs them
// against configured databases.
//
// Usage:
//
//	whereql [--format text|json] [--verbose] [--config file] <command>
//
// Commands:
//   - compile: render a where clause as a SQL condition with parameters
//   - trace: print the builder calls a where clause makes
//   - select, count, delete: run a where clause against a configured table
//   - migrate: create the tables of the loaded definitions
//   - config show: print the effective configuration
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/roach88/whereql/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	// Flag and argument errors from cobra itself.
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(cli.ExitCommandError)
}
