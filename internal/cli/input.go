package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/whereql/internal/queryir"
	"github.com/roach88/whereql/internal/where"
)

// readDSL returns the where-clause document from the first argument, the
// file named by file ("-" for stdin) or stdin when neither is given.
func readDSL(args []string, file string, stdin io.Reader) ([]byte, string, error) {
	switch {
	case len(args) > 0 && file != "":
		return nil, "", fmt.Errorf("give the where clause as an argument or with --file, not both")
	case len(args) > 0:
		return []byte(args[0]), "", nil
	case file == "-" || file == "":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("reading stdin: %w", err)
		}
		return data, "", nil
	default:
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, "", err
		}
		return data, file, nil
	}
}

// compileDSL compiles a JSON or YAML document. Files ending in .json and
// documents starting with { or [ are read as JSON, everything else as YAML.
// A blank document compiles to no filter.
func compileDSL(data []byte, name string) (queryir.Predicate, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return where.Compile(nil)
	}
	if strings.EqualFold(filepath.Ext(name), ".json") || trimmed[0] == '{' || trimmed[0] == '[' {
		return where.CompileJSON(trimmed)
	}
	return where.CompileYAML(data)
}
