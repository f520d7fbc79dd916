package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/whereql/internal/ir"
)

// DefaultDelegate is the top-level field tables are declared under.
const DefaultDelegate = "dao"

// Error code constants for table definition loading.
const (
	ErrCodeNotFound  = "SCHEMA_NOT_FOUND"
	ErrCodeParse     = "SCHEMA_PARSE"
	ErrCodeInvalid   = "SCHEMA_INVALID"
	ErrCodeDuplicate = "SCHEMA_DUPLICATE"
)

// LoadError represents an error that occurred while loading definitions.
type LoadError struct {
	Code    string
	Message string
	File    string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a LoadError for a missing directory.
func IsNotFound(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Code == ErrCodeNotFound
}

// LoadDir loads every .cue, .yaml and .yml file under dir and returns the
// tables declared under delegate, sorted by Delegate.
func LoadDir(dir, delegate string) ([]Table, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("definition directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing definition directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	files, err := FindFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}

	var tables []Table
	seen := make(map[string]string)
	for _, path := range files {
		loaded, err := LoadFile(path, delegate)
		if err != nil {
			return nil, err
		}
		for _, t := range loaded {
			if prev, ok := seen[t.Delegate]; ok {
				return nil, &LoadError{
					Code:    ErrCodeDuplicate,
					Message: fmt.Sprintf("table %q already defined in %s", t.Delegate, prev),
					File:    path,
				}
			}
			seen[t.Delegate] = path
			tables = append(tables, t)
		}
	}

	sort.Slice(tables, func(i, j int) bool { return tables[i].Delegate < tables[j].Delegate })
	return tables, nil
}

// FindFiles walks the directory and returns all definition file paths.
func FindFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".cue", ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// LoadFile loads one definition file, choosing the format by extension.
func LoadFile(path, delegate string) ([]Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: err.Error(), File: path}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return ParseCUE(data, path, delegate)
	case ".yaml", ".yml":
		return ParseYAML(data, path, delegate)
	default:
		return nil, &LoadError{Code: ErrCodeParse, Message: "unsupported file extension", File: path}
	}
}

// ParseCUE parses table definitions from CUE source.
func ParseCUE(data []byte, filename, delegate string) ([]Table, error) {
	if delegate == "" {
		delegate = DefaultDelegate
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err, filename)
	}

	root := value.LookupPath(cue.MakePath(cue.Str(delegate)))
	if !root.Exists() {
		return nil, nil
	}

	iter, err := root.Fields()
	if err != nil {
		return nil, formatCUEError(err, filename)
	}

	var tables []Table
	for iter.Next() {
		raw, err := cueToIR(iter.Value())
		if err != nil {
			return nil, formatCUEError(err, filename)
		}
		t, err := tableFromIR(iter.Label(), raw, filename)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeInvalid, Message: err.Error(), File: filename, Pos: iter.Value().Pos()}
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// ParseYAML parses table definitions from YAML source.
func ParseYAML(data []byte, filename, delegate string) ([]Table, error) {
	if delegate == "" {
		delegate = DefaultDelegate
	}

	doc, err := ir.DecodeYAML(data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: err.Error(), File: filename}
	}
	if ir.IsNull(doc) {
		return nil, nil
	}
	obj, ok := doc.(ir.IRObject)
	if !ok {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("expected a mapping at top level, got %s", ir.KindOf(doc)), File: filename}
	}

	root, ok := obj.Get(delegate)
	if !ok {
		return nil, nil
	}
	defs, ok := root.(ir.IRObject)
	if !ok {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf("%s must be a mapping of tables", delegate), File: filename}
	}

	tables := make([]Table, 0, len(defs))
	for _, pair := range defs {
		t, err := tableFromIR(pair.Key, pair.Value, filename)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeInvalid, Message: err.Error(), File: filename}
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// cueToIR converts a concrete CUE value to an IRValue, keeping field order.
func cueToIR(v cue.Value) (ir.IRValue, error) {
	if err := v.Err(); err != nil {
		return nil, err
	}
	switch v.Kind() {
	case cue.NullKind:
		return ir.IRNull{}, nil
	case cue.BoolKind:
		b, err := v.Bool()
		return ir.IRBool(b), err
	case cue.IntKind:
		n, err := v.Int64()
		return ir.IRInt(n), err
	case cue.FloatKind:
		f, err := v.Float64()
		return ir.IRFloat(f), err
	case cue.StringKind:
		s, err := v.String()
		return ir.IRString(s), err
	case cue.ListKind:
		list, err := v.List()
		if err != nil {
			return nil, err
		}
		arr := ir.IRArray{}
		for list.Next() {
			elem, err := cueToIR(list.Value())
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
		return arr, nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, err
		}
		obj := ir.IRObject{}
		for iter.Next() {
			elem, err := cueToIR(iter.Value())
			if err != nil {
				return nil, err
			}
			obj = append(obj, ir.IRPair{Key: iter.Label(), Value: elem})
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("%s: value must be concrete, got %s", v.Pos(), v.IncompleteKind())
	}
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error, filename string) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: ErrCodeParse, Message: err.Error(), File: filename}
	}

	// Return first error with position info
	firstErr := errs[0]
	le := &LoadError{Code: ErrCodeParse, Message: firstErr.Error(), File: filename}
	if positions := cueerrors.Positions(firstErr); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}

// tableFromIR builds a Table from its decoded definition.
func tableFromIR(label string, v ir.IRValue, source string) (Table, error) {
	obj, ok := v.(ir.IRObject)
	if !ok {
		return Table{}, fmt.Errorf("table %q: definition must be a mapping, got %s", label, ir.KindOf(v))
	}

	t := Table{Delegate: DelegateName(label), Source: source}
	for _, pair := range obj {
		var err error
		switch pair.Key {
		case "table":
			t.Name, err = stringField(label, pair)
		case "name", "description":
			t.Description, err = stringField(label, pair)
		case "db":
			t.DB, err = stringField(label, pair)
		case "option":
			t.Option, err = stringField(label, pair)
		case "column":
			t.Columns, err = columnsFromIR(label, pair.Value)
		case "index":
			t.Indexes, err = indexesFromIR(label, pair.Value)
		default:
			err = fmt.Errorf("table %q: unknown field %q", label, pair.Key)
		}
		if err != nil {
			return Table{}, err
		}
	}

	if t.Name == "" {
		t.Name = t.Delegate
	}
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

func stringField(label string, pair ir.IRPair) (string, error) {
	switch s := pair.Value.(type) {
	case ir.IRString:
		return string(s), nil
	case ir.IRNull:
		return "", nil
	default:
		return "", fmt.Errorf("table %q: %s must be a string, got %s", label, pair.Key, ir.KindOf(pair.Value))
	}
}

func columnsFromIR(label string, v ir.IRValue) ([]Column, error) {
	obj, ok := v.(ir.IRObject)
	if !ok {
		return nil, fmt.Errorf("table %q: column must be a mapping of name to definition", label)
	}
	cols := make([]Column, 0, len(obj))
	for _, pair := range obj {
		def, ok := pair.Value.(ir.IRString)
		if !ok {
			return nil, fmt.Errorf("table %q column %q: definition must be a string, got %s", label, pair.Key, ir.KindOf(pair.Value))
		}
		cols = append(cols, Column{Name: pair.Key, Definition: string(def)})
	}
	return cols, nil
}

func indexesFromIR(label string, v ir.IRValue) ([]Index, error) {
	obj, ok := v.(ir.IRObject)
	if !ok {
		return nil, fmt.Errorf("table %q: index must be a mapping of name to index", label)
	}
	indexes := make([]Index, 0, len(obj))
	for _, pair := range obj {
		def, ok := pair.Value.(ir.IRObject)
		if !ok {
			return nil, fmt.Errorf("table %q index %q: must be a mapping", label, pair.Key)
		}
		idx := Index{Name: pair.Key}
		for _, f := range def {
			switch f.Key {
			case "type":
				s, ok := f.Value.(ir.IRString)
				if !ok {
					return nil, fmt.Errorf("table %q index %q: type must be a string", label, pair.Key)
				}
				idx.Type = IndexType(strings.ToLower(string(s)))
			case "key":
				keys, err := keysFromIR(f.Value)
				if err != nil {
					return nil, fmt.Errorf("table %q index %q: %w", label, pair.Key, err)
				}
				idx.Keys = keys
			case "using":
				s, ok := f.Value.(ir.IRString)
				if !ok {
					return nil, fmt.Errorf("table %q index %q: using must be a string", label, pair.Key)
				}
				idx.Using = string(s)
			default:
				return nil, fmt.Errorf("table %q index %q: unknown field %q", label, pair.Key, f.Key)
			}
		}
		indexes = append(indexes, idx)
	}
	return indexes, nil
}

// keysFromIR accepts a single column name or a list of names.
func keysFromIR(v ir.IRValue) ([]string, error) {
	switch val := v.(type) {
	case ir.IRString:
		return []string{string(val)}, nil
	case ir.IRArray:
		keys := make([]string, 0, len(val))
		for _, elem := range val {
			s, ok := elem.(ir.IRString)
			if !ok {
				return nil, fmt.Errorf("key must list column names, got %s", ir.KindOf(elem))
			}
			keys = append(keys, string(s))
		}
		return keys, nil
	default:
		return nil, fmt.Errorf("key must be a column name or a list of names, got %s", ir.KindOf(v))
	}
}
