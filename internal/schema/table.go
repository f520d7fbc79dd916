package schema

import (
	"fmt"
	"strings"
)

// IndexType is the kind of a table index.
type IndexType string

const (
	IndexPrimary IndexType = "primary"
	IndexUnique  IndexType = "unique"
	IndexNormal  IndexType = "normal"
)

// Column is a column name and its raw SQL definition.
type Column struct {
	Name       string `json:"name" yaml:"name"`
	Definition string `json:"definition" yaml:"definition"`
}

// Index is a named index over one or more columns.
type Index struct {
	Name  string    `json:"name" yaml:"name"`
	Type  IndexType `json:"type" yaml:"type"`
	Keys  []string  `json:"keys" yaml:"keys"`
	Using string    `json:"using,omitempty" yaml:"using,omitempty"`
}

// Table is the definition of one DAO's table.
type Table struct {
	// Delegate is the lower-cased DAO name the table is registered under.
	Delegate string `json:"delegate" yaml:"delegate"`

	// Name is the SQL table name. Defaults to Delegate.
	Name string `json:"name" yaml:"name"`

	// DB names the client this DAO binds to when several clients are
	// configured.
	DB string `json:"db,omitempty" yaml:"db,omitempty"`

	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Columns     []Column `json:"columns,omitempty" yaml:"columns,omitempty"`
	Indexes     []Index  `json:"indexes,omitempty" yaml:"indexes,omitempty"`

	// Option is appended verbatim after the column list in CREATE TABLE.
	Option string `json:"option,omitempty" yaml:"option,omitempty"`

	// Source is the file the table was loaded from.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// HasPrimaryKey reports whether the table declares a primary index.
func (t Table) HasPrimaryKey() bool {
	for _, idx := range t.Indexes {
		if idx.Type == IndexPrimary {
			return true
		}
	}
	return false
}

// HasColumns reports whether the definition is complete enough to create
// the table.
func (t Table) HasColumns() bool {
	return len(t.Columns) > 0
}

// Column returns the named column.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Validate checks index types and that every index key names a declared
// column.
func (t Table) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("table %q: name is required", t.Delegate)
	}
	primaries := 0
	for _, idx := range t.Indexes {
		switch idx.Type {
		case IndexPrimary:
			primaries++
		case IndexUnique, IndexNormal:
		default:
			return fmt.Errorf("table %q index %q: unknown type %q (expected primary, unique or normal)", t.Delegate, idx.Name, idx.Type)
		}
		if len(idx.Keys) == 0 {
			return fmt.Errorf("table %q index %q: key is required", t.Delegate, idx.Name)
		}
		for _, k := range idx.Keys {
			if _, ok := t.Column(k); !ok && len(t.Columns) > 0 {
				return fmt.Errorf("table %q index %q: key %q is not a declared column", t.Delegate, idx.Name, k)
			}
		}
	}
	if primaries > 1 {
		return fmt.Errorf("table %q: more than one primary index", t.Delegate)
	}
	return nil
}

// DelegateName normalizes a DAO name the way loaded definitions are keyed.
func DelegateName(label string) string {
	return strings.ToLower(label)
}
