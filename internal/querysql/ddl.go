package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/whereql/internal/schema"
)

// CreateTable renders the statements creating t.
//
// MySQL declares every index inline (PRIMARY KEY, UNIQUE KEY, KEY) with an
// optional USING clause. SQLite and PostgreSQL declare the primary key and
// unique constraints inline and create normal indexes with separate CREATE
// INDEX statements; USING is only honoured by PostgreSQL there.
func (c *Compiler) CreateTable(t schema.Table) ([]Statement, error) {
	if !t.HasColumns() {
		return nil, fmt.Errorf("table %q has no columns", t.Name)
	}

	items := make([]string, 0, len(t.Columns)+len(t.Indexes))
	for _, col := range t.Columns {
		items = append(items, c.Dialect.Quote(col.Name)+" "+col.Definition)
	}

	var extra []Statement
	for _, idx := range t.Indexes {
		keys := c.quoteList(idx.Keys)
		switch idx.Type {
		case schema.IndexPrimary:
			items = append(items, c.withUsing("PRIMARY KEY ("+keys+")", idx.Using))
		case schema.IndexUnique:
			if c.Dialect == MySQL {
				items = append(items, c.withUsing("UNIQUE KEY "+c.Dialect.Quote(idx.Name)+" ("+keys+")", idx.Using))
			} else {
				items = append(items, "CONSTRAINT "+c.Dialect.Quote(idx.Name)+" UNIQUE ("+keys+")")
			}
		case schema.IndexNormal:
			if c.Dialect == MySQL {
				items = append(items, c.withUsing("KEY "+c.Dialect.Quote(idx.Name)+" ("+keys+")", idx.Using))
				continue
			}
			sql := "CREATE INDEX " + c.Dialect.Quote(idx.Name) + " ON " + c.Dialect.Quote(t.Name)
			if c.Dialect == Postgres && idx.Using != "" {
				sql += " USING " + idx.Using
			}
			extra = append(extra, Statement{SQL: sql + " (" + keys + ")"})
		default:
			return nil, fmt.Errorf("table %q index %q: unknown type %q", t.Name, idx.Name, idx.Type)
		}
	}

	create := "CREATE TABLE " + c.Dialect.Quote(t.Name) + " (" + strings.Join(items, ", ") + ")"
	if opt := strings.TrimSpace(t.Option); opt != "" {
		create += " " + opt
	}

	return append([]Statement{{SQL: create}}, extra...), nil
}

func (c *Compiler) withUsing(sql, using string) string {
	if using == "" || c.Dialect != MySQL {
		return sql
	}
	return sql + " USING " + using
}
