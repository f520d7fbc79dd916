package querysql

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dialect selects identifier quoting, placeholders and upsert syntax.
type Dialect string

const (
	SQLite   Dialect = "sqlite3"
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
)

// ParseDialect resolves a dialect name. Common aliases are accepted.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "mysql", "mysql2", "mariadb":
		return MySQL, nil
	case "postgres", "postgresql", "pg", "pgx":
		return Postgres, nil
	default:
		return "", fmt.Errorf("unsupported dialect %q (expected sqlite3, mysql or postgres)", name)
	}
}

// Quote quotes an identifier. Dotted references quote each part and "*"
// is left as is.
//
//	MySQL.Quote("u.name") == "`u`.`name`"
//
// SQLite takes backticks too: a double-quoted name that matches no column
// is read as a string literal there, so a typo would not fail.
func (d Dialect) Quote(ident string) string {
	parts := strings.Split(ident, ".")
	for i, p := range parts {
		if p == "*" {
			continue
		}
		parts[i] = d.quotePart(p)
	}
	return strings.Join(parts, ".")
}

func (d Dialect) quotePart(p string) string {
	if d != Postgres {
		return "`" + strings.ReplaceAll(p, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
}

// Placeholder returns the bind marker for the n-th parameter (1-based).
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Literal renders a parameter value as an SQL literal. Used only for
// display (Inline mode), never for execution.
func (d Dialect) Literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return "'" + val.UTC().Format("2006-01-02 15:04:05.999999") + "'"
	default:
		return d.Literal(fmt.Sprint(val))
	}
}

// args collects parameters in textual order, shared by every scope of one
// statement so placeholder numbering stays global.
type args struct {
	dialect Dialect
	inline  bool
	values  []any
}

// add records v and returns the text to splice into the statement.
func (a *args) add(v any) string {
	if a.inline {
		return a.dialect.Literal(v)
	}
	a.values = append(a.values, v)
	return a.dialect.Placeholder(len(a.values))
}
