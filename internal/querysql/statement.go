package querysql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/whereql/internal/ir"
	"github.com/roach88/whereql/internal/queryir"
)

// ErrEmptyInsert is returned when an insert or upsert has no rows or no
// columns.
var ErrEmptyInsert = errors.New("insert requires at least one row with at least one column")

// ErrEmptyUpdate is returned when an update sets nothing.
var ErrEmptyUpdate = errors.New("update requires at least one column to set or increment")

// Statement is a rendered SQL statement with its parameters.
type Statement struct {
	SQL  string `json:"sql"`
	Args []any  `json:"args"`
}

// String returns the SQL text.
func (s Statement) String() string {
	return s.SQL
}

// Order is one ORDER BY term.
type Order struct {
	Column string
	Desc   bool
}

// ParseOrder parses "a, b desc" into order terms.
func ParseOrder(s string) ([]Order, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []Order
	for _, term := range strings.Split(s, ",") {
		fields := strings.Fields(term)
		switch len(fields) {
		case 1:
			out = append(out, Order{Column: fields[0]})
		case 2:
			switch strings.ToLower(fields[1]) {
			case "asc":
				out = append(out, Order{Column: fields[0]})
			case "desc":
				out = append(out, Order{Column: fields[0], Desc: true})
			default:
				return nil, fmt.Errorf("invalid order direction %q", fields[1])
			}
		default:
			return nil, fmt.Errorf("invalid order term %q", strings.TrimSpace(term))
		}
	}
	return out, nil
}

// SelectOptions controls the projection and paging of a SELECT.
type SelectOptions struct {
	// Fields lists the selected columns; empty means "*".
	Fields []string

	// Limit caps the number of rows; nil means no limit.
	Limit *int

	// Offset skips rows; nil means no offset.
	Offset *int

	Order []Order
}

// Compiler renders statements for one dialect.
type Compiler struct {
	Dialect Dialect

	// Inline renders values as literals instead of placeholders. The output
	// is meant for display and must not be executed.
	Inline bool
}

// NewCompiler creates a Compiler for d.
func NewCompiler(d Dialect) *Compiler {
	return &Compiler{Dialect: d}
}

func (c *Compiler) newArgs() *args {
	return &args{dialect: c.Dialect, inline: c.Inline}
}

// where renders " WHERE ..." for p using a, or "" when p applies nothing.
func (c *Compiler) where(a *args, p queryir.Predicate) (string, error) {
	var err error
	b := &Builder{args: a, err: &err}
	b.WhereGroup(p)
	sql, _, err := b.SQL()
	if err != nil {
		return "", fmt.Errorf("compile where: %w", err)
	}
	if sql == "" {
		return "", nil
	}
	return " WHERE " + sql, nil
}

// Where renders only the condition fragment for p.
func (c *Compiler) Where(p queryir.Predicate) (Statement, error) {
	a := c.newArgs()
	var err error
	b := &Builder{args: a, err: &err}
	b.WhereGroup(p)
	sql, params, err := b.SQL()
	if err != nil {
		return Statement{}, err
	}
	return Statement{SQL: sql, Args: params}, nil
}

// Select renders SELECT <fields> FROM <table> [WHERE] [ORDER BY] [LIMIT/OFFSET].
func (c *Compiler) Select(table string, p queryir.Predicate, opts SelectOptions) (Statement, error) {
	a := c.newArgs()

	whereSQL, err := c.where(a, p)
	if err != nil {
		return Statement{}, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(c.fields(opts.Fields))
	sb.WriteString(" FROM ")
	sb.WriteString(c.Dialect.Quote(table))
	sb.WriteString(whereSQL)

	if len(opts.Order) > 0 {
		terms := make([]string, len(opts.Order))
		for i, o := range opts.Order {
			terms[i] = c.Dialect.Quote(o.Column)
			if o.Desc {
				terms[i] += " DESC"
			} else {
				terms[i] += " ASC"
			}
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(terms, ", "))
	}

	sb.WriteString(c.paging(a, opts.Limit, opts.Offset))

	return Statement{SQL: sb.String(), Args: a.values}, nil
}

// paging renders LIMIT/OFFSET. SQLite and MySQL need a LIMIT before OFFSET.
func (c *Compiler) paging(a *args, limit, offset *int) string {
	var sb strings.Builder
	switch {
	case limit != nil:
		sb.WriteString(" LIMIT ")
		sb.WriteString(a.add(int64(*limit)))
	case offset != nil && c.Dialect == SQLite:
		sb.WriteString(" LIMIT -1")
	case offset != nil && c.Dialect == MySQL:
		sb.WriteString(" LIMIT 18446744073709551615")
	}
	if offset != nil {
		sb.WriteString(" OFFSET ")
		sb.WriteString(a.add(int64(*offset)))
	}
	return sb.String()
}

// fields renders a projection list. Expressions containing "(" are kept
// verbatim and "col as alias" is split into a quoted alias.
func (c *Compiler) fields(fields []string) string {
	if len(fields) == 0 {
		return "*"
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		switch {
		case f == "*" || strings.Contains(f, "("):
			out = append(out, f)
		default:
			lower := strings.ToLower(f)
			if idx := strings.Index(lower, " as "); idx > 0 {
				out = append(out, c.Dialect.Quote(strings.TrimSpace(f[:idx]))+" AS "+c.Dialect.Quote(strings.TrimSpace(f[idx+4:])))
				continue
			}
			out = append(out, c.Dialect.Quote(f))
		}
	}
	return strings.Join(out, ", ")
}

// Count renders SELECT COUNT(*) AS count FROM <table> [WHERE].
func (c *Compiler) Count(table string, p queryir.Predicate) (Statement, error) {
	a := c.newArgs()
	whereSQL, err := c.where(a, p)
	if err != nil {
		return Statement{}, err
	}
	sql := fmt.Sprintf("SELECT COUNT(*) AS %s FROM %s%s", c.Dialect.Quote("count"), c.Dialect.Quote(table), whereSQL)
	return Statement{SQL: sql, Args: a.values}, nil
}

// Delete renders DELETE FROM <table> [WHERE].
func (c *Compiler) Delete(table string, p queryir.Predicate) (Statement, error) {
	a := c.newArgs()
	whereSQL, err := c.where(a, p)
	if err != nil {
		return Statement{}, err
	}
	return Statement{SQL: "DELETE FROM " + c.Dialect.Quote(table) + whereSQL, Args: a.values}, nil
}

// Update renders UPDATE <table> SET col = ?, inc = inc + ? [WHERE].
// set holds plain assignments, inc holds numeric increments.
func (c *Compiler) Update(table string, set, inc ir.IRObject, p queryir.Predicate) (Statement, error) {
	if len(set) == 0 && len(inc) == 0 {
		return Statement{}, ErrEmptyUpdate
	}
	a := c.newArgs()

	assignments := make([]string, 0, len(set)+len(inc))
	for _, pair := range set {
		param, err := columnParam(pair.Value)
		if err != nil {
			return Statement{}, fmt.Errorf("column %q: %w", pair.Key, err)
		}
		assignments = append(assignments, c.Dialect.Quote(pair.Key)+" = "+a.add(param))
	}
	for _, pair := range inc {
		param, err := ir.ToParam(pair.Value)
		if err != nil {
			return Statement{}, fmt.Errorf("increment %q: %w", pair.Key, err)
		}
		col := c.Dialect.Quote(pair.Key)
		assignments = append(assignments, col+" = "+col+" + "+a.add(param))
	}

	whereSQL, err := c.where(a, p)
	if err != nil {
		return Statement{}, err
	}

	sql := "UPDATE " + c.Dialect.Quote(table) + " SET " + strings.Join(assignments, ", ") + whereSQL
	return Statement{SQL: sql, Args: a.values}, nil
}

// Insert renders a multi-row INSERT. The column list is the union of the
// rows' keys in first-seen order; a row missing a column inserts NULL.
func (c *Compiler) Insert(table string, rows []ir.IRObject) (Statement, error) {
	a := c.newArgs()
	cols, values, err := c.insertBody(a, rows)
	if err != nil {
		return Statement{}, err
	}
	sql := "INSERT INTO " + c.Dialect.Quote(table) + " (" + c.quoteList(cols) + ") VALUES " + values
	return Statement{SQL: sql, Args: a.values}, nil
}

// Upsert renders an INSERT that updates on conflict.
//
// SQLite and PostgreSQL use ON CONFLICT (<conflict>) DO UPDATE; MySQL uses
// ON DUPLICATE KEY UPDATE and ignores conflict. update lists the columns
// overwritten on conflict; empty means every inserted column.
func (c *Compiler) Upsert(table string, rows []ir.IRObject, conflict, update []string) (Statement, error) {
	a := c.newArgs()
	cols, values, err := c.insertBody(a, rows)
	if err != nil {
		return Statement{}, err
	}
	if len(update) == 0 {
		update = cols
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(c.Dialect.Quote(table))
	sb.WriteString(" (")
	sb.WriteString(c.quoteList(cols))
	sb.WriteString(") VALUES ")
	sb.WriteString(values)

	if c.Dialect == MySQL {
		sets := make([]string, len(update))
		for i, col := range update {
			q := c.Dialect.Quote(col)
			sets[i] = q + " = VALUES(" + q + ")"
		}
		sb.WriteString(" ON DUPLICATE KEY UPDATE ")
		sb.WriteString(strings.Join(sets, ", "))
		return Statement{SQL: sb.String(), Args: a.values}, nil
	}

	if len(conflict) == 0 {
		return Statement{}, fmt.Errorf("upsert on %s requires conflict columns", c.Dialect)
	}
	sets := make([]string, len(update))
	for i, col := range update {
		q := c.Dialect.Quote(col)
		sets[i] = q + " = excluded." + q
	}
	sb.WriteString(" ON CONFLICT (")
	sb.WriteString(c.quoteList(conflict))
	sb.WriteString(") DO UPDATE SET ")
	sb.WriteString(strings.Join(sets, ", "))
	return Statement{SQL: sb.String(), Args: a.values}, nil
}

// insertBody returns the column list and the VALUES tuples.
func (c *Compiler) insertBody(a *args, rows []ir.IRObject) ([]string, string, error) {
	var cols []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, pair := range row {
			if !seen[pair.Key] {
				seen[pair.Key] = true
				cols = append(cols, pair.Key)
			}
		}
	}
	if len(cols) == 0 {
		return nil, "", ErrEmptyInsert
	}

	tuples := make([]string, len(rows))
	for i, row := range rows {
		marks := make([]string, len(cols))
		for j, col := range cols {
			v, ok := row.Get(col)
			if !ok {
				v = ir.IRNull{}
			}
			param, err := columnParam(v)
			if err != nil {
				return nil, "", fmt.Errorf("row %d column %q: %w", i, col, err)
			}
			marks[j] = a.add(param)
		}
		tuples[i] = "(" + strings.Join(marks, ", ") + ")"
	}
	return cols, strings.Join(tuples, ", "), nil
}

func (c *Compiler) quoteList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = c.Dialect.Quote(col)
	}
	return strings.Join(quoted, ", ")
}

// columnParam converts a stored column value. Lists and mappings are stored
// as JSON text.
func columnParam(v ir.IRValue) (any, error) {
	switch v.(type) {
	case ir.IRArray, ir.IRObject:
		data, err := ir.MarshalIRValue(v)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	}
	return ir.ToParam(v)
}
