package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/whereql/internal/ir"
	"github.com/roach88/whereql/internal/queryir"
	"github.com/roach88/whereql/internal/querysql"
	"github.com/roach88/whereql/internal/schema"
	"github.com/roach88/whereql/internal/where"
)

// Executor runs statements. *sql.DB, *sql.Tx and *sql.Conn implement it.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Result reports the outcome of a write. Values a driver does not support
// are left zero.
type Result struct {
	RowsAffected int64 `json:"rows_affected"`
	LastInsertID int64 `json:"last_insert_id,omitempty"`
}

// Dao runs statements against one table.
type Dao struct {
	table    schema.Table
	db       *sql.DB
	ex       Executor
	compiler *querysql.Compiler
	logger   *slog.Logger
}

// Option configures a Dao.
type Option func(*Dao)

// WithLogger sets the logger used for statement and DDL logging.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dao) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a Dao for table on db.
func New(db *sql.DB, dialect querysql.Dialect, table schema.Table, opts ...Option) *Dao {
	d := &Dao{
		table:    table,
		db:       db,
		ex:       db,
		compiler: querysql.NewCompiler(dialect),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the SQL table name.
func (d *Dao) Name() string {
	if d.table.Name != "" {
		return d.table.Name
	}
	return d.table.Delegate
}

// Table returns the table definition.
func (d *Dao) Table() schema.Table {
	return d.table
}

// Dialect returns the SQL dialect.
func (d *Dao) Dialect() querysql.Dialect {
	return d.compiler.Dialect
}

// DB returns the database the Dao was created on.
func (d *Dao) DB() *sql.DB {
	return d.db
}

// WithTx returns a copy of d that runs its statements on tx.
func (d *Dao) WithTx(tx *sql.Tx) *Dao {
	cp := *d
	cp.ex = tx
	return &cp
}

// BeginTx starts a transaction on the bound database.
func (d *Dao) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	if d.db == nil {
		return nil, &Error{Code: ErrCodeNoTransaction, Table: d.Name(), Message: "dao has no database"}
	}
	return d.db.BeginTx(ctx, opts)
}

// RunInTx calls fn with a Dao bound to a new transaction, committing when fn
// returns nil and rolling back otherwise. A Dao that already runs on a
// transaction passes itself to fn.
func (d *Dao) RunInTx(ctx context.Context, fn func(*Dao) error) error {
	if _, ok := d.ex.(*sql.Tx); ok {
		return fn(d)
	}
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(d.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Insert inserts rows. The column list is the union of the rows' keys.
func (d *Dao) Insert(ctx context.Context, rows ...ir.IRObject) (Result, error) {
	st, err := d.compiler.Insert(d.Name(), rows)
	if err != nil {
		return Result{}, d.writeError(err)
	}
	return d.execResult(ctx, "insert", st)
}

// Upsert inserts rows, updating update (default: every inserted column) on a
// conflict over conflict. MySQL resolves conflicts by its own keys and
// ignores conflict.
func (d *Dao) Upsert(ctx context.Context, rows []ir.IRObject, conflict []string, update ...string) (Result, error) {
	st, err := d.compiler.Upsert(d.Name(), rows, conflict, update)
	if err != nil {
		return Result{}, d.writeError(err)
	}
	return d.execResult(ctx, "upsert", st)
}

// Delete deletes the rows matching filter and returns how many were removed.
func (d *Dao) Delete(ctx context.Context, filter any) (int64, error) {
	p, err := compile(filter)
	if err != nil {
		return 0, err
	}
	st, err := d.compiler.Delete(d.Name(), p)
	if err != nil {
		return 0, err
	}
	res, err := d.execResult(ctx, "delete", st)
	return res.RowsAffected, err
}

// Update sets the columns of example on the rows matching filter. A column
// whose value is {"$inc": n} is incremented by n instead.
func (d *Dao) Update(ctx context.Context, example ir.IRObject, filter any) (int64, error) {
	set, inc, err := splitIncrements(d.Name(), example)
	if err != nil {
		return 0, err
	}
	p, err := compile(filter)
	if err != nil {
		return 0, err
	}
	st, err := d.compiler.Update(d.Name(), set, inc, p)
	if err != nil {
		return 0, err
	}
	res, err := d.execResult(ctx, "update", st)
	return res.RowsAffected, err
}

// UpdateAndFind runs Update and then selects the rows matching filter, in
// one transaction.
func (d *Dao) UpdateAndFind(ctx context.Context, example ir.IRObject, filter any) ([]ir.IRObject, error) {
	var rows []ir.IRObject
	err := d.RunInTx(ctx, func(tx *Dao) error {
		if _, err := tx.Update(ctx, example, filter); err != nil {
			return err
		}
		var err error
		rows, err = tx.Select(ctx, filter, querysql.SelectOptions{})
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Select returns the rows matching filter.
func (d *Dao) Select(ctx context.Context, filter any, opts querysql.SelectOptions) ([]ir.IRObject, error) {
	st, err := d.Query(filter, opts)
	if err != nil {
		return nil, err
	}
	return d.queryRows(ctx, "select", st)
}

// First returns the first row matching filter, or a NO_RESULTS error.
func (d *Dao) First(ctx context.Context, filter any, opts querysql.SelectOptions) (ir.IRObject, error) {
	one := 1
	opts.Limit = &one
	rows, err := d.Select(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &Error{Code: ErrCodeNoResults, Table: d.Name(), Message: "no row matches"}
	}
	return rows[0], nil
}

// Count returns the number of rows matching filter.
func (d *Dao) Count(ctx context.Context, filter any) (int64, error) {
	p, err := compile(filter)
	if err != nil {
		return 0, err
	}
	st, err := d.compiler.Count(d.Name(), p)
	if err != nil {
		return 0, err
	}

	id, start := queryID(), time.Now()
	rows, err := d.ex.QueryContext(ctx, st.SQL, st.Args...)
	d.logStatement(ctx, "count", id, st, start, err)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		return 0, &Error{Code: ErrCodeNoResults, Table: d.Name(), Message: "count returned no row"}
	}
	var n int64
	if err := rows.Scan(&n); err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return n, rows.Err()
}

// Query compiles a SELECT for filter without running it.
func (d *Dao) Query(filter any, opts querysql.SelectOptions) (querysql.Statement, error) {
	p, err := compile(filter)
	if err != nil {
		return querysql.Statement{}, err
	}
	return d.compiler.Select(d.Name(), p, opts)
}

// QueryRaw runs a raw query and returns its rows.
func (d *Dao) QueryRaw(ctx context.Context, query string, args ...any) ([]ir.IRObject, error) {
	return d.queryRows(ctx, "raw", querysql.Statement{SQL: query, Args: args})
}

// ExecRaw runs a raw statement.
func (d *Dao) ExecRaw(ctx context.Context, query string, args ...any) (Result, error) {
	return d.execResult(ctx, "raw", querysql.Statement{SQL: query, Args: args})
}

func compile(filter any) (queryir.Predicate, error) {
	p, err := where.CompileAny(filter)
	if err != nil {
		return nil, fmt.Errorf("parse where: %w", err)
	}
	return p, nil
}

func (d *Dao) writeError(err error) error {
	if errors.Is(err, querysql.ErrEmptyInsert) {
		return &Error{Code: ErrCodeEmptyInsert, Table: d.Name(), Message: "nothing to insert", Err: err}
	}
	return err
}

func (d *Dao) execResult(ctx context.Context, op string, st querysql.Statement) (Result, error) {
	id, start := queryID(), time.Now()
	res, err := d.ex.ExecContext(ctx, st.SQL, st.Args...)
	d.logStatement(ctx, op, id, st, start, err)
	if err != nil {
		return Result{}, err
	}

	var out Result
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	if d.Dialect() != querysql.Postgres {
		if n, err := res.LastInsertId(); err == nil {
			out.LastInsertID = n
		}
	}
	return out, nil
}

func (d *Dao) queryRows(ctx context.Context, op string, st querysql.Statement) ([]ir.IRObject, error) {
	id, start := queryID(), time.Now()
	rows, err := d.ex.QueryContext(ctx, st.SQL, st.Args...)
	d.logStatement(ctx, op, id, st, start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

func (d *Dao) logStatement(ctx context.Context, op, id string, st querysql.Statement, start time.Time, err error) {
	attrs := []any{
		"query_id", id,
		"table", d.Name(),
		"op", op,
		"sql", st.SQL,
		"args", len(st.Args),
		"elapsed", time.Since(start),
	}
	if err != nil {
		d.logger.DebugContext(ctx, "statement failed", append(attrs, "error", err)...)
		return
	}
	d.logger.DebugContext(ctx, "statement executed", attrs...)
}

func queryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// scanRows reads every row into an IRObject keyed by column name.
func scanRows(rows *sql.Rows) ([]ir.IRObject, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	out := []ir.IRObject{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(ir.IRObject, len(cols))
		for i, col := range cols {
			row[i] = ir.IRPair{Key: col, Value: ir.FromColumn(vals[i])}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
