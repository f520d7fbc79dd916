package dao

import (
	"context"
	"fmt"
)

// AutoCreateTable creates the table and its indexes from the definition.
//
// A definition without columns is skipped. A table that already exists is
// logged as a warning and is not an error.
func (d *Dao) AutoCreateTable(ctx context.Context) error {
	if !d.table.HasColumns() {
		d.logger.DebugContext(ctx, "no columns defined, skipping create", "table", d.Name())
		return nil
	}
	if !d.table.HasPrimaryKey() {
		d.logger.WarnContext(ctx, "table has no primary key", "table", d.Name())
	}

	stmts, err := d.compiler.CreateTable(d.table)
	if err != nil {
		return fmt.Errorf("create table %s: %w", d.Name(), err)
	}
	for i, st := range stmts {
		if _, err := d.execResult(ctx, "create", st); err != nil {
			if i == 0 && IsTableExists(err) {
				d.logger.WarnContext(ctx, "table already exists", "table", d.Name())
				return nil
			}
			d.logger.ErrorContext(ctx, "create table failed", "table", d.Name(), "error", err)
			return fmt.Errorf("create table %s: %w", d.Name(), err)
		}
	}
	d.logger.InfoContext(ctx, "table created", "table", d.Name(), "statements", len(stmts))
	return nil
}
