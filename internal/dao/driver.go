package dao

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

const (
	mysqlTableExists    = 1050
	postgresTableExists = "42P07"
)

// IsTableExists reports whether err is a driver error for creating a table
// or index that already exists.
func IsTableExists(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlTableExists
	}
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe.Code == postgresTableExists
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrError && strings.Contains(se.Error(), "already exists")
	}
	return false
}
