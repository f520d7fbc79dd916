// Package store opens database clients and binds DAOs to them.
//
// A Client wraps one *sql.DB opened for a dialect:
//   - sqlite3 (github.com/mattn/go-sqlite3), with WAL and busy-timeout pragmas
//   - mysql (github.com/go-sql-driver/mysql), DSN validated by mysql.ParseDSN
//   - postgres (github.com/jackc/pgx/v5/stdlib), DSN validated by pgconn
//
// A Registry opens every client of a config.Config and loads each client's
// table definitions from its loader directory into one dao.Dao per table.
//
// # Multiple clients
//
// With several clients, a definition binds to the client named by its db
// field. Definitions naming another client are skipped; definitions without
// db are skipped with a warning.
package store
