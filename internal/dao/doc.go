// Package dao runs WHERE-DSL driven statements against one table.
//
// A Dao binds a schema.Table to a database/sql executor and a SQL dialect.
// Every operation that takes a filter accepts anything where.CompileAny
// understands: a DSL value, a compiled predicate, a raw SQL string or a
// func(queryir.Sink) callback.
//
// Rows come back as ir.IRObject values with keys in column order.
//
// Transactions follow database/sql: BeginTx opens one on the bound
// database, WithTx returns a copy of the Dao that runs on it, and RunInTx
// wraps a function in begin/commit/rollback.
package dao
