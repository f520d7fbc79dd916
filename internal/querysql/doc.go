// Package querysql renders predicates and statements to parameterized SQL.
//
// Builder is a queryir.Sink: applying a predicate to it produces a WHERE
// fragment with nested groups in parentheses. Compiler wraps the builder
// into full statements (SELECT, COUNT, INSERT, UPDATE, DELETE, upsert and
// CREATE TABLE) for one Dialect.
//
// CRITICAL: values are parameterized, never interpolated, unless the
// Compiler is explicitly switched to Inline mode for display.
package querysql
