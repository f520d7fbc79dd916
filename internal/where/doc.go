// Package where compiles the declarative where-clause DSL into a
// queryir.Predicate.
//
// A DSL value is a mapping, a list of mappings, a raw SQL string or null.
// Mapping keys fall into three classes:
//
//   - logic symbols: $and, $or
//   - judge symbols: $eq, $neq, $lt, $gt, $lte, $gte, $like, $in, $nin
//   - anything else is a column name
//
// Column keys compare the column against their value: a scalar means
// equality, a list means membership, a mapping holds judge and logic
// symbols scoped to that column. Logic keys scope their value (a mapping or
// a list) under AND or OR.
//
//	{"age": {"$gte": 18}, "$or": {"role": "admin", "owner": true}}
//
// compiles to
//
//	(`age` >= 18 AND (`role` = 'admin' OR `owner` = true))
//
// GRAMMAR RULES:
//
// Judge symbols are only legal directly under a column. Under a logic
// symbol that is itself scoped to a column, column names are illegal.
// Malformed input is always rejected with a *ParseError, never coerced.
//
// ELISION:
//
// A single resolved item is returned unwrapped when it is already composed
// or when it sits below the root. Only a lone comparison at the root is
// wrapped in a group, so redundant parentheses never appear.
//
// Compilation builds the whole tree before returning, so a sink never sees
// a call for input that later turns out to be malformed.
package where
