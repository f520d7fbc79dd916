// Package queryir defines the predicate tree produced by the where-clause
// compiler and the sink protocol used to apply it.
//
// ARCHITECTURE:
//
// The predicate tree sits between the DSL compiler and whatever consumes the
// conditions:
//
//	[where DSL] → [Predicate] → Apply → [Sink]
//	                                     ├─ querysql.Builder (SQL text)
//	                                     └─ Recorder (call trace)
//
// A sink receives five kinds of calls: an AND-combined comparison, an
// OR-combined comparison, an AND-combined nested predicate, an OR-combined
// nested predicate and a raw fragment. A nested predicate is opened by the
// sink as a parenthesized sub-scope that is driven by Apply again.
//
// SEALED INTERFACES:
//
// Predicate is a sealed interface using the marker method pattern. Only
// Comparison, Group, Raw and Func implement it, so sinks and backends can
// rely on exhaustive type switches:
//
//	switch p := pred.(type) {
//	case Comparison:
//	    // leaf
//	case Group:
//	    // composed, combined by p.Logic
//	case Raw:
//	    // literal fragment
//	case Func:
//	    // caller-provided callback
//	}
//
// Every variant other than Comparison is composed: it is applied through the
// sink's group entry points rather than as a column/operator/value triple.
//
// VALUES:
//
// Comparison values are ir.IRValue. IN and NOT IN carry an ir.IRArray (or a
// single scalar, treated as a one-element list by the SQL backend).
package queryir
