// Package ir provides the value model for whereql's filter DSL.
//
// A filter is an untyped tree of scalars, sequences and mappings. This package
// gives that tree a closed Go representation so the compiler in internal/where
// can dispatch on it with exhaustive type switches instead of runtime property
// lookups.
//
// This package contains value definitions and codecs only. All other internal
// packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - IRObject is ORDERED. Key order is part of the filter's meaning because the
//     compiler emits predicates left to right.
//   - Object keys are unique and NFC normalized at every decode boundary.
//   - Values are read-only once built. Helpers that "modify" an object return a
//     copy.
//   - Go maps carry no order, so FromGo sorts their keys (UTF-16 code units,
//     RFC 8785) to keep conversion deterministic.
package ir
