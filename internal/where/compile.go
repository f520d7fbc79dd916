package where

import (
	"fmt"

	"github.com/roach88/whereql/internal/ir"
	"github.com/roach88/whereql/internal/queryir"
)

const rootPath = "$"

// Compile turns a DSL value into a predicate.
//
//   - nil, IRNull and "" compile to an empty group (no filtering)
//   - IRString compiles to a raw fragment
//   - IRArray compiles each element as an AND-combined mapping
//   - IRObject compiles column, logic and judge keys
//
// Any other scalar is rejected with CodeNotAnObject. Compile is pure and
// safe for concurrent use.
func Compile(v ir.IRValue) (queryir.Predicate, error) {
	switch val := v.(type) {
	case nil, ir.IRNull:
		return queryir.Group{Logic: queryir.And}, nil
	case ir.IRString:
		if val == "" {
			return queryir.Group{Logic: queryir.And}, nil
		}
		return queryir.Raw{SQL: string(val)}, nil
	case ir.IRArray:
		return parseArray(val, queryir.And, false, rootPath)
	case ir.IRObject:
		return parseObject(val, queryir.And, false, rootPath)
	default:
		return nil, newParseError(CodeNotAnObject, rootPath, v,
			"where clause must be a mapping, a list, a string or null, got %s", ir.KindOf(v))
	}
}

// CompileAny is like Compile but also accepts predicates, sink callbacks and
// plain Go values.
//
// A queryir.Predicate is returned unchanged; a func(queryir.Sink) becomes a
// queryir.Func. Anything else is converted with ir.FromGo first. Go maps
// carry no key order, so their keys compile in sorted order.
func CompileAny(v any) (queryir.Predicate, error) {
	switch val := v.(type) {
	case queryir.Predicate:
		return val, nil
	case func(queryir.Sink):
		return queryir.Func(val), nil
	case ir.IRValue:
		return Compile(val)
	}

	irv, err := ir.FromGo(v)
	if err != nil {
		return nil, fmt.Errorf("convert where clause: %w", err)
	}
	return Compile(irv)
}

// CompileJSON decodes a JSON document, keeping key order, and compiles it.
func CompileJSON(data []byte) (queryir.Predicate, error) {
	v, err := ir.UnmarshalIRValue(data)
	if err != nil {
		return nil, fmt.Errorf("decode where clause: %w", err)
	}
	return Compile(v)
}

// CompileYAML decodes a YAML document, keeping key order, and compiles it.
func CompileYAML(data []byte) (queryir.Predicate, error) {
	v, err := ir.DecodeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("decode where clause: %w", err)
	}
	return Compile(v)
}

// MustCompile is like Compile but panics on error. Intended for literals in
// tests and package-level variables.
func MustCompile(v ir.IRValue) queryir.Predicate {
	p, err := Compile(v)
	if err != nil {
		panic(err)
	}
	return p
}
