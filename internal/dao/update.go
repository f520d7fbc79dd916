package dao

import (
	"github.com/roach88/whereql/internal/ir"
)

// incKey marks an increment in an update example: {"visits": {"$inc": 1}}.
const incKey = "$inc"

// splitIncrements separates plain assignments from $inc increments.
// Object values without $inc are plain assignments.
func splitIncrements(table string, example ir.IRObject) (set, inc ir.IRObject, err error) {
	for _, pair := range example {
		obj, ok := pair.Value.(ir.IRObject)
		if !ok {
			set = append(set, pair)
			continue
		}
		n, ok := obj.Get(incKey)
		if !ok {
			set = append(set, pair)
			continue
		}
		switch n.(type) {
		case ir.IRInt, ir.IRFloat:
			inc = append(inc, ir.IRPair{Key: pair.Key, Value: n})
		default:
			return nil, nil, &Error{
				Code:    ErrCodeInvalidIncrement,
				Table:   table,
				Message: "column " + pair.Key + ": $inc takes a number, got " + ir.KindOf(n),
			}
		}
	}
	return set, inc, nil
}
