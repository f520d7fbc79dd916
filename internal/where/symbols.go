package where

import "github.com/roach88/whereql/internal/queryir"

// keyClass is the three-way classification of a mapping key.
type keyClass int

const (
	columnKey keyClass = iota
	logicKey
	judgeKey
)

func (k keyClass) String() string {
	switch k {
	case logicKey:
		return "logic symbol"
	case judgeKey:
		return "judge symbol"
	default:
		return "column"
	}
}

var logicSymbols = map[string]queryir.Logic{
	"$and": queryir.And,
	"$or":  queryir.Or,
}

var judgeSymbols = map[string]queryir.Operator{
	"$eq":   queryir.Eq,
	"$neq":  queryir.Neq,
	"$lt":   queryir.Lt,
	"$gt":   queryir.Gt,
	"$lte":  queryir.Lte,
	"$gte":  queryir.Gte,
	"$like": queryir.Like,
	"$in":   queryir.In,
	"$nin":  queryir.NotIn,
}

// classify returns the class of key. Any key outside both symbol tables is
// a column name.
func classify(key string) keyClass {
	if _, ok := logicSymbols[key]; ok {
		return logicKey
	}
	if _, ok := judgeSymbols[key]; ok {
		return judgeKey
	}
	return columnKey
}

// LogicFor returns the logic named by a logic symbol such as "$or".
func LogicFor(symbol string) (queryir.Logic, bool) {
	l, ok := logicSymbols[symbol]
	return l, ok
}

// OperatorFor returns the operator named by a judge symbol such as "$gte".
func OperatorFor(symbol string) (queryir.Operator, bool) {
	op, ok := judgeSymbols[symbol]
	return op, ok
}

// IsSymbol reports whether key is a logic or judge symbol.
func IsSymbol(key string) bool {
	return classify(key) != columnKey
}
