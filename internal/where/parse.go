package where

import (
	"strconv"

	"github.com/roach88/whereql/internal/ir"
	"github.com/roach88/whereql/internal/queryir"
)

// parseObject resolves every key of a mapping and merges the results under
// logic. Column keys compare, logic keys open a nested scope, judge keys are
// rejected.
func parseObject(v ir.IRValue, logic queryir.Logic, isSub bool, path string) (queryir.Predicate, error) {
	obj, ok := v.(ir.IRObject)
	if !ok {
		return nil, newParseError(CodeNotAnObject, path, v, "expected a mapping, got %s", ir.KindOf(v))
	}

	items := make([]queryir.Predicate, 0, len(obj))
	for _, pair := range obj {
		keyPath := joinKey(path, pair.Key)

		switch classify(pair.Key) {
		case judgeKey:
			return nil, newParseError(CodeMalformedObject, path, obj,
				"judge symbol %q is only allowed directly under a column", pair.Key)

		case logicKey:
			nested := logicSymbols[pair.Key]
			var (
				item queryir.Predicate
				err  error
			)
			switch pair.Value.(type) {
			case ir.IRArray:
				item, err = parseArray(pair.Value, nested, true, keyPath)
			case ir.IRObject:
				item, err = parseObject(pair.Value, nested, true, keyPath)
			default:
				err = newParseError(CodeNotAnObject, keyPath, pair.Value,
					"logic symbol %q requires a mapping or a list, got %s", pair.Key, ir.KindOf(pair.Value))
			}
			if err != nil {
				return nil, err
			}
			items = append(items, item)

		default:
			item, err := parseColumn(pair.Key, pair.Value, logic, keyPath)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
	}

	return merge(items, logic, isSub), nil
}

// parseColumn resolves a column key found directly in an object scope.
func parseColumn(column string, v ir.IRValue, logic queryir.Logic, path string) (queryir.Predicate, error) {
	switch val := v.(type) {
	case ir.IRObject:
		return parseValue(column, val, logic, false, path)
	case ir.IRArray:
		if err := checkList(column, val, path); err != nil {
			return nil, err
		}
		return queryir.NewComparison(column, queryir.In, val), nil
	default:
		return queryir.NewComparison(column, queryir.Eq, normalizeScalar(v)), nil
	}
}

// parseValue resolves the constraints placed on a single column.
//
// A list compares each element: mappings recurse, lists mean membership and
// scalars mean equality. A mapping holds judge symbols (terminal
// comparisons) and logic symbols (recursion with a new logic). scoped is set
// once the value was reached through a logic symbol; a column name found
// there is a MalformedObject, while one found directly in the column's
// operator-mapping is a MalformedValue.
func parseValue(column string, v ir.IRValue, logic queryir.Logic, scoped bool, path string) (queryir.Predicate, error) {
	var items []queryir.Predicate

	switch val := v.(type) {
	case ir.IRArray:
		items = make([]queryir.Predicate, 0, len(val))
		for i, elem := range val {
			elemPath := joinIndex(path, i)
			switch e := elem.(type) {
			case ir.IRObject:
				item, err := parseValue(column, e, logic, true, elemPath)
				if err != nil {
					return nil, err
				}
				items = append(items, item)
			case ir.IRArray:
				if err := checkList(column, e, elemPath); err != nil {
					return nil, err
				}
				items = append(items, queryir.NewComparison(column, queryir.In, e))
			default:
				items = append(items, queryir.NewComparison(column, queryir.Eq, normalizeScalar(elem)))
			}
		}

	case ir.IRObject:
		items = make([]queryir.Predicate, 0, len(val))
		for _, pair := range val {
			keyPath := joinKey(path, pair.Key)

			switch classify(pair.Key) {
			case logicKey:
				switch pair.Value.(type) {
				case ir.IRArray, ir.IRObject:
				default:
					return nil, newParseError(CodeNotAnObject, keyPath, pair.Value,
						"logic symbol %q requires a mapping or a list, got %s", pair.Key, ir.KindOf(pair.Value))
				}
				item, err := parseValue(column, pair.Value, logicSymbols[pair.Key], true, keyPath)
				if err != nil {
					return nil, err
				}
				items = append(items, item)

			case judgeKey:
				item, err := parseJudge(column, judgeSymbols[pair.Key], pair.Value, keyPath)
				if err != nil {
					return nil, err
				}
				items = append(items, item)

			default:
				if scoped {
					return nil, newParseError(CodeMalformedObject, path, val,
						"column %q is not allowed under a logic symbol scoped to column %q", pair.Key, column)
				}
				return nil, newParseError(CodeMalformedValue, path, val,
					"key %q under column %q is neither a logic nor a judge symbol", pair.Key, column)
			}
		}

	default:
		return nil, newParseError(CodeNotAnObject, path, v,
			"constraints for column %q must be a mapping or a list, got %s", column, ir.KindOf(v))
	}

	return merge(items, logic, true), nil
}

// parseJudge builds the terminal comparison for a judge symbol.
func parseJudge(column string, op queryir.Operator, v ir.IRValue, path string) (queryir.Predicate, error) {
	switch val := v.(type) {
	case ir.IRObject:
		return nil, newParseError(CodeMalformedValue, path, v,
			"operand of %s on column %q must not be a mapping", op, column)
	case ir.IRArray:
		if err := checkList(column, val, path); err != nil {
			return nil, err
		}
		return queryir.NewComparison(column, op, val), nil
	default:
		return queryir.NewComparison(column, op, normalizeScalar(v)), nil
	}
}

// parseArray resolves each element as a mapping combined under AND and
// merges the elements under logic.
func parseArray(v ir.IRValue, logic queryir.Logic, isSub bool, path string) (queryir.Predicate, error) {
	arr, ok := v.(ir.IRArray)
	if !ok {
		return nil, newParseError(CodeNotAnArray, path, v, "expected a list, got %s", ir.KindOf(v))
	}

	items := make([]queryir.Predicate, 0, len(arr))
	for i, elem := range arr {
		item, err := parseObject(elem, queryir.And, true, joinIndex(path, i))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return merge(items, logic, isSub), nil
}

// checkList rejects membership lists holding mappings or lists.
func checkList(column string, arr ir.IRArray, path string) error {
	for i, elem := range arr {
		if !ir.IsScalar(elem) {
			return newParseError(CodeMalformedValue, joinIndex(path, i), elem,
				"membership list for column %q must hold scalars, got %s", column, ir.KindOf(elem))
		}
	}
	return nil
}

func normalizeScalar(v ir.IRValue) ir.IRValue {
	if v == nil {
		return ir.IRNull{}
	}
	return v
}

func joinKey(path, key string) string {
	if isPlainKey(key) {
		return path + "." + key
	}
	return path + "[" + strconv.Quote(key) + "]"
}

func joinIndex(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func isPlainKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
