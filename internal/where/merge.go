package where

import "github.com/roach88/whereql/internal/queryir"

// merge combines resolved items under logic.
//
// A single item is returned as-is when it is composed or when isSub is set;
// every other case yields a Group that applies the items in order.
func merge(items []queryir.Predicate, logic queryir.Logic, isSub bool) queryir.Predicate {
	if len(items) == 1 {
		if item := items[0]; isSub || queryir.IsComposed(item) {
			return item
		}
	}
	return queryir.Group{Logic: logic, Items: items}
}
