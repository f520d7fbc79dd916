package queryir

import "github.com/roach88/whereql/internal/ir"

// Sink receives the calls produced by applying a predicate.
//
// Where and OrWhere add a comparison combined with AND or OR respectively.
// WhereGroup and OrWhereGroup add a nested predicate as a parenthesized
// sub-scope; implementations open the scope and call Apply(p, scope).
// WhereRaw adds a literal fragment.
//
// A Sink is stateful and must not be driven by two applications at once.
type Sink interface {
	Where(column string, op Operator, value ir.IRValue)
	OrWhere(column string, op Operator, value ir.IRValue)
	WhereGroup(p Predicate)
	OrWhereGroup(p Predicate)
	WhereRaw(fragment string)
}

// Apply drives sink with the calls described by p.
//
// A Group emits one call per item in order: comparisons through
// Where/OrWhere, composed items through WhereGroup/OrWhereGroup, choosing
// the OR entry points when the group's logic is Or. A Comparison applied on
// its own is AND-combined. A nil predicate applies nothing.
func Apply(p Predicate, sink Sink) {
	switch pred := p.(type) {
	case nil:
		return
	case Comparison:
		sink.Where(pred.Column, pred.Operator, pred.Value)
	case *Comparison:
		sink.Where(pred.Column, pred.Operator, pred.Value)
	case Group:
		applyGroup(pred, sink)
	case *Group:
		applyGroup(*pred, sink)
	case Raw:
		sink.WhereRaw(pred.SQL)
	case *Raw:
		sink.WhereRaw(pred.SQL)
	case Func:
		if pred != nil {
			pred(sink)
		}
	}
}

func applyGroup(g Group, sink Sink) {
	for _, item := range g.Items {
		switch it := item.(type) {
		case Comparison:
			applyComparison(it, g.Logic, sink)
		case *Comparison:
			applyComparison(*it, g.Logic, sink)
		default:
			if g.Logic == Or {
				sink.OrWhereGroup(item)
			} else {
				sink.WhereGroup(item)
			}
		}
	}
}

func applyComparison(c Comparison, logic Logic, sink Sink) {
	if logic == Or {
		sink.OrWhere(c.Column, c.Operator, c.Value)
		return
	}
	sink.Where(c.Column, c.Operator, c.Value)
}
