package queryir

import (
	"fmt"

	"github.com/roach88/whereql/internal/ir"
)

// Logic selects how sibling predicates are combined.
type Logic int

const (
	// And combines siblings with AND. It is the zero value.
	And Logic = iota
	// Or combines siblings with OR.
	Or
)

// String returns the SQL keyword for the logic.
func (l Logic) String() string {
	if l == Or {
		return "OR"
	}
	return "AND"
}

// Operator is a comparison operator in its SQL spelling.
type Operator string

const (
	Eq    Operator = "="
	Neq   Operator = "!="
	Lt    Operator = "<"
	Gt    Operator = ">"
	Lte   Operator = "<="
	Gte   Operator = ">="
	Like  Operator = "LIKE"
	In    Operator = "IN"
	NotIn Operator = "NOT IN"
)

// Operators lists every supported operator.
var Operators = []Operator{Eq, Neq, Lt, Gt, Lte, Gte, Like, In, NotIn}

// Valid reports whether o is one of the supported operators.
func (o Operator) Valid() bool {
	for _, op := range Operators {
		if o == op {
			return true
		}
	}
	return false
}

// IsMembership reports whether o compares against a list (IN, NOT IN).
func (o Operator) IsMembership() bool {
	return o == In || o == NotIn
}

// IsOrdering reports whether o is one of <, >, <=, >=.
func (o Operator) IsOrdering() bool {
	switch o {
	case Lt, Gt, Lte, Gte:
		return true
	}
	return false
}

// Predicate represents a filter condition.
//
// This is a sealed interface - only types in this package implement it.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Comparison is a leaf predicate: <column> <operator> <value>.
//
// Example:
//
//	Comparison{Column: "age", Operator: Gte, Value: ir.IRInt(18)}
//
// Translates to SQL:
//
//	`age` >= ?
type Comparison struct {
	Column   string
	Operator Operator
	Value    ir.IRValue
}

func (Comparison) predicateNode() {}

// String renders the comparison for diagnostics.
func (c Comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.Column, c.Operator, ir.Render(c.Value))
}

// Group is an ordered list of predicates combined by Logic.
//
// Semantics:
//
//	<item1> <logic> <item2> <logic> ... <itemN>
//
// An empty group applies nothing (no filtering).
type Group struct {
	Logic Logic
	Items []Predicate
}

func (Group) predicateNode() {}

// Raw is a literal SQL fragment passed through unmodified.
type Raw struct {
	SQL string
}

func (Raw) predicateNode() {}

// Func is an opaque caller-provided predicate. Applying it hands the sink to
// the callback.
type Func func(Sink)

func (Func) predicateNode() {}

// IsComposed reports whether p is applied as a nested predicate rather than
// as a column/operator/value triple.
func IsComposed(p Predicate) bool {
	switch p.(type) {
	case Comparison, *Comparison:
		return false
	default:
		return true
	}
}

// NewComparison is a shorthand for building a Comparison.
func NewComparison(column string, op Operator, value ir.IRValue) Comparison {
	return Comparison{Column: column, Operator: op, Value: value}
}

// AllOf returns an AND group of items.
func AllOf(items ...Predicate) Group {
	return Group{Logic: And, Items: items}
}

// AnyOf returns an OR group of items.
func AnyOf(items ...Predicate) Group {
	return Group{Logic: Or, Items: items}
}
