package queryir

import (
	"fmt"
	"strings"

	"github.com/roach88/whereql/internal/ir"
)

// ValidationResult contains the lint findings for a predicate.
//
// Findings describe shapes that compile and apply correctly but whose SQL
// meaning is easy to get wrong or differs between dialects.
type ValidationResult struct {
	// Clean is true when no warnings were produced.
	Clean bool

	// Warnings lists the findings in traversal order.
	Warnings []string
}

// Validate walks a predicate and reports dialect-sensitive shapes.
//
// Lint rules:
//  1. IN / NOT IN with a scalar - rendered as a one-element list
//  2. IN / NOT IN with an empty list - rendered as a constant condition
//  3. NULL with an operator other than = and != - never true in SQL
//  4. LIKE with a pattern lacking % or _ - behaves as equality
//  5. A list value with a non-membership operator - rejected when rendered
//  6. An empty group nested inside another group - contributes nothing
//
// Validate is a pure function with no side effects. Func predicates are
// opaque and are not inspected.
func Validate(p Predicate) ValidationResult {
	v := &validator{
		warnings: []string{},
	}
	v.validatePredicate(p, true)

	return ValidationResult{
		Clean:    len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

// addWarning appends a warning message.
func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

// validatePredicate recursively validates a predicate node.
func (v *validator) validatePredicate(p Predicate, root bool) {
	if p == nil {
		if !root {
			v.addWarning("nil predicate inside group")
		}
		return
	}

	switch pred := p.(type) {
	case Comparison:
		v.validateComparison(pred)
	case *Comparison:
		v.validateComparison(*pred)
	case Group:
		v.validateGroup(pred, root)
	case *Group:
		v.validateGroup(*pred, root)
	case Raw, *Raw, Func:
		// Opaque to the linter
	default:
		v.addWarning("Unknown predicate type: %T", p)
	}
}

// validateComparison validates a leaf comparison.
func (v *validator) validateComparison(c Comparison) {
	if !c.Operator.Valid() {
		v.addWarning("Column '%s' uses unknown operator %q", c.Column, c.Operator)
		return
	}

	arr, isList := c.Value.(ir.IRArray)

	if c.Operator.IsMembership() {
		switch {
		case !isList:
			v.addWarning("Column '%s' %s with a scalar - treated as a one-element list", c.Column, c.Operator)
		case len(arr) == 0:
			v.addWarning("Column '%s' %s with an empty list - condition is constant", c.Column, c.Operator)
		}
		for _, elem := range arr {
			if ir.IsNull(elem) {
				v.addWarning("Column '%s' %s list contains NULL - never matches", c.Column, c.Operator)
				break
			}
		}
		return
	}

	if isList {
		v.addWarning("Column '%s' compared with %s against a list - only IN and NOT IN accept lists", c.Column, c.Operator)
		return
	}

	if ir.IsNull(c.Value) && c.Operator != Eq && c.Operator != Neq {
		v.addWarning("Column '%s' compared to NULL with %s - never true", c.Column, c.Operator)
	}

	if c.Operator == Like {
		if s, ok := c.Value.(ir.IRString); ok && !strings.ContainsAny(string(s), "%_") {
			v.addWarning("Column '%s' LIKE pattern %q has no wildcard - behaves as equality", c.Column, string(s))
		}
	}
}

// validateGroup validates a group and all of its items.
func (v *validator) validateGroup(g Group, root bool) {
	if len(g.Items) == 0 && !root {
		v.addWarning("Empty %s group - contributes no condition", g.Logic)
	}
	for _, item := range g.Items {
		v.validatePredicate(item, false)
	}
}
