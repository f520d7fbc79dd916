package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/whereql/internal/ir"
	"github.com/roach88/whereql/internal/queryir"
)

// clause is one rendered condition and the connector placed before it.
type clause struct {
	logic queryir.Logic
	sql   string
}

// Builder is a queryir.Sink rendering a parenthesized WHERE fragment.
//
// Nested groups share the parameter list of their parent, so placeholders
// are numbered in the order they appear in the text. The first render error
// is kept and reported by SQL.
type Builder struct {
	args    *args
	clauses []clause
	err     *error
}

// NewBuilder creates a Builder with its own parameter list.
func NewBuilder(d Dialect) *Builder {
	var err error
	return &Builder{args: &args{dialect: d}, err: &err}
}

// child returns an empty scope sharing b's parameters and error.
func (b *Builder) child() *Builder {
	return &Builder{args: b.args, err: b.err}
}

func (b *Builder) fail(err error) {
	if *b.err == nil {
		*b.err = err
	}
}

// Where adds an AND-combined comparison.
func (b *Builder) Where(column string, op queryir.Operator, value ir.IRValue) {
	b.addComparison(queryir.And, column, op, value)
}

// OrWhere adds an OR-combined comparison.
func (b *Builder) OrWhere(column string, op queryir.Operator, value ir.IRValue) {
	b.addComparison(queryir.Or, column, op, value)
}

// WhereGroup adds an AND-combined nested predicate in parentheses.
func (b *Builder) WhereGroup(p queryir.Predicate) {
	b.addGroup(queryir.And, p)
}

// OrWhereGroup adds an OR-combined nested predicate in parentheses.
func (b *Builder) OrWhereGroup(p queryir.Predicate) {
	b.addGroup(queryir.Or, p)
}

// WhereRaw adds a literal fragment, AND-combined.
func (b *Builder) WhereRaw(fragment string) {
	if strings.TrimSpace(fragment) == "" {
		return
	}
	b.clauses = append(b.clauses, clause{logic: queryir.And, sql: fragment})
}

func (b *Builder) addGroup(logic queryir.Logic, p queryir.Predicate) {
	sub := b.child()
	queryir.Apply(p, sub)
	if len(sub.clauses) == 0 {
		return
	}
	b.clauses = append(b.clauses, clause{logic: logic, sql: "(" + sub.text() + ")"})
}

func (b *Builder) addComparison(logic queryir.Logic, column string, op queryir.Operator, value ir.IRValue) {
	sql, err := b.renderComparison(column, op, value)
	if err != nil {
		b.fail(err)
		return
	}
	b.clauses = append(b.clauses, clause{logic: logic, sql: sql})
}

// renderComparison renders one leaf.
func (b *Builder) renderComparison(column string, op queryir.Operator, value ir.IRValue) (string, error) {
	if !op.Valid() {
		return "", fmt.Errorf("column %q: unsupported operator %q", column, op)
	}
	col := b.args.dialect.Quote(column)

	if op.IsMembership() {
		list, ok := value.(ir.IRArray)
		if !ok {
			list = ir.IRArray{value}
		}
		if len(list) == 0 {
			if op == queryir.In {
				return "1 = 0", nil
			}
			return "1 = 1", nil
		}
		marks := make([]string, len(list))
		for i, elem := range list {
			param, err := ir.ToParam(elem)
			if err != nil {
				return "", fmt.Errorf("column %q %s list[%d]: %w", column, op, i, err)
			}
			marks[i] = b.args.add(param)
		}
		return fmt.Sprintf("%s %s (%s)", col, op, strings.Join(marks, ", ")), nil
	}

	switch value.(type) {
	case ir.IRArray:
		return "", fmt.Errorf("column %q: operator %s does not accept a list", column, op)
	case ir.IRObject:
		return "", fmt.Errorf("column %q: operator %s does not accept a mapping", column, op)
	}

	if ir.IsNull(value) {
		switch op {
		case queryir.Eq:
			return col + " IS NULL", nil
		case queryir.Neq:
			return col + " IS NOT NULL", nil
		}
	}

	param, err := ir.ToParam(value)
	if err != nil {
		return "", fmt.Errorf("column %q: %w", column, err)
	}
	return fmt.Sprintf("%s %s %s", col, op, b.args.add(param)), nil
}

// text joins the clauses of this scope. The first clause has no connector.
func (b *Builder) text() string {
	var sb strings.Builder
	for i, c := range b.clauses {
		if i > 0 {
			sb.WriteString(" ")
			sb.WriteString(c.logic.String())
			sb.WriteString(" ")
		}
		sb.WriteString(c.sql)
	}
	return sb.String()
}

// Empty reports whether nothing has been added.
func (b *Builder) Empty() bool {
	return len(b.clauses) == 0
}

// SQL returns the fragment built so far (without a WHERE keyword), its
// parameters and the first render error.
func (b *Builder) SQL() (string, []any, error) {
	if *b.err != nil {
		return "", nil, *b.err
	}
	return b.text(), b.args.values, nil
}

// Where renders p as a WHERE fragment for d.
//
// The predicate is applied as one nested group, so a non-empty result is
// always enclosed in parentheses:
//
//	{"a": 1, "b": 2}  →  ("a" = ? AND "b" = ?)
//
// An empty predicate yields "".
func Where(d Dialect, p queryir.Predicate) (string, []any, error) {
	b := NewBuilder(d)
	b.WhereGroup(p)
	return b.SQL()
}
