package queryir

import (
	"testing"

	"github.com/roach88/whereql/internal/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyAndGroup(t *testing.T) {
	p := AllOf(
		NewComparison("a", Eq, ir.IRInt(1)),
		NewComparison("b", Neq, ir.IRInt(2)),
	)

	calls := Record(p)

	assert.Equal(t, []Call{
		{Method: "where", Column: "a", Operator: Eq, Value: ir.IRInt(1)},
		{Method: "where", Column: "b", Operator: Neq, Value: ir.IRInt(2)},
	}, calls)
}

func TestApplyOrGroupUsesOrEntryPoints(t *testing.T) {
	p := AnyOf(
		NewComparison("a", Eq, ir.IRInt(1)),
		AllOf(
			NewComparison("b", Gt, ir.IRInt(2)),
			NewComparison("c", Lt, ir.IRInt(3)),
		),
	)

	calls := Record(p)

	require.Len(t, calls, 2)
	assert.Equal(t, "orWhere", calls[0].Method)
	assert.Equal(t, "orWhereGroup", calls[1].Method)
	assert.Equal(t, []Call{
		{Method: "where", Column: "b", Operator: Gt, Value: ir.IRInt(2)},
		{Method: "where", Column: "c", Operator: Lt, Value: ir.IRInt(3)},
	}, calls[1].Nested)
}

func TestApplyLeafAndRaw(t *testing.T) {
	assert.Equal(t, []Call{{Method: "where", Column: "a", Operator: In, Value: ir.IRArray{ir.IRInt(1)}}},
		Record(NewComparison("a", In, ir.IRArray{ir.IRInt(1)})))

	assert.Equal(t, []Call{{Method: "whereRaw", SQL: "id > 10"}}, Record(Raw{SQL: "id > 10"}))
}

func TestApplyFuncHandsOverSink(t *testing.T) {
	var seen Sink
	fn := Func(func(s Sink) {
		seen = s
		s.Where("x", Eq, ir.IRString("y"))
	})

	r := &Recorder{}
	Apply(fn, r)

	assert.Same(t, r, seen)
	assert.Len(t, r.Calls, 1)
}

func TestApplyComposedItemsInsideGroup(t *testing.T) {
	p := AllOf(
		Raw{SQL: "deleted_at IS NULL"},
		Func(func(s Sink) { s.Where("z", Eq, ir.IRInt(0)) }),
	)

	calls := Record(p)

	require.Len(t, calls, 2)
	assert.Equal(t, "whereGroup", calls[0].Method)
	assert.Equal(t, []Call{{Method: "whereRaw", SQL: "deleted_at IS NULL"}}, calls[0].Nested)
	assert.Equal(t, "whereGroup", calls[1].Method)
	assert.Equal(t, "z", calls[1].Nested[0].Column)
}

func TestApplyNilAndEmpty(t *testing.T) {
	assert.Empty(t, Record(nil))
	assert.Empty(t, Record(Group{}))
	assert.Empty(t, Record(Func(nil)))
}

func TestApplyPreservesOrder(t *testing.T) {
	items := make([]Predicate, 0, 10)
	for i := 0; i < 10; i++ {
		items = append(items, NewComparison("c", Eq, ir.IRInt(int64(i))))
	}

	calls := Record(AllOf(items...))

	require.Len(t, calls, 10)
	for i, c := range calls {
		assert.Equal(t, ir.IRInt(int64(i)), c.Value)
	}
}

func TestFormatCalls(t *testing.T) {
	p := AnyOf(
		NewComparison("a", Eq, ir.IRInt(1)),
		AllOf(
			NewComparison("b", In, ir.IRArray{ir.IRInt(2), ir.IRInt(3)}),
			Raw{SQL: "c IS NULL"},
		),
	)

	expected := "orWhere(a, =, 1)\n" +
		"orWhereGroup {\n" +
		"  where(b, IN, [2,3])\n" +
		"  whereGroup {\n" +
		"    whereRaw(\"c IS NULL\")\n" +
		"  }\n" +
		"}\n"
	assert.Equal(t, expected, FormatCalls(Record(p)))
}
