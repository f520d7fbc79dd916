package queryir

import (
	"fmt"
	"strings"

	"github.com/roach88/whereql/internal/ir"
)

// Call is one sink invocation captured by a Recorder.
type Call struct {
	Method   string     `json:"method"`
	Column   string     `json:"column,omitempty"`
	Operator Operator   `json:"operator,omitempty"`
	Value    ir.IRValue `json:"value,omitempty"`
	SQL      string     `json:"sql,omitempty"`
	Nested   []Call     `json:"nested,omitempty"`
}

// Recorder is a Sink that records every call, including the calls made
// inside nested groups.
type Recorder struct {
	Calls []Call
}

// Record applies p to a fresh Recorder and returns the captured calls.
func Record(p Predicate) []Call {
	r := &Recorder{}
	Apply(p, r)
	return r.Calls
}

func (r *Recorder) Where(column string, op Operator, value ir.IRValue) {
	r.Calls = append(r.Calls, Call{Method: "where", Column: column, Operator: op, Value: value})
}

func (r *Recorder) OrWhere(column string, op Operator, value ir.IRValue) {
	r.Calls = append(r.Calls, Call{Method: "orWhere", Column: column, Operator: op, Value: value})
}

func (r *Recorder) WhereGroup(p Predicate) {
	r.Calls = append(r.Calls, Call{Method: "whereGroup", Nested: Record(p)})
}

func (r *Recorder) OrWhereGroup(p Predicate) {
	r.Calls = append(r.Calls, Call{Method: "orWhereGroup", Nested: Record(p)})
}

func (r *Recorder) WhereRaw(fragment string) {
	r.Calls = append(r.Calls, Call{Method: "whereRaw", SQL: fragment})
}

// FormatCalls renders calls as an indented trace, one call per line.
//
//	where(a, =, 1)
//	orWhereGroup {
//	  where(b, >, 2)
//	}
func FormatCalls(calls []Call) string {
	var sb strings.Builder
	formatCalls(&sb, calls, 0)
	return sb.String()
}

func formatCalls(sb *strings.Builder, calls []Call, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, c := range calls {
		switch c.Method {
		case "whereGroup", "orWhereGroup":
			fmt.Fprintf(sb, "%s%s {\n", indent, c.Method)
			formatCalls(sb, c.Nested, depth+1)
			fmt.Fprintf(sb, "%s}\n", indent)
		case "whereRaw":
			fmt.Fprintf(sb, "%s%s(%q)\n", indent, c.Method, c.SQL)
		default:
			fmt.Fprintf(sb, "%s%s(%s, %s, %s)\n", indent, c.Method, c.Column, c.Operator, ir.Render(c.Value))
		}
	}
}
