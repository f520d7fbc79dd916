package querysql

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/whereql/internal/where"
)

// ruleSheet holds the worked examples of the where-clause rules. Each one is
// rendered for every dialect and compared against testdata/golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/querysql -update
var ruleSheet = []struct {
	name string
	dsl  string
}{
	{"example01", `{"a": 1, "b": 2}`},
	{"example02", `{"$or": {"a": 1, "b": 2}}`},
	{"example03", `{"a": [1, 2, 3]}`},
	{"example04", `{
		"a": {"$eq": 1}, "b": {"$neq": 2}, "c": {"$lt": 3}, "d": {"$gt": 4},
		"e": {"$lte": 5}, "f": {"$gte": 6}, "g": {"$like": "%hello"},
		"h": {"$in": [7, 8]}, "i": {"$nin": [9, 10]}
	}`},
	{"example05", `{"a": {"$or": [1, 2, 3], "$and": [[1, 2, 3], 4, 5, [6, 7]]}}`},
	{"example06", `{"a": {"$or": [{"$lt": 3}, {"$gt": 6}]}}`},
	{"example07", `{"a": {"$or": {"$lt": 3, "$gt": 6, "$and": {"$gt": 3, "$lt": 6}}}}`},
	{"example08", `{"a": {"$or": {"$and": {"$and": {"$gt": 3, "$lt": 6}}}}}`},
	{"example09", `{"$or": [{"a": 1, "b": 2}, {"$or": {"a": {"$gt": 3}, "b": {"$lt": 4}}}]}`},
	{"example10", `{"$or": {"a": {"$or": {"$lte": 1, "$gte": 2}}, "b": 2}}`},
	{"example11", `{"$and": {
		"$or": [
			{"a": 1, "b": 2},
			{"a": 2, "b": 1},
			{"a": {"$gt": 3}, "b": {"$lt": 5}},
			{"a": {"$or": {"$gt": 100, "$lt": -100}}, "b": {"$gt": -100, "$lt": 100}}
		],
		"foo": 1
	}}`},
	{"example12", `[{"a": 1, "b": 2}, {"a": {"$gt": 3}, "b": {"$lt": 6}}, {"$or": {"a": 4, "b": 5}}]`},
}

func TestRuleSheetGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, ex := range ruleSheet {
		t.Run(ex.name, func(t *testing.T) {
			p, err := where.CompileJSON([]byte(ex.dsl))
			require.NoError(t, err)

			display := &Compiler{Dialect: MySQL, Inline: true}
			mysql, err := display.Where(p)
			require.NoError(t, err)

			sqlite, err := NewCompiler(SQLite).Where(p)
			require.NoError(t, err)

			postgres, err := NewCompiler(Postgres).Where(p)
			require.NoError(t, err)
			require.Equal(t, sqlite.Args, postgres.Args)

			args, err := json.Marshal(sqlite.Args)
			require.NoError(t, err)

			out := fmt.Sprintf("mysql:    %s\nsqlite3:  %s\npostgres: %s\nargs:     %s\n",
				mysql.SQL, sqlite.SQL, postgres.SQL, args)
			g.Assert(t, ex.name, []byte(out))
		})
	}
}
