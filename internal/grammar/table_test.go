package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sumExprGrammar is a minimal left-recursive arithmetic grammar (E -> E +
// T | T, T -> NUM) used to exercise the table builder without pulling in
// the full jqx grammar.
func sumExprGrammar() Grammar {
	return Grammar{
		Start: "E",
		Rules: []Rule{
			{
				Name:  "E",
				Steps: []string{"E", "PLUS", "T"},
				Reduce: func(e []interface{}) interface{} {
					return e[0].(int) + e[2].(int)
				},
			},
			{
				Name:  "E",
				Steps: []string{"T"},
				Reduce: func(e []interface{}) interface{} {
					return e[0]
				},
			},
			{
				Name:  "T",
				Steps: []string{"NUM"},
				Reduce: func(e []interface{}) interface{} {
					return e[0]
				},
			},
		},
	}
}

func Test_Build_sum_expr(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tbl, err := Build(sumExprGrammar())
	require.NoError(err)
	require.NotNil(tbl)

	// state 0 must have a shift/goto row for NUM and for T, reachable
	// from the initial closure over E -> . E PLUS T / E -> . T / T -> . NUM
	_, ok := tbl.Action(0, "NUM")
	assert.True(ok, "expected an action for NUM in state 0")

	_, ok = tbl.Action(0, "T")
	assert.True(ok, "expected a goto action for T in state 0")
}

func Test_Build_rejects_ambiguous_grammar(t *testing.T) {
	require := require.New(t)

	// A grammar with a genuine reduce/reduce conflict: two distinct rules
	// for the same name whose tails are indistinguishable by lookahead.
	g := Grammar{
		Start: "S",
		Rules: []Rule{
			{Name: "S", Steps: []string{"A"}, Reduce: func(e []interface{}) interface{} { return e[0] }},
			{Name: "A", Steps: []string{"X"}, Reduce: func(e []interface{}) interface{} { return e[0] }},
			{Name: "A", Steps: []string{"X"}, Reduce: func(e []interface{}) interface{} { return e[0] }},
		},
	}

	_, err := Build(g)
	require.Error(err)
}

func Test_Table_String_does_not_panic(t *testing.T) {
	assert := assert.New(t)

	tbl, err := Build(sumExprGrammar())
	assert.NoError(err)
	assert.NotPanics(func() {
		_ = tbl.String()
	})
}
