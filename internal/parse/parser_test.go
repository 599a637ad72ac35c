package parse

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/dekarrin/jqx/internal/grammar"
	"github.com/dekarrin/jqx/internal/lex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumExprTable(t *testing.T) *grammar.Table {
	t.Helper()

	g := grammar.Grammar{
		Start: "E",
		Rules: []grammar.Rule{
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
					n, err := strconv.Atoi(e[0].(string))
					if err != nil {
						panic(err)
					}
					return n
				},
			},
		},
	}

	tbl, err := grammar.Build(g)
	require.NoError(t, err)
	return tbl
}

func sumExprLexer(text string) *lex.Lexer {
	defs := []lex.Def{
		{Name: "NUM", Pattern: regexp.MustCompile(`[0-9]+`)},
		{Name: "PLUS", Pattern: regexp.MustCompile(`\+`)},
	}
	return lex.New(defs, regexp.MustCompile(`[ \t\r\n]*`), text)
}

func Test_Parser_sums_left_to_right(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect int
	}{
		{"single number", "4", 4},
		{"one plus", "1+2", 3},
		{"chained plus", "1 + 2 + 3", 6},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			tbl := sumExprTable(t)
			p := New(tbl, sumExprLexer(tc.input))

			result, err := p.Parse()
			require.NoError(err)
			assert.Equal(tc.expect, result)
		})
	}
}

func Test_Parser_errors_on_unexpected_token(t *testing.T) {
	require := require.New(t)

	tbl := sumExprTable(t)
	p := New(tbl, sumExprLexer("1++2"))

	_, err := p.Parse()
	require.Error(err)
}
