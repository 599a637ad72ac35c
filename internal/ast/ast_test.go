package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_node_types_satisfy_Expr(t *testing.T) {
	assert := assert.New(t)

	var nodes = []Expr{
		Echo{},
		NumberLit{Value: 4},
		StringLit{Value: "hi"},
		FormatString{Parts: []FormatPart{{Literal: "x"}, {Expr: Echo{}}}},
		Null{}, True{}, False{},
		Access{Target: Echo{}, Field: "a"},
		Index{Target: Echo{}, Key: NumberLit{Value: 0}},
		Slice{Target: Echo{}, Start: NumberLit{Value: 1}},
		Array{Elements: []ArrayElem{{Expr: Echo{}}, {Expr: Echo{}, Spread: true}}},
		Dict{Elements: []DictElem{
			{Kind: DictKV, Key: StringLit{Value: "a"}, Value: Echo{}},
			{Kind: DictSpread, Value: Echo{}},
			{Kind: DictOmit, Name: "a"},
			{Kind: DictAccessShortcut, Name: "a"},
		}},
		Pipe{Left: Echo{}, Right: Echo{}},
		UnaryFcn{Name: "map", Arg: Echo{}},
		NoArgFcn{Name: "len"},
		BinaryOp{Op: "+", Left: NumberLit{Value: 1}, Right: NumberLit{Value: 2}},
		Negate{Expr: NumberLit{Value: 1}},
	}

	for _, n := range nodes {
		assert.NotNil(n)
	}
}

func Test_Dict_elements_carry_expected_fields(t *testing.T) {
	assert := assert.New(t)

	d := Dict{Elements: []DictElem{
		{Kind: DictOmit, Name: "secret"},
	}}

	assert.Equal(DictOmit, d.Elements[0].Kind)
	assert.Equal("secret", d.Elements[0].Name)
}
