package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/jqx/internal/ast"
)

func Test_Parse_echo(t *testing.T) {
	n, err := Parse(".")
	require.NoError(t, err)
	assert.Equal(t, ast.Echo{}, n)
}

func Test_Parse_field_access(t *testing.T) {
	n, err := Parse(".foo")
	require.NoError(t, err)
	assert.Equal(t, ast.Access{Target: ast.Echo{}, Field: "foo"}, n)
}

func Test_Parse_chained_access(t *testing.T) {
	n, err := Parse(".foo.bar")
	require.NoError(t, err)
	assert.Equal(t, ast.Access{
		Target: ast.Access{Target: ast.Echo{}, Field: "foo"},
		Field:  "bar",
	}, n)
}

func Test_Parse_index_and_slice(t *testing.T) {
	n, err := Parse(".[0]")
	require.NoError(t, err)
	idx, ok := n.(ast.Index)
	require.True(t, ok)
	assert.Equal(t, ast.Echo{}, idx.Target)
	assert.Equal(t, ast.NumberLit{Value: 0}, idx.Key)

	n, err = Parse(".[1:3]")
	require.NoError(t, err)
	sl, ok := n.(ast.Slice)
	require.True(t, ok)
	assert.Equal(t, ast.NumberLit{Value: 1}, sl.Start)
	assert.Equal(t, ast.NumberLit{Value: 3}, sl.End)
}

func Test_Parse_pipe_and_precedence(t *testing.T) {
	n, err := Parse(".a + .b | .c")
	require.NoError(t, err)
	pipe, ok := n.(ast.Pipe)
	require.True(t, ok)
	add, ok := pipe.Left.(ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "+", add.Op)
}

func Test_Parse_unary_and_no_arg_functions(t *testing.T) {
	n, err := Parse("map . + 1")
	require.NoError(t, err)
	fn, ok := n.(ast.UnaryFcn)
	require.True(t, ok)
	assert.Equal(t, "map", fn.Name)

	n, err = Parse("len")
	require.NoError(t, err)
	noarg, ok := n.(ast.NoArgFcn)
	require.True(t, ok)
	assert.Equal(t, "len", noarg.Name)
}

func Test_Parse_dual_mode_functions(t *testing.T) {
	n, err := Parse("sort")
	require.NoError(t, err)
	_, ok := n.(ast.NoArgFcn)
	require.True(t, ok)

	n, err = Parse("sort .x")
	require.NoError(t, err)
	_, ok = n.(ast.UnaryFcn)
	require.True(t, ok)
}

func Test_Parse_string_literal_escapes(t *testing.T) {
	n, err := Parse(`'line\nbreak'`)
	require.NoError(t, err)
	assert.Equal(t, ast.StringLit{Value: "line\nbreak"}, n)
}

func Test_Parse_format_string(t *testing.T) {
	n, err := Parse(`"hi {.name}!"`)
	require.NoError(t, err)
	fs, ok := n.(ast.FormatString)
	require.True(t, ok)
	require.Len(t, fs.Parts, 3)
	assert.Equal(t, "hi ", fs.Parts[0].Literal)
	assert.Equal(t, ast.Access{Target: ast.Echo{}, Field: "name"}, fs.Parts[1].Expr)
	assert.Equal(t, "!", fs.Parts[2].Literal)
}

func Test_Parse_array_and_dict_literals(t *testing.T) {
	n, err := Parse("[1, *.xs, 3]")
	require.NoError(t, err)
	arr, ok := n.(ast.Array)
	require.True(t, ok)
	require.Len(t, arr.Elements, 3)
	assert.True(t, arr.Elements[1].Spread)

	n, err = Parse(`{a: 1, -b, .c, *.rest}`)
	require.NoError(t, err)
	dict, ok := n.(ast.Dict)
	require.True(t, ok)
	require.Len(t, dict.Elements, 4)
	assert.Equal(t, ast.DictKV, dict.Elements[0].Kind)
	assert.Equal(t, ast.DictOmit, dict.Elements[1].Kind)
	assert.Equal(t, ast.DictAccessShortcut, dict.Elements[2].Kind)
	assert.Equal(t, ast.DictSpread, dict.Elements[3].Kind)
}

func Test_Parse_if_builtin_shape(t *testing.T) {
	n, err := Parse(`if {cond: . > 1, then: "big", else: "small"}`)
	require.NoError(t, err)
	fn, ok := n.(ast.UnaryFcn)
	require.True(t, ok)
	assert.Equal(t, "if", fn.Name)
	_, ok = fn.Arg.(ast.Dict)
	require.True(t, ok)
}

func Test_Parse_rejects_garbage(t *testing.T) {
	_, err := Parse("..")
	assert.Error(t, err)
}
