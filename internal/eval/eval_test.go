package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/jqx/internal/lang"
	"github.com/dekarrin/jqx/internal/value"
)

func run(t *testing.T, dotJSON, query string) value.Value {
	t.Helper()
	dot := value.NullValue
	if dotJSON != "" {
		var err error
		dot, err = value.Parse(dotJSON)
		require.NoError(t, err)
	}
	n, err := lang.Parse(query)
	require.NoError(t, err)
	v, err := Eval(dot, n)
	require.NoError(t, err)
	return v
}

func Test_Eval_end_to_end(t *testing.T) {
	tests := []struct {
		name    string
		dot     string
		query   string
		want    string // JSON form of the expected result
		isOut   bool
		outWant string
	}{
		{"field add", `{"a":1,"b":2}`, ".a + .b", "3", false, ""},
		{"filter then sum", `[1,2,3,4]`, "filter . > 2 | sum", "7", false, ""},
		{"map double", `[1,2,3]`, "map . * 2", "[2,4,6]", false, ""},
		{"slice", `[1,2,3,4,5]`, ".[1:3]", "[2,3]", false, ""},
		{"string slice", `"hello"`, ".[1:3]", `"el"`, false, ""},
		{"access with default", `{"a":null}`, ".a ?? 5", "5", false, ""},
		{"access present", `{"a":1}`, ".a ?? 5", "1", false, ""},
		{"index negative", `[1,2,3]`, ".[-1]", "3", false, ""},
		{"array literal with spread", `[1,2]`, "[0, *., 3]", "[0,1,2,3]", false, ""},
		{"dict literal kv", `{}`, `{x: 1, y: "z"}`, `{"x":1,"y":"z"}`, false, ""},
		{"dict access shortcut", `{"a":1,"b":2}`, "{.a}", `{"a":1}`, false, ""},
		{"dict spread", `{}`, `{*{"a":1}, b: 2}`, `{"a":1,"b":2}`, false, ""},
		{"format string", `{"name":"world"}`, `'hello {.name}'`, `"hello world"`, false, ""},
		{"out wraps", `1`, "out", "", true, "1"},
		{"join", `["a","b","c"]`, `join "-"`, `"a-b-c"`, false, ""},
		{"sort ascending", `[3,1,2]`, "sort", "[1,2,3]", false, ""},
		{"group", `[1,1,2,2,3]`, "group .", "[[1,1],[2,2],[3]]", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := run(t, tt.dot, tt.query)
			if tt.isOut {
				assert.True(t, got.IsOutput())
				unwrapped, ok := got.Unwrap()
				assert.True(t, ok)
				assert.Equal(t, tt.outWant, unwrapped.MarshalIndent(""))
				return
			}
			assert.Equal(t, tt.want, got.MarshalIndent(""))
		})
	}
}

func Test_Eval_pipe_is_transparent_to_output(t *testing.T) {
	got := run(t, `5`, ". | out | .")
	require.True(t, got.IsOutput())
	unwrapped, ok := got.Unwrap()
	require.True(t, ok)
	assert.Equal(t, "5", unwrapped.MarshalIndent(""))
}

func Test_Eval_access_on_null_short_circuits(t *testing.T) {
	got := run(t, `null`, ".a.b.c")
	assert.True(t, got.IsNull())
}

func Test_Eval_if_only_evaluates_taken_branch(t *testing.T) {
	got := run(t, `5`, `if {cond: . > 1, then: "big", else: 1/0}`)
	assert.Equal(t, `"big"`, got.MarshalIndent(""))

	got = run(t, `0`, `if {cond: . > 1, then: 1/0, else: "small"}`)
	assert.Equal(t, `"small"`, got.MarshalIndent(""))
}

func Test_Eval_not_dual_mode(t *testing.T) {
	got := run(t, `true`, "not")
	assert.Equal(t, "false", got.MarshalIndent(""))

	got = run(t, `5`, "not . > 10")
	assert.Equal(t, "true", got.MarshalIndent(""))
}

func Test_Eval_arithmetic_is_numeric_only(t *testing.T) {
	n, err := lang.Parse(`"a" + "b"`)
	require.NoError(t, err)
	_, err = Eval(value.NullValue, n)
	assert.Error(t, err)

	n, err = lang.Parse(`[1] + [2]`)
	require.NoError(t, err)
	_, err = Eval(value.NullValue, n)
	assert.Error(t, err)
}

func Test_Eval_division_by_zero_errors(t *testing.T) {
	n, err := lang.Parse("1 / 0")
	require.NoError(t, err)
	_, err = Eval(value.NullValue, n)
	assert.Error(t, err)
}
