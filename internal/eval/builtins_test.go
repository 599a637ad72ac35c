package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/jqx/internal/value"
)

func Test_Builtins_len(t *testing.T) {
	tests := []struct {
		name string
		dot  string
		want string
	}{
		{"array", `[1,2,3]`, "3"},
		{"string", `"abc"`, "3"},
		{"object", `{"a":1,"b":2}`, "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := run(t, tt.dot, "len")
			assert.Equal(t, tt.want, got.MarshalIndent(""))
		})
	}
}

func Test_Builtins_entries_and_todict_roundtrip(t *testing.T) {
	entries := run(t, `{"a":1,"b":2}`, "entries")
	assert.Equal(t, `[["a",1],["b",2]]`, entries.MarshalIndent(""))

	back, err := biToDict(entries)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2}`, back.MarshalIndent(""))
}

func Test_Builtins_keys_values(t *testing.T) {
	keys := run(t, `{"a":1,"b":2}`, "keys")
	assert.Equal(t, `["a","b"]`, keys.MarshalIndent(""))

	values := run(t, `{"a":1,"b":2}`, "values")
	assert.Equal(t, `[1,2]`, values.MarshalIndent(""))
}

func Test_Builtins_sum(t *testing.T) {
	got := run(t, `[1,2,3.5]`, "sum")
	assert.Equal(t, "6.5", got.MarshalIndent(""))
}

func Test_Builtins_split_dual_mode(t *testing.T) {
	got := run(t, `"a-b-c"`, `split "-"`)
	assert.Equal(t, `["a","b","c"]`, got.MarshalIndent(""))

	got = run(t, `"a  b\tc"`, "split")
	assert.Equal(t, `["a","b","c"]`, got.MarshalIndent(""))
}

func Test_Builtins_trim_lower_upper(t *testing.T) {
	assert.Equal(t, `"hi"`, run(t, `"  hi  "`, "trim").MarshalIndent(""))
	assert.Equal(t, `"hi"`, run(t, `"HI"`, "lower").MarshalIndent(""))
	assert.Equal(t, `"HI"`, run(t, `"hi"`, "upper").MarshalIndent(""))
}

func Test_Builtins_flatten(t *testing.T) {
	got := run(t, `[[1,2],3,[4]]`, "flatten")
	assert.Equal(t, `[1,2,3,4]`, got.MarshalIndent(""))
}

func Test_Builtins_all_any(t *testing.T) {
	assert.Equal(t, "true", run(t, `[true,true]`, "all").MarshalIndent(""))
	assert.Equal(t, "false", run(t, `[true,false]`, "all").MarshalIndent(""))
	assert.Equal(t, "true", run(t, `[false,true]`, "any").MarshalIndent(""))
	assert.Equal(t, "false", run(t, `[false,false]`, "any").MarshalIndent(""))
}

func Test_Builtins_combinations(t *testing.T) {
	got := run(t, `[[1,2],[3,4]]`, "combinations")
	assert.Equal(t, `[[1,3],[1,4],[2,3],[2,4]]`, got.MarshalIndent(""))
}

func Test_Builtins_zip(t *testing.T) {
	got := run(t, `[[1,2,3],[4,5]]`, "zip")
	assert.Equal(t, `[[1,4],[2,5]]`, got.MarshalIndent(""))
}

func Test_Builtins_joinlines(t *testing.T) {
	got := run(t, `["a","b"]`, "joinlines")
	assert.Equal(t, "a\nb\n", got.String())

	got = run(t, `[]`, "joinlines")
	assert.Equal(t, "", got.String())
}

func Test_Builtins_recursivemap(t *testing.T) {
	got := run(t, `[1,[2,3],{"a":4}]`, "recursivemap . * 10")
	assert.Equal(t, `[10,[20,30],{"a":40}]`, got.MarshalIndent(""))
}

func Test_Builtins_recursiveflatten(t *testing.T) {
	got := run(t, `[1,[2,[3,4]],5]`, "recursiveflatten .")
	assert.Equal(t, `[1,2,3,4,5]`, got.MarshalIndent(""))
}

func Test_Builtins_number(t *testing.T) {
	got := run(t, `"3.5"`, "number")
	assert.Equal(t, "3.5", got.MarshalIndent(""))
}

func Test_Builtins_env(t *testing.T) {
	t.Setenv("JQX_BUILTIN_TEST_VAR", "hello")
	got := run(t, `null`, "env")
	require.Equal(t, value.Object, got.Kind())
	v, ok := got.Object().Get("JQX_BUILTIN_TEST_VAR")
	require.True(t, ok)
	assert.Equal(t, "hello", v.String())
}
