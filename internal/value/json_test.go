package value

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse_preserves_key_order(t *testing.T) {
	v, err := Parse(`{"z":1,"a":2,"m":3}`)
	require.NoError(t, err)
	require.Equal(t, Object, v.Kind())
	assert.Equal(t, []string{"z", "a", "m"}, v.Object().Keys())
}

func Test_Parse_nested(t *testing.T) {
	v, err := Parse(`{"a":[1,2,{"b":true,"c":null}]}`)
	require.NoError(t, err)
	a, ok := v.Object().Get("a")
	require.True(t, ok)
	require.Equal(t, Array, a.Kind())
	require.Len(t, a.Array(), 3)

	last := a.Array()[2]
	require.Equal(t, Object, last.Kind())
	b, ok := last.Object().Get("b")
	require.True(t, ok)
	assert.Equal(t, BoolOf(true), b)
	c, ok := last.Object().Get("c")
	require.True(t, ok)
	assert.True(t, c.IsNull())
}

func Test_Parse_rejects_invalid_JSON(t *testing.T) {
	_, err := Parse(`{not valid}`)
	assert.Error(t, err)
}

func Test_MarshalIndent_compact_vs_pretty(t *testing.T) {
	v, err := Parse(`{"a":1,"b":[2,3]}`)
	require.NoError(t, err)

	compact := v.MarshalIndent("")
	assert.Equal(t, `{"a":1,"b":[2,3]}`, compact)

	pretty := v.MarshalIndent("  ")
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": [\n    2,\n    3\n  ]\n}", pretty)
}

func Test_MarshalIndent_integral_floats_have_no_trailing_point(t *testing.T) {
	assert.Equal(t, "5", NumberOf(5.0).MarshalIndent(""))
	assert.Equal(t, "5.5", NumberOf(5.5).MarshalIndent(""))
}

func Test_ReadAll_decodes_a_stream(t *testing.T) {
	vals, err := ReadAll(strings.NewReader(`1 2 "three"`))
	require.NoError(t, err)
	require.Len(t, vals, 3)
	assert.Equal(t, "1", vals[0].MarshalIndent(""))
	assert.Equal(t, "2", vals[1].MarshalIndent(""))
	assert.Equal(t, `"three"`, vals[2].MarshalIndent(""))
}

func Test_MarshalIndent_empty_array_and_object(t *testing.T) {
	assert.Equal(t, "[]", ArrayOf(nil).MarshalIndent("  "))
	assert.Equal(t, "{}", ObjectOf(nil).MarshalIndent("  "))
}
